package goir

import (
	"golang.org/x/tools/go/ssa"

	"github.com/arcana-lab/noelle-parallelcore/irmodel"
)

// function wraps an *ssa.Function as an irmodel.Function.
type function struct {
	ssaFn  *ssa.Function
	module *Module

	blocks []irmodel.Block
	args   []irmodel.Argument
}

// build populates blocks/args once, after the function is registered
// in the module's cache (so recursive references during construction
// resolve to this same instance rather than recursing forever).
func (f *function) build() {
	for _, p := range f.ssaFn.Params {
		f.args = append(f.args, f.module.resolveParameter(p))
	}
	for _, b := range f.ssaFn.Blocks {
		f.blocks = append(f.blocks, f.module.resolveBlock(b))
	}
}

func (f *function) Name() string                  { return f.ssaFn.String() }
func (f *function) Blocks() []irmodel.Block       { return f.blocks }
func (f *function) Arguments() []irmodel.Argument { return f.args }
func (f *function) EntryBlock() irmodel.Block {
	if len(f.blocks) == 0 {
		return nil
	}
	return f.blocks[0]
}

var _ irmodel.Function = (*function)(nil)
