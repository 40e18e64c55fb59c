package goir

import (
	"golang.org/x/tools/go/ssa"

	"github.com/arcana-lab/noelle-parallelcore/irmodel"
)

// value wraps any ssa.Value that is not itself an instruction or a
// parameter (constants, globals, free variables, first-class function
// references).
type value struct {
	ssaVal ssa.Value
}

func (v *value) ValueName() string {
	if n := v.ssaVal.Name(); n != "" {
		return n
	}
	return v.ssaVal.String()
}

// argument wraps an *ssa.Parameter.
type argument struct {
	ssaVal *ssa.Parameter
	parent *function
	index  int
}

func (a *argument) ValueName() string             { return a.ssaVal.Name() }
func (a *argument) ArgParent() irmodel.Function    { return a.parent }
func (a *argument) ArgIndex() int                  { return a.index }

var (
	_ irmodel.Value    = (*value)(nil)
	_ irmodel.Argument = (*argument)(nil)
)
