package goir

import (
	"golang.org/x/tools/go/ssa"

	"github.com/arcana-lab/noelle-parallelcore/irmodel"
)

// block wraps an *ssa.BasicBlock as an irmodel.Block.
type block struct {
	ssaBlock *ssa.BasicBlock
	fn       *function

	insts []irmodel.Instruction
}

func (b *block) Parent() irmodel.Function { return b.fn }

func (b *block) Instructions() []irmodel.Instruction {
	if b.insts == nil && len(b.ssaBlock.Instrs) > 0 {
		b.insts = make([]irmodel.Instruction, 0, len(b.ssaBlock.Instrs))
		for _, inst := range b.ssaBlock.Instrs {
			b.insts = append(b.insts, b.fn.module.resolveInstruction(inst))
		}
	}
	return b.insts
}

func (b *block) Successors() []irmodel.Block {
	out := make([]irmodel.Block, 0, len(b.ssaBlock.Succs))
	for _, s := range b.ssaBlock.Succs {
		out = append(out, b.fn.module.resolveBlock(s))
	}
	return out
}

func (b *block) Predecessors() []irmodel.Block {
	out := make([]irmodel.Block, 0, len(b.ssaBlock.Preds))
	for _, p := range b.ssaBlock.Preds {
		out = append(out, b.fn.module.resolveBlock(p))
	}
	return out
}

func (b *block) Terminator() irmodel.Instruction {
	insts := b.Instructions()
	if len(insts) == 0 {
		return nil
	}
	return insts[len(insts)-1]
}

var _ irmodel.Block = (*block)(nil)
