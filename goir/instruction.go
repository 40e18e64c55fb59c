package goir

import (
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ssa"

	"github.com/arcana-lab/noelle-parallelcore/irmodel"
)

// instruction wraps an ssa.Instruction as an irmodel.Instruction. Most
// ssa.Instruction values also implement ssa.Value (they produce a
// result register); a few (Store, Jump, If, Return, Panic, ...) do
// not, so ValueName falls back to the instruction's textual form.
type instruction struct {
	ssaInst ssa.Instruction
	parent  *block
}

func (i *instruction) ValueName() string {
	if v, ok := i.ssaInst.(ssa.Value); ok && v.Name() != "" {
		return v.Name()
	}
	return i.ssaInst.String()
}

func (i *instruction) Parent() irmodel.Block { return i.parent }

// Opcode classifies the underlying ssa.Instruction. Go's SSA form has
// no RTTI-avoidance concern the way the LLVM-based original does, but
// the Opcode enum is still the contract the rest of this module
// depends on (spec §9's REDESIGN FLAGS), so every concrete
// ssa.Instruction type is mapped explicitly rather than type-switched
// upstream.
func (i *instruction) Opcode() irmodel.Opcode {
	switch inst := i.ssaInst.(type) {
	case *ssa.Phi:
		return irmodel.OpPhi
	case *ssa.FieldAddr, *ssa.IndexAddr, *ssa.Index:
		return irmodel.OpGetElementPtr
	case *ssa.ChangeType, *ssa.Convert, *ssa.ChangeInterface, *ssa.MakeInterface, *ssa.Slice:
		return irmodel.OpCast
	case *ssa.UnOp:
		if inst.Op == token.MUL {
			return irmodel.OpLoad
		}
		return irmodel.OpOther
	case *ssa.Store:
		return irmodel.OpStore
	case *ssa.Call:
		return irmodel.OpCall
	case *ssa.Alloc:
		return irmodel.OpAlloca
	case *ssa.If:
		return irmodel.OpBranch
	case *ssa.Jump, *ssa.Return, *ssa.Panic:
		return irmodel.OpTerminator
	case *ssa.BinOp:
		switch inst.Op {
		case token.ADD:
			if isFloaty(inst.X) {
				return irmodel.OpFAdd
			}
			return irmodel.OpAdd
		case token.OR:
			return irmodel.OpOr
		case token.AND:
			return irmodel.OpAnd
		case token.XOR:
			return irmodel.OpXor
		case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
			return irmodel.OpCompare
		default:
			return irmodel.OpOther
		}
	default:
		return irmodel.OpOther
	}
}

func isFloaty(v ssa.Value) bool {
	basic, ok := v.Type().Underlying().(*types.Basic)
	if !ok {
		return false
	}
	return basic.Info()&types.IsFloat != 0
}

// Operands returns every operand this instruction reads via
// ssa.Instruction's in-place Operands slot convention, skipping
// constants per spec §4.2(a) (Go's SSA form has no separate metadata
// or basic-block-typed operand kind to filter — branch targets live
// in Block().Succs, never as an Operands() slot).
func (i *instruction) Operands() []irmodel.Value {
	var rands []*ssa.Value
	rands = i.ssaInst.Operands(rands)
	out := make([]irmodel.Value, 0, len(rands))
	for _, rp := range rands {
		if rp == nil || *rp == nil {
			continue
		}
		v := *rp
		if _, isConst := v.(*ssa.Const); isConst {
			continue
		}
		out = append(out, i.parent.fn.module.resolveValue(v))
	}
	return out
}

// IsLifetimeIntrinsic always reports false: Go's SSA form has no
// lifetime-marker instruction (spec §6.1's adapter contract names the
// predicate so an LLVM-backed adapter can filter llvm.lifetime.start/
// end; goir's IR simply never produces any).
func (i *instruction) IsLifetimeIntrinsic() bool { return false }

func (i *instruction) CalledFunction() (irmodel.Function, bool) {
	call, ok := i.ssaInst.(ssa.CallInstruction)
	if !ok {
		return nil, false
	}
	callee := call.Common().StaticCallee()
	if callee == nil {
		return nil, false
	}
	return i.parent.fn.module.resolveFunction(callee), true
}

func (i *instruction) PointerOperand() (irmodel.Value, bool) {
	switch inst := i.ssaInst.(type) {
	case *ssa.Store:
		return i.parent.fn.module.resolveValue(inst.Addr), true
	case *ssa.UnOp:
		if inst.Op == token.MUL {
			return i.parent.fn.module.resolveValue(inst.X), true
		}
	case *ssa.FieldAddr:
		return i.parent.fn.module.resolveValue(inst.X), true
	case *ssa.IndexAddr:
		return i.parent.fn.module.resolveValue(inst.X), true
	}
	return nil, false
}

var _ irmodel.Instruction = (*instruction)(nil)
