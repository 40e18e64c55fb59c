package goir

import (
	"go/token"

	"golang.org/x/tools/go/ssa"

	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
)

// scalarEvolution is a deliberately shallow oracle.ScalarEvolution:
// spec §6.5 only needs it to recognize induction-variable-governed
// GEPs, not to model closed forms, strides, or trip counts.
type scalarEvolution struct{}

func (scalarEvolution) Classify(v irmodel.Value) oracle.SCEVKind {
	if val, ok := v.(*value); ok {
		if _, isConst := val.ssaVal.(*ssa.Const); isConst {
			return oracle.SCEVConstant
		}
		return oracle.SCEVOther
	}
	inst, ok := v.(*instruction)
	if !ok {
		return oracle.SCEVOther
	}
	phi, ok := inst.ssaInst.(*ssa.Phi)
	if !ok {
		return oracle.SCEVOther
	}
	// An AddRec pattern: a header Phi with one incoming edge that is a
	// BinOp(ADD/SUB) feeding back the Phi itself as an operand.
	for _, edge := range phi.Edges {
		bin, ok := edge.(*ssa.BinOp)
		if !ok {
			continue
		}
		if bin.Op != token.ADD && bin.Op != token.SUB {
			continue
		}
		if bin.X == ssa.Value(phi) || bin.Y == ssa.Value(phi) {
			return oracle.SCEVAddRec
		}
	}
	return oracle.SCEVOther
}

var _ oracle.ScalarEvolution = scalarEvolution{}
