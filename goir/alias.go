package goir

import (
	"golang.org/x/tools/go/ssa"

	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
)

// aliasOracle is the conservative, allocation-site-based oracle.AliasOracle spec
// §9's Non-goals explicitly scope this module to ("interprocedural
// alias analysis beyond the conservative oracle in goir" stays out of
// scope): two addresses alias unless they are provably distinct
// allocation sites (two different *ssa.Alloc instructions, or two
// different package-level *ssa.Global values). Everything else —
// field/index projections, parameters, loads of another pointer — may
// alias, the safe default a PDG builder is always permitted to fall
// back to.
type aliasOracle struct{}

func (aliasOracle) Alias(a, b irmodel.Value) oracle.AliasResult {
	siteA, okA := allocSite(a)
	siteB, okB := allocSite(b)
	if okA && okB {
		if siteA == siteB {
			return oracle.MustAlias
		}
		return oracle.NoAlias
	}
	return oracle.MayAlias
}

// allocSite returns a comparable identity for v's allocation site when
// v is itself an Alloc instruction or a Global value, so two provably
// distinct sites can be told apart. Projections of a site (field or
// index addresses) are not traced back to it.
func allocSite(v irmodel.Value) (interface{}, bool) {
	switch w := v.(type) {
	case *instruction:
		switch inst := w.ssaInst.(type) {
		case *ssa.Alloc:
			return inst, true
		}
	case *value:
		switch sv := w.ssaVal.(type) {
		case *ssa.Global:
			return sv, true
		}
	}
	return nil, false
}

func (aliasOracle) ModRefInst(call irmodel.Instruction, loc irmodel.Value) oracle.ModRefResult {
	inst, ok := call.(*instruction)
	if !ok {
		return oracle.NoModRef
	}
	ci, ok := inst.ssaInst.(ssa.CallInstruction)
	if !ok {
		return oracle.NoModRef
	}
	callee := ci.Common().StaticCallee()
	if callee != nil && isMemorylessBody(callee) {
		return oracle.NoModRef
	}
	return oracle.ModRef
}

func (aliasOracle) ModRefCalls(a, b irmodel.Instruction) oracle.ModRefResult {
	instA, okA := a.(*instruction)
	instB, okB := b.(*instruction)
	if !okA || !okB {
		return oracle.NoModRef
	}
	ciA, okA2 := instA.ssaInst.(ssa.CallInstruction)
	ciB, okB2 := instB.ssaInst.(ssa.CallInstruction)
	if !okA2 || !okB2 {
		return oracle.NoModRef
	}
	calleeA := ciA.Common().StaticCallee()
	calleeB := ciB.Common().StaticCallee()
	if calleeA != nil && isMemorylessBody(calleeA) && calleeB != nil && isMemorylessBody(calleeB) {
		return oracle.NoModRef
	}
	return oracle.ModRef
}

// isMemorylessBody reports whether fn's body contains no Store and no
// call whose static callee is unknown; loads, allocations, and calls to
// statically known callees are not inspected further — a shallow
// intraprocedural check, not a fixed-point
// summary (interprocedural precision beyond this is this module's
// explicit Non-goal).
func isMemorylessBody(fn *ssa.Function) bool {
	for _, b := range fn.Blocks {
		for _, inst := range b.Instrs {
			switch ci := inst.(type) {
			case *ssa.Store:
				return false
			case ssa.CallInstruction:
				if ci.Common().StaticCallee() == nil {
					return false // unknown callee: assume it can write memory
				}
			}
		}
	}
	return true
}

var _ oracle.AliasOracle = aliasOracle{}
