package pdg

import (
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
)

// removeEdgesNotUsedByParallelSchemes drops the edge classes spec
// §4.2's optional refinement pass names as provably not loop-carried.
//
// Only RemovePureCalls is applied here: a call's memory edges are
// removed when its callee body contains no load, store, or call of its
// own, checked directly against the callee's instructions rather than
// through callGraph (kept for future interprocedural extensions).
//
// RemoveIntraIterationSameAddress requires induction-variable and loop
// membership information this entry point is not given; when enabled
// without that information the affected edges simply keep their
// pessimistic classification, consistent with spec §7's
// AnalysisIncomplete contract (never an error).
func (p *PDG) removeEdgesNotUsedByParallelSchemes(opts Options, callGraph oracle.CallGraph) {
	_ = callGraph

	if opts.RemovePureCalls {
		p.removePureCallMemoryEdges()
	}
}

func (p *PDG) removePureCallMemoryEdges() {
	memoryless := make(map[irmodel.Function]bool)

	for _, n := range p.Nodes() {
		inst, ok := n.Payload().(irmodel.Instruction)
		if !ok || inst.Opcode() != irmodel.OpCall {
			continue
		}
		callee, ok := inst.CalledFunction()
		if !ok {
			continue
		}
		isPure, known := memoryless[callee]
		if !known {
			isPure = isMemorylessFunction(callee)
			memoryless[callee] = isPure
		}
		if !isPure {
			continue
		}
		for _, e := range n.OutgoingEdges() {
			if e.Memory {
				_ = p.RemoveEdge(e)
			}
		}
		for _, e := range n.IncomingEdges() {
			if e.Memory {
				_ = p.RemoveEdge(e)
			}
		}
	}
}

// isMemorylessFunction reports whether fn's body contains no load,
// store, or call instruction (spec §4.2's "pure or memoryless"
// criterion; global-reference detection is left to a future oracle
// since irmodel exposes no global-value concept today).
func isMemorylessFunction(fn irmodel.Function) bool {
	for _, b := range fn.Blocks() {
		for _, inst := range b.Instructions() {
			switch inst.Opcode() {
			case irmodel.OpLoad, irmodel.OpStore, irmodel.OpCall:
				return false
			}
		}
	}
	return true
}
