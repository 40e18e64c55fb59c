package lcd

import (
	"github.com/arcana-lab/noelle-parallelcore/dg"
	"github.com/arcana-lab/noelle-parallelcore/diag"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
	"github.com/arcana-lab/noelle-parallelcore/pointsto"
)

// Classify marks every edge of p's loop-carried flag per spec §4.8,
// given the loop l, a dominator summary, and an optional may-point-to
// summary. pts may be nil (spec §9 Open Question 3): memory edges that
// need it to disprove loop-carriage then fall back to the conservative
// loop-carried=true answer, and a single Minimal diagnostic is emitted
// for the whole call (not once per edge, to avoid log spam).
func Classify(p *dg.DG[irmodel.Value], l oracle.Loop, doms oracle.DominatorSummary, pts *pointsto.Summary, sink diag.Sink) {
	if sink == nil {
		sink = diag.NopSink{}
	}
	usedFallback := false
	overwritingAttempted := false

	for _, e := range p.Edges() {
		carried, fellBack, triedOverwrite := classifyEdge(e, l, doms, pts)
		e.LoopCarried = carried
		if fellBack {
			usedFallback = true
		}
		if triedOverwrite {
			overwritingAttempted = true
		}
	}

	if usedFallback {
		sink.Emitf(diag.Minimal, "lcd: no points-to summary available; memory edges without a single identifiable pointer fell back to loop-carried=true")
	}
	if overwritingAttempted {
		sink.Emitf(diag.Minimal, "lcd: overwriting-in-inner-loop refinement (spec §4.8 phase 2) is not implemented — oracle.LoopTree exposes no "+
			"nested-loop-children accessor to locate the fully-overwriting sub-loop; affected edges keep their phase-1 classification (AnalysisIncomplete)")
	}
}

// classifyEdge returns (loopCarried, usedPointToFallback, triedOverwritingRefinement).
func classifyEdge(e *dg.Edge[irmodel.Value], l oracle.Loop, doms oracle.DominatorSummary, pts *pointsto.Summary) (bool, bool, bool) {
	srcInst, srcOk := e.Src().Payload().(irmodel.Instruction)
	dstInst, dstOk := e.Dst().Payload().(irmodel.Instruction)
	if !srcOk || !dstOk {
		return false, false, false
	}
	if !containedInLoop(srcInst, l) || !containedInLoop(dstInst, l) {
		return false, false, false
	}

	if e.Kind == dg.Control {
		if !strictlyInLoop(srcInst, l) && !strictlyInLoop(dstInst, l) {
			return false, false, false
		}
		return true, false, false
	}

	usedFallback := false
	if e.Memory {
		srcPtr, srcHas := srcInst.PointerOperand()
		dstPtr, dstHas := dstInst.PointerOperand()
		switch {
		case srcHas && dstHas:
			if srcPtr != dstPtr {
				return false, false, false
			}
			if ptrInst, ok := srcPtr.(irmodel.Instruction); ok && containedInLoop(ptrInst, l) && !isLoopInvariant(ptrInst, l, doms) {
				return false, false, false
			}
			// same pointer, loop-invariant: fall through to the
			// dominance check below.
		case pts != nil:
			if !pointToOverlap(srcInst, dstInst, pts) {
				return false, false, false
			}
		default:
			usedFallback = true
		}
	}

	dominates := srcInst != dstInst && instDominates(doms, srcInst, dstInst)
	if !dominates {
		// Phase-1's pessimistic answer. For a memory edge this is exactly
		// the case the unimplemented phase-2 overwriting-in-inner-loop
		// pattern (see Classify's doc comment) would attempt to clear.
		return true, usedFallback, e.Memory
	}

	if !e.Memory {
		if cannotReachHeaderFirst(srcInst, dstInst, l, doms) && !isDifferentiatingHeaderPhi(dstInst, l) {
			return false, usedFallback, false
		}
		return true, usedFallback, false
	}

	// Memory edge, producer dominates consumer through the same
	// loop-invariant object: this is the canonical intra-iteration
	// dependence (spec §8 scenario 4's (s,l) with s dominating l), not a
	// carried one. An edge that reached here through the no-summary
	// fallback has no identified object and keeps the conservative
	// loop-carried=true answer. The unimplemented phase-2
	// overwriting-in-inner-loop pattern (see Classify's doc comment) only
	// ever clears an already-carried flag, so it has nothing to add here.
	return usedFallback, usedFallback, false
}

func containedInLoop(inst irmodel.Instruction, l oracle.Loop) bool {
	b := inst.Parent()
	return b != nil && l.Contains(b)
}

func strictlyInLoop(inst irmodel.Instruction, l oracle.Loop) bool {
	b := inst.Parent()
	return b != nil && l.Contains(b) && !l.ContainsInInnerLoop(b)
}

// isLoopInvariant approximates "no LCD of its own" for a pointer
// computation structurally: an instruction is loop-invariant if it
// lies outside the loop entirely, or its block dominates the loop
// header (so it executes at most once per loop invocation, before any
// iteration). This avoids a recursive dependency on the very
// loop-carried flags classify() is computing.
func isLoopInvariant(inst irmodel.Instruction, l oracle.Loop, doms oracle.DominatorSummary) bool {
	b := inst.Parent()
	if b == nil || !l.Contains(b) {
		return true
	}
	return b != l.Header() && doms.Dominates(b, l.Header())
}

func instDominates(doms oracle.DominatorSummary, src, dst irmodel.Instruction) bool {
	sb, db := src.Parent(), dst.Parent()
	if sb == nil || db == nil {
		return false
	}
	if sb == db {
		return indexInBlock(sb, src) <= indexInBlock(db, dst)
	}
	return doms.Dominates(sb, db)
}

func indexInBlock(b irmodel.Block, inst irmodel.Instruction) int {
	for i, cur := range b.Instructions() {
		if cur == inst {
			return i
		}
	}
	return -1
}

// cannotReachHeaderFirst approximates "the producer cannot reach the
// loop header before reaching the consumer" by checking whether the
// consumer's block already dominates the header: if it does, every
// path from the producer to the header is forced through the consumer
// first.
func cannotReachHeaderFirst(src, dst irmodel.Instruction, l oracle.Loop, doms oracle.DominatorSummary) bool {
	db := dst.Parent()
	sb := src.Parent()
	if db == nil || sb == nil {
		return false
	}
	if db == sb {
		return true
	}
	return doms.Dominates(db, l.Header())
}

func isDifferentiatingHeaderPhi(dst irmodel.Instruction, l oracle.Loop) bool {
	return dst.Opcode() == irmodel.OpPhi && dst.Parent() == l.Header()
}

func bestPointerGuess(inst irmodel.Instruction) irmodel.Value {
	if p, ok := inst.PointerOperand(); ok {
		return p
	}
	if ops := inst.Operands(); len(ops) > 0 {
		return ops[0]
	}
	return nil
}

// pointToOverlap decides whether src and dst could alias via the
// points-to summary when neither has a single cleanly identifiable
// pointer operand; unresolvable cases conservatively report overlap.
func pointToOverlap(src, dst irmodel.Instruction, pts *pointsto.Summary) bool {
	srcPtr := bestPointerGuess(src)
	dstPtr := bestPointerGuess(dst)
	if srcPtr == nil || dstPtr == nil {
		return true
	}
	srcObjs := pts.PointeesOf(srcPtr, src)
	dstObjs := pts.PointeesOf(dstPtr, dst)
	for _, a := range srcObjs {
		for _, b := range dstObjs {
			if a == b {
				return true
			}
		}
	}
	return len(srcObjs) == 0 || len(dstObjs) == 0
}
