package goir

import (
	"golang.org/x/tools/go/ssa"

	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
)

// callGraph is a static call graph built by scanning every analyzed
// function's instructions for call sites whose callee is statically
// known (ssa.CallCommon.StaticCallee). Calls through interfaces or
// function values are not resolved to an edge: spec's Non-goals scope
// out "interprocedural alias analysis beyond the conservative oracle",
// and precise call-graph construction for dynamic dispatch is the same
// kind of whole-program pointer analysis this package deliberately
// keeps shallow.
type callGraph struct {
	callSites map[*ssa.Function][]irmodel.Instruction
	reachable map[*ssa.Function]bool
}

func buildCallGraph(m *Module) *callGraph {
	cg := &callGraph{
		callSites: make(map[*ssa.Function][]irmodel.Instruction),
		reachable: make(map[*ssa.Function]bool),
	}

	// Record every call site, keyed by callee.
	for _, irFn := range m.functions {
		f, ok := irFn.(*function)
		if !ok {
			continue
		}
		for _, blk := range f.Blocks() {
			for _, inst := range blk.Instructions() {
				gi, ok := inst.(*instruction)
				if !ok {
					continue
				}
				ci, ok := gi.ssaInst.(ssa.CallInstruction)
				if !ok {
					continue
				}
				callee := ci.Common().StaticCallee()
				if callee == nil {
					continue
				}
				cg.callSites[callee] = append(cg.callSites[callee], gi)
			}
		}
	}

	var roots []*ssa.Function
	if entryFn, ok := m.entry.(*function); ok && entryFn != nil {
		roots = append(roots, entryFn.ssaFn)
	} else {
		for _, irFn := range m.functions {
			if f, ok := irFn.(*function); ok {
				roots = append(roots, f.ssaFn)
			}
		}
	}

	visited := make(map[*ssa.Function]bool)
	var stack []*ssa.Function
	for _, r := range roots {
		if !visited[r] {
			visited[r] = true
			stack = append(stack, r)
		}
	}
	for len(stack) > 0 {
		fn := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cg.reachable[fn] = true
		for _, b := range fn.Blocks {
			for _, inst := range b.Instrs {
				ci, ok := inst.(ssa.CallInstruction)
				if !ok {
					continue
				}
				callee := ci.Common().StaticCallee()
				if callee == nil || visited[callee] {
					continue
				}
				visited[callee] = true
				stack = append(stack, callee)
			}
		}
	}

	return cg
}

func (cg *callGraph) ReachableFromRoot(f irmodel.Function) bool {
	gf, ok := f.(*function)
	if !ok {
		return false
	}
	return cg.reachable[gf.ssaFn]
}

func (cg *callGraph) CallSites(f irmodel.Function) []irmodel.Instruction {
	gf, ok := f.(*function)
	if !ok {
		return nil
	}
	return append([]irmodel.Instruction(nil), cg.callSites[gf.ssaFn]...)
}

var _ oracle.CallGraph = (*callGraph)(nil)
