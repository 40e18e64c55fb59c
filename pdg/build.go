package pdg

import (
	"github.com/arcana-lab/noelle-parallelcore/dg"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
)

// PostDominatorProvider resolves the post-dominator (and dominator)
// summary for one function. Supplied separately per function because
// each function owns its own CFG.
type PostDominatorProvider func(irmodel.Function) oracle.DominatorSummary

// FromModule builds a PDG over every function of module (spec §6's
// PDG::from_module). Nodes are created for every function argument and
// every non-lifetime-intrinsic instruction; edges are added per spec
// §4.2. The entry node is the first instruction of module's designated
// entry function, if any.
//
// Iteration order is function declaration order, then block order as
// returned by Blocks(), then instruction order as returned by
// Instructions() — this must be stable for determinism (spec §5).
func FromModule(module irmodel.Module, aliases oracle.AliasOracle, postDoms PostDominatorProvider, callGraph oracle.CallGraph, opts Options) (*PDG, error) {
	p := New()

	for _, fn := range module.Functions() {
		if err := p.addFunctionNodes(fn); err != nil {
			return nil, err
		}
	}
	for _, fn := range module.Functions() {
		if err := p.addDefUseEdges(fn); err != nil {
			return nil, err
		}
	}
	if err := p.addMemoryEdges(module, aliases); err != nil {
		return nil, err
	}
	for _, fn := range module.Functions() {
		ds := postDoms(fn)
		if ds == nil {
			continue
		}
		if err := p.addControlEdges(fn, ds); err != nil {
			return nil, err
		}
	}

	if entryFn, ok := module.EntryFunction(); ok {
		if eb := entryFn.EntryBlock(); eb != nil {
			if insts := eb.Instructions(); len(insts) > 0 {
				if n := p.FetchNode(insts[0]); n != nil {
					_ = p.SetEntryNode(n)
				}
			}
		}
	}

	if opts.AnyEnabled() {
		p.removeEdgesNotUsedByParallelSchemes(opts, callGraph)
	}

	return p, nil
}

// addFunctionNodes registers every argument and non-lifetime-intrinsic
// instruction of fn as an internal node.
func (p *PDG) addFunctionNodes(fn irmodel.Function) error {
	for _, arg := range fn.Arguments() {
		if _, err := p.FetchOrAddNode(arg, true); err != nil {
			return err
		}
	}
	for _, b := range fn.Blocks() {
		for _, inst := range b.Instructions() {
			if inst.IsLifetimeIntrinsic() {
				continue
			}
			if _, err := p.FetchOrAddNode(inst, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// addDefUseEdges adds (V -> U, RAW, must=true, memory=false) for every
// use U of value V where V already has a PDG node (spec §4.2(a)).
// Operands the adapter does not surface (constants, metadata, BB-typed
// operands) are never seen here, per the irmodel.Instruction contract.
func (p *PDG) addDefUseEdges(fn irmodel.Function) error {
	for _, b := range fn.Blocks() {
		for _, inst := range b.Instructions() {
			if inst.IsLifetimeIntrinsic() {
				continue
			}
			for _, operand := range inst.Operands() {
				if !p.IsInGraph(operand) {
					continue
				}
				e, err := p.AddEdge(operand, inst)
				if err != nil {
					return err
				}
				e.DataDep = dg.RAW
				e.Must = true
				e.Memory = false
			}
		}
	}
	return nil
}
