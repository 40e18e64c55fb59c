package goir

import (
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
)

// Oracles bundles every oracle contract goir computes for one loaded
// Module, memoizing the per-function results (dominator summaries and
// loop trees are only ever needed once per function, and are
// comparatively expensive to recompute).
type Oracles struct {
	module *Module
	alias  aliasOracle
	scev   scalarEvolution
	cg     *callGraph

	doms  map[irmodel.Function]*dominatorSummary
	loops map[irmodel.Function]*loopTree
}

// NewOracles builds the whole-module call graph once and prepares
// lazy per-function dominance/loop caches for m.
func NewOracles(m *Module) *Oracles {
	return &Oracles{
		module: m,
		cg:     buildCallGraph(m),
		doms:   make(map[irmodel.Function]*dominatorSummary),
		loops:  make(map[irmodel.Function]*loopTree),
	}
}

// Dominators returns fn's memoized dominator/post-dominator summary.
func (o *Oracles) Dominators(fn irmodel.Function) oracle.DominatorSummary {
	return o.dominators(fn)
}

func (o *Oracles) dominators(fn irmodel.Function) *dominatorSummary {
	if d, ok := o.doms[fn]; ok {
		return d
	}
	d := newDominatorSummary(fn)
	o.doms[fn] = d
	return d
}

// Loops returns fn's memoized loop forest.
func (o *Oracles) Loops(fn irmodel.Function) oracle.LoopTree {
	if t, ok := o.loops[fn]; ok {
		return t
	}
	t := buildLoopTree(fn, o.dominators(fn))
	o.loops[fn] = t
	return t
}

// Alias exposes the conservative, allocation-site-based alias oracle.
func (o *Oracles) Alias() oracle.AliasOracle { return o.alias }

// ScalarEvolution exposes the shallow induction-variable classifier.
func (o *Oracles) ScalarEvolution() oracle.ScalarEvolution { return o.scev }

// CallGraph exposes the static, StaticCallee-based call graph.
func (o *Oracles) CallGraph() oracle.CallGraph { return o.cg }

// PostDominatorFunc adapts Dominators to the
// func(irmodel.Function) oracle.DominatorSummary shape pdg.FromModule
// expects.
func (o *Oracles) PostDominatorFunc() func(irmodel.Function) oracle.DominatorSummary {
	return o.Dominators
}
