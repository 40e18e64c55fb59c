package pdg

import (
	"github.com/arcana-lab/noelle-parallelcore/dg"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
)

// PDG is a dg.DG[irmodel.Value] with the construction/refinement
// routines of spec §4.2 layered on top.
type PDG struct {
	*dg.DG[irmodel.Value]
}

// New wraps an empty graph substrate as a PDG. Exposed for subgraph
// extraction and testing; FromModule is the usual entry point.
func New() *PDG {
	return &PDG{DG: dg.New[irmodel.Value]()}
}

// Options toggles the independently-named refinements referenced by
// spec §9's Open Question 1 (the two coexisting PDG implementations
// disagreed on which refinements are enabled by default; here both are
// explicit and default to off, the conservative choice).
type Options struct {
	// RemoveIntraIterationSameAddress drops load/store pairs to the same
	// induction-variable-governed address within one iteration (spec
	// §4.2, first bullet of the optional refinement).
	RemoveIntraIterationSameAddress bool

	// RemovePureCalls drops memory edges to/from calls whose callee body
	// is known to be memoryless (spec §4.2, second bullet).
	RemovePureCalls bool
}

// AnyEnabled reports whether removeEdgesNotUsedByParallelSchemes (the
// OR of both toggles, per spec §4.2) should run at all.
func (o Options) AnyEnabled() bool {
	return o.RemoveIntraIterationSameAddress || o.RemovePureCalls
}
