package scc

import (
	"github.com/arcana-lab/noelle-parallelcore/dg"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
)

// Type classifies an SCC's internal dependence shape (named in spec
// §3's data model but not given a derivation rule there; see classify
// in build.go).
type Type uint8

const (
	// Sequential is the default, pessimistic classification: the SCC
	// carries a dependence chain that must execute in order.
	Sequential Type = iota
	// Commutative marks a single-instruction accumulator SCC whose
	// operation is order-independent (Add/FAdd/Or/And/Xor).
	Commutative
	// Independent marks an SCC with no internal edges at all — its
	// members could, in principle, run in any order or in parallel.
	Independent
)

func (t Type) String() string {
	switch t {
	case Commutative:
		return "Commutative"
	case Independent:
		return "Independent"
	default:
		return "Sequential"
	}
}

// SCC is a DG[irmodel.Value] holding the members of one strongly
// connected component. Internal nodes are the component's members and
// its edges are the PDG edges among them. FromPDG and MergeSCCs add no
// external (live-in/live-out) nodes: edges crossing the component
// boundary are kept only as sub-edges of SCCDAG edges.
type SCC struct {
	*dg.DG[irmodel.Value]

	Type Type
}

func newSCC() *SCC {
	return &SCC{DG: dg.New[irmodel.Value]()}
}

// HasInternalEdges reports whether any edge connects two of this SCC's
// own internal members (used by classify to detect Independent SCCs).
func (s *SCC) HasInternalEdges() bool {
	for _, e := range s.Edges() {
		if s.IsInternal(e.Src().Payload()) && s.IsInternal(e.Dst().Payload()) {
			return true
		}
	}
	return false
}

// SCCDAG is a DG[*SCC]: one node per SCC (including trivial singletons
// that participate as an external reference of another SCC), with
// edges carrying the crossing PDG edges as sub-edges. Acyclic by
// construction (invariant I6).
type SCCDAG struct {
	*dg.DG[*SCC]
}

func newSCCDAG() *SCCDAG {
	return &SCCDAG{DG: dg.New[*SCC]()}
}
