package scc

import (
	"errors"

	"github.com/arcana-lab/noelle-parallelcore/dg"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
)

// ErrEmptyMergeSet is returned by MergeSCCs when asked to merge zero
// SCCs.
var ErrEmptyMergeSet = errors.New("scc: cannot merge an empty set of SCCs")

// MergeSCCs replaces the SCCDAG nodes in members with a single new SCC
// node whose internal set is the union of their members (spec §4.3's
// merge_sccs). Any SCCDAG edge that previously ran between two members
// is pulled down into the merged SCC's internal edges (its endpoints
// are now both internal to the same SCC) and the crossing edge itself
// is dropped rather than kept as a self-loop. Every other edge incident
// to a member is rewired to the merged node, aggregating sub-edges.
func MergeSCCs(dag *SCCDAG, members []*dg.Node[*SCC]) (*dg.Node[*SCC], error) {
	if len(members) == 0 {
		return nil, ErrEmptyMergeSet
	}

	memberSet := make(map[*dg.Node[*SCC]]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}

	merged := newSCC()
	for _, m := range members {
		for _, n := range m.Payload().InternalNodes() {
			if _, err := merged.FetchOrAddNode(n.Payload(), true); err != nil {
				return nil, err
			}
		}
	}
	for _, m := range members {
		for _, e := range m.Payload().Edges() {
			if _, err := merged.CopyAddEdge(e, identity[irmodel.Value]); err != nil {
				return nil, err
			}
		}
	}

	outgoing := make(map[*dg.Node[*SCC]]*dg.Edge[*SCC])
	incoming := make(map[*dg.Node[*SCC]]*dg.Edge[*SCC])
	var pulledDown []*dg.Edge[*SCC]

	for _, m := range members {
		for _, e := range m.OutgoingEdges() {
			if memberSet[e.Dst()] {
				pulledDown = append(pulledDown, e)
				continue
			}
			if existing, ok := outgoing[e.Dst()]; ok {
				for _, sub := range e.SubEdges {
					existing.AddSubEdge(sub)
				}
			} else {
				outgoing[e.Dst()] = e
			}
		}
		for _, e := range m.IncomingEdges() {
			if memberSet[e.Src()] {
				continue // already captured from the outgoing side above
			}
			if existing, ok := incoming[e.Src()]; ok {
				for _, sub := range e.SubEdges {
					existing.AddSubEdge(sub)
				}
			} else {
				incoming[e.Src()] = e
			}
		}
	}

	for _, se := range pulledDown {
		for _, sub := range se.SubEdges {
			pe, ok := sub.(*dg.Edge[irmodel.Value])
			if !ok {
				continue
			}
			if _, err := merged.CopyAddEdge(pe, identity[irmodel.Value]); err != nil {
				return nil, err
			}
		}
	}

	merged.Type = classify(merged)

	mergedNode, err := dag.AddNode(merged, true)
	if err != nil {
		return nil, err
	}
	for dst, e := range outgoing {
		if memberSet[dst] {
			continue
		}
		newEdge, err := dag.AddEdge(merged, dst.Payload())
		if err != nil {
			return nil, err
		}
		for _, sub := range e.SubEdges {
			newEdge.AddSubEdge(sub)
		}
	}
	for src, e := range incoming {
		if memberSet[src] {
			continue
		}
		newEdge, err := dag.AddEdge(src.Payload(), merged)
		if err != nil {
			return nil, err
		}
		for _, sub := range e.SubEdges {
			newEdge.AddSubEdge(sub)
		}
	}

	for _, m := range members {
		dag.RemoveNode(m)
	}

	return mergedNode, nil
}

func identity[T comparable](v T) T { return v }
