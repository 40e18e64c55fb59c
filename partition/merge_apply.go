package partition

import (
	"github.com/arcana-lab/noelle-parallelcore/dg"
	"github.com/arcana-lab/noelle-parallelcore/scc"
)

// mergeStages does the bookkeeping for Merge: union member stages'
// SCCs into one new Stage, rewire incident edges (dropping any that
// would become a self-loop), and refresh sccToStage/blockStages.
func (p *Partition) mergeStages(members []*dg.Node[*Stage], memberSet map[*dg.Node[*Stage]]bool) (*dg.Node[*Stage], error) {
	var unioned []*scc.SCC
	for _, m := range members {
		unioned = append(unioned, m.Payload().SCCs()...)
	}
	merged := newStage(unioned...)

	outgoing := make(map[*dg.Node[*Stage]]bool)
	incoming := make(map[*dg.Node[*Stage]]bool)
	for _, m := range members {
		for _, e := range m.OutgoingEdges() {
			if !memberSet[e.Dst()] {
				outgoing[e.Dst()] = true
			}
		}
		for _, e := range m.IncomingEdges() {
			if !memberSet[e.Src()] {
				incoming[e.Src()] = true
			}
		}
	}

	mergedNode, err := p.AddNode(merged, true)
	if err != nil {
		return nil, err
	}
	for dst := range outgoing {
		if len(p.FetchEdges(mergedNode, dst)) > 0 {
			continue
		}
		if _, err := p.AddEdge(merged, dst.Payload()); err != nil {
			return nil, err
		}
	}
	for src := range incoming {
		if len(p.FetchEdges(src, mergedNode)) > 0 {
			continue
		}
		if _, err := p.AddEdge(src.Payload(), merged); err != nil {
			return nil, err
		}
	}

	for _, m := range members {
		for b := range p.blockStages {
			delete(p.blockStages[b], m)
		}
		p.RemoveNode(m)
	}
	for s := range merged.sccs {
		p.sccToStage[s] = mergedNode
	}
	p.indexBlocks(mergedNode, merged)

	return mergedNode, nil
}
