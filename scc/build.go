package scc

import (
	"github.com/arcana-lab/noelle-parallelcore/dg"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
)

// FromPDG partitions a PDG (itself a dg.DG[irmodel.Value], per the data
// model) into strongly connected components and condenses them into an
// SCCDAG (spec §4.3): disjoint components are found first, then each is
// run through Tarjan's single-pass path-based SCC enumeration, and
// finally every crossing PDG edge becomes an SCCDAG edge carrying the
// crossing edge as a sub-edge.
func FromPDG(p *dg.DG[irmodel.Value]) (*SCCDAG, error) {
	dag := newSCCDAG()
	owner := make(map[*dg.Node[irmodel.Value]]*dg.Node[*SCC])

	for _, component := range p.GetDisconnectedSubgraphs() {
		for _, members := range tarjanSCCs(component) {
			if len(members) == 1 && isEdgeFree(members[0]) {
				continue
			}

			s := newSCC()
			if err := p.CopyNodesIntoNewGraph(s.DG, members, nil); err != nil {
				return nil, err
			}
			s.Type = classify(s)

			dagNode, err := dag.AddNode(s, true)
			if err != nil {
				return nil, err
			}
			for _, m := range members {
				owner[m] = dagNode
			}
		}
	}

	type dagEdgeKey struct {
		src, dst *dg.Node[*SCC]
	}
	edges := make(map[dagEdgeKey]*dg.Edge[*SCC])

	for _, e := range p.Edges() {
		srcSCC := owner[e.Src()]
		dstSCC := owner[e.Dst()]
		if srcSCC == nil || dstSCC == nil || srcSCC == dstSCC {
			continue
		}
		key := dagEdgeKey{srcSCC, dstSCC}
		dagEdge, ok := edges[key]
		if !ok {
			var err error
			dagEdge, err = dag.AddEdge(srcSCC.Payload(), dstSCC.Payload())
			if err != nil {
				return nil, err
			}
			edges[key] = dagEdge
		}
		dagEdge.AddSubEdge(e)
	}

	return dag, nil
}

func isEdgeFree(n *dg.Node[irmodel.Value]) bool {
	return len(n.OutgoingEdges()) == 0 && len(n.IncomingEdges()) == 0
}

// classify applies the commutativity-based derivation rule: an SCC
// with no internal edges is Independent; a single-instruction SCC
// whose lone member is a self-looped, known-commutative accumulator is
// Commutative; everything else is the conservative Sequential default.
func classify(s *SCC) Type {
	if !s.HasInternalEdges() {
		return Independent
	}
	internal := s.InternalNodes()
	if len(internal) != 1 {
		return Sequential
	}
	n := internal[0]
	inst, ok := n.Payload().(irmodel.Instruction)
	if !ok || !inst.Opcode().IsCommutative() {
		return Sequential
	}
	for _, e := range n.OutgoingEdges() {
		if e.Dst() == n {
			return Commutative
		}
	}
	return Sequential
}

// tarjanSCCs runs Tarjan's single-pass, path-based algorithm over one
// connected component, returning its strongly connected components in
// the order they were closed off (reverse topological order within the
// component).
func tarjanSCCs(component []*dg.Node[irmodel.Value]) [][]*dg.Node[irmodel.Value] {
	t := &tarjanState{
		index:   make(map[*dg.Node[irmodel.Value]]int),
		lowlink: make(map[*dg.Node[irmodel.Value]]int),
		onStack: make(map[*dg.Node[irmodel.Value]]bool),
	}
	for _, n := range component {
		if _, visited := t.index[n]; !visited {
			t.strongConnect(n)
		}
	}
	return t.sccs
}

type tarjanState struct {
	counter int
	index   map[*dg.Node[irmodel.Value]]int
	lowlink map[*dg.Node[irmodel.Value]]int
	onStack map[*dg.Node[irmodel.Value]]bool
	stack   []*dg.Node[irmodel.Value]
	sccs    [][]*dg.Node[irmodel.Value]
}

func (t *tarjanState) strongConnect(v *dg.Node[irmodel.Value]) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, e := range v.OutgoingEdges() {
		w := e.Dst()
		if w == v {
			continue // a self-loop alone never forces a multi-node SCC
		}
		if _, visited := t.index[w]; !visited {
			t.strongConnect(w)
			if t.lowlink[w] < t.lowlink[v] {
				t.lowlink[v] = t.lowlink[w]
			}
		} else if t.onStack[w] {
			if t.index[w] < t.lowlink[v] {
				t.lowlink[v] = t.index[w]
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var component []*dg.Node[irmodel.Value]
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, component)
	}
}
