package dg

// GetTopLevelNodes returns every node with zero non-self incoming
// edges. When onlyInternal is true, incoming edges from external nodes
// are also ignored (so a node fed only by external live-ins still
// counts as top-level within the internal subgraph).
//
// A lone self-loop node counts as top-level: a self-edge is never
// "other" incoming per spec §8's boundary behavior.
//
// Complexity: O(V+E).
func (g *DG[T]) GetTopLevelNodes(onlyInternal bool) []*Node[T] {
	var out []*Node[T]
	for _, n := range g.allNodes {
		if onlyInternal && g.IsExternal(n.payload) {
			continue
		}
		noOtherIncoming := true
		for _, in := range n.in {
			isSelf := in.src == n
			isExternalSrc := onlyInternal && g.IsExternal(in.src.payload)
			if !isSelf && !isExternalSrc {
				noOtherIncoming = false
				break
			}
		}
		if noOtherIncoming {
			out = append(out, n)
		}
	}
	return out
}

// GetLeafNodes returns every node with zero non-self outgoing edges.
//
// Complexity: O(V+E).
func (g *DG[T]) GetLeafNodes(onlyInternal bool) []*Node[T] {
	var out []*Node[T]
	for _, n := range g.allNodes {
		if onlyInternal && g.IsExternal(n.payload) {
			continue
		}
		noOtherOutgoing := true
		for _, o := range n.out {
			if o.dst != n {
				noOtherOutgoing = false
				break
			}
		}
		if noOtherOutgoing {
			out = append(out, n)
		}
	}
	return out
}

// GetDisconnectedSubgraphs partitions every node into its connected
// component under the undirected projection of the graph (BFS,
// following edges in either direction).
//
// Complexity: O(V+E).
func (g *DG[T]) GetDisconnectedSubgraphs() [][]*Node[T] {
	visited := make(map[*Node[T]]bool, len(g.allNodes))
	var components [][]*Node[T]

	for _, start := range g.allNodes {
		if visited[start] {
			continue
		}
		var component []*Node[T]
		queue := []*Node[T]{start}
		visited[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			component = append(component, cur)
			visitNeighbor := func(n *Node[T]) {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
			for _, e := range cur.out {
				visitNeighbor(e.dst)
			}
			for _, e := range cur.in {
				visitNeighbor(e.src)
			}
		}
		components = append(components, component)
	}
	return components
}

// GetNextDepthNodes returns n's successors that have no predecessor
// outside of {n} ∪ successors(n) — i.e. the next "rank" reachable by
// walking exactly one level past n without skipping an intermediate
// dependency.
//
// Complexity: O(deg(n) * avg-fan-in).
func (g *DG[T]) GetNextDepthNodes(n *Node[T]) []*Node[T] {
	succs := make(map[*Node[T]]bool)
	for _, e := range n.out {
		if e.dst != n {
			succs[e.dst] = true
		}
	}
	var out []*Node[T]
	for s := range succs {
		onlyFromRank := true
		for _, in := range s.in {
			if in.src != n && !succs[in.src] {
				onlyFromRank = false
				break
			}
		}
		if onlyFromRank {
			out = append(out, s)
		}
	}
	return sortByID(out)
}

// GetPreviousDepthNodes is the mirror of GetNextDepthNodes, walking
// incoming edges instead of outgoing ones.
func (g *DG[T]) GetPreviousDepthNodes(n *Node[T]) []*Node[T] {
	preds := make(map[*Node[T]]bool)
	for _, e := range n.in {
		if e.src != n {
			preds[e.src] = true
		}
	}
	var out []*Node[T]
	for p := range preds {
		onlyFromRank := true
		for _, out2 := range p.out {
			if out2.dst != n && !preds[out2.dst] {
				onlyFromRank = false
				break
			}
		}
		if onlyFromRank {
			out = append(out, p)
		}
	}
	return sortByID(out)
}

func sortByID[T comparable](nodes []*Node[T]) []*Node[T] {
	out := append([]*Node[T](nil), nodes...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].id > out[j].id; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// CopyNodesIntoNewGraph clones the sub-induced subgraph of g containing
// exactly nodes (by payload) into dest: every node in nodes is added as
// internal, and every edge of g whose both endpoints are in nodes is
// copied across. entry, if non-nil, becomes dest's entry node.
//
// Complexity: O(V+E) over the subset.
func (g *DG[T]) CopyNodesIntoNewGraph(dest *DG[T], nodes []*Node[T], entry *Node[T]) error {
	subset := make(map[*Node[T]]bool, len(nodes))
	for _, n := range nodes {
		subset[n] = true
	}
	for _, n := range nodes {
		if _, err := dest.FetchOrAddNode(n.payload, true); err != nil {
			return err
		}
	}
	identity := func(p T) T { return p }
	seen := make(map[*Edge[T]]bool)
	for _, n := range nodes {
		for _, e := range n.out {
			if seen[e] || !subset[e.src] || !subset[e.dst] {
				continue
			}
			seen[e] = true
			if _, err := dest.CopyAddEdge(e, identity); err != nil {
				return err
			}
		}
	}
	// CopyAddEdge marks endpoints external when fetched afresh; promote
	// anything in the requested subset back to internal.
	for _, n := range nodes {
		if dn, ok := dest.external[n.payload]; ok {
			delete(dest.external, n.payload)
			dest.internal[n.payload] = dn
		}
	}
	if entry != nil {
		if dn := dest.FetchNode(entry.payload); dn != nil {
			dest.entry = dn
		}
	}
	return nil
}

// Clear empties the graph of all nodes and edges.
func (g *DG[T]) Clear() {
	g.internal = make(map[T]*Node[T])
	g.external = make(map[T]*Node[T])
	g.allNodes = nil
	g.allEdges = nil
	g.entry = nil
}
