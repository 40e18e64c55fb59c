package dg

import "fmt"

// DG is a generic, labeled, directed multigraph. It owns every Node[T]
// and Edge[T] it allocates: there is no finalizer needed, dropping the
// DG drops everything reachable only through it.
//
// Mutation is not safe to call from multiple goroutines at once (spec
// §5 — the core is a single-threaded, cooperative analysis substrate;
// a PDG/SCCDAG/Partition is owned by the caller that built it and is
// not intended to be mutated concurrently).
type DG[T comparable] struct {
	nextNodeID int
	nextEdgeID int

	internal map[T]*Node[T]
	external map[T]*Node[T]

	allNodes []*Node[T] // insertion order, for deterministic iteration
	allEdges []*Edge[T]

	entry *Node[T]
}

// New returns an empty graph.
func New[T comparable]() *DG[T] {
	return &DG[T]{
		internal: make(map[T]*Node[T]),
		external: make(map[T]*Node[T]),
	}
}

// NumNodes returns the total number of nodes (internal + external).
func (g *DG[T]) NumNodes() int { return len(g.allNodes) }

// NumEdges returns the total number of edges.
func (g *DG[T]) NumEdges() int { return len(g.allEdges) }

// Nodes returns every node in insertion order.
func (g *DG[T]) Nodes() []*Node[T] { return append([]*Node[T](nil), g.allNodes...) }

// Edges returns every edge in insertion order.
func (g *DG[T]) Edges() []*Edge[T] { return append([]*Edge[T](nil), g.allEdges...) }

// EntryNode returns the graph's distinguished starting node, or nil if
// none has been set.
func (g *DG[T]) EntryNode() *Node[T] { return g.entry }

// SetEntryNode sets the graph's distinguished starting node. Per
// invariant I5 the entry node's payload must already be internal.
func (g *DG[T]) SetEntryNode(n *Node[T]) error {
	if n == nil {
		return ErrNilPayload
	}
	if _, ok := g.internal[n.payload]; !ok {
		return &InvariantError{Invariant: "I5", Detail: "entry node payload is not internal"}
	}
	g.entry = n
	return nil
}

// IsInternal reports whether payload has an internal node.
func (g *DG[T]) IsInternal(payload T) bool {
	_, ok := g.internal[payload]
	return ok
}

// IsExternal reports whether payload has an external node.
func (g *DG[T]) IsExternal(payload T) bool {
	_, ok := g.external[payload]
	return ok
}

// IsInGraph reports whether payload has any node (internal or external).
func (g *DG[T]) IsInGraph(payload T) bool {
	return g.IsInternal(payload) || g.IsExternal(payload)
}

// InternalNodes returns every internal node, insertion order.
func (g *DG[T]) InternalNodes() []*Node[T] {
	out := make([]*Node[T], 0, len(g.internal))
	for _, n := range g.allNodes {
		if g.IsInternal(n.payload) {
			out = append(out, n)
		}
	}
	return out
}

// ExternalNodes returns every external node, insertion order.
func (g *DG[T]) ExternalNodes() []*Node[T] {
	out := make([]*Node[T], 0, len(g.external))
	for _, n := range g.allNodes {
		if g.IsExternal(n.payload) {
			out = append(out, n)
		}
	}
	return out
}

// AddNode creates a fresh node for payload and registers it as internal
// or external. Returns ErrNodeExists if payload already has a node in
// this graph (use FetchOrAddNode for idempotent insertion).
//
// Complexity: O(1) amortized.
func (g *DG[T]) AddNode(payload T, internal bool) (*Node[T], error) {
	var zero T
	if payload == zero {
		return nil, ErrNilPayload
	}
	if g.IsInGraph(payload) {
		return nil, fmt.Errorf("%w: payload already has a node", ErrNodeExists)
	}
	n := &Node[T]{id: g.nextNodeID, payload: payload}
	g.nextNodeID++
	g.allNodes = append(g.allNodes, n)
	if internal {
		g.internal[payload] = n
	} else {
		g.external[payload] = n
	}
	return n, nil
}

// FetchOrAddNode returns the existing node for payload, or creates one
// if absent (idempotent AddNode).
//
// Complexity: O(1) amortized.
func (g *DG[T]) FetchOrAddNode(payload T, internal bool) (*Node[T], error) {
	if n := g.FetchNode(payload); n != nil {
		return n, nil
	}
	return g.AddNode(payload, internal)
}

// FetchNode returns the node for payload, or nil if absent.
func (g *DG[T]) FetchNode(payload T) *Node[T] {
	if n, ok := g.internal[payload]; ok {
		return n
	}
	if n, ok := g.external[payload]; ok {
		return n
	}
	return nil
}

// AddEdge creates a Data edge from src to dst with all flags false.
// Both endpoints must already have nodes in this graph; otherwise this
// is an InvariantViolation (ErrUnknownEndpoint), never a silent no-op.
//
// Complexity: O(1) amortized.
func (g *DG[T]) AddEdge(src, dst T) (*Edge[T], error) {
	srcNode := g.FetchNode(src)
	dstNode := g.FetchNode(dst)
	if srcNode == nil || dstNode == nil {
		return nil, fmt.Errorf("%w", ErrUnknownEndpoint)
	}
	e := &Edge[T]{id: g.nextEdgeID, src: srcNode, dst: dstNode, Kind: Data}
	g.nextEdgeID++
	g.allEdges = append(g.allEdges, e)
	srcNode.addOutgoing(e)
	dstNode.addIncoming(e)
	return e, nil
}

// FetchEdges returns every edge directly connecting from -> to.
func (g *DG[T]) FetchEdges(from, to *Node[T]) []*Edge[T] {
	var out []*Edge[T]
	for _, e := range from.out {
		if e.dst == to {
			out = append(out, e)
		}
	}
	return out
}

// CopyAddEdge reparents a copy of srcEdge into this graph, looking up
// its endpoints by payload (never by node id) via mapping, which
// resolves a payload from the source graph to the equivalent payload in
// this graph (identity mapping is fine when both graphs share T).
// Endpoints are fetched-or-added as external nodes if absent. Kind,
// data-dependence flags, sub-edges, and remedies are copied across.
func (g *DG[T]) CopyAddEdge(srcEdge *Edge[T], mapping func(T) T) (*Edge[T], error) {
	fromPayload := mapping(srcEdge.src.payload)
	toPayload := mapping(srcEdge.dst.payload)

	fromNode, err := g.FetchOrAddNode(fromPayload, false)
	if err != nil {
		return nil, err
	}
	toNode, err := g.FetchOrAddNode(toPayload, false)
	if err != nil {
		return nil, err
	}

	e := &Edge[T]{
		id:          g.nextEdgeID,
		src:         fromNode,
		dst:         toNode,
		Kind:        srcEdge.Kind,
		DataDep:     srcEdge.DataDep,
		Memory:      srcEdge.Memory,
		Must:        srcEdge.Must,
		SubEdges:    append([]SubEdge(nil), srcEdge.SubEdges...),
		LoopCarried: srcEdge.LoopCarried,
		Removable:   srcEdge.Removable,
		Remedies:    append([]string(nil), srcEdge.Remedies...),
	}
	g.nextEdgeID++
	g.allEdges = append(g.allEdges, e)
	fromNode.addOutgoing(e)
	toNode.addIncoming(e)
	return e, nil
}

// RemoveNode erases n and every edge incident to it. A no-op if n is
// not in this graph (mirrors the original's tolerant removeNode).
//
// Complexity: O(deg(n)).
func (g *DG[T]) RemoveNode(n *Node[T]) {
	if n == nil || g.FetchNode(n.payload) != n {
		return
	}
	for _, e := range append([]*Edge[T](nil), n.out...) {
		g.RemoveEdge(e)
	}
	for _, e := range append([]*Edge[T](nil), n.in...) {
		g.RemoveEdge(e)
	}
	delete(g.internal, n.payload)
	delete(g.external, n.payload)
	g.allNodes = removeNode(g.allNodes, n)
	if g.entry == n {
		g.entry = nil
	}
}

func removeNode[T comparable](nodes []*Node[T], target *Node[T]) []*Node[T] {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// RemoveEdge erases e from both endpoints and from this graph. Returns
// ErrEdgeNotFound (an InvariantViolation, per spec §7) if e is not
// owned by this graph.
//
// Complexity: O(deg(src) + deg(dst)).
func (g *DG[T]) RemoveEdge(e *Edge[T]) error {
	idx := -1
	for i, existing := range g.allEdges {
		if existing == e {
			idx = i
			break
		}
	}
	if idx == -1 {
		return fmt.Errorf("%w", ErrEdgeNotFound)
	}
	e.src.removeOutgoing(e)
	e.dst.removeIncoming(e)
	g.allEdges = append(g.allEdges[:idx], g.allEdges[idx+1:]...)
	return nil
}
