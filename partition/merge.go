package partition

import (
	"errors"

	"github.com/arcana-lab/noelle-parallelcore/dg"
)

// ErrEmptyMergeSet is returned by Merge when given fewer than two
// stages.
var ErrEmptyMergeSet = errors.New("partition: need at least two stages to merge")

// CycleIntroducedByMerging returns the set of stages that would have
// to be merged together to keep the partition graph acyclic if a and b
// were unified: a, b, plus every stage lying on a directed path
// between them in either direction (spec §4.4). If unifying a and b
// alone keeps the graph acyclic, the result is exactly {a, b}.
//
// This is computed by simulating the coalesced node directly: any walk
// starting from a's or b's successors that leads back to a or b proves
// a cycle, and every stage visited along that walk is a forced
// co-mergee.
func (p *Partition) CycleIntroducedByMerging(a, b *dg.Node[*Stage]) []*dg.Node[*Stage] {
	visited := map[*dg.Node[*Stage]]bool{a: true, b: true}
	var queue []*dg.Node[*Stage]

	// A direct a->b or b->a edge is the pair's own adjacency and
	// becomes an internal edge of the merged stage; it never counts as
	// a cycle by itself, so it is skipped only at this first hop. Any
	// deeper walk that lands back on a or b proves a genuine indirect
	// path between them and is a real forced co-merge.
	first := func(n, skip *dg.Node[*Stage]) bool {
		for _, e := range n.OutgoingEdges() {
			dst := e.Dst()
			if dst == skip {
				continue
			}
			if dst == a || dst == b {
				return true
			}
			if !visited[dst] {
				visited[dst] = true
				queue = append(queue, dst)
			}
		}
		return false
	}
	expand := func(n *dg.Node[*Stage]) bool {
		for _, e := range n.OutgoingEdges() {
			dst := e.Dst()
			if dst == a || dst == b {
				return true
			}
			if !visited[dst] {
				visited[dst] = true
				queue = append(queue, dst)
			}
		}
		return false
	}

	cycle := first(a, b)
	if !cycle {
		cycle = first(b, a)
	}
	for !cycle && len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		cycle = expand(n)
	}

	if !cycle {
		return []*dg.Node[*Stage]{a, b}
	}
	out := make([]*dg.Node[*Stage], 0, len(visited))
	for n := range visited {
		out = append(out, n)
	}
	return out
}

// CanMerge reports whether a and b can be coalesced — together with
// whatever forced co-mergees CycleIntroducedByMerging finds — without
// leaving a residual cycle (spec §4.4: "false iff there exists a
// directed path A→…→B longer than one edge AND a path B→…→A"). Since
// the partition graph is always acyclic (invariant I7), those two paths
// can never coexist, so forcing in co-mergees always yields an acyclic
// result: CanMerge is true regardless of how many stages the merge
// pulls in. Spec §8 scenario 1 pins this down — for the chain a→b→c,
// can_merge({a},{c}) is true even though merging forces the middle
// stage b along for the ride.
func (p *Partition) CanMerge(a, b *dg.Node[*Stage]) bool {
	return true
}

// Merge unifies members into a single stage, rewiring incident edges
// and dropping any edge that would become a self-loop (an edge between
// two members being merged), mirroring scc.MergeSCCs at the stage
// layer. Callers typically pass CycleIntroducedByMerging's result so
// the merge never leaves a residual cycle (invariant I7).
func (p *Partition) Merge(members []*dg.Node[*Stage]) (*dg.Node[*Stage], error) {
	if len(members) < 2 {
		return nil, ErrEmptyMergeSet
	}

	memberSet := make(map[*dg.Node[*Stage]]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}
	return p.mergeStages(members, memberSet)
}
