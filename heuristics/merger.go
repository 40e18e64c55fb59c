package heuristics

import (
	"errors"

	"github.com/arcana-lab/noelle-parallelcore/cost"
	"github.com/arcana-lab/noelle-parallelcore/dg"
	"github.com/arcana-lab/noelle-parallelcore/diag"
	"github.com/arcana-lab/noelle-parallelcore/partition"
)

// ErrNoProgress is never returned as a failure; Run reports it only
// through its boolean "modified" result. Kept as a named sentinel so
// callers distinguishing "nothing to merge" from a real error have one
// to check against if they choose to treat it as such.
var ErrNoProgress = errors.New("heuristics: no merge candidate found")

type stageNode = *dg.Node[*partition.Stage]

// checkFunc is called once per (a, b) pair considered during a
// traversal; it may update m.best if the pair is a better candidate
// than the one currently recorded.
type checkFunc func(m *Merger, a, b stageNode)

// stopFunc reports whether the outer fixed-point loop should stop
// before even attempting another traversal.
type stopFunc func(m *Merger) bool

// candidate is the best (a, b) merge pair found by the current
// traversal, scored by the active strategy.
type candidate struct {
	valid    bool
	a, b     stageNode
	score    float64 // strategy-specific; lower is "better" for both strategies here
	tieBreak int      // merged instruction count
}

// Merger runs spec §4.6's PartitionCostAnalysis: a shared BFS
// traversal over the partition's dependency structure, scoring every
// dependent and sibling pair with a strategy-specific hook, then
// committing the single best-scored candidate each round.
type Merger struct {
	Partition *partition.Partition
	Model     *cost.Model
	NumCores  int
	Sink      diag.Sink

	// AcceptanceFactor is SmallestSize's K in "merged_cost <= K *
	// totalCost" (spec §9 Open Question 2; default 1.0, set by the
	// SmallestSize constructor).
	AcceptanceFactor float64

	check checkFunc
	stop  stopFunc
	best  candidate
}

// MinMaxSize configures a Merger that balances the largest stage:
// record a candidate merge when it yields the smallest maximum stage
// cost among all pairs considered, ties broken by smaller merged
// instruction count. The outer loop stops once the partition has at
// most numCores stages.
func MinMaxSize(p *partition.Partition, model *cost.Model, numCores int, sink diag.Sink) *Merger {
	if sink == nil {
		sink = diag.NopSink{}
	}
	return &Merger{
		Partition: p,
		Model:     model,
		NumCores:  numCores,
		Sink:      sink,
		check:     minMaxCheck,
		stop:      func(m *Merger) bool { return len(m.Partition.Nodes()) <= m.NumCores },
	}
}

// SmallestSize configures a Merger that greedily reduces total
// pipeline cost: record a candidate merge when it reduces total cost
// the most, subject to merged cost <= acceptanceFactor * totalCost and
// the merge not leaving exactly numCores stages, ties broken by smaller
// merged instruction count.
func SmallestSize(p *partition.Partition, model *cost.Model, numCores int, acceptanceFactor float64, sink diag.Sink) *Merger {
	if sink == nil {
		sink = diag.NopSink{}
	}
	if acceptanceFactor == 0 {
		acceptanceFactor = 1.0
	}
	return &Merger{
		Partition:        p,
		Model:            model,
		NumCores:         numCores,
		AcceptanceFactor: acceptanceFactor,
		Sink:             sink,
		check:            smallestSizeCheck,
		stop:             func(m *Merger) bool { return false },
	}
}

// Run iterates traverse-then-merge to a fixed point, returning whether
// any merge was committed. A second call with no change to the
// partition in between returns modified = false (spec §8's
// round-trip/idempotence property).
func (m *Merger) Run() (modified bool, err error) {
	for {
		if m.stop(m) {
			return modified, nil
		}
		m.best = candidate{}
		m.traverseAll()
		if !m.best.valid {
			return modified, nil
		}
		if err := m.mergeBest(); err != nil {
			return modified, err
		}
		modified = true
	}
}

func (m *Merger) mergeBest() error {
	a, b := m.best.a, m.best.b
	members := m.Partition.CycleIntroducedByMerging(a, b)
	merged, err := m.Partition.Merge(members)
	if err != nil {
		return err
	}
	m.Sink.Emitf(diag.Maximal, "heuristics: merged %d stage(s) into one (score=%.1f)", len(members), m.best.score)
	_ = merged
	return nil
}

// traverseAll is spec §4.6's traverse_all: BFS from stages with no
// incoming edges, calling the active strategy's check hook for every
// dependent (direct successor) and every sibling (another direct
// successor of one of this stage's predecessors) of each visited
// stage. The BFS is a Kahn's-algorithm topological walk, valid because
// invariant I7 guarantees the partition graph is acyclic.
func (m *Merger) traverseAll() {
	nodes := m.Partition.Nodes()
	indeg := make(map[stageNode]int, len(nodes))
	for _, n := range nodes {
		indeg[n] = len(n.IncomingEdges())
	}

	var queue []stageNode
	for _, n := range nodes {
		if indeg[n] == 0 {
			queue = append(queue, n)
		}
	}

	visited := make(map[stageNode]bool, len(nodes))
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		if visited[a] {
			continue
		}
		visited[a] = true

		for _, e := range a.OutgoingEdges() {
			b := e.Dst()
			if b != a {
				m.check(m, a, b)
			}
			indeg[b]--
			if indeg[b] == 0 {
				queue = append(queue, b)
			}
		}

		seen := map[stageNode]bool{a: true}
		var siblings []stageNode
		for _, e := range a.IncomingEdges() {
			pred := e.Src()
			for _, pe := range pred.OutgoingEdges() {
				s := pe.Dst()
				if !seen[s] {
					seen[s] = true
					siblings = append(siblings, s)
				}
			}
		}
		for _, s := range siblings {
			m.check(m, a, s)
		}
	}
}

func (m *Merger) record(a, b stageNode, score float64, tieBreak int) {
	if !m.best.valid || score < m.best.score || (score == m.best.score && tieBreak < m.best.tieBreak) {
		m.best = candidate{valid: true, a: a, b: b, score: score, tieBreak: tieBreak}
	}
}

func (m *Merger) totalCost() int {
	total := 0
	for _, n := range m.Partition.Nodes() {
		total += m.Model.StageCost(n.Payload())
	}
	return total
}
