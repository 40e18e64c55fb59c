package heuristics

// minMaxCheck scores a candidate (a, b) merge by the resulting maximum
// stage cost across the whole partition, were it committed (spec
// §4.6's MinMaxSize): smaller is better, ties broken by the merged
// pair's instruction count.
func minMaxCheck(m *Merger, a, b stageNode) {
	mergedCost := m.Model.MergedStageCost(a.Payload(), b.Payload())
	maxCost := mergedCost
	for _, n := range m.Partition.Nodes() {
		if n == a || n == b {
			continue
		}
		if c := m.Model.StageCost(n.Payload()); c > maxCost {
			maxCost = c
		}
	}
	tieBreak := m.Model.MergedInstructionCount(a.Payload(), b.Payload())
	m.record(a, b, float64(maxCost), tieBreak)
}

// smallestSizeCheck scores a candidate (a, b) merge by how much it
// would reduce total pipeline cost (spec §4.6's SmallestSize),
// rejecting merges whose cost exceeds AcceptanceFactor * totalCost or
// that would leave exactly NumCores stages (the spec's "|stages| != N"
// guard keeps this strategy from converging to the same stage count
// MinMaxSize targets via its own stop condition).
func smallestSizeCheck(m *Merger, a, b stageNode) {
	if len(m.Partition.Nodes())-1 == m.NumCores {
		return
	}
	totalCost := m.totalCost()
	mergedCost := m.Model.MergedStageCost(a.Payload(), b.Payload())
	if float64(mergedCost) > m.AcceptanceFactor*float64(totalCost) {
		return
	}
	reduction := m.Model.StageCost(a.Payload()) + m.Model.StageCost(b.Payload()) - mergedCost
	if reduction <= 0 {
		return
	}
	tieBreak := m.Model.MergedInstructionCount(a.Payload(), b.Payload())
	// Smaller "score" wins in record(); SmallestSize wants the largest
	// reduction, so score on its negation.
	m.record(a, b, -float64(reduction), tieBreak)
}
