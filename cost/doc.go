// Package cost implements the InvocationLatency cost model of spec
// §4.5: deterministic, memoized estimates of instruction, SCC, and
// stage cost, consumed by the heuristics package's cost-directed
// mergers.
package cost
