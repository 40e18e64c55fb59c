// Package heuristics implements the cost-directed partition mergers of
// spec §4.6: a shared PartitionCostAnalysis traversal plus the
// MinMaxSize and SmallestSize candidate-selection strategies, each
// iterating traverse-then-merge to a fixed point.
package heuristics
