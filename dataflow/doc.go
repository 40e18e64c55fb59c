// Package dataflow implements the forward/backward iterative dataflow
// engine of spec §4.7: a worklist-by-basic-block solver parameterized
// on caller-supplied GEN, KILL, MEET, initial-set, and per-instruction
// step closures.
package dataflow
