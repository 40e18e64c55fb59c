// Package lcd implements the loop-carried-dependence classifier of
// spec §4.8: given a loop, a dominator summary, and a PDG, it marks
// each PDG edge's LoopCarried flag, refining the pessimistic default
// with pointer-identity, dominance, and may-point-to checks.
// Overwriting-in-inner-loop recognition is not performed: edges it would
// clear keep the pessimistic answer.
package lcd
