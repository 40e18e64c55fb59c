// Package pointsto implements the monotone may-point-to analysis of
// spec §4.9: a flow-insensitive-per-function, interprocedural-by-a-call
// worklist solver producing a PointToGraph consumed by the lcd
// package's loop-carried-dependence classifier.
package pointsto
