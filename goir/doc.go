// Package goir implements the irmodel/oracle contracts over real Go
// programs, using golang.org/x/tools/go/packages to load source and
// golang.org/x/tools/go/ssa to build SSA form. It is the adapter the
// rest of this module runs against in place of the original's LLVM
// glue: wrap once here, and everything upstream (pdg, scc, partition,
// cost, heuristics, dataflow, pointsto, lcd) runs unmodified over a
// real program's control/data flow.
package goir
