// Package pdg builds the Program Dependence Graph (spec §4.2): a
// dg.DG[irmodel.Value] populated with def-use, memory, and control
// edges for every instruction and argument of a module, function, or
// loop.
//
// Construction never inspects the IR for anything this core isn't
// allowed to compute itself (alias analysis, dominance): those answers
// come from the oracle package, supplied by the caller.
package pdg
