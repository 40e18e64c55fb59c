// Package scc partitions a Program Dependence Graph into strongly
// connected components and condenses them into an SCCDAG (spec §4.3):
// a DG[*SCC] whose edges aggregate the PDG edges crossing each SCC
// boundary as sub-edges.
//
// Enumeration is Tarjan's single-pass, path-based algorithm, run
// independently over each disconnected component of the PDG.
package scc
