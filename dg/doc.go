// Package dg is the graph substrate every other package in this module
// is built on: a generic, labeled, directed multigraph with typed edges
// and an internal/external node partition.
//
// A DG[T] owns every Node[T] and Edge[T] it creates — there is no
// shared ownership and no way to reach a node or edge except through
// the graph that created it. Payloads are looked up by value (T must
// be comparable), never by a node's numeric id, so two graphs built
// over the same payload set can be compared, merged, or have edges
// copied between them without renumbering anything.
//
// Nodes partition into two disjoint tables:
//
//   - internal: payloads owned by whoever is building this graph
//     (e.g. every instruction of the function a PDG was built for).
//   - external: payloads only referenced because an edge reaches them
//     from outside (e.g. a live-in value defined in a caller).
//
// Edges are a tagged union (Data / Control / Undefined) rather than a
// family of edge types, because higher layers (SCCDAG edges over PDG
// edges, stage edges over SCCDAG edges) need to aggregate edges from
// the layer below as "sub-edges" of one edge at the layer above, and a
// single edge type keeps that aggregation uniform across layers.
//
// Complexity notes mirror the teacher's convention: the node/edge
// mutators and the larger queries document their Big-O. All node/edge
// iteration returns sorted-by-id slices so two runs over the same
// construction produce byte-identical output.
package dg
