// Package partition groups SCCDAG nodes into pipeline stages (spec
// §4.4): a DG[*Stage] initialized one stage per SCC, with CanMerge,
// CycleIntroducedByMerging, and Merge maintaining invariant I7 (the
// partition graph never acquires a cycle) as stages coalesce.
package partition
