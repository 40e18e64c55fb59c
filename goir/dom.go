package goir

import (
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
)

// dominatorSummary implements oracle.DominatorSummary over a function's
// blocks, computed with the classic iterative fixpoint dominance
// algorithm (Allen/Cocke): Dom(entry) = {entry}; Dom(b) = {b} ∪
// ⋂ Dom(p) for every predecessor p, iterated to a fixed point. Post-
// dominance is the same routine run over the reversed CFG with a
// synthetic unified exit node standing in for a function's (possibly
// several) blocks with no successors.
type dominatorSummary struct {
	dom     map[irmodel.Block]blockSet
	postDom map[irmodel.Block]blockSet
}

type blockSet map[irmodel.Block]bool

func cloneSet(s blockSet) blockSet {
	out := make(blockSet, len(s))
	for b := range s {
		out[b] = true
	}
	return out
}

func intersect(a, b blockSet) blockSet {
	out := make(blockSet, len(a))
	for x := range a {
		if b[x] {
			out[x] = true
		}
	}
	return out
}

func setsEqual(a, b blockSet) bool {
	if len(a) != len(b) {
		return false
	}
	for x := range a {
		if !b[x] {
			return false
		}
	}
	return true
}

// computeDominators runs the fixpoint algorithm over blocks, where
// preds(b) gives b's predecessors in whatever direction (forward or
// reversed) the caller wants dominance computed.
func computeDominators(blocks []irmodel.Block, entry irmodel.Block, preds func(irmodel.Block) []irmodel.Block) map[irmodel.Block]blockSet {
	all := make(blockSet, len(blocks))
	for _, b := range blocks {
		all[b] = true
	}

	dom := make(map[irmodel.Block]blockSet, len(blocks))
	for _, b := range blocks {
		if b == entry {
			dom[b] = blockSet{entry: true}
		} else {
			dom[b] = cloneSet(all)
		}
	}

	for changed := true; changed; {
		changed = false
		for _, b := range blocks {
			if b == entry {
				continue
			}
			var inter blockSet
			for _, p := range preds(b) {
				if inter == nil {
					inter = cloneSet(dom[p])
				} else {
					inter = intersect(inter, dom[p])
				}
			}
			if inter == nil {
				inter = blockSet{}
			}
			inter[b] = true
			if !setsEqual(inter, dom[b]) {
				dom[b] = inter
				changed = true
			}
		}
	}
	return dom
}

// virtualExit stands in for the unified exit node an augmented CFG
// needs so post-dominance has a single, well-defined entry to compute
// from even when a function has several exit blocks (multiple Return/
// Panic blocks).
type virtualExit struct{}

func (virtualExit) Parent() irmodel.Function            { return nil }
func (virtualExit) Instructions() []irmodel.Instruction { return nil }
func (virtualExit) Successors() []irmodel.Block         { return nil }
func (virtualExit) Predecessors() []irmodel.Block       { return nil }
func (virtualExit) Terminator() irmodel.Instruction     { return nil }

var exitSentinel irmodel.Block = virtualExit{}

// newDominatorSummary computes both dominance and post-dominance for
// fn's blocks.
func newDominatorSummary(fn irmodel.Function) *dominatorSummary {
	blocks := fn.Blocks()
	if len(blocks) == 0 {
		return &dominatorSummary{dom: map[irmodel.Block]blockSet{}, postDom: map[irmodel.Block]blockSet{}}
	}
	entry := fn.EntryBlock()

	dom := computeDominators(blocks, entry, func(b irmodel.Block) []irmodel.Block {
		return b.Predecessors()
	})

	augmented := append(append([]irmodel.Block(nil), blocks...), exitSentinel)
	postDom := computeDominators(augmented, exitSentinel, func(b irmodel.Block) []irmodel.Block {
		if b == exitSentinel {
			var exits []irmodel.Block
			for _, blk := range blocks {
				if len(blk.Successors()) == 0 {
					exits = append(exits, blk)
				}
			}
			return exits
		}
		succs := b.Successors()
		if len(succs) == 0 {
			return []irmodel.Block{exitSentinel}
		}
		return succs
	})

	return &dominatorSummary{dom: dom, postDom: postDom}
}

func (d *dominatorSummary) Dominates(a, b irmodel.Block) bool {
	set, ok := d.dom[b]
	return ok && set[a]
}

func (d *dominatorSummary) StrictlyDominates(a, b irmodel.Block) bool {
	return a != b && d.Dominates(a, b)
}

func (d *dominatorSummary) PostDominates(a, b irmodel.Block) bool {
	set, ok := d.postDom[b]
	return ok && set[a]
}

func (d *dominatorSummary) StrictlyPostDominates(a, b irmodel.Block) bool {
	return a != b && d.PostDominates(a, b)
}

func (d *dominatorSummary) Descendants(b irmodel.Block) []irmodel.Block {
	var out []irmodel.Block
	for c := range d.dom {
		if c != b && d.Dominates(b, c) {
			out = append(out, c)
		}
	}
	return out
}

var _ oracle.DominatorSummary = (*dominatorSummary)(nil)
