package goir

import (
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
)

// natLoop implements oracle.Loop. Blocks are discovered via the
// classic back-edge algorithm: an edge b -> h is a back edge when h
// dominates b, and h's natural loop is h plus every block that can
// reach b by walking predecessors without passing through h.
type natLoop struct {
	header  irmodel.Block
	blocks  blockSet
	latches []irmodel.Block
	level   int
	inner   blockSet // blocks belonging to a loop nested strictly inside this one
}

func (l *natLoop) Header() irmodel.Block { return l.header }

func (l *natLoop) Preheader() (irmodel.Block, bool) {
	var found irmodel.Block
	count := 0
	for _, p := range l.header.Predecessors() {
		if !l.blocks[p] {
			found = p
			count++
		}
	}
	if count == 1 {
		return found, true
	}
	return nil, false
}

func (l *natLoop) Latches() []irmodel.Block { return append([]irmodel.Block(nil), l.latches...) }

func (l *natLoop) ExitBlocks() []irmodel.Block {
	var out []irmodel.Block
	seen := make(blockSet)
	for b := range l.blocks {
		for _, s := range b.Successors() {
			if !l.blocks[s] && !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func (l *natLoop) Blocks() []irmodel.Block {
	out := make([]irmodel.Block, 0, len(l.blocks))
	for b := range l.blocks {
		out = append(out, b)
	}
	return out
}

func (l *natLoop) NestingLevel() int { return l.level }

func (l *natLoop) ContainsInInnerLoop(b irmodel.Block) bool { return l.inner[b] }

func (l *natLoop) Contains(b irmodel.Block) bool { return l.blocks[b] }

var _ oracle.Loop = (*natLoop)(nil)

// loopTree implements oracle.LoopTree for one function.
type loopTree struct {
	top      []oracle.Loop
	innerMost map[irmodel.Block]oracle.Loop
}

func (t *loopTree) TopLevelLoops() []oracle.Loop { return append([]oracle.Loop(nil), t.top...) }

func (t *loopTree) LoopFor(b irmodel.Block) (oracle.Loop, bool) {
	l, ok := t.innerMost[b]
	return l, ok
}

var _ oracle.LoopTree = (*loopTree)(nil)

// buildLoopTree discovers fn's natural loops from its dominator
// summary and assembles the nesting relationships ContainsInInnerLoop/
// NestingLevel/TopLevelLoops/LoopFor need.
func buildLoopTree(fn irmodel.Function, dom *dominatorSummary) *loopTree {
	blocks := fn.Blocks()

	// latchesByHeader collects every back-edge source per loop header.
	latchesByHeader := make(map[irmodel.Block][]irmodel.Block)
	var headers []irmodel.Block
	for _, b := range blocks {
		for _, s := range b.Successors() {
			if dom.Dominates(s, b) { // s dominates b: b -> s is a back edge
				if _, seen := latchesByHeader[s]; !seen {
					headers = append(headers, s)
				}
				latchesByHeader[s] = append(latchesByHeader[s], b)
			}
		}
	}

	var loops []*natLoop
	for _, h := range headers {
		members := make(blockSet)
		members[h] = true
		var stack []irmodel.Block
		for _, latch := range latchesByHeader[h] {
			if !members[latch] {
				members[latch] = true
				stack = append(stack, latch)
			}
		}
		for len(stack) > 0 {
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, p := range b.Predecessors() {
				if !members[p] {
					members[p] = true
					stack = append(stack, p)
				}
			}
		}
		loops = append(loops, &natLoop{header: h, blocks: members, latches: latchesByHeader[h]})
	}

	// Nesting: L2 nests inside L1 when L2's block set is a strict
	// subset of L1's (headers are unique per loop here, so equal block
	// sets can't arise from two distinct loops).
	for _, l1 := range loops {
		l1.inner = make(blockSet)
		for _, l2 := range loops {
			if l1 == l2 || len(l2.blocks) >= len(l1.blocks) {
				continue
			}
			if isSubset(l2.blocks, l1.blocks) {
				for b := range l2.blocks {
					l1.inner[b] = true
				}
			}
		}
	}
	// NestingLevel counts how many other loops strictly contain this
	// one (0 = top-level loop).
	for _, l1 := range loops {
		l1.level = 0
		for _, l2 := range loops {
			if l1 != l2 && len(l1.blocks) < len(l2.blocks) && isSubset(l1.blocks, l2.blocks) {
				l1.level++
			}
		}
	}

	var top []oracle.Loop
	innerMost := make(map[irmodel.Block]oracle.Loop)
	for _, l := range loops {
		isTop := true
		for _, other := range loops {
			if other != l && len(l.blocks) < len(other.blocks) && isSubset(l.blocks, other.blocks) {
				isTop = false
				break
			}
		}
		if isTop {
			top = append(top, l)
		}
		for b := range l.blocks {
			cur, ok := innerMost[b]
			if !ok || len(l.blocks) < len(cur.Blocks()) {
				innerMost[b] = l
			}
		}
	}

	return &loopTree{top: top, innerMost: innerMost}
}

func isSubset(small, big blockSet) bool {
	for b := range small {
		if !big[b] {
			return false
		}
	}
	return true
}
