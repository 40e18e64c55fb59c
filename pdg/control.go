package pdg

import (
	"github.com/arcana-lab/noelle-parallelcore/dg"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
)

// addControlEdges adds (terminator(A) -> every instruction of B,
// Control) whenever B is control-dependent on A: A has a successor A'
// such that B post-dominates A' but B does not post-dominate A (spec
// §4.2(c)).
func (p *PDG) addControlEdges(fn irmodel.Function, ds oracle.DominatorSummary) error {
	blocks := fn.Blocks()
	for _, a := range blocks {
		term := a.Terminator()
		if term == nil {
			continue
		}
		dependent := make(map[irmodel.Block]bool)
		for _, succ := range a.Successors() {
			for _, b := range blocks {
				if dependent[b] {
					continue
				}
				if !ds.PostDominates(b, succ) {
					continue
				}
				if ds.PostDominates(b, a) {
					continue
				}
				dependent[b] = true
				if err := p.addControlEdgesToBlock(term, b); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (p *PDG) addControlEdgesToBlock(term irmodel.Instruction, b irmodel.Block) error {
	for _, inst := range b.Instructions() {
		if inst.IsLifetimeIntrinsic() {
			continue
		}
		if !p.IsInGraph(inst) {
			continue
		}
		if inst == term {
			continue
		}
		e, err := p.AddEdge(term, inst)
		if err != nil {
			return err
		}
		e.Kind = dg.Control
		e.Memory = false
	}
	return nil
}
