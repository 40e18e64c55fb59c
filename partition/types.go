package partition

import (
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/scc"
)

// Stage is an ordered-free set of SCCs assigned to run as one pipeline
// step.
type Stage struct {
	sccs map[*scc.SCC]bool
}

func newStage(members ...*scc.SCC) *Stage {
	s := &Stage{sccs: make(map[*scc.SCC]bool, len(members))}
	for _, m := range members {
		s.sccs[m] = true
	}
	return s
}

// NewStage builds a standalone Stage grouping members, without adding
// it to any Partition. Exposed so a cost oracle can evaluate a
// hypothetical merge's cost before committing it via Partition.Merge.
func NewStage(members ...*scc.SCC) *Stage { return newStage(members...) }

// Contains reports whether s is one of this stage's member SCCs.
func (st *Stage) Contains(s *scc.SCC) bool { return st.sccs[s] }

// SCCs returns this stage's member SCCs; order is unspecified.
func (st *Stage) SCCs() []*scc.SCC {
	out := make([]*scc.SCC, 0, len(st.sccs))
	for s := range st.sccs {
		out = append(out, s)
	}
	return out
}

// blocksOf returns the distinct blocks containing an instruction
// belonging to one of this stage's SCCs.
func (st *Stage) blocksOf() map[irmodel.Block]bool {
	blocks := make(map[irmodel.Block]bool)
	for s := range st.sccs {
		for _, n := range s.InternalNodes() {
			inst, ok := n.Payload().(irmodel.Instruction)
			if !ok {
				continue
			}
			if b := inst.Parent(); b != nil {
				blocks[b] = true
			}
		}
	}
	return blocks
}
