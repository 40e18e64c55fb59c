package partition

import (
	"github.com/arcana-lab/noelle-parallelcore/dg"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/scc"
)

// Partition is a DG[*Stage] plus the two auxiliary indices named by
// spec §4.4: scc → stage and block → stages present in that block.
type Partition struct {
	*dg.DG[*Stage]

	sccToStage  map[*scc.SCC]*dg.Node[*Stage]
	blockStages map[irmodel.Block]map[*dg.Node[*Stage]]bool
}

// FromSCCDAG builds the initial partition: one stage per SCCDAG node,
// with a stage edge (A,B) wherever the SCCDAG has an edge from an SCC
// of A to an SCC of B.
func FromSCCDAG(sccdag *scc.SCCDAG) (*Partition, error) {
	p := &Partition{
		DG:          dg.New[*Stage](),
		sccToStage:  make(map[*scc.SCC]*dg.Node[*Stage]),
		blockStages: make(map[irmodel.Block]map[*dg.Node[*Stage]]bool),
	}

	sccNodeToStageNode := make(map[*dg.Node[*scc.SCC]]*dg.Node[*Stage])
	for _, sccNode := range sccdag.Nodes() {
		s := sccNode.Payload()
		stage := newStage(s)
		stageNode, err := p.AddNode(stage, true)
		if err != nil {
			return nil, err
		}
		p.sccToStage[s] = stageNode
		sccNodeToStageNode[sccNode] = stageNode
		p.indexBlocks(stageNode, stage)
	}

	for _, e := range sccdag.Edges() {
		srcStage := sccNodeToStageNode[e.Src()]
		dstStage := sccNodeToStageNode[e.Dst()]
		if srcStage == dstStage {
			continue
		}
		if len(p.FetchEdges(srcStage, dstStage)) > 0 {
			continue
		}
		if _, err := p.AddEdge(srcStage.Payload(), dstStage.Payload()); err != nil {
			return nil, err
		}
	}

	return p, nil
}

func (p *Partition) indexBlocks(stageNode *dg.Node[*Stage], stage *Stage) {
	for b := range stage.blocksOf() {
		if p.blockStages[b] == nil {
			p.blockStages[b] = make(map[*dg.Node[*Stage]]bool)
		}
		p.blockStages[b][stageNode] = true
	}
}

// StageOf returns the stage node currently holding s, or nil if s is
// not part of this partition.
func (p *Partition) StageOf(s *scc.SCC) *dg.Node[*Stage] { return p.sccToStage[s] }

// StagesInBlock returns every stage with at least one instruction in
// b, insertion order not guaranteed.
func (p *Partition) StagesInBlock(b irmodel.Block) []*dg.Node[*Stage] {
	set := p.blockStages[b]
	out := make([]*dg.Node[*Stage], 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	return out
}
