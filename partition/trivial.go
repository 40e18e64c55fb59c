package partition

import (
	"github.com/arcana-lab/noelle-parallelcore/dg"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
)

// MergeSyntacticSugar folds every stage whose sole SCC is a single
// PHI/GEP/Cast instruction into its unique neighboring stage (ported
// from Partition.cpp's mergeSingleSyntacticSugarInstrs). Runs to a
// fixed point and returns the number of merges performed.
func MergeSyntacticSugar(p *Partition) (int, error) {
	total := 0
	for {
		progressed := false
		for _, stageNode := range p.Nodes() {
			neighbor, ok := singleSyntacticSugarNeighbor(p, stageNode)
			if !ok {
				continue
			}
			if _, err := p.Merge([]*dg.Node[*Stage]{stageNode, neighbor}); err != nil {
				return total, err
			}
			total++
			progressed = true
			break
		}
		if !progressed {
			return total, nil
		}
	}
}

func singleSyntacticSugarNeighbor(p *Partition, stageNode *dg.Node[*Stage]) (*dg.Node[*Stage], bool) {
	sccs := stageNode.Payload().SCCs()
	if len(sccs) != 1 {
		return nil, false
	}
	internal := sccs[0].InternalNodes()
	if len(internal) != 1 {
		return nil, false
	}
	inst, ok := internal[0].Payload().(irmodel.Instruction)
	if !ok || !inst.Opcode().IsSyntacticSugar() {
		return nil, false
	}

	neighbors := make(map[*dg.Node[*Stage]]bool)
	for _, e := range stageNode.OutgoingEdges() {
		if e.Dst() != stageNode {
			neighbors[e.Dst()] = true
		}
	}
	for _, e := range stageNode.IncomingEdges() {
		if e.Src() != stageNode {
			neighbors[e.Src()] = true
		}
	}
	if len(neighbors) != 1 {
		return nil, false
	}
	for n := range neighbors {
		return n, true
	}
	return nil, false
}

// MergeTrivialTailBranches folds a trailing compare/branch-only stage
// with no successors into its sole predecessor stage (ported from
// Partition.cpp's mergeBranchesWithoutOutgoingEdges). Runs to a fixed
// point and returns the number of merges performed.
func MergeTrivialTailBranches(p *Partition) (int, error) {
	total := 0
	for {
		progressed := false
		for _, stageNode := range p.Nodes() {
			pred, ok := trivialTailPredecessor(stageNode)
			if !ok {
				continue
			}
			if _, err := p.Merge([]*dg.Node[*Stage]{stageNode, pred}); err != nil {
				return total, err
			}
			total++
			progressed = true
			break
		}
		if !progressed {
			return total, nil
		}
	}
}

func trivialTailPredecessor(stageNode *dg.Node[*Stage]) (*dg.Node[*Stage], bool) {
	if len(stageNode.OutgoingEdges()) != 0 {
		return nil, false
	}
	if !isCompareOrBranchOnly(stageNode) {
		return nil, false
	}
	preds := make(map[*dg.Node[*Stage]]bool)
	for _, e := range stageNode.IncomingEdges() {
		if e.Src() != stageNode {
			preds[e.Src()] = true
		}
	}
	if len(preds) != 1 {
		return nil, false
	}
	for n := range preds {
		return n, true
	}
	return nil, false
}

func isCompareOrBranchOnly(stageNode *dg.Node[*Stage]) bool {
	for _, s := range stageNode.Payload().SCCs() {
		for _, n := range s.InternalNodes() {
			inst, ok := n.Payload().(irmodel.Instruction)
			if !ok {
				return false
			}
			switch inst.Opcode() {
			case irmodel.OpCompare, irmodel.OpBranch, irmodel.OpTerminator:
			default:
				return false
			}
		}
	}
	return true
}
