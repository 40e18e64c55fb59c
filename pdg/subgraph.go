package pdg

import (
	"github.com/arcana-lab/noelle-parallelcore/dg"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
)

// SubgraphForFunction returns the sub-induced PDG over exactly fn's
// arguments and instructions (spec §6's PDG::subgraph_for_function).
// The entry node is fn's first instruction, if it has one.
func (p *PDG) SubgraphForFunction(fn irmodel.Function) (*PDG, error) {
	var nodes []*dg.Node[irmodel.Value]
	for _, arg := range fn.Arguments() {
		if n := p.FetchNode(arg); n != nil {
			nodes = append(nodes, n)
		}
	}
	for _, b := range fn.Blocks() {
		for _, inst := range b.Instructions() {
			if n := p.FetchNode(inst); n != nil {
				nodes = append(nodes, n)
			}
		}
	}
	var entry *dg.Node[irmodel.Value]
	if eb := fn.EntryBlock(); eb != nil {
		if insts := eb.Instructions(); len(insts) > 0 {
			entry = p.FetchNode(insts[0])
		}
	}
	return p.copyInduced(nodes, entry)
}

// SubgraphForLoop returns the sub-induced PDG over every instruction of
// every block in l (spec §6's PDG::subgraph_for_loop). The entry node
// is the first instruction of the loop header.
func (p *PDG) SubgraphForLoop(l oracle.Loop) (*PDG, error) {
	var nodes []*dg.Node[irmodel.Value]
	for _, b := range l.Blocks() {
		for _, inst := range b.Instructions() {
			if n := p.FetchNode(inst); n != nil {
				nodes = append(nodes, n)
			}
		}
	}
	var entry *dg.Node[irmodel.Value]
	if header := l.Header(); header != nil {
		if insts := header.Instructions(); len(insts) > 0 {
			entry = p.FetchNode(insts[0])
		}
	}
	return p.copyInduced(nodes, entry)
}

// SubgraphForValues returns the sub-induced PDG over exactly the given
// values (spec §6's PDG::subgraph_for_values); no entry node is set.
func (p *PDG) SubgraphForValues(values []irmodel.Value) (*PDG, error) {
	var nodes []*dg.Node[irmodel.Value]
	for _, v := range values {
		if n := p.FetchNode(v); n != nil {
			nodes = append(nodes, n)
		}
	}
	return p.copyInduced(nodes, nil)
}

func (p *PDG) copyInduced(nodes []*dg.Node[irmodel.Value], entry *dg.Node[irmodel.Value]) (*PDG, error) {
	dest := New()
	if err := p.CopyNodesIntoNewGraph(dest.DG, nodes, entry); err != nil {
		return nil, err
	}
	return dest, nil
}
