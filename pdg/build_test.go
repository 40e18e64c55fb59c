package pdg_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
	"github.com/arcana-lab/noelle-parallelcore/pdg"
)

// singleBlockModule builds a one-function, one-block module:
//   a = alloca
//   s = store a
//   l = load a   (uses a as pointer operand; also a def-use consumer of a)
func singleBlockModule() (*fakeModule, *fakeInst, *fakeInst, *fakeInst) {
	fn := &fakeFunction{name: "f"}
	block := &fakeBlock{name: "entry", parent: fn}

	alloca := &fakeInst{name: "a", opcode: irmodel.OpAlloca, parent: block}
	store := &fakeInst{name: "s", opcode: irmodel.OpStore, parent: block, operands: []irmodel.Value{alloca}, ptrOperand: alloca, ptrOk: true}
	load := &fakeInst{name: "l", opcode: irmodel.OpLoad, parent: block, operands: []irmodel.Value{alloca}, ptrOperand: alloca, ptrOk: true}

	block.insts = []irmodel.Instruction{alloca, store, load}
	fn.blocks = []irmodel.Block{block}
	fn.entry = block

	mod := &fakeModule{fns: []irmodel.Function{fn}, entryFn: fn, entryOk: true}
	return mod, alloca, store, load
}

func noPostDoms(irmodel.Function) oracle.DominatorSummary { return nil }

func TestFromModuleAddsDefUseEdges(t *testing.T) {
	mod, alloca, store, load := singleBlockModule()
	aliases := newFakeAliasOracle()

	graph, err := pdg.FromModule(mod, aliases, noPostDoms, fakeCallGraph{}, pdg.Options{})
	require.NoError(t, err)

	require.True(t, graph.IsInternal(irmodel.Value(alloca)))
	require.True(t, graph.IsInternal(irmodel.Value(store)))
	require.True(t, graph.IsInternal(irmodel.Value(load)))

	edges := graph.FetchEdges(graph.FetchNode(alloca), graph.FetchNode(store))
	require.Len(t, edges, 1)
	require.Equal(t, 1, int(edges[0].DataDep)) // RAW
	require.True(t, edges[0].Must)
	require.False(t, edges[0].Memory)

	edges = graph.FetchEdges(graph.FetchNode(alloca), graph.FetchNode(load))
	require.Len(t, edges, 1)

	entry := graph.EntryNode()
	require.NotNil(t, entry)
	require.Equal(t, alloca, entry.Payload())
}

func TestAddMemoryEdgesStoreStoreWAW(t *testing.T) {
	fn := &fakeFunction{name: "f"}
	block := &fakeBlock{name: "entry", parent: fn}

	p1 := &fakeInst{name: "p1", opcode: irmodel.OpAlloca, parent: block}
	s1 := &fakeInst{name: "s1", opcode: irmodel.OpStore, parent: block, ptrOperand: p1, ptrOk: true}
	s2 := &fakeInst{name: "s2", opcode: irmodel.OpStore, parent: block, ptrOperand: p1, ptrOk: true}

	block.insts = []irmodel.Instruction{p1, s1, s2}
	fn.blocks = []irmodel.Block{block}
	fn.entry = block
	mod := &fakeModule{fns: []irmodel.Function{fn}}

	aliases := newFakeAliasOracle()
	aliases.setAlias(p1, p1, oracle.MustAlias)

	graph, err := pdg.FromModule(mod, aliases, noPostDoms, fakeCallGraph{}, pdg.Options{})
	require.NoError(t, err)

	fwd := graph.FetchEdges(graph.FetchNode(s1), graph.FetchNode(s2))
	require.Len(t, fwd, 1)
	require.Equal(t, 3, int(fwd[0].DataDep)) // WAW
	require.True(t, fwd[0].Must)
	require.True(t, fwd[0].Memory)

	rev := graph.FetchEdges(graph.FetchNode(s2), graph.FetchNode(s1))
	require.Len(t, rev, 1)
}

func TestAddMemoryEdgesNoAliasAddsNoEdge(t *testing.T) {
	fn := &fakeFunction{name: "f"}
	block := &fakeBlock{name: "entry", parent: fn}

	p1 := &fakeInst{name: "p1", opcode: irmodel.OpAlloca, parent: block}
	p2 := &fakeInst{name: "p2", opcode: irmodel.OpAlloca, parent: block}
	s1 := &fakeInst{name: "s1", opcode: irmodel.OpStore, parent: block, ptrOperand: p1, ptrOk: true}
	s2 := &fakeInst{name: "s2", opcode: irmodel.OpStore, parent: block, ptrOperand: p2, ptrOk: true}

	block.insts = []irmodel.Instruction{p1, p2, s1, s2}
	fn.blocks = []irmodel.Block{block}
	fn.entry = block
	mod := &fakeModule{fns: []irmodel.Function{fn}}

	aliases := newFakeAliasOracle() // defaults to NoAlias everywhere

	graph, err := pdg.FromModule(mod, aliases, noPostDoms, fakeCallGraph{}, pdg.Options{})
	require.NoError(t, err)

	require.Empty(t, graph.FetchEdges(graph.FetchNode(s1), graph.FetchNode(s2)))
	require.Empty(t, graph.FetchEdges(graph.FetchNode(s2), graph.FetchNode(s1)))
}

// branchingModule builds:
//   entry: branch -> (then, els)
//   then:  inst t
//   els:   inst e
//   exit:  inst x (successor of both then and els)
func branchingModule() (*fakeModule, map[string]*fakeBlock, map[string]*fakeInst) {
	fn := &fakeFunction{name: "f"}
	entry := &fakeBlock{name: "entry", parent: fn}
	thenB := &fakeBlock{name: "then", parent: fn}
	elsB := &fakeBlock{name: "els", parent: fn}
	exit := &fakeBlock{name: "exit", parent: fn}

	br := &fakeInst{name: "br", opcode: irmodel.OpBranch, parent: entry}
	tInst := &fakeInst{name: "t", opcode: irmodel.OpOther, parent: thenB}
	eInst := &fakeInst{name: "e", opcode: irmodel.OpOther, parent: elsB}
	xInst := &fakeInst{name: "x", opcode: irmodel.OpOther, parent: exit}

	entry.insts = []irmodel.Instruction{br}
	entry.succs = []irmodel.Block{thenB, elsB}
	thenB.insts = []irmodel.Instruction{tInst}
	thenB.preds = []irmodel.Block{entry}
	thenB.succs = []irmodel.Block{exit}
	elsB.insts = []irmodel.Instruction{eInst}
	elsB.preds = []irmodel.Block{entry}
	elsB.succs = []irmodel.Block{exit}
	exit.insts = []irmodel.Instruction{xInst}
	exit.preds = []irmodel.Block{thenB, elsB}

	fn.blocks = []irmodel.Block{entry, thenB, elsB, exit}
	fn.entry = entry
	mod := &fakeModule{fns: []irmodel.Function{fn}, entryFn: fn, entryOk: true}

	blocks := map[string]*fakeBlock{"entry": entry, "then": thenB, "els": elsB, "exit": exit}
	insts := map[string]*fakeInst{"br": br, "t": tInst, "e": eInst, "x": xInst}
	return mod, blocks, insts
}

func TestAddControlEdges(t *testing.T) {
	mod, blocks, insts := branchingModule()

	ds := newFakeDominatorSummary()
	// Every block (post-)dominates itself.
	for _, b := range blocks {
		ds.setPostDominates(b, b)
	}
	// exit post-dominates then, els, and entry (single-exit diamond).
	ds.setPostDominates(blocks["exit"], blocks["then"])
	ds.setPostDominates(blocks["exit"], blocks["els"])
	ds.setPostDominates(blocks["exit"], blocks["entry"])
	// then/els post-dominate only themselves among non-exit blocks.

	postDoms := func(irmodel.Function) oracle.DominatorSummary { return ds }

	graph, err := pdg.FromModule(mod, newFakeAliasOracle(), postDoms, fakeCallGraph{}, pdg.Options{})
	require.NoError(t, err)

	// then and els are control-dependent on entry's branch (exit does not
	// qualify: it post-dominates entry too, so the "not post-dominating A"
	// condition excludes it).
	require.NotEmpty(t, graph.FetchEdges(graph.FetchNode(insts["br"]), graph.FetchNode(insts["t"])))
	require.NotEmpty(t, graph.FetchEdges(graph.FetchNode(insts["br"]), graph.FetchNode(insts["e"])))
	require.Empty(t, graph.FetchEdges(graph.FetchNode(insts["br"]), graph.FetchNode(insts["x"])))
}

func TestRemovePureCallMemoryEdges(t *testing.T) {
	callee := &fakeFunction{name: "pure_callee"}
	calleeBlock := &fakeBlock{name: "entry", parent: callee}
	add := &fakeInst{name: "add", opcode: irmodel.OpAdd, parent: calleeBlock}
	calleeBlock.insts = []irmodel.Instruction{add}
	callee.blocks = []irmodel.Block{calleeBlock}
	callee.entry = calleeBlock

	fn := &fakeFunction{name: "caller"}
	block := &fakeBlock{name: "entry", parent: fn}
	ptr := &fakeInst{name: "p", opcode: irmodel.OpAlloca, parent: block}
	call := &fakeInst{name: "call", opcode: irmodel.OpCall, parent: block, calledFn: callee, calledOk: true}
	load := &fakeInst{name: "l", opcode: irmodel.OpLoad, parent: block, ptrOperand: ptr, ptrOk: true}

	block.insts = []irmodel.Instruction{ptr, call, load}
	fn.blocks = []irmodel.Block{block}
	fn.entry = block
	mod := &fakeModule{fns: []irmodel.Function{fn, callee}}

	aliases := newFakeAliasOracle()
	aliases.setModRefInst(call, ptr, oracle.ModRef)

	withoutRefine, err := pdg.FromModule(mod, aliases, noPostDoms, fakeCallGraph{}, pdg.Options{})
	require.NoError(t, err)
	require.NotEmpty(t, withoutRefine.FetchEdges(withoutRefine.FetchNode(call), withoutRefine.FetchNode(load)))

	refined, err := pdg.FromModule(mod, aliases, noPostDoms, fakeCallGraph{}, pdg.Options{RemovePureCalls: true})
	require.NoError(t, err)
	require.Empty(t, refined.FetchEdges(refined.FetchNode(call), refined.FetchNode(load)))
	require.Empty(t, refined.FetchEdges(refined.FetchNode(load), refined.FetchNode(call)))
}

func TestSubgraphForFunctionIsolatesNodes(t *testing.T) {
	mod, _, insts := branchingModule()
	second := &fakeFunction{name: "g"}
	secondBlock := &fakeBlock{name: "entry", parent: second}
	secondInst := &fakeInst{name: "g.i", opcode: irmodel.OpOther, parent: secondBlock}
	secondBlock.insts = []irmodel.Instruction{secondInst}
	second.blocks = []irmodel.Block{secondBlock}
	second.entry = secondBlock
	mod.fns = append(mod.fns, second)

	graph, err := pdg.FromModule(mod, newFakeAliasOracle(), noPostDoms, fakeCallGraph{}, pdg.Options{})
	require.NoError(t, err)

	sub, err := graph.SubgraphForFunction(mod.fns[0])
	require.NoError(t, err)

	require.True(t, sub.IsInternal(irmodel.Value(insts["br"])))
	require.True(t, sub.IsInternal(irmodel.Value(insts["t"])))
	require.False(t, sub.IsInGraph(irmodel.Value(secondInst)))
}
