package partition_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arcana-lab/noelle-parallelcore/dg"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/partition"
	"github.com/arcana-lab/noelle-parallelcore/scc"
)

type fakeBlock struct {
	name string
}

func (b *fakeBlock) Parent() irmodel.Function          { return nil }
func (b *fakeBlock) Instructions() []irmodel.Instruction { return nil }
func (b *fakeBlock) Successors() []irmodel.Block       { return nil }
func (b *fakeBlock) Predecessors() []irmodel.Block     { return nil }
func (b *fakeBlock) Terminator() irmodel.Instruction   { return nil }

type fakeInst struct {
	name   string
	opcode irmodel.Opcode
	parent irmodel.Block
}

func (f *fakeInst) ValueName() string                       { return f.name }
func (f *fakeInst) Opcode() irmodel.Opcode                   { return f.opcode }
func (f *fakeInst) Parent() irmodel.Block                    { return f.parent }
func (f *fakeInst) Operands() []irmodel.Value                { return nil }
func (f *fakeInst) IsLifetimeIntrinsic() bool                { return false }
func (f *fakeInst) CalledFunction() (irmodel.Function, bool) { return nil, false }
func (f *fakeInst) PointerOperand() (irmodel.Value, bool)    { return nil, false }

func inst(name string, op irmodel.Opcode, b irmodel.Block) *fakeInst {
	return &fakeInst{name: name, opcode: op, parent: b}
}

// chainSCCDAG builds a 3-node SCCDAG a -> b -> c, each a trivial
// singleton SCC over one instruction.
func chainSCCDAG(t *testing.T) (*scc.SCCDAG, *fakeInst, *fakeInst, *fakeInst) {
	t.Helper()
	block := &fakeBlock{name: "entry"}
	a := inst("a", irmodel.OpOther, block)
	b := inst("b", irmodel.OpOther, block)
	c := inst("c", irmodel.OpOther, block)

	g := dg.New[irmodel.Value]()
	for _, v := range []irmodel.Value{a, b, c} {
		_, err := g.AddNode(v, true)
		require.NoError(t, err)
	}
	_, err := g.AddEdge(a, b)
	require.NoError(t, err)
	_, err = g.AddEdge(b, c)
	require.NoError(t, err)

	dag, err := scc.FromPDG(g)
	require.NoError(t, err)
	return dag, a, b, c
}

func stageFor(t *testing.T, p *partition.Partition, value irmodel.Value) *dg.Node[*partition.Stage] {
	t.Helper()
	for _, n := range p.Nodes() {
		for _, s := range n.Payload().SCCs() {
			for _, in := range s.InternalNodes() {
				if in.Payload() == value {
					return n
				}
			}
		}
	}
	t.Fatalf("no stage found for value %v", value)
	return nil
}

func TestFromSCCDAGOneStagePerSCC(t *testing.T) {
	dag, a, b, c := chainSCCDAG(t)
	p, err := partition.FromSCCDAG(dag)
	require.NoError(t, err)
	require.Equal(t, 3, p.NumNodes())
	require.Equal(t, 2, p.NumEdges())

	aStage := stageFor(t, p, a)
	bStage := stageFor(t, p, b)
	require.NotEmpty(t, p.FetchEdges(aStage, bStage))
	_ = c
}

func TestCanMergeAdjacentStagesWithNoOtherPath(t *testing.T) {
	dag, a, b, _ := chainSCCDAG(t)
	p, err := partition.FromSCCDAG(dag)
	require.NoError(t, err)

	aStage := stageFor(t, p, a)
	bStage := stageFor(t, p, b)
	require.True(t, p.CanMerge(aStage, bStage))
}

func TestMergeCollapsesStagesAndRewiresEdges(t *testing.T) {
	dag, a, b, c := chainSCCDAG(t)
	p, err := partition.FromSCCDAG(dag)
	require.NoError(t, err)

	aStage := stageFor(t, p, a)
	bStage := stageFor(t, p, b)
	cStage := stageFor(t, p, c)

	merged, err := p.Merge([]*dg.Node[*partition.Stage]{aStage, bStage})
	require.NoError(t, err)
	require.Equal(t, 2, p.NumNodes())
	require.NotEmpty(t, p.FetchEdges(merged, cStage))
	require.Len(t, merged.Payload().SCCs(), 2)
}

// diamondSCCDAG builds a -> b, a -> c, b -> d, c -> d (no direct cycle,
// but b and c each lie on a two-hop path between a and d).
func diamondSCCDAG(t *testing.T) (*scc.SCCDAG, map[string]*fakeInst) {
	t.Helper()
	block := &fakeBlock{name: "entry"}
	insts := map[string]*fakeInst{
		"a": inst("a", irmodel.OpOther, block),
		"b": inst("b", irmodel.OpOther, block),
		"c": inst("c", irmodel.OpOther, block),
		"d": inst("d", irmodel.OpOther, block),
	}
	g := dg.New[irmodel.Value]()
	for _, name := range []string{"a", "b", "c", "d"} {
		_, err := g.AddNode(insts[name], true)
		require.NoError(t, err)
	}
	_, err := g.AddEdge(insts["a"], insts["b"])
	require.NoError(t, err)
	_, err = g.AddEdge(insts["a"], insts["c"])
	require.NoError(t, err)
	_, err = g.AddEdge(insts["b"], insts["d"])
	require.NoError(t, err)
	_, err = g.AddEdge(insts["c"], insts["d"])
	require.NoError(t, err)

	dag, err := scc.FromPDG(g)
	require.NoError(t, err)
	return dag, insts
}

func TestCycleIntroducedByMergingPullsInDiamondLeg(t *testing.T) {
	dag, insts := diamondSCCDAG(t)
	p, err := partition.FromSCCDAG(dag)
	require.NoError(t, err)

	aStage := stageFor(t, p, insts["a"])
	dStage := stageFor(t, p, insts["d"])
	bStage := stageFor(t, p, insts["b"])
	cStage := stageFor(t, p, insts["c"])

	forced := p.CycleIntroducedByMerging(aStage, dStage)
	require.Len(t, forced, 4)
	require.Contains(t, forced, aStage)
	require.Contains(t, forced, dStage)
	require.Contains(t, forced, bStage)
	require.Contains(t, forced, cStage)
	// Forcing in b and c still yields an acyclic result (the partition
	// graph is always a DAG), so the merge is still allowed.
	require.True(t, p.CanMerge(aStage, dStage))
}

func TestMergeSyntacticSugarFoldsSingleGEPIntoUniqueNeighbor(t *testing.T) {
	block := &fakeBlock{name: "entry"}
	a := inst("a", irmodel.OpOther, block)
	gep := inst("gep", irmodel.OpGetElementPtr, block)

	g := dg.New[irmodel.Value]()
	_, err := g.AddNode(a, true)
	require.NoError(t, err)
	_, err = g.AddNode(gep, true)
	require.NoError(t, err)
	_, err = g.AddEdge(a, gep)
	require.NoError(t, err)

	dag, err := scc.FromPDG(g)
	require.NoError(t, err)
	p, err := partition.FromSCCDAG(dag)
	require.NoError(t, err)
	require.Equal(t, 2, p.NumNodes())

	merges, err := partition.MergeSyntacticSugar(p)
	require.NoError(t, err)
	require.Equal(t, 1, merges)
	require.Equal(t, 1, p.NumNodes())
}

func TestMergeTrivialTailBranchesFoldsTrailingCompareBranch(t *testing.T) {
	block := &fakeBlock{name: "entry"}
	a := inst("a", irmodel.OpOther, block)
	cmp := inst("cmp", irmodel.OpCompare, block)

	g := dg.New[irmodel.Value]()
	_, err := g.AddNode(a, true)
	require.NoError(t, err)
	_, err = g.AddNode(cmp, true)
	require.NoError(t, err)
	_, err = g.AddEdge(a, cmp)
	require.NoError(t, err)

	dag, err := scc.FromPDG(g)
	require.NoError(t, err)
	p, err := partition.FromSCCDAG(dag)
	require.NoError(t, err)

	merges, err := partition.MergeTrivialTailBranches(p)
	require.NoError(t, err)
	require.Equal(t, 1, merges)
	require.Equal(t, 1, p.NumNodes())
}
