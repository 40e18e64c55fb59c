package pdg_test

import (
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
)

// fakeValue/fakeInst/fakeArg/fakeBlock/fakeFunction/fakeModule give the
// pdg package tests a minimal, self-contained irmodel.Module without
// depending on any concrete IR adapter.

type fakeArg struct {
	name   string
	parent irmodel.Function
	index  int
}

func (a *fakeArg) ValueName() string          { return a.name }
func (a *fakeArg) ArgParent() irmodel.Function { return a.parent }
func (a *fakeArg) ArgIndex() int               { return a.index }

type fakeInst struct {
	name       string
	opcode     irmodel.Opcode
	parent     irmodel.Block
	operands   []irmodel.Value
	lifetime   bool
	calledFn   irmodel.Function
	calledOk   bool
	ptrOperand irmodel.Value
	ptrOk      bool
}

func (i *fakeInst) ValueName() string             { return i.name }
func (i *fakeInst) Opcode() irmodel.Opcode        { return i.opcode }
func (i *fakeInst) Parent() irmodel.Block         { return i.parent }
func (i *fakeInst) Operands() []irmodel.Value     { return i.operands }
func (i *fakeInst) IsLifetimeIntrinsic() bool     { return i.lifetime }
func (i *fakeInst) CalledFunction() (irmodel.Function, bool) {
	return i.calledFn, i.calledOk
}
func (i *fakeInst) PointerOperand() (irmodel.Value, bool) {
	return i.ptrOperand, i.ptrOk
}

type fakeBlock struct {
	name   string
	parent irmodel.Function
	insts  []irmodel.Instruction
	succs  []irmodel.Block
	preds  []irmodel.Block
}

func (b *fakeBlock) Parent() irmodel.Function        { return b.parent }
func (b *fakeBlock) Instructions() []irmodel.Instruction { return b.insts }
func (b *fakeBlock) Successors() []irmodel.Block     { return b.succs }
func (b *fakeBlock) Predecessors() []irmodel.Block   { return b.preds }
func (b *fakeBlock) Terminator() irmodel.Instruction {
	if len(b.insts) == 0 {
		return nil
	}
	last := b.insts[len(b.insts)-1]
	if last.Opcode() == irmodel.OpTerminator || last.Opcode() == irmodel.OpBranch {
		return last
	}
	return nil
}

type fakeFunction struct {
	name   string
	blocks []irmodel.Block
	args   []irmodel.Argument
	entry  irmodel.Block
}

func (f *fakeFunction) Name() string               { return f.name }
func (f *fakeFunction) Blocks() []irmodel.Block     { return f.blocks }
func (f *fakeFunction) Arguments() []irmodel.Argument { return f.args }
func (f *fakeFunction) EntryBlock() irmodel.Block   { return f.entry }

type fakeModule struct {
	fns      []irmodel.Function
	entryFn  irmodel.Function
	entryOk  bool
}

func (m *fakeModule) Functions() []irmodel.Function { return m.fns }
func (m *fakeModule) EntryFunction() (irmodel.Function, bool) {
	return m.entryFn, m.entryOk
}

// fakeAliasOracle answers alias/mod-ref queries from explicit tables
// keyed by value pointer identity, defaulting to NoAlias/NoModRef.
type fakeAliasOracle struct {
	alias    map[[2]irmodel.Value]oracle.AliasResult
	modref   map[[2]irmodel.Value]oracle.ModRefResult
	callref  map[[2]irmodel.Value]oracle.ModRefResult
}

func newFakeAliasOracle() *fakeAliasOracle {
	return &fakeAliasOracle{
		alias:   make(map[[2]irmodel.Value]oracle.AliasResult),
		modref:  make(map[[2]irmodel.Value]oracle.ModRefResult),
		callref: make(map[[2]irmodel.Value]oracle.ModRefResult),
	}
}

func (o *fakeAliasOracle) setAlias(a, b irmodel.Value, res oracle.AliasResult) {
	o.alias[[2]irmodel.Value{a, b}] = res
	o.alias[[2]irmodel.Value{b, a}] = res
}

func (o *fakeAliasOracle) Alias(a, b irmodel.Value) oracle.AliasResult {
	return o.alias[[2]irmodel.Value{a, b}]
}

func (o *fakeAliasOracle) setModRefInst(call irmodel.Instruction, loc irmodel.Value, res oracle.ModRefResult) {
	o.modref[[2]irmodel.Value{call, loc}] = res
}

func (o *fakeAliasOracle) ModRefInst(call irmodel.Instruction, loc irmodel.Value) oracle.ModRefResult {
	return o.modref[[2]irmodel.Value{call, loc}]
}

func (o *fakeAliasOracle) ModRefCalls(a, b irmodel.Instruction) oracle.ModRefResult {
	return o.callref[[2]irmodel.Value{a, b}]
}

// fakeDominatorSummary holds an explicit post-dominance table over
// blocks; Dominates/StrictlyDominates are unused by the control-edge
// builder and always return false.
type fakeDominatorSummary struct {
	postDom map[[2]irmodel.Block]bool
}

func newFakeDominatorSummary() *fakeDominatorSummary {
	return &fakeDominatorSummary{postDom: make(map[[2]irmodel.Block]bool)}
}

func (d *fakeDominatorSummary) setPostDominates(a, b irmodel.Block) {
	d.postDom[[2]irmodel.Block{a, b}] = true
}

func (d *fakeDominatorSummary) PostDominates(a, b irmodel.Block) bool {
	return d.postDom[[2]irmodel.Block{a, b}]
}

func (d *fakeDominatorSummary) StrictlyPostDominates(a, b irmodel.Block) bool {
	return a != b && d.PostDominates(a, b)
}

func (d *fakeDominatorSummary) Dominates(a, b irmodel.Block) bool { return false }

func (d *fakeDominatorSummary) StrictlyDominates(a, b irmodel.Block) bool { return false }

func (d *fakeDominatorSummary) Descendants(b irmodel.Block) []irmodel.Block { return nil }

type fakeCallGraph struct{}

func (fakeCallGraph) ReachableFromRoot(f irmodel.Function) bool          { return true }
func (fakeCallGraph) CallSites(f irmodel.Function) []irmodel.Instruction { return nil }
