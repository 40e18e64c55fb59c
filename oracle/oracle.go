package oracle

import (
	"errors"

	"github.com/arcana-lab/noelle-parallelcore/irmodel"
)

// ErrUnsupported names spec §7's Unsupported error kind: an oracle
// answer outside the enum values documented here. No function in this
// module returns it: pdg's edge builders add no edge for an
// unrecognized ModRefResult and treat every AliasResult other than
// NoAlias as an alias.
var ErrUnsupported = errors.New("oracle: value outside documented enum")

// AliasResult classifies the relationship between two memory
// locations.
type AliasResult uint8

const (
	NoAlias AliasResult = iota
	MayAlias
	PartialAlias
	MustAlias
)

// ModRefResult classifies how an instruction (typically a call)
// affects a memory location or another call.
type ModRefResult uint8

const (
	NoModRef ModRefResult = iota
	Ref
	Mod
	ModRef
)

// AliasOracle answers alias and mod/ref queries over memory locations,
// identified here by the Value that produces the address (a Load,
// Store, or Call instruction's pointer operand).
type AliasOracle interface {
	Alias(a, b irmodel.Value) AliasResult
	ModRefInst(call irmodel.Instruction, loc irmodel.Value) ModRefResult
	ModRefCalls(a, b irmodel.Instruction) ModRefResult
}

// DominatorSummary bundles a function's dominator and post-dominator
// relations (spec §6.3).
type DominatorSummary interface {
	Dominates(a, b irmodel.Block) bool
	StrictlyDominates(a, b irmodel.Block) bool
	PostDominates(a, b irmodel.Block) bool
	StrictlyPostDominates(a, b irmodel.Block) bool
	Descendants(b irmodel.Block) []irmodel.Block
}

// Loop describes one natural loop of a function's loop forest.
type Loop interface {
	Header() irmodel.Block
	Preheader() (irmodel.Block, bool)
	Latches() []irmodel.Block
	ExitBlocks() []irmodel.Block
	Blocks() []irmodel.Block
	NestingLevel() int
	// ContainsInInnerLoop reports whether b is part of a loop nested
	// strictly inside this one.
	ContainsInInnerLoop(b irmodel.Block) bool
	Contains(b irmodel.Block) bool
}

// LoopTree is the forest of loops of one function.
type LoopTree interface {
	TopLevelLoops() []Loop
	// LoopFor returns the innermost loop containing b, or (nil, false)
	// if b is not in any loop.
	LoopFor(b irmodel.Block) (Loop, bool)
}

// SCEVKind is the coarse scalar-evolution classification used only to
// recognize induction-variable-governed GEPs (spec §6.5).
type SCEVKind uint8

const (
	SCEVOther SCEVKind = iota
	SCEVConstant
	SCEVAddRec
)

// ScalarEvolution classifies values for induction-variable recognition.
type ScalarEvolution interface {
	Classify(v irmodel.Value) SCEVKind
}

// CallGraph is the program-level call graph (spec §6.6).
type CallGraph interface {
	ReachableFromRoot(f irmodel.Function) bool
	CallSites(f irmodel.Function) []irmodel.Instruction
}
