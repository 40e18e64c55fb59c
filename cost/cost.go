package cost

import (
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/partition"
	"github.com/arcana-lab/noelle-parallelcore/scc"
)

const (
	loadStoreCost   = 10
	terminatorCost  = 5
	unknownCallCost = 50
	defaultCost     = 1
)

// QueueLatency is the per-queue-value cost a stage pays for every
// distinct value held by an external node of its member SCCs (spec
// §4.5's "100 × |queue values|"). A named, overridable hook (SPEC_FULL §D) rather than a
// hardcoded literal, matching InvocationLatency::queueLatency's own
// TODO about refining it from a value's primitive bit width — a caller
// with real width information can replace this package variable.
var QueueLatency = 100

// Model is a memoized InvocationLatency cost oracle (spec §4.5).
// Results are deterministic functions of the instruction/SCC/stage
// they are asked about; memoization only avoids recomputation, it
// never changes the answer.
type Model struct {
	instCache   map[irmodel.Instruction]int
	sccCache    map[*scc.SCC]int
	calleeCache map[irmodel.Function]int
}

// NewModel returns a fresh, empty-cache cost model.
func NewModel() *Model {
	return &Model{
		instCache:   make(map[irmodel.Instruction]int),
		sccCache:    make(map[*scc.SCC]int),
		calleeCache: make(map[irmodel.Function]int),
	}
}

// InstructionCost estimates the cost of a single instruction per spec
// §4.5: PHI/GEP/Cast = 0; Load/Store = 10; Terminator = 5; other = 1;
// a Call to a known non-empty callee = 1 + the callee body's
// non-syntactic-sugar instruction count (no recursion into nested
// calls); a Call with an unknown callee = 50.
func (m *Model) InstructionCost(inst irmodel.Instruction) int {
	if inst == nil {
		return 0
	}
	if v, ok := m.instCache[inst]; ok {
		return v
	}
	v := m.computeInstructionCost(inst)
	m.instCache[inst] = v
	return v
}

func (m *Model) computeInstructionCost(inst irmodel.Instruction) int {
	op := inst.Opcode()
	switch {
	case op.IsSyntacticSugar():
		return 0
	case op == irmodel.OpLoad || op == irmodel.OpStore:
		return loadStoreCost
	case op == irmodel.OpTerminator:
		return terminatorCost
	case op == irmodel.OpCall:
		return m.callCost(inst)
	default:
		return defaultCost
	}
}

func (m *Model) callCost(inst irmodel.Instruction) int {
	callee, ok := inst.CalledFunction()
	if !ok || callee == nil {
		return unknownCallCost
	}
	return 1 + m.calleeBodyCost(callee)
}

// calleeBodyCost counts the non-syntactic-sugar instructions of a
// callee's body, one level deep only — a call inside the callee is
// counted as one instruction like any other, it is never itself
// expanded (spec §4.5: "no recursion").
func (m *Model) calleeBodyCost(f irmodel.Function) int {
	if v, ok := m.calleeCache[f]; ok {
		return v
	}
	count := 0
	for _, b := range f.Blocks() {
		for _, i := range b.Instructions() {
			if !i.Opcode().IsSyntacticSugar() {
				count++
			}
		}
	}
	m.calleeCache[f] = count
	return count
}

// SCCCost sums the instruction costs of an SCC's internal members.
// Arguments have no instruction cost and are skipped.
func (m *Model) SCCCost(s *scc.SCC) int {
	if v, ok := m.sccCache[s]; ok {
		return v
	}
	total := 0
	for _, n := range s.InternalNodes() {
		if inst, ok := n.Payload().(irmodel.Instruction); ok {
			total += m.InstructionCost(inst)
		}
	}
	m.sccCache[s] = total
	return total
}

// InvalidateSCC drops s's memoized cost, for callers that mutate an
// SCC's members in place (e.g. scc.MergeSCCs reusing a node) rather
// than constructing a fresh *SCC.
func (m *Model) InvalidateSCC(s *scc.SCC) { delete(m.sccCache, s) }

// StageCost estimates a stage's cost per spec §4.5: the maximum
// internal-SCC cost among its member SCCs, plus QueueLatency for every
// distinct value held by an external node of one of its SCCs. SCCs
// built by scc.FromPDG or scc.MergeSCCs have no external nodes, so for
// them this term is zero.
func (m *Model) StageCost(stage *partition.Stage) int {
	maxSCCCost := 0
	queueValues := make(map[irmodel.Value]bool)
	for _, s := range stage.SCCs() {
		if c := m.SCCCost(s); c > maxSCCCost {
			maxSCCCost = c
		}
		for _, n := range s.ExternalNodes() {
			queueValues[n.Payload()] = true
		}
	}
	return maxSCCCost + QueueLatency*len(queueValues)
}

// InstructionCount sums the instruction count across a stage's member
// SCCs, used by the heuristics package as a merge tie-breaker.
func (m *Model) InstructionCount(stage *partition.Stage) int {
	count := 0
	for _, s := range stage.SCCs() {
		count += len(s.InternalNodes())
	}
	return count
}

// MergedStageCost and MergedInstructionCount estimate the cost/size a
// stage would have if members were combined, without mutating the
// partition — used by heuristics to evaluate a merge candidate before
// committing it.
func (m *Model) MergedStageCost(members ...*partition.Stage) int {
	return m.StageCost(virtualMerge(members...))
}

func (m *Model) MergedInstructionCount(members ...*partition.Stage) int {
	return m.InstructionCount(virtualMerge(members...))
}

func virtualMerge(members ...*partition.Stage) *partition.Stage {
	var all []*scc.SCC
	for _, s := range members {
		all = append(all, s.SCCs()...)
	}
	return partition.NewStage(all...)
}
