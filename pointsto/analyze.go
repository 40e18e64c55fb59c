package pointsto

import (
	"strings"

	"github.com/arcana-lab/noelle-parallelcore/diag"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
)

// Analyze runs spec §4.9's may-point-to solver over every function of
// mod, iterating to a fixed point per function and then across call
// edges (spec: "iterate per-function to monotone convergence, then
// iterate across call edges until no caller summary changes"),
// following §9's design note to use an explicit worklist rather than
// recursive call-graph traversal.
func Analyze(mod irmodel.Module, cg oracle.CallGraph, sink diag.Sink) *Summary {
	if sink == nil {
		sink = diag.NopSink{}
	}
	s := newSummary()
	callers := callersIndex(mod)

	queue := append([]irmodel.Function(nil), mod.Functions()...)
	queued := make(map[irmodel.Function]bool, len(queue))
	for _, f := range queue {
		queued[f] = true
		s.perFunction[f] = NewGraph()
	}

	maxRounds := 8*len(queue) + 8
	rounds := 0
	for len(queue) > 0 {
		rounds++
		if rounds > maxRounds {
			sink.Emitf(diag.Minimal, "pointsto: stopped after %d rounds without full convergence", maxRounds)
			break
		}
		f := queue[0]
		queue = queue[1:]
		queued[f] = false

		if analyzeFunction(f, s) {
			for _, caller := range callers[f] {
				if !queued[caller] {
					queued[caller] = true
					queue = append(queue, caller)
				}
			}
		}
	}
	return s
}

// callersIndex maps every function to the functions that call it
// (spec's call graph only exposes CallSites(f) — the calls f makes —
// so the reverse edge is built once here rather than recomputed).
func callersIndex(mod irmodel.Module) map[irmodel.Function][]irmodel.Function {
	idx := make(map[irmodel.Function][]irmodel.Function)
	for _, f := range mod.Functions() {
		for _, b := range f.Blocks() {
			for _, inst := range b.Instructions() {
				if inst.Opcode() != irmodel.OpCall {
					continue
				}
				callee, ok := inst.CalledFunction()
				if !ok || callee == nil {
					continue
				}
				idx[callee] = append(idx[callee], f)
			}
		}
	}
	return idx
}

// analyzeFunction runs the transfer functions over f's instructions to
// an intraprocedural fixed point (flow-insensitive: one shared graph
// accumulates across repeated sweeps, which is sound for this
// monotone-join analysis, see Summary's doc comment). Returns whether
// f's graph changed relative to its previous converged state.
func analyzeFunction(f irmodel.Function, s *Summary) bool {
	g := s.perFunction[f]
	if g == nil {
		g = NewGraph()
		s.perFunction[f] = g
	}

	before := snapshotSize(g)
	for sweep := 0; sweep < len(f.Blocks())+2; sweep++ {
		changed := false
		for _, b := range f.Blocks() {
			for _, inst := range b.Instructions() {
				if inst.IsLifetimeIntrinsic() {
					continue
				}
				if transferInstruction(inst, g, s) {
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
	return snapshotSize(g) != before
}

func snapshotSize(g *Graph) int {
	total := 0
	for _, set := range g.pointees {
		total += len(set)
	}
	return total
}

func transferInstruction(inst irmodel.Instruction, g *Graph, s *Summary) bool {
	dest := Variable{Value: irmodel.Value(inst)}
	switch inst.Opcode() {
	case irmodel.OpAlloca:
		// A revisited allocation keeps the one site object it already has.
		for _, m := range g.Pointees(dest) {
			if m.Site == irmodel.Value(inst) {
				return false
			}
		}
		site := &MemoryObject{Site: irmodel.Value(inst)}
		g.Reset(dest)
		return g.AddPointee(dest, site)

	case irmodel.OpStore:
		ptr, ok := inst.PointerOperand()
		if !ok {
			return false
		}
		changed := false
		stored := storedValue(inst)
		var storedPointees []*MemoryObject
		if stored != nil {
			storedPointees = g.Pointees(Variable{Value: stored})
		}
		for _, m := range g.Pointees(Variable{Value: ptr}) {
			if g.AddPointees(objectPointer(m), storedPointees) {
				changed = true
			}
		}
		return changed

	case irmodel.OpLoad:
		ptr, ok := inst.PointerOperand()
		if !ok {
			return false
		}
		var union []*MemoryObject
		for _, m := range g.Pointees(Variable{Value: ptr}) {
			union = append(union, g.Pointees(objectPointer(m))...)
		}
		return g.AddPointees(dest, union)

	case irmodel.OpPhi:
		var union []*MemoryObject
		for _, op := range inst.Operands() {
			union = append(union, g.Pointees(Variable{Value: op})...)
		}
		return g.AddPointees(dest, union)

	case irmodel.OpGetElementPtr:
		base, ok := inst.PointerOperand()
		if !ok {
			if ops := inst.Operands(); len(ops) > 0 {
				base = ops[0]
				ok = true
			}
		}
		if !ok {
			return false
		}
		return g.AddPointees(dest, g.Pointees(Variable{Value: base}))

	case irmodel.OpCast:
		if ops := inst.Operands(); len(ops) > 0 {
			return g.AddPointees(dest, g.Pointees(Variable{Value: ops[0]}))
		}
		return false

	case irmodel.OpCall:
		return transferCall(inst, dest, g, s)

	default:
		return false
	}
}

// objectPointer lifts a *MemoryObject to the Pointer used to key its
// own outgoing pointees (a memory object can itself hold pointers,
// e.g. a heap cell storing another pointer).
func objectPointer(m *MemoryObject) Pointer { return m }

// storedValue recovers the value being written by a Store, which
// irmodel.Instruction exposes only through Operands() (spec §4.2 skips
// describing Store's operand order since the PDG builder only needs
// the pointer operand; the point-to transfer needs the stored value
// too, so this takes it as the first non-pointer operand).
func storedValue(inst irmodel.Instruction) irmodel.Value {
	ptr, hasPtr := inst.PointerOperand()
	for _, op := range inst.Operands() {
		if !hasPtr || op != ptr {
			return op
		}
	}
	return nil
}

func transferCall(inst irmodel.Instruction, dest Variable, g *Graph, s *Summary) bool {
	callee, ok := inst.CalledFunction()
	if !ok || callee == nil {
		return unknownCallTransfer(inst, dest, g, s)
	}

	switch allocKind(callee.Name()) {
	case allocFresh:
		for _, m := range g.Pointees(dest) {
			if m.Site == irmodel.Value(inst) {
				return false
			}
		}
		site := &MemoryObject{Site: irmodel.Value(inst)}
		g.Reset(dest)
		return g.AddPointee(dest, site)
	case allocRealloc:
		if ops := inst.Operands(); len(ops) > 0 {
			return g.AddPointees(dest, g.Pointees(Variable{Value: ops[0]}))
		}
		return false
	case allocMemcpy:
		return memcpyTransfer(inst, g)
	default:
		return userCallTransfer(inst, dest, callee, g, s)
	}
}

type allocKindT uint8

const (
	allocNone allocKindT = iota
	allocFresh
	allocRealloc
	allocMemcpy
)

func allocKind(name string) allocKindT {
	switch strings.ToLower(name) {
	case "malloc", "calloc":
		return allocFresh
	case "realloc":
		return allocRealloc
	case "memcpy", "memmove":
		return allocMemcpy
	default:
		return allocNone
	}
}

// memcpyTransfer implements "for every m in pointees(d), union in
// pointees(pointees(s))" for a memcpy(d, s) call (spec §4.9); the
// destination/source operand order is the call's first two operands.
func memcpyTransfer(inst irmodel.Instruction, g *Graph) bool {
	ops := inst.Operands()
	if len(ops) < 2 {
		return false
	}
	d, srcArg := ops[0], ops[1]
	var srcContents []*MemoryObject
	for _, sm := range g.Pointees(Variable{Value: srcArg}) {
		srcContents = append(srcContents, g.Pointees(objectPointer(sm))...)
	}
	changed := false
	for _, dm := range g.Pointees(Variable{Value: d}) {
		if g.AddPointees(objectPointer(dm), srcContents) {
			changed = true
		}
	}
	return changed
}

// unknownCallTransfer implements spec §4.9's conservative "escaped
// set" rule: the call's return value and every object reachable from
// its pointer arguments join Summary.Unknown, and Unknown is made to
// point to itself so every member of the escaped set conservatively
// points to every other member.
func unknownCallTransfer(inst irmodel.Instruction, dest Variable, g *Graph, s *Summary) bool {
	changed := g.AddPointee(dest, s.Unknown)
	if g.AddPointee(objectPointer(s.Unknown), s.Unknown) {
		changed = true
	}
	for _, arg := range inst.Operands() {
		for _, m := range g.Pointees(Variable{Value: arg}) {
			if g.AddPointee(objectPointer(m), s.Unknown) {
				changed = true
			}
		}
	}
	return changed
}

// userCallTransfer analyzes callee's argument-reachable point-to state
// conservatively: the call's result (if used as a pointer) joins every
// memory object the callee's own graph has accumulated, approximating
// "merge callee's return summary back" without a dedicated
// return-value construct in irmodel.Value (spec's IR adapter contract,
// §6.1, does not name one).
func userCallTransfer(inst irmodel.Instruction, dest Variable, callee irmodel.Function, g *Graph, s *Summary) bool {
	calleeGraph := s.perFunction[callee]
	if calleeGraph == nil {
		return false
	}
	var reachable []*MemoryObject
	for _, set := range calleeGraph.pointees {
		for m := range set {
			reachable = append(reachable, m)
		}
	}
	return g.AddPointees(dest, reachable)
}
