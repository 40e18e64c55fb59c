package pointsto

import "github.com/arcana-lab/noelle-parallelcore/irmodel"

// Pointer is either a Variable (an SSA value) or a *MemoryObject (an
// allocation site, or the distinguished Unknown/escaped object), per
// spec §3's "Pointers partition into Variable ... and MemoryObject".
type Pointer interface {
	pointer()
}

// Variable wraps an irmodel.Value that can hold a pointer.
type Variable struct {
	Value irmodel.Value
}

func (Variable) pointer() {}

// MemoryObject is an allocation site (an Alloca or malloc/calloc call
// instruction; a realloc result reuses its first argument's pointees
// instead of getting a site of its own) or, when Site is nil, the distinguished
// "unknown"/escaped object spec §3 names.
type MemoryObject struct {
	Site    irmodel.Value
	Unknown bool
}

func (*MemoryObject) pointer() {}

// Graph is a PointToGraph: a finite map Pointer -> Set<MemoryObject>.
type Graph struct {
	pointees map[Pointer]map[*MemoryObject]bool
}

// NewGraph returns an empty point-to graph.
func NewGraph() *Graph {
	return &Graph{pointees: make(map[Pointer]map[*MemoryObject]bool)}
}

// Pointees returns the memory objects p may point to, in no particular
// order.
func (g *Graph) Pointees(p Pointer) []*MemoryObject {
	set := g.pointees[p]
	out := make([]*MemoryObject, 0, len(set))
	for m := range set {
		out = append(out, m)
	}
	return out
}

// AddPointee records that p may point to m. Returns true if this grew
// the graph (used to detect fixed-point convergence).
func (g *Graph) AddPointee(p Pointer, m *MemoryObject) bool {
	if g.pointees[p] == nil {
		g.pointees[p] = make(map[*MemoryObject]bool)
	}
	if g.pointees[p][m] {
		return false
	}
	g.pointees[p][m] = true
	return true
}

// AddPointees records every element of ms as a pointee of p. Returns
// true if this grew the graph.
func (g *Graph) AddPointees(p Pointer, ms []*MemoryObject) bool {
	changed := false
	for _, m := range ms {
		if g.AddPointee(p, m) {
			changed = true
		}
	}
	return changed
}

// Reset clears every pointee of p (the "kill prior (a, *)" rule for
// Alloca/malloc/calloc in spec §4.9 — allocation sites are assumed
// visited at most once per analysis pass, so this is a no-op unless a
// caller re-seeds the same pointer).
func (g *Graph) Reset(p Pointer) {
	delete(g.pointees, p)
}

// Summary is the module-level may-point-to result (spec §3's
// "Per-function, a fixed-point point-to graph... Each instruction has
// an IN summary"). Because the underlying analysis here is
// flow-insensitive within a function (spec §9's design notes call out
// precision as a non-goal beyond what LCD needs; see DESIGN.md), every
// instruction's IN is the whole function's converged graph — still
// monotone and exact where flow sensitivity isn't observable from
// pointer aliasing alone.
type Summary struct {
	perFunction map[irmodel.Function]*Graph
	Unknown     *MemoryObject
}

func newSummary() *Summary {
	return &Summary{
		perFunction: make(map[irmodel.Function]*Graph),
		Unknown:     &MemoryObject{Unknown: true},
	}
}

// GraphFor returns the converged point-to graph for f's instructions,
// or nil if f was never analyzed.
func (s *Summary) GraphFor(f irmodel.Function) *Graph { return s.perFunction[f] }

// In returns the IN summary at inst: the converged point-to graph of
// inst's parent function.
func (s *Summary) In(inst irmodel.Instruction) *Graph {
	if inst == nil || inst.Parent() == nil {
		return nil
	}
	return s.GraphFor(inst.Parent().Parent())
}

// PointeesOf resolves v's pointees at inst's function, treating a
// non-pointer-looking value (no entry in the graph) as pointing to
// nothing.
func (s *Summary) PointeesOf(v irmodel.Value, inst irmodel.Instruction) []*MemoryObject {
	g := s.In(inst)
	if g == nil {
		return nil
	}
	return g.Pointees(Variable{Value: v})
}
