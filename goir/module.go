package goir

import (
	"fmt"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"

	"github.com/arcana-lab/noelle-parallelcore/irmodel"
)

// Module wraps an *ssa.Program together with the set of functions it
// exposes to the core, implementing irmodel.Module. Every ssa.Value/
// ssa.BasicBlock/ssa.Function is wrapped at most once, lazily, via the
// cache maps below — identity-sensitive consumers upstream (dg.DG's
// node tables, pointsto's Pointer keys) rely on exactly one
// irmodel.Value per underlying SSA value.
type Module struct {
	prog      *ssa.Program
	functions []irmodel.Function
	entry     irmodel.Function

	funcCache  map[*ssa.Function]*function
	blockCache map[*ssa.BasicBlock]*block
	instrCache map[ssa.Instruction]*instruction
	paramCache map[*ssa.Parameter]*argument
	valueCache map[ssa.Value]irmodel.Value
}

// Load reads the Go packages named by patterns (resolved relative to
// dir), type-checks them, and builds SSA form for every function
// reachable from them, per spec §6.1's adapter contract. EntryFunction
// resolves to a loaded package's "main" function, matching the
// original's single-entry-point PDG assumption (spec §3).
func Load(dir string, patterns ...string) (*Module, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedImports |
			packages.NeedDeps | packages.NeedTypes | packages.NeedTypesInfo |
			packages.NeedSyntax,
		Dir: dir,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("goir: loading packages: %w", err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("goir: one or more packages failed to type-check")
	}

	prog, _ := ssautil.AllPackages(pkgs, ssa.SanityCheckFunctions)
	prog.Build()

	m := &Module{
		prog:       prog,
		funcCache:  make(map[*ssa.Function]*function),
		blockCache: make(map[*ssa.BasicBlock]*block),
		instrCache: make(map[ssa.Instruction]*instruction),
		paramCache: make(map[*ssa.Parameter]*argument),
		valueCache: make(map[ssa.Value]irmodel.Value),
	}

	for fn := range ssautil.AllFunctions(prog) {
		if fn.Blocks == nil {
			continue // external declaration, no body to analyze
		}
		wrapped := m.resolveFunction(fn)
		m.functions = append(m.functions, wrapped)
		if fn.Name() == "main" && m.entry == nil {
			m.entry = wrapped
		}
	}
	return m, nil
}

// Functions returns every function with a concrete SSA body.
func (m *Module) Functions() []irmodel.Function { return m.functions }

// EntryFunction returns the loaded program's "main" function, if any.
func (m *Module) EntryFunction() (irmodel.Function, bool) {
	return m.entry, m.entry != nil
}

// Program exposes the underlying *ssa.Program for callers (e.g.
// cmd/parallelizer) that need it directly to build oracles alongside a
// Module.
func (m *Module) Program() *ssa.Program { return m.prog }

func (m *Module) resolveFunction(fn *ssa.Function) *function {
	if f, ok := m.funcCache[fn]; ok {
		return f
	}
	f := &function{ssaFn: fn, module: m}
	m.funcCache[fn] = f
	f.build()
	return f
}

func (m *Module) resolveBlock(b *ssa.BasicBlock) *block {
	if w, ok := m.blockCache[b]; ok {
		return w
	}
	w := &block{ssaBlock: b, fn: m.resolveFunction(b.Parent())}
	m.blockCache[b] = w
	return w
}

func (m *Module) resolveInstruction(inst ssa.Instruction) *instruction {
	if w, ok := m.instrCache[inst]; ok {
		return w
	}
	w := &instruction{ssaInst: inst, parent: m.resolveBlock(inst.Block())}
	m.instrCache[inst] = w
	return w
}

func (m *Module) resolveParameter(p *ssa.Parameter) *argument {
	if w, ok := m.paramCache[p]; ok {
		return w
	}
	parent := m.resolveFunction(p.Parent())
	idx := -1
	for i, pp := range p.Parent().Params {
		if pp == p {
			idx = i
			break
		}
	}
	w := &argument{ssaVal: p, parent: parent, index: idx}
	m.paramCache[p] = w
	return w
}

// resolveValue maps any ssa.Value (instruction result, parameter,
// constant, global, free variable, or first-class function reference)
// to its unique irmodel.Value wrapper.
func (m *Module) resolveValue(v ssa.Value) irmodel.Value {
	if v == nil {
		return nil
	}
	if inst, ok := v.(ssa.Instruction); ok {
		return m.resolveInstruction(inst)
	}
	if p, ok := v.(*ssa.Parameter); ok {
		return m.resolveParameter(p)
	}
	if w, ok := m.valueCache[v]; ok {
		return w
	}
	w := &value{ssaVal: v}
	m.valueCache[v] = w
	return w
}
