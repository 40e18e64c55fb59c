package dataflow

import (
	"github.com/arcana-lab/noelle-parallelcore/diag"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
)

// GenFunc and KillFunc compute an instruction's GEN/KILL sets once, up
// front (spec §4.7 step 2).
type GenFunc[T comparable] func(inst irmodel.Instruction) Set[T]
type KillFunc[T comparable] func(inst irmodel.Instruction) Set[T]

// InitFunc seeds an instruction's initial IN or OUT set (spec §4.7
// step 1).
type InitFunc[T comparable] func(inst irmodel.Instruction) Set[T]

// MeetFunc folds one predecessor's (forward) or successor's (backward)
// boundary instruction into inst's running IN (forward) or OUT
// (backward) set, returning the updated set. result gives the hook
// access to GEN/KILL/the running state of any instruction it needs.
type MeetFunc[T comparable] func(inst, boundary irmodel.Instruction, running Set[T], result *Result[T]) Set[T]

// StepFunc recomputes inst's OUT (forward) or IN (backward) set from
// its current IN/OUT and GEN/KILL, returning the updated set.
type StepFunc[T comparable] func(inst irmodel.Instruction, running Set[T], result *Result[T]) Set[T]

// Result is the fixed point returned by Engine.ApplyForward/ApplyBackward:
// IN/OUT/GEN/KILL per instruction (spec §3's dependence result).
type Result[T comparable] struct {
	In, Out, Gen, Kill map[irmodel.Instruction]Set[T]
}

func newResult[T comparable]() *Result[T] {
	return &Result[T]{
		In:   make(map[irmodel.Instruction]Set[T]),
		Out:  make(map[irmodel.Instruction]Set[T]),
		Gen:  make(map[irmodel.Instruction]Set[T]),
		Kill: make(map[irmodel.Instruction]Set[T]),
	}
}

// Engine runs the forward/backward iterative solver of spec §4.7.
type Engine[T comparable] struct {
	// MaxIterations caps the number of block dequeues before the engine
	// gives up and returns an InvariantError (spec §9 Open Question 4).
	// Zero means "a generous, finite default": 64 * (number of basic
	// blocks + 1).
	MaxIterations int

	Sink diag.Sink
}

func (e *Engine[T]) sink() diag.Sink {
	if e.Sink == nil {
		return diag.NopSink{}
	}
	return e.Sink
}

func allInstructions(fn irmodel.Function) []irmodel.Instruction {
	var out []irmodel.Instruction
	for _, b := range fn.Blocks() {
		out = append(out, b.Instructions()...)
	}
	return out
}

// ApplyForward runs the forward variant of spec §4.7's algorithm.
func (e *Engine[T]) ApplyForward(
	fn irmodel.Function,
	gen GenFunc[T], kill KillFunc[T],
	initIn, initOut InitFunc[T],
	meetIn MeetFunc[T], stepOut StepFunc[T],
) (*Result[T], error) {
	return e.run(fn, gen, kill, initIn, initOut, meetIn, stepOut, true)
}

// ApplyBackward runs the backward variant: predecessors/successors and
// first/last instructions are swapped, and the user hooks are called
// with IN/OUT's roles swapped (meetOut folds a successor's boundary
// into OUT; stepIn recomputes IN).
func (e *Engine[T]) ApplyBackward(
	fn irmodel.Function,
	gen GenFunc[T], kill KillFunc[T],
	initIn, initOut InitFunc[T],
	meetOut MeetFunc[T], stepIn StepFunc[T],
) (*Result[T], error) {
	return e.run(fn, gen, kill, initIn, initOut, meetOut, stepIn, false)
}

func (e *Engine[T]) run(
	fn irmodel.Function,
	gen GenFunc[T], kill KillFunc[T],
	initIn, initOut InitFunc[T],
	meet MeetFunc[T], step StepFunc[T],
	forward bool,
) (*Result[T], error) {
	result := newResult[T]()
	blocks := fn.Blocks()
	if len(blocks) == 0 {
		return result, nil
	}

	for _, inst := range allInstructions(fn) {
		result.Gen[inst] = gen(inst)
		result.Kill[inst] = kill(inst)
		result.In[inst] = initIn(inst)
		result.Out[inst] = initOut(inst)
	}

	maxIter := e.MaxIterations
	if maxIter == 0 {
		maxIter = 64 * (len(blocks) + 1)
	}

	boundaryInstrs := func(b irmodel.Block) []irmodel.Instruction {
		insts := b.Instructions()
		if !forward {
			insts = reversed(insts)
		}
		return insts
	}
	entryInst := func(b irmodel.Block) irmodel.Instruction {
		insts := boundaryInstrs(b)
		if len(insts) == 0 {
			return nil
		}
		return insts[0]
	}
	exitInst := func(b irmodel.Block) irmodel.Instruction {
		insts := boundaryInstrs(b)
		if len(insts) == 0 {
			return nil
		}
		return insts[len(insts)-1]
	}
	boundaryPreds := func(b irmodel.Block) []irmodel.Block {
		if forward {
			return b.Predecessors()
		}
		return b.Successors()
	}
	boundarySuccs := func(b irmodel.Block) []irmodel.Block {
		if forward {
			return b.Successors()
		}
		return b.Predecessors()
	}
	// running returns the set the engine is accumulating for inst: IN
	// for forward, OUT for backward.
	running := func(inst irmodel.Instruction) Set[T] {
		if forward {
			return result.In[inst]
		}
		return result.Out[inst]
	}
	setRunning := func(inst irmodel.Instruction, s Set[T]) {
		if forward {
			result.In[inst] = s
		} else {
			result.Out[inst] = s
		}
	}
	// stepped returns the set step computes: OUT for forward, IN for
	// backward.
	stepped := func(inst irmodel.Instruction) Set[T] {
		if forward {
			return result.Out[inst]
		}
		return result.In[inst]
	}
	setStepped := func(inst irmodel.Instruction, s Set[T]) {
		if forward {
			result.Out[inst] = s
		} else {
			result.In[inst] = s
		}
	}

	queue := append([]irmodel.Block(nil), blocks...)
	queued := make(map[irmodel.Block]bool, len(blocks))
	for _, b := range blocks {
		queued[b] = true
	}
	processed := make(map[irmodel.Block]bool, len(blocks))

	iterations := 0
	for len(queue) > 0 {
		iterations++
		if iterations > maxIter {
			return result, &InvariantError{Iterations: iterations}
		}

		b := queue[0]
		queue = queue[1:]
		queued[b] = false

		entry := entryInst(b)
		if entry == nil {
			continue
		}
		for _, p := range boundaryPreds(b) {
			boundary := exitInst(p)
			if boundary == nil {
				continue
			}
			setRunning(entry, meet(entry, boundary, running(entry), result))
		}

		before := len(stepped(entry))
		setStepped(entry, step(entry, stepped(entry), result))
		changed := len(stepped(entry)) != before || !processed[b]

		if changed {
			processed[b] = true
			insts := boundaryInstrs(b)
			for i := 1; i < len(insts); i++ {
				cur, prev := insts[i], insts[i-1]
				setRunning(cur, meet(cur, prev, running(cur), result))
				setStepped(cur, step(cur, stepped(cur), result))
			}
			for _, s := range boundarySuccs(b) {
				if !queued[s] {
					queued[s] = true
					queue = append(queue, s)
				}
			}
		}
	}

	e.sink().Emitf(diag.Maximal, "dataflow: converged after %d block dequeue(s)", iterations)
	return result, nil
}

func reversed(insts []irmodel.Instruction) []irmodel.Instruction {
	out := make([]irmodel.Instruction, len(insts))
	for i, inst := range insts {
		out[len(insts)-1-i] = inst
	}
	return out
}
