package pdg

import (
	"github.com/arcana-lab/noelle-parallelcore/dg"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
)

// addMemoryEdges adds the four families of memory edges described in
// spec §4.2(b): store/store, store/load, call/memory-instruction, and
// call/call pairs, each judged by the alias oracle.
func (p *PDG) addMemoryEdges(module irmodel.Module, aliases oracle.AliasOracle) error {
	if aliases == nil {
		return nil
	}
	for _, fn := range module.Functions() {
		var stores, loads, calls []irmodel.Instruction
		for _, b := range fn.Blocks() {
			for _, inst := range b.Instructions() {
				if inst.IsLifetimeIntrinsic() {
					continue
				}
				switch inst.Opcode() {
				case irmodel.OpStore:
					stores = append(stores, inst)
				case irmodel.OpLoad:
					loads = append(loads, inst)
				case irmodel.OpCall:
					calls = append(calls, inst)
				}
			}
		}

		if err := p.addStoreStoreEdges(stores, aliases); err != nil {
			return err
		}
		if err := p.addStoreLoadEdges(stores, loads, aliases); err != nil {
			return err
		}
		if err := p.addCallMemoryEdges(calls, append(append([]irmodel.Instruction{}, stores...), loads...), aliases); err != nil {
			return err
		}
		if err := p.addCallCallEdges(calls, aliases); err != nil {
			return err
		}
	}
	return nil
}

func memLoc(inst irmodel.Instruction) (irmodel.Value, bool) {
	return inst.PointerOperand()
}

// addStoreStoreEdges: for each unordered pair of stores S1,S2, if
// alias(S1,S2) ∈ {Must,May,Partial} add (S1->S2) WAW and (S2->S1) WAW,
// with must=true iff MustAlias.
func (p *PDG) addStoreStoreEdges(stores []irmodel.Instruction, aliases oracle.AliasOracle) error {
	for i := 0; i < len(stores); i++ {
		for j := i + 1; j < len(stores); j++ {
			s1, s2 := stores[i], stores[j]
			loc1, ok1 := memLoc(s1)
			loc2, ok2 := memLoc(s2)
			if !ok1 || !ok2 {
				continue
			}
			res := aliases.Alias(loc1, loc2)
			if res == oracle.NoAlias {
				continue
			}
			must := res == oracle.MustAlias
			if err := p.addWAWPair(s1, s2, must); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *PDG) addWAWPair(a, b irmodel.Instruction, must bool) error {
	e1, err := p.AddEdge(a, b)
	if err != nil {
		return err
	}
	e1.Memory = true
	e1.Must = must
	e1.DataDep = dg.WAW

	e2, err := p.AddEdge(b, a)
	if err != nil {
		return err
	}
	e2.Memory = true
	e2.Must = must
	e2.DataDep = dg.WAW
	return nil
}

// addStoreLoadEdges: for each store S and load L, if they may alias add
// the forward RAW edge S->L and the reverse WAR edge L->S.
func (p *PDG) addStoreLoadEdges(stores, loads []irmodel.Instruction, aliases oracle.AliasOracle) error {
	for _, s := range stores {
		sLoc, ok := memLoc(s)
		if !ok {
			continue
		}
		for _, l := range loads {
			lLoc, ok := memLoc(l)
			if !ok {
				continue
			}
			res := aliases.Alias(sLoc, lLoc)
			if res == oracle.NoAlias {
				continue
			}
			must := res == oracle.MustAlias

			raw, err := p.AddEdge(s, l)
			if err != nil {
				return err
			}
			raw.Memory = true
			raw.Must = must
			raw.DataDep = dg.RAW

			war, err := p.AddEdge(l, s)
			if err != nil {
				return err
			}
			war.Memory = true
			war.Must = must
			war.DataDep = dg.WAR
		}
	}
	return nil
}

// addCallMemoryEdges consults mod/ref for each call/memory-instruction
// pair: Ref => (C->M,WAR)+(M->C,RAW); Mod => (C->M,WAW)+(M->C,WAW);
// ModRef => both sets (spec §4.2(b)).
func (p *PDG) addCallMemoryEdges(calls, memInsts []irmodel.Instruction, aliases oracle.AliasOracle) error {
	for _, c := range calls {
		for _, m := range memInsts {
			loc, ok := memLoc(m)
			if !ok {
				continue
			}
			switch aliases.ModRefInst(c, loc) {
			case oracle.NoModRef:
				// nothing.
			case oracle.Ref:
				if err := p.addDirected(c, m, dg.WAR, false); err != nil {
					return err
				}
				if err := p.addDirected(m, c, dg.RAW, false); err != nil {
					return err
				}
			case oracle.Mod:
				if err := p.addDirected(c, m, dg.WAW, false); err != nil {
					return err
				}
				if err := p.addDirected(m, c, dg.WAW, false); err != nil {
					return err
				}
			case oracle.ModRef:
				if err := p.addDirected(c, m, dg.WAR, false); err != nil {
					return err
				}
				if err := p.addDirected(m, c, dg.RAW, false); err != nil {
					return err
				}
				if err := p.addDirected(c, m, dg.WAW, false); err != nil {
					return err
				}
				if err := p.addDirected(m, c, dg.WAW, false); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// addCallCallEdges consults mod/ref symmetrically for each call pair
// (spec §4.2(b), final bullet).
func (p *PDG) addCallCallEdges(calls []irmodel.Instruction, aliases oracle.AliasOracle) error {
	for i := 0; i < len(calls); i++ {
		for j := i + 1; j < len(calls); j++ {
			a, b := calls[i], calls[j]
			switch aliases.ModRefCalls(a, b) {
			case oracle.NoModRef:
			case oracle.Ref:
				if err := p.addDirected(a, b, dg.WAR, false); err != nil {
					return err
				}
				if err := p.addDirected(b, a, dg.RAW, false); err != nil {
					return err
				}
			case oracle.Mod:
				if err := p.addWAWPair(a, b, false); err != nil {
					return err
				}
			case oracle.ModRef:
				if err := p.addDirected(a, b, dg.WAR, false); err != nil {
					return err
				}
				if err := p.addDirected(b, a, dg.RAW, false); err != nil {
					return err
				}
				if err := p.addWAWPair(a, b, false); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (p *PDG) addDirected(from, to irmodel.Value, kind dg.DataDependenceType, must bool) error {
	e, err := p.AddEdge(from, to)
	if err != nil {
		return err
	}
	e.Memory = true
	e.Must = must
	e.DataDep = kind
	return nil
}
