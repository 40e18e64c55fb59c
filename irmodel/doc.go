// Package irmodel defines the IR-adapter contract (spec §6.1): the
// minimal surface any compiler IR must expose for pdg, scc, partition,
// cost, heuristics, dataflow, pointsto, and lcd to operate on it. It is
// deliberately an interface-only package — the core never depends on a
// concrete IR; concrete adapters (see the goir package) live outside
// the core's budget, exactly as PDGAnalysis's LLVM glue lived outside
// the analyzed C++ core.
//
// kind_of(instruction) (Opcode, below) replaces RTTI dyn_cast per the
// REDESIGN FLAGS in spec §9: a concrete adapter classifies each of its
// instructions into this fixed enum once, rather than exposing its
// native instruction hierarchy to the core.
package irmodel
