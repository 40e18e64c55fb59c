package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arcana-lab/noelle-parallelcore/diag"
	"github.com/arcana-lab/noelle-parallelcore/irmodel"
	"github.com/arcana-lab/noelle-parallelcore/lcd"
	"github.com/arcana-lab/noelle-parallelcore/oracle"
	"github.com/arcana-lab/noelle-parallelcore/pdg"
	"github.com/arcana-lab/noelle-parallelcore/pointsto"
)

// classifyAndMaybeDump classifies every edge of l's sub-PDG as loop-
// carried or not, and, if cfg.DotDir is set, renders that sub-PDG as
// technique-<kind>-loop-<id>.dot (spec's file-naming convention).
// A write failure here is a Resource error recovered locally: it is
// logged via sink and the run continues with the next loop.
func classifyAndMaybeDump(graph *pdg.PDG, l oracle.Loop, doms oracle.DominatorSummary, summary *pointsto.Summary, cfg config, sink diag.Sink, id int) error {
	sub, err := graph.SubgraphForLoop(l)
	if err != nil {
		return fmt.Errorf("parallelizer: extracting loop %d subgraph: %w", id, err)
	}

	lcd.Classify(sub.DG, l, doms, summary, sink)

	if cfg.DotDir == "" {
		return nil
	}
	kind := cfg.Heuristic
	if kind == "" {
		kind = "minmax"
	}
	name := fmt.Sprintf("technique-%s-loop-%d.dot", kind, id)
	path := filepath.Join(cfg.DotDir, name)

	f, err := os.Create(path)
	if err != nil {
		sink.Emitf(diag.Minimal, "could not create %s: %v", path, err)
		return nil
	}
	defer f.Close()

	if err := sub.WriteDOT(f, name, labelValue); err != nil {
		sink.Emitf(diag.Minimal, "could not write %s: %v", path, err)
	}
	return nil
}

func labelValue(v irmodel.Value) (string, map[string]string) {
	return v.ValueName(), nil
}
