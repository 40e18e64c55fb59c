// Command parallelizer loads a Go package, builds its program
// dependence graph, condenses it into an SCCDAG, partitions the SCCDAG
// into pipeline stages, merges stages down to a target core count, and
// classifies loop-carried dependences — the end-to-end pipeline spec
// §4 describes, run over a real Go program via goir instead of
// synthetic fixtures.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcana-lab/noelle-parallelcore/cost"
	"github.com/arcana-lab/noelle-parallelcore/diag"
	"github.com/arcana-lab/noelle-parallelcore/goir"
	"github.com/arcana-lab/noelle-parallelcore/heuristics"
	"github.com/arcana-lab/noelle-parallelcore/partition"
	"github.com/arcana-lab/noelle-parallelcore/pdg"
	"github.com/arcana-lab/noelle-parallelcore/pointsto"
	"github.com/arcana-lab/noelle-parallelcore/scc"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := defaultConfig()
	var configPath, dotDirFlag, heuristicFlag string
	var numCoresFlag int
	var acceptanceFactorFlag float64
	var removeIntraFlag, removePureFlag bool
	var verboseFlag bool

	cmd := &cobra.Command{
		Use:   "parallelizer <dir> [package-pattern...]",
		Short: "Analyze a Go program's loops for DOALL/pipeline parallelization candidates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileCfg, err := loadConfigFile(configPath, cfg)
			if err != nil {
				return err
			}
			applyFlagOverrides(cmd, &fileCfg, numCoresFlag, heuristicFlag, acceptanceFactorFlag,
				dotDirFlag, removeIntraFlag, removePureFlag)

			verbosity := diag.Minimal
			if verboseFlag {
				verbosity = diag.Maximal
			}
			sink := diag.NewWriterSink(os.Stderr, "parallelizer", verbosity)

			dir := args[0]
			patterns := args[1:]
			if len(patterns) == 0 {
				patterns = []string{"."}
			}
			return run(dir, patterns, fileCfg, sink)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().IntVar(&numCoresFlag, "num-cores", 0, "target number of pipeline stages (unset = use config/default)")
	cmd.Flags().StringVar(&heuristicFlag, "heuristic", "", "merge heuristic: minmax or smallest (unset = use config/default)")
	cmd.Flags().Float64Var(&acceptanceFactorFlag, "acceptance-factor", 0, "smallest-size acceptance factor K (unset = use config/default)")
	cmd.Flags().StringVar(&dotDirFlag, "dot-dir", "", "directory to write technique-<kind>-loop-<id>.dot files into")
	cmd.Flags().BoolVar(&removeIntraFlag, "remove-intra-iteration-same-address", false, "enable the intra-iteration same-address PDG refinement")
	cmd.Flags().BoolVar(&removePureFlag, "remove-pure-calls", false, "enable the pure-call PDG refinement")
	cmd.Flags().BoolVar(&verboseFlag, "verbose", false, "emit Maximal-verbosity diagnostics instead of Minimal")

	return cmd
}

// applyFlagOverrides layers flags the user actually set on top of
// cfg, so precedence is flag > YAML file > default (spec §A.3).
func applyFlagOverrides(cmd *cobra.Command, cfg *config, numCores int, heuristicName string, acceptanceFactor float64, dotDir string, removeIntra, removePure bool) {
	if cmd.Flags().Changed("num-cores") {
		cfg.NumCores = numCores
	}
	if cmd.Flags().Changed("heuristic") {
		cfg.Heuristic = heuristicName
	}
	if cmd.Flags().Changed("acceptance-factor") {
		cfg.AcceptanceFactor = acceptanceFactor
	}
	if cmd.Flags().Changed("dot-dir") {
		cfg.DotDir = dotDir
	}
	if cmd.Flags().Changed("remove-intra-iteration-same-address") {
		cfg.RemoveIntraIterationSameAddress = removeIntra
	}
	if cmd.Flags().Changed("remove-pure-calls") {
		cfg.RemovePureCalls = removePure
	}
}

func run(dir string, patterns []string, cfg config, sink diag.Sink) error {
	module, err := goir.Load(dir, patterns...)
	if err != nil {
		return fmt.Errorf("parallelizer: loading %s: %w", dir, err)
	}

	oracles := goir.NewOracles(module)

	graph, err := pdg.FromModule(module, oracles.Alias(), oracles.PostDominatorFunc(), oracles.CallGraph(), pdg.Options{
		RemoveIntraIterationSameAddress: cfg.RemoveIntraIterationSameAddress,
		RemovePureCalls:                 cfg.RemovePureCalls,
	})
	if err != nil {
		return fmt.Errorf("parallelizer: building PDG: %w", err)
	}

	sccdag, err := scc.FromPDG(graph.DG)
	if err != nil {
		return fmt.Errorf("parallelizer: building SCCDAG: %w", err)
	}

	part, err := partition.FromSCCDAG(sccdag)
	if err != nil {
		return fmt.Errorf("parallelizer: building partition: %w", err)
	}

	model := cost.NewModel()
	merger, err := newMerger(cfg, part, model, sink)
	if err != nil {
		return err
	}
	if _, err := merger.Run(); err != nil {
		return fmt.Errorf("parallelizer: merging stages: %w", err)
	}

	summary := pointsto.Analyze(module, oracles.CallGraph(), sink)

	loopID := 0
	for _, fn := range module.Functions() {
		tree := oracles.Loops(fn)
		for _, l := range tree.TopLevelLoops() {
			if err := classifyAndMaybeDump(graph, l, oracles.Dominators(fn), summary, cfg, sink, loopID); err != nil {
				return err
			}
			loopID++
		}
	}

	return nil
}

func newMerger(cfg config, part *partition.Partition, model *cost.Model, sink diag.Sink) (*heuristics.Merger, error) {
	switch cfg.Heuristic {
	case "", "minmax":
		return heuristics.MinMaxSize(part, model, cfg.NumCores, sink), nil
	case "smallest":
		return heuristics.SmallestSize(part, model, cfg.NumCores, cfg.AcceptanceFactor, sink), nil
	default:
		return nil, fmt.Errorf("parallelizer: unknown heuristic %q (want minmax or smallest)", cfg.Heuristic)
	}
}
