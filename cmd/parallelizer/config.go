package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// config collects every knob the pipeline needs (spec §A.3). Fields
// mirror the YAML document 1:1; flag values are applied over whatever
// the file (or defaultConfig) already set, so precedence is
// flag > file > default.
type config struct {
	NumCores         int     `yaml:"num_cores"`
	Heuristic        string  `yaml:"heuristic"` // "minmax" or "smallest"
	AcceptanceFactor float64 `yaml:"acceptance_factor"`

	// PDG refinement toggles, Open Question 1.
	RemoveIntraIterationSameAddress bool `yaml:"remove_intra_iteration_same_address"`
	RemovePureCalls                 bool `yaml:"remove_pure_calls"`

	DotDir string `yaml:"dot_dir"`
}

func defaultConfig() config {
	return config{
		NumCores:         4,
		Heuristic:        "minmax",
		AcceptanceFactor: 1.0,
	}
}

// loadConfigFile reads path, if non-empty, and merges it over base.
// A missing path is not an error (the YAML layer is optional); a
// present-but-malformed file is.
func loadConfigFile(path string, base config) (config, error) {
	if path == "" {
		return base, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return base, fmt.Errorf("parallelizer: reading config %s: %w", path, err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parallelizer: parsing config %s: %w", path, err)
	}
	return cfg, nil
}
