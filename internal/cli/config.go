package cli

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/firefighterduck/dqg/pkg/errors"
)

// configFile is the name of the optional per-directory config file.
const configFile = "dqg.toml"

// Config holds default search settings read from dqg.toml. Command-line
// flags override whatever the file provides.
type Config struct {
	// Policy is the repair policy name (none, recolor, pow_gen, merge_gen).
	Policy string `toml:"policy"`
	// Metric ranks quotients during powerset search (standard, least_orbits,
	// biggest_orbit, sparsity).
	Metric string `toml:"metric"`
	// CoreSize bounds the orbit subsets tried by brute-force core search.
	CoreSize int `toml:"core_size"`
	// MaxIterations caps the repair loop.
	MaxIterations int `toml:"max_iterations"`
	// MUS switches core extraction to the external minimal-core tool.
	MUS bool `toml:"mus"`
	// Validate re-checks decoded transversals against the input graph.
	Validate bool `toml:"validate"`
	// Engine is the automorphism tool binary (dreadnaut by default).
	Engine string `toml:"engine"`
	// Traces selects the Traces backend for sparse graphs.
	Traces bool `toml:"traces"`
}

// DefaultConfig returns the settings used when no config file is present.
func DefaultConfig() Config {
	return Config{
		Policy: "none",
		Metric: "standard",
	}
}

// LoadConfig reads path into a Config on top of the defaults. A missing
// file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot read config file %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cannot parse config file %s", path)
	}
	return cfg, nil
}
