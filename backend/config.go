/*
=================================================================================
CONFIG - BACKEND RUN CONFIGURATION
=================================================================================

Config selects the scheduler variant (§4.6.4) and its worker-pool sizing.
Loaded from TOML via github.com/BurntSushi/toml, grounded on the pack's
HD220-crownet config.go use of the same library for a structured run
configuration (see DESIGN.md).
=================================================================================
*/

package backend

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Variant selects which scheduler drives the simulation.
type Variant string

const (
	// SingleThreaded runs populations and projections serially (§4.6.4).
	SingleThreaded Variant = "single_threaded"
	// WorkerPool runs populations and projections across a fixed pool of
	// worker goroutines, joined at each phase boundary (§4.6.4).
	WorkerPool Variant = "worker_pool"
)

// Config is the backend's run configuration.
type Config struct {
	Variant Variant `toml:"variant"`

	// WorkerCount bounds how many goroutines the worker-pool variant runs
	// concurrently within one phase.
	WorkerCount int `toml:"worker_count"`

	// NeuronsPerThread and SpikesPerThread are the worker-pool's
	// chunk-sizing knobs (§4.6.4). They are retained here as the dial a
	// deployment tunes; the current worker-pool scheduler parallelizes at
	// population/projection granularity rather than sub-chunking within
	// one population (see DESIGN.md for why).
	NeuronsPerThread int `toml:"neurons_per_thread"`
	SpikesPerThread  int `toml:"spikes_per_thread"`
}

// DefaultConfig returns a single-threaded configuration.
func DefaultConfig() Config {
	return Config{
		Variant:          SingleThreaded,
		WorkerCount:      4,
		NeuronsPerThread: 256,
		SpikesPerThread:  256,
	}
}

// LoadConfig reads a TOML configuration file at path.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("backend: reading config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("backend: parsing config %s: %w", path, err)
	}
	return cfg, nil
}
