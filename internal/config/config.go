// Package config holds the pdist command-line configuration: defaults,
// the optional config.toml, PDIST_ environment overrides and the flag registry.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/neerajvashistha/cuml/internal/mem"
	"github.com/neerajvashistha/cuml/internal/resource"
	"github.com/neerajvashistha/cuml/pairwise"
)

// Config is the resolved configuration of a pdist run.
type Config struct {
	Engine EngineConfig `mapstructure:"engine" toml:"engine"`
	Memory MemoryConfig `mapstructure:"memory" toml:"memory"`
	Verify VerifyConfig `mapstructure:"verify" toml:"verify"`
	Bench  BenchConfig  `mapstructure:"bench" toml:"bench"`
}

// EngineConfig tunes the tiled engine. Zero values select the engine defaults.
type EngineConfig struct {
	Workers   int `mapstructure:"workers" toml:"workers"`
	TileRows  int `mapstructure:"tile_rows" toml:"tile_rows"`
	TileCols  int `mapstructure:"tile_cols" toml:"tile_cols"`
	TileDepth int `mapstructure:"tile_depth" toml:"tile_depth"`
}

// MemoryConfig bounds the bytes handed out for workspaces.
type MemoryConfig struct {
	// LimitBytes of 0 means unlimited.
	LimitBytes int64 `mapstructure:"limit_bytes" toml:"limit_bytes"`
}

// VerifyConfig holds the verify command defaults.
type VerifyConfig struct {
	Precision int     `mapstructure:"precision" toml:"precision"`
	Seed      int64   `mapstructure:"seed" toml:"seed"`
	Tolerance float64 `mapstructure:"tolerance" toml:"tolerance"`
	Cutoff    float64 `mapstructure:"cutoff" toml:"cutoff"`
}

// BenchConfig holds the bench command defaults.
type BenchConfig struct {
	Repeat int    `mapstructure:"repeat" toml:"repeat"`
	Shape  string `mapstructure:"shape" toml:"shape"`
}

// NewDefaultConfig returns the built-in defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Verify: VerifyConfig{
			Precision: 32,
			Seed:      1234,
			Tolerance: 1e-3,
			Cutoff:    0.5,
		},
		Bench: BenchConfig{
			Repeat: 3,
			Shape:  "512,512,512",
		},
	}
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values no command can run with.
func (c *Config) Validate() error {
	if c.Verify.Precision != 32 && c.Verify.Precision != 64 {
		return fmt.Errorf("verify.precision must be 32 or 64, got %d", c.Verify.Precision)
	}
	if c.Bench.Repeat <= 0 {
		return fmt.Errorf("bench.repeat must be positive, got %d", c.Bench.Repeat)
	}
	if c.Memory.LimitBytes < 0 {
		return fmt.Errorf("memory.limit_bytes must not be negative, got %d", c.Memory.LimitBytes)
	}
	if c.Engine.TileRows != 0 || c.Engine.TileCols != 0 || c.Engine.TileDepth != 0 {
		if err := c.TileShape().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// TileShape returns the configured tile shape, or the engine default when
// no tile axis is set.
func (c *Config) TileShape() pairwise.TileShape {
	e := c.Engine
	if e.TileRows == 0 && e.TileCols == 0 && e.TileDepth == 0 {
		return pairwise.DefaultTileShape()
	}
	return pairwise.TileShape{Rows: e.TileRows, Cols: e.TileCols, Depth: e.TileDepth}
}

// EngineOptions translates the engine section into pairwise options.
func (c *Config) EngineOptions() []pairwise.Option {
	return []pairwise.Option{
		pairwise.WithWorkers(c.Engine.Workers),
		pairwise.WithTileShape(c.TileShape()),
	}
}

// Allocator returns a workspace allocator charged against the memory budget.
func (c *Config) Allocator() *mem.Allocator {
	return mem.NewAllocator(resource.NewController(resource.Config{
		MemoryLimitBytes: c.Memory.LimitBytes,
	}))
}
