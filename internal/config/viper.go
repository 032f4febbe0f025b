package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PDIST_ENGINE_WORKERS.
const EnvPrefix = "PDIST"

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads configFile (or, when empty,
// config.toml from the working directory if present), and binds environment
// variables with the PDIST_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (PDIST_ENGINE_WORKERS, PDIST_VERIFY_SEED, etc.)
//  3. config file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configFile string) (*viper.Viper, error) {
	v := viper.New()

	setViperDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// Config file not found errors are fine, defaults will apply.
			if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	// Engine
	v.SetDefault("engine.workers", d.Engine.Workers)
	v.SetDefault("engine.tile_rows", d.Engine.TileRows)
	v.SetDefault("engine.tile_cols", d.Engine.TileCols)
	v.SetDefault("engine.tile_depth", d.Engine.TileDepth)

	// Memory
	v.SetDefault("memory.limit_bytes", d.Memory.LimitBytes)

	// Verify
	v.SetDefault("verify.precision", d.Verify.Precision)
	v.SetDefault("verify.seed", d.Verify.Seed)
	v.SetDefault("verify.tolerance", d.Verify.Tolerance)
	v.SetDefault("verify.cutoff", d.Verify.Cutoff)

	// Bench
	v.SetDefault("bench.repeat", d.Bench.Repeat)
	v.SetDefault("bench.shape", d.Bench.Shape)
}
