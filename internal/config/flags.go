package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key so the same logical flag keeps
// one name, default and description across commands.
type Flag struct {
	// Name is the long flag name (e.g. "workers").
	Name string

	// Shorthand is the one-letter short flag. Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "engine.workers").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagWorkers     = "workers"
	FlagTileRows    = "tile-rows"
	FlagTileCols    = "tile-cols"
	FlagTileDepth   = "tile-depth"
	FlagMemoryLimit = "memory-limit"
	FlagPrecision   = "precision"
	FlagSeed        = "seed"
	FlagTolerance   = "tolerance"
	FlagCutoff      = "cutoff"
	FlagRepeat      = "repeat"
	FlagBenchShape  = "bench-shape"
)

// Flags is the registry shared by all pdist commands.
var Flags = FlagSet{
	FlagWorkers:     {Name: "workers", Shorthand: "w", ViperKey: "engine.workers", Description: "Concurrent tile workers (0 = GOMAXPROCS)"},
	FlagTileRows:    {Name: "tile-rows", ViperKey: "engine.tile_rows", Description: "Tile rows (0 = ISA default)"},
	FlagTileCols:    {Name: "tile-cols", ViperKey: "engine.tile_cols", Description: "Tile columns (0 = ISA default)"},
	FlagTileDepth:   {Name: "tile-depth", ViperKey: "engine.tile_depth", Description: "Tile depth along k (0 = ISA default)"},
	FlagMemoryLimit: {Name: "memory-limit", ViperKey: "memory.limit_bytes", Description: "Workspace memory budget in bytes (0 = unlimited)"},
	FlagPrecision:   {Name: "precision", Shorthand: "p", ViperKey: "verify.precision", Description: "Element precision in bits (32 or 64)"},
	FlagSeed:        {Name: "seed", ViperKey: "verify.seed", Description: "Seed for the uniform input generator"},
	FlagTolerance:   {Name: "tolerance", ViperKey: "verify.tolerance", Description: "Absolute or relative comparison tolerance"},
	FlagCutoff:      {Name: "cutoff", ViperKey: "verify.cutoff", Description: "Threshold epilogue cutoff"},
	FlagRepeat:      {Name: "repeat", Shorthand: "r", ViperKey: "bench.repeat", Description: "Timed engine runs"},
	FlagBenchShape:  {Name: "shape", ViperKey: "bench.shape", Description: "Problem shape m,n,k"},
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, key string, target *int) {
	def, ok := fs[key]
	if !ok {
		return
	}
	cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaults().GetInt(def.ViperKey), def.Description)
}

// AddInt64Flag registers an int64 flag on cmd from the given FlagSet.
func AddInt64Flag(cmd *cobra.Command, fs FlagSet, key string, target *int64) {
	def, ok := fs[key]
	if !ok {
		return
	}
	cmd.Flags().Int64VarP(target, def.Name, def.Shorthand, defaults().GetInt64(def.ViperKey), def.Description)
}

// AddFloat64Flag registers a float64 flag on cmd from the given FlagSet.
func AddFloat64Flag(cmd *cobra.Command, fs FlagSet, key string, target *float64) {
	def, ok := fs[key]
	if !ok {
		return
	}
	cmd.Flags().Float64VarP(target, def.Name, def.Shorthand, defaults().GetFloat64(def.ViperKey), def.Description)
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}
	cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaults().GetString(def.ViperKey), def.Description)
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

func defaults() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
}
