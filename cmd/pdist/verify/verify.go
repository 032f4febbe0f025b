// Package verifycmder provides the verify command, which checks the tiled
// engine against the naive reference over a grid of cases.
package verifycmder

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/neerajvashistha/cuml/distance"
	"github.com/neerajvashistha/cuml/harness"
	"github.com/neerajvashistha/cuml/internal/config"
	"github.com/neerajvashistha/cuml/internal/logger"
	"github.com/neerajvashistha/cuml/pairwise"
)

type verifyCommander struct {
	types  []string
	shapes []string
	short  bool

	// Bound to the config registry; read back through cfg.
	workers     int
	tileRows    int
	tileCols    int
	tileDepth   int
	memoryLimit int64
	precision   int
	seed        int64
	tolerance   float64
	cutoff      float64

	cfg    *config.Config
	debug  bool
	logger *slog.Logger
	out    io.Writer
}

var boundFlags = []string{
	config.FlagWorkers,
	config.FlagTileRows,
	config.FlagTileCols,
	config.FlagTileDepth,
	config.FlagMemoryLimit,
	config.FlagPrecision,
	config.FlagSeed,
	config.FlagTolerance,
	config.FlagCutoff,
}

const verifyLongDesc string = `Check the tiled engine against the naive reference.

Each case draws uniform inputs in [-1, 1), computes the reference matrix, and
runs the engine twice: once returning distances directly and once through a
threshold epilogue that writes into a second buffer. Both must agree with the
reference within the tolerance.

Without --type or --shape every distance type is crossed with the default
shapes (1024,1024,32), (1024,32,1024), (32,1024,1024) and (1024,1024,1024).
--short swaps in a reduced grid.

Examples:
  pdist verify
  pdist verify --short
  pdist verify --type EucExpandedCosine --shape 256,64,300 --precision 64`

const verifyShortDesc string = "Check the engine against the reference"

func NewVerifyCmd() *cobra.Command {
	cmder := &verifyCommander{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: verifyShortDesc,
		Long:  verifyLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			v, err := config.InitViper(configFile)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			config.BindRegisteredFlags(v, cmd, config.Flags, boundFlags)

			cmder.cfg, err = config.Load(v)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			cmder.out = cmd.OutOrStdout()
			cmder.logger = logger.New(
				logger.WithDebug(cmder.debug),
				logger.WithPretty(true),
				logger.WithWriter(cmd.ErrOrStderr()),
			)
			return cmder.run()
		},
	}

	cmd.Flags().StringSliceVarP(&cmder.types, "type", "t", nil, "Distance types to check (default: all)")
	cmd.Flags().StringArrayVarP(&cmder.shapes, "shape", "s", nil, "Shapes m,n,k to check (default: the standard grid)")
	cmd.Flags().BoolVar(&cmder.short, "short", false, "Use the reduced shape grid")

	config.AddIntFlag(cmd, config.Flags, config.FlagWorkers, &cmder.workers)
	config.AddIntFlag(cmd, config.Flags, config.FlagTileRows, &cmder.tileRows)
	config.AddIntFlag(cmd, config.Flags, config.FlagTileCols, &cmder.tileCols)
	config.AddIntFlag(cmd, config.Flags, config.FlagTileDepth, &cmder.tileDepth)
	config.AddInt64Flag(cmd, config.Flags, config.FlagMemoryLimit, &cmder.memoryLimit)
	config.AddIntFlag(cmd, config.Flags, config.FlagPrecision, &cmder.precision)
	config.AddInt64Flag(cmd, config.Flags, config.FlagSeed, &cmder.seed)
	config.AddFloat64Flag(cmd, config.Flags, config.FlagTolerance, &cmder.tolerance)
	config.AddFloat64Flag(cmd, config.Flags, config.FlagCutoff, &cmder.cutoff)

	return cmd
}

func (c *verifyCommander) run() error {
	cases, err := c.cases()
	if err != nil {
		return err
	}

	opts := []harness.Option{
		harness.WithAllocator(c.cfg.Allocator()),
		harness.WithCutoff(c.cfg.Verify.Cutoff),
		harness.WithEngineOptions(append(c.cfg.EngineOptions(),
			pairwise.WithLogger(pairwise.NewLogger(c.logger.Handler())),
		)...),
	}

	c.logger.Info("verifying",
		"cases", len(cases),
		"precision", c.cfg.Verify.Precision,
		"tile", c.cfg.TileShape().String(),
	)

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RESULT\tCASE\tDIRECT MAX|Δ|\tFUSED MAX|Δ|\tWORKSPACE\tENGINE\tREFERENCE")

	failed := 0
	for _, tc := range cases {
		rep, err := c.runCase(tc, opts)
		if err != nil {
			_ = tw.Flush()
			return err
		}

		result := "PASS"
		if !rep.OK() {
			result = "FAIL"
			failed++
		}
		fmt.Fprintf(tw, "%s\t%s\t%.3g\t%.3g\t%d\t%s\t%s\n",
			result, tc, rep.Direct.MaxAbsDiff, rep.Fused.MaxAbsDiff,
			rep.WorkspaceBytes, rep.Engine.Round(time.Microsecond), rep.Reference.Round(time.Microsecond))
		if !rep.OK() {
			c.logMismatch(tc, "direct", rep.Direct.Index, rep.Direct.Expected, rep.Direct.Actual, rep.Direct.Count)
			c.logMismatch(tc, "fused", rep.Fused.Index, rep.Fused.Expected, rep.Fused.Actual, rep.Fused.Count)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d cases failed", failed, len(cases))
	}
	c.logger.Info("all cases passed", "cases", len(cases))
	return nil
}

func (c *verifyCommander) logMismatch(tc harness.Case, path string, idx int, expected, actual float64, count int) {
	if count == 0 {
		return
	}
	c.logger.Error("mismatch",
		"case", tc.String(),
		"path", path,
		"row", idx/tc.N,
		"col", idx%tc.N,
		"expected", expected,
		"actual", actual,
		"count", count,
	)
}

func (c *verifyCommander) runCase(tc harness.Case, opts []harness.Option) (harness.Report, error) {
	if c.cfg.Verify.Precision == 64 {
		return harness.Run[float64](tc, opts...)
	}
	return harness.Run[float32](tc, opts...)
}

func (c *verifyCommander) cases() ([]harness.Case, error) {
	types := distance.Types()
	if len(c.types) > 0 {
		types = types[:0:0]
		for _, name := range c.types {
			dt, err := distance.ParseDistanceType(name)
			if err != nil {
				return nil, err
			}
			types = append(types, dt)
		}
	}

	shapes := harness.Shapes
	if c.short {
		shapes = harness.ShortShapes
	}
	if len(c.shapes) > 0 {
		shapes = make([][3]int, 0, len(c.shapes))
		for _, s := range c.shapes {
			shape, err := harness.ParseShape(s)
			if err != nil {
				return nil, err
			}
			shapes = append(shapes, shape)
		}
	}

	cases := harness.CasesFor(types, shapes)
	for i := range cases {
		cases[i].Tolerance = c.cfg.Verify.Tolerance
		cases[i].Seed = c.cfg.Verify.Seed
	}
	return cases, nil
}
