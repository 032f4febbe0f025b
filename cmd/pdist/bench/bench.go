// Package benchcmder provides the bench command, which times the tiled engine
// against the naive reference for one distance type and shape.
package benchcmder

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
	"github.com/neerajvashistha/cuml/naive"
	"github.com/neerajvashistha/cuml/pairwise"
	"github.com/neerajvashistha/cuml/testutil"
)

type benchCommander struct {
	typeName string

	// Bound to the config registry; read back through cfg.
	shape       string
	repeat      int
	workers     int
	tileRows    int
	tileCols    int
	tileDepth   int
	memoryLimit int64
	seed        int64
	tolerance   float64

	cfg    *config.Config
	debug  bool
	logger *slog.Logger
	out    io.Writer
}

var boundFlags = []string{
	config.FlagBenchShape,
	config.FlagRepeat,
	config.FlagWorkers,
	config.FlagTileRows,
	config.FlagTileCols,
	config.FlagTileDepth,
	config.FlagMemoryLimit,
	config.FlagSeed,
	config.FlagTolerance,
}

const benchLongDesc string = `Time the tiled engine against the naive reference.

Inputs are float32, drawn uniformly from [-1, 1). The reference runs once, the
engine runs --repeat times with one workspace obtained through the size query.
The engine output is checked against the reference before timings are printed.

Examples:
  pdist bench
  pdist bench --type EucUnexpandedL1 --shape 2048,2048,128 --repeat 5
  pdist bench --type EucExpandedL2 --workers 1 --tile-rows 64 --tile-cols 64 --tile-depth 16`

const benchShortDesc string = "Time the engine against the reference"

func NewBenchCmd() *cobra.Command {
	cmder := &benchCommander{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: benchShortDesc,
		Long:  benchLongDesc,
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

	cmd.Flags().StringVarP(&cmder.typeName, "type", "t", distance.EucExpandedL2.String(), "Distance type")

	config.AddStringFlag(cmd, config.Flags, config.FlagBenchShape, &cmder.shape)
	config.AddIntFlag(cmd, config.Flags, config.FlagRepeat, &cmder.repeat)
	config.AddIntFlag(cmd, config.Flags, config.FlagWorkers, &cmder.workers)
	config.AddIntFlag(cmd, config.Flags, config.FlagTileRows, &cmder.tileRows)
	config.AddIntFlag(cmd, config.Flags, config.FlagTileCols, &cmder.tileCols)
	config.AddIntFlag(cmd, config.Flags, config.FlagTileDepth, &cmder.tileDepth)
	config.AddInt64Flag(cmd, config.Flags, config.FlagMemoryLimit, &cmder.memoryLimit)
	config.AddInt64Flag(cmd, config.Flags, config.FlagSeed, &cmder.seed)
	config.AddFloat64Flag(cmd, config.Flags, config.FlagTolerance, &cmder.tolerance)

	return cmd
}

func (c *benchCommander) run() error {
	dt, err := distance.ParseDistanceType(c.typeName)
	if err != nil {
		return err
	}
	shape, err := harness.ParseShape(c.cfg.Bench.Shape)
	if err != nil {
		return err
	}
	tc := harness.Case{M: shape[0], N: shape[1], K: shape[2], Type: dt, Seed: c.cfg.Verify.Seed}
	x, y := harness.Inputs[float32](tc)

	metrics := &pairwise.BasicMetricsCollector{}
	opts := append(c.cfg.EngineOptions(),
		pairwise.WithLogger(pairwise.NewLogger(c.logger.Handler())),
		pairwise.WithMetricsCollector(metrics),
	)

	c.logger.Info("running reference", "case", tc.String())
	ref := make([]float32, tc.M*tc.N)
	start := time.Now()
	naive.Distance(ref, x, y, tc.M, tc.N, tc.K, dt)
	refElapsed := time.Since(start)

	var size int
	err = pairwise.Compute[float32, float32, struct{}, struct{}](
		x, y, nil, tc.M, tc.N, tc.K, struct{}{}, struct{}{}, dt, nil, &size, nil, opts...)
	if err != nil {
		return err
	}
	alloc := c.cfg.Allocator()
	ws, err := alloc.Bytes(size)
	if err != nil {
		return fmt.Errorf("allocating %d byte workspace: %w", size, err)
	}
	defer alloc.FreeBytes(ws)

	dist := make([]float32, tc.M*tc.N)
	best := time.Duration(1<<63 - 1)
	c.logger.Info("running engine", "case", tc.String(), "repeat", c.cfg.Bench.Repeat, "workspace", size)
	for range c.cfg.Bench.Repeat {
		job, err := pairwise.Launch[float32, float32, struct{}, struct{}](
			x, y, dist, tc.M, tc.N, tc.K, struct{}{}, struct{}{}, dt, ws, nil, nil, opts...)
		if err != nil {
			return err
		}
		if err := job.Wait(); err != nil {
			return err
		}
		best = min(best, job.Elapsed())
	}

	check := testutil.Compare(ref, dist, tc.M, tc.N, c.cfg.Verify.Tolerance)
	if !check.OK() {
		return fmt.Errorf("%s: engine disagrees with reference at index %d (expected %g, got %g, %d mismatches)",
			tc, check.Index, check.Expected, check.Actual, check.Count)
	}

	stats := metrics.GetStats()
	mean := time.Duration(stats.ComputeAvgNanos)
	elements := float64(tc.M) * float64(tc.N)

	tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tWORKSPACE\tREFERENCE\tENGINE BEST\tENGINE MEAN\tSPEEDUP\tELEMENTS/S\tMAX|Δ|")
	fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%.1fx\t%.3g\t%.3g\n",
		tc, size,
		refElapsed.Round(time.Microsecond),
		best.Round(time.Microsecond),
		mean.Round(time.Microsecond),
		float64(refElapsed)/float64(max(best, 1)),
		elements/max(best.Seconds(), 1e-9),
		check.MaxAbsDiff,
	)
	if err := tw.Flush(); err != nil {
		return err
	}

	c.logger.Debug("memory", "peak_bytes", alloc.Controller().PeakMemoryUsage(), "limit_bytes", alloc.Controller().MemoryLimit())
	return nil
}
