package pairwise

import "runtime"

type options struct {
	workers          int
	tileShape        TileShape
	logger           *Logger
	metricsCollector MetricsCollector
}

// Option configures a Compute or Launch call.
type Option func(*options)

// WithWorkers bounds how many tiles run at once.
// Values <= 0 select GOMAXPROCS. A value of 1 runs tiles sequentially.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithTileShape overrides the ISA-derived default tile shape.
// The workspace size depends on the tile shape, so the size query and the
// execute call must receive the same shape.
func WithTileShape(s TileShape) Option {
	return func(o *options) {
		o.tileShape = s
	}
}

// WithLogger configures structured logging for size queries and computations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := pairwise.NewJSONLogger(slog.LevelDebug)
//	err := pairwise.Compute(x, y, dist, m, n, k, in, out, dt, ws, &size, nil, pairwise.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

func newOptions(opts []Option) options {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}
	if o.tileShape == (TileShape{}) {
		o.tileShape = DefaultTileShape()
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}
