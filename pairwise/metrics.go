package pairwise

import (
	"sync/atomic"
	"time"

	"github.com/neerajvashistha/cuml/distance"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordSizeQuery is called after each size-query call.
	RecordSizeQuery(dt distance.DistanceType, bytes int, err error)

	// RecordCompute is called once a computation has finished.
	// elements is m*n, duration covers norm precompute and all tiles.
	RecordCompute(dt distance.DistanceType, elements int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSizeQuery(distance.DistanceType, int, error) {}
func (NoopMetricsCollector) RecordCompute(distance.DistanceType, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SizeQueryCount   atomic.Int64
	SizeQueryErrors  atomic.Int64
	ComputeCount     atomic.Int64
	ComputeErrors    atomic.Int64
	ComputeElements  atomic.Int64
	ComputeTotalNano atomic.Int64
}

// RecordSizeQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSizeQuery(_ distance.DistanceType, _ int, err error) {
	b.SizeQueryCount.Add(1)
	if err != nil {
		b.SizeQueryErrors.Add(1)
	}
}

// RecordCompute implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompute(_ distance.DistanceType, elements int, duration time.Duration, err error) {
	b.ComputeCount.Add(1)
	b.ComputeTotalNano.Add(duration.Nanoseconds())
	if err != nil {
		b.ComputeErrors.Add(1)
		return
	}
	b.ComputeElements.Add(int64(elements))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SizeQueryCount:  b.SizeQueryCount.Load(),
		SizeQueryErrors: b.SizeQueryErrors.Load(),
		ComputeCount:    b.ComputeCount.Load(),
		ComputeErrors:   b.ComputeErrors.Load(),
		ComputeElements: b.ComputeElements.Load(),
		ComputeAvgNanos: b.getAvgComputeNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgComputeNanos() int64 {
	count := b.ComputeCount.Load()
	if count == 0 {
		return 0
	}
	return b.ComputeTotalNano.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SizeQueryCount  int64
	SizeQueryErrors int64
	ComputeCount    int64
	ComputeErrors   int64
	ComputeElements int64
	ComputeAvgNanos int64
}
