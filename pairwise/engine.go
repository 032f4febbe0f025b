package pairwise

import (
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/neerajvashistha/cuml/distance"
)

// progressInterval bounds how often a running job logs its tile progress.
const progressInterval = time.Second

// normRowsPerTask is the number of rows whose squared norms one task computes.
const normRowsPerTask = 256

// Compute fills dist (m×n, row-major) with the distance between every row of
// x (m×k) and every row of y (n×k) under dt.
//
// It follows a two-call protocol:
//
//   - workspace == nil: nothing is computed. The required workspace size in
//     bytes is stored in *worksize and Compute returns.
//   - workspace != nil: the full computation runs. workspace must hold at
//     least the reported number of bytes (it may be empty for types that
//     report 0); worksize is not read.
//
// Every finished element passes through fin exactly once; its return value is
// stored at dist[i*n+j]. A nil fin is the identity, and a nil dist leaves the
// epilogue as the only consumer of results.
//
// Compute panics if dt is not in the catalog.
func Compute[T, AccT distance.Float, InT, OutT any](
	x, y []T, dist []AccT, m, n, k int,
	in InT, out OutT,
	dt distance.DistanceType,
	workspace []byte, worksize *int,
	fin Epilogue[AccT, InT, OutT],
	opts ...Option,
) error {
	job, err := Launch(x, y, dist, m, n, k, in, out, dt, workspace, worksize, fin, opts...)
	if err != nil {
		return err
	}
	return job.Wait()
}

// Launch validates its arguments like Compute and then starts the computation
// without waiting for it. Outputs must not be read, and workspace must not be
// reused, until Wait on the returned Job has returned.
//
// A size query (nil workspace) completes synchronously and returns a nil *Job,
// whose Wait returns nil.
func Launch[T, AccT distance.Float, InT, OutT any](
	x, y []T, dist []AccT, m, n, k int,
	in InT, out OutT,
	dt distance.DistanceType,
	workspace []byte, worksize *int,
	fin Epilogue[AccT, InT, OutT],
	opts ...Option,
) (*Job, error) {
	tr := distance.MustLookup(dt)
	o := newOptions(opts)
	log := o.logger.WithType(dt).WithShape(m, n, k)

	required, err := WorkspaceSize[AccT](dt, m, n, k, o.tileShape)

	if workspace == nil {
		if err == nil && worksize == nil {
			err = ErrNilWorksize
		}
		if err == nil {
			*worksize = required
		}
		log.LogSizeQuery(required, err)
		o.metricsCollector.RecordSizeQuery(dt, required, err)
		return nil, err
	}

	if err != nil {
		o.metricsCollector.RecordCompute(dt, 0, 0, err)
		return nil, err
	}
	if err := checkLen("x", len(x), m*k); err != nil {
		o.metricsCollector.RecordCompute(dt, 0, 0, err)
		return nil, err
	}
	if err := checkLen("y", len(y), n*k); err != nil {
		o.metricsCollector.RecordCompute(dt, 0, 0, err)
		return nil, err
	}
	if dist != nil {
		if err := checkLen("dist", len(dist), m*n); err != nil {
			o.metricsCollector.RecordCompute(dt, 0, 0, err)
			return nil, err
		}
	}

	layout := layoutFor[AccT](tr, m, n, o.tileShape)
	xn, yn, err := bind[AccT](layout, workspace)
	if err != nil {
		o.metricsCollector.RecordCompute(dt, 0, 0, err)
		return nil, err
	}

	p := &plan[T, AccT, InT, OutT]{
		x: x, y: y, dist: dist,
		m: m, n: n, k: k,
		in: in, out: out,
		tr:       tr,
		xn:       xn,
		yn:       yn,
		grid:     newTileGrid(m, n, o.tileShape),
		kernel:   kernelFor[T, AccT](tr.Reduction),
		finalize: finalizerFor[AccT](tr),
		fin:      fin,
		workers:  o.workers,
		log:      log,
	}

	job := &Job{done: make(chan struct{})}
	go func() {
		start := time.Now()
		job.err = p.run()
		job.elapsed = time.Since(start)
		log.LogCompute(p.grid.count(), job.elapsed, job.err)
		o.metricsCollector.RecordCompute(dt, m*n, job.elapsed, job.err)
		close(job.done)
	}()
	return job, nil
}

func checkLen(operand string, actual, expected int) error {
	if actual < expected {
		return &DimensionMismatchError{Operand: operand, Expected: expected, Actual: actual}
	}
	return nil
}

// Job is a launched computation. Wait is its synchronization point.
type Job struct {
	done    chan struct{}
	err     error
	elapsed time.Duration
}

// Wait blocks until every tile has finished and returns the first failure.
// A nil *Job (from a size query) returns nil immediately.
func (j *Job) Wait() error {
	if j == nil {
		return nil
	}
	<-j.done
	return j.err
}

// Done returns a channel closed when the job finishes.
func (j *Job) Done() <-chan struct{} {
	if j == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return j.done
}

// Elapsed returns the wall time of a finished job, or 0 while it is running.
func (j *Job) Elapsed() time.Duration {
	if j == nil {
		return 0
	}
	select {
	case <-j.done:
		return j.elapsed
	default:
		return 0
	}
}

type plan[T, AccT distance.Float, InT, OutT any] struct {
	x, y    []T
	dist    []AccT
	m, n, k int
	in      InT
	out     OutT

	tr     distance.Traits
	xn, yn []AccT

	grid     tileGrid
	kernel   tileKernel[T, AccT]
	finalize finalizer[AccT]
	fin      Epilogue[AccT, InT, OutT]
	workers  int
	log      *Logger
}

func (p *plan[T, AccT, InT, OutT]) run() error {
	if p.tr.Family == distance.Expanded {
		if err := p.precomputeNorms(); err != nil {
			return err
		}
	}
	return p.runTiles()
}

// precomputeNorms fills the workspace norm arrays; padding entries are zeroed.
func (p *plan[T, AccT, InT, OutT]) precomputeNorms() error {
	var g errgroup.Group
	g.SetLimit(p.workers)

	fill := func(norms []AccT, src []T, rows int) {
		for r0 := 0; r0 < len(norms); r0 += normRowsPerTask {
			r1 := min(r0+normRowsPerTask, len(norms))
			g.Go(func() (err error) {
				defer recoverFault(&err)
				for r := r0; r < r1; r++ {
					if r >= rows {
						norms[r] = 0
						continue
					}
					norms[r] = distance.SquaredNorm[AccT](src[r*p.k : (r+1)*p.k])
				}
				return nil
			})
		}
	}
	fill(p.xn, p.x, p.m)
	fill(p.yn, p.y, p.n)
	return g.Wait()
}

func (p *plan[T, AccT, InT, OutT]) runTiles() error {
	total := p.grid.count()
	workers := min(p.workers, total)

	var next, finished atomic.Int64
	progress := rate.Sometimes{Interval: progressInterval}
	p.log.Debug("distance computation started",
		"tiles", total,
		"workers", workers,
		"tile", p.grid.shape.String(),
	)

	var g errgroup.Group
	for range workers {
		g.Go(func() (err error) {
			defer recoverFault(&err)
			acc := make([]AccT, p.grid.shape.Rows*p.grid.shape.Cols)
			for {
				t := int(next.Add(1) - 1)
				if t >= total {
					return nil
				}
				p.tile(t, acc)
				done := finished.Add(1)
				progress.Do(func() {
					p.log.Debug("distance computation progress", "tiles_done", done, "tiles", total)
				})
			}
		})
	}
	return g.Wait()
}

// tile reduces, finalizes and emits one output tile.
func (p *plan[T, AccT, InT, OutT]) tile(t int, buf []AccT) {
	i0, i1, j0, j1 := p.grid.bounds(t)
	cols := j1 - j0
	acc := buf[:(i1-i0)*cols]
	clear(acc)

	p.kernel(acc, p.x, p.y, p.k, p.grid.shape.Depth, i0, i1, j0, j1)

	var zero AccT
	for i := i0; i < i1; i++ {
		xn := zero
		if p.xn != nil {
			xn = p.xn[i]
		}
		row := acc[(i-i0)*cols : (i-i0+1)*cols]
		for j := j0; j < j1; j++ {
			yn := zero
			if p.yn != nil {
				yn = p.yn[j]
			}
			v := p.finalize(row[j-j0], xn, yn)
			idx := i*p.n + j
			if p.fin != nil {
				v = p.fin(v, idx, p.in, p.out)
			}
			if p.dist != nil {
				p.dist[idx] = v
			}
		}
	}
}

// recoverFault converts a panic in a worker into ErrComputeFailed.
func recoverFault(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrComputeFailed, r)
	}
}
