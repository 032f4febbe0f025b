// Package naive is the brute-force reference for pairwise distances.
//
// Every output cell is a direct full-length reduction over the shared
// dimension, computed from the textbook definition of its metric. It is
// the oracle the tiled engine is tested against and is not tuned for speed
// beyond spreading rows across goroutines.
package naive

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/neerajvashistha/cuml/distance"
)

// Distance fills dist (m×n, row-major) with the distance between every row
// of x (m×k) and every row of y (n×k) under dt, in T precision.
//
// It panics if dt is not in the catalog or any slice is shorter than its shape.
func Distance[T distance.Float](dist, x, y []T, m, n, k int, dt distance.DistanceType) {
	tr := distance.MustLookup(dt)
	if m <= 0 || n <= 0 || k <= 0 {
		panic("naive: non-positive shape")
	}
	if len(x) < m*k {
		panic("naive: x slice too short")
	}
	if len(y) < n*k {
		panic("naive: y slice too short")
	}
	if len(dist) < m*n {
		panic("naive: dist slice too short")
	}

	cell := cellFunc[T](tr)

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range m {
		g.Go(func() error {
			a := x[i*k : (i+1)*k]
			row := dist[i*n : (i+1)*n]
			for j := range n {
				row[j] = cell(a, y[j*k:(j+1)*k])
			}
			return nil
		})
	}
	// Workers never fail; Wait only joins them.
	_ = g.Wait()
}

func cellFunc[T distance.Float](tr distance.Traits) func(a, b []T) T {
	switch {
	case tr.Cosine:
		return cosine[T]
	case tr.Reduction == distance.ReduceAbsDiff:
		return distance.L1[T, T]
	case tr.Sqrt:
		return func(a, b []T) T { return distance.Sqrt(distance.SquaredL2[T, T](a, b)) }
	default:
		// Both L2 families share the same mathematical definition.
		return distance.SquaredL2[T, T]
	}
}

func cosine[T distance.Float](a, b []T) T {
	ab := distance.Dot[T, T](a, b)
	return ab / (distance.Sqrt(distance.SquaredNorm[T, T](a)) * distance.Sqrt(distance.SquaredNorm[T, T](b)))
}
