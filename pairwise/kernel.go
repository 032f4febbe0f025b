package pairwise

import "github.com/neerajvashistha/cuml/distance"

// tileKernel accumulates one tile of the reduction into acc.
// acc is (i1-i0)×(j1-j0), row-major, and must be zeroed by the caller.
type tileKernel[T, AccT distance.Float] func(acc []AccT, x, y []T, k, depth, i0, i1, j0, j1 int)

func kernelFor[T, AccT distance.Float](r distance.Reduction) tileKernel[T, AccT] {
	switch r {
	case distance.ReduceDot:
		return accumulateDot[T, AccT]
	case distance.ReduceSquaredDiff:
		return accumulateSquaredDiff[T, AccT]
	case distance.ReduceAbsDiff:
		return accumulateAbsDiff[T, AccT]
	default:
		panic("pairwise: no kernel for reduction")
	}
}

// The three kernels share one loop nest: K is consumed in depth-wide chunks,
// and within a chunk every (i, j) pair of the tile forms a partial sum that
// is added to its accumulator once.

func accumulateDot[T, AccT distance.Float](acc []AccT, x, y []T, k, depth, i0, i1, j0, j1 int) {
	cols := j1 - j0
	for p0 := 0; p0 < k; p0 += depth {
		p1 := min(p0+depth, k)
		for i := i0; i < i1; i++ {
			xa := x[i*k+p0 : i*k+p1]
			row := acc[(i-i0)*cols : (i-i0+1)*cols]
			for j := j0; j < j1; j++ {
				yb := y[j*k+p0 : j*k+p1]
				yb = yb[:len(xa)]
				var s AccT
				for p, v := range xa {
					s += AccT(v) * AccT(yb[p])
				}
				row[j-j0] += s
			}
		}
	}
}

func accumulateSquaredDiff[T, AccT distance.Float](acc []AccT, x, y []T, k, depth, i0, i1, j0, j1 int) {
	cols := j1 - j0
	for p0 := 0; p0 < k; p0 += depth {
		p1 := min(p0+depth, k)
		for i := i0; i < i1; i++ {
			xa := x[i*k+p0 : i*k+p1]
			row := acc[(i-i0)*cols : (i-i0+1)*cols]
			for j := j0; j < j1; j++ {
				yb := y[j*k+p0 : j*k+p1]
				yb = yb[:len(xa)]
				var s AccT
				for p, v := range xa {
					d := AccT(v) - AccT(yb[p])
					s += d * d
				}
				row[j-j0] += s
			}
		}
	}
}

func accumulateAbsDiff[T, AccT distance.Float](acc []AccT, x, y []T, k, depth, i0, i1, j0, j1 int) {
	cols := j1 - j0
	for p0 := 0; p0 < k; p0 += depth {
		p1 := min(p0+depth, k)
		for i := i0; i < i1; i++ {
			xa := x[i*k+p0 : i*k+p1]
			row := acc[(i-i0)*cols : (i-i0+1)*cols]
			for j := j0; j < j1; j++ {
				yb := y[j*k+p0 : j*k+p1]
				yb = yb[:len(xa)]
				var s AccT
				for p, v := range xa {
					d := AccT(v) - AccT(yb[p])
					if d < 0 {
						d = -d
					}
					s += d
				}
				row[j-j0] += s
			}
		}
	}
}

// finalizer turns a fully reduced accumulator into the metric value.
// xn and yn are the squared norms of the two rows; unexpanded types ignore them.
type finalizer[AccT distance.Float] func(acc, xn, yn AccT) AccT

func finalizerFor[AccT distance.Float](tr distance.Traits) finalizer[AccT] {
	switch {
	case tr.Family == distance.Expanded && tr.Cosine:
		// Zero norms are not special-cased; the division yields NaN or ±Inf.
		return func(acc, xn, yn AccT) AccT {
			return acc / (distance.Sqrt(xn) * distance.Sqrt(yn))
		}
	case tr.Family == distance.Expanded && tr.Sqrt:
		return func(acc, xn, yn AccT) AccT {
			return distance.Sqrt(expandedL2(acc, xn, yn))
		}
	case tr.Family == distance.Expanded:
		return expandedL2[AccT]
	case tr.Sqrt:
		return func(acc, _, _ AccT) AccT { return distance.Sqrt(acc) }
	default:
		return func(acc, _, _ AccT) AccT { return acc }
	}
}

// expandedL2 evaluates ‖x‖²+‖y‖²−2x·y. Cancellation can drive the result
// slightly below zero for near-identical rows; it is clamped to 0.
func expandedL2[AccT distance.Float](dot, xn, yn AccT) AccT {
	v := xn + yn - 2*dot
	if v < 0 {
		return 0
	}
	return v
}
