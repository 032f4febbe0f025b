package testutil

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/neerajvashistha/cuml/distance"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniform fills dst with random values in range [low, high).
// Locks only once per call (preferred over calling Float64 in a loop).
func FillUniform[T distance.Float](r *RNG, dst []T, low, high T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	span := float64(high) - float64(low)
	for i := range dst {
		dst[i] = T(float64(low) + r.rand.Float64()*span)
	}
}

// Uniform fills the first count elements of buf with values drawn uniformly
// from [low, high) by a generator seeded with seed.
// The same arguments always produce the same values.
func Uniform[T distance.Float](buf []T, count int, low, high T, seed int64) {
	FillUniform(NewRNG(seed), buf[:count], low, high)
}

// UniformMatrix returns a rows×cols row-major matrix filled by Uniform.
func UniformMatrix[T distance.Float](rows, cols int, low, high T, seed int64) []T {
	m := make([]T, rows*cols)
	Uniform(m, len(m), low, high, seed)
	return m
}

// Mismatch describes the outcome of comparing two matrices.
type Mismatch struct {
	// Index is the first failing row-major index, or -1 if all entries match.
	Index int
	// Expected and Actual are the values at Index.
	Expected, Actual float64
	// MaxAbsDiff is the largest absolute difference over all finite entry pairs.
	MaxAbsDiff float64
	// Count is the number of failing entries.
	Count int
}

// OK reports whether every entry matched.
func (m Mismatch) OK() bool {
	return m.Count == 0
}

// Compare checks rows×cols entries of expected against actual.
//
// A pair matches when it differs by at most tol in absolute terms, or by at
// most tol relative to the larger magnitude. Large distances, whose
// floating-point error scales with their size, are thus compared relatively.
// Two NaNs match.
func Compare[T distance.Float](expected, actual []T, rows, cols int, tol float64) Mismatch {
	res := Mismatch{Index: -1}
	n := rows * cols
	if len(expected) < n || len(actual) < n {
		res.Count = 1
		res.Index = min(len(expected), len(actual))
		return res
	}
	for i := range n {
		e, a := float64(expected[i]), float64(actual[i])
		if math.IsNaN(e) && math.IsNaN(a) {
			continue
		}
		if d := math.Abs(e - a); d > res.MaxAbsDiff {
			res.MaxAbsDiff = d
		}
		if scalar.EqualWithinAbsOrRel(e, a, tol, tol) {
			continue
		}
		if res.Count == 0 {
			res.Index, res.Expected, res.Actual = i, e, a
		}
		res.Count++
	}
	return res
}

// Matches reports whether every one of the rows×cols entry pairs agrees within tol.
// See Compare for the tolerance rule.
func Matches[T distance.Float](expected, actual []T, rows, cols int, tol float64) bool {
	return Compare(expected, actual, rows, cols, tol).OK()
}
