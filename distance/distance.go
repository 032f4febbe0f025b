// Package distance provides the metric catalog shared by the reference and tiled engines,
// plus scalar pair kernels over generic float types.
package distance

import (
	"fmt"
	"math"
	"strings"
)

// Float is the set of element types the engines accept for inputs and accumulators.
type Float interface {
	~float32 | ~float64
}

// DistanceType selects both the metric and the accumulation strategy.
type DistanceType uint8

const (
	// EucExpandedL2 is squared Euclidean distance via ‖x‖²+‖y‖²−2x·y.
	EucExpandedL2 DistanceType = iota
	// EucExpandedL2Sqrt is Euclidean distance via the expanded identity.
	EucExpandedL2Sqrt
	// EucExpandedCosine is the cosine of the angle between x and y: x·y / (‖x‖·‖y‖).
	EucExpandedCosine
	// EucUnexpandedL2 is squared Euclidean distance via Σ(xᵢ−yᵢ)².
	EucUnexpandedL2
	// EucUnexpandedL2Sqrt is Euclidean distance via Σ(xᵢ−yᵢ)².
	EucUnexpandedL2Sqrt
	// EucUnexpandedL1 is Manhattan distance Σ|xᵢ−yᵢ|.
	EucUnexpandedL1

	numTypes
)

var typeNames = [numTypes]string{
	EucExpandedL2:       "EucExpandedL2",
	EucExpandedL2Sqrt:   "EucExpandedL2Sqrt",
	EucExpandedCosine:   "EucExpandedCosine",
	EucUnexpandedL2:     "EucUnexpandedL2",
	EucUnexpandedL2Sqrt: "EucUnexpandedL2Sqrt",
	EucUnexpandedL1:     "EucUnexpandedL1",
}

func (t DistanceType) String() string {
	if t < numTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("Unknown(%d)", t)
}

// ParseDistanceType parses a name as printed by String. Matching is case-insensitive.
func ParseDistanceType(s string) (DistanceType, error) {
	s = strings.TrimSpace(s)
	for i, name := range typeNames {
		if strings.EqualFold(name, s) {
			return DistanceType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown distance type %q", s)
}

// Types returns every supported distance type in catalog order.
func Types() []DistanceType {
	out := make([]DistanceType, numTypes)
	for i := range out {
		out[i] = DistanceType(i)
	}
	return out
}

// Family is the accumulation strategy implied by a distance type.
type Family uint8

const (
	// Unexpanded reduces elementwise differences directly.
	Unexpanded Family = iota
	// Expanded reduces dot products and combines them with precomputed squared norms.
	Expanded
)

func (f Family) String() string {
	switch f {
	case Unexpanded:
		return "unexpanded"
	case Expanded:
		return "expanded"
	default:
		return fmt.Sprintf("Family(%d)", f)
	}
}

// Reduction is the elementwise combine rule summed along the shared dimension.
type Reduction uint8

const (
	// ReduceDot sums xᵢ·yᵢ.
	ReduceDot Reduction = iota
	// ReduceSquaredDiff sums (xᵢ−yᵢ)².
	ReduceSquaredDiff
	// ReduceAbsDiff sums |xᵢ−yᵢ|.
	ReduceAbsDiff
)

func (r Reduction) String() string {
	switch r {
	case ReduceDot:
		return "dot"
	case ReduceSquaredDiff:
		return "squared-diff"
	case ReduceAbsDiff:
		return "abs-diff"
	default:
		return fmt.Sprintf("Reduction(%d)", r)
	}
}

// Traits fully determines the numeric behavior of a distance type.
type Traits struct {
	Family    Family
	Reduction Reduction
	// Sqrt applies a square root once, after the full reduction.
	Sqrt bool
	// Cosine divides the dot product by the product of the row norms.
	Cosine bool
}

var catalog = [numTypes]Traits{
	EucExpandedL2:       {Family: Expanded, Reduction: ReduceDot},
	EucExpandedL2Sqrt:   {Family: Expanded, Reduction: ReduceDot, Sqrt: true},
	EucExpandedCosine:   {Family: Expanded, Reduction: ReduceDot, Cosine: true},
	EucUnexpandedL2:     {Family: Unexpanded, Reduction: ReduceSquaredDiff},
	EucUnexpandedL2Sqrt: {Family: Unexpanded, Reduction: ReduceSquaredDiff, Sqrt: true},
	EucUnexpandedL1:     {Family: Unexpanded, Reduction: ReduceAbsDiff},
}

// Lookup returns the traits of t, or an error if t is not in the catalog.
func Lookup(t DistanceType) (Traits, error) {
	if t >= numTypes {
		return Traits{}, fmt.Errorf("unsupported distance type: %v", t)
	}
	return catalog[t], nil
}

// MustLookup is like Lookup but panics on an unsupported type.
// An engine reaching this panic has drifted out of sync with the catalog.
func MustLookup(t DistanceType) Traits {
	tr, err := Lookup(t)
	if err != nil {
		panic("distance: " + err.Error())
	}
	return tr
}

// Expanded reports whether t uses the expanded accumulation family.
// It returns false for unsupported types.
func (t DistanceType) Expanded() bool {
	tr, err := Lookup(t)
	return err == nil && tr.Family == Expanded
}

// Dot calculates the dot product of a and b, accumulating in A.
// Assumes len(a) == len(b).
func Dot[A, T Float](a, b []T) A {
	var ret A
	for i := range a {
		ret += A(a[i]) * A(b[i])
	}
	return ret
}

// SquaredNorm calculates Σaᵢ², accumulating in A.
func SquaredNorm[A, T Float](a []T) A {
	var ret A
	for _, v := range a {
		ret += A(v) * A(v)
	}
	return ret
}

// SquaredL2 calculates the squared L2 distance between a and b, accumulating in A.
// Assumes len(a) == len(b).
func SquaredL2[A, T Float](a, b []T) A {
	var ret A
	for i := range a {
		d := A(a[i]) - A(b[i])
		ret += d * d
	}
	return ret
}

// L1 calculates the Manhattan distance between a and b, accumulating in A.
// Assumes len(a) == len(b).
func L1[A, T Float](a, b []T) A {
	var ret A
	for i := range a {
		d := A(a[i]) - A(b[i])
		if d < 0 {
			d = -d
		}
		ret += d
	}
	return ret
}

// Sqrt returns the square root of v in its own precision.
func Sqrt[A Float](v A) A {
	return A(math.Sqrt(float64(v)))
}
