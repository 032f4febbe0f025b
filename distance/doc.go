// Package distance is the metric catalog for pairwise distance computation.
//
// # Supported Types
//
//   - EucExpandedL2, EucExpandedL2Sqrt: squared / plain Euclidean via ‖x‖²+‖y‖²−2x·y
//   - EucExpandedCosine: x·y / (‖x‖·‖y‖)
//   - EucUnexpandedL2, EucUnexpandedL2Sqrt: squared / plain Euclidean via Σ(xᵢ−yᵢ)²
//   - EucUnexpandedL1: Manhattan distance Σ|xᵢ−yᵢ|
//
// Expanded and unexpanded forms of the same metric agree mathematically but not bit for bit.
// The expanded form loses precision to cancellation when ‖x‖² and ‖y‖² dwarf the distance.
//
// # Usage
//
//	tr := distance.MustLookup(distance.EucUnexpandedL1)
//	if tr.Family == distance.Expanded {
//	    // needs precomputed norms
//	}
//	d := distance.L1[float64](a, b)
package distance
