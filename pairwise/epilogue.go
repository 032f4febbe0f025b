package pairwise

import "github.com/neerajvashistha/cuml/distance"

// Epilogue is the fused finalize operation applied to each output element.
//
// It receives the finished distance v, the element's row-major index
// idx = i*n + j, the caller's read-only input bundle and the caller's output
// state. Its return value is what gets stored in the distance matrix.
//
// The engine calls it exactly once per element, after the full reduction and
// any square root or normalization. Calls for different elements may run
// concurrently, so writes through out must touch only state owned by idx.
// OutT is normally a slice or pointer so those writes reach the caller.
type Epilogue[AccT distance.Float, InT, OutT any] func(v AccT, idx int, in InT, out OutT) AccT

// Identity returns an epilogue that leaves every value unchanged.
// Passing a nil epilogue behaves the same.
func Identity[AccT distance.Float, InT, OutT any]() Epilogue[AccT, InT, OutT] {
	return func(v AccT, _ int, _ InT, _ OutT) AccT { return v }
}
