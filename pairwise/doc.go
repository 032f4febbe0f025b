// Package pairwise computes dense pairwise distance matrices with a tiled,
// multi-core engine.
//
// Given X (m×k) and Y (n×k), both row-major, Compute fills the m×n matrix D
// where D[i*n+j] is the distance between row i of X and row j of Y.
//
// # Distance Types
//
// Six metrics are supported, split into two accumulation families:
//
//	Expanded    EucExpandedL2, EucExpandedL2Sqrt, EucExpandedCosine
//	Unexpanded  EucUnexpandedL2, EucUnexpandedL2Sqrt, EucUnexpandedL1
//
// The expanded family reduces dot products and combines them with the
// squared row norms, which it keeps in a caller-supplied workspace. The
// unexpanded family reduces elementwise differences and needs no workspace.
//
// # Two-Call Protocol
//
// Scratch memory is owned by the caller. Ask for its size first, then run:
//
//	var size int
//	_ = pairwise.Compute(x, y, dist, m, n, k, in, out, dt, nil, &size, fin)
//	ws := make([]byte, size) // may be empty
//	err := pairwise.Compute(x, y, dist, m, n, k, in, out, dt, ws, nil, fin)
//
// A nil workspace always means "size query"; pass an empty, non-nil slice to
// run a type that needs no scratch space. The size depends on the tile shape,
// so both calls must use the same WithTileShape option.
//
// # Epilogues
//
// An Epilogue is fused into the engine and sees every finished element once,
// with its flat index and two caller values: a read-only input bundle and an
// output state. It can transform the stored value, record side outputs, or
// both. With a nil dist the epilogue is the only consumer of results.
//
// # Asynchronous Execution
//
// Launch starts a computation and returns a Job. Outputs and the workspace
// belong to the engine until Job.Wait returns. Compute is Launch followed by Wait.
//
// # Tiling
//
// The output is cut into TileShape.Rows × TileShape.Cols tiles that workers
// claim one at a time. Each tile consumes the shared dimension in Depth-wide
// chunks. The default depth follows the vector width of the detected ISA
// (see TileShapeFor); results do not depend on the tile shape beyond
// floating-point summation order.
package pairwise
