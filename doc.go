// Package cuml computes dense pairwise distance matrices on the CPU.
//
// The module is organized as a small stack of packages:
//
//	distance   the metric catalog and scalar pair kernels
//	naive      the unoptimized reference implementation
//	pairwise   the tiled, multi-core engine with fused epilogues
//	harness    checks pairwise against naive over a grid of cases
//	testutil   seeded input generation and matrix comparison
//
// # Quick Start
//
// Every computation is two calls on the same arguments. The first, with a nil
// workspace, reports how many scratch bytes the second needs:
//
//	var size int
//	err := pairwise.Compute[float32, float32, struct{}, struct{}](
//	    x, y, nil, m, n, k, struct{}{}, struct{}{}, distance.EucExpandedL2, nil, &size, nil)
//
//	ws := make([]byte, size)
//	dist := make([]float32, m*n)
//	err = pairwise.Compute[float32, float32, struct{}, struct{}](
//	    x, y, dist, m, n, k, struct{}{}, struct{}{}, distance.EucExpandedL2, ws, nil, nil)
//
// The workspace must be 64-byte aligned. mem.AllocAligned and mem.Allocator
// return suitable buffers; plain make usually does too but is not guaranteed.
//
// # Distance Types
//
//	EucExpandedL2        ‖x‖² + ‖y‖² − 2x·y, clamped at zero
//	EucExpandedL2Sqrt    √EucExpandedL2
//	EucExpandedCosine    x·y / (‖x‖·‖y‖), a similarity
//	EucUnexpandedL2      Σ(xᵢ − yᵢ)²
//	EucUnexpandedL2Sqrt  √EucUnexpandedL2
//	EucUnexpandedL1      Σ|xᵢ − yᵢ|
//
// # Command Line
//
// The pdist binary (cli/pdist) lists the catalog, verifies the engine against
// the reference and benchmarks it:
//
//	pdist types
//	pdist verify --short
//	pdist bench --type EucUnexpandedL1 --shape 2048,2048,128
package cuml
