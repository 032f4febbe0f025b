// Package testutil provides testing utilities for the distance engines.
//
// This package is intended for use in tests, benchmarks and the verify
// command. It provides seeded random inputs and approximate comparison of
// distance matrices.
//
// # Random Input Generation
//
//	x := make([]float32, m*k)
//	testutil.Uniform(x, len(x), -1, 1, seed)  // uniform [-1, 1)
//
//	rng := testutil.NewRNG(seed)
//	testutil.FillUniform(rng, y, -1, 1)
//
// # Approximate Comparison
//
//	ok := testutil.Matches(expected, actual, m, n, 1e-3)
//	d := testutil.Compare(expected, actual, m, n, 1e-3) // first mismatch and worst difference
package testutil
