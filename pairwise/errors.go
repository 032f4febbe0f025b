package pairwise

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidShape is returned when m, n, or k is not positive.
	ErrInvalidShape = errors.New("pairwise: m, n and k must be positive")

	// ErrInvalidTileShape is returned when a tile axis is not positive.
	ErrInvalidTileShape = errors.New("pairwise: tile rows, cols and depth must be positive")

	// ErrNilWorksize is returned by a size query whose worksize pointer is nil.
	ErrNilWorksize = errors.New("pairwise: size query needs a non-nil worksize")

	// ErrInsufficientWorkspace is returned when the workspace is smaller than the size query reported.
	// Nothing is written when it is returned.
	ErrInsufficientWorkspace = errors.New("pairwise: insufficient workspace")

	// ErrMisalignedWorkspace is returned when the workspace does not start on an
	// address suitable for the accumulation type.
	ErrMisalignedWorkspace = errors.New("pairwise: misaligned workspace")

	// ErrComputeFailed wraps a fault raised while tiles were running.
	// The distance matrix and any epilogue outputs are undefined afterwards.
	ErrComputeFailed = errors.New("pairwise: compute failed")
)

// DimensionMismatchError indicates an operand slice shorter than its declared shape.
type DimensionMismatchError struct {
	Operand  string
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("pairwise: dimension mismatch for %s: expected at least %d elements, got %d",
		e.Operand, e.Expected, e.Actual)
}
