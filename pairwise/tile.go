package pairwise

import (
	"fmt"

	"github.com/neerajvashistha/cuml/internal/cpu"
)

// TileShape is the block of the (m, n, k) space a worker processes with local reuse.
//
//   - Rows × Cols: output elements finished by one tile (rows of X × rows of Y)
//   - Depth: elements of the shared dimension reduced per pass over the tile
//
// Partial sums of each Depth-wide chunk are formed in registers before being
// added to the tile accumulator, which keeps the X and Y chunks hot in L1.
type TileShape struct {
	Rows  int
	Cols  int
	Depth int
}

// DefaultTileShape returns the tile shape for the active ISA.
func DefaultTileShape() TileShape {
	return TileShapeFor(cpu.Active())
}

// TileShapeFor returns a 128×128 output tile whose depth covers two vector
// registers of float32 lanes on isa, with a floor of 8.
func TileShapeFor(isa cpu.ISA) TileShape {
	return TileShape{
		Rows:  128,
		Cols:  128,
		Depth: max(8, cpu.VectorBytes(isa)/2),
	}
}

// Validate reports ErrInvalidTileShape if any axis is not positive.
func (s TileShape) Validate() error {
	if s.Rows <= 0 || s.Cols <= 0 || s.Depth <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidTileShape, s)
	}
	return nil
}

func (s TileShape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Rows, s.Cols, s.Depth)
}

// tileGrid maps a flat tile number onto output coordinates.
// Tiles are numbered row-major over the (m, n) output.
type tileGrid struct {
	m, n     int
	shape    TileShape
	rowTiles int
	colTiles int
}

func newTileGrid(m, n int, shape TileShape) tileGrid {
	return tileGrid{
		m:        m,
		n:        n,
		shape:    shape,
		rowTiles: ceilDiv(m, shape.Rows),
		colTiles: ceilDiv(n, shape.Cols),
	}
}

func (g tileGrid) count() int {
	return g.rowTiles * g.colTiles
}

// bounds returns the half-open row and column ranges covered by tile t.
func (g tileGrid) bounds(t int) (i0, i1, j0, j1 int) {
	i0 = (t / g.colTiles) * g.shape.Rows
	j0 = (t % g.colTiles) * g.shape.Cols
	return i0, min(i0+g.shape.Rows, g.m), j0, min(j0+g.shape.Cols, g.n)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
