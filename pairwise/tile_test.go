package pairwise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neerajvashistha/cuml/internal/cpu"
)

func TestTileShapeFor(t *testing.T) {
	tests := []struct {
		isa   cpu.ISA
		depth int
	}{
		{cpu.Generic, 8},
		{cpu.NEON, 8},
		{cpu.AVX2, 16},
		{cpu.SVE2, 16},
		{cpu.AVX512, 32},
	}
	for _, tt := range tests {
		t.Run(tt.isa.String(), func(t *testing.T) {
			s := TileShapeFor(tt.isa)
			assert.Equal(t, TileShape{Rows: 128, Cols: 128, Depth: tt.depth}, s)
			assert.NoError(t, s.Validate())
		})
	}

	assert.Equal(t, TileShapeFor(cpu.Active()), DefaultTileShape())
}

func TestTileShapeValidate(t *testing.T) {
	for _, s := range []TileShape{
		{Rows: 0, Cols: 1, Depth: 1},
		{Rows: 1, Cols: -1, Depth: 1},
		{Rows: 1, Cols: 1, Depth: 0},
	} {
		err := s.Validate()
		require.ErrorIs(t, err, ErrInvalidTileShape)
		assert.Contains(t, err.Error(), s.String())
	}
	assert.Equal(t, "4x8x2", TileShape{Rows: 4, Cols: 8, Depth: 2}.String())
}

func TestTileGridBounds(t *testing.T) {
	g := newTileGrid(10, 7, TileShape{Rows: 4, Cols: 3, Depth: 1})
	require.Equal(t, 9, g.count())

	i0, i1, j0, j1 := g.bounds(0)
	assert.Equal(t, [4]int{0, 4, 0, 3}, [4]int{i0, i1, j0, j1})

	i0, i1, j0, j1 = g.bounds(5)
	assert.Equal(t, [4]int{4, 8, 6, 7}, [4]int{i0, i1, j0, j1})

	i0, i1, j0, j1 = g.bounds(8)
	assert.Equal(t, [4]int{8, 10, 6, 7}, [4]int{i0, i1, j0, j1})
}

func TestTileGridCoversOutputOnce(t *testing.T) {
	shapes := []TileShape{
		{Rows: 1, Cols: 1, Depth: 1},
		{Rows: 5, Cols: 3, Depth: 1},
		{Rows: 128, Cols: 128, Depth: 8},
	}
	for _, s := range shapes {
		const m, n = 23, 17
		g := newTileGrid(m, n, s)
		seen := make([]int, m*n)
		for tile := range g.count() {
			i0, i1, j0, j1 := g.bounds(tile)
			for i := i0; i < i1; i++ {
				for j := j0; j < j1; j++ {
					seen[i*n+j]++
				}
			}
		}
		for idx, c := range seen {
			assert.Equal(t, 1, c, "shape %s index %d", s, idx)
		}
	}
}
