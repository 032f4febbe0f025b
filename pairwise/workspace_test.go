package pairwise

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neerajvashistha/cuml/distance"
	"github.com/neerajvashistha/cuml/internal/mem"
)

func TestWorkspaceSize(t *testing.T) {
	tile := TileShape{Rows: 128, Cols: 128, Depth: 8}
	small := TileShape{Rows: 16, Cols: 16, Depth: 8}

	tests := []struct {
		name string
		size func() (int, error)
		want int
	}{
		{"float32 default tile", func() (int, error) {
			return WorkspaceSize[float32](distance.EucExpandedL2, 100, 100, 8, tile)
		}, 512 + 512},
		{"float64 default tile", func() (int, error) {
			return WorkspaceSize[float64](distance.EucExpandedL2Sqrt, 100, 100, 8, tile)
		}, 1024 + 1024},
		{"float32 small tile", func() (int, error) {
			return WorkspaceSize[float32](distance.EucExpandedCosine, 100, 100, 8, small)
		}, 448 + 448},
		{"uneven operands", func() (int, error) {
			return WorkspaceSize[float32](distance.EucExpandedL2, 1, 300, 8, small)
		}, 64 + 1216},
		{"unexpanded", func() (int, error) {
			return WorkspaceSize[float64](distance.EucUnexpandedL1, 1000, 1000, 1000, tile)
		}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.size()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkspaceSizeErrors(t *testing.T) {
	tile := DefaultTileShape()

	_, err := WorkspaceSize[float32](distance.EucExpandedL2, 4, 0, 4, tile)
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = WorkspaceSize[float32](distance.EucExpandedL2, 4, 4, 4, TileShape{})
	assert.ErrorIs(t, err, ErrInvalidTileShape)

	assert.Panics(t, func() {
		_, _ = WorkspaceSize[float32](distance.DistanceType(77), 4, 4, 4, tile)
	})
}

func TestLayoutAlignment(t *testing.T) {
	tr := distance.MustLookup(distance.EucExpandedL2)
	l := layoutFor[float64](tr, 3, 5, TileShape{Rows: 3, Cols: 5, Depth: 1})

	assert.Equal(t, 3, l.xLen)
	assert.Equal(t, 5, l.yLen)
	assert.Zero(t, l.yOff%mem.Alignment)
	assert.Zero(t, l.size%mem.Alignment)
	assert.GreaterOrEqual(t, l.yOff, l.xLen*8)
}

func TestBind(t *testing.T) {
	tr := distance.MustLookup(distance.EucExpandedCosine)
	l := layoutFor[float32](tr, 10, 20, TileShape{Rows: 8, Cols: 8, Depth: 4})

	ws := mem.AllocAligned(l.size)
	xn, yn, err := bind[float32](l, ws)
	require.NoError(t, err)
	assert.Len(t, xn, 16)
	assert.Len(t, yn, 24)
	assert.Equal(t, unsafe.Pointer(&ws[0]), unsafe.Pointer(&xn[0]))
	assert.Equal(t, unsafe.Pointer(&ws[l.yOff]), unsafe.Pointer(&yn[0]))

	_, _, err = bind[float32](l, ws[:l.size-1])
	assert.ErrorIs(t, err, ErrInsufficientWorkspace)

	_, _, err = bind[float32](l, mem.AllocAligned(l.size + 2)[2:])
	assert.ErrorIs(t, err, ErrMisalignedWorkspace)

	xn, yn, err = bind[float32](workspaceLayout{}, nil)
	require.NoError(t, err)
	assert.Nil(t, xn)
	assert.Nil(t, yn)
}
