package pairwise

import (
	"fmt"
	"unsafe"

	"github.com/neerajvashistha/cuml/distance"
	"github.com/neerajvashistha/cuml/internal/mem"
)

// workspaceLayout places the squared row norms of X and Y inside the caller's buffer.
// Each norm array is padded to a whole number of tiles and starts on a 64-byte boundary.
type workspaceLayout struct {
	xOff, xLen int
	yOff, yLen int
	size       int
}

func layoutFor[AccT distance.Float](tr distance.Traits, m, n int, shape TileShape) workspaceLayout {
	if tr.Family != distance.Expanded {
		return workspaceLayout{}
	}
	var zero AccT
	elem := int(unsafe.Sizeof(zero))

	xLen := ceilDiv(m, shape.Rows) * shape.Rows
	yLen := ceilDiv(n, shape.Cols) * shape.Cols
	yOff := mem.AlignUp(xLen * elem)
	return workspaceLayout{
		xOff: 0,
		xLen: xLen,
		yOff: yOff,
		yLen: yLen,
		size: yOff + mem.AlignUp(yLen*elem),
	}
}

// WorkspaceSize returns the bytes of scratch space a computation with these
// parameters needs. Unexpanded types need none and report 0.
//
// The result is a pure function of its arguments; a nil-workspace call to
// Compute or Launch reports the same value.
// It panics if dt is not in the catalog.
func WorkspaceSize[AccT distance.Float](dt distance.DistanceType, m, n, k int, shape TileShape) (int, error) {
	tr := distance.MustLookup(dt)
	if m <= 0 || n <= 0 || k <= 0 {
		return 0, fmt.Errorf("%w: m=%d n=%d k=%d", ErrInvalidShape, m, n, k)
	}
	if err := shape.Validate(); err != nil {
		return 0, err
	}
	return layoutFor[AccT](tr, m, n, shape).size, nil
}

// bind checks ws against the layout and returns typed views of the norm arrays.
// It never writes to ws.
func bind[AccT distance.Float](l workspaceLayout, ws []byte) (xn, yn []AccT, err error) {
	if l.size == 0 {
		return nil, nil, nil
	}
	if len(ws) < l.size {
		return nil, nil, fmt.Errorf("%w: need %d bytes, got %d", ErrInsufficientWorkspace, l.size, len(ws))
	}
	var zero AccT
	base := unsafe.Pointer(&ws[0]) //nolint:gosec // workspace is reinterpreted as AccT norms
	if uintptr(base)%unsafe.Alignof(zero) != 0 {
		return nil, nil, fmt.Errorf("%w: address %#x", ErrMisalignedWorkspace, uintptr(base))
	}
	xn = unsafe.Slice((*AccT)(unsafe.Pointer(&ws[l.xOff])), l.xLen) //nolint:gosec // bounds checked above
	yn = unsafe.Slice((*AccT)(unsafe.Pointer(&ws[l.yOff])), l.yLen) //nolint:gosec // bounds checked above
	return xn, yn, nil
}
