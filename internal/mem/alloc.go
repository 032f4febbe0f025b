// Package mem provides memory allocation utilities.
package mem

import (
	"unsafe"

	"github.com/neerajvashistha/cuml/internal/resource"
)

// Alignment is the byte alignment required for AVX-512 (64 bytes).
const Alignment = 64

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
// A non-positive size returns an empty, non-nil slice, which a pairwise
// execute call accepts as a zero-byte workspace.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return []byte{}
	}

	// Allocate size + alignment to ensure we can find an aligned offset
	totalSize := size + Alignment
	buf := make([]byte, totalSize)

	ptr := unsafe.Pointer(&buf[0]) //nolint:gosec // unsafe is required for memory alignment
	addr := uintptr(ptr)
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size)]
}

// AllocAlignedSlice allocates a zeroed slice of count elements with 64-byte alignment.
// A non-positive count returns an empty, non-nil slice.
func AllocAlignedSlice[T any](count int) []T {
	if count <= 0 {
		return []T{}
	}
	var zero T
	byteSlice := AllocAligned(count * int(unsafe.Sizeof(zero)))

	// 64-byte alignment satisfies the alignment of every numeric element type.
	ptr := unsafe.Pointer(&byteSlice[0])  //nolint:gosec // unsafe is required for memory alignment
	return unsafe.Slice((*T)(ptr), count) //nolint:gosec // unsafe is required for memory alignment
}

// AlignUp rounds n up to the next multiple of Alignment.
func AlignUp(n int) int {
	return (n + Alignment - 1) &^ (Alignment - 1)
}

// Allocator hands out zero-initialized, aligned buffers and charges them
// against an optional resource.Controller budget.
// A nil *Allocator allocates without a budget.
type Allocator struct {
	ctrl *resource.Controller
}

// NewAllocator creates an Allocator. ctrl may be nil for unlimited allocation.
func NewAllocator(ctrl *resource.Controller) *Allocator {
	return &Allocator{ctrl: ctrl}
}

// Controller returns the budget the allocator charges, or nil.
func (a *Allocator) Controller() *resource.Controller {
	if a == nil {
		return nil
	}
	return a.ctrl
}

// Bytes reserves size zero-initialized bytes, 64-byte aligned.
// A non-positive size returns an empty, non-nil slice: a nil workspace marks
// a size query, so a zero-byte workspace must still be distinguishable from it.
func (a *Allocator) Bytes(size int) ([]byte, error) {
	if size <= 0 {
		return []byte{}, nil
	}
	if err := a.Controller().AcquireMemory(int64(size)); err != nil {
		return nil, err
	}
	return AllocAligned(size), nil
}

// FreeBytes returns a buffer obtained from Bytes to the budget.
func (a *Allocator) FreeBytes(buf []byte) {
	a.Controller().ReleaseMemory(int64(len(buf)))
}

// Allocate reserves zero-initialized storage for count elements of T.
func Allocate[T any](a *Allocator, count int) ([]T, error) {
	if count <= 0 {
		return nil, nil
	}
	var zero T
	if err := a.Controller().AcquireMemory(int64(count) * int64(unsafe.Sizeof(zero))); err != nil {
		return nil, err
	}
	return AllocAlignedSlice[T](count), nil
}

// Free returns storage obtained from Allocate to the budget.
// The slice must not be used afterwards.
func Free[T any](a *Allocator, buf []T) {
	var zero T
	a.Controller().ReleaseMemory(int64(len(buf)) * int64(unsafe.Sizeof(zero)))
}
