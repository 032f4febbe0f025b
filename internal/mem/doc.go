// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides 64-byte aligned allocation for SIMD operations (AVX-512 friendly).
//
// # Budgeted Allocation
//
// Allocator pairs every Allocate/Bytes with a Free/FreeBytes so that the
// bytes outstanding for workspaces and distance matrices can be capped:
//
//	alloc := mem.NewAllocator(resource.NewController(resource.Config{MemoryLimitBytes: 1 << 30}))
//	ws, err := alloc.Bytes(size)
//	if err != nil {
//	    return err
//	}
//	defer alloc.FreeBytes(ws)
package mem
