// Package resource implements a byte budget for caller-owned buffers.
//
// Workspaces and distance matrices are allocated by the caller, not the engine.
// The Controller lets a caller cap how much of that memory is outstanding at once:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	// Non-blocking acquire (returns error immediately if limit exceeded)
//	if err := rc.AcquireMemory(size); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides retry/backoff
//	}
//	defer rc.ReleaseMemory(size)
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
package resource
