// Package cpu detects the vector instruction sets of the host CPU.
//
// The tiled engine uses the detected ISA to pick how many elements of the
// shared dimension a tile consumes per pass. Set PDIST_ISA to one of
// generic, neon, sve2, avx2, avx512 to force a choice (ignored when the CPU
// lacks that ISA).
package cpu

import (
	"os"
	"runtime"
	"strings"
)

// OverrideEnv names the environment variable that forces an ISA.
const OverrideEnv = "PDIST_ISA"

// ISA represents a SIMD instruction set architecture.
type ISA uint8

const (
	// Generic represents pure Go implementation (no SIMD).
	Generic ISA = iota
	// NEON represents ARM64 NEON (128-bit SIMD, ASIMD).
	NEON
	// SVE2 represents ARM64 SVE2 (scalable vectors, 128-2048 bit).
	SVE2
	// AVX2 represents x86-64 AVX2 (256-bit SIMD with FMA).
	AVX2
	// AVX512 represents x86-64 AVX-512 (512-bit SIMD).
	AVX512
)

// String returns the string representation of an ISA.
func (i ISA) String() string {
	switch i {
	case Generic:
		return "generic"
	case NEON:
		return "neon"
	case SVE2:
		return "sve2"
	case AVX2:
		return "avx2"
	case AVX512:
		return "avx512"
	default:
		return "unknown"
	}
}

// ParseISA parses a string into an ISA value.
func ParseISA(s string) (ISA, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "generic":
		return Generic, true
	case "neon":
		return NEON, true
	case "sve2":
		return SVE2, true
	case "avx2":
		return AVX2, true
	case "avx512":
		return AVX512, true
	default:
		return Generic, false
	}
}

// Package-level state - initialized once at package init.
var (
	activeISA   ISA
	hasOverride bool

	// CPU feature flags (set by platform-specific init)
	hasASIMD    bool // ARM64 NEON
	hasSVE2     bool // ARM64 SVE2
	hasAVX2     bool // x86-64 AVX2 + FMA
	hasAVX512F  bool // x86-64 AVX-512 Foundation
	hasAVX512BW bool // x86-64 AVX-512 Byte/Word
)

// initCapabilities is called from platform-specific init functions
// after CPU features are detected.
func initCapabilities() {
	if override := os.Getenv(OverrideEnv); override != "" {
		if isa, ok := ParseISA(override); ok && Available(isa) {
			hasOverride = true
			activeISA = isa
			return
		}
	}

	activeISA = selectBestISA()
}

// Available reports whether isa is supported on this CPU.
func Available(isa ISA) bool {
	switch isa {
	case Generic:
		return true
	case NEON:
		return hasASIMD
	case SVE2:
		return hasSVE2
	case AVX2:
		return hasAVX2
	case AVX512:
		return hasAVX512F && hasAVX512BW
	default:
		return false
	}
}

func selectBestISA() ISA {
	switch runtime.GOARCH {
	case "arm64":
		// Apple's SVE2 path is slower than NEON; Linux ARM servers run SVE2 natively.
		if hasSVE2 && runtime.GOOS != "darwin" {
			return SVE2
		}
		if hasASIMD {
			return NEON
		}
	case "amd64":
		if hasAVX512F && hasAVX512BW {
			return AVX512
		}
		if hasAVX2 {
			return AVX2
		}
	}
	return Generic
}

// Active returns the currently selected ISA.
func Active() ISA {
	return activeISA
}

// IsOverridden returns true if PDIST_ISA selected the active ISA.
func IsOverridden() bool {
	return hasOverride
}

// VectorBytes returns the register width of isa in bytes.
// SVE2 reports its guaranteed minimum of 128 bits scaled to the common 256-bit implementations.
func VectorBytes(isa ISA) int {
	switch isa {
	case NEON:
		return 16
	case AVX2, SVE2:
		return 32
	case AVX512:
		return 64
	default:
		return 8
	}
}
