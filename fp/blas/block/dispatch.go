package block

import (
	"os"
	"strconv"

	"golang.org/x/sys/cpu"
)

// DispatchLevel names which block-kernel implementation is active,
// mirroring the teacher's hwy.DispatchLevel enum (hwy/dispatch.go).
type DispatchLevel int

const (
	// DispatchScalar is the plain one-row-at-a-time kernel.
	DispatchScalar DispatchLevel = iota
	// DispatchWide is the row-unrolled kernel, selected on CPUs with
	// wide integer SIMD available; it produces byte-for-byte identical
	// output to DispatchScalar (spec.md §9).
	DispatchWide
)

func (d DispatchLevel) String() string {
	if d == DispatchWide {
		return "wide"
	}
	return "scalar"
}

var currentLevel DispatchLevel
var dispatched func(alpha bool, a, b Block, beta bool, c Block) Block

func init() {
	if noWideEnv() || !cpuHasWideIntSIMD() {
		currentLevel = DispatchScalar
		dispatched = Scalar
		return
	}
	currentLevel = DispatchWide
	dispatched = Wide
}

// noWideEnv checks FP_NO_WIDE_BLAS, mirroring go-highway's HWY_NO_SIMD
// override (hwy/dispatch.go NoSimdEnv) for forcing the scalar kernel in
// tests/debugging.
func noWideEnv() bool {
	val := os.Getenv("FP_NO_WIDE_BLAS")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

func cpuHasWideIntSIMD() bool {
	return cpu.X86.HasAVX2 || cpu.X86.HasAVX512F || cpu.ARM64.HasASIMD
}

// CurrentLevel returns the active dispatch level.
func CurrentLevel() DispatchLevel { return currentLevel }

// Gemm runs the currently-dispatched 64x64 F_2 block kernel.
func Gemm(alpha bool, a, b Block, beta bool, c Block) Block {
	return dispatched(alpha, a, b, beta, c)
}
