// Package buf holds the overflow-safe size arithmetic shared by the
// allocators and containers.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies a and b, returning ok = false when the result would overflow int.
// Used for count * elementSize byte sizes of typed allocations.
func MulOverflowSafe(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	switch {
	case a > 0 && b > 0 && a > math.MaxInt/b:
		return 0, false
	case a < 0 && b < 0 && a < math.MaxInt/b:
		return 0, false
	case a > 0 && b < 0 && b < math.MinInt/a:
		return 0, false
	case a < 0 && b > 0 && a < math.MinInt/b:
		return 0, false
	}
	return a * b, true
}

// ByteSize returns count*elementSize, or an error when either is negative
// or the product overflows.
//
//	n, err := buf.ByteSize(count, int(unsafe.Sizeof(v)))
//	if err != nil {
//	    return fmt.Errorf("mem: %w", err)
//	}
func ByteSize(count, elementSize int) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("negative count: %d", count)
	}
	if elementSize < 0 {
		return 0, fmt.Errorf("negative element size: %d", elementSize)
	}
	total, ok := MulOverflowSafe(count, elementSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d", count, elementSize)
	}
	return total, nil
}

// RoundUp rounds n up to a multiple of align. align must be a power of two.
// ok is false when the result would overflow int.
func RoundUp(n, align int) (int, bool) {
	sum, ok := AddOverflowSafe(n, align-1)
	if !ok {
		return 0, false
	}
	return sum &^ (align - 1), true
}

// InRange reports whether [start, end) is a valid window over a sequence of
// length n.
func InRange(n, start, end int) bool {
	return start >= 0 && start <= end && end <= n
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}
