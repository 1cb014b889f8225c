package mathx

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi]. If lo > hi, the bounds are swapped.
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if hi < lo {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Min/Max for convenience.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// AddClamped adds a signed delta to an unsigned level and clamps the result
// to [0, top]. Used for brightness arithmetic where cumulative deltas must
// never wrap.
func AddClamped(level uint16, delta int32, top uint16) uint16 {
	return uint16(Clamp(int32(level)+delta, 0, int32(top)))
}
