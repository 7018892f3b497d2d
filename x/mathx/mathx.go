// Package mathx holds small generic helpers that stay TinyGo-safe.
package mathx

import "golang.org/x/exp/constraints"

// Between reports lo <= v && v <= hi (order-insensitive).
func Between[T constraints.Ordered](v, lo, hi T) bool {
	if hi < lo {
		lo, hi = hi, lo
	}
	return v >= lo && v <= hi
}

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

// CeilDiv returns ceil(a/b); b == 0 yields 0.
func CeilDiv[T constraints.Unsigned](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}

// SatMul multiplies and saturates at the type's maximum.
func SatMul[T constraints.Unsigned](a, b T) T {
	if a == 0 || b == 0 {
		return 0
	}
	p := a * b
	if p/b != a {
		return ^T(0)
	}
	return p
}

// LowMask returns a value with the low width bits set.
func LowMask[T constraints.Unsigned](width uint8) T {
	var all T = ^T(0)
	bits := uint8(0)
	for v := all; v != 0; v >>= 1 {
		bits++
	}
	if width >= bits {
		return all
	}
	return (T(1) << width) - 1
}
