package core

import "math"

const defaultEpsilon = 1e-12

// Float is the set of element types a spectrum grid can hold.
type Float interface {
	~float32 | ~float64
}

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// ZeroNonFinite replaces NaN and ±Inf entries of buf with 0 in place and
// returns how many entries were replaced.
func ZeroNonFinite[T Float](buf []T) int {
	n := 0
	for i, v := range buf {
		if !IsFinite(float64(v)) {
			buf[i] = 0
			n++
		}
	}

	return n
}
