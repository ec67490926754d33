package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen[T Float](buf []T, n int) []T {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]T, n)
}

// ToFloat64 widens src into dst, which is grown as needed, and returns it.
func ToFloat64[T Float](dst []float64, src []T) []float64 {
	dst = EnsureLen(dst, len(src))
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}

// FromFloat64 narrows src into dst. Both slices must have the same length.
func FromFloat64[T Float](dst []T, src []float64) {
	_ = dst[len(src)-1] // bounds check hint
	for i, v := range src {
		dst[i] = T(v)
	}
}
