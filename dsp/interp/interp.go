package interp

import (
	"errors"
	"fmt"

	gonuminterp "gonum.org/v1/gonum/interp"
)

// Errors returned by NewLinearSpline.
var (
	ErrTooFewKnots    = errors.New("interp: at least two knots are required")
	ErrUnorderedKnots = errors.New("interp: knots must be strictly increasing")
)

// Linspace returns n evenly spaced values from start to stop inclusive.
// The last value is exactly stop. n == 1 yields {start}.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}

// LinspaceInt returns n evenly spaced indices from start to stop, truncating
// each position toward zero. Duplicates appear when n exceeds the range.
func LinspaceInt(start, stop, n int) []int {
	pos := Linspace(float64(start), float64(stop), n)
	out := make([]int, len(pos))
	for i, p := range pos {
		out[i] = int(p)
	}
	return out
}

// LinearSpline is a first-degree spline through (x, y) knots.
type LinearSpline struct {
	pl     gonuminterp.PiecewiseLinear
	lo, hi float64
}

// NewLinearSpline fits the spline. xs must be strictly increasing and have
// the same length as ys.
func NewLinearSpline(xs, ys []float64) (*LinearSpline, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("interp: %d knots but %d values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return nil, ErrTooFewKnots
	}
	for i := 1; i < len(xs); i++ {
		if !(xs[i] > xs[i-1]) {
			return nil, fmt.Errorf("%w: x[%d]=%v after x[%d]=%v", ErrUnorderedKnots, i, xs[i], i-1, xs[i-1])
		}
	}
	s := &LinearSpline{lo: xs[0], hi: xs[len(xs)-1]}
	if err := s.pl.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("interp: spline fit: %w", err)
	}
	return s, nil
}

// At evaluates the spline at x. Outside the knot range the end values are
// held.
func (s *LinearSpline) At(x float64) float64 {
	return s.pl.Predict(x)
}

// Range returns the first and last knot positions.
func (s *LinearSpline) Range() (lo, hi float64) {
	return s.lo, s.hi
}

// Resample evaluates the spline at n evenly spaced positions spanning the
// knot range and returns the positions and values.
func (s *LinearSpline) Resample(n int) (xs, ys []float64) {
	lo, hi := s.Range()
	xs = Linspace(lo, hi, n)
	ys = make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = s.At(x)
	}
	return xs, ys
}
