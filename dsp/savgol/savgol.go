package savgol

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-joyplot/dsp/conv"
	"github.com/cwbudde/algo-joyplot/dsp/core"
	"github.com/cwbudde/algo-joyplot/dsp/grid"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrInvalidWindow is returned when the window length is even, shorter than
// 3 or longer than the smoothed axis.
var ErrInvalidWindow = errors.New("savgol: invalid window length")

const (
	// PolyOrder is the order of the fitted polynomial.
	PolyOrder = 2
	// DefaultWindow is the default window length in samples.
	DefaultWindow = 7
)

// ValidateWindow checks window against an axis of length axisLen.
// axisLen <= 0 skips the upper bound check.
func ValidateWindow(window, axisLen int) error {
	if window < 3 {
		return fmt.Errorf("%w: %d < 3", ErrInvalidWindow, window)
	}
	if window%2 == 0 {
		return fmt.Errorf("%w: %d is even", ErrInvalidWindow, window)
	}
	if axisLen > 0 && window > axisLen {
		return fmt.Errorf("%w: %d exceeds axis length %d", ErrInvalidWindow, window, axisLen)
	}
	return nil
}

// Fit holds the least-squares projection of one window.
//
// Row i of Projection maps the window samples to the value of the fitted
// polynomial at position i of the window.
type Fit struct {
	Window     int
	Order      int
	Projection *mat.Dense
}

// Kernel returns the centre row of the projection, which is the smoothing
// kernel applied in the interior of a signal.
func (f *Fit) Kernel() []float64 {
	return mat.Row(nil, f.Window/2, f.Projection)
}

// Coefficients computes the projection for an odd window and polynomial
// order < window.
func Coefficients(window, order int) (*Fit, error) {
	if window < 1 || window%2 == 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, window)
	}
	if order < 0 || order >= window {
		return nil, fmt.Errorf("savgol: polynomial order %d must be in [0, %d)", order, window)
	}

	half := window / 2
	vander := mat.NewDense(window, order+1, nil)
	for i := range window {
		t := float64(i - half)
		p := 1.0
		for k := 0; k <= order; k++ {
			vander.Set(i, k, p)
			p *= t
		}
	}

	var qr mat.QR
	qr.Factorize(vander)

	ones := make([]float64, window)
	for i := range ones {
		ones[i] = 1
	}
	eye := mat.NewDiagDense(window, ones)
	var pinv mat.Dense
	if err := qr.SolveTo(&pinv, false, eye); err != nil {
		return nil, fmt.Errorf("savgol: least-squares solve failed: %w", err)
	}

	var proj mat.Dense
	proj.Mul(vander, &pinv)

	return &Fit{Window: window, Order: order, Projection: &proj}, nil
}

// Smoother applies a quadratic Savitzky–Golay filter along grid rows.
type Smoother struct {
	fit    *Fit
	kernel []float64
}

// New creates a smoother for the given odd window length (>= 3).
func New(window int) (*Smoother, error) {
	if err := ValidateWindow(window, 0); err != nil {
		return nil, err
	}
	fit, err := Coefficients(window, PolyOrder)
	if err != nil {
		return nil, err
	}
	return &Smoother{fit: fit, kernel: fit.Kernel()}, nil
}

// Window returns the window length.
func (s *Smoother) Window() int {
	return s.fit.Window
}

// Kernel returns a copy of the interior smoothing kernel.
func (s *Smoother) Kernel() []float64 {
	return append([]float64(nil), s.kernel...)
}

// SmoothRow smooths x and returns a new slice of the same length.
func (s *Smoother) SmoothRow(x []float64) ([]float64, error) {
	w := s.fit.Window
	if err := ValidateWindow(w, len(x)); err != nil {
		return nil, err
	}

	out := make([]float64, len(x))

	// The kernel is symmetric, so convolution equals correlation here.
	interior, err := conv.ConvolveMode(x, s.kernel, conv.ModeValid)
	if err != nil {
		return nil, fmt.Errorf("savgol: %w", err)
	}
	half := w / 2
	copy(out[half:], interior)

	head := x[:w]
	tail := x[len(x)-w:]
	for i := range half {
		out[i] = floats.Dot(s.fit.Projection.RawRowView(i), head)
		out[len(x)-half+i] = floats.Dot(s.fit.Projection.RawRowView(half+1+i), tail)
	}
	return out, nil
}

// Apply smooths every row of g along its columns and returns a new grid of
// the same shape and element type.
func Apply[T core.Float](s *Smoother, g *grid.Grid[T]) (*grid.Grid[T], error) {
	if err := ValidateWindow(s.fit.Window, g.Cols); err != nil {
		return nil, err
	}

	out := &grid.Grid[T]{Rows: g.Rows, Cols: g.Cols, Data: make([]T, len(g.Data))}
	var row []float64
	for i := range g.Rows {
		row = core.ToFloat64(row, g.Row(i))
		smoothed, err := s.SmoothRow(row)
		if err != nil {
			return nil, fmt.Errorf("savgol: row %d: %w", i, err)
		}
		core.FromFloat64(out.Row(i), smoothed)
	}
	return out, nil
}
