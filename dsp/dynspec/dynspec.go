package dynspec

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-joyplot/dsp/core"
	"github.com/cwbudde/algo-joyplot/dsp/grid"
	"github.com/cwbudde/algo-joyplot/stats/moments"
	"github.com/cwbudde/algo-joyplot/stats/robust"
)

// ErrEmpty is returned for a grid without samples.
var ErrEmpty = errors.New("dynspec: empty array")

// Report describes what Prepare did to the data.
type Report struct {
	// NonFinite is the number of NaN/Inf samples replaced with zero.
	NonFinite int
	// Median and Std are the global statistics removed after detrending.
	Median float64
	Std    float64
	// Flat is set when Std was zero and no scaling was applied.
	Flat bool
}

// Orient converts a stored (time, frequency) array with descending channels
// into a (frequency, time) grid with ascending channels.
func Orient(stored *grid.Grid[float64]) *grid.Grid[float64] {
	return stored.FlipCols().Transpose()
}

// Prepare orients and normalizes a stored array. The input is not modified.
func Prepare(stored *grid.Grid[float64]) (*grid.Grid[float64], Report, error) {
	if stored == nil || stored.Rows == 0 || stored.Cols == 0 {
		return nil, Report{}, ErrEmpty
	}

	g := Orient(stored)

	var rep Report
	rep.NonFinite = core.ZeroNonFinite(g.Data)

	g, err := Detrend(g)
	if err != nil {
		return nil, rep, err
	}

	rep.Median, rep.Std = Normalize(g)
	rep.Flat = rep.Std == 0
	return g, rep, nil
}

// Detrend subtracts the least-squares line along every row and returns the
// residuals as a new grid. Rows shorter than three samples are fitted
// exactly and become zero.
func Detrend(g *grid.Grid[float64]) (*grid.Grid[float64], error) {
	out, err := grid.New[float64](g.Rows, g.Cols)
	if err != nil {
		return nil, err
	}
	if g.Cols < 3 {
		return out, nil
	}

	n := g.Cols
	design := mat.NewDense(n, 2, nil)
	for i := 0; i < n; i++ {
		design.Set(i, 0, 1)
		design.Set(i, 1, float64(i)/float64(n-1))
	}

	// One right-hand side per row: solve every channel with a single QR.
	samples := mat.NewDense(n, g.Rows, g.Transpose().Data)

	var qr mat.QR
	qr.Factorize(design)

	var coef mat.Dense
	if err := qr.SolveTo(&coef, false, samples); err != nil {
		return nil, fmt.Errorf("dynspec: detrend fit: %w", err)
	}

	var resid mat.Dense
	resid.Mul(design, &coef)
	resid.Sub(samples, &resid)

	for r := 0; r < g.Rows; r++ {
		row := out.Row(r)
		for c := range row {
			row[c] = resid.At(c, r)
		}
	}
	return out, nil
}

// Normalize subtracts the global median from g in place and divides by the
// population standard deviation unless that is zero. It returns both.
func Normalize(g *grid.Grid[float64]) (median, std float64) {
	median = robust.Median(g.Data)
	for i := range g.Data {
		g.Data[i] -= median
	}

	std = moments.Std(g.Data)
	if std == 0 {
		return median, 0
	}
	inv := 1 / std
	for i := range g.Data {
		g.Data[i] *= inv
	}
	return median, std
}
