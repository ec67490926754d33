// Package line extracts the polylines of a stacked line plot from a
// processed spectrum map.
package line

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-joyplot/dsp/core"
	"github.com/cwbudde/algo-joyplot/dsp/grid"
	"github.com/cwbudde/algo-joyplot/dsp/interp"
)

// ErrInvalidParameter is returned for an unusable extractor configuration.
var ErrInvalidParameter = errors.New("line: invalid parameter")

// Default point counts.
const (
	DefaultPoints    = 1700
	DefaultIntPoints = 1700
)

// Sample is one extracted line. X, Y and Z have equal length; Y holds the
// line's baseline at every point.
type Sample struct {
	// Row is the map row the values were read from.
	Row int
	X   []float64
	Y   []float64
	Z   []float64
}

// Len returns the number of points.
func (s Sample) Len() int {
	return len(s.X)
}

// Config controls how lines are sampled.
type Config struct {
	// Points is the number of columns read per row.
	Points int
	// Digital refits the samples with a first-degree spline over an evenly
	// spaced knot grid and re-evaluates it at IntPoints positions.
	Digital   bool
	IntPoints int
}

// Option mutates a Config.
type Option = core.Option[Config]

// DefaultConfig reads 1700 points per row without resampling.
func DefaultConfig() Config {
	return Config{Points: DefaultPoints, IntPoints: DefaultIntPoints}
}

// WithPoints sets the number of sampled columns.
func WithPoints(n int) Option {
	return func(cfg *Config) {
		cfg.Points = n
	}
}

// WithDigital enables or disables spline resampling.
func WithDigital(on bool) Option {
	return func(cfg *Config) {
		cfg.Digital = on
	}
}

// WithIntPoints sets the resampled point count used in digital mode.
func WithIntPoints(n int) Option {
	return func(cfg *Config) {
		cfg.IntPoints = n
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Points < 2 {
		return fmt.Errorf("%w: points must be >= 2: %d", ErrInvalidParameter, c.Points)
	}
	if c.Digital && c.IntPoints < 2 {
		return fmt.Errorf("%w: resampled points must be >= 2: %d", ErrInvalidParameter, c.IntPoints)
	}
	return nil
}

// Extractor turns map rows into line samples.
type Extractor struct {
	cfg Config
}

// New creates an Extractor from the default configuration and opts.
func New(opts ...Option) (*Extractor, error) {
	cfg := core.ApplyOptions(DefaultConfig(), opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{cfg: cfg}, nil
}

// Config returns the active configuration.
func (e *Extractor) Config() Config {
	return e.cfg
}

// Columns returns the sampled column indices for a map with cols columns:
// Points evenly spaced indices from 0 to cols-1.
func (e *Extractor) Columns(cols int) []int {
	return interp.LinspaceInt(0, cols-1, e.cfg.Points)
}

// Extract reads one row of m. baseline is stored in every Y entry.
func (e *Extractor) Extract(m *grid.Grid[float64], row int, baseline float64) (Sample, error) {
	if row < 0 || row >= m.Rows {
		return Sample{}, fmt.Errorf("line: row %d out of range [0, %d)", row, m.Rows)
	}

	cols := e.Columns(m.Cols)
	xs := make([]float64, len(cols))
	zs := make([]float64, len(cols))
	values := m.Row(row)
	for i, c := range cols {
		xs[i] = float64(c)
		zs[i] = values[c]
	}

	if e.cfg.Digital {
		var err error
		xs, zs, err = resample(xs, zs, e.cfg.IntPoints)
		if err != nil {
			return Sample{}, fmt.Errorf("line: row %d: %w", row, err)
		}
	}

	ys := make([]float64, len(xs))
	for i := range ys {
		ys[i] = baseline
	}
	return Sample{Row: row, X: xs, Y: ys, Z: zs}, nil
}

// resample fits zs over an evenly spaced knot grid spanning xs, which avoids
// the repeated positions integer sampling produces, and evaluates the fit at
// n positions over the same range.
func resample(xs, zs []float64, n int) ([]float64, []float64, error) {
	knots := interp.Linspace(xs[0], xs[len(xs)-1], len(xs))
	spline, err := interp.NewLinearSpline(knots, zs)
	if err != nil {
		return nil, nil, err
	}
	rx, rz := spline.Resample(n)
	return rx, rz, nil
}
