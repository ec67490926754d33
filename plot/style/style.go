// Package style maps line values to colours and stroke widths.
//
// Both depend on z/h, where h is the highest value of the whole map. The
// colour position is (1-taper) + taper*z/h: with taper 0 every line gets
// the colour at the top of the colormap, with taper 1 the full range is
// used. Widths grow linearly from Base points at z = 0.
package style

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"

	"github.com/cwbudde/algo-joyplot/dsp/core"
	"github.com/cwbudde/algo-joyplot/plot/line"
)

// Errors returned by New and Colormap.
var (
	ErrInvalidParameter = errors.New("style: invalid parameter")
	ErrInvalidTaper     = fmt.Errorf("%w: taper must be in [0, 1]", ErrInvalidParameter)
)

// Defaults.
const (
	DefaultTaper        = 0.8
	DefaultBase         = 0.2
	DefaultScale        = 0.2
	DefaultFallbackPeak = 1.0
)

// Config controls the mapping.
type Config struct {
	Taper float64
	// Base and Scale give the stroke width in points: Base + Scale*z/h.
	Base  float64
	Scale float64
	// FallbackPeak replaces a highest value that is not finite and positive.
	FallbackPeak float64
}

// Option mutates a Config.
type Option = core.Option[Config]

// DefaultConfig returns the default mapping parameters.
func DefaultConfig() Config {
	return Config{
		Taper:        DefaultTaper,
		Base:         DefaultBase,
		Scale:        DefaultScale,
		FallbackPeak: DefaultFallbackPeak,
	}
}

// WithTaper sets the illumination taper.
func WithTaper(taper float64) Option {
	return func(cfg *Config) {
		cfg.Taper = taper
	}
}

// WithWidth sets the width base and scale in points.
func WithWidth(base, scale float64) Option {
	return func(cfg *Config) {
		cfg.Base = base
		cfg.Scale = scale
	}
}

// WithFallbackPeak sets the peak used for degenerate maps.
func WithFallbackPeak(peak float64) Option {
	return func(cfg *Config) {
		cfg.FallbackPeak = peak
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if !(c.Taper >= 0 && c.Taper <= 1) {
		return fmt.Errorf("%w: %v", ErrInvalidTaper, c.Taper)
	}
	if !core.IsFinite(c.Base) || !core.IsFinite(c.Scale) {
		return fmt.Errorf("%w: width base %v scale %v", ErrInvalidParameter, c.Base, c.Scale)
	}
	if !(c.FallbackPeak > 0) || math.IsInf(c.FallbackPeak, 1) {
		return fmt.Errorf("%w: fallback peak %v", ErrInvalidParameter, c.FallbackPeak)
	}
	return nil
}

// Line is a line sample with one colour and one width per point.
type Line struct {
	line.Sample
	Colors []color.Color
	Widths []float64
}

// Mapper applies the mapping for one plot. It is safe for concurrent use as
// long as the colormap's At is.
type Mapper struct {
	cfg        Config
	cmap       palette.ColorMap
	peak       float64
	degenerate bool
}

// New returns a Mapper for a map whose highest value is peak. cmap must span
// [0, 1]; see Colormap.
func New(cmap palette.ColorMap, peak float64, opts ...Option) (*Mapper, error) {
	if cmap == nil {
		return nil, fmt.Errorf("%w: nil colormap", ErrInvalidParameter)
	}
	cfg := core.ApplyOptions(DefaultConfig(), opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Mapper{cfg: cfg, cmap: cmap, peak: peak}
	if !(peak > 0) || math.IsInf(peak, 1) {
		m.peak = cfg.FallbackPeak
		m.degenerate = true
	}
	return m, nil
}

// Peak returns the highest value used for scaling.
func (m *Mapper) Peak() float64 {
	return m.peak
}

// Degenerate reports whether the peak passed to New was replaced.
func (m *Mapper) Degenerate() bool {
	return m.degenerate
}

// Position returns the colormap position of z in [0, 1]. Non-finite values
// map to 0.
func (m *Mapper) Position(z float64) float64 {
	if !core.IsFinite(z) {
		return 0
	}
	return core.Clamp((1-m.cfg.Taper)+m.cfg.Taper*z/m.peak, 0, 1)
}

// Color returns the colour for z.
func (m *Mapper) Color(z float64) (color.Color, error) {
	lo, hi := m.cmap.Min(), m.cmap.Max()
	c, err := m.cmap.At(lo + m.Position(z)*(hi-lo))
	if err != nil {
		return nil, fmt.Errorf("style: colormap at %v: %w", z, err)
	}
	return c, nil
}

// Width returns the stroke width in points for z, never negative.
func (m *Mapper) Width(z float64) float64 {
	if !core.IsFinite(z) {
		return math.Max(0, m.cfg.Base)
	}
	return math.Max(0, m.cfg.Base+m.cfg.Scale*z/m.peak)
}

// Style computes colours and widths for every point of s.
func (m *Mapper) Style(s line.Sample) (Line, error) {
	out := Line{
		Sample: s,
		Colors: make([]color.Color, len(s.Z)),
		Widths: make([]float64, len(s.Z)),
	}
	for i, z := range s.Z {
		c, err := m.Color(z)
		if err != nil {
			return Line{}, err
		}
		out.Colors[i] = c
		out.Widths[i] = m.Width(z)
	}
	return out, nil
}
