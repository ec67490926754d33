package clip

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-joyplot/dsp/core"
	"github.com/cwbudde/algo-joyplot/dsp/grid"
	"github.com/cwbudde/algo-joyplot/stats/robust"
)

// ErrInvalidParameter is returned for an unusable clipper configuration.
var ErrInvalidParameter = errors.New("clip: invalid parameter")

// DefaultSigma is the band half-width in robust standard deviations.
const DefaultSigma = 3.0

// Policy selects what happens to out-of-band values.
type Policy int

const (
	// PolicyClip saturates values onto the nearest band edge.
	PolicyClip Policy = iota
	// PolicyZero replaces values outside the band with 0.
	PolicyZero
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	switch p {
	case PolicyClip:
		return "clip"
	case PolicyZero:
		return "zero"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Config holds the clipper settings.
type Config struct {
	Sigma  float64
	Policy Policy
	Scale  robust.Scale
}

// Option mutates a Config.
type Option = core.Option[Config]

// DefaultConfig returns sigma 3, saturating clip and the normal-consistency
// scale estimator.
func DefaultConfig() Config {
	return Config{
		Sigma:  DefaultSigma,
		Policy: PolicyClip,
		Scale:  robust.DefaultScale(),
	}
}

// WithSigma sets the band half-width.
func WithSigma(sigma float64) Option {
	return func(cfg *Config) {
		cfg.Sigma = sigma
	}
}

// WithPolicy selects clip or zero replacement.
func WithPolicy(p Policy) Option {
	return func(cfg *Config) {
		cfg.Policy = p
	}
}

// WithScale selects the MAD-to-sigma conversion.
func WithScale(s robust.Scale) Option {
	return func(cfg *Config) {
		cfg.Scale = s
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if math.IsNaN(c.Sigma) || c.Sigma < 0 || math.IsInf(c.Sigma, 1) {
		return fmt.Errorf("%w: sigma must be finite and >= 0: %v", ErrInvalidParameter, c.Sigma)
	}
	if c.Policy != PolicyClip && c.Policy != PolicyZero {
		return fmt.Errorf("%w: unknown policy %v", ErrInvalidParameter, c.Policy)
	}
	if err := c.Scale.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}
	return nil
}

// Clipper applies robust per-column clipping.
type Clipper struct {
	cfg Config
}

// New creates a Clipper from the default configuration and opts.
func New(opts ...Option) (*Clipper, error) {
	cfg := core.ApplyOptions(DefaultConfig(), opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Clipper{cfg: cfg}, nil
}

// Config returns the active configuration.
func (c *Clipper) Config() Config {
	return c.cfg
}

// Band is the accepted value range of one column.
type Band struct {
	Median float64
	// Half is sigma times the robust scale.
	Half float64
}

// Lower returns the lower band edge.
func (b Band) Lower() float64 { return b.Median - b.Half }

// Upper returns the upper band edge.
func (b Band) Upper() float64 { return b.Median + b.Half }

// Bands computes the band of every column of g.
func Bands[T core.Float](c *Clipper, g *grid.Grid[T]) []Band {
	bands := make([]Band, g.Cols)
	var col []float64
	for j := range g.Cols {
		col = g.Column(col, j)
		loc := c.cfg.Scale.Estimate(col)
		bands[j] = Band{Median: loc.Median, Half: c.cfg.Sigma * loc.Scale}
	}
	return bands
}

// Apply returns a clipped copy of g with the same element type.
// The input grid is not modified.
func Apply[T core.Float](c *Clipper, g *grid.Grid[T]) *grid.Grid[T] {
	out := g.Clone()
	bands := Bands(c, g)
	var col []float64
	for j, b := range bands {
		col = g.Column(col, j)
		switch c.cfg.Policy {
		case PolicyClip:
			lo, hi := b.Lower(), b.Upper()
			for i, v := range col {
				col[i] = core.Clamp(v, lo, hi)
			}
		case PolicyZero:
			for i, v := range col {
				if math.Abs(v-b.Median) > b.Half {
					col[i] = 0
				}
			}
		}
		out.SetColumn(j, col)
	}
	return out
}
