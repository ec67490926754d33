package stack

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-joyplot/dsp/core"
	"github.com/cwbudde/algo-joyplot/dsp/grid"
	"github.com/cwbudde/algo-joyplot/dsp/interp"
	"github.com/cwbudde/algo-joyplot/plot/line"
	"github.com/cwbudde/algo-joyplot/plot/style"
)

// ErrInvalidParameter is returned for an unusable renderer configuration.
var ErrInvalidParameter = errors.New("stack: invalid parameter")

// Defaults.
const (
	DefaultLines     = 256
	DefaultZFraction = 10
)

// Surface receives styled lines in drawing order. Segment i of a line runs
// from point i to point i+1 and uses the colour and width of point i; the
// displayed height of a point is Y + Z*zFraction.
type Surface interface {
	DrawLine(l style.Line, zFraction float64) error
}

// Config controls which rows are drawn and how.
type Config struct {
	// Lines is the number of rows selected evenly from the map.
	Lines int
	// ZFraction scales values into vertical offsets.
	ZFraction float64
	Flip      bool
	// Workers bounds parallel extraction and styling. Values below 2 keep
	// everything on the calling goroutine.
	Workers int
}

// Option mutates a Config.
type Option = core.Option[Config]

// DefaultConfig draws 256 lines with zFraction 10, flipped.
func DefaultConfig() Config {
	return Config{Lines: DefaultLines, ZFraction: DefaultZFraction, Flip: true}
}

// WithLines sets the number of drawn rows.
func WithLines(n int) Option {
	return func(cfg *Config) {
		cfg.Lines = n
	}
}

// WithZFraction sets the vertical scale of values.
func WithZFraction(zf float64) Option {
	return func(cfg *Config) {
		cfg.ZFraction = zf
	}
}

// WithFlip mirrors the baselines.
func WithFlip(flip bool) Option {
	return func(cfg *Config) {
		cfg.Flip = flip
	}
}

// WithWorkers sets the worker limit.
func WithWorkers(n int) Option {
	return func(cfg *Config) {
		cfg.Workers = n
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Lines < 1 {
		return fmt.Errorf("%w: lines must be >= 1: %d", ErrInvalidParameter, c.Lines)
	}
	if !core.IsFinite(c.ZFraction) {
		return fmt.Errorf("%w: zfraction %v", ErrInvalidParameter, c.ZFraction)
	}
	return nil
}

// Entry is one line to draw: the map row and the baseline it sits on.
type Entry struct {
	Row      int
	Baseline float64
}

// Bounds is the data-space extent of a rendered stack.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Renderer draws one map. Build it with the Mapper for that map's peak.
type Renderer struct {
	cfg    Config
	ext    *line.Extractor
	mapper *style.Mapper
}

// New returns a Renderer.
func New(ext *line.Extractor, mapper *style.Mapper, opts ...Option) (*Renderer, error) {
	if ext == nil || mapper == nil {
		return nil, fmt.Errorf("%w: extractor and mapper are required", ErrInvalidParameter)
	}
	cfg := core.ApplyOptions(DefaultConfig(), opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{cfg: cfg, ext: ext, mapper: mapper}, nil
}

// Config returns the active configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Rows returns the lines for a map with the given number of rows, in
// drawing order.
func (r *Renderer) Rows(rows int) []Entry {
	if rows <= 0 {
		return nil
	}
	sel := interp.LinspaceInt(0, rows-1, r.cfg.Lines)
	out := make([]Entry, len(sel))
	for i, row := range sel {
		base := float64(row)
		if r.cfg.Flip {
			base = float64(rows - 1 - row)
		}
		out[i] = Entry{Row: row, Baseline: base}
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		switch {
		case a.Baseline > b.Baseline:
			return -1
		case a.Baseline < b.Baseline:
			return 1
		}
		return 0
	})
	return out
}

// Bounds returns the extent the surface must cover for m.
func (r *Renderer) Bounds(m *grid.Grid[float64]) Bounds {
	zf := r.cfg.ZFraction
	lo, hi := m.Min()*zf, m.Max()*zf
	if zf < 0 {
		lo, hi = hi, lo
	}
	if math.IsNaN(lo) {
		lo = 0
	}
	if math.IsNaN(hi) {
		hi = 0
	}
	return Bounds{
		MinX: 0,
		MaxX: float64(m.Cols - 1),
		MinY: math.Min(0, lo),
		MaxY: float64(m.Rows-1) + math.Max(0, hi),
	}
}

// Render draws every selected row of m onto s. It stops at the first
// failing row; with workers no line is submitted unless all rows succeed.
func (r *Renderer) Render(ctx context.Context, m *grid.Grid[float64], s Surface) error {
	entries := r.Rows(m.Rows)
	if r.cfg.Workers > 1 {
		return r.renderParallel(ctx, m, s, entries)
	}

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		l, err := r.styleRow(m, e)
		if err != nil {
			return err
		}
		if err := s.DrawLine(l, r.cfg.ZFraction); err != nil {
			return fmt.Errorf("stack: draw row %d: %w", e.Row, err)
		}
	}
	return nil
}

func (r *Renderer) renderParallel(ctx context.Context, m *grid.Grid[float64], s Surface, entries []Entry) error {
	lines := make([]style.Line, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			l, err := r.styleRow(m, e)
			if err != nil {
				return err
			}
			lines[i] = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, l := range lines {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.DrawLine(l, r.cfg.ZFraction); err != nil {
			return fmt.Errorf("stack: draw row %d: %w", entries[i].Row, err)
		}
	}
	return nil
}

func (r *Renderer) styleRow(m *grid.Grid[float64], e Entry) (style.Line, error) {
	sample, err := r.ext.Extract(m, e.Row, e.Baseline)
	if err != nil {
		return style.Line{}, fmt.Errorf("stack: row %d: %w", e.Row, err)
	}
	l, err := r.mapper.Style(sample)
	if err != nil {
		return style.Line{}, fmt.Errorf("stack: row %d: %w", e.Row, err)
	}
	return l, nil
}
