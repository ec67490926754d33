// Package raster draws stacked lines into an in-memory image and encodes
// it as PNG.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/cwbudde/algo-joyplot/dsp/core"
	"github.com/cwbudde/algo-joyplot/plot/stack"
	"github.com/cwbudde/algo-joyplot/plot/style"
)

// ErrInvalidParameter is returned for unusable canvas settings.
var ErrInvalidParameter = errors.New("raster: invalid parameter")

// Defaults.
const (
	DefaultDPI    = 400
	DefaultSize   = 5 * vg.Inch
	DefaultMargin = 0.02
)

// Backgrounds by name.
var backgrounds = map[string]color.Color{
	"black": color.Black,
	"white": color.White,
}

// Background returns the named background colour.
func Background(name string) (color.Color, error) {
	c, ok := backgrounds[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown background %q", ErrInvalidParameter, name)
	}
	return c, nil
}

// Config controls the output image.
type Config struct {
	DPI int
	// Size is the edge length of the square image.
	Size       vg.Length
	Background color.Color
	// Margin is the blank border as a fraction of Size.
	Margin float64
}

// Option mutates a Config.
type Option = core.Option[Config]

// DefaultConfig returns a 5 inch square at 400 DPI on black.
func DefaultConfig() Config {
	return Config{
		DPI:        DefaultDPI,
		Size:       DefaultSize,
		Background: color.Black,
		Margin:     DefaultMargin,
	}
}

// WithDPI sets the resolution.
func WithDPI(dpi int) Option {
	return func(cfg *Config) {
		cfg.DPI = dpi
	}
}

// WithSize sets the image edge length.
func WithSize(size vg.Length) Option {
	return func(cfg *Config) {
		cfg.Size = size
	}
}

// WithBackground sets the background colour, which is also used to hide
// the lines behind each drawn line.
func WithBackground(c color.Color) Option {
	return func(cfg *Config) {
		cfg.Background = c
	}
}

// WithMargin sets the border fraction.
func WithMargin(m float64) Option {
	return func(cfg *Config) {
		cfg.Margin = m
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case c.DPI <= 0:
		return fmt.Errorf("%w: dpi must be > 0: %d", ErrInvalidParameter, c.DPI)
	case !(c.Size > 0) || math.IsInf(float64(c.Size), 1):
		return fmt.Errorf("%w: size must be > 0: %v", ErrInvalidParameter, c.Size)
	case c.Background == nil:
		return fmt.Errorf("%w: nil background", ErrInvalidParameter)
	case !(c.Margin >= 0 && c.Margin < 0.5):
		return fmt.Errorf("%w: margin must be in [0, 0.5): %v", ErrInvalidParameter, c.Margin)
	}
	return nil
}

// Canvas is a stack.Surface backed by a vgimg canvas. Data coordinates are
// mapped with equal scale on both axes and centred.
type Canvas struct {
	cfg    Config
	img    *vgimg.Canvas
	bounds stack.Bounds
	scale  float64
	offX   vg.Length
	offY   vg.Length
}

var _ stack.Surface = (*Canvas)(nil)

// New returns a blank canvas covering b.
func New(b stack.Bounds, opts ...Option) (*Canvas, error) {
	cfg := core.ApplyOptions(DefaultConfig(), opts...)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for _, v := range []float64{b.MinX, b.MaxX, b.MinY, b.MaxY} {
		if !core.IsFinite(v) {
			return nil, fmt.Errorf("%w: bounds %+v", ErrInvalidParameter, b)
		}
	}

	img := vgimg.NewWith(
		vgimg.UseWH(cfg.Size, cfg.Size),
		vgimg.UseDPI(cfg.DPI),
		vgimg.UseBackgroundColor(cfg.Background),
	)

	inner := float64(cfg.Size) * (1 - 2*cfg.Margin)
	w := math.Max(b.MaxX-b.MinX, 1)
	h := math.Max(b.MaxY-b.MinY, 1)
	scale := inner / math.Max(w, h)

	return &Canvas{
		cfg:    cfg,
		img:    img,
		bounds: b,
		scale:  scale,
		offX:   vg.Length((float64(cfg.Size) - w*scale) / 2),
		offY:   vg.Length((float64(cfg.Size) - h*scale) / 2),
	}, nil
}

// Config returns the active configuration.
func (c *Canvas) Config() Config {
	return c.cfg
}

// Point maps data coordinates to canvas coordinates.
func (c *Canvas) Point(x, y float64) vg.Point {
	return vg.Point{
		X: c.offX + vg.Length((x-c.bounds.MinX)*c.scale),
		Y: c.offY + vg.Length((y-c.bounds.MinY)*c.scale),
	}
}

// DrawLine hides everything below the line with the background colour and
// then strokes it. Runs of segments sharing colour and width are stroked as
// one path.
func (c *Canvas) DrawLine(l style.Line, zFraction float64) error {
	n := l.Len()
	if len(l.Y) != n || len(l.Z) != n || len(l.Colors) != n || len(l.Widths) != n {
		return fmt.Errorf("raster: row %d: mismatched line lengths", l.Row)
	}
	if n < 2 {
		return nil
	}

	ys := make([]float64, n)
	floor := math.Inf(1)
	for i := range ys {
		ys[i] = l.Y[i] + l.Z[i]*zFraction
		if !core.IsFinite(ys[i]) {
			ys[i] = l.Y[i]
		}
		floor = math.Min(floor, math.Min(l.Y[i], ys[i]))
	}

	var fill vg.Path
	fill.Move(c.Point(l.X[0], floor))
	for i := range ys {
		fill.Line(c.Point(l.X[i], ys[i]))
	}
	fill.Line(c.Point(l.X[n-1], floor))
	fill.Close()
	c.img.SetColor(c.cfg.Background)
	c.img.Fill(fill)

	for start := 0; start < n-1; {
		end := start + 1
		for end < n-1 && sameStroke(l, start, end) {
			end++
		}
		if w := l.Widths[start]; w > 0 {
			var p vg.Path
			p.Move(c.Point(l.X[start], ys[start]))
			for i := start + 1; i <= end; i++ {
				p.Line(c.Point(l.X[i], ys[i]))
			}
			c.img.SetColor(l.Colors[start])
			c.img.SetLineWidth(vg.Points(w))
			c.img.Stroke(p)
		}
		start = end
	}
	return nil
}

func sameStroke(l style.Line, i, j int) bool {
	return l.Widths[i] == l.Widths[j] && l.Colors[i] == l.Colors[j]
}

// WritePNG encodes the canvas.
func (c *Canvas) WritePNG(w io.Writer) error {
	if _, err := (vgimg.PngCanvas{Canvas: c.img}).WriteTo(w); err != nil {
		return fmt.Errorf("raster: encode png: %w", err)
	}
	return nil
}

// Save encodes the canvas and writes it to path. Nothing is left at path if
// encoding or writing fails.
func (c *Canvas) Save(path string) error {
	var buf bytes.Buffer
	if err := c.WritePNG(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("raster: write %s: %w", path, err)
	}
	return nil
}
