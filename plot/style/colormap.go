package style

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
)

// Colormap names accepted by Colormap.
const (
	Binary        = "binary"
	BinaryR       = "binary_r"
	BlackBody     = "blackbody"
	Kindlmann     = "kindlmann"
	SmoothBlueRed = "smooth-blue-red"
)

// DefaultColormap suits a dark background.
const DefaultColormap = BinaryR

var colormaps = map[string]func() palette.ColorMap{
	Binary:        func() palette.ColorMap { return &gray{max: 1, alpha: 1} },
	BinaryR:       func() palette.ColorMap { return palette.Reverse(&gray{max: 1, alpha: 1}) },
	BlackBody:     moreland.BlackBody,
	Kindlmann:     moreland.Kindlmann,
	SmoothBlueRed: func() palette.ColorMap { return moreland.SmoothBlueRed() },
}

// Colormap returns a new instance of the named colormap spanning [0, 1].
func Colormap(name string) (palette.ColorMap, error) {
	mk, ok := colormaps[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown colormap %q", ErrInvalidParameter, name)
	}
	cm := mk()
	cm.SetMax(1)
	cm.SetMin(0)
	return cm, nil
}

// Colormaps lists the registered names in sorted order.
func Colormaps() []string {
	names := make([]string, 0, len(colormaps))
	for name := range colormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// gray runs linearly from white at Min to black at Max.
type gray struct {
	min, max, alpha float64
}

func (g *gray) At(v float64) (color.Color, error) {
	switch {
	case math.IsNaN(v):
		return nil, palette.ErrNaN
	case v < g.min:
		return nil, palette.ErrUnderflow
	case v > g.max:
		return nil, palette.ErrOverflow
	}
	t := 0.0
	if g.max > g.min {
		t = (v - g.min) / (g.max - g.min)
	}
	l := uint8(math.Round(255 * (1 - t)))
	return color.NRGBA{R: l, G: l, B: l, A: uint8(math.Round(255 * g.alpha))}, nil
}

func (g *gray) Max() float64 { return g.max }
func (g *gray) SetMax(v float64) { g.max = v }
func (g *gray) Min() float64 { return g.min }
func (g *gray) SetMin(v float64) { g.min = v }
func (g *gray) Alpha() float64 { return g.alpha }
func (g *gray) SetAlpha(alpha float64) { g.alpha = alpha }

func (g *gray) Palette(n int) palette.Palette {
	cs := make(colors, n)
	for i := range cs {
		v := g.min
		if n > 1 {
			v += float64(i) / float64(n-1) * (g.max - g.min)
		}
		c, err := g.At(v)
		if err != nil {
			panic(err)
		}
		cs[i] = c
	}
	return cs
}

type colors []color.Color

func (c colors) Colors() []color.Color { return c }
