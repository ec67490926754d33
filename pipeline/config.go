package pipeline

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-joyplot/dsp/clip"
	"github.com/cwbudde/algo-joyplot/dsp/core"
	"github.com/cwbudde/algo-joyplot/dsp/savgol"
	"github.com/cwbudde/algo-joyplot/plot/line"
	"github.com/cwbudde/algo-joyplot/plot/raster"
	"github.com/cwbudde/algo-joyplot/plot/stack"
	"github.com/cwbudde/algo-joyplot/plot/style"
	"github.com/cwbudde/algo-joyplot/stats/robust"
)

// Errors returned by the pipeline. Component errors are wrapped, so both
// the pipeline sentinel and the component sentinel match with errors.Is.
var (
	ErrInput            = errors.New("joyplot: input error")
	ErrInvalidParameter = errors.New("joyplot: invalid parameter")
)

// Config holds every setting of one rendering.
type Config struct {
	// Input is the candidate file.
	Input string
	// OutputDir receives the image. Name defaults to the input base name
	// with a .png extension.
	OutputDir string
	Name      string

	// Clipping.
	Sigma       float64
	Zero        bool
	Estimator   robust.Estimator
	MADConstant float64

	// Smoothing window along time, odd and >= 3.
	Window int

	// Line layout.
	Lines     int
	Points    int
	Digital   bool
	IntPoints int
	ZFraction float64
	Flip      bool

	// Style.
	Taper      float64
	Colormap   string
	Background string

	// Output image.
	DPI  int
	Size float64 // inches

	Workers            int
	DisableFileLocking bool

	// Logger receives progress and diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Defaults returns the standard settings.
func Defaults() Config {
	return Config{
		OutputDir:          ".",
		Sigma:              clip.DefaultSigma,
		Estimator:          robust.EstimatorNormal,
		MADConstant:        robust.DefaultMADConstant,
		Window:             savgol.DefaultWindow,
		Lines:              stack.DefaultLines,
		Points:             line.DefaultPoints,
		IntPoints:          line.DefaultIntPoints,
		ZFraction:          stack.DefaultZFraction,
		Flip:               true,
		Taper:              style.DefaultTaper,
		Colormap:           style.DefaultColormap,
		Background:         "black",
		DPI:                raster.DefaultDPI,
		Size:               float64(raster.DefaultSize / vg.Inch),
		DisableFileLocking: true,
	}
}

// OutputPath returns where the image is written.
func (c Config) OutputPath() string {
	name := c.Name
	if name == "" {
		base := filepath.Base(c.Input)
		name = strings.TrimSuffix(base, filepath.Ext(base)) + ".png"
	}
	return filepath.Join(c.OutputDir, name)
}

// Validate checks every setting that does not depend on the data.
func (c Config) Validate() error {
	_, err := c.build()
	return err
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// parts are the configured components of one rendering.
type parts struct {
	clipper    *clip.Clipper
	smoother   *savgol.Smoother
	extractor  *line.Extractor
	cmap       palette.ColorMap
	styleOpts  []style.Option
	stackOpts  []stack.Option
	rasterOpts []raster.Option
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidParameter, err)
}

func (c Config) build() (*parts, error) {
	if c.Input == "" {
		return nil, invalid(errors.New("no input file"))
	}

	var p parts
	var err error

	policy := clip.PolicyClip
	if c.Zero {
		policy = clip.PolicyZero
	}
	p.clipper, err = clip.New(
		clip.WithSigma(c.Sigma),
		clip.WithPolicy(policy),
		clip.WithScale(robust.Scale{Estimator: c.Estimator, Constant: c.MADConstant}),
	)
	if err != nil {
		return nil, invalid(err)
	}

	if p.smoother, err = savgol.New(c.Window); err != nil {
		return nil, invalid(err)
	}

	p.extractor, err = line.New(
		line.WithPoints(c.Points),
		line.WithDigital(c.Digital),
		line.WithIntPoints(c.IntPoints),
	)
	if err != nil {
		return nil, invalid(err)
	}

	if p.cmap, err = style.Colormap(c.Colormap); err != nil {
		return nil, invalid(err)
	}
	p.styleOpts = []style.Option{style.WithTaper(c.Taper)}
	if err := core.ApplyOptions(style.DefaultConfig(), p.styleOpts...).Validate(); err != nil {
		return nil, invalid(err)
	}

	p.stackOpts = []stack.Option{
		stack.WithLines(c.Lines),
		stack.WithZFraction(c.ZFraction),
		stack.WithFlip(c.Flip),
		stack.WithWorkers(c.Workers),
	}
	if err := core.ApplyOptions(stack.DefaultConfig(), p.stackOpts...).Validate(); err != nil {
		return nil, invalid(err)
	}

	var bg color.Color
	if bg, err = raster.Background(c.Background); err != nil {
		return nil, invalid(err)
	}
	p.rasterOpts = []raster.Option{
		raster.WithDPI(c.DPI),
		raster.WithSize(vg.Length(c.Size) * vg.Inch),
		raster.WithBackground(bg),
	}
	if err := core.ApplyOptions(raster.DefaultConfig(), p.rasterOpts...).Validate(); err != nil {
		return nil, invalid(err)
	}

	return &p, nil
}
