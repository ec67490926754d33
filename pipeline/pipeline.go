// Package pipeline loads a candidate file, cleans its dynamic spectrum and
// renders it as a stacked line plot.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-joyplot/dsp/clip"
	"github.com/cwbudde/algo-joyplot/dsp/dynspec"
	"github.com/cwbudde/algo-joyplot/dsp/grid"
	"github.com/cwbudde/algo-joyplot/dsp/savgol"
	"github.com/cwbudde/algo-joyplot/internal/candidate"
	"github.com/cwbudde/algo-joyplot/plot/raster"
	"github.com/cwbudde/algo-joyplot/plot/stack"
	"github.com/cwbudde/algo-joyplot/plot/style"
	"github.com/cwbudde/algo-joyplot/stats/moments"
)

// Run renders cfg.Input and writes the image. It returns the output path.
func Run(ctx context.Context, cfg Config) (string, error) {
	p, err := cfg.build()
	if err != nil {
		return "", err
	}
	log := cfg.logger()

	spectrum, err := load(cfg, log)
	if err != nil {
		return "", err
	}

	processed, err := process(p, spectrum)
	if err != nil {
		return "", err
	}
	logStats(log, processed)

	canvas, err := render(ctx, p, processed, log)
	if err != nil {
		return "", err
	}

	out := cfg.OutputPath()
	if err := canvas.Save(out); err != nil {
		return "", err
	}
	log.Info("wrote image", "path", out)
	return out, nil
}

// Load reads and normalizes the dynamic spectrum of cfg.Input.
func Load(cfg Config) (*grid.Grid[float64], error) {
	return load(cfg, cfg.logger())
}

func load(cfg Config, log *slog.Logger) (*grid.Grid[float64], error) {
	c, err := candidate.Open(cfg.Input, candidate.Options{DisableFileLocking: cfg.DisableFileLocking})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	log.Info("loaded candidate",
		"file", cfg.Input,
		"freq_time", fmt.Sprintf("%dx%d", c.FreqTime.Rows, c.FreqTime.Cols),
		"dm_time", fmt.Sprintf("%dx%d", c.DMTime.Rows, c.DMTime.Cols),
		"meta", c.Meta,
	)

	spectrum, rep, err := dynspec.Prepare(c.FreqTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	if rep.NonFinite > 0 {
		log.Debug("zeroed non-finite samples", "count", rep.NonFinite)
	}
	if rep.Flat {
		log.Warn("spectrum has no variance, skipped scaling")
	}
	log.Debug("normalized spectrum", "median", rep.Median, "std", rep.Std)
	return spectrum, nil
}

// Process clips and smooths a dynamic spectrum.
func Process(cfg Config, spectrum *grid.Grid[float64]) (*grid.Grid[float64], error) {
	p, err := cfg.build()
	if err != nil {
		return nil, err
	}
	return process(p, spectrum)
}

func process(p *parts, spectrum *grid.Grid[float64]) (*grid.Grid[float64], error) {
	if err := savgol.ValidateWindow(p.smoother.Window(), spectrum.Cols); err != nil {
		return nil, invalid(err)
	}
	clipped := clip.Apply(p.clipper, spectrum)
	smoothed, err := savgol.Apply(p.smoother, clipped)
	if err != nil {
		if errors.Is(err, savgol.ErrInvalidWindow) {
			return nil, invalid(err)
		}
		return nil, err
	}
	return smoothed, nil
}

// Render draws a processed map onto a new canvas.
func Render(ctx context.Context, cfg Config, m *grid.Grid[float64]) (*raster.Canvas, error) {
	p, err := cfg.build()
	if err != nil {
		return nil, err
	}
	return render(ctx, p, m, cfg.logger())
}

func render(ctx context.Context, p *parts, m *grid.Grid[float64], log *slog.Logger) (*raster.Canvas, error) {
	peak := m.Max()
	mapper, err := style.New(p.cmap, peak, p.styleOpts...)
	if err != nil {
		return nil, invalid(err)
	}
	if mapper.Degenerate() {
		log.Warn("highest value is not positive, using fallback", "highest", peak, "fallback", mapper.Peak())
	}

	renderer, err := stack.New(p.extractor, mapper, p.stackOpts...)
	if err != nil {
		return nil, invalid(err)
	}

	canvas, err := raster.New(renderer.Bounds(m), p.rasterOpts...)
	if err != nil {
		return nil, invalid(err)
	}

	cfg := renderer.Config()
	log.Debug("rendering", "lines", cfg.Lines, "flip", cfg.Flip, "zfrac", cfg.ZFraction, "highest", mapper.Peak())
	if err := renderer.Render(ctx, m, canvas); err != nil {
		return nil, fmt.Errorf("joyplot: render: %w", err)
	}
	return canvas, nil
}

func logStats(log *slog.Logger, m *grid.Grid[float64]) {
	s := moments.Calculate(m.Data)
	log.Info("processed map",
		"shape", fmt.Sprintf("%dx%d", m.Rows, m.Cols),
		"mean", s.Mean,
		"max", s.Max,
		"min", s.Min,
		"std", s.Std,
	)
}
