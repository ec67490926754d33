// Command joyplot renders the dynamic spectrum of a candidate file as a
// stacked line plot.
//
// Usage:
//
//	joyplot -f candidate.h5 [flags]
//
// Examples:
//
//	joyplot -f cand.h5
//	joyplot -f cand.h5 -o plots -s 11 -z 6 -t 0.5
//	joyplot -f cand.h5 -flip=false -cmap binary -bg white
//	joyplot -list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/cwbudde/algo-joyplot/pipeline"
	"github.com/cwbudde/algo-joyplot/plot/style"
	"github.com/cwbudde/algo-joyplot/stats/robust"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := pipeline.Defaults()
	fs := flag.NewFlagSet("joyplot", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.Input, "f", "", "candidate file (required)")
	fs.StringVar(&cfg.Input, "file", "", "alias for -f")
	fs.StringVar(&cfg.OutputDir, "o", cfg.OutputDir, "output directory")
	fs.StringVar(&cfg.OutputDir, "output", cfg.OutputDir, "alias for -o")
	fs.StringVar(&cfg.Name, "n", "", "output file name (default <input base>.png)")
	fs.StringVar(&cfg.Name, "name", "", "alias for -n")
	fs.IntVar(&cfg.Window, "s", cfg.Window, "smoothing window length, odd and >= 3")
	fs.IntVar(&cfg.Window, "smooth", cfg.Window, "alias for -s")
	fs.Float64Var(&cfg.ZFraction, "z", cfg.ZFraction, "vertical scale of line values")
	fs.Float64Var(&cfg.ZFraction, "zfrac", cfg.ZFraction, "alias for -z")
	fs.Float64Var(&cfg.Taper, "t", cfg.Taper, "illumination taper in [0, 1]")
	fs.Float64Var(&cfg.Taper, "taper", cfg.Taper, "alias for -t")
	fs.BoolVar(&cfg.Flip, "flip", cfg.Flip, "draw the lowest channel at the top")
	fs.BoolVar(&cfg.Digital, "digital", cfg.Digital, "resample lines through a linear spline")
	fs.Float64Var(&cfg.Sigma, "sigma", cfg.Sigma, "clipping band half-width in robust sigmas")
	fs.BoolVar(&cfg.Zero, "zero", cfg.Zero, "replace outliers with 0 instead of clipping")
	estimator := fs.String("estimator", cfg.Estimator.String(), "MAD scale estimator: normal or constant")
	fs.Float64Var(&cfg.MADConstant, "mad-constant", cfg.MADConstant, "MAD multiplier for -estimator constant")
	fs.IntVar(&cfg.Lines, "lines", cfg.Lines, "number of drawn lines")
	fs.IntVar(&cfg.Points, "points", cfg.Points, "points sampled per line")
	fs.IntVar(&cfg.IntPoints, "int-points", cfg.IntPoints, "points per line after -digital resampling")
	fs.StringVar(&cfg.Colormap, "cmap", cfg.Colormap, "colormap (see -list)")
	fs.StringVar(&cfg.Background, "bg", cfg.Background, "background: black or white")
	fs.IntVar(&cfg.DPI, "dpi", cfg.DPI, "image resolution")
	fs.Float64Var(&cfg.Size, "size", cfg.Size, "image edge length in inches")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel line workers (0 or 1 = sequential)")
	verbose := fs.Bool("v", false, "debug logging")
	list := fs.Bool("list", false, "list available colormaps")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: joyplot -f candidate.h5 [flags]\n\n")
		fmt.Fprintf(stderr, "Renders a candidate's dynamic spectrum as a stacked line plot.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *list {
		for _, name := range style.Colormaps() {
			fmt.Fprintln(stdout, name)
		}
		return 0
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	est, err := robust.ParseEstimator(*estimator)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}
	cfg.Estimator = est

	if cfg.Input == "" {
		fmt.Fprintf(stderr, "error: -f is required\n")
		fs.Usage()
		return 2
	}

	out, err := pipeline.Run(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		if errors.Is(err, pipeline.ErrInvalidParameter) {
			return 2
		}
		return 1
	}
	fmt.Fprintln(stdout, out)
	return 0
}
