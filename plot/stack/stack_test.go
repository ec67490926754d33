package stack

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/cwbudde/algo-joyplot/dsp/grid"
	"github.com/cwbudde/algo-joyplot/internal/testutil"
	"github.com/cwbudde/algo-joyplot/plot/line"
	"github.com/cwbudde/algo-joyplot/plot/style"
)

type recorder struct {
	lines  []style.Line
	zf     []float64
	failAt int // 1-based call number that fails, 0 never
}

var errDraw = errors.New("draw failed")

func (r *recorder) DrawLine(l style.Line, zFraction float64) error {
	if r.failAt > 0 && len(r.lines)+1 == r.failAt {
		return errDraw
	}
	r.lines = append(r.lines, l)
	r.zf = append(r.zf, zFraction)
	return nil
}

func (r *recorder) rows() []int {
	out := make([]int, len(r.lines))
	for i, l := range r.lines {
		out[i] = l.Row
	}
	return out
}

func newRenderer(t *testing.T, m *grid.Grid[float64], lineOpts []line.Option, opts ...Option) *Renderer {
	t.Helper()
	ext, err := line.New(lineOpts...)
	if err != nil {
		t.Fatal(err)
	}
	cm, err := style.Colormap(style.BinaryR)
	if err != nil {
		t.Fatal(err)
	}
	mapper, err := style.New(cm, m.Max())
	if err != nil {
		t.Fatal(err)
	}
	r, err := New(ext, mapper, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestNewValidates(t *testing.T) {
	ext, _ := line.New()
	cm, _ := style.Colormap(style.Binary)
	mapper, _ := style.New(cm, 1)
	if _, err := New(ext, mapper, WithLines(0)); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("err = %v, want ErrInvalidParameter", err)
	}
	if _, err := New(ext, mapper, WithZFraction(math.NaN())); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("err = %v, want ErrInvalidParameter", err)
	}
	if _, err := New(nil, mapper); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("err = %v, want ErrInvalidParameter", err)
	}
}

func TestRowsOrder(t *testing.T) {
	m := testutil.ConstantGrid(0, 10, 4)

	plain := newRenderer(t, m, nil, WithLines(4), WithFlip(false)).Rows(10)
	flipped := newRenderer(t, m, nil, WithLines(4), WithFlip(true)).Rows(10)

	want := []Entry{{9, 9}, {6, 6}, {3, 3}, {0, 0}}
	if !slices.Equal(plain, want) {
		t.Fatalf("plain rows = %v, want %v", plain, want)
	}
	wantFlip := []Entry{{0, 9}, {3, 6}, {6, 3}, {9, 0}}
	if !slices.Equal(flipped, wantFlip) {
		t.Fatalf("flipped rows = %v, want %v", flipped, wantFlip)
	}
}

func TestFlipReversesSubmission(t *testing.T) {
	m := testutil.NoiseGrid(5, 1, 40, 30)
	for _, workers := range []int{0, 4} {
		var plain, flipped recorder
		lineOpts := []line.Option{line.WithPoints(30)}
		if err := newRenderer(t, m, lineOpts, WithLines(13), WithFlip(false), WithWorkers(workers)).Render(context.Background(), m, &plain); err != nil {
			t.Fatal(err)
		}
		if err := newRenderer(t, m, lineOpts, WithLines(13), WithFlip(true), WithWorkers(workers)).Render(context.Background(), m, &flipped); err != nil {
			t.Fatal(err)
		}
		got := flipped.rows()
		slices.Reverse(got)
		if !slices.Equal(plain.rows(), got) {
			t.Fatalf("workers %d: flipped %v is not the reverse of %v", workers, flipped.rows(), plain.rows())
		}
		for i := 1; i < len(plain.lines); i++ {
			if plain.lines[i].Y[0] > plain.lines[i-1].Y[0] {
				t.Fatalf("baseline increased at submission %d", i)
			}
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	m := testutil.NoiseGrid(9, 2, 64, 100)
	opts := []line.Option{line.WithPoints(100)}
	var seq, par recorder
	if err := newRenderer(t, m, opts, WithLines(64)).Render(context.Background(), m, &seq); err != nil {
		t.Fatal(err)
	}
	if err := newRenderer(t, m, opts, WithLines(64), WithWorkers(8)).Render(context.Background(), m, &par); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(seq.rows(), par.rows()) {
		t.Fatal("parallel submission order differs")
	}
	for i := range seq.lines {
		testutil.RequireSliceNearlyEqual(t, par.lines[i].Z, seq.lines[i].Z, 0)
		testutil.RequireSliceNearlyEqual(t, par.lines[i].Widths, seq.lines[i].Widths, 0)
	}
}

// Scenario: an all-zero 64x1700 map renders 64 lines at their baselines
// with the minimum width and the colour at the taper floor.
func TestRenderZeroMap(t *testing.T) {
	m := testutil.ConstantGrid(0, 64, 1700)
	r := newRenderer(t, m, nil, WithLines(64), WithFlip(false))

	var rec recorder
	if err := r.Render(context.Background(), m, &rec); err != nil {
		t.Fatal(err)
	}
	if len(rec.lines) != 64 {
		t.Fatalf("drew %d lines, want 64", len(rec.lines))
	}
	cm, _ := style.Colormap(style.BinaryR)
	taper := style.DefaultTaper
	want, _ := cm.At(1 - taper)
	for i, l := range rec.lines {
		if l.Row != 63-i {
			t.Fatalf("line %d is row %d, want %d", i, l.Row, 63-i)
		}
		if l.Len() != 1700 {
			t.Fatalf("line %d has %d points", i, l.Len())
		}
		for j := range l.Z {
			if l.Z[j] != 0 || l.Y[j] != float64(l.Row) {
				t.Fatalf("line %d point %d: y=%v z=%v", i, j, l.Y[j], l.Z[j])
			}
			if l.Widths[j] != style.DefaultBase {
				t.Fatalf("width %v, want %v", l.Widths[j], style.DefaultBase)
			}
			if l.Colors[j] != want {
				t.Fatalf("colour %v, want %v", l.Colors[j], want)
			}
		}
		if rec.zf[i] != DefaultZFraction {
			t.Fatalf("zfraction %v", rec.zf[i])
		}
	}
}

func TestRenderStopsOnSurfaceError(t *testing.T) {
	m := testutil.NoiseGrid(1, 1, 20, 10)
	rec := recorder{failAt: 3}
	err := newRenderer(t, m, []line.Option{line.WithPoints(10)}, WithLines(20)).Render(context.Background(), m, &rec)
	if !errors.Is(err, errDraw) {
		t.Fatalf("err = %v, want errDraw", err)
	}
	if len(rec.lines) != 2 {
		t.Fatalf("submitted %d lines after failure, want 2", len(rec.lines))
	}
}

func TestRenderRowErrorSubmitsNothingInParallel(t *testing.T) {
	// A single-column map cannot be fitted by the digital path.
	m := testutil.ConstantGrid(1, 8, 1)
	var rec recorder
	r := newRenderer(t, m, []line.Option{line.WithDigital(true)}, WithLines(8), WithWorkers(4))
	if err := r.Render(context.Background(), m, &rec); err == nil {
		t.Fatal("expected an error")
	}
	if len(rec.lines) != 0 {
		t.Fatalf("submitted %d lines", len(rec.lines))
	}
}

func TestRenderCancelled(t *testing.T) {
	m := testutil.NoiseGrid(1, 1, 8, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var rec recorder
	err := newRenderer(t, m, []line.Option{line.WithPoints(10)}, WithLines(8)).Render(ctx, m, &rec)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(rec.lines) != 0 {
		t.Fatalf("submitted %d lines", len(rec.lines))
	}
}

func TestBounds(t *testing.T) {
	m := testutil.ConstantGrid(0, 5, 7)
	m.Set(1, 1, 2)
	m.Set(2, 2, -0.5)
	b := newRenderer(t, m, nil, WithZFraction(10)).Bounds(m)
	want := Bounds{MinX: 0, MaxX: 6, MinY: -5, MaxY: 24}
	if b != want {
		t.Fatalf("bounds %+v, want %+v", b, want)
	}

	flat := testutil.ConstantGrid(0, 3, 3)
	b = newRenderer(t, flat, nil).Bounds(flat)
	if b != (Bounds{MaxX: 2, MaxY: 2}) {
		t.Fatalf("flat bounds %+v", b)
	}
}
