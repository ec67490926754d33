package grid

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-joyplot/dsp/core"
)

// Errors returned by grid constructors.
var (
	ErrShape  = errors.New("grid: invalid shape")
	ErrRagged = errors.New("grid: rows have different lengths")
)

// Grid is a dense Rows×Cols array stored row-major in Data.
type Grid[T core.Float] struct {
	Rows int
	Cols int
	Data []T
}

// New returns a zero-filled grid with the given shape.
func New[T core.Float](rows, cols int) (*Grid[T], error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrShape, rows, cols)
	}
	return &Grid[T]{Rows: rows, Cols: cols, Data: make([]T, rows*cols)}, nil
}

// FromData wraps data, which must hold exactly rows*cols values. The slice
// is not copied.
func FromData[T core.Float](rows, cols int, data []T) (*Grid[T], error) {
	if rows <= 0 || cols <= 0 || len(data) != rows*cols {
		return nil, fmt.Errorf("%w: %dx%d with %d values", ErrShape, rows, cols, len(data))
	}
	return &Grid[T]{Rows: rows, Cols: cols, Data: data}, nil
}

// FromRows copies a slice of equal-length rows into a new grid.
func FromRows[T core.Float](rows [][]T) (*Grid[T], error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrShape)
	}
	g, err := New[T](len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for i, r := range rows {
		if len(r) != g.Cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrRagged, i, len(r), g.Cols)
		}
		copy(g.Row(i), r)
	}
	return g, nil
}

// At returns the value at (row, col).
func (g *Grid[T]) At(row, col int) T {
	return g.Data[row*g.Cols+col]
}

// Set stores v at (row, col).
func (g *Grid[T]) Set(row, col int, v T) {
	g.Data[row*g.Cols+col] = v
}

// Row returns row i as a slice aliasing the grid storage.
func (g *Grid[T]) Row(i int) []T {
	return g.Data[i*g.Cols : (i+1)*g.Cols]
}

// Column copies column j into dst (grown as needed) as float64 and returns it.
func (g *Grid[T]) Column(dst []float64, j int) []float64 {
	dst = core.EnsureLen(dst, g.Rows)
	for i := range g.Rows {
		dst[i] = float64(g.Data[i*g.Cols+j])
	}
	return dst
}

// SetColumn writes src into column j, converting to the grid element type.
func (g *Grid[T]) SetColumn(j int, src []float64) {
	for i := range g.Rows {
		g.Data[i*g.Cols+j] = T(src[i])
	}
}

// Clone returns a deep copy of g.
func (g *Grid[T]) Clone() *Grid[T] {
	data := make([]T, len(g.Data))
	copy(data, g.Data)
	return &Grid[T]{Rows: g.Rows, Cols: g.Cols, Data: data}
}

// Transpose returns a new Cols×Rows grid.
func (g *Grid[T]) Transpose() *Grid[T] {
	out := &Grid[T]{Rows: g.Cols, Cols: g.Rows, Data: make([]T, len(g.Data))}
	for i := range g.Rows {
		for j := range g.Cols {
			out.Data[j*out.Cols+i] = g.Data[i*g.Cols+j]
		}
	}
	return out
}

// FlipCols returns a copy with the column order reversed.
func (g *Grid[T]) FlipCols() *Grid[T] {
	out := &Grid[T]{Rows: g.Rows, Cols: g.Cols, Data: make([]T, len(g.Data))}
	for i := range g.Rows {
		src, dst := g.Row(i), out.Row(i)
		for j := range src {
			dst[g.Cols-1-j] = src[j]
		}
	}
	return out
}

// Max returns the largest value, ignoring NaN. An all-NaN grid yields NaN.
func (g *Grid[T]) Max() float64 {
	best := math.NaN()
	for _, v := range g.Data {
		f := float64(v)
		if math.IsNaN(f) {
			continue
		}
		if math.IsNaN(best) || f > best {
			best = f
		}
	}
	return best
}

// Min returns the smallest value, ignoring NaN. An all-NaN grid yields NaN.
func (g *Grid[T]) Min() float64 {
	best := math.NaN()
	for _, v := range g.Data {
		f := float64(v)
		if math.IsNaN(f) {
			continue
		}
		if math.IsNaN(best) || f < best {
			best = f
		}
	}
	return best
}

// Convert returns a copy of g with elements converted to U.
func Convert[U, T core.Float](g *Grid[T]) *Grid[U] {
	out := &Grid[U]{Rows: g.Rows, Cols: g.Cols, Data: make([]U, len(g.Data))}
	for i, v := range g.Data {
		out.Data[i] = U(v)
	}
	return out
}
