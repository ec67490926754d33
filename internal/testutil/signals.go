package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-joyplot/dsp/grid"
)

// DeterministicSine generates a sine with the given period in samples.
func DeterministicSine(period, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi / period
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ramp generates offset + slope*i for i in [0, length).
func Ramp(offset, slope float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = offset + slope*float64(i)
	}
	return out
}

// NoiseGrid returns a rows×cols grid of deterministic white noise.
func NoiseGrid(seed int64, amplitude float64, rows, cols int) *grid.Grid[float64] {
	g, err := grid.FromData(rows, cols, DeterministicNoise(seed, amplitude, rows*cols))
	if err != nil {
		panic(err)
	}
	return g
}

// ConstantGrid returns a rows×cols grid filled with value.
func ConstantGrid(value float64, rows, cols int) *grid.Grid[float64] {
	g, err := grid.FromData(rows, cols, DC(value, rows*cols))
	if err != nil {
		panic(err)
	}
	return g
}

// SpikeGrid returns a zero grid with a single value at (row, col).
func SpikeGrid(rows, cols, row, col int, value float64) *grid.Grid[float64] {
	g := ConstantGrid(0, rows, cols)
	g.Set(row, col, value)
	return g
}
