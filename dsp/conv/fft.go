package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// FFT convolves a and b by multiplying their spectra in a single block of
// the next power-of-two length >= len(a)+len(b)-1.
func FFT(a, b []float64) ([]float64, error) {
	if len(a) == 0 {
		return nil, ErrEmptyInput
	}
	if len(b) == 0 {
		return nil, ErrEmptyKernel
	}

	outLen := len(a) + len(b) - 1
	size := nextPowerOf2(outLen)

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	specA := make([]complex128, size)
	specB := make([]complex128, size)
	for i, v := range a {
		specA[i] = complex(v, 0)
	}
	for i, v := range b {
		specB[i] = complex(v, 0)
	}

	if err := plan.Forward(specA, specA); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}
	if err := plan.Forward(specB, specB); err != nil {
		return nil, fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	for i := range specA {
		specA[i] *= specB[i]
	}

	if err := plan.Inverse(specA, specA); err != nil {
		return nil, fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	out := make([]float64, outLen)
	for i := range out {
		out[i] = real(specA[i])
	}
	return out, nil
}
