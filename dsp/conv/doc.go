// Package conv provides the linear convolution used by the smoothing
// filters.
//
// Two strategies are available:
//
//   - [Direct]: O(N*M) time-domain convolution, best for short kernels
//   - [FFT]: single-block FFT convolution for long kernels
//
// [Convolve] picks one of them from the kernel length and [ConvolveMode]
// trims the full result to the requested [Mode]:
//
//	smoothed, err := conv.ConvolveMode(row, kernel, conv.ModeValid)
package conv
