// Package savgol implements Savitzky–Golay smoothing of dynamic spectra.
//
// Each row of a grid is smoothed along its columns (the time axis) by
// fitting a low-order polynomial to a sliding window of odd length in the
// least-squares sense and evaluating it at the window centre. The interior
// of a row reduces to a convolution with a fixed kernel ([Coefficients]).
// The first and last window/2 samples take their values from the polynomial
// fitted to the first and last full window, so the output has the same
// length as the input and no padding is invented.
//
// The polynomial order used by [Smoother] is fixed at 2, so pulse-scale
// structure survives while sample-to-sample noise is suppressed.
package savgol
