// Package interp provides sampling grids and the first-degree spline used to
// resample extracted lines.
//
//   - [Linspace]:     evenly spaced float positions, endpoints included
//   - [LinspaceInt]:  the same positions truncated to integer indices
//   - [LinearSpline]: piecewise-linear interpolant through strictly
//     increasing knots, evaluated with [LinearSpline.At] or [LinearSpline.Resample]
package interp
