// Package dynspec turns the stored frequency/time array of a candidate into
// a normalized dynamic spectrum.
//
// The stored layout is (time, frequency) with the highest frequency channel
// first. [Orient] reverses the channel axis and transposes, so row i of the
// result is frequency channel i (lowest first) and columns are time samples.
// [Prepare] then zeroes non-finite samples, removes a least-squares line
// from every channel and scales the whole map to zero median and unit
// standard deviation.
package dynspec
