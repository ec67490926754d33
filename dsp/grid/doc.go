// Package grid provides a dense row-major 2-D array used to hold dynamic
// spectra (frequency channel × time sample) and the maps derived from them.
//
// A [Grid] is generic over float32 and float64 so processing stages can
// preserve the element type of the data they were handed.
package grid
