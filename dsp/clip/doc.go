// Package clip removes impulsive outliers from a dynamic spectrum using
// per-channel robust statistics.
//
// Every column of the input grid is treated as one channel. Its median and
// a scaled median absolute deviation define the band
//
//	[median - sigma*scale, median + sigma*scale]
//
// and values outside that band are either saturated onto the nearest edge
// ([PolicyClip]) or replaced with zero ([PolicyZero]).
//
// A column with no spread has scale 0, so [PolicyClip] collapses it onto its
// median. That is the intended behaviour and no error is reported.
package clip
