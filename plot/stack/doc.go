// Package stack draws a processed map as a stack of vertically offset
// lines.
//
// Every selected row becomes one line sitting on its baseline and rising by
// zFraction per unit of value. Lines are submitted to the [Surface] from the
// top of the page downwards, so each line may hide the ones behind it. With
// Flip the baselines are mirrored (row r at rows-1-r), which reverses the
// submission order exactly.
package stack
