// Package moments computes summary statistics of a block of values.
package moments

import "math"

// Summary holds the statistics of one block of values.
type Summary struct {
	Length   int
	Mean     float64
	Variance float64 // population variance
	Std      float64 // population standard deviation
	Max      float64
	Min      float64
}

// Calculate computes all statistics in a single pass using Welford's online
// update for the mean and variance.
func Calculate(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	var mean, m2 float64
	maxVal, minVal := values[0], values[0]

	for i, x := range values {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)

		maxVal = math.Max(maxVal, x)
		minVal = math.Min(minVal, x)
	}

	variance := m2 / float64(n)
	return Summary{
		Length:   n,
		Mean:     mean,
		Variance: variance,
		Std:      math.Sqrt(variance),
		Max:      maxVal,
		Min:      minVal,
	}
}

// Std returns the population standard deviation of values.
func Std(values []float64) float64 {
	return Calculate(values).Std
}
