// Package robust provides outlier-resistant location and scale estimators.
package robust

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"
)

// NormalConsistency is Φ⁻¹(3/4), the factor relating the median absolute
// deviation of a normal sample to its standard deviation.
var NormalConsistency = distuv.UnitNormal.Quantile(0.75)

// DefaultMADConstant is the rounded 1/Φ⁻¹(3/4) multiplier.
const DefaultMADConstant = 1.4826

// Estimator selects how a median absolute deviation is turned into a scale.
type Estimator int

const (
	// EstimatorNormal divides the MAD by Φ⁻¹(3/4).
	EstimatorNormal Estimator = iota
	// EstimatorConstant multiplies the MAD by a caller-supplied constant.
	EstimatorConstant
)

// String implements fmt.Stringer.
func (e Estimator) String() string {
	switch e {
	case EstimatorNormal:
		return "normal"
	case EstimatorConstant:
		return "constant"
	default:
		return fmt.Sprintf("Estimator(%d)", int(e))
	}
}

// ParseEstimator maps "normal" and "constant" to an Estimator.
func ParseEstimator(name string) (Estimator, error) {
	switch name {
	case "normal":
		return EstimatorNormal, nil
	case "constant":
		return EstimatorConstant, nil
	default:
		return 0, fmt.Errorf("robust: unknown estimator %q", name)
	}
}

// Median returns the median of x, averaging the two middle values for
// even lengths. It returns NaN for an empty slice. x is not modified.
func Median(x []float64) float64 {
	return medianScratch(make([]float64, len(x)), x)
}

// medianScratch computes the median of x using scratch (len(x)) for sorting.
func medianScratch(scratch, x []float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	copy(scratch, x)
	slices.Sort(scratch)
	if n%2 == 1 {
		return scratch[n/2]
	}
	return 0.5 * (scratch[n/2-1] + scratch[n/2])
}

// MAD returns the median of |x - median(x)| together with median(x).
func MAD(x []float64) (mad, median float64) {
	scratch := make([]float64, len(x))
	median = medianScratch(scratch, x)
	for i, v := range x {
		scratch[i] = math.Abs(v - median)
	}
	mad = medianScratch(scratch, scratch)
	return mad, median
}

// Scale converts the MAD of x into a standard-deviation estimate.
type Scale struct {
	Estimator Estimator
	// Constant is the multiplier used by EstimatorConstant.
	Constant float64
}

// DefaultScale uses the normal-consistency estimator.
func DefaultScale() Scale {
	return Scale{Estimator: EstimatorNormal, Constant: DefaultMADConstant}
}

// Validate reports whether the scale can be applied.
func (s Scale) Validate() error {
	switch s.Estimator {
	case EstimatorNormal:
		return nil
	case EstimatorConstant:
		if !(s.Constant > 0) || math.IsInf(s.Constant, 1) {
			return fmt.Errorf("robust: MAD constant must be finite and > 0: %v", s.Constant)
		}
		return nil
	default:
		return fmt.Errorf("robust: unknown estimator %v", s.Estimator)
	}
}

// FromMAD converts a MAD value into a scale estimate.
func (s Scale) FromMAD(mad float64) float64 {
	if s.Estimator == EstimatorConstant {
		return mad * s.Constant
	}
	return mad / NormalConsistency
}

// Location holds the median and robust scale of one sample.
type Location struct {
	Median float64
	Scale  float64
}

// Estimate returns the median and scaled MAD of x.
func (s Scale) Estimate(x []float64) Location {
	mad, med := MAD(x)
	return Location{Median: med, Scale: s.FromMAD(mad)}
}
