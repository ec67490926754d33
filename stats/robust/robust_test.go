package robust

import (
	"math"
	"testing"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want float64
	}{
		{name: "odd", x: []float64{3, 1, 2}, want: 2},
		{name: "even", x: []float64{4, 1, 3, 2}, want: 2.5},
		{name: "single", x: []float64{-7}, want: -7},
		{name: "constant", x: []float64{5, 5, 5, 5}, want: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Median(tt.x); got != tt.want {
				t.Fatalf("Median(%v) = %v, want %v", tt.x, got, tt.want)
			}
		})
	}
}

func TestMedianEmpty(t *testing.T) {
	if !math.IsNaN(Median(nil)) {
		t.Fatal("expected NaN for empty input")
	}
}

func TestMedianDoesNotModifyInput(t *testing.T) {
	x := []float64{3, 1, 2}
	Median(x)
	if x[0] != 3 || x[1] != 1 || x[2] != 2 {
		t.Fatalf("input modified: %v", x)
	}
}

func TestMAD(t *testing.T) {
	// median = 3, deviations = {2, 0, 1, 1, 3} -> MAD = 1
	mad, med := MAD([]float64{1, 3, 2, 4, 6})
	if med != 3 {
		t.Fatalf("median = %v, want 3", med)
	}
	if mad != 1 {
		t.Fatalf("MAD = %v, want 1", mad)
	}
}

func TestNormalConsistency(t *testing.T) {
	if math.Abs(NormalConsistency-0.6744897501960817) > 1e-12 {
		t.Fatalf("NormalConsistency = %v", NormalConsistency)
	}
	if math.Abs(1/NormalConsistency-DefaultMADConstant) > 1e-4 {
		t.Fatalf("1/NormalConsistency = %v, want ~%v", 1/NormalConsistency, DefaultMADConstant)
	}
}

func TestScaleEstimators(t *testing.T) {
	x := []float64{1, 3, 2, 4, 6}

	normal := DefaultScale().Estimate(x)
	if math.Abs(normal.Scale-1/NormalConsistency) > 1e-12 {
		t.Fatalf("normal scale = %v", normal.Scale)
	}

	constant := Scale{Estimator: EstimatorConstant, Constant: 2}.Estimate(x)
	if constant.Scale != 2 || constant.Median != 3 {
		t.Fatalf("constant estimate = %+v", constant)
	}
}

func TestScaleValidate(t *testing.T) {
	if err := DefaultScale().Validate(); err != nil {
		t.Fatalf("default scale invalid: %v", err)
	}
	for _, c := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := (Scale{Estimator: EstimatorConstant, Constant: c}).Validate(); err == nil {
			t.Fatalf("constant %v accepted", c)
		}
	}
	if err := (Scale{Estimator: Estimator(9)}).Validate(); err == nil {
		t.Fatal("unknown estimator accepted")
	}
}

func TestParseEstimator(t *testing.T) {
	for _, e := range []Estimator{EstimatorNormal, EstimatorConstant} {
		got, err := ParseEstimator(e.String())
		if err != nil || got != e {
			t.Fatalf("ParseEstimator(%q) = %v, %v", e.String(), got, err)
		}
	}
	if _, err := ParseEstimator("iqr"); err == nil {
		t.Fatal("expected error for unknown estimator")
	}
}
