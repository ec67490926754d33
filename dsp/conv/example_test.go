package conv_test

import (
	"fmt"

	"github.com/cwbudde/algo-joyplot/dsp/conv"
)

func ExampleDirect() {
	// Simple moving average filter
	signal := []float64{1, 2, 3, 4, 5, 4, 3, 2, 1}
	kernel := []float64{0.25, 0.5, 0.25}

	result, _ := conv.Direct(signal, kernel)

	fmt.Printf("Output length: %d\n", len(result))
	fmt.Printf("First few values: %.2f, %.2f, %.2f\n", result[0], result[1], result[2])

	// Output:
	// Output length: 11
	// First few values: 0.25, 1.00, 2.00
}

func ExampleConvolveMode() {
	valid, _ := conv.ConvolveMode([]float64{1, 2, 3, 4, 5}, []float64{1, 2, 3}, conv.ModeValid)
	fmt.Println(valid)

	// Output:
	// [10 16 22]
}
