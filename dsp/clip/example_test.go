package clip_test

import (
	"fmt"

	"github.com/cwbudde/algo-joyplot/dsp/clip"
	"github.com/cwbudde/algo-joyplot/dsp/grid"
)

func ExampleApply() {
	g, _ := grid.FromRows([][]float64{{1}, {2}, {3}, {2}, {40}})

	c, _ := clip.New(clip.WithSigma(1), clip.WithPolicy(clip.PolicyZero))
	out := clip.Apply(c, g)

	fmt.Println(out.Data)

	// Output:
	// [1 2 3 2 0]
}
