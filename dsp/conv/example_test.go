package conv_test

import (
	"fmt"

	"github.com/cwbudde/algo-stretch/dsp/conv"
)

func ExampleCorrelator_Valid() {
	signal := []float64{0, 0, 1, 2, 1, 0, 0, 0}
	template := []float64{1, 2, 1}

	c := conv.NewCorrelator()
	scores, err := c.Valid(nil, signal, template)
	if err != nil {
		panic(err)
	}

	lag, _ := conv.FindPeak(scores)
	fmt.Println(lag)
	// Output: 2
}
