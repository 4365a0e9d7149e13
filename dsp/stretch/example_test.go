package stretch_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-stretch/dsp/stretch"
)

func ExampleStretcher() {
	s := stretch.New(1, 8000)
	if err := s.SetTempo(2); err != nil {
		panic(err)
	}

	in := make([]float64, 8000)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * 200 * float64(i) / 8000)
	}
	s.Put(in)

	fmt.Println(s.Output().Len() < len(in)/2+s.SeekLength())
	// Output: true
}
