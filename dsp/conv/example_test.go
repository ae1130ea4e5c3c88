package conv_test

import (
	"fmt"

	"github.com/cwbudde/algo-chemometrics/dsp/conv"
)

func ExampleCorrelateValid() {
	x := []float64{1, 2, 3, 4, 5}
	kernel := []float64{-0.5, 0, 0.5}

	out, err := conv.CorrelateValid(x, kernel)
	if err != nil {
		panic(err)
	}

	fmt.Println(out)

	// Output:
	// [1 1 1]
}
