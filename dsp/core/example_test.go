package core_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-chemometrics/dsp/core"
)

func ExampleAllFinite() {
	ok, idx := core.AllFinite([]float64{0.1, 0.2, math.NaN()})
	fmt.Println(ok, idx)

	// Output:
	// false 2
}
