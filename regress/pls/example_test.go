package pls_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-chemometrics/regress/pls"
)

func ExampleFit() {
	x := mat.NewDense(5, 2, []float64{
		1, 0,
		2, 1,
		3, 0,
		4, 1,
		5, 0,
	})
	y := mat.NewDense(5, 1, []float64{3, 6, 7, 10, 11})

	r, err := pls.Fit(x, y, 2)
	if err != nil {
		panic(err)
	}

	pred, err := r.Predict(mat.NewDense(1, 2, []float64{6, 1}))
	if err != nil {
		panic(err)
	}

	fmt.Printf("components=%d prediction=%.3f\n", r.Components(), pred.At(0, 0))

	// Output:
	// components=2 prediction=14.000
}
