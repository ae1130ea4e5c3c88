package calib_test

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-chemometrics/calib"
	"github.com/cwbudde/algo-chemometrics/internal/testutil"
	"github.com/cwbudde/algo-chemometrics/preprocess"
	"github.com/cwbudde/algo-chemometrics/spectra"
)

func ExampleSession_Train() {
	s := calib.NewSession()
	if _, err := s.AddComponent("Moisture", "H2O", "%"); err != nil {
		panic(err)
	}

	intensities, _ := testutil.SyntheticSpectra(1, 5, 64)
	axis := testutil.Ramp(-2, 4000, 64)
	refs := []float64{10.0, 12.5, 9.8, 11.1, 10.7}

	for i, y := range intensities {
		sp, err := spectra.New(fmt.Sprintf("sample%d.spa", i), axis, y)
		if err != nil {
			panic(err)
		}
		if err := s.Pool().Add(sp); err != nil {
			panic(err)
		}
		if err := s.SetReference(sp.Name(), "Moisture", &refs[i]); err != nil {
			panic(err)
		}
	}

	res, err := s.Train("Moisture", 2, preprocess.First)
	if err != nil {
		panic(err)
	}
	fmt.Printf("samples=%d train=%d test=%d\n", res.Samples, res.Metrics.TrainSamples, res.Metrics.TestSamples)

	if err := s.RenameComponent("Moisture", "Water"); err != nil {
		panic(err)
	}
	_, err = s.Model("Moisture")
	fmt.Println(errors.Is(err, calib.ErrNotFound))
	// Output:
	// samples=5 train=3 test=2
	// true
}
