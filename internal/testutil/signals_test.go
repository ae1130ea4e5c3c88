package testutil

import (
	"math"
	"testing"
)

func TestDeterministicNoise(t *testing.T) {
	a := DeterministicNoise(42, 1.0, 64)
	b := DeterministicNoise(42, 1.0, 64)
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise not deterministic at index %d", i)
		}
		if math.Abs(a[i]) > 1 {
			t.Fatalf("a[%d] = %v exceeds amplitude", i, a[i])
		}
	}
}

func TestRamp(t *testing.T) {
	RequireSliceNearlyEqual(t, Ramp(0.5, 1, 4), []float64{1, 1.5, 2, 2.5}, 0)
}

func TestPolynomial(t *testing.T) {
	// 1 + 2i + 3i^2
	RequireSliceNearlyEqual(t, Polynomial([]float64{1, 2, 3}, 4), []float64{1, 6, 17, 34}, 0)
}

func TestSpectrumPeak(t *testing.T) {
	s := Spectrum([]Band{{Center: 10, Width: 2}}, []float64{3}, 21)
	if s[10] != 3 {
		t.Fatalf("peak = %v, want 3", s[10])
	}
	if math.Abs(s[8]-s[12]) > 1e-15 {
		t.Fatalf("band not symmetric: %v vs %v", s[8], s[12])
	}
}

func TestSyntheticSpectra(t *testing.T) {
	spectra, conc := SyntheticSpectra(7, 12, 80)
	if len(spectra) != 12 || len(conc) != 12 {
		t.Fatalf("got %d spectra and %d concentrations, want 12", len(spectra), len(conc))
	}

	for i, s := range spectra {
		if len(s) != 80 {
			t.Fatalf("spectrum %d has length %d, want 80", i, len(s))
		}
		RequireFinite(t, s)
		if conc[i] < 5 || conc[i] > 15 {
			t.Fatalf("concentration %d = %v outside [5, 15]", i, conc[i])
		}
	}

	again, _ := SyntheticSpectra(7, 12, 80)
	RequireSliceNearlyEqual(t, again[3], spectra[3], 0)
}
