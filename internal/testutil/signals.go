// Package testutil holds fixtures and assertions shared by the package tests.
package testutil

import (
	"math"
	"math/rand"
)

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Ramp returns offset + slope*i for i in [0, length).
func Ramp(slope, offset float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = offset + slope*float64(i)
	}
	return out
}

// Polynomial evaluates sum_k coeffs[k]*i^k at every index i in [0, length).
func Polynomial(coeffs []float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		x := float64(i)
		acc := 0.0
		for k := len(coeffs) - 1; k >= 0; k-- {
			acc = acc*x + coeffs[k]
		}
		out[i] = acc
	}
	return out
}

// Band is a Gaussian absorption band centred at Center (in points).
type Band struct {
	Center float64
	Width  float64
}

// Spectrum renders the sum of bands, each weighted by the matching entry of
// amplitudes, on a grid of length points.
func Spectrum(bands []Band, amplitudes []float64, length int) []float64 {
	out := make([]float64, length)
	for b, band := range bands {
		for i := range out {
			d := (float64(i) - band.Center) / band.Width
			out[i] += amplitudes[b] * math.Exp(-0.5*d*d)
		}
	}
	return out
}

// SyntheticSpectra builds count spectra whose first band scales linearly with
// the returned concentrations. A second interfering band, a sloped baseline
// and a little noise vary independently per sample.
func SyntheticSpectra(seed int64, count, length int) (spectra [][]float64, concentrations []float64) {
	rng := rand.New(rand.NewSource(seed))
	bands := []Band{
		{Center: float64(length) * 0.35, Width: float64(length) * 0.05},
		{Center: float64(length) * 0.7, Width: float64(length) * 0.08},
	}

	spectra = make([][]float64, count)
	concentrations = make([]float64, count)

	for s := range count {
		c := 5 + 10*rng.Float64()
		interferent := rng.Float64()
		spectrum := Spectrum(bands, []float64{0.1 * c, interferent}, length)

		tilt := 0.002 * (rng.Float64() - 0.5)
		noise := DeterministicNoise(seed+int64(s)+1, 1e-3, length)
		for i := range spectrum {
			spectrum[i] += tilt*float64(i) + noise[i]
		}

		spectra[s] = spectrum
		concentrations[s] = c
	}

	return spectra, concentrations
}
