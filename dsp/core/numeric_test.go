package core

import (
	"math"
	"testing"
)

func TestAllFinite(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		wantOK  bool
		wantIdx int
	}{
		{name: "empty", values: nil, wantOK: true, wantIdx: -1},
		{name: "finite", values: []float64{0, -1, 1e300}, wantOK: true, wantIdx: -1},
		{name: "nan", values: []float64{0, math.NaN()}, wantOK: false, wantIdx: 1},
		{name: "inf", values: []float64{math.Inf(-1), 1}, wantOK: false, wantIdx: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, idx := AllFinite(tt.values)
			if ok != tt.wantOK || idx != tt.wantIdx {
				t.Fatalf("AllFinite() = (%v, %d), want (%v, %d)", ok, idx, tt.wantOK, tt.wantIdx)
			}
		})
	}
}

func TestSumCompensated(t *testing.T) {
	values := make([]float64, 0, 10001)
	values = append(values, 1)
	for range 10000 {
		values = append(values, 1e-16)
	}

	got := Sum(values)
	want := 1 + 1e-12
	if math.Abs(got-want) > 1e-15 {
		t.Fatalf("Sum = %.17g, want %.17g", got, want)
	}
}
