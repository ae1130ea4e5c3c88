package metrics

import (
	"errors"
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestR2(t *testing.T) {
	tests := []struct {
		name  string
		yTrue []float64
		yPred []float64
		want  float64
	}{
		{name: "perfect", yTrue: []float64{1, 2, 3}, yPred: []float64{1, 2, 3}, want: 1},
		{name: "mean prediction", yTrue: []float64{1, 2, 3}, yPred: []float64{2, 2, 2}, want: 0},
		{name: "partial", yTrue: []float64{3, -0.5, 2, 7}, yPred: []float64{2.5, 0, 2, 8}, want: 0.9486081370449679},
		{name: "worse than mean", yTrue: []float64{1, 2, 3}, yPred: []float64{3, 2, 1}, want: -3},
		{name: "constant truth perfect", yTrue: []float64{4, 4}, yPred: []float64{4, 4}, want: 1},
		{name: "constant truth imperfect", yTrue: []float64{4, 4}, yPred: []float64{4, 5}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := R2(tt.yTrue, tt.yPred)
			if err != nil {
				t.Fatalf("R2() error = %v", err)
			}
			if !almostEqual(got, tt.want, 1e-12) {
				t.Fatalf("R2() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRMSE(t *testing.T) {
	got, err := RMSE([]float64{3, -0.5, 2, 7}, []float64{2.5, 0, 2, 8})
	if err != nil {
		t.Fatalf("RMSE() error = %v", err)
	}
	if want := math.Sqrt(0.375); !almostEqual(got, want, 1e-15) {
		t.Fatalf("RMSE() = %v, want %v", got, want)
	}

	mse, _ := MSE([]float64{1, 2}, []float64{1, 2})
	if mse != 0 {
		t.Fatalf("MSE() = %v, want 0", mse)
	}
}

func TestErrors(t *testing.T) {
	if _, err := R2([]float64{1}, []float64{1, 2}); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("R2() error = %v, want %v", err, ErrLengthMismatch)
	}
	if _, err := RMSE(nil, nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("RMSE() error = %v, want %v", err, ErrEmpty)
	}
	if _, err := R2([]float64{1}, []float64{1}); !errors.Is(err, ErrTooFewSamples) {
		t.Fatalf("R2() error = %v, want %v", err, ErrTooFewSamples)
	}
}
