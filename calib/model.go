package calib

import (
	"github.com/cwbudde/algo-chemometrics/preprocess"
	"github.com/cwbudde/algo-chemometrics/regress/pls"
	"github.com/cwbudde/algo-chemometrics/stats/scale"
)

// Metrics are the held-out quality measures of a trained model.
type Metrics struct {
	R2           float64 `json:"r2"`
	RMSE         float64 `json:"rmse"`
	TrainSamples int     `json:"train_samples"`
	TestSamples  int     `json:"test_samples"`
}

// Model is a fitted scaler plus PLS regression for one component.
// It is immutable; retraining produces a new Model.
type Model struct {
	component  string
	derivative preprocess.Derivative
	latent     int
	seed       uint64
	features   int
	metrics    Metrics

	scaler     *scale.StandardScaler
	regression *pls.Regression
}

// Component returns the component name the model was trained for.
// Registry renames do not change it.
func (m *Model) Component() string { return m.component }

// Derivative returns the preprocessing applied to the training spectra.
func (m *Model) Derivative() preprocess.Derivative { return m.derivative }

// Latent returns the requested number of latent components.
func (m *Model) Latent() int { return m.latent }

// Components returns the number of latent components actually extracted.
func (m *Model) Components() int { return m.regression.Components() }

// Seed returns the split seed used for training.
func (m *Model) Seed() uint64 { return m.seed }

// NFeatures returns the spectrum length the model expects.
func (m *Model) NFeatures() int { return m.features }

// Metrics returns the held-out metrics computed at training time.
func (m *Model) Metrics() Metrics { return m.metrics }

// Scaler returns the feature scaler fitted on the training rows.
func (m *Model) Scaler() *scale.StandardScaler { return m.scaler }

// Regression returns the fitted PLS regression.
func (m *Model) Regression() *pls.Regression { return m.regression }
