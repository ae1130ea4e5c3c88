package calib

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-chemometrics/dsp/core"
	"github.com/cwbudde/algo-chemometrics/internal/split"
	"github.com/cwbudde/algo-chemometrics/regress/pls"
	"github.com/cwbudde/algo-chemometrics/stats/metrics"
	"github.com/cwbudde/algo-chemometrics/stats/scale"
)

// DefaultTestFraction is the share of samples held out for evaluation.
const DefaultTestFraction = 0.3

type trainConfig struct {
	seed         uint64
	testFraction float64
}

// TrainOption configures Train.
type TrainOption func(*trainConfig)

// WithSeed sets the split seed (default split.DefaultSeed). Seeds above
// split.MaxSeed make Train fail with ErrInvalidParameter.
func WithSeed(seed uint64) TrainOption {
	return func(cfg *trainConfig) {
		cfg.seed = seed
	}
}

// WithTestFraction sets the held-out share. Values outside (0, 1) are ignored.
func WithTestFraction(f float64) TrainOption {
	return func(cfg *trainConfig) {
		if f > 0 && f < 1 {
			cfg.testFraction = f
		}
	}
}

// Train splits ds with a seeded permutation, standardizes the features on
// the training rows, fits a PLS regression with latent components and
// evaluates R² and RMSE on the held-out rows.
//
// latent must lie in [1, min(training samples, features)]; otherwise
// ErrInvalidParameter is returned. Numerical failures are returned wrapped in
// ErrTrainingFailed together with their cause.
func Train(ds *Dataset, latent int, opts ...TrainOption) (*Model, Metrics, error) {
	cfg := trainConfig{seed: split.DefaultSeed, testFraction: DefaultTestFraction}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := split.CheckSeed(cfg.seed); err != nil {
		return nil, Metrics{}, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}

	if ds == nil || ds.Len() < MinSamples {
		n := 0
		if ds != nil {
			n = ds.Len()
		}
		return nil, Metrics{}, fmt.Errorf("%w: need at least %d samples, have %d", ErrInsufficientData, MinSamples, n)
	}

	n, p := ds.Len(), ds.NFeatures()
	for i, f := range ds.Features {
		if len(f) != p {
			return nil, Metrics{}, fmt.Errorf("%w: sample %d has %d features, want %d", ErrInvalidParameter, i, len(f), p)
		}
		if ok, at := core.AllFinite(f); !ok {
			return nil, Metrics{}, fmt.Errorf("%w: sample %d has a non-finite value at %d", ErrInvalidParameter, i, at)
		}
	}
	if ok, at := core.AllFinite(ds.Targets); !ok {
		return nil, Metrics{}, fmt.Errorf("%w: target %d is not finite", ErrInvalidParameter, at)
	}

	nTrain, nTest, err := split.Sizes(n, cfg.testFraction)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}
	if nTest < 2 || nTrain < 2 {
		return nil, Metrics{}, fmt.Errorf("%w: split of %d samples gives %d train and %d test, need at least 2 each",
			ErrInvalidParameter, n, nTrain, nTest)
	}

	if maxLatent := min(nTrain, p); latent < 1 || latent > maxLatent {
		return nil, Metrics{}, fmt.Errorf("%w: latent components %d not in [1, %d]", ErrInvalidParameter, latent, maxLatent)
	}

	trainIdx, testIdx, err := split.TrainTest(n, cfg.testFraction, cfg.seed)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}

	xTrain, yTrain := gather(ds, trainIdx)
	xTest, yTest := gather(ds, testIdx)

	scaler := scale.NewStandardScaler()
	xTrainScaled, err := scaler.FitTransform(xTrain)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("%w: %w", ErrTrainingFailed, err)
	}
	xTestScaled, err := scaler.Transform(xTest)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("%w: %w", ErrTrainingFailed, err)
	}

	reg, err := pls.Fit(xTrainScaled, mat.NewVecDense(nTrain, yTrain), latent)
	if err != nil {
		if errors.Is(err, pls.ErrInvalidComponents) {
			return nil, Metrics{}, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
		}
		return nil, Metrics{}, fmt.Errorf("%w: %w", ErrTrainingFailed, err)
	}

	pred, err := reg.Predict(xTestScaled)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("%w: %w", ErrTrainingFailed, err)
	}
	yPred := mat.Col(nil, 0, pred)

	r2, err := metrics.R2(yTest, yPred)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("%w: %w", ErrTrainingFailed, err)
	}
	rmse, err := metrics.RMSE(yTest, yPred)
	if err != nil {
		return nil, Metrics{}, fmt.Errorf("%w: %w", ErrTrainingFailed, err)
	}
	if math.IsNaN(r2) || math.IsInf(r2, 0) || math.IsNaN(rmse) || math.IsInf(rmse, 0) {
		return nil, Metrics{}, fmt.Errorf("%w: non-finite metrics (R2=%v, RMSE=%v)", ErrTrainingFailed, r2, rmse)
	}

	m := Metrics{R2: r2, RMSE: rmse, TrainSamples: nTrain, TestSamples: nTest}

	return &Model{
		component:  ds.Component,
		derivative: ds.Derivative,
		latent:     latent,
		seed:       cfg.seed,
		features:   p,
		metrics:    m,
		scaler:     scaler,
		regression: reg,
	}, m, nil
}

// gather copies the rows idx of ds into a feature matrix and target slice.
func gather(ds *Dataset, idx []int) (*mat.Dense, []float64) {
	rows := core.Gather(ds.Features, idx)
	x := mat.NewDense(len(rows), ds.NFeatures(), nil)
	for r, row := range rows {
		x.SetRow(r, row)
	}
	return x, core.Gather(ds.Targets, idx)
}
