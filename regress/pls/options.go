package pls

type config struct {
	scale   bool
	maxIter int
	tol     float64
}

func defaultConfig() config {
	return config{
		scale:   true,
		maxIter: 500,
		tol:     1e-6,
	}
}

// Option configures Fit.
type Option func(*config)

// WithScale enables (default) or disables unit-variance scaling of X and Y.
func WithScale(scale bool) Option {
	return func(cfg *config) {
		cfg.scale = scale
	}
}

// WithMaxIter sets the iteration limit of the power method.
// Values below 1 are ignored.
func WithMaxIter(n int) Option {
	return func(cfg *config) {
		if n >= 1 {
			cfg.maxIter = n
		}
	}
}

// WithTol sets the convergence tolerance on the squared change of the X
// weights. Non-positive values are ignored.
func WithTol(tol float64) Option {
	return func(cfg *config) {
		if tol > 0 {
			cfg.tol = tol
		}
	}
}
