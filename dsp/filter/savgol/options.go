package savgol

import "math"

type config struct {
	delta float64
}

func defaultConfig() config {
	return config{delta: 1}
}

// Option configures Design.
type Option func(*config)

// WithDelta sets the sample spacing used to scale derivatives.
// Non-positive or non-finite values are ignored.
func WithDelta(delta float64) Option {
	return func(cfg *config) {
		if delta > 0 && !math.IsInf(delta, 0) {
			cfg.delta = delta
		}
	}
}
