package pitch

import "github.com/cwbudde/algo-tuner/dsp/conv"

const (
	// DefaultRMSThreshold is the loudness below which a window counts as
	// silence.
	DefaultRMSThreshold = 0.01

	// DefaultTrimThreshold is the amplitude below which a sample may start or
	// end the trimmed window.
	DefaultTrimThreshold = 0.2
)

// Method selects how the auto-correlation is computed.
type Method = conv.Method

// Correlation methods.
const (
	MethodAuto   = conv.MethodAuto
	MethodDirect = conv.MethodDirect
	MethodFFT    = conv.MethodFFT
)

// Config holds estimator calibration.
type Config struct {
	RMSThreshold  float64
	TrimThreshold float64
	Method        Method
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() Config {
	return Config{
		RMSThreshold:  DefaultRMSThreshold,
		TrimThreshold: DefaultTrimThreshold,
		Method:        MethodAuto,
	}
}

// WithRMSThreshold sets the silence gate. Negative values are ignored; zero
// disables the gate for any non-silent window.
func WithRMSThreshold(threshold float64) Option {
	return func(cfg *Config) {
		if threshold >= 0 {
			cfg.RMSThreshold = threshold
		}
	}
}

// WithTrimThreshold sets the edge-trim amplitude. Non-positive values are
// ignored.
func WithTrimThreshold(threshold float64) Option {
	return func(cfg *Config) {
		if threshold > 0 {
			cfg.TrimThreshold = threshold
		}
	}
}

// WithMethod selects the auto-correlation method.
func WithMethod(m Method) Option {
	return func(cfg *Config) {
		switch m {
		case MethodAuto, MethodDirect, MethodFFT:
			cfg.Method = m
		}
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
