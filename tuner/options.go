package tuner

import (
	"log/slog"

	"github.com/cwbudde/algo-tuner/measure/note"
	"github.com/cwbudde/algo-tuner/measure/pitch"
)

type config struct {
	clock     Clock
	fps       float64
	estimator *pitch.Estimator
	logger    *slog.Logger
	target    *note.Note
}

// Option configures a Loop.
type Option func(*config)

// WithClock sets the frame source. The loop stops the clock when Run
// returns.
func WithClock(c Clock) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithFPS sets the rate of the default frame clock. Ignored when a clock is
// given with WithClock.
func WithFPS(fps float64) Option {
	return func(cfg *config) {
		if fps > 0 {
			cfg.fps = fps
		}
	}
}

// WithEstimator sets the pitch estimator.
func WithEstimator(e *pitch.Estimator) Option {
	return func(cfg *config) {
		if e != nil {
			cfg.estimator = e
		}
	}
}

// WithLogger sets the logger for start, stop and per-tick debug records.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithTarget measures every reading against target instead of the nearest
// note.
func WithTarget(target note.Note) Option {
	return func(cfg *config) {
		cfg.target = &target
	}
}

func applyOptions(opts ...Option) config {
	cfg := config{
		fps:    DefaultFPS,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.estimator == nil {
		cfg.estimator = pitch.NewEstimator()
	}
	return cfg
}
