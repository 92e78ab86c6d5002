package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-tuner/dsp/core"
)

// ErrInvalidLength is returned when a generator is asked for no samples.
var ErrInvalidLength = errors.New("signal: sample count must be > 0")

// Generator creates deterministic test tones from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed used for noise.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a generator with the default seed.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a generator with processor and
// signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave. The block size of the configuration is used
// when samples is zero.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	return g.Harmonics(freqHz, []float64{amplitude}, samples)
}

// Harmonics generates a tone whose partial k+1 at (k+1)*freqHz has
// amplitude amplitudes[k]. Partials at or above Nyquist are left out.
func (g *Generator) Harmonics(freqHz float64, amplitudes []float64, samples int) ([]float64, error) {
	n, err := g.length(samples)
	if err != nil {
		return nil, err
	}
	if !(freqHz > 0) || !core.IsFinite(freqHz) {
		return nil, fmt.Errorf("signal: frequency must be > 0: %f", freqHz)
	}

	out := make([]float64, n)
	nyquist := g.cfg.SampleRate / 2
	for k, amp := range amplitudes {
		f := freqHz * float64(k+1)
		if f >= nyquist {
			break
		}
		step := 2 * math.Pi * f / g.cfg.SampleRate
		for i := range out {
			out[i] += amp * math.Sin(step*float64(i))
		}
	}
	return out, nil
}

// Detuned generates a sine wave offset from freqHz by cents.
func (g *Generator) Detuned(freqHz, cents, amplitude float64, samples int) ([]float64, error) {
	return g.Sine(freqHz*math.Pow(2, cents/1200), amplitude, samples)
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	n, err := g.length(samples)
	if err != nil {
		return nil, err
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("signal: noise amplitude must be >= 0: %f", amplitude)
	}

	out := make([]float64, n)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

func (g *Generator) length(samples int) (int, error) {
	if samples == 0 {
		samples = g.cfg.BlockSize
	}
	if samples <= 0 {
		return 0, ErrInvalidLength
	}
	return samples, nil
}

// Add accumulates gain*src into dst over their common length.
func Add(dst, src []float64, gain float64) {
	n := min(len(dst), len(src))
	for i := 0; i < n; i++ {
		dst[i] += gain * src[i]
	}
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("signal: normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, ErrInvalidLength
	}

	maxAbs := 0.0
	for _, v := range data {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
