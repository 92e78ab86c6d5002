package capture

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

type toneConfig struct {
	harmonics  []float64
	noise      float64
	noiseSeed  int64
	duration   time.Duration
	detuneCent float64
}

// ToneOption configures Tone.
type ToneOption func(*toneConfig)

// WithHarmonics adds partials 2, 3, ... with amplitudes relative to the
// fundamental.
func WithHarmonics(relative ...float64) ToneOption {
	return func(cfg *toneConfig) {
		cfg.harmonics = append(cfg.harmonics[:0], relative...)
	}
}

// WithNoise adds seeded white noise of the given peak amplitude.
func WithNoise(amplitude float64, seed int64) ToneOption {
	return func(cfg *toneConfig) {
		if amplitude >= 0 {
			cfg.noise = amplitude
			cfg.noiseSeed = seed
		}
	}
}

// WithDuration limits the tone length. The default is endless.
func WithDuration(d time.Duration) ToneOption {
	return func(cfg *toneConfig) {
		if d > 0 {
			cfg.duration = d
		}
	}
}

// WithDetune shifts every partial by cents.
func WithDetune(cents float64) ToneOption {
	return func(cfg *toneConfig) {
		cfg.detuneCent = cents
	}
}

// Tone returns a sine tone at freq with peak amplitude of the fundamental.
// Partials at or above Nyquist are dropped.
func Tone(sr beep.SampleRate, freq, amplitude float64, opts ...ToneOption) (beep.Streamer, error) {
	if sr <= 0 {
		return nil, ErrInvalidRate
	}
	if !(freq > 0) || math.IsInf(freq, 0) || amplitude < 0 {
		return nil, fmt.Errorf("%w: %v Hz at amplitude %v", ErrInvalidTone, freq, amplitude)
	}

	var cfg toneConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	f0 := freq * math.Pow(2, cfg.detuneCent/1200)
	if f0 >= float64(sr)/2 {
		return nil, fmt.Errorf("%w: %v Hz is above Nyquist at %d Hz", ErrInvalidTone, f0, sr)
	}

	gains := append([]float64{1}, cfg.harmonics...)
	var partials []beep.Streamer
	for k, g := range gains {
		f := f0 * float64(k+1)
		if f >= float64(sr)/2 {
			break
		}
		sine, err := generators.SineTone(sr, f)
		if err != nil {
			return nil, fmt.Errorf("capture: tone partial %d: %w", k+1, err)
		}
		partials = append(partials, gain(sine, amplitude*g))
	}
	if cfg.noise > 0 {
		partials = append(partials, newNoise(cfg.noise, cfg.noiseSeed))
	}

	var s beep.Streamer = beep.Mix(partials...)
	if cfg.duration > 0 {
		s = beep.Take(sr.N(cfg.duration), s)
	}
	return s, nil
}

// gain scales s by a linear factor.
func gain(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

type noise struct {
	amp float64
	rng *rand.Rand
}

func newNoise(amp float64, seed int64) *noise {
	return &noise{amp: amp, rng: rand.New(rand.NewSource(seed))}
}

func (n *noise) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := (n.rng.Float64()*2 - 1) * n.amp
		samples[i] = [2]float64{v, v}
	}
	return len(samples), true
}

func (n *noise) Err() error {
	return nil
}
