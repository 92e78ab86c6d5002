package tuner

import (
	"math"
	"time"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/measure/note"
	"github.com/cwbudde/algo-tuner/measure/pitch"
)

const (
	// MaxCents bounds the deviation shown on an indicator.
	MaxCents = 50.0

	// InTuneCents is the largest deviation classified as in tune.
	InTuneCents = 5.0
)

// Reading is the outcome of one tick. Without a detected pitch only Level,
// Reason and Time are set.
type Reading struct {
	Detected  bool
	Frequency float64
	Note      note.Note

	// Level is the RMS of the analysed window.
	Level float64

	Reason pitch.Reason
	Time   time.Time
}

// NoSignal reports whether the reading carries no pitch.
func (r Reading) NoSignal() bool {
	return !r.Detected
}

// ClampedCents returns the deviation limited to [-MaxCents, MaxCents].
func (r Reading) ClampedCents() float64 {
	if !r.Detected {
		return 0
	}
	return core.Clamp(r.Note.Cents, -MaxCents, MaxCents)
}

// InTune reports whether a pitch was detected within InTuneCents.
func (r Reading) InTune() bool {
	return r.Detected && math.Abs(r.Note.Cents) <= InTuneCents
}

// Position maps the clamped deviation to [0, 1], with 0.5 in tune.
func (r Reading) Position() float64 {
	return (r.ClampedCents() + MaxCents) / (2 * MaxCents)
}
