package capture

import (
	"github.com/cwbudde/algo-tuner/dsp/buffer"
	"github.com/cwbudde/algo-tuner/dsp/core"
)

// Analyser keeps the most recent Size() mono samples of a signal.
//
// One goroutine may write while another reads; Buffer always returns a
// private copy. Before the first Size() samples have been written the
// window is zero padded at the front.
type Analyser struct {
	ring       *buffer.Ring
	sampleRate float64

	mono   []float64 // writer scratch
	window []float64 // reader scratch
}

// NewAnalyser returns an analyser holding size samples at sampleRate.
func NewAnalyser(sampleRate float64, size int) (*Analyser, error) {
	if !(sampleRate > 0) || !core.IsFinite(sampleRate) {
		return nil, ErrInvalidRate
	}
	if size <= 0 {
		size = core.DefaultProcessorConfig().BlockSize
	}
	return &Analyser{
		ring:       buffer.NewRing(size),
		sampleRate: sampleRate,
	}, nil
}

// SampleRate returns the rate of the analysed signal.
func (a *Analyser) SampleRate() float64 {
	return a.sampleRate
}

// Size returns the window length.
func (a *Analyser) Size() int {
	return a.ring.Size()
}

// Written returns the number of samples written so far.
func (a *Analyser) Written() uint64 {
	return a.ring.Written()
}

// Write appends mono samples.
func (a *Analyser) Write(samples []float64) {
	a.ring.Write(samples)
}

// WriteFloat32 appends mono float32 samples.
func (a *Analyser) WriteFloat32(samples []float32) {
	a.mono = core.Widen(a.mono, samples)
	a.ring.Write(a.mono)
}

// WriteStereo appends stereo frames mixed down to mono.
func (a *Analyser) WriteStereo(frames [][2]float64) {
	a.mono = core.MixToMono(a.mono, frames)
	a.ring.Write(a.mono)
}

// Buffer returns a snapshot of the window, oldest sample first. The slice
// is reused by the next call.
func (a *Analyser) Buffer() ([]float64, error) {
	a.window = a.ring.Snapshot(a.window)
	return a.window, nil
}

// Reset discards all written samples.
func (a *Analyser) Reset() {
	a.ring.Reset()
}
