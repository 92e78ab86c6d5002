// Package webdemo holds the browser tuner engine behind web/wasm.
package webdemo

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tuner/capture"
	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/signal"
	"github.com/cwbudde/algo-tuner/internal/display"
	"github.com/cwbudde/algo-tuner/measure/note"
	"github.com/cwbudde/algo-tuner/tuner"
)

const (
	demoNoise = 0.01
	demoSeed  = 7
)

// demoPartials are the relative amplitudes of the demo tone.
var demoPartials = []float64{0.5, 0.25, 0.12, 0.06}

// View is the reading as shown by the page.
type View struct {
	Detected  bool
	Frequency float64
	Note      string
	Cents     float64
	Position  float64
	InTune    bool
	Level     float64
	Status    string
	Line      string
}

// NewView flattens a reading for the page.
func NewView(r tuner.Reading) View {
	v := View{
		Detected: r.Detected,
		Position: r.Position(),
		InTune:   r.InTune(),
		Level:    r.Level,
		Status:   display.Status(r),
		Line:     display.Line(r),
	}
	if r.Detected {
		v.Frequency = r.Frequency
		v.Note = r.Note.Name()
		v.Cents = r.Note.Cents
	}
	return v
}

// Engine runs the tuner in the browser. The page writes microphone samples
// as they arrive and calls Frame on every animation frame.
type Engine struct {
	analyser *capture.Analyser
	gen      *signal.Generator
	opts     []tuner.Option

	loop *tuner.Loop
	last tuner.Reading
}

// NewEngine creates an engine analysing windows of size samples, a power of
// two.
func NewEngine(sampleRate float64, size int, opts ...tuner.Option) (*Engine, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}
	if !core.IsPowerOf2(size) {
		return nil, fmt.Errorf("window size must be a power of two: %d", size)
	}
	a, err := capture.NewAnalyser(sampleRate, size)
	if err != nil {
		return nil, err
	}

	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(sampleRate), core.WithBlockSize(size)},
		signal.WithSeed(demoSeed),
	)

	e := &Engine{
		analyser: a,
		gen:      gen,
		opts:     opts,
	}
	e.loop = e.newLoop(nil)
	return e, nil
}

func (e *Engine) newLoop(extra []tuner.Option) *tuner.Loop {
	opts := append(append([]tuner.Option(nil), e.opts...), extra...)
	return tuner.New(e.analyser, tuner.RendererFunc(e.render), opts...)
}

func (e *Engine) render(r tuner.Reading) error {
	e.last = r
	return nil
}

// SampleRate returns the analysis rate.
func (e *Engine) SampleRate() float64 {
	return e.analyser.SampleRate()
}

// Size returns the analysis window length.
func (e *Engine) Size() int {
	return e.analyser.Size()
}

// SetTarget tunes to a fixed note. An empty name follows the nearest note.
func (e *Engine) SetTarget(name string) error {
	if name == "" {
		e.loop = e.newLoop(nil)
		return nil
	}
	target, err := note.Parse(name)
	if err != nil {
		return err
	}
	e.loop = e.newLoop([]tuner.Option{tuner.WithTarget(target)})
	return nil
}

// Write appends microphone samples.
func (e *Engine) Write(samples []float32) {
	e.analyser.WriteFloat32(samples)
}

// Demo fills one window with a harmonic tone at freqHz shifted by cents.
func (e *Engine) Demo(freqHz, cents float64) error {
	f := freqHz * math.Pow(2, cents/1200)
	tone, err := e.gen.Harmonics(f, demoPartials, 0)
	if err != nil {
		return err
	}
	noise, err := e.gen.WhiteNoise(demoNoise, 0)
	if err != nil {
		return err
	}
	signal.Add(tone, noise, 1)
	e.analyser.Write(tone)
	return nil
}

// Frame runs one tick and returns its view.
func (e *Engine) Frame() (View, error) {
	if _, err := e.loop.Tick(); err != nil {
		return View{}, err
	}
	return NewView(e.last), nil
}

// Frames returns the number of completed frames since the last target
// change.
func (e *Engine) Frames() uint64 {
	return e.loop.Ticks()
}

// Reset clears the sample history.
func (e *Engine) Reset() {
	e.analyser.Reset()
	e.last = tuner.Reading{}
}
