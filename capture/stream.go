package capture

import (
	"fmt"
	"io"
	"math"

	"github.com/gopxl/beep"
)

// StreamSource feeds an Analyser from a beep.Streamer, advancing the
// stream by one display frame's worth of audio per Buffer call.
//
// The first call fills the whole window so the first reading already sees
// a complete signal. When the stream ends Buffer returns the last window
// once more and io.EOF afterwards.
type StreamSource struct {
	stream   beep.Streamer
	analyser *Analyser
	hop      int
	primed   bool
	drained  bool

	frames [][2]float64
}

// NewStreamSource returns a source reading s at rate sr into a window of
// size samples, advancing sr/fps frames per call.
func NewStreamSource(s beep.Streamer, sr beep.SampleRate, size int, fps float64) (*StreamSource, error) {
	if sr <= 0 {
		return nil, ErrInvalidRate
	}
	a, err := NewAnalyser(float64(sr), size)
	if err != nil {
		return nil, err
	}
	if !(fps > 0) {
		fps = 60
	}

	hop := int(math.Round(float64(sr) / fps))
	if hop < 1 {
		hop = 1
	}

	return &StreamSource{
		stream:   s,
		analyser: a,
		hop:      hop,
	}, nil
}

// SampleRate returns the stream rate.
func (s *StreamSource) SampleRate() float64 {
	return s.analyser.SampleRate()
}

// Hop returns the number of frames consumed per Buffer call.
func (s *StreamSource) Hop() int {
	return s.hop
}

// Analyser returns the underlying analyser.
func (s *StreamSource) Analyser() *Analyser {
	return s.analyser
}

// Buffer advances the stream and returns the current window.
func (s *StreamSource) Buffer() ([]float64, error) {
	if s.drained {
		return nil, io.EOF
	}

	want := s.hop
	if !s.primed {
		want = max(want, s.analyser.Size())
		s.primed = true
	}

	n, ok := s.pull(want)
	if !ok {
		if err := s.stream.Err(); err != nil {
			return nil, fmt.Errorf("capture: stream: %w", err)
		}
		s.drained = true
		if n == 0 {
			return nil, io.EOF
		}
	}

	return s.analyser.Buffer()
}

// pull streams up to want frames into the analyser. It reports false once
// the stream is exhausted.
func (s *StreamSource) pull(want int) (int, bool) {
	if cap(s.frames) < want {
		s.frames = make([][2]float64, want)
	}

	total := 0
	for total < want {
		n, ok := s.stream.Stream(s.frames[:want-total])
		if n > 0 {
			s.analyser.WriteStereo(s.frames[:n])
			total += n
		}
		if !ok || n == 0 {
			return total, false
		}
	}
	return total, true
}
