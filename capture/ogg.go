package capture

import (
	"fmt"
	"io"

	"github.com/gopxl/beep"
	"github.com/jfreymuth/oggvorbis"
)

type oggReader interface {
	Read([]float32) (int, error)
}

type oggStream struct {
	dec      oggReader
	channels int
	buf      []float32
	err      error
}

func decodeOgg(r io.Reader) (beep.StreamCloser, beep.Format, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	f, err := newFormat(dec.SampleRate(), dec.Channels(), 2)
	if err != nil {
		return nil, beep.Format{}, err
	}
	return &oggStream{dec: dec, channels: dec.Channels()}, f, nil
}

func (s *oggStream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil || len(samples) == 0 {
		return 0, s.err == nil
	}

	want := len(samples) * s.channels
	if cap(s.buf) < want {
		s.buf = make([]float32, want)
	}
	buf := s.buf[:want]

	filled := 0
	for filled < want {
		n, err := s.dec.Read(buf[filled:])
		filled += n
		if err == io.EOF {
			break
		}
		if err != nil {
			s.err = err
			break
		}
		if n == 0 {
			break
		}
	}

	frames := filled / s.channels
	for i := 0; i < frames; i++ {
		l := float64(buf[i*s.channels])
		r := l
		if s.channels > 1 {
			r = float64(buf[i*s.channels+1])
		}
		samples[i] = [2]float64{l, r}
	}

	if frames == 0 {
		return 0, false
	}
	return frames, true
}

func (s *oggStream) Err() error {
	return s.err
}

func (s *oggStream) Close() error {
	return nil
}
