package capture

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gopxl/beep"
	gomp3 "github.com/hajimehoshi/go-mp3"
)

// go-mp3 always produces 16-bit little-endian interleaved stereo.
const (
	mp3Channels   = 2
	mp3FrameBytes = 2 * mp3Channels
)

type mp3Reader interface {
	Read([]byte) (int, error)
}

type mp3Stream struct {
	dec  mp3Reader
	buf  []byte
	tail []byte
	err  error
}

func decodeMP3(r io.Reader) (beep.StreamCloser, beep.Format, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}

	f, err := newFormat(dec.SampleRate(), mp3Channels, 2)
	if err != nil {
		return nil, beep.Format{}, err
	}
	return &mp3Stream{dec: dec}, f, nil
}

func (s *mp3Stream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil || len(samples) == 0 {
		return 0, s.err == nil
	}

	need := len(samples) * mp3FrameBytes
	if cap(s.buf) < need {
		s.buf = make([]byte, need)
	}
	buf := s.buf[:need]

	// Carry over a partial frame from the previous read.
	filled := copy(buf, s.tail)
	s.tail = s.tail[:0]

	for filled < need {
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

	frames := filled / mp3FrameBytes
	if rest := filled - frames*mp3FrameBytes; rest > 0 {
		s.tail = append(s.tail, buf[frames*mp3FrameBytes:filled]...)
	}

	for i := 0; i < frames; i++ {
		b := buf[i*mp3FrameBytes:]
		l := int16(binary.LittleEndian.Uint16(b[0:2]))
		r := int16(binary.LittleEndian.Uint16(b[2:4]))
		samples[i] = [2]float64{float64(l) / 32768, float64(r) / 32768}
	}

	if frames == 0 {
		return 0, false
	}
	return frames, true
}

func (s *mp3Stream) Err() error {
	return s.err
}

func (s *mp3Stream) Close() error {
	return nil
}
