package capture

import (
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gopxl/beep"
)

// pcmReader is the subset of the go-audio WAV and AIFF decoders used here.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// pcmStream streams interleaved integer PCM as stereo float frames.
type pcmStream struct {
	dec      pcmReader
	channels int
	scale    float64
	buf      *goaudio.IntBuffer
	err      error
}

func newPCMStream(dec pcmReader, f *goaudio.Format, bitDepth int) (*pcmStream, error) {
	var scale float64
	switch bitDepth {
	case 16, 24, 32:
		scale = float64(int64(1) << (bitDepth - 1))
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedDepth, bitDepth)
	}

	return &pcmStream{
		dec:      dec,
		channels: f.NumChannels,
		scale:    scale,
		buf:      &goaudio.IntBuffer{Format: f, SourceBitDepth: bitDepth},
	}, nil
}

func (s *pcmStream) Stream(samples [][2]float64) (int, bool) {
	if s.err != nil || len(samples) == 0 {
		return 0, s.err == nil
	}

	want := len(samples) * s.channels
	if cap(s.buf.Data) < want {
		s.buf.Data = make([]int, want)
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.dec.PCMBuffer(s.buf)
	if err != nil && err != io.EOF {
		s.err = err
	}

	frames := n / s.channels
	for i := 0; i < frames; i++ {
		l := float64(s.buf.Data[i*s.channels]) / s.scale
		r := l
		if s.channels > 1 {
			r = float64(s.buf.Data[i*s.channels+1]) / s.scale
		}
		samples[i] = [2]float64{l, r}
	}

	if frames == 0 {
		return 0, false
	}
	return frames, true
}

func (s *pcmStream) Err() error {
	return s.err
}

func (s *pcmStream) Close() error {
	return nil
}

func decodeWAV(r io.Reader) (beep.StreamCloser, beep.Format, error) {
	rs, err := seekable(r)
	if err != nil {
		return nil, beep.Format{}, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, beep.Format{}, fmt.Errorf("%w: not a WAV file", ErrInvalidFile)
	}
	if dec.WavAudioFormat != 1 {
		return nil, beep.Format{}, fmt.Errorf("%w: WAV format %d", ErrUnsupportedCodec, dec.WavAudioFormat)
	}

	return pcmDecoder(dec, dec.Format(), int(dec.BitDepth))
}

func decodeAIFF(r io.Reader) (beep.StreamCloser, beep.Format, error) {
	rs, err := seekable(r)
	if err != nil {
		return nil, beep.Format{}, err
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, beep.Format{}, fmt.Errorf("%w: not an AIFF file", ErrInvalidFile)
	}
	dec.ReadInfo()

	return pcmDecoder(dec, dec.Format(), int(dec.BitDepth))
}

func pcmDecoder(dec pcmReader, f *goaudio.Format, bitDepth int) (beep.StreamCloser, beep.Format, error) {
	if f == nil {
		return nil, beep.Format{}, fmt.Errorf("%w: missing format chunk", ErrInvalidFile)
	}

	bf, err := newFormat(f.SampleRate, f.NumChannels, bitDepth/8)
	if err != nil {
		return nil, beep.Format{}, err
	}

	s, err := newPCMStream(dec, f, bitDepth)
	if err != nil {
		return nil, beep.Format{}, err
	}
	return s, bf, nil
}
