package capture

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/gopxl/beep"
)

// DecodeFunc decodes an audio stream into a beep stream and its format.
type DecodeFunc func(r io.Reader) (beep.StreamCloser, beep.Format, error)

var (
	decodersMu sync.RWMutex
	decoders   = map[string]DecodeFunc{
		"wav":  decodeWAV,
		"wave": decodeWAV,
		"aiff": decodeAIFF,
		"aif":  decodeAIFF,
		"mp3":  decodeMP3,
		"ogg":  decodeOgg,
		"oga":  decodeOgg,
	}
)

// Register adds or replaces the decoder for format (a file extension
// without the dot, case insensitive).
func Register(format string, fn DecodeFunc) {
	if fn == nil {
		return
	}
	decodersMu.Lock()
	defer decodersMu.Unlock()
	decoders[normalizeFormat(format)] = fn
}

// Formats returns the registered format names in sorted order.
func Formats() []string {
	decodersMu.RLock()
	defer decodersMu.RUnlock()

	out := make([]string, 0, len(decoders))
	for name := range decoders {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Decode decodes r as format.
func Decode(format string, r io.Reader) (beep.StreamCloser, beep.Format, error) {
	decodersMu.RLock()
	fn, ok := decoders[normalizeFormat(format)]
	decodersMu.RUnlock()

	if !ok {
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return fn(r)
}

// Open decodes the file at path, choosing the decoder by extension. Closing
// the returned stream closes the file.
func Open(path string) (beep.StreamCloser, beep.Format, error) {
	format := normalizeFormat(filepath.Ext(path))

	decodersMu.RLock()
	_, ok := decoders[format]
	decodersMu.RUnlock()
	if !ok {
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("capture: open: %w", err)
	}

	s, info, err := Decode(format, f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("capture: decode %s: %w", filepath.Base(path), err)
	}

	return &fileStream{StreamCloser: s, file: f}, info, nil
}

func normalizeFormat(format string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
}

type fileStream struct {
	beep.StreamCloser
	file *os.File
}

func (f *fileStream) Close() error {
	err := f.StreamCloser.Close()
	if cerr := f.file.Close(); err == nil {
		err = cerr
	}
	return err
}

// seekable returns r as an io.ReadSeeker, buffering it in memory when it
// cannot seek.
func seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("capture: read: %w", err)
	}
	return bytes.NewReader(data), nil
}

// newFormat builds a beep.Format, rejecting non-positive rates.
func newFormat(sampleRate, channels, precision int) (beep.Format, error) {
	if sampleRate <= 0 {
		return beep.Format{}, ErrInvalidRate
	}
	if channels <= 0 {
		return beep.Format{}, fmt.Errorf("%w: %d channels", ErrInvalidFile, channels)
	}
	return beep.Format{
		SampleRate:  beep.SampleRate(sampleRate),
		NumChannels: channels,
		Precision:   precision,
	}, nil
}
