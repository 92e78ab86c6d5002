package capture

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gopxl/beep"

	"github.com/cwbudde/algo-tuner/internal/testutil"
	"github.com/cwbudde/algo-tuner/measure/pitch"
)

// pcm quantizes interleaved float samples to bitDepth integers.
func pcm(samples []float64, bitDepth int) []int {
	scale := float64(int64(1)<<(bitDepth-1)) - 1
	out := make([]int, len(samples))
	for i, v := range samples {
		out[i] = int(math.Round(v * scale))
	}
	return out
}

func interleave(left, right []float64) []float64 {
	out := make([]float64, 0, 2*len(left))
	for i := range left {
		out = append(out, left[i], right[i])
	}
	return out
}

func writeWAV(t *testing.T, path string, sr, bitDepth, channels int, samples []float64) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sr, bitDepth, channels, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sr},
		Data:           pcm(samples, bitDepth),
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func writeAIFF(t *testing.T, path string, sr, bitDepth, channels int, samples []float64) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	enc := aiff.NewEncoder(f, sr, bitDepth, channels)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sr},
		Data:           pcm(samples, bitDepth),
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func detectStream(t *testing.T, s beep.Streamer, f beep.Format) float64 {
	t.Helper()

	src, err := NewStreamSource(s, f.SampleRate, 2048, 60)
	if err != nil {
		t.Fatal(err)
	}
	window, err := src.Buffer()
	if err != nil {
		t.Fatal(err)
	}
	hz, ok := pitch.Detect(window, src.SampleRate()).Hz()
	if !ok {
		t.Fatal("no pitch")
	}
	return hz
}

func TestOpenWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a4.wav")
	writeWAV(t, path, 44100, 16, 1, testutil.DeterministicSine(440, 44100, 0.5, 8192))

	s, f, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if f.SampleRate != 44100 || f.NumChannels != 1 || f.Precision != 2 {
		t.Fatalf("format = %+v", f)
	}
	testutil.RequireWithinPercent(t, detectStream(t, s, f), 440, 1)
}

func TestDecodeWAVStereoSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	left := []float64{0.5, -0.25, 0, 1}
	right := []float64{-0.5, 0.25, 0.75, -1}
	writeWAV(t, path, 8000, 16, 2, interleave(left, right))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// A plain reader exercises the in-memory seek fallback.
	s, f, err := Decode("WAV", io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if f.NumChannels != 2 {
		t.Fatalf("channels = %d, want 2", f.NumChannels)
	}

	frames := drain(t, s, 64)
	if len(frames) != len(left) {
		t.Fatalf("frames = %d, want %d", len(frames), len(left))
	}
	for i := range frames {
		if math.Abs(frames[i][0]-left[i]) > 1e-3 || math.Abs(frames[i][1]-right[i]) > 1e-3 {
			t.Fatalf("frame %d = %v, want [%v %v]", i, frames[i], left[i], right[i])
		}
	}
}

func TestOpenAIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "e2.aiff")
	x := testutil.DeterministicSine(164.81, 48000, 0.7, 8192)
	writeAIFF(t, path, 48000, 24, 2, interleave(x, x))

	s, f, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if f.SampleRate != 48000 || f.NumChannels != 2 || f.Precision != 3 {
		t.Fatalf("format = %+v", f)
	}
	testutil.RequireWithinPercent(t, detectStream(t, s, f), 164.81, 1)
}

func TestDecodeUnsupportedDepth(t *testing.T) {
	path := filepath.Join(t.TempDir(), "8bit.wav")
	writeWAV(t, path, 8000, 8, 1, []float64{0, 0.5, -0.5, 0})

	if _, _, err := Open(path); !errors.Is(err, ErrUnsupportedDepth) {
		t.Fatalf("Open() error = %v, want ErrUnsupportedDepth", err)
	}
}

func TestDecodeInvalid(t *testing.T) {
	garbage := bytes.Repeat([]byte("not audio "), 16)

	for _, format := range []string{"wav", "aiff"} {
		if _, _, err := Decode(format, bytes.NewReader(garbage)); !errors.Is(err, ErrInvalidFile) {
			t.Fatalf("Decode(%q) error = %v, want ErrInvalidFile", format, err)
		}
	}

	if _, _, err := Decode("flac", bytes.NewReader(garbage)); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Decode(flac) error = %v, want ErrUnknownFormat", err)
	}
	if _, _, err := Open("take.flac"); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("Open(flac) error = %v, want ErrUnknownFormat", err)
	}
	if _, _, err := Open(filepath.Join(t.TempDir(), "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Open(missing) error = %v, want not exist", err)
	}
}

func TestRegister(t *testing.T) {
	called := false
	Register(".Raw", func(r io.Reader) (beep.StreamCloser, beep.Format, error) {
		called = true
		return nopCloser{beep.Silence(4)}, beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}, nil
	})
	Register("ignored", nil)

	if !slices.Contains(Formats(), "raw") {
		t.Fatalf("Formats() = %v, missing raw", Formats())
	}
	if slices.Contains(Formats(), "ignored") {
		t.Fatal("nil decoder registered")
	}
	for _, name := range []string{"wav", "aiff", "mp3", "ogg"} {
		if !slices.Contains(Formats(), name) {
			t.Fatalf("Formats() = %v, missing %s", Formats(), name)
		}
	}

	s, f, err := Decode("RAW", bytes.NewReader(nil))
	if err != nil || !called {
		t.Fatalf("Decode(raw) error = %v, called = %v", err, called)
	}
	if f.SampleRate != 8000 || len(drain(t, s, 16)) != 4 {
		t.Fatalf("unexpected raw stream, format %+v", f)
	}
}

type nopCloser struct {
	beep.Streamer
}

func (nopCloser) Close() error { return nil }
