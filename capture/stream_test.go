package capture

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gopxl/beep"

	"github.com/cwbudde/algo-tuner/internal/testutil"
	"github.com/cwbudde/algo-tuner/measure/pitch"
)

func TestStreamSourceTone(t *testing.T) {
	const sr = beep.SampleRate(44100)

	tone, err := Tone(sr, 196, 0.6, WithDuration(200*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	src, err := NewStreamSource(tone, sr, 2048, 60)
	if err != nil {
		t.Fatal(err)
	}
	if src.Hop() != 735 {
		t.Fatalf("Hop() = %d, want 735", src.Hop())
	}
	if src.SampleRate() != 44100 {
		t.Fatalf("SampleRate() = %v", src.SampleRate())
	}

	window, err := src.Buffer()
	if err != nil {
		t.Fatal(err)
	}
	if src.Analyser().Written() != 2048 {
		t.Fatalf("first call wrote %d samples, want a full window", src.Analyser().Written())
	}

	hz, ok := pitch.Detect(window, src.SampleRate()).Hz()
	if !ok {
		t.Fatal("no pitch")
	}
	testutil.RequireWithinPercent(t, hz, 196, 1)

	// 8820 frames: 2048 on the first call, then 735 per call.
	calls := 1
	for {
		if _, err := src.Buffer(); err != nil {
			if err != io.EOF {
				t.Fatalf("Buffer() error = %v", err)
			}
			break
		}
		calls++
		if calls > 100 {
			t.Fatal("stream never ended")
		}
	}
	if want := 1 + 10; calls != want {
		t.Fatalf("calls = %d, want %d", calls, want)
	}
	if src.Analyser().Written() != 8820 {
		t.Fatalf("Written() = %d, want 8820", src.Analyser().Written())
	}

	if _, err := src.Buffer(); err != io.EOF {
		t.Fatalf("Buffer() after EOF = %v", err)
	}
}

type failingStreamer struct {
	err error
}

func (f failingStreamer) Stream([][2]float64) (int, bool) { return 0, false }
func (f failingStreamer) Err() error                      { return f.err }

func TestStreamSourceError(t *testing.T) {
	boom := errors.New("device unplugged")
	src, err := NewStreamSource(failingStreamer{err: boom}, 48000, 1024, 30)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := src.Buffer(); !errors.Is(err, boom) {
		t.Fatalf("Buffer() error = %v, want %v", err, boom)
	}
}

func TestStreamSourceInvalid(t *testing.T) {
	if _, err := NewStreamSource(beep.Silence(-1), 0, 1024, 60); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("error = %v, want ErrInvalidRate", err)
	}

	src, err := NewStreamSource(beep.Silence(-1), 1000, 16, 0)
	if err != nil {
		t.Fatal(err)
	}
	if src.Hop() != 17 {
		t.Fatalf("Hop() = %d, want 17 at the default frame rate", src.Hop())
	}
}
