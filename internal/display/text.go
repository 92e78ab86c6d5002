package display

import (
	"fmt"
	"io"

	"github.com/cwbudde/algo-tuner/tuner"
)

// NoSignal is shown for readings without a pitch.
const NoSignal = "--"

// Text writes one line per changed reading.
type Text struct {
	w    io.Writer
	last string
}

// NewText returns a renderer writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: w}
}

// Render writes r unless it formats the same as the previous reading.
func (t *Text) Render(r tuner.Reading) error {
	line := Line(r)
	if line == t.last {
		return nil
	}
	t.last = line
	_, err := fmt.Fprintln(t.w, line)
	return err
}

// Line formats a reading, e.g. "A4     440.00 Hz   +0.0 ct  [in tune]".
func Line(r tuner.Reading) string {
	if r.NoSignal() {
		return NoSignal
	}
	return fmt.Sprintf("%-5s %7.2f Hz %+6.1f ct  [%s]", r.Note.Name(), r.Frequency, r.Note.Cents, Status(r))
}

// Status classifies a reading as "in tune", "flat" or "sharp".
func Status(r tuner.Reading) string {
	switch {
	case r.NoSignal():
		return "no signal"
	case r.InTune():
		return "in tune"
	case r.Note.Cents < 0:
		return "flat"
	default:
		return "sharp"
	}
}
