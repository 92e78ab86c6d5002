package pitch

import (
	"fmt"
	"strconv"
)

// Estimate is the result of one estimation pass: either a positive finite
// frequency or no pitch. The zero value means no pitch.
type Estimate struct {
	hz float64
}

// NoPitch is the estimate of a window without a detectable fundamental.
var NoPitch = Estimate{}

// Hz returns the frequency and whether a pitch was detected.
func (e Estimate) Hz() (float64, bool) {
	return e.hz, e.hz > 0
}

// Detected reports whether the estimate carries a frequency.
func (e Estimate) Detected() bool {
	return e.hz > 0
}

// String formats the estimate as "440.00 Hz" or "no pitch".
func (e Estimate) String() string {
	if !e.Detected() {
		return "no pitch"
	}
	return strconv.FormatFloat(e.hz, 'f', 2, 64) + " Hz"
}

// Reason tells why a pass ended the way it did.
type Reason int

const (
	// ReasonDetected means a frequency was found.
	ReasonDetected Reason = iota

	// ReasonInvalidInput means the window was empty or the sample rate was
	// not a positive finite number.
	ReasonInvalidInput

	// ReasonSilent means the window RMS was below the loudness gate.
	ReasonSilent

	// ReasonTooShort means fewer than two samples survived trimming.
	ReasonTooShort

	// ReasonNoPeak means no correlation peak followed the zero-lag lobe.
	ReasonNoPeak

	// ReasonInvalidPeriod means the refined period was not positive.
	ReasonInvalidPeriod
)

// String returns a short name for the reason.
func (r Reason) String() string {
	switch r {
	case ReasonDetected:
		return "detected"
	case ReasonInvalidInput:
		return "invalid input"
	case ReasonSilent:
		return "silent"
	case ReasonTooShort:
		return "too short"
	case ReasonNoPeak:
		return "no peak"
	case ReasonInvalidPeriod:
		return "invalid period"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Analysis records the intermediate values of one pass. Fields past the
// step that ended the pass keep their zero values.
type Analysis struct {
	Estimate Estimate
	Reason   Reason

	// RMS of the whole window.
	RMS float64

	// Start and End delimit the trimmed window [Start, End).
	Start int
	End   int

	// Descent is the first lag after the zero-lag lobe.
	Descent int

	// Peak is the integer lag of the correlation maximum, -1 if none.
	Peak int

	// Period is the refined period in samples.
	Period float64
}
