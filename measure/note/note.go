package note

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidFrequency is returned for frequencies that are not positive and
// finite.
var ErrInvalidFrequency = errors.New("note: frequency must be positive and finite")

// ErrInvalidName is returned by Parse for unrecognized note names.
var ErrInvalidName = errors.New("note: invalid note name")

const (
	// ReferenceFrequency is the standard pitch of A4.
	ReferenceFrequency = 440.0

	// ReferenceNumber is the chromatic number of A4.
	ReferenceNumber = 57

	semitones = 12
)

var classNames = [semitones]string{"C", "C♯", "D", "D♯", "E", "F", "F♯", "G", "G♯", "A", "A♯", "B"}

// Note is the nearest equal-tempered note to a measured frequency.
type Note struct {
	// Number is the chromatic note number, C0 = 0.
	Number int

	// Class is the pitch class, 0 = C through 11 = B.
	Class int

	Octave int

	// Standard is the exact frequency of the note.
	Standard float64

	// Cents is the signed deviation of the measured frequency from Standard;
	// positive is sharp.
	Cents float64
}

// FromFrequency returns the note nearest to freq.
func FromFrequency(freq float64) (Note, error) {
	if !(freq > 0) || math.IsInf(freq, 1) {
		return Note{}, ErrInvalidFrequency
	}

	n := semitones * math.Log2(freq/ReferenceFrequency)
	nt := FromNumber(int(math.Round(n)) + ReferenceNumber)
	nt.Cents = 1200 * math.Log2(freq/nt.Standard)
	return nt, nil
}

// FromNumber returns the note with chromatic number number and zero cents.
func FromNumber(number int) Note {
	return Note{
		Number:   number,
		Class:    mod(number, semitones),
		Octave:   floorDiv(number, semitones),
		Standard: Frequency(number),
	}
}

// Frequency returns the standard frequency of chromatic number number.
func Frequency(number int) float64 {
	return ReferenceFrequency * math.Pow(2, float64(number-ReferenceNumber)/semitones)
}

// PitchClass returns the sharp spelling of the pitch class, e.g. "A♯".
func (n Note) PitchClass() string {
	return classNames[mod(n.Class, semitones)]
}

// Name returns pitch class and octave, e.g. "A♯4".
func (n Note) Name() string {
	return n.PitchClass() + strconv.Itoa(n.Octave)
}

// String returns the name followed by the signed cents deviation.
func (n Note) String() string {
	return fmt.Sprintf("%s %+.1f ct", n.Name(), n.Cents)
}

// Parse resolves a note name such as "A4", "A♯4", "A#4", "B♭3" or "Bb3".
func Parse(name string) (Note, error) {
	s := strings.TrimSpace(name)
	if s == "" {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	class := strings.Index("C D EF G A B", strings.ToUpper(s[:1]))
	if class < 0 {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	s = s[1:]

	switch {
	case strings.HasPrefix(s, "♯"):
		class++
		s = s[len("♯"):]
	case strings.HasPrefix(s, "#"):
		class++
		s = s[1:]
	case strings.HasPrefix(s, "♭"):
		class--
		s = s[len("♭"):]
	case strings.HasPrefix(s, "b"):
		class--
		s = s[1:]
	}

	octave, err := strconv.Atoi(s)
	if err != nil {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return FromNumber(octave*semitones + class), nil
}

func mod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
