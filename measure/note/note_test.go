package note

import (
	"errors"
	"math"
	"testing"
)

func TestFromFrequency(t *testing.T) {
	tests := []struct {
		freq   float64
		name   string
		number int
		cents  float64
		tol    float64
	}{
		{freq: 440, name: "A4", number: 57, cents: 0, tol: 1e-6},
		{freq: 440 * math.Pow(2, 1.0/12), name: "A♯4", number: 58, cents: 0, tol: 1e-6},
		{freq: 261.6255653005986, name: "C4", number: 48, cents: 0, tol: 1e-6},
		{freq: 880, name: "A5", number: 69, cents: 0, tol: 1e-6},
		{freq: 220, name: "A3", number: 45, cents: 0, tol: 1e-6},
		{freq: 82.40688922821748, name: "E2", number: 28, cents: 0, tol: 1e-6},
		{freq: 450, name: "A4", number: 57, cents: 38.906, tol: 1e-3},
		{freq: 430, name: "A4", number: 57, cents: -39.800, tol: 1e-3},
	}

	for _, tt := range tests {
		got, err := FromFrequency(tt.freq)
		if err != nil {
			t.Fatalf("FromFrequency(%v): %v", tt.freq, err)
		}
		if got.Name() != tt.name || got.Number != tt.number {
			t.Fatalf("FromFrequency(%v) = %s (%d), want %s (%d)", tt.freq, got.Name(), got.Number, tt.name, tt.number)
		}
		if math.Abs(got.Cents-tt.cents) > tt.tol {
			t.Fatalf("FromFrequency(%v) cents = %v, want %v", tt.freq, got.Cents, tt.cents)
		}
	}
}

func TestFromFrequencySlightlyFlat(t *testing.T) {
	got, err := FromFrequency(466)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name() != "A♯4" {
		t.Fatalf("name = %s, want A♯4", got.Name())
	}
	if got.Cents >= 0 || got.Cents < -5 {
		t.Fatalf("cents = %v, want small negative", got.Cents)
	}
}

func TestFromFrequencyOctaveBoundary(t *testing.T) {
	c4 := Frequency(48)

	below, err := FromFrequency(c4 * math.Pow(2, -0.6/12))
	if err != nil {
		t.Fatal(err)
	}
	if below.Name() != "B3" {
		t.Fatalf("just below C4 = %s, want B3", below.Name())
	}
	if below.Cents <= 0 {
		t.Fatalf("cents = %v, want sharp of B3", below.Cents)
	}

	at, err := FromFrequency(c4 * math.Pow(2, -0.4/12))
	if err != nil {
		t.Fatal(err)
	}
	if at.Name() != "C4" {
		t.Fatalf("slightly flat C4 = %s, want C4", at.Name())
	}
}

func TestFromFrequencyNegativeNumbers(t *testing.T) {
	tests := []struct {
		number int
		name   string
		class  int
		octave int
	}{
		{number: 0, name: "C0", class: 0, octave: 0},
		{number: -1, name: "B-1", class: 11, octave: -1},
		{number: -12, name: "C-1", class: 0, octave: -1},
		{number: -13, name: "B-2", class: 11, octave: -2},
		{number: -3, name: "A-1", class: 9, octave: -1},
	}

	for _, tt := range tests {
		got, err := FromFrequency(Frequency(tt.number))
		if err != nil {
			t.Fatalf("number %d: %v", tt.number, err)
		}
		if got.Number != tt.number || got.Class != tt.class || got.Octave != tt.octave {
			t.Fatalf("number %d: got %+v", tt.number, got)
		}
		if got.Name() != tt.name {
			t.Fatalf("number %d: name = %s, want %s", tt.number, got.Name(), tt.name)
		}
	}
}

func TestFromFrequencyCentsRange(t *testing.T) {
	for freq := 20.0; freq < 5000; freq *= 1.0137 {
		got, err := FromFrequency(freq)
		if err != nil {
			t.Fatal(err)
		}
		if got.Cents < -50-1e-9 || got.Cents > 50+1e-9 {
			t.Fatalf("%v Hz: cents %v out of range", freq, got.Cents)
		}
	}
}

func TestFromFrequencyInvalid(t *testing.T) {
	for _, freq := range []float64{0, -440, math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := FromFrequency(freq); !errors.Is(err, ErrInvalidFrequency) {
			t.Fatalf("FromFrequency(%v) error = %v, want ErrInvalidFrequency", freq, err)
		}
	}
}

func TestFrequency(t *testing.T) {
	if got := Frequency(ReferenceNumber); got != ReferenceFrequency {
		t.Fatalf("Frequency(57) = %v", got)
	}
	if got := Frequency(ReferenceNumber + 12); math.Abs(got-880) > 1e-9 {
		t.Fatalf("Frequency(69) = %v", got)
	}
	if got := Frequency(ReferenceNumber - 24); math.Abs(got-110) > 1e-9 {
		t.Fatalf("Frequency(33) = %v", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in     string
		number int
		name   string
	}{
		{in: "A4", number: 57, name: "A4"},
		{in: "A♯4", number: 58, name: "A♯4"},
		{in: "A#4", number: 58, name: "A♯4"},
		{in: "B♭4", number: 58, name: "A♯4"},
		{in: "Bb4", number: 58, name: "A♯4"},
		{in: " e2 ", number: 28, name: "E2"},
		{in: "C-1", number: -12, name: "C-1"},
		{in: "Cb4", number: 47, name: "B3"},
		{in: "B#3", number: 48, name: "C4"},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got.Number != tt.number || got.Name() != tt.name {
			t.Fatalf("Parse(%q) = %s (%d), want %s (%d)", tt.in, got.Name(), got.Number, tt.name, tt.number)
		}
		if got.Cents != 0 {
			t.Fatalf("Parse(%q) cents = %v", tt.in, got.Cents)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "H4", "A", "A♯", "4A", "A4.5", "Ax4"} {
		if _, err := Parse(in); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("Parse(%q) error = %v, want ErrInvalidName", in, err)
		}
	}
}

func TestString(t *testing.T) {
	n := Note{Class: 9, Octave: 4, Cents: -3.24}
	if got := n.String(); got != "A4 -3.2 ct" {
		t.Fatalf("String() = %q", got)
	}
}
