// Package note maps frequencies to equal-tempered note names.
//
// The reference is A4 = 440 Hz with twelve semitones per octave. Notes are
// numbered chromatically from C0 = 0, so A4 is 57 and C4 is 48; numbers below
// zero name notes in negative octaves. Pitch classes are spelled with sharps.
package note
