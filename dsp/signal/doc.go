// Package signal generates deterministic test tones: sines, harmonic
// series, detuned sines and seeded noise.
package signal
