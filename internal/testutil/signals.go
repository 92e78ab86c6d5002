package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	return DeterministicSinePhase(freqHz, sampleRate, amplitude, 0, length)
}

// DeterministicSinePhase generates a sine wave starting at phase radians.
func DeterministicSinePhase(freqHz, sampleRate, amplitude, phase float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i)+phase)
	}
	return out
}

// DeterministicHarmonics generates a tone with partials at integer multiples
// of freqHz; amplitudes[k] is the amplitude of partial k+1.
func DeterministicHarmonics(freqHz, sampleRate float64, amplitudes []float64, length int) []float64 {
	out := make([]float64, length)
	for k, a := range amplitudes {
		step := 2 * math.Pi * freqHz * float64(k+1) / sampleRate
		for i := range out {
			out[i] += a * math.Sin(step*float64(i))
		}
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}
