// Package conv provides one-sided auto-correlation for periodicity analysis.
//
// For a signal x of length N the auto-correlation at lag k is
//
//	r[k] = Σ_{j=0}^{N-1-k} x[j] * x[j+k],  k = 0 .. N-1
//
// Two strategies compute the same sequence:
//
//   - Direct: O(N²) lag products, vectorised through algo-vecmath
//   - FFT: O(N log N) via the Wiener-Khinchin relation
//     r = IFFT(|FFT(x)|²) with zero padding to at least 2N-1 points
//
// # Usage
//
// Keep an [Autocorrelator] around in a loop that analyses one window per
// display frame, so that FFT plans and scratch memory are reused:
//
//	var ac conv.Autocorrelator
//	err := ac.Compute(dst, signal)                     // auto-selects the strategy
//	err = ac.ComputeWith(conv.MethodFFT, dst, signal)  // force FFT
//
// # Algorithm Selection
//
// [Autocorrelator.Compute] uses direct computation below
// [FFTThreshold] samples and the FFT above it. Both agree to within rounding
// (about 1e-12 relative to r[0] for windows of a few thousand samples).
//
// # Peaks
//
// [FindPeak] locates the largest value at or after a starting lag, which is
// how period detectors skip the zero-lag lobe.
package conv
