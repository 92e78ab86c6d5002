// Package pitch estimates the fundamental frequency of a short mono window
// by time-domain auto-correlation.
//
// One estimation pass over a window x of N samples at sample rate fs:
//
//  1. Loudness gate: the RMS of x must reach the configured threshold
//     (default 0.01), otherwise the window is treated as silence.
//  2. Edge trimming: the window is cut to start at the first sample in the
//     first half whose magnitude is below the trim threshold (default 0.2)
//     and to end at the last such sample in the second half.
//  3. Auto-correlation c[k] of the trimmed window (see package conv).
//  4. Descent: lags are skipped while c keeps falling from its zero-lag
//     maximum.
//  5. Peak search: the largest c[k] from the end of the descent on.
//  6. Parabolic refinement of the peak lag T0 (skipped when the peak sits on
//     the first or last lag).
//  7. Result: fs / T0.
//
// Absence of pitch is an ordinary outcome (silence between notes), so it is
// reported by the zero [Estimate] rather than by an error:
//
//	est := pitch.NewEstimator()
//	if hz, ok := est.Estimate(window, 44100).Hz(); ok {
//	    fmt.Printf("%.2f Hz\n", hz)
//	}
//
// [Estimator.Analyze] additionally exposes the intermediate values of a pass
// for diagnostics.
//
// # Performance
//
// The auto-correlation dominates: O(M²) directly, O(M log M) with the FFT.
// [MethodAuto] switches to the FFT for trimmed windows of 512 samples and
// more, which keeps a 2048-sample window well below one display frame.
//
// An Estimator holds only its configuration and a pool of scratch memory; it
// is safe for concurrent use and the same input always yields the same
// result.
package pitch
