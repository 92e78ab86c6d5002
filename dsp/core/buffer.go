package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// Widen converts float32 samples to float64, reusing dst capacity.
// Capture backends and the browser deliver float32; the analysis path works
// in float64.
func Widen(dst []float64, src []float32) []float64 {
	dst = EnsureLen(dst, len(src))
	for i, v := range src {
		dst[i] = float64(v)
	}
	return dst
}

// MixToMono averages interleaved stereo frames into dst, reusing its
// capacity.
func MixToMono(dst []float64, frames [][2]float64) []float64 {
	dst = EnsureLen(dst, len(frames))
	for i, f := range frames {
		dst[i] = (f[0] + f[1]) / 2
	}
	return dst
}
