package conv

import (
	"fmt"
	"testing"

	"github.com/cwbudde/algo-tuner/internal/testutil"
)

func BenchmarkAutocorrelator(b *testing.B) {
	for _, n := range []int{256, 1024, 2048, 4096} {
		x := testutil.DeterministicSine(440, 44100, 0.5, n)
		dst := make([]float64, n)

		b.Run(fmt.Sprintf("direct/n=%d", n), func(b *testing.B) {
			var ac Autocorrelator
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = ac.Direct(dst, x)
			}
		})

		b.Run(fmt.Sprintf("fft/n=%d", n), func(b *testing.B) {
			var ac Autocorrelator
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = ac.FFT(dst, x)
			}
		})
	}
}
