package conv

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tuner/dsp/core"
)

// Errors returned by correlation functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
)

// FFTThreshold is the signal length from which automatic selection switches
// from direct computation to the FFT.
const FFTThreshold = 512

// minFFTLen is the shortest input the FFT path handles itself; shorter
// inputs are computed directly.
const minFFTLen = 8

// Method selects how an auto-correlation is computed.
type Method int

const (
	// MethodAuto picks direct or FFT computation by input length.
	MethodAuto Method = iota

	// MethodDirect always computes lag products directly.
	MethodDirect

	// MethodFFT always uses the FFT.
	MethodFFT
)

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodAuto:
		return "auto"
	case MethodDirect:
		return "direct"
	case MethodFFT:
		return "fft"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod resolves a method name as returned by String.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "auto", "":
		return MethodAuto, nil
	case "direct":
		return MethodDirect, nil
	case "fft":
		return MethodFFT, nil
	default:
		return MethodAuto, fmt.Errorf("conv: unknown correlation method %q", name)
	}
}

// Autocorrelator computes one-sided auto-correlations while reusing its FFT
// plan and scratch memory between calls. The zero value is ready for use.
// An Autocorrelator is not safe for concurrent use.
type Autocorrelator struct {
	fftSize int
	plan    *algofft.Plan[complex128]
	bins    []complex128
	re      []float64
	im      []float64
	prod    []float64
}

// Compute writes the auto-correlation of x into dst using automatic method
// selection. dst must have the same length as x.
func (a *Autocorrelator) Compute(dst, x []float64) error {
	return a.ComputeWith(MethodAuto, dst, x)
}

// ComputeWith writes the auto-correlation of x into dst using method m.
func (a *Autocorrelator) ComputeWith(m Method, dst, x []float64) error {
	switch m {
	case MethodDirect:
		return a.Direct(dst, x)
	case MethodFFT:
		return a.FFT(dst, x)
	default:
		if len(x) < FFTThreshold {
			return a.Direct(dst, x)
		}
		return a.FFT(dst, x)
	}
}

// Direct computes the auto-correlation lag by lag.
func (a *Autocorrelator) Direct(dst, x []float64) error {
	n, err := checkLengths(dst, x)
	if err != nil {
		return err
	}

	a.prod = core.EnsureLen(a.prod, n)
	for lag := 0; lag < n; lag++ {
		m := n - lag
		p := a.prod[:m]
		vecmath.MulBlock(p, x[:m], x[lag:])

		var sum float64
		for _, v := range p {
			sum += v
		}
		dst[lag] = sum
	}

	return nil
}

// FFT computes the auto-correlation as the inverse transform of the power
// spectrum of the zero-padded input. Inputs shorter than a few samples are
// computed directly.
func (a *Autocorrelator) FFT(dst, x []float64) error {
	n, err := checkLengths(dst, x)
	if err != nil {
		return err
	}
	if n < minFFTLen {
		return a.Direct(dst, x)
	}

	// Padding to 2N-1 keeps the circular correlation free of wrap-around
	// for every lag in [0, N).
	if err := a.ensurePlan(core.NextPowerOf2(2*n - 1)); err != nil {
		return err
	}

	for i := range a.bins {
		a.bins[i] = 0
	}
	for i, v := range x {
		a.bins[i] = complex(v, 0)
	}

	if err := a.plan.Forward(a.bins, a.bins); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	for i, c := range a.bins {
		a.re[i] = real(c)
		a.im[i] = imag(c)
	}
	vecmath.Power(a.re, a.re, a.im)
	for i, p := range a.re {
		a.bins[i] = complex(p, 0)
	}

	if err := a.plan.Inverse(a.bins, a.bins); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	for i := range dst {
		dst[i] = real(a.bins[i])
	}

	return nil
}

func (a *Autocorrelator) ensurePlan(size int) error {
	if a.plan != nil && a.fftSize == size {
		return nil
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	a.plan = plan
	a.fftSize = size
	a.bins = make([]complex128, size)
	a.re = make([]float64, size)
	a.im = make([]float64, size)
	return nil
}

func checkLengths(dst, x []float64) (int, error) {
	if len(x) == 0 {
		return 0, ErrEmptyInput
	}
	if len(dst) != len(x) {
		return 0, ErrLengthMismatch
	}
	return len(x), nil
}

// FindPeak returns the index and value of the first maximum of corr at or
// after index from. It returns -1 when from is outside corr.
func FindPeak(corr []float64, from int) (index int, value float64) {
	if from < 0 {
		from = 0
	}
	if from >= len(corr) {
		return -1, 0
	}

	index = from
	value = corr[from]

	for i := from + 1; i < len(corr); i++ {
		if corr[i] > value {
			index = i
			value = corr[i]
		}
	}

	return index, value
}
