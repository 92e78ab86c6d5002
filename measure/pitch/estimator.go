package pitch

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-tuner/dsp/buffer"
	"github.com/cwbudde/algo-tuner/dsp/conv"
	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/interp"
)

// maxPooledWindow bounds the correlation scratch kept between passes.
const maxPooledWindow = 1 << 16

// Estimator detects the fundamental frequency of mono windows.
type Estimator struct {
	cfg Config

	corr  *buffer.Pool
	plans sync.Pool
}

// NewEstimator returns an Estimator with default calibration adjusted by
// opts.
func NewEstimator(opts ...Option) *Estimator {
	return &Estimator{
		cfg:  ApplyOptions(opts...),
		corr: buffer.NewPoolLimit(maxPooledWindow),
		plans: sync.Pool{
			New: func() any {
				return new(conv.Autocorrelator)
			},
		},
	}
}

// Config returns the estimator calibration.
func (e *Estimator) Config() Config {
	return e.cfg
}

// Estimate returns the fundamental frequency of samples recorded at
// sampleRate, or NoPitch.
func (e *Estimator) Estimate(samples []float64, sampleRate float64) Estimate {
	return e.Analyze(samples, sampleRate).Estimate
}

// Analyze runs one estimation pass and reports its intermediate values.
func (e *Estimator) Analyze(samples []float64, sampleRate float64) Analysis {
	res := Analysis{Peak: -1}

	if len(samples) == 0 || !(sampleRate > 0) || !core.IsFinite(sampleRate) {
		res.Reason = ReasonInvalidInput
		return res
	}

	res.RMS = rms(samples)
	if !core.IsFinite(res.RMS) {
		res.Reason = ReasonInvalidInput
		return res
	}
	if res.RMS < e.cfg.RMSThreshold || res.RMS == 0 {
		res.Reason = ReasonSilent
		return res
	}

	res.Start, res.End = trim(samples, e.cfg.TrimThreshold)
	window := samples[res.Start:res.End]
	m := len(window)
	if m < 2 {
		res.Reason = ReasonTooShort
		return res
	}

	cb := e.corr.Get(m)
	defer e.corr.Put(cb)
	c := cb.Samples()

	ac := e.plans.Get().(*conv.Autocorrelator)
	err := ac.ComputeWith(e.cfg.Method, c, window)
	e.plans.Put(ac)
	if err != nil {
		res.Reason = ReasonInvalidInput
		return res
	}

	res.Descent, res.Peak, res.Period = period(c)
	if res.Peak < 0 {
		res.Reason = ReasonNoPeak
		return res
	}
	if !(res.Period > 0) {
		res.Reason = ReasonInvalidPeriod
		return res
	}

	hz := sampleRate / res.Period
	if !core.IsFinite(hz) || hz <= 0 {
		res.Reason = ReasonInvalidPeriod
		return res
	}

	res.Estimate = Estimate{hz: hz}
	res.Reason = ReasonDetected
	return res
}

// Detect estimates the pitch of samples with the default calibration.
func Detect(samples []float64, sampleRate float64) Estimate {
	return defaultEstimator.Estimate(samples, sampleRate)
}

var defaultEstimator = NewEstimator()

// period locates the first correlation maximum past the zero-lag lobe of c
// and refines it. A peak on the first or last lag is not interpolated.
func period(c []float64) (descent, peak int, t0 float64) {
	for descent+1 < len(c) && c[descent] > c[descent+1] {
		descent++
	}

	peak, _ = conv.FindPeak(c, descent)
	if peak < 0 {
		return descent, -1, 0
	}
	return descent, peak, interp.RefinePeak(c, peak)
}

func rms(x []float64) float64 {
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// trim returns the bounds [start, end) of x cut at the first quiet sample in
// each half. Without a quiet sample in the second half the end stays at
// len(x)-1.
func trim(x []float64, threshold float64) (start, end int) {
	n := len(x)
	half := n / 2

	for i := 0; i < half; i++ {
		if math.Abs(x[i]) < threshold {
			start = i
			break
		}
	}

	end = n - 1
	for i := 1; i < half; i++ {
		if math.Abs(x[n-i]) < threshold {
			end = n - i
			break
		}
	}

	if end < start {
		end = start
	}
	return start, end
}
