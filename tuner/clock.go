package tuner

import "time"

// DefaultFPS is the frame rate of the default clock.
const DefaultFPS = 60

// Clock signals display frames.
type Clock interface {
	Frames() <-chan time.Time
	Stop()
}

// FrameClock is a Clock backed by a time.Ticker.
type FrameClock struct {
	ticker *time.Ticker
}

// NewFrameClock returns a clock ticking fps times per second. Non-positive
// rates fall back to DefaultFPS.
func NewFrameClock(fps float64) *FrameClock {
	return &FrameClock{ticker: time.NewTicker(FrameInterval(fps))}
}

// Frames returns the frame channel.
func (c *FrameClock) Frames() <-chan time.Time {
	return c.ticker.C
}

// Stop stops the ticker. No frames are delivered afterwards.
func (c *FrameClock) Stop() {
	c.ticker.Stop()
}

// FrameInterval returns the duration of one frame at fps.
func FrameInterval(fps float64) time.Duration {
	if !(fps > 0) {
		fps = DefaultFPS
	}
	d := time.Duration(float64(time.Second) / fps)
	if d <= 0 {
		d = time.Nanosecond
	}
	return d
}
