package tuner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-tuner/measure/note"
)

// ErrRunning is returned by Run when the loop is already running.
var ErrRunning = errors.New("tuner: loop already running")

// Loop runs one estimation pass per display frame.
type Loop struct {
	src Source
	out Renderer
	cfg config

	ticks   atomic.Uint64
	running atomic.Bool

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	err      error
	stopOnce sync.Once
}

// New returns a loop reading from src and rendering to r.
func New(src Source, r Renderer, opts ...Option) *Loop {
	return &Loop{
		src: src,
		out: r,
		cfg: applyOptions(opts...),
	}
}

// Ticks returns the number of completed ticks.
func (l *Loop) Ticks() uint64 {
	return l.ticks.Load()
}

// Tick performs one pass now: read a window, estimate, map and render.
func (l *Loop) Tick() (Reading, error) {
	return l.tick(time.Now())
}

func (l *Loop) tick(now time.Time) (Reading, error) {
	samples, err := l.src.Buffer()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Reading{Time: now}, io.EOF
		}
		return Reading{Time: now}, fmt.Errorf("tuner: source: %w", err)
	}

	r := l.read(samples, now)
	if err := l.out.Render(r); err != nil {
		return r, fmt.Errorf("tuner: render: %w", err)
	}

	n := l.ticks.Add(1)
	l.cfg.logger.Debug("tick",
		"n", n,
		"detected", r.Detected,
		"hz", r.Frequency,
		"note", noteName(r),
		"cents", r.Note.Cents,
		"reason", r.Reason.String(),
	)
	return r, nil
}

func (l *Loop) read(samples []float64, now time.Time) Reading {
	a := l.cfg.estimator.Analyze(samples, l.src.SampleRate())
	r := Reading{
		Level:  a.RMS,
		Reason: a.Reason,
		Time:   now,
	}

	hz, ok := a.Estimate.Hz()
	if !ok {
		return r
	}

	var nt note.Note
	if t := l.cfg.target; t != nil {
		nt = *t
		nt.Cents = 1200 * math.Log2(hz/nt.Standard)
	} else {
		var err error
		if nt, err = note.FromFrequency(hz); err != nil {
			return r
		}
	}

	r.Detected = true
	r.Frequency = hz
	r.Note = nt
	return r
}

func noteName(r Reading) string {
	if !r.Detected {
		return ""
	}
	return r.Note.Name()
}

// Run ticks on every frame until ctx is cancelled or the source reports
// io.EOF, both of which return nil. Source and render errors end the run
// and are returned. The clock is stopped on return.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer l.running.Store(false)

	clock := l.cfg.clock
	if clock == nil {
		clock = NewFrameClock(l.cfg.fps)
	}
	defer clock.Stop()

	log := l.cfg.logger
	log.Info("tuner started", "sample_rate", l.src.SampleRate())

	frames := clock.Frames()
	for {
		select {
		case <-ctx.Done():
			log.Info("tuner stopped", "ticks", l.Ticks())
			return nil

		case t, ok := <-frames:
			if !ok {
				log.Info("tuner clock closed", "ticks", l.Ticks())
				return nil
			}
			if ctx.Err() != nil {
				log.Info("tuner stopped", "ticks", l.Ticks())
				return nil
			}

			if _, err := l.tick(t); err != nil {
				if errors.Is(err, io.EOF) {
					log.Info("tuner source exhausted", "ticks", l.Ticks())
					return nil
				}
				log.Error("tuner failed", "err", err)
				return err
			}
		}
	}
}

// Start runs the loop in a goroutine. Calls after the first are no-ops.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done

	go func() {
		defer close(done)
		defer cancel()
		l.err = l.Run(ctx)
	}()
}

// Stop cancels a loop started with Start and waits for the pending tick to
// finish. It is safe to call more than once.
func (l *Loop) Stop() error {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()

	if cancel == nil {
		return nil
	}
	l.stopOnce.Do(cancel)
	return l.Wait()
}

// Wait blocks until a loop started with Start has returned and reports its
// result. It returns nil immediately if the loop was never started.
func (l *Loop) Wait() error {
	l.mu.Lock()
	done := l.done
	l.mu.Unlock()

	if done == nil {
		return nil
	}
	<-done
	return l.err
}
