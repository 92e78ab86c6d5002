package buffer

import "sync"

// Ring keeps the most recent Size() samples written to it.
//
// Writes and snapshots may come from different goroutines; a snapshot is
// always a private copy, so the reader can analyse it while the writer keeps
// appending.
type Ring struct {
	mu      sync.Mutex
	data    []float64
	pos     int
	written uint64
}

// NewRing returns a Ring holding size samples. size <= 0 yields a ring of
// one sample.
func NewRing(size int) *Ring {
	if size <= 0 {
		size = 1
	}
	return &Ring{data: make([]float64, size)}
}

// Size returns the ring capacity in samples.
func (r *Ring) Size() int {
	return len(r.data)
}

// Written returns the total number of samples written since creation or the
// last Reset.
func (r *Ring) Written() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Write appends samples, overwriting the oldest ones once full.
func (r *Ring) Write(samples []float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := len(r.data)
	if len(samples) >= size {
		copy(r.data, samples[len(samples)-size:])
		r.pos = 0
		r.written += uint64(len(samples))
		return
	}

	n := copy(r.data[r.pos:], samples)
	if n < len(samples) {
		copy(r.data, samples[n:])
	}
	r.pos = (r.pos + len(samples)) % size
	r.written += uint64(len(samples))
}

// Snapshot copies the ring contents into dst in chronological order (oldest
// first) and returns it, reusing dst capacity. Slots never written read as
// zero and come first.
func (r *Ring) Snapshot(dst []float64) []float64 {
	size := len(r.data)
	if cap(dst) >= size {
		dst = dst[:size]
	} else {
		dst = make([]float64, size)
	}

	r.mu.Lock()
	n := copy(dst, r.data[r.pos:])
	copy(dst[n:], r.data[:r.pos])
	r.mu.Unlock()

	return dst
}

// Reset clears the ring.
func (r *Ring) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.data {
		r.data[i] = 0
	}
	r.pos = 0
	r.written = 0
}
