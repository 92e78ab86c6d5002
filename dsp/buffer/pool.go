package buffer

import "sync"

// Pool recycles scratch buffers whose length changes from call to call,
// such as the correlation of an edge-trimmed window. Buffers whose capacity
// exceeds the pool limit are dropped on Put.
type Pool struct {
	pool   sync.Pool
	maxLen int
}

// NewPoolLimit returns a Pool that keeps buffers with capacity up to maxLen
// samples. maxLen <= 0 means no limit.
func NewPoolLimit(maxLen int) *Pool {
	p := &Pool{maxLen: maxLen}
	p.pool.New = func() any { return new(Buffer) }
	return p
}

// Get returns a Buffer of length n with every sample zero. Return it with
// Put.
func (p *Pool) Get(n int) *Buffer {
	b := p.pool.Get().(*Buffer)
	b.Resize(n)
	b.Zero()
	return b
}

// Put hands b back. b must not be used afterwards. Nil and oversized
// buffers are discarded.
func (p *Pool) Put(b *Buffer) {
	if b == nil {
		return
	}
	if p.maxLen > 0 && cap(b.samples) > p.maxLen {
		return
	}
	p.pool.Put(b)
}
