// Package bufpool implements a fixed-size, reusable byte buffer pool
// with scoped acquire/release handles, used by the session's I/O loop
// to avoid a per-read allocation on the hot path.
//
// Construction takes a buffer size and an initial count; the pool
// pre-allocates that many buffers up front. Acquire never blocks:
// when the free list is empty it allocates one more buffer, which is
// still returned to the pool on Release — the pool only grows, it
// never shrinks. All bookkeeping happens under a single mutex whose
// critical sections are O(1), per spec.md §4.4.
package bufpool

import (
	"sync"

	"github.com/eapache/queue"
)

// Pool hands out fixed-size byte buffers and recycles them on
// release.
type Pool struct {
	mu        sync.Mutex
	free      *queue.Queue // holds []byte, each of length bufferSize
	allocated int
	bufSize   int
}

// New constructs a Pool pre-allocating initialCount buffers of
// bufferSize bytes each.
func New(bufferSize, initialCount int) *Pool {
	if bufferSize <= 0 {
		bufferSize = 4096
	}
	p := &Pool{
		free:    queue.New(),
		bufSize: bufferSize,
	}
	for i := 0; i < initialCount; i++ {
		p.free.Add(make([]byte, bufferSize))
		p.allocated++
	}
	return p
}

// BufferSize returns the fixed size of buffers handed out by this
// pool.
func (p *Pool) BufferSize() int {
	return p.bufSize
}

// Available returns the number of buffers currently sitting in the
// free list, for diagnostics and tests.
func (p *Pool) Available() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.free.Length()
}

// Allocated returns the total number of buffers the pool has ever
// allocated, including the initial count and any grow-on-exhaustion
// allocations.
func (p *Pool) Allocated() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allocated
}

// Acquire returns a scoped Buffer handle backed by a free buffer, or a
// freshly allocated one if the pool is exhausted. The caller must call
// Release on the returned handle exactly once when done; Release
// returns the backing storage to the pool.
func (p *Pool) Acquire() *Buffer {
	p.mu.Lock()
	var data []byte
	if p.free.Length() > 0 {
		data = p.free.Remove().([]byte)
	} else {
		data = make([]byte, p.bufSize)
		p.allocated++
	}
	p.mu.Unlock()

	return &Buffer{pool: p, data: data[:p.bufSize]}
}

func (p *Pool) release(data []byte) {
	p.mu.Lock()
	p.free.Add(data[:p.bufSize])
	p.mu.Unlock()
}

// Buffer is a scoped handle over a pooled byte slice. It must not be
// used after Release.
type Buffer struct {
	pool     *Pool
	data     []byte
	released bool
}

// Bytes returns the full-capacity backing slice.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Release returns the buffer to its pool. Safe to call more than
// once; only the first call has effect.
func (b *Buffer) Release() {
	if b.released {
		return
	}
	b.released = true
	b.pool.release(b.data)
}
