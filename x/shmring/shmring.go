// Package shmring is a single-producer, single-consumer byte ring shared
// between an interrupt handler (producer) and the code draining it.
package shmring

import "sync/atomic"

// Ring is a power-of-two byte ring. Indices run freely and are masked on
// access, so Available never needs a separate full flag.
type Ring struct {
	buf  []byte
	mask uint32
	rd   atomic.Uint32 // consumer index (monotonic)
	wr   atomic.Uint32 // producer index (monotonic)

	drops    atomic.Uint32
	readable chan struct{} // 0 -> >0 available edge
}

// New returns a ring of size bytes; size must be a power of two >= 2.
func New(size int) *Ring {
	if size < 2 || (size&(size-1)) != 0 {
		panic("shmring: size must be power of two >= 2")
	}
	return &Ring{
		buf:      make([]byte, size),
		mask:     uint32(size - 1),
		readable: make(chan struct{}, 1),
	}
}

func (r *Ring) size() uint32 { return uint32(len(r.buf)) }

// Available returns the number of bytes ready to read.
func (r *Ring) Available() int { return int(r.wr.Load() - r.rd.Load()) }

// Drops returns how many bytes Put refused because the ring was full.
func (r *Ring) Drops() uint32 { return r.drops.Load() }

// Put appends one byte. It never blocks, so it is safe in an interrupt
// handler; a full ring drops the byte and counts it.
func (r *Ring) Put(b byte) bool {
	rd := r.rd.Load()
	wr := r.wr.Load()
	if wr-rd == r.size() {
		r.drops.Add(1)
		return false
	}
	r.buf[wr&r.mask] = b
	r.wr.Store(wr + 1) // publish
	if wr == rd {
		r.notify()
	}
	return true
}

// Get removes one byte.
func (r *Ring) Get() (byte, bool) {
	rd := r.rd.Load()
	if r.wr.Load() == rd {
		return 0, false
	}
	b := r.buf[rd&r.mask]
	r.rd.Store(rd + 1)
	return b, true
}

// ReadInto moves up to len(dst) bytes out of the ring.
func (r *Ring) ReadInto(dst []byte) (n int) {
	if len(dst) == 0 {
		return 0
	}
	rd := r.rd.Load()
	wr := r.wr.Load() // acquire
	n = int(wr - rd)
	if n <= 0 {
		return 0
	}
	if len(dst) < n {
		n = len(dst)
	}

	rdIdx := rd & r.mask
	first := int(r.size() - rdIdx)
	if first > n {
		first = n
	}
	copy(dst[:first], r.buf[rdIdx:rdIdx+uint32(first)])
	if second := n - first; second > 0 {
		copy(dst[first:n], r.buf[:second])
	}
	r.rd.Store(rd + uint32(n)) // release
	return n
}

// Readable delivers a token each time the ring goes from empty to non-empty.
func (r *Ring) Readable() <-chan struct{} { return r.readable }

func (r *Ring) notify() {
	select {
	case r.readable <- struct{}{}:
	default:
	}
}
