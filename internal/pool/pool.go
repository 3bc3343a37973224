// Package pool provides object pooling for the getopt renderers.
// The usage, JSON and XML renderers borrow their scratch buffers here.
package pool

import (
	"bytes"
	"sync"
)

// Pool provides a generic, type-safe object pool
type Pool[T any] struct {
	pool   sync.Pool
	reset  func(*T)      // Optional reset function called before reuse
	accept func(*T) bool // Optional filter deciding whether Put keeps an object
}

// NewPool creates a new generic pool with the given factory function
func NewPool[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return factory()
			},
		},
	}
}

// NewPoolWithReset creates a pool with a reset function called before reuse
func NewPoolWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := NewPool(factory)
	p.reset = reset
	return p
}

// Get retrieves an object from the pool or creates a new one
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put returns an object to the pool for reuse
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	if p.accept != nil && !p.accept(obj) {
		return
	}
	p.pool.Put(obj)
}

// maxBufferCap bounds the buffers kept for reuse; a usage message for a few
// hundred options stays well below it.
const maxBufferCap = 64 << 10

// Buffers is the shared pool of render buffers.
var Buffers = newBufferPool()

func newBufferPool() *Pool[bytes.Buffer] {
	p := NewPoolWithReset(
		func() *bytes.Buffer { return new(bytes.Buffer) },
		func(b *bytes.Buffer) { b.Reset() },
	)
	p.accept = func(b *bytes.Buffer) bool { return b.Cap() <= maxBufferCap }
	return p
}

// GetBuffer retrieves an empty buffer
func GetBuffer() *bytes.Buffer {
	return Buffers.Get()
}

// PutBuffer returns a buffer to the shared pool. Oversized buffers are dropped.
func PutBuffer(b *bytes.Buffer) {
	Buffers.Put(b)
}
