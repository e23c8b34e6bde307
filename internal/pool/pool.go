// Package pool recycles the scratch buffers a sweep allocates on every
// declaration: the token pattern bytes, the extras list and the per-spec
// argument counts produced by the matcher.
package pool

import (
	"sync"
)

// Pool is a type-safe wrapper around sync.Pool with an optional reset hook.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T)
}

// New creates a pool backed by factory.
func New[T any](factory func() *T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any { return factory() },
		},
	}
}

// NewWithReset creates a pool that calls reset on every object handed out.
func NewWithReset[T any](factory func() *T, reset func(*T)) *Pool[T] {
	p := New(factory)
	p.reset = reset
	return p
}

// Get returns a pooled object or a fresh one.
func (p *Pool[T]) Get() *T {
	obj := p.pool.Get().(*T)
	if p.reset != nil {
		p.reset(obj)
	}
	return obj
}

// Put hands obj back to the pool. Nil is ignored.
func (p *Pool[T]) Put(obj *T) {
	if obj == nil {
		return
	}
	p.pool.Put(obj)
}

// maxRetained caps the capacity of slices returned to the pools so one huge
// command line does not pin memory for the rest of the process.
const maxRetained = 4096

func newSlicePool[E any](capacity int) *Pool[[]E] {
	return NewWithReset(
		func() *[]E {
			s := make([]E, 0, capacity)
			return &s
		},
		func(s *[]E) {
			*s = (*s)[:0]
		},
	)
}

var (
	buffers = newSlicePool[byte](64)
	strs    = newSlicePool[string](16)
	ints    = newSlicePool[int](16)
)

// GetBuffer returns an empty byte buffer (token patterns, log lines).
func GetBuffer() *[]byte { return buffers.Get() }

// PutBuffer recycles a byte buffer.
func PutBuffer(b *[]byte) {
	if b != nil && cap(*b) <= maxRetained {
		buffers.Put(b)
	}
}

// GetStrings returns an empty string slice.
func GetStrings() *[]string { return strs.Get() }

// PutStrings recycles a string slice. Elements are cleared so the pool does
// not keep argument strings alive.
func PutStrings(s *[]string) {
	if s == nil || cap(*s) > maxRetained {
		return
	}
	clear((*s)[:cap(*s)])
	strs.Put(s)
}

// GetInts returns an empty int slice.
func GetInts() *[]int { return ints.Get() }

// PutInts recycles an int slice.
func PutInts(s *[]int) {
	if s != nil && cap(*s) <= maxRetained {
		ints.Put(s)
	}
}
