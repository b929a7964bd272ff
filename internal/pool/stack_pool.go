// Package pool provides pooled storage for the per-extraction stacks and the
// batch encoder's scratch buffers.
package pool

import "sync"

// StackPool pools slices used as bounded LIFO stacks. Each Get hands out a
// private, unshared slice; many extraction contexts may rent and return
// concurrently.
type StackPool[T any] struct {
	pool sync.Pool
}

// NewStackPool creates an empty pool of []T stacks.
func NewStackPool[T any]() *StackPool[T] {
	return &StackPool[T]{
		pool: sync.Pool{
			New: func() any {
				s := make([]T, 0)
				return &s
			},
		},
	}
}

// Get rents a zero-length stack with at least the requested capacity.
func (p *StackPool[T]) Get(capacity int) []T {
	ptr, _ := p.pool.Get().(*[]T)
	s := (*ptr)[:0]
	if cap(s) < capacity {
		s = make([]T, 0, capacity)
	}

	return s
}

// Put returns a rented stack to the pool. used is the high-water mark of the
// stack; only that portion is cleared, so stale node references are dropped
// without touching untouched capacity.
func (p *StackPool[T]) Put(s []T, used int) {
	if used > cap(s) {
		used = cap(s)
	}
	clear(s[:used])
	s = s[:0]
	p.pool.Put(&s)
}
