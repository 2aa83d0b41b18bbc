// Package pool shares a fixed set of exclusive resources, such as model
// replicas bound to compute devices, between concurrent callers.
//
// Acquisition starts at a rotating index and takes the first free resource
// in round-robin order. When every resource is held it blocks on the
// resource at the starting index. The policy spreads load but is not FIFO:
// a waiter can be overtaken by a later caller that finds another resource
// free. A blocked Acquire waits until its resource is released; it cannot be
// cancelled.
package pool

import (
	"errors"
	"sync"
)

// ErrNoResources is returned when a pool is created without resources
var ErrNoResources = errors.New("pool: no resources")

type slot[T any] struct {
	mu       sync.Mutex
	resource T
}

// Pool hands out exclusive access to one of K resources
type Pool[T any] struct {
	slots []*slot[T]

	indexMu sync.Mutex
	next    int
}

// New creates a pool over the given resources
func New[T any](resources ...T) (*Pool[T], error) {
	if len(resources) == 0 {
		return nil, ErrNoResources
	}
	slots := make([]*slot[T], len(resources))
	for i, r := range resources {
		slots[i] = &slot[T]{resource: r}
	}
	return &Pool[T]{slots: slots}, nil
}

// Size returns the number of resources in the pool
func (p *Pool[T]) Size() int {
	return len(p.slots)
}

// Handle is exclusive access to one pooled resource until Release is called
type Handle[T any] struct {
	slot  *slot[T]
	index int
	once  sync.Once
}

// Resource returns the held resource
func (h *Handle[T]) Resource() T {
	return h.slot.resource
}

// Index returns the position of the held resource in the pool
func (h *Handle[T]) Index() int {
	return h.index
}

// Release returns the resource to the pool. Calling it more than once is a
// no-op.
func (h *Handle[T]) Release() {
	h.once.Do(h.slot.mu.Unlock)
}

// Acquire returns a handle to a free resource, blocking when all are held.
// The caller must Release the handle; use Do for scoped access.
func (p *Pool[T]) Acquire() *Handle[T] {
	start := p.advance()
	n := len(p.slots)

	for k := 0; k < n; k++ {
		i := (start + k) % n
		if p.slots[i].mu.TryLock() {
			return &Handle[T]{slot: p.slots[i], index: i}
		}
	}

	p.slots[start].mu.Lock()
	return &Handle[T]{slot: p.slots[start], index: start}
}

// Do runs fn with an acquired resource and releases it afterwards, also when
// fn returns an error or panics.
func (p *Pool[T]) Do(fn func(T) error) error {
	h := p.Acquire()
	defer h.Release()
	return fn(h.Resource())
}

// advance returns the current start index and moves it forward
func (p *Pool[T]) advance() int {
	p.indexMu.Lock()
	defer p.indexMu.Unlock()

	start := p.next
	p.next = (p.next + 1) % len(p.slots)
	return start
}
