// Package inflight provides per-order mutual exclusion for multi-read,
// multi-write operations. A second invocation for an order whose first is
// still outstanding must be rejected, never interleaved: both would read the
// same pre-transition state and race their writes.
package inflight

import "sync"

type Registry struct {
	mu  sync.Mutex
	ids map[int64]struct{}
}

func New() *Registry {
	return &Registry{ids: make(map[int64]struct{})}
}

// Acquire marks the order as busy. Returns false if an operation for the
// same order is already outstanding.
func (g *Registry) Acquire(orderID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.ids[orderID]; busy {
		return false
	}
	g.ids[orderID] = struct{}{}
	return true
}

func (g *Registry) Release(orderID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.ids, orderID)
}
