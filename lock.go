package warehouse

import (
	"sync"
	"sync/atomic"
)

// lockFor returns (creating on first use) the reader/writer lock guarding
// component id across every query that touches it (spec.md §5 "Per-
// component reader-writer locks").
func (w *World) lockFor(id ComponentID) *sync.RWMutex {
	w.locksMu.Lock()
	defer w.locksMu.Unlock()
	if mu, ok := w.locks.Get(idKey(id)); ok {
		return mu
	}
	mu := &sync.RWMutex{}
	w.locks.Put(idKey(id), mu)
	return mu
}

// locked reports whether any Query currently holds component locks,
// meaning structural mutation is forbidden (spec.md §5 "concurrent
// structural mutation ... with any query is forbidden"). Unlike the
// teacher's entityOperationsQueue, which deferred mutations until the
// storage unlocked, this specification states the conflict is forbidden
// outright, so a violation aborts rather than queuing (see DESIGN.md).
func (w *World) locked() bool {
	return atomic.LoadInt32(&w.activeQueries) > 0
}

func (w *World) incActiveQueries() { atomic.AddInt32(&w.activeQueries, 1) }
func (w *World) decActiveQueries() { atomic.AddInt32(&w.activeQueries, -1) }
