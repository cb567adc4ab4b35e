package warehouse

import (
	"sort"
	"sync"
	"unsafe"
)

// FetchKind discriminates what one element of a query yields per row
// (spec.md §4.4 "fetches").
type FetchKind int

const (
	// KindEntityID yields the entity ID at each row; it touches no column.
	KindEntityID FetchKind = iota
	// KindRead yields a read-only row pointer and takes a shared lock.
	KindRead
	// KindWrite yields a mutable row pointer and takes an exclusive lock.
	KindWrite
)

// Fetch is one element of a query's fixed-size fetch array (spec.md §6
// "Fetch descriptor").
type Fetch struct {
	Kind      FetchKind
	Component ComponentID
}

// Read builds a read-only fetch for component c.
func Read(c ComponentID) Fetch { return Fetch{Kind: KindRead, Component: c} }

// Write builds a mutable fetch for component c.
func Write(c ComponentID) Fetch { return Fetch{Kind: KindWrite, Component: c} }

// FetchEntityID builds a fetch that yields the row's entity ID.
func FetchEntityID() Fetch { return Fetch{Kind: KindEntityID} }

// bitStreamSpec is enough information to rebuild a fresh bitStream without
// sharing cursor state across independent iterator passes over the same
// Query.
type bitStreamSpec struct {
	bv    *bitvec
	mapFn wordMapFn
}

// lockHandle records one lock a Query acquired, so Release can let them go
// in reverse order.
type lockHandle struct {
	mu    *sync.RWMutex
	write bool
}

// Query is a planned, lock-holding view over a world (spec.md §4.4 C7,
// §5 concurrency model). It is constructed once via World.Query and must be
// released via Release when the caller is done iterating.
type Query struct {
	world   *World
	fetches []Fetch

	streamSpec []bitStreamSpec
	bitLength  int

	locks    []lockHandle
	released bool
}

// Query plans fetches into a bitset-intersection query and eagerly
// acquires every component lock the fetches imply, in ascending component
// order to avoid deadlocking against another concurrent Query (spec.md §5
// "A query eagerly acquires one lock per Read/Write fetch... at query
// construction").
func (w *World) Query(fetches ...Fetch) *Query {
	q := &Query{world: w, fetches: fetches}
	q.plan()
	q.acquireLocks()
	return q
}

// plan computes the bit-stream specification and cap described in spec.md
// §4.4 "Planning". A component that has never been registered with a
// membership bitset plans a degenerate iterator matching zero archetypes.
func (q *Query) plan() {
	var compIDs []ComponentID
	for _, f := range q.fetches {
		if f.Kind == KindRead || f.Kind == KindWrite {
			compIDs = append(compIDs, f.Component)
		}
	}

	if len(compIDs) == 0 {
		q.streamSpec = []bitStreamSpec{{bv: &q.world.aliveArchetypes, mapFn: identityMap}}
		q.bitLength = q.world.aliveArchetypes.len
		return
	}

	bitLength := -1
	bvs := make([]*bitvec, len(compIDs))
	for i, c := range compIDs {
		bv, ok := q.world.componentBits.Get(idKey(c))
		if !ok {
			// Degenerate: pass the world's any-archetype-alive bitvector
			// with a complement mapping, which always yields zero bits
			// (spec.md §4.4 "Planning").
			q.streamSpec = []bitStreamSpec{{bv: &q.world.aliveArchetypes, mapFn: complementMap}}
			q.bitLength = q.world.aliveArchetypes.len
			return
		}
		bvs[i] = bv
		if bitLength == -1 || bv.len < bitLength {
			bitLength = bv.len
		}
	}

	q.streamSpec = make([]bitStreamSpec, len(bvs))
	for i, bv := range bvs {
		q.streamSpec[i] = bitStreamSpec{bv: bv, mapFn: identityMap}
	}
	q.bitLength = bitLength
}

// newBitsetIter rebuilds a fresh bitsetIterator from the stored stream
// specification, so ColumnIter and RowIter (and repeated calls to either)
// each get their own independent pass.
func (q *Query) newBitsetIter() *bitsetIterator {
	streams := make([]bitStream, len(q.streamSpec))
	for i, s := range q.streamSpec {
		streams[i] = bitStream{stream: streamFromBitvec(s.bv), mapFn: s.mapFn}
	}
	return newBitsetIterator(streams, q.bitLength)
}

func (q *Query) acquireLocks() {
	type want struct {
		id    ComponentID
		write bool
	}
	var wants []want
	for _, f := range q.fetches {
		switch f.Kind {
		case KindRead:
			wants = append(wants, want{f.Component, false})
		case KindWrite:
			wants = append(wants, want{f.Component, true})
		}
	}
	sort.Slice(wants, func(i, j int) bool { return wants[i].id.less(wants[j].id) })
	for _, wt := range wants {
		mu := q.world.lockFor(wt.id)
		if wt.write {
			mu.Lock()
		} else {
			mu.RLock()
		}
		q.locks = append(q.locks, lockHandle{mu: mu, write: wt.write})
	}
	q.world.incActiveQueries()
}

// Release releases every lock this Query holds. Go has no destructors, so
// unlike the source's implicit Drop, the caller must call Release
// explicitly once done iterating (spec.md §5 "Dropping the query object is
// the sole termination primitive").
func (q *Query) Release() {
	if q.released {
		return
	}
	for i := len(q.locks) - 1; i >= 0; i-- {
		h := q.locks[i]
		if h.write {
			h.mu.Unlock()
		} else {
			h.mu.RUnlock()
		}
	}
	q.locks = nil
	q.released = true
	q.world.decActiveQueries()
}

// ColumnBatch is one archetype's worth of column bases for a Query's
// fetches (spec.md §4.4 "Column iterator").
type ColumnBatch struct {
	Ptrs    []unsafe.Pointer
	Strides []uintptr
	Count   int
}

// ColumnIterator yields, per matching archetype, the base pointer and
// stride for every fetch (spec.md §4.4 "Column iterator").
type ColumnIterator struct {
	q    *Query
	bits *bitsetIterator
}

// ColumnIter starts a column-shaped iteration pass over q.
func (q *Query) ColumnIter() *ColumnIterator {
	return &ColumnIterator{q: q, bits: q.newBitsetIter()}
}

// Next advances to the next non-empty matching archetype.
func (it *ColumnIterator) Next() (ColumnBatch, bool) {
	for {
		idx, ok := it.bits.next()
		if !ok {
			return ColumnBatch{}, false
		}
		arch := it.q.world.archetypes[idx]
		if arch.Len() == 0 {
			continue
		}
		return it.q.basesFor(arch), true
	}
}

func (q *Query) basesFor(arch *archetype) ColumnBatch {
	ptrs := make([]unsafe.Pointer, len(q.fetches))
	strides := make([]uintptr, len(q.fetches))
	for i, f := range q.fetches {
		if f.Kind == KindEntityID {
			strides[i] = unsafe.Sizeof(EntityID{})
			if len(arch.entities) > 0 {
				ptrs[i] = unsafe.Pointer(&arch.entities[0])
			}
			continue
		}
		col, ok := arch.columnFor(f.Component)
		if ok && col.Len() > 0 {
			ptrs[i] = col.at(0)
			strides[i] = col.layout.Size
		}
	}
	return ColumnBatch{Ptrs: ptrs, Strides: strides, Count: arch.Len()}
}

// RowIterator yields, per matching row, an array of raw pointers advancing
// by each fetch's element stride every step (spec.md §4.4 "Row iterator").
type RowIterator struct {
	colIt       *ColumnIterator
	ptrs        []unsafe.Pointer
	strides     []uintptr
	remaining   int
	needAdvance bool
}

// RowIter starts a row-shaped iteration pass over q.
func (q *Query) RowIter() *RowIterator {
	return &RowIterator{colIt: q.ColumnIter()}
}

// Next advances to the next matching row, post-advancing every pointer by
// its column stride (spec.md §4.4: "each step post-advances every pointer
// by the per-column stride and decrements remaining. Advance never reads
// past row_count").
func (it *RowIterator) Next() bool {
	if it.needAdvance {
		for i := range it.ptrs {
			if it.ptrs[i] != nil {
				it.ptrs[i] = unsafe.Pointer(uintptr(it.ptrs[i]) + it.strides[i])
			}
		}
		it.remaining--
		it.needAdvance = false
	}
	for it.remaining == 0 {
		batch, ok := it.colIt.Next()
		if !ok {
			return false
		}
		if batch.Count == 0 {
			continue
		}
		it.ptrs = batch.Ptrs
		it.strides = batch.Strides
		it.remaining = batch.Count
	}
	it.needAdvance = true
	return true
}

// Ptrs returns the current row's fetch pointers, in fetch order.
func (it *RowIterator) Ptrs() []unsafe.Pointer { return it.ptrs }
