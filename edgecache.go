package warehouse

import "github.com/kamstrup/intmap"

// edgeCacheEntry is one slot of an archetype's recency buffer.
type edgeCacheEntry struct {
	comp  ComponentID
	to    int
	valid bool
}

// edgeCache is the C5 per-archetype memoisation of the neighbouring
// archetype reached by adding or removing a given component: a small
// recency buffer of Config.edgeCacheSize entries, searched slot by slot and
// refilled round-robin, backed by
// an unbounded map for entries evicted out of the buffer (spec.md §4.3).
// The map tier uses intmap.Map, grounded in
// plus3-ooftn/ecs/archetype.go's intmap.Map[EntityId, ...] registries.
type edgeCache struct {
	recent []edgeCacheEntry
	rest   *intmap.Map[uint64, int]
	next   int
}

func (e *edgeCache) init() {
	e.recent = make([]edgeCacheEntry, Config.edgeCacheSize)
	e.rest = intmap.New[uint64, int](8)
}

// lookup returns the cached neighbouring archetype index for comp, if any.
// Recency-buffer hits are O(1); misses fall through to the map tier.
func (e *edgeCache) lookup(comp ComponentID) (int, bool) {
	for _, slot := range e.recent {
		if slot.valid && slot.comp == comp {
			return slot.to, true
		}
	}
	return e.rest.Get(idKey(comp))
}

// insert records comp -> archetypeIndex, round-robin evicting the oldest
// recency slot into the map tier when the buffer is full.
func (e *edgeCache) insert(comp ComponentID, archetypeIndex int) {
	for i, slot := range e.recent {
		if slot.valid && slot.comp == comp {
			e.recent[i].to = archetypeIndex
			return
		}
	}
	evicted := e.recent[e.next]
	if evicted.valid {
		e.rest.Put(idKey(evicted.comp), evicted.to)
	}
	e.recent[e.next] = edgeCacheEntry{comp: comp, to: archetypeIndex, valid: true}
	e.next = (e.next + 1) % len(e.recent)
}
