package warehouse

import "fmt"

// EntityID is a generational identifier: an index paired with a generation
// counter (spec.md §3). ComponentID is the same type — every component type
// is itself an entity (spec.md §3 "Component identifier").
type EntityID struct {
	index      uint32
	generation uint32
}

// ComponentID identifies a component type. It is an EntityID by design: the
// first time a type is registered, the world spawns an entity for it and
// records a layout descriptor under that entity's index.
type ComponentID = EntityID

// Index returns the dense allocator slot this identifier occupies.
func (id EntityID) Index() uint32 { return id.index }

// Generation returns the liveness generation stamped on this identifier.
func (id EntityID) Generation() uint32 { return id.generation }

func (id EntityID) less(other EntityID) bool { return id.index < other.index }

// idKey packs an identifier into a single uint64 so it can key an
// intmap.Map, grounded in plus3-ooftn/ecs/archetype.go's
// intmap.Map[EntityId, ...] registries.
func idKey(id EntityID) uint64 {
	return uint64(id.index)<<32 | uint64(id.generation)
}

func (id EntityID) String() string {
	return fmt.Sprintf("Entity(%d,%d)", id.index, id.generation)
}

// entitySlot is one allocator slot: the generation currently valid at this
// index, and whether the slot is presently occupied.
type entitySlot struct {
	generation uint32
	alive      bool
}

// entities is the C1 generational identifier allocator: a dense slice of
// slots plus a free list of recycled indices, each bumping its generation on
// reuse so a dangling identifier is detectable as stale. Grounded in
// original_source/arche_tape/src/world.rs's Entities.
type entities struct {
	slots    []entitySlot
	freeList []uint32
}

func newEntities() *entities {
	return &entities{
		// index 0 is reserved and never issued: EntityID{} is always dead.
		slots: make([]entitySlot, 1, Config.archetypeCapacityHint),
	}
}

// alloc mints a fresh identifier, reusing a freed index (with its
// generation bumped) when one is available.
func (e *entities) alloc() EntityID {
	if n := len(e.freeList); n > 0 {
		idx := e.freeList[n-1]
		e.freeList = e.freeList[:n-1]
		slot := &e.slots[idx]
		slot.alive = true
		return EntityID{index: idx, generation: slot.generation}
	}
	idx := uint32(len(e.slots))
	e.slots = append(e.slots, entitySlot{alive: true})
	return EntityID{index: idx, generation: 0}
}

// isAlive reports whether id's generation matches the generation currently
// stored at its index (spec.md §3).
func (e *entities) isAlive(id EntityID) bool {
	if id.index == 0 || int(id.index) >= len(e.slots) {
		return false
	}
	slot := e.slots[id.index]
	return slot.alive && slot.generation == id.generation
}

// free releases id's index back to the allocator and bumps its generation.
// Reports whether the identifier was actually alive beforehand.
func (e *entities) free(id EntityID) bool {
	if !e.isAlive(id) {
		return false
	}
	slot := &e.slots[id.index]
	slot.alive = false
	slot.generation++
	e.freeList = append(e.freeList, id.index)
	return true
}
