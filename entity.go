package warehouse

import "unsafe"

// EntityHandle is a thin, stateless convenience wrapper pairing an EntityID
// with the World that owns it, so callers can chain entity operations
// without re-threading the World at every call (spec.md §5 supplemented
// feature, grounded in the teacher's entity.go; hierarchical
// parent/child relations and destroy callbacks are dropped as out of
// scope, see DESIGN.md).
type EntityHandle struct {
	ID EntityID
	w  *World
}

// HandleFor wraps id with w.
func HandleFor(w *World, id EntityID) EntityHandle {
	return EntityHandle{ID: id, w: w}
}

// Valid reports whether the wrapped entity is currently alive.
func (e EntityHandle) Valid() bool { return e.w.IsAlive(e.ID) }

// AddTag adds a zero-sized component to the entity.
func (e EntityHandle) AddTag(c ComponentID) error {
	return e.w.AddComponentTag(e.ID, c)
}

// AddData adds a component with an initial value to the entity.
func (e EntityHandle) AddData(c ComponentID, value unsafe.Pointer) error {
	return e.w.AddComponentRaw(e.ID, c, value)
}

// RemoveComponent removes a component from the entity.
func (e EntityHandle) RemoveComponent(c ComponentID) error {
	return e.w.RemoveComponent(e.ID, c)
}

// HasComponent reports whether the entity currently carries c.
func (e EntityHandle) HasComponent(c ComponentID) bool {
	return e.w.HasComponent(e.ID, c)
}

// Get returns a pointer to the entity's storage for c.
func (e EntityHandle) Get(c ComponentID) (unsafe.Pointer, bool) {
	return e.w.GetComponentRaw(e.ID, c)
}

// ComponentsAsString renders the entity's current archetype, for debugging
// (grounded in the teacher's entity.go ComponentsAsString, adapted to
// World.DescribeArchetype since components are identified by ComponentID
// rather than by reflected Go type name).
func (e EntityHandle) ComponentsAsString() string {
	return e.w.DescribeArchetype(e.ID)
}

// Despawn destroys the wrapped entity.
func (e EntityHandle) Despawn() bool {
	return e.w.Despawn(e.ID)
}
