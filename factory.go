package warehouse

// factory implements the factory pattern for warehouse's free-standing
// constructors (spec.md §5 supplemented feature, grounded in the teacher's
// factory.go).
type factory struct{}

// Factory is the global factory instance for creating worlds, legacy
// queries, cursors, and caches.
var Factory factory

// NewWorld creates a new, empty World.
func (f factory) NewWorld() *World { return NewWorld() }

// NewLegacyQuery creates a new, empty LegacyQuery.
func (f factory) NewLegacyQuery() LegacyQuery { return NewLegacyQuery() }

// NewCursor creates a new Cursor over the given legacy query and world.
func (f factory) NewCursor(query LegacyQueryNode, w *World) *Cursor {
	return NewCursor(query, w)
}

// FactoryNewComponent registers T on w and returns an AccessibleComponent.
func FactoryNewComponent[T any](w *World) AccessibleComponent[T] {
	return NewAccessibleComponent[T](w)
}

// FactoryNewCache creates a new Cache with the specified capacity.
func FactoryNewCache[T any](cap int) Cache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}
