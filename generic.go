package warehouse

import (
	"reflect"
	"unsafe"
)

// RegisterComponent registers Go type T as a component of w, returning its
// ComponentID. A second registration of the same type on the same world
// returns the same ID (spec.md §6 "Component registration", grounded in
// edwinsyarief-lazyecs's GetID[T]/TryGetID[T] family and the teacher's
// FactoryNewComponent[T]).
func RegisterComponent[T any](w *World) ComponentID {
	key := reflect.TypeOf((*T)(nil)).Elem().String()
	if idx, ok := w.typeRegistry.GetIndex(key); ok {
		return *w.typeRegistry.GetItem(idx)
	}
	id := w.Spawn().Build()
	w.setLayout(id, LayoutOf[T]())
	if _, err := w.typeRegistry.Register(key, id); err != nil {
		abort("warehouse: %v", err)
	}
	return id
}

// WithDataT stages component c on b with an initial value of T, heap-
// allocating value so the builder can retain a stable pointer until Build
// copies it into the archetype's column.
func WithDataT[T any](b *Builder, c ComponentID, value T) *Builder {
	v := new(T)
	*v = value
	return b.WithData(c, unsafe.Pointer(v))
}

// AddComponentT adds component c to e with an initial value of T.
func AddComponentT[T any](w *World, e EntityID, c ComponentID, value T) error {
	v := new(T)
	*v = value
	return w.AddComponentRaw(e, c, unsafe.Pointer(v))
}

// GetComponent returns a typed pointer to e's storage for component c, if e
// is alive and carries it.
func GetComponent[T any](w *World, e EntityID, c ComponentID) (*T, bool) {
	ptr, ok := w.GetComponentRaw(e, c)
	if !ok {
		return nil, false
	}
	return (*T)(ptr), true
}

// AccessibleComponent pairs a ComponentID with its Go type, letting callers
// fetch typed pointers directly from a ColumnBatch or row pointer slice
// without an intermediate cast at every call site (spec.md §5 supplemented
// feature, grounded in the teacher's componentaccessible.go
// AccessibleComponent[T], adapted from table.Accessor to raw column
// pointers since there is no table.Table in this design).
type AccessibleComponent[T any] struct {
	ID ComponentID
}

// NewAccessibleComponent registers T on w and returns an AccessibleComponent
// bound to its ID.
func NewAccessibleComponent[T any](w *World) AccessibleComponent[T] {
	return AccessibleComponent[T]{ID: RegisterComponent[T](w)}
}

// Get casts ptr, a pointer obtained from a ColumnBatch or RowIterator for
// this component's fetch slot, to *T.
func (c AccessibleComponent[T]) Get(ptr unsafe.Pointer) *T {
	return (*T)(ptr)
}

// GetFromEntity returns a typed pointer to e's storage for this component.
func (c AccessibleComponent[T]) GetFromEntity(w *World, e EntityID) (*T, bool) {
	return GetComponent[T](w, e, c.ID)
}

// GetFromCursor returns a typed pointer to the cursor's current entity's
// storage for this component.
func (c AccessibleComponent[T]) GetFromCursor(cur *Cursor) (*T, bool) {
	return GetComponent[T](cur.w, cur.CurrentEntity(), c.ID)
}
