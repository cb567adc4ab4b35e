package warehouse

import (
	"reflect"
	"unsafe"
)

// DropFn is a destructor thunk invoked on a component value's storage
// before that storage is overwritten or released (spec.md §3 "Layout
// descriptor").
type DropFn func(ptr unsafe.Pointer)

// Layout describes a component's binary representation: its size, its
// required alignment, and an optional destructor. A zero-sized layout is
// legal and means the component occupies no bytes in any column, though it
// still contributes to archetype identity (spec.md §3).
type Layout struct {
	Size  uintptr
	Align uintptr
	Drop  DropFn

	// elem is the concrete Go type backing this layout's column storage.
	// Nil for layouts with no Go-type-backed storage (tags, raw layouts
	// built via SpawnWithLayout).
	elem reflect.Type
}

// ZeroSized reports whether the layout occupies no bytes in a column.
func (l Layout) ZeroSized() bool { return l.Size == 0 }

// LayoutOf derives a Layout from a Go type T by reflection, grounded in the
// teacher's table.FactoryNewElementType use of reflect to learn element
// shape.
func LayoutOf[T any]() Layout {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Size() == 0 {
		return Layout{Align: 1}
	}
	return Layout{
		Size:  t.Size(),
		Align: uintptr(t.Align()),
		elem:  t,
	}
}

// TagLayout is the zero-sized layout used for dataless tag components
// (spec.md §8 scenario 5, §6 "Builder::with_tag").
func TagLayout() Layout {
	return Layout{Align: 1}
}
