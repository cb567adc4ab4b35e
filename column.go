package warehouse

import (
	"reflect"
	"unsafe"
)

// column is the C2 type-erased growable buffer: one archetype's storage for
// one non-zero-sized component. Grounded line-for-line in
// original_source/src/untyped_vec.rs's UntypedVec (push_raw / pop /
// move_element_to_other_vec), reimplemented over a reflect.Value slice of
// the layout's concrete element type instead of a raw byte allocator, so
// the Go garbage collector still sees pointer-containing component fields.
type column struct {
	layout Layout
	data   reflect.Value
}

// newColumn allocates an empty column for layout. Zero-sized layouts are
// rejected: their presence is recorded by the archetype's ID set only
// (spec.md §4.1).
func newColumn(layout Layout) *column {
	if layout.ZeroSized() {
		abort("warehouse: column constructed for zero-sized layout")
	}
	if layout.elem == nil {
		abort("warehouse: column constructed without a concrete element type")
	}
	return &column{
		layout: layout,
		data:   reflect.MakeSlice(reflect.SliceOf(layout.elem), 0, Config.columnInitialCapacity),
	}
}

// Len returns the number of rows currently stored.
func (c *column) Len() int { return c.data.Len() }

// at returns a pointer to row i's storage.
func (c *column) at(i int) unsafe.Pointer {
	return c.data.Index(i).Addr().UnsafePointer()
}

// push appends one row by copying the value pointed to by src, which must
// address a value of the column's concrete element type. A nil src appends
// the element type's zero value. Grows capacity by doubling via
// reflect.Append when necessary (spec.md §4.1).
func (c *column) push(src unsafe.Pointer) {
	if src == nil {
		c.data = reflect.Append(c.data, reflect.Zero(c.layout.elem))
		return
	}
	v := reflect.NewAt(c.layout.elem, src).Elem()
	c.data = reflect.Append(c.data, v)
}

// pop drops the last row, running the registered destructor if any, and
// reports whether a row was removed.
func (c *column) pop() bool {
	n := c.data.Len()
	if n == 0 {
		return false
	}
	if c.layout.Drop != nil {
		c.layout.Drop(c.at(n - 1))
	}
	c.data = c.data.Slice(0, n-1)
	return true
}

// swapRemove removes row i. If i is the last row this is a plain pop;
// otherwise the destructor runs on row i's current contents before the last
// row's value is moved into its place (spec.md §4.1: "runs destructor on
// the removed row only").
func (c *column) swapRemove(i int) {
	n := c.data.Len()
	if i < 0 || i >= n {
		abort("warehouse: swapRemove index %d out of range (len %d)", i, n)
	}
	if i == n-1 {
		c.pop()
		return
	}
	if c.layout.Drop != nil {
		c.layout.Drop(c.at(i))
	}
	c.data.Index(i).Set(c.data.Index(n - 1))
	c.data = c.data.Slice(0, n-1)
}

// transferTo moves row i into the tail of other without running the
// destructor, then shrinks self by one row. Both columns must share a
// layout (spec.md §4.1, §4.3 "column-alignment property").
func (c *column) transferTo(other *column, i int) {
	if other.layout.elem != c.layout.elem {
		abort("warehouse: transferTo layout mismatch")
	}
	n := c.data.Len()
	if i < 0 || i >= n {
		abort("warehouse: transferTo index %d out of range (len %d)", i, n)
	}
	other.data = reflect.Append(other.data, c.data.Index(i))
	if i != n-1 {
		c.data.Index(i).Set(c.data.Index(n - 1))
	}
	c.data = c.data.Slice(0, n-1)
}
