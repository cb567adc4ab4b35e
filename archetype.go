package warehouse

import "sort"

// archetype is the C4 row-aligned table of type-erased columns, keyed by an
// exact, sorted set of component IDs (spec.md §3 "Archetype table").
type archetype struct {
	index int

	// compIDs is the full, sorted-ascending set of component IDs an entity
	// in this archetype carries, including zero-sized tags.
	compIDs []ComponentID
	// columns holds one column per non-zero-sized member of compIDs, in
	// the same relative order.
	columns []*column
	// lookup maps a non-zero-sized component ID to its index into columns.
	lookup map[ComponentID]int
	// member records full membership, including zero-sized tags that have
	// no column.
	member map[ComponentID]bool

	entities []EntityID

	edges edgeCache
}

// newArchetype builds the archetype for compIDs, sorting them ascending and
// allocating one column per non-zero-sized component (spec.md §4.3
// "Construction").
func newArchetype(index int, compIDs []ComponentID, layoutOf func(ComponentID) Layout) *archetype {
	sorted := append([]ComponentID(nil), compIDs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].less(sorted[j]) })

	a := &archetype{
		index:   index,
		compIDs: sorted,
		lookup:  make(map[ComponentID]int, len(sorted)),
		member:  make(map[ComponentID]bool, len(sorted)),
	}
	a.edges.init()
	for _, id := range sorted {
		a.member[id] = true
		layout := layoutOf(id)
		if layout.ZeroSized() {
			continue
		}
		a.lookup[id] = len(a.columns)
		a.columns = append(a.columns, newColumn(layout))
	}
	return a
}

// contains reports whether id (column-backed or zero-sized tag) is part of
// this archetype's identity.
func (a *archetype) contains(id ComponentID) bool { return a.member[id] }

// columnFor returns the column storing id, if id is non-zero-sized and
// present.
func (a *archetype) columnFor(id ComponentID) (*column, bool) {
	i, ok := a.lookup[id]
	if !ok {
		return nil, false
	}
	return a.columns[i], true
}

// Len reports the number of entities (rows) currently in this archetype.
func (a *archetype) Len() int { return len(a.entities) }

// appendRow appends e as a new row, assuming every column already received
// its corresponding value via push. Returns the new row index.
func (a *archetype) appendRow(e EntityID) int {
	a.entities = append(a.entities, e)
	return len(a.entities) - 1
}

// removeRow swap-removes row r from every column and from entities. It
// reports the entity that was swapped into r's place, if one was (spec.md
// §4.3 step 5, §8 "swap-remove meta update").
func (a *archetype) removeRow(r int) (swapped EntityID, didSwap bool) {
	n := len(a.entities)
	last := n - 1
	for _, col := range a.columns {
		col.swapRemove(r)
	}
	if r != last {
		a.entities[r] = a.entities[last]
		swapped, didSwap = a.entities[r], true
	}
	a.entities = a.entities[:last]
	return swapped, didSwap
}

// dropEntityRow removes row r from entities only, without touching any
// column. Used by structural transitions where every column's row r has
// already been individually transferred or dropped beforehand, so only the
// entities list still needs to shrink (spec.md §4.3 step 5).
func (a *archetype) dropEntityRow(r int) (swapped EntityID, didSwap bool) {
	n := len(a.entities)
	last := n - 1
	if r != last {
		a.entities[r] = a.entities[last]
		swapped, didSwap = a.entities[r], true
	}
	a.entities = a.entities[:last]
	return swapped, didSwap
}

// withComponent returns a new, unsorted slice containing ids plus add.
func withComponent(ids []ComponentID, add ComponentID) []ComponentID {
	out := make([]ComponentID, 0, len(ids)+1)
	out = append(out, ids...)
	out = append(out, add)
	return out
}

// withoutComponent returns a new slice containing ids minus remove.
func withoutComponent(ids []ComponentID, remove ComponentID) []ComponentID {
	out := make([]ComponentID, 0, len(ids))
	for _, id := range ids {
		if id != remove {
			out = append(out, id)
		}
	}
	return out
}
