package warehouse

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unsafe"

	"github.com/kamstrup/intmap"
)

// entityMeta locates a live entity inside exactly one archetype (spec.md §3
// "World metadata per entity").
type entityMeta struct {
	archetype int
	row       int
	valid     bool
}

// World owns every archetype, the per-entity metadata table, the
// per-component archetype-membership bitsets, the identifier allocator and
// the per-component lock registry. It serves spawn/add/remove/get/despawn
// and plans queries (spec.md §2 "C6 World").
type World struct {
	ids *entities

	archetypes  []*archetype
	archetypeOf map[string]int

	meta []entityMeta

	// layouts is the side table mapping a component entity's index to its
	// layout descriptor (spec.md §9 "Cyclic ownership": a side table keyed
	// by entity index, not threaded back into the archetype).
	layouts []*Layout

	// componentBits holds one archetype-membership bitvec per component ID
	// (spec.md §3 "Archetype-membership bitset"), keyed through intmap
	// (grounded in plus3-ooftn/ecs/archetype.go's intmap.Map registries).
	componentBits *intmap.Map[uint64, *bitvec]
	// aliveArchetypes has bit a set iff archetype a has been created; used
	// both as the "all archetypes" stream and, complemented, to plan
	// degenerate queries over a never-registered component (spec.md §4.4).
	aliveArchetypes bitvec

	// typeRegistry deduplicates Go-type component registrations by type
	// name, backed by the same SimpleCache the teacher exposed as
	// free-standing infra (spec.md §5 supplemented feature, grounded in
	// the teacher's api.go Cache[T]/SimpleCache[T]).
	typeRegistry Cache[ComponentID]

	locksMu sync.Mutex
	locks   *intmap.Map[uint64, *sync.RWMutex]
	// activeQueries counts outstanding Query locks. Structural mutation
	// while it is non-zero violates the single-writer contract of §5 and
	// aborts rather than queuing, since spec.md states such concurrency is
	// forbidden outright.
	activeQueries int32

	builderPool *Builder
}

// NewWorld creates an empty World, pre-registering the empty archetype so
// spawning a bare entity always has somewhere to land.
func NewWorld() *World {
	w := &World{
		ids:           newEntities(),
		archetypeOf:   make(map[string]int, Config.archetypeCapacityHint),
		componentBits: intmap.New[uint64, *bitvec](Config.archetypeCapacityHint),
		typeRegistry:  FactoryNewCache[ComponentID](Config.componentTypeCapacityHint),
		locks:         intmap.New[uint64, *sync.RWMutex](Config.archetypeCapacityHint),
	}
	w.findOrCreateArchetype(nil)
	return w
}

// archetypeKey canonicalises a component-ID set into a map key.
func archetypeKey(ids []ComponentID) string {
	sorted := append([]ComponentID(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].less(sorted[j]) })
	var b strings.Builder
	for _, id := range sorted {
		fmt.Fprintf(&b, "%d.%d|", id.index, id.generation)
	}
	return b.String()
}

// setLayout records layout under id's index, growing the side table to
// exactly index+1 entries (spec.md §9 resolves the source's off-by-one
// resize bug this way).
func (w *World) setLayout(id ComponentID, layout Layout) {
	idx := int(id.index)
	if idx >= len(w.layouts) {
		grown := make([]*Layout, idx+1)
		copy(grown, w.layouts)
		w.layouts = grown
	}
	l := layout
	w.layouts[idx] = &l
}

// layoutFor returns id's registered layout, if any.
func (w *World) layoutFor(id ComponentID) (*Layout, bool) {
	idx := int(id.index)
	if idx >= len(w.layouts) || w.layouts[idx] == nil {
		return nil, false
	}
	return w.layouts[idx], true
}

// setMeta records m for the entity at index idx, growing the metadata
// table to exactly idx+1 entries.
func (w *World) setMeta(idx uint32, m entityMeta) {
	i := int(idx)
	if i >= len(w.meta) {
		grown := make([]entityMeta, i+1)
		copy(grown, w.meta)
		w.meta = grown
	}
	w.meta[i] = m
}

// findOrCreateArchetype returns the archetype exactly matching ids,
// creating it (and registering its membership bits) if it doesn't exist yet
// (spec.md §4.3 "Construction").
func (w *World) findOrCreateArchetype(ids []ComponentID) *archetype {
	key := archetypeKey(ids)
	if idx, ok := w.archetypeOf[key]; ok {
		return w.archetypes[idx]
	}
	idx := len(w.archetypes)
	a := newArchetype(idx, ids, func(id ComponentID) Layout {
		l, ok := w.layoutFor(id)
		if !ok {
			abort("warehouse: component %v has no registered layout", id)
		}
		return *l
	})
	w.archetypes = append(w.archetypes, a)
	w.archetypeOf[key] = idx
	w.aliveArchetypes.setBit(idx, true)
	for _, id := range a.compIDs {
		w.markMembership(id, idx)
	}
	return a
}

func (w *World) markMembership(id ComponentID, archIdx int) {
	bv, ok := w.componentBits.Get(idKey(id))
	if !ok {
		bv = &bitvec{}
		w.componentBits.Put(idKey(id), bv)
	}
	bv.setBit(archIdx, true)
}

// neighbor returns the archetype reached from src by toggling component c
// (adding it if absent, removing it if present), consulting and populating
// src's edge cache (spec.md §4.3 "Edge cache").
func (w *World) neighbor(src *archetype, c ComponentID, adding bool) *archetype {
	if idx, ok := src.edges.lookup(c); ok {
		return w.archetypes[idx]
	}
	var dst *archetype
	if adding {
		dst = w.findOrCreateArchetype(withComponent(src.compIDs, c))
	} else {
		dst = w.findOrCreateArchetype(withoutComponent(src.compIDs, c))
	}
	src.edges.insert(c, dst.index)
	dst.edges.insert(c, src.index)
	return dst
}

// transferRowShared moves row r of src into the aligned row of dst for
// every component the two archetypes share; src and dst must differ by
// exactly one component ID (spec.md §4.3 "Column-alignment property"). The
// one ID present only in dst is left for the caller to push new data into;
// the one ID present only in src is left for the caller to drop.
func transferRowShared(src, dst *archetype, r int) {
	si, di := 0, 0
	for si < len(src.compIDs) && di < len(dst.compIDs) {
		s, d := src.compIDs[si], dst.compIDs[di]
		switch {
		case s == d:
			if srcCol, ok := src.columnFor(s); ok {
				dstCol, ok2 := dst.columnFor(d)
				if !ok2 {
					abort("warehouse: column alignment corrupted for %v", s)
				}
				srcCol.transferTo(dstCol, r)
			}
			si++
			di++
		case s.less(d):
			si++
		default:
			di++
		}
	}
}

// Spawn starts a builder for a new entity (spec.md §6 "spawn() -> Builder").
func (w *World) Spawn() *Builder {
	b := w.acquireBuilder()
	b.w = w
	return b
}

// SpawnWithCapacity starts a builder hinting that n similar entities are
// about to be built in succession (spec.md §6, §5 supplemented feature).
// The hint is stored on the builder; Build does not read it, so no column
// capacity is reserved up front.
func (w *World) SpawnWithCapacity(n int) *Builder {
	b := w.Spawn()
	b.capacityHint = n
	return b
}

// SpawnWithLayout starts a builder whose built entity will itself be usable
// as a component ID with the given layout (spec.md §6 "spawn_with_layout").
// Column storage needs a Go element type, which only LayoutOf records: a
// zero-sized layout or one built by LayoutOf works, while any other
// non-zero-sized layout aborts once an archetype containing the component
// is created.
func (w *World) SpawnWithLayout(layout Layout) *Builder {
	b := w.Spawn()
	l := layout
	b.selfLayout = &l
	return b
}

// IsAlive reports whether e is a currently-live identifier (spec.md §6
// "is_alive").
func (w *World) IsAlive(e EntityID) bool { return w.ids.isAlive(e) }

// Despawn removes e from its archetype, swap-removing its row and freeing
// its identifier. Reports whether e was alive (spec.md §6 "despawn").
func (w *World) Despawn(e EntityID) bool {
	if w.locked() {
		abortErr(LockedStorageError{})
	}
	if !w.ids.isAlive(e) {
		return false
	}
	m := w.meta[e.index]
	arch := w.archetypes[m.archetype]
	swapped, didSwap := arch.removeRow(m.row)
	if didSwap {
		w.setMeta(swapped.index, entityMeta{archetype: m.archetype, row: m.row, valid: true})
	}
	w.meta[e.index] = entityMeta{}
	w.ids.free(e)
	return true
}

// HasComponent reports whether e currently carries c (spec.md §5
// supplemented feature, grounded in world.rs's has_component).
func (w *World) HasComponent(e EntityID, c ComponentID) bool {
	if !w.ids.isAlive(e) {
		return false
	}
	return w.archetypes[w.meta[e.index].archetype].contains(c)
}

// GetComponentRaw returns a pointer to e's storage for c, if e is alive and
// carries a non-zero-sized c (spec.md §6 "get_component_raw").
func (w *World) GetComponentRaw(e EntityID, c ComponentID) (unsafe.Pointer, bool) {
	if !w.ids.isAlive(e) {
		return nil, false
	}
	m := w.meta[e.index]
	col, ok := w.archetypes[m.archetype].columnFor(c)
	if !ok {
		return nil, false
	}
	return col.at(m.row), true
}

// AddComponentTag adds a zero-sized (or otherwise valueless) component c to
// e (spec.md §6 "add_component_tag"). A non-zero-sized c added this way
// starts as its Go type's zero value.
func (w *World) AddComponentTag(e EntityID, c ComponentID) error {
	return w.addComponent(e, c, nil)
}

// AddComponentRaw adds component c to e, copying its initial value from src
// (spec.md §6 "add_component_raw").
func (w *World) AddComponentRaw(e EntityID, c ComponentID, src unsafe.Pointer) error {
	return w.addComponent(e, c, src)
}

func (w *World) addComponent(e EntityID, c ComponentID, src unsafe.Pointer) error {
	if w.locked() {
		abortErr(LockedStorageError{})
	}
	if !w.ids.isAlive(e) {
		return nil
	}
	m := w.meta[e.index]
	srcArch := w.archetypes[m.archetype]
	if srcArch.contains(c) {
		return ComponentExistsError{Component: c}
	}
	if _, ok := w.layoutFor(c); !ok || !w.ids.isAlive(c) {
		return nil
	}

	dstArch := w.neighbor(srcArch, c, true)
	row := m.row
	transferRowShared(srcArch, dstArch, row)
	if col, ok := dstArch.columnFor(c); ok {
		col.push(src)
	}
	newRow := dstArch.appendRow(e)
	w.setMeta(e.index, entityMeta{archetype: dstArch.index, row: newRow, valid: true})

	swapped, didSwap := srcArch.dropEntityRow(row)
	if didSwap {
		w.setMeta(swapped.index, entityMeta{archetype: srcArch.index, row: row, valid: true})
	}
	return nil
}

// RemoveComponent removes component c from e (spec.md §6
// "remove_component").
func (w *World) RemoveComponent(e EntityID, c ComponentID) error {
	if w.locked() {
		abortErr(LockedStorageError{})
	}
	if !w.ids.isAlive(e) || !w.ids.isAlive(c) {
		return nil
	}
	m := w.meta[e.index]
	srcArch := w.archetypes[m.archetype]
	if !srcArch.contains(c) {
		return ComponentNotFoundError{Component: c}
	}

	dstArch := w.neighbor(srcArch, c, false)
	row := m.row
	transferRowShared(srcArch, dstArch, row)
	if col, ok := srcArch.columnFor(c); ok {
		col.swapRemove(row)
	}
	newRow := dstArch.appendRow(e)
	w.setMeta(e.index, entityMeta{archetype: dstArch.index, row: newRow, valid: true})

	swapped, didSwap := srcArch.dropEntityRow(row)
	if didSwap {
		w.setMeta(swapped.index, entityMeta{archetype: srcArch.index, row: row, valid: true})
	}
	return nil
}

// DescribeArchetype renders the sorted component-ID set of e's current
// archetype, for debugging (spec.md §5 supplemented feature, grounded in
// the teacher's entity.go ComponentsAsString).
func (w *World) DescribeArchetype(e EntityID) string {
	if !w.ids.isAlive(e) {
		return "[]"
	}
	arch := w.archetypes[w.meta[e.index].archetype]
	if len(arch.compIDs) == 0 {
		return "[]"
	}
	parts := make([]string, len(arch.compIDs))
	for i, id := range arch.compIDs {
		parts[i] = id.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
