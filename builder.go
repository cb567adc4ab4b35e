package warehouse

import (
	"sort"
	"unsafe"
)

// builderComponent is one staged component in a Builder: its ID, its
// layout (fetched once at staging time), and a pointer to its initial
// value, nil for tags.
type builderComponent struct {
	id     ComponentID
	layout Layout
	value  unsafe.Pointer
}

// Builder is the C8 entity builder: it stages component IDs together with
// pointers to their initial values, then copies those values into an
// archetype in a single pass on Build (spec.md §4.5). Values are not copied
// at staging time; each pointer is read only when Build runs.
type Builder struct {
	w            *World
	comps        []builderComponent
	selfLayout   *Layout
	capacityHint int
}

// WithData stages component c with an initial value. value must point at a
// live instance of c's concrete Go element type (spec.md §6
// "Builder::with_data").
func (b *Builder) WithData(c ComponentID, value unsafe.Pointer) *Builder {
	layout, ok := b.w.layoutFor(c)
	if !ok {
		abort("warehouse: WithData: component %v has no registered layout", c)
	}
	b.comps = append(b.comps, builderComponent{id: c, layout: *layout, value: value})
	return b
}

// WithTag stages a zero-sized (or otherwise valueless) component (spec.md
// §6 "Builder::with_tag"). A non-zero-sized component staged this way
// starts as its Go type's zero value.
func (b *Builder) WithTag(c ComponentID) *Builder {
	layout, ok := b.w.layoutFor(c)
	if !ok {
		abort("warehouse: WithTag: component %v has no registered layout", c)
	}
	b.comps = append(b.comps, builderComponent{id: c, layout: *layout})
	return b
}

// Build sorts the staged component IDs, aborts on a duplicate (spec.md §9,
// a fatal programmer error), finds or creates the matching archetype,
// pushes every component's bytes into its column in ID order, and appends
// the new entity's row (spec.md §6 "Builder::build").
func (b *Builder) Build() EntityID {
	e := b.w.ids.alloc()
	if b.selfLayout != nil {
		b.w.setLayout(e, *b.selfLayout)
	}

	sort.Slice(b.comps, func(i, j int) bool { return b.comps[i].id.less(b.comps[j].id) })
	for i := 1; i < len(b.comps); i++ {
		if b.comps[i].id == b.comps[i-1].id {
			abortErr(DuplicateComponentError{Component: b.comps[i].id})
		}
	}

	ids := make([]ComponentID, len(b.comps))
	for i, bc := range b.comps {
		ids[i] = bc.id
	}
	arch := b.w.findOrCreateArchetype(ids)

	for _, bc := range b.comps {
		if bc.layout.ZeroSized() {
			continue
		}
		col, ok := arch.columnFor(bc.id)
		if !ok {
			abort("warehouse: archetype missing column for %v", bc.id)
		}
		col.push(bc.value)
	}
	row := arch.appendRow(e)
	b.w.setMeta(e.index, entityMeta{archetype: arch.index, row: row, valid: true})

	b.w.releaseBuilder(b)
	return e
}

// acquireBuilder pulls a staging buffer from the single-slot world-wide
// reuse pool, or allocates a fresh one (spec.md §4.5 "reuse pool to
// amortise allocation across successive spawns").
func (w *World) acquireBuilder() *Builder {
	if w.builderPool != nil {
		b := w.builderPool
		w.builderPool = nil
		b.comps = b.comps[:0]
		b.selfLayout = nil
		b.capacityHint = 0
		return b
	}
	return &Builder{}
}

// releaseBuilder returns b to the single-slot reuse pool after Build.
func (w *World) releaseBuilder(b *Builder) {
	b.w = nil
	if w.builderPool == nil {
		w.builderPool = b
	}
}
