package warehouse

import "iter"

// Cursor provides pull-based iteration over entities in archetypes matching
// a LegacyQuery (spec.md §5 supplemented feature, grounded in the teacher's
// cursor.go). Unlike Query, a Cursor takes no component locks: it walks
// entities only, not column data.
type Cursor struct {
	query LegacyQueryNode
	w     *World

	matched      []int
	archetypeIdx int
	entityIndex  int
	remaining    int
	initialized  bool
}

// NewCursor creates a new Cursor for query over w.
func NewCursor(query LegacyQueryNode, w *World) *Cursor {
	return &Cursor{query: query, w: w}
}

// Initialize finds every matching, non-empty archetype up front.
func (c *Cursor) Initialize() {
	if c.initialized {
		return
	}
	for i, a := range c.w.archetypes {
		if a.Len() == 0 {
			continue
		}
		if c.query.Evaluate(i, c.w) {
			c.matched = append(c.matched, i)
		}
	}
	if len(c.matched) > 0 {
		c.archetypeIdx = 0
		c.remaining = c.w.archetypes[c.matched[0]].Len()
	}
	c.initialized = true
}

// Next advances to the next matching entity, reports whether one exists.
func (c *Cursor) Next() bool {
	if !c.initialized {
		c.Initialize()
	}
	if c.entityIndex < c.remaining {
		c.entityIndex++
		return true
	}
	return c.advance()
}

func (c *Cursor) advance() bool {
	for c.archetypeIdx < len(c.matched) {
		c.remaining = c.w.archetypes[c.matched[c.archetypeIdx]].Len()
		if c.entityIndex < c.remaining {
			c.entityIndex++
			return true
		}
		c.archetypeIdx++
		c.entityIndex = 0
	}
	c.Reset()
	return false
}

// Entities returns a push-iterator sequence over every matching entity.
func (c *Cursor) Entities() iter.Seq[EntityID] {
	return func(yield func(EntityID) bool) {
		c.Initialize()
		for c.archetypeIdx < len(c.matched) {
			arch := c.w.archetypes[c.matched[c.archetypeIdx]]
			c.remaining = arch.Len()
			for c.entityIndex < c.remaining {
				if !yield(arch.entities[c.entityIndex]) {
					c.Reset()
					return
				}
				c.entityIndex++
			}
			c.entityIndex = 0
			c.archetypeIdx++
		}
		c.Reset()
	}
}

// Reset clears cursor state so a subsequent Next/Entities call re-scans.
func (c *Cursor) Reset() {
	c.archetypeIdx = 0
	c.entityIndex = 0
	c.remaining = 0
	c.matched = nil
	c.initialized = false
}

// CurrentEntity returns the entity at the cursor's current position.
func (c *Cursor) CurrentEntity() EntityID {
	arch := c.w.archetypes[c.matched[c.archetypeIdx]]
	return arch.entities[c.entityIndex-1]
}

// TotalMatched returns how many entities across every matching archetype,
// then resets the cursor.
func (c *Cursor) TotalMatched() int {
	c.Initialize()
	total := 0
	for _, idx := range c.matched {
		total += c.w.archetypes[idx].Len()
	}
	c.Reset()
	return total
}
