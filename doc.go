/*
Package warehouse provides an Entity-Component-System (ECS) storage core.

Warehouse keeps entities with identical component sets packed together in
archetype tables so that iterating over every entity with a given component
combination runs at near-contiguous-array throughput. A component is
described at the storage layer by a Layout (size, alignment, optional drop
function); each column keeps its values in a reflect-backed slice of the
component's Go type and hands them out as raw pointers.

Core Concepts:

  - Entity: a generational identifier (index, generation) for a logical object.
  - Component: a data item of fixed layout, itself identified by an entity ID.
  - Archetype: the exact set of component IDs an entity carries, and the table
    that stores every entity with that set.
  - Query: a set of fetch descriptors (entity ID / read / write) planned into
    a bitset-intersection iterator over matching archetypes.

Basic Usage:

	w := warehouse.NewWorld()

	position := warehouse.RegisterComponent[Position](w)
	velocity := warehouse.RegisterComponent[Velocity](w)

	b := w.Spawn()
	warehouse.WithDataT(b, position, Position{X: 1})
	warehouse.WithDataT(b, velocity, Velocity{X: 2})
	e := b.Build()

	q := w.Query(warehouse.Write(position), warehouse.Read(velocity))
	defer q.Release()

	it := q.RowIter()
	for it.Next() {
		ptrs := it.Ptrs()
		pos := (*Position)(ptrs[0])
		vel := (*Velocity)(ptrs[1])
		pos.X += vel.X
	}

Warehouse also exposes a legacy boolean query tree (LegacyQuery/LegacyQueryNode/Cursor)
for callers that prefer evaluating archetype membership directly instead of
building a fetch-descriptor plan.
*/
package warehouse
