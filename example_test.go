package warehouse_test

import (
	"fmt"

	"github.com/archtype/warehouse"
)

// Position is a simple component for 2D coordinates.
type Position struct {
	X float64
	Y float64
}

// Velocity is a simple component for 2D movement.
type Velocity struct {
	X float64
	Y float64
}

// Name is a simple component for entity identification.
type Name struct {
	Value string
}

// Example_basic shows basic warehouse usage with entity creation and
// queries.
func Example_basic() {
	w := warehouse.NewWorld()

	position := warehouse.NewAccessibleComponent[Position](w)
	velocity := warehouse.NewAccessibleComponent[Velocity](w)
	name := warehouse.NewAccessibleComponent[Name](w)

	for i := 0; i < 5; i++ {
		w.Spawn().WithTag(position.ID).Build()
	}
	for i := 0; i < 3; i++ {
		w.Spawn().WithTag(position.ID).WithTag(velocity.ID).Build()
	}

	b := w.Spawn().WithTag(position.ID).WithTag(velocity.ID).WithTag(name.ID)
	player := b.Build()

	nameComp, _ := name.GetFromEntity(w, player)
	nameComp.Value = "Player"

	pos, _ := position.GetFromEntity(w, player)
	vel, _ := velocity.GetFromEntity(w, player)
	pos.X, pos.Y = 10.0, 20.0
	vel.X, vel.Y = 1.0, 2.0

	q := w.Query(warehouse.Read(position.ID), warehouse.Read(velocity.ID))
	matchCount := 0
	it := q.RowIter()
	for it.Next() {
		matchCount++
	}
	q.Release()
	fmt.Printf("Found %d entities with position and velocity\n", matchCount)

	lq := warehouse.NewLegacyQuery()
	cur := warehouse.NewCursor(lq.And(name.ID), w)
	for cur.Next() {
		e := cur.CurrentEntity()
		pos, _ := position.GetFromEntity(w, e)
		vel, _ := velocity.GetFromEntity(w, e)
		nme, _ := name.GetFromEntity(w, e)

		pos.X += vel.X
		pos.Y += vel.Y

		fmt.Printf("Updated %s to position (%.1f, %.1f)\n", nme.Value, pos.X, pos.Y)
	}

	// Output:
	// Found 4 entities with position and velocity
	// Updated Player to position (11.0, 22.0)
}

// Example_queries shows how to use the legacy boolean query tree's And/
// Or/Not operations.
func Example_queries() {
	w := warehouse.NewWorld()

	position := warehouse.RegisterComponent[Position](w)
	velocity := warehouse.RegisterComponent[Velocity](w)
	name := warehouse.RegisterComponent[Name](w)

	spawnTagged := func(n int, comps ...warehouse.ComponentID) {
		for i := 0; i < n; i++ {
			b := w.Spawn()
			for _, c := range comps {
				b.WithTag(c)
			}
			b.Build()
		}
	}

	spawnTagged(3, position)
	spawnTagged(3, position, velocity)
	spawnTagged(3, position, name)
	spawnTagged(3, position, velocity, name)

	lq := warehouse.NewLegacyQuery()

	andNode := lq.And(position, velocity)
	cur := warehouse.NewCursor(andNode, w)
	fmt.Printf("AND query matched %d entities\n", cur.TotalMatched())

	orNode := lq.Or(velocity, name)
	cur = warehouse.NewCursor(orNode, w)
	fmt.Printf("OR query matched %d entities\n", cur.TotalMatched())

	// The three component entities spawned by RegisterComponent carry no
	// components, so they match Not(velocity) as well.
	notNode := lq.Not(velocity)
	cur = warehouse.NewCursor(notNode, w)
	fmt.Printf("NOT query matched %d entities\n", cur.TotalMatched())

	// Output:
	// AND query matched 6 entities
	// OR query matched 9 entities
	// NOT query matched 9 entities
}
