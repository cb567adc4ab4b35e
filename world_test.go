package warehouse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorldSpawnGenerationReuse(t *testing.T) {
	w := NewWorld()
	e := w.Spawn().Build()
	require.True(t, w.IsAlive(e), "freshly spawned entity should be alive")
	w.Despawn(e)
	require.False(t, w.IsAlive(e), "despawned entity should not be alive")

	e2 := w.Spawn().Build()
	require.Equal(t, e.Index(), e2.Index(), "expected the freed index to be reused")
	require.NotEqual(t, e.Generation(), e2.Generation(), "reused index should carry a bumped generation")
	require.False(t, w.IsAlive(e), "the stale original identifier must not read as alive after reuse")
}

func TestWorldAddComponentMigratesArchetype(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[Position](w)
	vel := RegisterComponent[Velocity](w)

	e := w.Spawn().WithTag(pos).Build()
	require.True(t, w.HasComponent(e, pos))
	require.False(t, w.HasComponent(e, vel))

	require.NoError(t, w.AddComponentTag(e, vel))
	require.True(t, w.HasComponent(e, pos))
	require.True(t, w.HasComponent(e, vel))
}

func TestWorldAddComponentPreservesExistingData(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[Position](w)
	vel := RegisterComponent[Velocity](w)

	b := w.Spawn()
	WithDataT(b, pos, Position{X: 7, Y: 9})
	e := b.Build()

	require.NoError(t, AddComponentT(w, e, vel, Velocity{X: 1, Y: 2}))

	p, ok := GetComponent[Position](w, e, pos)
	require.True(t, ok)
	require.Equal(t, 7.0, p.X)
	require.Equal(t, 9.0, p.Y)

	v, ok := GetComponent[Velocity](w, e, vel)
	require.True(t, ok)
	require.Equal(t, 1.0, v.X)
	require.Equal(t, 2.0, v.Y)
}

func TestWorldRemoveComponent(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[Position](w)
	vel := RegisterComponent[Velocity](w)

	e := w.Spawn().WithTag(pos).WithTag(vel).Build()
	require.NoError(t, w.RemoveComponent(e, vel))
	require.False(t, w.HasComponent(e, vel))
	require.True(t, w.HasComponent(e, pos), "unrelated component should survive removal")
}

func TestWorldRemoveThenSpawnReusesArchetype(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[Position](w)
	vel := RegisterComponent[Velocity](w)

	e1 := w.Spawn().WithTag(pos).WithTag(vel).Build()
	w.RemoveComponent(e1, vel)

	before := len(w.archetypes)
	e2 := w.Spawn().WithTag(pos).Build()
	after := len(w.archetypes)

	require.Equal(t, before, after, "spawning into an already-visited archetype should not create a new one")
	require.Equal(t, w.meta[e1.index].archetype, w.meta[e2.index].archetype, "e1 and e2 should land in the same archetype")
}

func TestWorldDespawnSwapRemoveUpdatesMeta(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[Position](w)

	e1 := w.Spawn().WithTag(pos).Build()
	e2 := w.Spawn().WithTag(pos).Build()
	e3 := w.Spawn().WithTag(pos).Build()

	w.Despawn(e1)

	require.True(t, w.IsAlive(e2))
	require.True(t, w.IsAlive(e3))
	arch := w.archetypes[w.meta[e3.index].archetype]
	require.Equal(t, e3, arch.entities[w.meta[e3.index].row], "meta for the swapped-in entity must point at its new row")
}

func TestWorldTagComponentHasNoColumn(t *testing.T) {
	w := NewWorld()
	type marker struct{}
	tag := RegisterComponent[marker](w)

	e := w.Spawn().WithTag(tag).Build()
	require.True(t, w.HasComponent(e, tag))
	_, ok := w.GetComponentRaw(e, tag)
	require.False(t, ok, "a zero-sized tag should have no column-backed storage")
}

func TestWorldLockedForbidsStructuralMutation(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[Position](w)
	e := w.Spawn().WithTag(pos).Build()

	q := w.Query(Read(pos))
	defer func() {
		require.NotNil(t, recover(), "structural mutation while a query holds locks should abort")
		q.Release()
	}()
	w.Despawn(e)
}
