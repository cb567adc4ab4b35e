package warehouse

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderWithDataAndWithTag(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[Position](w)
	type marker struct{}
	tag := RegisterComponent[marker](w)

	b := w.Spawn()
	WithDataT(b, pos, Position{X: 3, Y: 4})
	b.WithTag(tag)
	e := b.Build()

	require.True(t, w.HasComponent(e, pos))
	require.True(t, w.HasComponent(e, tag))
	p, ok := GetComponent[Position](w, e, pos)
	require.True(t, ok)
	require.Equal(t, 3.0, p.X)
	require.Equal(t, 4.0, p.Y)
}

func TestBuilderDuplicateComponentAborts(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[Position](w)

	defer func() {
		require.NotNil(t, recover(), "expected a panic for a duplicate staged component")
	}()
	b := w.Spawn()
	b.WithTag(pos)
	b.WithTag(pos)
	b.Build()
}

func TestBuilderPoolReuse(t *testing.T) {
	w := NewWorld()
	pos := RegisterComponent[Position](w)

	b1 := w.Spawn()
	b1.WithTag(pos)
	e1 := b1.Build()

	b2 := w.Spawn()
	require.Empty(t, b2.comps, "a reused builder should start with no staged components")
	e2 := b2.Build()

	require.NotEqual(t, e1, e2, "two builds should produce distinct entities")
}

func TestBuilderWithUnregisteredComponentAborts(t *testing.T) {
	w := NewWorld()
	unregistered := EntityID{index: 999}

	defer func() {
		require.NotNil(t, recover(), "expected a panic staging a component with no registered layout")
	}()
	w.Spawn().WithTag(unregistered)
}
