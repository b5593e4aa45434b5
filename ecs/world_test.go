package ecs

import (
	"testing"

	"github.com/milk9111/vrlocomotion/ecs/component"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			require.Len(t, Entities(w), c.create)
			if c.destroyIndex < 0 {
				return
			}
			e := ents[c.destroyIndex]
			assert.True(t, DestroyEntity(w, e))
			assert.False(t, IsAlive(w, e))
			assert.False(t, DestroyEntity(w, e), "second destroy")
			assert.Len(t, Entities(w), c.create-1)
		})
	}
}

func TestStaleHandleAfterReuse(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]("n")

	old := CreateEntity(w)
	require.NoError(t, Add(w, old, h, 1))
	require.True(t, DestroyEntity(w, old))

	reused := CreateEntity(w)
	assert.Equal(t, old.id(), reused.id())
	assert.NotEqual(t, old, reused)
	assert.False(t, Has(w, reused, h), "components die with the entity")
	assert.ErrorIs(t, Add(w, old, h, 2), component.ErrEntityNotAlive)
	_, ok := Get(w, old, h)
	assert.False(t, ok)
}

func TestComponents(t *testing.T) {
	w := NewWorld()

	h1 := component.NewComponent[int]("int")
	h2 := component.NewComponent[string]("string")
	h3 := component.NewComponent[float64]("float")

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, h1, 10) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, h1)
				require.True(t, ok)
				assert.Equal(t, 10, *v)
			},
			teardown: func() bool { return Remove(w, e1, h1) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, h2, "a"); err != nil {
					return err
				}
				return Add(w, e2, h2, "b")
			},
			check: func(t *testing.T) {
				assert.True(t, Has(w, e1, h2))
				assert.True(t, Has(w, e2, h2))
			},
			teardown: func() bool { return Remove(w, e1, h2) },
		},
		{
			name:  "write_through_pointer",
			setup: func() error { return Add(w, e2, h3, 1.5) },
			check: func(t *testing.T) {
				v, _ := Get(w, e2, h3)
				*v = 2.5
				again, _ := Get(w, e2, h3)
				assert.Equal(t, 2.5, *again)
			},
			teardown: func() bool { return Remove(w, e2, h3) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, tc.setup())
			tc.check(t)
			assert.True(t, tc.teardown())
		})
	}

	assert.False(t, Remove(w, e1, h1), "already removed")
	assert.ErrorIs(t, Add(w, e1, component.ComponentHandle[int]{}, 1), component.ErrInvalidComponentKind)
}

func TestRemoveKeepsOthers(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]("n")
	ents := []Entity{CreateEntity(w), CreateEntity(w), CreateEntity(w)}
	for i, e := range ents {
		require.NoError(t, Add(w, e, h, i*10))
	}

	require.True(t, Remove(w, ents[0], h))
	for i, e := range ents[1:] {
		v, ok := Get(w, e, h)
		require.True(t, ok)
		assert.Equal(t, (i+1)*10, *v)
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	h := component.NewComponent[int]("n")

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	require.NoError(t, Add(w, e1, h, 1))
	require.NoError(t, Add(w, e3, h, 3))

	var ents []Entity
	ForEach(w, h, func(e Entity, _ *int) { ents = append(ents, e) })
	assert.ElementsMatch(t, []Entity{e1, e3}, ents)
	assert.NotContains(t, ents, e2)

	first, ok := First(w, h)
	require.True(t, ok)
	assert.Equal(t, e1, first)
}

func TestForEach3(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)
				e4 := CreateEntity(w)

				ka := component.NewComponent[int]("a")
				kb := component.NewComponent[int]("b")
				kc := component.NewComponent[int]("c")

				require.NoError(t, Add(w, e1, ka, 1))
				require.NoError(t, Add(w, e2, ka, 2))
				require.NoError(t, Add(w, e2, kb, 3))
				require.NoError(t, Add(w, e2, kc, 5))
				require.NoError(t, Add(w, e3, kb, 4))
				require.NoError(t, Add(w, e4, kc, 6))

				var res []Entity
				sum := 0
				ForEach3(w, ka, kb, kc, func(e Entity, a, b, c *int) {
					res = append(res, e)
					sum = *a + *b + *c
				})
				assert.Equal(t, []Entity{e2}, res)
				assert.Equal(t, 10, sum)
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponent[int]("a")
				kb := component.NewComponent[int]("b")
				kc := component.NewComponent[int]("c")

				require.NoError(t, Add(w, e, ka, 1))
				require.NoError(t, Add(w, e, kb, 2))
				require.NoError(t, Add(w, e, kc, 3))
				require.True(t, DestroyEntity(w, e))

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _, _, _ *int) { res = append(res, e) })
				assert.Empty(t, res)
			},
		},
		{
			name: "missing_store",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponent[int]("a")
				kb := component.NewComponent[int]("b")
				kc := component.NewComponent[int]("c")

				require.NoError(t, Add(w, e, ka, 1))

				var res []Entity
				ForEach3(w, ka, kb, kc, func(e Entity, _, _, _ *int) { res = append(res, e) })
				assert.Empty(t, res)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

type recordSystem struct {
	name string
	log  *[]string
	dt   *float64
}

func (s recordSystem) Update(w *World) {
	*s.log = append(*s.log, s.name)
	*s.dt = w.Delta()
	w.Events().Push(Event{Type: EventType(s.name)})
}

func TestUpdateRunsSystemsInOrder(t *testing.T) {
	w := NewWorld()
	var log []string
	var dt float64
	w.AddSystem(recordSystem{"a", &log, &dt})
	w.AddSystem(nil)
	w.AddSystem(recordSystem{"b", &log, &dt})
	require.Len(t, w.Systems(), 2)

	w.Update(0.25)
	assert.Equal(t, []string{"a", "b"}, log)
	assert.Equal(t, 0.25, dt)
	assert.Equal(t, uint64(1), w.Tick())
	assert.Equal(t, 2, w.Events().Len())

	w.Update(0.5)
	events := w.Events().Drain()
	require.Len(t, events, 2, "undrained events from the last update are dropped")
	assert.Equal(t, EventType("a"), events[0].Type)
	assert.Zero(t, w.Events().Len())
}
