package ecs

import (
	"fmt"

	"github.com/milk9111/vrlocomotion/ecs/component"
)

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity drops every component of e and frees its slot. It reports
// false for stale or unknown handles.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether an entity handle is valid.
func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities lists the live entities in slot order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.list()
}

func storeOf[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if s, ok := w.stores[kind.ID()]; ok {
		typed, _ := s.(*sparseSet[T])
		return typed
	}
	if !create {
		return nil
	}
	s := newSparseSet[T]()
	w.stores[kind.ID()] = s
	return s
}

// Add inserts or replaces e's value for the handle's component.
func Add[T any](w *World, e Entity, h component.ComponentHandle[T], value T) error {
	kind := h.Kind()
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if !IsAlive(w, e) {
		return fmt.Errorf("%w: %s add %s", component.ErrEntityNotAlive, e, kind.Name())
	}
	s := storeOf(w, kind, true)
	if s == nil {
		return fmt.Errorf("%w: %s registered with another type", component.ErrInvalidComponentKind, kind.Name())
	}
	s.set(e.id(), value)
	return nil
}

// Get returns a pointer to e's stored value. Writes through it are visible to
// later systems in the same update.
func Get[T any](w *World, e Entity, h component.ComponentHandle[T]) (*T, bool) {
	if !IsAlive(w, e) {
		return nil, false
	}
	s := storeOf(w, h.Kind(), false)
	if s == nil {
		return nil, false
	}
	return s.get(e.id())
}

func Has[T any](w *World, e Entity, h component.ComponentHandle[T]) bool {
	_, ok := Get(w, e, h)
	return ok
}

func Remove[T any](w *World, e Entity, h component.ComponentHandle[T]) bool {
	if !IsAlive(w, e) {
		return false
	}
	s := storeOf(w, h.Kind(), false)
	return s != nil && s.remove(e.id())
}

// ForEach visits every live entity holding the component.
func ForEach[T any](w *World, h component.ComponentHandle[T], fn func(Entity, *T)) {
	for _, e := range w.Query(h.Kind()) {
		if v, ok := Get(w, e, h); ok {
			fn(e, v)
		}
	}
}

// ForEach2 visits entities holding both components.
func ForEach2[A, B any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(Entity, *A, *B)) {
	for _, e := range w.Query(ha.Kind(), hb.Kind()) {
		a, okA := Get(w, e, ha)
		b, okB := Get(w, e, hb)
		if okA && okB {
			fn(e, a, b)
		}
	}
}

// ForEach3 visits entities holding all three components.
func ForEach3[A, B, C any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], hc component.ComponentHandle[C], fn func(Entity, *A, *B, *C)) {
	for _, e := range w.Query(ha.Kind(), hb.Kind(), hc.Kind()) {
		a, okA := Get(w, e, ha)
		b, okB := Get(w, e, hb)
		c, okC := Get(w, e, hc)
		if okA && okB && okC {
			fn(e, a, b, c)
		}
	}
}

// First returns the first entity holding the component.
func First[T any](w *World, h component.ComponentHandle[T]) (Entity, bool) {
	ents := w.Query(h.Kind())
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}
