package ecs

import "github.com/milk9111/vrlocomotion/ecs/component"

// Query returns the live entities that have every given component kind, in
// the dense order of the smallest store.
func (w *World) Query(kinds ...component.Kinded) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]store, 0, len(kinds))
	for _, k := range kinds {
		s, ok := w.stores[k.ID()]
		if !ok || s.len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}

	// iterate smaller set
	smallest := 0
	for i, s := range sets {
		if s.len() < sets[smallest].len() {
			smallest = i
		}
	}

	var out []Entity
	for _, id := range sets[smallest].ids() {
		if !hasAll(sets, id) {
			continue
		}
		if e, ok := w.entities.entity(id); ok {
			out = append(out, e)
		}
	}
	return out
}

func hasAll(sets []store, id entityID) bool {
	for _, s := range sets {
		if !s.has(id) {
			return false
		}
	}
	return true
}
