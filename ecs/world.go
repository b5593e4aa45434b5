package ecs

import "github.com/milk9111/vrlocomotion/ecs/component"

// World owns entities, component stores, the system schedule and the event
// queue. It is not safe for concurrent use.
type World struct {
	entities  entityStore
	stores    map[component.ComponentID]store
	scheduler *Scheduler
	events    EventQueue

	dt   float64
	tick uint64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores:    make(map[component.ComponentID]store),
		scheduler: NewScheduler(),
	}
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil {
		return
	}
	w.scheduler.Add(s)
}

// Systems returns the update order.
func (w *World) Systems() []System {
	if w == nil {
		return nil
	}
	return w.scheduler.Systems()
}

// Update runs all systems once with dt seconds of elapsed time. Events from
// the previous update that nobody drained are dropped first.
func (w *World) Update(dt float64) {
	if w == nil {
		return
	}
	w.events.flush()
	w.dt = dt
	w.tick++
	w.scheduler.Update(w)
}

// Delta is the elapsed time of the running update.
func (w *World) Delta() float64 {
	if w == nil {
		return 0
	}
	return w.dt
}

// Tick counts updates since the world was created.
func (w *World) Tick() uint64 {
	if w == nil {
		return 0
	}
	return w.tick
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}
