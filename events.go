package silo

import "reflect"

// Events is a typed, queued event channel for decoupled cross-system
// signaling. Producers publish values of any type at any point in a
// tick; consumers drain exactly one type at a time, receiving the
// queued values in publication order.
//
// Queues are unbounded and never expire: events of a type nobody
// drains accumulate until Clear is called.
type Events struct {
	queues map[reflect.Type][]any
}

// Publish appends the event to the queue of its dynamic type.
func Publish[E any](events *Events, event E) {
	if events.queues == nil {
		events.queues = map[reflect.Type][]any{}
	}

	key := reflect.TypeFor[E]()
	events.queues[key] = append(events.queues[key], event)
}

// Drain removes and returns all queued events of exactly type E, in
// publication order. Other types' queues are untouched. Returns nil
// when nothing is queued.
func Drain[E any](events *Events) []E {
	key := reflect.TypeFor[E]()

	queue, ok := events.queues[key]
	if !ok {
		return nil
	}
	delete(events.queues, key)

	drained := make([]E, len(queue))
	for i, event := range queue {
		drained[i] = event.(E)
	}
	return drained
}

// Clear discards all queued events of every type.
func (e *Events) Clear() {
	clear(e.queues)
}

// Pending returns the number of queued events of every type combined.
func (e *Events) Pending() int {
	n := 0
	for _, queue := range e.queues {
		n += len(queue)
	}
	return n
}
