package silo

// System is the capability contract for pluggable per-tick behavior:
// input samplers, movement and physics passes, gameplay logic,
// extraction. A system reads and writes the store directly but routes
// structural changes it wants deferred through the command buffer.
type System interface {
	Update(store *Store, commands *Commands, dt float32)
}

// SystemFunc adapts a plain function to the System interface.
type SystemFunc func(store *Store, commands *Commands, dt float32)

func (f SystemFunc) Update(store *Store, commands *Commands, dt float32) {
	f(store, commands, dt)
}

// Commands buffers structural mutations requested while a system is
// iterating archetype columns. Applying mid-iteration would swap rows
// under the iterator, so the ticker applies the queue after each
// system returns.
type Commands struct {
	queue []func(*Store)
}

// Queue defers an arbitrary mutation.
func (c *Commands) Queue(fn func(*Store)) {
	c.queue = append(c.queue, fn)
}

// RemoveComponent defers detaching kind from the entity.
func (c *Commands) RemoveComponent(id EntityID, kind Kind) {
	c.Queue(func(s *Store) {
		s.RemoveComponent(id, kind)
	})
}

// RemoveEntity defers destroying the entity.
func (c *Commands) RemoveEntity(id EntityID) {
	c.Queue(func(s *Store) {
		s.RemoveEntity(id)
	})
}

// Emit defers publishing an event onto the store's channel.
func Emit[E any](c *Commands, event E) {
	c.Queue(func(s *Store) {
		Publish(s.Events(), event)
	})
}

func (c *Commands) apply(s *Store) {
	for _, fn := range c.queue {
		fn(s)
	}
	c.queue = c.queue[:0]
}

// Phase names a slot in the fixed per-tick order.
type Phase uint8

const (
	// PhaseInput samples input state into components.
	PhaseInput Phase = iota
	// PhaseSimulation runs bulk per-archetype passes such as
	// movement and physics write-back.
	PhaseSimulation
	// PhaseGameplay runs custom logic after transforms are
	// composed; it may create or destroy entities and components.
	PhaseGameplay
	// PhaseExtract reads the final state for rendering or UI.
	PhaseExtract

	numPhases
)

// Ticker drives one store through fixed simulation steps. Each step
// executes the phases in order with the hierarchy resolved between
// the simulation and gameplay phases, so no later phase ever observes
// a stale composed transform.
type Ticker struct {
	store    *Store
	systems  [numPhases][]System
	commands Commands
	ticks    uint64
}

func NewTicker(store *Store) *Ticker {
	return &Ticker{store: store}
}

func (t *Ticker) Store() *Store {
	return t.store
}

// Ticks returns the number of completed steps.
func (t *Ticker) Ticks() uint64 {
	return t.ticks
}

// AddSystem registers a system to run in the given phase. Systems of
// one phase run in registration order.
func (t *Ticker) AddSystem(phase Phase, systems ...System) {
	t.systems[phase] = append(t.systems[phase], systems...)
}

// Step advances the simulation by one fixed tick of dt seconds.
func (t *Ticker) Step(dt float32) {
	t.runPhase(PhaseInput, dt)
	t.runPhase(PhaseSimulation, dt)

	t.store.ResolveHierarchy()

	t.runPhase(PhaseGameplay, dt)
	t.runPhase(PhaseExtract, dt)

	t.ticks++
}

func (t *Ticker) runPhase(phase Phase, dt float32) {
	for _, system := range t.systems[phase] {
		system.Update(t.store, &t.commands, dt)
		t.commands.apply(t.store)
	}
}
