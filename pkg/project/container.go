package project

import "sync"

// Observer is called after every applied action with the previous and the
// new state.
type Observer func(prev, next State)

// Container owns the current state. It is the only place where state is
// replaced; Apply serializes writers.
type Container struct {
	mu        sync.Mutex
	state     State
	observers []Observer
}

// NewContainer returns a container holding initial, normalized through Load.
func NewContainer(initial State) *Container {
	return &Container{state: Load(initial)(State{})}
}

// State returns the current state.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Observe registers fn to be called after each Apply.
func (c *Container) Observe(fn Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Apply runs action on the current state, stores the result and notifies
// observers. Observers run after the lock is released and may call State
// but must not call Apply.
func (c *Container) Apply(action Action) State {
	c.mu.Lock()
	prev := c.state
	next := action(prev)
	c.state = next
	observers := c.observers
	c.mu.Unlock()

	for _, fn := range observers {
		fn(prev, next)
	}
	return next
}
