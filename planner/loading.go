package planner

import "sync"

// LoadCounter tracks how many entity loads are in flight. It drives a global
// loading indicator and never drops below zero.
type LoadCounter struct {
	mu    sync.Mutex
	count int
	subs  subscriptions

	// Changed fires with the new count after every transition
	Changed Event[int]
}

// NewLoadCounter creates a counter attached to the registry's load lifecycle
func NewLoadCounter(r *Registry) *LoadCounter {
	c := &LoadCounter{}
	if r != nil {
		c.Attach(&r.Loading, &r.Loaded, &r.LoadFailed)
	}
	return c
}

// Attach subscribes the counter to a loading/loaded/failed event triple
func (c *LoadCounter) Attach(loading, loaded, failed *Event[*Entity]) {
	c.subs.add(loading.Subscribe(func(*Entity) { c.Inc() }))
	c.subs.add(loaded.Subscribe(func(*Entity) { c.Dec() }))
	c.subs.add(failed.Subscribe(func(*Entity) { c.Dec() }))
}

// Inc records a load start
func (c *LoadCounter) Inc() {
	c.mu.Lock()
	c.count++
	n := c.count
	c.mu.Unlock()
	c.Changed.Emit(n)
}

// Dec records a load finish; the count is clamped at zero
func (c *LoadCounter) Dec() {
	c.mu.Lock()
	if c.count > 0 {
		c.count--
	}
	n := c.count
	c.mu.Unlock()
	c.Changed.Emit(n)
}

// Count returns the number of loads in flight
func (c *LoadCounter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

// Loading reports whether any load is in flight
func (c *LoadCounter) Loading() bool { return c.Count() > 0 }

// Close detaches the counter from its events
func (c *LoadCounter) Close() { c.subs.close() }
