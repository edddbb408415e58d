package planner

import "sync"

// Subscription identifies a registered handler so it can be removed later
type Subscription struct {
	id    uint64
	unsub func(uint64)
}

// Unsubscribe removes the handler. Calling it more than once is harmless.
func (s Subscription) Unsubscribe() {
	if s.unsub != nil {
		s.unsub(s.id)
	}
}

type handlerEntry[T any] struct {
	id uint64
	fn func(T)
}

// Event is a typed observer list. Emit delivers synchronously to every
// handler in subscription order; handlers added or removed during an Emit
// take effect from the next Emit.
type Event[T any] struct {
	mu       sync.Mutex
	nextID   uint64
	handlers []handlerEntry[T]
}

// Subscribe registers fn and returns a handle for removing it
func (e *Event[T]) Subscribe(fn func(T)) Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nextID++
	id := e.nextID
	e.handlers = append(e.handlers, handlerEntry[T]{id: id, fn: fn})
	return Subscription{id: id, unsub: e.remove}
}

func (e *Event[T]) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, h := range e.handlers {
		if h.id == id {
			e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
			return
		}
	}
}

// Emit calls every handler with v
func (e *Event[T]) Emit(v T) {
	e.mu.Lock()
	snapshot := e.handlers
	e.mu.Unlock()

	for _, h := range snapshot {
		h.fn(v)
	}
}

// Len returns the number of registered handlers
func (e *Event[T]) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers)
}

// Signal is an Event without payload
type Signal = Event[struct{}]

// Fire emits a payload-free signal
func Fire(s *Signal) { s.Emit(struct{}{}) }

// subscriptions collects handles so a component can detach in one call
type subscriptions []Subscription

func (s *subscriptions) add(sub Subscription) { *s = append(*s, sub) }

func (s *subscriptions) close() {
	for _, sub := range *s {
		sub.Unsubscribe()
	}
	*s = nil
}
