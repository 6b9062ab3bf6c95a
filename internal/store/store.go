// Package store holds application state behind a single dispatch entry point.
//
// State changes only through Dispatch: the reducer derives the next state
// from the current one and the action, then every subscribed listener is
// called with the new state. Middleware can observe or intercept actions on
// their way to the reducer.
package store

import (
	"sync"
)

// Action describes an intended state change.
// ActionType returns a stable identifier used for logging and debugging.
type Action interface {
	ActionType() string
}

// Reducer derives the next state. It must not mutate its input and must not
// dispatch.
type Reducer[S any] func(state S, action Action) S

// Listener is notified with the state produced by a dispatch.
type Listener[S any] func(state S)

// Dispatch submits an action.
type Dispatch func(Action)

// API is the view of the store handed to middleware.
type API[S any] struct {
	State    func() S
	Dispatch Dispatch
}

// Middleware wraps the dispatch chain. The first middleware passed to New
// sees an action first.
type Middleware[S any] func(api API[S]) func(next Dispatch) Dispatch

// Source is the part of a store that connected components depend on.
type Source[S any] interface {
	State() S
	Dispatch(action Action)
	Subscribe(listener Listener[S]) (unsubscribe func())
}

type subscription[S any] struct {
	id       uint64
	listener Listener[S]
}

// Store is a process-wide state container.
type Store[S any] struct {
	mu        sync.Mutex
	state     S
	reducer   Reducer[S]
	listeners []subscription[S]
	nextID    uint64

	// version counts reductions; delivered is the version listeners last saw.
	version   uint64
	delivered uint64
	notifying bool

	dispatch Dispatch
}

var _ Source[struct{}] = (*Store[struct{}])(nil)

// New returns a store seeded with initial and wired with middleware.
func New[S any](reducer Reducer[S], initial S, middleware ...Middleware[S]) *Store[S] {
	s := &Store[S]{state: initial, reducer: reducer}

	api := API[S]{
		State: s.State,
		// late-bound so middleware dispatching from inside the chain
		// re-enters at the top.
		Dispatch: func(a Action) { s.dispatch(a) },
	}
	chain := Dispatch(s.reduce)
	for i := len(middleware) - 1; i >= 0; i-- {
		chain = middleware[i](api)(chain)
	}
	s.dispatch = chain
	return s
}

// State returns the current state.
func (s *Store[S]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch runs action through the middleware chain and the reducer. When
// another dispatch is already notifying, listeners receive the new state from
// that goroutine and Dispatch may return before they do.
func (s *Store[S]) Dispatch(action Action) {
	if action == nil {
		return
	}
	s.dispatch(action)
}

func (s *Store[S]) reduce(action Action) {
	s.mu.Lock()
	s.state = s.reducer(s.state, action)
	s.version++
	if s.notifying {
		// the active notifier picks this state up before it returns.
		s.mu.Unlock()
		return
	}
	s.notifying = true
	s.mu.Unlock()
	s.notify()
}

// notify delivers the latest state until no newer one is pending. Only one
// goroutine notifies at a time, so listeners never see states out of order.
func (s *Store[S]) notify() {
	finished := false
	defer func() {
		if !finished {
			s.mu.Lock()
			s.notifying = false
			s.mu.Unlock()
		}
	}()
	for {
		s.mu.Lock()
		if s.delivered == s.version {
			s.notifying = false
			finished = true
			s.mu.Unlock()
			return
		}
		s.delivered = s.version
		next := s.state
		listeners := make([]subscription[S], len(s.listeners))
		copy(listeners, s.listeners)
		s.mu.Unlock()

		for _, sub := range listeners {
			sub.listener(next)
		}
	}
}

// Subscribe registers listener and returns a func that removes it.
// Calling the returned func more than once is a no-op.
func (s *Store[S]) Subscribe(listener Listener[S]) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription[S]{id: id, listener: listener})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

func (s *Store[S]) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.listeners {
		if sub.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount reports the number of active subscriptions.
func (s *Store[S]) ListenerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
