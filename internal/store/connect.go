package store

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Props is the input a connected component renders from.
//
// Own holds what the parent passed in, State what was selected from the
// store and Actions the dispatch-bound callbacks. When the same logical prop
// appears in more than one field the component must resolve it as
// Actions over State over Own.
type Props[O, S, D any] struct {
	Own     O
	State   S
	Actions D
}

// Component is a tea.Model whose input can be replaced between renders.
type Component[P any] interface {
	tea.Model
	SetProps(P)
}

// Connector builds a mounted-on-Init component for the given own props.
type Connector[St, O, S, D any] func(own O) *Bound[St, O, S, D]

// Connect binds components to src. selectState derives the state slice on
// every store change and mapDispatch builds the action callbacks once per
// instance.
func Connect[St, O, S, D any](
	src Source[St],
	selectState func(St) S,
	mapDispatch func(Dispatch) D,
	newComponent func(Props[O, S, D]) Component[Props[O, S, D]],
) Connector[St, O, S, D] {
	return func(own O) *Bound[St, O, S, D] {
		b := &Bound[St, O, S, D]{
			src:         src,
			selectState: selectState,
		}
		b.props = Props[O, S, D]{
			Own:     own,
			State:   selectState(src.State()),
			Actions: mapDispatch(src.Dispatch),
		}
		b.inner = newComponent(b.props)
		return b
	}
}

// BindAction turns a one-argument action creator into a callback that
// dispatches whatever the creator returns.
func BindAction[A any, T Action](dispatch Dispatch, creator func(A) T) func(A) {
	return func(a A) { dispatch(creator(a)) }
}

// BindAction2 is BindAction for two-argument creators.
func BindAction2[A, B any, T Action](dispatch Dispatch, creator func(A, B) T) func(A, B) {
	return func(a A, b B) { dispatch(creator(a, b)) }
}

type changedMsg struct {
	owner any
}

// Bound is a component connected to a store. It subscribes on Init and
// stays subscribed until Unmount.
type Bound[St, O, S, D any] struct {
	src         Source[St]
	selectState func(St) S
	props       Props[O, S, D]
	inner       Component[Props[O, S, D]]

	mu          sync.Mutex
	unsubscribe func()
	changes     chan struct{}
	done        chan struct{}
}

// Init mounts the component and starts listening for store changes.
func (b *Bound[St, O, S, D]) Init() tea.Cmd {
	b.Mount()
	return tea.Batch(b.inner.Init(), b.wait())
}

// Mount subscribes to the store. Mounting twice is a no-op.
func (b *Bound[St, O, S, D]) Mount() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unsubscribe != nil {
		return
	}
	changes := make(chan struct{}, 1)
	b.changes = changes
	b.done = make(chan struct{})
	// runs on the dispatching goroutine; never block it.
	b.unsubscribe = b.src.Subscribe(func(St) {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	b.refresh()
}

// Unmount removes the store subscription.
func (b *Bound[St, O, S, D]) Unmount() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.unsubscribe == nil {
		return
	}
	b.unsubscribe()
	b.unsubscribe = nil
	close(b.done)
}

// Mounted reports whether the component holds a subscription.
func (b *Bound[St, O, S, D]) Mounted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unsubscribe != nil
}

func (b *Bound[St, O, S, D]) wait() tea.Cmd {
	b.mu.Lock()
	changes, done := b.changes, b.done
	b.mu.Unlock()
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-changes:
			return changedMsg{owner: b}
		case <-done:
			return nil
		}
	}
}

func (b *Bound[St, O, S, D]) refresh() {
	b.props.State = b.selectState(b.src.State())
	b.inner.SetProps(b.props)
}

// Update re-derives props on store changes and forwards everything else to
// the wrapped component.
func (b *Bound[St, O, S, D]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m, ok := msg.(changedMsg); ok {
		if m.owner != b {
			return b, nil
		}
		if !b.Mounted() {
			return b, nil
		}
		b.refresh()
		return b, b.wait()
	}
	next, cmd := b.inner.Update(msg)
	c, ok := next.(Component[Props[O, S, D]])
	if !ok {
		panic(fmt.Sprintf("store: %T.Update returned %T, which cannot take props", b.inner, next))
	}
	b.inner = c
	return b, cmd
}

// View renders the wrapped component.
func (b *Bound[St, O, S, D]) View() string {
	return b.inner.View()
}

// Props returns the props last handed to the wrapped component.
func (b *Bound[St, O, S, D]) Props() Props[O, S, D] {
	return b.props
}

// Inner exposes the wrapped component.
func (b *Bound[St, O, S, D]) Inner() Component[Props[O, S, D]] {
	return b.inner
}

// SetOwn replaces the parent-supplied props.
func (b *Bound[St, O, S, D]) SetOwn(own O) {
	b.props.Own = own
	b.inner.SetProps(b.props)
}
