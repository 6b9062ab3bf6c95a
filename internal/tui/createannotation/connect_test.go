package createannotation

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/jask/annotate/internal/actions"
	"github.com/jask/annotate/internal/annotation"
	"github.com/jask/annotate/internal/reducers"
	"github.com/jask/annotate/internal/store"
)

// fakeStore records dispatches and tracks live subscriptions.
type fakeStore struct {
	state      reducers.State
	dispatched []store.Action
	listeners  map[int]store.Listener[reducers.State]
	next       int
	subscribed int
}

func newFakeStore() *fakeStore {
	return &fakeStore{listeners: map[int]store.Listener[reducers.State]{}}
}

func (f *fakeStore) State() reducers.State { return f.state }

func (f *fakeStore) Dispatch(a store.Action) { f.dispatched = append(f.dispatched, a) }

func (f *fakeStore) Subscribe(l store.Listener[reducers.State]) func() {
	f.next++
	id := f.next
	f.listeners[id] = l
	f.subscribed++
	return func() { delete(f.listeners, id) }
}

func TestSelectStateIsEmptyForAnyState(t *testing.T) {
	states := []reducers.State{
		{},
		reducers.Initial("index-1"),
		{
			Index:       "index-2",
			Query:       "q",
			Pending:     3,
			Annotations: []annotation.Annotation{{Index: "index-2", ID: "abc"}},
			LastCreated: &annotation.Annotation{ID: "abc"},
		},
	}
	for _, s := range states {
		require.Equal(t, StateProps{}, SelectState(s))
	}
}

func TestBoundCreateDispatchesExactlyOnce(t *testing.T) {
	fs := newFakeStore()
	bound := Connect(fs)(OwnProps{})

	bound.Props().Actions.CreateAnnotation("index-1", "abc-123")

	require.Len(t, fs.dispatched, 1)
	require.Equal(t, actions.CreateAnnotation("index-1", "abc-123"), fs.dispatched[0])
}

func TestMountRegistersOneSubscription(t *testing.T) {
	fs := newFakeStore()
	connect := Connect(fs)

	for i := 0; i < 10; i++ {
		bound := connect(OwnProps{})
		bound.Init()
		require.Len(t, fs.listeners, 1)
		bound.Unmount()
		require.Empty(t, fs.listeners)
	}
	require.Equal(t, 10, fs.subscribed)
}

func TestMountWithoutOwnPropsReceivesOnlyTheAction(t *testing.T) {
	fs := newFakeStore()
	bound := Connect(fs)(OwnProps{})

	p := bound.Props()
	require.Equal(t, OwnProps{}, p.Own)
	require.Equal(t, StateProps{}, p.State)
	require.NotNil(t, p.Actions.CreateAnnotation)

	form := bound.Inner().(*Form)
	require.NotNil(t, CreateAnnotation(form.Props()))
}

func TestBoundActionOverridesOwnProp(t *testing.T) {
	fs := newFakeStore()
	var parentCalls int
	bound := Connect(fs)(OwnProps{
		Index:            "index-1",
		CreateAnnotation: func(string, string) { parentCalls++ },
	})

	bound.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	bound.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Zero(t, parentCalls)
	require.Equal(t, []store.Action{actions.CreateAnnotation("index-1", "abc")}, fs.dispatched)
}

func TestOwnPropUsedWithoutBinding(t *testing.T) {
	var got []string
	form := New(Props{Own: OwnProps{
		Index:            "index-1",
		CreateAnnotation: func(index, id string) { got = append(got, index+"/"+id) },
	}})

	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("xyz")})
	form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, []string{"index-1/xyz"}, got)
}

func TestBlankIDGeneratesOne(t *testing.T) {
	fs := newFakeStore()
	bound := Connect(fs)(OwnProps{Index: "index-1"})

	bound.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Len(t, fs.dispatched, 1)
	req := fs.dispatched[0].(actions.CreateAnnotationRequested)
	require.Equal(t, "index-1", req.Index)
	require.Len(t, req.ID, 36)
}

func TestFormTabMovesFocus(t *testing.T) {
	fs := newFakeStore()
	bound := Connect(fs)(OwnProps{})

	bound.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("idx")})
	bound.Update(tea.KeyMsg{Type: tea.KeyTab})
	bound.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	bound.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, []store.Action{actions.CreateAnnotation("idx", "abc")}, fs.dispatched)
	require.Contains(t, bound.View(), "requested idx/abc")
}

func TestFormEditsAndCyclesFocus(t *testing.T) {
	form := New(Props{Own: OwnProps{Index: "index-1"}})

	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abcd")})
	form.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	require.Equal(t, "abc", form.Value(focusID))

	form.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-2")})
	require.Equal(t, "index-1-2", form.Value(focusIndex))
	require.Equal(t, "abc", form.Value(focusID))

	form.Update(tea.KeyMsg{Type: tea.KeyTab})
	form.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Empty(t, form.Value(focusID))
	require.Equal(t, "index-1-2", form.Value(focusIndex))
}

func TestSetPropsFollowsUntouchedIndex(t *testing.T) {
	form := New(Props{Own: OwnProps{Index: "index-1"}})
	form.SetProps(Props{Own: OwnProps{Index: "index-2"}})
	require.Equal(t, "index-2", form.Value(focusIndex))

	form.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	form.SetProps(Props{Own: OwnProps{Index: "index-3"}})
	require.Equal(t, "index-2x", form.Value(focusIndex))
}
