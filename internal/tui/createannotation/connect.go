package createannotation

import (
	"github.com/jask/annotate/internal/actions"
	"github.com/jask/annotate/internal/reducers"
	"github.com/jask/annotate/internal/store"
)

// SelectState maps the application state to form props. The form only
// writes, so nothing is selected.
func SelectState(reducers.State) StateProps { return StateProps{} }

// MapDispatch binds the create action creator to dispatch.
func MapDispatch(dispatch store.Dispatch) ActionProps {
	return ActionProps{
		CreateAnnotation: store.BindAction2(dispatch, actions.CreateAnnotation),
	}
}

// Connect returns the store-connected form.
func Connect(src store.Source[reducers.State]) store.Connector[reducers.State, OwnProps, StateProps, ActionProps] {
	return store.Connect(src, SelectState, MapDispatch, func(p Props) store.Component[Props] {
		return New(p)
	})
}
