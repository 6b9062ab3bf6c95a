// Package reducers derives the application state from dispatched actions.
package reducers

import (
	"github.com/jask/annotate/internal/actions"
	"github.com/jask/annotate/internal/annotation"
	"github.com/jask/annotate/internal/store"
)

// State is the root application state.
type State struct {
	// Index is the data source the listing is scoped to.
	Index        string
	Query        string
	SeekPosition int
	Annotations  []annotation.Annotation

	// Pending counts requests still waiting on the backend.
	Pending     int
	LastCreated *annotation.Annotation
	Err         error
}

// Initial returns the state before anything was dispatched.
func Initial(index string) State {
	return State{Index: index}
}

// Reduce returns the state after action. The input state is left untouched.
func Reduce(s State, action store.Action) State {
	switch a := action.(type) {
	case actions.CreateAnnotationRequested,
		actions.UpdateRequested,
		actions.RemoveRequested:
		s.Pending++
		s.Err = nil
	case actions.SearchRequested:
		s.Pending++
		s.Err = nil
		s.Index = a.Index
		s.Query = a.Query
		s.SeekPosition = a.SeekPosition
	case actions.AnnotationCreated:
		s.Pending = settle(s.Pending)
		created := a.Annotation
		s.LastCreated = &created
		if created.Index == s.Index {
			s.Annotations = prepend(s.Annotations, created)
		}
	case actions.AnnotationCreateFailed:
		s.Pending = settle(s.Pending)
		s.Err = a.Err
	case actions.SearchCompleted:
		s.Pending = settle(s.Pending)
		if a.Index == s.Index && a.Query == s.Query {
			s.Annotations = append([]annotation.Annotation(nil), a.Results...)
			s.SeekPosition = a.SeekPosition
		}
	case actions.AnnotationUpdated:
		s.Pending = settle(s.Pending)
		s.Annotations = replace(s.Annotations, a.Annotation)
	case actions.AnnotationRemoved:
		s.Pending = settle(s.Pending)
		s.Annotations = without(s.Annotations, a.Index, a.ID)
	case actions.ActionFailed:
		s.Pending = settle(s.Pending)
		s.Err = a.Err
	}
	return s
}

func settle(pending int) int {
	if pending > 0 {
		return pending - 1
	}
	return 0
}

func prepend(list []annotation.Annotation, a annotation.Annotation) []annotation.Annotation {
	out := make([]annotation.Annotation, 0, len(list)+1)
	out = append(out, a)
	for _, existing := range list {
		if existing.Index == a.Index && existing.ID == a.ID {
			continue
		}
		out = append(out, existing)
	}
	return out
}

func replace(list []annotation.Annotation, a annotation.Annotation) []annotation.Annotation {
	out := make([]annotation.Annotation, len(list))
	copy(out, list)
	for i := range out {
		if out[i].Index == a.Index && out[i].ID == a.ID {
			out[i] = a
		}
	}
	return out
}

func without(list []annotation.Annotation, index, id string) []annotation.Annotation {
	out := make([]annotation.Annotation, 0, len(list))
	for _, existing := range list {
		if existing.Index == index && existing.ID == id {
			continue
		}
		out = append(out, existing)
	}
	return out
}
