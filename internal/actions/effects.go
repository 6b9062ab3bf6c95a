package actions

import (
	"context"

	"github.com/jask/annotate/internal/annotation"
	"github.com/jask/annotate/internal/store"
)

// Service is the annotation backend the effects call into.
type Service interface {
	Search(ctx context.Context, index, q string, seekPosition int) ([]annotation.Annotation, error)
	Create(ctx context.Context, index, id string) (annotation.Annotation, error)
	Update(ctx context.Context, index, id string, upd annotation.Annotation) (annotation.Annotation, error)
	Remove(ctx context.Context, index, id string) error
}

// Executor runs a backend call. The result action is dispatched from
// whichever goroutine the executor uses.
type Executor func(fn func())

// Async runs each call on its own goroutine.
func Async(fn func()) { go fn() }

// Inline runs each call on the dispatching goroutine.
func Inline(fn func()) { fn() }

// Effects turns request actions into backend calls. Every action reaches the
// reducer first so pending state is visible before the call starts.
func Effects[S any](ctx context.Context, svc Service, exec Executor) store.Middleware[S] {
	return func(api store.API[S]) func(next store.Dispatch) store.Dispatch {
		return func(next store.Dispatch) store.Dispatch {
			return func(a store.Action) {
				next(a)
				switch req := a.(type) {
				case CreateAnnotationRequested:
					exec(func() {
						created, err := svc.Create(ctx, req.Index, req.ID)
						if err != nil {
							api.Dispatch(AnnotationCreateFailed{Index: req.Index, ID: req.ID, Err: err})
							return
						}
						api.Dispatch(AnnotationCreated{Annotation: created})
					})
				case SearchRequested:
					exec(func() {
						results, err := svc.Search(ctx, req.Index, req.Query, req.SeekPosition)
						if err != nil {
							api.Dispatch(ActionFailed{Op: "search", Index: req.Index, Err: err})
							return
						}
						api.Dispatch(SearchCompleted{
							Index:        req.Index,
							Query:        req.Query,
							SeekPosition: req.SeekPosition,
							Results:      results,
						})
					})
				case UpdateRequested:
					exec(func() {
						updated, err := svc.Update(ctx, req.Index, req.ID, req.Update)
						if err != nil {
							api.Dispatch(ActionFailed{Op: "update", Index: req.Index, ID: req.ID, Err: err})
							return
						}
						api.Dispatch(AnnotationUpdated{Annotation: updated})
					})
				case RemoveRequested:
					exec(func() {
						if err := svc.Remove(ctx, req.Index, req.ID); err != nil {
							api.Dispatch(ActionFailed{Op: "remove", Index: req.Index, ID: req.ID, Err: err})
							return
						}
						api.Dispatch(AnnotationRemoved{Index: req.Index, ID: req.ID})
					})
				}
			}
		}
	}
}
