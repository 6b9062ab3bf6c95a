// Package actions defines the actions the annotation store understands and
// the creators UI components are bound to.
package actions

import (
	"github.com/jask/annotate/internal/annotation"
	"github.com/jask/annotate/internal/store"
)

const (
	TypeCreateRequested = "annotations/createRequested"
	TypeCreated         = "annotations/created"
	TypeCreateFailed    = "annotations/createFailed"
	TypeSearchRequested = "annotations/searchRequested"
	TypeSearchCompleted = "annotations/searchCompleted"
	TypeUpdateRequested = "annotations/updateRequested"
	TypeUpdated         = "annotations/updated"
	TypeRemoveRequested = "annotations/removeRequested"
	TypeRemoved         = "annotations/removed"
	TypeFailed          = "annotations/failed"
)

// CreateAnnotationRequested asks for a new annotation at (Index, ID).
type CreateAnnotationRequested struct {
	Index string
	ID    string
}

func (CreateAnnotationRequested) ActionType() string { return TypeCreateRequested }

// CreateAnnotation is the action creator behind the create form.
func CreateAnnotation(index, id string) CreateAnnotationRequested {
	return CreateAnnotationRequested{Index: index, ID: id}
}

// AnnotationCreated carries the stored annotation.
type AnnotationCreated struct {
	Annotation annotation.Annotation
}

func (AnnotationCreated) ActionType() string { return TypeCreated }

// AnnotationCreateFailed reports why a create was rejected.
type AnnotationCreateFailed struct {
	Index string
	ID    string
	Err   error
}

func (AnnotationCreateFailed) ActionType() string { return TypeCreateFailed }

// SearchRequested asks for one page of annotations.
type SearchRequested struct {
	Index        string
	Query        string
	SeekPosition int
}

func (SearchRequested) ActionType() string { return TypeSearchRequested }

// Search is the action creator behind the list view.
func Search(index, query string) SearchRequested {
	return SearchRequested{Index: index, Query: query}
}

// SearchCompleted carries one page of results.
type SearchCompleted struct {
	Index        string
	Query        string
	SeekPosition int
	Results      []annotation.Annotation
}

func (SearchCompleted) ActionType() string { return TypeSearchCompleted }

// UpdateRequested asks to overwrite the mutable fields of an annotation.
type UpdateRequested struct {
	Index  string
	ID     string
	Update annotation.Annotation
}

func (UpdateRequested) ActionType() string { return TypeUpdateRequested }

// UpdateAnnotation builds an UpdateRequested from the edited annotation.
func UpdateAnnotation(a annotation.Annotation) UpdateRequested {
	return UpdateRequested{Index: a.Index, ID: a.ID, Update: a}
}

// AnnotationUpdated carries the annotation as stored after an update.
type AnnotationUpdated struct {
	Annotation annotation.Annotation
}

func (AnnotationUpdated) ActionType() string { return TypeUpdated }

// RemoveRequested asks to delete an annotation.
type RemoveRequested struct {
	Index string
	ID    string
}

func (RemoveRequested) ActionType() string { return TypeRemoveRequested }

// RemoveAnnotation is the action creator for deletes.
func RemoveAnnotation(index, id string) RemoveRequested {
	return RemoveRequested{Index: index, ID: id}
}

// AnnotationRemoved confirms a delete.
type AnnotationRemoved struct {
	Index string
	ID    string
}

func (AnnotationRemoved) ActionType() string { return TypeRemoved }

// ActionFailed reports a failed search, update or remove.
type ActionFailed struct {
	Op    string
	Index string
	ID    string
	Err   error
}

func (ActionFailed) ActionType() string { return TypeFailed }

var (
	_ store.Action = CreateAnnotationRequested{}
	_ store.Action = AnnotationCreated{}
	_ store.Action = AnnotationCreateFailed{}
	_ store.Action = SearchRequested{}
	_ store.Action = SearchCompleted{}
	_ store.Action = UpdateRequested{}
	_ store.Action = AnnotationUpdated{}
	_ store.Action = RemoveRequested{}
	_ store.Action = AnnotationRemoved{}
	_ store.Action = ActionFailed{}
)
