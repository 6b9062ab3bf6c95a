package reducers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/annotate/internal/actions"
	"github.com/jask/annotate/internal/annotation"
)

func TestCreateFlowTracksPendingAndResult(t *testing.T) {
	s := Initial("index-1")

	s = Reduce(s, actions.CreateAnnotation("index-1", "abc"))
	require.Equal(t, 1, s.Pending)

	created := annotation.Annotation{Index: "index-1", ID: "abc", Status: annotation.StatusQueued}
	s = Reduce(s, actions.AnnotationCreated{Annotation: created})
	require.Zero(t, s.Pending)
	require.NotNil(t, s.LastCreated)
	require.Equal(t, created, *s.LastCreated)
	require.Equal(t, []annotation.Annotation{created}, s.Annotations)
}

func TestCreateInOtherIndexIsNotListed(t *testing.T) {
	s := Initial("index-1")
	s = Reduce(s, actions.AnnotationCreated{Annotation: annotation.Annotation{Index: "index-2", ID: "abc"}})
	require.Empty(t, s.Annotations)
	require.NotNil(t, s.LastCreated)
}

func TestCreateFailureRecordsError(t *testing.T) {
	boom := errors.New("boom")
	s := Reduce(Initial("index-1"), actions.CreateAnnotation("index-1", "abc"))
	s = Reduce(s, actions.AnnotationCreateFailed{Index: "index-1", ID: "abc", Err: boom})
	require.Zero(t, s.Pending)
	require.ErrorIs(t, s.Err, boom)

	s = Reduce(s, actions.CreateAnnotation("index-1", "abd"))
	require.NoError(t, s.Err)
}

func TestSearchCompletedIgnoresStaleQueries(t *testing.T) {
	s := Reduce(Initial("index-1"), actions.Search("index-1", "new"))
	s = Reduce(s, actions.SearchCompleted{Index: "index-1", Query: "old", Results: []annotation.Annotation{{ID: "stale"}}})
	require.Empty(t, s.Annotations)

	s = Reduce(s, actions.SearchCompleted{Index: "index-1", Query: "new", Results: []annotation.Annotation{{ID: "fresh"}}})
	require.Len(t, s.Annotations, 1)
	require.Equal(t, "fresh", s.Annotations[0].ID)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	base := Initial("index-1")
	base.Annotations = []annotation.Annotation{
		{Index: "index-1", ID: "a", Content: "before"},
		{Index: "index-1", ID: "b"},
	}

	updated := Reduce(base, actions.AnnotationUpdated{Annotation: annotation.Annotation{Index: "index-1", ID: "a", Content: "after"}})
	require.Equal(t, "before", base.Annotations[0].Content)
	require.Equal(t, "after", updated.Annotations[0].Content)

	removed := Reduce(base, actions.AnnotationRemoved{Index: "index-1", ID: "b"})
	require.Len(t, base.Annotations, 2)
	require.Len(t, removed.Annotations, 1)
}

func TestPendingNeverGoesNegative(t *testing.T) {
	s := Reduce(Initial("index-1"), actions.ActionFailed{Op: "search", Err: errors.New("x")})
	require.Zero(t, s.Pending)
}
