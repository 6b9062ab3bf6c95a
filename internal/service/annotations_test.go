package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/annotate/internal/annotation"
	"github.com/jask/annotate/internal/database"
)

func newTestService(t *testing.T) *AnnotationService {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)
	return &AnnotationService{
		DB:        db,
		UpdatedBy: "tester",
		Now: func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		},
	}
}

func TestCreateAnnotation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	svc := newTestService(t)

	created, err := svc.Create(ctx, "index-1", "abc-123")
	require.NoError(t, err)
	require.Equal(t, annotation.StatusQueued, created.Status)
	require.Equal(t, "tester", created.UpdatedBy)

	got, err := svc.Get(ctx, "index-1", "abc-123")
	require.NoError(t, err)
	require.Equal(t, created, got)

	_, err = svc.Create(ctx, "index-1", "abc-123")
	require.True(t, errors.Is(err, ErrExists), "got %v", err)

	history, err := svc.History(ctx, "index-1", "abc-123")
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, annotation.OperationCreate, history[0].Operation)
}

func TestCreateRejectsShortKeys(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), "ix", "abc")
	require.True(t, errors.Is(err, annotation.ErrInvalidKey))
	_, err = svc.Create(context.Background(), "index", "a")
	require.True(t, errors.Is(err, annotation.ErrInvalidKey))
}

func TestUpdateAndHistory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Create(ctx, "index-1", "abc-123")
	require.NoError(t, err)

	const updates = 5
	for i := 0; i < updates; i++ {
		_, err := svc.Update(ctx, "index-1", "abc-123", annotation.Annotation{
			AssignTo: fmt.Sprintf("user-%d", i),
			Content:  fmt.Sprintf("content %d", i),
			Status:   annotation.StatusOpenEscalated,
		})
		require.NoError(t, err)
	}

	got, err := svc.Get(ctx, "index-1", "abc-123")
	require.NoError(t, err)
	require.Equal(t, "content 4", got.Content)
	require.Equal(t, "user-4", got.AssignTo)
	require.Equal(t, annotation.StatusOpenEscalated, got.Status)

	history, err := svc.History(ctx, "index-1", "abc-123")
	require.NoError(t, err)
	require.Len(t, history, updates+1)
	require.Equal(t, annotation.OperationCreate, history[0].Operation)
	for i, h := range history[1:] {
		require.Equal(t, annotation.OperationUpdate, h.Operation)
		require.Equal(t, fmt.Sprintf("content %d", i), h.Content)
	}
}

func TestUpdateMissingAnnotation(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	_, err := svc.Update(context.Background(), "index-1", "missing", annotation.Annotation{Status: annotation.StatusClosed})
	require.True(t, errors.Is(err, ErrNotFound))

	_, err = svc.Update(context.Background(), "index-1", "missing", annotation.Annotation{Status: "NOPE"})
	require.True(t, errors.Is(err, annotation.ErrInvalidStatus))
}

func TestRemoveRecordsDeleteSnapshot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Create(ctx, "index-1", "abc-123")
	require.NoError(t, err)
	require.NoError(t, svc.Remove(ctx, "index-1", "abc-123"))

	_, err = svc.Get(ctx, "index-1", "abc-123")
	require.True(t, errors.Is(err, ErrNotFound))

	history, err := svc.History(ctx, "index-1", "abc-123")
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, annotation.OperationDelete, history[1].Operation)

	require.True(t, errors.Is(svc.Remove(ctx, "index-1", "abc-123"), ErrNotFound))
}

func TestHistoryOfUnknownAnnotationIsEmpty(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	history, err := svc.History(context.Background(), "index-1", "nothing")
	require.NoError(t, err)
	require.NotNil(t, history)
	require.Empty(t, history)
}

func TestSearchPagesAndScopesByIndex(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	for i := 0; i < 15; i++ {
		_, err := svc.Create(ctx, "index-1", fmt.Sprintf("id-%02d", i))
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "index-2", "id-99")
	require.NoError(t, err)

	first, err := svc.Search(ctx, "index-1", "id-", 0)
	require.NoError(t, err)
	require.Len(t, first, SearchPageLimit)
	require.Equal(t, "id-14", first[0].ID)

	second, err := svc.Search(ctx, "index-1", "id-", SearchPageLimit)
	require.NoError(t, err)
	require.Len(t, second, 5)
	require.Equal(t, "id-00", second[len(second)-1].ID)

	_, err = svc.Update(ctx, "index-1", "id-03", annotation.Annotation{Content: "needle here", Status: annotation.StatusQueued})
	require.NoError(t, err)
	hits, err := svc.Search(ctx, "index-1", "needle", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "id-03", hits[0].ID)

	other, err := svc.Search(ctx, "index-2", "", 0)
	require.NoError(t, err)
	require.Len(t, other, 1)
}

func TestSearchRejectsShortIndex(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)

	_, err := svc.Search(context.Background(), "ab", "", 0)
	require.True(t, errors.Is(err, annotation.ErrInvalidKey), "got %v", err)
}

func TestMaintenanceReset(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Create(ctx, "index-1", "abc-123")
	require.NoError(t, err)

	m := &MaintenanceService{DB: svc.DB}
	require.NoError(t, m.Reset(ctx))

	var count int
	require.NoError(t, svc.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM annotations").Scan(&count))
	require.Zero(t, count)
	require.NoError(t, svc.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM annotation_history").Scan(&count))
	require.Zero(t, count)
}
