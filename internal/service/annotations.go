package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/annotate/internal/annotation"
	"github.com/jask/annotate/internal/database"
	"github.com/jask/annotate/internal/database/repository"
)

// SearchPageLimit caps the rows a single search returns.
const SearchPageLimit = 10

var (
	// ErrNotFound reports that no annotation exists for the key.
	ErrNotFound = errors.New("annotation not found")
	// ErrExists reports a create for a key that is already taken.
	ErrExists = errors.New("annotation already exists")
)

// AnnotationService owns annotation reads and writes. Every write records a
// history snapshot in the same transaction.
type AnnotationService struct {
	DB        *sql.DB
	UpdatedBy string
	Logger    *slog.Logger
	Now       func() time.Time
}

func (s *AnnotationService) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *AnnotationService) now() time.Time {
	if s.Now == nil {
		return database.Now()
	}
	return s.Now().UTC().Truncate(time.Millisecond)
}

func (s *AnnotationService) fail(ctx context.Context, op, index, id string, err error) error {
	s.logger().WarnContext(ctx, "annotation operation failed",
		slog.String("operation", op),
		slog.String("index", index),
		slog.String("id", id),
		slog.Any("error", err),
	)
	return err
}

// Search returns one page of annotations in index matching q. seekPosition is
// the number of rows to skip.
func (s *AnnotationService) Search(ctx context.Context, index, q string, seekPosition int) ([]annotation.Annotation, error) {
	if err := annotation.ValidateIndex(index); err != nil {
		return nil, err
	}
	if seekPosition < 0 {
		seekPosition = 0
	}
	s.logger().InfoContext(ctx, "searching annotations",
		slog.String("index", index),
		slog.String("q", q),
		slog.Int("seek_position", seekPosition),
	)
	out, err := repository.NewAnnotationRepo(s.DB).Search(ctx, index, strings.TrimSpace(q), seekPosition, SearchPageLimit)
	if err != nil {
		return nil, s.fail(ctx, "Search", index, "", fmt.Errorf("search annotations: %w", err))
	}
	return out, nil
}

// Get returns the annotation at (index, id).
func (s *AnnotationService) Get(ctx context.Context, index, id string) (annotation.Annotation, error) {
	if err := annotation.ValidateKey(index, id); err != nil {
		return annotation.Annotation{}, err
	}
	a, err := repository.NewAnnotationRepo(s.DB).Get(ctx, index, id)
	if err != nil {
		return annotation.Annotation{}, s.fail(ctx, "Get", index, id, fmt.Errorf("get annotation: %w", err))
	}
	if a == nil {
		return annotation.Annotation{}, ErrNotFound
	}
	return *a, nil
}

// History returns every snapshot recorded for (index, id), oldest first. An
// unknown key yields an empty history.
func (s *AnnotationService) History(ctx context.Context, index, id string) ([]annotation.HistoryEntry, error) {
	if err := annotation.ValidateKey(index, id); err != nil {
		return nil, err
	}
	out, err := repository.NewHistoryRepo(s.DB).List(ctx, index, id)
	if err != nil {
		return nil, s.fail(ctx, "History", index, id, fmt.Errorf("annotation history: %w", err))
	}
	if out == nil {
		out = []annotation.HistoryEntry{}
	}
	return out, nil
}

// Create stores a new annotation with default content.
func (s *AnnotationService) Create(ctx context.Context, index, id string) (annotation.Annotation, error) {
	if err := annotation.ValidateKey(index, id); err != nil {
		return annotation.Annotation{}, err
	}
	created := annotation.New(index, id, s.UpdatedBy, s.now())
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repository.NewAnnotationRepo(tx)
		existing, err := repo.Get(ctx, index, id)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrExists
		}
		if err := repo.Insert(ctx, created); err != nil {
			return fmt.Errorf("insert annotation: %w", err)
		}
		return appendHistory(ctx, tx, created, annotation.OperationCreate)
	})
	if err != nil {
		if errors.Is(err, ErrExists) {
			return annotation.Annotation{}, err
		}
		return annotation.Annotation{}, s.fail(ctx, "Create", index, id, fmt.Errorf("create annotation: %w", err))
	}
	s.logger().InfoContext(ctx, "annotation created", slog.String("index", index), slog.String("id", id))
	return created, nil
}

// Update replaces assignee, content and status of an existing annotation.
func (s *AnnotationService) Update(ctx context.Context, index, id string, upd annotation.Annotation) (annotation.Annotation, error) {
	if err := annotation.ValidateKey(index, id); err != nil {
		return annotation.Annotation{}, err
	}
	if !upd.Status.Valid() {
		return annotation.Annotation{}, fmt.Errorf("%w: %q", annotation.ErrInvalidStatus, upd.Status)
	}
	next := annotation.Annotation{
		Index:       index,
		ID:          id,
		AssignTo:    upd.AssignTo,
		LastUpdated: s.now(),
		UpdatedBy:   s.UpdatedBy,
		Status:      upd.Status,
		Content:     upd.Content,
	}
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		n, err := repository.NewAnnotationRepo(tx).Update(ctx, next)
		if err != nil {
			return fmt.Errorf("update annotation: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return appendHistory(ctx, tx, next, annotation.OperationUpdate)
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return annotation.Annotation{}, err
		}
		return annotation.Annotation{}, s.fail(ctx, "Update", index, id, err)
	}
	return next, nil
}

// Remove deletes an annotation, recording its final state first.
func (s *AnnotationService) Remove(ctx context.Context, index, id string) error {
	if err := annotation.ValidateKey(index, id); err != nil {
		return err
	}
	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := repository.NewAnnotationRepo(tx)
		current, err := repo.Get(ctx, index, id)
		if err != nil {
			return err
		}
		if current == nil {
			return ErrNotFound
		}
		final := *current
		final.LastUpdated = s.now()
		final.UpdatedBy = s.UpdatedBy
		if err := appendHistory(ctx, tx, final, annotation.OperationDelete); err != nil {
			return err
		}
		if _, err := repo.Delete(ctx, index, id); err != nil {
			return fmt.Errorf("delete annotation: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return s.fail(ctx, "Remove", index, id, err)
	}
	return nil
}

func appendHistory(ctx context.Context, tx *sql.Tx, a annotation.Annotation, op annotation.Operation) error {
	h := annotation.Snapshot(a, op)
	h.ID = uuid.NewString()
	if err := repository.NewHistoryRepo(tx).Append(ctx, h); err != nil {
		return fmt.Errorf("record %s history: %w", strings.ToLower(string(op)), err)
	}
	return nil
}
