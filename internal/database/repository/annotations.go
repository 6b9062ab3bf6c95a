package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jask/annotate/internal/annotation"
)

// Queryer is satisfied by both *sql.DB and *sql.Tx.
type Queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// AnnotationRepo handles annotations.
type AnnotationRepo struct {
	db Queryer
}

func NewAnnotationRepo(db Queryer) *AnnotationRepo {
	return &AnnotationRepo{db: db}
}

const annotationColumns = `data_source_uuid, id, assign_to, last_updated, updated_by, status, content`

func (r *AnnotationRepo) Insert(ctx context.Context, a annotation.Annotation) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO annotations(`+annotationColumns+`)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`, a.Index, a.ID, a.AssignTo, a.LastUpdated.UnixMilli(), a.UpdatedBy, string(a.Status), a.Content)
	return err
}

// Get returns nil, nil when no row matches.
func (r *AnnotationRepo) Get(ctx context.Context, index, id string) (*annotation.Annotation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+annotationColumns+` FROM annotations WHERE data_source_uuid = ? AND id = ?`, index, id)
	a, err := scanAnnotation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Update overwrites the mutable fields and reports the rows affected.
func (r *AnnotationRepo) Update(ctx context.Context, a annotation.Annotation) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	UPDATE annotations SET
	 assign_to=?,
	 content=?,
	 status=?,
	 updated_by=?,
	 last_updated=?
	WHERE data_source_uuid = ? AND id = ?;
	`, a.AssignTo, a.Content, string(a.Status), a.UpdatedBy, a.LastUpdated.UnixMilli(), a.Index, a.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *AnnotationRepo) Delete(ctx context.Context, index, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM annotations WHERE data_source_uuid = ? AND id = ?`, index, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Search matches q against id, content and assignee within index, newest id
// first.
func (r *AnnotationRepo) Search(ctx context.Context, index, q string, offset, limit int) ([]annotation.Annotation, error) {
	like := "%" + q + "%"
	rows, err := r.db.QueryContext(ctx, `
	SELECT `+annotationColumns+` FROM annotations
	WHERE data_source_uuid = ?
	  AND (id LIKE ? OR content LIKE ? OR assign_to LIKE ?)
	ORDER BY id DESC
	LIMIT ? OFFSET ?
	`, index, like, like, like, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []annotation.Annotation
	for rows.Next() {
		a, err := scanAnnotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAnnotation(s scanner) (annotation.Annotation, error) {
	var (
		a       annotation.Annotation
		updated int64
		status  string
	)
	if err := s.Scan(&a.Index, &a.ID, &a.AssignTo, &updated, &a.UpdatedBy, &status, &a.Content); err != nil {
		return annotation.Annotation{}, err
	}
	a.LastUpdated = time.UnixMilli(updated).UTC()
	a.Status = annotation.Status(status)
	return a, nil
}
