package repository

import (
	"context"
	"time"

	"github.com/jask/annotate/internal/annotation"
)

// HistoryRepo handles annotation history snapshots.
type HistoryRepo struct {
	db Queryer
}

func NewHistoryRepo(db Queryer) *HistoryRepo { return &HistoryRepo{db: db} }

func (r *HistoryRepo) Append(ctx context.Context, h annotation.HistoryEntry) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO annotation_history(id, data_source_uuid, annotation_id, operation, last_updated, assign_to, updated_by, status, content)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, h.ID, h.Index, h.AnnotationID, string(h.Operation), h.LastUpdated.UnixMilli(), h.AssignTo, h.UpdatedBy, string(h.Status), h.Content)
	return err
}

// List returns the history of one annotation, oldest first.
func (r *HistoryRepo) List(ctx context.Context, index, annotationID string) ([]annotation.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, data_source_uuid, annotation_id, operation, last_updated, assign_to, updated_by, status, content
	FROM annotation_history
	WHERE data_source_uuid = ? AND annotation_id = ?
	ORDER BY seq`, index, annotationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []annotation.HistoryEntry
	for rows.Next() {
		var (
			h       annotation.HistoryEntry
			op      string
			updated int64
			status  string
		)
		if err := rows.Scan(&h.ID, &h.Index, &h.AnnotationID, &op, &updated, &h.AssignTo, &h.UpdatedBy, &status, &h.Content); err != nil {
			return nil, err
		}
		h.Operation = annotation.Operation(op)
		h.LastUpdated = time.UnixMilli(updated).UTC()
		h.Status = annotation.Status(status)
		out = append(out, h)
	}
	return out, rows.Err()
}
