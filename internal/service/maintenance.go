package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jask/annotate/internal/database"
)

// MaintenanceService houses destructive/ops actions.
type MaintenanceService struct {
	DB *sql.DB
}

// Reset wipes all annotations and their history. It keeps the schema intact
// so the app can continue running.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		for _, t := range []string{"annotation_history", "annotations"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+t); err != nil {
				return fmt.Errorf("reset table %s: %w", t, err)
			}
		}
		return nil
	}); err != nil {
		return err
	}
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
