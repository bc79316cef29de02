package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jask/ocrclick/internal/database"
	"github.com/jask/ocrclick/internal/database/repository"
	"github.com/jask/ocrclick/internal/logging"
)

// Maintenance houses destructive journal operations.
type Maintenance struct {
	DB  *sql.DB
	Log *logging.Logger
	Now func() time.Time
}

// Prune deletes journal entries older than age and compacts the file.
func (s *Maintenance) Prune(ctx context.Context, age time.Duration) (int64, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("maintenance: db not configured")
	}
	if age <= 0 {
		return 0, fmt.Errorf("maintenance: age must be positive, got %s", age)
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	cutoff := now().UTC().Add(-age)
	n, err := repository.NewRunRepo(s.DB).Prune(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.Log.Info("journal pruned", "removed", n, "cutoff", cutoff)
	if n > 0 {
		_, _ = s.DB.ExecContext(ctx, "VACUUM")
	}
	return n, nil
}

// Reset wipes the journal. The schema stays intact.
func (s *Maintenance) Reset(ctx context.Context) error {
	if s.DB == nil {
		return fmt.Errorf("maintenance: db not configured")
	}
	if err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM runs"); err != nil {
			return fmt.Errorf("reset runs: %w", err)
		}
		return nil
	}); err != nil {
		return err
	}
	s.Log.Info("journal reset")
	_, _ = s.DB.ExecContext(ctx, "VACUUM")
	return nil
}
