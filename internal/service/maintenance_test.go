package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/ocrclick/internal/database"
	"github.com/jask/ocrclick/internal/database/repository"
	"github.com/jask/ocrclick/internal/logging"
)

func TestMaintenancePruneAndReset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := database.Prepare(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	runs := repository.NewRunRepo(db)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	add := func(id string, at time.Time) {
		require.NoError(t, runs.Add(ctx, repository.RunEntry{
			ID: id, RunID: "r-" + id, Query: "ok", Command: "ok", SearchText: "ok",
			Action: "click", Status: "acted", CreatedAt: at,
		}))
	}
	add("old", now.AddDate(0, 0, -10))
	add("new", now.Add(-time.Hour))

	m := &Maintenance{DB: db, Log: logging.Discard(), Now: func() time.Time { return now }}

	_, err = m.Prune(ctx, 0)
	require.Error(t, err)

	n, err := m.Prune(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	left, err := runs.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, left, 1)
	require.Equal(t, "new", left[0].ID)

	require.NoError(t, m.Reset(ctx))
	left, err = runs.Recent(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, left)
}

func TestMaintenanceWithoutDB(t *testing.T) {
	t.Parallel()

	m := &Maintenance{}
	_, err := m.Prune(context.Background(), time.Hour)
	require.Error(t, err)
	require.Error(t, m.Reset(context.Background()))
}
