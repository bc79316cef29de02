package repository

import (
	"context"
	"database/sql"
	"time"
)

// RunEntry is one executed command of a chain.
type RunEntry struct {
	ID          string    `yaml:"id"`
	RunID       string    `yaml:"run_id"`
	Query       string    `yaml:"query"`
	Position    int       `yaml:"position"`
	Command     string    `yaml:"command"`
	SearchText  string    `yaml:"search_text"`
	Quadrant    int       `yaml:"quadrant,omitempty"`
	Direction   string    `yaml:"direction,omitempty"`
	Action      string    `yaml:"action"`
	Status      string    `yaml:"status"`
	Candidates  int       `yaml:"candidates"`
	X           *int      `yaml:"x,omitempty"`
	Y           *int      `yaml:"y,omitempty"`
	MatchedText *string   `yaml:"matched_text,omitempty"`
	Ratio       *float64  `yaml:"ratio,omitempty"`
	CreatedAt   time.Time `yaml:"created_at"`
}

// RunRepo stores the command journal.
type RunRepo struct {
	db *sql.DB
}

func NewRunRepo(db *sql.DB) *RunRepo { return &RunRepo{db: db} }

const runColumns = `id, run_id, query, position, command, search_text, quadrant, direction, action, status, candidates, x, y, matched_text, ratio, created_at`

func (r *RunRepo) Add(ctx context.Context, e RunEntry) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO runs(`+runColumns+`)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.RunID, e.Query, e.Position, e.Command, e.SearchText, e.Quadrant, e.Direction,
		e.Action, e.Status, e.Candidates, e.X, e.Y, e.MatchedText, e.Ratio, e.CreatedAt)
	return err
}

// Recent returns the newest entries first.
func (r *RunRepo) Recent(ctx context.Context, limit int) ([]RunEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return r.query(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
}

// ByRun returns the entries of one chain in execution order.
func (r *RunRepo) ByRun(ctx context.Context, runID string) ([]RunEntry, error) {
	return r.query(ctx, `SELECT `+runColumns+` FROM runs WHERE run_id = ? ORDER BY position ASC`, runID)
}

func (r *RunRepo) query(ctx context.Context, q string, args ...any) ([]RunEntry, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RunEntry
	for rows.Next() {
		var e RunEntry
		if err := rows.Scan(&e.ID, &e.RunID, &e.Query, &e.Position, &e.Command, &e.SearchText, &e.Quadrant,
			&e.Direction, &e.Action, &e.Status, &e.Candidates, &e.X, &e.Y, &e.MatchedText, &e.Ratio, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Prune deletes entries older than cutoff and returns how many were removed.
func (r *RunRepo) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
