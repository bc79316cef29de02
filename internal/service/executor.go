package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jask/ocrclick/internal/command"
	"github.com/jask/ocrclick/internal/config"
	"github.com/jask/ocrclick/internal/database"
	"github.com/jask/ocrclick/internal/database/repository"
	"github.com/jask/ocrclick/internal/logging"
	"github.com/jask/ocrclick/internal/match"
	"github.com/jask/ocrclick/internal/screen"
)

// Capturer produces OCR snapshots of the primary screen.
type Capturer interface {
	// Bounds returns the primary screen rectangle.
	Bounds(ctx context.Context) (screen.Rect, error)
	// CaptureRegions returns recognized words in reading order. A non-nil
	// area is a hint; callers filter the result themselves.
	CaptureRegions(ctx context.Context, area *screen.Rect) ([]screen.TextRegion, error)
}

// Pointer performs pointer actions at absolute screen coordinates.
type Pointer interface {
	Perform(ctx context.Context, action command.Action, x, y int) error
}

// Highlighter shows transient feedback rectangles. It must not block.
type Highlighter interface {
	Highlight(rects []screen.Rect, d time.Duration)
}

// Journal records executed commands.
type Journal interface {
	Add(ctx context.Context, e repository.RunEntry) error
}

// Status is the result of one command.
type Status string

const (
	StatusActed         Status = "acted"
	StatusNoMatch       Status = "no-match"
	StatusCaptureFailed Status = "capture-failed"
	StatusActionFailed  Status = "action-failed"
)

// Outcome describes one executed command.
type Outcome struct {
	Command    command.Command `json:"command" yaml:"command"`
	Status     Status          `json:"status" yaml:"status"`
	Candidates int             `json:"candidates" yaml:"candidates"`
	Point      *screen.Point   `json:"point,omitempty" yaml:"point,omitempty"`
	Match      *match.Match    `json:"match,omitempty" yaml:"match,omitempty"`
	Error      string          `json:"error,omitempty" yaml:"error,omitempty"`
}

// Report is the result of one chain.
type Report struct {
	RunID    string    `json:"run_id" yaml:"run_id"`
	Query    string    `json:"query" yaml:"query"`
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
}

// Acted counts outcomes that reached the pointer successfully.
func (r Report) Acted() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == StatusActed {
			n++
		}
	}
	return n
}

// Executor runs command chains: capture, match, select, act, wait.
type Executor struct {
	Capturer    Capturer
	Pointer     Pointer
	Highlighter Highlighter
	Journal     Journal
	Log         *logging.Logger

	// Sleep waits between commands; nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
	// Now stamps journal entries; nil uses database time.
	Now func() time.Time
}

// Execute parses query with the snapshot's separator and runs the chain.
func (e *Executor) Execute(ctx context.Context, query string, s config.Settings) (Report, error) {
	p := command.Parser{AllowBare: s.AllowBare}
	return e.run(ctx, query, p.ParseChain(query, s.Separator), s)
}

// Run executes already parsed commands.
func (e *Executor) Run(ctx context.Context, cmds []command.Command, s config.Settings) (Report, error) {
	parts := make([]string, len(cmds))
	for i, c := range cmds {
		parts[i] = c.String()
	}
	sep := s.Separator
	if sep == "" {
		sep = command.DefaultSeparator
	}
	return e.run(ctx, strings.Join(parts, sep), cmds, s)
}

func (e *Executor) run(ctx context.Context, query string, cmds []command.Command, s config.Settings) (Report, error) {
	rep := Report{RunID: uuid.NewString(), Query: query}
	e.Log.Info("run start", "run_id", rep.RunID, "query", query, "commands", len(cmds))

	for i, cmd := range cmds {
		if i > 0 {
			if err := e.sleep(ctx, s.CommandDelay); err != nil {
				e.Log.Warn("run cancelled", "run_id", rep.RunID, "after", i, "error", err)
				return rep, err
			}
		}
		if err := ctx.Err(); err != nil {
			e.Log.Warn("run cancelled", "run_id", rep.RunID, "after", i, "error", err)
			return rep, err
		}

		out := e.step(ctx, cmd, s)
		rep.Outcomes = append(rep.Outcomes, out)
		e.record(ctx, rep, i, out)
	}

	e.Log.Info("run done", "run_id", rep.RunID, "acted", rep.Acted(), "commands", len(cmds))
	return rep, nil
}

// step runs one command against a fresh snapshot.
func (e *Executor) step(ctx context.Context, cmd command.Command, s config.Settings) Outcome {
	out := Outcome{Command: cmd}
	log := e.Log

	var area *screen.Rect
	if cmd.Quadrant.Valid() {
		bounds, err := e.Capturer.Bounds(ctx)
		if err != nil {
			log.Warn("screen bounds", "command", cmd.String(), "error", err)
			out.Status, out.Error = StatusCaptureFailed, err.Error()
			return out
		}
		r, _ := screen.QuadrantRect(bounds, cmd.Quadrant)
		area = &r
	}

	regions, err := e.Capturer.CaptureRegions(ctx, area)
	if err != nil {
		log.Warn("capture", "command", cmd.String(), "error", err)
		out.Status, out.Error = StatusCaptureFailed, err.Error()
		return out
	}
	if len(regions) == 0 {
		log.Info("capture returned no text", "command", cmd.String())
		out.Status = StatusCaptureFailed
		return out
	}
	if area != nil {
		regions = screen.FilterRegions(regions, *area)
	}

	candidates := match.Find(regions, cmd.SearchText, s.MaxRatio)
	out.Candidates = len(candidates)
	log.Debug("matched", "command", cmd.String(), "regions", len(regions), "candidates", len(candidates))

	var feedback []screen.Rect
	if area != nil {
		feedback = append(feedback, *area)
	}

	m, ok := match.Select(candidates, cmd.Direction)
	if !ok {
		e.highlight(feedback, s.HighlightDuration)
		out.Status = StatusNoMatch
		return out
	}
	out.Match = &m
	out.Point = &m.Center
	e.highlight(append(feedback, m.Bounds), s.HighlightDuration)

	if err := e.Pointer.Perform(ctx, cmd.Action, m.Center.X, m.Center.Y); err != nil {
		log.Warn("pointer", "command", cmd.String(), "action", cmd.Action.String(), "error", err)
		out.Status, out.Error = StatusActionFailed, err.Error()
		return out
	}
	log.Info("acted", "command", cmd.String(), "action", cmd.Action.String(),
		"x", m.Center.X, "y", m.Center.Y, "text", m.Text, "ratio", m.Ratio)
	out.Status = StatusActed
	return out
}

func (e *Executor) highlight(rects []screen.Rect, d time.Duration) {
	if e.Highlighter == nil || len(rects) == 0 {
		return
	}
	e.Highlighter.Highlight(rects, d)
}

func (e *Executor) sleep(ctx context.Context, d time.Duration) error {
	if e.Sleep != nil {
		return e.Sleep(ctx, d)
	}
	return sleepContext(ctx, d)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (e *Executor) record(ctx context.Context, rep Report, pos int, out Outcome) {
	if e.Journal == nil {
		return
	}
	now := e.Now
	if now == nil {
		now = database.Now
	}
	entry := repository.RunEntry{
		ID:         uuid.NewString(),
		RunID:      rep.RunID,
		Query:      rep.Query,
		Position:   pos,
		Command:    out.Command.String(),
		SearchText: out.Command.SearchText,
		Quadrant:   int(out.Command.Quadrant),
		Direction:  out.Command.Direction.String(),
		Action:     out.Command.Action.String(),
		Status:     string(out.Status),
		Candidates: out.Candidates,
		CreatedAt:  now(),
	}
	if out.Match != nil {
		x, y := out.Match.Center.X, out.Match.Center.Y
		text, ratio := out.Match.Text, out.Match.Ratio
		entry.X, entry.Y, entry.MatchedText, entry.Ratio = &x, &y, &text, &ratio
	}
	if err := e.Journal.Add(ctx, entry); err != nil {
		e.Log.Warn("journal", "run_id", rep.RunID, "error", fmt.Errorf("add entry: %w", err))
	}
}
