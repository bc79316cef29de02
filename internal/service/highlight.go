package service

import (
	"sync"
	"time"

	"github.com/jask/ocrclick/internal/logging"
	"github.com/jask/ocrclick/internal/screen"
)

// NopHighlighter discards highlight requests.
type NopHighlighter struct{}

func (NopHighlighter) Highlight([]screen.Rect, time.Duration) {}

// LogHighlighter writes highlight requests to the log.
type LogHighlighter struct {
	Log *logging.Logger
}

func (h LogHighlighter) Highlight(rects []screen.Rect, d time.Duration) {
	for _, r := range rects {
		h.Log.Debug("highlight", "rect", r.String(), "duration", d)
	}
}

// Highlight is a rectangle shown until Until.
type Highlight struct {
	Rect  screen.Rect
	Until time.Time
}

// HighlightBoard keeps the highlights that are still visible so a front end
// (the terminal prompt) can render them.
type HighlightBoard struct {
	mu    sync.Mutex
	items []Highlight
	now   func() time.Time
}

func NewHighlightBoard() *HighlightBoard {
	return &HighlightBoard{now: time.Now}
}

func (b *HighlightBoard) Highlight(rects []screen.Rect, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	until := b.now().Add(d)
	for _, r := range rects {
		b.items = append(b.items, Highlight{Rect: r, Until: until})
	}
}

// Active drops expired highlights and returns the rest.
func (b *HighlightBoard) Active() []Highlight {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	kept := b.items[:0]
	for _, h := range b.items {
		if h.Until.After(now) {
			kept = append(kept, h)
		}
	}
	b.items = kept
	out := make([]Highlight, len(kept))
	copy(out, kept)
	return out
}
