// Package match finds OCR word windows that fuzzily spell a query and picks
// one of them by direction.
package match

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/jask/ocrclick/internal/screen"
)

// DefaultMaxRatio is the default ceiling for distance/length.
const DefaultMaxRatio = 0.2

// Match is a contiguous run of regions whose joined text matched.
type Match struct {
	// Start is the index of the first region in the scanned slice.
	Start   int                 `json:"start" yaml:"start"`
	Regions []screen.TextRegion `json:"regions" yaml:"regions"`
	Text    string              `json:"text" yaml:"text"`
	Ratio   float64             `json:"ratio" yaml:"ratio"`
	Bounds  screen.Rect         `json:"bounds" yaml:"bounds"`
	Center  screen.Point        `json:"center" yaml:"center"`
}

// normalizeQuery lowercases q and collapses its whitespace; it also returns
// the number of words.
func normalizeQuery(q string) (string, int) {
	words := strings.Fields(strings.ToLower(q))
	return strings.Join(words, " "), len(words)
}

// Ratio is the edit distance between the lowercased window text and query
// divided by the window text length in runes. It reports false for an empty
// window text.
func Ratio(window, query string) (float64, bool) {
	window = strings.ToLower(window)
	n := utf8.RuneCountInString(window)
	if n == 0 {
		return 0, false
	}
	query, _ = normalizeQuery(query)
	return float64(levenshtein.ComputeDistance(window, query)) / float64(n), true
}

// Find slides a window of as many regions as the query has words across
// regions and returns every window whose ratio is at most maxRatio, in scan
// order. A query without words matches every non-empty single region.
func Find(regions []screen.TextRegion, query string, maxRatio float64) []Match {
	q, width := normalizeQuery(query)
	if width == 0 {
		return anyRegion(regions)
	}

	var out []Match
	texts := make([]string, width)
	for i := 0; i+width <= len(regions); i++ {
		window := regions[i : i+width]
		for j, r := range window {
			texts[j] = r.Text
		}
		joined := strings.ToLower(strings.Join(texts, " "))
		n := utf8.RuneCountInString(joined)
		if n == 0 {
			continue
		}
		ratio := float64(levenshtein.ComputeDistance(joined, q)) / float64(n)
		if ratio > maxRatio {
			continue
		}
		out = append(out, newMatch(i, window, joined, ratio))
	}
	return out
}

func anyRegion(regions []screen.TextRegion) []Match {
	var out []Match
	for i := range regions {
		if strings.TrimSpace(regions[i].Text) == "" {
			continue
		}
		out = append(out, newMatch(i, regions[i:i+1], strings.ToLower(regions[i].Text), 0))
	}
	return out
}

func newMatch(start int, window []screen.TextRegion, text string, ratio float64) Match {
	b := window[0].Bounds
	minX, minY, maxX, maxY := b.X, b.Y, b.Right(), b.Bottom()
	for _, r := range window[1:] {
		minX = min(minX, r.Bounds.X)
		minY = min(minY, r.Bounds.Y)
		maxX = max(maxX, r.Bounds.Right())
		maxY = max(maxY, r.Bounds.Bottom())
	}
	regions := make([]screen.TextRegion, len(window))
	copy(regions, window)
	return Match{
		Start:   start,
		Regions: regions,
		Text:    text,
		Ratio:   ratio,
		Bounds:  screen.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY},
		Center:  screen.Point{X: (minX + maxX) / 2, Y: (minY + maxY) / 2},
	}
}
