package match

import "github.com/jask/ocrclick/internal/screen"

// Select picks one candidate. Left/Right take the smallest/largest centre X,
// Top/Bottom the smallest/largest centre Y; ties go to the earlier candidate.
// Any other direction returns the first candidate. It reports false for an
// empty slice.
func Select(matches []Match, dir screen.Direction) (Match, bool) {
	if len(matches) == 0 {
		return Match{}, false
	}
	var better func(a, b Match) bool
	switch dir {
	case screen.Left:
		better = func(a, b Match) bool { return a.Center.X < b.Center.X }
	case screen.Right:
		better = func(a, b Match) bool { return a.Center.X > b.Center.X }
	case screen.Top:
		better = func(a, b Match) bool { return a.Center.Y < b.Center.Y }
	case screen.Bottom:
		better = func(a, b Match) bool { return a.Center.Y > b.Center.Y }
	default:
		return matches[0], true
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if better(m, best) {
			best = m
		}
	}
	return best, true
}
