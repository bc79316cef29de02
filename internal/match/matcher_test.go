package match

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/ocrclick/internal/screen"
)

func region(text string, x, y, w, h int) screen.TextRegion {
	return screen.TextRegion{Text: text, Bounds: screen.Rect{X: x, Y: y, Width: w, Height: h}}
}

func menuRegions() []screen.TextRegion {
	return []screen.TextRegion{
		region("File", 0, 0, 40, 20),
		region("Edit", 50, 0, 40, 20),
		region("View", 100, 0, 40, 20),
		region("Save", 10, 100, 40, 20),
		region("As", 55, 100, 20, 20),
		region("Save", 500, 500, 40, 20),
		region("As", 545, 500, 20, 20),
	}
}

func TestFindMultiWordWindows(t *testing.T) {
	t.Parallel()

	got := Find(menuRegions(), "Save  As", DefaultMaxRatio)
	require.Len(t, got, 2)

	require.Equal(t, 3, got[0].Start)
	require.Equal(t, "save as", got[0].Text)
	require.Zero(t, got[0].Ratio)
	require.Equal(t, screen.Rect{X: 10, Y: 100, Width: 65, Height: 20}, got[0].Bounds)
	require.Equal(t, screen.Point{X: 42, Y: 110}, got[0].Center)
	require.Len(t, got[0].Regions, 2)

	require.Equal(t, 5, got[1].Start)
	require.Equal(t, screen.Point{X: 532, Y: 510}, got[1].Center)
}

func TestFindToleratesOCRNoise(t *testing.T) {
	t.Parallel()

	got := Find(menuRegions(), "sav as", DefaultMaxRatio)
	require.Len(t, got, 2)
	require.InDelta(t, 1.0/7.0, got[0].Ratio, 1e-9)

	// one edit in four runes is 0.25: above the default, inside an explicit 0.25
	require.Empty(t, Find(menuRegions(), "sve", DefaultMaxRatio))
	require.Len(t, Find(menuRegions(), "sve", 0.25), 2)
}

func TestFindKeepsEveryMatchInScanOrder(t *testing.T) {
	t.Parallel()

	regions := []screen.TextRegion{
		region("OK", 300, 10, 20, 10),
		region("Cancel", 0, 0, 10, 10),
		region("ok", 10, 300, 20, 10),
		region("0K", 150, 150, 20, 10),
	}
	got := Find(regions, "ok", 0)
	require.Len(t, got, 2)
	require.Equal(t, 0, got[0].Start)
	require.Equal(t, 2, got[1].Start)
}

func TestFindExactMatchAlwaysPasses(t *testing.T) {
	t.Parallel()

	regions := []screen.TextRegion{region("Überweisung", 0, 0, 10, 10)}
	for _, threshold := range []float64{0, 0.01, DefaultMaxRatio, 1} {
		got := Find(regions, "überweisung", threshold)
		require.Len(t, got, 1, "threshold %v", threshold)
		require.Zero(t, got[0].Ratio)
	}
}

func TestFindSkipsEmptyWindowText(t *testing.T) {
	t.Parallel()

	regions := []screen.TextRegion{region("", 0, 0, 10, 10), region("x", 20, 0, 10, 10)}
	require.NotPanics(t, func() {
		got := Find(regions, "x", 1)
		require.Len(t, got, 1)
		require.Equal(t, 1, got[0].Start)
	})
}

func TestFindQueryLongerThanRegions(t *testing.T) {
	t.Parallel()

	require.Empty(t, Find(menuRegions()[:1], "file edit", 1))
	require.Empty(t, Find(nil, "file", 1))
}

func TestFindBareQueryMatchesEveryWord(t *testing.T) {
	t.Parallel()

	regions := append(menuRegions(), region("  ", 0, 0, 1, 1))
	got := Find(regions, "   ", DefaultMaxRatio)
	require.Len(t, got, len(menuRegions()))
	for i, m := range got {
		require.Equal(t, i, m.Start)
		require.Len(t, m.Regions, 1)
	}
}

func TestRatioIsNeverNegative(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{{"open", "open"}, {"open", "opne"}, {"a", "completely different"}, {"File Edit", "file  edit"}}
	for _, p := range pairs {
		r, ok := Ratio(p[0], p[1])
		require.True(t, ok)
		require.GreaterOrEqual(t, r, 0.0)
	}
	r, ok := Ratio("File Edit", "file  edit")
	require.True(t, ok)
	require.Zero(t, r)

	_, ok = Ratio("", "x")
	require.False(t, ok)
}
