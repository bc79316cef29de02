package match

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/ocrclick/internal/screen"
)

func at(start, x, y int) Match {
	return Match{Start: start, Center: screen.Point{X: x, Y: y}}
}

func TestSelectByDirection(t *testing.T) {
	t.Parallel()

	candidates := []Match{at(0, 50, 5), at(1, 10, 40), at(2, 30, 20)}

	cases := []struct {
		dir   screen.Direction
		start int
	}{
		{screen.Left, 1},
		{screen.Right, 0},
		{screen.Top, 0},
		{screen.Bottom, 1},
		{screen.NoDirection, 0},
		{screen.Direction('Q'), 0},
	}
	for _, tc := range cases {
		for i := 0; i < 3; i++ {
			got, ok := Select(candidates, tc.dir)
			require.True(t, ok)
			require.Equal(t, tc.start, got.Start, "direction %q", tc.dir.String())
		}
	}
}

func TestSelectTiesGoToEarliest(t *testing.T) {
	t.Parallel()

	candidates := []Match{at(0, 30, 7), at(1, 10, 7), at(2, 10, 7), at(3, 30, 7)}

	got, _ := Select(candidates, screen.Left)
	require.Equal(t, 1, got.Start)
	got, _ = Select(candidates, screen.Right)
	require.Equal(t, 0, got.Start)
	got, _ = Select(candidates, screen.Top)
	require.Equal(t, 0, got.Start)
	got, _ = Select(candidates, screen.Bottom)
	require.Equal(t, 0, got.Start)
}

func TestSelectEmpty(t *testing.T) {
	t.Parallel()

	_, ok := Select(nil, screen.Left)
	require.False(t, ok)
	_, ok = Select([]Match{}, screen.NoDirection)
	require.False(t, ok)
}
