package pointer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/ocrclick/internal/command"
)

func TestDryRunWritesActions(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	d := DryRun{Out: &buf}
	require.NoError(t, d.Perform(context.Background(), command.RightClick, 12, 34))
	require.NoError(t, d.Perform(context.Background(), command.Move, 0, 0))
	require.Equal(t, "would right-click at 12,34\nwould move at 0,0\n", buf.String())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, d.Perform(ctx, command.Click, 1, 1), context.Canceled)
}
