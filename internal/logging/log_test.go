package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		out = append(out, rec)
	}
	return out
}

func TestNilLoggerDiscards(t *testing.T) {
	t.Parallel()

	var l *Logger
	require.NotPanics(t, func() {
		l.Debug("dropped")
		l.Info("dropped", "k", 1)
		l.Warn("dropped")
		l.Error("dropped")
		require.Nil(t, l.With("k", "v"))
		require.Empty(t, l.Path())
	})
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter("warn", &buf)
	l.Info("quiet", "k", 1)
	l.Warn("loud", "k", 2)

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 1)
	require.Equal(t, "loud", recs[0]["msg"])
	require.Equal(t, "WARN", recs[0]["level"])
	require.EqualValues(t, 2, recs[0]["k"])
}

func TestWithAddsAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewWithWriter("debug", &buf).With("run_id", "r1")
	l.Debug("step")

	recs := decodeLines(t, &buf)
	require.Len(t, recs, 1)
	require.Equal(t, "r1", recs[0]["run_id"])
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel(" warn "))
	require.Equal(t, slog.LevelError, ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, ParseLevel(""))
	require.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestNewWritesRotatingFile(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "logs")
	l := New("debug", dir)
	require.Equal(t, filepath.Join(dir, "ocrclick.slog"), l.Path())
	l.Debug("hello", "to", "file")

	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"logger ready"`)
	require.Contains(t, string(data), `"msg":"hello"`)
}
