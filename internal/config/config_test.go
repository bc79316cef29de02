package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("OCRCLICK_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.InDelta(t, 0.2, cfg.Match.MaxRatio, 1e-9)
	require.Equal(t, ",", cfg.Commands.Separator)
	require.Equal(t, 300, cfg.Commands.DelayMS)
	require.False(t, cfg.Commands.AllowBare)
	require.Equal(t, "eng", cfg.OCR.Language)
	require.True(t, cfg.OCR.Grayscale)
	require.Equal(t, filepath.Join(dir, ".local", "share", "ocrclick", "ocrclick.db"), cfg.Database.Path)

	s := cfg.Settings()
	require.Equal(t, 300*time.Millisecond, s.CommandDelay)
	require.Equal(t, 500*time.Millisecond, s.HighlightDuration)
}

func TestDefaultMatchesLoadWithoutFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("OCRCLICK_CONFIG", "")

	var def Config
	require.NotPanics(t, func() { def = Default() })
	loaded, err := Load()
	require.NoError(t, err)
	require.Equal(t, loaded, def)
}

func TestDecodeReportsTypeErrors(t *testing.T) {
	t.Parallel()

	v := viper.New()
	setDefaults(v)
	v.Set("commands.delay_ms", "soon")
	_, err := decode(v)
	require.ErrorContains(t, err, "unmarshal config")
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[match]
max_ratio = 0.35

[commands]
separator = ";"
delay_ms = 50
allow_bare = true

[ocr]
language = "deu"
grayscale = false
`), 0o600))
	t.Setenv("OCRCLICK_CONFIG", path)
	t.Setenv("OCRCLICK_COMMANDS_DELAY_MS", "75")

	cfg, err := Load()
	require.NoError(t, err)
	require.InDelta(t, 0.35, cfg.Match.MaxRatio, 1e-9)
	require.Equal(t, ";", cfg.Commands.Separator)
	require.Equal(t, 75, cfg.Commands.DelayMS)
	require.True(t, cfg.Commands.AllowBare)
	require.True(t, cfg.Parser().AllowBare)
	require.Equal(t, "deu", cfg.OCR.Language)
	require.False(t, cfg.OCR.Grayscale)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[match\nmax_ratio = "), 0o600))
	t.Setenv("OCRCLICK_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("OCRCLICK_CONFIG", path)

	cfg := Default()
	cfg.Match.MaxRatio = 0.1
	cfg.Commands.Separator = " then "
	cfg.Commands.DelayMS = 10
	require.NoError(t, Save(cfg))
	require.Equal(t, path, Path())

	got, err := Load()
	require.NoError(t, err)
	require.InDelta(t, 0.1, got.Match.MaxRatio, 1e-9)
	require.Equal(t, " then ", got.Commands.Separator)
	require.Equal(t, 10, got.Commands.DelayMS)
}

func TestValidateClamps(t *testing.T) {
	t.Parallel()

	cfg := Config{}
	cfg.Match.MaxRatio = -1
	cfg.Commands.DelayMS = -5
	cfg.Overlay.DurationMS = -1
	cfg.Validate()

	require.Zero(t, cfg.Match.MaxRatio)
	require.Zero(t, cfg.Commands.DelayMS)
	require.Zero(t, cfg.Overlay.DurationMS)
	require.Equal(t, ",", cfg.Commands.Separator)
	require.Equal(t, "eng", cfg.OCR.Language)
}
