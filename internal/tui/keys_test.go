package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestKeyLookupIsScoped(t *testing.T) {
	t.Parallel()

	r := defaultKeys()
	enter := tea.KeyMsg{Type: tea.KeyEnter}
	require.Equal(t, actRun, r.lookup(enter, viewPrompt))
	require.Equal(t, actReuse, r.lookup(enter, viewHistory))
	require.Equal(t, action(""), r.lookup(enter, viewSettings))

	s := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}
	require.Equal(t, action(""), r.lookup(s, viewPrompt))
	require.Equal(t, actSave, r.lookup(s, viewSettings))

	require.Equal(t, actIncrease, r.lookup(tea.KeyMsg{Type: tea.KeySpace}, viewSettings))
	for _, v := range []appState{viewPrompt, viewHistory, viewSettings} {
		require.Equal(t, actQuit, r.lookup(tea.KeyMsg{Type: tea.KeyCtrlC}, v))
		require.Equal(t, actNextView, r.lookup(tea.KeyMsg{Type: tea.KeyTab}, v))
	}
}

func TestKeyHelpPerScope(t *testing.T) {
	t.Parallel()

	r := defaultKeys()
	require.Equal(t, "[enter] run  [tab] switch view  [esc] quit", r.help(viewPrompt))
	require.Equal(t, "[←/→] adjust  [s] save  [tab] switch view  [esc] quit", r.help(viewSettings))
}
