package tui

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type action string

const (
	actQuit     action = "quit"
	actNextView action = "next-view"
	actRun      action = "run"
	actReload   action = "reload"
	actReuse    action = "reuse"
	actUp       action = "up"
	actDown     action = "down"
	actDecrease action = "decrease"
	actIncrease action = "increase"
	actSave     action = "save"
)

// keyBinding maps keys to an action. An empty scope list means every view.
type keyBinding struct {
	keys   []string
	action action
	help   string
	scopes []appState
}

type keyRegistry struct {
	bindings []keyBinding
}

func defaultKeys() *keyRegistry {
	return &keyRegistry{bindings: []keyBinding{
		{keys: []string{"enter"}, action: actRun, help: "run", scopes: []appState{viewPrompt}},
		{keys: []string{"r"}, action: actReload, help: "reload", scopes: []appState{viewHistory}},
		{keys: []string{"enter"}, action: actReuse, help: "reuse last query", scopes: []appState{viewHistory}},
		{keys: []string{"up", "k"}, action: actUp, scopes: []appState{viewSettings}},
		{keys: []string{"down", "j"}, action: actDown, scopes: []appState{viewSettings}},
		{keys: []string{"left", "h", "-"}, action: actDecrease, help: "adjust", scopes: []appState{viewSettings}},
		{keys: []string{"right", "l", "+", " "}, action: actIncrease, scopes: []appState{viewSettings}},
		{keys: []string{"s"}, action: actSave, help: "save", scopes: []appState{viewSettings}},
		{keys: []string{"tab"}, action: actNextView, help: "switch view"},
		{keys: []string{"esc", "ctrl+c"}, action: actQuit, help: "quit"},
	}}
}

// lookup returns the action bound to msg in scope, or "".
func (r *keyRegistry) lookup(msg tea.KeyMsg, scope appState) action {
	pressed := normalizeKey(msg.String())
	for _, b := range r.bindings {
		if !scopeMatch(scope, b.scopes) {
			continue
		}
		for _, k := range b.keys {
			if normalizeKey(k) == pressed {
				return b.action
			}
		}
	}
	return ""
}

// help renders the footer hints for scope.
func (r *keyRegistry) help(scope appState) string {
	parts := make([]string, 0, len(r.bindings))
	for _, b := range r.bindings {
		if b.help == "" || !scopeMatch(scope, b.scopes) {
			continue
		}
		parts = append(parts, "["+keyLabel(b.keys[0])+"] "+b.help)
	}
	return strings.Join(parts, "  ")
}

func keyLabel(k string) string {
	switch k {
	case "left":
		return "←/→"
	case " ":
		return "space"
	}
	return k
}

func normalizeKey(k string) string {
	if k == " " {
		return k
	}
	return strings.ToLower(strings.TrimSpace(k))
}

func scopeMatch(scope appState, scopes []appState) bool {
	return len(scopes) == 0 || slices.Contains(scopes, scope)
}
