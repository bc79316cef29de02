package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/ocrclick/internal/command"
	"github.com/jask/ocrclick/internal/config"
	"github.com/jask/ocrclick/internal/database/repository"
	"github.com/jask/ocrclick/internal/service"
)

// History lists journal entries.
type History interface {
	Recent(ctx context.Context, limit int) ([]repository.RunEntry, error)
}

// App is the interactive command prompt.
type App struct {
	ctx       context.Context
	cfg       config.Config
	exec      *service.Executor
	history   History
	board     *service.HighlightBoard
	saveFunc  func(config.Config) error
	clearWait time.Duration // lets the blank frame reach the terminal before capture

	keys           *keyRegistry
	state          appState
	input          textinput.Model
	preview        []command.Command
	last           *service.Report
	entries        []repository.RunEntry
	settingsCursor int
	running        bool
	status         string
}

type appState string

const (
	viewPrompt   appState = "prompt"
	viewHistory  appState = "history"
	viewSettings appState = "settings"
)

const historyLimit = 20

type (
	runDoneMsg struct {
		report service.Report
		err    error
	}
	historyMsg []repository.RunEntry
	errMsg     struct{ err error }
	tickMsg    time.Time
	savedMsg   struct{}
)

// New builds the prompt. history and board may be nil.
func New(ctx context.Context, cfg config.Config, exec *service.Executor, history History, board *service.HighlightBoard) *App {
	in := textinput.New()
	in.Prompt = "› "
	in.Placeholder = "open, !1L close, @2 menu"
	in.CharLimit = 512
	in.Focus()
	return &App{
		ctx:       ctx,
		cfg:       cfg,
		exec:      exec,
		history:   history,
		board:     board,
		saveFunc:  config.Save,
		clearWait: 150 * time.Millisecond,
		keys:      defaultKeys(),
		state:     viewPrompt,
		input:     in,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, a.loadHistory())
}

func (a *App) loadHistory() tea.Cmd {
	if a.history == nil {
		return nil
	}
	return func() tea.Msg {
		list, err := a.history.Recent(a.ctx, historyLimit)
		if err != nil {
			return errMsg{err}
		}
		return historyMsg(list)
	}
}

// runCmd executes query against a settings snapshot taken now, so later
// edits in the settings view do not leak into a running chain.
func (a *App) runCmd(query string) tea.Cmd {
	snapshot := a.cfg.Settings()
	wait := a.clearWait
	return func() tea.Msg {
		if wait > 0 {
			t := time.NewTimer(wait)
			select {
			case <-a.ctx.Done():
				t.Stop()
				return runDoneMsg{err: a.ctx.Err()}
			case <-t.C:
			}
		}
		rep, err := a.exec.Execute(a.ctx, query, snapshot)
		return runDoneMsg{report: rep, err: err}
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		act := a.keys.lookup(m, a.state)
		switch act {
		case actQuit:
			return a, tea.Quit
		case actNextView:
			a.nextView()
			return a, nil
		}
		switch a.state {
		case viewHistory:
			return a.handleHistoryKey(act)
		case viewSettings:
			return a.handleSettingsKey(act)
		}
		return a.handlePromptKey(m, act)
	case runDoneMsg:
		a.running = false
		a.last = &m.report
		if m.err != nil {
			a.status = "stopped: " + m.err.Error()
		} else {
			a.status = fmt.Sprintf("%d/%d commands acted", m.report.Acted(), len(m.report.Outcomes))
		}
		return a, tea.Batch(a.loadHistory(), tick())
	case historyMsg:
		a.entries = m
	case errMsg:
		a.status = "error: " + m.err.Error()
	case savedMsg:
		a.status = "settings saved"
	case tickMsg:
		if a.board != nil && len(a.board.Active()) > 0 {
			return a, tick()
		}
	}
	return a, nil
}

func (a *App) nextView() {
	switch a.state {
	case viewPrompt:
		a.state = viewHistory
		a.input.Blur()
	case viewHistory:
		a.state = viewSettings
	default:
		a.state = viewPrompt
		a.input.Focus()
	}
}

func (a *App) handlePromptKey(m tea.KeyMsg, act action) (tea.Model, tea.Cmd) {
	if act == actRun {
		query := strings.TrimSpace(a.input.Value())
		if query == "" || a.running {
			return a, nil
		}
		if len(a.preview) == 0 {
			a.status = "nothing to run"
			return a, nil
		}
		a.running = true
		a.status = "running..."
		a.input.SetValue("")
		a.preview = nil
		return a, a.runCmd(query)
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(m)
	a.preview = a.cfg.Parser().ParseChain(a.input.Value(), a.cfg.Commands.Separator)
	return a, cmd
}

func (a *App) handleHistoryKey(act action) (tea.Model, tea.Cmd) {
	switch act {
	case actReload:
		return a, a.loadHistory()
	case actReuse:
		if len(a.entries) > 0 {
			a.input.SetValue(a.entries[0].Query)
			a.preview = a.cfg.Parser().ParseChain(a.input.Value(), a.cfg.Commands.Separator)
			a.state = viewPrompt
			a.input.Focus()
		}
	}
	return a, nil
}

const settingsCount = 3

func (a *App) handleSettingsKey(act action) (tea.Model, tea.Cmd) {
	switch act {
	case actUp:
		if a.settingsCursor > 0 {
			a.settingsCursor--
		}
	case actDown:
		if a.settingsCursor < settingsCount-1 {
			a.settingsCursor++
		}
	case actDecrease:
		a.adjustSetting(-1)
	case actIncrease:
		a.adjustSetting(1)
	case actSave:
		cfg := a.cfg
		save := a.saveFunc
		return a, func() tea.Msg {
			if err := save(cfg); err != nil {
				return errMsg{err}
			}
			return savedMsg{}
		}
	}
	return a, nil
}

func (a *App) adjustSetting(sign int) {
	switch a.settingsCursor {
	case 0:
		a.cfg.Match.MaxRatio += float64(sign) * 0.05
	case 1:
		a.cfg.Commands.DelayMS += sign * 50
	case 2:
		a.cfg.Commands.AllowBare = !a.cfg.Commands.AllowBare
	}
	a.cfg.Validate()
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Padding(0, 2)
)

// View renders nothing while a chain runs: the terminal is on screen and
// the prompt's own text would otherwise be captured and matched.
func (a *App) View() string {
	if a.running {
		return ""
	}
	var body string
	switch a.state {
	case viewHistory:
		body = a.renderHistory()
	case viewSettings:
		body = a.renderSettings()
	default:
		body = a.renderPrompt()
	}
	footer := footerStyle.Render(a.keys.help(a.state))
	if a.status != "" {
		footer += "  " + dimStyle.Render(a.status)
	}
	return body + "\n\n" + footer
}

func (a *App) renderPrompt() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("ocrclick") + "\n\n")
	b.WriteString(a.input.View() + "\n\n")
	for i, c := range a.preview {
		b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, describe(c)))
	}
	if a.last != nil {
		b.WriteString("\n" + dimStyle.Render("last: "+a.last.Query) + "\n")
		for _, o := range a.last.Outcomes {
			b.WriteString("  " + renderOutcome(o) + "\n")
		}
	}
	if a.board != nil {
		for _, h := range a.board.Active() {
			b.WriteString(warnStyle.Render("  ▣ "+h.Rect.String()) + "\n")
		}
	}
	return b.String()
}

func describe(c command.Command) string {
	var scope []string
	if c.Quadrant.Valid() {
		scope = append(scope, fmt.Sprintf("quadrant %d", int(c.Quadrant)))
	}
	if c.Direction.String() != "" {
		scope = append(scope, "pick "+c.Direction.String())
	}
	target := fmt.Sprintf("%q", c.SearchText)
	if c.Bare() {
		target = "any word"
	}
	out := fmt.Sprintf("%-11s %s", c.Action, target)
	if len(scope) > 0 {
		out += dimStyle.Render("  [" + strings.Join(scope, ", ") + "]")
	}
	return out
}

func renderOutcome(o service.Outcome) string {
	line := fmt.Sprintf("%-14s %s", o.Status, o.Command.String())
	switch o.Status {
	case service.StatusActed:
		return okStyle.Render(fmt.Sprintf("%s @ %d,%d", line, o.Point.X, o.Point.Y))
	case service.StatusNoMatch:
		return dimStyle.Render(line)
	default:
		if o.Error != "" {
			line += ": " + o.Error
		}
		return warnStyle.Render(line)
	}
}

func (a *App) renderHistory() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("History") + "\n\n")
	if len(a.entries) == 0 {
		b.WriteString(dimStyle.Render("  nothing yet") + "\n")
	}
	for _, e := range a.entries {
		where := ""
		if e.X != nil && e.Y != nil {
			where = fmt.Sprintf(" @ %d,%d", *e.X, *e.Y)
		}
		b.WriteString(fmt.Sprintf("  %s  %-14s %s%s\n", e.CreatedAt.Local().Format("15:04:05"), e.Status, e.Command, where))
	}
	return b.String()
}

func (a *App) renderSettings() string {
	rows := []string{
		fmt.Sprintf("max match ratio   %.2f", a.cfg.Match.MaxRatio),
		fmt.Sprintf("command delay     %dms", a.cfg.Commands.DelayMS),
		fmt.Sprintf("bare commands     %t", a.cfg.Commands.AllowBare),
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings") + "\n\n")
	for i, r := range rows {
		if i == a.settingsCursor {
			b.WriteString(cursorStyle.Render("> "+r) + "\n")
		} else {
			b.WriteString("  " + r + "\n")
		}
	}
	b.WriteString("\n" + dimStyle.Render("saves to "+config.Path()))
	return b.String()
}
