package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/grid"
	"github.com/javiermolinar/dayplan/internal/tui/commands"
	"github.com/javiermolinar/dayplan/internal/tui/input"
	"github.com/javiermolinar/dayplan/internal/tui/theme"
)

var promptCommands = []input.PromptCommand{
	{Name: "/goto", Description: "Jump to a date (today, friday, next-week, 2024-06-10)"},
	{Name: "/view", Description: "Switch view (day, week, month, year)"},
	{Name: "/today", Description: "Jump to today"},
	{Name: "/theme", Description: "Change theme (" + strings.Join(theme.Available(), ", ") + ")"},
	{Name: "/reload", Description: "Reload events and goals"},
	{Name: "/help", Description: "Show key bindings"},
	{Name: "/quit", Description: "Exit dayplan"},
}

func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil

	case "tab":
		if completed, ok := input.PromptAutocomplete(m.prompt.Value(), promptCommands); ok {
			m.prompt.SetValue(completed)
			m.prompt.CursorEnd()
		}
		return m, nil

	case "enter":
		line := m.prompt.Value()
		m.closePrompt()
		return m.runPromptCommand(line)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompt.SetValue("")
	m.prompt.Blur()
	m.setMode(ModeNormal, "close prompt")
}

// runPromptCommand executes one prompt line.
func (m Model) runPromptCommand(line string) (tea.Model, tea.Cmd) {
	cmd, ok := input.Parse(line)
	if !ok {
		if strings.TrimSpace(line) == "" {
			return m, nil
		}
		return m, m.notifyFailure("prompt", "Commands start with /, try /help", nil)
	}

	switch cmd.Name {
	case "/goto", "/go":
		day, err := dateutil.ParseRelativeDate(cmd.Arg, m.now())
		if err != nil {
			return m, m.notifyError("goto", err)
		}
		prev := m.nav
		m.nav = m.nav.ZoomTo(m.nav.Mode, day)
		m.cursor.Day = dateutil.TruncateToDay(day)
		LogNavigate(prev, m.nav, "goto")
		return m, m.reloadEvents()

	case "/view":
		mode, err := grid.ParseViewMode(cmd.Arg)
		if err != nil {
			return m, m.notifyError("view", err)
		}
		return m, m.switchView(mode, "prompt")

	case "/today":
		return m, m.goToToday()

	case "/theme":
		name := strings.ToLower(cmd.Arg)
		if !theme.IsAvailable(name) {
			return m, m.notifyFailure("theme",
				fmt.Sprintf("Unknown theme %q (available: %s)", cmd.Arg, strings.Join(theme.Available(), ", ")), nil)
		}
		t, err := theme.Load(name)
		if err != nil {
			return m, m.notifyError("theme", err)
		}
		m.theme = t
		m.styles = NewStyles(t)
		m.config.UI.Theme = name
		return m, m.notify("Theme set to " + name)

	case "/reload":
		m.loading = true
		return m, tea.Batch(commands.LoadEvents(m.repo, m.nav.Query()), commands.LoadGoals(m.repo))

	case "/help":
		m.openModal(ModalHelp)
		return m, nil

	case "/quit", "/q":
		return m, tea.Quit
	}

	return m, m.notifyFailure("prompt", fmt.Sprintf("Unknown command %s", cmd.Name), nil)
}
