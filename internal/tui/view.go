package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/grid"
	"github.com/javiermolinar/dayplan/internal/session"
	"github.com/javiermolinar/dayplan/internal/tui/view"
)

const (
	titleHeight  = 1
	footerHeight = 6
	// Below this width the sidebar is only shown while it has focus.
	sidebarMinWidth = 80
)

var helpEntries = []view.HelpEntry{
	{Keys: "h/l ←/→", Desc: "Previous/next day (month in year view)"},
	{Keys: "j/k ↓/↑", Desc: "Previous/next slot, week or month row"},
	{Keys: "H/L [ ]", Desc: "Previous/next page"},
	{Keys: "t", Desc: "Today"},
	{Keys: "1-4 v", Desc: "Day, week, month, year view"},
	{Keys: "enter", Desc: "Open event, or zoom in"},
	{Keys: "a", Desc: "New event, goal or task"},
	{Keys: "e", Desc: "Edit"},
	{Keys: "x", Desc: "Delete"},
	{Keys: "space", Desc: "Expand or collapse event"},
	{Keys: "g", Desc: "Grab event or task, enter to drop"},
	{Keys: "y", Desc: "Copy event"},
	{Keys: "tab", Desc: "Focus goals and tasks"},
	{Keys: "/", Desc: "Command prompt"},
	{Keys: "r", Desc: "Reload"},
	{Keys: "q", Desc: "Quit"},
}

// innerWidth is the width inside the app padding.
func (m Model) innerWidth() int {
	return m.width - 4
}

// gridHeight is the height left for the calendar grid.
func (m Model) gridHeight() int {
	return m.height - 1 - titleHeight - footerHeight
}

func (m Model) showSidebar() bool {
	return m.focus != FocusGrid || m.innerWidth() >= sidebarMinWidth
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return view.Render(view.ViewState{})
	}

	innerW := m.innerWidth()
	gridH := m.gridHeight()

	body := ""
	if gridH > 0 {
		gridW := innerW
		if m.showSidebar() {
			gridW -= sidebarWidth + 1
			body = lipgloss.JoinHorizontal(lipgloss.Top,
				m.renderGrid(gridW, gridH),
				m.styles.EmptyCellStyle.Render(" "),
				m.renderSidebar(gridH),
			)
		} else {
			body = m.renderGrid(gridW, gridH)
		}
	}

	content := strings.Join([]string{
		m.renderTitle(innerW),
		body,
		m.renderFooter(innerW),
	}, "\n")
	base := m.styles.AppStyle.Render(content)

	return view.Render(view.ViewState{
		Width:        m.width,
		Height:       m.height,
		BaseContent:  base,
		ModalContent: m.renderModal(),
		ShowModal:    m.mode == ModeModal,
		ModalBg:      m.styles.ModalBgColor,
	})
}

func (m Model) renderTitle(width int) string {
	parts := []string{
		m.styles.TitleStyle.Render(m.nav.Title()),
		m.styles.HelpStyle.Render(fmt.Sprintf("  %s view", m.nav.Mode)),
	}
	if m.mode == ModeDrag {
		parts = append(parts, "  ", m.styles.DragBannerStyle.Render("Moving "+m.sched.Label()))
	}
	if m.loading {
		parts = append(parts, m.styles.HelpStyle.Render("  loading…"))
	}
	line := ansi.Truncate(strings.Join(parts, ""), width, "")
	return view.PlaceBox(width, titleHeight, lipgloss.Top, line, m.styles.colorBg)
}

func (m Model) renderSidebar(h int) string {
	style := m.styles.SidebarStyle
	if m.focus != FocusGrid {
		style = m.styles.SidebarFocusStyle
	}
	textW := sidebarWidth - 4

	item := func(selected bool, color, text string) string {
		swatch := m.styles.SwatchStyle(color).Render("●")
		text = ansi.Truncate(text, textW-2, "…")
		if selected {
			return swatch + m.styles.SidebarSelStyle.Render(" "+text)
		}
		return swatch + m.styles.SidebarItemStyle.Render(" "+text)
	}

	lines := []string{m.styles.SidebarTitleStyle.Render("Goals")}
	goals := m.session.Goals()
	if len(goals) == 0 {
		lines = append(lines, m.styles.HelpStyle.Render("a: new goal"))
	}
	for i, g := range goals {
		lines = append(lines, item(i == m.goalIdx && m.focus == FocusGoals, g.Color, g.Name))
	}

	lines = append(lines, "")
	if g := m.selectedGoal(); g != nil {
		lines = append(lines, m.styles.SidebarTitleStyle.Render(ansi.Truncate("Tasks · "+g.Name, textW, "…")))
		tasks := m.session.TasksOf(g.ID)
		if len(tasks) == 0 {
			lines = append(lines, m.styles.HelpStyle.Render("a: new task"))
		}
		for i, t := range tasks {
			lines = append(lines, item(i == m.taskIdx && m.focus == FocusTasks, t.Color, t.Name))
		}
	}

	inner := h - 2
	if inner < 1 {
		inner = 1
	}
	if len(lines) > inner {
		lines = lines[:inner]
	}
	return style.Width(sidebarWidth - 2).Height(inner).Render(strings.Join(lines, "\n"))
}

func (m Model) renderFooter(width int) string {
	now := m.now()
	var notices []view.NoticeLine
	for _, n := range m.session.Notices(now) {
		notices = append(notices, view.NoticeLine{Text: n.Text, Error: n.Level == session.LevelError})
	}

	model := view.FooterModel{
		InnerW:           width,
		FooterH:          footerHeight,
		Notices:          notices,
		StatusText:       m.statusText(),
		HelpText:         m.helpText(),
		ShowPrompt:       m.mode == ModePrompt,
		StatusStyle:      m.styles.StatusStyle,
		ErrorStyle:       m.styles.ErrorStyle,
		HelpStyle:        m.styles.HelpStyle,
		PromptFocusStyle: m.styles.PromptFocusedStyle,
		Bg:               m.styles.colorBg,
	}
	if model.ShowPrompt {
		frameW, frameH := m.styles.PromptFocusedStyle.GetFrameSize()
		lines := view.PromptLines(view.PromptState{Value: m.prompt.Value(), Cursor: "█"}, width-frameW, promptCommands)
		model.PromptLines = view.ClampPromptLines(lines, footerHeight-1-frameH, width-frameW)
	}
	return view.RenderFooter(model)
}

// statusText describes the cursor position and the event under it.
func (m Model) statusText() string {
	var pos string
	switch {
	case m.nav.Mode.HasTimeAxis():
		pos = m.cursorTime().Format("Mon Jan 2 15:04")
	case m.nav.Mode == grid.ViewYear:
		pos = m.cursor.Day.Format("January 2006")
	default:
		pos = m.cursor.Day.Format("Mon Jan 2")
	}
	if e := m.eventAtCursor(); e != nil {
		pos += fmt.Sprintf("  %s %s", view.FormatRange(e.StartTime, e.EndTime), e.Title)
	} else if m.nav.Mode == grid.ViewMonth {
		if n := len(calendar.EventsOnDay(m.session.Events(), m.cursor.Day)); n == 0 {
			pos += "  free"
		}
	}
	return pos
}

func (m Model) helpText() string {
	switch {
	case m.mode == ModeDrag:
		return "hjkl: move  enter: drop  esc: cancel"
	case m.mode == ModePrompt:
		return "tab: complete  enter: run  esc: close"
	case m.focus == FocusGoals:
		return "j/k: select  a: new goal  e: edit  x: delete  tab: tasks  esc: calendar"
	case m.focus == FocusTasks:
		return "j/k: select  a: new task  e: edit  x: delete  g: schedule  esc: calendar"
	default:
		return "hjkl: move  1-4: view  a: add  g: grab  tab: goals  /: command  ?: help  q: quit"
	}
}

func (m Model) detailStyles() view.DetailStyles {
	return view.DetailStyles{
		BodyStyle:  m.styles.ModalBodyStyle,
		MetaStyle:  m.styles.ModalMetaStyle,
		LabelStyle: m.styles.ModalLabelStyle,
		Swatch: func(hex string) lipgloss.Style {
			return m.styles.SwatchStyle(hex).Background(m.styles.ModalBgColor)
		},
	}
}

func (m Model) renderModal() string {
	if m.mode != ModeModal {
		return ""
	}
	ms := m.styles.ModalStyles()

	switch m.modalType {
	case ModalForm:
		if m.form != nil {
			return m.renderForm()
		}

	case ModalEventDetail:
		e := m.session.Event(m.detailID)
		if e == nil {
			return ""
		}
		return view.Modal{
			Title:   "Event",
			Body:    view.RenderEventDetailBody(e, m.detailStyles()),
			Actions: []view.Action{{Key: "e", Label: "Edit"}, {Key: "x", Label: "Delete"}, {Key: "g", Label: "Move"}, {Key: "Esc", Label: "Close"}},
		}.Render(ms)

	case ModalConfirmDelete:
		title, body := m.confirmContent()
		return view.Modal{
			Title:   title,
			Body:    body,
			Actions: []view.Action{{Key: "y", Label: "Delete"}, {Key: "n", Label: "Cancel"}},
		}.Render(ms)

	case ModalHelp:
		body := view.RenderHelpBody(helpEntries, m.styles.ModalLabelStyle.Width(12), m.styles.ModalBodyStyle)
		return view.Modal{Title: "Keys", Body: body, Actions: []view.Action{{Key: "Esc", Label: "Close"}}}.Render(ms)
	}
	return ""
}

// confirmContent builds the delete confirmation for the pending target.
func (m Model) confirmContent() (string, string) {
	styles := m.detailStyles()
	switch m.pending.kind {
	case entityGoal:
		g := m.session.Goal(m.pending.id)
		if g == nil {
			return "Delete goal", ""
		}
		n := len(m.session.TasksOf(g.ID))
		return "Delete goal", view.RenderConfirmBody(g.Name, fmt.Sprintf("%d tasks", n),
			"Deleting the goal also deletes its tasks.", styles)
	case entityTask:
		t := m.session.Task(m.pending.id)
		if t == nil {
			return "Delete task", ""
		}
		detail := ""
		if g := m.session.Goal(t.GoalID); g != nil {
			detail = "in " + g.Name
		}
		return "Delete task", view.RenderConfirmBody(t.Name, detail, "Delete this task?", styles)
	default:
		e := m.session.Event(m.pending.id)
		if e == nil {
			return "Delete event", ""
		}
		detail := dateutil.FormatDate(e.Date) + " " + view.FormatRange(e.StartTime, e.EndTime)
		return "Delete event", view.RenderConfirmBody(e.Title, detail, "Delete this event?", styles)
	}
}
