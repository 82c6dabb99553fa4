package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/grid"
	"github.com/javiermolinar/dayplan/internal/navigator"
	"github.com/javiermolinar/dayplan/internal/scheduler"
	"github.com/javiermolinar/dayplan/internal/tui/commands"
	"github.com/javiermolinar/dayplan/internal/tui/view"
)

// viewKeys maps the number keys to view modes.
var viewKeys = map[string]grid.ViewMode{
	"1": grid.ViewDay,
	"2": grid.ViewWeek,
	"3": grid.ViewMonth,
	"4": grid.ViewYear,
}

var viewCycle = []grid.ViewMode{grid.ViewDay, grid.ViewWeek, grid.ViewMonth, grid.ViewYear}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	case ModeDrag:
		return m.handleDragKeys(msg)
	}

	if m.focus != FocusGrid {
		return m.handleSidebarKeys(msg)
	}
	return m.handleGridKeys(msg)
}

// handleMovement moves the cursor for the grid and drag modes. It reports
// whether the key was a movement key.
func (m *Model) handleMovement(key string) (tea.Cmd, bool) {
	switch key {
	case "h", "left":
		return m.moveHorizontal(-1), true
	case "l", "right":
		return m.moveHorizontal(1), true
	case "k", "up":
		return m.moveVertical(-1), true
	case "j", "down":
		return m.moveVertical(1), true
	case "H", "[":
		return m.navigate(navigator.Prev), true
	case "L", "]":
		return m.navigate(navigator.Next), true
	case "t":
		return m.goToToday(), true
	}
	return nil, false
}

func (m Model) handleGridKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if cmd, ok := m.handleMovement(key); ok {
		return m, cmd
	}

	if mode, ok := viewKeys[key]; ok {
		return m, m.switchView(mode, "view key")
	}

	switch key {
	case "q":
		return m, tea.Quit

	case "v":
		next := viewCycle[0]
		for i, mode := range viewCycle {
			if mode == m.nav.Mode {
				next = viewCycle[(i+1)%len(viewCycle)]
			}
		}
		return m, m.switchView(next, "cycle view")

	case "enter":
		switch m.nav.Mode {
		case grid.ViewMonth:
			return m, m.switchView(grid.ViewDay, "open day")
		case grid.ViewYear:
			return m, m.switchView(grid.ViewMonth, "open month")
		}
		if e := m.eventAtCursor(); e != nil {
			m.detailID = e.ID
			m.openModal(ModalEventDetail)
			return m, nil
		}
		return m, m.openEventForm(nil)

	case "a":
		if m.nav.Mode == grid.ViewYear {
			return m, nil
		}
		return m, m.openEventForm(nil)

	case "e":
		if e := m.eventAtCursor(); e != nil {
			return m, m.openEventForm(e)
		}
	case "x", "d":
		if e := m.eventAtCursor(); e != nil {
			m.confirmDelete(entityEvent, e.ID)
		}
	case " ":
		if e := m.eventAtCursor(); e != nil {
			return m, m.toggleExpanded(e)
		}
	case "g":
		if e := m.eventAtCursor(); e != nil {
			return m, m.beginEventDrag(e)
		}
	case "y":
		if e := m.eventAtCursor(); e != nil {
			return m, commands.CopyToClipboard(view.EventClipboardText(e), fmt.Sprintf("%q", e.Title))
		}

	case "r":
		m.loading = true
		return m, tea.Batch(commands.LoadEvents(m.repo, m.nav.Query()), commands.LoadGoals(m.repo))

	case "/", ":":
		m.setMode(ModePrompt, "open prompt")
		m.prompt.SetValue("/")
		m.prompt.CursorEnd()
		return m, m.prompt.Focus()

	case "?":
		m.openModal(ModalHelp)

	case "tab":
		m.focus = FocusGoals

	case "esc":
		if notices := m.session.Notices(m.now()); len(notices) > 0 {
			m.session.Dismiss(notices[len(notices)-1].ID)
		}
	}
	return m, nil
}

func (m Model) handleDragKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if cmd, ok := m.handleMovement(key); ok {
		return m, cmd
	}
	if mode, ok := viewKeys[key]; ok && mode != grid.ViewYear {
		return m, m.switchView(mode, "view key")
	}

	switch key {
	case "enter", " ":
		return m, m.drop()
	case "esc", "q":
		m.sched.Cancel()
		LogDrag(m.sched, "cancel", nil)
		m.setMode(ModeNormal, "drag cancelled")
	}
	return m, nil
}

func (m Model) handleSidebarKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	goals := m.session.Goals()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		m.focus = FocusGrid
	case "tab":
		if m.focus == FocusGoals {
			m.focus = FocusTasks
			m.taskIdx = 0
		} else {
			m.focus = FocusGrid
		}
	case "shift+tab":
		if m.focus == FocusTasks {
			m.focus = FocusGoals
		} else {
			m.focus = FocusGrid
		}

	case "j", "down":
		if m.focus == FocusGoals {
			if m.goalIdx < len(goals)-1 {
				m.goalIdx++
				m.taskIdx = 0
			}
		} else if g := m.selectedGoal(); g != nil && m.taskIdx < len(m.session.TasksOf(g.ID))-1 {
			m.taskIdx++
		}
	case "k", "up":
		if m.focus == FocusGoals {
			if m.goalIdx > 0 {
				m.goalIdx--
				m.taskIdx = 0
			}
		} else if m.taskIdx > 0 {
			m.taskIdx--
		}

	case "a":
		if m.focus == FocusGoals {
			return m, m.openGoalForm(nil)
		}
		if m.selectedGoal() == nil {
			return m, m.notify("Create a goal first")
		}
		return m, m.openTaskForm(nil)

	case "e", "enter":
		if m.focus == FocusGoals {
			if g := m.selectedGoal(); g != nil {
				return m, m.openGoalForm(g)
			}
			return m, nil
		}
		if t := m.selectedTask(); t != nil {
			if msg.String() == "enter" {
				return m, m.beginTaskDrag(t)
			}
			return m, m.openTaskForm(t)
		}

	case "g":
		if t := m.selectedTask(); t != nil && m.focus == FocusTasks {
			return m, m.beginTaskDrag(t)
		}

	case "x", "d":
		if m.focus == FocusGoals {
			if g := m.selectedGoal(); g != nil {
				m.confirmDelete(entityGoal, g.ID)
			}
		} else if t := m.selectedTask(); t != nil {
			m.confirmDelete(entityTask, t.ID)
		}
	}

	if g := m.selectedGoal(); g != nil {
		m.session.SelectGoal(g.ID)
	}
	return m, nil
}

func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.modalType {
	case ModalHelp:
		switch key {
		case "esc", "q", "?", "enter":
			m.closeModal()
		}
		return m, nil

	case ModalForm:
		return m.handleFormKeys(msg)

	case ModalConfirmDelete:
		switch key {
		case "y", "Y", "enter":
			target := m.pending
			m.closeModal()
			return m, m.deletePending(target)
		case "n", "N", "esc", "q":
			m.closeModal()
		}
		return m, nil

	case ModalEventDetail:
		e := m.session.Event(m.detailID)
		if e == nil {
			m.closeModal()
			return m, nil
		}
		switch key {
		case "esc", "q", "enter":
			m.closeModal()
		case "e":
			return m, m.openEventForm(e)
		case "x", "d":
			m.confirmDelete(entityEvent, e.ID)
		case " ":
			return m, m.toggleExpanded(e)
		case "g":
			m.closeModal()
			return m, m.beginEventDrag(e)
		case "y":
			return m, commands.CopyToClipboard(view.EventClipboardText(e), fmt.Sprintf("%q", e.Title))
		}
	}
	return m, nil
}

// moveHorizontal moves one day, or one month in the year view.
func (m *Model) moveHorizontal(n int) tea.Cmd {
	if m.nav.Mode == grid.ViewYear {
		return m.moveCursorTo(dateutil.AddMonths(m.cursor.Day, n), "month")
	}
	return m.moveCursorTo(m.cursor.Day.AddDate(0, 0, n), "day")
}

// moveVertical moves one slot in time views, a week in the month view
// and a row of months in the year view.
func (m *Model) moveVertical(n int) tea.Cmd {
	switch m.nav.Mode {
	case grid.ViewMonth:
		return m.moveCursorTo(m.cursor.Day.AddDate(0, 0, 7*n), "week")
	case grid.ViewYear:
		return m.moveCursorTo(dateutil.AddMonths(m.cursor.Day, yearColumns*n), "month row")
	}

	slot := m.cursor.Slot + n
	if slot < 0 || slot >= m.grid.SlotCount() {
		return nil
	}
	m.cursor.Slot = slot
	m.ensureSlotVisible()
	LogCursorMove(m.nav.Mode, m.cursor.Day, m.cursor.Slot, "slot")
	return nil
}

// moveCursorTo places the cursor on day, following it with the view when
// it leaves the visible range.
func (m *Model) moveCursorTo(day time.Time, reason string) tea.Cmd {
	m.cursor.Day = dateutil.TruncateToDay(day)
	LogCursorMove(m.nav.Mode, m.cursor.Day, m.cursor.Slot, reason)
	if m.nav.Range.Contains(m.cursor.Day) {
		return nil
	}
	prev := m.nav
	m.nav = m.nav.ZoomTo(m.nav.Mode, m.cursor.Day)
	LogNavigate(prev, m.nav, "cursor left view")
	return m.reloadEvents()
}

// navigate pages the view and carries the cursor along.
func (m *Model) navigate(dir navigator.Direction) tea.Cmd {
	prev := m.nav
	m.nav = m.nav.Navigate(dir)
	LogNavigate(prev, m.nav, "page")

	n := int(dir)
	switch m.nav.Mode {
	case grid.ViewDay:
		m.cursor.Day = m.cursor.Day.AddDate(0, 0, n)
	case grid.ViewWeek:
		m.cursor.Day = m.cursor.Day.AddDate(0, 0, 7*n)
	case grid.ViewMonth:
		m.cursor.Day = dateutil.AddMonths(m.cursor.Day, n)
	case grid.ViewYear:
		m.cursor.Day = dateutil.AddMonths(m.cursor.Day, 12*n)
	}
	if !m.nav.Range.Contains(m.cursor.Day) {
		m.cursor.Day = m.nav.Range.Start
	}
	return m.reloadEvents()
}

func (m *Model) goToToday() tea.Cmd {
	prev := m.nav
	m.resetToToday()
	m.ensureSlotVisible()
	LogNavigate(prev, m.nav, "today")
	return m.reloadEvents()
}

// switchView changes the view mode around the cursor day.
func (m *Model) switchView(mode grid.ViewMode, reason string) tea.Cmd {
	if mode == m.nav.Mode {
		return nil
	}
	prev := m.nav
	m.nav = m.nav.ZoomTo(mode, m.cursor.Day)
	LogNavigate(prev, m.nav, reason)
	m.ensureSlotVisible()
	return m.reloadEvents()
}

func (m *Model) reloadEvents() tea.Cmd {
	m.loading = true
	return commands.LoadEvents(m.repo, m.nav.Query())
}

// ensureSlotVisible scrolls the time grid so the cursor row is shown.
func (m *Model) ensureSlotVisible() {
	rows := m.slotRows()
	if m.cursor.Slot < m.scrollOffset {
		m.scrollOffset = m.cursor.Slot
	}
	if m.cursor.Slot >= m.scrollOffset+rows {
		m.scrollOffset = m.cursor.Slot - rows + 1
	}
	maxOffset := m.grid.SlotCount() - rows
	if maxOffset < 0 {
		maxOffset = 0
	}
	if m.scrollOffset > maxOffset {
		m.scrollOffset = maxOffset
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func (m *Model) confirmDelete(kind entityKind, id string) {
	m.pending = deleteTarget{kind: kind, id: id}
	m.detailID = ""
	m.openModal(ModalConfirmDelete)
}

// deletePending removes the confirmed entity locally and sends the delete.
func (m *Model) deletePending(target deleteTarget) tea.Cmd {
	switch target.kind {
	case entityEvent:
		comp, err := m.session.RemoveEvent(target.id)
		if err != nil {
			return m.notifyError("delete event", err)
		}
		return commands.DeleteEvent(m.repo, target.id, comp)
	case entityGoal:
		comp, err := m.session.RemoveGoal(target.id)
		if err != nil {
			return m.notifyError("delete goal", err)
		}
		m.clampSidebar()
		return commands.DeleteGoal(m.repo, target.id, comp)
	case entityTask:
		comp, err := m.session.RemoveTask(target.id)
		if err != nil {
			return m.notifyError("delete task", err)
		}
		m.clampSidebar()
		return commands.DeleteTask(m.repo, target.id, comp)
	}
	return nil
}

// toggleExpanded flips the flag locally and persists it.
func (m *Model) toggleExpanded(e *calendar.Event) tea.Cmd {
	patch := calendar.ToggleExpanded(e)
	next := e.Clone()
	if err := patch.Apply(next); err != nil {
		return m.notifyError("toggle expanded", err)
	}
	comp, err := m.session.ReplaceEvent(next)
	if err != nil {
		return m.notifyError("toggle expanded", err)
	}
	verb := "Collapsed"
	if next.IsExpanded {
		verb = "Expanded"
	}
	return commands.UpdateEvent(m.repo, e.ID, patch, comp, verb)
}

func (m *Model) beginEventDrag(e *calendar.Event) tea.Cmd {
	if err := m.sched.BeginEventDrag(e); err != nil {
		return m.notifyError("begin drag", err)
	}
	LogDrag(m.sched, "begin", nil)
	m.focus = FocusGrid
	m.setMode(ModeDrag, "grab event")
	return nil
}

func (m *Model) beginTaskDrag(t *calendar.Task) tea.Cmd {
	if err := m.sched.BeginTaskDrag(t); err != nil {
		return m.notifyError("begin drag", err)
	}
	LogDrag(m.sched, "begin", nil)
	m.focus = FocusGrid
	m.setMode(ModeDrag, "grab task")

	// The year view has no drop cells.
	if m.nav.Mode == grid.ViewYear {
		return m.switchView(grid.ViewWeek, "task drag")
	}
	return nil
}

// drop ends the gesture on the cursor cell. Moves are applied locally
// before the request is sent; task drops wait for the created event.
func (m *Model) drop() tea.Cmd {
	target := m.cursorTarget()
	req, err := m.sched.Drop(target, m.session.Events())
	LogDrag(m.sched, "drop", &target)
	m.sched.Reset()
	m.setMode(ModeNormal, "drop")
	if err != nil {
		return m.notifyError("drop", err)
	}

	if req.Kind == scheduler.UpdateEvent {
		comp, err := m.session.ReplaceEvent(req.Event)
		if err != nil {
			return m.notifyError("drop", err)
		}
		return commands.IssueDrop(m.repo, req, comp)
	}
	return commands.IssueDrop(m.repo, req, nil)
}

// clampSidebar keeps the sidebar cursors on existing rows.
func (m *Model) clampSidebar() {
	goals := m.session.Goals()
	if m.goalIdx >= len(goals) {
		m.goalIdx = len(goals) - 1
	}
	if m.goalIdx < 0 {
		m.goalIdx = 0
	}
	if g := m.selectedGoal(); g != nil {
		tasks := m.session.TasksOf(g.ID)
		if m.taskIdx >= len(tasks) {
			m.taskIdx = len(tasks) - 1
		}
	}
	if m.taskIdx < 0 {
		m.taskIdx = 0
	}
}
