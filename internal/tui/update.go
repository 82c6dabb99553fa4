package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/session"
	"github.com/javiermolinar/dayplan/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.Width = m.width - 10
		m.ensureSlotVisible()
		return m, nil

	case commands.EventsLoadedMsg:
		if !sameRange(msg.Range, m.nav.Query()) {
			// A response for a view the user already left.
			return m, nil
		}
		m.loading = false
		m.session.SetEvents(msg.Events)
		return m, nil

	case commands.GoalsLoadedMsg:
		m.session.SetGoals(msg.Goals)
		m.session.SetTasks(msg.Tasks)
		m.clampSidebar()
		return m, nil

	case commands.EventResultMsg:
		if msg.Err != nil {
			if msg.Comp != nil {
				msg.Comp.Rollback()
			}
			return m, m.notifyError("event "+msg.Verb, msg.Err)
		}
		if msg.Comp != nil {
			msg.Comp.Commit()
		}
		m.session.PutEvent(msg.Event)
		return m, m.notify(fmt.Sprintf("%s %q", msg.Verb, msg.Event.Title))

	case commands.GoalResultMsg:
		if msg.Err != nil {
			return m, m.notifyError("goal "+msg.Verb, msg.Err)
		}
		isNew := m.session.Goal(msg.Goal.ID) == nil
		m.session.PutGoal(msg.Goal)
		if isNew {
			m.goalIdx = len(m.session.Goals()) - 1
			m.taskIdx = 0
			m.session.SelectGoal(msg.Goal.ID)
		}
		return m, m.notify(fmt.Sprintf("%s goal %q", msg.Verb, msg.Goal.Name))

	case commands.TaskResultMsg:
		if msg.Err != nil {
			return m, m.notifyError("task "+msg.Verb, msg.Err)
		}
		m.session.PutTask(msg.Task)
		m.clampSidebar()
		return m, m.notify(fmt.Sprintf("%s task %q", msg.Verb, msg.Task.Name))

	case commands.DeleteResultMsg:
		if msg.Err != nil {
			msg.Comp.Rollback()
			m.clampSidebar()
			text := fmt.Sprintf("Failed to %s: %s", msg.Comp.Label(), session.Message(msg.Err))
			return m, m.notifyFailure("delete", text, msg.Err)
		}
		msg.Comp.Commit()
		return m, nil

	case commands.ErrMsg:
		m.loading = false
		return m, m.notifyError("command", msg.Err)

	case commands.StatusMsgCmd:
		return m, m.notify(msg.Msg)

	case commands.ExpireNoticesMsg:
		m.session.Expire(m.now())
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	if m.mode == ModeModal && m.modalType == ModalForm && m.form != nil {
		field := &m.form.fields[m.form.focus]
		var cmd tea.Cmd
		field.input, cmd = field.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// sameRange reports whether two queries ask for the same days.
func sameRange(a, b *dateutil.DateRange) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return dateutil.SameDay(a.Start, b.Start) && dateutil.SameDay(a.End, b.End)
}
