package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/session"
	"github.com/javiermolinar/dayplan/internal/tui/commands"
	"github.com/javiermolinar/dayplan/internal/tui/view"
)

type formKind int

const (
	formEvent formKind = iota
	formGoal
	formTask
)

// Field positions per form kind.
const (
	evTitle = iota
	evCategory
	evDate
	evStart
	evEnd
	evColor
)

const (
	goalName = iota
	goalColor
)

const (
	taskName = iota
	taskGoal
	taskColor
)

const formHint = "tab/shift+tab: field  ←/→: choice  enter: save  esc: cancel"

type formField struct {
	label   string
	input   textinput.Model
	choices []string // set for choice fields
	choice  int
}

// Form is the create/edit modal for events, goals and tasks. targetID is
// empty when creating.
type Form struct {
	kind     formKind
	targetID string
	fields   []formField
	focus    int
	err      string
	goalIDs  []string
}

func (f *Form) title() string {
	verb := "New"
	if f.targetID != "" {
		verb = "Edit"
	}
	switch f.kind {
	case formGoal:
		return verb + " goal"
	case formTask:
		return verb + " task"
	default:
		return verb + " event"
	}
}

func (f *Form) value(i int) string {
	return strings.TrimSpace(f.fields[i].input.Value())
}

// setFocus moves the focus to field i, blurring the others.
func (f *Form) setFocus(i int) tea.Cmd {
	n := len(f.fields)
	f.focus = ((i % n) + n) % n
	var cmd tea.Cmd
	for j := range f.fields {
		if j == f.focus && f.fields[j].choices == nil {
			cmd = f.fields[j].input.Focus()
		} else {
			f.fields[j].input.Blur()
		}
	}
	return cmd
}

func (m Model) textField(label, value, placeholder string) formField {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	ti.SetValue(value)
	ti.TextStyle = m.styles.ModalInputTextStyle
	ti.PlaceholderStyle = m.styles.ModalPlaceholderStyle
	ti.Cursor.Style = m.styles.ModalInputCursorStyle
	return formField{label: label, input: ti}
}

func choiceField(label string, choices []string, choice int) formField {
	return formField{label: label, choices: choices, choice: choice}
}

// openEventForm opens the event form, prefilled from e or from the cursor.
func (m *Model) openEventForm(e *calendar.Event) tea.Cmd {
	cats := calendar.Categories()
	labels := make([]string, len(cats))
	for i, c := range cats {
		labels[i] = string(c)
	}

	var (
		title, color string
		cat          = m.sched.Policy().DefaultCategory
		start        = m.cursorTime()
		end          = start.Add(m.sched.Policy().DefaultDuration)
		targetID     string
	)
	if e != nil {
		title, color, cat = e.Title, e.Color, e.Category
		start, end = e.StartTime, e.EndTime
		targetID = e.ID
	}
	choice := 0
	for i, c := range cats {
		if c == cat {
			choice = i
		}
	}

	m.form = &Form{
		kind:     formEvent,
		targetID: targetID,
		fields: []formField{
			m.textField("Title", title, "What is happening?"),
			choiceField("Category", labels, choice),
			m.textField("Date", dateutil.FormatDate(start), "YYYY-MM-DD"),
			m.textField("Start", dateutil.FormatClock(start), "HH:MM"),
			m.textField("End", dateutil.FormatClock(end), "HH:MM"),
			m.textField("Color", color, "category color"),
		},
	}
	m.detailID = ""
	m.openModal(ModalForm)
	return m.form.setFocus(evTitle)
}

// openGoalForm opens the goal form, prefilled from g when editing.
func (m *Model) openGoalForm(g *calendar.Goal) tea.Cmd {
	var name, color, targetID string
	if g != nil {
		name, color, targetID = g.Name, g.Color, g.ID
	}
	m.form = &Form{
		kind:     formGoal,
		targetID: targetID,
		fields: []formField{
			m.textField("Name", name, "Learn Go"),
			m.textField("Color", color, "#3b82f6"),
		},
	}
	m.openModal(ModalForm)
	return m.form.setFocus(goalName)
}

// openTaskForm opens the task form. New tasks default to the selected goal.
func (m *Model) openTaskForm(t *calendar.Task) tea.Cmd {
	goals := m.session.Goals()
	ids := make([]string, len(goals))
	names := make([]string, len(goals))
	for i, g := range goals {
		ids[i], names[i] = g.ID, g.Name
	}

	var name, color, targetID, goalID string
	if sel := m.selectedGoal(); sel != nil {
		goalID = sel.ID
	}
	if t != nil {
		name, color, targetID, goalID = t.Name, t.Color, t.ID, t.GoalID
	}
	choice := 0
	for i, id := range ids {
		if id == goalID {
			choice = i
		}
	}

	m.form = &Form{
		kind:     formTask,
		targetID: targetID,
		goalIDs:  ids,
		fields: []formField{
			m.textField("Name", name, "Read chapter 3"),
			choiceField("Goal", names, choice),
			m.textField("Color", color, "goal color"),
		},
	}
	m.openModal(ModalForm)
	return m.form.setFocus(taskName)
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f == nil {
		m.closeModal()
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil
	case "tab", "down":
		return m, f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return m, f.setFocus(f.focus - 1)
	case "enter":
		return m, m.submitForm()
	}

	field := &f.fields[f.focus]
	if field.choices != nil {
		switch msg.String() {
		case "left", "h":
			field.choice = (field.choice - 1 + len(field.choices)) % len(field.choices)
		case "right", "l", " ":
			field.choice = (field.choice + 1) % len(field.choices)
		}
		return m, nil
	}

	var cmd tea.Cmd
	field.input, cmd = field.input.Update(msg)
	return m, cmd
}

// submitForm validates the form and sends the create or update. On a
// validation error the form stays open with the message.
func (m *Model) submitForm() tea.Cmd {
	f := m.form
	var (
		cmd tea.Cmd
		err error
	)
	switch f.kind {
	case formEvent:
		cmd, err = m.submitEvent(f)
	case formGoal:
		cmd, err = m.submitGoal(f)
	case formTask:
		cmd, err = m.submitTask(f)
	}
	if err != nil {
		f.err = session.Message(err)
		LogError("submit form", err)
		return nil
	}
	m.closeModal()
	return cmd
}

func (m *Model) parseEventTimes(f *Form) (date, start, end time.Time, err error) {
	loc := m.cursor.Day.Location()
	date, err = dateutil.ParseDateIn(f.value(evDate), loc)
	if err != nil {
		return date, start, end, calendar.Validation("date must be YYYY-MM-DD")
	}
	sh, sm, err := dateutil.ParseClock(f.value(evStart))
	if err != nil {
		return date, start, end, calendar.Validation("start must be HH:MM")
	}
	eh, em, err := dateutil.ParseClock(f.value(evEnd))
	if err != nil {
		return date, start, end, calendar.Validation("end must be HH:MM")
	}
	return date, dateutil.At(date, sh, sm), dateutil.At(date, eh, em), nil
}

func (m *Model) submitEvent(f *Form) (tea.Cmd, error) {
	date, start, end, err := m.parseEventTimes(f)
	if err != nil {
		return nil, err
	}
	title := f.value(evTitle)
	cat := calendar.Categories()[f.fields[evCategory].choice]
	color := f.value(evColor)

	if f.targetID == "" {
		e, err := calendar.NewEvent(title, cat, date, start, end)
		if err != nil {
			return nil, err
		}
		e.Color = color
		return commands.CreateEvent(m.repo, e), nil
	}

	cur := m.session.Event(f.targetID)
	if cur == nil {
		return nil, calendar.ErrEventNotFound
	}
	patch := calendar.EventPatch{
		Title:     &title,
		Category:  &cat,
		Date:      &date,
		StartTime: &start,
		EndTime:   &end,
		Color:     &color,
	}
	next := cur.Clone()
	if err := patch.Apply(next); err != nil {
		return nil, err
	}
	comp, err := m.session.ReplaceEvent(next)
	if err != nil {
		return nil, err
	}
	return commands.UpdateEvent(m.repo, f.targetID, patch, comp, "Updated"), nil
}

func (m *Model) submitGoal(f *Form) (tea.Cmd, error) {
	name, color := f.value(goalName), f.value(goalColor)

	if f.targetID == "" {
		g, err := calendar.NewGoal(name, color)
		if err != nil {
			return nil, err
		}
		return commands.CreateGoal(m.repo, g), nil
	}

	cur := m.session.Goal(f.targetID)
	if cur == nil {
		return nil, calendar.ErrGoalNotFound
	}
	patch := calendar.GoalPatch{Name: &name, Color: &color}
	check := *cur
	if err := patch.Apply(&check); err != nil {
		return nil, err
	}
	return commands.UpdateGoal(m.repo, f.targetID, patch), nil
}

func (m *Model) submitTask(f *Form) (tea.Cmd, error) {
	if len(f.goalIDs) == 0 {
		return nil, calendar.ErrMissingGoal
	}
	name, color := f.value(taskName), f.value(taskColor)
	goalID := f.goalIDs[f.fields[taskGoal].choice]

	if f.targetID == "" {
		t, err := calendar.NewTask(name, goalID, color)
		if err != nil {
			return nil, err
		}
		t.InheritColor(m.session.Goal(goalID))
		return commands.CreateTask(m.repo, t), nil
	}

	cur := m.session.Task(f.targetID)
	if cur == nil {
		return nil, calendar.ErrTaskNotFound
	}
	patch := calendar.TaskPatch{Name: &name, Color: &color}
	if goalID != cur.GoalID {
		patch.GoalID = &goalID
		if color == cur.Color {
			// Let the new goal's color apply.
			patch.Color = nil
		}
	}
	check := *cur
	if err := patch.Apply(&check, m.session.Goal(goalID)); err != nil {
		return nil, err
	}
	return commands.UpdateTask(m.repo, f.targetID, patch), nil
}

// renderForm renders the open form as a modal.
func (m Model) renderForm() string {
	f := m.form
	fields := make([]view.FormField, len(f.fields))
	for i, field := range f.fields {
		fields[i] = view.FormField{
			Label:   field.label,
			Input:   field.input.View(),
			Choices: field.choices,
			Choice:  field.choice,
			Focused: i == f.focus,
		}
	}
	body := view.RenderFormBody(fields, formHint, f.err, view.FormStyles{
		LabelStyle:     m.styles.ModalLabelStyle,
		InputStyle:     m.styles.ModalInputStyle,
		InputFocused:   m.styles.ModalInputFocusedStyle,
		ChoiceActive:   m.styles.ChoiceActiveStyle,
		ChoiceInactive: m.styles.ChoiceInactiveStyle,
		BodyStyle:      m.styles.ModalBodyStyle,
		HintStyle:      m.styles.ModalHintStyle,
		ErrorStyle:     m.styles.ModalErrorStyle,
	})
	return view.Modal{
		Title:   f.title(),
		Body:    body,
		Actions: []view.Action{{Key: "Enter", Label: "Save"}, {Key: "Esc", Label: "Cancel"}},
	}.Render(m.styles.ModalStyles())
}
