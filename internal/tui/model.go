package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/config"
	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/grid"
	"github.com/javiermolinar/dayplan/internal/navigator"
	"github.com/javiermolinar/dayplan/internal/scheduler"
	"github.com/javiermolinar/dayplan/internal/session"
	"github.com/javiermolinar/dayplan/internal/tui/commands"
	"github.com/javiermolinar/dayplan/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeDrag        // carrying an event or task across the grid
	ModePrompt
	ModeModal
)

// ModalType identifies the type of modal.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalEventDetail
	ModalForm
	ModalConfirmDelete
	ModalHelp
)

// Focus is the panel receiving keys in normal mode.
type Focus int

const (
	FocusGrid Focus = iota
	FocusGoals
	FocusTasks
)

type entityKind int

const (
	entityEvent entityKind = iota
	entityGoal
	entityTask
)

// Position is the cursor: a day and, in the day and week views, a slot.
type Position struct {
	Day  time.Time
	Slot int
}

type deleteTarget struct {
	kind entityKind
	id   string
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   calendar.Repository
	config *config.Config

	theme  *theme.Theme
	styles *Styles

	nav     navigator.State
	grid    grid.Config
	sched   *scheduler.Scheduler
	session *session.Session
	now     func() time.Time

	cursor    Position
	mode      Mode
	modalType ModalType
	focus     Focus
	goalIdx   int
	taskIdx   int
	loading   bool

	form     *Form
	detailID string
	pending  deleteTarget

	prompt textinput.Model

	width        int
	height       int
	scrollOffset int
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithClock replaces time.Now. The cursor and view are re-anchored on the
// clock's current day.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
		m.resetToToday()
	}
}

// New creates a new TUI model.
func New(repo calendar.Repository, cfg *config.Config, opts ...ModelOption) *Model {
	if cfg == nil {
		cfg = config.Default()
	}

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	ti := textinput.New()
	ti.Placeholder = "/goto tomorrow"
	ti.Prompt = ""
	ti.CharLimit = 128

	g := cfg.Calendar.GridConfig()
	m := &Model{
		repo:    repo,
		config:  cfg,
		theme:   t,
		styles:  styles,
		grid:    g,
		sched:   scheduler.New(g, cfg.Calendar.Policy()),
		session: session.New(),
		now:     time.Now,
		mode:    ModeNormal,
		prompt:  ti,
		nav:     navigator.New(cfg.UI.ViewMode(), time.Now()),
	}
	m.resetToToday()

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// resetToToday anchors the view and the cursor on the current time.
func (m *Model) resetToToday() {
	now := m.now()
	m.nav = m.nav.GoToToday(now)
	m.cursor = Position{Day: dateutil.TruncateToDay(now), Slot: m.grid.SlotIndex(now)}
}

// Init loads the visible events and the goal list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		commands.LoadEvents(m.repo, m.nav.Query()),
		commands.LoadGoals(m.repo),
	)
}

// Run starts the TUI.
func Run(repo calendar.Repository, cfg *config.Config) error {
	return RunWithDebug(repo, cfg, false)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(repo calendar.Repository, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model := New(repo, cfg)
	model.loading = true
	p := tea.NewProgram(*model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// visibleEvents returns the loaded events inside the current view.
func (m Model) visibleEvents() []*calendar.Event {
	return m.nav.Visible(m.session.Events())
}

// cursorTarget maps the cursor to a drop target.
func (m Model) cursorTarget() grid.Target {
	if m.nav.Mode.HasTimeAxis() {
		return grid.SlotTarget(m.nav.Mode, m.cursor.Day, m.cursor.Slot)
	}
	return grid.DayTarget(m.cursor.Day)
}

// cursorTime is the instant the cursor points at.
func (m Model) cursorTime() time.Time {
	return m.grid.Resolve(m.cursorTarget(), m.sched.Policy().DefaultDropHour)
}

// eventAtCursor returns the event under the cursor. In the month view it is
// the first event of the day; the year view has none.
func (m Model) eventAtCursor() *calendar.Event {
	day := calendar.EventsOnDay(m.session.Events(), m.cursor.Day)
	switch {
	case m.nav.Mode.HasTimeAxis():
		start := m.cursorTime()
		end := start.Add(m.grid.Interval())
		for _, e := range day {
			if calendar.IntervalsOverlap(start, end, e.StartTime, e.EndTime) {
				return e
			}
		}
	case m.nav.Mode == grid.ViewMonth && len(day) > 0:
		return day[0]
	}
	return nil
}

// selectedGoal returns the goal under the sidebar cursor.
func (m Model) selectedGoal() *calendar.Goal {
	goals := m.session.Goals()
	if m.goalIdx < 0 || m.goalIdx >= len(goals) {
		return nil
	}
	return goals[m.goalIdx]
}

// selectedTask returns the task under the sidebar cursor.
func (m Model) selectedTask() *calendar.Task {
	g := m.selectedGoal()
	if g == nil {
		return nil
	}
	tasks := m.session.TasksOf(g.ID)
	if m.taskIdx < 0 || m.taskIdx >= len(tasks) {
		return nil
	}
	return tasks[m.taskIdx]
}

// setMode switches the interaction mode and logs the transition.
func (m *Model) setMode(to Mode, reason string) {
	if m.mode != to {
		LogModeChange(m.mode, to, reason)
	}
	m.mode = to
}

func (m *Model) openModal(t ModalType) {
	m.setMode(ModeModal, "open modal")
	m.modalType = t
}

func (m *Model) closeModal() {
	m.setMode(ModeNormal, "close modal")
	m.modalType = ModalNone
	m.form = nil
	m.detailID = ""
}

// notify posts an info notice and schedules its expiry.
func (m *Model) notify(text string) tea.Cmd {
	m.session.Notify(session.LevelInfo, text, m.now())
	return commands.ExpireNotices(session.NoticeTTL)
}

// notifyError posts an error notice and schedules its expiry.
func (m *Model) notifyError(context string, err error) tea.Cmd {
	LogError(context, err)
	m.session.NotifyError(err, m.now())
	return commands.ExpireNotices(session.NoticeTTL)
}

// notifyFailure posts an error notice with a custom text.
func (m *Model) notifyFailure(context, text string, err error) tea.Cmd {
	LogError(context, err)
	m.session.Notify(session.LevelError, text, m.now())
	return commands.ExpireNotices(session.NoticeTTL)
}
