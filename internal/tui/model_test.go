package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/calendar/calendartest"
	"github.com/javiermolinar/dayplan/internal/config"
	"github.com/javiermolinar/dayplan/internal/grid"
	"github.com/javiermolinar/dayplan/internal/tui/commands"
)

// Monday, June 10 2024 at noon.
var testNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func day(d int) time.Time {
	return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC)
}

func at(d, h, min int) time.Time {
	return time.Date(2024, 6, d, h, min, 0, 0, time.UTC)
}

func newTestModel(t *testing.T, repo *calendartest.Memory) Model {
	t.Helper()
	lipgloss.SetColorProfile(termenv.TrueColor)

	m := New(repo, config.Default(), WithClock(func() time.Time { return testNow }))
	model, _ := send(t, *m, tea.WindowSizeMsg{Width: 140, Height: 40})
	return reload(t, model, repo)
}

// reload feeds the current view's events and the goals into the model.
func reload(t *testing.T, m Model, repo *calendartest.Memory) Model {
	t.Helper()
	m, _ = send(t, m, commands.LoadEvents(repo, m.nav.Query())())
	m, _ = send(t, m, commands.LoadGoals(repo)())
	return m
}

func seedEvent(t *testing.T, repo *calendartest.Memory, title string, start, end time.Time) *calendar.Event {
	t.Helper()
	e, err := calendar.NewEvent(title, calendar.CategoryWork, start, start, end)
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	if err := repo.CreateEvent(context.Background(), e); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	return e
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// press sends each key and returns the command of the last one.
func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		m, cmd = send(t, m, keyMsg(k))
	}
	return m, cmd
}

// settle runs a persistence command and feeds its result back.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	m, _ = send(t, m, cmd())
	return m
}

func noticeTexts(m Model) []string {
	var texts []string
	for _, n := range m.session.Notices(m.now()) {
		texts = append(texts, n.Text)
	}
	return texts
}

func TestNew_StartsOnToday(t *testing.T) {
	m := newTestModel(t, calendartest.NewMemory())

	if !m.cursor.Day.Equal(day(10)) {
		t.Errorf("cursor day = %v, want June 10", m.cursor.Day)
	}
	if m.cursor.Slot != 24 {
		t.Errorf("cursor slot = %d, want 24", m.cursor.Slot)
	}
	if m.nav.Mode != grid.ViewWeek {
		t.Errorf("mode = %s, want week", m.nav.Mode)
	}
	if !m.nav.Range.Start.Equal(day(9)) {
		t.Errorf("week starts %v, want Sunday June 9", m.nav.Range.Start)
	}
}

func TestCursorNavigation(t *testing.T) {
	tests := []struct {
		name       string
		keys       []string
		wantMode   grid.ViewMode
		wantCursor time.Time
	}{
		{"next day", []string{"l"}, grid.ViewWeek, day(11)},
		{"next week page", []string{"L"}, grid.ViewWeek, day(17)},
		{"across week boundary", []string{"h", "h"}, grid.ViewWeek, day(8)},
		{"month view", []string{"3"}, grid.ViewMonth, day(10)},
		{"month row down", []string{"3", "j"}, grid.ViewMonth, day(17)},
		{"year next month", []string{"4", "l"}, grid.ViewYear, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC)},
		{"enter in month opens day", []string{"3", "enter"}, grid.ViewDay, day(10)},
		{"today resets", []string{"L", "L", "t"}, grid.ViewWeek, day(10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, calendartest.NewMemory())
			m, _ = press(t, m, tt.keys...)

			if m.nav.Mode != tt.wantMode {
				t.Errorf("mode = %s, want %s", m.nav.Mode, tt.wantMode)
			}
			if !m.cursor.Day.Equal(tt.wantCursor) {
				t.Errorf("cursor = %v, want %v", m.cursor.Day, tt.wantCursor)
			}
			if !m.nav.Range.Contains(m.cursor.Day) {
				t.Errorf("cursor %v outside view %v", m.cursor.Day, m.nav.Range)
			}
		})
	}
}

func TestEventsLoaded_IgnoresStaleRange(t *testing.T) {
	repo := calendartest.NewMemory()
	seedEvent(t, repo, "Standup", at(3, 9, 0), at(3, 9, 30))
	m := newTestModel(t, repo)

	stale := commands.LoadEvents(repo, nil)()
	m, _ = send(t, m, stale)

	if got := len(m.session.Events()); got != 0 {
		t.Fatalf("stale load applied: %d events", got)
	}
}

func TestDrag_MovesEvent(t *testing.T) {
	repo := calendartest.NewMemory()
	e := seedEvent(t, repo, "Standup", at(10, 9, 0), at(10, 10, 0))
	m := newTestModel(t, repo)
	m.cursor = Position{Day: day(10), Slot: 18}

	m, _ = press(t, m, "g")
	if m.mode != ModeDrag {
		t.Fatalf("mode = %v, want drag", m.mode)
	}
	m, cmd := press(t, m, "j", "j", "enter")
	if m.mode != ModeNormal {
		t.Fatalf("mode after drop = %v, want normal", m.mode)
	}

	if got := m.session.Event(e.ID).StartTime; !got.Equal(at(10, 10, 0)) {
		t.Fatalf("optimistic start = %v, want 10:00", got)
	}

	m = settle(t, m, cmd)
	stored, err := repo.GetEvent(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if !stored.StartTime.Equal(at(10, 10, 0)) || !stored.EndTime.Equal(at(10, 11, 0)) {
		t.Errorf("stored = %v-%v, want 10:00-11:00", stored.StartTime, stored.EndTime)
	}
	if texts := noticeTexts(m); len(texts) != 1 || texts[0] != `Moved "Standup"` {
		t.Errorf("notices = %v", texts)
	}
}

func TestDrag_RejectsOverlap(t *testing.T) {
	repo := calendartest.NewMemory()
	first := seedEvent(t, repo, "Standup", at(10, 9, 0), at(10, 10, 0))
	seedEvent(t, repo, "Review", at(10, 10, 0), at(10, 11, 0))
	m := newTestModel(t, repo)
	m.cursor = Position{Day: day(10), Slot: 18}

	m, _ = press(t, m, "g", "j", "enter")

	if got := m.session.Event(first.ID).StartTime; !got.Equal(at(10, 9, 0)) {
		t.Errorf("event moved to %v despite the conflict", got)
	}
	for _, call := range repo.Calls() {
		if call == "UpdateEvent" {
			t.Error("rejected drop reached the repository")
		}
	}
	texts := noticeTexts(m)
	if len(texts) != 1 || !strings.Contains(texts[0], "overlap") {
		t.Errorf("notices = %v", texts)
	}
	if m.mode != ModeNormal {
		t.Errorf("mode = %v, want normal", m.mode)
	}
}

func TestDrag_CancelKeepsEvent(t *testing.T) {
	repo := calendartest.NewMemory()
	e := seedEvent(t, repo, "Standup", at(10, 9, 0), at(10, 10, 0))
	m := newTestModel(t, repo)
	m.cursor = Position{Day: day(10), Slot: 18}

	m, cmd := press(t, m, "g", "l", "esc")
	if cmd != nil {
		t.Error("cancel returned a command")
	}
	if m.mode != ModeNormal {
		t.Errorf("mode = %v, want normal", m.mode)
	}
	if got := m.session.Event(e.ID).StartTime; !got.Equal(at(10, 9, 0)) {
		t.Errorf("start = %v, want 09:00", got)
	}
}

func TestTaskDrop_CreatesEvent(t *testing.T) {
	repo := calendartest.NewMemory()
	ctx := context.Background()
	g, _ := calendar.NewGoal("Fitness", "#22c55e")
	if err := repo.CreateGoal(ctx, g); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	task, _ := calendar.NewTask("Run 5k", g.ID, "#16a34a")
	if err := repo.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	m := newTestModel(t, repo)

	m, _ = press(t, m, "tab", "tab", "g")
	if m.mode != ModeDrag || m.focus != FocusGrid {
		t.Fatalf("mode = %v focus = %v, want drag on the grid", m.mode, m.focus)
	}
	m, cmd := press(t, m, "enter")
	m = settle(t, m, cmd)

	events := m.session.Events()
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1", len(events))
	}
	got := events[0]
	if got.Title != "Run 5k" || got.Color != "#16a34a" {
		t.Errorf("event = %q %q", got.Title, got.Color)
	}
	if !got.StartTime.Equal(at(10, 12, 0)) || got.Duration() != 30*time.Minute {
		t.Errorf("event at %v for %v, want 12:00 for 30m", got.StartTime, got.Duration())
	}
	if texts := noticeTexts(m); len(texts) != 1 || texts[0] != `Scheduled "Run 5k"` {
		t.Errorf("notices = %v", texts)
	}
}

func TestDelete_RollsBackOnFailure(t *testing.T) {
	repo := calendartest.NewMemory()
	e := seedEvent(t, repo, "Standup", at(10, 12, 0), at(10, 12, 30))
	m := newTestModel(t, repo)

	m, _ = press(t, m, "x")
	if m.modalType != ModalConfirmDelete {
		t.Fatalf("modal = %v, want delete confirmation", m.modalType)
	}

	repo.Fail(errors.New("disk full"))
	m, cmd := press(t, m, "y")
	if m.session.Event(e.ID) != nil {
		t.Fatal("event still shown while the delete is in flight")
	}

	m = settle(t, m, cmd)
	if m.session.Event(e.ID) == nil {
		t.Fatal("event not restored after the failed delete")
	}
	texts := noticeTexts(m)
	if len(texts) != 1 || !strings.HasPrefix(texts[0], `Failed to delete event "Standup": `) || !strings.Contains(texts[0], "disk full") {
		t.Errorf("notices = %v", texts)
	}
}

func TestDelete_Succeeds(t *testing.T) {
	repo := calendartest.NewMemory()
	e := seedEvent(t, repo, "Standup", at(10, 12, 0), at(10, 12, 30))
	m := newTestModel(t, repo)

	m, cmd := press(t, m, "x", "y")
	m = settle(t, m, cmd)

	if m.session.Event(e.ID) != nil {
		t.Error("event still in session")
	}
	if _, err := repo.GetEvent(context.Background(), e.ID); !calendar.IsNotFound(err) {
		t.Errorf("GetEvent err = %v, want not found", err)
	}
}

func TestEventForm_Create(t *testing.T) {
	repo := calendartest.NewMemory()
	m := newTestModel(t, repo)

	m, _ = press(t, m, "a")
	if m.modalType != ModalForm {
		t.Fatalf("modal = %v, want form", m.modalType)
	}
	m, cmd := press(t, m, "Gym", "enter")
	if m.mode != ModeNormal {
		t.Fatalf("form still open: %q", m.form.err)
	}
	m = settle(t, m, cmd)

	events := m.session.Events()
	if len(events) != 1 || events[0].Title != "Gym" {
		t.Fatalf("events = %v", events)
	}
	if !events[0].StartTime.Equal(at(10, 12, 0)) || !events[0].EndTime.Equal(at(10, 12, 30)) {
		t.Errorf("event at %v-%v, want the cursor slot", events[0].StartTime, events[0].EndTime)
	}
}

func TestEventForm_ValidationKeepsFormOpen(t *testing.T) {
	m := newTestModel(t, calendartest.NewMemory())

	m, cmd := press(t, m, "a", "enter")
	if cmd != nil {
		t.Error("invalid form returned a command")
	}
	if m.modalType != ModalForm {
		t.Fatalf("modal = %v, want form", m.modalType)
	}
	if m.form.err != "Title cannot be empty" {
		t.Errorf("form error = %q", m.form.err)
	}
}

func TestPrompt_Goto(t *testing.T) {
	m := newTestModel(t, calendartest.NewMemory())

	m, _ = press(t, m, "/")
	if m.mode != ModePrompt {
		t.Fatalf("mode = %v, want prompt", m.mode)
	}
	m, _ = press(t, m, "goto 2024-07-04", "enter")

	if m.mode != ModeNormal {
		t.Errorf("mode = %v, want normal", m.mode)
	}
	want := time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)
	if !m.cursor.Day.Equal(want) || !m.nav.Range.Contains(want) {
		t.Errorf("cursor %v view %v, want July 4", m.cursor.Day, m.nav.Range)
	}
}

func TestPrompt_View(t *testing.T) {
	m := newTestModel(t, calendartest.NewMemory())

	m, _ = press(t, m, "/", "view month", "enter")
	if m.nav.Mode != grid.ViewMonth {
		t.Errorf("mode = %s, want month", m.nav.Mode)
	}

	m, _ = press(t, m, "/", "view decade", "enter")
	if m.nav.Mode != grid.ViewMonth {
		t.Errorf("invalid view changed mode to %s", m.nav.Mode)
	}
	if texts := noticeTexts(m); len(texts) != 1 {
		t.Errorf("notices = %v, want one error", texts)
	}
}

func TestNotices_Expire(t *testing.T) {
	now := testNow
	m := New(calendartest.NewMemory(), config.Default(), WithClock(func() time.Time { return now }))

	model, _ := send(t, *m, commands.StatusMsgCmd{Msg: "Copied"})
	if len(noticeTexts(model)) != 1 {
		t.Fatal("notice not posted")
	}

	now = now.Add(6 * time.Second)
	model, _ = send(t, model, commands.ExpireNoticesMsg{})
	if texts := noticeTexts(model); len(texts) != 0 {
		t.Errorf("notices after expiry = %v", texts)
	}
}

func TestView_RendersEventsAndSidebar(t *testing.T) {
	repo := calendartest.NewMemory()
	seedEvent(t, repo, "Standup", at(10, 12, 0), at(10, 13, 0))
	g, _ := calendar.NewGoal("Fitness", "#22c55e")
	_ = repo.CreateGoal(context.Background(), g)
	m := newTestModel(t, repo)

	out := m.View()
	for _, want := range []string{m.nav.Title(), "Standup", "Goals", "Fitness"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m, _ = press(t, m, "?")
	if out := m.View(); !strings.Contains(out, "Keys") {
		t.Error("help modal not rendered")
	}
}

func TestView_MonthAndYear(t *testing.T) {
	repo := calendartest.NewMemory()
	seedEvent(t, repo, "Standup", at(10, 12, 0), at(10, 13, 0))
	m := newTestModel(t, repo)

	m, cmd := press(t, m, "3")
	m = settle(t, m, cmd)
	if out := m.View(); !strings.Contains(out, "June 2024") || !strings.Contains(out, "Standup") {
		t.Errorf("month view missing title or event:\n%s", out)
	}

	m, cmd = press(t, m, "4")
	m = settle(t, m, cmd)
	if out := m.View(); !strings.Contains(out, "1 event") {
		t.Errorf("year view missing count:\n%s", out)
	}
}
