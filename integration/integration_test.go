package integration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/client"
	"github.com/javiermolinar/dayplan/internal/config"
	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/db"
	"github.com/javiermolinar/dayplan/internal/grid"
	"github.com/javiermolinar/dayplan/internal/navigator"
	"github.com/javiermolinar/dayplan/internal/scheduler"
	"github.com/javiermolinar/dayplan/internal/server"
	"github.com/javiermolinar/dayplan/internal/session"
	"github.com/javiermolinar/dayplan/internal/ui"
)

// stack is a server over a fresh SQLite database and a client talking to it.
type stack struct {
	store  *db.SQLite
	client *client.Client
	ts     *httptest.Server
}

// openStack creates a fresh stack for each test with automatic cleanup.
func openStack(t *testing.T) *stack {
	t.Helper()
	store, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.Default().Server
	cfg.RateLimit = 0
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := server.New(store, cfg, logger, server.WithoutAccessLog(), server.WithLocation(time.Local))

	ts := httptest.NewServer(adaptor.FiberApp(srv.App()))
	t.Cleanup(ts.Close)

	c, err := client.New(ts.URL, client.WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("client.New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	return &stack{store: store, client: c, ts: ts}
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 6, day, hour, minute, 0, 0, time.Local)
}

// createEvent is a helper to create and insert an event through the client.
func createEvent(t *testing.T, repo calendar.Repository, title string, day, hour, minute, minutes int) *calendar.Event {
	t.Helper()
	start := at(day, hour, minute)
	e, err := calendar.NewEvent(title, calendar.CategoryWork, at(day, 0, 0), start, start.Add(time.Duration(minutes)*time.Minute))
	if err != nil {
		t.Fatalf("failed to build event: %v", err)
	}
	if err := repo.CreateEvent(context.Background(), e); err != nil {
		t.Fatalf("failed to insert event: %v", err)
	}
	return e
}

func TestGoalTaskColorScenario(t *testing.T) {
	s := openStack(t)
	ctx := context.Background()

	g, _ := calendar.NewGoal("Fitness", "#ff0000")
	if err := s.client.CreateGoal(ctx, g); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}
	task, _ := calendar.NewTask("Run", g.ID, "")
	if err := s.client.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Color != "#ff0000" {
		t.Errorf("task color = %q, want inherited #ff0000", task.Color)
	}

	green := "#00ff00"
	if _, err := s.client.UpdateGoal(ctx, g.ID, calendar.GoalPatch{Color: &green}); err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}

	// Read back through the database to make sure the cascade was stored.
	got, err := s.store.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if got.Color != green {
		t.Errorf("task color after goal update = %q, want %q", got.Color, green)
	}

	if err := s.client.DeleteGoal(ctx, g.ID); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}
	if _, err := s.client.GetTask(ctx, task.ID); !calendar.IsNotFound(err) {
		t.Errorf("GetTask after goal delete: err = %v, want not found", err)
	}
}

func TestTaskUnknownGoal(t *testing.T) {
	s := openStack(t)

	task, _ := calendar.NewTask("Run", "00000000-0000-0000-0000-000000000000", "")
	err := s.client.CreateTask(context.Background(), task)
	if !errors.Is(err, calendar.ErrGoalReference) && !calendar.IsNotFound(err) {
		t.Errorf("err = %v, want goal reference error", err)
	}
}

func TestOverlapRejectedMoveScenario(t *testing.T) {
	s := openStack(t)
	ctx := context.Background()

	a := createEvent(t, s.client, "A", 10, 9, 0, 30)
	createEvent(t, s.client, "B", 10, 9, 15, 30)

	day, err := s.client.ListEvents(ctx, &dateutil.DateRange{Start: at(10, 0, 0), End: at(10, 0, 0)})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if _, err := scheduler.MoveEvent(a, at(10, 9, 15), day); !errors.Is(err, calendar.ErrOverlap) {
		t.Fatalf("MoveEvent onto B: err = %v, want overlap", err)
	}

	req, err := scheduler.MoveEvent(a, at(11, 14, 0), nil)
	if err != nil {
		t.Fatalf("MoveEvent: %v", err)
	}
	moved, err := req.Issue(ctx, s.client)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if moved.Duration() != 30*time.Minute || !dateutil.SameDay(moved.Date, at(11, 0, 0)) {
		t.Errorf("moved = %s %v-%v", dateutil.FormatDate(moved.Date), moved.StartTime, moved.EndTime)
	}

	stored, err := s.store.GetEvent(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if !stored.StartTime.Equal(at(11, 14, 0)) || !stored.EndTime.Equal(at(11, 14, 30)) {
		t.Errorf("stored = %v-%v", stored.StartTime, stored.EndTime)
	}
}

func TestDragTaskOntoWeek(t *testing.T) {
	s := openStack(t)
	ctx := context.Background()

	g, _ := calendar.NewGoal("Reading", "#123456")
	if err := s.client.CreateGoal(ctx, g); err != nil {
		t.Fatal(err)
	}
	task, _ := calendar.NewTask("Finish book", g.ID, "")
	if err := s.client.CreateTask(ctx, task); err != nil {
		t.Fatal(err)
	}

	sched := scheduler.New(grid.DefaultConfig(), scheduler.DefaultPolicy())
	if err := sched.BeginTaskDrag(task); err != nil {
		t.Fatal(err)
	}
	// Slot 42 is 21:00 with 30 minute slots.
	req, err := sched.Drop(grid.SlotTarget(grid.ViewWeek, at(12, 0, 0), 42), nil)
	if err != nil {
		t.Fatalf("Drop: %v", err)
	}
	e, err := req.Issue(ctx, s.client)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	nav := navigator.New(grid.ViewWeek, at(12, 0, 0))
	events, err := s.client.ListEvents(ctx, nav.Query())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].ID != e.ID {
		t.Fatalf("week events = %v", events)
	}
	got := events[0]
	if got.Title != "Finish book" || got.Color != "#123456" || !got.StartTime.Equal(at(12, 21, 0)) {
		t.Errorf("dropped event = %+v", got)
	}
}

func TestOptimisticDeleteRollsBackWhenServerIsDown(t *testing.T) {
	s := openStack(t)
	ctx := context.Background()

	a := createEvent(t, s.client, "A", 10, 9, 0, 30)
	sess := session.New()
	events, err := s.client.ListEvents(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	sess.SetEvents(events)

	s.ts.Close()

	err = sess.DeleteEvent(ctx, s.client, a.ID, time.Now())
	if !errors.Is(err, calendar.ErrTransient) {
		t.Fatalf("DeleteEvent: err = %v, want transient", err)
	}
	restored := sess.Event(a.ID)
	if restored == nil {
		t.Fatal("event not restored after failed delete")
	}
	if restored.Title != a.Title || !restored.StartTime.Equal(a.StartTime) || !restored.EndTime.Equal(a.EndTime) {
		t.Errorf("restored = %+v, want %+v", restored, a)
	}
	if n := len(sess.Notices(time.Now())); n != 1 {
		t.Errorf("notices = %d, want 1", n)
	}

	// The database never saw the delete.
	if _, err := s.store.GetEvent(ctx, a.ID); err != nil {
		t.Errorf("GetEvent: %v", err)
	}
}

func TestLateEventsStayOnTheirLocalDay(t *testing.T) {
	s := openStack(t)
	ctx := context.Background()

	// Saturday 23:30 local is the last slot of the week.
	late := createEvent(t, s.client, "Late", 15, 23, 30, 30)

	week := navigator.New(grid.ViewWeek, at(12, 0, 0))
	events, err := s.client.ListEvents(ctx, week.Query())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].ID != late.ID {
		t.Fatalf("week of June 9 = %v, want the late event", events)
	}
	if got := dateutil.FormatDate(events[0].Date); got != "2024-06-15" {
		t.Errorf("date = %s, want 2024-06-15", got)
	}

	next := week.Navigate(navigator.Next)
	events, err = s.client.ListEvents(ctx, next.Query())
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 0 {
		t.Errorf("next week = %v, want none", events)
	}
}

func TestCLIAgainstServer(t *testing.T) {
	s := openStack(t)
	ui.DisableColor()

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		app := ui.NewApp(ui.WithConfig(config.Default()))
		defer func() { _ = app.Close() }()
		app.SetOutput(&out)
		app.SetArgs(append([]string{"--api", s.ts.URL}, args...))
		if err := app.Execute(); err != nil {
			t.Fatalf("%s: %v\n%s", strings.Join(args, " "), err, out.String())
		}
		return out.String()
	}

	run("events", "add", "--title", "Standup", "--category", "work", "--date", "2024-06-10", "--start", "09:00", "--end", "09:30")

	stored, err := s.store.ListEvents(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 1 || stored[0].Title != "Standup" {
		t.Fatalf("stored events = %v", stored)
	}

	out := run("events", "list", "--start", "2024-06-10")
	if !strings.Contains(out, "Standup") || !strings.Contains(out, "09:00-09:30") {
		t.Errorf("events list:\n%s", out)
	}

	out = run("grid", "--view", "week", "--date", "2024-06-10")
	if !strings.Contains(out, "Standup") {
		t.Errorf("grid:\n%s", out)
	}
}
