package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/config"
	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/db"
	"github.com/javiermolinar/dayplan/internal/server"
)

// newTestClient starts the REST API over a fresh SQLite database.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	repo, err := db.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	cfg := config.Default().Server
	cfg.RateLimit = 0
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := server.New(repo, cfg, logger, server.WithoutAccessLog())

	ts := httptest.NewServer(adaptor.FiberApp(srv.App()))
	t.Cleanup(ts.Close)

	c, err := New(ts.URL, WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func localTime(day, hour, minute int) time.Time {
	return time.Date(2024, 6, day, hour, minute, 0, 0, time.Local)
}

func TestNewRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:5000", "ftp://host", "http://"} {
		if _, err := New(raw); err == nil {
			t.Errorf("New(%q) succeeded, want error", raw)
		}
	}
}

func TestEventRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	e, err := calendar.NewEvent("Gym", calendar.CategoryExercise, localTime(12, 0, 0), localTime(12, 7, 0), localTime(12, 8, 0))
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	if err := c.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if uuid.Validate(e.ID) != nil {
		t.Fatalf("ID = %q, want server-assigned uuid", e.ID)
	}
	if !dateutil.SameDay(e.Date, localTime(12, 0, 0)) {
		t.Errorf("Date = %v, want June 12", e.Date)
	}

	got, err := c.GetEvent(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetEvent: %v", err)
	}
	if !got.StartTime.Equal(e.StartTime) || !got.EndTime.Equal(e.EndTime) {
		t.Errorf("GetEvent times = %v-%v, want %v-%v", got.StartTime, got.EndTime, e.StartTime, e.EndTime)
	}

	patch := calendar.Reschedule(localTime(13, 18, 0), localTime(13, 19, 0))
	moved, err := c.UpdateEvent(ctx, e.ID, patch)
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if !dateutil.SameDay(moved.Date, localTime(13, 0, 0)) {
		t.Errorf("moved Date = %v, want June 13", moved.Date)
	}

	week := &dateutil.DateRange{Start: localTime(9, 0, 0), End: localTime(15, 0, 0)}
	events, err := c.ListEvents(ctx, week)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 1 || events[0].ID != e.ID {
		t.Errorf("ListEvents = %+v", events)
	}

	if err := c.DeleteEvent(ctx, e.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if _, err := c.GetEvent(ctx, e.ID); !errors.Is(err, calendar.ErrEventNotFound) {
		t.Errorf("GetEvent after delete err = %v, want ErrEventNotFound", err)
	}
	if err := c.DeleteEvent(ctx, e.ID); !errors.Is(err, calendar.ErrEventNotFound) {
		t.Errorf("second DeleteEvent err = %v, want ErrEventNotFound", err)
	}
}

func TestServerValidationMapsToSentinels(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	e, _ := calendar.NewEvent("Read", calendar.CategoryRelax, localTime(12, 0, 0), localTime(12, 20, 0), localTime(12, 21, 0))
	if err := c.CreateEvent(ctx, e); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	end := localTime(12, 19, 0)
	_, err := c.UpdateEvent(ctx, e.ID, calendar.EventPatch{EndTime: &end})
	if !errors.Is(err, calendar.ErrEndBeforeStart) {
		t.Errorf("UpdateEvent err = %v, want ErrEndBeforeStart", err)
	}
	if !calendar.IsValidation(err) {
		t.Errorf("err %v should be a validation error", err)
	}

	if _, err := c.GetEvent(ctx, "not-a-uuid"); !errors.Is(err, calendar.ErrMalformedID) {
		t.Errorf("GetEvent malformed err = %v, want ErrMalformedID", err)
	}
	if _, err := c.GetEvent(ctx, ""); !errors.Is(err, calendar.ErrMalformedID) {
		t.Errorf("GetEvent empty err = %v, want ErrMalformedID", err)
	}
}

func TestGoalsAndTasks(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	g, _ := calendar.NewGoal("Learn Go", "#00add8")
	if err := c.CreateGoal(ctx, g); err != nil {
		t.Fatalf("CreateGoal: %v", err)
	}

	task, _ := calendar.NewTask("Read the tour", g.ID, "")
	if err := c.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.Color != "#00add8" {
		t.Errorf("task color = %q, want inherited", task.Color)
	}

	color := "#ffffff"
	if _, err := c.UpdateGoal(ctx, g.ID, calendar.GoalPatch{Color: &color}); err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}
	tasks, err := c.ListTasks(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Color != color {
		t.Errorf("tasks = %+v, want cascaded color", tasks)
	}

	missing := uuid.NewString()
	orphan, _ := calendar.NewTask("Orphan", missing, "")
	if err := c.CreateTask(ctx, orphan); !errors.Is(err, calendar.ErrGoalReference) {
		t.Errorf("CreateTask orphan err = %v, want ErrGoalReference", err)
	}
	if _, err := c.UpdateTask(ctx, task.ID, calendar.TaskPatch{GoalID: &missing}); !errors.Is(err, calendar.ErrGoalReference) {
		t.Errorf("UpdateTask orphan err = %v, want ErrGoalReference", err)
	}
	name := "Renamed"
	if _, err := c.UpdateTask(ctx, missing, calendar.TaskPatch{Name: &name}); !errors.Is(err, calendar.ErrTaskNotFound) {
		t.Errorf("UpdateTask missing err = %v, want ErrTaskNotFound", err)
	}
	if _, err := c.GetGoal(ctx, missing); !errors.Is(err, calendar.ErrGoalNotFound) {
		t.Errorf("GetGoal missing err = %v, want ErrGoalNotFound", err)
	}

	if err := c.DeleteGoal(ctx, g.ID); err != nil {
		t.Fatalf("DeleteGoal: %v", err)
	}
	if _, err := c.GetTask(ctx, task.ID); !errors.Is(err, calendar.ErrTaskNotFound) {
		t.Errorf("GetTask after goal delete err = %v, want ErrTaskNotFound", err)
	}
	goals, err := c.ListGoals(ctx)
	if err != nil {
		t.Fatalf("ListGoals: %v", err)
	}
	if len(goals) != 0 {
		t.Errorf("goals = %+v, want none", goals)
	}
}

func TestNetworkFailureIsTransient(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	c, err := New(url, WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.ListGoals(context.Background())
	if !errors.Is(err, calendar.ErrTransient) {
		t.Errorf("err = %v, want ErrTransient", err)
	}
}

func TestResponseError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected []error
		want     error
	}{
		{"known validation", 400, `{"message":"Title cannot be empty"}`, nil, calendar.ErrEmptyTitle},
		{"free-form validation", 400, `{"message":"Invalid request body"}`, nil, calendar.ErrValidation},
		{"expected not found", 404, `{"message":"Task not found"}`, []error{calendar.ErrTaskNotFound}, calendar.ErrTaskNotFound},
		{"goal reference", 404, `{"message":"Goal not found"}`, []error{calendar.ErrTaskNotFound, calendar.ErrGoalReference}, calendar.ErrGoalReference},
		{"unexpected not found", 404, `{"message":"Cannot GET /x"}`, nil, calendar.ErrNotFound},
		{"unavailable", 503, ``, nil, calendar.ErrTransient},
		{"rate limited", 429, `{"message":"Too many requests"}`, nil, calendar.ErrTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := responseError(tt.status, []byte(tt.body), tt.expected)
			if !errors.Is(err, tt.want) {
				t.Errorf("responseError = %v, want %v", err, tt.want)
			}
		})
	}

	err := responseError(500, []byte(`{"message":"Server error"}`), nil)
	if calendar.IsValidation(err) || calendar.IsNotFound(err) || errors.Is(err, calendar.ErrTransient) {
		t.Errorf("500 mapped to a domain kind: %v", err)
	}
}
