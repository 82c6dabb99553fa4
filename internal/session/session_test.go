package session

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/calendar/calendartest"
)

var now = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newEvent(t *testing.T, repo *calendartest.Memory, title string, hour int) *calendar.Event {
	t.Helper()
	start := time.Date(2024, 6, 10, hour, 0, 0, 0, time.UTC)
	e, err := calendar.NewEvent(title, calendar.CategoryWork, start, start, start.Add(30*time.Minute))
	if err != nil {
		t.Fatalf("NewEvent: %v", err)
	}
	if err := repo.CreateEvent(context.Background(), e); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	return e
}

func loadedSession(t *testing.T, repo *calendartest.Memory) *Session {
	t.Helper()
	events, err := repo.ListEvents(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	s := New()
	s.SetEvents(events)
	return s
}

func TestDeleteEvent_RestoresOnFailure(t *testing.T) {
	ctx := context.Background()
	repo := calendartest.NewMemory()
	a := newEvent(t, repo, "A", 9)
	newEvent(t, repo, "B", 10)
	s := loadedSession(t, repo)
	before := s.Event(a.ID).Clone()

	comp, err := s.RemoveEvent(a.ID)
	if err != nil {
		t.Fatalf("RemoveEvent: %v", err)
	}
	if s.Event(a.ID) != nil {
		t.Fatal("event still visible after optimistic removal")
	}

	repo.Fail(fmt.Errorf("%w: offline", calendar.ErrTransient))
	if err := repo.DeleteEvent(ctx, a.ID); err == nil {
		t.Fatal("expected failure")
	}
	comp.Rollback()

	after := s.Event(a.ID)
	if after == nil {
		t.Fatal("event not restored")
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("restored event differs:\n got %+v\nwant %+v", after, before)
	}
	if len(s.Events()) != 2 || s.Events()[0].ID != a.ID {
		t.Errorf("order not restored: %v", s.Events())
	}

	// Settled compensations do nothing.
	comp.Rollback()
	if len(s.Events()) != 2 {
		t.Errorf("double rollback duplicated the event")
	}
}

func TestDeleteEvent_Saga(t *testing.T) {
	ctx := context.Background()

	t.Run("success commits", func(t *testing.T) {
		repo := calendartest.NewMemory()
		a := newEvent(t, repo, "A", 9)
		s := loadedSession(t, repo)
		if err := s.DeleteEvent(ctx, repo, a.ID, now); err != nil {
			t.Fatalf("DeleteEvent: %v", err)
		}
		if len(s.Events()) != 0 {
			t.Errorf("events = %v", s.Events())
		}
		if len(s.Notices(now)) != 0 {
			t.Errorf("unexpected notices: %v", s.Notices(now))
		}
	})

	t.Run("failure rolls back and notifies", func(t *testing.T) {
		repo := calendartest.NewMemory()
		a := newEvent(t, repo, "A", 9)
		s := loadedSession(t, repo)
		repo.Fail(calendar.ErrTransient)

		err := s.DeleteEvent(ctx, repo, a.ID, now)
		if !errors.Is(err, calendar.ErrTransient) {
			t.Fatalf("error = %v, want ErrTransient", err)
		}
		if s.Event(a.ID) == nil {
			t.Error("event not restored")
		}
		notices := s.Notices(now)
		if len(notices) != 1 || notices[0].Level != LevelError {
			t.Errorf("notices = %v", notices)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		s := New()
		if err := s.DeleteEvent(ctx, calendartest.NewMemory(), "missing", now); !errors.Is(err, calendar.ErrEventNotFound) {
			t.Errorf("error = %v", err)
		}
	})
}

func TestRemoveGoal(t *testing.T) {
	s := New()
	s.SetGoals([]*calendar.Goal{
		{ID: "g1", Name: "Fitness", Color: "#ff0000"},
		{ID: "g2", Name: "Reading", Color: "#00ff00"},
	})
	s.SetTasks([]*calendar.Task{
		{ID: "t1", Name: "Run", GoalID: "g1", Color: "#ff0000"},
		{ID: "t2", Name: "Novel", GoalID: "g2", Color: "#00ff00"},
		{ID: "t3", Name: "Swim", GoalID: "g1", Color: "#ff0000"},
	})
	if s.SelectedGoal().ID != "g1" {
		t.Fatalf("selected = %v", s.SelectedGoal())
	}

	comp, err := s.RemoveGoal("g1")
	if err != nil {
		t.Fatalf("RemoveGoal: %v", err)
	}
	if len(s.Goals()) != 1 || len(s.TasksOf("g1")) != 0 || len(s.Tasks()) != 1 {
		t.Fatalf("goals %v tasks %v", s.Goals(), s.Tasks())
	}
	if s.SelectedGoal().ID != "g2" {
		t.Errorf("selection not moved: %v", s.SelectedGoal())
	}

	comp.Rollback()
	if len(s.Goals()) != 2 || s.Goals()[0].ID != "g1" || len(s.TasksOf("g1")) != 2 {
		t.Errorf("rollback: goals %v tasks %v", s.Goals(), s.Tasks())
	}
	if s.SelectedGoal().ID != "g1" {
		t.Errorf("selection not restored: %v", s.SelectedGoal())
	}
}

func TestRemoveTask(t *testing.T) {
	s := New()
	s.SetTasks([]*calendar.Task{
		{ID: "t1", Name: "Run", GoalID: "g1"},
		{ID: "t2", Name: "Swim", GoalID: "g1"},
	})
	comp, err := s.RemoveTask("t1")
	if err != nil {
		t.Fatalf("RemoveTask: %v", err)
	}
	comp.Commit()
	comp.Rollback()
	if s.Task("t1") != nil {
		t.Error("rollback after commit restored the task")
	}
	if _, err := s.RemoveTask("t1"); !errors.Is(err, calendar.ErrTaskNotFound) {
		t.Errorf("error = %v", err)
	}
}

func TestReplaceEvent(t *testing.T) {
	repo := calendartest.NewMemory()
	a := newEvent(t, repo, "A", 9)
	s := loadedSession(t, repo)

	moved := a.Clone()
	moved.StartTime = moved.StartTime.Add(2 * time.Hour)
	moved.EndTime = moved.EndTime.Add(2 * time.Hour)
	comp, err := s.ReplaceEvent(moved)
	if err != nil {
		t.Fatalf("ReplaceEvent: %v", err)
	}
	if !s.Event(a.ID).StartTime.Equal(moved.StartTime) {
		t.Error("optimistic update not applied")
	}
	comp.Rollback()
	if !s.Event(a.ID).StartTime.Equal(a.StartTime) {
		t.Error("rollback did not restore the start time")
	}
}

func TestPutGoal_CascadesColor(t *testing.T) {
	s := New()
	s.SetGoals([]*calendar.Goal{{ID: "g1", Name: "Fitness", Color: "#ff0000"}})
	s.SetTasks([]*calendar.Task{{ID: "t1", Name: "Run", GoalID: "g1", Color: "#ff0000"}})
	s.PutGoal(&calendar.Goal{ID: "g1", Name: "Fitness", Color: "#00ff00"})
	if got := s.Task("t1").Color; got != "#00ff00" {
		t.Errorf("task color = %q", got)
	}
}

func TestNotices(t *testing.T) {
	s := New()
	first := s.Notify(LevelInfo, "Saved", now)
	s.Notify(LevelError, "Failed", now.Add(2*time.Second))

	if got := len(s.Notices(now.Add(4 * time.Second))); got != 2 {
		t.Errorf("visible at 4s = %d, want 2", got)
	}
	if got := s.Notices(now.Add(5 * time.Second)); len(got) != 1 || got[0].Text != "Failed" {
		t.Errorf("visible at 5s = %v, want only Failed", got)
	}
	s.Expire(now.Add(8 * time.Second))
	if got := len(s.Notices(now)); got != 0 {
		t.Errorf("expired notices kept: %d", got)
	}

	s.Notify(LevelInfo, "Again", now)
	s.Dismiss(first.ID)
	if got := len(s.Notices(now)); got != 1 {
		t.Errorf("dismiss of stale id changed notices: %d", got)
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{calendar.ErrOverlap, "Cannot move event: it would overlap with another event."},
		{fmt.Errorf("creating task: %w", calendar.ErrGoalReference), "Goal not found"},
		{fmt.Errorf("getting event: %w", calendar.ErrEventNotFound), "Event not found"},
		{calendar.ErrEndBeforeStart, "End time must be after start time"},
	}
	for _, tt := range tests {
		if got := Message(tt.err); got != tt.want {
			t.Errorf("Message(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
