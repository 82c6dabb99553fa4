// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/scheduler"
	"github.com/javiermolinar/dayplan/internal/session"
)

// EventsLoadedMsg is sent when events are loaded. Range is the query that
// produced them; nil means the unfiltered listing.
type EventsLoadedMsg struct {
	Range  *dateutil.DateRange
	Events []*calendar.Event
}

// GoalsLoadedMsg is sent when goals and their tasks are loaded.
type GoalsLoadedMsg struct {
	Goals []*calendar.Goal
	Tasks []*calendar.Task
}

// EventResultMsg reports the outcome of an event create or update.
// Comp is set when the change was already applied locally.
type EventResultMsg struct {
	Event *calendar.Event
	Comp  *session.Compensation
	Verb  string
	Err   error
}

// GoalResultMsg reports the outcome of a goal create or update.
type GoalResultMsg struct {
	Goal *calendar.Goal
	Verb string
	Err  error
}

// TaskResultMsg reports the outcome of a task create or update.
type TaskResultMsg struct {
	Task *calendar.Task
	Verb string
	Err  error
}

// DeleteResultMsg reports the outcome of an optimistic delete.
type DeleteResultMsg struct {
	Comp *session.Compensation
	Err  error
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ExpireNoticesMsg is sent when the oldest notice may have expired.
type ExpireNoticesMsg struct{}

// LoadEvents loads events in r, or the capped unfiltered listing when r is nil.
func LoadEvents(repo calendar.Repository, r *dateutil.DateRange) tea.Cmd {
	return func() tea.Msg {
		events, err := repo.ListEvents(context.Background(), r)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading events: %w", err)}
		}
		return EventsLoadedMsg{Range: r, Events: events}
	}
}

// LoadGoals loads every goal and every task.
func LoadGoals(repo calendar.Repository) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		goals, err := repo.ListGoals(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading goals: %w", err)}
		}
		tasks, err := repo.ListTasks(ctx, "")
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading tasks: %w", err)}
		}
		return GoalsLoadedMsg{Goals: goals, Tasks: tasks}
	}
}

// CreateEvent stores a new event.
func CreateEvent(repo calendar.Repository, e *calendar.Event) tea.Cmd {
	return func() tea.Msg {
		created := e.Clone()
		if err := repo.CreateEvent(context.Background(), created); err != nil {
			return EventResultMsg{Verb: "Created", Err: fmt.Errorf("creating event: %w", err)}
		}
		return EventResultMsg{Event: created, Verb: "Created"}
	}
}

// UpdateEvent applies patch to the stored event.
func UpdateEvent(repo calendar.Repository, id string, patch calendar.EventPatch, comp *session.Compensation, verb string) tea.Cmd {
	return func() tea.Msg {
		e, err := repo.UpdateEvent(context.Background(), id, patch)
		if err != nil {
			return EventResultMsg{Comp: comp, Verb: verb, Err: fmt.Errorf("updating event: %w", err)}
		}
		return EventResultMsg{Event: e, Comp: comp, Verb: verb}
	}
}

// IssueDrop runs the persistence request decided by a drop.
func IssueDrop(repo calendar.Repository, req scheduler.Request, comp *session.Compensation) tea.Cmd {
	verb := "Moved"
	if req.Kind == scheduler.CreateEvent {
		verb = "Scheduled"
	}
	return func() tea.Msg {
		e, err := req.Issue(context.Background(), repo)
		return EventResultMsg{Event: e, Comp: comp, Verb: verb, Err: err}
	}
}

// DeleteEvent deletes an event that was already removed locally.
func DeleteEvent(repo calendar.Repository, id string, comp *session.Compensation) tea.Cmd {
	return func() tea.Msg {
		err := repo.DeleteEvent(context.Background(), id)
		if err != nil {
			err = fmt.Errorf("deleting event: %w", err)
		}
		return DeleteResultMsg{Comp: comp, Err: err}
	}
}

// DeleteGoal deletes a goal and its tasks, already removed locally.
func DeleteGoal(repo calendar.Repository, id string, comp *session.Compensation) tea.Cmd {
	return func() tea.Msg {
		err := repo.DeleteGoal(context.Background(), id)
		if err != nil {
			err = fmt.Errorf("deleting goal: %w", err)
		}
		return DeleteResultMsg{Comp: comp, Err: err}
	}
}

// DeleteTask deletes a task that was already removed locally.
func DeleteTask(repo calendar.Repository, id string, comp *session.Compensation) tea.Cmd {
	return func() tea.Msg {
		err := repo.DeleteTask(context.Background(), id)
		if err != nil {
			err = fmt.Errorf("deleting task: %w", err)
		}
		return DeleteResultMsg{Comp: comp, Err: err}
	}
}

// CreateGoal stores a new goal.
func CreateGoal(repo calendar.Repository, g *calendar.Goal) tea.Cmd {
	return func() tea.Msg {
		created := *g
		if err := repo.CreateGoal(context.Background(), &created); err != nil {
			return GoalResultMsg{Verb: "Created", Err: fmt.Errorf("creating goal: %w", err)}
		}
		return GoalResultMsg{Goal: &created, Verb: "Created"}
	}
}

// UpdateGoal applies patch to the stored goal.
func UpdateGoal(repo calendar.Repository, id string, patch calendar.GoalPatch) tea.Cmd {
	return func() tea.Msg {
		g, err := repo.UpdateGoal(context.Background(), id, patch)
		if err != nil {
			return GoalResultMsg{Verb: "Updated", Err: fmt.Errorf("updating goal: %w", err)}
		}
		return GoalResultMsg{Goal: g, Verb: "Updated"}
	}
}

// CreateTask stores a new task.
func CreateTask(repo calendar.Repository, t *calendar.Task) tea.Cmd {
	return func() tea.Msg {
		created := *t
		if err := repo.CreateTask(context.Background(), &created); err != nil {
			return TaskResultMsg{Verb: "Created", Err: fmt.Errorf("creating task: %w", err)}
		}
		return TaskResultMsg{Task: &created, Verb: "Created"}
	}
}

// UpdateTask applies patch to the stored task.
func UpdateTask(repo calendar.Repository, id string, patch calendar.TaskPatch) tea.Cmd {
	return func() tea.Msg {
		t, err := repo.UpdateTask(context.Background(), id, patch)
		if err != nil {
			return TaskResultMsg{Verb: "Updated", Err: fmt.Errorf("updating task: %w", err)}
		}
		return TaskResultMsg{Task: t, Verb: "Updated"}
	}
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text, label string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: "Copied " + label}
	}
}

// ExpireNotices fires once after d.
func ExpireNotices(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ExpireNoticesMsg{}
	})
}
