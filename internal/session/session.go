// Package session holds the client-side application state: the loaded
// events, goals and tasks, the selected goal and the notice stack.
//
// Mutations that are sent to the repository asynchronously are applied
// locally first. Each returns a Compensation that restores the prior state
// if the request fails.
package session

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/javiermolinar/dayplan/internal/calendar"
)

// NoticeTTL is how long a notice stays visible.
const NoticeTTL = 5 * time.Second

// Session is the state of one interactive client. It is not safe for
// concurrent use; a single UI loop owns it.
type Session struct {
	events       []*calendar.Event
	goals        []*calendar.Goal
	tasks        []*calendar.Task
	selectedGoal string

	notices    []Notice
	nextNotice int
	noticeTTL  time.Duration
}

// New returns an empty session.
func New() *Session {
	return &Session{noticeTTL: NoticeTTL}
}

// Events returns the loaded events ordered by start time.
func (s *Session) Events() []*calendar.Event { return s.events }

// Goals returns the loaded goals.
func (s *Session) Goals() []*calendar.Goal { return s.goals }

// Tasks returns every loaded task.
func (s *Session) Tasks() []*calendar.Task { return s.tasks }

// SetEvents replaces the loaded events.
func (s *Session) SetEvents(events []*calendar.Event) {
	s.events = append([]*calendar.Event(nil), events...)
	s.sortEvents()
}

// SetGoals replaces the loaded goals. The selection is kept when the
// selected goal still exists, otherwise the first goal is selected.
func (s *Session) SetGoals(goals []*calendar.Goal) {
	s.goals = append([]*calendar.Goal(nil), goals...)
	if s.Goal(s.selectedGoal) == nil {
		s.selectedGoal = ""
		if len(s.goals) > 0 {
			s.selectedGoal = s.goals[0].ID
		}
	}
}

// SetTasks replaces the loaded tasks.
func (s *Session) SetTasks(tasks []*calendar.Task) {
	s.tasks = append([]*calendar.Task(nil), tasks...)
}

// Event returns the loaded event with id, or nil.
func (s *Session) Event(id string) *calendar.Event {
	for _, e := range s.events {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Goal returns the loaded goal with id, or nil.
func (s *Session) Goal(id string) *calendar.Goal {
	if id == "" {
		return nil
	}
	for _, g := range s.goals {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// Task returns the loaded task with id, or nil.
func (s *Session) Task(id string) *calendar.Task {
	for _, t := range s.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// SelectGoal marks the goal new tasks are created under.
func (s *Session) SelectGoal(id string) {
	if s.Goal(id) != nil {
		s.selectedGoal = id
	}
}

// SelectedGoal returns the selected goal, or nil.
func (s *Session) SelectedGoal() *calendar.Goal {
	return s.Goal(s.selectedGoal)
}

// TasksOf returns the tasks of goalID.
func (s *Session) TasksOf(goalID string) []*calendar.Task {
	var result []*calendar.Task
	for _, t := range s.tasks {
		if t.GoalID == goalID {
			result = append(result, t)
		}
	}
	return result
}

// PutEvent inserts or replaces an event with the server's version.
func (s *Session) PutEvent(e *calendar.Event) {
	for i, cur := range s.events {
		if cur.ID == e.ID {
			s.events[i] = e
			s.sortEvents()
			return
		}
	}
	s.events = append(s.events, e)
	s.sortEvents()
}

// PutGoal inserts or replaces a goal. A changed color is copied to the
// goal's loaded tasks, mirroring the server-side cascade.
func (s *Session) PutGoal(g *calendar.Goal) {
	for _, t := range s.tasks {
		if t.GoalID == g.ID {
			t.Color = g.Color
		}
	}
	for i, cur := range s.goals {
		if cur.ID == g.ID {
			s.goals[i] = g
			return
		}
	}
	s.goals = append(s.goals, g)
	if s.selectedGoal == "" {
		s.selectedGoal = g.ID
	}
}

// PutTask inserts or replaces a task.
func (s *Session) PutTask(t *calendar.Task) {
	for i, cur := range s.tasks {
		if cur.ID == t.ID {
			s.tasks[i] = t
			return
		}
	}
	s.tasks = append(s.tasks, t)
}

// RemoveEvent drops the event locally and returns the compensation that
// puts it back unchanged.
func (s *Session) RemoveEvent(id string) (*Compensation, error) {
	i := slices.IndexFunc(s.events, func(e *calendar.Event) bool { return e.ID == id })
	if i < 0 {
		return nil, calendar.ErrEventNotFound
	}
	backup := s.events[i].Clone()
	s.events = slices.Delete(s.events, i, i+1)
	return newCompensation(fmt.Sprintf("delete event %q", backup.Title), func() {
		s.PutEvent(backup)
	}), nil
}

// RemoveGoal drops the goal and its tasks locally.
func (s *Session) RemoveGoal(id string) (*Compensation, error) {
	i := slices.IndexFunc(s.goals, func(g *calendar.Goal) bool { return g.ID == id })
	if i < 0 {
		return nil, calendar.ErrGoalNotFound
	}
	goal := *s.goals[i]
	var tasks []calendar.Task
	for _, t := range s.tasks {
		if t.GoalID == id {
			tasks = append(tasks, *t)
		}
	}

	s.goals = slices.Delete(s.goals, i, i+1)
	s.tasks = slices.DeleteFunc(s.tasks, func(t *calendar.Task) bool { return t.GoalID == id })
	prevSelected := s.selectedGoal
	if s.selectedGoal == id {
		s.selectedGoal = ""
		if len(s.goals) > 0 {
			s.selectedGoal = s.goals[0].ID
		}
	}

	return newCompensation(fmt.Sprintf("delete goal %q", goal.Name), func() {
		g := goal
		s.goals = slices.Insert(s.goals, min(i, len(s.goals)), &g)
		for _, t := range tasks {
			s.tasks = append(s.tasks, &t)
		}
		s.selectedGoal = prevSelected
	}), nil
}

// RemoveTask drops the task locally.
func (s *Session) RemoveTask(id string) (*Compensation, error) {
	i := slices.IndexFunc(s.tasks, func(t *calendar.Task) bool { return t.ID == id })
	if i < 0 {
		return nil, calendar.ErrTaskNotFound
	}
	backup := *s.tasks[i]
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return newCompensation(fmt.Sprintf("delete task %q", backup.Name), func() {
		t := backup
		s.tasks = slices.Insert(s.tasks, min(i, len(s.tasks)), &t)
	}), nil
}

// ReplaceEvent applies next locally, keeping the previous version for
// rollback. Used for optimistic moves and expand toggles.
func (s *Session) ReplaceEvent(next *calendar.Event) (*Compensation, error) {
	prev := s.Event(next.ID)
	if prev == nil {
		return nil, calendar.ErrEventNotFound
	}
	backup := prev.Clone()
	s.PutEvent(next.Clone())
	return newCompensation(fmt.Sprintf("update event %q", backup.Title), func() {
		s.PutEvent(backup)
	}), nil
}

// DeleteEvent runs the whole optimistic delete synchronously: the event is
// removed locally, the repository is called, and on failure the event is
// restored and an error notice is posted.
func (s *Session) DeleteEvent(ctx context.Context, repo calendar.Repository, id string, now time.Time) error {
	comp, err := s.RemoveEvent(id)
	if err != nil {
		return err
	}
	if err := repo.DeleteEvent(ctx, id); err != nil {
		comp.Rollback()
		s.Notify(LevelError, fmt.Sprintf("Failed to delete event: %v", err), now)
		return fmt.Errorf("deleting event: %w", err)
	}
	comp.Commit()
	return nil
}

func (s *Session) sortEvents() {
	sort.SliceStable(s.events, func(i, j int) bool {
		return s.events[i].StartTime.Before(s.events[j].StartTime)
	})
}
