// Package calendartest provides an in-memory calendar.Repository for tests.
package calendartest

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
)

// Memory is a calendar.Repository that keeps everything in maps.
// It applies the same cascades as the SQLite store.
type Memory struct {
	mu     sync.Mutex
	seq    int
	events map[string]*calendar.Event
	goals  map[string]*calendar.Goal
	tasks  map[string]*calendar.Task
	err    error
	calls  []string
	now    func() time.Time
}

// NewMemory returns an empty repository.
func NewMemory() *Memory {
	return &Memory{
		events: make(map[string]*calendar.Event),
		goals:  make(map[string]*calendar.Goal),
		tasks:  make(map[string]*calendar.Task),
		now:    time.Now,
	}
}

// Fail makes every subsequent call return err until Fail(nil).
func (m *Memory) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the names of the repository methods invoked so far.
func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *Memory) enter(name string) error {
	m.calls = append(m.calls, name)
	return m.err
}

func (m *Memory) nextID() string {
	m.seq++
	return strconv.Itoa(m.seq)
}

// ListEvents implements calendar.Repository.
func (m *Memory) ListEvents(ctx context.Context, r *dateutil.DateRange) ([]*calendar.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListEvents"); err != nil {
		return nil, err
	}
	var result []*calendar.Event
	for _, e := range m.events {
		if r != nil && !r.Contains(e.Date.In(r.Start.Location())) {
			continue
		}
		result = append(result, e.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	if r == nil && len(result) > calendar.DefaultListLimit {
		result = result[len(result)-calendar.DefaultListLimit:]
	}
	return result, nil
}

// GetEvent implements calendar.Repository.
func (m *Memory) GetEvent(ctx context.Context, id string) (*calendar.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetEvent"); err != nil {
		return nil, err
	}
	e, ok := m.events[id]
	if !ok {
		return nil, calendar.ErrEventNotFound
	}
	return e.Clone(), nil
}

// CreateEvent implements calendar.Repository.
func (m *Memory) CreateEvent(ctx context.Context, e *calendar.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateEvent"); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	e.ID = m.nextID()
	e.Date = dateutil.TruncateToDay(e.Date)
	e.CreatedAt = m.now()
	e.UpdatedAt = e.CreatedAt
	m.events[e.ID] = e.Clone()
	return nil
}

// UpdateEvent implements calendar.Repository.
func (m *Memory) UpdateEvent(ctx context.Context, id string, patch calendar.EventPatch) (*calendar.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateEvent"); err != nil {
		return nil, err
	}
	e, ok := m.events[id]
	if !ok {
		return nil, calendar.ErrEventNotFound
	}
	next := e.Clone()
	if err := patch.Apply(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = m.now()
	m.events[id] = next
	return next.Clone(), nil
}

// DeleteEvent implements calendar.Repository.
func (m *Memory) DeleteEvent(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteEvent"); err != nil {
		return err
	}
	if _, ok := m.events[id]; !ok {
		return calendar.ErrEventNotFound
	}
	delete(m.events, id)
	return nil
}

// ListGoals implements calendar.Repository.
func (m *Memory) ListGoals(ctx context.Context) ([]*calendar.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListGoals"); err != nil {
		return nil, err
	}
	result := make([]*calendar.Goal, 0, len(m.goals))
	for _, g := range m.goals {
		c := *g
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return byID(result[i].ID, result[j].ID) })
	return result, nil
}

// GetGoal implements calendar.Repository.
func (m *Memory) GetGoal(ctx context.Context, id string) (*calendar.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetGoal"); err != nil {
		return nil, err
	}
	g, ok := m.goals[id]
	if !ok {
		return nil, calendar.ErrGoalNotFound
	}
	c := *g
	return &c, nil
}

// CreateGoal implements calendar.Repository.
func (m *Memory) CreateGoal(ctx context.Context, g *calendar.Goal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateGoal"); err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}
	g.ID = m.nextID()
	g.CreatedAt = m.now()
	g.UpdatedAt = g.CreatedAt
	c := *g
	m.goals[g.ID] = &c
	return nil
}

// UpdateGoal implements calendar.Repository.
func (m *Memory) UpdateGoal(ctx context.Context, id string, patch calendar.GoalPatch) (*calendar.Goal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateGoal"); err != nil {
		return nil, err
	}
	g, ok := m.goals[id]
	if !ok {
		return nil, calendar.ErrGoalNotFound
	}
	next := *g
	if err := patch.Apply(&next); err != nil {
		return nil, err
	}
	next.UpdatedAt = m.now()
	m.goals[id] = &next
	if patch.ChangesColor() {
		for _, t := range m.tasks {
			if t.GoalID == id {
				t.Color = next.Color
				t.UpdatedAt = next.UpdatedAt
			}
		}
	}
	c := next
	return &c, nil
}

// DeleteGoal implements calendar.Repository.
func (m *Memory) DeleteGoal(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteGoal"); err != nil {
		return err
	}
	if _, ok := m.goals[id]; !ok {
		return calendar.ErrGoalNotFound
	}
	for tid, t := range m.tasks {
		if t.GoalID == id {
			delete(m.tasks, tid)
		}
	}
	delete(m.goals, id)
	return nil
}

// ListTasks implements calendar.Repository.
func (m *Memory) ListTasks(ctx context.Context, goalID string) ([]*calendar.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("ListTasks"); err != nil {
		return nil, err
	}
	var result []*calendar.Task
	for _, t := range m.tasks {
		if goalID != "" && t.GoalID != goalID {
			continue
		}
		c := *t
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return byID(result[i].ID, result[j].ID) })
	return result, nil
}

// GetTask implements calendar.Repository.
func (m *Memory) GetTask(ctx context.Context, id string) (*calendar.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("GetTask"); err != nil {
		return nil, err
	}
	t, ok := m.tasks[id]
	if !ok {
		return nil, calendar.ErrTaskNotFound
	}
	c := *t
	return &c, nil
}

// CreateTask implements calendar.Repository.
func (m *Memory) CreateTask(ctx context.Context, t *calendar.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("CreateTask"); err != nil {
		return err
	}
	g, ok := m.goals[t.GoalID]
	if !ok {
		return calendar.ErrGoalReference
	}
	t.InheritColor(g)
	t.ID = m.nextID()
	t.CreatedAt = m.now()
	t.UpdatedAt = t.CreatedAt
	c := *t
	m.tasks[t.ID] = &c
	return nil
}

// UpdateTask implements calendar.Repository.
func (m *Memory) UpdateTask(ctx context.Context, id string, patch calendar.TaskPatch) (*calendar.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("UpdateTask"); err != nil {
		return nil, err
	}
	t, ok := m.tasks[id]
	if !ok {
		return nil, calendar.ErrTaskNotFound
	}
	var goal *calendar.Goal
	if patch.ChangesGoal() {
		g, ok := m.goals[*patch.GoalID]
		if !ok {
			return nil, calendar.ErrGoalReference
		}
		goal = g
	}
	next := *t
	if err := patch.Apply(&next, goal); err != nil {
		return nil, err
	}
	next.UpdatedAt = m.now()
	m.tasks[id] = &next
	c := next
	return &c, nil
}

// DeleteTask implements calendar.Repository.
func (m *Memory) DeleteTask(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enter("DeleteTask"); err != nil {
		return err
	}
	if _, ok := m.tasks[id]; !ok {
		return calendar.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// Close implements calendar.Repository.
func (m *Memory) Close() error { return nil }

// byID orders the sequential numeric IDs numerically.
func byID(a, b string) bool {
	ai, _ := strconv.Atoi(a)
	bi, _ := strconv.Atoi(b)
	return ai < bi
}

var _ calendar.Repository = (*Memory)(nil)
