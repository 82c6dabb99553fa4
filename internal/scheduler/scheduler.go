// Package scheduler implements drag-and-drop scheduling on the calendar grid.
//
// A Scheduler tracks a single drag gesture and decides, on drop, which
// persistence request to issue. It never performs I/O itself; callers run
// the returned Request against a calendar.Repository.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/grid"
)

// Gesture errors.
var (
	ErrDragInProgress = errors.New("a drag is already in progress")
	ErrNotDragging    = errors.New("nothing is being dragged")
	ErrNothingToDrag  = errors.New("no event or task to drag")
)

// Phase is the state of the current drag gesture.
type Phase int

const (
	Idle Phase = iota
	Dragging
	DroppedValid
	DroppedInvalid
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case DroppedValid:
		return "dropped-valid"
	case DroppedInvalid:
		return "dropped-invalid"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Policy holds the defaults applied to drops.
type Policy struct {
	DefaultDuration time.Duration
	DefaultCategory calendar.Category
	DefaultDropHour int
	// TaskDropChecksOverlap makes task drops fail on conflicts the way
	// event moves do. Off by default: task drops always create an event.
	TaskDropChecksOverlap bool
}

// DefaultPolicy returns 30-minute work events dropped at 09:00 when no time is known.
func DefaultPolicy() Policy {
	return Policy{
		DefaultDuration: 30 * time.Minute,
		DefaultCategory: calendar.CategoryWork,
		DefaultDropHour: grid.DefaultDropHour,
	}
}

// OverlapError reports the event a drop would collide with.
type OverlapError struct {
	Conflict *calendar.Event
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("cannot move event: it would overlap with %q", e.Conflict.Title)
}

func (e *OverlapError) Unwrap() error { return calendar.ErrOverlap }

// RequestKind says which repository call a Request maps to.
type RequestKind int

const (
	CreateEvent RequestKind = iota
	UpdateEvent
)

// Request is the persistence call decided by a drop.
type Request struct {
	Kind    RequestKind
	EventID string              // UpdateEvent only
	Patch   calendar.EventPatch // UpdateEvent only
	Event   *calendar.Event     // event to create, or the expected result of the update
}

// Issue runs the request against repo and returns the stored event.
func (r Request) Issue(ctx context.Context, repo calendar.Repository) (*calendar.Event, error) {
	switch r.Kind {
	case CreateEvent:
		e := r.Event.Clone()
		if err := repo.CreateEvent(ctx, e); err != nil {
			return nil, fmt.Errorf("creating event: %w", err)
		}
		return e, nil
	case UpdateEvent:
		e, err := repo.UpdateEvent(ctx, r.EventID, r.Patch)
		if err != nil {
			return nil, fmt.Errorf("moving event: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown request kind %d", r.Kind)
	}
}

// Scheduler tracks one drag gesture at a time.
type Scheduler struct {
	grid   grid.Config
	policy Policy

	phase Phase
	event *calendar.Event
	task  *calendar.Task
}

// New creates a Scheduler over the given grid and drop policy.
func New(g grid.Config, p Policy) *Scheduler {
	if p.DefaultDuration <= 0 {
		p.DefaultDuration = 30 * time.Minute
	}
	if !p.DefaultCategory.Valid() {
		p.DefaultCategory = calendar.CategoryWork
	}
	return &Scheduler{grid: g, policy: p}
}

// Phase returns the gesture state.
func (s *Scheduler) Phase() Phase { return s.phase }

// Policy returns the drop policy.
func (s *Scheduler) Policy() Policy { return s.policy }

// Grid returns the grid configuration used to resolve targets.
func (s *Scheduler) Grid() grid.Config { return s.grid }

// DraggedEvent returns the event being moved, or nil.
func (s *Scheduler) DraggedEvent() *calendar.Event { return s.event }

// DraggedTask returns the task being dropped, or nil.
func (s *Scheduler) DraggedTask() *calendar.Task { return s.task }

// Label describes what is being dragged.
func (s *Scheduler) Label() string {
	switch {
	case s.event != nil:
		return s.event.Title
	case s.task != nil:
		return s.task.Name
	default:
		return ""
	}
}

// BeginEventDrag picks up an existing event.
func (s *Scheduler) BeginEventDrag(e *calendar.Event) error {
	if e == nil {
		return ErrNothingToDrag
	}
	if s.phase == Dragging {
		return ErrDragInProgress
	}
	s.reset()
	s.event = e.Clone()
	s.phase = Dragging
	return nil
}

// BeginTaskDrag picks up a task.
func (s *Scheduler) BeginTaskDrag(t *calendar.Task) error {
	if t == nil {
		return ErrNothingToDrag
	}
	if s.phase == Dragging {
		return ErrDragInProgress
	}
	s.reset()
	c := *t
	s.task = &c
	s.phase = Dragging
	return nil
}

// Drop ends the gesture on target. events are the currently loaded events;
// only those on the target day are compared for conflicts. The phase moves
// to DroppedValid or DroppedInvalid; call Reset to return to Idle.
func (s *Scheduler) Drop(target grid.Target, events []*calendar.Event) (Request, error) {
	if s.phase != Dragging {
		return Request{}, ErrNotDragging
	}
	start := s.grid.Resolve(target, s.policy.DefaultDropHour)

	var (
		req Request
		err error
	)
	if s.event != nil {
		req, err = MoveEvent(s.event, start, events)
	} else {
		req, err = DropTask(s.task, start, s.policy, events)
	}
	if err != nil {
		s.phase = DroppedInvalid
		return Request{}, err
	}
	s.phase = DroppedValid
	return req, nil
}

// Cancel abandons the gesture.
func (s *Scheduler) Cancel() {
	s.reset()
}

// Reset returns to Idle after a drop has been handled.
func (s *Scheduler) Reset() {
	s.reset()
}

func (s *Scheduler) reset() {
	s.phase = Idle
	s.event = nil
	s.task = nil
}

// MoveEvent plans moving e to start, keeping its duration. The move is
// rejected with an *OverlapError when it collides with another event on
// the target day.
func MoveEvent(e *calendar.Event, start time.Time, events []*calendar.Event) (Request, error) {
	end := start.Add(e.Duration())
	if conflict := calendar.FindOverlap(start, end, events, e.ID); conflict != nil {
		return Request{}, &OverlapError{Conflict: conflict}
	}

	patch := calendar.Reschedule(start, end)
	moved := e.Clone()
	if err := patch.Apply(moved); err != nil {
		return Request{}, err
	}
	return Request{Kind: UpdateEvent, EventID: e.ID, Patch: patch, Event: moved}, nil
}

// DropTask plans the event materialized from t at start: titled after the
// task, in the policy's category and colored like the task.
func DropTask(t *calendar.Task, start time.Time, p Policy, events []*calendar.Event) (Request, error) {
	end := start.Add(p.DefaultDuration)
	if p.TaskDropChecksOverlap {
		if conflict := calendar.FindOverlap(start, end, events, ""); conflict != nil {
			return Request{}, &OverlapError{Conflict: conflict}
		}
	}

	e, err := calendar.NewEvent(t.Name, p.DefaultCategory, dateutil.TruncateToDay(start), start, end)
	if err != nil {
		return Request{}, err
	}
	e.Color = t.Color
	e.IsExpanded = false
	return Request{Kind: CreateEvent, Event: e}, nil
}
