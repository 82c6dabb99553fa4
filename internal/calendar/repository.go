package calendar

import (
	"context"

	"github.com/javiermolinar/dayplan/internal/dateutil"
)

// DefaultListLimit caps unfiltered event listings.
const DefaultListLimit = 100

// Repository is the persistence gateway over events, goals and tasks.
// The SQLite store and the HTTP client both implement it.
type Repository interface {
	// ListEvents returns events whose date falls within r (inclusive),
	// ordered by start time. A nil range returns the latest DefaultListLimit
	// events.
	ListEvents(ctx context.Context, r *dateutil.DateRange) ([]*Event, error)

	// GetEvent retrieves an event by ID. Returns ErrEventNotFound if absent.
	GetEvent(ctx context.Context, id string) (*Event, error)

	// CreateEvent stores a new event and assigns its ID.
	// Returns ErrEndBeforeStart if the range is empty or inverted.
	CreateEvent(ctx context.Context, e *Event) error

	// UpdateEvent applies a partial update and returns the stored result.
	UpdateEvent(ctx context.Context, id string, patch EventPatch) (*Event, error)

	// DeleteEvent removes an event. No other entity is affected.
	DeleteEvent(ctx context.Context, id string) error

	// ListGoals returns all goals.
	ListGoals(ctx context.Context) ([]*Goal, error)

	// GetGoal retrieves a goal by ID. Returns ErrGoalNotFound if absent.
	GetGoal(ctx context.Context, id string) (*Goal, error)

	// CreateGoal stores a new goal and assigns its ID.
	CreateGoal(ctx context.Context, g *Goal) error

	// UpdateGoal applies a partial update. A color change cascades to every
	// task of the goal.
	UpdateGoal(ctx context.Context, id string, patch GoalPatch) (*Goal, error)

	// DeleteGoal removes a goal together with all of its tasks.
	DeleteGoal(ctx context.Context, id string) error

	// ListTasks returns all tasks, or only those of goalID when it is non-empty.
	ListTasks(ctx context.Context, goalID string) ([]*Task, error)

	// GetTask retrieves a task by ID. Returns ErrTaskNotFound if absent.
	GetTask(ctx context.Context, id string) (*Task, error)

	// CreateTask stores a new task. Returns ErrGoalReference if its goal does
	// not exist; an empty color is taken from the goal.
	CreateTask(ctx context.Context, t *Task) error

	// UpdateTask applies a partial update, re-validating the goal reference
	// when the goal changes.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (*Task, error)

	// DeleteTask removes a single task.
	DeleteTask(ctx context.Context, id string) error

	// Close releases any resources held by the repository.
	Close() error
}
