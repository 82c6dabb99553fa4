package calendar

import (
	"strings"
	"time"
)

// Task is a to-do item that belongs to exactly one goal.
type Task struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	GoalID    string    `json:"goalId"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTask creates a new Task with validation.
// color may be empty; the owning goal's color is inherited at creation.
func NewTask(name, goalID, color string) (*Task, error) {
	t := &Task{
		Name:   strings.TrimSpace(name),
		GoalID: strings.TrimSpace(goalID),
		Color:  strings.TrimSpace(color),
	}
	if t.Name == "" {
		return nil, ErrEmptyName
	}
	if t.GoalID == "" {
		return nil, ErrMissingGoal
	}
	return t, nil
}

// InheritColor copies the goal's color when the task has none.
func (t *Task) InheritColor(g *Goal) {
	if t.Color == "" && g != nil {
		t.Color = g.Color
	}
}

// TaskPatch is a partial task update.
type TaskPatch struct {
	Name   *string `json:"name,omitempty"`
	GoalID *string `json:"goalId,omitempty"`
	Color  *string `json:"color,omitempty"`
}

// ChangesGoal reports whether the patch points the task at a (possibly new) goal.
func (p TaskPatch) ChangesGoal() bool {
	return p.GoalID != nil && strings.TrimSpace(*p.GoalID) != ""
}

// Apply merges the patch into t. When the goal changes and no color is
// given, the task takes the new goal's color; goal must then be non-nil.
func (p TaskPatch) Apply(t *Task, goal *Goal) error {
	next := *t
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
		if next.Name == "" {
			return ErrEmptyName
		}
	}
	if p.Color != nil {
		next.Color = strings.TrimSpace(*p.Color)
	}
	if p.ChangesGoal() {
		next.GoalID = strings.TrimSpace(*p.GoalID)
		if p.Color == nil || next.Color == "" {
			if goal == nil {
				return ErrGoalReference
			}
			next.Color = goal.Color
		}
	}
	if next.Color == "" {
		return ErrMissingColor
	}
	*t = next
	return nil
}
