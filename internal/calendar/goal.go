package calendar

import (
	"strings"
	"time"
)

// Goal is a named, colored grouping for tasks.
type Goal struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewGoal creates a new Goal with validation. The name is trimmed.
func NewGoal(name, color string) (*Goal, error) {
	g := &Goal{Name: strings.TrimSpace(name), Color: strings.TrimSpace(color)}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Validate checks the goal invariants.
func (g *Goal) Validate() error {
	if g.Name == "" {
		return ErrEmptyName
	}
	if g.Color == "" {
		return ErrMissingColor
	}
	return nil
}

// GoalPatch is a partial goal update.
type GoalPatch struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// ChangesColor reports whether applying the patch must cascade a color to tasks.
func (p GoalPatch) ChangesColor() bool {
	return p.Color != nil && strings.TrimSpace(*p.Color) != ""
}

// Apply merges the patch into g and validates the result.
func (p GoalPatch) Apply(g *Goal) error {
	next := *g
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Color != nil {
		next.Color = strings.TrimSpace(*p.Color)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*g = next
	return nil
}
