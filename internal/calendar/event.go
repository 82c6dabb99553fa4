package calendar

import (
	"strings"
	"time"

	"github.com/javiermolinar/dayplan/internal/dateutil"
)

// Event is a scheduled, time-bounded calendar entry.
type Event struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Category   Category  `json:"category"`
	Date       time.Time `json:"date"` // midnight of the day the event belongs to
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Color      string    `json:"color,omitempty"` // optional override of the category color
	IsExpanded bool      `json:"isExpanded"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// NewEvent creates a new Event with validation.
// date is normalized to midnight of its own calendar day.
func NewEvent(title string, category Category, date, start, end time.Time) (*Event, error) {
	e := &Event{
		Title:     strings.TrimSpace(title),
		Category:  category,
		Date:      date,
		StartTime: start,
		EndTime:   end,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	e.Date = dateutil.TruncateToDay(e.Date)
	return e, nil
}

// Validate checks the event invariants.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if e.Date.IsZero() {
		return ErrMissingDate
	}
	if e.StartTime.IsZero() {
		return ErrMissingStart
	}
	if e.EndTime.IsZero() {
		return ErrMissingEnd
	}
	if !e.EndTime.After(e.StartTime) {
		return ErrEndBeforeStart
	}
	return nil
}

// Duration returns the time between start and end.
func (e *Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// DisplayColor returns the color override, falling back to the category color.
func (e *Event) DisplayColor() string {
	if e.Color != "" {
		return e.Color
	}
	return e.Category.Color()
}

// Clone returns a copy of the event.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

// EventPatch is a partial event update. Nil fields are left untouched.
type EventPatch struct {
	Title      *string    `json:"title,omitempty"`
	Category   *Category  `json:"category,omitempty"`
	Date       *time.Time `json:"date,omitempty"`
	StartTime  *time.Time `json:"startTime,omitempty"`
	EndTime    *time.Time `json:"endTime,omitempty"`
	Color      *string    `json:"color,omitempty"`
	IsExpanded *bool      `json:"isExpanded,omitempty"`
}

// IsEmpty returns true if the patch changes nothing.
func (p EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Category == nil && p.Date == nil &&
		p.StartTime == nil && p.EndTime == nil && p.Color == nil && p.IsExpanded == nil
}

// Apply merges the patch into e and validates the result.
// On error e is left unchanged.
func (p EventPatch) Apply(e *Event) error {
	next := *e
	if p.Title != nil {
		next.Title = strings.TrimSpace(*p.Title)
	}
	if p.Category != nil {
		next.Category = *p.Category
	}
	if p.Date != nil {
		next.Date = dateutil.TruncateToDay(*p.Date)
	}
	if p.StartTime != nil {
		next.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		next.EndTime = *p.EndTime
	}
	if p.Color != nil {
		next.Color = *p.Color
	}
	if p.IsExpanded != nil {
		next.IsExpanded = *p.IsExpanded
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*e = next
	return nil
}

// Reschedule builds the patch that moves an event to a new time range.
func Reschedule(start, end time.Time) EventPatch {
	date := dateutil.TruncateToDay(start)
	return EventPatch{Date: &date, StartTime: &start, EndTime: &end}
}

// ToggleExpanded builds the patch that flips the expanded flag.
func ToggleExpanded(e *Event) EventPatch {
	v := !e.IsExpanded
	return EventPatch{IsExpanded: &v}
}
