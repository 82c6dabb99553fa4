// Package navigator tracks the active calendar view and its date range.
//
// State is a value; every transition returns a new State and never reads
// the clock, so callers pass "now" explicitly to GoToToday.
package navigator

import (
	"time"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/grid"
)

// Direction is a navigation step.
type Direction int

const (
	Prev Direction = -1
	Next Direction = 1
)

// State is the navigator's view of the calendar.
type State struct {
	Mode      grid.ViewMode
	Reference time.Time
	Range     dateutil.DateRange
}

// New returns the state for mode anchored at ref.
func New(mode grid.ViewMode, ref time.Time) State {
	if !mode.Valid() {
		mode = grid.ViewWeek
	}
	s := State{Mode: mode, Reference: dateutil.TruncateToDay(ref)}
	s.Range = visibleRange(s.Mode, s.Reference)
	return s
}

// SetViewMode switches the view, keeping the reference date.
func (s State) SetViewMode(mode grid.ViewMode) State {
	if !mode.Valid() {
		return s
	}
	s.Mode = mode
	s.Range = visibleRange(mode, s.Reference)
	return s
}

// Navigate shifts the view by one unit of its mode. Week steps move the
// reference to the start of the new week.
func (s State) Navigate(dir Direction) State {
	n := int(dir)
	switch s.Mode {
	case grid.ViewDay:
		s.Reference = s.Reference.AddDate(0, 0, n)
	case grid.ViewWeek:
		sunday, _ := dateutil.WeekRange(s.Reference)
		s.Reference = sunday.AddDate(0, 0, 7*n)
	case grid.ViewMonth:
		s.Reference = dateutil.AddMonths(s.Reference, n)
	case grid.ViewYear:
		s.Reference = dateutil.AddMonths(s.Reference, 12*n)
	}
	s.Range = visibleRange(s.Mode, s.Reference)
	return s
}

// GoToToday resets the reference to now, keeping the view mode.
func (s State) GoToToday(now time.Time) State {
	s.Reference = dateutil.TruncateToDay(now)
	s.Range = visibleRange(s.Mode, s.Reference)
	return s
}

// ZoomTo switches to the month view of day, as selecting a year cell does.
func (s State) ZoomTo(mode grid.ViewMode, day time.Time) State {
	s.Reference = dateutil.TruncateToDay(day)
	return s.SetViewMode(mode)
}

// Title returns the header for the current view.
func (s State) Title() string {
	return grid.Title(s.Mode, s.Reference)
}

// Query returns the range to request from the repository. Day and week
// views fetch their exact range; month and year views fetch unscoped and
// filter locally with Visible.
func (s State) Query() *dateutil.DateRange {
	if s.Mode.HasTimeAxis() {
		r := s.Range
		return &r
	}
	return nil
}

// Visible filters fetched events down to the current range.
func (s State) Visible(events []*calendar.Event) []*calendar.Event {
	return calendar.EventsInRange(events, s.Range)
}

func visibleRange(mode grid.ViewMode, ref time.Time) dateutil.DateRange {
	switch mode {
	case grid.ViewWeek:
		sunday, saturday := dateutil.WeekRange(ref)
		return dateutil.DateRange{Start: sunday, End: saturday}
	case grid.ViewMonth:
		first, last := dateutil.MonthRange(ref)
		return dateutil.DateRange{Start: first, End: last}
	case grid.ViewYear:
		first, last := dateutil.YearRange(ref)
		return dateutil.DateRange{Start: first, End: last}
	default:
		day := dateutil.TruncateToDay(ref)
		return dateutil.DateRange{Start: day, End: day}
	}
}
