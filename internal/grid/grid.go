// Package grid maps wall-clock time onto calendar grid coordinates for the
// day, week, month and year views. Every function is pure: none of them
// read the clock, so identical inputs always produce identical layouts.
package grid

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/dayplan/internal/dateutil"
)

// ViewMode selects the grid layout and navigation granularity.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
	ViewYear  ViewMode = "year"
)

// ErrInvalidViewMode is returned for unknown view names.
var ErrInvalidViewMode = errors.New("view must be one of day, week, month, year")

// ErrInvalidInterval is returned when an interval does not evenly divide an hour.
var ErrInvalidInterval = errors.New("slot interval must be a positive divisor of 60 minutes")

// Month and year views always render fixed-size grids.
const (
	MonthCells = 42
	YearCells  = 12
	WeekDays   = 7
)

// ParseViewMode parses a view name, case-insensitively.
func ParseViewMode(s string) (ViewMode, error) {
	m := ViewMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", ErrInvalidViewMode
	}
	return m, nil
}

// Valid returns true if the mode is one of the four views.
func (m ViewMode) Valid() bool {
	switch m {
	case ViewDay, ViewWeek, ViewMonth, ViewYear:
		return true
	default:
		return false
	}
}

// HasTimeAxis reports whether the view lays events out on time slots.
func (m ViewMode) HasTimeAxis() bool {
	return m == ViewDay || m == ViewWeek
}

// Config holds the slot interval and the vertical geometry of time views.
type Config struct {
	IntervalMinutes int
	RowHeight       float64
	MinRowHeight    float64
}

// DefaultConfig returns the 30-minute grid with 40-unit rows.
func DefaultConfig() Config {
	return Config{IntervalMinutes: 30, RowHeight: 40, MinRowHeight: 20}
}

// Validate checks that the interval evenly divides an hour.
func (c Config) Validate() error {
	if c.IntervalMinutes <= 0 || 60%c.IntervalMinutes != 0 {
		return ErrInvalidInterval
	}
	if c.RowHeight <= 0 || c.MinRowHeight < 0 {
		return fmt.Errorf("row heights must be positive: %v/%v", c.RowHeight, c.MinRowHeight)
	}
	return nil
}

// Interval returns the slot interval as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// SlotCount returns the number of slots in a day.
func (c Config) SlotCount() int {
	return 24 * 60 / c.IntervalMinutes
}

// Slot is one row of a day or week view.
type Slot struct {
	Index  int
	Hour   int
	Minute int
}

// Label formats the slot start as HH:MM.
func (s Slot) Label() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// On returns the slot's start instant on the given day.
func (s Slot) On(day time.Time) time.Time {
	return dateutil.At(day, s.Hour, s.Minute)
}

// TimeSlots returns the ordered slots spanning 00:00 to the last interval before midnight.
func (c Config) TimeSlots() []Slot {
	n := c.SlotCount()
	slots := make([]Slot, n)
	for i := range slots {
		m := i * c.IntervalMinutes
		slots[i] = Slot{Index: i, Hour: m / 60, Minute: m % 60}
	}
	return slots
}

// SlotIndex returns the slot containing t's time of day.
func (c Config) SlotIndex(t time.Time) int {
	return (t.Hour()*60 + t.Minute()) / c.IntervalMinutes
}

// Offset returns the vertical offset of t within its day.
func (c Config) Offset(t time.Time) float64 {
	minutes := float64(t.Hour()*60 + t.Minute())
	return minutes / float64(c.IntervalMinutes) * c.RowHeight
}

// Height returns the rendered height of a span. Spans shorter than an
// interval never drop below MinRowHeight.
func (c Config) Height(start, end time.Time) float64 {
	minutes := end.Sub(start).Minutes()
	h := minutes / float64(c.IntervalMinutes) * c.RowHeight
	if h < c.MinRowHeight {
		return c.MinRowHeight
	}
	return h
}

// Rows returns how many whole slots a span covers, at least one.
func (c Config) Rows(start, end time.Time) int {
	n := int(end.Sub(start) / c.Interval())
	if end.Sub(start)%c.Interval() != 0 {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Span returns the slot index where a span starts and how many slot rows it
// covers from the start of that slot. Spans that leave the day are not clipped.
func (c Config) Span(start, end time.Time) (first, rows int) {
	first = c.SlotIndex(start)
	slotStart := dateutil.TruncateToDay(start).Add(time.Duration(first) * c.Interval())
	return first, c.Rows(slotStart, end)
}

// SnapToSlot rounds t to the nearest slot boundary. Ties round up.
func (c Config) SnapToSlot(t time.Time) time.Time {
	day := dateutil.TruncateToDay(t)
	elapsed := t.Sub(day)
	interval := c.Interval()
	slots := (elapsed + interval/2) / interval
	return day.Add(slots * interval)
}

// Cell is one day of the month grid.
type Cell struct {
	Date    time.Time
	InMonth bool
}

// MonthGrid returns the 42 cells of the month view for year/month: the tail
// of the previous month, every day of the month and the head of the next
// month, starting on Sunday.
func MonthGrid(year int, month time.Month, loc *time.Location) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	cells := make([]Cell, MonthCells)
	for i := range cells {
		d := start.AddDate(0, 0, i)
		cells[i] = Cell{Date: d, InMonth: d.Month() == month && d.Year() == year}
	}
	return cells
}

// YearGrid returns the first day of each month of year.
func YearGrid(year int, loc *time.Location) []time.Time {
	months := make([]time.Time, YearCells)
	for i := range months {
		months[i] = time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, loc)
	}
	return months
}

// WeekColumns returns the Sunday-to-Saturday days of the week containing ref.
func WeekColumns(ref time.Time) []time.Time {
	sunday, _ := dateutil.WeekRange(ref)
	days := make([]time.Time, WeekDays)
	for i := range days {
		days[i] = sunday.AddDate(0, 0, i)
	}
	return days
}

// Columns returns the day columns of a time view.
func Columns(mode ViewMode, ref time.Time) []time.Time {
	if mode == ViewWeek {
		return WeekColumns(ref)
	}
	return []time.Time{dateutil.TruncateToDay(ref)}
}

// Title returns the header for a view anchored at ref.
func Title(mode ViewMode, ref time.Time) string {
	switch mode {
	case ViewDay:
		return dateutil.FormatDate(ref)
	case ViewWeek:
		sunday, saturday := dateutil.WeekRange(ref)
		return dateutil.FormatDate(sunday) + " to " + dateutil.FormatDate(saturday)
	case ViewMonth:
		return fmt.Sprintf("%s %d", ref.Month(), ref.Year())
	case ViewYear:
		return fmt.Sprintf("%d", ref.Year())
	default:
		return ""
	}
}
