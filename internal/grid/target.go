package grid

import (
	"time"

	"github.com/javiermolinar/dayplan/internal/dateutil"
)

// DefaultDropHour is used for drops onto cells that carry no time of day.
const DefaultDropHour = 9

// Target identifies a drop cell. Slot is meaningful only when HasTime is set,
// which day and week views always do.
type Target struct {
	Mode    ViewMode
	Date    time.Time
	Slot    int
	HasTime bool
}

// SlotTarget builds a target on a time view.
func SlotTarget(mode ViewMode, day time.Time, slot int) Target {
	return Target{Mode: mode, Date: dateutil.TruncateToDay(day), Slot: slot, HasTime: true}
}

// DayTarget builds a target on a month cell.
func DayTarget(day time.Time) Target {
	return Target{Mode: ViewMonth, Date: dateutil.TruncateToDay(day)}
}

// Resolve maps a cell back to the instant it represents. Cells without a
// time resolve to defaultHour:00; out-of-range slots are clamped to the day.
func (c Config) Resolve(t Target, defaultHour int) time.Time {
	if !t.HasTime || !t.Mode.HasTimeAxis() {
		if defaultHour < 0 || defaultHour > 23 {
			defaultHour = DefaultDropHour
		}
		return dateutil.At(t.Date, defaultHour, 0)
	}
	slot := t.Slot
	if slot < 0 {
		slot = 0
	}
	if n := c.SlotCount(); slot >= n {
		slot = n - 1
	}
	m := slot * c.IntervalMinutes
	return dateutil.At(t.Date, m/60, m%60)
}
