package calendar

import (
	"time"

	"github.com/javiermolinar/dayplan/internal/dateutil"
)

// IntervalsOverlap reports whether [start1, end1) and [start2, end2) intersect.
// Touching intervals (end1 == start2) do not overlap.
func IntervalsOverlap(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}

// FindOverlap returns the first event that conflicts with the candidate range.
// Only events whose Date falls on the candidate's calendar day are considered,
// and the event with excludeID (the one being moved) is skipped.
func FindOverlap(start, end time.Time, events []*Event, excludeID string) *Event {
	for _, e := range events {
		if e == nil {
			continue
		}
		if excludeID != "" && e.ID == excludeID {
			continue
		}
		if !dateutil.SameDay(start, e.Date) {
			continue
		}
		if IntervalsOverlap(start, end, e.StartTime, e.EndTime) {
			return e
		}
	}
	return nil
}

// Overlaps reports whether the candidate range conflicts with any same-day event.
func Overlaps(start, end time.Time, events []*Event, excludeID string) bool {
	return FindOverlap(start, end, events, excludeID) != nil
}

// EventsOnDay returns the events whose Date falls on day, in input order.
func EventsOnDay(events []*Event, day time.Time) []*Event {
	var result []*Event
	for _, e := range events {
		if e != nil && dateutil.SameDay(day, e.Date) {
			result = append(result, e)
		}
	}
	return result
}

// EventsInRange returns the events whose Date falls within r.
func EventsInRange(events []*Event, r dateutil.DateRange) []*Event {
	var result []*Event
	for _, e := range events {
		if e != nil && r.Contains(e.Date.In(r.Start.Location())) {
			result = append(result, e)
		}
	}
	return result
}
