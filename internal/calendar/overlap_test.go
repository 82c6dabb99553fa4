package calendar

import (
	"testing"
	"time"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 6, day, hour, minute, 0, 0, time.UTC)
}

func makeEvent(id string, day, startH, startM, endH, endM int) *Event {
	return &Event{
		ID:        id,
		Title:     "Event " + id,
		Category:  CategoryWork,
		Date:      at(day, 0, 0),
		StartTime: at(day, startH, startM),
		EndTime:   at(day, endH, endM),
	}
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name         string
		start1, end1 time.Time
		start2, end2 time.Time
		want         bool
	}{
		{"identical", at(10, 9, 0), at(10, 10, 0), at(10, 9, 0), at(10, 10, 0), true},
		{"partial start", at(10, 9, 0), at(10, 10, 0), at(10, 9, 30), at(10, 11, 0), true},
		{"contained", at(10, 9, 0), at(10, 12, 0), at(10, 10, 0), at(10, 11, 0), true},
		{"touching after", at(10, 9, 0), at(10, 10, 0), at(10, 10, 0), at(10, 11, 0), false},
		{"touching before", at(10, 10, 0), at(10, 11, 0), at(10, 9, 0), at(10, 10, 0), false},
		{"disjoint", at(10, 9, 0), at(10, 10, 0), at(10, 14, 0), at(10, 15, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IntervalsOverlap(tt.start1, tt.end1, tt.start2, tt.end2)
			if got != tt.want {
				t.Errorf("IntervalsOverlap() = %v, want %v", got, tt.want)
			}
			// Symmetric
			if back := IntervalsOverlap(tt.start2, tt.end2, tt.start1, tt.end1); back != got {
				t.Errorf("IntervalsOverlap is not symmetric: %v vs %v", got, back)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	a := makeEvent("a", 10, 9, 0, 9, 30)
	b := makeEvent("b", 10, 9, 15, 9, 45)
	other := makeEvent("c", 11, 9, 0, 10, 0)
	events := []*Event{a, b, other}

	t.Run("move onto a conflicting event is detected", func(t *testing.T) {
		// Dragging A to 09:15 keeps its 30-minute duration: 09:15-09:45.
		if !Overlaps(at(10, 9, 15), at(10, 9, 45), events, "a") {
			t.Error("expected overlap with B")
		}
	})

	t.Run("self is excluded", func(t *testing.T) {
		only := []*Event{a}
		if Overlaps(at(10, 9, 10), at(10, 9, 40), only, "a") {
			t.Error("moving an event over its own slot must not conflict")
		}
	})

	t.Run("touching intervals do not conflict", func(t *testing.T) {
		if Overlaps(at(10, 9, 45), at(10, 10, 15), events, "") {
			t.Error("expected no overlap when starting exactly at B's end")
		}
		if Overlaps(at(10, 8, 30), at(10, 9, 0), events, "") {
			t.Error("expected no overlap when ending exactly at A's start")
		}
	})

	t.Run("events on other days are ignored", func(t *testing.T) {
		if Overlaps(at(12, 9, 0), at(12, 10, 0), events, "") {
			t.Error("expected no overlap on an empty day")
		}
	})

	t.Run("first conflict is returned", func(t *testing.T) {
		got := FindOverlap(at(10, 9, 0), at(10, 10, 0), events, "")
		if got == nil || got.ID != "a" {
			t.Fatalf("FindOverlap() = %v, want a", got)
		}
	})

	t.Run("nil entries are skipped", func(t *testing.T) {
		if Overlaps(at(10, 9, 0), at(10, 10, 0), []*Event{nil}, "") {
			t.Error("expected no overlap")
		}
	})
}

func TestEventsOnDay(t *testing.T) {
	events := []*Event{
		makeEvent("a", 10, 9, 0, 10, 0),
		makeEvent("b", 11, 9, 0, 10, 0),
		makeEvent("c", 10, 14, 0, 15, 0),
	}
	got := EventsOnDay(events, at(10, 13, 0))
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("EventsOnDay() = %v, want [a c]", got)
	}
}
