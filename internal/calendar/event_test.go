package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	date := time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC)
	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		title    string
		category Category
		date     time.Time
		start    time.Time
		end      time.Time
		wantErr  error
	}{
		{"valid", "Standup", CategoryWork, date, start, end, nil},
		{"empty title", "  ", CategoryWork, date, start, end, ErrEmptyTitle},
		{"bad category", "Standup", Category("chores"), date, start, end, ErrInvalidCategory},
		{"missing date", "Standup", CategoryWork, time.Time{}, start, end, ErrMissingDate},
		{"end equals start", "Standup", CategoryWork, date, start, start, ErrEndBeforeStart},
		{"end before start", "Standup", CategoryWork, date, end, start, ErrEndBeforeStart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEvent(tt.title, tt.category, tt.date, tt.start, tt.end)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if !IsValidation(err) {
					t.Errorf("expected a validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			want := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
			if !e.Date.Equal(want) {
				t.Errorf("Date = %v, want midnight %v", e.Date, want)
			}
			if e.Duration() != 30*time.Minute {
				t.Errorf("Duration = %v, want 30m", e.Duration())
			}
		})
	}
}

func TestEventPatch_Apply(t *testing.T) {
	base := func() *Event {
		return makeEvent("a", 10, 9, 0, 10, 0)
	}

	t.Run("reschedule moves date and times", func(t *testing.T) {
		e := base()
		start := at(11, 13, 0)
		if err := Reschedule(start, start.Add(time.Hour)).Apply(e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !e.Date.Equal(at(11, 0, 0)) {
			t.Errorf("Date = %v, want %v", e.Date, at(11, 0, 0))
		}
		if !e.StartTime.Equal(start) {
			t.Errorf("StartTime = %v, want %v", e.StartTime, start)
		}
	})

	t.Run("inverted range is rejected and event unchanged", func(t *testing.T) {
		e := base()
		end := at(10, 8, 0)
		err := EventPatch{EndTime: &end}.Apply(e)
		if !errors.Is(err, ErrEndBeforeStart) {
			t.Fatalf("error = %v, want %v", err, ErrEndBeforeStart)
		}
		if !e.EndTime.Equal(at(10, 10, 0)) {
			t.Errorf("EndTime changed to %v", e.EndTime)
		}
	})

	t.Run("toggle expanded", func(t *testing.T) {
		e := base()
		if err := ToggleExpanded(e).Apply(e); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !e.IsExpanded {
			t.Error("expected expanded")
		}
	})

	t.Run("empty patch", func(t *testing.T) {
		if !(EventPatch{}).IsEmpty() {
			t.Error("expected empty patch")
		}
	})
}

func TestEvent_DisplayColor(t *testing.T) {
	e := &Event{Category: CategoryEating}
	if got := e.DisplayColor(); got != "#74b9ff" {
		t.Errorf("DisplayColor() = %q, want category color", got)
	}
	e.Color = "#123456"
	if got := e.DisplayColor(); got != "#123456" {
		t.Errorf("DisplayColor() = %q, want override", got)
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %q, %v", c, got, err)
		}
		if c.Color() == FallbackColor {
			t.Errorf("category %q has no color", c)
		}
	}
	if got, _ := ParseCategory(" Work "); got != CategoryWork {
		t.Errorf("ParseCategory is not lenient about case and spaces: %q", got)
	}
	if _, err := ParseCategory("chores"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
	if Category("chores").Color() != FallbackColor {
		t.Error("unknown category must use the fallback color")
	}
}

func TestErrorKinds(t *testing.T) {
	if !IsNotFound(ErrEventNotFound) || !IsNotFound(ErrGoalNotFound) || !IsNotFound(ErrTaskNotFound) {
		t.Error("lookup errors must match ErrNotFound")
	}
	if IsNotFound(ErrGoalReference) {
		t.Error("ErrGoalReference is its own kind")
	}
	if !IsValidation(Validation("bad input")) {
		t.Error("Validation() must match ErrValidation")
	}
}
