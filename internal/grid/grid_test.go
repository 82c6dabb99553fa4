package grid

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestTimeSlots(t *testing.T) {
	tests := []struct {
		interval  int
		wantCount int
		wantLast  string
	}{
		{30, 48, "23:30"},
		{15, 96, "23:45"},
		{60, 24, "23:00"},
	}

	for _, tt := range tests {
		cfg := Config{IntervalMinutes: tt.interval, RowHeight: 40, MinRowHeight: 20}
		slots := cfg.TimeSlots()
		if len(slots) != tt.wantCount {
			t.Errorf("interval %d: got %d slots, want %d", tt.interval, len(slots), tt.wantCount)
			continue
		}
		if slots[0].Label() != "00:00" {
			t.Errorf("interval %d: first slot = %s", tt.interval, slots[0].Label())
		}
		if got := slots[len(slots)-1].Label(); got != tt.wantLast {
			t.Errorf("interval %d: last slot = %s, want %s", tt.interval, got, tt.wantLast)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	for _, n := range []int{1, 5, 10, 15, 20, 30, 60} {
		cfg := DefaultConfig()
		cfg.IntervalMinutes = n
		if err := cfg.Validate(); err != nil {
			t.Errorf("interval %d: unexpected error %v", n, err)
		}
	}
	for _, n := range []int{0, -30, 7, 45, 90} {
		cfg := DefaultConfig()
		cfg.IntervalMinutes = n
		if err := cfg.Validate(); err == nil {
			t.Errorf("interval %d: expected error", n)
		}
	}
}

func TestGeometry(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name       string
		start, end time.Time
		wantOffset float64
		wantHeight float64
	}{
		{"midnight half hour", date(2024, 6, 10, 0, 0), date(2024, 6, 10, 0, 30), 0, 40},
		{"nine to ten", date(2024, 6, 10, 9, 0), date(2024, 6, 10, 10, 0), 720, 80},
		{"quarter past", date(2024, 6, 10, 9, 15), date(2024, 6, 10, 9, 45), 740, 40},
		{"short event is clamped", date(2024, 6, 10, 14, 0), date(2024, 6, 10, 14, 5), 1120, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Offset(tt.start); got != tt.wantOffset {
				t.Errorf("Offset() = %v, want %v", got, tt.wantOffset)
			}
			if got := cfg.Height(tt.start, tt.end); got != tt.wantHeight {
				t.Errorf("Height() = %v, want %v", got, tt.wantHeight)
			}
		})
	}
}

func TestRows(t *testing.T) {
	cfg := DefaultConfig()
	base := date(2024, 6, 10, 9, 0)
	tests := []struct {
		dur  time.Duration
		want int
	}{
		{5 * time.Minute, 1},
		{30 * time.Minute, 1},
		{45 * time.Minute, 2},
		{2 * time.Hour, 4},
	}
	for _, tt := range tests {
		if got := cfg.Rows(base, base.Add(tt.dur)); got != tt.want {
			t.Errorf("Rows(%v) = %d, want %d", tt.dur, got, tt.want)
		}
	}
}

func TestSpan(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name       string
		start, end time.Time
		first      int
		rows       int
	}{
		{"aligned half hour", date(2024, 6, 10, 9, 0), date(2024, 6, 10, 9, 30), 18, 1},
		{"aligned two hours", date(2024, 6, 10, 9, 0), date(2024, 6, 10, 11, 0), 18, 4},
		{"straddles a boundary", date(2024, 6, 10, 9, 15), date(2024, 6, 10, 9, 45), 18, 2},
		{"short inside a slot", date(2024, 6, 10, 9, 40), date(2024, 6, 10, 9, 50), 19, 1},
		{"ends at midnight", date(2024, 6, 10, 23, 0), date(2024, 6, 11, 0, 0), 46, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, rows := cfg.Span(tt.start, tt.end)
			if first != tt.first || rows != tt.rows {
				t.Errorf("Span = (%d, %d), want (%d, %d)", first, rows, tt.first, tt.rows)
			}
		})
	}
}

func TestSnapToSlot(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		in, want time.Time
	}{
		{date(2024, 6, 10, 9, 0), date(2024, 6, 10, 9, 0)},
		{date(2024, 6, 10, 9, 14), date(2024, 6, 10, 9, 0)},
		{date(2024, 6, 10, 9, 15), date(2024, 6, 10, 9, 30)},
		{date(2024, 6, 10, 9, 44), date(2024, 6, 10, 9, 30)},
		{date(2024, 6, 10, 23, 50), date(2024, 6, 11, 0, 0)},
	}
	for _, tt := range tests {
		if got := cfg.SnapToSlot(tt.in); !got.Equal(tt.want) {
			t.Errorf("SnapToSlot(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMonthGrid(t *testing.T) {
	// Every month of a leap year and a non-leap year yields 42 cells.
	for _, year := range []int{2023, 2024, 2100} {
		for m := time.January; m <= time.December; m++ {
			cells := MonthGrid(year, m, time.UTC)
			if len(cells) != MonthCells {
				t.Fatalf("%d-%02d: got %d cells", year, m, len(cells))
			}
			if cells[0].Date.Weekday() != time.Sunday {
				t.Errorf("%d-%02d: grid starts on %v", year, m, cells[0].Date.Weekday())
			}
			inMonth := 0
			for i, c := range cells {
				if c.InMonth {
					inMonth++
				}
				if i > 0 && !c.Date.Equal(cells[i-1].Date.AddDate(0, 0, 1)) {
					t.Fatalf("%d-%02d: cells are not consecutive at %d", year, m, i)
				}
			}
			if want := time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day(); inMonth != want {
				t.Errorf("%d-%02d: %d in-month cells, want %d", year, m, inMonth, want)
			}
		}
	}

	t.Run("february 2015 starts on sunday", func(t *testing.T) {
		cells := MonthGrid(2015, time.February, time.UTC)
		if !cells[0].InMonth || cells[0].Date.Day() != 1 {
			t.Errorf("first cell = %v, want Feb 1 in month", cells[0].Date)
		}
		if cells[28].InMonth {
			t.Error("cell 28 should be March 1")
		}
	})
}

func TestYearGrid(t *testing.T) {
	months := YearGrid(2024, time.UTC)
	if len(months) != YearCells {
		t.Fatalf("got %d cells, want %d", len(months), YearCells)
	}
	for i, m := range months {
		if m.Month() != time.Month(i+1) || m.Day() != 1 {
			t.Errorf("cell %d = %v", i, m)
		}
	}
}

func TestWeekColumns(t *testing.T) {
	days := WeekColumns(date(2024, 6, 12, 15, 0)) // Wednesday
	if len(days) != 7 {
		t.Fatalf("got %d days", len(days))
	}
	if !days[0].Equal(date(2024, 6, 9, 0, 0)) || !days[6].Equal(date(2024, 6, 15, 0, 0)) {
		t.Errorf("week = %v..%v, want 2024-06-09..2024-06-15", days[0], days[6])
	}
}

func TestTitle(t *testing.T) {
	ref := date(2024, 6, 12, 15, 0)
	tests := []struct {
		mode ViewMode
		want string
	}{
		{ViewDay, "2024-06-12"},
		{ViewWeek, "2024-06-09 to 2024-06-15"},
		{ViewMonth, "June 2024"},
		{ViewYear, "2024"},
	}
	for _, tt := range tests {
		if got := Title(tt.mode, ref); got != tt.want {
			t.Errorf("Title(%s) = %q, want %q", tt.mode, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	cfg := DefaultConfig()
	day := date(2024, 6, 10, 0, 0)

	tests := []struct {
		name   string
		target Target
		want   time.Time
	}{
		{"week slot", SlotTarget(ViewWeek, day, 19), date(2024, 6, 10, 9, 30)},
		{"day first slot", SlotTarget(ViewDay, day, 0), date(2024, 6, 10, 0, 0)},
		{"slot clamped", SlotTarget(ViewDay, day, 100), date(2024, 6, 10, 23, 30)},
		{"month cell defaults", DayTarget(day), date(2024, 6, 10, 9, 0)},
		{"time view without slot defaults", Target{Mode: ViewWeek, Date: day}, date(2024, 6, 10, 9, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Resolve(tt.target, DefaultDropHour); !got.Equal(tt.want) {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}

	// Resolve inverts SlotIndex on slot boundaries.
	for _, s := range cfg.TimeSlots() {
		at := s.On(day)
		if got := cfg.Resolve(SlotTarget(ViewDay, day, cfg.SlotIndex(at)), DefaultDropHour); !got.Equal(at) {
			t.Fatalf("slot %s: round trip = %v", s.Label(), got)
		}
	}
}

func TestParseViewMode(t *testing.T) {
	if m, err := ParseViewMode(" Month "); err != nil || m != ViewMonth {
		t.Errorf("ParseViewMode = %q, %v", m, err)
	}
	if _, err := ParseViewMode("decade"); err != ErrInvalidViewMode {
		t.Errorf("expected ErrInvalidViewMode, got %v", err)
	}
}
