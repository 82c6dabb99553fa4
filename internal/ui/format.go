package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
)

// FormatDuration formats a duration as hours and minutes, e.g. "1h30m".
func FormatDuration(d time.Duration) string {
	minutes := int(d / time.Minute)
	if minutes <= 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// formatRange renders "HH:MM-HH:MM".
func formatRange(start, end time.Time) string {
	return dateutil.FormatClock(start) + "-" + dateutil.FormatClock(end)
}

// PrintEventRow prints one event line: id, times, category, title and duration.
func PrintEventRow(w io.Writer, e *calendar.Event, maxTitleWidth int) {
	title := e.Title
	if maxTitleWidth > 0 {
		title = ansi.Truncate(title, maxTitleWidth, "…")
	}
	fmt.Fprintf(w, "  %s  %s  %s  %s  %s\n",
		formatID(e.ID),
		formatRange(e.StartTime, e.EndTime),
		categoryColor(e.Category).Sprintf("%-8s", e.Category.Label()),
		title,
		formatMuted(FormatDuration(e.Duration())),
	)
}

// PrintEventsByDay prints events grouped under a header per day.
func PrintEventsByDay(w io.Writer, events []*calendar.Event, today time.Time) {
	maxTitle := maxTitleWidth()
	var current time.Time
	for i, e := range events {
		if i == 0 || !dateutil.SameDay(e.Date, current) {
			if i > 0 {
				fmt.Fprintln(w)
			}
			header := e.Date.Format("Mon Jan 2, 2006")
			if dateutil.SameDay(e.Date, today) {
				fmt.Fprintf(w, "%s %s\n", formatToday(header), formatMuted("(today)"))
			} else {
				fmt.Fprintln(w, formatHeader(header))
			}
			current = e.Date
		}
		PrintEventRow(w, e, maxTitle)
	}
}

// maxTitleWidth leaves room for the columns around the title.
func maxTitleWidth() int {
	// id, times and category columns plus the duration
	const overhead = 72
	if available := termWidth() - overhead; available > 20 {
		return available
	}
	return 20
}

// summarize reports the event count and total scheduled time.
func summarize(events []*calendar.Event) string {
	var total time.Duration
	for _, e := range events {
		total += e.Duration()
	}
	return fmt.Sprintf("%s, %s scheduled", countNoun(len(events), "event"), FormatDuration(total))
}

// countNoun renders "no events", "1 event" or "3 events".
func countNoun(n int, noun string) string {
	switch n {
	case 0:
		return "no " + noun + "s"
	case 1:
		return "1 " + noun
	default:
		return fmt.Sprintf("%d %ss", n, noun)
	}
}
