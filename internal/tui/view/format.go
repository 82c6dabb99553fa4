package view

import (
	"fmt"
	"time"

	"github.com/javiermolinar/dayplan/internal/dateutil"
)

// FormatDuration formats a duration as "Xh Ym".
func FormatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

// FormatRange formats a time range as "HH:MM-HH:MM".
func FormatRange(start, end time.Time) string {
	return dateutil.FormatClock(start) + "-" + dateutil.FormatClock(end)
}
