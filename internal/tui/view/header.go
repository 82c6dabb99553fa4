package view

import (
	"time"

	"github.com/javiermolinar/dayplan/internal/dateutil"
)

// ColumnLabels builds the headers of a time grid: the time column followed
// by one label per day. todayCols marks the column showing today.
func ColumnLabels(days []time.Time, today time.Time) ([]string, map[int]bool) {
	labels := make([]string, 0, len(days)+1)
	todayCols := make(map[int]bool)

	labels = append(labels, "")
	for i, day := range days {
		label := day.Format("Mon 2")
		if dateutil.SameDay(day, today) {
			label = "*" + label + "*"
			todayCols[i+1] = true
		}
		labels = append(labels, label)
	}
	return labels, todayCols
}

// WeekdayLabels returns the Sunday-first weekday headers of the month grid.
func WeekdayLabels() []string {
	labels := make([]string, 7)
	for i := range labels {
		labels[i] = time.Weekday(i).String()[:3]
	}
	return labels
}
