package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/grid"
	"github.com/javiermolinar/dayplan/internal/navigator"
)

// Time views always show at least the working day.
const (
	workdayStartHour = 8
	workdayEndHour   = 18
)

func (a *App) gridCmd() *cobra.Command {
	var (
		view    string
		date    string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the calendar grid for a view",
		Long: `Print the day, week, month or year grid containing a date.

Day and week views list the slots from 08:00 to 18:00, extended to cover
every event. Month views show the 6-week grid with event counts and year
views the event count of each month.`,
		Example: `  dayplan grid
  dayplan grid --view month
  dayplan grid --view day --date 2025-01-15`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			mode := a.config.UI.ViewMode()
			if view != "" {
				var err error
				if mode, err = grid.ParseViewMode(view); err != nil {
					return err
				}
			}
			day, err := a.parseDay(date)
			if err != nil {
				return err
			}
			nav := navigator.New(mode, day)

			repo, err := a.repository()
			if err != nil {
				return err
			}
			events, err := repo.ListEvents(cmd.Context(), nav.Query())
			if err != nil {
				return fmt.Errorf("listing events: %w", err)
			}

			p := gridPrinter{
				w:      cmd.OutOrStdout(),
				grid:   a.config.Calendar.GridConfig(),
				today:  a.now(),
				width:  termWidth(),
				events: nav.Visible(events),
			}
			p.print(nav)
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", "", "View: day, week, month or year (default from config)")
	cmd.Flags().StringVar(&date, "date", "", "Any date in the view (YYYY-MM-DD, defaults to today)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")

	return cmd
}

// gridPrinter renders a navigator state as plain text.
type gridPrinter struct {
	w      io.Writer
	grid   grid.Config
	today  time.Time
	width  int
	events []*calendar.Event
}

func (p gridPrinter) print(nav navigator.State) {
	fmt.Fprintf(p.w, "\n  %s\n\n", formatHeader(nav.Title()))
	switch nav.Mode {
	case grid.ViewMonth:
		p.printMonth(nav.Reference)
	case grid.ViewYear:
		p.printYear(nav.Reference)
	default:
		p.printTime(grid.Columns(nav.Mode, nav.Reference))
	}
	fmt.Fprintf(p.w, "\n  %s\n", formatMuted(summarize(p.events)))
}

// slotSpan returns the slot rows to print: the working day plus any slot
// an event touches.
func (p gridPrinter) slotSpan() (first, last int) {
	perHour := 60 / p.grid.IntervalMinutes
	first, last = workdayStartHour*perHour, workdayEndHour*perHour
	for _, e := range p.events {
		start, rows := p.grid.Span(e.StartTime, e.EndTime)
		first = min(first, start)
		if dateutil.SameDay(e.StartTime, e.EndTime) {
			last = max(last, start+rows)
		} else {
			last = p.grid.SlotCount()
		}
	}
	return first, min(last, p.grid.SlotCount())
}

func (p gridPrinter) printTime(days []time.Time) {
	const timeColW = 7
	colW := max(8, min(28, (p.width-timeColW)/len(days)-1))

	var header strings.Builder
	header.WriteString(strings.Repeat(" ", timeColW))
	for _, day := range days {
		label := fit(day.Format("Mon 02"), colW)
		if dateutil.SameDay(day, p.today) {
			label = formatToday(label)
		} else {
			label = formatHeader(label)
		}
		header.WriteString(label + " ")
	}
	fmt.Fprintln(p.w, strings.TrimRight(header.String(), " "))

	perDay := make([][]*calendar.Event, len(days))
	for i, day := range days {
		perDay[i] = calendar.EventsOnDay(p.events, day)
	}

	slots := p.grid.TimeSlots()
	first, last := p.slotSpan()
	for _, slot := range slots[first:last] {
		var line strings.Builder
		line.WriteString(formatMuted(fit("  "+slot.Label(), timeColW)))
		for i, day := range days {
			start := slot.On(day)
			end := start.Add(p.grid.Interval())
			line.WriteString(p.timeCell(perDay[i], start, end, colW) + " ")
		}
		fmt.Fprintln(p.w, strings.TrimRight(line.String(), " "))
	}
}

// timeCell shows the title on an event's first slot and a bar on the rest.
func (p gridPrinter) timeCell(events []*calendar.Event, start, end time.Time, width int) string {
	for _, e := range events {
		if !calendar.IntervalsOverlap(start, end, e.StartTime, e.EndTime) {
			continue
		}
		text := "┃"
		if !e.StartTime.Before(start) {
			text = "┃ " + e.Title
		}
		return categoryColor(e.Category).Sprint(fit(text, width))
	}
	return formatMuted(fit("·", width))
}

func (p gridPrinter) printMonth(ref time.Time) {
	colW := max(6, min(16, (p.width-2)/grid.WeekDays-1))
	cells := grid.MonthGrid(ref.Year(), ref.Month(), ref.Location())

	var header strings.Builder
	header.WriteString("  ")
	for _, c := range cells[:grid.WeekDays] {
		header.WriteString(formatHeader(fit(c.Date.Format("Mon"), colW)) + " ")
	}
	fmt.Fprintln(p.w, strings.TrimRight(header.String(), " "))

	for wk := 0; wk < len(cells)/grid.WeekDays; wk++ {
		week := cells[wk*grid.WeekDays : (wk+1)*grid.WeekDays]
		var days, titles strings.Builder
		days.WriteString("  ")
		titles.WriteString("  ")
		for _, c := range week {
			events := calendar.EventsOnDay(p.events, c.Date)
			days.WriteString(p.monthDay(c, len(events), colW) + " ")

			title := ""
			if len(events) > 0 && c.InMonth {
				title = events[0].Title
			}
			titles.WriteString(formatMuted(fit(title, colW)) + " ")
		}
		fmt.Fprintln(p.w, strings.TrimRight(days.String(), " "))
		fmt.Fprintln(p.w, strings.TrimRight(titles.String(), " "))
	}
}

// monthDay renders "DD" followed by a dot count of the day's events.
func (p gridPrinter) monthDay(c grid.Cell, n int, width int) string {
	text := fmt.Sprintf("%2d", c.Date.Day())
	if n > 0 && c.InMonth {
		text += fmt.Sprintf(" •%d", n)
	}
	text = fit(text, width)
	switch {
	case dateutil.SameDay(c.Date, p.today):
		return formatToday(text)
	case !c.InMonth:
		return formatMuted(text)
	default:
		return text
	}
}

func (p gridPrinter) printYear(ref time.Time) {
	const perRow = 4
	colW := max(12, min(20, (p.width-2)/perRow-1))

	counts := make(map[time.Month]int)
	for _, e := range p.events {
		counts[e.Date.Month()]++
	}

	months := grid.YearGrid(ref.Year(), ref.Location())
	for r := 0; r < len(months); r += perRow {
		var names, totals strings.Builder
		names.WriteString("  ")
		totals.WriteString("  ")
		for _, m := range months[r : r+perRow] {
			name := fit(m.Month().String(), colW)
			if m.Month() == p.today.Month() && m.Year() == p.today.Year() {
				name = formatToday(name)
			} else {
				name = formatHeader(name)
			}
			names.WriteString(name + " ")
			totals.WriteString(formatMuted(fit(countNoun(counts[m.Month()], "event"), colW)) + " ")
		}
		fmt.Fprintln(p.w, strings.TrimRight(names.String(), " "))
		fmt.Fprintln(p.w, strings.TrimRight(totals.String(), " "))
		if r+perRow < len(months) {
			fmt.Fprintln(p.w)
		}
	}
}

// fit truncates or pads s to exactly width terminal columns.
func fit(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}
