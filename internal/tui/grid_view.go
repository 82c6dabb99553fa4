package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
	"github.com/javiermolinar/dayplan/internal/grid"
	"github.com/javiermolinar/dayplan/internal/scheduler"
	"github.com/javiermolinar/dayplan/internal/tui/view"
)

// gridChrome is the number of table lines that are not slot rows: the top
// border, the header, the header rule and the bottom border.
const gridChrome = 4

// yearColumns is the number of months per row in the year view.
const yearColumns = 4

// slotRows returns how many slots fit in the time grid.
func (m Model) slotRows() int {
	rows := m.gridHeight() - gridChrome
	if rows < 1 {
		return 1
	}
	return rows
}

func (m Model) renderGrid(w, h int) string {
	var state view.GridViewState
	switch m.nav.Mode {
	case grid.ViewMonth:
		state = m.monthGridState(w, h)
	case grid.ViewYear:
		state = m.yearGridState(w, h)
	default:
		state = m.timeGridState(w, h)
	}
	state.InnerW = w
	state.GridH = h
	state.BorderStyle = m.styles.TableBorderStyle
	state.Bg = m.styles.colorBg
	return view.RenderGrid(state)
}

// dragSpan is the interval the dragged item would occupy at the cursor.
func (m Model) dragSpan() (time.Time, time.Time, bool) {
	if m.mode != ModeDrag || m.sched.Phase() != scheduler.Dragging {
		return time.Time{}, time.Time{}, false
	}
	start := m.cursorTime()
	d := m.sched.Policy().DefaultDuration
	if e := m.sched.DraggedEvent(); e != nil {
		d = e.Duration()
	}
	return start, start.Add(d), true
}

func (m Model) timeGridState(w, h int) view.GridViewState {
	days := grid.Columns(m.nav.Mode, m.nav.Reference)
	now := m.now()
	headers, todayCols := view.ColumnLabels(days, now)

	headerStyles := make([]lipgloss.Style, len(headers))
	for i := range headers {
		headerStyles[i] = m.styles.DayHeaderStyle
		if todayCols[i] {
			headerStyles[i] = m.styles.DayHeaderTodayStyle
		}
	}

	colW := (w - timeColWidth - len(days) - 2) / len(days)
	if colW < 1 {
		colW = 1
	}

	events := m.visibleEvents()
	perDay := make([][]*calendar.Event, len(days))
	for i, day := range days {
		perDay[i] = calendar.EventsOnDay(events, day)
	}
	dragStart, dragEnd, dragging := m.dragSpan()

	slots := m.grid.TimeSlots()
	first := m.scrollOffset
	last := min(first+m.slotRows(), len(slots))

	var content view.TableContent
	for si := first; si < last; si++ {
		slot := slots[si]
		row := []string{slot.Label()}
		styles := []lipgloss.Style{m.styles.TimeColumnStyle}

		for di, day := range days {
			start := slot.On(day)
			end := start.Add(m.grid.Interval())
			text, style := "", m.styles.EmptyCellStyle

			if e := eventAt(perDay[di], start, end); e != nil {
				style = m.styles.EventStyle(e.DisplayColor(), e.EndTime.Before(now))
				eventFirst, eventRows := m.grid.Span(e.StartTime, e.EndTime)
				switch {
				case si == first || !e.StartTime.Before(start):
					text = e.Title
				case e.IsExpanded && eventRows > 1 && si == eventFirst+1:
					// Expanded events show their times on the second row.
					text = view.FormatRange(e.StartTime, e.EndTime)
				}
			}
			if dragging && dateutil.SameDay(day, dragStart) && calendar.IntervalsOverlap(start, end, dragStart, dragEnd) {
				style = m.styles.DragPreviewStyle
				if !dragStart.Before(start) {
					text = m.sched.Label()
				}
			}
			if si == m.cursor.Slot && dateutil.SameDay(day, m.cursor.Day) && !dragging {
				style = m.styles.CursorStyle
				if text == "" {
					text = "·"
				}
			}

			row = append(row, ansi.Truncate(text, colW, "…"))
			styles = append(styles, style)
		}
		content.Rows = append(content.Rows, row)
		content.CellStyles = append(content.CellStyles, styles)
	}

	return view.GridViewState{Headers: headers, HeaderStyles: headerStyles, Content: content}
}

// eventAt returns the first event intersecting [start, end).
func eventAt(events []*calendar.Event, start, end time.Time) *calendar.Event {
	for _, e := range events {
		if calendar.IntervalsOverlap(start, end, e.StartTime, e.EndTime) {
			return e
		}
	}
	return nil
}

func (m Model) monthGridState(w, h int) view.GridViewState {
	ref := m.nav.Reference
	cells := grid.MonthGrid(ref.Year(), ref.Month(), ref.Location())
	weeks := len(cells) / 7

	// Top, header and bottom borders plus one rule between weeks.
	lineH := (h - gridChrome - (weeks - 1)) / weeks
	if lineH < 1 {
		lineH = 1
	}
	colW := (w - 8) / 7
	if colW < 1 {
		colW = 1
	}

	headers := view.WeekdayLabels()
	headerStyles := make([]lipgloss.Style, len(headers))
	for i := range headerStyles {
		headerStyles[i] = m.styles.DayHeaderStyle
	}

	now := m.now()
	events := m.visibleEvents()
	_, _, dragging := m.dragSpan()

	var content view.TableContent
	for wk := 0; wk < weeks; wk++ {
		row := make([]string, 7)
		styles := make([]lipgloss.Style, 7)
		for d := 0; d < 7; d++ {
			cell := cells[wk*7+d]
			style := m.styles.EmptyCellStyle
			switch {
			case dateutil.SameDay(cell.Date, m.cursor.Day) && dragging:
				style = m.styles.DragPreviewStyle
			case dateutil.SameDay(cell.Date, m.cursor.Day):
				style = m.styles.CursorStyle
			case dateutil.SameDay(cell.Date, now):
				style = m.styles.TodayCellStyle
			case !cell.InMonth:
				style = m.styles.OtherMonthStyle
			}
			row[d] = m.monthCell(cell, calendar.EventsOnDay(events, cell.Date), lineH, colW)
			styles[d] = style
		}
		content.Rows = append(content.Rows, row)
		content.CellStyles = append(content.CellStyles, styles)
	}

	return view.GridViewState{Headers: headers, HeaderStyles: headerStyles, Content: content, RowBorders: true}
}

// monthCell renders the day number and as many events as fit, collapsing
// the rest into a "+N more" line.
func (m Model) monthCell(cell grid.Cell, events []*calendar.Event, lineH, colW int) string {
	lines := []string{fmt.Sprintf("%d", cell.Date.Day())}
	room := lineH - 1
	shown := events
	if len(events) > room {
		shown = events[:max(room-1, 0)]
	}
	for _, e := range shown {
		swatch := m.styles.SwatchStyle(e.DisplayColor()).Render("■")
		lines = append(lines, swatch+" "+ansi.Truncate(e.Title, colW-2, "…"))
	}
	if hidden := len(events) - len(shown); hidden > 0 && room > 0 {
		lines = append(lines, m.styles.MoreStyle.Render(fmt.Sprintf("+%d more", hidden)))
	}
	for len(lines) < lineH {
		lines = append(lines, "")
	}
	return strings.Join(lines[:lineH], "\n")
}

func (m Model) yearGridState(w, h int) view.GridViewState {
	ref := m.nav.Reference
	months := grid.YearGrid(ref.Year(), ref.Location())
	rows := len(months) / yearColumns

	events := m.visibleEvents()
	counts := make(map[time.Month]int)
	for _, e := range events {
		counts[e.Date.Month()]++
	}

	now := m.now()
	lineH := (h - 2 - (rows - 1)) / rows
	if lineH < 2 {
		lineH = 2
	}

	var content view.TableContent
	for r := 0; r < rows; r++ {
		row := make([]string, yearColumns)
		styles := make([]lipgloss.Style, yearColumns)
		for c := 0; c < yearColumns; c++ {
			month := months[r*yearColumns+c]
			style := m.styles.YearCellStyle
			switch {
			case month.Month() == m.cursor.Day.Month() && month.Year() == m.cursor.Day.Year():
				style = m.styles.CursorStyle.Align(lipgloss.Center)
			case month.Month() == now.Month() && month.Year() == now.Year():
				style = m.styles.YearCountStyle
			}

			lines := []string{month.Month().String(), eventCount(counts[month.Month()])}
			for len(lines) < lineH {
				lines = append(lines, "")
			}
			row[c] = strings.Join(lines, "\n")
			styles[c] = style
		}
		content.Rows = append(content.Rows, row)
		content.CellStyles = append(content.CellStyles, styles)
	}

	return view.GridViewState{Content: content, RowBorders: true}
}

func eventCount(n int) string {
	switch n {
	case 0:
		return "no events"
	case 1:
		return "1 event"
	default:
		return fmt.Sprintf("%d events", n)
	}
}
