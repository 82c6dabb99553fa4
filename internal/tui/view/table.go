package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableContent contains table rows and cell styles.
type TableContent struct {
	Rows       [][]string
	CellStyles [][]lipgloss.Style
}

// GridViewState holds data needed to render a calendar grid: the time
// grid of the day and week views, or the cell grid of month and year.
type GridViewState struct {
	InnerW       int
	GridH        int
	Headers      []string
	HeaderStyles []lipgloss.Style
	Content      TableContent
	BorderStyle  lipgloss.Style
	RowBorders   bool // month and year cells are separated by rules
	Bg           lipgloss.Color
}

// RenderGrid renders the grid with a lipgloss table, clipped to GridH lines.
func RenderGrid(state GridViewState) string {
	if state.GridH <= 0 || state.InnerW <= 2 {
		return ""
	}

	t := table.New().
		Width(state.InnerW).
		Height(state.GridH).
		Border(lipgloss.RoundedBorder()).
		BorderHeader(len(state.Headers) > 0).
		BorderColumn(true).
		BorderRow(state.RowBorders).
		BorderStyle(state.BorderStyle).
		Rows(state.Content.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col >= 0 && col < len(state.HeaderStyles) {
					return state.HeaderStyles[col]
				}
				return lipgloss.NewStyle()
			}
			if row < 0 || row >= len(state.Content.CellStyles) || col < 0 || col >= len(state.Content.CellStyles[row]) {
				return lipgloss.NewStyle()
			}
			return state.Content.CellStyles[row][col]
		})
	if len(state.Headers) > 0 {
		t = t.Headers(state.Headers...)
	}

	return PlaceBox(state.InnerW, state.GridH, lipgloss.Top, t.Render(), state.Bg)
}
