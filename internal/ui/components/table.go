package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/kushdevteam/bunproj-sub004/internal/ui/styles"
)

// Column describes one table column.
type Column struct {
	Title string
	Width int // 0 sizes the column to its content
	Right bool
}

// Table represents a table component for displaying tabular data
type Table struct {
	width int

	columns  []Column
	rows     [][]string
	colors   []lipgloss.Color // per-row foreground, optional
	selected int
	sortCol  int
	sortAsc  bool

	widths []int
}

// NewTable creates a new table component
func NewTable(columns []Column) *Table {
	return &Table{columns: columns, selected: -1, sortCol: -1}
}

// SetWidth sets the available width of the table
func (t *Table) SetWidth(width int) {
	t.width = width
	t.calculateColumnWidths()
}

// SetRows sets the table rows. colors may be nil or one entry per row.
func (t *Table) SetRows(rows [][]string, colors []lipgloss.Color) {
	t.rows = rows
	t.colors = colors
	t.calculateColumnWidths()
}

// SetSelected highlights row i; -1 clears the selection.
func (t *Table) SetSelected(i int) {
	t.selected = i
}

// SetSortIndicator marks column col as sorted.
func (t *Table) SetSortIndicator(col int, asc bool) {
	t.sortCol = col
	t.sortAsc = asc
}

// calculateColumnWidths sizes auto columns to their content, then shrinks the
// widest columns until the table fits.
func (t *Table) calculateColumnWidths() {
	t.widths = make([]int, len(t.columns))
	for i, c := range t.columns {
		if c.Width > 0 {
			t.widths[i] = c.Width
			continue
		}
		w := runewidth.StringWidth(c.Title) + 2 // room for sort arrow
		for _, row := range t.rows {
			if i < len(row) {
				w = max(w, runewidth.StringWidth(row[i]))
			}
		}
		t.widths[i] = w
	}

	if t.width <= 0 {
		return
	}
	for t.totalWidth() > t.width {
		widest := 0
		for i, w := range t.widths {
			if w > t.widths[widest] {
				widest = i
			}
		}
		if t.widths[widest] <= 6 {
			return
		}
		t.widths[widest]--
	}
}

func (t *Table) totalWidth() int {
	total := 0
	for _, w := range t.widths {
		total += w + 1
	}
	return total
}

// View renders the table
func (t *Table) View() string {
	if len(t.rows) == 0 {
		return t.renderHeader() + "\n" + styles.InfoStyle.Render("No data to display")
	}

	var b strings.Builder
	b.WriteString(t.renderHeader())
	for i, row := range t.rows {
		b.WriteString("\n")
		style := styles.TableCellStyle
		if i%2 == 1 {
			style = styles.TableRowAltStyle
		}
		if i < len(t.colors) && t.colors[i] != "" {
			style = style.Foreground(t.colors[i])
		}
		if i == t.selected {
			style = styles.TableSelectedStyle
		}
		b.WriteString(style.Render(t.renderCells(row)))
	}
	return b.String()
}

func (t *Table) renderHeader() string {
	titles := make([]string, len(t.columns))
	for i, c := range t.columns {
		titles[i] = c.Title
		if i == t.sortCol {
			if t.sortAsc {
				titles[i] += " ↑"
			} else {
				titles[i] += " ↓"
			}
		}
	}
	return styles.TableHeaderStyle.Render(t.renderCells(titles))
}

func (t *Table) renderCells(cells []string) string {
	var b strings.Builder
	for i := range t.columns {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		if t.columns[i].Right {
			b.WriteString(styles.PadLeft(cell, t.widths[i]))
		} else {
			b.WriteString(styles.Pad(cell, t.widths[i]))
		}
		if i < len(t.columns)-1 {
			b.WriteString(" ")
		}
	}
	return b.String()
}
