package ui

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Column configures a column in the table.
type Column struct {
	Header       string
	MaxWidth     int // 0 = unlimited; longer cells are end-truncated with "…"
	PaddingRight int // default: 2 spaces
}

// Table is a plain text table for `list` output.
type Table struct {
	columns []Column
	rows    [][]string

	ShowHeader    bool
	ShowSeparator bool
}

func NewTable(columns ...Column) *Table {
	for i := range columns {
		if columns[i].PaddingRight == 0 {
			columns[i].PaddingRight = 2
		}
	}

	return &Table{
		columns:       columns,
		ShowHeader:    true,
		ShowSeparator: true,
	}
}

func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	t.rows = append(t.rows, row)
}

func (t *Table) Render(w io.Writer) error {
	if len(t.columns) == 0 {
		return nil
	}

	widths := t.computeWidths()

	if t.ShowHeader {
		headerCells := make([]string, len(t.columns))
		for i, c := range t.columns {
			headerCells[i] = c.Header
		}
		if err := t.writeRow(w, headerCells, widths); err != nil {
			return err
		}
		if t.ShowSeparator {
			if err := t.writeSeparator(w, widths); err != nil {
				return err
			}
		}
	}

	for _, row := range t.rows {
		if err := t.writeRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) computeWidths() []int {
	widths := make([]int, len(t.columns))

	for i, col := range t.columns {
		widths[i] = runeLen(t.truncate(col, col.Header))
	}

	for _, row := range t.rows {
		for i, cell := range row {
			w := runeLen(t.truncate(t.columns[i], cell))
			if w > widths[i] {
				widths[i] = w
			}
		}
	}

	return widths
}

func (t *Table) writeRow(w io.Writer, cells []string, widths []int) error {
	for i, raw := range cells {
		col := t.columns[i]
		cell := t.truncate(col, raw)

		out := cell + strings.Repeat(" ", widths[i]-runeLen(cell))
		if col.PaddingRight > 0 {
			out += strings.Repeat(" ", col.PaddingRight)
		}

		if _, err := io.WriteString(w, out); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (t *Table) writeSeparator(w io.Writer, widths []int) error {
	for i, col := range t.columns {
		dashes := strings.Repeat("-", widths[i])
		if col.PaddingRight > 0 {
			dashes += strings.Repeat(" ", col.PaddingRight)
		}
		if _, err := io.WriteString(w, dashes); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func (t *Table) truncate(col Column, s string) string {
	if col.MaxWidth <= 0 || runeLen(s) <= col.MaxWidth {
		return s
	}
	if col.MaxWidth <= 1 {
		return takeRunes(s, col.MaxWidth)
	}
	return takeRunes(s, col.MaxWidth-1) + "…"
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func takeRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
