package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table is a plain text table. Columns listed in RightAlign are padded on
// the left.
type Table struct {
	Headers    []string
	Rows       [][]string
	RightAlign map[int]bool
}

func (t *Table) Append(row ...string) {
	t.Rows = append(t.Rows, row)
}

// Render writes the table with columns separated by two spaces.
func (t *Table) Render(w io.Writer) error {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	if err := t.writeRow(w, t.Headers, widths); err != nil {
		return err
	}

	rule := make([]string, len(widths))
	for i, width := range widths {
		rule[i] = strings.Repeat("-", width)
	}
	if err := t.writeRow(w, rule, widths); err != nil {
		return err
	}

	for _, row := range t.Rows {
		if err := t.writeRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) writeRow(w io.Writer, row []string, widths []int) error {
	cells := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if t.RightAlign[i] {
			cells[i] = runewidth.FillLeft(cell, width)
		} else {
			cells[i] = runewidth.FillRight(cell, width)
		}
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	return err
}
