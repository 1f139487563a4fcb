package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Align is a column alignment.
type Align int

// Column alignments.
const (
	AlignLeft Align = iota
	AlignRight
)

// Table renders rows of cells in padded columns.
type Table struct {
	headers []string
	aligns  []Align
	rows    [][]string
	gap     string
}

// NewTable creates a table with the given headers, all left aligned.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		aligns:  make([]Align, len(headers)),
		gap:     "  ",
	}
}

// AlignColumn sets the alignment of column i.
func (t *Table) AlignColumn(i int, a Align) *Table {
	for len(t.aligns) <= i {
		t.aligns = append(t.aligns, AlignLeft)
	}
	t.aligns[i] = a
	return t
}

// AddRow appends a row. Missing cells render empty.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the header, a rule and the rows to w.
func (t *Table) Render(w io.Writer) error {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return nil
	}

	widths := t.widths()
	lines := make([][]string, 0, len(t.rows)+2)
	if len(t.headers) > 0 {
		rule := make([]string, len(widths))
		for i, width := range widths {
			rule[i] = strings.Repeat("-", width)
		}
		lines = append(lines, t.headers, rule)
	}
	lines = append(lines, t.rows...)

	for _, cells := range lines {
		if _, err := fmt.Fprintln(w, t.line(cells, widths)); err != nil {
			return err
		}
	}
	return nil
}

// String returns the rendered table.
func (t *Table) String() string {
	var sb strings.Builder
	_ = t.Render(&sb)
	return sb.String()
}

func (t *Table) widths() []int {
	n := len(t.headers)
	for _, row := range t.rows {
		n = max(n, len(row))
	}

	widths := make([]int, n)
	for _, cells := range append([][]string{t.headers}, t.rows...) {
		for i, cell := range cells {
			widths[i] = max(widths[i], utf8.RuneCountInString(cell))
		}
	}
	return widths
}

func (t *Table) line(cells []string, widths []int) string {
	parts := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", width-utf8.RuneCountInString(cell))
		if i < len(t.aligns) && t.aligns[i] == AlignRight {
			parts[i] = pad + cell
		} else {
			parts[i] = cell + pad
		}
	}
	return strings.TrimRight(strings.Join(parts, t.gap), " ")
}
