package outfmt

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// Table writes tab-aligned text rows.
type Table struct {
	w *tabwriter.Writer
}

// NewTable creates a table writing to out.
func NewTable(out io.Writer) *Table {
	return &Table{w: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)}
}

// Header writes the column headers.
func (t *Table) Header(columns ...string) {
	t.Row(columns...)
}

// Row writes a single row to the table.
func (t *Table) Row(columns ...string) {
	_, _ = fmt.Fprintln(t.w, strings.Join(columns, "\t"))
}

// Flush writes buffered rows.
func (t *Table) Flush() error {
	return t.w.Flush()
}
