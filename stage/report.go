package stage

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Reporter receives tabular diagnostics from the stages.
type Reporter interface {
	Table(title string, header []string, rows [][]interface{})
}

type nopReporter struct{}

func (nopReporter) Table(string, []string, [][]interface{}) {}

// NopReporter discards every table.
func NopReporter() Reporter {
	return nopReporter{}
}

// TableReporter renders tables as text to W.
type TableReporter struct {
	W     io.Writer
	Style table.Style
}

func NewTableReporter(w io.Writer) *TableReporter {
	return &TableReporter{W: w, Style: table.StyleLight}
}

func (r *TableReporter) Table(title string, header []string, rows [][]interface{}) {
	fmt.Fprintln(r.W, RenderTable(r.Style, title, header, rows))
}

// RenderTable formats a table with go-pretty.
func RenderTable(style table.Style, title string, header []string, rows [][]interface{}) string {
	t := table.NewWriter()
	t.SetStyle(style)
	if title != "" {
		t.SetTitle(title)
	}
	h := make(table.Row, len(header))
	for i, s := range header {
		h[i] = s
	}
	t.AppendHeader(h)
	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}
	return t.Render()
}
