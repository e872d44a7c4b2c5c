package main

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// A column is one fixed column of the state table.
type column struct {
	header string
	align  text.Align
}

var stateColumns = []column{
	{"Progress", text.AlignRight},
	{"Card", text.AlignRight},
	{"Phase", text.AlignLeft},
	{"Offset", text.AlignRight},
	{"Opacity", text.AlignRight},
	{"Scale", text.AlignRight},
	{"Stack", text.AlignRight},
	{"Colour", text.AlignLeft},
}

// renderTable draws rows under columns: rounded on a terminal, CSV
// otherwise.
func renderTable(w io.Writer, columns []column, rows [][]string) string {
	tw := table.NewWriter()
	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.header
		configs[i] = table.ColumnConfig{Number: i + 1, Align: c.align, AlignHeader: text.AlignLeft}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)
	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		tw.AppendRow(row)
	}

	if !isTerminal(w) {
		return tw.RenderCSV()
	}
	tw.SetStyle(table.StyleRounded)
	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
