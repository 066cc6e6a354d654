package export

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"go-vacancy-collector/internal/scraper"
)

const previewCellWidth = 40

// Preview prints the first n vacancies as a table.
func Preview(w io.Writer, rs *scraper.ResultSet, n int, sentinel string) {
	if n <= 0 || rs.Len() == 0 {
		return
	}

	header := rs.Header()
	rows := rs.Rows(sentinel)
	if len(rows) > n {
		rows = rows[:n]
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)

	headerRow := make(table.Row, len(header))
	configs := make([]table.ColumnConfig, len(header))
	for i, h := range header {
		headerRow[i] = h
		configs[i] = table.ColumnConfig{Number: i + 1, WidthMax: previewCellWidth}
	}
	t.AppendHeader(headerRow)
	t.SetColumnConfigs(configs)

	for _, r := range rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"total", rs.Len()})

	t.SetStyle(table.StyleRounded)
	t.Render()
}
