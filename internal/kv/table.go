package kv

import (
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderTable lays rows out under headers. Numeric columns are right aligned.
func renderTable(headers []string, rows [][]string) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	numeric := make([]bool, columns)
	for i := range numeric {
		numeric[i] = len(rows) > 0
	}
	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			r[i] = cell
			if _, err := strconv.ParseInt(cell, 0, 64); err != nil {
				numeric[i] = false
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if numeric[i] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
