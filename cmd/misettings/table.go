package main

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// renderTable draws a rounded table. colorCol, when >= 0, names a column
// whose cells are colored by severity word ("ok", "warn", "fail", ...).
func renderTable(headers []string, rows [][]string, colorCol int, colorize bool) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if colorize && i == colorCol {
				if colors := severityColors(cell); colors != nil {
					cell = colors.Sprint(cell)
				}
			}
			r[i] = cell
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}

func severityColors(word string) text.Colors {
	switch word {
	case "ok", "running":
		return text.Colors{text.FgGreen}
	case "warn", "skipped":
		return text.Colors{text.FgYellow}
	case "fail", "failed":
		return text.Colors{text.FgRed, text.Bold}
	default:
		return nil
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
