// Package render draws query results as a static terminal table.
package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/eduardofuncao/dbkit/internal/styles"
	"github.com/eduardofuncao/dbkit/pkg/connector"
	"github.com/eduardofuncao/dbkit/pkg/export"
)

// DefaultCellWidth caps the display width of a column.
const DefaultCellWidth = 40

// Table renders result with one column per header. Cells wider than
// maxWidth are truncated with an ellipsis.
func Table(result *connector.QueryResult, maxWidth int) string {
	if result == nil || len(result.Headers) == 0 {
		return ""
	}
	if maxWidth <= 1 {
		maxWidth = DefaultCellWidth
	}

	rows := export.Strings(result)
	widths := make([]int, len(result.Headers))
	for i, h := range result.Headers {
		widths[i] = min(runewidth.StringWidth(h), maxWidth)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = min(max(widths[i], runewidth.StringWidth(flatten(cell))), maxWidth)
			}
		}
	}

	sep := styles.TableBorder.Render("│")
	var b strings.Builder

	headers := make([]string, len(result.Headers))
	for i, h := range result.Headers {
		headers[i] = styles.TableHeader.Render(formatCell(h, widths[i]))
	}
	b.WriteString(strings.Join(headers, sep) + "\n")

	rules := make([]string, len(widths))
	for i, w := range widths {
		rules[i] = strings.Repeat("─", w)
	}
	b.WriteString(styles.TableBorder.Render(strings.Join(rules, "┼")) + "\n")

	for r, row := range rows {
		cells := make([]string, len(widths))
		for i := range widths {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			style := styles.TableCell
			if i < len(result.Rows[r]) && result.Rows[r][i] == nil {
				style = styles.TableNull
			}
			cells[i] = style.Render(formatCell(cell, widths[i]))
		}
		b.WriteString(strings.Join(cells, sep) + "\n")
	}
	return b.String()
}

// Footer summarizes the row count and elapsed time.
func Footer(rows int, elapsed fmt.Stringer) string {
	noun := "rows"
	if rows == 1 {
		noun = "row"
	}
	return styles.Faint.Render(fmt.Sprintf("%d %s in %s", rows, noun, elapsed))
}

func formatCell(content string, width int) string {
	content = flatten(content)
	if runewidth.StringWidth(content) > width {
		content = runewidth.Truncate(content, width, "…")
	}
	return runewidth.FillRight(content, width)
}

func flatten(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(s)
}
