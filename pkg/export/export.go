// Package export renders query results in text formats for files and the
// clipboard.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/eduardofuncao/dbkit/pkg/connector"
)

type Format string

const (
	CSV      Format = "csv"
	JSON     Format = "json"
	TSV      Format = "tsv"
	HTML     Format = "html"
	SQL      Format = "sql"
	Markdown Format = "markdown"
)

// NullText is how NULL values are rendered.
const NullText = "NULL"

// ParseFormat accepts a format name or its one-letter alias.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "c", "csv":
		return CSV, nil
	case "j", "json":
		return JSON, nil
	case "t", "tsv":
		return TSV, nil
	case "h", "html":
		return HTML, nil
	case "s", "sql":
		return SQL, nil
	case "m", "markdown", "md":
		return Markdown, nil
	default:
		return "", fmt.Errorf("unknown export format %q", name)
	}
}

// CellText renders a driver value as display text.
func CellText(v any) string {
	switch val := v.(type) {
	case nil:
		return NullText
	case []byte:
		return string(val)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Strings converts the rows of result to display text.
func Strings(result *connector.QueryResult) [][]string {
	if result == nil {
		return nil
	}
	rows := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = CellText(v)
		}
		rows = append(rows, cells)
	}
	return rows
}

// Render formats result. table names the INSERT target for the SQL format
// and titles the HTML document; it may be empty otherwise.
func Render(result *connector.QueryResult, format Format, table string) (string, error) {
	if result == nil {
		return "", fmt.Errorf("no result set to export")
	}
	headers := result.Headers
	rows := Strings(result)

	switch format {
	case CSV:
		return formatCSV(headers, rows)
	case JSON:
		return formatJSON(headers, rows)
	case TSV:
		return formatTSV(headers, rows), nil
	case HTML:
		return formatHTML(headers, rows, table), nil
	case SQL:
		return formatSQL(headers, result.Rows, rows, table)
	case Markdown:
		return formatMarkdown(headers, rows), nil
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

// ToCSVFile writes result, headers first, to a CSV file at path.
func ToCSVFile(result *connector.QueryResult, path string) error {
	content, err := Render(result, CSV, "")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func formatCSV(headers []string, rows [][]string) (string, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatJSON(headers []string, rows [][]string) (string, error) {
	objects := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		obj := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				obj[header] = row[i]
			}
		}
		objects = append(objects, obj)
	}

	data, err := json.MarshalIndent(objects, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatTSV(headers []string, rows [][]string) string {
	var buf strings.Builder
	buf.WriteString(strings.Join(headers, "\t") + "\n")
	for _, row := range rows {
		buf.WriteString(strings.Join(row, "\t") + "\n")
	}
	return buf.String()
}

func formatHTML(headers []string, rows [][]string, title string) string {
	var buf strings.Builder

	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	buf.WriteString("<meta charset=\"UTF-8\"/>\n")
	buf.WriteString("<style>\n")
	buf.WriteString("table {border-collapse: collapse; width: auto;}\n")
	buf.WriteString("th {font-family: sans-serif; border: 1px solid #ccc; padding: 8px; background-color: #f2f2f2; text-align: left;}\n")
	buf.WriteString("td {font-family: sans-serif; border: 1px solid #ccc; padding: 8px; text-align: left;}\n")
	buf.WriteString("tr.odd {background-color: #f9f9f9;}\n")
	buf.WriteString("</style>\n</head>\n<body>\n")

	if title != "" {
		fmt.Fprintf(&buf, "<h3>%s</h3>\n", escapeHTML(title))
	}

	buf.WriteString("<table>\n<thead>\n<tr>\n")
	for _, header := range headers {
		fmt.Fprintf(&buf, "<th>%s</th>\n", escapeHTML(header))
	}
	buf.WriteString("</tr>\n</thead>\n<tbody>\n")

	for i, row := range rows {
		if i%2 == 1 {
			buf.WriteString("<tr class=\"odd\">\n")
		} else {
			buf.WriteString("<tr>\n")
		}
		for _, cell := range row {
			fmt.Fprintf(&buf, "<td>%s</td>\n", escapeHTML(cell))
		}
		buf.WriteString("</tr>\n")
	}

	buf.WriteString("</tbody>\n</table>\n</body>\n</html>")
	return buf.String()
}

func escapeHTML(s string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	).Replace(s)
}

// formatSQL writes NULL only for nil driver values, so a string that reads
// "NULL" stays a quoted literal.
func formatSQL(headers []string, raw [][]any, rows [][]string, table string) (string, error) {
	if table == "" {
		return "", fmt.Errorf("no table name available for SQL export")
	}

	columns := make([]string, 0, len(headers))
	for _, header := range headers {
		columns = append(columns, fmt.Sprintf(`"%s"`, header))
	}
	columnList := strings.Join(columns, ", ")

	var buf strings.Builder
	for r, row := range rows {
		values := make([]string, 0, len(row))
		for i, val := range row {
			if i < len(raw[r]) && raw[r][i] == nil {
				values = append(values, "NULL")
			} else {
				values = append(values, "'"+strings.ReplaceAll(val, "'", "''")+"'")
			}
		}
		fmt.Fprintf(&buf, "INSERT INTO %s (%s) VALUES (%s);\n", table, columnList, strings.Join(values, ", "))
	}
	return buf.String(), nil
}

func formatMarkdown(headers []string, rows [][]string) string {
	var buf strings.Builder

	buf.WriteString("|")
	for _, header := range headers {
		buf.WriteString(" " + header + " |")
	}
	buf.WriteString("\n|")
	for range headers {
		buf.WriteString(" --- |")
	}
	buf.WriteString("\n")

	for _, row := range rows {
		buf.WriteString("|")
		for _, cell := range row {
			buf.WriteString(" " + strings.ReplaceAll(cell, "|", `\|`) + " |")
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
