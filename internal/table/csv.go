package table

import "strings"

// CSV serializes the table back to comma-delimited text in the same shape
// Parse accepts: header line first, one line per row, empty fields for
// missing cells. Parsing the result reproduces an equivalent table.
func CSV(t Table) string {
	if len(t.Columns) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.Join(t.Columns, ","))
	b.WriteString("\n")
	for _, row := range t.Rows {
		for i, c := range row {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(c.String())
		}
		b.WriteString("\n")
	}
	return b.String()
}
