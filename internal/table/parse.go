package table

import (
	"strconv"
	"strings"
)

// Parse turns raw delimited text into a typed table. It is deliberately
// simpler than encoding/csv: lines split on '\n', fields split on ',' with
// no quoted-comma handling, and malformed lines are dropped rather than
// reported. No input makes it fail.
func Parse(raw string) Table {
	var lines []string
	for _, ln := range strings.Split(raw, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	// Need a header plus at least one data line.
	if len(lines) < 2 {
		return Table{}
	}

	header := splitFields(lines[0])
	t := Table{Columns: header}
	for _, ln := range lines[1:] {
		fields := splitFields(ln)
		// Field-count mismatch: drop the line silently.
		if len(fields) != len(header) {
			continue
		}
		row := make(Row, len(fields))
		for i, f := range fields {
			row[i] = parseCell(f)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// splitFields splits a line on commas, trims each field, and strips one
// pair of surrounding double quotes if present.
func splitFields(line string) []string {
	parts := strings.Split(line, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if len(p) >= 2 && strings.HasPrefix(p, `"`) && strings.HasSuffix(p, `"`) {
			p = p[1 : len(p)-1]
		}
		out[i] = p
	}
	return out
}

func parseCell(field string) Cell {
	if field == "" {
		return None()
	}
	if v, err := strconv.ParseFloat(field, 64); err == nil {
		return Num(v)
	}
	return Str(field)
}
