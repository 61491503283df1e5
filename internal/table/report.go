package table

import (
	"fmt"
	"strings"
)

// Summary renders a compact markdown view of a table and its column stats,
// suitable for terminal output or as prompt context.
func Summary(t Table, stats []ColumnStat) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Rows: %d\n", len(t.Rows)))
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(t.Columns)))

	b.WriteString("[SCHEMA]\n")
	for _, s := range stats {
		total := len(t.Rows)
		missPct := 0.0
		if total > 0 {
			missPct = float64(s.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (missing %.1f%%, unique %d)", safeName(s.Name), s.Kind, missPct, s.Unique))
		if len(s.Sample) > 0 {
			b.WriteString(" — e.g., ")
			for i, c := range s.Sample {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(safeVal(c.String()))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/")
}
