package table

// Column kinds reported by the profiler.
const (
	KindNumber = "number"
	KindString = "string"
)

const sampleSize = 5

// numericRatio is the fraction of non-missing values that must be numeric
// for a column to be classified as a number column.
const numericRatio = 0.8

// ColumnStat is the computed profile of a single column.
type ColumnStat struct {
	Name    string
	Kind    string // number|string
	Missing int
	Unique  int
	Sample  []Cell // first values in row order, at most sampleSize
}

// Profile computes one ColumnStat per column, from scratch. Stats are never
// updated incrementally; callers re-profile after every cleaning pass.
func Profile(t Table) []ColumnStat {
	if len(t.Rows) == 0 {
		return nil
	}
	stats := make([]ColumnStat, 0, len(t.Columns))
	for idx, name := range t.Columns {
		s := ColumnStat{Name: name}
		seen := make(map[string]struct{})
		nonMissing, numeric := 0, 0
		for _, row := range t.Rows {
			c := row[idx]
			if c.IsMissing() {
				s.Missing++
				continue
			}
			nonMissing++
			if c.Kind == Number {
				numeric++
			}
			seen[c.key()] = struct{}{}
			if len(s.Sample) < sampleSize {
				s.Sample = append(s.Sample, c)
			}
		}
		s.Unique = len(seen)
		// A column with no values at all stays a string column; dividing
		// 0 by 0 here must not classify it as numeric.
		if nonMissing > 0 && float64(numeric)/float64(nonMissing) > numericRatio {
			s.Kind = KindNumber
		} else {
			s.Kind = KindString
		}
		stats = append(stats, s)
	}
	return stats
}
