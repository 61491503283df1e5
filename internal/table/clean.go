package table

import (
	"sort"
	"strings"
)

// Method selects a missing-value strategy.
type Method string

const (
	DropRows   Method = "drop_rows"
	FillMean   Method = "fill_mean"
	FillMedian Method = "fill_median"
	FillMode   Method = "fill_mode"
)

// ValidMethod reports whether m names a known cleaning method.
func ValidMethod(m Method) bool {
	switch m {
	case DropRows, FillMean, FillMedian, FillMode:
		return true
	}
	return false
}

// CleanSpec describes one cleaning pass. Columns is ordered: fill methods
// process target columns sequentially, each seeing the cumulative effect of
// the previous columns' fills.
type CleanSpec struct {
	Method  Method
	Columns []string
}

// Clean applies the spec's strategy to the target columns, then always
// deduplicates the row set. The input table is not mutated. A target column
// without a stat entry is a silent no-op; there are no error conditions.
func Clean(t Table, stats []ColumnStat, spec CleanSpec) Table {
	out := Table{Columns: t.Columns, Rows: copyRows(t.Rows)}

	if spec.Method == DropRows {
		kept := out.Rows[:0]
		for _, row := range out.Rows {
			if !rowMissingAny(t, row, spec.Columns) {
				kept = append(kept, row)
			}
		}
		out.Rows = kept
		return dedupe(out)
	}

	for _, name := range spec.Columns {
		stat := findStat(stats, name)
		idx := t.ColumnIndex(name)
		if stat == nil || idx < 0 {
			continue
		}
		fill, ok := fillValue(out.Rows, idx, stat.Kind, spec.Method)
		if !ok {
			continue
		}
		for _, row := range out.Rows {
			if row[idx].IsMissing() {
				row[idx] = fill
			}
		}
	}
	return dedupe(out)
}

func copyRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = append(Row(nil), r...)
	}
	return out
}

func rowMissingAny(t Table, row Row, columns []string) bool {
	for _, name := range columns {
		if idx := t.ColumnIndex(name); idx >= 0 && row[idx].IsMissing() {
			return true
		}
	}
	return false
}

func findStat(stats []ColumnStat, name string) *ColumnStat {
	for i := range stats {
		if stats[i].Name == name {
			return &stats[i]
		}
	}
	return nil
}

// fillValue computes the substitute cell for one column over the current
// row set. Mean and median are defined for number columns only; string
// columns silently fall back to mode. ok is false when the column has no
// non-missing values to compute from.
func fillValue(rows []Row, idx int, kind string, method Method) (Cell, bool) {
	if kind != KindNumber {
		method = FillMode
	}
	switch method {
	case FillMean:
		nums := columnNums(rows, idx)
		if len(nums) == 0 {
			return Cell{}, false
		}
		sum := 0.0
		for _, v := range nums {
			sum += v
		}
		return Num(sum / float64(len(nums))), true
	case FillMedian:
		nums := columnNums(rows, idx)
		if len(nums) == 0 {
			return Cell{}, false
		}
		sort.Float64s(nums)
		mid := len(nums) / 2
		if len(nums)%2 == 0 {
			return Num((nums[mid-1] + nums[mid]) / 2), true
		}
		return Num(nums[mid]), true
	default: // FillMode
		counts := make(map[string]int)
		var best Cell
		bestCount := 0
		for _, row := range rows {
			c := row[idx]
			if c.IsMissing() {
				continue
			}
			counts[c.key()]++
			// Strictly greater keeps the first-encountered winner on ties.
			if counts[c.key()] > bestCount {
				bestCount = counts[c.key()]
				best = c
			}
		}
		return best, bestCount > 0
	}
}

func columnNums(rows []Row, idx int) []float64 {
	var nums []float64
	for _, row := range rows {
		if c := row[idx]; c.Kind == Number {
			nums = append(nums, c.Num)
		}
	}
	return nums
}

// dedupe keeps the first occurrence of each structurally identical row,
// preserving order. Runs after every cleaning pass as basic hygiene.
func dedupe(t Table) Table {
	seen := make(map[string]struct{}, len(t.Rows))
	kept := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		parts := make([]string, len(row))
		for i, c := range row {
			parts[i] = c.key()
		}
		key := strings.Join(parts, "\x1f")
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, row)
	}
	t.Rows = kept
	return t
}
