package table

import "strconv"

// CellKind discriminates the three value shapes a parsed cell can take.
type CellKind int

const (
	// Missing marks an empty cell. The zero Cell is Missing.
	Missing CellKind = iota
	// Number is a cell that parsed as a float.
	Number
	// Text is any non-empty cell that did not parse as a float.
	Text
)

// Cell is one table value: a number, a string, or nothing.
type Cell struct {
	Kind CellKind
	Num  float64
	Str  string
}

func Num(v float64) Cell { return Cell{Kind: Number, Num: v} }
func Str(s string) Cell  { return Cell{Kind: Text, Str: s} }
func None() Cell         { return Cell{} }

// IsMissing reports whether the cell counts as missing for profiling and
// cleaning purposes: an absent value or an empty string.
func (c Cell) IsMissing() bool {
	return c.Kind == Missing || (c.Kind == Text && c.Str == "")
}

// String renders the cell the way the CSV serializer writes it.
func (c Cell) String() string {
	switch c.Kind {
	case Number:
		return strconv.FormatFloat(c.Num, 'g', -1, 64)
	case Text:
		return c.Str
	default:
		return ""
	}
}

// key returns a canonical representation that never collides across kinds,
// so Number(1) and Text("1") stay distinct in uniqueness and dedup checks.
func (c Cell) key() string {
	switch c.Kind {
	case Number:
		return "n:" + strconv.FormatFloat(c.Num, 'b', -1, 64)
	case Text:
		return "s:" + c.Str
	default:
		return "_"
	}
}

// Row holds one record's cells in header order.
type Row []Cell

// Table is an ordered row set sharing a single header. Rows are positional,
// which keeps every row's key set identical to the header by construction.
type Table struct {
	Columns []string
	Rows    []Row
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
