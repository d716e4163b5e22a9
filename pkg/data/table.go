package data

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is an in-memory dataset: ordered named columns over string cells.
// Cells keep whatever text the source file held; numeric parsing happens
// where a column is consumed.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a table, padding short rows with empty (missing) cells and
// rejecting rows wider than the header.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	t := &Table{Columns: append([]string(nil), columns...), Rows: make([][]string, len(rows))}
	for i, row := range rows {
		if len(row) > len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i+1, len(row), len(columns))
		}
		r := make([]string, len(columns))
		copy(r, row)
		t.Rows[i] = r
	}
	return t, nil
}

// missingTokens are the cell texts read as missing, lower-cased. They match
// the NA markers spreadsheet exports and dataframe tools write by default.
var missingTokens = map[string]bool{
	"": true, "na": true, "n/a": true, "#n/a": true, "#n/a n/a": true, "#na": true,
	"nan": true, "-nan": true, "1.#ind": true, "-1.#ind": true, "1.#qnan": true, "-1.#qnan": true,
	"null": true, "none": true, "<na>": true,
}

// IsMissing reports whether a cell counts as a missing value.
func IsMissing(v string) bool {
	return missingTokens[strings.ToLower(strings.TrimSpace(v))]
}

// ParseFloat parses a numeric cell. ok is false for missing cells.
func ParseFloat(v string) (f float64, ok bool, err error) {
	if IsMissing(v) {
		return 0, false, nil
	}
	f, err = strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false, fmt.Errorf("not a number: %q", v)
	}
	return f, true, nil
}

// FormatFloat renders a float so that ParseFloat gives back the same value.
func FormatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func (t *Table) Len() int { return len(t.Rows) }

// Index returns the position of the first column called name, or -1.
func (t *Table) Index(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Has reports whether the table has a column called name.
func (t *Table) Has(name string) bool { return t.Index(name) >= 0 }

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]string, bool) {
	j := t.Index(name)
	if j < 0 {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[j]
	}
	return out, true
}

// Floats parses the named column. Missing or non-numeric cells are errors
// naming the 1-based row.
func (t *Table) Floats(name string) ([]float64, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	out := make([]float64, len(col))
	for i, v := range col {
		f, present, err := ParseFloat(v)
		if err != nil {
			return nil, fmt.Errorf("column %q row %d: %w", name, i+1, err)
		}
		if !present {
			return nil, fmt.Errorf("column %q row %d: missing value", name, i+1)
		}
		out[i] = f
	}
	return out, nil
}

// SetColumn replaces the named column, or appends it when absent.
func (t *Table) SetColumn(name string, values []string) error {
	if len(values) != len(t.Rows) {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), len(t.Rows))
	}
	j := t.Index(name)
	if j < 0 {
		t.Columns = append(t.Columns, name)
		for i := range t.Rows {
			t.Rows[i] = append(t.Rows[i], values[i])
		}
		return nil
	}
	for i := range t.Rows {
		t.Rows[i][j] = values[i]
	}
	return nil
}

// MissingCount counts missing cells across every column.
func (t *Table) MissingCount() int {
	n := 0
	for _, row := range t.Rows {
		for _, v := range row {
			if IsMissing(v) {
				n++
			}
		}
	}
	return n
}

// Head returns a table holding the first n rows (shares no memory with t).
func (t *Table) Head(n int) *Table {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	out := &Table{Columns: append([]string(nil), t.Columns...), Rows: make([][]string, n)}
	for i := 0; i < n; i++ {
		out.Rows[i] = append([]string(nil), t.Rows[i]...)
	}
	return out
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table { return t.Head(len(t.Rows)) }
