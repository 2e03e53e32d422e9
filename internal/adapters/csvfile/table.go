package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"optionsrisk/pkg/errors"
)

const utf8BOM = "\ufeff"

// Table is a header-indexed view over a CSV export. Cells are kept as raw
// strings; typing happens in the loaders.
type Table struct {
	name   string
	header []string
	index  map[string]int
	rows   [][]string
}

// ReadTable reads an entire CSV stream. A stream without a header row is
// reported as unavailable data; a header with no rows is a valid empty table.
func ReadTable(r io.Reader, name string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // provider footers have fewer fields
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Unavailable(errors.CodeFileUnreadable, fmt.Sprintf("read %s", name), err)
	}
	if len(records) == 0 {
		return nil, errors.Unavailable(errors.CodeEmptyFile, fmt.Sprintf("%s has no header row", name), nil)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		header[i] = strings.TrimSpace(h)
	}

	t := &Table{
		name:   name,
		header: header,
		rows:   records[1:],
	}
	t.reindex()
	return t, nil
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.header))
	for i, h := range t.header {
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Rename maps raw provider column names to canonical names.
// Columns not present are ignored.
func (t *Table) Rename(mapping map[string]string) {
	for i, h := range t.header {
		if to, ok := mapping[h]; ok {
			t.header[i] = to
		}
	}
	t.reindex()
}

// Has reports whether a column exists
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Require fails with ErrDataUnavailable naming every absent column
func (t *Table) Require(columns ...string) error {
	var missing []string
	for _, c := range columns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.Unavailable(errors.CodeMissingColumn,
		fmt.Sprintf("%s is missing required columns %s", t.name, strings.Join(missing, ", ")), nil)
}

// Cell returns the raw value, or "" when the column is absent or the row is short
func (t *Table) Cell(row int, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(t.rows[row]) {
		return ""
	}
	return t.rows[row][i]
}

// Column returns every raw value of a column; nil when absent
func (t *Table) Column(column string) []string {
	if !t.Has(column) {
		return nil
	}
	out := make([]string, len(t.rows))
	for r := range t.rows {
		out[r] = t.Cell(r, column)
	}
	return out
}
