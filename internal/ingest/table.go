package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Row is one data row addressed by column name. Index is the 0-based position
// among data rows, header excluded.
type Row struct {
	Index  int
	fields map[string]string
}

// NewRow builds a row from explicit values; used by callers that already hold
// structured data.
func NewRow(index int, fields map[string]string) Row {
	return Row{Index: index, fields: fields}
}

// Value returns the trimmed cell for name, or "" when the column or cell is
// absent.
func (r Row) Value(name string) string {
	return strings.TrimSpace(r.fields[name])
}

// Optional returns nil for an absent or empty cell.
func (r Row) Optional(name string) *string {
	v := r.Value(name)
	if v == "" {
		return nil
	}
	return &v
}

// Table is a parsed CSV source.
type Table struct {
	Columns []string
	Rows    []Row
}

// ReadTable parses CSV with a header row. A read failure or a header without
// every required column is fatal; short rows simply leave trailing columns
// absent.
func ReadTable(r io.Reader, required []string) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty source", ErrMissingColumns)
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols := make([]string, len(header))
	present := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		cols[i] = h
		present[h] = true
	}

	var missing []string
	for _, c := range required {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	t := &Table{Columns: cols}
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(t.Rows), err)
		}
		fields := make(map[string]string, len(cols))
		for i, v := range rec {
			if i < len(cols) {
				fields[cols[i]] = v
			}
		}
		t.Rows = append(t.Rows, Row{Index: len(t.Rows), fields: fields})
	}
	return t, nil
}
