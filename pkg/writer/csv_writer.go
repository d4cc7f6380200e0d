package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/crestline-bio/chemtab/pkg/hashing"
)

// CSVWriter writes hashed rows with a deterministic column order: the
// entity's configured columns sorted by name, then the hash columns.
type CSVWriter struct {
	w       *csv.Writer
	columns []string
	wrote   bool
}

// NewCSVWriter creates a writer over w emitting the given data columns.
// The column order is fixed at construction so repeated runs produce
// byte-identical files.
func NewCSVWriter(w io.Writer, columns []string) *CSVWriter {
	ordered := make([]string, len(columns))
	copy(ordered, columns)
	sort.Strings(ordered)
	ordered = append(ordered, hashing.RowHashColumn, hashing.BusinessKeyHashColumn)
	return &CSVWriter{
		w:       csv.NewWriter(w),
		columns: ordered,
	}
}

// WriteRows writes the header (on first call) and one record per row.
// Null values render as empty cells.
func (c *CSVWriter) WriteRows(rows []hashing.HashedRow) error {
	if !c.wrote {
		if err := c.w.Write(c.columns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		c.wrote = true
	}

	record := make([]string, len(c.columns))
	for _, row := range rows {
		for i, col := range c.columns {
			switch col {
			case hashing.RowHashColumn:
				record[i] = row.RowHash
			case hashing.BusinessKeyHashColumn:
				record[i] = row.BusinessKeyHash
			default:
				record[i] = ""
				if v, ok := row.Row[col]; ok && !v.Null {
					record[i] = v.String
				}
			}
		}
		if err := c.w.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}
