package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/crestline-bio/chemtab/pkg/encode"
)

// Column names the hasher writes. They are excluded from their own input
// to avoid self-reference.
const (
	RowHashColumn         = "row_hash"
	BusinessKeyHashColumn = "business_key_hash"
)

// HashedRow is a canonical row plus its content hashes. Computed once after
// encoding and never mutated; used downstream for deduplication and change
// detection.
type HashedRow struct {
	Row             encode.CanonicalRow
	RowHash         string
	BusinessKeyHash string
}

// RowHash computes the SHA-256 content hash over all non-excluded columns,
// sorted by name and concatenated as "col:value|col:value|...". A null
// column renders as the bare column name with no separator, so a field
// moving between null and empty string changes the hash.
func RowHash(row encode.CanonicalRow, excluded ...string) string {
	skip := make(map[string]bool, len(excluded)+2)
	skip[RowHashColumn] = true
	skip[BusinessKeyHashColumn] = true
	for _, col := range excluded {
		skip[col] = true
	}

	cols := make([]string, 0, len(row))
	for col := range row {
		if !skip[col] {
			cols = append(cols, col)
		}
	}
	sort.Strings(cols)
	return digest(row, cols)
}

// BusinessKeyHash computes the SHA-256 hash over the configured business
// key columns in their configured order (not re-sorted; order is
// significant). Columns missing from the row hash like explicit nulls.
func BusinessKeyHash(row encode.CanonicalRow, keyColumns []string) string {
	return digest(row, keyColumns)
}

// Hash computes both hashes for a row in one call.
func Hash(row encode.CanonicalRow, keyColumns []string, excluded ...string) HashedRow {
	h := HashedRow{
		Row:     row,
		RowHash: RowHash(row, excluded...),
	}
	if len(keyColumns) > 0 {
		h.BusinessKeyHash = BusinessKeyHash(row, keyColumns)
	}
	return h
}

func digest(row encode.CanonicalRow, cols []string) string {
	var b strings.Builder
	for i, col := range cols {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(col)
		if v, ok := row[col]; ok && !v.Null {
			b.WriteByte(':')
			b.WriteString(v.String)
		}
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
