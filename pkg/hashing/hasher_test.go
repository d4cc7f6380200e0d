package hashing

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestline-bio/chemtab/pkg/encode"
)

var hexHash = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestRowHashShape(t *testing.T) {
	row := encode.CanonicalRow{
		"id":   encode.StringValue("CHEMBL1"),
		"name": encode.StringValue("A"),
	}
	h := RowHash(row)
	assert.Regexp(t, hexHash, h)
}

func TestRowHashIdempotent(t *testing.T) {
	row := encode.CanonicalRow{
		"id":   encode.StringValue("CHEMBL1"),
		"name": encode.StringValue("A"),
	}
	assert.Equal(t, RowHash(row), RowHash(row))
}

func TestRowHashKeyOrderIndependent(t *testing.T) {
	// Same content built in different insertion orders.
	a := encode.CanonicalRow{}
	a["id"] = encode.StringValue("CHEMBL1")
	a["name"] = encode.StringValue("A")

	b := encode.CanonicalRow{}
	b["name"] = encode.StringValue("A")
	b["id"] = encode.StringValue("CHEMBL1")

	assert.Equal(t, RowHash(a), RowHash(b))
}

func TestRowHashIgnoresHashColumns(t *testing.T) {
	row := encode.CanonicalRow{
		"id": encode.StringValue("CHEMBL1"),
	}
	withHashes := encode.CanonicalRow{
		"id":                  encode.StringValue("CHEMBL1"),
		RowHashColumn:         encode.StringValue("deadbeef"),
		BusinessKeyHashColumn: encode.StringValue("cafef00d"),
	}
	assert.Equal(t, RowHash(row), RowHash(withHashes))
}

func TestRowHashExcludedColumns(t *testing.T) {
	base := encode.CanonicalRow{
		"id":         encode.StringValue("CHEMBL1"),
		"fetched_at": encode.StringValue("2024-01-01"),
	}
	other := encode.CanonicalRow{
		"id":         encode.StringValue("CHEMBL1"),
		"fetched_at": encode.StringValue("2025-06-30"),
	}
	assert.NotEqual(t, RowHash(base), RowHash(other))
	assert.Equal(t, RowHash(base, "fetched_at"), RowHash(other, "fetched_at"))
}

func TestRowHashDistinguishesContent(t *testing.T) {
	a := encode.CanonicalRow{"id": encode.StringValue("CHEMBL1")}
	b := encode.CanonicalRow{"id": encode.StringValue("CHEMBL2")}
	assert.NotEqual(t, RowHash(a), RowHash(b))
}

func TestBusinessKeyHashOrderSignificant(t *testing.T) {
	row := encode.CanonicalRow{
		"id":   encode.StringValue("CHEMBL1"),
		"name": encode.StringValue("A"),
	}
	forward := BusinessKeyHash(row, []string{"id", "name"})
	reversed := BusinessKeyHash(row, []string{"name", "id"})

	assert.Regexp(t, hexHash, forward)
	assert.NotEqual(t, forward, reversed)
}

func TestBusinessKeyHashSubset(t *testing.T) {
	a := encode.CanonicalRow{
		"id":    encode.StringValue("CHEMBL1"),
		"extra": encode.StringValue("x"),
	}
	b := encode.CanonicalRow{
		"id":    encode.StringValue("CHEMBL1"),
		"extra": encode.StringValue("y"),
	}
	// Business key covers only id, so the hashes agree.
	assert.Equal(t, BusinessKeyHash(a, []string{"id"}), BusinessKeyHash(b, []string{"id"}))
}

func TestHashBoth(t *testing.T) {
	row := encode.CanonicalRow{
		"id":   encode.StringValue("CHEMBL1"),
		"name": encode.StringValue("A"),
	}
	h := Hash(row, []string{"id"})
	require.Regexp(t, hexHash, h.RowHash)
	require.Regexp(t, hexHash, h.BusinessKeyHash)

	// No business key configured: only the row hash is computed.
	h = Hash(row, nil)
	assert.Empty(t, h.BusinessKeyHash)
}

func TestNullDistinctFromEmptyString(t *testing.T) {
	withNull := encode.CanonicalRow{
		"id":   encode.StringValue("CHEMBL1"),
		"name": encode.NullValue,
	}
	withEmpty := encode.CanonicalRow{
		"id":   encode.StringValue("CHEMBL1"),
		"name": encode.StringValue(""),
	}
	// A field moving between "absent" (null) and "present but empty" is a
	// content change and must change the hash.
	assert.NotEqual(t, RowHash(withNull), RowHash(withEmpty))

	// A business-key column missing from the row hashes like a null one.
	missing := encode.CanonicalRow{"id": encode.StringValue("CHEMBL1")}
	cols := []string{"id", "name"}
	assert.Equal(t, BusinessKeyHash(missing, cols), BusinessKeyHash(withNull, cols))
	assert.NotEqual(t, BusinessKeyHash(missing, cols), BusinessKeyHash(withEmpty, cols))
}
