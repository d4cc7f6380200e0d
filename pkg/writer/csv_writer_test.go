package writer

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crestline-bio/chemtab/pkg/encode"
	"github.com/crestline-bio/chemtab/pkg/hashing"
)

func TestCSVWriterDeterministicOutput(t *testing.T) {
	rows := []hashing.HashedRow{
		{
			Row: encode.CanonicalRow{
				"id":   encode.StringValue("CHEMBL1"),
				"name": encode.StringValue("Aspirin"),
			},
			RowHash:         "aaa",
			BusinessKeyHash: "bbb",
		},
		{
			Row: encode.CanonicalRow{
				"id":   encode.StringValue("CHEMBL2"),
				"name": encode.NullValue,
			},
			RowHash: "ccc",
		},
	}

	write := func() string {
		var buf bytes.Buffer
		w := NewCSVWriter(&buf, []string{"name", "id"})
		require.NoError(t, w.WriteRows(rows))
		require.NoError(t, w.Flush())
		return buf.String()
	}

	first := write()
	second := write()
	assert.Equal(t, first, second, "repeated runs produce byte-identical files")

	records, err := csv.NewReader(bytes.NewReader([]byte(first))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"id", "name", "row_hash", "business_key_hash"}, records[0])
	assert.Equal(t, []string{"CHEMBL1", "Aspirin", "aaa", "bbb"}, records[1])
	assert.Equal(t, []string{"CHEMBL2", "", "ccc", ""}, records[2])
}

func TestCSVWriterHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf, []string{"id"})

	row := hashing.HashedRow{Row: encode.CanonicalRow{"id": encode.StringValue("X")}, RowHash: "h"}
	require.NoError(t, w.WriteRows([]hashing.HashedRow{row}))
	require.NoError(t, w.WriteRows([]hashing.HashedRow{row}))
	require.NoError(t, w.Flush())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3, "one header plus two rows")
}
