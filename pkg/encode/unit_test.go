package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crestline-bio/chemtab/pkg/entity"
)

func TestNormalizeUnit(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		wantOK   bool
		fallback string
	}{
		{name: "canonical passes", input: "nM", want: "nM", wantOK: true},
		{name: "case folds to canonical", input: "NM", want: "nM", wantOK: true},
		{name: "micro sign maps", input: "µM", want: "uM", wantOK: true},
		{name: "greek mu maps", input: "μM", want: "uM", wantOK: true},
		{name: "slash form maps", input: "ug/ml", want: "ug.mL-1", wantOK: true},
		{name: "molar concentration maps", input: "nmol/L", want: "nM", wantOK: true},
		{name: "spelled out maps", input: "micromolar", want: "uM", wantOK: true},
		{name: "dose per weight maps", input: "mg/kg", want: "mg.kg-1", wantOK: true},
		{name: "hours map", input: "hrs", want: "hr", wantOK: true},
		{name: "percent passes", input: "%", want: "%", wantOK: true},
		{name: "whitespace trimmed", input: " uM ", want: "uM", wantOK: true},
		{name: "unknown falls back", input: "bogus-unit-##", want: "nM", wantOK: false, fallback: "nM"},
		{name: "unknown with empty fallback", input: "furlongs", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeUnit(tt.input, tt.fallback)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNormalizeScalarCollectsUnknownUnits(t *testing.T) {
	diags := NewDiagnostics()
	rule := entity.ColumnRule{IsUnit: true}

	// No configured default: unrecognized units become explicit null.
	v := normalizeScalar("bogus-unit-##", rule, diags)
	assert.Equal(t, NullValue, v)

	v = normalizeScalar("furlongs", rule, diags)
	assert.Equal(t, NullValue, v)

	v = normalizeScalar("bogus-unit-##", rule, diags)
	assert.Equal(t, NullValue, v)

	assert.Equal(t, []string{"bogus-unit-##", "furlongs"}, diags.UnknownUnits())
	assert.Equal(t, 3, diags.UnknownUnitCount())
}

func TestNormalizeScalarUnitDefault(t *testing.T) {
	diags := NewDiagnostics()
	rule := entity.ColumnRule{IsUnit: true, DefaultUnit: "nM"}

	v := normalizeScalar("bogus-unit-##", rule, diags)
	assert.Equal(t, StringValue("nM"), v)
	assert.Equal(t, []string{"bogus-unit-##"}, diags.UnknownUnits())

	// Recognized units never touch the default or the diagnostics.
	v = normalizeScalar("ug/ml", rule, diags)
	assert.Equal(t, StringValue("ug.mL-1"), v)
	assert.Equal(t, 1, diags.UnknownUnitCount())
}
