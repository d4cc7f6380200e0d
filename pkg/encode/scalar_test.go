package encode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crestline-bio/chemtab/pkg/entity"
)

func TestNormalizeRelation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		wantOK   bool
		fallback string
	}{
		{name: "equals passes", input: "=", want: "=", wantOK: true},
		{name: "less-equal passes", input: "<=", want: "<=", wantOK: true},
		{name: "unicode le maps", input: "≤", want: "<=", wantOK: true},
		{name: "unicode ge maps", input: "≧", want: ">=", wantOK: true},
		{name: "reversed le maps", input: "=<", want: "<=", wantOK: true},
		{name: "double equals maps", input: "==", want: "=", wantOK: true},
		{name: "approx maps to tilde", input: "≈", want: "~", wantOK: true},
		{name: "whitespace trimmed", input: " > ", want: ">", wantOK: true},
		{name: "unknown falls back", input: "!=", want: "=", wantOK: false, fallback: "="},
		{name: "garbage falls back", input: "wat", want: "=", wantOK: false, fallback: "="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeRelation(tt.input, tt.fallback)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestNormalizeString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		mode entity.CaseMode
		want string
	}{
		{name: "trims and collapses whitespace", in: "  a   b\t c  ", mode: entity.CaseNone, want: "a b c"},
		{name: "upper for identifiers", in: "chembl25", mode: entity.CaseUpper, want: "CHEMBL25"},
		{name: "title for names", in: "aspirin  SODIUM", mode: entity.CaseTitle, want: "Aspirin Sodium"},
		{name: "free text untouched", in: "As-Is Text", mode: entity.CaseNone, want: "As-Is Text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeString(tt.in, tt.mode))
		})
	}
}

func TestNormalizeNumeric(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{name: "float fixed precision", in: 37.0, want: StringValue("37.000000")},
		{name: "fraction", in: 0.5, want: StringValue("0.500000")},
		{name: "numeric string", in: "12.25", want: StringValue("12.250000")},
		{name: "integer", in: 42, want: StringValue("42.000000")},
		{name: "NaN is null", in: math.NaN(), want: NullValue},
		{name: "infinity is null", in: math.Inf(1), want: NullValue},
		{name: "empty string is null", in: "", want: NullValue},
		{name: "unparseable is null", in: "12 nM", want: NullValue},
		{name: "nil is null", in: nil, want: NullValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeNumeric(tt.in))
		})
	}
}

func TestNormalizeScalarCollectsUnknownRelations(t *testing.T) {
	diags := NewDiagnostics()
	rule := entity.ColumnRule{IsRelation: true, DefaultRelation: "="}

	v := normalizeScalar("!=", rule, diags)
	assert.Equal(t, StringValue("="), v)

	v = normalizeScalar("!=", rule, diags)
	assert.Equal(t, StringValue("="), v)

	v = normalizeScalar("between", rule, diags)
	assert.Equal(t, StringValue("="), v)

	assert.Equal(t, []string{"!=", "between"}, diags.UnknownRelations())
	assert.Equal(t, 3, diags.UnknownRelationCount())
}
