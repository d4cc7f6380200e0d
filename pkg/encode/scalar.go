package encode

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/crestline-bio/chemtab/pkg/entity"
	"github.com/crestline-bio/chemtab/pkg/jsonutil"
)

// floatPrecision is the fixed decimal precision for rendered numeric
// values, required for hash stability across runs.
const floatPrecision = 6

// relationAliases maps non-canonical relation operator spellings to their
// canonical form before whitelist validation.
var relationAliases = map[string]string{
	"≤":  "<=",
	"≦":  "<=",
	"=<": "<=",
	"≥":  ">=",
	"≧":  ">=",
	"=>": ">=",
	"==": "=",
	"~=": "~",
	"≈":  "~",
}

// canonicalRelations is the whitelist of accepted relation operators.
var canonicalRelations = map[string]bool{
	"=":  true,
	"<":  true,
	">":  true,
	"<=": true,
	">=": true,
	"~":  true,
}

// NormalizeRelation maps a relation operator through the alias table and
// validates it against the whitelist. Unrecognized values fall back to
// fallback and are reported via ok=false so callers can aggregate the
// distinct unknown values instead of failing the row.
func NormalizeRelation(raw, fallback string) (value string, ok bool) {
	rel := strings.TrimSpace(raw)
	if alias, found := relationAliases[rel]; found {
		rel = alias
	}
	if canonicalRelations[rel] {
		return rel, true
	}
	return fallback, false
}

// NormalizeString trims, collapses internal whitespace runs to a single
// space, and applies the configured case fold.
func NormalizeString(s string, mode entity.CaseMode) string {
	fields := strings.Fields(s)
	out := strings.Join(fields, " ")
	switch mode {
	case entity.CaseUpper:
		return strings.ToUpper(out)
	case entity.CaseTitle:
		return titleCase(out)
	default:
		return out
	}
}

// titleCase upper-cases the first letter of each space-separated word and
// lower-cases the rest.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	atStart := true
	for _, r := range s {
		switch {
		case r == ' ':
			atStart = true
			b.WriteRune(r)
		case atStart:
			b.WriteRune(unicode.ToUpper(r))
			atStart = false
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// NormalizeNumeric renders a numeric value with fixed precision. NaN,
// infinities, empty, and unparseable inputs map to explicit null.
func NormalizeNumeric(v any) Value {
	f, ok := jsonutil.FlexibleFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return NullValue
	}
	return StringValue(strconv.FormatFloat(f, 'f', floatPrecision, 64))
}

// normalizeScalar applies the full scalar normalization for a column rule.
// diags collects unknown relation and unit values. Absent or null input
// maps to explicit null.
func normalizeScalar(v any, rule entity.ColumnRule, diags *Diagnostics) Value {
	if v == nil {
		return NullValue
	}
	if rule.Numeric {
		return NormalizeNumeric(v)
	}
	s, ok := jsonutil.FlexibleString(v)
	if !ok {
		return NullValue
	}
	s = NormalizeString(s, rule.Case)
	if s == "" {
		return NullValue
	}
	if rule.IsRelation {
		rel, known := NormalizeRelation(s, rule.DefaultRelation)
		if !known && diags != nil {
			diags.UnknownRelation(s)
		}
		return StringValue(rel)
	}
	if rule.IsUnit {
		u, known := NormalizeUnit(s, rule.DefaultUnit)
		if !known && diags != nil {
			diags.UnknownUnit(s)
		}
		if u == "" {
			return NullValue
		}
		return StringValue(u)
	}
	return StringValue(s)
}
