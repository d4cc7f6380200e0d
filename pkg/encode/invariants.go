package encode

import (
	"fmt"
	"strings"

	"github.com/crestline-bio/chemtab/pkg/apperrors"
	"github.com/crestline-bio/chemtab/pkg/jsonutil"
)

// exclusivePairs lists the field pairs where at most one side may be
// populated within a single parameter record.
var exclusivePairs = [][2]string{
	{"value", "text_value"},
	{"standard_value", "standard_text_value"},
}

// InvariantError aggregates every invariant violation found in one row, so
// a failing row reports its complete set of problems at once.
type InvariantError struct {
	RecordID   string
	Violations []string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("TRUV invariant violation in record %q: %s",
		e.RecordID, strings.Join(e.Violations, "; "))
}

// Unwrap lets callers match with errors.Is(err, apperrors.ErrInvariantViolation).
func (e *InvariantError) Unwrap() error {
	return apperrors.ErrInvariantViolation
}

// CheckParamInvariants inspects one parameter-bearing object and returns
// every violation found: populated value/text_value (or standard_*)
// exclusivity, and an active flag outside {0, 1, null}.
func CheckParamInvariants(obj map[string]any) []string {
	var violations []string

	for _, pair := range exclusivePairs {
		if populated(obj[pair[0]]) && populated(obj[pair[1]]) {
			violations = append(violations,
				fmt.Sprintf("exactly one of %s/%s may be populated, got both", pair[0], pair[1]))
		}
	}

	if active, present := obj["active"]; present && active != nil {
		if f, ok := jsonutil.FlexibleFloat(active); !ok || (f != 0 && f != 1) {
			violations = append(violations,
				fmt.Sprintf("active flag must be one of {0, 1, null}, got %v", active))
		}
	}

	return violations
}

// populated reports whether a field carries a value: nil and empty strings
// do not count.
func populated(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return true
}
