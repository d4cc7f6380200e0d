package encode

// RawRecord is one upstream record as deserialized from JSON: values may be
// scalars, lists of scalars, lists of objects, or nested objects.
type RawRecord map[string]any

// Value is a canonical column value: a string, or an explicit null for
// fields that were absent or had no canonical scalar form.
type Value struct {
	String string
	Null   bool
}

// NullValue is the explicit-null column value.
var NullValue = Value{Null: true}

// StringValue wraps s as a non-null canonical value.
func StringValue(s string) Value {
	return Value{String: s}
}

// CanonicalRow maps output column names to canonical values. Building it is
// a pure function of the raw record's logical content: the same content
// always yields a byte-identical row regardless of upstream key order.
type CanonicalRow map[string]Value
