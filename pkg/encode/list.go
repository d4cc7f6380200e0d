package encode

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/crestline-bio/chemtab/pkg/apperrors"
	"github.com/crestline-bio/chemtab/pkg/jsonutil"
)

// SimpleListEncode flattens a list of scalars into the pipe-delimited form
// `v1|v2|...|vn|` (trailing delimiter included). Nil elements render as
// empty. Nil, empty, and non-list input encode to the empty string, which
// distinguishes "no items" from "field absent" (explicit null).
func SimpleListEncode(items []any) string {
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for _, item := range items {
		if item != nil {
			s, _ := jsonutil.FlexibleString(item)
			b.WriteString(EscapeValue(s))
		}
		b.WriteString(fieldDelim)
	}
	return b.String()
}

// SimpleListDecode reverses SimpleListEncode. The empty string decodes to
// nil ("no items").
func SimpleListDecode(encoded string) []string {
	if encoded == "" {
		return nil
	}
	parts := SplitEscaped(encoded, fieldDelim[0])
	// Trailing delimiter yields one empty final part.
	if n := len(parts); n > 0 && parts[n-1] == "" {
		parts = parts[:n-1]
	}
	return parts
}

// ObjectArrayEncode flattens a list of objects into the header+rows form:
// the union of keys across all objects, sorted, joined by `|`, followed by
// one `|`-joined value segment per object, all segments joined by `/`.
// Missing keys render as empty. Nil or empty input encodes to the empty
// string. An element that is not an object is a malformed payload.
func ObjectArrayEncode(items []any) (string, error) {
	if len(items) == 0 {
		return "", nil
	}

	objects := make([]map[string]any, len(items))
	keySet := make(map[string]bool)
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return "", fmt.Errorf("%w: array element %d is %T, not an object", apperrors.ErrMalformedPayload, i, item)
		}
		objects[i] = obj
		for k := range obj {
			keySet[k] = true
		}
	}

	keys := make([]string, 0, len(keySet))
	for k := range keySet {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	segments := make([]string, 0, len(objects)+1)
	header := make([]string, len(keys))
	for i, k := range keys {
		header[i] = EscapeValue(k)
	}
	segments = append(segments, strings.Join(header, fieldDelim))

	for _, obj := range objects {
		values := make([]string, len(keys))
		for i, k := range keys {
			v, present := obj[k]
			if !present || v == nil {
				continue
			}
			s, _ := jsonutil.FlexibleString(v)
			values[i] = EscapeValue(s)
		}
		segments = append(segments, strings.Join(values, fieldDelim))
	}

	return strings.Join(segments, segmentDelim), nil
}

// coerceList turns a raw field value into a []any for the list encoders.
// JSON-encoded strings are parsed; a string that does not parse as JSON is
// a malformed payload. Other non-list values report ok=false so the caller
// can apply the "no items" encoding.
func coerceList(v any) (items []any, ok bool, err error) {
	switch val := v.(type) {
	case nil:
		return nil, false, nil
	case []any:
		return val, true, nil
	case string:
		var parsed any
		if uerr := json.Unmarshal([]byte(val), &parsed); uerr != nil {
			return nil, false, fmt.Errorf("%w: expected array, got unparseable string %q", apperrors.ErrMalformedPayload, truncate(val, 80))
		}
		if list, isList := parsed.([]any); isList {
			return list, true, nil
		}
		return nil, false, nil
	default:
		return nil, false, nil
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
