package encode

import "strings"

// Delimiters used by the flat-string encodings. Values have these escaped
// before joining so the encoded form can be split back unambiguously.
const (
	fieldDelim   = "|"
	segmentDelim = "/"
	escapeChar   = '\\'
)

var valueEscaper = strings.NewReplacer(
	`\`, `\\`,
	`|`, `\|`,
	`/`, `\/`,
)

// EscapeValue escapes the literal delimiter and escape characters in v.
func EscapeValue(v string) string {
	return valueEscaper.Replace(v)
}

// UnescapeValue reverses EscapeValue.
func UnescapeValue(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	escaped := false
	for _, r := range v {
		if escaped {
			b.WriteRune(r)
			escaped = false
			continue
		}
		if r == escapeChar {
			escaped = true
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SplitEscaped splits s on the unescaped occurrences of delim and unescapes
// each piece, reversing the joins performed by the encoders.
func SplitEscaped(s string, delim byte) []string {
	if s == "" {
		return nil
	}
	var parts []string
	var b strings.Builder
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if escaped {
			b.WriteByte(c)
			escaped = false
			continue
		}
		switch c {
		case byte(escapeChar):
			escaped = true
		case delim:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	parts = append(parts, b.String())
	return parts
}
