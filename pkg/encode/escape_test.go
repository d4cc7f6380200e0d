package encode

import "testing"

func TestEscapeRoundTrip(t *testing.T) {
	values := []string{
		"",
		"plain",
		"pipe|inside",
		`back\slash`,
		"slash/inside",
		`all\of|them/at once`,
		`\\already escaped`,
		"trailing|",
	}

	for _, v := range values {
		if got := UnescapeValue(EscapeValue(v)); got != v {
			t.Errorf("round trip of %q: got %q", v, got)
		}
	}
}

func TestSplitEscaped(t *testing.T) {
	tests := []struct {
		name  string
		input string
		delim byte
		want  []string
	}{
		{
			name:  "plain split",
			input: "a|b|c",
			delim: '|',
			want:  []string{"a", "b", "c"},
		},
		{
			name:  "escaped delimiter stays literal",
			input: `a\|b|c`,
			delim: '|',
			want:  []string{"a|b", "c"},
		},
		{
			name:  "escaped backslash",
			input: `a\\|b`,
			delim: '|',
			want:  []string{`a\`, "b"},
		},
		{
			name:  "trailing delimiter yields empty part",
			input: "a|",
			delim: '|',
			want:  []string{"a", ""},
		},
		{
			name:  "empty input",
			input: "",
			delim: '|',
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitEscaped(tt.input, tt.delim)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d parts %v, want %d parts %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("part %d: got %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
