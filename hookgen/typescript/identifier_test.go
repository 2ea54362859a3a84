package typescript

import (
	"testing"
)

func TestTypeName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "_"},
		{"123abc", "_123abc"},
		{"my-type", "my_type"},
		{"User.Profile", "User_Profile"},
		{"a/b", "a_b"},
		{"interface", "interface_"},
		{"ValidName", "ValidName"},
		{"$dollar", "$dollar"},
		{"café", "café"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := TypeName(tt.input); got != tt.want {
				t.Errorf("TypeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestPropertyKeyAndMember(t *testing.T) {
	tests := []struct {
		input  string
		key    string
		member string
	}{
		{"id", "id", ".id"},
		{"default", "default", ".default"},
		{"my-field", "'my-field'", "['my-field']"},
		{":id", "':id'", "[':id']"},
		{"@me", "'@me'", "['@me']"},
		{"1st", "'1st'", "['1st']"},
		{"$get", "$get", ".$get"},
		{"", "''", "['']"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := PropertyKey(tt.input); got != tt.key {
				t.Errorf("PropertyKey(%q) = %q, want %q", tt.input, got, tt.key)
			}
			if got := Member(tt.input); got != tt.member {
				t.Errorf("Member(%q) = %q, want %q", tt.input, got, tt.member)
			}
		})
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", `'plain'`},
		{"it's", `'it\'s'`},
		{`back\slash`, `'back\\slash'`},
		{"line\nbreak", `'line\nbreak'`},
		{"tab\there", `'tab\there'`},
		{"bell\a", `'bell\x07'`},
		{"sep\u2028x", `'sep\u2028x'`},
	}
	for _, tt := range tests {
		if got := Quote(tt.input); got != tt.want {
			t.Errorf("Quote(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{nil, "null"},
		{"x", "'x'"},
		{true, "true"},
		{42, "42"},
		{int64(-7), "-7"},
		{2.5, "2.5"},
		{1e21, "1e+21"},
		{[]any{"a", 1}, `["a",1]`},
		{map[string]any{"b": 1, "a": []any{true}}, `{"a":[true],"b":1}`},
		{map[any]any{"k": "v"}, `{"k":"v"}`},
	}
	for _, tt := range tests {
		if got := Literal(tt.input); got != tt.want {
			t.Errorf("Literal(%v) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
