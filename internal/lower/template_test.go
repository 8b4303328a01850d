package lower

import "testing"

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name     string
		template string
		sections []string
		want     string
	}{
		{"no placeholders", "plain text", nil, "plain text"},
		{"single", "Hello {0}!", []string{"{name}"}, "Hello {name}!"},
		{"ordered", "{0} and {1}", []string{"a", "b"}, "a and b"},
		{"reordered", "{1}-{0}", []string{"a", "b"}, "b-a"},
		{"repeated", "{0}{0}", []string{"x"}, "xx"},
		{"unrelated braces", "{ {0} } {x}", []string{"v"}, "{ v } {x}"},
		{"out of range", "{0} {3}", []string{"a"}, "a {3}"},
		{"empty braces", "{}", []string{"a"}, "{}"},
		{"leading zero", "{01}", []string{"a", "b"}, "b"},
		{"section with placeholder text", "{0} {1}", []string{"{1}", "z"}, "{1} z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Substitute(tt.template, tt.sections); got != tt.want {
				t.Fatalf("Substitute(%q) = %q, want %q", tt.template, got, tt.want)
			}
		})
	}
}
