package lower

import (
	"strconv"
	"strings"

	"github.com/coregx/coregex"
)

var placeholderPattern = mustCompile(`\{[0-9]+\}`)

func mustCompile(pattern string) *coregex.Regexp {
	re, err := coregex.Compile(pattern)
	if err != nil {
		panic(err)
	}
	return re
}

// Substitute replaces every {i} in template with sections[i]. Placeholders whose index is
// out of range and all other text, braces included, are kept verbatim.
func Substitute(template string, sections []string) string {
	if !strings.Contains(template, "{") {
		return template
	}
	return placeholderPattern.ReplaceAllStringFunc(template, func(m string) string {
		idx, err := strconv.Atoi(m[1 : len(m)-1])
		if err != nil || idx >= len(sections) {
			return m
		}
		return sections[idx]
	})
}
