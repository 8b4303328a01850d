package lower

import (
	"fmt"
	"strings"
)

// Mode selects the rendering grammar.
type Mode uint8

const (
	// Concise approximates the surface syntax without added parentheses.
	Concise Mode = iota
	// Accurate parenthesizes every operand.
	Accurate
)

// Modes lists every rendering mode.
var Modes = []Mode{Concise, Accurate}

// Revision identifies the rendering rules. It changes whenever some tree renders
// differently, so cached output from older rules is never reused.
const Revision = 1

func (m Mode) String() string {
	switch m {
	case Concise:
		return "concise"
	case Accurate:
		return "accurate"
	default:
		return "unknown"
	}
}

// ParseMode converts a string to Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "concise":
		return Concise, nil
	case "accurate":
		return Accurate, nil
	default:
		return Concise, fmt.Errorf("invalid lowering mode %q (expected concise|accurate)", s)
	}
}
