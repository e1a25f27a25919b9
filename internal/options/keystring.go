package options

import (
	"fmt"
	"strings"
)

// namedKeys is the subset of the key-string table (original_source/src/
// key_string.rs key_string_table) that names non-printable keys rather
// than mouse events; the mouse-key-name table and the full key-string <->
// key_code codec live in internal/format, which consumes ParseKeyString
// for binding lookups (spec §6).
var namedKeys = map[string]bool{
	"Up": true, "Down": true, "Left": true, "Right": true,
	"Home": true, "End": true, "NPage": true, "PPage": true,
	"IC": true, "DC": true, "BTab": true, "Space": true, "BSpace": true,
	"Tab": true, "Enter": true, "Escape": true,
}

func init() {
	for i := 1; i <= 20; i++ {
		namedKeys[fmt.Sprintf("F%d", i)] = true
	}
	for i := 0; i <= 9; i++ {
		namedKeys[fmt.Sprintf("KP%d", i)] = true
	}
}

// ParseKeyString validates one key-string token per spec §6: an optional
// run of C-/M-/S- modifier prefixes, followed by either a name from the
// named-key table or a single UTF-8 rune.
func ParseKeyString(s string) error {
	if s == "" {
		return fmt.Errorf("options: empty key string")
	}
	rest := s
	for len(rest) >= 2 && rest[1] == '-' {
		switch rest[0] {
		case 'C', 'M', 'S', 'c', 'm':
			rest = rest[2:]
		default:
			goto base
		}
	}
base:
	if rest == "" {
		return fmt.Errorf("options: key string %q has no base key", s)
	}
	if namedKeys[rest] {
		return nil
	}
	if n := len([]rune(rest)); n == 1 {
		return nil
	}
	return fmt.Errorf("options: unrecognized key %q in %q", rest, s)
}
