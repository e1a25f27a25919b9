package format

import (
	"fmt"
	"strconv"
	"strings"
)

// maxDepth bounds recursive expansion (spec §4.8 "a recursion depth
// limit"), guarding against a format referencing itself through an
// option value.
const maxDepth = 16

// Expand expands every #{...} reference in tpl against tree (spec §4.8).
// Expansion is a pure function of (template, tree, options, environment,
// Tree.Now): identical inputs produce identical output (spec §4.8
// "Format expansion is a pure function").
func Expand(tpl string, tree *Tree) (string, error) {
	out, _, err := expand(tpl, tree, 0)
	return out, err
}

// expand scans s for "#{" / "#(" and literal text, returning the expanded
// result and the number of bytes consumed (always len(s) at top level;
// the consumed count matters only for the recursive brace-matching call).
func expand(s string, tree *Tree, depth int) (string, int, error) {
	if depth > maxDepth {
		return "", len(s), fmt.Errorf("format: recursion depth exceeded")
	}
	var out strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != '#' || i+1 >= len(s) {
			out.WriteByte(s[i])
			i++
			continue
		}
		switch s[i+1] {
		case '{':
			body, n, err := readBraced(s[i+1:])
			if err != nil {
				return "", 0, err
			}
			val, err := expandReference(body, tree, depth+1)
			if err != nil {
				return "", 0, err
			}
			out.WriteString(val)
			i += 1 + n
		case '(':
			body, n, err := readParened(s[i+1:])
			if err != nil {
				return "", 0, err
			}
			inner, _, err := expand(body, tree, depth+1)
			if err != nil {
				return "", 0, err
			}
			out.WriteString(runJob(tree, inner))
			i += 1 + n
		case '#':
			out.WriteByte('#')
			i += 2
		default:
			out.WriteByte('#')
			i++
		}
	}
	return out.String(), len(s), nil
}

// readBraced reads a balanced "{...}" starting at s[0]=='{', returning the
// interior (without braces) and the total bytes consumed including both
// braces.
func readBraced(s string) (string, int, error) {
	return readBalanced(s, '{', '}')
}

func readParened(s string) (string, int, error) {
	return readBalanced(s, '(', ')')
}

func readBalanced(s string, open, close byte) (string, int, error) {
	if len(s) == 0 || s[0] != open {
		return "", 0, fmt.Errorf("format: expected %q", open)
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[1:i], i + 1, nil
			}
		}
	}
	return "", 0, fmt.Errorf("format: unterminated %q...%q", open, close)
}

// splitTopLevel splits s on sep, ignoring separators nested inside
// #{...}/#(...)/ balanced parens that appear within an argument (spec
// §4.8's conditional/comparison/loop operators all take comma-separated
// operands that may themselves contain nested references).
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{', '(':
			depth++
		case '}', ')':
			depth--
		default:
			if s[i] == sep && depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// expandReference expands the interior of one #{...}: an optional chain
// of modifier letters / operator, a ':' or operand list, and a key or
// nested template (spec §4.8).
func expandReference(body string, tree *Tree, depth int) (string, error) {
	if loopVal, handled, err := tryLoop(body, tree, depth); handled {
		return loopVal, err
	}
	if condVal, handled, err := tryConditional(body, tree, depth); handled {
		return condVal, err
	}
	if cmpVal, handled, err := tryComparison(body, tree, depth); handled {
		return cmpVal, err
	}
	if arithVal, handled, err := tryArithmetic(body, tree, depth); handled {
		return arithVal, err
	}

	idx := strings.IndexByte(body, ':')
	if idx < 0 {
		return expandSimple(body, tree, depth)
	}
	head, rest := body[:idx], body[idx+1:]
	if val, handled, err := applyModifierChain(head, rest, tree, depth); handled {
		return val, err
	}
	// head wasn't a recognized modifier — body is a plain key/template
	// that happens to contain a literal ':' (e.g. "pane_start_command").
	return expandSimple(body, tree, depth)
}

// expandSimple expands rest as either a nested "#{...}" template (if it
// contains one) or a bare key name looked up via Tree.resolveKey.
func expandSimple(rest string, tree *Tree, depth int) (string, error) {
	if strings.Contains(rest, "#{") || strings.Contains(rest, "#(") {
		out, _, err := expand(rest, tree, depth)
		return out, err
	}
	return tree.resolveKey(rest), nil
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}
