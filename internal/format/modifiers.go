package format

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/vtmux/vtmux/internal/grid"
	"github.com/vtmux/vtmux/internal/options"
)

// applyModifierChain recognizes and applies the one modifier named by
// head to the (already expanded) value produced by expanding rest, per
// the modifier table in spec §4.8. "l" is special-cased before this is
// reached: it must see rest's raw, unexpanded text.
func applyModifierChain(head, rest string, tree *Tree, depth int) (string, bool, error) {
	switch {
	case head == "l":
		return rest, true, nil
	case head == "b" || head == "d":
		val, err := expandReference(rest, tree, depth)
		if err != nil {
			return "", true, err
		}
		if head == "b" {
			return filepath.Base(val), true, nil
		}
		return filepath.Dir(val), true, nil
	case head == "n" || head == "w":
		val, err := expandReference(rest, tree, depth)
		if err != nil {
			return "", true, err
		}
		if head == "n" {
			return fmt.Sprintf("%d", len([]rune(val))), true, nil
		}
		return fmt.Sprintf("%d", grid.StringWidth(val)), true, nil
	case head == "a":
		val, err := expandReference(rest, tree, depth)
		if err != nil {
			return "", true, err
		}
		if n, ok := parseInt(val); ok {
			return string(rune(n)), true, nil
		}
		return val, true, nil
	case head == "c":
		val, err := expandReference(rest, tree, depth)
		if err != nil {
			return "", true, err
		}
		col, cerr := options.ParseColour(val)
		if cerr != nil {
			return val, true, nil
		}
		return col.String(), true, nil
	case head == "E" || head == "T":
		val, err := expandReference(rest, tree, depth)
		if err != nil {
			return "", true, err
		}
		out, _, err := expand(val, tree, depth+1)
		if err != nil {
			return "", true, err
		}
		return out, true, nil
	case head == "t" || strings.HasPrefix(head, "t/"):
		val, err := expandReference(rest, tree, depth)
		if err != nil {
			return "", true, err
		}
		return formatTimestamp(head, val), true, nil
	case strings.HasPrefix(head, "q"):
		val, err := expandReference(rest, tree, depth)
		if err != nil {
			return "", true, err
		}
		return quoteFor(head, val), true, nil
	case strings.HasPrefix(head, "p"):
		n, ok := parseInt(strings.TrimPrefix(head, "p"))
		if !ok {
			return "", false, nil
		}
		val, err := expandReference(rest, tree, depth)
		if err != nil {
			return "", true, err
		}
		return padTo(val, n), true, nil
	case strings.HasPrefix(head, "="):
		val, err := expandReference(rest, tree, depth)
		if err != nil {
			return "", true, err
		}
		return truncate(head[1:], val, true), true, nil
	case strings.HasPrefix(head, ">"):
		val, err := expandReference(rest, tree, depth)
		if err != nil {
			return "", true, err
		}
		return truncate(head[1:], val, false), true, nil
	case head != "" && isDigitModifier(head):
		val, err := expandReference(rest, tree, depth)
		if err != nil {
			return "", true, err
		}
		return truncate(head, val, false), true, nil
	case strings.HasPrefix(head, "s"):
		return applySubstitute(head, rest, tree, depth)
	case strings.HasPrefix(head, "m"):
		return applyMatch(head, rest, tree, depth)
	case strings.HasPrefix(head, "C"):
		return applySearch(head, rest, tree, depth)
	}
	return "", false, nil
}

func isDigitModifier(s string) bool {
	_, ok := parseInt(s)
	return ok
}

func padTo(val string, n int) string {
	if len([]rune(val)) >= n {
		return val
	}
	return val + strings.Repeat(" ", n-len([]rune(val)))
}

// truncate implements spec §4.8's "=<n>[/mark] / <n>[/mark] / >..." family:
// left (fromLeft=true, "=n") keeps the first n runes, right ("n" or
// ">n") keeps the last n runes; either appends /mark (default "...") if
// truncation actually happened.
func truncate(arg string, val string, fromLeft bool) string {
	nStr, mark, hasMark := strings.Cut(arg, "/")
	if !hasMark {
		mark = "..."
	}
	n, ok := parseInt(nStr)
	if !ok || n < 0 {
		return val
	}
	r := []rune(val)
	if len(r) <= n {
		return val
	}
	if fromLeft {
		return string(r[:n]) + mark
	}
	return mark + string(r[len(r)-n:])
}

func quoteFor(head, val string) string {
	switch head {
	case "qe":
		return strings.NewReplacer("$", "\\$", "`", "\\`", "\"", "\\\"").Replace(val)
	case "qh":
		return strings.ReplaceAll(val, ";", "\\;")
	case "qs", "qS":
		if strings.ContainsAny(val, " ,=") {
			return "\"" + strings.ReplaceAll(val, "\"", "\\\"") + "\""
		}
		return val
	default: // "q": shell quoting
		return "'" + strings.ReplaceAll(val, "'", `'\''`) + "'"
	}
}

func formatTimestamp(head, val string) string {
	sec, err := strconv.ParseInt(val, 10, 64)
	var ts time.Time
	if err != nil {
		ts = time.Now()
	} else {
		ts = time.Unix(sec, 0)
	}
	switch {
	case head == "t" || head == "t/p":
		return ts.Format("Mon Jan  2 15:04:05 2006")
	case strings.HasPrefix(head, "t/f/"):
		return strftime(ts, strings.TrimPrefix(head, "t/f/"))
	default:
		return ts.Format(time.RFC3339)
	}
}

// strftime implements the handful of strftime verbs needed for the /f
// timestamp modifier (spec §4.8 "format a timestamp (pretty or strftime)").
func strftime(t time.Time, layout string) string {
	r := strings.NewReplacer(
		"%Y", fmt.Sprintf("%04d", t.Year()),
		"%m", fmt.Sprintf("%02d", int(t.Month())),
		"%d", fmt.Sprintf("%02d", t.Day()),
		"%H", fmt.Sprintf("%02d", t.Hour()),
		"%M", fmt.Sprintf("%02d", t.Minute()),
		"%S", fmt.Sprintf("%02d", t.Second()),
		"%%", "%",
	)
	return r.Replace(layout)
}

// applySubstitute implements "s/pattern/replacement/flags:value" (spec
// §4.8 "substitute (optionally regex, optionally case-insensitive)").
// head carries everything up to (but not including) the ':' that
// expandReference already cut at, so head itself holds "s/pat/repl/flags".
func applySubstitute(head, rest string, tree *Tree, depth int) (string, bool, error) {
	parts := strings.Split(head, "/")
	if len(parts) < 3 {
		return "", false, nil
	}
	pattern, repl, flags := parts[1], parts[2], ""
	if len(parts) > 3 {
		flags = parts[3]
	}
	val, err := expandReference(rest, tree, depth)
	if err != nil {
		return "", true, err
	}
	if !strings.Contains(flags, "r") {
		if strings.Contains(flags, "i") {
			return "", true, fmt.Errorf("format: s///i without r requires a literal case-insensitive substitute, not yet supported")
		}
		if strings.Contains(flags, "g") {
			return strings.ReplaceAll(val, pattern, repl), true, nil
		}
		return strings.Replace(val, pattern, repl, 1), true, nil
	}
	expr := pattern
	if strings.Contains(flags, "i") {
		expr = "(?i)" + expr
	}
	re, rerr := regexp.Compile(expr)
	if rerr != nil {
		return "", true, fmt.Errorf("format: invalid regex %q: %w", pattern, rerr)
	}
	if strings.Contains(flags, "g") {
		return re.ReplaceAllString(val, repl), true, nil
	}
	found := false
	out := re.ReplaceAllStringFunc(val, func(m string) string {
		if found {
			return m
		}
		found = true
		return re.ReplaceAllString(m, repl)
	})
	return out, true, nil
}

// applyMatch implements "m[ir]/pattern/:value" (spec §4.8 "fnmatch or
// regex match"): 'r' selects regex matching, otherwise shell-glob
// (filepath.Match semantics) matching; 'i' folds case.
func applyMatch(head, rest string, tree *Tree, depth int) (string, bool, error) {
	body := strings.TrimPrefix(head, "m")
	var flags string
	for len(body) > 0 && (body[0] == 'i' || body[0] == 'r') {
		flags += string(body[0])
		body = body[1:]
	}
	if len(body) < 2 || body[0] != '/' {
		return "", false, nil
	}
	end := strings.IndexByte(body[1:], '/')
	if end < 0 {
		return "", false, nil
	}
	pattern := body[1 : 1+end]
	val, err := expandReference(rest, tree, depth)
	if err != nil {
		return "", true, err
	}
	if strings.Contains(flags, "r") {
		expr := pattern
		if strings.Contains(flags, "i") {
			expr = "(?i)" + expr
		}
		re, rerr := regexp.Compile(expr)
		if rerr != nil {
			return "", true, fmt.Errorf("format: invalid regex %q: %w", pattern, rerr)
		}
		return boolStr(re.MatchString(val)), true, nil
	}
	needle, hay := pattern, val
	if strings.Contains(flags, "i") {
		needle, hay = strings.ToLower(needle), strings.ToLower(hay)
	}
	ok, merr := filepath.Match(needle, hay)
	if merr != nil {
		return "", true, fmt.Errorf("format: invalid pattern %q: %w", pattern, merr)
	}
	return boolStr(ok), true, nil
}

// applySearch implements "C/pattern/" (spec §4.8 "search pane text"):
// returns "1" if pattern appears anywhere in the current pane's visible
// screen text, "0" otherwise (rest is ignored; the target is always the
// tree's current pane).
func applySearch(head, rest string, tree *Tree, depth int) (string, bool, error) {
	body := strings.TrimPrefix(head, "C")
	if len(body) < 2 || body[0] != '/' {
		return "", false, nil
	}
	end := strings.IndexByte(body[1:], '/')
	if end < 0 {
		return "", false, nil
	}
	pattern := body[1 : 1+end]
	_ = rest
	if tree.Pane == nil {
		return "0", true, nil
	}
	text := paneVisibleText(tree.Pane)
	return boolStr(strings.Contains(text, pattern)), true, nil
}
