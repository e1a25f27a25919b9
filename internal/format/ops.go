package format

import (
	"fmt"
	"strconv"
	"strings"
)

// tryConditional implements "#{?cond,then,else}" (spec §4.8, spec §8
// scenario 4). cond is itself expanded, then treated as false if it is
// "" or "0", true otherwise (tmux's usual truthiness rule).
func tryConditional(body string, tree *Tree, depth int) (string, bool, error) {
	if !strings.HasPrefix(body, "?") {
		return "", false, nil
	}
	args := splitTopLevel(body[1:], ',')
	if len(args) != 3 {
		return "", true, fmt.Errorf("format: ?cond,then,else wants 3 parts, got %d", len(args))
	}
	cond, _, err := expand(args[0], tree, depth)
	if err != nil {
		return "", true, err
	}
	branch := args[2]
	if cond != "" && cond != "0" {
		branch = args[1]
	}
	out, _, err := expand(branch, tree, depth)
	return out, true, err
}

var comparisonOps = []string{"==", "!=", "<=", ">=", "&&", "||", "<", ">"}

// tryComparison implements the logical/comparison operators: "op:a,b"
// where op is one of spec §4.8's "|| && == != < > <= >=". && and ||
// treat their operands as the conditional truthiness rule above; the
// rest compare numerically if both sides parse as numbers, lexically
// otherwise.
func tryComparison(body string, tree *Tree, depth int) (string, bool, error) {
	for _, op := range comparisonOps {
		rest, ok := strings.CutPrefix(body, op+":")
		if !ok {
			continue
		}
		args := splitTopLevel(rest, ',')
		if len(args) != 2 {
			return "", true, fmt.Errorf("format: %s:a,b wants 2 parts, got %d", op, len(args))
		}
		a, _, err := expand(args[0], tree, depth)
		if err != nil {
			return "", true, err
		}
		b, _, err := expand(args[1], tree, depth)
		if err != nil {
			return "", true, err
		}
		return boolStr(compare(op, a, b)), true, nil
	}
	return "", false, nil
}

func compare(op, a, b string) bool {
	if op == "&&" {
		return a != "" && a != "0" && b != "" && b != "0"
	}
	if op == "||" {
		return a != "" && a != "0" || b != "" && b != "0"
	}
	an, aok := strconv.ParseFloat(a, 64)
	bn, bok := strconv.ParseFloat(b, 64)
	if aok == nil && bok == nil {
		switch op {
		case "==":
			return an == bn
		case "!=":
			return an != bn
		case "<":
			return an < bn
		case ">":
			return an > bn
		case "<=":
			return an <= bn
		case ">=":
			return an >= bn
		}
	}
	switch op {
	case "==":
		return a == b
	case "!=":
		return a != b
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	}
	return false
}

// tryArithmetic implements "e|op|[f][prec]:a,b" (spec §4.8 arithmetic
// with optional float mode and precision).
func tryArithmetic(body string, tree *Tree, depth int) (string, bool, error) {
	if !strings.HasPrefix(body, "e|") {
		return "", false, nil
	}
	rest := body[2:]
	barIdx := strings.IndexByte(rest, '|')
	if barIdx < 0 {
		return "", true, fmt.Errorf("format: malformed e|op|... arithmetic expression")
	}
	op := rest[:barIdx]
	rest = rest[barIdx+1:]
	colonIdx := strings.IndexByte(rest, ':')
	if colonIdx < 0 {
		return "", true, fmt.Errorf("format: e|op|flags:a,b missing operands")
	}
	flags := rest[:colonIdx]
	operands := rest[colonIdx+1:]
	floatMode := strings.Contains(flags, "f")
	prec := 0
	for _, c := range flags {
		if c >= '0' && c <= '9' {
			prec = prec*10 + int(c-'0')
		}
	}

	args := splitTopLevel(operands, ',')
	if len(args) != 2 {
		return "", true, fmt.Errorf("format: e|op|...:a,b wants 2 parts, got %d", len(args))
	}
	aStr, _, err := expand(args[0], tree, depth)
	if err != nil {
		return "", true, err
	}
	bStr, _, err := expand(args[1], tree, depth)
	if err != nil {
		return "", true, err
	}
	a, aerr := strconv.ParseFloat(aStr, 64)
	b, berr := strconv.ParseFloat(bStr, 64)
	if aerr != nil || berr != nil {
		return "", true, fmt.Errorf("format: e|%s| operands must be numeric, got %q, %q", op, aStr, bStr)
	}

	var result float64
	switch op {
	case "+":
		result = a + b
	case "-":
		result = a - b
	case "*":
		result = a * b
	case "/":
		if b == 0 {
			return "", true, fmt.Errorf("format: e|/| division by zero")
		}
		result = a / b
	case "%":
		if b == 0 {
			return "", true, fmt.Errorf("format: e|%%| division by zero")
		}
		result = float64(int64(a) % int64(b))
	case "==":
		return boolStr(a == b), true, nil
	case "!=":
		return boolStr(a != b), true, nil
	case "<":
		return boolStr(a < b), true, nil
	case ">":
		return boolStr(a > b), true, nil
	case "<=":
		return boolStr(a <= b), true, nil
	case ">=":
		return boolStr(a >= b), true, nil
	default:
		return "", true, fmt.Errorf("format: unknown arithmetic operator %q", op)
	}
	if floatMode {
		return strconv.FormatFloat(result, 'f', prec, 64), true, nil
	}
	return fmt.Sprintf("%d", int64(result)), true, nil
}
