package format

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyMod is a bitmask of the modifier keys a KeyCode carries, ORed into
// the code's high bits (spec §6 key-string grammar, ported from
// original_source/src/key_string.rs).
type KeyMod uint32

const (
	ModCtrl KeyMod = 1 << 24
	ModMeta KeyMod = 1 << 25
	ModShift KeyMod = 1 << 26
)

const modMask = ModCtrl | ModMeta | ModShift

// KeyCode packs a base key (a rune, a namedKeyCodes entry, or a
// mouseKeyCodes entry) with its modifier bits.
type KeyCode uint32

// namedKeyCodes assigns each non-mouse named key from original_source/src/
// key_string.rs's key_string_table a stable base code above the Unicode
// range, so named keys never collide with a literal rune.
var namedKeyCodes = map[string]KeyCode{}
var namedKeyNames = map[KeyCode]string{}

const namedKeyBase KeyCode = 0x110000 // above max valid Unicode code point

func registerNamed(names ...string) {
	for _, name := range names {
		code := namedKeyBase + KeyCode(len(namedKeyCodes))
		namedKeyCodes[name] = code
		namedKeyNames[code] = name
	}
}

// mouseKeyCodes is the mouse key name table from spec.md §6:
// "Mouse{Down,Up,Drag,DragEnd,SecondClick,DoubleClick,TripleClick}
// {1,2,3,6,7,8,9,10,11}{Pane,Status,StatusLeft,StatusRight,StatusDefault,
// Border}" (each name carries a "Mouse" prefix, e.g. "MouseDown1Pane"),
// plus "WheelUp/WheelDown" on the same button positions and
// "MouseMove{Pane,Status,StatusLeft,StatusRight,Border}".
var mouseKeyCodes = map[string]KeyCode{}
var mouseKeyNames = map[KeyCode]string{}

const mouseKeyBase KeyCode = 0x120000

func registerMouse(names ...string) {
	for _, name := range names {
		if _, dup := mouseKeyCodes[name]; dup {
			continue
		}
		code := mouseKeyBase + KeyCode(len(mouseKeyCodes))
		mouseKeyCodes[name] = code
		mouseKeyNames[code] = name
	}
}

func init() {
	registerNamed(
		"Up", "Down", "Left", "Right", "Home", "End", "NPage", "PPage",
		"IC", "DC", "BTab", "Space", "BSpace", "Tab", "Enter", "Escape",
	)
	for i := 1; i <= 20; i++ {
		registerNamed(fmt.Sprintf("F%d", i))
	}
	for i := 0; i <= 9; i++ {
		registerNamed(fmt.Sprintf("KP%d", i))
	}

	buttons := []string{"1", "2", "3", "6", "7", "8", "9", "10", "11"}
	events := []string{"Down", "Up", "Drag", "DragEnd", "SecondClick", "DoubleClick", "TripleClick"}
	targets := []string{"Pane", "Status", "StatusLeft", "StatusRight", "StatusDefault", "Border"}
	for _, ev := range events {
		for _, b := range buttons {
			for _, tgt := range targets {
				registerMouse("Mouse" + ev + b + tgt)
			}
		}
	}
	for _, b := range buttons {
		for _, tgt := range targets {
			registerMouse("WheelUp" + b + tgt)
			registerMouse("WheelDown" + b + tgt)
		}
	}
	for _, tgt := range []string{"Pane", "Status", "StatusLeft", "StatusRight", "Border"} {
		registerMouse("MouseMove" + tgt)
	}
}

// keyNone and keyAny are the base codes for the "None"/"Any" tokens spec.md
// §6 names alongside the ordinary key positions.
const (
	keyNone KeyCode = 0x130000
	keyAny  KeyCode = 0x130001
)

// userKeyBase offsets "UserN" (spec.md §6) into its own code range, above
// the named, mouse and None/Any ranges, so it never collides with them.
const userKeyBase KeyCode = 0x140000

// ParseKey parses one key-string token against spec.md §6's grammar:
// ['C-']['M-']['S-'] (named | char | "^" char | "0x" hex | utf-8 rune |
// "User"N | "None" | "Any" | mouse-key-name). Named-key matching is
// case-insensitive per spec.md §6; modifier letters are not.
func ParseKey(s string) (KeyCode, error) {
	var mod KeyMod
	rest := s
loop:
	for len(rest) >= 2 && rest[1] == '-' {
		switch rest[0] {
		case 'C':
			mod |= ModCtrl
		case 'M':
			mod |= ModMeta
		case 'S':
			mod |= ModShift
		default:
			break loop
		}
		rest = rest[2:]
	}
	if rest == "" {
		return 0, fmt.Errorf("format: key string %q has no base key", s)
	}

	switch strings.ToLower(rest) {
	case "none":
		return keyNone | KeyCode(mod), nil
	case "any":
		return keyAny | KeyCode(mod), nil
	}
	if n, ok := strings.CutPrefix(rest, "User"); ok {
		idx, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("format: invalid UserN key %q: %w", s, err)
		}
		return userKeyBase + KeyCode(idx) | KeyCode(mod), nil
	}
	if hex, ok := strings.CutPrefix(rest, "0x"); ok {
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("format: invalid hex key code %q: %w", s, err)
		}
		return KeyCode(n) | KeyCode(mod), nil
	}
	if caret, ok := strings.CutPrefix(rest, "^"); ok {
		r := []rune(caret)
		if len(r) != 1 {
			return 0, fmt.Errorf("format: invalid %q after '^' in %q", caret, s)
		}
		return KeyCode(r[0]&0x1f) | KeyCode(mod), nil
	}
	for name, code := range namedKeyCodes {
		if strings.EqualFold(name, rest) {
			return code | KeyCode(mod), nil
		}
	}
	if code, ok := mouseKeyCodes[rest]; ok {
		return code | KeyCode(mod), nil
	}
	r := []rune(rest)
	if len(r) == 1 {
		return KeyCode(r[0]) | KeyCode(mod), nil
	}
	return 0, fmt.Errorf("format: unrecognized key %q in %q", rest, s)
}

// String renders code in the canonical "C-M-S-<key>" modifier order (spec
// §4 "port its modifier-ordering behavior").
func (k KeyCode) String() string {
	mod := KeyMod(k) & modMask
	base := k &^ KeyCode(modMask)
	var b strings.Builder
	if mod&ModCtrl != 0 {
		b.WriteString("C-")
	}
	if mod&ModMeta != 0 {
		b.WriteString("M-")
	}
	if mod&ModShift != 0 {
		b.WriteString("S-")
	}
	switch {
	case base == keyNone:
		b.WriteString("None")
	case base == keyAny:
		b.WriteString("Any")
	case base >= userKeyBase:
		fmt.Fprintf(&b, "User%d", base-userKeyBase)
	case namedKeyNames[base] != "":
		b.WriteString(namedKeyNames[base])
	case mouseKeyNames[base] != "":
		b.WriteString(mouseKeyNames[base])
	default:
		b.WriteRune(rune(base))
	}
	return b.String()
}
