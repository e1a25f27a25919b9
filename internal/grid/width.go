package grid

import "github.com/unilibs/uniwidth"

// RuneWidth returns the display width of r: 2 for wide characters (CJK,
// emoji, fullwidth forms), 1 for normal printable runes, 0 for combining
// marks and other zero-width runes (spec §3 Cell width semantics).
func RuneWidth(r rune) int {
	return uniwidth.RuneWidth(r)
}

// IsCombining reports whether r should be merged into the preceding cell's
// grapheme cluster instead of starting a new one (spec §4.4: "respecting ZWJ
// and variation-selector combining rules").
func IsCombining(r rune) bool {
	if r == 0x200d { // zero-width joiner
		return true
	}
	if r >= 0xfe00 && r <= 0xfe0f { // variation selectors
		return true
	}
	if r >= 0x0300 && r <= 0x036f { // combining diacritical marks
		return true
	}
	return RuneWidth(r) == 0
}

// StringWidth returns the total display width of s.
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}
