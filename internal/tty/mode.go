package tty

import (
	"strings"

	"github.com/vtmux/vtmux/internal/screen"
)

// mouseSeqs maps each of the four mutually-exclusive mouse tracking modes
// to its DECSET/DECRST private-mode numbers, ordered standard -> button ->
// any -> SGR per spec §4.9's mode table, grounded on
// original_source/tmux-rs/src/tty.rs's tty_update_mode mouse handling.
var mouseSeqs = []struct {
	bit    screen.Mode
	set    string
	reset  string
}{
	{screen.ModeMouseStandard, "\x1b[?1000h", "\x1b[?1000l"},
	{screen.ModeMouseButton, "\x1b[?1002h", "\x1b[?1002l"},
	{screen.ModeMouseAny, "\x1b[?1003h", "\x1b[?1003l"},
	{screen.ModeMouseSGR, "\x1b[?1006h", "\x1b[?1006l"},
}

// modeSeqs maps the non-mouse mode bits to their DECSET/DECRST pair. Modes
// gated by a Feature (bracketed paste, focus reporting) are emitted only
// when that feature is present in the active feature set, so callers must
// pass the client's resolved Feature alongside the mode diff.
var modeSeqs = []struct {
	bit     screen.Mode
	feature Feature
	set     string
	reset   string
}{
	{screen.ModeCursorVisible, 0, "\x1b[?25h", "\x1b[?25l"},
	{screen.ModeKeypadApp, 0, "\x1b=", "\x1b>"},
	{screen.ModeOrigin, 0, "\x1b[?6h", "\x1b[?6l"},
	{screen.ModeBracketedPaste, FeatureBpaste, "\x1b[?2004h", "\x1b[?2004l"},
	{screen.ModeFocusReport, FeatureFocus, "\x1b[?1004h", "\x1b[?1004l"},
	{screen.ModeExtendedKeys1, FeatureExtkeys, "\x1b[>4;1m", "\x1b[>4;0m"},
	{screen.ModeExtendedKeys2, FeatureExtkeys, "\x1b[>4;2m", "\x1b[>4;0m"},
}

// UpdateMode emits the minimal escape sequence that transitions the
// terminal from old to new, touching only the bits that actually changed
// (spec §4.9 "update_mode(new) ... diffing function emitting the minimum
// byte sequence for only the bits that changed"). feat gates which
// feature-dependent sequences are allowed to be sent at all; a bit whose
// feature is absent is silently skipped in both directions, matching
// tmux's own "don't turn on what the terminal can't do" behavior.
func UpdateMode(old, new screen.Mode, feat Feature) string {
	if old == new {
		return ""
	}
	var b strings.Builder

	for _, m := range modeSeqs {
		if m.feature != 0 && !feat.Has(m.feature) {
			continue
		}
		wasOn, isOn := old&m.bit != 0, new&m.bit != 0
		if wasOn == isOn {
			continue
		}
		if isOn {
			b.WriteString(m.set)
		} else {
			b.WriteString(m.reset)
		}
	}

	oldMouse := old & (screen.ModeMouseStandard | screen.ModeMouseButton | screen.ModeMouseAny | screen.ModeMouseSGR)
	newMouse := new & (screen.ModeMouseStandard | screen.ModeMouseButton | screen.ModeMouseAny | screen.ModeMouseSGR)
	if oldMouse != newMouse && feat.Has(FeatureMouse) {
		for _, m := range mouseSeqs {
			wasOn, isOn := oldMouse&m.bit != 0, newMouse&m.bit != 0
			if wasOn == isOn {
				continue
			}
			if isOn {
				b.WriteString(m.set)
			} else {
				b.WriteString(m.reset)
			}
		}
	}

	return b.String()
}

// cursorStyleSeq renders a DECSCUSR (Ss) sequence selecting style, falling
// back to nothing when the terminal lacks cstyle support.
func cursorStyleSeq(style screen.CursorStyle, feat Feature) string {
	if !feat.Has(FeatureCstyle) {
		return ""
	}
	n := 1 + int(style) // DECSCUSR codes are 1-indexed
	return "\x1b[" + itoa(n) + " q"
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
