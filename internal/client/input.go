package client

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/vtmux/vtmux/internal/format"
)

// escSeqs maps the common xterm/vt220 CSI/SS3 escape sequences a remote
// attach client forwards raw (arrow keys, Home/End, function keys) to
// the named KeyCode spec.md §6 gives them. This is the "key parser" step
// of spec §4.12's input flow ("tty readable → key parser → key table
// lookup"); terminfo-driven decoding of a specific terminal's exact
// sequences is out of scope (spec §1 non-goal: "Terminfo/termcap
// resolution ... specified only as the 'terminal feature set'"), so this
// covers the sequences that are, in practice, universal across the
// terminals tmux-like multiplexers run inside.
var escSeqs = map[string]string{
	"[A": "Up", "[B": "Down", "[C": "Right", "[D": "Left",
	"OA": "Up", "OB": "Down", "OC": "Right", "OD": "Left",
	"[H": "Home", "[F": "End", "[1~": "Home", "[4~": "End",
	"[2~": "IC", "[3~": "DC", "[5~": "PPage", "[6~": "NPage",
	"[Z": "BTab",
	"OP": "F1", "OQ": "F2", "OR": "F3", "OS": "F4",
	"[15~": "F5", "[17~": "F6", "[18~": "F7", "[19~": "F8",
	"[20~": "F9", "[21~": "F10", "[23~": "F11", "[24~": "F12",
}

// decodeKeys turns a raw byte chunk (one MSG_STDIN payload) into zero or
// more KeyCodes, in order. Bytes that don't form a recognized escape
// sequence or valid rune are dropped rather than aborting the rest of
// the chunk, since a client's PTY can legitimately interleave garbage
// during terminal-size races.
func decodeKeys(data []byte) []format.KeyCode {
	var out []format.KeyCode
	for i := 0; i < len(data); {
		b := data[i]
		switch {
		case b == 0x1b && i+1 < len(data):
			if code, n, ok := matchSGRMouse(data[i:]); ok {
				out = append(out, code)
				i += n
				continue
			}
			if code, n, ok := matchEscSeq(data[i:]); ok {
				out = append(out, code)
				i += n
				continue
			}
			// Bare ESC followed by one printable byte: Meta-modified key
			// (spec §6 "['M-']" modifier), the classic meta-sends-escape
			// encoding.
			r, size := utf8.DecodeRune(data[i+1:])
			if r != utf8.RuneError {
				out = append(out, format.KeyCode(r)|format.KeyCode(format.ModMeta))
				i += 1 + size
				continue
			}
			out = append(out, mustKey("Escape"))
			i++
		case b == 0x1b:
			out = append(out, mustKey("Escape"))
			i++
		case b < 0x20 && b != '\t' && b != '\r' && b != '\n':
			// C0 control byte: Ctrl-<letter> (spec §6 "^" char grammar).
			out = append(out, format.KeyCode(b)|format.KeyCode(format.ModCtrl))
			i++
		case b == '\t':
			out = append(out, mustKey("Tab"))
			i++
		case b == '\r' || b == '\n':
			out = append(out, mustKey("Enter"))
			i++
		case b == 0x7f:
			out = append(out, mustKey("BSpace"))
			i++
		default:
			r, size := utf8.DecodeRune(data[i:])
			if r == utf8.RuneError && size <= 1 {
				i++
				continue
			}
			out = append(out, format.KeyCode(r))
			i += size
		}
	}
	return out
}

// matchSGRMouse decodes an xterm SGR mouse report ("\x1b[<Cb;Cx;Cyf",
// f being 'M' on press/drag or 'm' on release) into the matching
// mouse KeyCode from spec.md §6's key table. Cx/Cy (the cell
// coordinates) aren't threaded through: this package has no layout
// context at decode time to classify the click as Pane/Status/Border,
// so every decoded mouse key names the "Pane" target; a caller with
// layout access can reclassify before table lookup if it needs the
// other targets.
func matchSGRMouse(data []byte) (format.KeyCode, int, bool) {
	if len(data) < 6 || data[1] != '[' || data[2] != '<' {
		return 0, 0, false
	}
	end := -1
	for j := 3; j < len(data); j++ {
		if data[j] == 'M' || data[j] == 'm' {
			end = j
			break
		}
	}
	if end < 0 {
		return 0, 0, false
	}
	parts := strings.Split(string(data[3:end]), ";")
	if len(parts) != 3 {
		return 0, 0, false
	}
	cb, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	name, ok := sgrMouseName(cb, data[end] == 'm')
	if !ok {
		return 0, 0, false
	}
	code, err := format.ParseKey(name)
	if err != nil {
		return 0, 0, false
	}
	return code, end + 1, true
}

// sgrMouseName maps an SGR mouse report's button byte to one of
// spec.md §6's mouse key names (always the "Pane" target; see
// matchSGRMouse). Bit 6 (0x40) marks the wheel, bit 5 (0x20) marks
// motion/drag; the low two bits pick the button for ordinary clicks.
func sgrMouseName(cb int, release bool) (string, bool) {
	if cb&0x40 != 0 {
		button := "1"
		if cb&1 != 0 {
			return "WheelDown" + button + "Pane", true
		}
		return "WheelUp" + button + "Pane", true
	}
	buttons := []string{"1", "2", "3"}
	button := buttons[cb&0x3%len(buttons)]
	switch {
	case release:
		return "MouseUp" + button + "Pane", true
	case cb&0x20 != 0:
		return "MouseDrag" + button + "Pane", true
	default:
		return "MouseDown" + button + "Pane", true
	}
}

// matchEscSeq looks for the longest escSeqs key that is a prefix of
// data[1:] (data[0] is the leading ESC).
func matchEscSeq(data []byte) (format.KeyCode, int, bool) {
	best := ""
	for seq := range escSeqs {
		if len(seq)+1 > len(data) {
			continue
		}
		if string(data[1:1+len(seq)]) == seq && len(seq) > len(best) {
			best = seq
		}
	}
	if best == "" {
		return 0, 0, false
	}
	return mustKey(escSeqs[best]), 1 + len(best), true
}

func mustKey(name string) format.KeyCode {
	k, err := format.ParseKey(name)
	if err != nil {
		panic("client: bad built-in key name " + name)
	}
	return k
}
