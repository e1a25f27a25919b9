package parser

import "github.com/vtmux/vtmux/internal/screen"

// stepEscape handles the byte following ESC.
func (p *Parser) stepEscape(c byte) {
	switch {
	case c == '[':
		p.st = stateCSIEntry
		return
	case c == ']':
		p.st = stateOSCString
		p.oscBuf = p.oscBuf[:0]
		return
	case c == 'P':
		p.st = stateDCSEntry
		return
	case c == 'X' || c == '^' || c == '_':
		p.st = stateSOSPMAPCString
		return
	case c >= 0x20 && c <= 0x2f:
		p.intermed = append(p.intermed, c)
		p.st = stateEscapeIntermediate
		return
	case c >= 0x30 && c <= 0x7e:
		p.dispatchEsc(c)
		p.st = stateGround
		return
	default:
		p.st = stateGround
	}
}

func (p *Parser) stepEscapeIntermediate(c byte) {
	switch {
	case c >= 0x20 && c <= 0x2f:
		p.intermed = append(p.intermed, c)
	case c >= 0x30 && c <= 0x7e:
		p.dispatchEsc(c)
		p.st = stateGround
	default:
		p.st = stateGround
	}
}

// dispatchEsc runs a two-character (or ESC+intermediate+final) escape
// sequence's effect, expressed entirely via Writer calls (spec §4.4).
func (p *Parser) dispatchEsc(final byte) {
	if len(p.intermed) == 1 && (p.intermed[0] == '(' || p.intermed[0] == ')') {
		// Charset designation: ESC ( X selects G0, ESC ) X selects G1.
		// Only G0 (used directly, without SO) is tracked for translation
		// purposes here; G1 selection via SO still reads charsetG0 because
		// this implementation tracks a single "graphics active" bit rather
		// than independent G0/G1 slots (spec §4.4 names the charset bit on
		// Cell.Attrs but leaves multi-slot charset switching unspecified).
		if p.intermed[0] == '(' {
			p.charsetG0 = final
		}
		return
	}

	switch final {
	case 'c':
		p.w.Reinit()
	case '7':
		p.w.SaveCursor()
	case '8':
		p.w.RestoreCursor()
	case 'D':
		p.w.LineFeed()
	case 'M':
		p.w.ReverseIndex()
	case 'E':
		p.w.CarriageReturn()
		p.w.LineFeed()
	case 'H':
		p.w.SetTabStopAtCursor()
	case '=':
		p.w.ModeSet(screen.ModeKeypadApp)
	case '>':
		p.w.ModeClear(screen.ModeKeypadApp)
	}
}
