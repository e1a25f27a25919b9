package parser

import (
	"github.com/vtmux/vtmux/internal/screen"
	"github.com/vtmux/vtmux/internal/writer"
)

func (p *Parser) stepCSIEntry(c byte) {
	switch {
	case c >= '0' && c <= '9':
		p.params = append(p.params, 0)
		p.hasParam = true
		p.accumDigit(c)
		p.st = stateCSIParam
	case c == ';':
		p.params = append(p.params, -1, -1)
		p.hasParam = true
		p.st = stateCSIParam
	case c == '?' || c == '<' || c == '=' || c == '>':
		p.private = c
		p.st = stateCSIParam
	case c >= 0x20 && c <= 0x2f:
		p.intermed = append(p.intermed, c)
		p.st = stateCSIIntermediate
	case c >= 0x40 && c <= 0x7e:
		p.dispatchCSI(c)
		p.st = stateGround
	case c == ':':
		p.st = stateCSIIgnore
	default:
		p.st = stateGround
	}
}

func (p *Parser) accumDigit(c byte) {
	i := len(p.params) - 1
	if p.params[i] < 0 {
		p.params[i] = 0
	}
	p.params[i] = p.params[i]*10 + int(c-'0')
}

func (p *Parser) stepCSIParam(c byte) {
	switch {
	case c >= '0' && c <= '9':
		if len(p.params) == 0 {
			p.params = append(p.params, 0)
		}
		p.accumDigit(c)
	case c == ';':
		p.params = append(p.params, -1)
	case c >= 0x20 && c <= 0x2f:
		p.intermed = append(p.intermed, c)
		p.st = stateCSIIntermediate
	case c >= 0x40 && c <= 0x7e:
		p.dispatchCSI(c)
		p.st = stateGround
	case c == ':' || c == 0x3c || c == 0x3d || c == 0x3e || c == 0x3f:
		p.st = stateCSIIgnore
	default:
		p.st = stateGround
	}
}

func (p *Parser) stepCSIIntermediate(c byte) {
	switch {
	case c >= 0x20 && c <= 0x2f:
		p.intermed = append(p.intermed, c)
	case c >= 0x40 && c <= 0x7e:
		p.dispatchCSI(c)
		p.st = stateGround
	default:
		p.st = stateGround
	}
}

func (p *Parser) stepCSIIgnore(c byte) {
	if c >= 0x40 && c <= 0x7e {
		p.st = stateGround
	}
}

// param returns the i'th parameter, or def if unset/absent (CSI parameters
// default to 1 for nearly all sequences except where noted).
func (p *Parser) param(i, def int) int {
	if i >= len(p.params) || p.params[i] < 0 {
		return def
	}
	if p.params[i] == 0 {
		return def
	}
	return p.params[i]
}

// rawParam is like param but does not substitute a default for an explicit 0
// (needed by SGR color sub-params and DECSTBM/origin-relative sequences).
func (p *Parser) rawParam(i, def int) int {
	if i >= len(p.params) || p.params[i] < 0 {
		return def
	}
	return p.params[i]
}

func (p *Parser) dispatchCSI(final byte) {
	w := p.w
	switch final {
	case 'A':
		w.CursorUp(p.param(0, 1))
	case 'B', 'e':
		w.CursorDown(p.param(0, 1))
	case 'C', 'a':
		w.CursorForward(p.param(0, 1))
	case 'D':
		w.CursorBackward(p.param(0, 1))
	case 'E':
		w.CarriageReturn()
		w.CursorDown(p.param(0, 1))
	case 'F':
		w.CarriageReturn()
		w.CursorUp(p.param(0, 1))
	case 'G', '`':
		w.Goto(cursorRow(w), p.param(0, 1)-1)
	case 'd':
		w.Goto(p.param(0, 1)-1, cursorCol(w))
	case 'H', 'f':
		w.Goto(p.param(0, 1)-1, p.param(1, 1)-1)
	case 'J':
		w.ClearScreen(clearModeFromCSI(p.rawParam(0, 0)))
	case 'K':
		w.ClearLine(lineClearModeFromCSI(p.rawParam(0, 0)))
	case 'L':
		w.InsertLines(p.param(0, 1))
	case 'M':
		w.DeleteLines(p.param(0, 1))
	case 'P':
		w.DeleteChars(p.param(0, 1))
	case '@':
		w.InsertChars(p.param(0, 1))
	case 'X':
		w.EraseChars(p.param(0, 1))
	case 'S':
		w.ScrollUp(p.param(0, 1))
	case 'T':
		w.ScrollDown(p.param(0, 1))
	case 'b':
		p.repeatLast(p.param(0, 1))
	case 'r':
		w.SetScrollRegion(p.param(0, 1)-1, p.param(1, w.Rows())-1)
	case 'm':
		p.dispatchSGR()
	case 'h':
		p.dispatchModeChange(true)
	case 'l':
		p.dispatchModeChange(false)
	case 'g':
		switch p.rawParam(0, 0) {
		case 0:
			// TBC current column: no direct Writer passthrough exists;
			// left as a documented gap alongside ESC H's cursor-only path.
		case 3:
			w.ClearAllTabStops()
		}
	case 'n':
		p.dispatchDSR()
	case 'c':
		if p.opt.OnDA != nil {
			if p.private == '>' {
				p.opt.OnDA("secondary")
			} else {
				p.opt.OnDA("primary")
			}
		}
	case 'q':
		if len(p.intermed) == 1 && p.intermed[0] == ' ' {
			w.SetCursorStyle(cursorStyleFromCSI(p.rawParam(0, 0)))
		} else if p.private == '>' && p.opt.OnDA != nil {
			p.opt.OnDA("xtversion")
		}
	}
	p.resetIntermediate()
}

func cursorRow(w *writer.Writer) int { _, cy := w.Cursor(); return cy }
func cursorCol(w *writer.Writer) int { cx, _ := w.Cursor(); return cx }

func (p *Parser) repeatLast(n int) {
	r := p.w.LastInputRune()
	if r == 0 {
		return
	}
	for i := 0; i < n; i++ {
		p.w.Input(r)
	}
}

func clearModeFromCSI(n int) writer.ClearMode {
	switch n {
	case 1:
		return writer.ClearAbove
	case 2:
		return writer.ClearAll
	case 3:
		return writer.ClearSaved
	default:
		return writer.ClearBelow
	}
}

func lineClearModeFromCSI(n int) writer.LineClearMode {
	switch n {
	case 1:
		return writer.LineClearLeft
	case 2:
		return writer.LineClearAll
	default:
		return writer.LineClearRight
	}
}

func cursorStyleFromCSI(n int) screen.CursorStyle {
	switch n {
	case 0, 1:
		return screen.CursorBlockBlink
	case 2:
		return screen.CursorBlockSteady
	case 3:
		return screen.CursorUnderlineBlink
	case 4:
		return screen.CursorUnderlineSteady
	case 5:
		return screen.CursorBarBlink
	case 6:
		return screen.CursorBarSteady
	default:
		return screen.CursorBlockBlink
	}
}

// dispatchDSR answers a device-status-report request the child is allowed
// to receive directly (cursor position); terminal-identity DSRs are routed
// to the client-terminal feature layer elsewhere, not answered here.
func (p *Parser) dispatchDSR() {
	if p.rawParam(0, 0) != 6 || p.resp == nil {
		return
	}
	cx, cy := p.w.Cursor()
	resp := []byte("\x1b[")
	resp = appendInt(resp, cy+1)
	resp = append(resp, ';')
	resp = appendInt(resp, cx+1)
	resp = append(resp, 'R')
	p.resp.WriteResponse(resp)
}

func appendInt(b []byte, n int) []byte {
	if n == 0 {
		return append(b, '0')
	}
	var tmp [12]byte
	i := len(tmp)
	for n > 0 {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
	}
	return append(b, tmp[i:]...)
}
