package parser

import "github.com/vtmux/vtmux/internal/screen"

// dispatchModeChange handles CSI Pm h (set) / CSI Pm l (reset), covering
// both ANSI modes and DEC private modes (private == '?') (spec §4.4).
func (p *Parser) dispatchModeChange(set bool) {
	for _, n := range p.params {
		if n < 0 {
			continue
		}
		if p.private == '?' {
			p.applyDECMode(n, set)
		} else {
			p.applyANSIMode(n, set)
		}
	}
}

func (p *Parser) applyANSIMode(n int, set bool) {
	switch n {
	case 4: // IRM insert mode
		p.w.SetInsertMode(set)
	case 20: // LNM
		p.setMode(screen.ModeCRLF, set)
	}
}

func (p *Parser) applyDECMode(n int, set bool) {
	switch n {
	case 1:
		p.setMode(screen.ModeKeypadApp, set) // DECCKM shares the app bit
	case 6:
		p.setMode(screen.ModeOrigin, set)
	case 7:
		p.setMode(screen.ModeWrap, set)
	case 12:
		p.setMode(screen.ModeBlink, set)
	case 25:
		p.setMode(screen.ModeCursorVisible, set)
	case 1000:
		p.setMode(screen.ModeMouseStandard, set)
	case 1002:
		p.setMode(screen.ModeMouseButton, set)
	case 1003:
		p.setMode(screen.ModeMouseAny, set)
	case 1006:
		p.setMode(screen.ModeMouseSGR, set)
	case 1004:
		p.setMode(screen.ModeFocusReport, set)
	case 2004:
		p.setMode(screen.ModeBracketedPaste, set)
	case 2026:
		if set {
			p.w.SyncStart()
		} else {
			p.w.SyncStop()
		}
	case 1049:
		if set {
			p.w.SaveCursor()
			p.w.AlternateOn(true)
		} else {
			p.w.AlternateOff()
			p.w.RestoreCursor()
		}
	case 47, 1047:
		if set {
			p.w.AlternateOn(n == 1047)
		} else {
			p.w.AlternateOff()
		}
	case 1048:
		if set {
			p.w.SaveCursor()
		} else {
			p.w.RestoreCursor()
		}
	case 9001, 2:
		p.setMode(screen.ModeExtendedKeys1, set)
	}
}

func (p *Parser) setMode(m screen.Mode, set bool) {
	if set {
		p.w.ModeSet(m)
	} else {
		p.w.ModeClear(m)
	}
}
