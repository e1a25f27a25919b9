package parser

import (
	"encoding/base64"
	"strconv"
	"strings"
)

// stepOSC collects bytes for an OSC (ESC ]) string, terminated by BEL or
// ST (ESC \) (spec §4.4).
func (p *Parser) stepOSC(c byte) {
	if c == cBEL {
		p.finishOSC()
		p.st = stateGround
		return
	}
	if c == cESC {
		p.st = stateOSCEscape
		return
	}
	p.oscBuf = append(p.oscBuf, c)
}

// stepOSCEscape resolves the byte following an ESC seen mid-OSC-string: a
// literal '\' completes String Terminator and the OSC fires; anything else
// means the ESC began an unrelated sequence, so the OSC string is silently
// abandoned (spec §7: never crash, only drop invalid sequences) and c is
// reprocessed as the start of a fresh escape sequence.
func (p *Parser) stepOSCEscape(c byte) {
	if c == '\\' {
		p.finishOSC()
		p.st = stateGround
		return
	}
	p.oscBuf = p.oscBuf[:0]
	p.st = stateEscape
	p.resetIntermediate()
	p.stepEscape(c)
}

func (p *Parser) finishOSC() {
	s := string(p.oscBuf)
	p.oscBuf = p.oscBuf[:0]

	semi := strings.IndexByte(s, ';')
	var num string
	var rest string
	if semi < 0 {
		num, rest = s, ""
	} else {
		num, rest = s[:semi], s[semi+1:]
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		return
	}
	switch n {
	case 0, 1, 2:
		p.w.SetTitle(rest)
	case 7:
		if p.opt.OnPath != nil {
			p.opt.OnPath(rest)
		}
	case 8:
		p.handleHyperlink(rest)
	case 52:
		p.handleClipboard(rest)
	}
}

// handleHyperlink parses OSC 8 ;params;uri and installs the uri in the
// active screen's hyperlink table, tagging the template cell with its id
// (spec §4.4 "installs an id into the Screen's hyperlink table").
func (p *Parser) handleHyperlink(rest string) {
	semi := strings.IndexByte(rest, ';')
	uri := rest
	if semi >= 0 {
		uri = rest[semi+1:]
	}
	table := p.w.Hyperlinks()
	id := table.Intern(uri)
	cell := p.w.Template()
	cell.Hyperlink = id
	p.w.SetTemplate(cell)
	if p.opt.OnHyperlink != nil && uri != "" {
		p.opt.OnHyperlink(id, uri)
	}
}

// handleClipboard parses OSC 52 ;selection;base64-or-query (spec §4.4,
// gated by Options.AcceptOSC52).
func (p *Parser) handleClipboard(rest string) {
	if !p.opt.AcceptOSC52 {
		return
	}
	semi := strings.IndexByte(rest, ';')
	if semi < 0 {
		return
	}
	sel, payload := rest[:semi], rest[semi+1:]
	if payload == "?" {
		if p.opt.OnClipboardQuery != nil {
			p.opt.OnClipboardQuery(sel)
		}
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return
	}
	if p.opt.OnClipboard != nil {
		p.opt.OnClipboard(sel, string(decoded))
	}
}
