package parser

// stepDCS drives the DCS (ESC P ... ESC \) states. Sixel/other DCS payload
// interpretation is out of scope (spec §1 non-goal); the parser still has
// to track the state correctly so an ST resumes ground cleanly and doesn't
// corrupt later input.
func (p *Parser) stepDCS(c byte) {
	switch p.st {
	case stateDCSEntry:
		p.stepDCSEntry(c)
	case stateDCSParam:
		p.stepDCSParam(c)
	case stateDCSIntermediate:
		p.stepDCSIntermediate(c)
	case statePassthrough:
		p.stepPassthrough(c)
	case stateDCSIgnore:
		if c == cESC {
			p.st = stateEscape
		}
	}
}

func (p *Parser) stepDCSEntry(c byte) {
	switch {
	case c >= '0' && c <= '9':
		p.params = append(p.params, 0)
		p.hasParam = true
		p.accumDigit(c)
		p.st = stateDCSParam
	case c == ';':
		p.params = append(p.params, -1, -1)
		p.st = stateDCSParam
	case c == '?' || c == '<' || c == '=' || c == '>':
		p.private = c
		p.st = stateDCSParam
	case c >= 0x20 && c <= 0x2f:
		p.intermed = append(p.intermed, c)
		p.st = stateDCSIntermediate
	case c >= 0x40 && c <= 0x7e:
		p.st = statePassthrough
	default:
		p.st = stateDCSIgnore
	}
}

func (p *Parser) stepDCSParam(c byte) {
	switch {
	case c >= '0' && c <= '9':
		p.accumDigit(c)
	case c == ';':
		p.params = append(p.params, -1)
	case c >= 0x20 && c <= 0x2f:
		p.intermed = append(p.intermed, c)
		p.st = stateDCSIntermediate
	case c >= 0x40 && c <= 0x7e:
		p.st = statePassthrough
	default:
		p.st = stateDCSIgnore
	}
}

func (p *Parser) stepDCSIntermediate(c byte) {
	switch {
	case c >= 0x20 && c <= 0x2f:
		p.intermed = append(p.intermed, c)
	case c >= 0x40 && c <= 0x7e:
		p.st = statePassthrough
	default:
		p.st = stateDCSIgnore
	}
}

// stepPassthrough discards DCS payload bytes (e.g. sixel data) until ST.
func (p *Parser) stepPassthrough(c byte) {
	if c == cESC {
		p.st = stateEscape
		p.resetIntermediate()
	}
}
