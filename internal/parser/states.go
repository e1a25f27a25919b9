package parser

// state names the vt500-style parser states (spec §4.4).
type state int

const (
	stateGround state = iota
	stateEscape
	stateEscapeIntermediate
	stateCSIEntry
	stateCSIParam
	stateCSIIntermediate
	stateCSIIgnore
	stateDCSEntry
	stateDCSParam
	stateDCSIntermediate
	statePassthrough
	stateDCSIgnore
	stateOSCString
	stateOSCEscape
	stateSOSPMAPCString
	stateUTF8Continuation
)

const (
	cANCEL = 0x18
	cSUB   = 0x1a
	cESC   = 0x1b
	cBEL   = 0x07
	cBS    = 0x08
	cHT    = 0x09
	cLF    = 0x0a
	cVT    = 0x0b
	cFF    = 0x0c
	cCR    = 0x0d
	cSO    = 0x0e
	cSI    = 0x0f
	cDEL   = 0x7f
)
