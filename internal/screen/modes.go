package screen

// Mode is a bitmask of Screen behavior flags (spec §3 Screen).
type Mode uint32

const (
	ModeCursorVisible Mode = 1 << iota
	ModeKeypadApp
	ModeWrap
	ModeOrigin
	ModeInsert
	ModeBracketedPaste
	ModeFocusReport
	ModeCRLF
	ModeMouseStandard  // mouse mode 0: click reporting
	ModeMouseButton    // mouse mode 1: button-event tracking
	ModeMouseAny       // mouse mode 2: any-event tracking
	ModeMouseSGR       // mouse mode 3: SGR extended encoding
	ModeExtendedKeys1
	ModeExtendedKeys2
	ModeBlink
)

// Set enables the given mode bits.
func (s *Screen) Set(m Mode) { s.mode |= m }

// Clear disables the given mode bits.
func (s *Screen) Clear(m Mode) { s.mode &^= m }

// Has reports whether all bits in m are set.
func (s *Screen) Has(m Mode) bool { return s.mode&m == m }

// Mode returns the current mode bitmask.
func (s *Screen) Mode() Mode { return s.mode }

// SetMode replaces the whole mode bitmask (used by CSI reset / DECRST).
func (s *Screen) SetMode(m Mode) { s.mode = m }
