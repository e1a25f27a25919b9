package screen

// SaveCursor implements DECSC: save cursor position, SGR attrs, and origin
// mode so a later RestoreCursor can put them back (spec §4.2).
func (s *Screen) SaveCursor() {
	s.saved = savedState{cx: s.cx, cy: s.cy, attrs: s.defaultCell, origin: s.Has(ModeOrigin)}
	s.hasSaved = true
}

// RestoreCursor implements DECRC. A no-op if nothing was ever saved.
func (s *Screen) RestoreCursor() {
	if !s.hasSaved {
		return
	}
	s.SetCursor(s.saved.cx, s.saved.cy)
	s.defaultCell = s.saved.attrs
	if s.saved.origin {
		s.Set(ModeOrigin)
	} else {
		s.Clear(ModeOrigin)
	}
}

// HasSavedCursor reports whether SaveCursor has ever been called.
func (s *Screen) HasSavedCursor() bool { return s.hasSaved }
