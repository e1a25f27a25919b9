package screen

import "github.com/vtmux/vtmux/internal/grid"

// AlternateOn switches to the alternate screen (DECSET 1049-family), saving
// the primary screen's cursor and, if clear is set, blanking the alternate
// grid first (spec §4.2 alternate screen).
func (s *Screen) AlternateOn(clear bool) {
	if s.altActive {
		return
	}
	s.savedMain = savedState{cx: s.cx, cy: s.cy, attrs: s.defaultCell, origin: s.Has(ModeOrigin)}

	if s.alt == nil {
		s.alt = grid.New(s.g.Cols(), s.g.Rows(), 0)
	}
	s.alt.SetHistoryEnabled(false)
	if clear {
		s.alt.Clear(0, 0, s.alt.Cols(), s.alt.Rows(), s.defaultCell)
	}

	s.altActive = true
	s.cx, s.cy = s.savedAlt.cx, s.savedAlt.cy
}

// AlternateOff switches back to the primary screen, restoring the saved
// cursor. Per DESIGN.md Open Question 1, the primary grid's history-enabled
// flag (always true, since only the alt grid ever disables it) is restored
// first; then, if the screen was resized while the alternate grid was
// active, the primary grid is resized to the alternate grid's size, so
// resize's shrink/grow-height history decision sees the correct flag.
func (s *Screen) AlternateOff() {
	if !s.altActive {
		return
	}
	s.savedAlt = savedState{cx: s.cx, cy: s.cy, attrs: s.defaultCell, origin: s.Has(ModeOrigin)}

	s.g.SetHistoryEnabled(true)

	altCols, altRows := s.alt.Cols(), s.alt.Rows()
	s.altActive = false
	s.cx, s.cy = s.savedMain.cx, s.savedMain.cy
	if s.savedMain.origin {
		s.Set(ModeOrigin)
	} else {
		s.Clear(ModeOrigin)
	}
	if s.g.Cols() != altCols || s.g.Rows() != altRows {
		s.Resize(altCols, altRows, true, false, true)
	}
}

// AlternateActive reports whether the alternate screen is current.
func (s *Screen) AlternateActive() bool { return s.altActive }
