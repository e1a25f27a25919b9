package screen

// Selection is a rectangular or linear text region (spec §4.2 set_selection).
type Selection struct {
	SX, SY int // start, in grid coordinates (row may include history offset)
	EX, EY int // end
	Rectangle bool
}

func normalize(sx, sy, ex, ey int) (int, int, int, int) {
	if sy > ey || (sy == ey && sx > ex) {
		return ex, ey, sx, sy
	}
	return sx, sy, ex, ey
}

// SetSelection records a selection. emacsModeKeys selects emacs (true) vs vi
// (false) "drop the bottom-right" semantics for CheckSelection.
func (s *Screen) SetSelection(sx, sy, ex, ey int, rectangle bool, emacsModeKeys bool) {
	nsx, nsy, nex, ney := normalize(sx, sy, ex, ey)
	s.sel = Selection{SX: nsx, SY: nsy, EX: nex, EY: ney, Rectangle: rectangle}
	s.hasSel = true
	s.selectEmacs = emacsModeKeys
}

// ClearSelection removes any active selection.
func (s *Screen) ClearSelection() { s.hasSel = false }

// HasSelection reports whether a selection is active.
func (s *Screen) HasSelection() bool { return s.hasSel }

// ActiveSelection returns the active selection (valid only if HasSelection).
func (s *Screen) ActiveSelection() Selection { return s.sel }

// CheckSelection reports whether (px, py) lies inside the active selection.
// In vi mode, the selection's bottom-right cell is excluded ("drop the
// bottom-right"); in emacs mode it is included (spec §4.2, §8).
func (s *Screen) CheckSelection(px, py int) bool {
	if !s.hasSel {
		return false
	}
	sel := s.sel

	if sel.Rectangle {
		lo, hi := sel.SX, sel.EX
		if lo > hi {
			lo, hi = hi, lo
		}
		if py < sel.SY || py > sel.EY {
			return false
		}
		if px < lo || px > hi {
			return false
		}
		if !s.selectEmacs && py == sel.EY && px == hi {
			return false
		}
		return true
	}

	if py < sel.SY || py > sel.EY {
		return false
	}
	if py == sel.SY && px < sel.SX {
		return false
	}
	if py == sel.EY && px > sel.EX {
		return false
	}
	if !s.selectEmacs && py == sel.EY && px == sel.EX {
		return false
	}
	return true
}
