package screen

import "github.com/vtmux/vtmux/internal/grid"

// Resize changes the screen to sx×sy, adjusting the active grid and cursor
// per spec §4.2:
//   - width change: Grid.Reflow when reflow is set, otherwise Grid.Resize
//     (truncate/pad cells per row).
//   - height grow: pulls rows back from history (if history is enabled) to
//     fill the new space at the bottom before padding with blanks.
//   - height shrink: pushes the overflowing top rows into history (if
//     enabled) instead of discarding them outright, unless eatEmpty trims
//     trailing blank rows from the bottom first so real content is less
//     likely to be displaced.
//   - the cursor is clamped into the new size (clampCursorAfterResize when
//     cursorAware, SetCursor otherwise); it does not follow its logical line.
func (s *Screen) Resize(sx, sy int, reflow, eatEmpty, cursorAware bool) {
	g := s.Grid()
	oldSx, oldSy := g.Cols(), g.Rows()
	if sx == oldSx && sy == oldSy {
		return
	}

	if sx != oldSx {
		if reflow {
			g.Reflow(sx)
		} else {
			g.Resize(sx)
		}
	}

	if sy != oldSy {
		s.resizeHeight(g, oldSy, sy, eatEmpty)
	}

	if cursorAware {
		s.clampCursorAfterResize(sx, sy)
	} else {
		s.SetCursor(s.cx, s.cy)
	}

	if s.rlower >= sy-1 || s.rlower == oldSy-1 {
		s.rupper, s.rlower = 0, sy-1
	}
	if sx != oldSx {
		s.resetTabStops()
	}
}

// resizeHeight grows or shrinks the visible region by adjusting the grid's
// backing storage, using history to absorb or supply rows when enabled
// (spec §4.2). eatEmpty, when shrinking, first trims trailing blank rows
// from the bottom of the visible region so real content is less likely to
// be pushed into history.
func (s *Screen) resizeHeight(g *grid.Grid, oldSy, newSy int, eatEmpty bool) {
	switch {
	case newSy > oldSy:
		grow := newSy - oldSy
		pulled := 0
		if g.HistoryEnabled() {
			pulled = g.PullFromHistory(grow)
		}
		if pulled < grow {
			g.AdjustLines(g.Rows() + (grow - pulled))
		}

	case newSy < oldSy:
		shrink := oldSy - newSy
		if eatEmpty {
			trimmed := 0
			for y := oldSy - 1; y >= newSy && trimmed < shrink; y-- {
				if !lineBlank(g, g.HSize()+y, bgCell(s)) {
					break
				}
				trimmed++
			}
			shrink -= trimmed
		}
		if g.HistoryEnabled() {
			for i := 0; i < shrink; i++ {
				g.ScrollHistoryRegion(0, g.Rows()-1, bgCell(s))
			}
		}
		g.AdjustLines(newSy)
	}
}

func bgCell(s *Screen) grid.Cell { return s.defaultCell }

func lineBlank(g *grid.Grid, absY int, bg grid.Cell) bool {
	line := g.PeekLine(absY)
	if line == nil {
		return true
	}
	for _, c := range line.Cells {
		if c.Rune() != ' ' {
			return false
		}
	}
	return true
}

func (s *Screen) clampCursorAfterResize(sx, sy int) {
	cx, cy := s.cx, s.cy
	if cy >= sy {
		cy = sy - 1
	}
	if cx > sx {
		cx = sx
	}
	s.cx, s.cy = cx, cy
}
