// Package screen implements the virtual display state built on top of a
// Grid: cursor, modes, scroll region, tab stops, selection, the alternate
// screen, and the title stack (spec §3/§4.2).
package screen

import (
	"unicode/utf8"

	"github.com/vtmux/vtmux/internal/grid"
)

// CursorStyle selects how the cursor renders (DECSCUSR).
type CursorStyle int

const (
	CursorBlockBlink CursorStyle = iota
	CursorBlockSteady
	CursorUnderlineBlink
	CursorUnderlineSteady
	CursorBarBlink
	CursorBarSteady
)

// savedState is the DEC cursor-save payload plus the extra fields needed to
// restore the alternate-screen snapshot (spec §4.2 "saved grid").
type savedState struct {
	cx, cy int
	attrs  grid.Cell
	origin bool
}

// Screen wraps one Grid and adds cursor, modes, scroll region, tab stops,
// selection, title stack, and (when active) a saved grid for the alternate
// screen (spec §3).
type Screen struct {
	g *grid.Grid

	cx, cy int // visible coordinates; cx may equal sx transiently ("about to wrap")

	cursorStyle CursorStyle
	cursorColor grid.Color

	mode Mode

	rupper, rlower int // scroll region, inclusive

	tabStops []bool

	sel        Selection
	hasSel     bool
	selectEmacs bool // emacs vs vi "drop bottom-right" semantics

	title      string
	titleStack []string

	// Alternate screen state.
	alt       *grid.Grid
	altActive bool
	savedMain savedState
	savedAlt  savedState

	saved     savedState
	hasSaved  bool

	hyperlinks *HyperlinkTable

	defaultCell grid.Cell
}

// TitleStackLimit bounds the OSC title push/pop stack (spec §4.2, a
// decision recorded in DESIGN.md per original_source/src/screen_.rs).
const TitleStackLimit = 10

// New creates a Screen over a fresh sx×sy Grid with the given history
// limit (spec §4.2 init).
func New(sx, sy, hlimit int) *Screen {
	s := &Screen{
		g:           grid.New(sx, sy, hlimit),
		rupper:      0,
		rlower:      sy - 1,
		mode:        ModeCursorVisible | ModeWrap,
		hyperlinks:  newHyperlinkTable(),
		defaultCell: grid.Blank(),
	}
	s.resetTabStops()
	return s
}

// Grid returns the active grid (primary, or alternate if alt-screen is on).
func (s *Screen) Grid() *grid.Grid {
	if s.altActive {
		return s.alt
	}
	return s.g
}

// PrimaryGrid always returns the primary grid, even while alt-screen is active.
func (s *Screen) PrimaryGrid() *grid.Grid { return s.g }

func (s *Screen) Cols() int { return s.Grid().Cols() }
func (s *Screen) Rows() int { return s.Grid().Rows() }

// Cursor returns the current cursor position in visible coordinates.
func (s *Screen) Cursor() (cx, cy int) { return s.cx, s.cy }

// SetCursor sets the cursor position, clamped to the grid (cx may equal
// Cols() transiently per spec §3).
func (s *Screen) SetCursor(cx, cy int) {
	if cx < 0 {
		cx = 0
	}
	if cx > s.Cols() {
		cx = s.Cols()
	}
	if cy < 0 {
		cy = 0
	}
	if cy >= s.Rows() {
		cy = s.Rows() - 1
	}
	s.cx, s.cy = cx, cy
}

func (s *Screen) CursorStyle() CursorStyle         { return s.cursorStyle }
func (s *Screen) SetCursorStyle(cs CursorStyle)    { s.cursorStyle = cs }
func (s *Screen) CursorColor() grid.Color          { return s.cursorColor }
func (s *Screen) SetCursorColor(c grid.Color)      { s.cursorColor = c }

// ScrollRegion returns the inclusive scroll region bounds.
func (s *Screen) ScrollRegion() (upper, lower int) { return s.rupper, s.rlower }

// SetScrollRegion sets the scroll region, clamped to the grid height.
func (s *Screen) SetScrollRegion(upper, lower int) {
	if upper < 0 {
		upper = 0
	}
	if lower >= s.Rows() {
		lower = s.Rows() - 1
	}
	if upper > lower {
		upper, lower = 0, s.Rows()-1
	}
	s.rupper, s.rlower = upper, lower
}

// DefaultCell returns the template cell used to fill erased regions.
func (s *Screen) DefaultCell() grid.Cell { return s.defaultCell }

// SetDefaultCell updates the fill template (current SGR background, etc.).
func (s *Screen) SetDefaultCell(c grid.Cell) { s.defaultCell = c }

// Reinit resets the screen to power-on defaults in place (CSI reset),
// keeping the same backing Grid allocation where possible.
func (s *Screen) Reinit() {
	s.cx, s.cy = 0, 0
	s.mode = ModeCursorVisible | ModeWrap
	s.rupper, s.rlower = 0, s.Rows()-1
	s.resetTabStops()
	s.hasSel = false
	s.title = ""
	s.titleStack = nil
	s.defaultCell = grid.Blank()
	s.g.Clear(0, 0, s.g.Cols(), s.g.Rows(), s.defaultCell)
}

func (s *Screen) resetTabStops() {
	cols := s.Cols()
	s.tabStops = make([]bool, cols)
	for i := 0; i < cols; i += 8 {
		s.tabStops[i] = true
	}
}

// SetTabStop sets a tab stop at the cursor's (or an explicit) column.
func (s *Screen) SetTabStop(col int) {
	if col >= 0 && col < len(s.tabStops) {
		s.tabStops[col] = true
	}
}

// ClearTabStop clears the tab stop at col.
func (s *Screen) ClearTabStop(col int) {
	if col >= 0 && col < len(s.tabStops) {
		s.tabStops[col] = false
	}
}

// ClearAllTabStops clears every tab stop.
func (s *Screen) ClearAllTabStops() {
	for i := range s.tabStops {
		s.tabStops[i] = false
	}
}

// NextTabStop returns the next tab stop after col, or the last column.
func (s *Screen) NextTabStop(col int) int {
	for c := col + 1; c < len(s.tabStops); c++ {
		if s.tabStops[c] {
			return c
		}
	}
	if len(s.tabStops) == 0 {
		return 0
	}
	return len(s.tabStops) - 1
}

// PrevTabStop returns the previous tab stop before col, or 0.
func (s *Screen) PrevTabStop(col int) int {
	for c := col - 1; c >= 0; c-- {
		if s.tabStops[c] {
			return c
		}
	}
	return 0
}

// Title returns the current window title.
func (s *Screen) Title() string { return s.title }

// SetTitle validates and sets the title (UTF-8 only, spec §4.2).
func (s *Screen) SetTitle(title string) {
	if !utf8.ValidString(title) {
		return
	}
	s.title = title
}

// PushTitle saves the current title on a LIFO stack, capped at TitleStackLimit.
func (s *Screen) PushTitle() {
	s.titleStack = append(s.titleStack, s.title)
	if len(s.titleStack) > TitleStackLimit {
		s.titleStack = s.titleStack[len(s.titleStack)-TitleStackLimit:]
	}
}

// PopTitle restores the most recently pushed title; no-op if the stack is empty.
func (s *Screen) PopTitle() {
	if len(s.titleStack) == 0 {
		return
	}
	n := len(s.titleStack) - 1
	s.title = s.titleStack[n]
	s.titleStack = s.titleStack[:n]
}

// Hyperlinks returns the screen's hyperlink id table (OSC 8).
func (s *Screen) Hyperlinks() *HyperlinkTable { return s.hyperlinks }
