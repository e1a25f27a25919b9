package writer

import (
	"github.com/vtmux/vtmux/internal/grid"
	"github.com/vtmux/vtmux/internal/screen"
)

// CursorUp moves the cursor up n rows, stopping at the scroll region top
// (or row 0 if the cursor started above the region).
func (w *Writer) CursorUp(n int) {
	w.flushBatch()
	cx, cy := w.s.Cursor()
	upper, _ := w.s.ScrollRegion()
	limit := 0
	if cy >= upper {
		limit = upper
	}
	cy -= n
	if cy < limit {
		cy = limit
	}
	w.s.SetCursor(cx, cy)
}

// CursorDown moves the cursor down n rows, stopping at the scroll region bottom.
func (w *Writer) CursorDown(n int) {
	w.flushBatch()
	cx, cy := w.s.Cursor()
	_, lower := w.s.ScrollRegion()
	limit := w.s.Rows() - 1
	if cy <= lower {
		limit = lower
	}
	cy += n
	if cy > limit {
		cy = limit
	}
	w.s.SetCursor(cx, cy)
}

// CursorForward moves the cursor right n columns, stopping at the last column.
func (w *Writer) CursorForward(n int) {
	w.flushBatch()
	cx, cy := w.s.Cursor()
	cx += n
	if cx > w.s.Cols()-1 {
		cx = w.s.Cols() - 1
	}
	w.s.SetCursor(cx, cy)
}

// CursorBackward moves the cursor left n columns, stopping at column 0.
func (w *Writer) CursorBackward(n int) {
	w.flushBatch()
	cx, cy := w.s.Cursor()
	cx -= n
	if cx < 0 {
		cx = 0
	}
	w.s.SetCursor(cx, cy)
}

// ReverseIndex moves the cursor up one row, scrolling the region down when
// already at the top (spec §4.3 reverseindex).
func (w *Writer) ReverseIndex() {
	w.flushBatch()
	cx, cy := w.s.Cursor()
	upper, _ := w.s.ScrollRegion()
	if cy == upper {
		w.ScrollDown(1)
	} else if cy > 0 {
		cy--
	}
	w.s.SetCursor(cx, cy)
	w.emit(TTYContext{Kind: DrawReverseIndex})
}

// Cursor returns the current cursor position.
func (w *Writer) Cursor() (cx, cy int) { return w.s.Cursor() }

// Rows returns the screen's row count.
func (w *Writer) Rows() int { return w.s.Rows() }

// Cols returns the screen's column count.
func (w *Writer) Cols() int { return w.s.Cols() }

// SetCursorStyle sets the cursor's rendered style (DECSCUSR).
func (w *Writer) SetCursorStyle(cs screen.CursorStyle) { w.s.SetCursorStyle(cs) }

// ClearAllTabStops clears every tab stop (TBC, Ps=3).
func (w *Writer) ClearAllTabStops() { w.s.ClearAllTabStops() }

// LastInputRune returns the most recently written printable rune, or 0 if
// none yet (CSI Pn b "repeat last character").
func (w *Writer) LastInputRune() rune { return w.lastRune }

// SetTabStopAtCursor sets a tab stop at the cursor's current column (HTS).
func (w *Writer) SetTabStopAtCursor() {
	cx, _ := w.s.Cursor()
	w.s.SetTabStop(cx)
}

// ModeSet enables mode bits on the underlying Screen.
func (w *Writer) ModeSet(m screen.Mode) { w.s.Set(m) }

// ModeClear disables mode bits on the underlying Screen.
func (w *Writer) ModeClear(m screen.Mode) { w.s.Clear(m) }

// ModeHas reports whether all bits in m are currently set.
func (w *Writer) ModeHas(m screen.Mode) bool { return w.s.Has(m) }

// Reinit resets the screen to power-on defaults (RIS).
func (w *Writer) Reinit() {
	w.flushBatch()
	w.s.Reinit()
	w.tmpl = grid.Blank()
	w.insert = false
}

// SaveCursor implements DECSC.
func (w *Writer) SaveCursor() { w.flushBatch(); w.s.SaveCursor() }

// RestoreCursor implements DECRC.
func (w *Writer) RestoreCursor() { w.flushBatch(); w.s.RestoreCursor() }

// AlternateOn switches to the alternate screen buffer.
func (w *Writer) AlternateOn(clear bool) { w.flushBatch(); w.s.AlternateOn(clear) }

// AlternateOff switches back to the primary screen buffer.
func (w *Writer) AlternateOff() { w.flushBatch(); w.s.AlternateOff() }

// AlternateActive reports whether the alternate screen is current.
func (w *Writer) AlternateActive() bool { return w.s.AlternateActive() }

// SetTitle sets the window title (OSC 0/1/2).
func (w *Writer) SetTitle(title string) { w.s.SetTitle(title) }

// Title returns the current window title.
func (w *Writer) Title() string { return w.s.Title() }

// PushTitle saves the current title on the LIFO title stack.
func (w *Writer) PushTitle() { w.s.PushTitle() }

// PopTitle restores the most recently pushed title.
func (w *Writer) PopTitle() { w.s.PopTitle() }

// SetSelection records a selection rectangle or line range (spec §4.2/§4.3
// setselection).
func (w *Writer) SetSelection(sx, sy, ex, ey int, rectangle, emacsModeKeys bool) {
	w.s.SetSelection(sx, sy, ex, ey, rectangle, emacsModeKeys)
	w.emit(TTYContext{Kind: DrawSetSelection})
}

// ClearSelection removes any active selection.
func (w *Writer) ClearSelection() { w.s.ClearSelection() }

// ClearHistory discards all scrollback for the active grid.
func (w *Writer) ClearHistory() {
	w.flushBatch()
	g := w.s.Grid()
	g.SetHLimit(0)
	g.SetHLimit(g.HLimit())
}

// AlignmentTest fills the screen with 'E' per DECALN.
func (w *Writer) AlignmentTest() {
	w.flushBatch()
	g := w.s.Grid()
	cell := grid.Blank()
	cell.SetRune('E', 1)
	for y := 0; y < w.s.Rows(); y++ {
		for x := 0; x < w.s.Cols(); x++ {
			g.SetCell(x, g.HSize()+y, cell)
		}
	}
	w.s.SetCursor(0, 0)
	w.emit(TTYContext{Kind: DrawClearScreen, Bg: w.tmpl})
}

// SetPath records the pane's reported working directory (OSC 7). It is
// stored on the Screen's default cell template owner only insofar as the
// caller (a Pane) persists the value; the writer just validates/forwards it
// through a hook-free passthrough since Screen has no cwd field of its own.
func (w *Writer) SetPath(path string, sink func(string)) {
	if sink != nil {
		sink(path)
	}
}

// Hyperlinks returns the active screen's hyperlink id table (OSC 8).
func (w *Writer) Hyperlinks() *screen.HyperlinkTable { return w.s.Hyperlinks() }

// Resize resizes the underlying Screen (spec §4.2 resize algorithm).
func (w *Writer) Resize(sx, sy int, reflow, eatEmpty, cursorAware bool) {
	w.flushBatch()
	w.s.Resize(sx, sy, reflow, eatEmpty, cursorAware)
}

// Box draws a preview/border box outline; expressed purely as a draw
// context since it never mutates the Grid (spec §4.3 "box").
func (w *Writer) Box(row, col, width, height int) {
	w.emit(TTYContext{Kind: DrawBox, FromRow: row, FromCol: col, ToRow: row + height, ToCol: col + width})
}

// Preview emits a read-only preview draw context without touching the Grid.
func (w *Writer) Preview(row, col int, text string) {
	w.emit(TTYContext{Kind: DrawPreview, FromRow: row, FromCol: col, PreviewText: text})
}
