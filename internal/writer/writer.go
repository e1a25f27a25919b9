package writer

import (
	"github.com/vtmux/vtmux/internal/grid"
	"github.com/vtmux/vtmux/internal/screen"
)

// Emitter receives collected draw contexts as the Writer produces them.
// internal/tty implements this to translate them into byte sequences.
type Emitter interface {
	Emit(TTYContext)
}

// EmitFunc adapts a plain function to Emitter.
type EmitFunc func(TTYContext)

func (f EmitFunc) Emit(c TTYContext) { f(c) }

// Hooks lets a caller intercept selected Writer operations before the
// default implementation runs — the teacher's public/internal/middleware
// split, generalized to the handful of operations most worth intercepting
// for testing and logging rather than ported exhaustively for all ~50
// (spec §4.3; DESIGN.md).
type Hooks struct {
	Input      func(r rune, next func(rune))
	LineFeed   func(next func())
	ClearScreen func(mode ClearMode, next func(ClearMode))
}

// ClearMode selects the region cleared by ClearScreen/ClearLine.
type ClearMode int

const (
	ClearBelow ClearMode = iota
	ClearAbove
	ClearAll
	ClearSaved
)

// LineClearMode selects the region cleared by ClearLine.
type LineClearMode int

const (
	LineClearRight LineClearMode = iota
	LineClearLeft
	LineClearAll
)

// Writer is the mutator façade over a Screen: every VT operation the
// parser recognizes funnels through one of these methods, which batch
// contiguous printable writes and emit TTYContext draw instructions
// (spec §4.3).
type Writer struct {
	s      *screen.Screen
	hooks  *Hooks
	em     Emitter
	batch  rowBatch
	syncN  int // sync_start/stop nesting depth
	tmpl   grid.Cell
	insert bool
	lastRune rune
}

// New creates a Writer over s, emitting draw contexts to em. hooks may be
// nil.
func New(s *screen.Screen, em Emitter, hooks *Hooks) *Writer {
	w := &Writer{s: s, em: em, hooks: hooks, tmpl: grid.Blank()}
	return w
}

func (w *Writer) emit(ctx TTYContext) {
	if w.em != nil {
		w.em.Emit(ctx)
	}
}

// SyncStart begins a synchronized-update block (DECSET 2026). Nested calls
// are tolerated; only the outermost Stop flushes (spec §4.3).
func (w *Writer) SyncStart() { w.syncN++ }

// SyncStop ends a synchronized-update block. A Stop with no matching Start
// is a no-op.
func (w *Writer) SyncStop() {
	if w.syncN > 0 {
		w.syncN--
	}
}

// Syncing reports whether output is currently suppressed for synchronized update.
func (w *Writer) Syncing() bool { return w.syncN > 0 }

// Input writes one printable rune at the cursor, handling wrap, insert
// mode, and wide-character padding (spec §4.3 "Input").
func (w *Writer) Input(r rune) {
	if w.hooks != nil && w.hooks.Input != nil {
		w.hooks.Input(r, w.inputInternal)
		return
	}
	w.inputInternal(r)
}

func (w *Writer) inputInternal(r rune) {
	width := grid.RuneWidth(r)
	if width == 0 {
		w.combineWithPrevious(r)
		return
	}

	cx, cy := w.s.Cursor()
	if cx+width > w.s.Cols() {
		w.flushBatch()
		if w.s.Has(screenModeWrap()) {
			g := w.s.Grid()
			if line := g.PeekLine(g.HSize() + cy); line != nil {
				line.SetWrapped(true)
			}
			cx = 0
			cy++
			if cy >= w.s.Rows() {
				w.scrollUpInternal(1)
				cy = w.s.Rows() - 1
			}
		} else {
			cx = w.s.Cols() - width
		}
		w.s.SetCursor(cx, cy)
	}

	if w.insert {
		w.flushBatch()
		w.s.Grid().MoveCells(cx+width, cx, w.gridRow(cy), w.s.Cols()-cx-width, w.tmpl)
	}

	cell := w.tmpl
	cell.SetRune(r, width)
	w.writeCell(cx, cy, cell)
	w.lastRune = r

	if width == 2 && cx+1 < w.s.Cols() {
		pad := grid.Blank()
		pad.Width = 0
		pad.Flags |= grid.FlagPadding
		w.s.Grid().SetPadding(cx+1, w.gridRow(cy))
	}

	cx += width
	if cx >= w.s.Cols() {
		w.flushBatch()
	}
	w.s.SetCursor(cx, cy)
}

func (w *Writer) combineWithPrevious(r rune) {
	cx, cy := w.s.Cursor()
	px := cx - 1
	if px < 0 {
		return
	}
	g := w.s.Grid()
	row := w.gridRow(cy)
	c := g.Cell(px, row)
	if c.AppendGrapheme(r) {
		g.SetCell(px, row, c)
	}
}

func (w *Writer) gridRow(cy int) int { return w.s.Grid().HSize() + cy }

// writeCell places a cell at (cx,cy) and extends the pending row batch if
// contiguous, else flushes the old batch and starts a new one.
func (w *Writer) writeCell(cx, cy int, c grid.Cell) {
	row := w.gridRow(cy)
	w.s.Grid().SetCell(cx, row, c)
	if !w.batch.contiguous(cy, cx) {
		w.flushBatch()
		w.batch.start(cy, cx)
	}
	w.batch.append(c)
}

func (w *Writer) flushBatch() {
	if w.Syncing() {
		w.batch.active = false
		return
	}
	w.batch.flush(w)
}

// LineFeed moves the cursor down one row, scrolling if already at the
// bottom of the scroll region (spec §4.3).
func (w *Writer) LineFeed() {
	if w.hooks != nil && w.hooks.LineFeed != nil {
		w.hooks.LineFeed(w.lineFeedInternal)
		return
	}
	w.lineFeedInternal()
}

func (w *Writer) lineFeedInternal() {
	w.flushBatch()
	cx, cy := w.s.Cursor()
	_, lower := w.s.ScrollRegion()
	if cy == lower {
		w.scrollUpInternal(1)
	} else if cy < w.s.Rows()-1 {
		cy++
	}
	w.s.SetCursor(cx, cy)
}

// CarriageReturn moves the cursor to column 0.
func (w *Writer) CarriageReturn() {
	w.flushBatch()
	_, cy := w.s.Cursor()
	w.s.SetCursor(0, cy)
}

// Backspace moves the cursor left one column, stopping at 0.
func (w *Writer) Backspace() {
	w.flushBatch()
	cx, cy := w.s.Cursor()
	if cx > 0 {
		cx--
	}
	w.s.SetCursor(cx, cy)
}

// Tab advances the cursor to the next tab stop.
func (w *Writer) Tab() {
	w.flushBatch()
	cx, cy := w.s.Cursor()
	w.s.SetCursor(w.s.NextTabStop(cx), cy)
}

// Goto moves the cursor to an absolute position, honoring origin mode.
func (w *Writer) Goto(row, col int) {
	w.flushBatch()
	if w.s.Has(screenModeOrigin()) {
		upper, _ := w.s.ScrollRegion()
		row += upper
	}
	w.s.SetCursor(col, row)
	w.emit(TTYContext{Kind: DrawCursorMove, CursorRow: row, CursorCol: col})
}

// ScrollUp shifts the scroll region up by n, pushing rows into history.
func (w *Writer) ScrollUp(n int) { w.flushBatch(); w.scrollUpInternal(n) }

func (w *Writer) scrollUpInternal(n int) {
	upper, lower := w.s.ScrollRegion()
	for i := 0; i < n; i++ {
		w.s.Grid().ScrollHistoryRegion(upper, lower, w.tmpl)
	}
	w.emit(TTYContext{Kind: DrawScrollUp, Upper: upper, Lower: lower, N: n})
}

// ScrollDown shifts the scroll region down by n, discarding rows that fall
// off the bottom and filling the top with blanks.
func (w *Writer) ScrollDown(n int) {
	w.flushBatch()
	upper, lower := w.s.ScrollRegion()
	g := w.s.Grid()
	for i := 0; i < n; i++ {
		g.MoveLines(g.HSize()+upper+1, g.HSize()+upper, lower-upper, w.tmpl)
		g.ClearLines(g.HSize()+upper, 1, w.tmpl)
	}
	w.emit(TTYContext{Kind: DrawScrollDown, Upper: upper, Lower: lower, N: n})
}

// ClearLine erases part or all of the cursor's row.
func (w *Writer) ClearLine(mode LineClearMode) {
	w.flushBatch()
	_, cy := w.s.Cursor()
	cx, _ := w.s.Cursor()
	row := w.gridRow(cy)
	cols := w.s.Cols()
	switch mode {
	case LineClearRight:
		w.s.Grid().Clear(cx, row, cols-cx, 1, w.tmpl)
	case LineClearLeft:
		w.s.Grid().Clear(0, row, cx+1, 1, w.tmpl)
	case LineClearAll:
		w.s.Grid().ClearLines(row, 1, w.tmpl)
	}
	w.emit(TTYContext{Kind: DrawClearLine, FromRow: cy, ToRow: cy, Bg: w.tmpl})
}

// ClearScreen erases part or all of the screen.
func (w *Writer) ClearScreen(mode ClearMode) {
	if w.hooks != nil && w.hooks.ClearScreen != nil {
		w.hooks.ClearScreen(mode, w.clearScreenInternal)
		return
	}
	w.clearScreenInternal(mode)
}

func (w *Writer) clearScreenInternal(mode ClearMode) {
	w.flushBatch()
	cx, cy := w.s.Cursor()
	g := w.s.Grid()
	cols, rows := w.s.Cols(), w.s.Rows()
	switch mode {
	case ClearBelow:
		g.Clear(cx, g.HSize()+cy, cols-cx, 1, w.tmpl)
		g.ClearLines(g.HSize()+cy+1, rows-cy-1, w.tmpl)
	case ClearAbove:
		g.ClearLines(g.HSize(), cy, w.tmpl)
		g.Clear(0, g.HSize()+cy, cx+1, 1, w.tmpl)
	case ClearAll:
		g.ClearLines(g.HSize(), rows, w.tmpl)
	case ClearSaved:
		g.SetHLimit(0)
		g.SetHLimit(g.HLimit())
	}
	w.emit(TTYContext{Kind: DrawClearScreen, Bg: w.tmpl})
}

// InsertChars shifts n blank cells in at the cursor, pushing existing
// content right within the row.
func (w *Writer) InsertChars(n int) {
	w.flushBatch()
	cx, cy := w.s.Cursor()
	row := w.gridRow(cy)
	w.s.Grid().MoveCells(cx+n, cx, row, w.s.Cols()-cx-n, w.tmpl)
}

// DeleteChars removes n cells at the cursor, shifting remaining content left.
func (w *Writer) DeleteChars(n int) {
	w.flushBatch()
	cx, cy := w.s.Cursor()
	row := w.gridRow(cy)
	w.s.Grid().MoveCells(cx, cx+n, row, w.s.Cols()-cx-n, w.tmpl)
}

// EraseChars resets n cells at the cursor to the default template without shifting.
func (w *Writer) EraseChars(n int) {
	w.flushBatch()
	cx, cy := w.s.Cursor()
	w.s.Grid().Clear(cx, w.gridRow(cy), n, 1, w.tmpl)
}

// InsertLines inserts n blank lines at the cursor within the scroll region.
func (w *Writer) InsertLines(n int) {
	w.flushBatch()
	_, cy := w.s.Cursor()
	upper, lower := w.s.ScrollRegion()
	if cy < upper || cy > lower {
		return
	}
	g := w.s.Grid()
	g.MoveLines(g.HSize()+cy+n, g.HSize()+cy, lower-cy-n+1, w.tmpl)
	g.ClearLines(g.HSize()+cy, n, w.tmpl)
}

// DeleteLines removes n lines at the cursor within the scroll region,
// shifting the rest up.
func (w *Writer) DeleteLines(n int) {
	w.flushBatch()
	_, cy := w.s.Cursor()
	upper, lower := w.s.ScrollRegion()
	if cy < upper || cy > lower {
		return
	}
	g := w.s.Grid()
	g.MoveLines(g.HSize()+cy, g.HSize()+cy+n, lower-cy-n+1, w.tmpl)
	g.ClearLines(g.HSize()+lower-n+1, n, w.tmpl)
}

// SetScrollRegion sets the scroll boundaries (0-based, inclusive) and moves
// the cursor home.
func (w *Writer) SetScrollRegion(upper, lower int) {
	w.flushBatch()
	w.s.SetScrollRegion(upper, lower)
	if w.s.Has(screenModeOrigin()) {
		w.s.SetCursor(0, upper)
	} else {
		w.s.SetCursor(0, 0)
	}
}

// SetTemplate replaces the SGR template applied to subsequently written cells.
func (w *Writer) SetTemplate(c grid.Cell) { w.tmpl = c }

// Template returns the current SGR template cell.
func (w *Writer) Template() grid.Cell { return w.tmpl }

// SetInsertMode toggles character insert mode.
func (w *Writer) SetInsertMode(v bool) { w.insert = v }

// Flush forces any pending batched run out immediately (end of parser frame).
func (w *Writer) Flush() { w.flushBatch() }

func screenModeWrap() screen.Mode   { return screen.ModeWrap }
func screenModeOrigin() screen.Mode { return screen.ModeOrigin }
