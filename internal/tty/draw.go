package tty

import (
	"fmt"
	"strings"

	"github.com/xo/terminfo"

	"github.com/vtmux/vtmux/internal/grid"
	"github.com/vtmux/vtmux/internal/writer"
)

// Apply translates one TTYContext into terminal bytes and writes them,
// honoring the set-client predicate and overlay clip first (spec §4.9).
// paneRow/paneCol are the pane's on-screen offset (its top-left corner
// within the client's window), added to every coordinate after viewport
// clipping.
func (t *Term) Apply(ctx writer.TTYContext, paneRow, paneCol int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped || !t.setClient() {
		return nil
	}

	switch ctx.Kind {
	case writer.DrawCells:
		return t.cmdCells(ctx, paneRow, paneCol)
	case writer.DrawClearLine:
		return t.cmdClearLine(ctx, paneRow, paneCol)
	case writer.DrawClearScreen:
		return t.cmdClearScreen(ctx, paneRow, paneCol)
	case writer.DrawScrollUp:
		return t.cmdScroll(ctx, paneRow, paneCol, 1)
	case writer.DrawScrollDown:
		return t.cmdScroll(ctx, paneRow, paneCol, -1)
	case writer.DrawCursorMove:
		return t.cmdCursorMove(ctx, paneRow, paneCol)
	case writer.DrawReverseIndex:
		t.w.WriteString("\x1bM")
		return t.flushLocked()
	case writer.DrawSetSelection:
		return t.flushLocked() // selection is a client-local highlight; no bytes to send
	case writer.DrawBox, writer.DrawPreview:
		return t.cmdRawString(ctx, paneRow, paneCol)
	default:
		return fmt.Errorf("tty: unknown draw kind %v", ctx.Kind)
	}
}

// clipRun applies the viewport origin and overlay clip to [fromCol,toCol)
// on absolute row, returning the visible sub-range translated into
// terminal-relative coordinates, or ok=false if nothing remains visible.
func (t *Term) clipRun(row, fromCol, toCol int) (termRow, visFrom, visTo int, ok bool) {
	row -= t.oy
	fromCol -= t.ox
	toCol -= t.ox
	if row < 0 || row >= t.sy {
		return 0, 0, 0, false
	}
	if fromCol < 0 {
		fromCol = 0
	}
	if toCol > t.sx {
		toCol = t.sx
	}
	if fromCol >= toCol {
		return 0, 0, 0, false
	}
	visFrom, visTo, ok = t.clip(row, fromCol, toCol)
	return row, visFrom, visTo, ok
}

// cmd_cells renders one contiguous cell run, collapsing it to a clearline
// when every cell is a blank of the terminal's current background (spec
// §4.9 optimisation: "cmd_cells over a full line is replaced by clearline
// when all cells are a blank of the current bg").
func (t *Term) cmdCells(ctx writer.TTYContext, paneRow, paneCol int) error {
	row, from, to, ok := t.clipRun(paneRow+ctx.Row, paneCol+ctx.Col, paneCol+ctx.Col+len(ctx.Cells))
	if !ok {
		return nil
	}
	skip := from - (paneCol + ctx.Col)
	cells := ctx.Cells[skip : skip+(to-from)]

	if to-from == t.sx && isBlankRun(cells) {
		return t.cmdClearLineAt(row, cells[0])
	}

	t.moveCursorTo(row, from)
	var b strings.Builder
	for _, c := range cells {
		t.writeCellSGR(&b, c)
		b.WriteString(c.String())
	}
	t.w.WriteString(b.String())
	t.cursorCol = from + len(cells)
	t.cursorRow = row
	return t.flushLocked()
}

// isBlankRun reports whether every cell in cells is an unattributed space
// sharing the same background, the condition under which cmd_cells
// collapses to a single clearline (spec §4.9).
func isBlankRun(cells []grid.Cell) bool {
	if len(cells) == 0 {
		return false
	}
	bg := cells[0].Bg
	for _, c := range cells {
		if c.Rune() != ' ' || c.Attrs != 0 || c.Bg != bg {
			return false
		}
	}
	return true
}

// writeCellSGR emits the minimal SGR transition from t.cur to c, updating
// t.cur; contiguous identical-attribute runs therefore cost one escape.
func (t *Term) writeCellSGR(b *strings.Builder, c grid.Cell) {
	if cellSGREqual(t.cur, c) {
		return
	}
	params := []string{"0"}
	if c.HasAttr(grid.AttrBold) {
		params = append(params, "1")
	}
	if c.HasAttr(grid.AttrDim) {
		params = append(params, "2")
	}
	if c.HasAttr(grid.AttrItalic) {
		params = append(params, "3")
	}
	if c.HasAttr(grid.AttrUnderline) {
		params = append(params, "4")
	}
	if c.HasAttr(grid.AttrBlinkSlow) {
		params = append(params, "5")
	}
	if c.HasAttr(grid.AttrBlinkFast) {
		params = append(params, "6")
	}
	if c.HasAttr(grid.AttrReverse) {
		params = append(params, "7")
	}
	if c.HasAttr(grid.AttrHidden) {
		params = append(params, "8")
	}
	if c.HasAttr(grid.AttrStrikethrough) && t.features.Has(FeatureStrikethrough) {
		params = append(params, "9")
	}
	if c.HasAttr(grid.AttrOverline) && t.features.Has(FeatureOverline) {
		params = append(params, "53")
	}
	if fg := sgrSequence(38, c.Fg, t.level); fg != "" {
		params = append(params, fg)
	}
	if bg := sgrSequence(48, c.Bg, t.level); bg != "" {
		params = append(params, bg)
	}
	b.WriteString("\x1b[")
	b.WriteString(strings.Join(params, ";"))
	b.WriteByte('m')
	t.cur = c
}

func cellSGREqual(a, b grid.Cell) bool {
	return a.Attrs == b.Attrs && a.Fg == b.Fg && a.Bg == b.Bg && a.Underline == b.Underline
}

// cmd_clearline blanks [FromCol,ToCol) on one row with the given
// background, using EL (erase line) when the whole row is covered.
func (t *Term) cmdClearLine(ctx writer.TTYContext, paneRow, paneCol int) error {
	row, from, to, ok := t.clipRun(paneRow+ctx.FromRow, paneCol+ctx.FromCol, paneCol+ctx.ToCol)
	if !ok {
		return nil
	}
	if from == 0 && to == t.sx {
		return t.cmdClearLineAt(row, ctx.Bg)
	}
	t.moveCursorTo(row, from)
	var b strings.Builder
	for i := from; i < to; i++ {
		t.writeCellSGR(&b, ctx.Bg)
		b.WriteByte(' ')
	}
	t.w.WriteString(b.String())
	t.cursorRow, t.cursorCol = row, to
	return t.flushLocked()
}

func (t *Term) cmdClearLineAt(row int, bg grid.Cell) error {
	t.moveCursorTo(row, 0)
	var b strings.Builder
	t.writeCellSGR(&b, bg)
	b.WriteString(t.capPrintf(terminfo.ClrEol, "\x1b[K"))
	t.w.WriteString(b.String())
	t.cursorRow, t.cursorCol = row, 0
	return t.flushLocked()
}

func (t *Term) cmdClearScreen(ctx writer.TTYContext, paneRow, paneCol int) error {
	var b strings.Builder
	t.writeCellSGR(&b, ctx.Bg)
	b.WriteString(t.capPrintf(terminfo.ClearScreen, "\x1b[2J"))
	t.w.WriteString(b.String())
	return t.flushLocked()
}

// cmd_scrollup / cmd_scrolldown: a scroll spanning the whole client region
// is emitted as a region scroll (DECSTBM + SU/SD); direction is +1 for up,
// -1 for down (spec §4.9 optimisation: "a scroll that equals a full region
// is emitted as a region scroll").
func (t *Term) cmdScroll(ctx writer.TTYContext, paneRow, paneCol, dir int) error {
	upper := ctx.Upper + paneRow - t.oy
	lower := ctx.Lower + paneRow - t.oy
	if upper < 0 || lower >= t.sy || upper > lower {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\x1b[%d;%dr", upper+1, lower+1)
	if dir > 0 {
		fmt.Fprintf(&b, "\x1b[%dS", ctx.N)
	} else {
		fmt.Fprintf(&b, "\x1b[%dT", ctx.N)
	}
	fmt.Fprintf(&b, "\x1b[1;%dr", t.sy)
	t.w.WriteString(b.String())
	return t.flushLocked()
}

func (t *Term) cmdCursorMove(ctx writer.TTYContext, paneRow, paneCol int) error {
	row := ctx.CursorRow + paneRow - t.oy
	col := ctx.CursorCol + paneCol - t.ox
	if row < 0 || row >= t.sy || col < 0 || col >= t.sx {
		return nil
	}
	t.moveCursorTo(row, col)
	return t.flushLocked()
}

// cmd_rawstring emits ctx.PreviewText verbatim at the draw position,
// covering both pane-preview thumbnails and popup/menu box rendering.
func (t *Term) cmdRawString(ctx writer.TTYContext, paneRow, paneCol int) error {
	row := ctx.FromRow + paneRow - t.oy
	col := ctx.FromCol + paneCol - t.ox
	if row < 0 || row >= t.sy || col < 0 || col >= t.sx {
		return nil
	}
	t.moveCursorTo(row, col)
	t.w.WriteString(ctx.PreviewText)
	return t.flushLocked()
}

// cmd_syncstart / cmd_syncend bracket a batch of draws in a synchronized
// update (spec §6 "sync" feature), eliding the calls entirely when the
// terminal doesn't advertise support.
func (t *Term) SyncStart() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.features.Has(FeatureSync) {
		return nil
	}
	t.w.WriteString("\x1b[?2026h")
	return t.flushLocked()
}

func (t *Term) SyncEnd() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.features.Has(FeatureSync) {
		return nil
	}
	t.w.WriteString("\x1b[?2026l")
	return t.flushLocked()
}

func (t *Term) moveCursorTo(row, col int) {
	if row == t.cursorRow && col == t.cursorCol {
		return
	}
	seq := t.capPrintf(terminfo.CursorAddress, "", row, col)
	if seq == "" {
		seq = fmt.Sprintf("\x1b[%d;%dH", row+1, col+1)
	}
	t.w.WriteString(seq)
	t.cursorRow, t.cursorCol = row, col
}
