package grid

import "fmt"

// Grid is a rectangular sx×sy cell matrix with an attached, FIFO-bounded
// scrollback history of hsize lines above the visible region (spec §3/§4.1).
//
// Lines are stored as a single slice: indices [0, hsize) are history (oldest
// first), indices [hsize, hsize+sy) are the visible region. New rows enter
// at the bottom of the visible region; scrolling moves the top visible row
// into history and drops the oldest history row once hsize exceeds hlimit.
type Grid struct {
	sx, sy int
	hlimit int
	hsize  int // number of history lines currently stored
	// hscrolled is how many history lines are "pulled back" into the visible
	// region by a height-grow resize (spec §4.2 resize algorithm); it does
	// not represent a live scrollback viewport (that's Screen's job).
	hscrolled int

	// historyEnabled gates whether ScrollHistoryRegion pushes scrolled-off
	// rows into history at all, independent of hlimit (the alternate screen
	// disables this; spec §4.2, DESIGN.md Open Question 1).
	historyEnabled bool

	lines []Line
}

// New creates a Grid with the given visible dimensions and history limit.
// sy must be >= 1 (spec §3 invariant).
func New(sx, sy, hlimit int) *Grid {
	if sy < 1 {
		sy = 1
	}
	if sx < 1 {
		sx = 1
	}
	g := &Grid{sx: sx, sy: sy, hlimit: hlimit, historyEnabled: true}
	g.lines = make([]Line, sy)
	for i := range g.lines {
		g.lines[i] = newLine(sx)
	}
	return g
}

func (g *Grid) Cols() int   { return g.sx }
func (g *Grid) Rows() int   { return g.sy }
func (g *Grid) HSize() int  { return g.hsize }
func (g *Grid) HLimit() int { return g.hlimit }

// SetHLimit changes the history cap, pruning immediately if needed.
func (g *Grid) SetHLimit(n int) {
	g.hlimit = n
	g.CollectHistory()
}

// HistoryEnabled reports whether scrolled-off rows are pushed into history.
func (g *Grid) HistoryEnabled() bool { return g.historyEnabled }

// SetHistoryEnabled toggles history accumulation (spec §4.2 alternate screen:
// the alt grid runs with history disabled regardless of hlimit).
func (g *Grid) SetHistoryEnabled(v bool) { g.historyEnabled = v }

// Total returns the number of stored lines (history + visible).
func (g *Grid) Total() int { return g.hsize + g.sy }

// idx validates y against [0, hsize+sy) and returns the slice index, or -1.
func (g *Grid) idx(y int) int {
	if y < 0 || y >= g.Total() {
		return -1
	}
	return y
}

// Cell returns the cell at (x, y). y spans [0, hsize+sy) (spec §4.1). Out of
// range reads return the well-defined default cell.
func (g *Grid) Cell(x, y int) Cell {
	i := g.idx(y)
	if i < 0 || x < 0 || x >= len(g.lines[i].Cells) {
		return Blank()
	}
	return g.lines[i].Cells[x]
}

// SetCell writes the cell at (x, y). Writes outside [0, hsize+sy) are fatal
// per spec §4.1 failure policy.
func (g *Grid) SetCell(x, y int, c Cell) {
	i := g.idx(y)
	if i < 0 {
		panic(fmt.Sprintf("grid: SetCell out of range y=%d total=%d", y, g.Total()))
	}
	if x < 0 || x >= len(g.lines[i].Cells) {
		panic(fmt.Sprintf("grid: SetCell out of range x=%d cols=%d", x, len(g.lines[i].Cells)))
	}
	g.lines[i].markExtendedIfNeeded(&c)
	g.lines[i].Cells[x] = c
}

// SetPadding marks (x, y) as the right half of a wide character (spec §4.1).
func (g *Grid) SetPadding(x, y int) {
	i := g.idx(y)
	if i < 0 || x < 0 || x >= len(g.lines[i].Cells) {
		return
	}
	cell := Blank()
	cell.Width = 0
	cell.Flags |= FlagPadding
	g.lines[i].Cells[x] = cell
}

// PeekLine returns a direct reference to line y for read access (spec §4.1
// peek-line). The caller must not retain it across a mutation.
func (g *Grid) PeekLine(y int) *Line {
	i := g.idx(y)
	if i < 0 {
		return nil
	}
	return &g.lines[i]
}

func blankCellWithBg(bg Cell) Cell {
	c := Blank()
	c.Bg = bg.Bg
	return c
}

// ClearLines erases ny lines starting at py, filling with bg's background.
func (g *Grid) ClearLines(py, ny int, bg Cell) {
	for y := py; y < py+ny; y++ {
		i := g.idx(y)
		if i < 0 {
			continue
		}
		for x := range g.lines[i].Cells {
			g.lines[i].Cells[x] = blankCellWithBg(bg)
		}
		g.lines[i].Flags &^= LineWrapped
	}
}

// Clear erases the rectangle [px, px+nx) x [py, py+ny), filling with bg.
func (g *Grid) Clear(px, py, nx, ny int, bg Cell) {
	for y := py; y < py+ny; y++ {
		i := g.idx(y)
		if i < 0 {
			continue
		}
		for x := px; x < px+nx; x++ {
			if x < 0 || x >= len(g.lines[i].Cells) {
				continue
			}
			g.lines[i].Cells[x] = blankCellWithBg(bg)
		}
	}
}

// MoveLines shifts the ny lines starting at py so they start at dy, filling
// any vacated lines with bg.
func (g *Grid) MoveLines(dy, py, ny int, bg Cell) {
	if dy == py {
		return
	}
	saved := make([]Line, 0, ny)
	for y := py; y < py+ny; y++ {
		i := g.idx(y)
		if i < 0 {
			saved = append(saved, newLine(g.sx))
			continue
		}
		saved = append(saved, g.lines[i].clone())
	}
	for n, y := 0, dy; n < ny; n, y = n+1, y+1 {
		i := g.idx(y)
		if i < 0 {
			continue
		}
		g.lines[i] = saved[n]
	}
	// Blank out any source rows not overwritten by the destination range.
	dstLo, dstHi := dy, dy+ny
	for y := py; y < py+ny; y++ {
		if y >= dstLo && y < dstHi {
			continue
		}
		i := g.idx(y)
		if i < 0 {
			continue
		}
		for x := range g.lines[i].Cells {
			g.lines[i].Cells[x] = blankCellWithBg(bg)
		}
	}
}

// MoveCells shifts nx cells within row py so they start at dx, filling
// vacated cells with bg.
func (g *Grid) MoveCells(dx, px, py, nx int, bg Cell) {
	i := g.idx(py)
	if i < 0 || dx == px {
		return
	}
	line := g.lines[i].Cells
	saved := make([]Cell, nx)
	for n := 0; n < nx; n++ {
		if px+n >= 0 && px+n < len(line) {
			saved[n] = line[px+n]
		} else {
			saved[n] = blankCellWithBg(bg)
		}
	}
	for n := 0; n < nx; n++ {
		x := dx + n
		if x < 0 || x >= len(line) {
			continue
		}
		line[x] = saved[n]
	}
	dstLo, dstHi := dx, dx+nx
	for n := 0; n < nx; n++ {
		x := px + n
		if x >= dstLo && x < dstHi {
			continue
		}
		if x < 0 || x >= len(line) {
			continue
		}
		line[x] = blankCellWithBg(bg)
	}
}

// ScrollHistory appends the top visible line into history (or drops it if
// history is disabled — hlimit==0) and shifts the remaining visible lines
// up by one, filling the new bottom line with bg (spec §4.1).
func (g *Grid) ScrollHistory(bg Cell) {
	g.ScrollHistoryRegion(0, g.sy-1, bg)
}

// ScrollHistoryRegion scrolls within [upper, lower] (inclusive, visible-row
// coordinates). A scroll whose region starts at row 0 pushes the departing
// top row into history (when history is enabled and hlimit > 0); a region
// starting lower shifts in place.
func (g *Grid) ScrollHistoryRegion(upper, lower int, bg Cell) {
	if upper < 0 {
		upper = 0
	}
	if lower >= g.sy {
		lower = g.sy - 1
	}
	if upper > lower {
		return
	}

	if upper == 0 && g.historyEnabled && g.hlimit > 0 {
		top := g.idx(g.hsize) // first visible row, about to scroll off
		clone := g.lines[top].clone()
		g.lines = append(g.lines, Line{})
		copy(g.lines[g.hsize+1:], g.lines[g.hsize:len(g.lines)-1])
		g.lines[g.hsize] = clone
		g.hsize++
		g.collectHistoryLocked()
	}

	g.shiftVisibleUp(upper, lower, bg)
}

// shiftVisibleUp moves visible rows [upper, lower] up by one, filling the
// vacated bottom row (lower) with bg.
func (g *Grid) shiftVisibleUp(upper, lower int, bg Cell) {
	for y := upper; y < lower; y++ {
		src := g.idx(g.hsize + y + 1)
		dst := g.idx(g.hsize + y)
		if src < 0 || dst < 0 {
			continue
		}
		g.lines[dst] = g.lines[src]
	}
	dst := g.idx(g.hsize + lower)
	if dst >= 0 {
		line := newLine(g.sx)
		for x := range line.Cells {
			line.Cells[x] = blankCellWithBg(bg)
		}
		g.lines[dst] = line
	}
}

// CollectHistory prunes history back to hlimit lines, dropping the oldest.
func (g *Grid) CollectHistory() {
	g.collectHistoryLocked()
}

func (g *Grid) collectHistoryLocked() {
	if g.hsize <= g.hlimit {
		return
	}
	drop := g.hsize - g.hlimit
	g.lines = g.lines[drop:]
	g.hsize = g.hlimit
	if g.hscrolled > g.hsize {
		g.hscrolled = g.hsize
	}
}

// AdjustLines grows or shrinks the backing visible-row storage to n rows,
// preserving existing content at the top.
func (g *Grid) AdjustLines(n int) {
	if n == g.sy {
		return
	}
	if n > g.sy {
		for i := g.sy; i < n; i++ {
			g.lines = append(g.lines, newLine(g.sx))
		}
	} else {
		g.lines = g.lines[:g.hsize+n]
	}
	g.sy = n
}

// PullFromHistory reclaims up to n history lines into the visible region by
// shrinking hsize and growing sy, without touching the backing storage
// (spec §4.2 resize: height grow pulls rows back from history). Returns the
// number of lines actually reclaimed, which may be less than n if history
// is smaller.
func (g *Grid) PullFromHistory(n int) int {
	if n > g.hsize {
		n = g.hsize
	}
	if n <= 0 {
		return 0
	}
	g.hsize -= n
	g.sy += n
	if g.hscrolled > g.hsize {
		g.hscrolled = g.hsize
	}
	return n
}

// DuplicateLines copies ny lines starting at src-row sy into dst starting at
// dy (spec §4.1 duplicate_lines).
func (g *Grid) DuplicateLines(dy, sy, ny int) {
	for n := 0; n < ny; n++ {
		si := g.idx(sy + n)
		di := g.idx(dy + n)
		if si < 0 || di < 0 {
			continue
		}
		g.lines[di] = g.lines[si].clone()
	}
}

// Resize grows or shrinks the grid's backing cell storage to sx columns,
// preserving existing cell data per row (truncating or padding with blanks).
// This resizes storage only; Screen.Resize implements the full cursor-aware
// algorithm from spec §4.2 on top of this.
func (g *Grid) Resize(sx int) {
	if sx == g.sx {
		return
	}
	for i := range g.lines {
		cells := g.lines[i].Cells
		if sx > len(cells) {
			grown := make([]Cell, sx)
			copy(grown, cells)
			for j := len(cells); j < sx; j++ {
				grown[j] = Blank()
			}
			g.lines[i].Cells = grown
		} else {
			g.lines[i].Cells = cells[:sx]
		}
	}
	g.sx = sx
}

// StringCellsFlags controls StringCells output formatting.
type StringCellsFlags uint8

const (
	// StringCellsEscapes emits SGR escape sequences for attribute runs.
	StringCellsEscapes StringCellsFlags = 1 << iota
	// StringCellsTrim trims trailing blank cells from the result.
	StringCellsTrim
)

// StringCells reproduces nx cells of row py starting at px as text,
// optionally with SGR escapes (spec §4.1 string_cells).
func (g *Grid) StringCells(px, py, nx int, flags StringCellsFlags) string {
	i := g.idx(py)
	if i < 0 {
		return ""
	}
	cells := g.lines[i].Cells
	end := px + nx
	if end > len(cells) {
		end = len(cells)
	}
	if px < 0 {
		px = 0
	}
	var out []byte
	lastNonBlank := px - 1
	for x := px; x < end; x++ {
		c := cells[x]
		if c.IsPadding() {
			continue
		}
		if c.Size != 1 || c.Data[0] != ' ' {
			lastNonBlank = x
		}
	}
	if flags&StringCellsTrim != 0 {
		end = lastNonBlank + 1
		if end <= px {
			return ""
		}
	}
	var lastAttrs Attr = ^Attr(0)
	for x := px; x < end; x++ {
		c := cells[x]
		if c.IsPadding() {
			continue
		}
		if flags&StringCellsEscapes != 0 && c.Attrs != lastAttrs {
			out = append(out, sgrEscape(c.Attrs)...)
			lastAttrs = c.Attrs
		}
		out = append(out, c.Data[:c.Size]...)
	}
	return string(out)
}

func sgrEscape(a Attr) []byte {
	if a == 0 {
		return []byte("\x1b[0m")
	}
	codes := []byte("\x1b[0")
	if a&AttrBold != 0 {
		codes = append(codes, ";1"...)
	}
	if a&AttrDim != 0 {
		codes = append(codes, ";2"...)
	}
	if a&AttrItalic != 0 {
		codes = append(codes, ";3"...)
	}
	if a&AttrUnderline != 0 {
		codes = append(codes, ";4"...)
	}
	if a&AttrBlinkSlow != 0 {
		codes = append(codes, ";5"...)
	}
	if a&AttrReverse != 0 {
		codes = append(codes, ";7"...)
	}
	if a&AttrHidden != 0 {
		codes = append(codes, ";8"...)
	}
	if a&AttrStrikethrough != 0 {
		codes = append(codes, ";9"...)
	}
	codes = append(codes, 'm')
	return codes
}

// WrapPosition maps a visible cursor coordinate to its position in the
// logical (unwrapped) text, by counting back over soft-wrapped lines
// (spec §4.1: "wrap_position(cx, cy) -> (wx, wy)").
func (g *Grid) WrapPosition(cx, cy int) (wx, wy int) {
	y := cy
	for y > 0 {
		prev := g.idx(g.hsize + y - 1)
		if prev < 0 || !g.lines[prev].Wrapped() {
			break
		}
		y--
	}
	wx = cx
	for row := y; row < cy; row++ {
		wx += g.sx
	}
	return wx, y
}

// UnwrapPosition is the inverse of WrapPosition: given a logical column
// offset from the start of the (possibly wrapped) paragraph beginning at
// visible row startY, returns the actual (cx, cy).
func (g *Grid) UnwrapPosition(wx, startY int) (cx, cy int) {
	y := startY
	x := wx
	for x >= g.sx {
		i := g.idx(g.hsize + y)
		if i < 0 || !g.lines[i].Wrapped() {
			break
		}
		x -= g.sx
		y++
	}
	return x, y
}
