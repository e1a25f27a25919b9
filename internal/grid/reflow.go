package grid

// Reflow re-wraps the grid's content (history + visible) to a new width,
// merging and re-splitting soft-wrapped paragraphs so that logical text
// survives a width change (spec §4.1 reflow, §8 reflow round-trip
// property). The visible row count (sy) is preserved; any lines that no
// longer fit move into (or back out of) history.
func (g *Grid) Reflow(newSx int) {
	if newSx == g.sx || newSx < 1 {
		if newSx != g.sx {
			g.sx = newSx
		}
		return
	}

	paragraphs := g.collectParagraphs()
	var rewrapped []Line
	for _, p := range paragraphs {
		rewrapped = append(rewrapped, rewrapParagraph(p, newSx)...)
	}

	if len(rewrapped) == 0 {
		rewrapped = append(rewrapped, newLine(newSx))
	}

	// Ensure at least sy rows total so the visible region is always full.
	for len(rewrapped) < g.sy {
		rewrapped = append([]Line{newLine(newSx)}, rewrapped...)
	}

	total := len(rewrapped)
	g.sx = newSx
	g.lines = rewrapped
	g.hsize = total - g.sy
	g.collectHistoryLocked()
}

// paragraph is a maximal run of lines where every line but the last has its
// Wrapped flag set (a soft-wrapped logical line).
type paragraph struct {
	lines []Line
}

func (g *Grid) collectParagraphs() []paragraph {
	var out []paragraph
	var cur paragraph
	for i := range g.lines {
		cur.lines = append(cur.lines, g.lines[i])
		if !g.lines[i].Wrapped() {
			out = append(out, cur)
			cur = paragraph{}
		}
	}
	if len(cur.lines) > 0 {
		out = append(out, cur)
	}
	return out
}

// rewrapParagraph concatenates a paragraph's cells and re-chunks them into
// rows of width newSx, trimming trailing blanks from the logical text but
// always producing at least one row.
func rewrapParagraph(p paragraph, newSx int) []Line {
	var cells []Cell
	for _, l := range p.lines {
		cells = append(cells, l.Cells...)
	}

	end := len(cells)
	for end > 0 && isBlankCell(cells[end-1]) {
		end--
	}
	cells = cells[:end]

	if len(cells) == 0 {
		return []Line{newLine(newSx)}
	}

	var out []Line
	for start := 0; start < len(cells); start += newSx {
		stop := start + newSx
		if stop > len(cells) {
			stop = len(cells)
		}
		row := newLine(newSx)
		copy(row.Cells, cells[start:stop])
		if stop < len(cells) {
			row.SetWrapped(true)
		}
		out = append(out, row)
	}
	return out
}

func isBlankCell(c Cell) bool {
	return c.Size == 1 && c.Data[0] == ' ' && c.Attrs == 0 && c.Fg == (Color{}) && c.Bg == (Color{}) && c.Hyperlink == 0
}
