package writer

import "github.com/vtmux/vtmux/internal/grid"

// rowBatch accumulates a contiguous run of cells written on one row so a
// sequence of Input calls collapses into a single DrawCells context instead
// of one per cell (spec §4.3 guarantee 1).
type rowBatch struct {
	active   bool
	row, col int
	cells    []grid.Cell
}

func (b *rowBatch) start(row, col int) {
	b.active = true
	b.row, b.col = row, col
	b.cells = b.cells[:0]
}

func (b *rowBatch) append(c grid.Cell) {
	b.cells = append(b.cells, c)
}

// contiguous reports whether a cell about to be written at (row, col) can
// extend the current batch.
func (b *rowBatch) contiguous(row, col int) bool {
	return b.active && row == b.row && col == b.col+len(b.cells)
}

func (b *rowBatch) flush(w *Writer) {
	if !b.active || len(b.cells) == 0 {
		b.active = false
		return
	}
	cells := make([]grid.Cell, len(b.cells))
	copy(cells, b.cells)
	w.emit(TTYContext{Kind: DrawCells, Row: b.row, Col: b.col, Cells: cells})
	b.active = false
	b.cells = b.cells[:0]
}
