// Package writer implements the screen-mutator façade: the ~50-operation
// public API a VT parser dispatches into, batching contiguous printable
// runs into draw contexts instead of per-cell dirty marks (spec §4.3).
package writer

import "github.com/vtmux/vtmux/internal/grid"

// DrawKind discriminates a TTYContext entry.
type DrawKind int

const (
	DrawCells DrawKind = iota
	DrawClearLine
	DrawClearScreen
	DrawScrollUp
	DrawScrollDown
	DrawCursorMove
	DrawReverseIndex
	DrawSetSelection
	DrawBox
	DrawPreview
)

// TTYContext is one collected draw instruction, handed off to internal/tty
// for translation into capability-aware byte sequences (spec §4.3/§4.9).
type TTYContext struct {
	Kind DrawKind

	// DrawCells: a contiguous run of cells on one row.
	Row, Col int
	Cells    []grid.Cell

	// DrawClearLine/DrawClearScreen: region bounds.
	FromCol, ToCol int
	FromRow, ToRow int
	Bg             grid.Cell

	// DrawScrollUp/DrawScrollDown: scroll region and count.
	Upper, Lower, N int

	// DrawCursorMove: absolute target.
	CursorRow, CursorCol int

	// DrawBox/DrawPreview: region and, for preview, the literal text.
	PreviewText string
}
