// Package grid implements the cell matrix and bounded scrollback history
// that back every Screen (spec §3, §4.1).
package grid

import (
	"image/color"
	"unicode/utf8"
)

// Attr is a bitmask of SGR-style cell attributes (spec §3).
type Attr uint16

const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrUnderline2
	AttrUnderline3
	AttrUnderline4
	AttrUnderline5
	AttrBlinkSlow
	AttrBlinkFast
	AttrReverse
	AttrHidden
	AttrStrikethrough
	AttrOverline
	AttrCharsetGraphic
)

// CellFlags mark structural cell state independent of display attributes.
type CellFlags uint8

const (
	// FlagPadding marks the right half of a wide (2-column) character.
	FlagPadding CellFlags = 1 << iota
	// FlagExtended marks a cell whose data spills into the extended-cell table.
	FlagExtended
	// FlagSelected marks a cell inside the active selection.
	FlagSelected
	// FlagNoPalette marks a cell whose color must not be remapped by a palette change.
	FlagNoPalette
	// FlagCleared marks a cell produced by an erase operation (vs. an explicit write).
	FlagCleared
)

// MaxGraphemeBytes bounds the UTF-8 grapheme cluster stored per cell (spec §3).
const MaxGraphemeBytes = 21

// InvalidWidth is the sentinel display width for a cell that cannot be rendered.
const InvalidWidth = 0xff

// Cell is a single displayed character: a UTF-8 grapheme cluster with a
// declared display width, packed attributes, three color channels, a
// hyperlink id, and a flag set (spec §3).
//
// Every cell keeps all of its data inline; there is no separate extended
// table. Grid.SetCell sets FlagExtended on cells that carry an RGB color
// or a hyperlink id (see Line.markExtendedIfNeeded); a grapheme's length
// or width does not set it. Callers of Grid.Cell/Grid.SetCell never see
// this distinction.
type Cell struct {
	Data  [MaxGraphemeBytes]byte
	Size  uint8 // number of valid bytes in Data
	Width uint8 // 0, 1, 2, or InvalidWidth

	Attrs Attr
	Flags CellFlags

	Fg        Color
	Bg        Color
	Underline Color

	Hyperlink uint32 // 0 means "no hyperlink"
}

// Color is a cell color channel: either the terminal default, a palette
// index (0-255), or an RGB truecolor value.
type Color struct {
	Kind  ColorKind
	Index uint8 // valid when Kind == ColorIndexed
	RGB   color.RGBA
}

// ColorKind discriminates a Color's representation.
type ColorKind uint8

const (
	ColorDefault ColorKind = iota
	ColorIndexed
	ColorRGB
)

// Blank returns a space cell with default colors and no attributes — the
// "default cell" returned for out-of-range reads (spec §4.1 failure policy).
func Blank() Cell {
	c := Cell{Width: 1}
	c.Data[0] = ' '
	c.Size = 1
	return c
}

// SetRune stores a single rune as the cell's grapheme, truncating to
// MaxGraphemeBytes if somehow larger (never happens for a single rune).
func (c *Cell) SetRune(r rune, width int) {
	n := encodeRune(c.Data[:], r)
	c.Size = uint8(n)
	if width < 0 || width > 2 {
		c.Width = InvalidWidth
	} else {
		c.Width = uint8(width)
	}
}

// AppendGrapheme extends the cell's stored bytes with a combining rune
// (e.g. a variation selector or ZWJ continuation), up to MaxGraphemeBytes.
func (c *Cell) AppendGrapheme(r rune) bool {
	var buf [4]byte
	n := encodeRune(buf[:], r)
	if int(c.Size)+n > MaxGraphemeBytes {
		return false
	}
	copy(c.Data[c.Size:], buf[:n])
	c.Size += uint8(n)
	return true
}

// Rune returns the cell's leading rune for width/printing purposes.
func (c *Cell) Rune() rune {
	if c.Size == 0 {
		return ' '
	}
	r, _ := decodeRune(c.Data[:c.Size])
	return r
}

// String returns the cell's full grapheme cluster as a string.
func (c *Cell) String() string {
	return string(c.Data[:c.Size])
}

// IsWide reports whether this cell occupies two display columns.
func (c *Cell) IsWide() bool { return c.Width == 2 }

// IsPadding reports whether this cell is the right half of a wide character.
func (c *Cell) IsPadding() bool { return c.Flags&FlagPadding != 0 }

// HasFlag reports whether flag is set.
func (c *Cell) HasFlag(flag CellFlags) bool { return c.Flags&flag != 0 }

// HasAttr reports whether attr is set.
func (c *Cell) HasAttr(attr Attr) bool { return c.Attrs&attr != 0 }

// VisuallyEqual reports whether two cells render identically even if their
// internal packing differs (spec §3: "two cells whose attribute packing
// differs but which render identically must also be recognised as visually
// equal").
func (c Cell) VisuallyEqual(o Cell) bool {
	if c.Size != o.Size || c.Width != o.Width {
		return false
	}
	if c.Data != o.Data {
		return false
	}
	if c.Attrs != o.Attrs {
		return false
	}
	// Structural flags (padding/extended/selected/cleared) don't affect
	// rendering; NoPalette does affect color resolution so it's compared.
	if c.Flags&FlagNoPalette != o.Flags&FlagNoPalette {
		return false
	}
	return c.Fg == o.Fg && c.Bg == o.Bg && c.Underline == o.Underline && c.Hyperlink == o.Hyperlink
}

func encodeRune(dst []byte, r rune) int {
	return utf8.EncodeRune(dst, r)
}

func decodeRune(b []byte) (rune, int) {
	return utf8.DecodeRune(b)
}
