package parser

import (
	"image/color"

	"github.com/vtmux/vtmux/internal/grid"
)

func rgba(r, g, b int) color.RGBA {
	clamp := func(n int) uint8 {
		if n < 0 {
			return 0
		}
		if n > 255 {
			return 255
		}
		return uint8(n)
	}
	return color.RGBA{R: clamp(r), G: clamp(g), B: clamp(b), A: 0xff}
}

// dispatchSGR applies one or more SGR (CSI ... m) parameters to the
// Writer's current template cell (spec §4.3 SetTemplate/Template).
func (p *Parser) dispatchSGR() {
	cell := p.w.Template()
	if len(p.params) == 0 {
		p.params = append(p.params, 0)
	}
	for i := 0; i < len(p.params); i++ {
		n := p.params[i]
		if n < 0 {
			n = 0
		}
		switch {
		case n == 0:
			cell = grid.Blank()
			cell.Attrs = 0
		case n == 1:
			cell.Attrs |= grid.AttrBold
		case n == 2:
			cell.Attrs |= grid.AttrDim
		case n == 3:
			cell.Attrs |= grid.AttrItalic
		case n == 4:
			cell.Attrs |= grid.AttrUnderline
		case n == 5:
			cell.Attrs |= grid.AttrBlinkSlow
		case n == 6:
			cell.Attrs |= grid.AttrBlinkFast
		case n == 7:
			cell.Attrs |= grid.AttrReverse
		case n == 8:
			cell.Attrs |= grid.AttrHidden
		case n == 9:
			cell.Attrs |= grid.AttrStrikethrough
		case n == 21:
			cell.Attrs |= grid.AttrUnderline2
		case n == 22:
			cell.Attrs &^= grid.AttrBold | grid.AttrDim
		case n == 23:
			cell.Attrs &^= grid.AttrItalic
		case n == 24:
			cell.Attrs &^= grid.AttrUnderline | grid.AttrUnderline2 | grid.AttrUnderline3 | grid.AttrUnderline4 | grid.AttrUnderline5
		case n == 25:
			cell.Attrs &^= grid.AttrBlinkSlow | grid.AttrBlinkFast
		case n == 27:
			cell.Attrs &^= grid.AttrReverse
		case n == 28:
			cell.Attrs &^= grid.AttrHidden
		case n == 29:
			cell.Attrs &^= grid.AttrStrikethrough
		case n == 53:
			cell.Attrs |= grid.AttrOverline
		case n == 55:
			cell.Attrs &^= grid.AttrOverline
		case n >= 30 && n <= 37:
			cell.Fg = grid.Color{Kind: grid.ColorIndexed, Index: uint8(n - 30)}
		case n == 39:
			cell.Fg = grid.Color{Kind: grid.ColorDefault}
		case n >= 40 && n <= 47:
			cell.Bg = grid.Color{Kind: grid.ColorIndexed, Index: uint8(n - 40)}
		case n == 49:
			cell.Bg = grid.Color{Kind: grid.ColorDefault}
		case n >= 90 && n <= 97:
			cell.Fg = grid.Color{Kind: grid.ColorIndexed, Index: uint8(n - 90 + 8)}
		case n >= 100 && n <= 107:
			cell.Bg = grid.Color{Kind: grid.ColorIndexed, Index: uint8(n - 100 + 8)}
		case n == 38:
			var consumed int
			cell.Fg, consumed = p.extendedColor(i + 1)
			i += consumed
		case n == 48:
			var consumed int
			cell.Bg, consumed = p.extendedColor(i + 1)
			i += consumed
		case n == 58:
			var consumed int
			cell.Underline, consumed = p.extendedColor(i + 1)
			i += consumed
		case n == 59:
			cell.Underline = grid.Color{Kind: grid.ColorDefault}
		}
	}
	p.w.SetTemplate(cell)
}

// extendedColor parses a 256-color (5;n) or truecolor (2;r;g;b) SGR
// sub-sequence starting at params index i, returning the color and how
// many extra params it consumed.
func (p *Parser) extendedColor(i int) (grid.Color, int) {
	if i >= len(p.params) {
		return grid.Color{Kind: grid.ColorDefault}, 0
	}
	switch p.params[i] {
	case 5:
		if i+1 < len(p.params) {
			return grid.Color{Kind: grid.ColorIndexed, Index: uint8(p.params[i+1])}, 2
		}
		return grid.Color{Kind: grid.ColorDefault}, 1
	case 2:
		if i+3 < len(p.params) {
			r, g, b := p.params[i+1], p.params[i+2], p.params[i+3]
			return grid.Color{Kind: grid.ColorRGB, RGB: rgba(r, g, b)}, 4
		}
		return grid.Color{Kind: grid.ColorDefault}, 1
	default:
		return grid.Color{Kind: grid.ColorDefault}, 0
	}
}
