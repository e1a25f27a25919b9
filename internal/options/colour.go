package options

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/vtmux/vtmux/internal/grid"
)

func rgbaOf(r, g, b uint8) color.RGBA { return color.RGBA{R: r, G: g, B: b, A: 0xff} }

// Colour is a parsed option colour value, convertible to a grid.Color for
// actually painting cells (spec §4.7 "accept default, named colours,
// colourN, #RRGGBB").
type Colour struct {
	grid.Color
}

// namedColours is the standard 16-colour ANSI name table plus a handful
// of tmux's extra aliases, matching the set spec §4.7 names as
// "named colours".
var namedColours = map[string]uint8{
	"black": 0, "red": 1, "green": 2, "yellow": 3,
	"blue": 4, "magenta": 5, "cyan": 6, "white": 7,
	"brightblack": 8, "brightred": 9, "brightgreen": 10, "brightyellow": 11,
	"brightblue": 12, "brightmagenta": 13, "brightcyan": 14, "brightwhite": 15,
	"terminal": 255, // tmux's alias for "whatever colour 255 is on this terminal"
}

// ParseColour parses one colour token per spec §4.7:
//
//	"default"            -> the terminal's default fg/bg
//	a name from the table -> an indexed colour 0-15
//	"colourN" (0-255)     -> an indexed colour
//	"#RRGGBB"             -> a truecolor value
func ParseColour(s string) (Colour, error) {
	lower := strings.ToLower(s)
	if lower == "default" || lower == "none" {
		return Colour{grid.Color{Kind: grid.ColorDefault}}, nil
	}
	if idx, ok := namedColours[lower]; ok {
		return Colour{grid.Color{Kind: grid.ColorIndexed, Index: idx}}, nil
	}
	if strings.HasPrefix(lower, "colour") || strings.HasPrefix(lower, "color") {
		digits := strings.TrimPrefix(strings.TrimPrefix(lower, "colour"), "color")
		n, err := strconv.Atoi(digits)
		if err != nil || n < 0 || n > 255 {
			return Colour{}, fmt.Errorf("options: invalid indexed colour %q", s)
		}
		return Colour{grid.Color{Kind: grid.ColorIndexed, Index: uint8(n)}}, nil
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return Colour{}, fmt.Errorf("options: invalid hex colour %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return Colour{grid.Color{Kind: grid.ColorRGB, RGB: rgbaOf(r, g, b)}}, nil
	}
	return Colour{}, fmt.Errorf("options: unrecognized colour %q", s)
}

func (c Colour) String() string {
	switch c.Kind {
	case grid.ColorDefault:
		return "default"
	case grid.ColorIndexed:
		for name, idx := range namedColours {
			if idx == c.Index {
				return name
			}
		}
		return fmt.Sprintf("colour%d", c.Index)
	case grid.ColorRGB:
		return fmt.Sprintf("#%02x%02x%02x", c.RGB.R, c.RGB.G, c.RGB.B)
	default:
		return "default"
	}
}
