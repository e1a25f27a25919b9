package tty

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"github.com/vtmux/vtmux/internal/grid"
)

// ColorLevel is how many colors the writer may use, narrowest fallback
// last (spec §4.9 "fallbacks: RGB -> 256 -> 16 -> default").
type ColorLevel int

const (
	LevelDefault ColorLevel = iota
	Level16
	Level256
	LevelRGB
)

// DetectColorLevel maps termenv's detected profile to our fallback ladder
// (spec §6 feature bitfield "256"/"RGB"), grounded on dcosson-h2's
// termenv.NewOutput usage (internal/cmd/term_colors.go).
func DetectColorLevel(out *termenv.Output) ColorLevel {
	switch out.ColorProfile() {
	case termenv.TrueColor:
		return LevelRGB
	case termenv.ANSI256:
		return Level256
	case termenv.ANSI:
		return Level16
	default:
		return LevelDefault
	}
}

// ansi16Palette is the standard 16-color ANSI palette used for the lowest
// fallback rung and for quantizing toward 256-color indices 0-15.
var ansi16Palette = [16]color.RGBA{
	{0, 0, 0, 255}, {205, 0, 0, 255}, {0, 205, 0, 255}, {205, 205, 0, 255},
	{0, 0, 238, 255}, {205, 0, 205, 255}, {0, 205, 205, 255}, {229, 229, 229, 255},
	{127, 127, 127, 255}, {255, 0, 0, 255}, {0, 255, 0, 255}, {255, 255, 0, 255},
	{92, 92, 255, 255}, {255, 0, 255, 255}, {0, 255, 255, 255}, {255, 255, 255, 255},
}

// xterm256Color returns the RGB value of 256-color palette index i,
// reconstructing the standard 6x6x6 cube (16-231) and grayscale ramp
// (232-255) tmux's own colour.c table encodes.
func xterm256Color(i int) color.RGBA {
	if i < 16 {
		return ansi16Palette[i]
	}
	if i < 232 {
		i -= 16
		steps := [6]uint8{0, 95, 135, 175, 215, 255}
		r := steps[(i/36)%6]
		g := steps[(i/6)%6]
		b := steps[i%6]
		return color.RGBA{r, g, b, 255}
	}
	v := uint8(8 + (i-232)*10)
	return color.RGBA{v, v, v, 255}
}

// nearestIndex returns the palette index (over n entries, looked up via at)
// whose perceptual (CIE76 Lab) distance to target is smallest, per spec
// §4.9's "fallbacks: RGB -> 256 -> 16" downgrade path.
func nearestIndex(target color.RGBA, n int, at func(int) color.RGBA) int {
	want, _ := colorful.MakeColor(target)
	best, bestDist := 0, math.Inf(1)
	for i := 0; i < n; i++ {
		c, _ := colorful.MakeColor(at(i))
		if d := want.DistanceLab(c); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// sgrSequence renders one grid.Color as the SGR color parameters for fg
// (ground==38) or bg (ground==48), downgrading through level per spec
// §4.9's fallback chain. Returns "" for ColorDefault (the caller's leading
// "0" SGR reset already selects the default colours).
func sgrSequence(ground int, c grid.Color, level ColorLevel) string {
	switch c.Kind {
	case grid.ColorDefault:
		return ""
	case grid.ColorIndexed:
		idx := int(c.Index)
		if level == LevelDefault {
			idx = nearestIndex(xterm256Color(idx), 16, func(i int) color.RGBA { return ansi16Palette[i] })
			return ansiIndexed(ground, idx)
		}
		if level == Level16 && idx >= 16 {
			idx = nearestIndex(xterm256Color(idx), 16, func(i int) color.RGBA { return ansi16Palette[i] })
			return ansiIndexed(ground, idx)
		}
		return fmt.Sprintf("%d;5;%d", ground, idx)
	case grid.ColorRGB:
		rgb := color.RGBA{c.RGB.R, c.RGB.G, c.RGB.B, 255}
		switch level {
		case LevelRGB:
			return fmt.Sprintf("%d;2;%d;%d;%d", ground, rgb.R, rgb.G, rgb.B)
		case Level256:
			idx := 16 + nearestIndex(rgb, 240, func(i int) color.RGBA { return xterm256Color(16 + i) })
			return fmt.Sprintf("%d;5;%d", ground, idx)
		default:
			idx := nearestIndex(rgb, 16, func(i int) color.RGBA { return ansi16Palette[i] })
			return ansiIndexed(ground, idx)
		}
	}
	return ""
}

// ansiIndexed renders palette index idx (0-15) as the classic 30-37/40-47
// plus 90-97/100-107 bright-range SGR parameter for ground 38 (fg) or 48 (bg).
func ansiIndexed(ground, idx int) string {
	base := 30
	if ground == 48 {
		base = 40
	}
	if idx < 8 {
		return fmt.Sprintf("%d", base+idx)
	}
	brightBase := 90
	if ground == 48 {
		brightBase = 100
	}
	return fmt.Sprintf("%d", brightBase+idx-8)
}
