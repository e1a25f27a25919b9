package tty

import (
	"image/color"
	"strings"
	"testing"

	"github.com/vtmux/vtmux/internal/grid"
	"github.com/vtmux/vtmux/internal/screen"
)

func TestParseFeatures(t *testing.T) {
	f := ParseFeatures("mouse, RGB,sync")
	if !f.Has(FeatureMouse) || !f.Has(FeatureRGB) || !f.Has(FeatureSync) {
		t.Fatalf("ParseFeatures missing expected bits: %b", f)
	}
	if f.Has(FeatureSixel) {
		t.Fatalf("ParseFeatures set an unrequested bit: %b", f)
	}
}

func TestUpdateModeOnlyChangedBits(t *testing.T) {
	old := screen.ModeCursorVisible | screen.ModeWrap
	new := screen.ModeCursorVisible | screen.ModeOrigin

	seq := UpdateMode(old, new, FeatureBpaste|FeatureFocus)
	if !strings.Contains(seq, "\x1b[?6h") {
		t.Fatalf("expected origin-mode set sequence in %q", seq)
	}
	if strings.Contains(seq, "\x1b[?25") {
		t.Fatalf("cursor-visible bit unchanged; sequence must not touch it: %q", seq)
	}
}

func TestUpdateModeNoop(t *testing.T) {
	m := screen.ModeWrap | screen.ModeCursorVisible
	if seq := UpdateMode(m, m, 0); seq != "" {
		t.Fatalf("expected no sequence for unchanged mode, got %q", seq)
	}
}

func TestUpdateModeGatesOnFeature(t *testing.T) {
	seq := UpdateMode(0, screen.ModeBracketedPaste, 0)
	if seq != "" {
		t.Fatalf("expected bracketed-paste sequence suppressed without FeatureBpaste, got %q", seq)
	}
	seq = UpdateMode(0, screen.ModeBracketedPaste, FeatureBpaste)
	if seq != "\x1b[?2004h" {
		t.Fatalf("expected bracketed-paste enable sequence, got %q", seq)
	}
}

func TestUpdateModeMouseExclusive(t *testing.T) {
	seq := UpdateMode(screen.ModeMouseStandard, screen.ModeMouseSGR, FeatureMouse)
	if !strings.Contains(seq, "\x1b[?1000l") || !strings.Contains(seq, "\x1b[?1006h") {
		t.Fatalf("expected standard-mode reset and SGR-mode set, got %q", seq)
	}
}

func TestSGRSequenceDowngrade(t *testing.T) {
	rgb := grid.Color{Kind: grid.ColorRGB, RGB: color.RGBA{255, 0, 0, 255}}

	if got := sgrSequence(38, rgb, LevelRGB); got != "38;2;255;0;0" {
		t.Fatalf("LevelRGB: got %q", got)
	}
	if got := sgrSequence(38, rgb, Level256); got != "38;5;196" {
		t.Fatalf("Level256: expected pure-red 256 index 196, got %q", got)
	}
	if got := sgrSequence(38, rgb, Level16); got != "91" && got != "31" {
		t.Fatalf("Level16: expected a red ANSI index, got %q", got)
	}
	if got := sgrSequence(38, rgb, LevelDefault); got != "91" && got != "31" {
		t.Fatalf("LevelDefault: expected a red ANSI index, got %q", got)
	}
}

func TestSGRSequenceDefaultColorEmpty(t *testing.T) {
	if got := sgrSequence(38, grid.Color{}, LevelRGB); got != "" {
		t.Fatalf("expected empty string for ColorDefault, got %q", got)
	}
}

func TestIsBlankRun(t *testing.T) {
	blank := grid.Blank()
	if !isBlankRun([]grid.Cell{blank, blank, blank}) {
		t.Fatalf("expected uniform blank run to be recognized")
	}

	var nonBlank grid.Cell
	nonBlank.SetRune('x', 1)
	if isBlankRun([]grid.Cell{blank, nonBlank}) {
		t.Fatalf("run containing a non-space cell must not be treated as blank")
	}
}
