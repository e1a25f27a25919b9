package grid

import "testing"

func TestBlankCell(t *testing.T) {
	c := Blank()
	if c.Rune() != ' ' || c.Width != 1 {
		t.Fatalf("blank cell should be a 1-wide space")
	}
}

func TestSetRuneWide(t *testing.T) {
	var c Cell
	c.SetRune('界', 2)
	if !c.IsWide() {
		t.Fatalf("want wide cell")
	}
	if c.Rune() != '界' {
		t.Fatalf("got %q", c.Rune())
	}
}

func TestVisuallyEqualIgnoresStructuralFlags(t *testing.T) {
	a := Blank()
	a.SetRune('x', 1)
	b := a
	b.Flags |= FlagCleared | FlagSelected
	if !a.VisuallyEqual(b) {
		t.Fatalf("structural flags should not affect visual equality")
	}
	b.Attrs |= AttrBold
	if a.VisuallyEqual(b) {
		t.Fatalf("attribute difference should break visual equality")
	}
}

func TestAppendGraphemeCombining(t *testing.T) {
	var c Cell
	c.SetRune('e', 1)
	if !c.AppendGrapheme(0x0301) { // combining acute accent
		t.Fatalf("want append to succeed")
	}
	if c.String() != "é" {
		t.Fatalf("got %q", c.String())
	}
}

func TestIsCombining(t *testing.T) {
	if !IsCombining(0x200d) {
		t.Fatalf("ZWJ should be combining")
	}
	if IsCombining('A') {
		t.Fatalf("ASCII letter should not be combining")
	}
}
