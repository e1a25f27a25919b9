package grid

import "testing"

func TestNewGridDefaults(t *testing.T) {
	g := New(10, 5, 100)
	if g.Cols() != 10 || g.Rows() != 5 {
		t.Fatalf("got %dx%d want 10x5", g.Cols(), g.Rows())
	}
	if g.HSize() != 0 {
		t.Fatalf("want fresh grid to have no history, got %d", g.HSize())
	}
	c := g.Cell(0, 0)
	if c.Rune() != ' ' {
		t.Fatalf("want blank cell, got %q", c.Rune())
	}
}

func TestCellOutOfRangeReadsDefault(t *testing.T) {
	g := New(10, 5, 0)
	c := g.Cell(-1, 0)
	if c.Rune() != ' ' {
		t.Fatalf("out of range read should be default cell")
	}
	c = g.Cell(100, 100)
	if c.Rune() != ' ' {
		t.Fatalf("out of range read should be default cell")
	}
}

func TestSetCellOutOfRangeFatal(t *testing.T) {
	g := New(10, 5, 0)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on out-of-range SetCell")
		}
	}()
	g.SetCell(100, 100, Blank())
}

func TestScrollHistoryAccumulates(t *testing.T) {
	g := New(4, 3, 10)
	for y := 0; y < 3; y++ {
		line := g.PeekLine(y)
		line.Cells[0].SetRune(rune('A'+y), 1)
	}
	g.ScrollHistory(Blank())
	if g.HSize() != 1 {
		t.Fatalf("want hsize=1 after one scroll, got %d", g.HSize())
	}
	// The line that scrolled off (row 0, 'A') should now be in history at y=0.
	if g.Cell(0, 0).Rune() != 'A' {
		t.Fatalf("want history row to hold scrolled content, got %q", g.Cell(0, 0).Rune())
	}
	// New visible row 0 is what was row 1 ('B').
	if g.Cell(0, 1).Rune() != 'B' {
		t.Fatalf("want visible row 0 to hold 'B', got %q", g.Cell(0, 1).Rune())
	}
	// Bottom row is now blank.
	if g.Cell(0, 3).Rune() != ' ' {
		t.Fatalf("want bottom row blank after scroll")
	}
}

func TestScrollHistoryRespectsHLimit(t *testing.T) {
	g := New(4, 1, 2)
	for i := 0; i < 5; i++ {
		g.ScrollHistory(Blank())
	}
	if g.HSize() != 2 {
		t.Fatalf("want hsize capped at hlimit=2, got %d", g.HSize())
	}
}

func TestMoveLines(t *testing.T) {
	g := New(4, 4, 0)
	g.PeekLine(0).Cells[0].SetRune('X', 1)
	g.MoveLines(2, 0, 1, Blank())
	if g.Cell(0, 2).Rune() != 'X' {
		t.Fatalf("want moved line at y=2, got %q", g.Cell(0, 2).Rune())
	}
	if g.Cell(0, 0).Rune() != ' ' {
		t.Fatalf("want source line blanked after move")
	}
}

func TestMoveCells(t *testing.T) {
	g := New(6, 1, 0)
	g.PeekLine(0).Cells[0].SetRune('A', 1)
	g.PeekLine(0).Cells[1].SetRune('B', 1)
	g.MoveCells(3, 0, 0, 2, Blank())
	if g.Cell(3, 0).Rune() != 'A' || g.Cell(4, 0).Rune() != 'B' {
		t.Fatalf("cells not moved correctly")
	}
	if g.Cell(0, 0).Rune() != ' ' {
		t.Fatalf("source cells should be blanked")
	}
}

func TestResizeInvariants(t *testing.T) {
	g := New(10, 5, 0)
	g.Resize(20)
	if g.Cols() != 20 {
		t.Fatalf("want 20 cols, got %d", g.Cols())
	}
	g.Resize(5)
	if g.Cols() != 5 {
		t.Fatalf("want 5 cols, got %d", g.Cols())
	}
}

// TestReflowRoundTrip is the spec §8 reflow round-trip property: for any
// grid with width w1, reflow(w1 -> w2 -> w1) yields a grid equal to the
// original on all non-trailing-blank cells.
func TestReflowRoundTrip(t *testing.T) {
	g := New(10, 3, 0)
	text := "the quick brown fox jumps"
	col := 0
	row := 0
	for _, r := range text {
		if col >= 10 {
			g.PeekLine(row).SetWrapped(true)
			row++
			col = 0
			if row >= g.Rows() {
				break
			}
		}
		g.PeekLine(row).Cells[col].SetRune(r, 1)
		col++
	}

	before := make([]string, g.Total())
	for y := 0; y < g.Total(); y++ {
		before[y] = g.StringCells(0, y, g.Cols(), StringCellsTrim)
	}

	g.Reflow(20)
	g.Reflow(10)

	if g.Cols() != 10 {
		t.Fatalf("want cols restored to 10, got %d", g.Cols())
	}

	var rebuilt string
	for y := 0; y < g.Total(); y++ {
		rebuilt += g.StringCells(0, y, g.Cols(), StringCellsTrim)
	}
	want := ""
	for _, s := range before {
		want += s
	}
	if rebuilt != want {
		t.Fatalf("reflow round trip mismatch:\n got  %q\n want %q", rebuilt, want)
	}
}

func TestWrapUnwrapPositionInverse(t *testing.T) {
	g := New(5, 4, 0)
	g.PeekLine(0).SetWrapped(true)
	g.PeekLine(1).SetWrapped(true)

	wx, wy := g.WrapPosition(2, 2)
	if wy != 0 {
		t.Fatalf("want logical start row 0, got %d", wy)
	}
	cx, cy := g.UnwrapPosition(wx, wy)
	if cx != 2 || cy != 2 {
		t.Fatalf("unwrap(wrap(2,2)) = (%d,%d), want (2,2)", cx, cy)
	}
}

func TestStringCellsEscapes(t *testing.T) {
	g := New(4, 1, 0)
	g.PeekLine(0).Cells[0].SetRune('A', 1)
	g.PeekLine(0).Cells[0].Attrs = AttrBold
	out := g.StringCells(0, 0, 1, StringCellsEscapes)
	if out != "\x1b[0;1mA" {
		t.Fatalf("got %q", out)
	}
}

func TestSetPadding(t *testing.T) {
	g := New(4, 1, 0)
	g.SetPadding(1, 0)
	c := g.Cell(1, 0)
	if !c.IsPadding() {
		t.Fatalf("want padding flag set")
	}
}
