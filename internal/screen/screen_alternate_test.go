package screen

import (
	"testing"

	"github.com/vtmux/vtmux/internal/grid"
)

// TestAlternateScreenRoundTrip covers DESIGN.md Open Question 1 without a
// resize: entering the alternate screen, writing to it, then leaving it must
// reproduce the pre-alt primary content and cursor exactly and re-enable the
// primary grid's history.
func TestAlternateScreenRoundTrip(t *testing.T) {
	s := New(20, 10, 100)
	s.SetCursor(3, 3)
	var xCell grid.Cell
	xCell.SetRune('x', 1)
	s.PrimaryGrid().SetCell(3, 3, xCell)

	s.AlternateOn(true)
	if !s.AlternateActive() {
		t.Fatalf("want alt screen active")
	}
	if s.Grid() != s.alt {
		t.Fatalf("Grid() should return the alternate grid while active")
	}

	s.SetCursor(1, 1)
	var yCell grid.Cell
	yCell.SetRune('y', 1)
	s.Grid().SetCell(1, 1, yCell)

	s.AlternateOff()
	if s.AlternateActive() {
		t.Fatalf("want alt screen inactive")
	}
	if s.Grid() != s.g {
		t.Fatalf("Grid() should return the primary grid once alt is off")
	}

	cx, cy := s.Cursor()
	if cx != 3 || cy != 3 {
		t.Fatalf("want cursor restored to (3,3), got (%d,%d)", cx, cy)
	}
	if s.PrimaryGrid().Cell(3, 3).Rune() != 'x' {
		t.Fatalf("primary content should be untouched by the alt-screen excursion")
	}
	if !s.PrimaryGrid().HistoryEnabled() {
		t.Fatalf("primary grid history must be re-enabled after AlternateOff")
	}
}

func TestAlternateOnIsIdempotent(t *testing.T) {
	s := New(10, 5, 0)
	s.AlternateOn(false)
	s.SetCursor(2, 2)
	s.AlternateOn(false) // already active: must not clobber saved state again
	s.AlternateOff()
	cx, cy := s.Cursor()
	if cx != 0 || cy != 0 {
		t.Fatalf("got (%d,%d)", cx, cy)
	}
}
