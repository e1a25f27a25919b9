package screen

import "testing"

func TestResizeWidthOnly(t *testing.T) {
	s := New(10, 5, 0)
	s.Resize(20, 5, false, false, true)
	if s.Cols() != 20 || s.Rows() != 5 {
		t.Fatalf("got %dx%d", s.Cols(), s.Rows())
	}
}

func TestResizeGrowHeightPullsFromHistory(t *testing.T) {
	s := New(10, 5, 100)
	for i := 0; i < 20; i++ {
		s.Grid().ScrollHistory(s.DefaultCell())
	}
	before := s.Grid().HSize()
	if before == 0 {
		t.Fatalf("expected history to have accumulated")
	}

	s.Resize(10, 8, false, false, false)
	if s.Rows() != 8 {
		t.Fatalf("got rows=%d", s.Rows())
	}
	if s.Grid().HSize() >= before {
		t.Fatalf("growing height should pull rows out of history, want fewer than %d got %d", before, s.Grid().HSize())
	}
}

func TestResizeShrinkHeightPushesToHistory(t *testing.T) {
	s := New(10, 8, 100)
	before := s.Grid().HSize()
	s.Resize(10, 5, false, false, false)
	if s.Rows() != 5 {
		t.Fatalf("got rows=%d", s.Rows())
	}
	if s.Grid().HSize() <= before {
		t.Fatalf("shrinking height should push rows into history, want more than %d got %d", before, s.Grid().HSize())
	}
}

func TestResizeCursorAwareClamps(t *testing.T) {
	s := New(10, 10, 0)
	s.SetCursor(9, 9)
	s.Resize(5, 5, false, false, true)
	cx, cy := s.Cursor()
	if cx > 5 || cy > 4 {
		t.Fatalf("cursor should be clamped into the new bounds, got (%d,%d)", cx, cy)
	}
}
