package screen

import "testing"

func TestNewScreenDefaults(t *testing.T) {
	s := New(80, 24, 1000)
	if s.Cols() != 80 || s.Rows() != 24 {
		t.Fatalf("got %dx%d", s.Cols(), s.Rows())
	}
	if !s.Has(ModeCursorVisible) || !s.Has(ModeWrap) {
		t.Fatalf("want cursor-visible and wrap set by default")
	}
	up, lo := s.ScrollRegion()
	if up != 0 || lo != 23 {
		t.Fatalf("default scroll region got [%d,%d]", up, lo)
	}
}

func TestSetCursorClamps(t *testing.T) {
	s := New(10, 5, 0)
	s.SetCursor(100, 100)
	cx, cy := s.Cursor()
	if cx != 10 || cy != 4 {
		t.Fatalf("got (%d,%d)", cx, cy)
	}
	s.SetCursor(-5, -5)
	cx, cy = s.Cursor()
	if cx != 0 || cy != 0 {
		t.Fatalf("got (%d,%d)", cx, cy)
	}
}

func TestTabStops(t *testing.T) {
	s := New(40, 5, 0)
	if s.NextTabStop(0) != 8 {
		t.Fatalf("default tab stop every 8 cols, got %d", s.NextTabStop(0))
	}
	s.ClearAllTabStops()
	s.SetTabStop(5)
	if s.NextTabStop(0) != 5 {
		t.Fatalf("got %d", s.NextTabStop(0))
	}
	if s.PrevTabStop(5) != 0 {
		t.Fatalf("got %d", s.PrevTabStop(5))
	}
}

func TestTitleStack(t *testing.T) {
	s := New(10, 5, 0)
	s.SetTitle("one")
	s.PushTitle()
	s.SetTitle("two")
	s.PushTitle()
	s.SetTitle("three")

	if s.Title() != "three" {
		t.Fatalf("got %q", s.Title())
	}
	s.PopTitle()
	if s.Title() != "two" {
		t.Fatalf("got %q", s.Title())
	}
	s.PopTitle()
	if s.Title() != "one" {
		t.Fatalf("got %q", s.Title())
	}
	s.PopTitle() // empty stack: no-op
	if s.Title() != "one" {
		t.Fatalf("pop on empty stack should be a no-op, got %q", s.Title())
	}
}

func TestTitleStackLimit(t *testing.T) {
	s := New(10, 5, 0)
	for i := 0; i < TitleStackLimit+5; i++ {
		s.SetTitle("x")
		s.PushTitle()
	}
	if len(s.titleStack) != TitleStackLimit {
		t.Fatalf("want stack capped at %d, got %d", TitleStackLimit, len(s.titleStack))
	}
}

func TestSelectionLinearDropsBottomRightInViMode(t *testing.T) {
	s := New(20, 5, 0)
	s.SetSelection(2, 1, 10, 2, false, false) // vi mode
	if !s.CheckSelection(9, 2) {
		t.Fatalf("want (9,2) inside selection")
	}
	if s.CheckSelection(10, 2) {
		t.Fatalf("vi mode should drop the bottom-right cell")
	}
}

func TestSelectionLinearIncludesBottomRightInEmacsMode(t *testing.T) {
	s := New(20, 5, 0)
	s.SetSelection(2, 1, 10, 2, false, true) // emacs mode
	if !s.CheckSelection(10, 2) {
		t.Fatalf("emacs mode should include the bottom-right cell")
	}
}

func TestSelectionRectangle(t *testing.T) {
	s := New(20, 5, 0)
	s.SetSelection(5, 1, 10, 3, true, true)
	if !s.CheckSelection(5, 1) || !s.CheckSelection(10, 3) {
		t.Fatalf("want corners included")
	}
	if s.CheckSelection(3, 2) {
		t.Fatalf("want column outside rectangle excluded")
	}
}

func TestHyperlinkTableInternRoundTrip(t *testing.T) {
	s := New(10, 5, 0)
	id1 := s.Hyperlinks().Intern("https://example.com")
	id2 := s.Hyperlinks().Intern("https://example.com")
	if id1 != id2 {
		t.Fatalf("re-interning the same URI should return the same id")
	}
	if id1 == 0 {
		t.Fatalf("non-empty uri must not get id 0")
	}
	if s.Hyperlinks().URI(id1) != "https://example.com" {
		t.Fatalf("got %q", s.Hyperlinks().URI(id1))
	}
	if s.Hyperlinks().Intern("") != 0 {
		t.Fatalf("empty uri must map to id 0")
	}
}

func TestSaveRestoreCursor(t *testing.T) {
	s := New(20, 10, 0)
	s.SetCursor(4, 4)
	s.Set(ModeOrigin)
	s.SaveCursor()

	s.SetCursor(15, 8)
	s.Clear(ModeOrigin)

	s.RestoreCursor()
	cx, cy := s.Cursor()
	if cx != 4 || cy != 4 {
		t.Fatalf("got (%d,%d)", cx, cy)
	}
	if !s.Has(ModeOrigin) {
		t.Fatalf("want origin mode restored")
	}
}

func TestRestoreCursorWithoutSaveIsNoop(t *testing.T) {
	s := New(20, 10, 0)
	s.SetCursor(5, 5)
	s.RestoreCursor()
	cx, cy := s.Cursor()
	if cx != 5 || cy != 5 {
		t.Fatalf("got (%d,%d)", cx, cy)
	}
}
