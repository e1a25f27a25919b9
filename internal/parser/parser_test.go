package parser

import (
	"testing"

	"github.com/vtmux/vtmux/internal/screen"
	"github.com/vtmux/vtmux/internal/writer"
)

func newTestParser(sx, sy int) (*Parser, *screen.Screen) {
	s := screen.New(sx, sy, 100)
	w := writer.New(s, nil, nil)
	return New(w, nil, Options{}), s
}

func TestPrintableWriteAndWrap(t *testing.T) {
	p, s := newTestParser(80, 24)
	s.Set(screen.ModeWrap)

	input := make([]byte, 81)
	for i := range input {
		input[i] = 'A'
	}
	p.Parse(input)

	cx, cy := s.Cursor()
	if cx != 1 || cy != 1 {
		t.Fatalf("cursor = (%d,%d), want (1,1)", cx, cy)
	}
	if r := s.Grid().Cell(0, 0).Rune(); r != 'A' {
		t.Fatalf("row0 col0 = %q, want 'A'", r)
	}
	if r := s.Grid().Cell(79, 0).Rune(); r != 'A' {
		t.Fatalf("row0 col79 = %q, want 'A'", r)
	}
	if r := s.Grid().Cell(0, 1).Rune(); r != 'A' {
		t.Fatalf("row1 col0 = %q, want 'A'", r)
	}
	line := s.Grid().PeekLine(0)
	if line == nil || !line.Wrapped() {
		t.Fatalf("row0 WRAPPED flag not set")
	}
}

func TestCSIEraseDisplay(t *testing.T) {
	p, s := newTestParser(80, 24)
	p.Parse([]byte("hello\nworld"))
	p.Parse([]byte("\x1b[2J"))

	for y := 0; y < s.Rows(); y++ {
		for x := 0; x < s.Cols(); x++ {
			c := s.Grid().Cell(x, y)
			if c.Rune() != ' ' {
				t.Fatalf("cell (%d,%d) = %q, want blank after ED 2", x, y, c.Rune())
			}
		}
	}
}

func TestSGRColorAndReset(t *testing.T) {
	p, s := newTestParser(80, 24)
	p.Parse([]byte("\x1b[1;31mX\x1b[0mY"))

	c := s.Grid().Cell(0, 0)
	if !c.HasAttr(1) { // AttrBold == 1<<0
		t.Fatalf("expected bold attr on first cell")
	}
	if c.Fg.Index != 1 {
		t.Fatalf("fg index = %d, want 1 (red)", c.Fg.Index)
	}
	c2 := s.Grid().Cell(1, 0)
	if c2.Attrs != 0 {
		t.Fatalf("expected attrs cleared by SGR 0, got %v", c2.Attrs)
	}
}

func TestHyperlinkOSC8(t *testing.T) {
	p, s := newTestParser(80, 24)
	p.Parse([]byte("\x1b]8;;http://example.com\x1b\\L\x1b]8;;\x1b\\"))

	c := s.Grid().Cell(0, 0)
	if c.Hyperlink == 0 {
		t.Fatalf("expected hyperlink id on cell")
	}
	if uri := s.Hyperlinks().URI(c.Hyperlink); uri != "http://example.com" {
		t.Fatalf("uri = %q, want http://example.com", uri)
	}
}

func TestInvalidUTF8NeverPanics(t *testing.T) {
	p, _ := newTestParser(80, 24)
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("parser panicked on malformed input: %v", r)
		}
	}()
	p.Parse([]byte{0xff, 0xfe, 0x80, 0x80, 0xc0})
	p.Parse([]byte("\x1b[999999999999999999m"))
	p.Parse([]byte("\x1bP garbage without terminator"))
}
