package client

import (
	"testing"
	"time"

	"github.com/vtmux/vtmux/internal/format"
)

func TestDecodeKeysArrowsAndControl(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		count int
	}{
		{"up arrow", []byte("\x1b[A"), 1},
		{"ss3 up arrow", []byte("\x1bOA"), 1},
		{"ctrl-a", []byte{0x01}, 1},
		{"tab", []byte("\t"), 1},
		{"enter", []byte("\r"), 1},
		{"plain rune", []byte("x"), 1},
		{"wide rune", []byte("中"), 1},
		{"mixed", []byte("a\x1b[Bb"), 3},
	}
	for _, tt := range tests {
		got := decodeKeys(tt.data)
		if len(got) != tt.count {
			t.Errorf("%s: decodeKeys(%q) = %d codes, want %d", tt.name, tt.data, len(got), tt.count)
		}
	}
}

func TestDecodeKeysArrowResolvesToNamedCode(t *testing.T) {
	codes := decodeKeys([]byte("\x1b[A"))
	if len(codes) != 1 {
		t.Fatalf("expected 1 code, got %d", len(codes))
	}
	want := mustKey("Up")
	if codes[0] != want {
		t.Errorf("got %v, want Up (%v)", codes[0], want)
	}
}

func TestDecodeKeysMetaEncoding(t *testing.T) {
	codes := decodeKeys([]byte("\x1bx"))
	if len(codes) != 1 {
		t.Fatalf("expected 1 code, got %d", len(codes))
	}
	if format.KeyMod(codes[0])&format.ModMeta == 0 {
		t.Errorf("expected ModMeta set on %v", codes[0])
	}
}

func TestMatchSGRMousePressAndRelease(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		ok      bool
		consume int
	}{
		{"left press", []byte("\x1b[<0;5;10M"), true, len("\x1b[<0;5;10M")},
		{"left release", []byte("\x1b[<0;5;10m"), true, len("\x1b[<0;5;10m")},
		{"wheel up", []byte("\x1b[<64;1;1M"), true, len("\x1b[<64;1;1M")},
		{"not a mouse report", []byte("\x1b[A"), false, 0},
		{"truncated", []byte("\x1b[<0;"), false, 0},
	}
	for _, tt := range tests {
		_, n, ok := matchSGRMouse(tt.data)
		if ok != tt.ok {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && n != tt.consume {
			t.Errorf("%s: consumed %d bytes, want %d", tt.name, n, tt.consume)
		}
	}
}

func TestSGRMouseNameButtonsAndWheel(t *testing.T) {
	tests := []struct {
		cb      int
		release bool
		want    string
	}{
		{0, false, "MouseDown1Pane"},
		{0, true, "MouseUp1Pane"},
		{1, false, "MouseDown2Pane"},
		{2, false, "MouseDown3Pane"},
		{32, false, "MouseDrag1Pane"},
		{64, false, "WheelUp1Pane"},
		{65, false, "WheelDown1Pane"},
	}
	for _, tt := range tests {
		got, ok := sgrMouseName(tt.cb, tt.release)
		if !ok {
			t.Errorf("sgrMouseName(%d, %v): not ok", tt.cb, tt.release)
			continue
		}
		if got != tt.want {
			t.Errorf("sgrMouseName(%d, %v) = %q, want %q", tt.cb, tt.release, got, tt.want)
		}
	}
}

func TestRedrawFlagAccumulateAndTake(t *testing.T) {
	c := &Client{}
	c.NeedRedraw(RedrawStatus)
	c.NeedRedraw(RedrawPanes)
	got := c.takeRedraw()
	want := RedrawStatus | RedrawPanes
	if got != want {
		t.Errorf("takeRedraw() = %b, want %b", got, want)
	}
	if f := c.takeRedraw(); f != 0 {
		t.Errorf("takeRedraw() after drain = %b, want 0", f)
	}
}

func TestRedrawEverythingIsItsOwnBit(t *testing.T) {
	rest := RedrawStatus | RedrawBorders | RedrawPanes | RedrawOverlay
	if RedrawEverything&rest != 0 {
		t.Errorf("RedrawEverything overlaps the individual flags: %b", RedrawEverything&rest)
	}
}

func TestKeyTableBindLookupUnbind(t *testing.T) {
	tbl := NewKeyTable("root")
	k := mustKey("Enter")
	tbl.Bind(k, []string{"select-pane"}, false)

	b, ok := tbl.Lookup(k)
	if !ok {
		t.Fatal("expected binding after Bind")
	}
	if len(b.Argv) != 1 || b.Argv[0] != "select-pane" {
		t.Errorf("got argv %v", b.Argv)
	}

	tbl.Unbind(k)
	if _, ok := tbl.Lookup(k); ok {
		t.Error("expected no binding after Unbind")
	}
}

func TestRegistryRootAndPrefixAlwaysPresent(t *testing.T) {
	r := NewRegistry()
	if r.Root() == nil || r.Root().Name != "root" {
		t.Error("expected a root table")
	}
	if r.Prefix() == nil || r.Prefix().Name != "prefix" {
		t.Error("expected a prefix table")
	}
	if r.Table("copy-mode") == nil {
		t.Error("expected Table to create missing tables on demand")
	}
}

func TestDisambiguateClickUpgradesRepeatedPresses(t *testing.T) {
	c := &Client{clickTimer: time.NewTimer(time.Hour)}
	down := mustKey("MouseDown1Pane")

	if got := c.disambiguateClick(down); got != down {
		t.Errorf("first click: got %v, want unchanged MouseDown1Pane", got)
	}
	got := c.disambiguateClick(down)
	if got.String() != "MouseDoubleClick1Pane" {
		t.Errorf("second click: got %v, want MouseDoubleClick1Pane", got)
	}
	got = c.disambiguateClick(down)
	if got.String() != "MouseTripleClick1Pane" {
		t.Errorf("third click: got %v, want MouseTripleClick1Pane", got)
	}
	if c.clicks != 0 {
		t.Errorf("expected click counter to reset after triple-click, got %d", c.clicks)
	}
}

func TestDisambiguateClickPassesNonMouseCodesThrough(t *testing.T) {
	c := &Client{clickTimer: time.NewTimer(time.Hour)}
	k := mustKey("Enter")
	if got := c.disambiguateClick(k); got != k {
		t.Errorf("got %v, want unchanged Enter", got)
	}
}
