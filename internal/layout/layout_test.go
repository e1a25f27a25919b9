package layout

import "testing"

// buildSample constructs leftright(pane_a, topbottom(pane_b, pane_c)) at
// sx=120, sy=40 (spec §8 scenario 3).
func buildSample() *Cell {
	root := NewSplit(LeftRight, 120, 40, 0, 0)
	a := NewPane(1, 59, 40, 0, 0)
	tb := NewSplit(TopBottom, 60, 40, 60, 0)
	b := NewPane(2, 60, 20, 60, 0)
	c := NewPane(3, 60, 19, 60, 21)
	tb.AddChild(b)
	tb.AddChild(c)
	root.AddChild(a)
	root.AddChild(tb)
	return root
}

func TestDumpParseRoundTrip(t *testing.T) {
	root := buildSample()
	if !root.Check() {
		t.Fatalf("sample tree fails Check()")
	}

	dump := Dump(root)
	if len(dump) < 5 || dump[4] != ',' {
		t.Fatalf("dump %q does not start with 4-hex-digit checksum + comma", dump)
	}
	wantPrefix := dump[:4] + ",120x40,0,0{"
	if len(dump) < len(wantPrefix) || dump[:len(wantPrefix)] != wantPrefix {
		t.Fatalf("dump = %q, want prefix %q", dump, wantPrefix)
	}

	parsed, err := Parse(dump)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !parsed.Check() {
		t.Fatalf("parsed tree fails Check()")
	}
	assertStructurallyEqual(t, root, parsed)
}

func assertStructurallyEqual(t *testing.T, a, b *Cell) {
	t.Helper()
	if a.Type != b.Type || a.SX != b.SX || a.SY != b.SY || a.XOff != b.XOff || a.YOff != b.YOff {
		t.Fatalf("node mismatch: %+v vs %+v", a, b)
	}
	if a.IsLeaf() {
		if a.PaneID != b.PaneID {
			t.Fatalf("pane id mismatch: %d vs %d", a.PaneID, b.PaneID)
		}
		return
	}
	if len(a.Children) != len(b.Children) {
		t.Fatalf("child count mismatch: %d vs %d", len(a.Children), len(b.Children))
	}
	for i := range a.Children {
		assertStructurallyEqual(t, a.Children[i], b.Children[i])
	}
}

func TestParseRejectsBadChecksum(t *testing.T) {
	root := buildSample()
	dump := Dump(root)
	bad := "ffff" + dump[4:]
	if _, err := Parse(bad); err == nil {
		t.Fatalf("expected checksum mismatch error")
	}
}

func TestParseRepairsWrongTopSize(t *testing.T) {
	// A hand-built string whose top leftright node claims sx=999 instead
	// of the correct 120, as the known old-generator bug would produce.
	body := "999x40,0,0{59x40,0,0,1,60x40,60,0[60x20,60,0,2,60x19,60,21,3]}"
	csum := checksum(body)
	s := hexChecksum(csum) + "," + body

	parsed, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.SX != 120 || parsed.SY != 40 {
		t.Fatalf("top size not repaired: got %dx%d, want 120x40", parsed.SX, parsed.SY)
	}
	if !parsed.Check() {
		t.Fatalf("repaired tree still fails Check()")
	}
}

func hexChecksum(c uint16) string {
	const hex = "0123456789abcdef"
	b := [4]byte{hex[(c>>12)&0xf], hex[(c>>8)&0xf], hex[(c>>4)&0xf], hex[c&0xf]}
	return string(b[:])
}

func TestLeavesMatch(t *testing.T) {
	root := buildSample()
	if !root.LeavesMatch([]uint32{1, 2, 3}) {
		t.Fatalf("expected leaves to match {1,2,3}")
	}
	if root.LeavesMatch([]uint32{1, 2}) {
		t.Fatalf("expected mismatch when a pane is missing")
	}
}

func TestSplitAndClose(t *testing.T) {
	root := NewPane(1, 79, 23, 0, 0)
	newLeaf, err := Split(root, LeftRight, 2, 20)
	if err != nil {
		t.Fatalf("Split: %v", err)
	}
	if root.Parent == nil {
		t.Fatalf("expected original leaf to be re-parented under a new split")
	}
	wrapper := root.Parent
	if !wrapper.Check() {
		t.Fatalf("split tree fails Check()")
	}
	if wrapper.CountCells() != 2 {
		t.Fatalf("expected 2 panes after split, got %d", wrapper.CountCells())
	}

	newRoot := Close(wrapper, newLeaf)
	if newRoot.CountCells() != 1 {
		t.Fatalf("expected 1 pane after close, got %d", newRoot.CountCells())
	}
	if newRoot.SX != 79 || newRoot.SY != 23 {
		t.Fatalf("expected survivor to reclaim full size, got %dx%d", newRoot.SX, newRoot.SY)
	}
}
