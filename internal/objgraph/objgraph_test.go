package objgraph

import (
	"testing"
	"time"

	"github.com/vtmux/vtmux/internal/layout"
)

type recordingNotifier struct{ events []string }

func (r *recordingNotifier) Notify(e Event) { r.events = append(r.events, e.Name) }

func newTestWindow(t *testing.T, g *Graph) *Window {
	t.Helper()
	w, err := g.NewWindow("test", 80, 24, 0, []string{"/bin/sh", "-c", "sleep 30"}, "/", []string{"PATH=/usr/bin:/bin"})
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	t.Cleanup(func() {
		for _, p := range w.Panes() {
			_ = p.Kill()
		}
	})
	return w
}

func TestNewWindowSinglePaneLayout(t *testing.T) {
	g := NewGraph(nil)
	w := newTestWindow(t, g)

	if n := w.LayoutRoot().CountCells(); n != 1 {
		t.Fatalf("expected 1 pane, got %d", n)
	}
	if w.ActivePane() == nil {
		t.Fatalf("expected an active pane")
	}
	if !w.LayoutRoot().Check() {
		t.Fatalf("initial layout fails Check()")
	}
}

func TestSplitAndClosePane(t *testing.T) {
	g := NewGraph(nil)
	w := newTestWindow(t, g)
	target := w.ActivePane()

	second, err := g.SplitPane(w, target, layout.LeftRight, 30, 80, 24, 0,
		[]string{"/bin/sh", "-c", "sleep 30"}, "/", nil)
	if err != nil {
		t.Fatalf("SplitPane: %v", err)
	}
	t.Cleanup(func() { _ = second.Kill() })

	if n := w.LayoutRoot().CountCells(); n != 2 {
		t.Fatalf("expected 2 panes after split, got %d", n)
	}
	if !w.LayoutRoot().Check() {
		t.Fatalf("split layout fails Check()")
	}
	if w.ActivePane() != second {
		t.Fatalf("expected new pane to become active")
	}

	empty := g.ClosePane(w, second)
	if empty {
		t.Fatalf("window should still have one pane left")
	}
	if n := w.LayoutRoot().CountCells(); n != 1 {
		t.Fatalf("expected 1 pane after close, got %d", n)
	}
	if w.ActivePane() != target {
		t.Fatalf("expected surviving pane to become active")
	}
}

func TestWindowZoomUnzoom(t *testing.T) {
	g := NewGraph(nil)
	w := newTestWindow(t, g)
	target := w.ActivePane()
	second, err := g.SplitPane(w, target, layout.TopBottom, 10, 80, 24, 0,
		[]string{"/bin/sh", "-c", "sleep 30"}, "/", nil)
	if err != nil {
		t.Fatalf("SplitPane: %v", err)
	}
	t.Cleanup(func() { _ = second.Kill() })

	if !w.Zoom(second.ID) {
		t.Fatalf("Zoom failed")
	}
	if n := w.LayoutRoot().CountCells(); n != 1 {
		t.Fatalf("zoomed layout should show 1 cell, got %d", n)
	}
	if !w.Unzoom() {
		t.Fatalf("Unzoom failed")
	}
	if n := w.LayoutRoot().CountCells(); n != 2 {
		t.Fatalf("unzoomed layout should restore 2 cells, got %d", n)
	}
}

func TestLinkUnlinkWindow(t *testing.T) {
	notifier := &recordingNotifier{}
	g := NewGraph(notifier)
	s := g.NewSession("main", "/", nil)
	w := newTestWindow(t, g)

	wl := g.LinkWindow(s, w, -1)
	if wl.Index != 0 {
		t.Fatalf("expected first link at index 0, got %d", wl.Index)
	}
	if got := s.WinlinkAt(0); got != wl {
		t.Fatalf("WinlinkAt(0) mismatch")
	}

	empty := g.UnlinkWindow(s, w)
	if !empty {
		t.Fatalf("expected session to be empty after unlinking its only window")
	}
	if g.Window(w.ID) != nil {
		t.Fatalf("expected window to be destroyed once its last link is gone")
	}

	wantSeq := []string{HookSessionCreated, HookWindowLinked, HookWindowUnlinked}
	if len(notifier.events) != len(wantSeq) {
		t.Fatalf("events = %v, want %v", notifier.events, wantSeq)
	}
	for i, name := range wantSeq {
		if notifier.events[i] != name {
			t.Fatalf("events[%d] = %q, want %q", i, notifier.events[i], name)
		}
	}
}

func TestSessionWindowSelection(t *testing.T) {
	g := NewGraph(nil)
	s := g.NewSession("main", "/", nil)
	w1 := newTestWindow(t, g)
	w2 := newTestWindow(t, g)
	g.LinkWindow(s, w1, -1)
	g.LinkWindow(s, w2, -1)

	if s.Current().Window != w1 {
		t.Fatalf("expected first linked window to be current")
	}
	if !s.SelectWindow(1) {
		t.Fatalf("SelectWindow(1) failed")
	}
	if s.Current().Window != w2 {
		t.Fatalf("expected window 2 to be current")
	}
	if last := s.LastWindow(); last == nil || last.Window != w1 {
		t.Fatalf("expected last window to be w1")
	}
}

func TestWindowAlerts(t *testing.T) {
	g := NewGraph(nil)
	w := newTestWindow(t, g)

	w.Bell()
	if w.Alerts()&AlertBell == 0 {
		t.Fatalf("expected bell alert set")
	}
	w.ClearAlert(AlertBell)
	if w.Alerts()&AlertBell != 0 {
		t.Fatalf("expected bell alert cleared")
	}
}

func TestSilenceMonitorFires(t *testing.T) {
	g := NewGraph(nil)
	w := newTestWindow(t, g)

	fired := make(chan struct{})
	w.ArmSilenceMonitor(20*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatalf("silence monitor never fired")
	}
	if w.Alerts()&AlertSilence == 0 {
		t.Fatalf("expected silence alert set")
	}
}

func TestOptionsInheritanceAcrossGraph(t *testing.T) {
	g := NewGraph(nil)
	if err := g.Options.Set("escape-time", "100"); err != nil {
		t.Fatalf("Set escape-time: %v", err)
	}

	s := g.NewSession("main", "/", nil)
	w := newTestWindow(t, g)
	g.LinkWindow(s, w, -1)
	p := w.ActivePane()

	v, ok := p.Options.Get("escape-time")
	if !ok || v.Num != 100 {
		t.Fatalf("pane did not inherit server escape-time, got %+v, ok=%v", v, ok)
	}

	if err := w.Options.Set("automatic-rename", "off"); err != nil {
		t.Fatalf("Set automatic-rename: %v", err)
	}
	v, ok = p.Options.Get("automatic-rename")
	if !ok || v.Flag {
		t.Fatalf("pane did not inherit window automatic-rename, got %+v, ok=%v", v, ok)
	}
}

func TestClientAttachDetach(t *testing.T) {
	notifier := &recordingNotifier{}
	g := NewGraph(notifier)
	s := g.NewSession("main", "/", nil)
	c := g.NewClient("/dev/pts/3", 80, 24)

	g.AttachSession(c, s)
	if c.Session() != s {
		t.Fatalf("expected client's session to be s")
	}
	if len(s.Clients()) != 1 {
		t.Fatalf("expected session to list 1 client")
	}

	g.Detach(c)
	if c.Session() != nil {
		t.Fatalf("expected client session to be cleared after detach")
	}
	if len(s.Clients()) != 0 {
		t.Fatalf("expected session to list 0 clients after detach")
	}
	select {
	case <-c.Detached:
	default:
		t.Fatalf("expected Detached channel closed")
	}
}
