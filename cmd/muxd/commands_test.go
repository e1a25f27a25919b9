package main

import (
	"testing"

	"github.com/vtmux/vtmux/internal/cmdqueue"
	"github.com/vtmux/vtmux/internal/objgraph"
)

func TestTargetWindowPrefersExplicitWindow(t *testing.T) {
	graph := objgraph.NewGraph(nil)
	w, err := graph.NewWindow("0", 80, 24, 100, []string{"/bin/true"}, "/", nil)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	e := &cmdqueue.Entry{Target: cmdqueue.Target{Window: w}}
	if got := targetWindow(e); got != w {
		t.Fatalf("want explicit window returned")
	}
}

func TestTargetWindowFallsBackToPaneWindow(t *testing.T) {
	graph := objgraph.NewGraph(nil)
	w, err := graph.NewWindow("0", 80, 24, 100, []string{"/bin/true"}, "/", nil)
	if err != nil {
		t.Fatalf("NewWindow: %v", err)
	}
	p := w.ActivePane()
	e := &cmdqueue.Entry{Target: cmdqueue.Target{Pane: p}}
	if got := targetWindow(e); got != w {
		t.Fatalf("want pane's window returned")
	}
}

func TestTargetWindowNilWhenNoTarget(t *testing.T) {
	e := &cmdqueue.Entry{}
	if got := targetWindow(e); got != nil {
		t.Fatalf("want nil, got %+v", got)
	}
}

func TestMustKeyCodeParsesValidKey(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("want \"Up\" to parse without panicking: %v", r)
		}
	}()
	mustKeyCode("Up")
}

func TestMustKeyCodePanicsOnInvalidKey(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("want mustKeyCode to panic on an invalid key spec")
		}
	}()
	mustKeyCode("C-Not-A-Key-!!!")
}
