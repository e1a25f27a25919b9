package format

import (
	"testing"
	"time"

	"github.com/vtmux/vtmux/internal/layout"
	"github.com/vtmux/vtmux/internal/objgraph"
)

func newTestWindow(t *testing.T, g *objgraph.Graph) *objgraph.Window {
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

// buildTree sets up a graph with one session ("main") holding a window at
// index 3 with one pane, and returns a Tree rooted at that pane (spec §8
// scenario 4's fixture).
func buildTree(t *testing.T, sessionName string) *Tree {
	t.Helper()
	g := objgraph.NewGraph(nil)
	s := g.NewSession(sessionName, "/", nil)
	w := newTestWindow(t, g)
	g.LinkWindow(s, w, 3)

	return &Tree{
		Graph:   g,
		Session: s,
		Window:  w,
		Pane:    w.ActivePane(),
		Now:     time.Now(),
	}
}

func TestExpandConditionalScenario(t *testing.T) {
	const tpl = "#{?#{==:#{session_name},main},yes-#{window_index},no}"

	tree := buildTree(t, "main")
	got, err := Expand(tpl, tree)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got != "yes-3" {
		t.Fatalf("expected %q, got %q", "yes-3", got)
	}

	other := buildTree(t, "other")
	got, err = Expand(tpl, other)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got != "no" {
		t.Fatalf("expected %q, got %q", "no", got)
	}
}

func TestResolveKeyPrecedence(t *testing.T) {
	tree := buildTree(t, "main")

	// Options beat everything: window_name's table entry is shadowed by
	// nothing here, but a user option of the same name as an Entries key
	// must still win over Entries (spec §4.8 lookup order).
	tree.Window.Options.Set("automatic-rename", "off")
	if got := tree.resolveKey("automatic-rename"); got != "0" {
		t.Fatalf("expected option value to win, got %q", got)
	}

	// Format table wins over Entries/Env when no option of that name exists.
	if got := tree.resolveKey("session_name"); got != "main" {
		t.Fatalf("expected format table session_name, got %q", got)
	}

	tree.Entries = map[string]string{"my_loop_var": "7"}
	if got := tree.resolveKey("my_loop_var"); got != "7" {
		t.Fatalf("expected Entries fallback, got %q", got)
	}

	tree.Env = map[string]string{"SHELL": "/bin/bash"}
	if got := tree.resolveKey("SHELL"); got != "/bin/bash" {
		t.Fatalf("expected Env fallback, got %q", got)
	}

	if got := tree.resolveKey("totally_unknown_key"); got != "" {
		t.Fatalf("expected empty string for unresolved key, got %q", got)
	}
}

func TestExpandModifiers(t *testing.T) {
	tree := buildTree(t, "main")
	tree.Entries = map[string]string{"path": "/usr/local/bin/tmux"}

	cases := []struct {
		tpl  string
		want string
	}{
		{"#{b:path}", "tmux"},
		{"#{d:path}", "/usr/local/bin"},
		{"#{n:path}", "19"},
		{"#{l:#{session_name}}", "#{session_name}"},
		{"#{p10:ab}", "ab        "},
		{"#{=3:abcdef}", "abc..."},
		{"#{3:abcdef}", "...def"},
	}
	for _, c := range cases {
		got, err := Expand(c.tpl, tree)
		if err != nil {
			t.Fatalf("Expand(%q): %v", c.tpl, err)
		}
		if got != c.want {
			t.Fatalf("Expand(%q) = %q, want %q", c.tpl, got, c.want)
		}
	}
}

func TestExpandSubstituteAndMatch(t *testing.T) {
	tree := buildTree(t, "main")
	tree.Entries = map[string]string{"greeting": "hello world"}

	got, err := Expand("#{s/world/there/:greeting}", tree)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got != "hello there" {
		t.Fatalf("expected %q, got %q", "hello there", got)
	}

	got, err = Expand("#{m/hello*/:greeting}", tree)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got != "1" {
		t.Fatalf("expected match, got %q", got)
	}
}

func TestExpandComparisonAndArithmetic(t *testing.T) {
	tree := buildTree(t, "main")

	got, err := Expand("#{==:5,5}", tree)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got != "1" {
		t.Fatalf("expected 1, got %q", got)
	}

	got, err = Expand("#{e|+|:2,3}", tree)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got != "5" {
		t.Fatalf("expected 5, got %q", got)
	}
}

func TestLoopOverWindowsScopedToSession(t *testing.T) {
	g := objgraph.NewGraph(nil)
	s := g.NewSession("main", "/", nil)
	w1 := newTestWindow(t, g)
	w2 := newTestWindow(t, g)
	g.LinkWindow(s, w1, 0)
	g.LinkWindow(s, w2, 1)

	tree := &Tree{Graph: g, Session: s}
	got, err := Expand("#{W:#{window_index}-}", tree)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got != "0-\n1-" {
		t.Fatalf("expected %q, got %q", "0-\n1-", got)
	}
}

func TestLoopOverPanesScopedToWindow(t *testing.T) {
	g := objgraph.NewGraph(nil)
	w := newTestWindow(t, g)
	target := w.ActivePane()
	second, err := g.SplitPane(w, target, layout.LeftRight, 30, 80, 24, 0,
		[]string{"/bin/sh", "-c", "sleep 30"}, "/", nil)
	if err != nil {
		t.Fatalf("SplitPane: %v", err)
	}
	t.Cleanup(func() { _ = second.Kill() })

	tree := &Tree{Graph: g, Window: w}
	got, err := Expand("#{P:#{pane_index}}", tree)
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	if got != "0\n1" {
		t.Fatalf("expected %q, got %q", "0\n1", got)
	}
}

func TestNameExistsCheck(t *testing.T) {
	g := objgraph.NewGraph(nil)
	g.NewSession("main", "/", nil)
	tree := &Tree{Graph: g}

	if got, err := Expand("#{N/main}", tree); err != nil || got != "1" {
		t.Fatalf("expected 1, got %q err %v", got, err)
	}
	if got, err := Expand("#{N/missing}", tree); err != nil || got != "0" {
		t.Fatalf("expected 0, got %q err %v", got, err)
	}
}

func TestExpandJob(t *testing.T) {
	tree := buildTree(t, "main")

	var got string
	var err error
	for i := 0; i < 20; i++ {
		got, err = Expand("#(echo job-output)", tree)
		if err != nil {
			t.Fatalf("Expand: %v", err)
		}
		if got == "job-output" {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if got != "job-output" {
		t.Fatalf("expected job output eventually, got %q", got)
	}
}

func TestExpandUnterminatedBraceErrors(t *testing.T) {
	tree := buildTree(t, "main")
	if _, err := Expand("#{session_name", tree); err == nil {
		t.Fatalf("expected error for unterminated brace")
	}
}

func TestParseKeyRoundTrip(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a", "a"},
		{"C-a", "C-a"},
		{"C-M-a", "C-M-a"},
		{"F5", "F5"},
		{"M-S-Up", "M-S-Up"},
	}
	for _, c := range cases {
		code, err := ParseKey(c.in)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", c.in, err)
		}
		if got := code.String(); got != c.want {
			t.Fatalf("ParseKey(%q).String() = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseKeyHex(t *testing.T) {
	code, err := ParseKey("0x41")
	if err != nil {
		t.Fatalf("ParseKey: %v", err)
	}
	if code != KeyCode('A') {
		t.Fatalf("expected code for 'A', got %v", code)
	}
}

func TestParseKeyInvalid(t *testing.T) {
	for _, in := range []string{"", "C-", "NotAKey"} {
		if _, err := ParseKey(in); err == nil {
			t.Fatalf("ParseKey(%q): expected error", in)
		}
	}
}
