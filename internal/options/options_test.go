package options

import (
	"testing"

	"github.com/vtmux/vtmux/internal/grid"
)

func TestParseColour(t *testing.T) {
	cases := []struct {
		in       string
		wantKind grid.ColorKind
	}{
		{"default", grid.ColorDefault},
		{"none", grid.ColorDefault},
		{"red", grid.ColorIndexed},
		{"brightblue", grid.ColorIndexed},
		{"terminal", grid.ColorIndexed},
		{"colour200", grid.ColorIndexed},
		{"color12", grid.ColorIndexed},
		{"#ff00ff", grid.ColorRGB},
	}
	for _, c := range cases {
		got, err := ParseColour(c.in)
		if err != nil {
			t.Errorf("ParseColour(%q): %v", c.in, err)
			continue
		}
		if got.Kind != c.wantKind {
			t.Errorf("ParseColour(%q).Kind = %v, want %v", c.in, got.Kind, c.wantKind)
		}
	}

	if _, err := ParseColour("colour999"); err == nil {
		t.Errorf("ParseColour(\"colour999\") should fail, out of range")
	}
	if _, err := ParseColour("notacolour"); err == nil {
		t.Errorf("ParseColour(\"notacolour\") should fail")
	}
}

func TestParseColourRoundTripString(t *testing.T) {
	c, err := ParseColour("#112233")
	if err != nil {
		t.Fatalf("ParseColour: %v", err)
	}
	if got := c.String(); got != "#112233" {
		t.Errorf("String() = %q, want #112233", got)
	}
}

func TestParseStyleBasic(t *testing.T) {
	st, err := ParseStyle("fg=red,bg=colour22,bold,underscore-2")
	if err != nil {
		t.Fatalf("ParseStyle: %v", err)
	}
	if st.Fg.Kind != grid.ColorIndexed || st.Fg.Index != 1 {
		t.Errorf("fg = %+v, want indexed red", st.Fg)
	}
	if st.Bg.Kind != grid.ColorIndexed || st.Bg.Index != 22 {
		t.Errorf("bg = %+v, want colour22", st.Bg)
	}
	if st.Attrs&grid.AttrBold == 0 {
		t.Errorf("bold attribute not set")
	}
	if st.Attrs&grid.AttrUnderline2 == 0 {
		t.Errorf("underscore-2 attribute not set")
	}
}

func TestParseStyleAlignAndList(t *testing.T) {
	st, err := ParseStyle("align=centre,list=on")
	if err != nil {
		t.Fatalf("ParseStyle: %v", err)
	}
	if st.Align != AlignCentre {
		t.Errorf("Align = %v, want AlignCentre", st.Align)
	}
	if st.List != ListOn {
		t.Errorf("List = %v, want ListOn", st.List)
	}
}

func TestParseStyleRangeUserKeepsEmbeddedSpace(t *testing.T) {
	st, err := ParseStyle("range=user my name,fg=blue")
	if err != nil {
		t.Fatalf("ParseStyle: %v", err)
	}
	if st.Range != RangeUser {
		t.Errorf("Range = %v, want RangeUser", st.Range)
	}
	if st.RangeUser != "my name" {
		t.Errorf("RangeUser = %q, want %q", st.RangeUser, "my name")
	}
	if st.Fg.Kind != grid.ColorIndexed || st.Fg.Index != 4 {
		t.Errorf("fg = %+v, want indexed blue", st.Fg)
	}
}

func TestParseStyleBareTokens(t *testing.T) {
	for _, tok := range []string{"none", "default", "push", "pop"} {
		if _, err := ParseStyle(tok); err != nil {
			t.Errorf("ParseStyle(%q): %v", tok, err)
		}
	}
	if _, err := ParseStyle("bogus-token"); err == nil {
		t.Errorf("ParseStyle(\"bogus-token\") should fail")
	}
}

func TestParseKeyString(t *testing.T) {
	good := []string{"a", "C-b", "M-x", "S-Tab", "C-M-a", "Up", "F5", "KP3", "Enter"}
	for _, k := range good {
		if err := ParseKeyString(k); err != nil {
			t.Errorf("ParseKeyString(%q): %v", k, err)
		}
	}
	bad := []string{"", "C-", "NotAKey"}
	for _, k := range bad {
		if err := ParseKeyString(k); err == nil {
			t.Errorf("ParseKeyString(%q) should fail", k)
		}
	}
}

func TestParseCommandList(t *testing.T) {
	cl, err := ParseCommandList(`select-pane -t 1; send-keys "hello world" Enter`)
	if err != nil {
		t.Fatalf("ParseCommandList: %v", err)
	}
	if len(cl.Commands) != 2 {
		t.Fatalf("len(Commands) = %d, want 2", len(cl.Commands))
	}
	if got := cl.Commands[0]; len(got) != 3 || got[0] != "select-pane" || got[1] != "-t" || got[2] != "1" {
		t.Errorf("Commands[0] = %v", got)
	}
	if got := cl.Commands[1]; len(got) != 3 || got[1] != "hello world" {
		t.Errorf("Commands[1] = %v", got)
	}

	if _, err := ParseCommandList(`echo "unterminated`); err == nil {
		t.Errorf("expected unterminated-quote error")
	}
}

func TestStoreInheritanceAndSet(t *testing.T) {
	server := NewStore(ScopeServer, DefaultServerTable(), nil)
	session := NewStore(ScopeSession, DefaultSessionTable(), server)
	window := NewStore(ScopeWindow, DefaultWindowTable(), session)
	pane := NewStore(ScopePane, DefaultPaneTable(), window)

	if err := server.Set("escape-time", "250"); err != nil {
		t.Fatalf("Set escape-time: %v", err)
	}
	v, ok := pane.Get("escape-time")
	if !ok {
		t.Fatalf("pane.Get(\"escape-time\") not found via inheritance")
	}
	if v.Num != 250 {
		t.Errorf("escape-time = %d, want 250", v.Num)
	}

	if err := window.Set("automatic-rename", "off"); err != nil {
		t.Fatalf("Set automatic-rename: %v", err)
	}
	v, ok = window.Get("automatic-rename")
	if !ok || v.Flag {
		t.Errorf("automatic-rename = %+v, want false", v)
	}
	if v2, ok := server.Get("automatic-rename"); ok {
		t.Errorf("server should not see window-scope value, got %+v", v2)
	}

	if err := pane.Set("cursor-colour", "#ff0000"); err != nil {
		t.Fatalf("Set cursor-colour: %v", err)
	}
	v, ok = pane.Get("cursor-colour")
	if !ok || v.Colour.Kind != grid.ColorRGB {
		t.Errorf("cursor-colour = %+v, want RGB", v)
	}

	if err := pane.Set("@my-user-option", "hello"); err != nil {
		t.Fatalf("Set user option: %v", err)
	}
	v, _ = pane.Get("@my-user-option")
	if v.Str != "hello" {
		t.Errorf("@my-user-option = %q, want hello", v.Str)
	}

	if err := session.Set("session-created", `run-shell "notify.sh"`); err != nil {
		t.Fatalf("Set hook: %v", err)
	}
	v, ok = session.Get("session-created")
	if !ok || len(v.Cmdlist.Commands) != 1 {
		t.Errorf("session-created hook = %+v", v)
	}

	if err := pane.Set("no-such-option", "1"); err == nil {
		t.Errorf("Set on unknown option should fail")
	}
}

func TestStoreArrayOption(t *testing.T) {
	server := NewStore(ScopeServer, DefaultServerTable(), nil)
	if err := server.SetIndex("terminal-overrides", 0, "xterm*:colors=256"); err != nil {
		t.Fatalf("SetIndex: %v", err)
	}
	if err := server.SetIndex("terminal-overrides", 2, "screen*:colors=8"); err != nil {
		t.Fatalf("SetIndex: %v", err)
	}
	v, ok := server.GetIndex("terminal-overrides", 0)
	if !ok || v.Str != "xterm*:colors=256" {
		t.Errorf("GetIndex(0) = %+v", v)
	}
	if _, ok := server.GetIndex("terminal-overrides", 1); ok {
		t.Errorf("GetIndex(1) should be unset (sparse array)")
	}

	if err := server.SetIndex("escape-time", 0, "1"); err == nil {
		t.Errorf("SetIndex on non-array option should fail")
	}
}

func TestStoreUnset(t *testing.T) {
	server := NewStore(ScopeServer, DefaultServerTable(), nil)
	session := NewStore(ScopeSession, DefaultSessionTable(), server)

	if err := session.Set("base-index", "5"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	session.Unset("base-index")
	v, ok := session.Get("base-index")
	if ok {
		t.Errorf("base-index still set after Unset: %+v", v)
	}
}
