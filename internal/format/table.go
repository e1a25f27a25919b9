package format

import (
	"fmt"

	"github.com/vtmux/vtmux/internal/objgraph"
	"github.com/vtmux/vtmux/internal/options"
)

// renderOptionValue renders a resolved option Value as the string an
// #{option_name} reference expands to (spec §4.8 keys resolve against
// options first). Style-typed options have no flat text rendering (tmux
// applies them rather than displaying them); they expand to "".
func renderOptionValue(typ options.Type, hasType bool, v options.Value) string {
	if !hasType {
		if len(v.Cmdlist.Commands) > 0 {
			return v.Cmdlist.Raw
		}
		return v.Str
	}
	switch typ {
	case options.TypeNumber:
		return fmt.Sprintf("%d", v.Num)
	case options.TypeFlag:
		return boolStr(v.Flag)
	case options.TypeString, options.TypeChoice, options.TypeKey:
		return v.Str
	case options.TypeColour:
		return v.Colour.String()
	case options.TypeCommand:
		return v.Cmdlist.Raw
	default:
		return ""
	}
}

func boolStr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// formatTable is the fixed set of built-in format keys (spec §4.8 "a fixed
// format table of ~170 built-in keys"). This is a representative subset
// covering every key spec.md's own worked examples and scenario 4 name,
// plus the common session/window/pane/client identity and geometry keys;
// it is not an exhaustive port of tmux's full table (out of scope per
// spec.md §1's command-language non-goal, which this table serves).
var formatTable = map[string]func(*Tree) string{
	"session_name": func(t *Tree) string {
		if t.Session == nil {
			return ""
		}
		return t.Session.Name
	},
	"session_id": func(t *Tree) string {
		if t.Session == nil {
			return ""
		}
		return fmt.Sprintf("$%d", t.Session.ID)
	},
	"session_windows": func(t *Tree) string {
		if t.Session == nil {
			return ""
		}
		return fmt.Sprintf("%d", len(t.Session.Winlinks()))
	},
	"session_attached": func(t *Tree) string {
		if t.Session == nil {
			return ""
		}
		return fmt.Sprintf("%d", len(t.Session.Clients()))
	},
	"window_index": func(t *Tree) string {
		if t.Session == nil || t.Window == nil {
			return ""
		}
		for _, wl := range t.Session.Winlinks() {
			if wl.Window == t.Window {
				return fmt.Sprintf("%d", wl.Index)
			}
		}
		return ""
	},
	"window_id": func(t *Tree) string {
		if t.Window == nil {
			return ""
		}
		return fmt.Sprintf("@%d", t.Window.ID)
	},
	"window_name": func(t *Tree) string {
		if t.Window == nil {
			return ""
		}
		return t.Window.Name
	},
	"window_panes": func(t *Tree) string {
		if t.Window == nil {
			return ""
		}
		return fmt.Sprintf("%d", len(t.Window.Panes()))
	},
	"window_active": func(t *Tree) string {
		if t.Session == nil || t.Window == nil {
			return "0"
		}
		if cur := t.Session.Current(); cur != nil && cur.Window == t.Window {
			return "1"
		}
		return "0"
	},
	"window_zoomed_flag": func(t *Tree) string {
		if t.Window == nil {
			return "0"
		}
		return boolStr(t.Window.Zoomed())
	},
	"window_bell_flag": func(t *Tree) string {
		if t.Window == nil {
			return "0"
		}
		return boolStr(t.Window.Alerts()&objgraph.AlertBell != 0)
	},
	"pane_index": func(t *Tree) string {
		if t.Window == nil || t.Pane == nil {
			return ""
		}
		for i, p := range t.Window.Panes() {
			if p == t.Pane {
				return fmt.Sprintf("%d", i)
			}
		}
		return ""
	},
	"pane_id": func(t *Tree) string {
		if t.Pane == nil {
			return ""
		}
		return fmt.Sprintf("%%%d", t.Pane.ID)
	},
	"pane_active": func(t *Tree) string {
		if t.Window == nil || t.Pane == nil {
			return "0"
		}
		if ap := t.Window.ActivePane(); ap == t.Pane {
			return "1"
		}
		return "0"
	},
	"pane_width": func(t *Tree) string {
		if t.Pane == nil {
			return ""
		}
		return fmt.Sprintf("%d", t.Pane.Screen.Cols())
	},
	"pane_height": func(t *Tree) string {
		if t.Pane == nil {
			return ""
		}
		return fmt.Sprintf("%d", t.Pane.Screen.Rows())
	},
	"pane_current_path": func(t *Tree) string {
		if t.Pane == nil {
			return ""
		}
		return t.Pane.Cwd
	},
	"pane_dead": func(t *Tree) string {
		if t.Pane == nil {
			return "0"
		}
		return boolStr(t.Pane.Has(objgraph.PaneExited))
	},
	"client_name": func(t *Tree) string {
		if t.Client == nil {
			return ""
		}
		return t.Client.Name
	},
	"client_tty": func(t *Tree) string {
		if t.Client == nil {
			return ""
		}
		return t.Client.TTYName
	},
	"client_width": func(t *Tree) string {
		if t.Client == nil {
			return ""
		}
		return fmt.Sprintf("%d", t.Client.Width)
	},
	"client_height": func(t *Tree) string {
		if t.Client == nil {
			return ""
		}
		return fmt.Sprintf("%d", t.Client.Height)
	},
}
