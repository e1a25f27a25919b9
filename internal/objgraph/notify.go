package objgraph

// Hook event names, matching the canonical set a server fires on object
// graph transitions (original_source/src/notify.rs notify_callback's
// dispatch list; spec §4.6 "hook points"). A session/window/pane's
// per-object hook option (spec §4.7) is looked up by this exact string.
const (
	HookSessionCreated        = "session-created"
	HookSessionClosed         = "session-closed"
	HookSessionRenamed        = "session-renamed"
	HookSessionWindowChanged  = "session-window-changed"
	HookWindowLinked          = "window-linked"
	HookWindowUnlinked        = "window-unlinked"
	HookWindowRenamed         = "window-renamed"
	HookWindowLayoutChanged   = "window-layout-changed"
	HookWindowPaneChanged     = "window-pane-changed"
	HookPaneModeChanged       = "pane-mode-changed"
	HookPaneExited            = "pane-exited"
	HookPaneDied              = "pane-died"
	HookPaneFocusIn           = "pane-focus-in"
	HookPaneFocusOut          = "pane-focus-out"
	HookClientAttached        = "client-attached"
	HookClientDetached        = "client-detached"
	HookClientSessionChanged  = "client-session-changed"
	HookPasteBufferChanged    = "paste-buffer-changed"
	HookPasteBufferDeleted    = "paste-buffer-deleted"
)

// Event carries the object-graph context for one hook firing. At most one
// of Session/Window/Pane/Client is meaningful for most event names, but
// several (e.g. window-linked) set both Session and Window.
type Event struct {
	Name    string
	Session *Session
	Window  *Window
	Pane    *Pane
	Client  *Client
}

// Notifier receives object-graph events as they happen. internal/cmdqueue
// implements this to insert configured hook commands (spec §4.11); a
// control-mode client implementation (spec's control-mode surface,
// non-goal for this module) would implement it the same way.
type Notifier interface {
	Notify(Event)
}

// NopNotifier discards every event.
type NopNotifier struct{}

func (NopNotifier) Notify(Event) {}

func (g *Graph) notify(e Event) { g.hooks.Notify(e) }
