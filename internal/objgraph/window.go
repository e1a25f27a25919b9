package objgraph

import (
	"sync"
	"time"

	"github.com/vtmux/vtmux/internal/layout"
	"github.com/vtmux/vtmux/internal/options"
)

// AlertKind is a bitmask of the monitor conditions a window can be
// flagged for (spec §4.6 "window alerts": bell, activity, silence).
type AlertKind uint8

const (
	AlertBell AlertKind = 1 << iota
	AlertActivity
	AlertSilence
)

// Window groups one or more panes under a shared layout tree (spec §3
// "window"). A window is linked into one or more sessions via Winlink.
type Window struct {
	ID   uint32
	Name string

	mu         sync.Mutex
	panes      map[uint32]*Pane
	layoutRoot *layout.Cell
	activePane uint32
	lastPanes  []uint32 // MRU stack, most-recent first, for last-pane toggling

	alerts          AlertKind
	lastActivity    time.Time
	silenceTimer    *time.Timer
	silenceDuration time.Duration

	zoomed     bool
	zoomSaved  *layout.Cell
	zoomedPane uint32

	winlinks map[uint32]*Winlink // sessions this window is linked into, by session id

	// Options falls back directly to the server's store, not a
	// particular session's: a window can be linked into several sessions
	// at once (session groups), so it has no single session parent to
	// inherit from (spec §4.7 four-scope chain; per-client resolution
	// through the viewing session is internal/format's concern).
	Options *options.Store
}

// NewWindow creates a window sized sx x sy with a single pane as its
// initial layout, and starts that pane's command.
func (g *Graph) NewWindow(name string, sx, sy, hlimit int, argv []string, cwd string, env []string) (*Window, error) {
	id := g.windowIDs.alloc()
	p := g.NewPane(sx, sy, hlimit, false)
	root := layout.NewPane(p.ID, sx, sy, 0, 0)

	w := &Window{
		ID:         id,
		Name:       name,
		panes:      map[uint32]*Pane{p.ID: p},
		layoutRoot: root,
		activePane: p.ID,
		winlinks:   map[uint32]*Winlink{},
	}
	w.Options = options.NewStore(options.ScopeWindow, options.DefaultWindowTable(), g.Options)
	p.Window = w
	p.Options.Reparent(w.Options)

	g.mu.Lock()
	g.windows[id] = w
	g.mu.Unlock()

	if err := p.Spawn(argv, cwd, env); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Window) LayoutRoot() *layout.Cell { w.mu.Lock(); defer w.mu.Unlock(); return w.layoutRoot }

func (w *Window) Panes() []*Pane {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*Pane, 0, len(w.panes))
	for _, p := range w.panes {
		out = append(out, p)
	}
	return out
}

func (w *Window) Pane(id uint32) *Pane {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.panes[id]
}

// Sessions returns every session this window is currently linked into
// (spec §4.6 session groups: a window may be linked into more than one).
func (w *Window) Sessions() []*Session {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*Session, 0, len(w.winlinks))
	for _, wl := range w.winlinks {
		out = append(out, wl.Session)
	}
	return out
}

func (w *Window) ActivePane() *Pane {
	w.mu.Lock()
	id := w.activePane
	w.mu.Unlock()
	return w.Pane(id)
}

// SetActivePane changes the active pane, pushing the previous one onto
// the last-pane MRU stack (spec §4.6 "last-pane toggling").
func (w *Window) SetActivePane(id uint32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.panes[id]; !ok || id == w.activePane {
		return
	}
	w.lastPanes = append([]uint32{w.activePane}, w.lastPanes...)
	if len(w.lastPanes) > 8 {
		w.lastPanes = w.lastPanes[:8]
	}
	w.activePane = id
}

// LastActivePane returns the most recently active pane before the
// current one, or nil if there is no history yet.
func (w *Window) LastActivePane() *Pane {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range w.lastPanes {
		if p, ok := w.panes[id]; ok {
			return p
		}
	}
	return nil
}

// SplitPane adds a new pane to the window by splitting target along dir,
// spawning argv in the new pane (spec §4.5/§4.6 "splitting a window").
func (g *Graph) SplitPane(w *Window, target *Pane, dir layout.Type, size int, sx, sy, hlimit int, argv []string, cwd string, env []string) (*Pane, error) {
	np := g.NewPane(sx, sy, hlimit, false)

	w.mu.Lock()
	targetCell := w.layoutRoot.FindByPaneID(target.ID)
	w.mu.Unlock()
	if targetCell == nil {
		return nil, errNoSuchPane(target.ID)
	}

	newCell, err := layout.Split(targetCell, dir, np.ID, size)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.panes[np.ID] = np
	// targetCell's Parent chain reflects any new wrapper node splitWrap
	// introduced (it reparents the original Cell in place rather than
	// cloning it), so walking up from it always finds the true root.
	root := targetCell
	for root.Parent != nil {
		root = root.Parent
	}
	w.layoutRoot = root
	w.activePane = np.ID
	w.mu.Unlock()

	np.Window = w
	np.Options.Reparent(w.Options)
	_ = newCell
	if err := np.Spawn(argv, cwd, env); err != nil {
		return nil, err
	}
	return np, nil
}

// ClosePane removes pane from the window, collapsing its layout slot
// (spec §4.5 Close, §4.6 "closing a pane"). Reports whether the window
// itself is now empty and should be unlinked.
func (g *Graph) ClosePane(w *Window, p *Pane) (windowEmpty bool) {
	w.mu.Lock()
	cell := w.layoutRoot.FindByPaneID(p.ID)
	if cell == nil {
		w.mu.Unlock()
		return len(w.panes) == 0
	}
	w.layoutRoot = layout.Close(w.layoutRoot, cell)
	delete(w.panes, p.ID)
	if w.activePane == p.ID {
		if alt := w.lastActivePaneLocked(); alt != 0 {
			w.activePane = alt
		} else if len(w.panes) > 0 {
			for id := range w.panes {
				w.activePane = id
				break
			}
		}
	}
	empty := len(w.panes) == 0
	w.mu.Unlock()

	_ = p.Kill()
	return empty
}

func (w *Window) lastActivePaneLocked() uint32 {
	for _, id := range w.lastPanes {
		if _, ok := w.panes[id]; ok {
			return id
		}
	}
	return 0
}

// Zoom collapses the window's layout to a single pane occupying the full
// window, remembering the prior tree (spec §4.6 "zoom").
func (w *Window) Zoom(paneID uint32) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.zoomed {
		return false
	}
	leaf := w.layoutRoot.FindByPaneID(paneID)
	if leaf == nil {
		return false
	}
	saved, zoomed := layout.Zoom(w.layoutRoot, leaf)
	w.zoomSaved, w.layoutRoot = saved, zoomed
	w.zoomed = true
	w.zoomedPane = paneID
	return true
}

// Unzoom restores the layout tree saved by Zoom.
func (w *Window) Unzoom() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.zoomed {
		return false
	}
	w.layoutRoot = layout.Unzoom(w.zoomSaved)
	w.zoomSaved = nil
	w.zoomed = false
	return true
}

func (w *Window) Zoomed() bool { w.mu.Lock(); defer w.mu.Unlock(); return w.zoomed }

// Bell flags the window for monitor-bell (spec §4.6 "a BEL in any pane
// sets the window's bell alert until a client looks at the window").
func (w *Window) Bell() { w.SetAlert(AlertBell) }

// Activity records pane output for monitor-activity and restarts the
// monitor-silence timer, if armed, so silence means "quiet since the
// last byte of output" rather than "quiet since window creation" (spec
// §4.6 monitor-silence).
func (w *Window) Activity(onSilence func()) {
	w.mu.Lock()
	w.alerts |= AlertActivity
	w.lastActivity = time.Now()
	timer := w.silenceTimer
	w.mu.Unlock()
	if timer != nil {
		timer.Stop()
		w.rearmSilence(onSilence)
	}
}

// ArmSilenceMonitor starts (or restarts) the monitor-silence timer: if no
// further Activity call arrives within d, onSilence fires and the
// window's silence alert is set.
func (w *Window) ArmSilenceMonitor(d time.Duration, onSilence func()) {
	w.mu.Lock()
	w.lastActivity = time.Now()
	w.mu.Unlock()
	w.silenceDuration = d
	w.rearmSilence(onSilence)
}

func (w *Window) rearmSilence(onSilence func()) {
	d := w.silenceDuration
	if d <= 0 {
		return
	}
	w.mu.Lock()
	if w.silenceTimer != nil {
		w.silenceTimer.Stop()
	}
	w.silenceTimer = time.AfterFunc(d, func() {
		w.SetAlert(AlertSilence)
		if onSilence != nil {
			onSilence()
		}
	})
	w.mu.Unlock()
}

// Alerts returns the currently set alert bits.
func (w *Window) Alerts() AlertKind { w.mu.Lock(); defer w.mu.Unlock(); return w.alerts }

// SetAlert ORs kind into the window's alert state (spec §4.6 "monitor-bell,
// monitor-activity, monitor-silence set a per-window flag that the status
// line and hooks observe").
func (w *Window) SetAlert(kind AlertKind) {
	w.mu.Lock()
	w.alerts |= kind
	w.mu.Unlock()
}

// ClearAlert clears kind, typically once a client views the window.
func (w *Window) ClearAlert(kind AlertKind) {
	w.mu.Lock()
	w.alerts &^= kind
	w.mu.Unlock()
}

func errNoSuchPane(id uint32) error { return &objgraphError{"objgraph: no such pane in window"} }

type objgraphError struct{ msg string }

func (e *objgraphError) Error() string { return e.msg }
