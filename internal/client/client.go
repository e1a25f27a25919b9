// Package client implements the server-side per-client dispatch loop:
// input decoding, key-table resolution, redraw scheduling, status line,
// and prompt/overlay layering (spec §4.12). Grounded on
// dcosson-h2/internal/session/client/ (cursor.go's input-line editing
// primitives, render.go/overlay.go's redraw-flags-then-draw idiom),
// adapted from h2's single always-attached interactive client wired
// directly to a local PTY to this spec's thin-client-over-a-socket
// model: "tty readable/writable" in spec §4.12's loop becomes inbound
// MSG_STDIN frames and outbound MSG_STDOUT frames over the IPC peer
// rather than a direct local fd, since the real terminal lives in a
// separate attach process (cmd/mux) on the other end of the socket.
package client

import (
	"sync"
	"time"

	"github.com/vtmux/vtmux/internal/cmdqueue"
	"github.com/vtmux/vtmux/internal/format"
	"github.com/vtmux/vtmux/internal/ipc"
	"github.com/vtmux/vtmux/internal/objgraph"
	"github.com/vtmux/vtmux/internal/options"
	"github.com/vtmux/vtmux/internal/tty"
	"github.com/vtmux/vtmux/internal/writer"
)

// Overlay is a modal popup/menu/prompt layered on top of the pane view
// (spec §3 "optional prompt overlay, optional popup/menu overlay"). The
// concrete modes (command-prompt, choice menu, copy-mode's own overlay)
// are not implemented in this module, and the object graph keeps no pane
// mode stack; Overlay only carries what the dispatch loop needs to know:
// a render callback and when it expires.
type Overlay struct {
	Render  func(tree *format.Tree) string
	Expires time.Time // zero means "until explicitly cleared"
}

// Client is one attached terminal on the server side: the object-graph
// client record, its IPC peer, its terminal writer, its key-table
// pointer, and the redraw/status/overlay state layered on top (spec §3
// "Client").
type Client struct {
	Graph *objgraph.Graph
	OG    *objgraph.Client
	Peer  *ipc.Peer
	Term  *tty.Term

	registry *Registry
	table    *KeyTable

	prefixKey format.KeyCode

	Queue *cmdqueue.Queue

	// Run executes one command-entry argv produced by a key binding or
	// a prompt submission; internal/client only resolves input into an
	// argv (spec §1's "command entry" contract is a non-goal here).
	Run cmdqueue.CommandRunner

	mu            sync.Mutex
	statusMessage string
	statusExpires time.Time
	overlay       *Overlay

	redrawMu sync.Mutex
	redraw   RedrawFlag

	repeatTimer *time.Timer
	clickTimer  *time.Timer
	clicks      int

	msgCh chan ipc.Message
	done  chan struct{}
	once  sync.Once
}

// New constructs a Client wrapping an already-handshaken peer and
// object-graph client record. registry supplies the server-wide key
// tables; prefixKey is read from the session's "prefix" option at
// attach time by the caller (options resolution itself lives outside
// this package).
func New(g *objgraph.Graph, og *objgraph.Client, peer *ipc.Peer, term *tty.Term, registry *Registry, prefixKey format.KeyCode, queue *cmdqueue.Queue) *Client {
	c := &Client{
		Graph:     g,
		OG:        og,
		Peer:      peer,
		Term:      term,
		registry:  registry,
		table:     registry.Root(),
		prefixKey: prefixKey,
		Queue:     queue,
		msgCh:     make(chan ipc.Message, 64),
		done:      make(chan struct{}),
	}
	peer.Dispatch = c.enqueueMessage
	peer.OnClose = func(error) { c.Close() }
	c.wirePaneOutput(c.activePane())
	return c
}

// enqueueMessage is the ipc.Peer.Dispatch callback, invoked from the
// peer's own readLoop goroutine. It only hands the message to the
// client's single dispatch goroutine (via msgCh) rather than touching
// any shared state itself, preserving the single-threaded-cooperative
// mutation model (spec §5): every mutation of the object graph, queue,
// and option tree happens on Loop's goroutine, never on a peer's.
func (c *Client) enqueueMessage(m ipc.Message) {
	select {
	case c.msgCh <- m:
	case <-c.done:
	}
}

// Close tears the client down: detaches it from the graph, stops its
// terminal writer, and unblocks Loop.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		if c.Queue != nil {
			c.Queue.Abort()
		}
		if c.Term != nil {
			c.Term.Stop()
			c.Term.Free()
		}
		if c.Graph != nil && c.OG != nil {
			c.Graph.Detach(c.OG)
		}
	})
}

// SetStatusMessage shows a temporary message in the status line until
// expiry (spec §4.12 "message timer (temporary message expiry)").
func (c *Client) SetStatusMessage(msg string, ttl time.Duration) {
	c.mu.Lock()
	c.statusMessage = msg
	c.statusExpires = time.Now().Add(ttl)
	c.mu.Unlock()
	c.NeedRedraw(RedrawStatus)
}

// StatusMessage returns the current status message, if not expired.
func (c *Client) StatusMessage() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statusMessage == "" {
		return "", false
	}
	if !c.statusExpires.IsZero() && time.Now().After(c.statusExpires) {
		return "", false
	}
	return c.statusMessage, true
}

// SetOverlay installs (or clears, with nil) a popup/menu/prompt overlay
// (spec §4.12 "overlay timer (modal overlays)").
func (c *Client) SetOverlay(o *Overlay) {
	c.mu.Lock()
	c.overlay = o
	c.mu.Unlock()
	c.NeedRedraw(RedrawOverlay)
}

func (c *Client) overlayActive() (*Overlay, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.overlay == nil {
		return nil, false
	}
	if !c.overlay.Expires.IsZero() && time.Now().After(c.overlay.Expires) {
		c.overlay = nil
		return nil, false
	}
	return c.overlay, true
}

// CurrentTable returns the key table input is currently resolved
// against (spec §3 "an independent key-table pointer").
func (c *Client) CurrentTable() *KeyTable { return c.table }

// ResetTable returns the client's key-table pointer to "root", used
// after a binding resolves or an unbound key cancels a pending prefix.
func (c *Client) ResetTable() { c.table = c.registry.Root() }

// activePane resolves the pane whose output should receive this
// client's forwarded input, and whose Screen feeds its redraws: the
// active pane of the active window of the attached session.
func (c *Client) activePane() *objgraph.Pane {
	sess := c.OG.Session()
	if sess == nil {
		return nil
	}
	wl := sess.Current()
	if wl == nil || wl.Window == nil {
		return nil
	}
	return wl.Window.ActivePane()
}

// wirePaneOutput subscribes to a pane's writer so its draws mark this
// client dirty rather than being applied eagerly: spec §5's "coalesced
// snapshot" guarantee means the actual pixels are re-read from the
// Screen/Grid only when the redraw flag is serviced, not once per
// writer.Emit call.
func (c *Client) wirePaneOutput(p *objgraph.Pane) {
	if p == nil {
		return
	}
	p.Output = func(writer.TTYContext) { c.NeedRedraw(RedrawPanes) }
}

// optionsFor has the same shape cmdqueue.HookSink's OptionsFor needs
// (server-scope fallback for a client with no attached session yet). It
// is unexported and has no callers here; cmd/muxd defines its own
// OptionsFor for the server's Hooks.
func optionsFor(g *objgraph.Graph, ev objgraph.Event) *options.Store {
	if ev.Pane != nil {
		return ev.Pane.Options
	}
	if ev.Window != nil {
		return ev.Window.Options
	}
	if ev.Session != nil {
		return ev.Session.Options
	}
	return g.Options
}
