package objgraph

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ClientFlag is a bitmask of per-client state (spec §4.12 "client flags").
type ClientFlag uint32

const (
	// ClientReadOnly forwards no input, key bindings excepted (spec
	// §4.12 "read-only client").
	ClientReadOnly ClientFlag = 1 << iota
	// ClientControlMode marks a client driven by a scripted control
	// protocol rather than a human at a terminal (non-goal surface for
	// this module, but the flag is part of the object model regardless).
	ClientControlMode
	// ClientSuspended marks a client detached from the tty momentarily
	// (e.g. while its terminal is itself suspended by a shell job
	// control signal) without a full session detach.
	ClientSuspended
)

// Client is one attached terminal (spec §3 "client"): a tty, a view onto
// one session, and the redraw/prompt/overlay state layered on top of it.
type Client struct {
	ID   string // UUID, doubling as the IPC peer id (spec §4.10)
	Name string

	mu      sync.Mutex
	session *Session
	flags   ClientFlag

	TTYName string
	Width   int
	Height  int

	Created time.Time

	// Detached is closed when the client disconnects from the server,
	// whether by explicit detach or the peer connection dying.
	Detached chan struct{}
}

// NewClient registers a new client identified by a fresh UUID (spec
// §4.10 "peer id").
func (g *Graph) NewClient(ttyName string, w, h int) *Client {
	c := &Client{
		ID:       uuid.NewString(),
		TTYName:  ttyName,
		Width:    w,
		Height:   h,
		Created:  time.Now(),
		Detached: make(chan struct{}),
	}
	g.mu.Lock()
	g.clients[c.ID] = c
	g.mu.Unlock()
	return c
}

// AttachSession points c at s, firing client-attached (first attach) or
// client-session-changed (switching sessions).
func (g *Graph) AttachSession(c *Client, s *Session) {
	c.mu.Lock()
	prev := c.session
	c.session = s
	c.mu.Unlock()

	s.AttachClient(c)
	if prev != nil {
		prev.DetachClient(c)
		g.notify(Event{Name: HookClientSessionChanged, Client: c, Session: s})
		return
	}
	g.notify(Event{Name: HookClientAttached, Client: c, Session: s})
}

// Session returns the session c currently views, or nil.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// Detach disconnects c from its session and the graph, firing
// client-detached. Idempotent.
func (g *Graph) Detach(c *Client) {
	c.mu.Lock()
	s := c.session
	c.session = nil
	c.mu.Unlock()

	if s != nil {
		s.DetachClient(c)
	}
	g.mu.Lock()
	delete(g.clients, c.ID)
	g.mu.Unlock()

	select {
	case <-c.Detached:
	default:
		close(c.Detached)
	}
	g.notify(Event{Name: HookClientDetached, Client: c, Session: s})
}

func (c *Client) Flags() ClientFlag { c.mu.Lock(); defer c.mu.Unlock(); return c.flags }

func (c *Client) SetFlag(f ClientFlag) { c.mu.Lock(); c.flags |= f; c.mu.Unlock() }

func (c *Client) ClearFlag(f ClientFlag) { c.mu.Lock(); c.flags &^= f; c.mu.Unlock() }

func (c *Client) Has(f ClientFlag) bool { c.mu.Lock(); defer c.mu.Unlock(); return c.flags&f != 0 }

// Resize updates the client's reported terminal size. Callers propagate
// this into the active window's pane sizes (spec §4.6 "a session takes
// the smallest attached client's size unless aggressive-resize is set").
func (c *Client) Resize(w, h int) {
	c.mu.Lock()
	c.Width, c.Height = w, h
	c.mu.Unlock()
}
