// Package objgraph holds the pane/window/winlink/session/client object
// graph, modeled as an id-keyed arena per kind (spec §9: "model as a
// central arena keyed by a small integer id per kind", grounded on
// dcosson-h2/internal/session/session.go's Session, adapted from h2's
// single-agent-session shape to tmux's many-windows-per-session and
// many-sessions-per-window-via-winlink model).
package objgraph

import (
	"sync"

	"github.com/vtmux/vtmux/internal/fatal"
	"github.com/vtmux/vtmux/internal/options"
)

// idAllocator issues increasing ids for one kind of object.
type idAllocator struct {
	mu   sync.Mutex
	next uint32
}

func (a *idAllocator) alloc() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.next == ^uint32(0) {
		fatal.Fatalx("objgraph: id allocator exhausted its uint32 space")
	}
	id := a.next
	a.next++
	return id
}

// Graph owns every pane, window, session and client in one server, keyed
// by their arena id (spec §4.6 "the server owns one object graph").
type Graph struct {
	mu sync.RWMutex

	panes    map[uint32]*Pane
	windows  map[uint32]*Window
	sessions map[uint32]*Session
	clients  map[string]*Client

	paneIDs    idAllocator
	windowIDs  idAllocator
	sessionIDs idAllocator

	hooks Notifier

	// Options is the server-scope option store; every session's store
	// falls back to it on a lookup miss (spec §4.7 four-scope chain).
	Options *options.Store
}

// NewGraph creates an empty object graph. notifier receives hook/control
// events as objects are created, linked, and destroyed; pass nil to
// discard them.
func NewGraph(notifier Notifier) *Graph {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Graph{
		panes:    map[uint32]*Pane{},
		windows:  map[uint32]*Window{},
		sessions: map[uint32]*Session{},
		clients:  map[string]*Client{},
		hooks:    notifier,
		Options:  options.NewStore(options.ScopeServer, options.DefaultServerTable(), nil),
	}
}

func (g *Graph) Pane(id uint32) *Pane {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.panes[id]
}

func (g *Graph) Window(id uint32) *Window {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.windows[id]
}

func (g *Graph) Session(id uint32) *Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sessions[id]
}

func (g *Graph) Client(id string) *Client {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.clients[id]
}

// Sessions returns every live session, unordered.
func (g *Graph) Sessions() []*Session {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Session, 0, len(g.sessions))
	for _, s := range g.sessions {
		out = append(out, s)
	}
	return out
}

// Clients returns every attached client, unordered.
func (g *Graph) Clients() []*Client {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Client, 0, len(g.clients))
	for _, c := range g.clients {
		out = append(out, c)
	}
	return out
}
