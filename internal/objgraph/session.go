package objgraph

import (
	"sync"
	"time"

	"github.com/vtmux/vtmux/internal/options"
)

// Session is a named collection of windows linked via Winlink, with its
// own working directory, environment, and current-window cursor (spec §3
// "session").
type Session struct {
	ID   uint32
	Name string

	mu          sync.Mutex
	winlinks    map[int]*Winlink
	current     *Winlink
	lastWindows []int

	Cwd string
	Env map[string]string

	Created time.Time
	Attached time.Time

	// Group is the name of the session group this session shares window
	// links with (spec §4.6 "session groups": "grouped sessions see the
	// same set of windows through independent winlinks"), or "" if
	// ungrouped.
	Group string

	clientsMu sync.Mutex
	clients   map[string]*Client

	// Options falls back to the server's store on a lookup miss (spec
	// §4.7 four-scope chain).
	Options *options.Store
}

// NewSession creates an empty session (no windows linked yet); callers
// typically follow with NewWindow + LinkWindow for the first window.
func (g *Graph) NewSession(name, cwd string, env map[string]string) *Session {
	id := g.sessionIDs.alloc()
	s := &Session{
		ID:       id,
		Name:     name,
		winlinks: map[int]*Winlink{},
		Cwd:      cwd,
		Env:      env,
		Created:  time.Now(),
		clients:  map[string]*Client{},
	}
	s.Options = options.NewStore(options.ScopeSession, options.DefaultSessionTable(), g.Options)

	g.mu.Lock()
	g.sessions[id] = s
	g.mu.Unlock()

	g.notify(Event{Name: HookSessionCreated, Session: s})
	return s
}

// Rename changes the session's name, firing session-renamed.
func (g *Graph) RenameSession(s *Session, name string) {
	s.mu.Lock()
	s.Name = name
	s.mu.Unlock()
	g.notify(Event{Name: HookSessionRenamed, Session: s})
}

// Destroy unlinks every window from s (destroying any whose last link
// this was) and removes s from the graph, firing session-closed.
func (g *Graph) DestroySession(s *Session) {
	for _, wl := range s.Winlinks() {
		g.UnlinkWindow(s, wl.Window)
	}
	g.mu.Lock()
	delete(g.sessions, s.ID)
	g.mu.Unlock()
	g.notify(Event{Name: HookSessionClosed, Session: s})
}

// AttachClient records c as viewing s.
func (s *Session) AttachClient(c *Client) {
	s.clientsMu.Lock()
	s.clients[c.ID] = c
	s.clientsMu.Unlock()
	s.mu.Lock()
	s.Attached = time.Now()
	s.mu.Unlock()
}

// DetachClient removes c from s's client set.
func (s *Session) DetachClient(c *Client) {
	s.clientsMu.Lock()
	delete(s.clients, c.ID)
	s.clientsMu.Unlock()
}

// Clients returns every client currently attached to s.
func (s *Session) Clients() []*Client {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	out := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		out = append(out, c)
	}
	return out
}

// GroupSessions returns every session sharing s's group, including s, or
// just s if it isn't grouped.
func (g *Graph) GroupSessions(s *Session) []*Session {
	if s.Group == "" {
		return []*Session{s}
	}
	var out []*Session
	for _, other := range g.Sessions() {
		if other.Group == s.Group {
			out = append(out, other)
		}
	}
	return out
}
