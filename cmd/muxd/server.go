package main

import (
	"fmt"
	"sync"

	"github.com/vtmux/vtmux/internal/cmdqueue"
	"github.com/vtmux/vtmux/internal/client"
	"github.com/vtmux/vtmux/internal/format"
	"github.com/vtmux/vtmux/internal/ipc"
	"github.com/vtmux/vtmux/internal/objgraph"
	"github.com/vtmux/vtmux/internal/options"
	"github.com/vtmux/vtmux/internal/tty"
)

// server holds the single object graph every attached client shares (spec
// §4.6 "the server owns one object graph") plus the bookkeeping
// cmd/muxd needs that doesn't belong in internal/objgraph itself: the
// socket name sessions are addressed under, the default shell for newly
// created windows, and each live client's own command queue.
type server struct {
	socketName string
	shell      string

	graph       *objgraph.Graph
	globalQueue *cmdqueue.Queue
	registry    *client.Registry

	mu      sync.Mutex
	clients map[string]*clientConn
}

type clientConn struct {
	client *client.Client
	queue  *cmdqueue.Queue
}

func newServer(socketName, shell string) *server {
	return &server{
		socketName: socketName,
		shell:      shell,
		clients:    map[string]*clientConn{},
	}
}

// OptionsFor implements cmdqueue.HookSink, walking the same
// pane->window->session->graph chain internal/format's Tree uses for
// #{...} resolution (spec §4.7's four-scope chain).
func (s *server) OptionsFor(ev objgraph.Event) *options.Store {
	switch {
	case ev.Pane != nil:
		return ev.Pane.Options
	case ev.Window != nil:
		return ev.Window.Options
	case ev.Session != nil:
		return ev.Session.Options
	default:
		return s.graph.Options
	}
}

// queueForClient resolves the per-client queue a hook fired on behalf of
// a given client should run on, falling back to the global queue for
// hooks with no attached client (spec §4.11 "One queue per client plus a
// global queue").
func (s *server) queueForClient(ogClient *objgraph.Client) *cmdqueue.Queue {
	if ogClient == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cc, ok := s.clients[ogClient.ID]; ok {
		return cc.queue
	}
	return nil
}

// handleConn drives one accepted connection through the identify
// handshake and then into the steady-state per-client dispatch loop
// (spec §4.12). It runs for the lifetime of the connection.
func (s *server) handleConn(peer *ipc.Peer) {
	hs := newHandshake()
	peer.Dispatch = hs.handle
	peer.OnClose = func(error) { hs.cancel() }
	peer.Start()
	peer.Handshake(0, 0)

	id, err := hs.await()
	if err != nil {
		peer.Close()
		return
	}

	sess, err := s.sessionFor(s.socketName, id)
	if err != nil {
		peer.Send(ipc.Message{Type: ipc.MsgError, Payload: []byte(err.Error())})
		peer.Close()
		return
	}

	// TTYName is left empty: the attaching process's tty device lives on
	// the far side of the socket and this handshake has no message
	// carrying its path (muxd never opens the client's tty directly).
	ogClient := s.graph.NewClient("", id.width, id.height)
	if id.readOnly {
		ogClient.SetFlag(objgraph.ClientReadOnly)
	}
	s.graph.AttachSession(ogClient, sess)

	features := tty.ParseFeatures(id.features)
	term := tty.New(peerWriter{peer}, id.term, features, id.colorLevel)

	prefixKey := format.KeyCode(0)
	if v, ok := sess.Options.Get("prefix"); ok && v.Str != "" {
		if k, err := format.ParseKey(v.Str); err == nil {
			prefixKey = k
		}
	}

	queue := cmdqueue.New()
	queue.OnError = func(e *cmdqueue.Entry, err error) {
		peer.Send(ipc.Message{Type: ipc.MsgError, Payload: []byte(err.Error())})
	}

	// client.New reassigns peer.Dispatch from hs.handle to the client's
	// own enqueueMessage once the identify handshake is done. The peer's
	// reader goroutine is already running at this point, but hs.await
	// has already observed MsgIdentifyDone and returns before any further
	// frame arrives, so there is no frame left for the old handler to
	// race against in practice.
	c := client.New(s.graph, ogClient, peer, term, s.registry, prefixKey, queue)
	c.Run = s.runCommand

	s.mu.Lock()
	s.clients[ogClient.ID] = &clientConn{client: c, queue: queue}
	s.mu.Unlock()

	peer.OnClose = func(error) {
		s.mu.Lock()
		delete(s.clients, ogClient.ID)
		s.mu.Unlock()
		c.Close()
	}

	c.Loop()
}

// sessionFor attaches to the named socket's lone session, or creates one
// running id's requested command (falling back to the server's default
// shell) if none exists yet. Multiple named sessions per socket (spec.md
// §4.6 session groups, session switching) are a real part of the data
// model; cmd/muxd's bootstrap keeps to the single-session-per-socket case
// since session *selection* is command-language territory (non-goal).
func (s *server) sessionFor(socketName string, id identity) (*objgraph.Session, error) {
	if sessions := s.graph.Sessions(); len(sessions) > 0 {
		return sessions[0], nil
	}

	argv := id.command
	if len(argv) == 0 {
		argv = []string{s.shell}
	}
	sess := s.graph.NewSession(socketName, id.cwd, envToMap(id.env))
	w, err := s.graph.NewWindow("0", id.width, id.height-1, 2000, argv, id.cwd, id.env)
	if err != nil {
		return nil, fmt.Errorf("spawn initial window: %w", err)
	}
	s.graph.LinkWindow(sess, w, 0)
	return sess, nil
}

func envToMap(env []string) map[string]string {
	m := make(map[string]string, len(env))
	for _, kv := range env {
		for i := 0; i < len(kv); i++ {
			if kv[i] == '=' {
				m[kv[:i]] = kv[i+1:]
				break
			}
		}
	}
	return m
}
