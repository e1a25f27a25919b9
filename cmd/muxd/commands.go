package main

import (
	"fmt"
	"sort"

	"github.com/vtmux/vtmux/internal/cmdqueue"
	"github.com/vtmux/vtmux/internal/format"
	"github.com/vtmux/vtmux/internal/ipc"
	"github.com/vtmux/vtmux/internal/layout"
	"github.com/vtmux/vtmux/internal/objgraph"
)

// runCommand implements cmdqueue.CommandRunner against a small, hardcoded
// command set: enough to exercise the queue/hook/target plumbing end to
// end (spec §4.11), not the full command language (spec §1 non-goal).
func (s *server) runCommand(cq *cmdqueue.Queue, e *cmdqueue.Entry, argv []string) (cmdqueue.Result, error) {
	if len(argv) == 0 {
		return cmdqueue.Normal, nil
	}
	switch argv[0] {
	case "new-window":
		return s.cmdNewWindow(e, argv[1:])
	case "split-window":
		return s.cmdSplitWindow(e, argv[1:])
	case "kill-pane":
		return s.cmdKillPane(e)
	case "select-pane":
		return s.cmdSelectPane(e, argv[1:])
	case "detach-client":
		return s.cmdDetachClient(e)
	default:
		return cmdqueue.Error, fmt.Errorf("muxd: unknown command %q", argv[0])
	}
}

func targetWindow(e *cmdqueue.Entry) *objgraph.Window {
	if e.Target.Window != nil {
		return e.Target.Window
	}
	if e.Target.Pane != nil {
		return e.Target.Pane.Window
	}
	return nil
}

// cmdNewWindow resolves its target session from e.Target.Session when
// given explicitly, otherwise from the first session the target pane's
// window happens to be linked into: good enough for the common
// single-session-per-socket case cmd/muxd bootstraps (spec §4.6 session
// groups' multi-session case needs an explicit -t, same as tmux).
func (s *server) cmdNewWindow(e *cmdqueue.Entry, args []string) (cmdqueue.Result, error) {
	sess := e.Target.Session
	if sess == nil {
		if w := targetWindow(e); w != nil {
			if sessions := w.Sessions(); len(sessions) > 0 {
				sess = sessions[0]
			}
		}
	}
	if sess == nil {
		return cmdqueue.Error, fmt.Errorf("muxd: new-window: no target session")
	}
	argv := args
	if len(argv) == 0 {
		argv = []string{s.shell}
	}
	w, err := s.graph.NewWindow("", 80, 24, 2000, argv, sess.Cwd, nil)
	if err != nil {
		return cmdqueue.Error, err
	}
	w.Name = fmt.Sprintf("%d", w.ID)
	s.graph.LinkWindow(sess, w, -1)
	return cmdqueue.Normal, nil
}

func (s *server) cmdSplitWindow(e *cmdqueue.Entry, args []string) (cmdqueue.Result, error) {
	pane := e.Target.Pane
	if pane == nil {
		return cmdqueue.Error, fmt.Errorf("muxd: split-window: no target pane")
	}
	dir := layout.TopBottom
	for _, a := range args {
		if a == "-h" {
			dir = layout.LeftRight
		}
	}
	argv := []string{s.shell}
	_, err := s.graph.SplitPane(pane.Window, pane, dir, 0, 80, 24, 2000, argv, pane.Cwd, pane.Env)
	if err != nil {
		return cmdqueue.Error, err
	}
	return cmdqueue.Normal, nil
}

func (s *server) cmdKillPane(e *cmdqueue.Entry) (cmdqueue.Result, error) {
	pane := e.Target.Pane
	if pane == nil {
		return cmdqueue.Error, fmt.Errorf("muxd: kill-pane: no target pane")
	}
	s.graph.ClosePane(pane.Window, pane)
	return cmdqueue.Normal, nil
}

// cmdSelectPane moves the active pane one step through the window's
// panes ordered by id: a stand-in for the real tmux directional pane
// search, which needs the layout tree's geometry rather than just a
// list (out of scope for this illustrative command set).
func (s *server) cmdSelectPane(e *cmdqueue.Entry, args []string) (cmdqueue.Result, error) {
	w := targetWindow(e)
	if w == nil || len(args) == 0 {
		return cmdqueue.Error, fmt.Errorf("muxd: select-pane: no target")
	}
	panes := w.Panes()
	if len(panes) == 0 {
		return cmdqueue.Normal, nil
	}
	sort.Slice(panes, func(i, j int) bool { return panes[i].ID < panes[j].ID })

	cur := w.ActivePane()
	idx := 0
	if cur != nil {
		for i, p := range panes {
			if p.ID == cur.ID {
				idx = i
				break
			}
		}
	}
	switch args[0] {
	case "-U", "-L":
		idx = (idx - 1 + len(panes)) % len(panes)
	case "-D", "-R":
		idx = (idx + 1) % len(panes)
	default:
		return cmdqueue.Error, fmt.Errorf("muxd: select-pane: unknown direction %q", args[0])
	}
	w.SetActivePane(panes[idx].ID)
	return cmdqueue.Normal, nil
}

func (s *server) cmdDetachClient(e *cmdqueue.Entry) (cmdqueue.Result, error) {
	cc := s.clientConnFor(e.Prov.Client)
	if cc == nil {
		return cmdqueue.Normal, nil
	}
	cc.client.Peer.Send(ipc.Message{Type: ipc.MsgDetach})
	return cmdqueue.Stop, nil
}

func (s *server) clientConnFor(id string) *clientConn {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clients[id]
}

// installDefaultBindings seeds the root and prefix key tables with a
// minimal fixed default set (spec §4.12's key-table pointer model), in
// place of the `bind`/config-file parsing the command language would
// normally populate them from (non-goal here).
func (s *server) installDefaultBindings() {
	prefix := s.registry.Prefix()
	prefix.Bind(mustKeyCode("c"), []string{"new-window"}, false)
	prefix.Bind(mustKeyCode("%"), []string{"split-window", "-h"}, false)
	prefix.Bind(mustKeyCode(`"`), []string{"split-window", "-v"}, false)
	prefix.Bind(mustKeyCode("x"), []string{"kill-pane"}, false)
	prefix.Bind(mustKeyCode("d"), []string{"detach-client"}, false)
	prefix.Bind(mustKeyCode("Up"), []string{"select-pane", "-U"}, true)
	prefix.Bind(mustKeyCode("Down"), []string{"select-pane", "-D"}, true)
	prefix.Bind(mustKeyCode("Left"), []string{"select-pane", "-L"}, true)
	prefix.Bind(mustKeyCode("Right"), []string{"select-pane", "-R"}, true)
}

func mustKeyCode(s string) format.KeyCode {
	k, err := format.ParseKey(s)
	if err != nil {
		panic(fmt.Sprintf("muxd: bad default binding key %q: %v", s, err))
	}
	return k
}
