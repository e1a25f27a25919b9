package cmdqueue

import (
	"fmt"

	"github.com/vtmux/vtmux/internal/objgraph"
	"github.com/vtmux/vtmux/internal/options"
)

// CommandRunner executes one parsed command (a single ';'-separated
// segment of a options.CommandList) against a target, returning this
// entry's Result. internal/client (or a config loader) supplies the real
// implementation once command parsing/dispatch exists; cmdqueue only
// knows how to sequence and hook-insert commands, not what they do.
type CommandRunner func(cq *Queue, e *Entry, argv []string) (Result, error)

// HookSink looks up the per-object options store a hook option might be
// set on (session/window/pane all carry their own options.Store, spec
// §4.7's hierarchy), so InsertHook can find "session-created" etc.
// wherever it was configured.
type HookSink interface {
	OptionsFor(objgraph.Event) *options.Store
}

// Hooks bridges object-graph notifications into hook-command insertion
// (spec §4.11 "Hooks: cmdq_insert_hook(session, item, fs, 'hook-name')
// inserts, after the current item, a command-list built from the named
// option, with CMDQ_STATE_NOHOOKS set"). It implements objgraph.Notifier.
type Hooks struct {
	Sink   HookSink
	Run    CommandRunner
	Global *Queue

	// ClientQueue resolves which queue a given event's client-facing
	// consequences run on; most hooks have no client and use Global.
	// cmd/muxd sets it to route an event with a client to that client's
	// own queue.
	ClientQueue func(objgraph.Event) *Queue
}

// Notify implements objgraph.Notifier: it is called synchronously by the
// object graph on every transition it fires (spec.md §4.6 "hook points").
func (h *Hooks) Notify(ev objgraph.Event) {
	if h.Sink == nil {
		return
	}
	store := h.Sink.OptionsFor(ev)
	if store == nil {
		return
	}
	h.insertNamed(ev, store, ev.Name)
	h.insertUserHooks(ev, store)
}

// insertNamed handles the fixed hook names from options.HookNames, whose
// Store.Get value already carries a parsed Cmdlist (store.go parses any
// HookNames entry as a command list at Set time).
func (h *Hooks) insertNamed(ev objgraph.Event, store *options.Store, name string) {
	if !options.HookNames[name] {
		return
	}
	v, ok := store.Get(name)
	if !ok || v.Cmdlist.Raw == "" {
		return
	}
	h.insertCommandList(ev, name, v.Cmdlist)
}

// insertUserHooks handles "@"-prefixed user hooks, whose value is a
// single string parsed as one command at fire time (spec §4.11 "Prefix @
// gives 'user' hooks whose value is a single string parsed as a command at
// fire time").
func (h *Hooks) insertUserHooks(ev objgraph.Event, store *options.Store) {
	for _, name := range store.Names() {
		if !options.IsUserOption(name) {
			continue
		}
		v, ok := store.Get(name)
		if !ok || v.Str == "" {
			continue
		}
		cl, err := options.ParseCommandList(v.Str)
		if err != nil {
			continue
		}
		h.insertCommandList(ev, name, cl)
	}
}

func (h *Hooks) insertCommandList(ev objgraph.Event, hookName string, cl options.CommandList) {
	q := h.Global
	if h.ClientQueue != nil {
		if cq := h.ClientQueue(ev); cq != nil {
			q = cq
		}
	}
	if q == nil {
		return
	}

	entries := make([]*Entry, 0, len(cl.Commands))
	for _, argv := range cl.Commands {
		argv := argv
		entries = append(entries, &Entry{
			Target: Target{Session: ev.Session, Window: ev.Window, Pane: ev.Pane},
			State:  State{NoHooks: true},
			Prov:   Provenance{File: fmt.Sprintf("hook:%s", hookName)},
			Task: func(cq *Queue, e *Entry) (Result, error) {
				if h.Run == nil {
					return Normal, nil
				}
				return h.Run(cq, e, argv)
			},
		})
	}
	if len(entries) == 0 {
		return
	}
	q.InsertAfter(entries...)
}
