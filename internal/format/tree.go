// Package format implements the `#{...}` template expander that reads from
// the object graph, and the key-string grammar shared with internal/options
// (spec §4.8, §6). Grounded on the teacher's small-interface-with-dispatch-
// table idiom (handler.go's one-function-per-operation shape), generalized
// from per-escape-code dispatch to per-modifier-letter dispatch.
package format

import (
	"time"

	"github.com/vtmux/vtmux/internal/objgraph"
	"github.com/vtmux/vtmux/internal/options"
)

// Tree is the resolution context for one expansion: which client/session/
// window/pane is "current", a bag of dynamic entries a caller has already
// computed (e.g. loop variables), and the environment to fall back to
// (spec §4.8 "Keys resolve in this order: options ... format table ...
// the format tree's dynamic entries, and finally the session or global
// environment").
type Tree struct {
	Graph *objgraph.Graph

	Client  *objgraph.Client
	Session *objgraph.Session
	Window  *objgraph.Window
	Pane    *objgraph.Pane

	Now time.Time

	Entries map[string]string
	Env     map[string]string
}

// child returns a shallow copy of t with a new Entries map, used when a
// loop modifier binds per-iteration entries without mutating the caller's
// tree.
func (t *Tree) child() *Tree {
	c := *t
	c.Entries = map[string]string{}
	for k, v := range t.Entries {
		c.Entries[k] = v
	}
	return &c
}

func (t *Tree) withSession(s *objgraph.Session) *Tree {
	c := t.child()
	c.Session, c.Window, c.Pane = s, nil, nil
	return c
}

func (t *Tree) withWindow(w *objgraph.Window) *Tree {
	c := t.child()
	c.Window, c.Pane = w, nil
	return c
}

func (t *Tree) withPane(p *objgraph.Pane) *Tree {
	c := t.child()
	c.Pane = p
	if p != nil {
		c.Window = p.Window
	}
	return c
}

func (t *Tree) withClient(cl *objgraph.Client) *Tree {
	c := t.child()
	c.Client = cl
	return c
}

// resolveKey implements spec §4.8's lookup order. It returns the empty
// string for an unresolved key, never an error — "#{something_unknown}"
// never fails (spec §4.8).
func (t *Tree) resolveKey(name string) string {
	if v, ok := t.resolveOption(name); ok {
		return v
	}
	if fn, ok := formatTable[name]; ok {
		return fn(t)
	}
	if v, ok := t.Entries[name]; ok {
		return v
	}
	if t.Env != nil {
		if v, ok := t.Env[name]; ok {
			return v
		}
	}
	return ""
}

func (t *Tree) resolveOption(name string) (string, bool) {
	for _, store := range t.optionStores() {
		if store == nil {
			continue
		}
		v, ok := store.Get(name)
		if !ok {
			continue
		}
		typ, hasType := store.EntryType(name)
		return renderOptionValue(typ, hasType, v), true
	}
	return "", false
}

// optionStores lists the stores to search, most specific first; Store.Get
// already walks each one's own parent chain, but a pane-less tree still
// needs to fall through to window/session/server explicitly.
func (t *Tree) optionStores() []*options.Store {
	var out []*options.Store
	if t.Pane != nil {
		out = append(out, t.Pane.Options)
	}
	if t.Window != nil {
		out = append(out, t.Window.Options)
	}
	if t.Session != nil {
		out = append(out, t.Session.Options)
	}
	if t.Graph != nil {
		out = append(out, t.Graph.Options)
	}
	return out
}
