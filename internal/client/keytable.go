package client

import "github.com/vtmux/vtmux/internal/format"

// Binding is one key-table entry: the command-entry argv it fires (spec
// §1 "the abstract 'command entry' contract", the command language
// parser itself is a non-goal) and whether it accepts bind -r repeating
// without the prefix key being pressed again (spec §4.12 "repeat timer
// (for bind -r repeat-accepting keys)").
type Binding struct {
	Argv   []string
	Repeat bool
}

// KeyTable is a named set of key bindings (spec §3 "an independent
// key-table pointer (for multi-keystroke bindings)").
type KeyTable struct {
	Name     string
	bindings map[format.KeyCode]*Binding
}

// NewKeyTable creates an empty table.
func NewKeyTable(name string) *KeyTable {
	return &KeyTable{Name: name, bindings: make(map[format.KeyCode]*Binding)}
}

// Bind sets or replaces the binding for k.
func (t *KeyTable) Bind(k format.KeyCode, argv []string, repeat bool) {
	t.bindings[k] = &Binding{Argv: argv, Repeat: repeat}
}

// Unbind removes the binding for k, if any.
func (t *KeyTable) Unbind(k format.KeyCode) {
	delete(t.bindings, k)
}

// Lookup finds the binding for k, if any.
func (t *KeyTable) Lookup(k format.KeyCode) (*Binding, bool) {
	b, ok := t.bindings[k]
	return b, ok
}

// Registry holds the server-wide named key tables. Tables are shared
// state; each Client tracks only which table it is currently reading
// from (its key-table pointer), switched to "prefix" on the prefix key
// and back to "root" after one key is resolved from it.
type Registry struct {
	tables map[string]*KeyTable
}

// NewRegistry creates a registry seeded with the two tables every client
// starts against: "root" (unprefixed bindings) and "prefix" (bindings
// reached only after the prefix key).
func NewRegistry() *Registry {
	r := &Registry{tables: make(map[string]*KeyTable)}
	r.tables["root"] = NewKeyTable("root")
	r.tables["prefix"] = NewKeyTable("prefix")
	return r
}

// Table returns the named table, creating it empty if it doesn't exist
// yet (user key tables named in a `bind -T` equivalent outside this
// module's scope still need somewhere to live).
func (r *Registry) Table(name string) *KeyTable {
	t, ok := r.tables[name]
	if !ok {
		t = NewKeyTable(name)
		r.tables[name] = t
	}
	return t
}

// Root returns the always-present unprefixed table.
func (r *Registry) Root() *KeyTable { return r.Table("root") }

// Prefix returns the always-present prefix table.
func (r *Registry) Prefix() *KeyTable { return r.Table("prefix") }
