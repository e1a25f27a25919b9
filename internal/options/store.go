package options

import (
	"fmt"
	"sync"
)

// Store holds one scope's option values, inheriting from Parent on a
// lookup miss (spec §4.7 "four scope tables, each inheriting from the
// next outer scope on lookup miss").
type Store struct {
	scope  Scope
	table  Table
	parent *Store

	mu     sync.RWMutex
	values map[string]Value
}

// NewStore creates a Store for scope validated against table, inheriting
// unset lookups from parent (nil for the server scope, which has none).
func NewStore(scope Scope, table Table, parent *Store) *Store {
	return &Store{scope: scope, table: table, parent: parent, values: map[string]Value{}}
}

func (s *Store) Scope() Scope { return s.scope }

// Reparent changes which store this one falls back to on a lookup miss.
// Used by internal/objgraph to attach a pane's/window's store to its
// owning window's/session's store once that owner is known, since a pane
// is allocated before the window that will hold it.
func (s *Store) Reparent(parent *Store) {
	s.mu.Lock()
	s.parent = parent
	s.mu.Unlock()
}

// EntryType returns name's schema Type, searching the inheritance chain's
// tables, or false if name has no schema entry (a user option or a hook
// category, both of which validate differently — see Set).
func (s *Store) EntryType(name string) (Type, bool) {
	e := s.entry(name)
	if e == nil {
		return 0, false
	}
	return e.Type, true
}

// entry resolves name's schema Entry by searching this store's table and
// then each parent's, since a lower scope may not redeclare every
// inherited entry's schema.
func (s *Store) entry(name string) *Entry {
	for st := s; st != nil; st = st.parentLocked() {
		if e, ok := st.table[name]; ok {
			return e
		}
	}
	return nil
}

func (s *Store) parentLocked() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.parent
}

// Get returns name's value and whether it was found anywhere in the
// inheritance chain, searching this store first (spec §4.7 "inheriting
// from the next outer scope on lookup miss").
func (s *Store) Get(name string) (Value, bool) {
	for st := s; st != nil; st = st.parentLocked() {
		st.mu.RLock()
		v, ok := st.values[name]
		st.mu.RUnlock()
		if ok {
			return v, true
		}
	}
	return Value{}, false
}

// GetIndex returns the value at array index idx of an array-valued
// option (spec §4.7 "array options are keyed (name, index)").
func (s *Store) GetIndex(name string, idx int) (Value, bool) {
	v, ok := s.Get(name)
	if !ok || v.Array == nil {
		return Value{}, false
	}
	item, ok := v.Array[idx]
	return item, ok
}

// SetIndex sets a single index of an array-valued option, leaving other
// indices untouched; setting a sparse index is legal (spec §4.7).
func (s *Store) SetIndex(name string, idx int, raw string) error {
	e := s.entry(name)
	if e == nil || !e.Array {
		return fmt.Errorf("options: %q is not an array option", name)
	}
	item, err := s.parseValue(e, raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.values[name]
	if cur.Array == nil {
		cur.Array = map[int]Value{}
	}
	cur.Array[idx] = item
	s.values[name] = cur
	return nil
}

// Set parses raw against name's schema entry (or treats it as an
// unvalidated user/hook string if name has none) and stores it locally
// in this scope, shadowing any inherited value (spec §4.7 "setting a
// value validates").
func (s *Store) Set(name, raw string) error {
	if IsUserOption(name) {
		s.mu.Lock()
		s.values[name] = Value{Str: raw}
		s.mu.Unlock()
		return nil
	}
	if HookNames[name] {
		cl, err := ParseCommandList(raw)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.values[name] = Value{Cmdlist: cl}
		s.mu.Unlock()
		return nil
	}

	e := s.entry(name)
	if e == nil {
		return fmt.Errorf("options: unknown option %q", name)
	}
	v, err := s.parseValue(e, raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[name] = v
	s.mu.Unlock()
	return nil
}

func (s *Store) parseValue(e *Entry, raw string) (Value, error) {
	switch e.Type {
	case TypeNumber:
		n, err := parseNumber(raw, e.Min, e.Max)
		return Value{Num: n}, err
	case TypeFlag:
		f, err := parseFlag(raw)
		return Value{Flag: f}, err
	case TypeString:
		return Value{Str: raw}, nil
	case TypeColour:
		c, err := ParseColour(raw)
		return Value{Colour: c}, err
	case TypeStyle:
		st, err := ParseStyle(raw)
		return Value{Style: st}, err
	case TypeChoice:
		for _, choice := range e.Choices {
			if choice == raw {
				return Value{Str: raw}, nil
			}
		}
		return Value{}, fmt.Errorf("options: %q is not one of %v", raw, e.Choices)
	case TypeKey:
		if err := ParseKeyString(raw); err != nil {
			return Value{}, err
		}
		return Value{Str: raw}, nil
	case TypeCommand:
		cl, err := ParseCommandList(raw)
		return Value{Cmdlist: cl}, err
	default:
		return Value{}, fmt.Errorf("options: unhandled option type for %q", e.Name)
	}
}

// Unset removes name from this scope only, exposing any inherited value
// again (spec §4.7 inheritance).
func (s *Store) Unset(name string) {
	s.mu.Lock()
	delete(s.values, name)
	s.mu.Unlock()
}

// Names returns every option name set directly at this scope (not
// inherited ones).
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.values))
	for name := range s.values {
		out = append(out, name)
	}
	return out
}
