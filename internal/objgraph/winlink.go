package objgraph

// Winlink is one session's slot referencing a window at a given index
// (spec §3 "winlink": "a window may be linked into more than one session,
// each linking session seeing it at its own index").
type Winlink struct {
	Session *Session
	Window  *Window
	Index   int
}

// LinkWindow attaches w to s at index idx (must be free), firing
// window-linked. If idx < 0, the lowest free index is used (spec §4.6
// "linking a window chooses the lowest unused index unless one is
// given").
func (g *Graph) LinkWindow(s *Session, w *Window, idx int) *Winlink {
	s.mu.Lock()
	if idx < 0 {
		idx = 0
		for {
			if _, used := s.winlinks[idx]; !used {
				break
			}
			idx++
		}
	}
	wl := &Winlink{Session: s, Window: w, Index: idx}
	s.winlinks[idx] = wl
	if s.current == nil {
		s.current = wl
	}
	s.mu.Unlock()

	w.mu.Lock()
	w.winlinks[s.ID] = wl
	w.mu.Unlock()

	g.notify(Event{Name: HookWindowLinked, Session: s, Window: w})
	return wl
}

// UnlinkWindow detaches w from s. If this was the window's last session
// link, the window is fully destroyed (its panes killed) and
// window-unlinked fires before that teardown; reports whether the
// session is now empty (spec §4.6 "unlinking a window from its last
// session destroys it").
func (g *Graph) UnlinkWindow(s *Session, w *Window) (sessionEmpty bool) {
	s.mu.Lock()
	var idx int = -1
	for i, wl := range s.winlinks {
		if wl.Window == w {
			idx = i
			break
		}
	}
	if idx < 0 {
		sessionEmpty = len(s.winlinks) == 0
		s.mu.Unlock()
		return sessionEmpty
	}
	delete(s.winlinks, idx)
	wasCurrent := s.current != nil && s.current.Window == w
	if wasCurrent {
		s.current = s.pickAnyLocked()
	}
	empty := len(s.winlinks) == 0
	s.mu.Unlock()

	w.mu.Lock()
	delete(w.winlinks, s.ID)
	lastLink := len(w.winlinks) == 0
	w.mu.Unlock()

	g.notify(Event{Name: HookWindowUnlinked, Session: s, Window: w})

	if lastLink {
		for _, p := range w.Panes() {
			_ = p.Kill()
			g.mu.Lock()
			delete(g.panes, p.ID)
			g.mu.Unlock()
		}
		g.mu.Lock()
		delete(g.windows, w.ID)
		g.mu.Unlock()
	}
	return empty
}

// pickAnyLocked returns an arbitrary remaining winlink, or nil. Caller
// must hold s.mu.
func (s *Session) pickAnyLocked() *Winlink {
	for _, wl := range s.winlinks {
		return wl
	}
	return nil
}

// Winlinks returns every winlink in s, unordered.
func (s *Session) Winlinks() []*Winlink {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Winlink, 0, len(s.winlinks))
	for _, wl := range s.winlinks {
		out = append(out, wl)
	}
	return out
}

// WinlinkAt returns the winlink at idx, or nil.
func (s *Session) WinlinkAt(idx int) *Winlink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.winlinks[idx]
}

// Current returns the session's currently selected winlink.
func (s *Session) Current() *Winlink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SelectWindow changes s's current winlink to idx, pushing the previous
// one onto the last-window stack (spec §4.6 "last-window toggling",
// mirroring Window.SetActivePane).
func (s *Session) SelectWindow(idx int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	wl, ok := s.winlinks[idx]
	if !ok {
		return false
	}
	if s.current != nil && s.current != wl {
		s.lastWindows = append([]int{s.current.Index}, s.lastWindows...)
		if len(s.lastWindows) > 8 {
			s.lastWindows = s.lastWindows[:8]
		}
	}
	s.current = wl
	return true
}

// LastWindow returns the winlink most recently selected before the
// current one, or nil.
func (s *Session) LastWindow() *Winlink {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, idx := range s.lastWindows {
		if wl, ok := s.winlinks[idx]; ok {
			return wl
		}
	}
	return nil
}
