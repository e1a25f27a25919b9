package client

// RedrawFlag is the "redraw needed" bitmask a client accumulates between
// loop iterations (spec §4.12 "Redraw scheduling uses a set of 'redraw
// needed' flags on the client (status, borders, panes, overlay,
// everything)"). Any event may set a flag at any time; the bottom of
// each loop iteration is the only place flags are read and cleared, so
// several events coalesce into one draw.
type RedrawFlag uint32

const (
	RedrawStatus RedrawFlag = 1 << iota
	RedrawBorders
	RedrawPanes
	RedrawOverlay
	// RedrawEverything implies all of the above; it is its own bit
	// (rather than the OR of the rest) and the flush treats it as a
	// request to redraw every part, whatever other bits are set.
	RedrawEverything
)

// NeedRedraw ORs f into the client's pending flags. Safe to call from any
// goroutine that can observe a reason to redraw (a pane's writer, a
// resize, a timer firing) — the flags themselves are the only state
// shared outside the dispatch loop's own goroutine.
func (c *Client) NeedRedraw(f RedrawFlag) {
	c.redrawMu.Lock()
	c.redraw |= f
	c.redrawMu.Unlock()
}

// takeRedraw atomically reads and clears the pending flags.
func (c *Client) takeRedraw() RedrawFlag {
	c.redrawMu.Lock()
	f := c.redraw
	c.redraw = 0
	c.redrawMu.Unlock()
	return f
}
