package client

import (
	"bytes"
	"encoding/binary"
	"strings"
	"time"

	"github.com/vtmux/vtmux/internal/cmdqueue"
	"github.com/vtmux/vtmux/internal/format"
	"github.com/vtmux/vtmux/internal/grid"
	"github.com/vtmux/vtmux/internal/ipc"
	"github.com/vtmux/vtmux/internal/layout"
	"github.com/vtmux/vtmux/internal/objgraph"
	"github.com/vtmux/vtmux/internal/writer"
)

// clickWindow is the default mouse click disambiguation window (spec
// §5 "Mouse click disambiguation: 300 ms default").
const clickWindow = 300 * time.Millisecond

// statusInterval is the default status-line refresh period (spec §5
// "Status interval: user option, default 15 s"); a real server
// substitutes the session's "status-interval" option once attached.
const statusInterval = 15 * time.Second

// Loop runs the per-client event multiplexer until the client is closed
// (spec §4.12). It owns every mutation this client causes to the shared
// object graph, queue, and terminal — the only goroutine that does, per
// spec §5's single-threaded-cooperative model; everything else (the IPC
// peer's reader, a pane's output callback) only ever sets a flag or
// posts to msgCh.
func (c *Client) Loop() {
	c.repeatTimer = time.NewTimer(time.Hour)
	c.repeatTimer.Stop()
	c.clickTimer = time.NewTimer(time.Hour)
	c.clickTimer.Stop()
	statusTicker := time.NewTicker(statusInterval)
	defer statusTicker.Stop()
	messageTicker := time.NewTicker(time.Second)
	defer messageTicker.Stop()
	overlayTicker := time.NewTicker(time.Second)
	defer overlayTicker.Stop()

	c.NeedRedraw(RedrawEverything)
	c.flushRedraw()

	for {
		select {
		case <-c.done:
			return
		case m := <-c.msgCh:
			c.handleMessage(m)
		case <-c.repeatTimer.C:
			// A bind -r key's repeat window elapsed with no further
			// press: fall back to the root table (spec §4.12 "repeat
			// timer (for bind -r repeat-accepting keys)").
			c.ResetTable()
		case <-c.clickTimer.C:
			// No further press arrived inside the disambiguation
			// window: whatever click count was accumulating is final
			// (spec §4.12 "click timer (for single/double/triple-click
			// disambiguation)").
			c.clicks = 0
		case <-statusTicker.C:
			c.NeedRedraw(RedrawStatus)
		case <-messageTicker.C:
			if _, ok := c.StatusMessage(); !ok {
				c.NeedRedraw(RedrawStatus)
			}
		case <-overlayTicker.C:
			if _, ok := c.overlayActive(); !ok {
				c.NeedRedraw(RedrawOverlay)
			}
		}
		c.flushRedraw()
	}
}

func (c *Client) handleMessage(m ipc.Message) {
	switch m.Type {
	case ipc.MsgStdin:
		for _, code := range decodeKeys(m.Payload) {
			c.resolveKey(code)
		}
	case ipc.MsgResize:
		if w, h, ok := decodeResize(m.Payload); ok {
			c.OG.Resize(w, h)
			c.Term.Resize(w, h, 0, 0)
			if p := c.activePane(); p != nil {
				p.Resize(w, h-1, true) // last row reserved for the status/input bar
			}
			c.NeedRedraw(RedrawEverything)
		}
	case ipc.MsgExiting:
		c.Close()
	default:
		// Identify-phase and file-transfer messages are handled by the
		// attach handshake / transfer table, not the steady-state loop.
	}
}

// resolveKey runs one decoded key through the client's current key
// table (spec §3 "key resolution against key tables"), enqueuing a
// command on a hit, forwarding the raw key to the active pane on a miss
// against the root table, or canceling a pending prefix on a miss
// against any other table.
func (c *Client) resolveKey(code format.KeyCode) {
	code = c.disambiguateClick(code)

	root := c.registry.Root()
	if c.table == root && c.prefixKey != 0 && code == c.prefixKey {
		c.table = c.registry.Prefix()
		return
	}

	inPrefix := c.table != root
	b, ok := c.table.Lookup(code)
	if !ok {
		if inPrefix {
			c.ResetTable()
			return
		}
		c.forwardRaw(code)
		return
	}

	if inPrefix {
		if b.Repeat {
			c.repeatTimer.Reset(500 * time.Millisecond)
		} else {
			c.ResetTable()
		}
	}
	c.enqueueCommand(b.Argv)
}

// disambiguateClick counts consecutive MouseDown events arriving inside
// clickWindow and upgrades the code to the matching DoubleClick/
// TripleClick variant spec.md §6's mouse key table carries, the same
// way a named key table entry for a double-click binds separately from
// a single click (spec §4.12 "click timer (for single/double/triple-
// click disambiguation)"). Non-click codes pass through unchanged.
func (c *Client) disambiguateClick(code format.KeyCode) format.KeyCode {
	name := code.String()
	if !strings.HasPrefix(name, "MouseDown") {
		return code
	}
	c.clicks++
	c.clickTimer.Reset(clickWindow)

	var upgraded string
	switch {
	case c.clicks >= 3:
		upgraded = strings.Replace(name, "MouseDown", "MouseTripleClick", 1)
		c.clicks = 0
	case c.clicks == 2:
		upgraded = strings.Replace(name, "MouseDown", "MouseDoubleClick", 1)
	default:
		return code
	}
	if k, err := format.ParseKey(upgraded); err == nil {
		return k
	}
	return code
}

// enqueueCommand appends a queue entry that hands argv to c.Run, the
// abstract command-entry contract spec §1 leaves unspecified.
func (c *Client) enqueueCommand(argv []string) {
	if c.Queue == nil || c.Run == nil || len(argv) == 0 {
		return
	}
	argv := append([]string(nil), argv...)
	run := c.Run
	c.Queue.Append(&cmdqueue.Entry{
		Target: cmdqueue.Target{Pane: c.activePaneForQueue()},
		Prov:   cmdqueue.Provenance{Client: c.OG.ID},
		Task: func(cq *cmdqueue.Queue, e *cmdqueue.Entry) (cmdqueue.Result, error) {
			return run(cq, e, argv)
		},
	})
	c.Queue.Next()
}

// activePaneForQueue resolves the pane a just-enqueued command should
// target by default, mirroring spec §4.11's "implicit current pane"
// target resolution for commands with no explicit -t.
func (c *Client) activePaneForQueue() *objgraph.Pane { return c.activePane() }

// forwardRaw writes a key with no binding straight to the active pane's
// pty, re-encoding simple runes and Ctrl-letter codes back to bytes;
// named keys with no raw encoding (Up/Down/F-keys when unbound, which
// is unusual but legal) are dropped rather than guessing a terminal's
// specific escape sequence, since that decoding is this package's
// "terminal feature set" dependency on the far side, not the server's.
func (c *Client) forwardRaw(code format.KeyCode) {
	p := c.activePane()
	if p == nil {
		return
	}
	mod := format.KeyMod(code) & (format.ModCtrl | format.ModMeta | format.ModShift)
	base := code &^ format.KeyCode(mod)
	var buf bytes.Buffer
	if mod&format.ModMeta != 0 {
		buf.WriteByte(0x1b)
	}
	switch {
	case mod&format.ModCtrl != 0 && base < 0x80:
		buf.WriteByte(byte(base) & 0x1f)
	case base < 0x110000:
		buf.WriteRune(rune(base))
	default:
		return
	}
	p.WriteResponse(buf.Bytes())
}

func decodeResize(payload []byte) (w, h int, ok bool) {
	if len(payload) < 8 {
		return 0, 0, false
	}
	return int(binary.BigEndian.Uint32(payload[0:4])), int(binary.BigEndian.Uint32(payload[4:8])), true
}

// flushRedraw services every pending redraw flag by re-reading the
// current Screen/Grid state and writing it through the terminal writer
// (spec §5 "Redraws observe a 'coalesced' snapshot: a draw for client C
// reads the Screen/Grid as of the moment the redraw runs").
func (c *Client) flushRedraw() {
	f := c.takeRedraw()
	if f == 0 {
		return
	}
	full := f&RedrawEverything != 0

	if full || f&RedrawPanes != 0 {
		c.redrawPanes()
	}
	if full || f&RedrawBorders != 0 {
		c.redrawBorders()
	}
	if full || f&RedrawStatus != 0 {
		c.redrawStatus()
	}
	if full || f&RedrawOverlay != 0 {
		c.redrawOverlay()
	}
}

// redrawBorders draws the one-cell divider lines the layout tree reserves
// between sibling panes (spec §4.5 "separated by one-column/one-row
// borders"), walking every internal split node rather than just the
// active pane's neighbors since a leftright split's divider spans the
// full height of its children and a topbottom split's spans their full
// width. Pane titles / pane-border-status text are a further layer this
// package doesn't add: spec.md's command language (which owns the
// pane-border-status option) is out of scope here, so borders are drawn
// as plain lines.
func (c *Client) redrawBorders() {
	sess := c.OG.Session()
	if sess == nil {
		return
	}
	wl := sess.Current()
	if wl == nil || wl.Window == nil {
		return
	}
	c.drawBorderCell(wl.Window.LayoutRoot())
}

func (c *Client) drawBorderCell(cell *layout.Cell) {
	if cell == nil || cell.IsLeaf() {
		return
	}
	for i, ch := range cell.Children {
		if i > 0 {
			switch cell.Type {
			case layout.LeftRight:
				col := ch.XOff - 1
				cells := make([]grid.Cell, ch.SY)
				for y := range cells {
					cells[y].SetRune('│', 1)
				}
				for y := 0; y < ch.SY; y++ {
					c.Term.Apply(writer.TTYContext{Kind: writer.DrawCells, Row: ch.YOff + y, Col: col, Cells: cells[y : y+1]}, 0, 0)
				}
			case layout.TopBottom:
				row := ch.YOff - 1
				cells := make([]grid.Cell, ch.SX)
				for x := range cells {
					cells[x].SetRune('─', 1)
				}
				c.Term.Apply(writer.TTYContext{Kind: writer.DrawCells, Row: row, Col: ch.XOff, Cells: cells}, 0, 0)
			}
		}
		c.drawBorderCell(ch)
	}
}

// redrawPanes re-emits the active pane's entire visible grid as one
// DrawCells context per row. A production redraw would walk every
// layout leaf and diff against what was last sent per spec §4.3's
// batching guarantees; this package owns scheduling the redraw, not
// reimplementing the screen-writer's own dedup, so it always re-sends
// the active pane's current rows and lets internal/tty's SGR/cell
// diffing (spec §4.9) absorb the redundancy against what the real
// terminal already displays.
func (c *Client) redrawPanes() {
	p := c.activePane()
	if p == nil {
		return
	}
	g := p.Screen.Grid()
	rows := g.Rows()
	cols := g.Cols()
	for y := 0; y < rows; y++ {
		cells := make([]grid.Cell, cols)
		for x := 0; x < cols; x++ {
			cells[x] = g.Cell(x, y)
		}
		c.Term.Apply(writer.TTYContext{Kind: writer.DrawCells, Row: y, Col: 0, Cells: cells}, 0, 0)
	}
	cx, cy := p.Screen.Cursor()
	c.Term.Apply(writer.TTYContext{Kind: writer.DrawCursorMove, CursorRow: cy, CursorCol: cx}, 0, 0)
}

func (c *Client) redrawStatus() {
	row := c.statusRow()
	cols := c.statusCols()
	if cols <= 0 {
		return
	}
	runes := []rune(c.statusText())
	cells := make([]grid.Cell, cols)
	for x := range cells {
		if x < len(runes) {
			cells[x].SetRune(runes[x], 1)
		} else {
			cells[x].SetRune(' ', 1)
		}
	}
	c.Term.Apply(writer.TTYContext{Kind: writer.DrawCells, Row: row, Col: 0, Cells: cells}, 0, 0)
}

// statusRow is the last row of the client's reported terminal height,
// reserved for the status/input bar (spec §4.12's status line sits
// outside the pane grid the active window renders into).
func (c *Client) statusRow() int { return c.OG.Height - 1 }

func (c *Client) statusCols() int { return c.OG.Width }

// formatTree builds the #{...} expansion context for this client's
// current session/window/pane (spec §4.8).
func (c *Client) formatTree() *format.Tree {
	tree := &format.Tree{Graph: c.Graph, Client: c.OG, Now: time.Now()}
	if sess := c.OG.Session(); sess != nil {
		tree.Session = sess
		if wl := sess.Current(); wl != nil {
			tree.Window = wl.Window
			if wl.Window != nil {
				tree.Pane = wl.Window.ActivePane()
			}
		}
	}
	return tree
}

func (c *Client) redrawOverlay() {
	o, ok := c.overlayActive()
	if !ok || o.Render == nil {
		return
	}
	tree := c.formatTree()
	text := o.Render(tree)
	c.Term.Apply(writer.TTYContext{Kind: writer.DrawPreview, PreviewText: text}, 0, 0)
}

func (c *Client) statusText() string {
	if msg, ok := c.StatusMessage(); ok {
		return msg
	}
	sess := c.OG.Session()
	if sess == nil {
		return ""
	}
	text, err := format.Expand(c.statusFormat(), c.formatTree())
	if err != nil {
		return sess.Name
	}
	return text
}

// statusFormat returns the one fixed status template this package uses
// for every session. It reads no option: a status-format, status-left
// or status-right setting has no effect on the status line, and the
// line is rendered as one combined segment rather than the three
// independently-justified segments tmux itself supports.
func (c *Client) statusFormat() string {
	return "[#{session_name}] #{window_index}:#{window_name}"
}
