package tty

import (
	"bufio"
	"fmt"
	"io"
	"sync"

	"github.com/xo/terminfo"

	"github.com/vtmux/vtmux/internal/grid"
	"github.com/vtmux/vtmux/internal/screen"
)

// SetClientFunc decides whether a given draw should be written to this
// terminal at all (spec §4.9 "first consults a 'set-client' callback that
// decides whether this client is a target for the draw").
type SetClientFunc func() bool

// OverlayClipFunc clips a draw against any overlay the client currently has
// on top of the pane (spec §4.9 "overlay_check_cb so that overlays... mask
// regions they own"). It returns the portion of [fromCol,toCol) on row that
// remains visible; ok is false when the whole row segment is masked.
type OverlayClipFunc func(row, fromCol, toCol int) (visFromCol, visToCol int, ok bool)

// Term holds one real terminal's writer-side state: its feature set, decoded
// termcap, current SGR cell, cursor position/style, write buffer, and
// viewport origin (spec §4.9).
type Term struct {
	mu sync.Mutex

	w  *bufio.Writer
	ti *terminfo.Terminfo

	features Feature
	level    ColorLevel

	sx, sy             int
	xpixel, ypixel     int
	ox, oy             int // viewport origin, set when window > client (spec §4.9 "bigger")

	mode screen.Mode

	cursorRow, cursorCol int
	cursorStyle          screen.CursorStyle
	cur                  grid.Cell // last-emitted SGR cell, for run-length diffing

	setClient SetClientFunc
	clip      OverlayClipFunc

	stopped bool
}

// New constructs a Term writing to w with the given termcap and detected
// feature set. termName selects the terminfo database entry to decode
// (spec §4.9 "decoded termcap table"); an unknown termName falls back to
// the "xterm" entry rather than failing, and if that is missing too,
// capPrintf's hardcoded xterm-style sequences are used.
func New(w io.Writer, termName string, features Feature, level ColorLevel) *Term {
	ti, err := terminfo.Load(termName)
	if err != nil {
		ti, _ = terminfo.Load("xterm")
	}
	return &Term{
		w:           bufio.NewWriter(w),
		ti:          ti,
		features:    features,
		level:       level,
		cursorStyle: screen.CursorBlockBlink,
		setClient:   func() bool { return true },
		clip:        func(row, from, to int) (int, int, bool) { return from, to, true },
	}
}

// SetSetClient installs the set-client predicate (spec §4.9).
func (t *Term) SetSetClient(f SetClientFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.setClient = f
}

// SetOverlayClip installs the overlay clipping callback (spec §4.9).
func (t *Term) SetOverlayClip(f OverlayClipFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clip = f
}

// Start marks the terminal as running again, so Apply writes to it, and
// flushes any buffered output. It sends no setup sequences of its own;
// modes reach the terminal only through UpdateMode.
func (t *Term) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = false
	return t.flushLocked()
}

// Stop disables any mode the terminal currently has enabled and flushes,
// leaving the terminal in a clean state for another process to use it.
func (t *Term) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return nil
	}
	seq := UpdateMode(t.mode, 0, t.features)
	t.w.WriteString(seq)
	t.mode = 0
	t.stopped = true
	return t.flushLocked()
}

// Free releases resources; Term is not usable afterward.
func (t *Term) Free() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.w = nil
}

// Resize updates the terminal's character and pixel dimensions (spec §4.9
// "resize(sx, sy, xpixel, ypixel) with pixel size tracked to support
// image/sixel features").
func (t *Term) Resize(sx, sy, xpixel, ypixel int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sx, t.sy = sx, sy
	t.xpixel, t.ypixel = xpixel, ypixel
}

// SetViewport sets the per-client viewport origin used when the window is
// larger than the client (spec §4.9 "Cursor offset tracking").
func (t *Term) SetViewport(ox, oy int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ox, t.oy = ox, oy
}

// UpdateMode diffs and applies a new mode against the terminal's current
// mode, writing only the changed sequences (spec §4.9).
func (t *Term) UpdateMode(new screen.Mode) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	seq := UpdateMode(t.mode, new, t.features)
	t.mode = new
	if seq == "" {
		return nil
	}
	t.w.WriteString(seq)
	return t.flushLocked()
}

// SetCursorStyle applies a DECSCUSR change when the style actually differs
// and the terminal advertises cstyle support.
func (t *Term) SetCursorStyle(style screen.CursorStyle) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if style == t.cursorStyle {
		return nil
	}
	t.cursorStyle = style
	seq := cursorStyleSeq(style, t.features)
	if seq == "" {
		return nil
	}
	t.w.WriteString(seq)
	return t.flushLocked()
}

// capPrintf resolves capability name against the decoded termcap (spec
// §4.9 "decoded termcap table"), falling back to a hardcoded xterm-style
// sequence when the entry is absent — most terminals in practice carry it,
// but a minimal/garbled terminfo database shouldn't make drawing fail.
func (t *Term) capPrintf(name terminfo.CapName, fallback string, params ...interface{}) string {
	if t.ti != nil {
		if s := t.ti.Printf(name, params...); s != "" {
			return s
		}
	}
	return fallback
}

func (t *Term) flushLocked() error {
	if t.w == nil {
		return fmt.Errorf("tty: write after Free")
	}
	return t.w.Flush()
}
