package objgraph

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"

	"github.com/vtmux/vtmux/internal/options"
	"github.com/vtmux/vtmux/internal/parser"
	"github.com/vtmux/vtmux/internal/screen"
	"github.com/vtmux/vtmux/internal/writer"
)

// PaneFlag is a bitmask of pane state flags (spec §4.6 "per-pane flags").
type PaneFlag uint32

const (
	// PaneInputOff suppresses forwarding of client input to the pane's pty.
	PaneInputOff PaneFlag = 1 << iota
	// PaneUnseenChanges marks output the pane's window hasn't been
	// redrawn for since a client last looked at it (drives the bell/
	// activity/silence monitors and the window's "unseen" indicator).
	PaneUnseenChanges
	// PaneExited is set once the child process has exited but the pane
	// is kept around (remain-on-exit) for the user to review its output.
	PaneExited
	// PaneStatusReady/PaneStatusDrawn track whether the pane's exit
	// status line has been computed/drawn yet.
	PaneStatusReady
	PaneStatusDrawn
	// PaneEmpty marks a pane created with no command (placeholder, or a
	// kept remain-on-exit pane whose buffer was cleared).
	PaneEmpty
	// PaneStyleChanged marks a pane whose "pane-border-style"-relevant
	// state changed since the last redraw.
	PaneStyleChanged
)

// Pane owns one pty-backed command and the Screen/Writer/Parser stack that
// turns its output into display state (spec §3 "pane", §4.6).
type Pane struct {
	ID     uint32
	Window *Window

	Screen *screen.Screen
	Writer *writer.Writer
	Parser *parser.Parser

	Argv []string
	Cwd  string
	Env  []string

	mu      sync.Mutex
	flags   PaneFlag
	ptmx    *os.File
	cmd     *exec.Cmd
	exitErr error

	// Output, when set, receives every TTYContext the pane's Writer
	// produces, forwarded after Pane's own bookkeeping (spec §4.9 "the
	// tty layer subscribes to every attached pane's writer"). Wired by
	// internal/client once a client attaches to this pane's window.
	Output func(writer.TTYContext)

	changeSeq uint64 // bumped once per Writer.Emit, for cheap dirty checks

	dead chan struct{}

	// Options starts parentless and is reparented onto its owning
	// window's store once that window is known (spec §4.7 four-scope
	// chain; a pane is allocated before the window wrapping it exists).
	Options *options.Store
}

// NewPane allocates a pane of size sx x sy with hlimit lines of
// scrollback, wiring its Screen/Writer/Parser stack. The pane has no
// child process until Spawn is called.
func (g *Graph) NewPane(sx, sy, hlimit int, acceptOSC52 bool) *Pane {
	id := g.paneIDs.alloc()
	s := screen.New(sx, sy, hlimit)
	p := &Pane{ID: id, Screen: s, dead: make(chan struct{})}
	p.Writer = writer.New(s, p, nil)
	p.Parser = parser.New(p.Writer, p, parser.Options{AcceptOSC52: acceptOSC52})
	p.Options = options.NewStore(options.ScopePane, options.DefaultPaneTable(), nil)

	g.mu.Lock()
	g.panes[id] = p
	g.mu.Unlock()
	return p
}

// Emit implements writer.Emitter: every draw instruction marks the pane
// dirty and, if a client is subscribed, is forwarded immediately (spec
// §4.9 "panes push draw contexts to attached clients").
func (p *Pane) Emit(ctx writer.TTYContext) {
	atomic.AddUint64(&p.changeSeq, 1)
	p.SetFlag(PaneUnseenChanges)
	if p.Output != nil {
		p.Output(ctx)
	}
}

// WriteResponse implements parser.ResponseWriter: DSR/DA replies go
// straight back down the pty as if the shell had typed them.
func (p *Pane) WriteResponse(b []byte) {
	p.mu.Lock()
	ptmx := p.ptmx
	p.mu.Unlock()
	if ptmx == nil {
		return
	}
	_, _ = ptmx.Write(b)
}

func (p *Pane) ChangeSeq() uint64 { return atomic.LoadUint64(&p.changeSeq) }

func (p *Pane) Flags() PaneFlag { p.mu.Lock(); defer p.mu.Unlock(); return p.flags }

func (p *Pane) SetFlag(f PaneFlag) { p.mu.Lock(); p.flags |= f; p.mu.Unlock() }

func (p *Pane) ClearFlag(f PaneFlag) { p.mu.Lock(); p.flags &^= f; p.mu.Unlock() }

func (p *Pane) Has(f PaneFlag) bool { p.mu.Lock(); defer p.mu.Unlock(); return p.flags&f != 0 }

// Spawn starts argv (argv[0] resolved via exec.LookPath's normal PATH
// rules) attached to the pane's pty, sized to the pane's current screen
// dimensions (spec §4.6 "spawning a pane's command").
func (p *Pane) Spawn(argv []string, cwd string, env []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("objgraph: empty argv")
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = cwd
	cmd.Env = env

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: uint16(p.Screen.Cols()),
		Rows: uint16(p.Screen.Rows()),
	})
	if err != nil {
		return fmt.Errorf("objgraph: spawn pane: %w", err)
	}

	p.mu.Lock()
	p.Argv, p.Cwd, p.Env = argv, cwd, env
	p.ptmx, p.cmd = ptmx, cmd
	p.mu.Unlock()

	go p.readLoop()
	go p.waitLoop()
	return nil
}

func (p *Pane) readLoop() {
	buf := make([]byte, 16*1024)
	for {
		n, err := p.ptmx.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if p.Window != nil {
				p.Window.Activity(nil)
				if bytes.IndexByte(chunk, 0x07) >= 0 {
					p.Window.Bell()
				}
			}
			p.Parser.Parse(chunk)
		}
		if err != nil {
			return
		}
	}
}

func (p *Pane) waitLoop() {
	err := p.cmd.Wait()
	p.mu.Lock()
	p.exitErr = err
	p.flags |= PaneExited
	p.mu.Unlock()
	close(p.dead)
}

// Dead is closed once the pane's child process has exited.
func (p *Pane) Dead() <-chan struct{} { return p.dead }

// ExitErr returns the child process's wait error, valid only after Dead
// is closed.
func (p *Pane) ExitErr() error { p.mu.Lock(); defer p.mu.Unlock(); return p.exitErr }

// Resize changes the pane's screen size and propagates it to the pty via
// TIOCSWINSZ, reflowing the grid if requested (spec §4.2 resize,
// §4.6 "resizing a pane").
func (p *Pane) Resize(sx, sy int, reflow bool) error {
	p.Writer.Resize(sx, sy, reflow, true, true)
	p.mu.Lock()
	ptmx := p.ptmx
	p.mu.Unlock()
	if ptmx == nil {
		return nil
	}
	return pty.Setsize(ptmx, &pty.Winsize{Cols: uint16(sx), Rows: uint16(sy)})
}

// Kill terminates the pane's child process, if any, by sending SIGHUP to
// its controlling session (matching a detaching terminal) and closing
// the pty master.
func (p *Pane) Kill() error {
	p.mu.Lock()
	cmd, ptmx := p.cmd, p.ptmx
	p.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Signal(unix.SIGHUP)
	}
	if ptmx != nil {
		return ptmx.Close()
	}
	return nil
}
