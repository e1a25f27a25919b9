package main

import (
	"encoding/binary"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/vtmux/vtmux/internal/ipc"
	"github.com/vtmux/vtmux/internal/tty"
)

// attach drives one client-side connection: raw-mode stdin forwarding,
// MSG_STDOUT rendering straight to stdout, and SIGWINCH-driven resize
// (spec §4.12's "tty readable/writable" loop realized over a socket
// instead of a direct local pty, grounded on
// dcosson-h2/internal/overlay/overlay.go's raw-mode/SIGWINCH/pipe-output
// shape).
type attach struct {
	peer     *ipc.Peer
	fd       int
	oldState *term.State
	output   *termenv.Output
	readOnly bool

	once sync.Once
	done chan struct{}
}

func newAttach(peer *ipc.Peer, readOnly bool) (*attach, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("mux: stdin is not a terminal")
	}
	a := &attach{
		peer:     peer,
		fd:       fd,
		output:   termenv.NewOutput(os.Stdout),
		readOnly: readOnly,
		done:     make(chan struct{}),
	}
	return a, nil
}

// handle is the peer.Dispatch callback for the steady-state connection,
// installed after identify completes (spec §4.10's server->client
// message family).
func (a *attach) handle(m ipc.Message) {
	switch m.Type {
	case ipc.MsgStdout:
		os.Stdout.Write(m.Payload)
	case ipc.MsgExit, ipc.MsgDetach, ipc.MsgShutdown:
		a.stop()
	}
}

func (a *attach) stop() {
	a.once.Do(func() { close(a.done) })
}

// identify sends the full MSG_IDENTIFY_* sequence and terminates it with
// MSG_IDENTIFY_DONE (spec §4.10).
func (a *attach) identify(command []string) error {
	cols, rows, err := term.GetSize(a.fd)
	if err != nil {
		cols, rows = 80, 24
	}
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "/"
	}
	termName := os.Getenv("TERM")
	if termName == "" {
		termName = "xterm-256color"
	}

	a.peer.Send(ipc.Message{Type: ipc.MsgIdentifyTerm, Payload: []byte(termName)})
	a.peer.Send(ipc.Message{Type: ipc.MsgIdentifyTermFeatures, Payload: a.termFeaturesPayload()})
	a.peer.Send(ipc.Message{Type: ipc.MsgIdentifyFlags, Payload: []byte{boolByte(a.readOnly)}})
	a.peer.Send(ipc.Message{Type: ipc.MsgIdentifyCwd, Payload: []byte(cwd)})
	a.peer.Send(ipc.Message{Type: ipc.MsgIdentifyEnv, Payload: []byte(strings.Join(os.Environ(), "\x00"))})
	a.peer.Send(ipc.Message{Type: ipc.MsgResize, Payload: resizePayload(cols, rows)})
	if len(command) > 0 {
		a.peer.Send(ipc.Message{Type: ipc.MsgCommand, Payload: []byte(strings.Join(command, "\x00"))})
	}
	a.peer.Send(ipc.Message{Type: ipc.MsgIdentifyDone})
	return nil
}

// termFeaturesPayload encodes the detected color level plus a feature
// name list matching internal/tty.ParseFeatures's grammar. This is a
// coarse guess from $TERM and termenv's color-profile probe, not a real
// terminfo-driven capability table; the server falls back to its own
// terminfo lookup for anything this list omits.
func (a *attach) termFeaturesPayload() []byte {
	level := tty.DetectColorLevel(a.output)
	names := []string{"title", "mouse", "bpaste", "focus"}
	if strings.Contains(os.Getenv("TERM"), "256color") {
		names = append(names, "256")
	}
	if os.Getenv("COLORTERM") == "truecolor" {
		names = append(names, "RGB")
	}
	payload := make([]byte, 1, 1+len(strings.Join(names, ",")))
	payload[0] = byte(level)
	payload = append(payload, []byte(strings.Join(names, ","))...)
	return payload
}

func boolByte(readOnly bool) byte {
	if readOnly {
		return 1
	}
	return 0
}

func resizePayload(cols, rows int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint32(b[0:4], uint32(cols))
	binary.BigEndian.PutUint32(b[4:8], uint32(rows))
	return b
}

// runRawMode puts the local terminal into raw mode, forwards stdin as
// MSG_STDIN frames, watches SIGWINCH for resize, and blocks until the
// connection ends (spec §4.12).
func (a *attach) runRawMode() {
	oldState, err := term.MakeRaw(a.fd)
	if err == nil {
		a.oldState = oldState
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGWINCH)
	go a.watchResize(sigCh)

	go a.pipeStdin()

	<-a.done
	signal.Stop(sigCh)
}

func (a *attach) pipeStdin() {
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			b := append([]byte(nil), buf[:n]...)
			a.peer.Send(ipc.Message{Type: ipc.MsgStdin, Payload: b})
		}
		if err != nil {
			a.stop()
			return
		}
		select {
		case <-a.done:
			return
		default:
		}
	}
}

func (a *attach) watchResize(sigCh chan os.Signal) {
	for {
		select {
		case <-a.done:
			return
		case <-sigCh:
			cols, rows, err := term.GetSize(a.fd)
			if err != nil {
				continue
			}
			a.peer.Send(ipc.Message{Type: ipc.MsgResize, Payload: resizePayload(cols, rows)})
		}
	}
}

func (a *attach) restoreTerminal() {
	if a.oldState != nil {
		term.Restore(a.fd, a.oldState)
	}
}
