package main

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/vtmux/vtmux/internal/ipc"
	"github.com/vtmux/vtmux/internal/tty"
)

// identity collects everything an attaching client tells muxd about
// itself during the identify phase, before any pane exists to write to
// (spec §4.10's MSG_IDENTIFY_* family, terminated by MSG_IDENTIFY_DONE).
type identity struct {
	term       string
	features   string
	colorLevel tty.ColorLevel
	width      int
	height     int
	readOnly   bool
	cwd        string
	env        []string
	command    []string
}

// handshake collects one connection's identify messages off the peer's
// reader goroutine (via Dispatch) and hands the assembled identity to
// handleConn once MSG_IDENTIFY_DONE arrives.
type handshake struct {
	id   identity
	done chan error
}

func newHandshake() *handshake {
	return &handshake{done: make(chan error, 1)}
}

// handle is installed as peer.Dispatch for the duration of the identify
// phase; it never touches the object graph, only the identity it is
// building.
func (h *handshake) handle(m ipc.Message) {
	switch m.Type {
	case ipc.MsgIdentifyTerm:
		h.id.term = string(m.Payload)
	case ipc.MsgIdentifyTermFeatures:
		if len(m.Payload) > 0 {
			h.id.colorLevel = tty.ColorLevel(m.Payload[0])
			h.id.features = string(m.Payload[1:])
		}
	case ipc.MsgIdentifyFlags:
		if len(m.Payload) > 0 {
			h.id.readOnly = m.Payload[0]&0x1 != 0
		}
	case ipc.MsgIdentifyCwd:
		h.id.cwd = string(m.Payload)
	case ipc.MsgIdentifyEnv:
		h.id.env = splitNulJoined(m.Payload)
	case ipc.MsgResize:
		if len(m.Payload) >= 8 {
			h.id.width = int(binary.BigEndian.Uint32(m.Payload[0:4]))
			h.id.height = int(binary.BigEndian.Uint32(m.Payload[4:8]))
		}
	case ipc.MsgCommand:
		if len(m.Payload) > 0 {
			h.id.command = splitNulJoined(m.Payload)
		}
	case ipc.MsgIdentifyDone:
		if h.id.term == "" {
			h.id.term = "xterm"
		}
		if h.id.width == 0 {
			h.id.width = 80
		}
		if h.id.height == 0 {
			h.id.height = 24
		}
		h.done <- nil
	}
}

// await blocks until the identify phase completes or the connection goes
// away first.
func (h *handshake) await() (identity, error) {
	err := <-h.done
	if err != nil {
		return identity{}, err
	}
	return h.id, nil
}

// cancel unblocks a pending await when the peer disconnects before
// MSG_IDENTIFY_DONE arrives. Safe to call more than once.
func (h *handshake) cancel() {
	select {
	case h.done <- fmt.Errorf("muxd: peer closed during handshake"):
	default:
	}
}

func splitNulJoined(b []byte) []string {
	s := string(b)
	if s == "" {
		return nil
	}
	return strings.Split(s, "\x00")
}
