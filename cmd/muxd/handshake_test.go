package main

import (
	"testing"

	"github.com/vtmux/vtmux/internal/ipc"
)

func TestHandshakeAssemblesIdentity(t *testing.T) {
	h := newHandshake()
	h.handle(ipc.Message{Type: ipc.MsgIdentifyTerm, Payload: []byte("xterm-256color")})
	h.handle(ipc.Message{Type: ipc.MsgIdentifyTermFeatures, Payload: append([]byte{3}, []byte("title,256")...)})
	h.handle(ipc.Message{Type: ipc.MsgIdentifyFlags, Payload: []byte{1}})
	h.handle(ipc.Message{Type: ipc.MsgIdentifyCwd, Payload: []byte("/home/u")})
	h.handle(ipc.Message{Type: ipc.MsgIdentifyEnv, Payload: []byte("A=1\x00B=2")})
	h.handle(ipc.Message{Type: ipc.MsgResize, Payload: resizePayload(100, 40)})
	h.handle(ipc.Message{Type: ipc.MsgCommand, Payload: []byte("sh\x00-c\x00echo hi")})
	h.handle(ipc.Message{Type: ipc.MsgIdentifyDone})

	id, err := h.await()
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if id.term != "xterm-256color" {
		t.Fatalf("got term %q", id.term)
	}
	if id.colorLevel != 3 || id.features != "title,256" {
		t.Fatalf("got level %d features %q", id.colorLevel, id.features)
	}
	if !id.readOnly {
		t.Fatalf("want readOnly true")
	}
	if id.cwd != "/home/u" {
		t.Fatalf("got cwd %q", id.cwd)
	}
	if len(id.env) != 2 || id.env[0] != "A=1" || id.env[1] != "B=2" {
		t.Fatalf("got env %+v", id.env)
	}
	if id.width != 100 || id.height != 40 {
		t.Fatalf("got size %dx%d", id.width, id.height)
	}
	if len(id.command) != 3 || id.command[2] != "echo hi" {
		t.Fatalf("got command %+v", id.command)
	}
}

func TestHandshakeDoneFillsDefaults(t *testing.T) {
	h := newHandshake()
	h.handle(ipc.Message{Type: ipc.MsgIdentifyDone})

	id, err := h.await()
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if id.term != "xterm" {
		t.Fatalf("want default term, got %q", id.term)
	}
	if id.width != 80 || id.height != 24 {
		t.Fatalf("want default size 80x24, got %dx%d", id.width, id.height)
	}
}

func TestHandshakeCancelUnblocksAwait(t *testing.T) {
	h := newHandshake()
	h.cancel()

	if _, err := h.await(); err == nil {
		t.Fatalf("want an error from await after cancel")
	}
}

func TestHandshakeCancelIsIdempotent(t *testing.T) {
	h := newHandshake()
	h.cancel()
	h.cancel() // must not block or panic

	if _, err := h.await(); err == nil {
		t.Fatalf("want an error from await after cancel")
	}
}

func resizePayload(cols, rows int) []byte {
	b := make([]byte, 8)
	b[0], b[1], b[2], b[3] = byte(cols>>24), byte(cols>>16), byte(cols>>8), byte(cols)
	b[4], b[5], b[6], b[7] = byte(rows>>24), byte(rows>>16), byte(rows>>8), byte(rows)
	return b
}
