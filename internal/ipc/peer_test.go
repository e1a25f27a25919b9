package ipc

import (
	"encoding/binary"
	"io"
	"net"
	"path/filepath"
	"testing"
	"time"
)

func TestPeerSendDispatchRoundTrip(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "test.sock")

	ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: sockPath, Net: "unix"})
	if err != nil {
		t.Fatalf("ListenUnix: %v", err)
	}
	defer ln.Close()

	serverMsgs := make(chan Message, 4)
	go func() {
		conn, err := ln.AcceptUnix()
		if err != nil {
			return
		}
		p, err := NewPeer(conn)
		if err != nil {
			return
		}
		p.Dispatch = func(m Message) { serverMsgs <- m }
		p.Start()
	}()

	clientConn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: sockPath, Net: "unix"})
	if err != nil {
		t.Fatalf("DialUnix: %v", err)
	}
	client, err := NewPeer(clientConn)
	if err != nil {
		t.Fatalf("NewPeer: %v", err)
	}
	client.Start()
	defer client.Close()

	client.Send(Message{Type: MsgCommand, PeerID: 7, PID: 99, Payload: []byte("new-session")})

	select {
	case got := <-serverMsgs:
		if got.Type != MsgCommand || got.PID != 99 || string(got.Payload) != "new-session" {
			t.Fatalf("unexpected message: %+v", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatched message")
	}
}

func TestPeerMarkBadStopsDispatch(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "test.sock")

	ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: sockPath, Net: "unix"})
	if err != nil {
		t.Fatalf("ListenUnix: %v", err)
	}
	defer ln.Close()

	serverReady := make(chan *Peer, 1)
	go func() {
		conn, err := ln.AcceptUnix()
		if err != nil {
			return
		}
		p, _ := NewPeer(conn)
		p.Dispatch = func(Message) {}
		p.Start()
		serverReady <- p
	}()

	clientConn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: sockPath, Net: "unix"})
	if err != nil {
		t.Fatalf("DialUnix: %v", err)
	}
	client, err := NewPeer(clientConn)
	if err != nil {
		t.Fatalf("NewPeer: %v", err)
	}
	client.Start()

	client.MarkBad()
	if !client.isBad() {
		t.Fatalf("expected PEER_BAD to be set")
	}

	<-serverReady
}

// TestPeerVersionMismatchRepliesAndCloses covers spec §8 scenario 6: a
// first message whose type isn't MSG_VERSION and whose header peerid low
// byte doesn't match ProtocolVersion must get exactly one MSG_VERSION
// reply, PEER_BAD set, and the connection torn down.
func TestPeerVersionMismatchRepliesAndCloses(t *testing.T) {
	sockPath := filepath.Join(t.TempDir(), "test.sock")

	ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: sockPath, Net: "unix"})
	if err != nil {
		t.Fatalf("ListenUnix: %v", err)
	}
	defer ln.Close()

	serverReady := make(chan *Peer, 1)
	go func() {
		conn, err := ln.AcceptUnix()
		if err != nil {
			return
		}
		p, err := NewPeer(conn)
		if err != nil {
			return
		}
		p.Dispatch = func(Message) {}
		p.Start()
		serverReady <- p
	}()

	rawConn, err := net.DialUnix("unix", nil, &net.UnixAddr{Name: sockPath, Net: "unix"})
	if err != nil {
		t.Fatalf("DialUnix: %v", err)
	}
	defer rawConn.Close()
	rawConn.SetDeadline(time.Now().Add(5 * time.Second))

	// Type != MsgVersion, peerid low byte != ProtocolVersion.
	var frame [headerSize]byte
	binary.BigEndian.PutUint32(frame[0:4], uint32(MsgCommand))
	binary.BigEndian.PutUint32(frame[4:8], headerSize)
	binary.BigEndian.PutUint32(frame[8:12], 99)
	binary.BigEndian.PutUint32(frame[12:16], 0)
	if _, err := rawConn.Write(frame[:]); err != nil {
		t.Fatalf("write: %v", err)
	}

	h, err := decodeHeader(rawConn)
	if err != nil {
		t.Fatalf("decodeHeader: %v", err)
	}
	if MsgType(h.Type) != MsgVersion {
		t.Fatalf("want a single MSG_VERSION reply, got type %d", h.Type)
	}
	if _, err := readPayload(rawConn, h); err != nil {
		t.Fatalf("readPayload: %v", err)
	}

	server := <-serverReady
	deadline := time.Now().Add(2 * time.Second)
	for !server.isBad() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !server.isBad() {
		t.Fatalf("want PEER_BAD set on the server peer")
	}

	rawConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	if _, err := rawConn.Read(buf); err != io.EOF {
		t.Fatalf("want the connection closed after the single reply, got %v", err)
	}
}
