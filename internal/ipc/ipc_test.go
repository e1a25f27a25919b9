package ipc

import (
	"bytes"
	"os"
	"testing"
)

func TestSocketdirFormatParseRoundTrip(t *testing.T) {
	name := Format(1000, "main")
	if name != "1000.main" {
		t.Fatalf("Format: got %q", name)
	}
	entry, ok := Parse(name)
	if !ok {
		t.Fatalf("Parse(%q) failed", name)
	}
	if entry.UID != 1000 || entry.Name != "main" {
		t.Fatalf("Parse: got %+v", entry)
	}
}

func TestSocketdirParseRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "noext", "notanumber.main", ".main"} {
		if _, ok := Parse(bad); ok {
			t.Fatalf("Parse(%q) should have failed", bad)
		}
	}
}

func TestListInFindsOwnedSockets(t *testing.T) {
	dir := t.TempDir()
	uid := os.Getuid()
	for _, name := range []string{Format(uid, "a"), Format(uid, "b"), Format(uid+999, "other")} {
		f, err := os.Create(dir + "/" + name)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		f.Close()
	}
	entries, err := ListIn(dir)
	if err != nil {
		t.Fatalf("ListIn: %v", err)
	}
	var names []string
	for _, e := range entries {
		if e.UID != uid {
			t.Fatalf("ListIn returned an entry for a foreign uid: %+v", e)
		}
		names = append(names, e.Name)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 owned entries, got %v", names)
	}
}

func TestMessageEncodeDecodeRoundTrip(t *testing.T) {
	m := Message{Type: MsgCommand, PeerID: 0x00abcd00, PID: 4242, Payload: []byte("tmux-ish payload")}
	buf := m.encode()

	r := bytes.NewReader(buf)
	h, err := decodeHeader(r)
	if err != nil {
		t.Fatalf("decodeHeader: %v", err)
	}
	if MsgType(h.Type) != MsgCommand {
		t.Fatalf("type mismatch: got %v", h.Type)
	}
	if h.PID != 4242 {
		t.Fatalf("pid mismatch: got %v", h.PID)
	}
	if unpackVersion(h.PeerID) != ProtocolVersion {
		t.Fatalf("expected embedded protocol version %d, got %d", ProtocolVersion, unpackVersion(h.PeerID))
	}
	if got := h.PeerID &^ 0xff; got != m.PeerID&^0xff {
		t.Fatalf("peerid high bits mismatch: got %#x want %#x", got, m.PeerID&^0xff)
	}

	payload, err := readPayload(r, h)
	if err != nil {
		t.Fatalf("readPayload: %v", err)
	}
	if string(payload) != "tmux-ish payload" {
		t.Fatalf("payload mismatch: got %q", payload)
	}
}

func TestReadPayloadRejectsOversizedLength(t *testing.T) {
	h := header{Type: uint32(MsgCommand), Len: maxPayload + headerSize + 1}
	if _, err := readPayload(bytes.NewReader(nil), h); err == nil {
		t.Fatalf("expected oversized payload length to be rejected")
	}
}

func TestReadPayloadRejectsShortHeaderLen(t *testing.T) {
	h := header{Type: uint32(MsgCommand), Len: headerSize - 1}
	if _, err := readPayload(bytes.NewReader(nil), h); err == nil {
		t.Fatalf("expected length shorter than header size to be rejected")
	}
}
