package ipc

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ProtocolVersion is the protocol version byte embedded in every header's
// peerid low byte (spec §4.10 "protocol version byte embedded in every
// header's peerid-low-byte"). Bumped whenever a wire-incompatible message
// type or payload layout changes.
const ProtocolVersion = 1

// MsgType discriminates one ipc message (spec §4.10's message type list).
type MsgType uint32

const (
	MsgVersion MsgType = iota + 1

	// Client -> server.
	MsgIdentifyFeatures
	MsgIdentifyTerm
	MsgIdentifyTermFeatures
	MsgIdentifyFlags
	MsgIdentifyLongFlags
	MsgIdentifyStdin
	MsgIdentifyStdout
	MsgIdentifyStderr
	MsgIdentifyCwd
	MsgIdentifyEnv
	MsgIdentifyClientPID
	MsgIdentifyDone
	MsgCommand
	MsgResize
	MsgStdin
	MsgExiting
	MsgReady
	MsgClientPID

	// Server -> client.
	MsgOK
	MsgError
	MsgExit
	MsgShutdown
	MsgDetach
	MsgDetachKill
	MsgStdinRequest
	MsgStdout
	MsgStderr
	MsgSuspend
	MsgLock
	MsgWriteOpen
	MsgWriteData
	MsgWriteReady
	MsgWriteClose
	MsgReadOpen
	MsgReadData
	MsgReadDone
	MsgReadCancel
)

// header is the fixed 16-byte frame prefix (spec §4.10: "a fixed header
// {u32 type, u32 len, u32 peerid, u32 pid}").
type header struct {
	Type   uint32
	Len    uint32
	PeerID uint32
	PID    uint32
}

const headerSize = 16

// Message is one decoded ipc frame, plus an optional file descriptor
// carried via SCM_RIGHTS (spec §4.10 "a message may optionally carry one
// file descriptor via SCM_RIGHTS").
type Message struct {
	Type    MsgType
	PeerID  uint32
	PID     uint32
	Payload []byte
	FD      *int
}

// packPeerID embeds the protocol version in peerID's low byte, per spec
// §4.10's exact framing rule.
func packPeerID(peerID uint32, version byte) uint32 {
	return (peerID &^ 0xff) | uint32(version)
}

func unpackVersion(peerID uint32) byte { return byte(peerID & 0xff) }

// encode renders m as header bytes followed by payload, ready to hand to a
// Peer's write path.
func (m Message) encode() []byte {
	buf := make([]byte, headerSize+len(m.Payload))
	h := header{
		Type:   uint32(m.Type),
		Len:    uint32(headerSize + len(m.Payload)),
		PeerID: packPeerID(m.PeerID, ProtocolVersion),
		PID:    m.PID,
	}
	binary.BigEndian.PutUint32(buf[0:4], h.Type)
	binary.BigEndian.PutUint32(buf[4:8], h.Len)
	binary.BigEndian.PutUint32(buf[8:12], h.PeerID)
	binary.BigEndian.PutUint32(buf[12:16], h.PID)
	copy(buf[headerSize:], m.Payload)
	return buf
}

// decodeHeader parses the fixed 16-byte prefix from r.
func decodeHeader(r io.Reader) (header, error) {
	var buf [headerSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return header{}, err
	}
	return header{
		Type:   binary.BigEndian.Uint32(buf[0:4]),
		Len:    binary.BigEndian.Uint32(buf[4:8]),
		PeerID: binary.BigEndian.Uint32(buf[8:12]),
		PID:    binary.BigEndian.Uint32(buf[12:16]),
	}, nil
}

// maxPayload bounds a single frame's payload to guard against a corrupt or
// hostile peer claiming an enormous length (spec §7 "no operation trusts
// an unbounded peer-supplied length").
const maxPayload = 16 << 20

func readPayload(r io.Reader, h header) ([]byte, error) {
	if h.Len < headerSize {
		return nil, fmt.Errorf("ipc: header declares length %d shorter than header size", h.Len)
	}
	n := h.Len - headerSize
	if n > maxPayload {
		return nil, fmt.Errorf("ipc: frame payload %d exceeds maximum %d", n, maxPayload)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
