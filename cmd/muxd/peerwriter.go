package main

import "github.com/vtmux/vtmux/internal/ipc"

// peerWriter adapts an ipc.Peer into the io.Writer internal/tty.Term
// writes its capability-encoded output to, each Write becoming one
// MSG_STDOUT frame to the attached client (spec §4.10's message list;
// the real terminal lives in the attach process on the other end of the
// socket, not in muxd itself).
type peerWriter struct {
	peer *ipc.Peer
}

func (w peerWriter) Write(p []byte) (int, error) {
	b := append([]byte(nil), p...)
	w.peer.Send(ipc.Message{Type: ipc.MsgStdout, Payload: b})
	return len(p), nil
}
