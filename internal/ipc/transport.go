package ipc

import (
	"fmt"
	"net"
	"os"

	"github.com/gofrs/flock"
)

// Listener accepts UNIX-domain connections under the socket-directory
// convention; Accept wraps each one as a Peer that the caller starts
// (spec §4.10's transport paragraph).
type Listener struct {
	ln   *net.UnixListener
	path string
}

// Listen creates the socket directory (if needed) and binds a listening
// socket for a server named name, removing any stale socket file left by a
// crashed previous instance. The dial-probe liveness check is mirrored
// from dcosson-h2/internal/daemon/daemon.go's Run(): stat the path, dial
// it with a short timeout to tell a live server from a stale file, and
// only unlink in the stale case — a pure flock can't make that
// distinction, since a crashed process's flock releases automatically
// just like a live one releasing cleanly. flock instead serializes the
// bind itself: several `mux new-session` invocations can race to become
// the server for the same name, something a single h2 daemon never has to
// arbitrate, so we hold an exclusive file lock across the
// stat-dial-bind sequence.
func Listen(name string) (*Listener, error) {
	if err := EnsureDir(); err != nil {
		return nil, fmt.Errorf("ipc: create socket dir: %w", err)
	}
	path := Path(name)

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, fmt.Errorf("ipc: acquire startup lock: %w", err)
	}
	ln, path, err := bindListener(path, name)
	lock.Unlock()
	if err != nil {
		return nil, err
	}
	return &Listener{ln: ln, path: path}, nil
}

func bindListener(path, name string) (*net.UnixListener, string, error) {
	if _, err := os.Stat(path); err == nil {
		if conn, dialErr := net.Dial("unix", path); dialErr == nil {
			conn.Close()
			return nil, "", fmt.Errorf("ipc: server %q is already running", name)
		}
		os.Remove(path)
	}

	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return nil, "", err
	}
	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return nil, "", fmt.Errorf("ipc: listen: %w", err)
	}
	if err := os.Chmod(path, 0o700); err != nil {
		ln.Close()
		return nil, "", err
	}
	return ln, path, nil
}

// Accept blocks for the next incoming connection and wraps it as a Peer.
// The caller is responsible for setting Dispatch/OnClose and calling
// Start, and for performing the MSG_VERSION handshake (spec §4.10
// "Version negotiation: first message either side sends is MSG_VERSION").
func (l *Listener) Accept() (*Peer, error) {
	conn, err := l.ln.AcceptUnix()
	if err != nil {
		return nil, err
	}
	return NewPeer(conn)
}

// Close stops accepting and removes the socket file.
func (l *Listener) Close() error {
	err := l.ln.Close()
	os.Remove(l.path)
	return err
}

// Dial connects to a running server named name and wraps the connection as
// a Peer, ready for the caller to send MSG_VERSION first.
func Dial(name string) (*Peer, error) {
	path, err := Find(name)
	if err != nil {
		return nil, err
	}
	conn, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("ipc: dial %q: %w", name, err)
	}
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("ipc: dial %q: not a unix socket", name)
	}
	return NewPeer(unixConn)
}

// Handshake sends the local MSG_VERSION frame. It records nothing: readLoop
// validates the other side's first frame on its own (spec §4.10 "mismatch
// marks PEER_BAD and flushes").
func (p *Peer) Handshake(peerID uint32, pid uint32) {
	p.Send(Message{Type: MsgVersion, PeerID: peerID, PID: pid})
}
