// Command mux is the attach client: it connects to a running muxd's
// socket, negotiates the identify handshake, puts the local terminal
// into raw mode, and pipes stdin/stdout over the connection until it
// detaches (spec.md §2 System Overview's client/server split, §4.10's
// handshake and steady-state MSG_STDIN/MSG_STDOUT frames). Flag parsing
// again uses the standard library's flag package, mirroring muxd's own
// choice for the same small, fixed flag set (spec.md §1's command
// language is out of scope for both binaries).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vtmux/vtmux/internal/ipc"
)

func main() {
	socketName := flag.String("S", "default", "socket name under the socket directory")
	readOnly := flag.Bool("r", false, "attach read-only")
	flag.Parse()

	if err := run(*socketName, flag.Args(), *readOnly); err != nil {
		log.Fatalf("mux: %v", err)
	}
}

func run(socketName string, command []string, readOnly bool) error {
	peer, err := ipc.Dial(socketName)
	if err != nil {
		return fmt.Errorf("dial %q: %w", socketName, err)
	}

	a, err := newAttach(peer, readOnly)
	if err != nil {
		peer.Close()
		return err
	}
	defer a.restoreTerminal()

	peer.Dispatch = a.handle
	peer.OnClose = func(error) { a.stop() }
	peer.Start()
	peer.Handshake(0, uint32(os.Getpid()))

	if err := a.identify(command); err != nil {
		return err
	}

	a.runRawMode()
	return nil
}
