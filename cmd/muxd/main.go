// Command muxd is the terminal-multiplexer server: it owns the object
// graph, the global command queue, and one goroutine per attached client
// (spec.md §2 System Overview's client/server split). Flag parsing uses
// the standard library's flag package rather than a CLI framework — the
// full ~250 command surface is explicitly out of scope (spec.md §1), so
// the only flags muxd needs are a socket name override and the command to
// run in a freshly created session's first window, mirroring the teacher
// pack's own preference for flag over a command framework for a small,
// fixed flag set.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/vtmux/vtmux/internal/cmdqueue"
	"github.com/vtmux/vtmux/internal/client"
	"github.com/vtmux/vtmux/internal/ipc"
	"github.com/vtmux/vtmux/internal/objgraph"
)

func main() {
	socketName := flag.String("S", "default", "socket name under the socket directory")
	shell := flag.String("c", defaultShell(), "command to run in a newly created session's first window")
	flag.Parse()

	if err := run(*socketName, flag.Args(), *shell); err != nil {
		log.Fatalf("muxd: %v", err)
	}
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

func run(socketName string, extraArgs []string, shell string) error {
	globalQueue := cmdqueue.New()

	server := newServer(socketName, shell)
	hooks := &cmdqueue.Hooks{
		Sink:   server,
		Run:    server.runCommand,
		Global: globalQueue,
		ClientQueue: func(ev objgraph.Event) *cmdqueue.Queue {
			return server.queueForClient(ev.Client)
		},
	}
	server.graph = objgraph.NewGraph(hooks)
	server.globalQueue = globalQueue
	server.registry = client.NewRegistry()
	server.installDefaultBindings()

	ln, err := ipc.Listen(socketName)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	defer ln.Close()

	fmt.Fprintf(os.Stderr, "muxd: listening on socket %q\n", socketName)

	for {
		peer, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("accept: %w", err)
		}
		go server.handleConn(peer)
	}
}
