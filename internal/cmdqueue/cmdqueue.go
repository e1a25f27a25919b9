// Package cmdqueue implements the per-client and global command queues:
// task-based execution with NORMAL/WAIT/STOP/ERROR results, target/source
// find-state, and hook insertion (spec §4.11).
package cmdqueue

import (
	"fmt"
	"sync"

	"github.com/vtmux/vtmux/internal/objgraph"
)

// Result is the outcome of executing one queue entry (spec §4.11
// "Execution model").
type Result int

const (
	// Normal advances the queue to the next entry.
	Normal Result = iota
	// Wait parks the queue; someone must call Continue to resume.
	Wait
	// Stop clears the remainder of the queue.
	Stop
	// Error surfaces the entry's error to its client; the queue advances.
	Error
)

func (r Result) String() string {
	switch r {
	case Normal:
		return "NORMAL"
	case Wait:
		return "WAIT"
	case Stop:
		return "STOP"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Target identifies which session/window/pane an entry applies to,
// resolved either at enqueue time (a concrete object) or deferred to
// execution time (a format-string target re-resolved against current
// state, spec §4.11 "target-find state ... resolved at enqueue time or
// deferred to execution time").
type Target struct {
	Session *objgraph.Session
	Window  *objgraph.Window
	Pane    *objgraph.Pane

	Deferred string // non-empty: a target expression resolved at Run time
}

// State carries per-entry flags, the format lookup this entry sees, and
// whether it is allowed to fire hooks (spec §4.11 "a 'state' object (flags
// + formats + optional hook-shared state)").
type State struct {
	Flags   map[string]bool
	Formats map[string]string

	// NoHooks corresponds to CMDQ_STATE_NOHOOKS: set on every entry a hook
	// insertion produces, so a hook's own commands cannot trigger the same
	// hook recursively (spec §4.11).
	NoHooks bool
}

// Provenance records where an entry came from: a parsed config file/line,
// or an interactive client (spec §4.11 "provenance (file+line if parsed
// from config, client if interactive)").
type Provenance struct {
	File   string
	Line   int
	Client string // empty when sourced from config rather than a live client
}

// Task is the unit of work one queue entry executes. cq is the queue the
// task is running on, so a task can call cq.Continue itself after an async
// operation completes (the common way a task returns Wait).
type Task func(cq *Queue, e *Entry) (Result, error)

// Entry is one queue item (spec §4.11).
type Entry struct {
	Task   Task
	Target Target
	Source Target // for commands that copy from one target to another
	State  State
	Prov   Provenance

	err error // set when Task returns Error
}

// Queue is a single-threaded cooperative command queue: one per client,
// plus a server-wide global queue for config-file and hook-fired commands
// with no client (spec §4.11 "One queue per client plus a global queue").
type Queue struct {
	mu      sync.Mutex
	entries []*Entry
	running bool

	// OnError receives an entry's error for surfacing to its client
	// (spec §4.11 "the entry's error message is surfaced to its client").
	OnError func(e *Entry, err error)
}

// New creates an empty queue.
func New() *Queue { return &Queue{} }

// Append adds an entry to the tail of the queue.
func (q *Queue) Append(e *Entry) {
	q.mu.Lock()
	q.entries = append(q.entries, e)
	q.mu.Unlock()
}

// InsertAfter inserts entries immediately after the currently-executing
// head, used by hook insertion so a hook's commands run before whatever
// was already queued behind the triggering command (spec §4.11
// "cmdq_insert_hook ... inserts, after the current item").
func (q *Queue) InsertAfter(entries ...*Entry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		q.entries = append(q.entries, entries...)
		return
	}
	tail := append([]*Entry{}, q.entries[1:]...)
	q.entries = append(q.entries[:1], entries...)
	q.entries = append(q.entries, tail...)
}

// Next runs entries until the head is either a waiting task or the queue
// empties (spec §4.11 "next(c) runs entries until the head is either a
// waiting callback or the queue empties").
func (q *Queue) Next() {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.mu.Unlock()

	for {
		q.mu.Lock()
		if len(q.entries) == 0 {
			q.running = false
			q.mu.Unlock()
			return
		}
		head := q.entries[0]
		q.mu.Unlock()

		result, err := head.Task(q, head)
		switch result {
		case Normal:
			q.pop()
		case Wait:
			q.mu.Lock()
			q.running = false
			q.mu.Unlock()
			return
		case Stop:
			q.mu.Lock()
			q.entries = nil
			q.running = false
			q.mu.Unlock()
			return
		case Error:
			head.err = err
			if q.OnError != nil {
				q.OnError(head, err)
			}
			q.pop()
		default:
			head.err = fmt.Errorf("cmdqueue: task returned unknown result %v", result)
			q.pop()
		}
	}
}

// Continue resumes a parked (Wait) queue from its current head (spec
// §4.11 "someone must later call continue on the queue to resume").
func (q *Queue) Continue() { q.Next() }

// Abort clears every pending entry as if the head had returned Stop,
// without running any of them (spec §5 "A client disconnect cancels its
// pending WAITs by flushing its queue with STOP"). Safe to call whether
// or not the queue is currently parked on a Wait.
func (q *Queue) Abort() {
	q.mu.Lock()
	q.entries = nil
	q.running = false
	q.mu.Unlock()
}

func (q *Queue) pop() {
	q.mu.Lock()
	if len(q.entries) > 0 {
		q.entries = q.entries[1:]
	}
	q.mu.Unlock()
}

// Len reports how many entries remain, including the running head.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
