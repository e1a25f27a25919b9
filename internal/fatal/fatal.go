// Package fatal provides the one class of error this module allows to
// abort the process: an allocation or arena-invariant failure the object
// graph has no sane way to recover from (spec.md §7's explicit carve-out).
// Grounded on the teacher pack's own panic-on-invariant-violation style
// (dcosson-h2/internal/config/role_templates.go panics when an embedded
// template the binary was built with goes missing at runtime — a state
// the program cannot continue past either).
package fatal

import "fmt"

// Fatal aborts the process with msg. Reserved for conditions spec.md §7
// classifies as unrecoverable (arena id space exhausted, a required
// invariant violated by a caller bug) rather than any error a client
// request or malformed input can trigger.
func Fatal(msg string) {
	panic(msg)
}

// Fatalx is Fatal with fmt.Sprintf-style formatting.
func Fatalx(format string, args ...interface{}) {
	panic(fmt.Sprintf(format, args...))
}
