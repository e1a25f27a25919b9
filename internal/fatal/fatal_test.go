package fatal

import (
	"strings"
	"testing"
)

func TestFatalPanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("want Fatal to panic")
		}
		if r.(string) != "arena exhausted" {
			t.Fatalf("got panic value %v", r)
		}
	}()
	Fatal("arena exhausted")
}

func TestFatalxPanicsWithFormattedMessage(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("want Fatalx to panic")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "id 42 reused") {
			t.Fatalf("got panic value %v", r)
		}
	}()
	Fatalx("id %d reused", 42)
}
