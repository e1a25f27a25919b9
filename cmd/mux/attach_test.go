package main

import (
	"io"
	"testing"

	"github.com/muesli/termenv"
)

func TestResizePayloadEncodesBigEndianPair(t *testing.T) {
	b := resizePayload(100, 40)
	if len(b) != 8 {
		t.Fatalf("want 8 bytes, got %d", len(b))
	}
	cols := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	rows := uint32(b[4])<<24 | uint32(b[5])<<16 | uint32(b[6])<<8 | uint32(b[7])
	if cols != 100 || rows != 40 {
		t.Fatalf("got cols=%d rows=%d", cols, rows)
	}
}

func TestBoolByte(t *testing.T) {
	if boolByte(true) != 1 {
		t.Fatalf("want 1 for true")
	}
	if boolByte(false) != 0 {
		t.Fatalf("want 0 for false")
	}
}

func TestTermFeaturesPayloadEncodesColorLevelFirst(t *testing.T) {
	a := &attach{output: termenv.NewOutput(io.Discard)}
	payload := a.termFeaturesPayload()
	if len(payload) < 1 {
		t.Fatalf("want at least the color-level byte")
	}
}
