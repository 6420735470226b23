package asmwriter

import (
	"strings"
	"testing"

	"github.com/ripleymj/ecc/internal/emitter"
)

func TestUnsizedArrayDataIsSerializedByteForByte(t *testing.T) {
	out := emitter.Output{
		Data: []emitter.Data{
			{Label: "s", Align: 1, Bytes: []byte{'h', 'i', 0}},
		},
	}
	text := Write(out)
	if !strings.Contains(text, ".data\n") {
		t.Fatalf("expected a .data section header, got:\n%s", text)
	}
	if !strings.Contains(text, "s:\n") {
		t.Fatalf("expected label s:, got:\n%s", text)
	}
	if !strings.Contains(text, ".word 26984") || !strings.Contains(text, ".byte 0") {
		t.Fatalf("expected .word 26984 for 'h','i' and .byte 0 for the terminator, got:\n%s", text)
	}
}

func TestRelocationSplicesQuadDirective(t *testing.T) {
	out := emitter.Output{
		Data: []emitter.Data{
			{
				Label: "p", Align: 8, Bytes: make([]byte, 8),
				Relocations: []emitter.DataReloc{{Offset: 0, TargetLabel: "n", Addend: 4}},
			},
		},
	}
	text := Write(out)
	if !strings.Contains(text, ".quad n + 4") {
		t.Fatalf("expected a relocation quad directive, got:\n%s", text)
	}
}

func TestEightByteAlignedRunUsesQuad(t *testing.T) {
	out := emitter.Output{
		Data: []emitter.Data{
			{Label: "x", Align: 8, Bytes: make([]byte, 8)},
		},
	}
	text := Write(out)
	if !strings.Contains(text, ".quad 0") {
		t.Fatalf("expected a single .quad 0 directive for 8 zero bytes, got:\n%s", text)
	}
}

func TestGlobalRoutineEmitsGloblDirective(t *testing.T) {
	out := emitter.Output{
		Routines: []emitter.Routine{
			{Label: "main", Global: true, Text: "main:\n\tret\n"},
		},
	}
	text := Write(out)
	if !strings.Contains(text, ".globl main") {
		t.Fatalf("expected .globl main, got:\n%s", text)
	}
	if !strings.Contains(text, ".text\n") {
		t.Fatalf("expected a .text section header, got:\n%s", text)
	}
}
