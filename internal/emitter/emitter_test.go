package emitter

import (
	"strings"
	"testing"

	"github.com/ripleymj/ecc/internal/air"
	"github.com/ripleymj/ecc/internal/ctype"
	"github.com/ripleymj/ecc/internal/diag"
	"github.com/ripleymj/ecc/internal/option"
	"github.com/ripleymj/ecc/internal/symtab"
)

func TestStackSubtractIsAlwaysMultipleOf16(t *testing.T) {
	table := symtab.NewTable()
	fnRef := table.NewSymbol("f", symtab.Ordinary, ctype.Func(ctype.Basic(ctype.TInt), nil, false, true))
	table.Get(fnRef).Linkage = symtab.External

	localRef := table.NewSymbol("n", symtab.Ordinary, ctype.Basic(ctype.TInt))
	table.Get(localRef).StorageDuration = symtab.Automatic

	insns := []air.Insn{
		{Op: air.OpLoad, NumOperands: 2, Operands: [3]air.Operand{
			{Kind: air.OperandSymbol, Symbol: localRef, Size: 4},
			{Kind: air.OperandImmediate, Immediate: 5, Size: 4},
		}},
		{Op: air.OpReturn},
	}
	prog := &air.Program{Routines: []air.Routine{{Symbol: fnRef, Insns: insns}}}

	out := Emit(prog, table, option.Options{}, diag.NewLog())
	if len(out.Routines) != 1 {
		t.Fatalf("got %d routines, want 1", len(out.Routines))
	}
	text := out.Routines[0].Text
	if !strings.Contains(text, "subq $16, %rsp") {
		t.Fatalf("expected a 16-byte-aligned stack subtract, got:\n%s", text)
	}
}

func TestCalleeSavedPruning(t *testing.T) {
	table := symtab.NewTable()
	fnRef := table.NewSymbol("g", symtab.Ordinary, ctype.Func(ctype.Basic(ctype.TInt), nil, false, true))

	insns := []air.Insn{
		{Op: air.OpReturn},
	}
	prog := &air.Program{Routines: []air.Routine{{Symbol: fnRef, Insns: insns}}}

	out := Emit(prog, table, option.Options{}, diag.NewLog())
	text := out.Routines[0].Text
	if strings.Contains(text, "pushq %rbx") {
		t.Fatalf("expected rbx not to be saved when never written, got:\n%s", text)
	}
}

func TestEpilogueLabelOnlyEmittedWhenReachable(t *testing.T) {
	table := symtab.NewTable()
	fnRef := table.NewSymbol("h", symtab.Ordinary, ctype.Func(ctype.Basic(ctype.TVoid), nil, false, true))

	prog := &air.Program{Routines: []air.Routine{{Symbol: fnRef, Insns: nil}}}
	out := Emit(prog, table, option.Options{}, diag.NewLog())
	if strings.Contains(out.Routines[0].Text, ".LR0:") {
		t.Fatalf("expected no epilogue label with no OpReturn, got:\n%s", out.Routines[0].Text)
	}

	prog2 := &air.Program{Routines: []air.Routine{{Symbol: fnRef, Insns: []air.Insn{{Op: air.OpReturn}}}}}
	out2 := Emit(prog2, table, option.Options{}, diag.NewLog())
	if !strings.Contains(out2.Routines[0].Text, ".LR0:") {
		t.Fatalf("expected an epilogue label with a reachable OpReturn, got:\n%s", out2.Routines[0].Text)
	}
}

func TestArithmeticPeepholeElidesRedundantMove(t *testing.T) {
	e := &emitter{log: diag.NewLog()}
	insn := air.Insn{
		Op: air.OpArithmetic, Arith: air.ArithAdd, NumOperands: 3,
		Operands: [3]air.Operand{
			{Kind: air.OperandRegister, Base: air.RAX, Size: 4},
			{Kind: air.OperandRegister, Base: air.RAX, Size: 4},
			{Kind: air.OperandImmediate, Immediate: 1, Size: 4},
		},
	}
	e.emitInsn(insn)
	text := string(e.b)
	if strings.Count(text, "mov") != 0 {
		t.Fatalf("expected the redundant mov to be elided, got:\n%s", text)
	}
	if !strings.Contains(text, "addl $1, %eax") {
		t.Fatalf("expected an addl into %%eax, got:\n%s", text)
	}
}

func TestOperandMappingStaticVsAutomaticSymbol(t *testing.T) {
	table := symtab.NewTable()
	staticRef := table.NewSymbol("g", symtab.Ordinary, ctype.Basic(ctype.TInt))
	table.Get(staticRef).StorageDuration = symtab.Static

	autoRef := table.NewSymbol("n", symtab.Ordinary, ctype.Basic(ctype.TInt))
	autoSym := table.Get(autoRef)
	autoSym.StorageDuration = symtab.Automatic
	autoSym.HasStackOffset = true
	autoSym.StackOffset = -4

	e := &emitter{table: table, log: diag.NewLog()}

	staticText := e.formatOperand(air.Operand{Kind: air.OperandSymbol, Symbol: staticRef}, nil)
	if staticText != "g(%rip)" {
		t.Fatalf("got %q, want g(%%rip)", staticText)
	}

	autoText := e.formatOperand(air.Operand{Kind: air.OperandSymbol, Symbol: autoRef}, nil)
	if autoText != "-4(%rbp)" {
		t.Fatalf("got %q, want -4(%%rbp)", autoText)
	}
}

func TestSSEUnsignedBoundaryReferencesLimitConstant(t *testing.T) {
	e := &emitter{log: diag.NewLog()}
	insn := air.Insn{
		Op: air.OpConvertSSEToInt, Unsigned: true, NumOperands: 2,
		Operands: [3]air.Operand{
			{Kind: air.OperandRegister, Base: air.RAX, Size: 8, Class: air.ClassInteger},
			{Kind: air.OperandRegister, Base: air.XMM0, Size: 8, Class: air.ClassSSE},
		},
	}
	e.emitInsn(insn)
	text := string(e.b)
	if !strings.Contains(text, "__sse64_i64_limit") {
		t.Fatalf("expected a reference to __sse64_i64_limit, got:\n%s", text)
	}
	if !e.rodataNeedsSSE64I64Limit {
		t.Fatalf("expected the rodata-needed flag to be set")
	}
}
