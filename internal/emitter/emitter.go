// Package emitter turns an air program (internal/air) into AT&T-syntax
// x86-64 assembly text (spec §4.6): operand mapping, frame layout, SSE
// conversion sequences, and the arithmetic peepholes the instruction
// selector relies on having applied downstream.
//
// A struct owns a growable byte buffer and a handful of small
// print/printf-style helpers, with one method per construct, walking a
// read-only input tree it never mutates.
package emitter

import (
	"fmt"

	"github.com/ripleymj/ecc/internal/air"
	"github.com/ripleymj/ecc/internal/diag"
	"github.com/ripleymj/ecc/internal/option"
	"github.com/ripleymj/ecc/internal/symtab"
)

// Routine is one emitted function: its label, whether it has external
// linkage, and its instruction text (already including prologue/epilogue).
type Routine struct {
	Label  string
	Global bool
	Text   string
}

// Data is one emitted `.data`/`.rodata` item: its label, alignment, byte
// buffer, and resolved relocations, ready for internal/asmwriter to
// serialize into directives without needing the symbol table itself.
type Data struct {
	Label       string
	Global      bool
	Align       int64
	Bytes       []byte
	Relocations []DataReloc
}

// DataReloc is one relocation with its target symbol already resolved to a
// label name (spec §4.5/§4.7: "a .quad label [± offset] is emitted instead
// of raw bytes").
type DataReloc struct {
	Offset      int64
	TargetLabel string
	Addend      int64
}

// Output is everything internal/asmwriter needs to write the three
// sections spec §4.7 describes.
type Output struct {
	Routines []Routine
	Data     []Data
	RoData   []Data
}

// emitter holds the per-translation-unit state as struct fields instead of
// as parameters threaded through every method: the symbol table (for
// stack-offset assignment and name lookup), the diagnostic log, and the
// label/rodata-constant counters spec §9 says must be explicit state rather
// than process globals.
type emitter struct {
	table *symtab.Table
	log   *diag.Log
	opts  option.Options

	nextGenLabel int
	nextRoutine  int

	rodataNeedsSSE32ZeroChecker bool
	rodataNeedsSSE64ZeroChecker bool
	rodataNeedsSSE32I64Limit    bool
	rodataNeedsSSE64I64Limit    bool

	// b accumulates the current routine's instruction text.
	b []byte

	// calleeSaved tracks which of rbx/r12-r15 the pruning pass found written
	// in the routine currently being emitted.
	calleeSaved map[air.Register]bool

	// epilogueLabel is this routine's `.LR<id>` label, assigned once and
	// reused by every OpReturn; epilogueUsed records whether it was ever
	// referenced, so it is only emitted when reachable (spec §4.6).
	epilogueLabel string
	epilogueUsed  bool
}

// Emit runs the emitter over prog, producing assembly text grouped by
// section (spec §4.6/§4.7). Diagnostics for malformed air input (spec §7:
// "a missing or mistyped air operand is an assertion-class internal
// error") are appended to log; the offending instruction is skipped rather
// than aborting the whole routine.
func Emit(prog *air.Program, table *symtab.Table, opts option.Options, log *diag.Log) Output {
	e := &emitter{table: table, log: log, opts: opts}

	var out Output
	for _, d := range prog.Data {
		out.Data = append(out.Data, e.emitDataItem(d))
	}
	for _, d := range prog.RoData {
		out.RoData = append(out.RoData, e.emitDataItem(d))
	}
	for _, r := range prog.Routines {
		out.Routines = append(out.Routines, e.emitRoutine(r))
	}
	out.RoData = append(out.RoData, e.syntheticRodataConstants()...)
	return out
}

func (e *emitter) emitDataItem(d air.DataItem) Data {
	sym := e.table.Get(d.Symbol)
	relocs := make([]DataReloc, len(d.Relocations))
	for i, r := range d.Relocations {
		relocs[i] = DataReloc{
			Offset:      r.DataOffset,
			TargetLabel: e.table.Get(r.Target).Name,
			Addend:      r.Addend,
		}
	}
	return Data{
		Label:       sym.Name,
		Global:      sym.Linkage == symtab.External,
		Align:       d.Align,
		Bytes:       d.Bytes,
		Relocations: relocs,
	}
}

func (e *emitter) genLabel() string {
	id := e.nextGenLabel
	e.nextGenLabel++
	return fmt.Sprintf(".LGEN%d", id)
}

func (e *emitter) printf(f string, a ...any) { e.b = append(e.b, fmt.Sprintf(f, a...)...) }
func (e *emitter) printInsn(mnemonic, ops string) {
	if ops == "" {
		e.printf("\t%s\n", mnemonic)
		return
	}
	e.printf("\t%s %s\n", mnemonic, ops)
}

// emitRoutine lays out one function's prologue, body, and epilogue (spec
// §4.6's "Frame layout").
func (e *emitter) emitRoutine(r air.Routine) Routine {
	sym := e.table.Get(r.Symbol)
	e.b = nil
	e.calleeSaved = pruneCalleeSaved(r.Insns)
	e.epilogueLabel = fmt.Sprintf(".LR%d", e.nextRoutine)
	e.nextRoutine++
	e.epilogueUsed = false

	if e.opts.Verbose {
		e.printf("# %s: %d air instructions, varargs=%v\n", sym.Name, len(r.Insns), r.UsesVarargs)
	}
	e.printf("%s:\n", sym.Name)
	e.printInsn("pushq", "%rbp")
	e.printInsn("movq", "%rsp, %rbp")

	stackAlloc := roundUp16(assignStackOffsets(r.Insns, e.table))
	if stackAlloc > 0 {
		e.printInsn("subq", fmt.Sprintf("$%d, %%rsp", stackAlloc))
	}
	for _, reg := range calleeSavedOrder {
		if e.calleeSaved[reg] {
			e.printInsn("pushq", "%"+gpName(reg, 8))
		}
	}
	if r.UsesVarargs {
		e.emitRegisterSaveArea()
	}

	for _, insn := range r.Insns {
		e.emitInsn(insn)
	}

	if e.epilogueUsed {
		e.printf("%s:\n", e.epilogueLabel)
	}
	for i := len(calleeSavedOrder) - 1; i >= 0; i-- {
		reg := calleeSavedOrder[i]
		if e.calleeSaved[reg] {
			e.printInsn("popq", "%"+gpName(reg, 8))
		}
	}
	e.printInsn("leave", "")
	e.printInsn("ret", "")

	return Routine{Label: sym.Name, Global: sym.Linkage == symtab.External, Text: string(e.b)}
}

// emitRegisterSaveArea spills the six integer-argument registers and eight
// SSE-argument registers into the 176-byte save area at -176(%rbp) to
// -8(%rbp) (spec §4.6).
func (e *emitter) emitRegisterSaveArea() {
	intArgRegs := []air.Register{air.RDI, air.RSI, air.RDX, air.RCX, air.R8, air.R9}
	off := -option.RegisterSaveAreaSize
	for _, reg := range intArgRegs {
		e.printInsn("movq", fmt.Sprintf("%%%s, %d(%%rbp)", gpName(reg, 8), off))
		off += 8
	}
	sseArgRegs := []air.Register{air.XMM0, air.XMM1, air.XMM2, air.XMM3, air.XMM4, air.XMM5, air.XMM6, air.XMM7}
	for _, reg := range sseArgRegs {
		e.printInsn("movaps", fmt.Sprintf("%%%s, %d(%%rbp)", xmmName(reg), off))
		off += 16
	}
}

var calleeSavedOrder = []air.Register{air.RBX, air.R12, air.R13, air.R14, air.R15}

// pruneCalleeSaved implements spec §4.6's "pruning pass": only push/pop the
// callee-saved registers a routine's instruction stream actually writes.
func pruneCalleeSaved(insns []air.Insn) map[air.Register]bool {
	// Every op form this backend emits puts its destination in Operands[0];
	// a register mentioned there is conservatively treated as written, so a
	// register only ever read (e.g. as a source operand further along)
	// does not itself trigger a save.
	used := make(map[air.Register]bool)
	for _, insn := range insns {
		if insn.NumOperands == 0 {
			continue
		}
		op := insn.Operands[0]
		if (op.Kind == air.OperandRegister || op.Kind == air.OperandIndirectRegister) && isCalleeSaved(op.Base) {
			used[op.Base] = true
		}
	}
	return used
}

func isCalleeSaved(r air.Register) bool {
	switch r {
	case air.RBX, air.R12, air.R13, air.R14, air.R15:
		return true
	default:
		return false
	}
}

func roundUp16(n int64) int64 {
	if n <= 0 {
		return 0
	}
	a := int64(option.StackAlignment)
	return (n + a - 1) &^ (a - 1)
}
