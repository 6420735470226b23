// Package air defines the three-address IR the (out-of-scope) air builder
// hands to the emitter (spec §4.6): routines, instructions, and operands.
// These types are data-only, never mutated by the emitter, the same
// relationship js_printer.go has to the js_ast.AST it is handed — a plain
// struct the printer walks and reads, never writes back to.
package air

import "github.com/ripleymj/ecc/internal/symtab"

// Register is one of the sixteen general-purpose registers or the eight XMM
// registers XMM0-XMM7 of x86-64, identified by its 64-bit/128-bit name; the emitter
// derives the correctly-sized sub-register name from an instruction's
// operand-size suffix.
type Register uint8

const (
	RAX Register = iota
	RBX
	RCX
	RDX
	RSI
	RDI
	RBP
	RSP
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
	XMM0
	XMM1
	XMM2
	XMM3
	XMM4
	XMM5
	XMM6
	XMM7
)

// Op is an air instruction's discriminant (spec §4.6).
type Op uint8

const (
	OpLoad Op = iota
	OpStoreAssign
	OpLoadAddress
	OpCall
	OpReturn
	OpDeclare
	OpNop
	OpArithmetic
	OpDirectArithmetic
	OpMultiply
	OpDivide
	OpShiftLeft
	OpShiftRight
	OpRelational
	OpEquality
	// OpLogicalNot is `!x`; for an SSE-class operand it lowers to the
	// ptest-against-mask sequence of spec §4.6's "NOT of SSE", for an
	// integer-class operand to a plain compare-against-zero.
	OpLogicalNot
	OpSignExtend
	OpZeroExtend
	OpConvertIntToSSE
	OpConvertSSEToInt
	OpMemset
	OpSyscall
	OpPush
	OpJump
	OpCondJump
	OpLabel
	// OpDiscard marks phi/sequence-point/va-* pseudo-instructions the
	// emitter discards without producing any text (spec §4.6).
	OpDiscard
)

// ArithOp is the sub-operator carried by OpArithmetic/OpDirectArithmetic
// instructions.
type ArithOp uint8

const (
	ArithAdd ArithOp = iota
	ArithSub
	ArithAnd
	ArithOr
	ArithXor
)

// CondCode is the sub-operator carried by OpRelational/OpEquality
// instructions, naming the comparison the resulting `set*`/jump tests.
type CondCode uint8

const (
	CondEq CondCode = iota
	CondNe
	CondLt
	CondLe
	CondGt
	CondGe
)

// OperandKind discriminates Operand's active fields (spec §4.6's
// "Operand mapping" list).
type OperandKind uint8

const (
	OperandRegister OperandKind = iota
	OperandIndirectRegister
	OperandImmediate
	OperandSymbol
	OperandIndirectSymbol
	OperandLabel
)

// ValueClass distinguishes integer-class from SSE-class operands, since the
// emitter picks mnemonic suffixes and register families differently for
// each (spec §4.6's conversion-sequence section).
type ValueClass uint8

const (
	ClassInteger ValueClass = iota
	ClassSSE
)

// Size is an operand's width in bytes: 1, 2, 4, or 8 (SSE operands are
// always 4 or 8, for float/double).
type Size uint8

// Operand is one instruction operand (spec §4.6: "0-3 typed operands").
type Operand struct {
	Kind  OperandKind
	Class ValueClass
	Size  Size

	// OperandRegister / OperandIndirectRegister
	Base     Register
	Index    Register
	HasIndex bool
	Scale    uint8 // 1, 2, 4, or 8; used when HasIndex selects the SIB addressing form
	Disp     int64

	// OperandImmediate
	Immediate uint64

	// OperandSymbol / OperandIndirectSymbol
	Symbol symtab.Ref

	// OperandLabel
	Label LabelID
}

// LabelID names an air-assigned label (`.L<disambiguator><id>` per spec
// §4.6/§6).
type LabelID struct {
	Disambiguator string
	ID            int
}

// Insn is one air instruction.
type Insn struct {
	Op    Op
	Arith ArithOp
	Cond  CondCode

	// Unsigned marks an OpConvertIntToSSE/OpConvertSSEToInt instruction
	// whose integer-side operand is unsigned, selecting the sign-bit-test
	// conversion sequence spec §4.6 describes for the 64-bit boundary case.
	Unsigned bool

	Operands    [3]Operand
	NumOperands int
}

// Routine is one function's air instruction stream.
type Routine struct {
	Symbol      symtab.Ref
	Insns       []Insn
	UsesVarargs bool
}

// DataItem is one initialized object in `.data` or `.rodata`.
type DataItem struct {
	Symbol      symtab.Ref
	Bytes       []byte
	Relocations []symtab.Relocation
	Align       int64
}

// Program is the complete input to the emitter (spec §4.6).
type Program struct {
	Routines []Routine
	Data     []DataItem
	RoData   []DataItem
}
