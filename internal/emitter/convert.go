package emitter

import (
	"fmt"

	"github.com/ripleymj/ecc/internal/air"
	"github.com/ripleymj/ecc/internal/emitter/rodata"
)

// emitIntToSSE implements spec §4.6's "Signed → SSE" and "Unsigned 64-bit →
// SSE" conversion sequences. The unsigned-64-bit case is the only one
// needing the sign-bit test; everything narrower is converted directly,
// after a source narrower than int is first sign-extended (zero-extended
// when unsigned) to int in %eax.
func (e *emitter) emitIntToSSE(insn air.Insn) {
	dst, src := insn.Operands[0], insn.Operands[1]
	single := dst.Size == 4
	mnemonic := "cvtsi2sd"
	if single {
		mnemonic = "cvtsi2ss"
	}

	if !insn.Unsigned || src.Size < 8 {
		if src.Size < 4 {
			ext := "movs"
			if insn.Unsigned {
				ext = "movz"
			}
			e.printInsn(fmt.Sprintf("%s%cl", ext, mnemonicSuffix(src.Size)), fmt.Sprintf("%s, %%eax", e.formatOperand(src, nil)))
			src = air.Operand{Kind: air.OperandRegister, Class: air.ClassInteger, Size: 4, Base: air.RAX}
		}
		e.printInsn(mnemonic, fmt.Sprintf("%s, %s", e.formatOperand(src, nil), e.formatOperand(dst, nil)))
		return
	}

	// Unsigned 64-bit → SSE: test the sign bit; if clear, convert directly;
	// otherwise halve the value with its low bit ORed back in, convert, then
	// double the result by adding it to itself.
	tmp := withSize(src, 8)
	doneLabel := e.genLabel()
	oddLabel := e.genLabel()

	e.printInsn("testq", fmt.Sprintf("%s, %s", e.formatOperand(tmp, nil), e.formatOperand(tmp, nil)))
	e.printInsn("js", oddLabel)
	e.printInsn(mnemonic, fmt.Sprintf("%s, %s", e.formatOperand(tmp, nil), e.formatOperand(dst, nil)))
	e.printInsn("jmp", doneLabel)

	e.printf("%s:\n", oddLabel)
	e.printInsn("movq", fmt.Sprintf("%s, %%rax", e.formatOperand(tmp, nil)))
	e.printInsn("movq", "%rax, %rdx")
	e.printInsn("shrq", "$1, %rax")
	e.printInsn("andq", "$1, %rdx")
	e.printInsn("orq", "%rdx, %rax")
	e.printInsn(mnemonic, fmt.Sprintf("%%rax, %s", e.formatOperand(dst, nil)))
	addMnemonic := "addsd"
	if single {
		addMnemonic = "addss"
	}
	e.printInsn(addMnemonic, fmt.Sprintf("%s, %s", e.formatOperand(dst, nil), e.formatOperand(dst, nil)))

	e.printf("%s:\n", doneLabel)
}

// emitSSEToInt implements spec §4.6's "SSE → signed 64-bit integer" and
// "SSE → unsigned 64-bit" sequences.
func (e *emitter) emitSSEToInt(insn air.Insn) {
	dst, src := insn.Operands[0], insn.Operands[1]
	single := src.Size == 4
	mnemonic := "cvttsd2si"
	if single {
		mnemonic = "cvttss2si"
	}

	if !insn.Unsigned || dst.Size < 8 {
		e.printInsn(mnemonic, fmt.Sprintf("%s, %s", e.formatOperand(src, nil), e.formatOperand(withSize(dst, 8), nil)))
		return
	}

	// SSE → unsigned 64-bit: compare against 2^63 stored in rodata. If the
	// source is smaller, convert directly; otherwise subtract 2^63,
	// convert, shift left by one, set the low bit, rotate right by one.
	if single {
		e.rodataNeedsSSE32I64Limit = true
	} else {
		e.rodataNeedsSSE64I64Limit = true
	}
	limit := rodata.I64LimitLabel(single)

	compareMnemonic := "comiss"
	subMnemonic := "subss"
	if !single {
		compareMnemonic = "comisd"
		subMnemonic = "subsd"
	}

	straightLabel := e.genLabel()
	doneLabel := e.genLabel()

	e.printInsn(compareMnemonic, fmt.Sprintf("%s(%%rip), %s", limit, e.formatOperand(src, nil)))
	e.printInsn("jb", straightLabel)

	e.printInsn(subMnemonic, fmt.Sprintf("%s(%%rip), %s", limit, e.formatOperand(src, nil)))
	e.printInsn(mnemonic, fmt.Sprintf("%s, %%rax", e.formatOperand(src, nil)))
	e.printInsn("shlq", "$1, %rax")
	e.printInsn("orq", "$1, %rax")
	e.printInsn("rorq", "$1, %rax")
	e.printInsn("movq", fmt.Sprintf("%%rax, %s", e.formatOperand(withSize(dst, 8), nil)))
	e.printInsn("jmp", doneLabel)

	e.printf("%s:\n", straightLabel)
	e.printInsn(mnemonic, fmt.Sprintf("%s, %s", e.formatOperand(src, nil), e.formatOperand(withSize(dst, 8), nil)))

	e.printf("%s:\n", doneLabel)
}

// emitSSENot implements spec §4.6's "NOT of SSE": ptest against a constant
// 16-byte mask, then sete.
func (e *emitter) emitSSENot(insn air.Insn) {
	dst, src := insn.Operands[0], insn.Operands[1]
	single := src.Size == 4
	if single {
		e.rodataNeedsSSE32ZeroChecker = true
	} else {
		e.rodataNeedsSSE64ZeroChecker = true
	}
	mask := rodata.ZeroCheckerLabel(single)
	e.printInsn("ptest", fmt.Sprintf("%s(%%rip), %s", mask, e.formatOperand(src, nil)))
	e.printInsn("sete", "%"+gpName(dst.Base, 1))
	e.printInsn("movzbl", fmt.Sprintf("%%%s, %s", gpName(dst.Base, 1), e.formatOperand(withSize(dst, 4), nil)))
}

// emitLogicalNot dispatches `!x` to the SSE ptest sequence for a
// floating-point operand or a plain compare-against-zero for an integer
// operand.
func (e *emitter) emitLogicalNot(insn air.Insn) {
	if insn.Operands[1].Class == air.ClassSSE {
		e.emitSSENot(insn)
		return
	}
	dst, src := insn.Operands[0], insn.Operands[1]
	e.printInsn("cmp"+string(mnemonicSuffix(src.Size)), fmt.Sprintf("$0, %s", e.formatOperand(src, nil)))
	e.printInsn("sete", "%"+gpName(dst.Base, 1))
	e.printInsn("movzbl", fmt.Sprintf("%%%s, %s", gpName(dst.Base, 1), e.formatOperand(withSize(dst, 4), nil)))
}

// syntheticRodataConstants materializes the `__sse*` rodata constants this
// routine's conversion sequences referenced (spec §6's "Synthesized symbol
// names").
func (e *emitter) syntheticRodataConstants() []Data {
	var out []Data
	if e.rodataNeedsSSE32ZeroChecker {
		out = append(out, Data{Label: rodata.ZeroCheckerLabel(true), Align: 16, Bytes: rodata.ZeroCheckerMask(true)})
	}
	if e.rodataNeedsSSE64ZeroChecker {
		out = append(out, Data{Label: rodata.ZeroCheckerLabel(false), Align: 16, Bytes: rodata.ZeroCheckerMask(false)})
	}
	if e.rodataNeedsSSE32I64Limit {
		out = append(out, Data{Label: rodata.I64LimitLabel(true), Align: 4, Bytes: rodata.I64LimitBytes(true)})
	}
	if e.rodataNeedsSSE64I64Limit {
		out = append(out, Data{Label: rodata.I64LimitLabel(false), Align: 8, Bytes: rodata.I64LimitBytes(false)})
	}
	return out
}
