package emitter

import (
	"fmt"

	"github.com/ripleymj/ecc/internal/air"
	"github.com/ripleymj/ecc/internal/diag"
)

// emitInsn dispatches one air instruction to its mnemonic(s) (spec §4.6).
// Phi/sequence-point/va-* pseudo-instructions (air.OpDiscard) produce no
// text at all.
func (e *emitter) emitInsn(insn air.Insn) {
	switch insn.Op {
	case air.OpDiscard, air.OpNop, air.OpDeclare:
		return

	case air.OpLoad:
		e.emitMove(insn.Operands[0], insn.Operands[1])

	case air.OpStoreAssign:
		e.emitMove(insn.Operands[0], insn.Operands[1])

	case air.OpLoadAddress:
		src := insn.Operands[1]
		if src.Kind != air.OperandSymbol && src.Kind != air.OperandIndirectSymbol {
			e.log.AddInternalError(diag.Loc{}, "emitter: load-address of a non-symbol operand")
			return
		}
		e.printInsn("leaq", fmt.Sprintf("%s, %s", e.formatOperand(src, nil), e.formatOperand(insn.Operands[0], nil)))

	case air.OpCall:
		e.printInsn("call", e.formatOperand(insn.Operands[0], nil))

	case air.OpReturn:
		e.epilogueUsed = true
		e.printInsn("jmp", e.epilogueLabel)

	case air.OpArithmetic, air.OpDirectArithmetic:
		e.emitArith(insn)

	case air.OpMultiply:
		e.emitMultiply(insn)

	case air.OpDivide:
		e.emitDivide(insn)

	case air.OpShiftLeft:
		e.emitShift(insn, "shl")

	case air.OpShiftRight:
		e.emitShift(insn, "sar")

	case air.OpRelational:
		e.emitRelational(insn)

	case air.OpEquality:
		e.emitEquality(insn)

	case air.OpLogicalNot:
		e.emitLogicalNot(insn)

	case air.OpSignExtend:
		e.emitExtend(insn, true)

	case air.OpZeroExtend:
		e.emitExtend(insn, false)

	case air.OpConvertIntToSSE:
		e.emitIntToSSE(insn)

	case air.OpConvertSSEToInt:
		e.emitSSEToInt(insn)

	case air.OpMemset:
		e.emitMemset(insn)

	case air.OpSyscall:
		e.printInsn("syscall", "")

	case air.OpPush:
		e.printInsn("pushq", e.formatOperand(insn.Operands[0], nil))

	case air.OpJump:
		e.printInsn("jmp", e.formatOperand(insn.Operands[0], nil))

	case air.OpCondJump:
		e.printInsn(condJumpMnemonic(insn.Cond), e.formatOperand(insn.Operands[0], nil))

	case air.OpLabel:
		e.printf("%s:\n", e.formatOperand(insn.Operands[0], nil))

	default:
		e.log.AddInternalError(diag.Loc{}, "emitter: unrecognized air instruction discriminant")
	}
}

func (e *emitter) emitMove(dst, src air.Operand) {
	mnemonic := "mov"
	if dst.Class == air.ClassSSE || src.Class == air.ClassSSE {
		if maxSize(dst.Size, src.Size) == 4 {
			e.printInsn("movss", fmt.Sprintf("%s, %s", e.formatOperand(src, nil), e.formatOperand(dst, nil)))
		} else {
			e.printInsn("movsd", fmt.Sprintf("%s, %s", e.formatOperand(src, nil), e.formatOperand(dst, nil)))
		}
		return
	}
	mnemonic += string(mnemonicSuffix(maxSize(dst.Size, src.Size)))
	e.printInsn(mnemonic, fmt.Sprintf("%s, %s", e.formatOperand(src, nil), e.formatOperand(dst, nil)))
}

func maxSize(a, b air.Size) air.Size {
	if a > b {
		return a
	}
	if b == 0 {
		return a
	}
	return b
}

// emitArith implements spec §4.6's "Arithmetic peepholes": compute into the
// destination register directly and only append a corrective mov when the
// instruction's own destination operand is not already the register the
// arithmetic op just wrote.
func (e *emitter) emitArith(insn air.Insn) {
	dst, left, right := insn.Operands[0], insn.Operands[1], insn.Operands[2]
	op := arithMnemonic(insn.Arith)

	if dst.Class == air.ClassSSE {
		e.emitSSEArith(insn, op)
		return
	}

	size := maxSize(dst.Size, maxSize(left.Size, right.Size))
	mnemonic := op + string(mnemonicSuffix(size))

	if sameRegister(dst, left) {
		e.printInsn(mnemonic, fmt.Sprintf("%s, %s", e.formatOperand(right, nil), e.formatOperand(dst, nil)))
		return
	}

	e.emitMove(dst, left)
	e.printInsn(mnemonic, fmt.Sprintf("%s, %s", e.formatOperand(right, nil), e.formatOperand(dst, nil)))
}

func (e *emitter) emitSSEArith(insn air.Insn, op string) {
	dst, left, right := insn.Operands[0], insn.Operands[1], insn.Operands[2]
	single := maxSize(dst.Size, maxSize(left.Size, right.Size)) == 4
	suffix := "sd"
	if single {
		suffix = "ss"
	}
	mnemonic, ok := sseArithMnemonic[op]
	if !ok {
		e.log.AddInternalError(diag.Loc{}, "emitter: SSE arithmetic with unsupported sub-operator")
		return
	}
	mnemonic += suffix
	if !sameRegister(dst, left) {
		e.emitMove(dst, left)
	}
	e.printInsn(mnemonic, fmt.Sprintf("%s, %s", e.formatOperand(right, nil), e.formatOperand(dst, nil)))
}

var sseArithMnemonic = map[string]string{
	"add": "add",
	"sub": "sub",
}

func sameRegister(a, b air.Operand) bool {
	return a.Kind == air.OperandRegister && b.Kind == air.OperandRegister && a.Base == b.Base && a.Class == b.Class
}

func arithMnemonic(op air.ArithOp) string {
	switch op {
	case air.ArithAdd:
		return "add"
	case air.ArithSub:
		return "sub"
	case air.ArithAnd:
		return "and"
	case air.ArithOr:
		return "or"
	case air.ArithXor:
		return "xor"
	default:
		return "add"
	}
}

// emitMultiply emits a two-operand imul for integer operands, signed and
// unsigned alike; the one-operand mul form is not used. SSE operands use
// mulss/mulsd.
func (e *emitter) emitMultiply(insn air.Insn) {
	dst, left, right := insn.Operands[0], insn.Operands[1], insn.Operands[2]
	if dst.Class == air.ClassSSE {
		suffix := "sd"
		if maxSize(dst.Size, maxSize(left.Size, right.Size)) == 4 {
			suffix = "ss"
		}
		if !sameRegister(dst, left) {
			e.emitMove(dst, left)
		}
		e.printInsn("mul"+suffix, fmt.Sprintf("%s, %s", e.formatOperand(right, nil), e.formatOperand(dst, nil)))
		return
	}
	size := maxSize(dst.Size, maxSize(left.Size, right.Size))
	if dst.Class == air.ClassInteger && !sameRegister(dst, left) {
		e.emitMove(dst, left)
	}
	mnemonic := "imul" + string(mnemonicSuffix(size))
	e.printInsn(mnemonic, fmt.Sprintf("%s, %s", e.formatOperand(right, nil), e.formatOperand(dst, nil)))
}

// emitDivide lowers a division/modulo air op to the rax:rdx-pair
// convention: the dividend must already be in rax (a prior lowering pass's
// responsibility); for a 4- or 8-byte divisor cltd/cqto sign-extends it
// into rdx, then idiv divides. Only the signed idiv is emitted; the
// unsigned div form is not used.
func (e *emitter) emitDivide(insn air.Insn) {
	divisor := insn.Operands[2]
	size := maxSize(insn.Operands[0].Size, divisor.Size)
	if divisor.Size >= 4 {
		if divisor.Size == 8 {
			e.printInsn("cqto", "")
		} else {
			e.printInsn("cltd", "")
		}
	}
	mnemonic := "idiv" + string(mnemonicSuffix(size))
	e.printInsn(mnemonic, e.formatOperand(divisor, nil))
}

func (e *emitter) emitShift(insn air.Insn, mnemonic string) {
	dst, left, right := insn.Operands[0], insn.Operands[1], insn.Operands[2]
	if !sameRegister(dst, left) {
		e.emitMove(dst, left)
	}
	size := dst.Size
	m := mnemonic + string(mnemonicSuffix(size))
	if right.Kind == air.OperandImmediate {
		e.printInsn(m, fmt.Sprintf("%s, %s", e.formatOperand(right, nil), e.formatOperand(dst, nil)))
		return
	}
	e.printInsn(m, fmt.Sprintf("%%cl, %s", e.formatOperand(dst, nil)))
}

// emitRelational implements spec §4.6's "SSE relational: comis? with
// operand swap for < and <=, then seta/setnb (unordered false)" and the
// plain integer-comparison path for non-SSE operands.
func (e *emitter) emitRelational(insn air.Insn) {
	dst, left, right := insn.Operands[0], insn.Operands[1], insn.Operands[2]
	if left.Class == air.ClassSSE {
		e.emitSSERelational(dst, left, right, insn.Cond)
		return
	}
	size := maxSize(left.Size, right.Size)
	e.printInsn("cmp"+string(mnemonicSuffix(size)), fmt.Sprintf("%s, %s", e.formatOperand(right, nil), e.formatOperand(left, nil)))
	e.printInsn(setMnemonic(insn.Cond), "%"+gpName(dst.Base, 1))
	e.printInsn("movzbl", fmt.Sprintf("%%%s, %s", gpName(dst.Base, 1), e.formatOperand(withSize(dst, 4), nil)))
}

func (e *emitter) emitSSERelational(dst, left, right air.Operand, cond air.CondCode) {
	suffix := "sd"
	if maxSize(left.Size, right.Size) == 4 {
		suffix = "ss"
	}
	a, b := left, right
	swapped := cond == air.CondLt || cond == air.CondLe
	if swapped {
		a, b = right, left
	}
	e.printInsn("comi"+suffix, fmt.Sprintf("%s, %s", e.formatOperand(b, nil), e.formatOperand(a, nil)))
	mnemonic := "seta"
	if cond == air.CondLe || cond == air.CondGe {
		mnemonic = "setae"
	}
	e.printInsn(mnemonic, "%"+gpName(dst.Base, 1))
	e.printInsn("movzbl", fmt.Sprintf("%%%s, %s", gpName(dst.Base, 1), e.formatOperand(withSize(dst, 4), nil)))
}

// emitEquality implements spec §4.6's SSE equality/inequality for floating
// operands: ucomis? sets parity when unordered (NaN); setnp (or setp) is
// followed by a je, taken on the flags that same ucomis? set, around a
// corrective move, so that NaN == NaN yields false and NaN != NaN yields
// true. Integer operands use a plain sete/setne.
func (e *emitter) emitEquality(insn air.Insn) {
	dst, left, right := insn.Operands[0], insn.Operands[1], insn.Operands[2]
	wantEq := insn.Cond == air.CondEq

	if left.Class != air.ClassSSE {
		size := maxSize(left.Size, right.Size)
		e.printInsn("cmp"+string(mnemonicSuffix(size)), fmt.Sprintf("%s, %s", e.formatOperand(right, nil), e.formatOperand(left, nil)))
		m := "sete"
		if !wantEq {
			m = "setne"
		}
		e.printInsn(m, "%"+gpName(dst.Base, 1))
		e.printInsn("movzbl", fmt.Sprintf("%%%s, %s", gpName(dst.Base, 1), e.formatOperand(withSize(dst, 4), nil)))
		return
	}

	suffix := "sd"
	if maxSize(left.Size, right.Size) == 4 {
		suffix = "ss"
	}
	e.printInsn("ucomi"+suffix, fmt.Sprintf("%s, %s", e.formatOperand(right, nil), e.formatOperand(left, nil)))
	if wantEq {
		e.printInsn("setnp", "%"+gpName(dst.Base, 1))
	} else {
		e.printInsn("setp", "%"+gpName(dst.Base, 1))
	}
	skip := e.genLabel()
	e.printInsn("je", skip)
	if wantEq {
		e.printInsn("movb", fmt.Sprintf("$0, %%%s", gpName(dst.Base, 1)))
	} else {
		e.printInsn("movb", fmt.Sprintf("$1, %%%s", gpName(dst.Base, 1)))
	}
	e.printf("%s:\n", skip)
	e.printInsn("movzbl", fmt.Sprintf("%%%s, %s", gpName(dst.Base, 1), e.formatOperand(withSize(dst, 4), nil)))
}

func withSize(op air.Operand, size air.Size) air.Operand {
	op.Size = size
	return op
}

func setMnemonic(cond air.CondCode) string {
	switch cond {
	case air.CondLt:
		return "setl"
	case air.CondLe:
		return "setle"
	case air.CondGt:
		return "setg"
	case air.CondGe:
		return "setge"
	default:
		return "sete"
	}
}

func condJumpMnemonic(cond air.CondCode) string {
	switch cond {
	case air.CondEq:
		return "je"
	case air.CondNe:
		return "jne"
	case air.CondLt:
		return "jl"
	case air.CondLe:
		return "jle"
	case air.CondGt:
		return "jg"
	case air.CondGe:
		return "jge"
	default:
		return "je"
	}
}

// emitExtend implements the sign/zero extension op (movsx/movzx family).
func (e *emitter) emitExtend(insn air.Insn, signed bool) {
	dst, src := insn.Operands[0], insn.Operands[1]
	prefix := "movz"
	if signed {
		prefix = "movs"
	}
	mnemonic := fmt.Sprintf("%s%c%c", prefix, mnemonicSuffix(src.Size), mnemonicSuffix(dst.Size))
	if dst.Size == 8 && src.Size == 4 && signed {
		mnemonic = "movslq"
	}
	e.printInsn(mnemonic, fmt.Sprintf("%s, %s", e.formatOperand(src, nil), e.formatOperand(dst, nil)))
}

// emitMemset implements a `rep stosb`-style zero-fill for compiler-
// synthesized aggregate zero-initialization.
func (e *emitter) emitMemset(insn air.Insn) {
	e.printInsn("xorl", "%eax, %eax")
	e.printInsn("rep stosb", "")
}
