package emitter

import (
	"fmt"

	"github.com/ripleymj/ecc/internal/air"
	"github.com/ripleymj/ecc/internal/diag"
	"github.com/ripleymj/ecc/internal/symtab"
)

// gpName returns the AT&T-syntax name of a general-purpose register at the
// given operand width in bytes (spec §4.6: "the emitter derives the
// correctly-sized sub-register name from an instruction's operand-size
// suffix").
func gpName(r air.Register, size air.Size) string {
	names, ok := gpNames[r]
	if !ok {
		return "?"
	}
	switch size {
	case 1:
		return names[0]
	case 2:
		return names[1]
	case 4:
		return names[2]
	default:
		return names[3]
	}
}

// gpNames maps each general-purpose Register to its {byte, word, dword,
// qword} AT&T names.
var gpNames = map[air.Register][4]string{
	air.RAX: {"al", "ax", "eax", "rax"},
	air.RBX: {"bl", "bx", "ebx", "rbx"},
	air.RCX: {"cl", "cx", "ecx", "rcx"},
	air.RDX: {"dl", "dx", "edx", "rdx"},
	air.RSI: {"sil", "si", "esi", "rsi"},
	air.RDI: {"dil", "di", "edi", "rdi"},
	air.RBP: {"bpl", "bp", "ebp", "rbp"},
	air.RSP: {"spl", "sp", "esp", "rsp"},
	air.R8:  {"r8b", "r8w", "r8d", "r8"},
	air.R9:  {"r9b", "r9w", "r9d", "r9"},
	air.R10: {"r10b", "r10w", "r10d", "r10"},
	air.R11: {"r11b", "r11w", "r11d", "r11"},
	air.R12: {"r12b", "r12w", "r12d", "r12"},
	air.R13: {"r13b", "r13w", "r13d", "r13"},
	air.R14: {"r14b", "r14w", "r14d", "r14"},
	air.R15: {"r15b", "r15w", "r15d", "r15"},
}

func xmmName(r air.Register) string {
	return fmt.Sprintf("xmm%d", int(r)-int(air.XMM0))
}

func mnemonicSuffix(size air.Size) byte {
	switch size {
	case 1:
		return 'b'
	case 2:
		return 'w'
	case 4:
		return 'l'
	default:
		return 'q'
	}
}

// assignStackOffsets walks insns assigning a negative rbp-relative stack
// offset to every automatic-duration symbol referenced by an
// OperandSymbol/OperandIndirectSymbol operand that does not already have
// one, allocating downward and aligned to the symbol's own alignment (spec
// §4.6: "Stack offsets are allocated downward, aligned to the symbol's
// alignment, and recorded in the symbol for subsequent uses"). It returns
// the total bytes allocated (before the caller's 16-byte rounding).
func assignStackOffsets(insns []air.Insn, table *symtab.Table) int64 {
	var cur int64
	for _, insn := range insns {
		for i := 0; i < insn.NumOperands; i++ {
			op := insn.Operands[i]
			if op.Kind != air.OperandSymbol && op.Kind != air.OperandIndirectSymbol {
				continue
			}
			sym := table.Get(op.Symbol)
			if sym.StorageDuration != symtab.Automatic || sym.HasStackOffset {
				continue
			}
			align := sym.Type.Align()
			if align < 1 {
				align = 1
			}
			size := sym.Type.Size()
			if size < 0 {
				size = 8
			}
			cur += size
			cur = roundUpTo(cur, align)
			sym.StackOffset = int32(-cur)
			sym.HasStackOffset = true
		}
	}
	return cur
}

func roundUpTo(n, align int64) int64 {
	if align <= 1 {
		return n
	}
	return (n + align - 1) / align * align
}

// formatOperand renders one air.Operand in AT&T syntax (spec §4.6's
// "Operand mapping"). labelFor resolves an air.LabelID to its textual name.
func (e *emitter) formatOperand(op air.Operand, labelFor func(air.LabelID) string) string {
	switch op.Kind {
	case air.OperandRegister:
		if op.Class == air.ClassSSE {
			return "%" + xmmName(op.Base)
		}
		return "%" + gpName(op.Base, op.Size)

	case air.OperandIndirectRegister:
		base := "%" + gpName(op.Base, 8)
		if op.HasIndex {
			idx := "%" + gpName(op.Index, 8)
			return fmt.Sprintf("%d(%s, %s, %d)", op.Disp, base, idx, scaleOrOne(op.Scale))
		}
		if op.Disp == 0 {
			return fmt.Sprintf("(%s)", base)
		}
		return fmt.Sprintf("%d(%s)", op.Disp, base)

	case air.OperandImmediate:
		return fmt.Sprintf("$%d", int64(op.Immediate))

	case air.OperandSymbol:
		return e.symbolOperandText(op, false)

	case air.OperandIndirectSymbol:
		return e.symbolOperandText(op, true)

	case air.OperandLabel:
		if labelFor != nil {
			return labelFor(op.Label)
		}
		return fmt.Sprintf(".L%s%d", op.Label.Disambiguator, op.Label.ID)

	default:
		e.log.AddInternalError(diag.Loc{}, "emitter: operand with unrecognized kind")
		return "<bad-operand>"
	}
}

func scaleOrOne(s uint8) uint8 {
	if s == 0 {
		return 1
	}
	return s
}

// symbolOperandText implements the symbol half of spec §4.6's "Operand
// mapping": static-duration symbols become a RIP-relative label reference;
// automatic-duration symbols become their assigned rbp-relative stack
// offset.
func (e *emitter) symbolOperandText(op air.Operand, indirect bool) string {
	sym := e.table.Get(op.Symbol)
	if sym.StorageDuration == symtab.Automatic {
		disp := int64(sym.StackOffset) + op.Disp
		text := fmt.Sprintf("%d(%%rbp)", disp)
		if !indirect {
			return text
		}
		return text
	}
	name := sym.Name
	if op.Disp != 0 {
		return fmt.Sprintf("%s+%d(%%rip)", name, op.Disp)
	}
	return fmt.Sprintf("%s(%%rip)", name)
}
