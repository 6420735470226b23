package cast

import (
	"github.com/ripleymj/ecc/internal/ctype"
	"github.com/ripleymj/ecc/internal/symtab"
)

// UnaryOp enumerates the C unary operators spec §4.5 assigns constraints to.
type UnaryOp uint8

const (
	UnPlus UnaryOp = iota
	UnMinus
	UnComplement
	UnNot
	UnAddr    // &
	UnDeref   // *
	UnPreInc  // ++x
	UnPreDec  // --x
	UnPostInc // x++
	UnPostDec // x--
)

// BinaryOp enumerates the non-assignment binary operators.
type BinaryOp uint8

const (
	BinMul BinaryOp = iota
	BinDiv
	BinMod
	BinAdd
	BinSub
	BinShl
	BinShr
	BinLt
	BinLe
	BinGt
	BinGe
	BinEq
	BinNe
	BinBitAnd
	BinBitXor
	BinBitOr
	BinLogAnd
	BinLogOr
)

// AssignOp enumerates simple and compound assignment operators.
type AssignOp uint8

const (
	AsgSimple AssignOp = iota
	AsgMul
	AsgDiv
	AsgMod
	AsgAdd
	AsgSub
	AsgShl
	AsgShr
	AsgBitAnd
	AsgBitXor
	AsgBitOr
)

// CompoundBinaryOp maps a compound-assignment operator to the binary
// operator that computes its right-hand side (spec §4.5: "compound
// assignment adds per-operator constraints").
func (op AssignOp) CompoundBinaryOp() (BinaryOp, bool) {
	switch op {
	case AsgMul:
		return BinMul, true
	case AsgDiv:
		return BinDiv, true
	case AsgMod:
		return BinMod, true
	case AsgAdd:
		return BinAdd, true
	case AsgSub:
		return BinSub, true
	case AsgShl:
		return BinShl, true
	case AsgShr:
		return BinShr, true
	case AsgBitAnd:
		return BinBitAnd, true
	case AsgBitXor:
		return BinBitXor, true
	case AsgBitOr:
		return BinBitOr, true
	}
	return 0, false
}

// ExprData is the marker interface every E-prefixed expression-kind struct
// implements, mirroring js_ast.go's "E" interface.
type ExprData interface{ isExprData() }

// Expr wraps a node-kind payload with its source location and, once
// analyzed, its type (spec §3 invariant: "Every expression node that has
// been analyzed carries a non-null type").
type Expr struct {
	Loc  Loc
	Data ExprData

	// Type is the zero Type (Class == ctype.TVoid with no other fields set)
	// before analysis. After analysis it is always populated, using
	// ctype.TError to propagate a prior failure (spec §3 invariant).
	Type ctype.Type

	// IsLValue records whether this expression denotes an object, needed by
	// several of the analyzer's own rules (modifiable-lvalue checks,
	// qualifier-stripping in non-lvalue contexts) without recomputing it.
	IsLValue bool
}

type EIntLiteral struct {
	Value    uint64
	Unsigned bool
	IsLong   bool
	IsLLong  bool
}

func (EIntLiteral) isExprData() {}

type EFloatLiteral struct {
	Value    float64
	IsSingle bool // 'f'/'F' suffix: float, not double
}

func (EFloatLiteral) isExprData() {}

type ECharLiteral struct {
	Value int64
	Wide  bool
}

func (ECharLiteral) isExprData() {}

type EStringLiteral struct {
	Value []byte
	Wide  bool
}

func (EStringLiteral) isExprData() {}

// EIdent is an identifier occurrence. Ref is filled in by the analyzer's
// identifier-resolution pass (spec §4.5).
type EIdent struct {
	Name string
	Ref  symtab.Ref
}

func (EIdent) isExprData() {}

// ECompoundLiteral is a `(T){ ... }` expression (spec §3: synthesized name
// `__cl<n>`).
type ECompoundLiteral struct {
	TypeName TypeName
	Init     *InitializerList
	// Ref is the synthesized object symbol this compound literal allocates.
	Ref symtab.Ref
}

func (ECompoundLiteral) isExprData() {}

type EUnary struct {
	Op      UnaryOp
	Operand *Expr
}

func (EUnary) isExprData() {}

type EBinary struct {
	Op          BinaryOp
	Left, Right *Expr
}

func (EBinary) isExprData() {}

type EAssign struct {
	Op          AssignOp
	Left, Right *Expr
}

func (EAssign) isExprData() {}

type ECond struct {
	Cond, Then, Else *Expr
}

func (ECond) isExprData() {}

type ECast struct {
	TargetType TypeName
	Operand    *Expr
}

func (ECast) isExprData() {}

type ESizeofExpr struct {
	Operand *Expr
}

func (ESizeofExpr) isExprData() {}

type ESizeofType struct {
	TargetType TypeName
}

func (ESizeofType) isExprData() {}

type ESubscript struct {
	Array, Index *Expr
}

func (ESubscript) isExprData() {}

type EMember struct {
	Target *Expr
	Name   string
	Arrow  bool
}

func (EMember) isExprData() {}

type ECall struct {
	Callee *Expr
	Args   []*Expr
}

func (ECall) isExprData() {}

type EComma struct {
	Left, Right *Expr
}

func (EComma) isExprData() {}

// TypeName is a standalone type name used in casts, sizeof, and compound
// literals: declaration specifiers plus an abstract (nameless) declarator.
type TypeName struct {
	Spec       *DeclSpec
	Declarator *Declarator

	// Resolved is filled in by the analyzer once it has resolved Spec and
	// Declarator against the current scope's typedefs and tags; downstream
	// consumers (the constant-expression evaluator's sizeof(type) case)
	// read it instead of re-resolving declarator chains themselves.
	Resolved ctype.Type
}
