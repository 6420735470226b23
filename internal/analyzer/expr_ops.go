package analyzer

import (
	"github.com/ripleymj/ecc/internal/cast"
	"github.com/ripleymj/ecc/internal/ctype"
)

func (a *Analyzer) analyzeUnary(e *cast.Expr, d *cast.EUnary) {
	a.AnalyzeExpr(d.Operand)
	op := d.Operand

	switch d.Op {
	case cast.UnAddr:
		a.analyzeAddrOf(e, op)
	case cast.UnDeref:
		if op.Type.Class != ctype.TPointer {
			a.errorf(e.Loc, "indirection requires pointer operand")
			e.Type = errorType()
			return
		}
		e.Type = *op.Type.Base
		e.IsLValue = true
	case cast.UnPlus, cast.UnMinus:
		if !op.Type.IsArithmetic() {
			a.errorf(e.Loc, "unary %s requires an arithmetic operand", unaryOpName(d.Op))
			e.Type = errorType()
			return
		}
		e.Type = promoteArith(op.Type)
	case cast.UnComplement:
		if !op.Type.IsInteger() {
			a.errorf(e.Loc, "~ requires an integer operand")
			e.Type = errorType()
			return
		}
		e.Type = promoteArith(op.Type)
	case cast.UnNot:
		if !op.Type.IsScalar() {
			a.errorf(e.Loc, "! requires a scalar operand")
			e.Type = errorType()
			return
		}
		e.Type = ctype.Basic(ctype.TInt)
	case cast.UnPreInc, cast.UnPreDec, cast.UnPostInc, cast.UnPostDec:
		if !op.IsLValue {
			a.errorf(e.Loc, "increment/decrement requires a modifiable lvalue")
			e.Type = errorType()
			return
		}
		e.Type = op.Type.Unqualified()
	}
}

func unaryOpName(op cast.UnaryOp) string {
	switch op {
	case cast.UnPlus:
		return "+"
	case cast.UnMinus:
		return "-"
	}
	return "operator"
}

// promoteArith applies integer promotion to integer operands and leaves
// floating operands unchanged (spec §4.5's unary +/-/~ result rule).
func promoteArith(t ctype.Type) ctype.Type {
	if t.IsInteger() {
		return t.IntegerPromotion()
	}
	return t
}

// analyzeAddrOf implements unary & (spec §4.5): forbidden on bit-field
// members, register-declared objects, and non-lvalues other than function
// designators / `*e` / `e[i]`.
func (a *Analyzer) analyzeAddrOf(e *cast.Expr, operand *cast.Expr) {
	allowedNonLvalue := false
	switch d := operand.Data.(type) {
	case *cast.EUnary:
		allowedNonLvalue = d.Op == cast.UnDeref
	case *cast.ESubscript:
		allowedNonLvalue = true
	case *cast.EIdent:
		allowedNonLvalue = operand.Type.Class == ctype.TFunction
	}
	if !operand.IsLValue && !allowedNonLvalue {
		a.errorf(e.Loc, "cannot take the address of a non-lvalue")
		e.Type = errorType()
		return
	}
	if m, ok := operand.Data.(*cast.EMember); ok {
		_ = m
		if a.memberIsBitfield(operand) {
			a.errorf(e.Loc, "cannot take the address of a bit-field member")
			e.Type = errorType()
			return
		}
	}
	if a.operandUsesRegisterLvalue(operand) {
		a.errorf(e.Loc, "cannot request address of an object declared with the 'register' storage class specifier")
		e.Type = errorType()
		return
	}
	e.Type = ctype.Pointer(operand.Type)
}

func (a *Analyzer) memberIsBitfield(e *cast.Expr) bool {
	d, ok := e.Data.(*cast.EMember)
	if !ok {
		return false
	}
	agg := d.Target.Type
	if d.Arrow {
		if agg.Class != ctype.TPointer {
			return false
		}
		agg = *agg.Base
	}
	m, ok := agg.FindMember(d.Name)
	return ok && m.HasBitfield
}

// operandUsesRegisterLvalue walks the outermost &'s operand subtree for an
// lvalue use of a register-declared identifier (spec §9 open question,
// resolved: only the outermost &'s operand is scanned, so a nested `&x`
// inside the operand does not trigger a false positive from this outer
// walk - the nested & is checked independently when it is itself visited).
func (a *Analyzer) operandUsesRegisterLvalue(e *cast.Expr) bool {
	if e == nil {
		return false
	}
	switch d := e.Data.(type) {
	case *cast.EIdent:
		return a.registerVars[d.Ref]
	case *cast.EUnary:
		if d.Op == cast.UnAddr {
			// A nested address-of has its own independent check; do not
			// recurse into its operand from here.
			return false
		}
		return a.operandUsesRegisterLvalue(d.Operand)
	case *cast.ESubscript:
		return a.operandUsesRegisterLvalue(d.Array)
	case *cast.EMember:
		if d.Arrow {
			return false
		}
		return a.operandUsesRegisterLvalue(d.Target)
	case *cast.EComma:
		return a.operandUsesRegisterLvalue(d.Right)
	case *cast.ECond:
		return a.operandUsesRegisterLvalue(d.Then) || a.operandUsesRegisterLvalue(d.Else)
	}
	return false
}

func (a *Analyzer) analyzeBinary(e *cast.Expr, d *cast.EBinary) {
	a.AnalyzeExpr(d.Left)
	a.AnalyzeExpr(d.Right)
	l, r := d.Left, d.Right

	if l.Type.IsError() || r.Type.IsError() {
		e.Type = errorType()
		return
	}

	switch d.Op {
	case cast.BinMul, cast.BinDiv:
		if !l.Type.IsArithmetic() || !r.Type.IsArithmetic() {
			a.errorf(e.Loc, "operands of * or / must be arithmetic")
			e.Type = errorType()
			return
		}
		e.Type = ctype.UsualArithmeticConversions(l.Type, r.Type)
	case cast.BinMod, cast.BinBitAnd, cast.BinBitXor, cast.BinBitOr:
		if !l.Type.IsInteger() || !r.Type.IsInteger() {
			a.errorf(e.Loc, "operands must be integer")
			e.Type = errorType()
			return
		}
		e.Type = ctype.UsualArithmeticConversions(l.Type, r.Type)
	case cast.BinShl, cast.BinShr:
		if !l.Type.IsInteger() || !r.Type.IsInteger() {
			a.errorf(e.Loc, "shift operands must be integer")
			e.Type = errorType()
			return
		}
		e.Type = l.Type.IntegerPromotion()
	case cast.BinAdd:
		e.Type = a.analyzeAdditive(e, l, r, true)
	case cast.BinSub:
		e.Type = a.analyzeAdditive(e, l, r, false)
	case cast.BinLt, cast.BinLe, cast.BinGt, cast.BinGe, cast.BinEq, cast.BinNe:
		if !a.relationalOperandsOK(l.Type, r.Type) {
			a.errorf(e.Loc, "incompatible operands to relational/equality operator")
			e.Type = errorType()
			return
		}
		e.Type = ctype.Basic(ctype.TInt)
	case cast.BinLogAnd, cast.BinLogOr:
		if !l.Type.IsScalar() || !r.Type.IsScalar() {
			a.errorf(e.Loc, "operands of && or || must be scalar")
			e.Type = errorType()
			return
		}
		e.Type = ctype.Basic(ctype.TInt)
	}
}

func (a *Analyzer) relationalOperandsOK(l, r ctype.Type) bool {
	if l.IsArithmetic() && r.IsArithmetic() {
		return true
	}
	if l.Class == ctype.TPointer && r.Class == ctype.TPointer {
		return ctype.CompatibleIgnoringQualifiers(*l.Base, *r.Base)
	}
	if l.Class == ctype.TPointer && r.IsInteger() {
		return true
	}
	if r.Class == ctype.TPointer && l.IsInteger() {
		return true
	}
	return false
}

// analyzeAdditive implements +/- pointer-arithmetic and pointer-difference
// rules (spec §4.5: "pointer arithmetic allowed only with object-typed
// pointers and integer operands; pointer difference yields ptrdiff_t").
func (a *Analyzer) analyzeAdditive(e *cast.Expr, l, r *cast.Expr, isAdd bool) ctype.Type {
	switch {
	case l.Type.IsArithmetic() && r.Type.IsArithmetic():
		return ctype.UsualArithmeticConversions(l.Type, r.Type)
	case l.Type.Class == ctype.TPointer && r.Type.IsInteger() && l.Type.Base.IsObject():
		return l.Type
	case isAdd && r.Type.Class == ctype.TPointer && l.Type.IsInteger() && r.Type.Base.IsObject():
		return r.Type
	case !isAdd && l.Type.Class == ctype.TPointer && r.Type.Class == ctype.TPointer:
		if !ctype.CompatibleIgnoringQualifiers(*l.Type.Base, *r.Type.Base) {
			a.errorf(e.Loc, "pointer difference requires compatible pointee types")
			return errorType()
		}
		return ctype.Basic(ctype.TLong)
	}
	a.errorf(e.Loc, "invalid operands to binary %s", additiveOpName(isAdd))
	return errorType()
}

func additiveOpName(isAdd bool) string {
	if isAdd {
		return "+"
	}
	return "-"
}

func (a *Analyzer) analyzeAssign(e *cast.Expr, d *cast.EAssign) {
	a.AnalyzeExpr(d.Left)
	a.AnalyzeExpr(d.Right)
	l, r := d.Left, d.Right

	if !l.IsLValue {
		a.errorf(e.Loc, "assignment requires a modifiable lvalue")
		e.Type = errorType()
		return
	}
	if l.Type.Qualifiers.Has(ctype.Const) {
		a.errorf(e.Loc, "cannot assign to a const-qualified lvalue")
		e.Type = errorType()
		return
	}

	if bop, ok := d.Op.CompoundBinaryOp(); ok {
		switch bop {
		case cast.BinAdd, cast.BinSub:
			if l.Type.Class == ctype.TPointer {
				if !r.Type.IsInteger() {
					a.errorf(e.Loc, "pointer compound assignment requires an integer operand")
					e.Type = errorType()
					return
				}
			} else if !l.Type.IsArithmetic() || !r.Type.IsArithmetic() {
				a.errorf(e.Loc, "compound assignment requires arithmetic operands")
				e.Type = errorType()
				return
			}
		default:
			if !l.Type.IsArithmetic() || !r.Type.IsArithmetic() {
				a.errorf(e.Loc, "compound assignment requires arithmetic operands")
				e.Type = errorType()
				return
			}
		}
		e.Type = l.Type.Unqualified()
		return
	}

	if !a.CanAssign(l.Type, r.Type, r) {
		a.errorf(e.Loc, "incompatible types in assignment")
		e.Type = errorType()
		return
	}
	e.Type = l.Type.Unqualified()
}

// CanAssign implements the can_assign predicate (spec §4.5).
func (a *Analyzer) CanAssign(lhs, rhs ctype.Type, rhsExpr *cast.Expr) bool {
	if lhs.IsArithmetic() && rhs.IsArithmetic() {
		return true
	}
	if lhs.IsRecord() && rhs.IsRecord() {
		return ctype.CompatibleIgnoringQualifiers(lhs, rhs)
	}
	if lhs.Class == ctype.TPointer && rhs.Class == ctype.TPointer {
		if lhs.Base.Class == ctype.TVoid || rhs.Base.Class == ctype.TVoid {
			return lhs.Qualifiers.SupersetOf(rhs.Qualifiers)
		}
		return ctype.CompatibleIgnoringQualifiers(*lhs.Base, *rhs.Base) && lhs.Qualifiers.SupersetOf(rhs.Qualifiers)
	}
	if lhs.Class == ctype.TPointer && a.IsNullPointerConstant(rhsExpr) {
		return true
	}
	if lhs.Class == ctype.TBool && rhs.Class == ctype.TPointer {
		return true
	}
	return false
}

func (a *Analyzer) analyzeCond(e *cast.Expr, d *cast.ECond) {
	a.AnalyzeExpr(d.Cond)
	a.AnalyzeExpr(d.Then)
	a.AnalyzeExpr(d.Else)
	if !d.Cond.Type.IsScalar() {
		a.errorf(e.Loc, "condition of ?: must be scalar")
	}
	then, els := d.Then, d.Else

	switch {
	case then.Type.IsArithmetic() && els.Type.IsArithmetic():
		e.Type = ctype.UsualArithmeticConversions(then.Type, els.Type)
	case then.Type.IsRecord() && els.Type.IsRecord() && ctype.Compatible(then.Type, els.Type):
		e.Type = then.Type
	case then.Type.Class == ctype.TVoid && els.Type.Class == ctype.TVoid:
		e.Type = ctype.Basic(ctype.TVoid)
	case then.Type.Class == ctype.TPointer && els.Type.Class == ctype.TPointer:
		composite, ok := ctype.Composite(then.Type, els.Type)
		if !ok {
			a.errorf(e.Loc, "incompatible pointer types in ?:")
			e.Type = errorType()
			return
		}
		e.Type = composite
	case then.Type.Class == ctype.TPointer && a.IsNullPointerConstant(els):
		e.Type = then.Type
	case els.Type.Class == ctype.TPointer && a.IsNullPointerConstant(then):
		e.Type = els.Type
	case then.Type.Class == ctype.TPointer && els.Type.Class == ctype.TPointer:
		e.Type = then.Type
	default:
		a.errorf(e.Loc, "incompatible operand types in ?:")
		e.Type = errorType()
	}
}

func (a *Analyzer) analyzeCast(e *cast.Expr, d *cast.ECast) {
	a.AnalyzeExpr(d.Operand)
	t := a.resolveBaseType(d.TargetType.Spec)
	if d.TargetType.Declarator != nil {
		t = a.applyDeclaratorMods(t, d.TargetType.Declarator.Mods)
	}
	d.TargetType.Resolved = t
	if t.Class != ctype.TVoid && !t.IsScalar() {
		a.errorf(e.Loc, "cast target type must be scalar or void")
		e.Type = errorType()
		return
	}
	e.Type = t
}

func (a *Analyzer) analyzeSizeofExpr(e *cast.Expr, d *cast.ESizeofExpr) {
	a.AnalyzeExpr(d.Operand)
	a.checkSizeofOperand(e, d.Operand.Type)
	e.Type = ctype.Basic(ctype.TULong)
}

func (a *Analyzer) analyzeSizeofType(e *cast.Expr, d *cast.ESizeofType) {
	t := a.resolveBaseType(d.TargetType.Spec)
	if d.TargetType.Declarator != nil {
		t = a.applyDeclaratorMods(t, d.TargetType.Declarator.Mods)
	}
	d.TargetType.Resolved = t
	a.checkSizeofOperand(e, t)
	e.Type = ctype.Basic(ctype.TULong)
}

func (a *Analyzer) checkSizeofOperand(e *cast.Expr, t ctype.Type) {
	if t.Class == ctype.TFunction {
		a.errorf(e.Loc, "sizeof applied to a function type")
	} else if !t.IsComplete() {
		a.errorf(e.Loc, "sizeof applied to an incomplete type")
	}
}

func (a *Analyzer) analyzeSubscript(e *cast.Expr, d *cast.ESubscript) {
	a.AnalyzeExpr(d.Array)
	a.AnalyzeExpr(d.Index)

	arr, idx := d.Array, d.Index
	if arr.Type.Class != ctype.TPointer && idx.Type.Class == ctype.TPointer {
		arr, idx = idx, arr
	}
	if arr.Type.Class != ctype.TPointer || !idx.Type.IsInteger() {
		a.errorf(e.Loc, "subscript requires (array|pointer, integer) operands")
		e.Type = errorType()
		return
	}
	e.Type = stripQualifiersOutsideLvalue(*arr.Type.Base, true)
	e.IsLValue = true
}

func (a *Analyzer) analyzeMember(e *cast.Expr, d *cast.EMember) {
	a.AnalyzeExpr(d.Target)
	agg := d.Target.Type
	targetIsLValue := d.Target.IsLValue
	if d.Arrow {
		if agg.Class != ctype.TPointer {
			a.errorf(e.Loc, "-> requires a pointer operand")
			e.Type = errorType()
			return
		}
		agg = *agg.Base
		targetIsLValue = true
	}
	if !agg.IsRecord() {
		a.errorf(e.Loc, "member reference requires a struct or union")
		e.Type = errorType()
		return
	}
	m, ok := agg.FindMember(d.Name)
	if !ok {
		a.errorf(e.Loc, "no member named %q", d.Name)
		e.Type = errorType()
		return
	}
	e.Type = m.Type.WithQualifiers(m.Type.Qualifiers.Union(agg.Qualifiers))
	e.IsLValue = targetIsLValue
}

func (a *Analyzer) analyzeCall(e *cast.Expr, d *cast.ECall) {
	a.AnalyzeExpr(d.Callee)
	for _, arg := range d.Args {
		a.AnalyzeExpr(arg)
	}
	fnType := d.Callee.Type
	if fnType.Class == ctype.TPointer {
		fnType = *fnType.Base
	}
	if fnType.Class != ctype.TFunction {
		a.errorf(e.Loc, "called object is not a function")
		e.Type = errorType()
		return
	}
	if fnType.HasPrototype {
		if !fnType.Variadic && len(d.Args) != len(fnType.Params) {
			a.errorf(e.Loc, "function called with wrong number of arguments")
		} else if fnType.Variadic && len(d.Args) < len(fnType.Params) {
			a.errorf(e.Loc, "function called with too few arguments")
		}
		for i, p := range fnType.Params {
			if i >= len(d.Args) {
				break
			}
			if !a.CanAssign(p, d.Args[i].Type, d.Args[i]) {
				a.errorf(d.Args[i].Loc, "argument %d has incompatible type", i+1)
			}
		}
	} else if ident, ok := d.Callee.Data.(*cast.EIdent); ok {
		if a.declaredFuncs[ident.Ref] {
			a.warnf(e.Loc, "call to %q has no visible prototype", ident.Name)
		}
	}
	e.Type = *fnType.Base
}
