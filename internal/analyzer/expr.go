package analyzer

import (
	"github.com/ripleymj/ecc/internal/cast"
	"github.com/ripleymj/ecc/internal/cconst"
	"github.com/ripleymj/ecc/internal/ctype"
	"github.com/ripleymj/ecc/internal/symtab"
)

// evalConst evaluates e as a constant expression against the analyzer's
// symbol table (spec §4.3).
func (a *Analyzer) evalConst(e *cast.Expr) (cconst.Value, error) {
	return cconst.Eval(e, a.Table)
}

// IsNullPointerConstant recognizes an integer constant expression equal to
// zero, optionally cast to `void*` with no qualifiers (spec §4.5).
func (a *Analyzer) IsNullPointerConstant(e *cast.Expr) bool {
	if e == nil {
		return false
	}
	if c, ok := e.Data.(*cast.ECast); ok {
		if e.Type.Class == ctype.TPointer && e.Type.Base != nil && e.Type.Base.Class == ctype.TVoid && e.Type.Qualifiers == 0 {
			return a.IsNullPointerConstant(c.Operand)
		}
		return false
	}
	if !e.Type.IsInteger() {
		return false
	}
	v, err := a.evalConst(e)
	if err != nil {
		return false
	}
	return v.IsZero()
}

// AnalyzeExpr types e and all its sub-expressions via a single post-order
// traversal (spec §4.5: "Expression typing").
func (a *Analyzer) AnalyzeExpr(e *cast.Expr) {
	if e == nil {
		return
	}
	switch d := e.Data.(type) {
	case *cast.EIntLiteral:
		e.Type = intLiteralType(d)
	case *cast.EFloatLiteral:
		if d.IsSingle {
			e.Type = ctype.Basic(ctype.TFloat)
		} else {
			e.Type = ctype.Basic(ctype.TDouble)
		}
	case *cast.ECharLiteral:
		e.Type = ctype.Basic(ctype.TInt)
	case *cast.EStringLiteral:
		elem := ctype.TChar
		if d.Wide {
			elem = ctype.TInt
		}
		e.Type = ctype.ArraySized(ctype.Basic(elem), int64(len(d.Value)+1))
		e.IsLValue = true
	case *cast.EIdent:
		a.analyzeIdentRef(e, d)
	case *cast.ECompoundLiteral:
		a.analyzeCompoundLiteral(e, d)
	case *cast.EUnary:
		a.analyzeUnary(e, d)
	case *cast.EBinary:
		a.analyzeBinary(e, d)
	case *cast.EAssign:
		a.analyzeAssign(e, d)
	case *cast.ECond:
		a.analyzeCond(e, d)
	case *cast.ECast:
		a.analyzeCast(e, d)
	case *cast.ESizeofExpr:
		a.analyzeSizeofExpr(e, d)
	case *cast.ESizeofType:
		a.analyzeSizeofType(e, d)
	case *cast.ESubscript:
		a.analyzeSubscript(e, d)
	case *cast.EMember:
		a.analyzeMember(e, d)
	case *cast.ECall:
		a.analyzeCall(e, d)
	case *cast.EComma:
		a.AnalyzeExpr(d.Left)
		a.AnalyzeExpr(d.Right)
		e.Type = decay(d.Right.Type)
		e.IsLValue = false
	default:
		e.Type = errorType()
	}
}

func intLiteralType(d *cast.EIntLiteral) ctype.Type {
	switch {
	case d.IsLLong && d.Unsigned:
		return ctype.Basic(ctype.TULongLong)
	case d.IsLLong:
		return ctype.Basic(ctype.TLongLong)
	case d.IsLong && d.Unsigned:
		return ctype.Basic(ctype.TULong)
	case d.IsLong:
		return ctype.Basic(ctype.TLong)
	case d.Unsigned:
		return ctype.Basic(ctype.TUInt)
	default:
		return ctype.Basic(ctype.TInt)
	}
}

// decay implements array-to-pointer and function-to-pointer decay (spec
// glossary, applied whenever an lvalue-context qualifier-stripping rule
// does not apply, e.g. as a referencing identifier's type or a
// sub-expression result).
func decay(t ctype.Type) ctype.Type {
	switch t.Class {
	case ctype.TArray:
		return ctype.Pointer(t.Base.WithQualifiers(t.Qualifiers))
	case ctype.TFunction:
		return ctype.Pointer(t)
	}
	return t
}

// stripQualifiersOutsideLvalue clears qualifiers on a non-lvalue result,
// the rule spec §4.5 calls out for subscript and identifier reference
// results ("qualifiers dropped outside lvalue context").
func stripQualifiersOutsideLvalue(t ctype.Type, isLValue bool) ctype.Type {
	if isLValue {
		return t
	}
	return t.Unqualified()
}

func (a *Analyzer) analyzeIdentRef(e *cast.Expr, d *cast.EIdent) {
	ref, ok := a.Table.Lookup(a.scope, symtab.Ordinary, d.Name)
	if !ok {
		a.errorf(e.Loc, "%q undeclared", d.Name)
		e.Type = errorType()
		return
	}
	d.Ref = ref
	sym := a.Table.Get(ref)
	e.IsLValue = sym.Type.Class != ctype.TFunction && sym.Type.Class != ctype.TArray
	e.Type = decay(sym.Type)
}

func (a *Analyzer) analyzeCompoundLiteral(e *cast.Expr, d *cast.ECompoundLiteral) {
	t := a.resolveBaseType(d.TypeName.Spec)
	if d.TypeName.Declarator != nil {
		t = a.applyDeclaratorMods(t, d.TypeName.Declarator.Mods)
	}
	d.TypeName.Resolved = t
	name := a.Table.Namer().CompoundLiteral()
	ref := a.Table.NewSymbol(name, symtab.Ordinary, t)
	sym := a.Table.Get(ref)
	sym.StorageDuration = symtab.Static
	d.Ref = ref
	if d.Init != nil {
		a.elaborateInitializer(d.Init, t)
		a.materializeStaticInit(ref, d.Init, t)
	}
	e.Type = t
	e.IsLValue = true
}
