package cconst

import (
	"fmt"

	"github.com/ripleymj/ecc/internal/cast"
	"github.com/ripleymj/ecc/internal/ctype"
	"github.com/ripleymj/ecc/internal/symtab"
)

// Eval evaluates e as a constant expression. table resolves EIdent
// occurrences to their symbol (an enumeration constant's value, or a
// static-duration object for address-constant formation).
func Eval(e *cast.Expr, table *symtab.Table) (Value, error) {
	if e == nil {
		return Value{}, fmt.Errorf("constant expression: nil operand")
	}
	switch d := e.Data.(type) {
	case *cast.EIntLiteral:
		return Value{Kind: KindInteger, IntClass: intLiteralClass(d), Int: d.Value}, nil

	case *cast.ECharLiteral:
		return Value{Kind: KindInteger, IntClass: IntInt, Int: uint64(uint32(d.Value))}, nil

	case *cast.EFloatLiteral:
		return Value{Kind: KindFloat, Float: d.Value, IsSingle: d.IsSingle}, nil

	case *cast.EStringLiteral:
		return Value{}, fmt.Errorf("string literal is an address constant, not a scalar constant")

	case *cast.EIdent:
		return evalIdent(d, table)

	case *cast.ESizeofType:
		return sizeofConstant(d.TargetType.Resolved)

	case *cast.ESizeofExpr:
		if d.Operand.Type.Class == ctype.TError {
			return Value{}, fmt.Errorf("sizeof operand failed to analyze")
		}
		return sizeofConstant(d.Operand.Type)

	case *cast.EUnary:
		return evalUnary(d, e, table)

	case *cast.EBinary:
		return evalBinary(d, table)

	case *cast.ECond:
		cond, err := Eval(d.Cond, table)
		if err != nil {
			return Value{}, err
		}
		if !isZeroScalar(cond) {
			return Eval(d.Then, table)
		}
		return Eval(d.Else, table)

	case *cast.ECast:
		return evalCast(d, e, table)

	case *cast.ECompoundLiteral:
		return Value{Kind: KindAddress, Target: d.Ref}, nil

	case *cast.EComma:
		return Value{}, fmt.Errorf("comma expression is not a constant expression")

	default:
		return Value{}, fmt.Errorf("not a constant expression")
	}
}

func intLiteralClass(d *cast.EIntLiteral) IntClass {
	switch {
	case d.IsLLong && d.Unsigned:
		return IntULongLong
	case d.IsLLong:
		return IntLongLong
	case d.IsLong && d.Unsigned:
		return IntULong
	case d.IsLong:
		return IntLong
	case d.Unsigned:
		return IntUInt
	default:
		return IntInt
	}
}

// evalIdent forms an address constant from a bare identifier reference.
// Enumeration constants never reach here: the analyzer resolves an
// enumerator occurrence directly to its already-computed Value (cached on
// the declaring EnumConstantDecl when its EnumSpec was analyzed), since an
// enumerator has no storage duration to form an address from.
func evalIdent(d *cast.EIdent, table *symtab.Table) (Value, error) {
	sym := table.Get(d.Ref)
	if sym == nil {
		return Value{}, fmt.Errorf("%q does not resolve to a symbol", d.Name)
	}
	if sym.StorageDuration != symtab.Static {
		return Value{}, fmt.Errorf("%q does not have static storage duration", d.Name)
	}
	return Value{Kind: KindAddress, Target: d.Ref}, nil
}

func sizeofConstant(t ctype.Type) (Value, error) {
	sz := t.Size()
	if sz < 0 {
		return Value{}, fmt.Errorf("sizeof of an incomplete type is not a constant expression")
	}
	return Value{Kind: KindInteger, IntClass: IntULong, Int: uint64(sz)}, nil
}

func evalUnary(d *cast.EUnary, e *cast.Expr, table *symtab.Table) (Value, error) {
	switch d.Op {
	case cast.UnAddr:
		return evalAddressOf(d.Operand, table)
	case cast.UnPlus:
		return Eval(d.Operand, table)
	case cast.UnMinus:
		v, err := Eval(d.Operand, table)
		if err != nil {
			return Value{}, err
		}
		if v.Kind == KindFloat {
			v.Float = -v.Float
			return v, nil
		}
		if v.Kind != KindInteger {
			return Value{}, fmt.Errorf("unary - on a non-arithmetic constant")
		}
		v.Int = -v.Int
		return v, nil
	case cast.UnComplement:
		v, err := Eval(d.Operand, table)
		if err != nil {
			return Value{}, err
		}
		if v.Kind != KindInteger {
			return Value{}, fmt.Errorf("~ requires an integer constant")
		}
		v.Int = ^v.Int
		return v, nil
	case cast.UnNot:
		v, err := Eval(d.Operand, table)
		if err != nil {
			return Value{}, err
		}
		if isZeroScalar(v) {
			return Value{Kind: KindInteger, IntClass: IntInt, Int: 1}, nil
		}
		return Value{Kind: KindInteger, IntClass: IntInt, Int: 0}, nil
	}
	return Value{}, fmt.Errorf("operator is not valid in a constant expression")
}

// evalAddressOf forms an address constant from `&operand` (spec §4.3: "an
// address constant ... or `&`-of same, with optional pointer arithmetic by
// integer constant").
func evalAddressOf(operand *cast.Expr, table *symtab.Table) (Value, error) {
	switch d := operand.Data.(type) {
	case *cast.EIdent:
		sym := table.Get(d.Ref)
		if sym == nil || sym.StorageDuration != symtab.Static {
			return Value{}, fmt.Errorf("&%s: operand does not have static storage duration", d.Name)
		}
		return Value{Kind: KindAddress, Target: d.Ref}, nil
	case *cast.ECompoundLiteral:
		return Value{Kind: KindAddress, Target: d.Ref}, nil
	case *cast.ESubscript:
		base, err := evalAddressOf(d.Array, table)
		if err != nil {
			return Value{}, err
		}
		idx, err := Eval(d.Index, table)
		if err != nil || idx.Kind != KindInteger {
			return Value{}, fmt.Errorf("&a[i]: index is not an integer constant")
		}
		elemSize := int64(1)
		if operand.Type.Class != ctype.TError {
			elemSize = maxInt64(1, operand.Type.Size())
		}
		base.Addend += idx.Int64() * elemSize
		return base, nil
	case *cast.EUnary:
		if d.Op == cast.UnDeref {
			return Eval(d.Operand, table)
		}
	}
	return Value{}, fmt.Errorf("operand of & is not an address constant")
}

func evalBinary(d *cast.EBinary, table *symtab.Table) (Value, error) {
	l, err := Eval(d.Left, table)
	if err != nil {
		return Value{}, err
	}
	r, err := Eval(d.Right, table)
	if err != nil {
		return Value{}, err
	}

	if l.Kind == KindAddress || r.Kind == KindAddress {
		return evalAddressArithmetic(d.Op, l, r)
	}
	if l.Kind == KindFloat || r.Kind == KindFloat {
		return evalFloatBinary(d.Op, toFloat(l), toFloat(r))
	}
	return evalIntBinary(d.Op, l, r)
}

func toFloat(v Value) float64 {
	if v.Kind == KindFloat {
		return v.Float
	}
	return float64(v.Int64())
}

func evalFloatBinary(op cast.BinaryOp, l, r float64) (Value, error) {
	mk := func(f float64) (Value, error) { return Value{Kind: KindFloat, Float: f}, nil }
	mkBool := func(b bool) (Value, error) {
		if b {
			return Value{Kind: KindInteger, IntClass: IntInt, Int: 1}, nil
		}
		return Value{Kind: KindInteger, IntClass: IntInt, Int: 0}, nil
	}
	switch op {
	case cast.BinAdd:
		return mk(l + r)
	case cast.BinSub:
		return mk(l - r)
	case cast.BinMul:
		return mk(l * r)
	case cast.BinDiv:
		return mk(l / r)
	case cast.BinLt:
		return mkBool(l < r)
	case cast.BinLe:
		return mkBool(l <= r)
	case cast.BinGt:
		return mkBool(l > r)
	case cast.BinGe:
		return mkBool(l >= r)
	case cast.BinEq:
		return mkBool(l == r)
	case cast.BinNe:
		return mkBool(l != r)
	}
	return Value{}, fmt.Errorf("operator not valid on floating constants")
}

func evalIntBinary(op cast.BinaryOp, l, r Value) (Value, error) {
	cls := wideIntClass(l.IntClass, r.IntClass)
	lv, rv := ConvertInt(l, cls), ConvertInt(r, cls)
	unsigned := !classSigned[cls]

	mkInt := func(x uint64) (Value, error) { return Value{Kind: KindInteger, IntClass: cls, Int: x}, nil }
	mkBool := func(b bool) (Value, error) {
		if b {
			return Value{Kind: KindInteger, IntClass: IntInt, Int: 1}, nil
		}
		return Value{Kind: KindInteger, IntClass: IntInt, Int: 0}, nil
	}

	switch op {
	case cast.BinAdd:
		return mkInt(lv.Int + rv.Int)
	case cast.BinSub:
		return mkInt(lv.Int - rv.Int)
	case cast.BinMul:
		return mkInt(lv.Int * rv.Int)
	case cast.BinDiv:
		if rv.Int == 0 {
			return Value{}, fmt.Errorf("division by zero in a constant expression")
		}
		if unsigned {
			return mkInt(lv.Int / rv.Int)
		}
		return mkInt(uint64(lv.Int64() / rv.Int64()))
	case cast.BinMod:
		if rv.Int == 0 {
			return Value{}, fmt.Errorf("division by zero in a constant expression")
		}
		if unsigned {
			return mkInt(lv.Int % rv.Int)
		}
		return mkInt(uint64(lv.Int64() % rv.Int64()))
	case cast.BinShl:
		return mkInt(lv.Int << uint(rv.Int&63))
	case cast.BinShr:
		if unsigned {
			return mkInt(lv.Int >> uint(rv.Int&63))
		}
		return mkInt(uint64(lv.Int64() >> uint(rv.Int&63)))
	case cast.BinBitAnd:
		return mkInt(lv.Int & rv.Int)
	case cast.BinBitXor:
		return mkInt(lv.Int ^ rv.Int)
	case cast.BinBitOr:
		return mkInt(lv.Int | rv.Int)
	case cast.BinLogAnd:
		return mkBool(!isZeroScalar(l) && !isZeroScalar(r))
	case cast.BinLogOr:
		return mkBool(!isZeroScalar(l) || !isZeroScalar(r))
	case cast.BinLt:
		if unsigned {
			return mkBool(lv.Int < rv.Int)
		}
		return mkBool(lv.Int64() < rv.Int64())
	case cast.BinLe:
		if unsigned {
			return mkBool(lv.Int <= rv.Int)
		}
		return mkBool(lv.Int64() <= rv.Int64())
	case cast.BinGt:
		if unsigned {
			return mkBool(lv.Int > rv.Int)
		}
		return mkBool(lv.Int64() > rv.Int64())
	case cast.BinGe:
		if unsigned {
			return mkBool(lv.Int >= rv.Int)
		}
		return mkBool(lv.Int64() >= rv.Int64())
	case cast.BinEq:
		return mkBool(lv.Int == rv.Int)
	case cast.BinNe:
		return mkBool(lv.Int != rv.Int)
	}
	return Value{}, fmt.Errorf("operator not valid on integer constants")
}

// evalAddressArithmetic handles `address ± integer` and `integer + address`
// (spec §4.3: "optional pointer arithmetic by integer constant").
func evalAddressArithmetic(op cast.BinaryOp, l, r Value) (Value, error) {
	if l.Kind == KindAddress && r.Kind == KindInteger && op == cast.BinAdd {
		l.Addend += r.Int64()
		return l, nil
	}
	if l.Kind == KindInteger && r.Kind == KindAddress && op == cast.BinAdd {
		r.Addend += l.Int64()
		return r, nil
	}
	if l.Kind == KindAddress && r.Kind == KindInteger && op == cast.BinSub {
		l.Addend -= r.Int64()
		return l, nil
	}
	return Value{}, fmt.Errorf("address constants only support +/- by an integer constant")
}

func evalCast(d *cast.ECast, e *cast.Expr, table *symtab.Table) (Value, error) {
	v, err := Eval(d.Operand, table)
	if err != nil {
		return Value{}, err
	}
	if e.Type.Class == ctype.TError {
		return Value{}, fmt.Errorf("cast target type failed to analyze")
	}
	return convertTo(v, e.Type)
}

func convertTo(v Value, t ctype.Type) (Value, error) {
	switch {
	case t.IsSSEFloating():
		if v.Kind == KindFloat {
			return Value{Kind: KindFloat, Float: v.Float, IsSingle: t.Class == ctype.TFloat}, nil
		}
		return Value{Kind: KindFloat, Float: float64(v.Int64()), IsSingle: t.Class == ctype.TFloat}, nil
	case t.IsInteger():
		if v.Kind == KindFloat {
			return Value{Kind: KindInteger, IntClass: classOf(t), Int: uint64(int64(v.Float))}, nil
		}
		return ConvertInt(v, classOf(t)), nil
	case t.Class == ctype.TPointer:
		if v.Kind == KindAddress {
			return v, nil
		}
		if v.Kind == KindInteger && v.Int == 0 {
			return Value{Kind: KindAddress}, nil
		}
		return Value{}, fmt.Errorf("cast to pointer is not a constant expression unless the operand is an address constant or null")
	}
	return Value{}, fmt.Errorf("cast target class is not valid in a constant expression")
}

func classOf(t ctype.Type) IntClass {
	switch t.Class {
	case ctype.TBool:
		return IntBool
	case ctype.TChar:
		return IntChar
	case ctype.TSChar:
		return IntSChar
	case ctype.TUChar:
		return IntUChar
	case ctype.TShort:
		return IntShort
	case ctype.TUShort:
		return IntUShort
	case ctype.TInt, ctype.TEnum:
		return IntInt
	case ctype.TUInt:
		return IntUInt
	case ctype.TLong:
		return IntLong
	case ctype.TULong:
		return IntULong
	case ctype.TLongLong:
		return IntLongLong
	case ctype.TULongLong:
		return IntULongLong
	}
	return IntInt
}

// wideIntClass picks the wider of two integer classes, breaking ties toward
// the unsigned class — a simplified stand-in for the analyzer's full usual
// arithmetic conversions (internal/ctype.UsualArithmeticConversions), which
// is not reachable here because cconst operates on raw IntClass values
// rather than ctype.Type. A folded binary operation's result class is
// chosen from its operands' IntClasses by this function alone.
func wideIntClass(a, b IntClass) IntClass {
	if widthBits[a] != widthBits[b] {
		if widthBits[a] > widthBits[b] {
			return a
		}
		return b
	}
	if !classSigned[a] {
		return a
	}
	return b
}

func isZeroScalar(v Value) bool {
	switch v.Kind {
	case KindInteger:
		return v.Int == 0
	case KindFloat:
		return v.Float == 0
	case KindAddress:
		return false
	}
	return true
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
