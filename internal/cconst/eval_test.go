package cconst

import (
	"testing"

	"github.com/ripleymj/ecc/internal/cast"
	"github.com/ripleymj/ecc/internal/ctype"
	"github.com/ripleymj/ecc/internal/symtab"
)

func intLit(v uint64) *cast.Expr {
	return &cast.Expr{Data: &cast.EIntLiteral{Value: v}}
}

func TestEvalIntegerArithmetic(t *testing.T) {
	table := symtab.NewTable()
	e := &cast.Expr{Data: &cast.EBinary{
		Op:   cast.BinAdd,
		Left: intLit(2),
		Right: &cast.Expr{Data: &cast.EBinary{
			Op:    cast.BinMul,
			Left:  intLit(3),
			Right: intLit(4),
		}},
	}}
	v, err := Eval(e, table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != KindInteger || v.Int != 14 {
		t.Fatalf("got %+v, want integer 14", v)
	}
}

func TestEvalDivisionByZeroErrors(t *testing.T) {
	table := symtab.NewTable()
	e := &cast.Expr{Data: &cast.EBinary{Op: cast.BinDiv, Left: intLit(1), Right: intLit(0)}}
	if _, err := Eval(e, table); err == nil {
		t.Fatalf("expected division by zero to fail")
	}
}

func TestEvalAddressConstantOfStaticObject(t *testing.T) {
	table := symtab.NewTable()
	ref := table.NewSymbol("g", symtab.Ordinary, ctype.Basic(ctype.TInt))
	sym := table.Get(ref)
	sym.StorageDuration = symtab.Static

	e := &cast.Expr{Data: &cast.EUnary{Op: cast.UnAddr, Operand: &cast.Expr{Data: &cast.EIdent{Name: "g", Ref: ref}}}}
	v, err := Eval(e, table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Kind != KindAddress || v.Target != ref || v.Addend != 0 {
		t.Fatalf("got %+v, want address constant targeting g", v)
	}
}

func TestEvalAddressOfAutomaticObjectFails(t *testing.T) {
	table := symtab.NewTable()
	ref := table.NewSymbol("x", symtab.Ordinary, ctype.Basic(ctype.TInt))
	sym := table.Get(ref)
	sym.StorageDuration = symtab.Automatic

	e := &cast.Expr{Data: &cast.EUnary{Op: cast.UnAddr, Operand: &cast.Expr{Data: &cast.EIdent{Name: "x", Ref: ref}}}}
	if _, err := Eval(e, table); err == nil {
		t.Fatalf("expected address-of an automatic object to fail")
	}
}

func TestConvertIntTruncatesModuloWidth(t *testing.T) {
	v := Value{Kind: KindInteger, IntClass: IntInt, Int: 0x1FF}
	got := ConvertInt(v, IntUChar)
	if got.Int != 0xFF {
		t.Fatalf("got %#x, want 0xff", got.Int)
	}
}

func TestBytesRoundTripsLittleEndian(t *testing.T) {
	v := Value{Kind: KindInteger, IntClass: IntInt, Int: 0x04030201}
	b := Bytes(v, 4)
	want := []byte{0x01, 0x02, 0x03, 0x04}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("got %v, want %v", b, want)
		}
	}
}

func TestEvalConditionalPicksBranchByZeroness(t *testing.T) {
	table := symtab.NewTable()
	e := &cast.Expr{Data: &cast.ECond{Cond: intLit(0), Then: intLit(1), Else: intLit(2)}}
	v, err := Eval(e, table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Int != 2 {
		t.Fatalf("got %d, want 2 (else branch)", v.Int)
	}
}
