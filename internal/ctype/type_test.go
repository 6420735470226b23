package ctype

import "testing"

func TestStructSizeAndAlignment(t *testing.T) {
	// struct { int a, b, c; } -> size 12, align 4 (spec §8 scenario 2)
	rec := Record("", []Member{
		{Name: "a", Type: Basic(TInt)},
		{Name: "b", Type: Basic(TInt)},
		{Name: "c", Type: Basic(TInt)},
	}, false)
	if got := rec.Size(); got != 12 {
		t.Fatalf("size = %d, want 12", got)
	}
	if got := rec.Align(); got != 4 {
		t.Fatalf("align = %d, want 4", got)
	}
}

func TestStructPaddingBetweenMembers(t *testing.T) {
	// struct { char c; int i; } -> padding after c, size 8, align 4
	rec := Record("", []Member{
		{Name: "c", Type: Basic(TChar)},
		{Name: "i", Type: Basic(TInt)},
	}, false)
	laid := rec.Layout()
	if laid.Members[0].Offset != 0 {
		t.Fatalf("c offset = %d, want 0", laid.Members[0].Offset)
	}
	if laid.Members[1].Offset != 4 {
		t.Fatalf("i offset = %d, want 4", laid.Members[1].Offset)
	}
	if got := rec.Size(); got != 8 {
		t.Fatalf("size = %d, want 8", got)
	}
}

func TestUnionSizeIsMaxMember(t *testing.T) {
	u := Record("", []Member{
		{Name: "i", Type: Basic(TInt)},
		{Name: "d", Type: Basic(TDouble)},
	}, true)
	if got := u.Size(); got != 8 {
		t.Fatalf("size = %d, want 8", got)
	}
	if got := u.Align(); got != 8 {
		t.Fatalf("align = %d, want 8", got)
	}
}

func TestIncompleteArraySizeIsNegativeOne(t *testing.T) {
	arr := ArrayUnsized(Basic(TInt))
	if got := arr.Size(); got != -1 {
		t.Fatalf("size = %d, want -1", got)
	}
}

func TestFlexibleArrayMemberDetection(t *testing.T) {
	rec := Record("", []Member{
		{Name: "len", Type: Basic(TInt)},
		{Name: "data", Type: ArrayUnsized(Basic(TChar))},
	}, false)
	if !rec.HasFlexibleArrayMember() {
		t.Fatal("expected flexible array member")
	}
	if got := rec.Size(); got != 4 {
		t.Fatalf("size = %d, want 4 (flexible member contributes 0 bytes)", got)
	}
}

func TestUsualArithmeticConversionsIntAndUnsignedInt(t *testing.T) {
	result := UsualArithmeticConversions(Basic(TInt), Basic(TUInt))
	if result.Class != TUInt {
		t.Fatalf("class = %v, want TUInt", result.Class)
	}
}

func TestUsualArithmeticConversionsPromotesCharToInt(t *testing.T) {
	result := UsualArithmeticConversions(Basic(TChar), Basic(TChar))
	if result.Class != TInt {
		t.Fatalf("class = %v, want TInt (char+char promotes before combining)", result.Class)
	}
}

func TestUsualArithmeticConversionsFloatDominates(t *testing.T) {
	result := UsualArithmeticConversions(Basic(TInt), Basic(TDouble))
	if result.Class != TDouble {
		t.Fatalf("class = %v, want TDouble", result.Class)
	}
}

func TestCompatibleArrayComposesKnownLength(t *testing.T) {
	unknown := ArrayUnsized(Basic(TInt))
	known := ArraySized(Basic(TInt), 10)
	if !CompatibleIgnoringQualifiers(unknown, known) {
		t.Fatal("expected compatible")
	}
	composite, ok := Composite(unknown, known)
	if !ok || !composite.HasLength || composite.Length != 10 {
		t.Fatalf("composite = %+v, ok = %v", composite, ok)
	}
}

func TestPointerCompatibilityRequiresExactQualifiers(t *testing.T) {
	a := Pointer(Basic(TInt).WithQualifiers(Const))
	b := Pointer(Basic(TInt))
	if Compatible(a, b) {
		t.Fatal("pointers to differently-qualified pointees must not be compatible")
	}
	if CompatibleIgnoringQualifiers(a, b) {
		t.Fatal("pointee qualifiers are compared even when the outer qualifier set is ignored")
	}
}

func TestDistinctCharClassesAreNotCompatible(t *testing.T) {
	if CompatibleIgnoringQualifiers(Basic(TChar), Basic(TSChar)) {
		t.Fatal("plain char and signed char are distinct types")
	}
}
