package ctype

// IsInteger reports whether t's class is one of the integer types (including
// _Bool and the three character classes), per spec §4.1's "integer" class
// test.
func (t Type) IsInteger() bool {
	switch t.Class {
	case TBool, TChar, TSChar, TUChar, TShort, TUShort, TInt, TUInt, TLong, TULong, TLongLong, TULongLong, TEnum:
		return true
	}
	return false
}

// IsReal reports whether t is float or double. long double is recognized by
// class but treated as unsupported elsewhere (spec §1 Non-goal).
func (t Type) IsReal() bool {
	switch t.Class {
	case TFloat, TDouble, TLongDouble:
		return true
	}
	return false
}

// IsSSEFloating reports whether t is held in an XMM register under the
// System-V ABI: float or double only (spec §4.1, glossary "SSE floating").
func (t Type) IsSSEFloating() bool {
	return t.Class == TFloat || t.Class == TDouble
}

// IsArithmetic reports whether t is an integer or floating type.
func (t Type) IsArithmetic() bool {
	return t.IsInteger() || t.IsReal()
}

// IsScalar reports whether t is arithmetic or a pointer.
func (t Type) IsScalar() bool {
	return t.IsArithmetic() || t.Class == TPointer
}

// IsObject reports whether t denotes an object type: everything but function
// and (incomplete) void types are objects; spec uses this to gate pointer
// arithmetic ("object-typed pointers").
func (t Type) IsObject() bool {
	return t.Class != TFunction && t.Class != TVoid
}

// IsComplete reports whether t has a determinable size: not void, not an
// incomplete array, not a forward-declared (empty-member) struct/union.
func (t Type) IsComplete() bool {
	switch t.Class {
	case TVoid:
		return false
	case TArray:
		return t.HasLength
	case TStruct, TUnion:
		return t.Members != nil
	}
	return true
}

// IsCharacterType reports whether t is one of the three character classes,
// used by the char-array-from-string-literal initializer rule (spec §4.5).
func (t Type) IsCharacterType() bool {
	return t.Class == TChar || t.Class == TSChar || t.Class == TUChar
}

// IsUnsigned reports whether t's integer representation is unsigned.
func (t Type) IsUnsigned() bool {
	switch t.Class {
	case TBool, TUChar, TUShort, TUInt, TULong, TULongLong:
		return true
	}
	return false
}

// IsNullPointerConstantCandidateType reports whether t is an integer type or
// a qualifier-free void pointer, the two shapes a null-pointer constant may
// carry (spec §4.5's "Null-pointer constant" recognition is completed by the
// analyzer, which additionally checks the value is a zero constant).
func (t Type) IsNullPointerConstantCandidateType() bool {
	if t.IsInteger() {
		return true
	}
	return t.Class == TPointer && t.Base != nil && t.Base.Class == TVoid && t.Base.Qualifiers == 0
}

// integerConversionRank implements the standard's integer conversion rank
// ordering (spec §4.1). Higher rank converts lower rank in the usual
// arithmetic conversions. Signed/unsigned pairs share a rank; _Bool has the
// lowest rank; char/signed char/unsigned char share a rank above _Bool.
func (t Type) integerConversionRank() int {
	switch t.Class {
	case TBool:
		return 0
	case TChar, TSChar, TUChar:
		return 1
	case TShort, TUShort:
		return 2
	case TInt, TUInt, TEnum:
		return 3
	case TLong, TULong:
		return 4
	case TLongLong, TULongLong:
		return 5
	}
	return -1
}

// IntegerConversionRank exposes the rank for external callers (e.g. the
// constant evaluator choosing a conversion target).
func (t Type) IntegerConversionRank() int { return t.integerConversionRank() }

// IntegerPromotion implements spec §4.1's integer promotions: _Bool, char,
// short (signed or unsigned) widen to int, or to unsigned int if int cannot
// represent every value of the source type. On this target (32-bit int,
// 16-bit short, 8-bit char) every narrower type fits in int, so promotion
// always lands on plain int; wider types and int itself are unaffected.
func (t Type) IntegerPromotion() Type {
	if t.integerConversionRank() < integerConversionRank(TInt) {
		return Basic(TInt).WithQualifiers(0)
	}
	return t.Unqualified()
}

func integerConversionRank(c Class) int {
	return Type{Class: c}.integerConversionRank()
}

// UsualArithmeticConversions implements spec §4.1/§4.5's UAC: the common
// type chosen for a binary arithmetic operator's operands.
func UsualArithmeticConversions(a, b Type) Type {
	// Floating types dominate; the wider of the two floating classes wins.
	if a.IsReal() || b.IsReal() {
		return higherFloatRank(a, b)
	}

	pa, pb := a.IntegerPromotion(), b.IntegerPromotion()

	if pa.Class == pb.Class {
		return pa.Unqualified()
	}
	ra, rb := pa.integerConversionRank(), pb.integerConversionRank()

	// Same signedness (after promotion, Bool/Char already gone): higher rank wins.
	if pa.IsUnsigned() == pb.IsUnsigned() {
		if ra >= rb {
			return pa.Unqualified()
		}
		return pb.Unqualified()
	}

	// Mixed signedness: the unsigned operand wins if its rank is >= the
	// signed operand's rank. Otherwise the signed type wins if it is wider
	// than the unsigned type (and so can represent every value of it, e.g.
	// long vs unsigned int); failing that, both convert to the unsigned
	// counterpart of the signed operand's type (e.g. long long vs unsigned
	// long, which are the same width).
	var signed, unsigned Type
	if pa.IsUnsigned() {
		unsigned, signed = pa, pb
	} else {
		unsigned, signed = pb, pa
	}
	if unsigned.integerConversionRank() >= signed.integerConversionRank() {
		return unsigned.Unqualified()
	}
	if signed.Size() > unsigned.Size() {
		return signed.Unqualified()
	}
	return unsignedCounterpart(signed).Unqualified()
}

func unsignedCounterpart(t Type) Type {
	switch t.Class {
	case TInt:
		return Basic(TUInt)
	case TLong:
		return Basic(TULong)
	case TLongLong:
		return Basic(TULongLong)
	}
	return t
}

func higherFloatRank(a, b Type) Type {
	rank := func(t Type) int {
		switch t.Class {
		case TLongDouble:
			return 3
		case TDouble:
			return 2
		case TFloat:
			return 1
		}
		return 0 // integer operand: always loses to whichever operand is floating
	}
	if !a.IsReal() {
		return Basic(b.Class)
	}
	if !b.IsReal() {
		return Basic(a.Class)
	}
	if rank(a) >= rank(b) {
		return Basic(a.Class)
	}
	return Basic(b.Class)
}
