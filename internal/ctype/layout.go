package ctype

// Target byte sizes/alignments for the System-V AMD64 ABI this backend
// targets exclusively (spec §4.6 is entirely x86-64-specific, so the type
// model is sized to match rather than being target-parametric).
const (
	sizeBool     = 1
	sizeChar     = 1
	sizeShort    = 2
	sizeInt      = 4
	sizeLong     = 8
	sizeLongLong = 8
	sizeFloat    = 4
	sizeDouble   = 8
	sizePointer  = 8
	sizeEnum     = 4 // spec §4.5: representable in int
)

// basicSizeAlign returns the size and alignment (equal, for every scalar
// type on this target) of a non-derived, non-aggregate class.
func basicSizeAlign(c Class) (int64, int64, bool) {
	switch c {
	case TVoid:
		return 0, 1, false // spec §4.1: void has no size; callers must not rely on this value
	case TBool:
		return sizeBool, sizeBool, true
	case TChar, TSChar, TUChar:
		return sizeChar, sizeChar, true
	case TShort, TUShort:
		return sizeShort, sizeShort, true
	case TInt, TUInt:
		return sizeInt, sizeInt, true
	case TLong, TULong:
		return sizeLong, sizeLong, true
	case TLongLong, TULongLong:
		return sizeLongLong, sizeLongLong, true
	case TFloat:
		return sizeFloat, sizeFloat, true
	case TDouble:
		return sizeDouble, sizeDouble, true
	case TEnum:
		return sizeEnum, sizeEnum, true
	case TPointer:
		return sizePointer, sizePointer, true
	}
	return 0, 0, false
}

// alignUp rounds offset up to the next multiple of align (align must be a
// power of two, as every alignment on this target is).
func alignUp(offset, align int64) int64 {
	if align <= 1 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// Size implements spec §4.1's `type_size` contract: -1 for an incomplete
// array type (or any other incomplete type), else the byte size.
func (t Type) Size() int64 {
	if n, _, ok := basicSizeAlign(t.Class); ok {
		return n
	}
	switch t.Class {
	case TArray:
		if !t.HasLength {
			return -1
		}
		elemSize := t.Base.Size()
		if elemSize < 0 {
			return -1
		}
		return elemSize * t.Length
	case TStruct:
		return t.structSize()
	case TUnion:
		return t.unionSize()
	}
	return -1
}

// Align returns t's required alignment, per spec §4.1: "Struct alignment is
// the maximum member alignment", and likewise for unions.
func (t Type) Align() int64 {
	if _, a, ok := basicSizeAlign(t.Class); ok {
		return a
	}
	switch t.Class {
	case TArray:
		return t.Base.Align()
	case TStruct, TUnion:
		return t.recordAlign()
	}
	return 1
}

func (t Type) recordAlign() int64 {
	var max int64 = 1
	for _, m := range t.Members {
		if a := m.Type.Align(); a > max {
			max = a
		}
	}
	return max
}

// structSize lays members out in declaration order with alignment padding
// between them, then pads the whole struct up to its own alignment (spec
// §4.1: "struct size is padded to that alignment"). A trailing flexible
// array member (spec §4.1) contributes zero bytes to the size.
func (t Type) structSize() int64 {
	align := t.recordAlign()
	var offset int64
	for i, m := range t.Members {
		isLast := i == len(t.Members)-1
		if isLast && m.Type.IsIncompleteArray() {
			break
		}
		offset = alignUp(offset, m.Type.Align())
		offset += m.Type.Size()
	}
	return alignUp(offset, align)
}

// unionSize is the maximum member size, padded to the union's alignment
// (spec §4.1).
func (t Type) unionSize() int64 {
	align := t.recordAlign()
	var max int64
	for _, m := range t.Members {
		if s := m.Type.Size(); s > max {
			max = s
		}
	}
	return alignUp(max, align)
}

// Layout computes and returns member offsets for a struct type, following
// the same alignment-padding walk as structSize. Unions leave every member
// at offset 0. Returns a new Type value with Members populated with offsets;
// it does not mutate the receiver (spec §3: types are value-copied).
func (t Type) Layout() Type {
	out := t.Copy()
	if t.Class != TStruct {
		for i := range out.Members {
			out.Members[i].Offset = 0
		}
		return out
	}
	var offset int64
	for i, m := range out.Members {
		isLast := i == len(out.Members)-1
		if isLast && m.Type.IsIncompleteArray() {
			out.Members[i].Offset = offset
			continue
		}
		offset = alignUp(offset, m.Type.Align())
		out.Members[i].Offset = offset
		offset += m.Type.Size()
	}
	return out
}
