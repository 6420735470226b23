// Package ctype implements the canonical C type representation described in
// spec §4.1: construction of basic/derived types, size and alignment,
// integer conversion rank, promotions, usual arithmetic conversions, and the
// compatibility/composite relations.
//
// Type is a tagged union in value-type form: Class picks the active field
// set, much as a wrapper struct with a marker-interface payload picks which
// node kind is live. Struct/union members reference their types by value in
// an ordered slice, never by back-pointer, so (per spec §3's lifecycle
// invariant) the type graph cannot form a cycle.
package ctype

// Class discriminates the basic/derived type kinds of spec §3.
type Class uint8

const (
	TVoid Class = iota
	TBool
	TChar // plain char; signedness is implementation-defined and tracked separately from TSChar/TUChar
	TSChar
	TUChar
	TShort
	TUShort
	TInt
	TUInt
	TLong
	TULong
	TLongLong
	TULongLong
	TFloat
	TDouble
	TLongDouble // spec §1 Non-goal: recognized only so the analyzer can reject it
	TEnum
	TPointer
	TArray
	TFunction
	TStruct
	TUnion
	TLabel
	TError // propagating failure value (spec §3 invariant)
)

// Qualifiers is the const/volatile/restrict bit-set every Type carries.
type Qualifiers uint8

const (
	Const Qualifiers = 1 << iota
	Volatile
	Restrict
)

func (q Qualifiers) Has(f Qualifiers) bool { return q&f != 0 }

// Union returns the qualifier set containing bits from both operands, used
// by member access and the conditional operator (spec §4.5).
func (q Qualifiers) Union(other Qualifiers) Qualifiers { return q | other }

// SupersetOf reports whether q contains every bit set in other, the
// qualifier-conversion rule used by can_assign (spec §4.5).
func (q Qualifiers) SupersetOf(other Qualifiers) bool { return q&other == other }

// Member is one named field of a struct or union. Order is significant: it
// determines layout (spec §3). Offset is filled in by Layout.
type Member struct {
	Name          string
	Type          Type
	HasBitfield   bool
	BitfieldWidth int
	Offset        int64
}

// Type is a discriminated value type (spec §3: "Types are value-copied on
// assignment to a new owner"). Which fields are meaningful is determined by
// Class; see the per-class constructors below.
type Type struct {
	Class      Class
	Qualifiers Qualifiers

	// Pointer/array element, or function return type. Heap-allocated so Type
	// stays a fixed-size value, but logically owned and copied with it.
	Base *Type

	// Array
	Length    int64
	HasLength bool
	IsVLA     bool // spec §1 Non-goal: recognized only so the analyzer can reject it

	// Function
	Params       []Type
	Variadic     bool
	HasPrototype bool

	// Struct/union/enum
	Tag     string
	Members []Member

	// Enum: the constant-bearing declarations live in the symbol table; the
	// type only records which tag produced it.
	EnumTag string

	// ErrorMessage carries context for the Error class, used in diagnostics
	// that propagate a previously-reported failure instead of re-reporting.
	ErrorMessage string
}

// Basic constructs a non-derived type of the given class with no qualifiers.
func Basic(class Class) Type {
	return Type{Class: class}
}

// WithQualifiers returns a copy of t with its qualifier set replaced.
func (t Type) WithQualifiers(q Qualifiers) Type {
	t.Qualifiers = q
	return t
}

// Unqualified returns a copy of t with all qualifiers cleared. Used when an
// lvalue expression appears in a non-lvalue context (spec §3 invariant).
func (t Type) Unqualified() Type {
	t.Qualifiers = 0
	return t
}

// ErrorType is the propagating failure value (spec §3). Every analyzed
// expression must carry a non-nil type; Error lets analysis continue past a
// constraint violation without cascading further errors from the same cause.
func ErrorType(message string) Type {
	return Type{Class: TError, ErrorMessage: message}
}

func (t Type) IsError() bool { return t.Class == TError }

// Pointer constructs a pointer-to-pointee type.
func Pointer(pointee Type) Type {
	base := pointee
	return Type{Class: TPointer, Base: &base}
}

// ArraySized constructs an array of length elements of the given element
// type.
func ArraySized(elem Type, length int64) Type {
	base := elem
	return Type{Class: TArray, Base: &base, Length: length, HasLength: true}
}

// ArrayUnsized constructs an array whose length has not yet been fixed (an
// unsized top-level array, spec §3's "initializer list semantics", or an
// incomplete extern array).
func ArrayUnsized(elem Type) Type {
	base := elem
	return Type{Class: TArray, Base: &base, HasLength: false}
}

// ArrayVLA constructs a variable-length array marker. spec §1 lists VLA
// support as a Non-goal: the analyzer detects this case and rejects it
// rather than computing a runtime length.
func ArrayVLA(elem Type) Type {
	base := elem
	return Type{Class: TArray, Base: &base, IsVLA: true}
}

// Func constructs a function type.
func Func(ret Type, params []Type, variadic bool, hasPrototype bool) Type {
	r := ret
	return Type{Class: TFunction, Base: &r, Params: params, Variadic: variadic, HasPrototype: hasPrototype}
}

// Record constructs a struct or union type. Member order is significant
// (spec §3) and is never reordered by this package.
func Record(tag string, members []Member, isUnion bool) Type {
	class := TStruct
	if isUnion {
		class = TUnion
	}
	return Type{Class: class, Tag: tag, Members: members}
}

// EnumType constructs an enumerated type. The underlying representation is
// always int-compatible per spec §4.5's enumeration-constant range check.
func EnumType(tag string) Type {
	return Type{Class: TEnum, Tag: tag, EnumTag: tag}
}

// Copy deep-copies t so the result shares no Base/Params/Members storage
// with the original (spec §3: types are value-copied onto a new owner).
func (t Type) Copy() Type {
	out := t
	if t.Base != nil {
		b := t.Base.Copy()
		out.Base = &b
	}
	if t.Params != nil {
		out.Params = make([]Type, len(t.Params))
		for i, p := range t.Params {
			out.Params[i] = p.Copy()
		}
	}
	if t.Members != nil {
		out.Members = make([]Member, len(t.Members))
		for i, m := range t.Members {
			m.Type = m.Type.Copy()
			out.Members[i] = m
		}
	}
	return out
}

// IsIncompleteArray reports whether t is an array with no fixed length
// (neither a constant length nor a VLA).
func (t Type) IsIncompleteArray() bool {
	return t.Class == TArray && !t.HasLength && !t.IsVLA
}

// IsRecord reports whether t is a struct or union.
func (t Type) IsRecord() bool { return t.Class == TStruct || t.Class == TUnion }

// FindMember looks up a member by name, as used by `.`/`->` (spec §4.5).
func (t Type) FindMember(name string) (Member, bool) {
	for _, m := range t.Members {
		if m.Name == name {
			return m, true
		}
	}
	return Member{}, false
}

// HasFlexibleArrayMember reports whether the last member of a struct is an
// unsized array (spec §4.1's flexible-array-member contract). Only
// meaningful for Struct; unions cannot have a flexible array member.
func (t Type) HasFlexibleArrayMember() bool {
	if t.Class != TStruct || len(t.Members) == 0 {
		return false
	}
	last := t.Members[len(t.Members)-1]
	return last.Type.IsIncompleteArray()
}
