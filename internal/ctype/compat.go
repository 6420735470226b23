package ctype

// Compatible implements spec §3's "two types are compatible per the C
// standard's structural rules" relation, qualifiers included: the outer
// qualifier sets must match, and pointee, element and return types are
// compared (recursively) with their qualifiers. Function parameters are
// compared by their unqualified forms, and struct/union/enum types by tag
// alone, so member qualifiers are not examined.
func Compatible(a, b Type) bool {
	if a.Qualifiers != b.Qualifiers {
		return false
	}
	return CompatibleIgnoringQualifiers(a, b)
}

// CompatibleIgnoringQualifiers is the same structural relation without
// comparing the outer qualifier set (spec §3: "a separate relation").
// Pointee, element and return-type qualifiers are still compared exactly,
// matching the standard's definition of pointer and array compatibility;
// parameters and tagged types are compared as in Compatible.
func CompatibleIgnoringQualifiers(a, b Type) bool {
	if a.Class == TError || b.Class == TError {
		return true // an error type is compatible with anything so checks don't cascade
	}
	if a.Class != b.Class {
		// Plain, signed, and unsigned char are three distinct types in C;
		// likewise every other int-family type is its own type. No
		// cross-class compatibility exists except through this function's
		// early-outs above.
		return false
	}
	switch a.Class {
	case TPointer:
		return Compatible(*a.Base, *b.Base)
	case TArray:
		if !Compatible(*a.Base, *b.Base) {
			return false
		}
		if a.HasLength && b.HasLength {
			return a.Length == b.Length
		}
		return true // an unsized array is compatible with any length
	case TFunction:
		if !Compatible(*a.Base, *b.Base) {
			return false
		}
		if a.Variadic != b.Variadic {
			return false
		}
		if !a.HasPrototype || !b.HasPrototype {
			return true // a prototype-less function type is compatible with any compatible-return-type function
		}
		if len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			// Parameter types undergo argument-promotion-insensitive
			// comparison of their unqualified forms (top-level qualifiers
			// on parameters don't participate in function-type compatibility).
			if !CompatibleIgnoringQualifiers(a.Params[i].Unqualified(), b.Params[i].Unqualified()) {
				return false
			}
		}
		return true
	case TStruct, TUnion, TEnum:
		// Two tagged types are compatible only if they are literally the
		// same declaration (same tag, same member list); this backend does
		// not support separate translation units, so tag equality suffices.
		return a.Tag == b.Tag
	}
	return true
}

// Composite implements spec §3's "composite type": merging two compatible
// types, most notably an unknown-length array composed with a known-length
// array, yielding the known length (spec §8 scenario list references this
// indirectly through `can_assign`/declaration merging).
func Composite(a, b Type) (Type, bool) {
	if !CompatibleIgnoringQualifiers(a, b) {
		return Type{}, false
	}
	switch a.Class {
	case TArray:
		if a.HasLength {
			return a.Copy(), true
		}
		if b.HasLength {
			return b.Copy(), true
		}
		elemComposite, ok := Composite(*a.Base, *b.Base)
		if !ok {
			return Type{}, false
		}
		return ArrayUnsized(elemComposite), true
	case TFunction:
		ret, ok := Composite(*a.Base, *b.Base)
		if !ok {
			return Type{}, false
		}
		if a.HasPrototype {
			return Func(ret, a.Params, a.Variadic, true), true
		}
		if b.HasPrototype {
			return Func(ret, b.Params, b.Variadic, true), true
		}
		return Func(ret, nil, false, false), true
	case TPointer:
		elemComposite, ok := Composite(*a.Base, *b.Base)
		if !ok {
			return Type{}, false
		}
		return Pointer(elemComposite).WithQualifiers(a.Qualifiers), true
	}
	return a.Copy(), true
}
