package analyzer

import (
	"github.com/ripleymj/ecc/internal/cast"
	"github.com/ripleymj/ecc/internal/ctype"
	"github.com/ripleymj/ecc/internal/symtab"
)

// resolveBaseType turns a DeclSpec's keyword sequence, typedef name, or
// struct/union/enum specifier into a ctype.Type, the base every
// DeclaratorMod in a Declarator's chain is applied onto (spec §4.1/§4.5).
func (a *Analyzer) resolveBaseType(spec *cast.DeclSpec) ctype.Type {
	if spec == nil {
		return ctype.Basic(ctype.TInt)
	}
	switch {
	case spec.TypedefName != "":
		ref, ok := a.Table.Lookup(a.scope, symtab.Ordinary, spec.TypedefName)
		if !ok {
			a.errorf(spec.Loc, "%q does not name a type", spec.TypedefName)
			return errorType()
		}
		t := a.Table.Get(ref).Type
		return t.WithQualifiers(spec.Qualifiers)

	case spec.StructUnion != nil:
		return a.resolveStructUnion(spec.StructUnion).WithQualifiers(spec.Qualifiers)

	case spec.Enum != nil:
		return a.resolveEnum(spec.Enum).WithQualifiers(spec.Qualifiers)

	default:
		return basicFromKeywords(spec.Keywords).WithQualifiers(spec.Qualifiers)
	}
}

// basicFromKeywords classifies the raw basic-type keyword sequence into a
// ctype.Class (spec §4.5: "classification of Keywords" happens here because
// it needs no scope lookups).
func basicFromKeywords(kws []cast.BasicKeyword) ctype.Type {
	var (
		hasVoid, hasBool, hasChar, hasFloat, hasDouble bool
		hasSigned, hasUnsigned                         bool
		longCount, shortCount                          int
		hasInt                                         bool
	)
	for _, k := range kws {
		switch k {
		case cast.KwVoid:
			hasVoid = true
		case cast.KwBool:
			hasBool = true
		case cast.KwChar:
			hasChar = true
		case cast.KwShort:
			shortCount++
		case cast.KwInt:
			hasInt = true
		case cast.KwLong:
			longCount++
		case cast.KwFloat:
			hasFloat = true
		case cast.KwDouble:
			hasDouble = true
		case cast.KwSigned:
			hasSigned = true
		case cast.KwUnsigned:
			hasUnsigned = true
		}
	}
	switch {
	case hasVoid:
		return ctype.Basic(ctype.TVoid)
	case hasBool:
		return ctype.Basic(ctype.TBool)
	case hasFloat:
		return ctype.Basic(ctype.TFloat)
	case hasDouble:
		if longCount > 0 {
			return ctype.Basic(ctype.TLongDouble)
		}
		return ctype.Basic(ctype.TDouble)
	case hasChar:
		if hasUnsigned {
			return ctype.Basic(ctype.TUChar)
		}
		if hasSigned {
			return ctype.Basic(ctype.TSChar)
		}
		return ctype.Basic(ctype.TChar)
	case shortCount > 0:
		if hasUnsigned {
			return ctype.Basic(ctype.TUShort)
		}
		return ctype.Basic(ctype.TShort)
	case longCount >= 2:
		if hasUnsigned {
			return ctype.Basic(ctype.TULongLong)
		}
		return ctype.Basic(ctype.TLongLong)
	case longCount == 1:
		if hasUnsigned {
			return ctype.Basic(ctype.TULong)
		}
		return ctype.Basic(ctype.TLong)
	case hasUnsigned:
		return ctype.Basic(ctype.TUInt)
	case hasSigned || hasInt || len(kws) == 0:
		return ctype.Basic(ctype.TInt)
	}
	return ctype.Basic(ctype.TInt)
}

func (a *Analyzer) resolveStructUnion(spec *cast.StructUnionSpec) ctype.Type {
	if spec.Tag != "" {
		if ref, ok := a.Table.LookupLocal(a.scope, symtab.Tag, spec.Tag); ok && !spec.HasBody {
			return a.Table.Get(ref).Type
		}
		if ref, ok := a.Table.Lookup(a.scope, symtab.Tag, spec.Tag); ok && !spec.HasBody {
			return a.Table.Get(ref).Type
		}
	}
	if !spec.HasBody {
		// Forward reference to a not-yet-seen tag: an incomplete record.
		t := ctype.Record(spec.Tag, nil, spec.IsUnion)
		if spec.Tag != "" {
			ref := a.Table.NewSymbol(spec.Tag, symtab.Tag, t)
			a.Table.Bind(a.scope, symtab.Tag, spec.Tag, ref)
		}
		return t
	}

	members := make([]ctype.Member, 0, len(spec.Members))
	for _, m := range spec.Members {
		base := a.resolveBaseType(m.Spec)
		mt := base
		if m.Declarator != nil {
			mt = a.applyDeclaratorMods(base, m.Declarator.Mods)
		}
		mem := ctype.Member{Name: m.Name, Type: mt}
		if m.BitfieldWidth != nil {
			mem.HasBitfield = true
			mem.BitfieldWidth = a.evalConstIntOrZero(m.BitfieldWidth)
		}
		members = append(members, mem)
	}
	t := ctype.Record(spec.Tag, members, spec.IsUnion)
	t = t.Layout()
	if spec.Tag != "" {
		ref := a.Table.NewSymbol(spec.Tag, symtab.Tag, t)
		a.Table.Bind(a.scope, symtab.Tag, spec.Tag, ref)
	}
	return t
}

func (a *Analyzer) resolveEnum(spec *cast.EnumSpec) ctype.Type {
	t := ctype.EnumType(spec.Tag)
	if !spec.HasBody {
		if spec.Tag != "" {
			if ref, ok := a.Table.Lookup(a.scope, symtab.Tag, spec.Tag); ok {
				return a.Table.Get(ref).Type
			}
		}
		return t
	}
	if spec.Tag != "" {
		ref := a.Table.NewSymbol(spec.Tag, symtab.Tag, t)
		a.Table.Bind(a.scope, symtab.Tag, spec.Tag, ref)
	}
	next := int64(0)
	for _, c := range spec.Constants {
		val := next
		if c.Value != nil {
			a.AnalyzeExpr(c.Value)
			val = a.evalConstIntOrZero(c.Value)
		}
		if val < -2147483648 || val > 2147483647 {
			a.errorf(c.Loc, "enumerator %q value is not representable in int", c.Name)
		}
		ref := a.Table.NewSymbol(c.Name, symtab.Ordinary, ctype.Basic(ctype.TInt))
		sym := a.Table.Get(ref)
		sym.StorageDuration = symtab.NoStorageDuration
		sym.Linkage = symtab.NoLinkage
		a.Table.Bind(a.scope, symtab.Ordinary, c.Name, ref)
		c.Ref = ref
		next = val + 1
	}
	return t
}

// applyDeclaratorMods applies mods onto base in order, per the contract
// DeclaratorMod documents: mods are stored such that Mods[0] applies first,
// finishing with the outermost modifier last (spec §9's "declarator
// chain").
func (a *Analyzer) applyDeclaratorMods(base ctype.Type, mods []cast.DeclaratorMod) ctype.Type {
	t := base
	for _, m := range mods {
		switch m.Kind {
		case cast.ModPointer:
			t = ctype.Pointer(t).WithQualifiers(m.Qualifiers)
		case cast.ModArray:
			if !m.HasArrayLen {
				t = ctype.ArrayUnsized(t)
			} else if m.IsVLA {
				t = ctype.ArrayVLA(t)
			} else {
				n := a.evalConstIntOrZero(m.ArrayLen)
				t = ctype.ArraySized(t, n)
			}
		case cast.ModFunction:
			params := make([]ctype.Type, 0, len(m.Params))
			for _, p := range m.Params {
				pt := a.resolveBaseType(p.Spec)
				if p.Declarator != nil {
					pt = a.applyDeclaratorMods(pt, p.Declarator.Mods)
				}
				if pt.Class == ctype.TArray {
					pt = ctype.Pointer(*pt.Base).WithQualifiers(pt.Qualifiers)
				}
				if pt.Class == ctype.TFunction {
					pt = ctype.Pointer(pt)
				}
				params = append(params, pt)
			}
			t = ctype.Func(t, params, m.Variadic, m.HasPrototype)
		}
	}
	return t
}

// evalConstIntOrZero evaluates e as a constant expression for use in a
// declarator (array length, bit-field width, enumerator value), reporting
// an error and returning 0 on failure rather than propagating an error
// value up through ctype.Type construction.
func (a *Analyzer) evalConstIntOrZero(e *cast.Expr) int64 {
	if e == nil {
		return 0
	}
	a.AnalyzeExpr(e)
	v, err := a.evalConst(e)
	if err != nil {
		a.errorf(e.Loc, "%s", err.Error())
		return 0
	}
	return v.Int64()
}
