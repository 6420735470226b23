package analyzer

import (
	"github.com/ripleymj/ecc/internal/cast"
	"github.com/ripleymj/ecc/internal/ctype"
	"github.com/ripleymj/ecc/internal/symtab"
)

// analyzeFileScopeDecl analyzes one top-level declaration (spec §4.5's
// "declaring occurrence" handling, specialized to file scope).
func (a *Analyzer) analyzeFileScopeDecl(d *cast.Decl) {
	switch data := d.Data.(type) {
	case *cast.DObject:
		a.analyzeObjectDecl(data, d.Loc, true)
	case *cast.DFunction:
		a.analyzeFunctionDecl(data, d.Loc)
	case *cast.DEmpty:
		a.resolveBaseType(data.Spec)
	}
}

func (a *Analyzer) analyzeObjectDecl(d *cast.DObject, loc cast.Loc, atFileScope bool) {
	base := a.resolveBaseType(d.Spec)
	t := base
	if d.Declarator != nil {
		t = a.applyDeclaratorMods(base, d.Declarator.Mods)
	}
	name := ""
	if d.Declarator != nil {
		name = d.Declarator.Name
	}

	if d.Spec.StorageClass == symtab.TypedefClass {
		ref := a.Table.NewSymbol(name, symtab.Ordinary, t)
		a.Table.Bind(a.scope, symtab.Ordinary, name, ref)
		d.Ref = ref
		return
	}

	if atFileScope && (d.Spec.StorageClass == symtab.AutoClass || d.Spec.StorageClass == symtab.RegisterClass) {
		a.errorf(loc, "file-scope declarations cannot be 'auto' or 'register'")
	}

	var prior *symtab.Symbol
	if priorRef, ok := a.Table.LookupLocal(a.scope, symtab.Ordinary, name); ok {
		prior = a.Table.Get(priorRef)
		if !ctype.CompatibleIgnoringQualifiers(prior.Type, t) {
			a.errorf(loc, "%q redeclared with an incompatible type", name)
		}
	}

	linkage, duration := symtab.ClassifyLinkageAndStorage(atFileScope, d.Spec.StorageClass, prior)

	var ref symtab.Ref
	if prior != nil {
		ref, _ = a.Table.LookupLocal(a.scope, symtab.Ordinary, name)
	} else {
		ref = a.Table.NewSymbol(name, symtab.Ordinary, t)
		a.Table.Bind(a.scope, symtab.Ordinary, name, ref)
	}
	sym := a.Table.Get(ref)
	sym.Type = t
	sym.Linkage = linkage
	sym.StorageDuration = duration
	sym.DeclaringNode = d
	if d.Spec.StorageClass == symtab.RegisterClass {
		a.registerVars[ref] = true
	}
	d.Ref = ref

	if d.Init != nil {
		a.elaborateInitializer(d.Init, t)
		if atFileScope || duration == symtab.Static {
			a.materializeStaticInit(ref, d.Init, t)
		}
		sym.IsTentative = false
		if t.Class == ctype.TArray && !t.HasLength {
			sym.Type.HasLength = true
			sym.Type.Length = a.maxInitIndex(d.Init, *t.Base) + 1
			t = sym.Type
		}
	} else if atFileScope && d.Spec.StorageClass != symtab.ExternClass {
		sym.IsTentative = true
		a.tentative = append(a.tentative, ref)
	}

	if t.Class == ctype.TArray && t.IsIncompleteArray() && duration == symtab.Automatic {
		a.errorf(loc, "%q has incomplete array type with automatic storage duration", name)
	}
}

func (a *Analyzer) analyzeFunctionDecl(d *cast.DFunction, loc cast.Loc) {
	base := a.resolveBaseType(d.Spec)
	t := base
	name := ""
	if d.Declarator != nil {
		name = d.Declarator.Name
		t = a.applyDeclaratorMods(base, d.Declarator.Mods)
	}

	if d.Body != nil {
		switch d.Spec.StorageClass {
		case symtab.NoStorageClass, symtab.StaticClass, symtab.ExternClass:
		default:
			a.errorf(loc, "function definitions cannot be declared 'auto' or 'register'")
		}
	}

	if name == "main" && t.Class == ctype.TFunction {
		if t.Base.Class != ctype.TInt {
			a.warnf(loc, "'main' should return 'int'")
		}
	}

	var prior *symtab.Symbol
	if priorRef, ok := a.Table.LookupLocal(a.scope, symtab.Ordinary, name); ok {
		prior = a.Table.Get(priorRef)
	}
	linkage, _ := symtab.ClassifyLinkageAndStorage(true, d.Spec.StorageClass, prior)

	var ref symtab.Ref
	if prior != nil {
		ref, _ = a.Table.LookupLocal(a.scope, symtab.Ordinary, name)
	} else {
		ref = a.Table.NewSymbol(name, symtab.Ordinary, t)
		a.Table.Bind(a.scope, symtab.Ordinary, name, ref)
	}
	sym := a.Table.Get(ref)
	sym.Type = t
	sym.Linkage = linkage
	sym.StorageDuration = symtab.NoStorageDuration
	sym.DeclaringNode = d
	d.Ref = ref
	a.declaredFuncs[ref] = true

	// An external-linkage inline definition's "must also appear as a
	// non-inline declaration, or be the only definition" constraint (ISO
	// 6.7.4) spans the whole program rather than one translation unit and
	// is left to the (out-of-scope) linker.

	if d.Body != nil {
		a.analyzeFunctionBody(d, t)
	}
}

func (a *Analyzer) analyzeFunctionBody(d *cast.DFunction, fnType ctype.Type) {
	prevReturn, prevVoid := a.currentFuncReturnType, a.currentFuncIsVoid
	a.currentFuncReturnType = *fnType.Base
	a.currentFuncIsVoid = fnType.Base.Class == ctype.TVoid
	defer func() { a.currentFuncReturnType, a.currentFuncIsVoid = prevReturn, prevVoid }()

	a.pushScope(symtab.ScopeFunctionBody)
	defer a.popScope()

	if d.Declarator != nil {
		for _, m := range d.Declarator.Mods {
			if m.Kind != cast.ModFunction {
				continue
			}
			for _, p := range m.Params {
				if p.Name == "" {
					continue
				}
				pt := a.resolveBaseType(p.Spec)
				if p.Declarator != nil {
					pt = a.applyDeclaratorMods(pt, p.Declarator.Mods)
				}
				if pt.Class == ctype.TArray {
					pt = ctype.Pointer(*pt.Base).WithQualifiers(pt.Qualifiers)
				}
				ref := a.Table.NewSymbol(p.Name, symtab.Ordinary, pt)
				psym := a.Table.Get(ref)
				psym.StorageDuration = symtab.Automatic
				if p.Register {
					a.registerVars[ref] = true
				}
				a.Table.Bind(a.scope, symtab.Ordinary, p.Name, ref)
				p.Ref = ref
			}
		}
	}

	a.AnalyzeStmt(d.Body)
}

// maxInitIndex returns the highest top-level array index an unsized array's
// initializer reaches, for the spec §4.5 step 8 "set its length to the
// maximum index+1 reached at the root level" rule (the +1 is applied by the
// caller). Mirrors elaborateArray's string-literal special case: a character
// array initialized by a single string literal gets one element per byte of
// the literal (including its terminator), not one element for the literal
// as a whole.
func (a *Analyzer) maxInitIndex(il *cast.InitializerList, elemType ctype.Type) int64 {
	if len(il.Elements) == 1 && il.Elements[0].Nested == nil {
		if lit, ok := il.Elements[0].Value.Data.(*cast.EStringLiteral); ok && elemType.IsCharacterType() {
			return int64(len(lit.Value))
		}
	}

	max := int64(-1)
	idx := int64(0)
	for _, elem := range il.Elements {
		for _, desig := range elem.Designators {
			if !desig.IsMember && desig.Index != nil {
				idx = a.evalConstIntOrZero(desig.Index)
			}
		}
		if idx > max {
			max = idx
		}
		idx++
	}
	return max
}
