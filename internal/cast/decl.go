package cast

import (
	"github.com/ripleymj/ecc/internal/ctype"
	"github.com/ripleymj/ecc/internal/symtab"
)

// DeclSpec is the set of declaration specifiers preceding a declarator: the
// basic-type keyword sequence (`unsigned long long`, `struct foo`, a
// typedef name, ...), qualifiers, storage class, and `inline`. Resolving a
// DeclSpec's basic-type keyword sequence into a ctype.Class happens in
// internal/analyzer, which is where the scoped typedef/tag lookups it
// depends on live.
type DeclSpec struct {
	Loc Loc

	// Keywords is the raw sequence of basic-type specifier keywords as
	// written (e.g. ["unsigned", "long", "long"]), for classification by
	// the analyzer per spec §4.5's declaration-level constraint checks.
	Keywords []BasicKeyword

	StorageClass symtab.StorageClass
	Qualifiers   ctype.Qualifiers
	Inline       bool

	// TypedefName is set instead of Keywords when the specifier sequence
	// names a typedef.
	TypedefName string

	StructUnion *StructUnionSpec
	Enum        *EnumSpec
}

// BasicKeyword is one basic-type specifier keyword.
type BasicKeyword uint8

const (
	KwVoid BasicKeyword = iota
	KwChar
	KwShort
	KwInt
	KwLong
	KwFloat
	KwDouble
	KwSigned
	KwUnsigned
	KwBool
)

// StructUnionSpec is a `struct`/`union` specifier, with or without a member
// list (spec §4.1/§4.5).
type StructUnionSpec struct {
	Loc     Loc
	Tag     string // "" for an anonymous struct/union
	IsUnion bool
	// HasBody distinguishes `struct foo` (a reference to a possibly
	// forward-declared tag) from `struct foo { ... }` (a definition).
	HasBody bool
	Members []*MemberDecl
}

// MemberDecl is one struct/union member declaration.
type MemberDecl struct {
	Loc           Loc
	Name          string
	Spec          *DeclSpec
	Declarator    *Declarator
	BitfieldWidth *Expr // nil if this member is not a bit-field
}

// EnumSpec is an `enum` specifier, with or without an enumerator list.
type EnumSpec struct {
	Loc       Loc
	Tag       string
	HasBody   bool
	Constants []*EnumConstantDecl
}

// EnumConstantDecl is one enumerator, with an optional explicit value
// (spec §4.5: "explicit constant or previous + index gap").
type EnumConstantDecl struct {
	Loc   Loc
	Name  string
	Value *Expr // nil when the value is implicit
	Ref   symtab.Ref
}

// DeclModKind discriminates one declarator modifier (spec §9's "declarator
// chain").
type DeclModKind uint8

const (
	ModPointer DeclModKind = iota
	ModArray
	ModFunction
)

// DeclaratorMod is one modifier in a declarator chain, applied to the base
// type built from the enclosing DeclSpec. Mods are stored innermost-first:
// resolving a declarator applies Mods[0] to the declaration-specifier base
// type, then Mods[1] to that result, and so on, finishing with the
// outermost modifier — the standard "apply from the identifier outward"
// declarator-resolution algorithm, with parenthesization already resolved
// by the (out-of-scope) parser that produced this chain.
type DeclaratorMod struct {
	Kind DeclModKind

	// ModPointer
	Qualifiers ctype.Qualifiers

	// ModArray
	ArrayLen    *Expr
	HasArrayLen bool
	IsVLA       bool

	// ModFunction
	Params       []*ParamDecl
	Variadic     bool
	HasPrototype bool
	// KAndRNames holds a K&R-style identifier-list's names instead of typed
	// parameters (spec §1 Non-goal: "K&R identifier lists in declarations
	// (warned and rejected)").
	KAndRNames []string
}

// Declarator is a name (or, for an abstract declarator, no name) plus its
// modifier chain.
type Declarator struct {
	Loc  Loc
	Name string
	Mods []DeclaratorMod
}

// ParamDecl is one function parameter: either a typed parameter (spec-and-
// declarator) or, for a K&R definition, bare identifier (tracked instead via
// DeclaratorMod.KAndRNames on the enclosing ModFunction).
type ParamDecl struct {
	Loc        Loc
	Name       string
	Spec       *DeclSpec
	Declarator *Declarator
	Register   bool
	Ref        symtab.Ref
}

// InitializerList is the bracketed initializer attached to an object
// declarator (spec §4.5: "Initializer elaboration").
type InitializerList struct {
	Loc      Loc
	Elements []*InitializerElement
}

// InitializerElement is one element of an initializer list: an optional
// designator sequence, then either a nested InitializerList or a scalar
// Expr. After elaboration, Offset and ElementType are filled in (spec §3's
// "Initializer list semantics").
type InitializerElement struct {
	Loc         Loc
	Designators []Designator
	Nested      *InitializerList
	Value       *Expr

	Offset      int64
	ElementType ctype.Type
}

// Designator is one `.name` or `[index]` step of an initializer designator
// sequence (spec glossary).
type Designator struct {
	IsMember bool
	Name     string // IsMember == true
	Index    *Expr  // IsMember == false
}

// DeclData is the marker interface for top-level declaration kinds.
type DeclData interface{ isDeclData() }

// Decl wraps a top-level (file-scope or block-scope) declaration.
type Decl struct {
	Loc  Loc
	Data DeclData
}

// DObject is an object (or typedef) declarator: `T name [= init];`.
type DObject struct {
	Spec       *DeclSpec
	Declarator *Declarator
	Init       *InitializerList
	Ref        symtab.Ref
}

func (DObject) isDeclData() {}

// DFunction is a function declaration or definition.
type DFunction struct {
	Spec       *DeclSpec
	Declarator *Declarator
	Body       *Stmt // nil for a declaration, non-nil for a definition
	Ref        symtab.Ref
}

func (DFunction) isDeclData() {}

// DEmpty is a declaration consisting only of specifiers (e.g. `struct foo;`
// or `enum color { RED, GREEN };` with no declarators).
type DEmpty struct {
	Spec *DeclSpec
}

func (DEmpty) isDeclData() {}

// TranslationUnit is the root AST node: an ordered sequence of file-scope
// declarations (spec §6: "a rooted AST").
type TranslationUnit struct {
	Decls []*Decl
}
