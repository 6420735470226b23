// Package symtab implements the scoped symbol table of spec §4.2: a mapping
// from (name, namespace, scope) tuples to symbols, linkage and storage-
// duration classification, and outward-walking lookup.
//
// Symbols are referenced by a small value type (Ref) indexing into a flat
// table, never by pointer, so that a renaming/relocation pass can iterate
// the table without touching the tree.
package symtab

import (
	"strconv"

	"github.com/ripleymj/ecc/internal/ctype"
)

// Namespace is one of the four namespace categories spec §3/§4.2 names.
// Member lookup is not modeled as a scope walk: `.`/`->` resolve directly
// against the aggregate type's member list (ctype.Type.FindMember), since a
// member name's visibility is entirely determined by its enclosing
// struct/union type rather than by the lexical scope stack.
type Namespace uint8

const (
	Ordinary Namespace = iota
	Tag
	Label
)

// ScopeKind distinguishes the scope-tree node kinds named in spec §4.2.
type ScopeKind uint8

const (
	ScopeFile ScopeKind = iota
	ScopeFunctionBody           // parameter scope coincides with function-body scope
	ScopeBlock
	ScopeForInit
)

// Ref is a lightweight index into a Table's symbol slice. Because this
// backend analyzes one translation unit at a time there is no source-file
// component to the index.
type Ref struct {
	Index uint32
	valid bool
}

// InvalidRef is the zero Ref's counterpart with IsValid()==false, used as a
// "no symbol" sentinel (e.g. a lookup miss) without resorting to a pointer.
var InvalidRef = Ref{}

func (r Ref) IsValid() bool { return r.valid }

func makeRef(i uint32) Ref { return Ref{Index: i, valid: true} }

// Linkage classifies a symbol's linkage per spec §4.2.
type Linkage uint8

const (
	NoLinkage Linkage = iota
	Internal
	External
)

// StorageDuration classifies a symbol's storage duration per spec §4.2/§3.
type StorageDuration uint8

const (
	NoStorageDuration StorageDuration = iota
	Static
	Automatic
	Allocated // malloc'd/compiler-synthesized storage outside the declared-object model
)

// StorageClass is the storage-class specifier (or absence of one) attached
// to a declaration, the input to linkage/storage-duration classification.
type StorageClass uint8

const (
	NoStorageClass StorageClass = iota
	ExternClass
	StaticClass
	AutoClass
	RegisterClass
	TypedefClass
)

// Relocation is one address-constant relocation recorded against a static
// initializer (spec §4.5, "Static initializer materialization"): at
// DataOffset bytes into the owning symbol's data buffer, a pointer to
// Target (plus Addend) must be written at link time.
type Relocation struct {
	DataOffset int64
	Target     Ref
	Addend     int64
}

// Symbol is a named binding in a namespace (spec §3's Symbol data model).
type Symbol struct {
	Name      string
	Namespace Namespace
	Type      ctype.Type

	// DeclaringNode is the AST declarator/definition node that introduced
	// this symbol. Left as interface{} (rather than importing package cast)
	// so a symbol can be constructed before the AST node type is known to
	// this package, per spec §9's design notes ("Types should not carry
	// back-pointers to declarators; store the declaration context on the
	// symbol instead").
	DeclaringNode interface{}

	StorageDuration StorageDuration
	Linkage         Linkage

	// Init is non-nil only for a static-duration object with materialized
	// initializer bytes (spec §4.5).
	Init        *InitData
	Relocations []Relocation

	// StackOffset is filled in by the emitter (spec §3's "optional assigned
	// stack offset (filled during emission)"); negative, relative to rbp.
	StackOffset    int32
	HasStackOffset bool

	// IsTentative marks a file-scope declaration with no initializer and no
	// extern (spec glossary: "tentative definition"), pending promotion at
	// end of translation unit.
	IsTentative bool

	// IsBitfield / BitfieldWidth apply to a struct/union member accessed as
	// a symbol during declaration checking, before it is folded into the
	// owning ctype.Member.
	IsBitfield    bool
	BitfieldWidth int
}

// InitData is the byte buffer a static-duration object's initializer
// reduces to (spec §3's "Static-duration initializers reduce to a byte
// buffer plus zero or more address-constant relocations").
type InitData struct {
	Bytes []byte
}

// Scope is one node of the scope tree rooted at the translation unit (spec
// §4.2).
type Scope struct {
	Kind     ScopeKind
	Parent   *Scope
	Children []*Scope

	ordinary map[string]Ref
	tags     map[string]Ref
	// labels is only ever populated on a ScopeFunctionBody scope: spec §4.2
	// states labels "live in function-body scope only."
	labels map[string]Ref
}

func newScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{Kind: kind, Parent: parent}
}

// EnclosingFunctionBody walks outward to find the nearest function-body
// scope, the scope labels actually live in regardless of how many nested
// blocks a `goto`/label occurs within.
func (s *Scope) EnclosingFunctionBody() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == ScopeFunctionBody {
			return cur
		}
	}
	return nil
}

func (s *Scope) mapFor(ns Namespace) (map[string]Ref, *Scope) {
	switch ns {
	case Tag:
		return s.tags, s
	case Label:
		fb := s.EnclosingFunctionBody()
		if fb == nil {
			return nil, nil
		}
		return fb.labels, fb
	default:
		return s.ordinary, s
	}
}

// Table owns the symbol slice and the scope tree for one translation unit.
type Table struct {
	Root    *Scope
	symbols []Symbol
	namer   Namer
}

// NewTable creates an empty symbol table rooted at file scope.
func NewTable() *Table {
	return &Table{Root: newScope(ScopeFile, nil)}
}

// Get dereferences a Ref. Callers must only pass a Ref this Table produced.
func (t *Table) Get(ref Ref) *Symbol {
	return &t.symbols[ref.Index]
}

// NewSymbol allocates a fresh symbol (not yet bound into any scope) and
// returns its Ref.
func (t *Table) NewSymbol(name string, ns Namespace, typ ctype.Type) Ref {
	t.symbols = append(t.symbols, Symbol{Name: name, Namespace: ns, Type: typ})
	return makeRef(uint32(len(t.symbols) - 1))
}

// PushScope creates and links a child scope.
func (t *Table) PushScope(parent *Scope, kind ScopeKind) *Scope {
	child := newScope(kind, parent)
	parent.Children = append(parent.Children, child)
	return child
}

// Bind records that name resolves to ref within scope's namespace. It does
// not check for a pre-existing binding in the same scope/namespace; callers
// (the analyzer) perform the duplicate/compatibility check described in
// spec §4.2 ("multiple declarations in the same scope/namespace must have
// compatible types") because only the analyzer has the diagnostic context to
// report a mismatch usefully.
func (t *Table) Bind(scope *Scope, ns Namespace, name string, ref Ref) {
	m, owner := scope.mapFor(ns)
	if owner == nil {
		return
	}
	if m == nil {
		m = make(map[string]Ref)
	}
	m[name] = ref
	switch ns {
	case Tag:
		owner.tags = m
	case Label:
		owner.labels = m
	default:
		owner.ordinary = m
	}
}

// LookupLocal reports whether name is already bound directly in scope's
// namespace (not walking outward), used for "duplicate declaration in the
// same scope" checks (spec §4.2).
func (t *Table) LookupLocal(scope *Scope, ns Namespace, name string) (Ref, bool) {
	m, owner := scope.mapFor(ns)
	if owner == nil {
		return InvalidRef, false
	}
	ref, ok := m[name]
	return ref, ok
}

// Lookup walks from scope outward through enclosing scopes, returning the
// first matching symbol (spec §4.2's "Lookup").
func (t *Table) Lookup(scope *Scope, ns Namespace, name string) (Ref, bool) {
	if ns == Label {
		fb := scope.EnclosingFunctionBody()
		if fb == nil {
			return InvalidRef, false
		}
		ref, ok := fb.labels[name]
		return ref, ok
	}
	for cur := scope; cur != nil; cur = cur.Parent {
		m, _ := cur.mapFor(ns)
		if ref, ok := m[name]; ok {
			return ref, ok
		}
	}
	return InvalidRef, false
}

// LookupAll returns every matching symbol visible from scope outward (spec
// §4.2's "Count-lookup returns all matching symbols across all scopes for
// compatibility checks").
func (t *Table) LookupAll(scope *Scope, ns Namespace, name string) []Ref {
	var out []Ref
	for cur := scope; cur != nil; cur = cur.Parent {
		m, _ := cur.mapFor(ns)
		if ref, ok := m[name]; ok {
			out = append(out, ref)
		}
		if ns == Label {
			break // labels live only in the one enclosing function-body scope
		}
	}
	return out
}

// ClassifyLinkageAndStorage implements spec §4.2's linkage and
// storage-duration rules. atFileScope distinguishes file scope from block
// scope; class is the declaration's storage-class specifier (or
// NoStorageClass); prior, if non-nil, is an existing visible declaration of
// the same name whose linkage a block-scope `extern` should inherit.
func ClassifyLinkageAndStorage(atFileScope bool, class StorageClass, prior *Symbol) (Linkage, StorageDuration) {
	if atFileScope {
		switch class {
		case StaticClass:
			return Internal, Static
		default:
			// No storage-class specifier, or explicit extern: external
			// linkage, static duration (spec §4.2).
			return External, Static
		}
	}

	// Block scope.
	switch class {
	case ExternClass:
		if prior != nil && prior.Linkage != NoLinkage {
			return prior.Linkage, Static
		}
		return External, Static
	case StaticClass:
		return NoLinkage, Static
	default:
		return NoLinkage, Automatic
	}
}

// Namer encapsulates the synthesized-name counters spec §3/§6 describes
// (compound literal, string literal, floating constant), as explicit state
// rather than process globals (spec §9's design notes).
type Namer struct {
	nextCompoundLiteral uint32
	nextStringLiteral   uint32
	nextFloatConst      uint32
}

func (n *Namer) CompoundLiteral() string {
	name := synthName("__cl", n.nextCompoundLiteral)
	n.nextCompoundLiteral++
	return name
}

func (n *Namer) StringLiteral() string {
	name := synthName("__sl", n.nextStringLiteral)
	n.nextStringLiteral++
	return name
}

func (n *Namer) FloatConst() string {
	name := synthName("__fc", n.nextFloatConst)
	n.nextFloatConst++
	return name
}

// Namer exposes the table's counters so the analyzer can synthesize names
// while sharing this table's numbering.
func (t *Table) Namer() *Namer { return &t.namer }

func synthName(prefix string, n uint32) string {
	return prefix + strconv.FormatUint(uint64(n), 10)
}
