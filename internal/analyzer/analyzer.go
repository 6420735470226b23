// Package analyzer implements the post-parse semantic pass (spec §4.5): a
// single post-order traversal (with selective pre-order hooks, built on
// internal/cast's generic Traverser) that types every expression, resolves
// every identifier against internal/symtab, evaluates constant expressions
// via internal/cconst, checks declaration-level constraints, and elaborates
// initializer lists into positioned byte buffers plus relocations. Dispatch
// is by node kind, with scope push/pop discipline around compound
// statements and function bodies, and a "record a diagnostic, attach an
// error-class type, keep walking" failure handling discipline rather than
// panicking on malformed input.
package analyzer

import (
	"github.com/ripleymj/ecc/internal/cast"
	"github.com/ripleymj/ecc/internal/ctype"
	"github.com/ripleymj/ecc/internal/diag"
	"github.com/ripleymj/ecc/internal/option"
	"github.com/ripleymj/ecc/internal/symtab"
)

// loopOrSwitchKind tracks which context a break/continue is nested in, for
// the continue/break-context constraint checks (spec §4.5).
type loopOrSwitchKind uint8

const (
	ctxLoop loopOrSwitchKind = iota
	ctxSwitch
)

// switchState is the per-switch bookkeeping the nested switch-body
// traversal uses to validate case-value uniqueness and at-most-one-default
// (spec §4.5: "Switch-body analysis is a nested traversal").
type switchState struct {
	seenValues  map[int64]int // value -> source line first seen
	hasDefault  bool
	defaultLine int
}

// Analyzer holds all state threaded through one translation unit's
// analysis: the symbol table being populated, the diagnostic log, program
// options, and the scope/context stacks a plain recursive walk needs (spec
// §9: "encapsulate as fields of the traverser state passed explicitly, not
// as process globals").
type Analyzer struct {
	Table *symtab.Table
	Log   *diag.Log
	Opts  option.Options

	scope *symtab.Scope

	loopSwitchStack []loopOrSwitchKind
	switchStack     []*switchState

	currentFuncReturnType ctype.Type
	currentFuncIsVoid     bool

	// registerVars tracks which Ref values were declared `register`, so
	// the unary & register-address check (spec §4.5, §9) can test an
	// identifier occurrence in O(1) instead of re-walking declarations.
	registerVars map[symtab.Ref]bool

	// tentative collects file-scope object declarations with no
	// initializer and no `extern` (spec glossary's "tentative definition"),
	// so FinishTranslationUnit can promote the lone tentative definition
	// for each name to a zero-initialized definition (spec §9 open
	// question, resolved in DESIGN.md: promote rather than error).
	tentative []symtab.Ref

	// declaredFuncs records every ordinary-namespace function symbol seen,
	// for the prototype-less-call warning (spec §9 open question, resolved
	// in DESIGN.md: warn rather than error).
	declaredFuncs map[symtab.Ref]bool
}

// New creates an analyzer over a fresh symbol table rooted at file scope
// (spec §6: "an empty symbol table keyed to that translation unit").
func New(opts option.Options) *Analyzer {
	table := symtab.NewTable()
	return &Analyzer{
		Table:         table,
		Log:           diag.NewLog(),
		Opts:          opts,
		scope:         table.Root,
		registerVars:  make(map[symtab.Ref]bool),
		declaredFuncs: make(map[symtab.Ref]bool),
	}
}

func (a *Analyzer) pushScope(kind symtab.ScopeKind) {
	a.scope = a.Table.PushScope(a.scope, kind)
}

func (a *Analyzer) popScope() {
	a.scope = a.scope.Parent
}

func (a *Analyzer) errorf(loc cast.Loc, format string, args ...interface{}) {
	a.Log.AddErrorf(diag.Loc{Line: loc.Line, Column: loc.Column}, format, args...)
}

func (a *Analyzer) warnf(loc cast.Loc, format string, args ...interface{}) {
	a.Log.AddWarningf(diag.Loc{Line: loc.Line, Column: loc.Column}, format, args...)
}

// errorType attaches internal's error-class sentinel so downstream checks
// short-circuit without cascading diagnostics (spec §4.5/§7).
func errorType() ctype.Type { return ctype.ErrorType("") }

// AnalyzeTranslationUnit runs the full pass over tu and then finishes it
// (tentative-definition promotion). It is the package's main entry point.
func (a *Analyzer) AnalyzeTranslationUnit(tu *cast.TranslationUnit) {
	for _, d := range tu.Decls {
		a.analyzeFileScopeDecl(d)
	}
	a.FinishTranslationUnit()
}

// FinishTranslationUnit promotes any name whose only file-scope
// declaration(s) were tentative definitions to a zero-initialized
// definition (ISO 6.9.2(2); spec §9 open question — this port resolves it
// by promoting, matching what a real C translation unit does, rather than
// leaving the object's initializer unset).
func (a *Analyzer) FinishTranslationUnit() {
	for _, ref := range a.tentative {
		sym := a.Table.Get(ref)
		if sym == nil || !sym.IsTentative || sym.Init != nil {
			continue
		}
		size := sym.Type.Size()
		if size < 0 && sym.Type.IsIncompleteArray() {
			// An array never given a length by any later declaration is
			// completed with one element (ISO 6.9.2p2's `int x[];` case).
			sym.Type.HasLength = true
			sym.Type.Length = 1
			size = sym.Type.Size()
		}
		if size < 0 {
			// Any other type still incomplete at end of TU is left without
			// an initializer.
			continue
		}
		sym.Init = &symtab.InitData{Bytes: make([]byte, size)}
		sym.IsTentative = false
	}
}
