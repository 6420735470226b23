// Package eccapi is the public entry point wiring the analyzer, emitter,
// and assembly writer into the single call spec §6 describes: given an
// already-parsed AST and an air program for the same translation unit,
// produce either GAS assembly text or a halting diagnostic list.
//
// Modeled on pkg/api.Build: a plain options-in, result-out function with no
// package-level state, result fields named after what they contain rather
// than how they were produced.
package eccapi

import (
	"github.com/ripleymj/ecc/internal/air"
	"github.com/ripleymj/ecc/internal/analyzer"
	"github.com/ripleymj/ecc/internal/asmwriter"
	"github.com/ripleymj/ecc/internal/cast"
	"github.com/ripleymj/ecc/internal/diag"
	"github.com/ripleymj/ecc/internal/emitter"
	"github.com/ripleymj/ecc/internal/option"
	"github.com/ripleymj/ecc/internal/symtab"
)

// Result is the outcome of one AnalyzeAndEmit call.
type Result struct {
	// Assembly is the GAS-syntax text of the compiled translation unit.
	// Empty when analysis halted the pipeline (spec §7).
	Assembly string

	// Diagnostics is every warning and error the analyzer recorded, in the
	// order they were recorded (spec §6).
	Diagnostics []diag.Msg

	// Halted reports whether a non-warning error stopped emission from
	// running at all (spec §7: "The driver, after analysis completes,
	// counts non-warning errors and halts the pipeline if any exist").
	Halted bool
}

// AnalyzeAndEmit analyzes tu, and if analysis produced no errors, builds
// air into assembly text. air is supplied by an out-of-scope instruction
// selector that consumes the analyzer's decorated AST and symbol table;
// this function's only job is sequencing and the halt-on-error rule.
func AnalyzeAndEmit(tu *cast.TranslationUnit, buildAir func(*symtab.Table) *air.Program, opts option.Options) Result {
	a := analyzer.New(opts)
	a.AnalyzeTranslationUnit(tu)

	diags := a.Log.Done()
	if a.Log.HasErrors() {
		return Result{Diagnostics: diags, Halted: true}
	}

	prog := buildAir(a.Table)
	out := emitter.Emit(prog, a.Table, opts, a.Log)

	// The emitter can append its own internal-error diagnostics (spec §7:
	// "a missing or mistyped air operand is an assertion-class internal
	// error"); fold those into the result without re-running analysis.
	diags = a.Log.Done()

	return Result{
		Assembly:    asmwriter.Write(out),
		Diagnostics: diags,
		Halted:      false,
	}
}
