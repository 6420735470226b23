package eccapi

import (
	"testing"

	"github.com/ripleymj/ecc/internal/air"
	"github.com/ripleymj/ecc/internal/cast"
	"github.com/ripleymj/ecc/internal/option"
	"github.com/ripleymj/ecc/internal/symtab"
)

func TestHaltsPipelineOnAnalysisError(t *testing.T) {
	tu := &cast.TranslationUnit{Decls: []*cast.Decl{
		{Data: &cast.DObject{
			Spec:       &cast.DeclSpec{Keywords: []cast.BasicKeyword{cast.KwInt}, StorageClass: symtab.AutoClass},
			Declarator: &cast.Declarator{Name: "x"},
		}},
	}}

	called := false
	res := AnalyzeAndEmit(tu, func(*symtab.Table) *air.Program {
		called = true
		return &air.Program{}
	}, option.Options{})

	if !res.Halted {
		t.Fatalf("expected the pipeline to halt on a file-scope 'auto' error")
	}
	if called {
		t.Fatalf("expected air building to be skipped once analysis has errors")
	}
	if res.Assembly != "" {
		t.Fatalf("expected no assembly output when halted, got %q", res.Assembly)
	}
}

func TestEmitsAssemblyWhenAnalysisSucceeds(t *testing.T) {
	tu := &cast.TranslationUnit{Decls: []*cast.Decl{
		{Data: &cast.DObject{
			Spec:       &cast.DeclSpec{Keywords: []cast.BasicKeyword{cast.KwInt}},
			Declarator: &cast.Declarator{Name: "g"},
		}},
	}}

	res := AnalyzeAndEmit(tu, func(table *symtab.Table) *air.Program {
		return &air.Program{}
	}, option.Options{})

	if res.Halted {
		t.Fatalf("did not expect the pipeline to halt, diagnostics: %v", res.Diagnostics)
	}
}
