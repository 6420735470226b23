package analyzer

import (
	"github.com/ripleymj/ecc/internal/cast"
	"github.com/ripleymj/ecc/internal/ctype"
	"github.com/ripleymj/ecc/internal/symtab"
)

// AnalyzeStmt analyzes one statement and its children (spec §4.5:
// declaration-level constraint checks that apply to statements - switch/
// case/default placement, continue/break contexts, return-value matching).
func (a *Analyzer) AnalyzeStmt(s *cast.Stmt) {
	if s == nil {
		return
	}
	switch d := s.Data.(type) {
	case *cast.SCompound:
		a.pushScope(symtab.ScopeBlock)
		for _, child := range d.Stmts {
			a.AnalyzeStmt(child)
		}
		a.popScope()

	case *cast.SExpr:
		a.AnalyzeExpr(d.Value)

	case *cast.SDecl:
		a.analyzeBlockDecl(d.Decl)

	case *cast.SIf:
		a.AnalyzeExpr(d.Cond)
		if !d.Cond.Type.IsScalar() && !d.Cond.Type.IsError() {
			a.errorf(s.Loc, "if condition must be scalar")
		}
		a.AnalyzeStmt(d.Then)
		a.AnalyzeStmt(d.Else)

	case *cast.SWhile:
		a.AnalyzeExpr(d.Cond)
		a.loopSwitchStack = append(a.loopSwitchStack, ctxLoop)
		a.AnalyzeStmt(d.Body)
		a.loopSwitchStack = a.loopSwitchStack[:len(a.loopSwitchStack)-1]

	case *cast.SDoWhile:
		a.loopSwitchStack = append(a.loopSwitchStack, ctxLoop)
		a.AnalyzeStmt(d.Body)
		a.loopSwitchStack = a.loopSwitchStack[:len(a.loopSwitchStack)-1]
		a.AnalyzeExpr(d.Cond)

	case *cast.SFor:
		a.pushScope(symtab.ScopeForInit)
		a.AnalyzeStmt(d.Init)
		a.AnalyzeExpr(d.Cond)
		a.AnalyzeExpr(d.Post)
		a.loopSwitchStack = append(a.loopSwitchStack, ctxLoop)
		a.AnalyzeStmt(d.Body)
		a.loopSwitchStack = a.loopSwitchStack[:len(a.loopSwitchStack)-1]
		a.popScope()

	case *cast.SSwitch:
		a.analyzeSwitch(s, d)

	case *cast.SLabeled:
		a.analyzeLabeled(s, d)

	case *cast.SGoto:
		if _, ok := a.Table.Lookup(a.scope, symtab.Label, d.Name); !ok {
			a.errorf(s.Loc, "goto references undeclared label %q", d.Name)
		}

	case *cast.SContinue:
		if !a.inContext(ctxLoop) {
			a.errorf(s.Loc, "continue statement not within a loop")
		}

	case *cast.SBreak:
		if len(a.loopSwitchStack) == 0 {
			a.errorf(s.Loc, "break statement not within a loop or switch")
		}

	case *cast.SReturn:
		a.analyzeReturn(s, d)

	case *cast.SEmpty:
	}
}

func (a *Analyzer) inContext(kind loopOrSwitchKind) bool {
	for _, k := range a.loopSwitchStack {
		if k == kind {
			return true
		}
	}
	return false
}

func (a *Analyzer) analyzeBlockDecl(d *cast.Decl) {
	switch data := d.Data.(type) {
	case *cast.DObject:
		a.analyzeObjectDecl(data, d.Loc, false)
	case *cast.DFunction:
		a.analyzeFunctionDecl(data, d.Loc)
	case *cast.DEmpty:
		a.resolveBaseType(data.Spec)
	}
}

// analyzeSwitch runs the nested switch-body traversal spec §4.5 describes:
// walk only the immediate labeled-statements to validate case-value
// uniqueness and at-most-one default, independent of the general statement
// walk which still recurses into the full body for nested statements.
func (a *Analyzer) analyzeSwitch(s *cast.Stmt, d *cast.SSwitch) {
	a.AnalyzeExpr(d.Cond)
	if !d.Cond.Type.IsInteger() && !d.Cond.Type.IsError() {
		a.errorf(s.Loc, "switch condition must have integer type")
	}

	st := &switchState{seenValues: make(map[int64]int)}
	a.switchStack = append(a.switchStack, st)
	a.loopSwitchStack = append(a.loopSwitchStack, ctxSwitch)

	a.scanSwitchLabels(d.Body, st)
	a.AnalyzeStmt(d.Body)

	a.loopSwitchStack = a.loopSwitchStack[:len(a.loopSwitchStack)-1]
	a.switchStack = a.switchStack[:len(a.switchStack)-1]
}

// scanSwitchLabels walks s and its immediate control-flow children (not
// descending into nested switch/loop bodies, whose own case/default labels
// belong to a different switch) looking for SLabeled case/default nodes.
func (a *Analyzer) scanSwitchLabels(s *cast.Stmt, st *switchState) {
	if s == nil {
		return
	}
	switch d := s.Data.(type) {
	case *cast.SCompound:
		for _, child := range d.Stmts {
			a.scanSwitchLabels(child, st)
		}
	case *cast.SIf:
		a.scanSwitchLabels(d.Then, st)
		a.scanSwitchLabels(d.Else, st)
	case *cast.SLabeled:
		switch d.Kind {
		case cast.LabelCase:
			a.AnalyzeExpr(d.Value)
			v, err := a.evalConst(d.Value)
			if err == nil {
				iv := v.Int64()
				if line, dup := st.seenValues[iv]; dup {
					a.errorf(s.Loc, "case statement on line %d has expression with the same value", line)
				} else {
					st.seenValues[iv] = s.Loc.Line
				}
			}
		case cast.LabelDefault:
			if st.hasDefault {
				a.errorf(s.Loc, "switch statement already has a default label on line %d", st.defaultLine)
			} else {
				st.hasDefault = true
				st.defaultLine = s.Loc.Line
			}
		}
		a.scanSwitchLabels(d.Body, st)
	case *cast.SWhile:
	case *cast.SDoWhile:
	case *cast.SFor:
	case *cast.SSwitch:
		// A nested switch owns its own case/default labels.
	}
}

func (a *Analyzer) analyzeLabeled(s *cast.Stmt, d *cast.SLabeled) {
	switch d.Kind {
	case cast.LabelNamed:
		fb := a.scope.EnclosingFunctionBody()
		if fb != nil {
			ref := a.Table.NewSymbol(d.Name, symtab.Label, ctype.Basic(ctype.TVoid))
			if _, dup := a.Table.LookupLocal(fb, symtab.Label, d.Name); dup {
				a.errorf(s.Loc, "label %q redefined", d.Name)
			} else {
				a.Table.Bind(fb, symtab.Label, d.Name, ref)
			}
		}
	case cast.LabelCase:
		if len(a.switchStack) == 0 {
			a.errorf(s.Loc, "case label not within a switch statement")
		}
	case cast.LabelDefault:
		if len(a.switchStack) == 0 {
			a.errorf(s.Loc, "default label not within a switch statement")
		}
	}
	a.AnalyzeStmt(d.Body)
}

func (a *Analyzer) analyzeReturn(s *cast.Stmt, d *cast.SReturn) {
	if d.Value != nil {
		a.AnalyzeExpr(d.Value)
	}
	switch {
	case a.currentFuncIsVoid && d.Value != nil:
		a.errorf(s.Loc, "'return' with a value in a function returning void")
	case !a.currentFuncIsVoid && d.Value == nil:
		a.errorf(s.Loc, "'return' with no value in a function returning non-void")
	case !a.currentFuncIsVoid && d.Value != nil:
		if !a.CanAssign(a.currentFuncReturnType, d.Value.Type, d.Value) {
			a.errorf(s.Loc, "return value type does not match the function's return type")
		}
	}
}
