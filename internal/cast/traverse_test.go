package cast

import "testing"

func TestTraverserVisitsChildrenInSourceOrder(t *testing.T) {
	// (1 + 2) * 3
	left := &Expr{Data: &EBinary{Op: BinAdd, Left: &Expr{Data: &EIntLiteral{Value: 1}}, Right: &Expr{Data: &EIntLiteral{Value: 2}}}}
	right := &Expr{Data: &EIntLiteral{Value: 3}}
	root := &Expr{Data: &EBinary{Op: BinMul, Left: left, Right: right}}

	var order []uint64
	tr := &Traverser{}
	tr.On(CatExpr, Hooks{
		After: func(node interface{}) {
			if e, ok := node.(*Expr); ok {
				if lit, ok := e.Data.(*EIntLiteral); ok {
					order = append(order, lit.Value)
				}
			}
		},
	})
	tr.VisitExpr(root)

	want := []uint64{1, 2, 3}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestTraverserBeforeHookCanSkipChildren(t *testing.T) {
	inner := &Expr{Data: &EIntLiteral{Value: 42}}
	root := &Expr{Data: &EUnary{Op: UnMinus, Operand: inner}}

	visited := 0
	tr := &Traverser{}
	tr.On(CatExpr, Hooks{
		Before: func(node interface{}) bool {
			e := node.(*Expr)
			visited++
			_, isUnary := e.Data.(*EUnary)
			return isUnary
		},
	})
	tr.VisitExpr(root)

	if visited != 1 {
		t.Fatalf("expected children to be skipped, visited = %d", visited)
	}
}

func TestTraverserWalksStmtAndDeclTrees(t *testing.T) {
	ret := &Stmt{Data: &SReturn{Value: &Expr{Data: &EIntLiteral{Value: 0}}}}
	body := &Stmt{Data: &SCompound{Stmts: []*Stmt{ret}}}
	fn := &Decl{Data: &DFunction{Body: body}}
	tu := &TranslationUnit{Decls: []*Decl{fn}}

	var stmtKinds []string
	tr := &Traverser{}
	tr.On(CatStmt, Hooks{
		After: func(node interface{}) {
			s := node.(*Stmt)
			switch s.Data.(type) {
			case *SCompound:
				stmtKinds = append(stmtKinds, "compound")
			case *SReturn:
				stmtKinds = append(stmtKinds, "return")
			}
		},
	})
	tr.VisitTranslationUnit(tu)

	if len(stmtKinds) != 2 || stmtKinds[0] != "return" || stmtKinds[1] != "compound" {
		t.Fatalf("unexpected traversal order: %v", stmtKinds)
	}
}
