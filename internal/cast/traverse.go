package cast

// Category is the syntactic-category tag the traverser dispatches on (spec
// §4.4: "A pre-order/post-order visitor dispatched by syntactic-category
// tag"). It is coarser than the full ExprData/StmtData type switch the
// analyzer itself performs: Category exists so a generic pass (this
// package) can install before/after callbacks without knowing about every
// concrete node kind.
type Category uint8

const (
	CatExpr Category = iota
	CatStmt
	CatDecl
)

// Hooks is one category's before/after callback pair (spec §4.4: "Each
// category has two slots (before / after)"). A nil slot means "do nothing";
// unset categories are simply never looked up by Traverser.Visit*, matching
// spec's "unknown categories are ignored."
type Hooks struct {
	Before func(node interface{}) (skipChildren bool)
	After  func(node interface{})
}

// Traverser holds the installed before/after callbacks for each category
// and walks an AST in source order, recursing into every child
// sub-expression/statement in source order (spec §4.4).
type Traverser struct {
	hooks [3]Hooks
}

// On installs the before/after hooks for a category. A concrete pass calls
// this once per category it cares about; categories with no installed hooks
// are traversed (children are still visited) but produce no callback.
func (tr *Traverser) On(cat Category, hooks Hooks) {
	tr.hooks[cat] = hooks
}

func (tr *Traverser) fire(cat Category, node interface{}, before bool) bool {
	h := tr.hooks[cat]
	if before {
		if h.Before == nil {
			return false
		}
		return h.Before(node)
	}
	if h.After != nil {
		h.After(node)
	}
	return false
}

// VisitExpr recurses into e's children in source order, then fires the
// CatExpr before/after hooks around the visit (pre-order gate, post-order
// notification — matching spec §4.5's "single post-order traversal (with
// selective pre-order hooks)").
func (tr *Traverser) VisitExpr(e *Expr) {
	if e == nil {
		return
	}
	if tr.fire(CatExpr, e, true) {
		return
	}
	switch d := e.Data.(type) {
	case *EUnary:
		tr.VisitExpr(d.Operand)
	case *EBinary:
		tr.VisitExpr(d.Left)
		tr.VisitExpr(d.Right)
	case *EAssign:
		tr.VisitExpr(d.Left)
		tr.VisitExpr(d.Right)
	case *ECond:
		tr.VisitExpr(d.Cond)
		tr.VisitExpr(d.Then)
		tr.VisitExpr(d.Else)
	case *ECast:
		tr.VisitExpr(d.Operand)
	case *ESizeofExpr:
		tr.VisitExpr(d.Operand)
	case *ESubscript:
		tr.VisitExpr(d.Array)
		tr.VisitExpr(d.Index)
	case *EMember:
		tr.VisitExpr(d.Target)
	case *ECall:
		tr.VisitExpr(d.Callee)
		for _, a := range d.Args {
			tr.VisitExpr(a)
		}
	case *EComma:
		tr.VisitExpr(d.Left)
		tr.VisitExpr(d.Right)
	case *ECompoundLiteral:
		tr.visitInitList(d.Init)
	}
	tr.fire(CatExpr, e, false)
}

func (tr *Traverser) visitInitList(il *InitializerList) {
	if il == nil {
		return
	}
	for _, elem := range il.Elements {
		if elem.Nested != nil {
			tr.visitInitList(elem.Nested)
		} else {
			tr.VisitExpr(elem.Value)
		}
	}
}

// VisitStmt recurses into s's children in source order.
func (tr *Traverser) VisitStmt(s *Stmt) {
	if s == nil {
		return
	}
	if tr.fire(CatStmt, s, true) {
		return
	}
	switch d := s.Data.(type) {
	case *SCompound:
		for _, child := range d.Stmts {
			tr.VisitStmt(child)
		}
	case *SExpr:
		tr.VisitExpr(d.Value)
	case *SDecl:
		tr.VisitDecl(d.Decl)
	case *SIf:
		tr.VisitExpr(d.Cond)
		tr.VisitStmt(d.Then)
		tr.VisitStmt(d.Else)
	case *SWhile:
		tr.VisitExpr(d.Cond)
		tr.VisitStmt(d.Body)
	case *SDoWhile:
		tr.VisitStmt(d.Body)
		tr.VisitExpr(d.Cond)
	case *SFor:
		tr.VisitStmt(d.Init)
		tr.VisitExpr(d.Cond)
		tr.VisitExpr(d.Post)
		tr.VisitStmt(d.Body)
	case *SSwitch:
		tr.VisitExpr(d.Cond)
		tr.VisitStmt(d.Body)
	case *SLabeled:
		tr.VisitExpr(d.Value)
		tr.VisitStmt(d.Body)
	case *SReturn:
		tr.VisitExpr(d.Value)
	}
	tr.fire(CatStmt, s, false)
}

// VisitDecl recurses into d's children (a function definition's body, an
// object's initializer).
func (tr *Traverser) VisitDecl(d *Decl) {
	if d == nil {
		return
	}
	if tr.fire(CatDecl, d, true) {
		return
	}
	switch data := d.Data.(type) {
	case *DObject:
		tr.visitInitList(data.Init)
	case *DFunction:
		tr.VisitStmt(data.Body)
	}
	tr.fire(CatDecl, d, false)
}

// VisitTranslationUnit visits every top-level declaration in source order.
func (tr *Traverser) VisitTranslationUnit(tu *TranslationUnit) {
	for _, d := range tu.Decls {
		tr.VisitDecl(d)
	}
}
