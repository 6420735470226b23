// Package cast defines the abstract syntax tree the (out-of-scope) parser
// hands to the analyzer, and the generic traverser the analyzer is built on
// top of (spec §4.4). Every expression/statement/declaration is a small
// wrapper struct carrying a tagged-union "Data" payload: a marker interface
// picks which node-kind struct is live, and the traverser dispatches on its
// dynamic type via a type switch rather than virtual-inheritance dispatch
// (spec §9's design notes explicitly prefer this over virtual inheritance).
package cast

// Loc is a source position, carried by every node (spec §3: "row/column per
// node").
type Loc struct {
	Line   int
	Column int
}
