// Package ast defines the name-resolved abstract syntax tree the checker
// consumes: expressions, patterns, declarations and the small surface
// syntax for type signatures. Concrete-syntax parsing, comments and
// pretty-printing are external collaborators and have no
// representation here - every node already carries resolved names.Name
// values rather than bare identifier strings.
package ast

import "github.com/mna/typelang/lang/token"

// Node is implemented by every node in the tree.
type Node interface {
	// Span reports the node's start and end source position.
	Span() (start, end token.Pos)

	// Walk enters each child node to implement the Visitor pattern.
	Walk(v Visitor)
}

// Expr is a checkable/inferable expression.
type Expr interface {
	Node
	expr()
}

// Pattern is checkable/inferable the same way an Expr is, but in the
// opposite direction: a pattern consumes a type rather than producing one.
type Pattern interface {
	Node
	pattern()
}

// Decl is a single top-level (or nested let-) declaration, before the
// dependency resolver has grouped it into an SCC.
type Decl interface {
	Node
	decl()
}

// TypeExpr is the surface syntax of a user-written type signature; the
// checker elaborates it into a types.Type (see checker.ElaborateType).
type TypeExpr interface {
	Node
	typeExpr()
}

type span struct {
	Start, End token.Pos
}

func (s span) Span() (start, end token.Pos) { return s.Start, s.End }

// LiteralKind distinguishes the three literal shapes the checker
// recognizes: IntLiteral (Nat if non-negative, else Int), TextLiteral
// and CharLiteral.
type LiteralKind uint8

const (
	IntLit LiteralKind = iota
	TextLit
	CharLit
)

// Literal is the shared value carried by both LiteralExpr and
// LiteralPattern, so `0` matches the same way whether it appears as an
// expression or as a pattern.
type Literal struct {
	Kind      LiteralKind
	IntValue  int64
	TextValue string
	CharValue rune
}

// IsNonNegativeInt reports whether l is an IntLit literal with a
// non-negative value, the condition the checker uses to infer Nat instead
// of Int.
func (l Literal) IsNonNegativeInt() bool { return l.Kind == IntLit && l.IntValue >= 0 }
