package ast

import (
	"github.com/mna/typelang/lang/names"
	"github.com/mna/typelang/lang/types"
)

// IdentExpr references a name-resolved binding, either a value binding or a
// data constructor; the two are distinguished by the signature the checker
// finds for Name, not by the AST.
type IdentExpr struct {
	span
	Name names.Name
}

func (*IdentExpr) expr()            {}
func (e *IdentExpr) Walk(v Visitor) { walkLeaf(v, e) }

// LambdaExpr is `\param -> body`. Curried multi-argument lambdas are built
// by nesting: `\x y -> e` is LambdaExpr{x, LambdaExpr{y, e}}.
type LambdaExpr struct {
	span
	Param Pattern
	Body  Expr
}

func (*LambdaExpr) expr() {}
func (e *LambdaExpr) Walk(v Visitor) {
	if v = v.Visit(e, VisitEnter); v == nil {
		return
	}
	Walk(v, e.Param)
	Walk(v, e.Body)
	v.Visit(e, VisitExit)
}

// AppExpr is `fn arg`, left-associative application.
type AppExpr struct {
	span
	Fn, Arg Expr
}

func (*AppExpr) expr() {}
func (e *AppExpr) Walk(v Visitor) {
	if v = v.Visit(e, VisitEnter); v == nil {
		return
	}
	Walk(v, e.Fn)
	Walk(v, e.Arg)
	v.Visit(e, VisitExit)
}

// LetExpr locally introduces one or more (possibly mutually recursive)
// declarations in scope for Body; the dependency resolver groups Decls into
// SCCs exactly as it does for top-level declarations.
type LetExpr struct {
	span
	Decls []Decl
	Body  Expr
}

func (*LetExpr) expr() {}
func (e *LetExpr) Walk(v Visitor) {
	if v = v.Visit(e, VisitEnter); v == nil {
		return
	}
	for _, d := range e.Decls {
		Walk(v, d)
	}
	Walk(v, e.Body)
	v.Visit(e, VisitExit)
}

// AnnotationExpr is `expr : T`.
type AnnotationExpr struct {
	span
	Expr Expr
	Type TypeExpr
}

func (*AnnotationExpr) expr() {}
func (e *AnnotationExpr) Walk(v Visitor) {
	if v = v.Visit(e, VisitEnter); v == nil {
		return
	}
	Walk(v, e.Expr)
	Walk(v, e.Type)
	v.Visit(e, VisitExit)
}

// IfExpr is `if cond then true else false`.
type IfExpr struct {
	span
	Cond, True, False Expr
}

func (*IfExpr) expr() {}
func (e *IfExpr) Walk(v Visitor) {
	if v = v.Visit(e, VisitEnter); v == nil {
		return
	}
	Walk(v, e.Cond)
	Walk(v, e.True)
	Walk(v, e.False)
	v.Visit(e, VisitExit)
}

// MatchArm is one `patterns -> body` arm of a MatchExpr. All arms of the
// same MatchExpr must bind the same number of patterns ("Match
// requires all arms to have the same arity").
type MatchArm struct {
	Patterns []Pattern
	Body     Expr
}

// MatchExpr checks each arm's Patterns against the corresponding
// Scrutinees, in order, and folds the arm bodies' types with supertype.
// CaseExpr (single scrutinee, the common case) is sugar over this shape.
type MatchExpr struct {
	span
	Scrutinees []Expr
	Arms       []MatchArm
}

func (*MatchExpr) expr() {}
func (e *MatchExpr) Walk(v Visitor) {
	if v = v.Visit(e, VisitEnter); v == nil {
		return
	}
	for _, s := range e.Scrutinees {
		Walk(v, s)
	}
	for _, arm := range e.Arms {
		for _, p := range arm.Patterns {
			Walk(v, p)
		}
		Walk(v, arm.Body)
	}
	v.Visit(e, VisitExit)
}

// CaseExpr is `case scrutinee of pat1 -> body1 | pat2 -> body2 ...`, sugar
// for a single-scrutinee MatchExpr.
type CaseExpr struct {
	span
	Scrutinee Expr
	Arms      []CaseArm
}

// CaseArm is one `pattern -> body` arm of a CaseExpr.
type CaseArm struct {
	Pattern Pattern
	Body    Expr
}

func (*CaseExpr) expr() {}
func (e *CaseExpr) Walk(v Visitor) {
	if v = v.Visit(e, VisitEnter); v == nil {
		return
	}
	Walk(v, e.Scrutinee)
	for _, arm := range e.Arms {
		Walk(v, arm.Pattern)
		Walk(v, arm.Body)
	}
	v.Visit(e, VisitExit)
}

// AsMatch lowers a CaseExpr to the equivalent single-scrutinee MatchExpr the
// checker actually implements infer/check over.
func (e *CaseExpr) AsMatch() *MatchExpr {
	arms := make([]MatchArm, len(e.Arms))
	for i, a := range e.Arms {
		arms[i] = MatchArm{Patterns: []Pattern{a.Pattern}, Body: a.Body}
	}
	return &MatchExpr{span: e.span, Scrutinees: []Expr{e.Scrutinee}, Arms: arms}
}

// ListExpr is `[item1, item2, ...]`.
type ListExpr struct {
	span
	Items []Expr
}

func (*ListExpr) expr() {}
func (e *ListExpr) Walk(v Visitor) {
	if v = v.Visit(e, VisitEnter); v == nil {
		return
	}
	for _, it := range e.Items {
		Walk(v, it)
	}
	v.Visit(e, VisitExit)
}

// RecordField is one `label = value` entry of a RecordExpr.
type RecordField struct {
	Label types.Label
	Value Expr
}

// RecordExpr is `{ field1 = e1, field2 = e2, ... }`; it always infers to a
// closed record row.
type RecordExpr struct {
	span
	Fields []RecordField
}

func (*RecordExpr) expr() {}
func (e *RecordExpr) Walk(v Visitor) {
	if v = v.Visit(e, VisitEnter); v == nil {
		return
	}
	for _, f := range e.Fields {
		Walk(v, f.Value)
	}
	v.Visit(e, VisitExit)
}

// VariantExpr is `'Tag value`, injecting value into an open variant row.
type VariantExpr struct {
	span
	Tag   types.Label
	Value Expr
}

func (*VariantExpr) expr() {}
func (e *VariantExpr) Walk(v Visitor) {
	if v = v.Visit(e, VisitEnter); v == nil {
		return
	}
	Walk(v, e.Value)
	v.Visit(e, VisitExit)
}

// RecordLensExpr is a field-access path `f1.f2. ... .fn`, which the checker
// turns into a Lens (R[a]) (R[b]) a b value.
type RecordLensExpr struct {
	span
	Path []types.Label
}

func (*RecordLensExpr) expr()            {}
func (e *RecordLensExpr) Walk(v Visitor) { walkLeaf(v, e) }

// LiteralExpr is an Int, Text or Char literal.
type LiteralExpr struct {
	span
	Literal Literal
}

func (*LiteralExpr) expr()            {}
func (e *LiteralExpr) Walk(v Visitor) { walkLeaf(v, e) }

func walkLeaf(v Visitor, n Node) {
	if v = v.Visit(n, VisitEnter); v == nil {
		return
	}
	v.Visit(n, VisitExit)
}
