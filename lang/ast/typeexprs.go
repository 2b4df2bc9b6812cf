package ast

import (
	"github.com/mna/typelang/lang/names"
	"github.com/mna/typelang/lang/types"
)

// TypeNameExpr references a named type, either a builtin or a user TypeDecl.
type TypeNameExpr struct {
	span
	Name names.Name
}

func (*TypeNameExpr) typeExpr()        {}
func (t *TypeNameExpr) Walk(v Visitor) { walkLeaf(v, t) }

// TypeVarExpr references a bound type variable, introduced by an enclosing
// TypeForallExpr or TypeExistsExpr, or by a TypeDecl's Params.
type TypeVarExpr struct {
	span
	Name names.Name
}

func (*TypeVarExpr) typeExpr()        {}
func (t *TypeVarExpr) Walk(v Visitor) { walkLeaf(v, t) }

// TypeAppExpr is `Fn Arg`, type-level application, e.g. `List a`.
type TypeAppExpr struct {
	span
	Fn, Arg TypeExpr
}

func (*TypeAppExpr) typeExpr() {}
func (t *TypeAppExpr) Walk(v Visitor) {
	if v = v.Visit(t, VisitEnter); v == nil {
		return
	}
	Walk(v, t.Fn)
	Walk(v, t.Arg)
	v.Visit(t, VisitExit)
}

// TypeFuncExpr is `Arg -> Result`.
type TypeFuncExpr struct {
	span
	Arg, Result TypeExpr
}

func (*TypeFuncExpr) typeExpr() {}
func (t *TypeFuncExpr) Walk(v Visitor) {
	if v = v.Visit(t, VisitEnter); v == nil {
		return
	}
	Walk(v, t.Arg)
	Walk(v, t.Result)
	v.Visit(t, VisitExit)
}

// TypeRecordField is one `label : T` entry of a TypeRecordExpr.
type TypeRecordField struct {
	Label types.Label
	Type  TypeExpr
}

// TypeRecordExpr is `{ l1 : T1, l2 : T2, ... | ext }`; Extension is nil for
// a closed row.
type TypeRecordExpr struct {
	span
	Fields    []TypeRecordField
	Extension TypeExpr
}

func (*TypeRecordExpr) typeExpr() {}
func (t *TypeRecordExpr) Walk(v Visitor) {
	if v = v.Visit(t, VisitEnter); v == nil {
		return
	}
	for _, f := range t.Fields {
		Walk(v, f.Type)
	}
	if t.Extension != nil {
		Walk(v, t.Extension)
	}
	v.Visit(t, VisitExit)
}

// TypeVariantField is one `'Tag : T` entry of a TypeVariantExpr.
type TypeVariantField struct {
	Tag  types.Label
	Type TypeExpr
}

// TypeVariantExpr is `['Tag1 : T1 | 'Tag2 : T2 | ... | ext]`; Extension is
// nil for a closed row.
type TypeVariantExpr struct {
	span
	Fields    []TypeVariantField
	Extension TypeExpr
}

func (*TypeVariantExpr) typeExpr() {}
func (t *TypeVariantExpr) Walk(v Visitor) {
	if v = v.Visit(t, VisitEnter); v == nil {
		return
	}
	for _, f := range t.Fields {
		Walk(v, f.Type)
	}
	if t.Extension != nil {
		Walk(v, t.Extension)
	}
	v.Visit(t, VisitExit)
}

// TypeForallExpr is `forall a. Body`, a universally quantified type; user
// signatures elaborate to these at the outermost position for every
// generalized type variable.
type TypeForallExpr struct {
	span
	Var  names.Name
	Body TypeExpr
}

func (*TypeForallExpr) typeExpr() {}
func (t *TypeForallExpr) Walk(v Visitor) {
	if v = v.Visit(t, VisitEnter); v == nil {
		return
	}
	Walk(v, t.Body)
	v.Visit(t, VisitExit)
}

// TypeExistsExpr is `exists a. Body`, an existentially quantified type.
type TypeExistsExpr struct {
	span
	Var  names.Name
	Body TypeExpr
}

func (*TypeExistsExpr) typeExpr() {}
func (t *TypeExistsExpr) Walk(v Visitor) {
	if v = v.Visit(t, VisitEnter); v == nil {
		return
	}
	Walk(v, t.Body)
	v.Visit(t, VisitExit)
}
