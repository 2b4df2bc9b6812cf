package ast

import (
	"github.com/mna/typelang/lang/names"
)

// ValueDecl is `pattern = expr`, the general let/top-level binding form; a
// plain `name = expr` binding is the common case where Pattern is a
// VarPattern.
type ValueDecl struct {
	span
	Pattern Pattern
	Value   Expr
}

func (*ValueDecl) decl() {}
func (d *ValueDecl) Walk(v Visitor) {
	if v = v.Visit(d, VisitEnter); v == nil {
		return
	}
	Walk(v, d.Pattern)
	Walk(v, d.Value)
	v.Visit(d, VisitExit)
}

// ConstructorDef is one data constructor of a TypeDecl, `Name T1 T2 ...`.
type ConstructorDef struct {
	Name names.Name
	Args []TypeExpr
}

// TypeDecl introduces a new named type and its data constructors (if any);
// a type alias (no constructors, a single Body) and a sum type (one or more
// Constructors) are both represented by this node, distinguished by which of
// the two fields is populated.
type TypeDecl struct {
	span
	Name         names.Name
	Params       []names.Name
	Body         TypeExpr // non-nil for an alias, nil for a sum type
	Constructors []ConstructorDef
}

func (*TypeDecl) decl() {}
func (d *TypeDecl) Walk(v Visitor) {
	if v = v.Visit(d, VisitEnter); v == nil {
		return
	}
	if d.Body != nil {
		Walk(v, d.Body)
	}
	for _, c := range d.Constructors {
		for _, a := range c.Args {
			Walk(v, a)
		}
	}
	v.Visit(d, VisitExit)
}

// SignatureDecl is a standalone `name : T` signature, consulted by
// inferDecls to seed a declaration's polytype ahead of inferring its body
// (a standalone signature); a SignatureDecl with no matching ValueDecl in
// the same group is the DanglingSignature diagnostic.
type SignatureDecl struct {
	span
	Name names.Name
	Type TypeExpr
}

func (*SignatureDecl) decl() {}
func (d *SignatureDecl) Walk(v Visitor) {
	if v = v.Visit(d, VisitEnter); v == nil {
		return
	}
	Walk(v, d.Type)
	v.Visit(d, VisitExit)
}

// Associativity is the associativity side of a FixityDecl.
type Associativity uint8

const (
	NonAssoc Associativity = iota
	LeftAssoc
	RightAssoc
)

func (a Associativity) String() string {
	switch a {
	case LeftAssoc:
		return "left"
	case RightAssoc:
		return "right"
	default:
		return "non-assoc"
	}
}

// Op identifies a member of the fixity/precedence poset: either a resolved
// operator Name, or - when IsApplication is true, the implicit None case of
// this otherwise-Option<Name> value - the distinguished "function
// application" member every declared operator is implicitly ordered below
// unless a relation says otherwise (see depres.ApplicationId). Two uses of
// the same operator symbol resolve to the same Name, so Op is just a thin
// wrapper kept distinct from names.Name for readability at call sites that
// deal in fixity rather than general name resolution.
type Op struct {
	Name          names.Name
	IsApplication bool
}

// FixityRelation is one `op1 < op2` or `op1 = op2` precedence declaration
// Assoc only applies to the EQ case: declaring two operators
// of equal precedence also fixes how a chain of them associates.
type FixityRelation struct {
	Left, Right Op
	// Equal, when true, makes this an equal-precedence-class relation
	// (Left and Right end up in the same poset.EqClass); when false, Left is
	// declared strictly lower precedence than Right.
	Equal bool
	Assoc Associativity
}

// FixityDecl declares precedence relations between one or more pairs of
// operators in a single statement, e.g. `infix + - < * /`.
type FixityDecl struct {
	span
	Relations []FixityRelation
}

func (*FixityDecl) decl() {}
func (d *FixityDecl) Walk(v Visitor) { walkLeaf(v, d) }
