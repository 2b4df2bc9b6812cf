package ast

import (
	"github.com/mna/typelang/lang/names"
	"github.com/mna/typelang/lang/types"
)

// VarPattern binds the scrutinee to Name.
type VarPattern struct {
	span
	Name names.Name
}

func (*VarPattern) pattern()           {}
func (p *VarPattern) Walk(v Visitor) { walkLeaf(v, p) }

// WildcardPattern is `_`: it binds nothing but still consumes a fresh
// univar the same way VarPattern does (see inferPattern).
type WildcardPattern struct {
	span
	Name names.Name // always a names.Wildcard name
}

func (*WildcardPattern) pattern()           {}
func (p *WildcardPattern) Walk(v Visitor) { walkLeaf(v, p) }

// LiteralPattern matches a literal value exactly.
type LiteralPattern struct {
	span
	Literal Literal
}

func (*LiteralPattern) pattern()           {}
func (p *LiteralPattern) Walk(v Visitor) { walkLeaf(v, p) }

// ConstructorPattern matches a data constructor applied to Args; arity must
// match the constructor's declared signature (checked, not inferred).
type ConstructorPattern struct {
	span
	Ctor names.Name
	Args []Pattern
}

func (*ConstructorPattern) pattern() {}
func (p *ConstructorPattern) Walk(v Visitor) {
	if v = v.Visit(p, VisitEnter); v == nil {
		return
	}
	for _, a := range p.Args {
		Walk(v, a)
	}
	v.Visit(p, VisitExit)
}

// VariantPattern matches `'Tag sub`, producing (and requiring) an open
// variant row type.
type VariantPattern struct {
	span
	Tag types.Label
	Arg Pattern
}

func (*VariantPattern) pattern() {}
func (p *VariantPattern) Walk(v Visitor) {
	if v = v.Visit(p, VisitEnter); v == nil {
		return
	}
	Walk(v, p.Arg)
	v.Visit(p, VisitExit)
}

// RecordFieldPattern is one `label = pattern` entry of a RecordPattern.
type RecordFieldPattern struct {
	Label   types.Label
	Pattern Pattern
}

// RecordPattern destructures a (possibly open) record; unlisted fields are
// permitted at runtime, which is exactly what an open row with an extension
// expresses.
type RecordPattern struct {
	span
	Fields []RecordFieldPattern
}

func (*RecordPattern) pattern() {}
func (p *RecordPattern) Walk(v Visitor) {
	if v = v.Visit(p, VisitEnter); v == nil {
		return
	}
	for _, f := range p.Fields {
		Walk(v, f.Pattern)
	}
	v.Visit(p, VisitExit)
}

// DefinedNames returns every name a pattern binds, in left-to-right order;
// used by the dependency resolver to record (name -> DeclId) for every name
// a declaration's LHS pattern defines.
func DefinedNames(p Pattern) []names.Name {
	var out []names.Name
	var walk func(Pattern)
	walk = func(p Pattern) {
		switch p := p.(type) {
		case *VarPattern:
			out = append(out, p.Name)
		case *WildcardPattern:
			// binds nothing visible; no name to record.
		case *LiteralPattern:
		case *ConstructorPattern:
			for _, a := range p.Args {
				walk(a)
			}
		case *VariantPattern:
			walk(p.Arg)
		case *RecordPattern:
			for _, f := range p.Fields {
				walk(f.Pattern)
			}
		}
	}
	walk(p)
	return out
}
