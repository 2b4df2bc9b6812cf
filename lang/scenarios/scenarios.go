// Package scenarios builds literal, hand-constructed ASTs for the checker's
// testable scenarios. There is no parser in this module (lexing
// and concrete syntax are external collaborators), so both the
// checker test suite and the CLI demo drive the checker directly off of
// these Go-built declaration lists rather than off parsed source text.
package scenarios

import (
	"github.com/mna/typelang/lang/ast"
	"github.com/mna/typelang/lang/names"
	"github.com/mna/typelang/lang/types"
)

// Scenario is one named, self-contained program: a list of top-level
// declarations, the name whose inferred type is the scenario's result, and
// whether type-checking it is expected to produce a fatal diagnostic.
type Scenario struct {
	Name        string
	Gen         *names.Generator
	Decls       []ast.Decl
	Principal   names.Name
	WantFatal   bool
	Description string
}

// All returns every scenario the checker's test suite covers, in the
// conventional order: accepted scenarios first, then the rejection cases.
func All() []Scenario {
	return []Scenario{
		identity(),
		constFn(),
		applyFn(),
		recordDup(),
		caseOfVariant(),
		recordLens(),
		precedenceAboveApplication(),
		selfApplication(),
		recordMissingField(),
		danglingSignature(),
		selfFixity(),
	}
}

func decl(pattern ast.Pattern, value ast.Expr) *ast.ValueDecl {
	return &ast.ValueDecl{Pattern: pattern, Value: value}
}

func varPat(n names.Name) *ast.VarPattern { return &ast.VarPattern{Name: n} }

func ident(n names.Name) *ast.IdentExpr { return &ast.IdentExpr{Name: n} }

// identity: id = \x -> x  ⇒  ∀a. a → a
func identity() Scenario {
	gen := &names.Generator{}
	x := gen.Fresh("x", names.NoLoc)
	id := gen.Fresh("id", names.NoLoc)
	return Scenario{
		Name:        "identity",
		Gen:         gen,
		Principal:   id,
		Description: "id = \\x -> x  =>  forall a. a -> a",
		Decls: []ast.Decl{
			decl(varPat(id), &ast.LambdaExpr{Param: varPat(x), Body: ident(x)}),
		},
	}
}

// constFn: const = \x y -> x  ⇒  ∀a. ∀b. a → b → a
func constFn() Scenario {
	gen := &names.Generator{}
	x := gen.Fresh("x", names.NoLoc)
	y := gen.Fresh("y", names.NoLoc)
	c := gen.Fresh("const", names.NoLoc)
	return Scenario{
		Name:        "const",
		Gen:         gen,
		Principal:   c,
		Description: "const = \\x y -> x  =>  forall a. forall b. a -> b -> a",
		Decls: []ast.Decl{
			decl(varPat(c), &ast.LambdaExpr{
				Param: varPat(x),
				Body:  &ast.LambdaExpr{Param: varPat(y), Body: ident(x)},
			}),
		},
	}
}

// applyFn: apply = \f x -> f x  ⇒  ∀a. ∀b. (a → b) → a → b
func applyFn() Scenario {
	gen := &names.Generator{}
	f := gen.Fresh("f", names.NoLoc)
	x := gen.Fresh("x", names.NoLoc)
	ap := gen.Fresh("apply", names.NoLoc)
	return Scenario{
		Name:        "apply",
		Gen:         gen,
		Principal:   ap,
		Description: "apply = \\f x -> f x  =>  forall a. forall b. (a -> b) -> a -> b",
		Decls: []ast.Decl{
			decl(varPat(ap), &ast.LambdaExpr{
				Param: varPat(f),
				Body: &ast.LambdaExpr{
					Param: varPat(x),
					Body:  &ast.AppExpr{Fn: ident(f), Arg: ident(x)},
				},
			}),
		},
	}
}

// recordDup: (\x -> { name = x, self = x }) "hi"  ⇒  { name : Text, self : Text }
func recordDup() Scenario {
	gen := &names.Generator{}
	x := gen.Fresh("x", names.NoLoc)
	r := gen.Fresh("recordDemo", names.NoLoc)
	lambda := &ast.LambdaExpr{
		Param: varPat(x),
		Body: &ast.RecordExpr{Fields: []ast.RecordField{
			{Label: "name", Value: ident(x)},
			{Label: "self", Value: ident(x)},
		}},
	}
	app := &ast.AppExpr{
		Fn:  lambda,
		Arg: &ast.LiteralExpr{Literal: ast.Literal{Kind: ast.TextLit, TextValue: "hi"}},
	}
	return Scenario{
		Name:        "record-duplicate-use",
		Gen:         gen,
		Principal:   r,
		Description: `(\x -> { name = x, self = x }) "hi"  =>  { name : Text, self : Text }`,
		Decls:       []ast.Decl{decl(varPat(r), app)},
	}
}

// caseOfVariant: f = \v -> case v of 'Some x -> x | 'None -> 0
//
//	⇒  ∀r. ['Some : Nat, 'None : {} | r] → Nat
func caseOfVariant() Scenario {
	gen := &names.Generator{}
	v := gen.Fresh("v", names.NoLoc)
	x := gen.Fresh("x", names.NoLoc)
	f := gen.Fresh("f", names.NoLoc)
	wc := gen.FreshWildcard(names.NoLoc)

	body := &ast.CaseExpr{
		Scrutinee: ident(v),
		Arms: []ast.CaseArm{
			{Pattern: &ast.VariantPattern{Tag: "Some", Arg: varPat(x)}, Body: ident(x)},
			{
				Pattern: &ast.VariantPattern{Tag: "None", Arg: &ast.WildcardPattern{Name: wc}},
				Body:    &ast.LiteralExpr{Literal: ast.Literal{Kind: ast.IntLit, IntValue: 0}},
			},
		},
	}
	return Scenario{
		Name:        "case-of-variant",
		Gen:         gen,
		Principal:   f,
		Description: "f = \\v -> case v of 'Some x -> x | 'None -> 0  =>  forall r. ['Some : Nat, 'None : {} | r] -> Nat",
		Decls:       []ast.Decl{decl(varPat(f), &ast.LambdaExpr{Param: varPat(v), Body: body})},
	}
}

// selfApplication (rejection): bad = \x -> x x — indirect self-referential type.
func selfApplication() Scenario {
	gen := &names.Generator{}
	x := gen.Fresh("x", names.NoLoc)
	bad := gen.Fresh("bad", names.NoLoc)
	return Scenario{
		Name:        "self-application",
		Gen:         gen,
		Principal:   bad,
		WantFatal:   true,
		Description: "bad = \\x -> x x  =>  self-referential type error",
		Decls: []ast.Decl{
			decl(varPat(bad), &ast.LambdaExpr{
				Param: varPat(x),
				Body:  &ast.AppExpr{Fn: ident(x), Arg: ident(x)},
			}),
		},
	}
}

// recordMissingField (rejection): ({a = 1} : { b : Int }) — record does not
// contain field b.
func recordMissingField() Scenario {
	gen := &names.Generator{}
	bad := gen.Fresh("bad", names.NoLoc)
	ann := &ast.AnnotationExpr{
		Expr: &ast.RecordExpr{Fields: []ast.RecordField{
			{Label: "a", Value: &ast.LiteralExpr{Literal: ast.Literal{Kind: ast.IntLit, IntValue: 1}}},
		}},
		Type: &ast.TypeRecordExpr{Fields: []ast.TypeRecordField{
			{Label: "b", Type: &ast.TypeNameExpr{Name: names.BuiltinName(names.BuiltinInt)}},
		}},
	}
	return Scenario{
		Name:        "record-missing-field",
		Gen:         gen,
		Principal:   bad,
		WantFatal:   true,
		Description: `({a = 1} : { b : Int })  =>  record does not contain field b`,
		Decls:       []ast.Decl{decl(varPat(bad), ann)},
	}
}

// danglingSignature (rejection, non-fatal): f : Int with no matching binding.
func danglingSignature() Scenario {
	gen := &names.Generator{}
	f := gen.Fresh("f", names.NoLoc)
	return Scenario{
		Name:        "dangling-signature",
		Gen:         gen,
		Principal:   f,
		WantFatal:   false,
		Description: "f : Int  (no binding)  =>  dangling-signature warning, no fatal",
		Decls: []ast.Decl{
			&ast.SignatureDecl{Name: f, Type: &ast.TypeNameExpr{Name: names.BuiltinName(names.BuiltinInt)}},
		},
	}
}

// recordLens: lens = .a  ⇒  ∀a b c d. Lens {a : a | c} {a : b | d} a b
func recordLens() Scenario {
	gen := &names.Generator{}
	lens := gen.Fresh("lens", names.NoLoc)
	return Scenario{
		Name:        "record-lens",
		Gen:         gen,
		Principal:   lens,
		Description: "lens = .a  =>  forall a b c d. Lens {a:a|c} {a:b|d} a b",
		Decls: []ast.Decl{
			decl(varPat(lens), &ast.RecordLensExpr{Path: []types.Label{"a"}}),
		},
	}
}

// precedenceAboveApplication: infix left (*) above (+) — neither relation
// mentions function application, but both operators must still end up
// implicitly ordered below it in the resolved poset.
func precedenceAboveApplication() Scenario {
	gen := &names.Generator{}
	plus := gen.Fresh("+", names.NoLoc)
	star := gen.Fresh("*", names.NoLoc)
	return Scenario{
		Name:        "precedence-above-application",
		Gen:         gen,
		WantFatal:   false,
		Description: "infix left (*) above (+)  =>  both bind looser than application by default",
		Decls: []ast.Decl{
			&ast.FixityDecl{Relations: []ast.FixityRelation{
				{Left: ast.Op{Name: plus}, Right: ast.Op{Name: star}, Assoc: ast.LeftAssoc},
			}},
		},
	}
}

// selfFixity (rejection): infix left (+) above (+) — self-reference fatal.
func selfFixity() Scenario {
	gen := &names.Generator{}
	plus := gen.Fresh("+", names.NoLoc)
	return Scenario{
		Name:        "self-fixity",
		Gen:         gen,
		WantFatal:   true,
		Description: "infix left (+) above (+)  =>  self-reference fatal",
		Decls: []ast.Decl{
			&ast.FixityDecl{Relations: []ast.FixityRelation{
				{Left: ast.Op{Name: plus}, Right: ast.Op{Name: plus}, Assoc: ast.LeftAssoc},
			}},
		},
	}
}
