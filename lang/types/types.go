// Package types defines the Type representation the checker computes and
// manipulates: a small tagged tree of constructors, quantifiers, arrows,
// applications and structural rows, plus the metavariables (UniVar) and
// rigid variables (Skolem) unification introduces along the way.
//
// The shape deliberately mirrors lang/types.Value in the sibling machine
// package this checker replaces: a single narrow interface implemented by
// one small struct per variant, rather than a big enum-tagged struct. The
// variants are all declared in this file; the Row they share is in row.go.
package types

import "github.com/mna/typelang/lang/names"

// Type is the interface implemented by every type variant. It carries no
// behavior beyond identifying itself; all the interesting operations
// (unification, substitution, row lookup, ...) live in package checker and
// operate on Type by type-switching, exactly as the machine package
// type-switches on Value.
type Type interface {
	// String returns a human-readable rendering, used in diagnostics and
	// tests; it does not attempt to reconstruct surface syntax precedence.
	String() string

	typ() // unexported marker so only this package can add variants
}

// Var is a bound type variable: every Var must occur lexically under a
// matching Forall or Exists. Nothing checks this: mono returns a free Var
// unchanged and reports no error for it.
type Var struct {
	Name names.Name
}

func (Var) typ()          {}
func (v Var) String() string { return v.Name.String() }

// Skolem is a rigid, opaque type constant introduced when instantiating a
// quantifier on the "consumer" side (see Variance in package checker).
type Skolem struct {
	Name names.Name
}

func (Skolem) typ()          {}
func (s Skolem) String() string { return "$" + s.Name.String() }

// NewSkolem mints a skolem from a fresh name; callers pass in whatever name
// generator is in scope (the checker's) so the Skolem's identity Name.Id is
// process-unique like every other Name.
func NewSkolem(n names.Name) Skolem { return Skolem{Name: n} }

// UniVarID identifies a unification variable in the store kept by package
// unify; Type itself only needs the id, not the store.
type UniVarID uint64

// UniVar is a metavariable that unification may later solve to a concrete
// Type. Its actual solved/unsolved state and scope live in the unify.State
// table, indexed by ID - Type is a pure value type and never embeds mutable
// state.
type UniVar struct {
	ID UniVarID
}

func (UniVar) typ()          {}
func (u UniVar) String() string { return "?" + uitoa(uint64(u.ID)) }

// Name is a named type constructor, e.g. Int, List, or a user type.
type Name struct {
	Ref names.Name
}

func (Name) typ()          {}
func (n Name) String() string { return n.Ref.String() }

// Forall is a universal quantifier.
type Forall struct {
	V    names.Name
	Body Type
}

func (Forall) typ() {}
func (f Forall) String() string { return "forall " + f.V.String() + ". " + f.Body.String() }

// Exists is an existential quantifier.
type Exists struct {
	V    names.Name
	Body Type
}

func (Exists) typ() {}
func (e Exists) String() string { return "exists " + e.V.String() + ". " + e.Body.String() }

// Function is an arrow type A -> B.
type Function struct {
	Arg, Result Type
}

func (Function) typ() {}
func (f Function) String() string {
	return parenIfArrow(f.Arg) + " -> " + f.Result.String()
}

func parenIfArrow(t Type) string {
	if _, ok := t.(Function); ok {
		return "(" + t.String() + ")"
	}
	if f, ok := t.(Forall); ok {
		_ = f
		return "(" + t.String() + ")"
	}
	return t.String()
}

// Application is higher-kinded application, F A. Arrows (Function) are a
// distinct variant rather than sugar over Application.
type Application struct {
	Fn, Arg Type
}

func (Application) typ() {}
func (a Application) String() string { return a.Fn.String() + " " + parenIfApp(a.Arg) }

func parenIfApp(t Type) string {
	switch t.(type) {
	case Application, Function, Forall, Exists:
		return "(" + t.String() + ")"
	default:
		return t.String()
	}
}

// Record is a structural record type, the row describing its fields.
type Record struct {
	Row Row
}

func (Record) typ() {}
func (r Record) String() string { return "{" + r.Row.String() + "}" }

// Variant is a structural sum type, the row describing its tags.
type Variant struct {
	Row Row
}

func (Variant) typ() {}
func (v Variant) String() string { return "[" + v.Row.String() + "]" }

func uitoa(v uint64) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
