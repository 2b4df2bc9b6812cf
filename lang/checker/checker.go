// Package checker implements the bidirectional type checker: infer
// synthesizes a type from an expression, check verifies an expression
// against an expected type, and the two call into each other exactly as a
// bidirectional algorithm requires (an AppExpr infers its function and
// checks its argument; an AnnotationExpr elaborates its annotation and
// checks the inner expression against it, and so on).
//
// The package mirrors the sibling (Lua-oriented) lang/machine package's
// organization - one file per concern, a small top-level type (Checker
// here, Frame there) threaded through every operation by pointer - rather
// than introducing a new shape for what is, underneath, the same kind of
// tree-walking evaluator.
package checker

import (
	"github.com/dolthub/swiss"

	"github.com/mna/typelang/lang/builtins"
	"github.com/mna/typelang/lang/diag"
	"github.com/mna/typelang/lang/names"
	"github.com/mna/typelang/lang/token"
	"github.com/mna/typelang/lang/types"
	"github.com/mna/typelang/lang/unify"
)

// Checker holds everything one run of inference threads through: the
// unification table, the configured builtins, the diagnostic sink, and the
// name generator used to mint fresh skolems and bound variables.
type Checker struct {
	state    *unify.State
	builtins builtins.Builtins
	sink     *diag.Sink
	gen      *names.Generator
	file     *token.File
}

// New creates a Checker. file may be nil, in which case diagnostics carry
// an unknown position (see names.Loc.String).
func New(gen *names.Generator, b builtins.Builtins, sink *diag.Sink, file *token.File) *Checker {
	return &Checker{
		state:    unify.NewState(gen),
		builtins: b,
		sink:     sink,
		gen:      gen,
		file:     file,
	}
}

func (c *Checker) loc(p token.Pos) names.Loc { return names.Loc{File: c.file, Pos: p} }

func (c *Checker) locOf(n interface{ Span() (token.Pos, token.Pos) }) names.Loc {
	start, _ := n.Span()
	return c.loc(start)
}

// Env is the typing environment: a chain of swiss.Map layers, one per
// scope, mapping a resolved name's Id to its type. Looking up a name walks
// outward through parents, exactly like the sibling resolver package's
// block/parent chain, but keyed by name identity instead of by source text
// since every Name.Id is already globally unique.
type Env struct {
	vars   *swiss.Map[names.Id, types.Type]
	parent *Env
}

// NewEnv creates an empty root environment.
func NewEnv() *Env {
	return &Env{vars: swiss.NewMap[names.Id, types.Type](16)}
}

// Child returns a new environment layer nested under e.
func (e *Env) Child() *Env {
	return &Env{vars: swiss.NewMap[names.Id, types.Type](4), parent: e}
}

// Bind records id's type in this layer, shadowing any binding of the same
// id in an outer layer.
func (e *Env) Bind(id names.Id, t types.Type) { e.vars.Put(id, t) }

// Lookup searches this layer and every enclosing one, innermost first.
func (e *Env) Lookup(id names.Id) (types.Type, bool) {
	for env := e; env != nil; env = env.parent {
		if t, ok := env.vars.Get(id); ok {
			return t, true
		}
	}
	return nil, false
}

func notASubtype(c *Checker, loc names.Loc, sub, super types.Type) error {
	return c.sink.Fatal(diag.NotASubtype, loc, "%s is not a subtype of %s", sub, super)
}

func solveUniVarTo(c *Checker, loc names.Loc, u types.UniVar, t types.Type) error {
	if err := c.state.SolveUniVar(u, t); err != nil {
		switch e := err.(type) {
		case unify.ErrSelfReferential:
			return c.sink.Fatal(diag.SelfReferentialType, loc, "%s", e)
		case unify.ErrAlreadySolved:
			return c.sink.Fatal(diag.InternalAlreadySolved, loc, "%s", e)
		default:
			return c.sink.Fatal(diag.InternalAlreadySolved, loc, "%s", err)
		}
	}
	return nil
}

// resolveShallow follows the chain of solved-UniVar links starting at t, if
// t is one, and returns the first type along it that is not a solved
// UniVar; otherwise it returns t unchanged. It does not recurse into Function,
// Application or row fields - callers that need a fully resolved tree use
// normalise instead.
func resolveShallow(st *unify.State, t types.Type) types.Type {
	for {
		u, ok := t.(types.UniVar)
		if !ok {
			return t
		}
		sol, solved := st.Lookup(u)
		if !solved {
			return t
		}
		t = sol
	}
}

func reachableSubtype(b builtins.Builtins, from, to names.Name) bool {
	if from.Equal(to) {
		return true
	}
	seen := map[names.Id]bool{from.Id: true}
	queue := []names.Name{from}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, sup := range b.DirectSupertypes(n) {
			if sup.Equal(to) {
				return true
			}
			if !seen[sup.Id] {
				seen[sup.Id] = true
				queue = append(queue, sup)
			}
		}
	}
	return false
}
