// Package unify holds the single mutable unification-variable table the
// checker threads through a whole compilation run: for every UniVar it
// records either the Scope at which it was created (unsolved) or the Type
// it was solved to. It also implements forallScope, the scope-sensitive
// generalization rule that recovers polymorphism after inference
// monomorphizes a binding.
package unify

import (
	"fmt"

	"github.com/mna/typelang/lang/names"
	"github.com/mna/typelang/lang/types"
)

// Scope is a non-negative integer depth counter. It is incremented on
// entering a forallScope region and decremented on exit; a UniVar created at
// a given scope must never be referenced, once solved, by a type that
// escapes to a shallower scope (see State.SolveUniVar).
type Scope int

const rootScope Scope = 0

type cell struct {
	solved bool
	scope  Scope      // meaningful only if !solved
	typ    types.Type // meaningful only if solved
}

// State is the process-scoped mutable unification table. The zero value is
// not ready to use; call NewState.
type State struct {
	gen          *names.Generator
	cells        []cell
	currentScope Scope
}

// NewState creates an empty unification table. gen is used to mint the
// fresh Skolem and Var names that generalization and cycle-breaking
// allocate.
func NewState(gen *names.Generator) *State {
	return &State{gen: gen, currentScope: rootScope}
}

// CurrentScope returns the scope new UniVars are currently minted at.
func (s *State) CurrentScope() Scope { return s.currentScope }

// FreshUniVar allocates a new UniVar at the current scope.
func (s *State) FreshUniVar() types.UniVar {
	id := types.UniVarID(len(s.cells))
	s.cells = append(s.cells, cell{scope: s.currentScope})
	return types.UniVar{ID: id}
}

// FreshSkolem mints a rigid variable scoped to no particular UniVar scope;
// skolems are tracked by the checker's normalisation pass instead (see
// DESIGN.md's note on the open question about skolem scoping).
func (s *State) FreshSkolem(text string, loc names.Loc) types.Skolem {
	return types.NewSkolem(s.gen.Fresh(text, loc))
}

// FreshVar mints a fresh bound-variable name, for use under a Forall/Exists
// a caller is about to build.
func (s *State) FreshVar(text string, loc names.Loc) names.Name {
	return s.gen.Fresh(text, loc)
}

func (s *State) cellOf(u types.UniVarID) *cell {
	if int(u) >= len(s.cells) {
		panic(fmt.Sprintf("internal error: unknown univar ?%d", u))
	}
	return &s.cells[int(u)]
}

// Lookup returns the UniVar's current solution, if any.
func (s *State) Lookup(u types.UniVar) (types.Type, bool) {
	c := s.cellOf(u.ID)
	if !c.solved {
		return nil, false
	}
	return c.typ, true
}

// ScopeOf returns the scope an unsolved UniVar was created at. Calling it on
// a solved UniVar is an internal error: callers are expected to check
// Lookup first.
func (s *State) ScopeOf(u types.UniVar) Scope {
	c := s.cellOf(u.ID)
	if c.solved {
		panic(fmt.Sprintf("internal error: ScopeOf called on solved univar ?%d", u.ID))
	}
	return c.scope
}

// WithUniVar calls f with u's solution if it is solved, and is a no-op
// otherwise. It is the idiomatic "do something if solved" helper used
// throughout the checker instead of repeating the Lookup/ok dance.
func (s *State) WithUniVar(u types.UniVar, f func(types.Type)) {
	if t, ok := s.Lookup(u); ok {
		f(t)
	}
}

// ErrAlreadySolved is an internal error: an attempt to solve a UniVar that
// already has a solution, without asking for an override. It should never
// happen in a correct checker and is not meant to be recovered from.
type ErrAlreadySolved struct {
	ID types.UniVarID
}

func (e ErrAlreadySolved) Error() string {
	return fmt.Sprintf("internal error: univar ?%d is already solved", e.ID)
}

// ErrSelfReferential reports an indirect occurs-check failure: solving u
// would require u to contain itself through a type constructor, which has
// no finite expansion.
type ErrSelfReferential struct {
	ID types.UniVarID
	To types.Type
}

func (e ErrSelfReferential) Error() string {
	return fmt.Sprintf("self-referential type: ?%d occurs in %s", e.ID, e.To.String())
}

// SolveUniVar records u := t. It is an internal error to call this on an
// already-solved u; use OverrideUniVar for the substitution passes that
// legitimately need to do that.
func (s *State) SolveUniVar(u types.UniVar, t types.Type) error {
	return s.solve(u, t, false)
}

// OverrideUniVar is SolveUniVar with the already-solved check bypassed, for
// a caller that needs to rewrite an existing solution in place. The
// checker's own passes, normalise included, never call it: they only solve
// cells that are still unsolved.
func (s *State) OverrideUniVar(u types.UniVar, t types.Type) error {
	return s.solve(u, t, true)
}

func (s *State) solve(u types.UniVar, t types.Type, override bool) error {
	c := s.cellOf(u.ID)
	if c.solved && !override {
		return ErrAlreadySolved{ID: u.ID}
	}

	// Step 2: prevent escape. u was created at scope s.scope (or, if we're
	// overriding an already-solved cell, at whatever scope it still carries
	// from before solving - cells never lose their scope field on solve).
	ownScope := c.scope
	s.lowerScopes(ownScope, t, map[types.UniVarID]bool{})

	// Step 3/4: cycle check, then record.
	found, indirect := s.occursIn(u.ID, t, 0, map[types.UniVarID]bool{})
	if found && indirect {
		return ErrSelfReferential{ID: u.ID, To: t}
	}
	if found {
		// Direct cycle (a := b; b := a): collapse to a fresh skolem instead of
		// leaving an infinite solution chain.
		sk := s.FreshSkolem("rec", names.NoLoc)
		c.solved, c.typ = true, sk
		return nil
	}

	c.solved, c.typ = true, t
	return nil
}

// lowerScopes walks t and, for every unsolved UniVar it finds (resolving
// through already-solved ones to reach the real metavariables), lowers its
// scope to min(bound, its own scope). This is what stops a variable created
// in an outer scope from escaping by being mentioned only through an inner
// solution.
func (s *State) lowerScopes(bound Scope, t types.Type, seen map[types.UniVarID]bool) {
	switch t := t.(type) {
	case types.UniVar:
		if seen[t.ID] {
			return
		}
		seen[t.ID] = true
		c := s.cellOf(t.ID)
		if c.solved {
			s.lowerScopes(bound, c.typ, seen)
			return
		}
		if bound < c.scope {
			c.scope = bound
		}
	case types.Function:
		s.lowerScopes(bound, t.Arg, seen)
		s.lowerScopes(bound, t.Result, seen)
	case types.Application:
		s.lowerScopes(bound, t.Fn, seen)
		s.lowerScopes(bound, t.Arg, seen)
	case types.Forall:
		s.lowerScopes(bound, t.Body, seen)
	case types.Exists:
		s.lowerScopes(bound, t.Body, seen)
	case types.Record:
		s.lowerRow(bound, t.Row, seen)
	case types.Variant:
		s.lowerRow(bound, t.Row, seen)
	}
}

func (s *State) lowerRow(bound Scope, r types.Row, seen map[types.UniVarID]bool) {
	for _, l := range r.Labels() {
		f, _ := r.Lookup(l)
		s.lowerScopes(bound, f, seen)
	}
	if r.Extension != nil {
		s.lowerScopes(bound, r.Extension, seen)
	}
}

// occursIn reports whether id occurs in t. depth is the constructor nesting
// we've gone through to reach this point: depth 0 means t is (a chain of
// solved univars resolving to) id itself with nothing wrapped around it - a
// direct cycle. depth > 0 means id is buried inside some type constructor -
// an indirect cycle, which is unsound to collapse and must be a fatal error.
func (s *State) occursIn(id types.UniVarID, t types.Type, depth int, seen map[types.UniVarID]bool) (found, indirect bool) {
	switch t := t.(type) {
	case types.UniVar:
		if t.ID == id {
			return true, depth > 0
		}
		if seen[t.ID] {
			return false, false
		}
		seen[t.ID] = true
		c := s.cellOf(t.ID)
		if c.solved {
			return s.occursIn(id, c.typ, depth, seen)
		}
		return false, false
	case types.Function:
		if f, i := s.occursIn(id, t.Arg, depth+1, seen); f {
			return f, i
		}
		return s.occursIn(id, t.Result, depth+1, seen)
	case types.Application:
		if f, i := s.occursIn(id, t.Fn, depth+1, seen); f {
			return f, i
		}
		return s.occursIn(id, t.Arg, depth+1, seen)
	case types.Forall:
		return s.occursIn(id, t.Body, depth+1, seen)
	case types.Exists:
		return s.occursIn(id, t.Body, depth+1, seen)
	case types.Record:
		return s.occursInRow(id, t.Row, depth, seen)
	case types.Variant:
		return s.occursInRow(id, t.Row, depth, seen)
	default:
		return false, false
	}
}

func (s *State) occursInRow(id types.UniVarID, r types.Row, depth int, seen map[types.UniVarID]bool) (found, indirect bool) {
	for _, l := range r.Labels() {
		fl, _ := r.Lookup(l)
		if f, i := s.occursIn(id, fl, depth+1, seen); f {
			return f, i
		}
	}
	if r.Extension != nil {
		return s.occursIn(id, r.Extension, depth+1, seen)
	}
	return false, false
}
