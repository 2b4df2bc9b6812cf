package unify

import (
	"github.com/mna/typelang/lang/names"
	"github.com/mna/typelang/lang/types"
)

// LetterName returns the i-th name in the a, b, ..., z, a1, b1, ...
// sequence conventionally used to print generalized type variables, so a
// group that generalizes several variables in one pass gets distinct,
// readable names instead of every one being called "a".
func LetterName(i int) string {
	letter := string(rune('a' + i%26))
	if gen := i / 26; gen > 0 {
		return letter + itoa(gen)
	}
	return letter
}

func itoa(v int) string {
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

// ForallScope runs action under a fresh, deeper scope and generalizes
// whatever UniVars it minted: this is what recovers polymorphism after
// inference has monomorphized a binding.
//
// Any UniVar minted during action that is still unsolved when action
// returns, whose scope is strictly deeper than the scope ForallScope itself
// was entered at, and that actually occurs in the returned type, is
// generalized into a fresh bound Var wrapped in a Forall. A UniVar minted
// during action whose scope was lowered to the enclosing scope or shallower
// (because it got tied to a UniVar from outside this call) is left alone:
// it belongs to an outer ForallScope to generalize, not this one. UniVars
// minted before the call are not visited at all.
func (s *State) ForallScope(action func() (types.Type, error)) (types.Type, error) {
	start := types.UniVarID(len(s.cells))
	enclosing := s.currentScope
	s.currentScope++
	out, err := action()
	s.currentScope--
	if err != nil {
		return out, err
	}
	end := types.UniVarID(len(s.cells))

	var next int
	for id := start; id < end; id++ {
		c := &s.cells[id]
		switch {
		case c.solved:
			out = SubstituteUniVar(out, id, c.typ)
		case c.scope > enclosing && ContainsUniVar(out, id):
			tv := s.FreshVar(LetterName(next), names.NoLoc)
			next++
			c.solved, c.typ = true, types.Var{Name: tv}
			out = types.Forall{V: tv, Body: SubstituteUniVar(out, id, types.Var{Name: tv})}
		default:
			// either the univar's scope was lowered to an outer one, or it
			// doesn't occur in out at all (dead after solving elsewhere): leave it
			// for an enclosing scope, or for normalise, to deal with.
		}
	}
	return out, nil
}

// SubstituteUniVar structurally replaces every occurrence of UniVar{id} in t
// with repl, leaving everything else untouched. UniVars have no binder, so
// unlike Var substitution there is no shadowing to worry about.
func SubstituteUniVar(t types.Type, id types.UniVarID, repl types.Type) types.Type {
	switch t := t.(type) {
	case types.UniVar:
		if t.ID == id {
			return repl
		}
		return t
	case types.Function:
		return types.Function{
			Arg:    SubstituteUniVar(t.Arg, id, repl),
			Result: SubstituteUniVar(t.Result, id, repl),
		}
	case types.Application:
		return types.Application{
			Fn:  SubstituteUniVar(t.Fn, id, repl),
			Arg: SubstituteUniVar(t.Arg, id, repl),
		}
	case types.Forall:
		return types.Forall{V: t.V, Body: SubstituteUniVar(t.Body, id, repl)}
	case types.Exists:
		return types.Exists{V: t.V, Body: SubstituteUniVar(t.Body, id, repl)}
	case types.Record:
		return types.Record{Row: substituteUniVarRow(t.Row, id, repl)}
	case types.Variant:
		return types.Variant{Row: substituteUniVarRow(t.Row, id, repl)}
	default:
		return t
	}
}

func substituteUniVarRow(r types.Row, id types.UniVarID, repl types.Type) types.Row {
	fields := make(map[types.Label]types.Type, len(r.Fields))
	for l, f := range r.Fields {
		fields[l] = SubstituteUniVar(f, id, repl)
	}
	var ext types.Type
	if r.Extension != nil {
		ext = SubstituteUniVar(r.Extension, id, repl)
	}
	return types.Row{Fields: fields, Extension: ext}
}

// ContainsUniVar reports whether UniVar{id} occurs literally in t's syntax
// tree (it does not resolve through already-solved cells - callers that need
// that should consult the State directly).
func ContainsUniVar(t types.Type, id types.UniVarID) bool {
	switch t := t.(type) {
	case types.UniVar:
		return t.ID == id
	case types.Function:
		return ContainsUniVar(t.Arg, id) || ContainsUniVar(t.Result, id)
	case types.Application:
		return ContainsUniVar(t.Fn, id) || ContainsUniVar(t.Arg, id)
	case types.Forall:
		return ContainsUniVar(t.Body, id)
	case types.Exists:
		return ContainsUniVar(t.Body, id)
	case types.Record:
		return containsUniVarRow(t.Row, id)
	case types.Variant:
		return containsUniVarRow(t.Row, id)
	default:
		return false
	}
}

func containsUniVarRow(r types.Row, id types.UniVarID) bool {
	for _, f := range r.Fields {
		if ContainsUniVar(f, id) {
			return true
		}
	}
	return r.Extension != nil && ContainsUniVar(r.Extension, id)
}
