package checker

import (
	"strconv"

	"github.com/mna/typelang/lang/diag"
	"github.com/mna/typelang/lang/names"
	"github.com/mna/typelang/lang/types"
	"github.com/mna/typelang/lang/unify"
)

// normalise closes a group's final inferred type: a first pass generalizes
// every still-unsolved UniVar reachable from t into a fresh Forall, a
// second pass generalizes every remaining Skolem into a fresh Exists, and a
// last walk (rejectDangling) rejects any UniVar or Skolem that still occurs
// free as an internal error - the two passes above account for every one,
// so anything left over means a checker bug rather than a user mistake.
//
// Per the source's own open question, generalizing a Skolem this way is
// sound only at the very top level: a Skolem carries no scope tracking of
// its own the way a UniVar does, so doing this on anything but a finished
// top-level group's result risks generalizing a rigid variable that was
// still supposed to be held fixed by an enclosing context. Callers must
// only call normalise once a group is fully checked.
func normalise(c *Checker, loc names.Loc, t types.Type) (types.Type, error) {
	t = resolveDeep(c.state, t)

	for i, id := range freeUniVars(t) {
		v := c.state.FreshVar(unify.LetterName(i), loc)
		if err := c.state.SolveUniVar(types.UniVar{ID: id}, types.Var{Name: v}); err != nil {
			return nil, err
		}
		t = unify.SubstituteUniVar(t, id, types.Var{Name: v})
		t = types.Forall{V: v, Body: t}
	}

	for i, sk := range freeSkolems(t) {
		v := c.state.FreshVar(rowVarName(i), loc)
		t = substituteSkolem(t, sk, types.Var{Name: v})
		t = types.Exists{V: v, Body: t}
	}

	if err := rejectDangling(c, loc, t); err != nil {
		return nil, err
	}
	return t, nil
}

// rowVarName names a generalized row/skolem variable r, s, t, r1, s1, t1,
// ..., the conventional letters for a row extension, as opposed to the
// a, b, c, ... sequence (unify.LetterName) that ForallScope and normalise's
// UniVar pass use for ordinary type variables.
func rowVarName(i int) string {
	letter := string(rune('r' + i%3))
	if gen := i / 3; gen > 0 {
		return letter + strconv.Itoa(gen)
	}
	return letter
}

// resolveDeep walks t and substitutes every solved UniVar with its solution,
// recursively, leaving an unsolved one in place. Unlike resolveShallow it
// recurses into every constructor, producing a tree with no solved UniVar
// left anywhere inside it.
func resolveDeep(st *unify.State, t types.Type) types.Type {
	switch t := t.(type) {
	case types.UniVar:
		if sol, ok := st.Lookup(t); ok {
			return resolveDeep(st, sol)
		}
		return t
	case types.Function:
		return types.Function{Arg: resolveDeep(st, t.Arg), Result: resolveDeep(st, t.Result)}
	case types.Application:
		return types.Application{Fn: resolveDeep(st, t.Fn), Arg: resolveDeep(st, t.Arg)}
	case types.Forall:
		return types.Forall{V: t.V, Body: resolveDeep(st, t.Body)}
	case types.Exists:
		return types.Exists{V: t.V, Body: resolveDeep(st, t.Body)}
	case types.Record:
		return types.Record{Row: resolveDeepRow(st, t.Row)}
	case types.Variant:
		return types.Variant{Row: resolveDeepRow(st, t.Row)}
	default:
		return t
	}
}

func resolveDeepRow(st *unify.State, r types.Row) types.Row {
	fields := make(map[types.Label]types.Type, len(r.Fields))
	for l, ft := range r.Fields {
		fields[l] = resolveDeep(st, ft)
	}
	var ext types.Type
	if r.Extension != nil {
		ext = resolveDeep(st, r.Extension)
	}
	return types.Row{Fields: fields, Extension: ext}
}

// freeUniVars lists, in first-occurrence order, every UniVar id reachable
// from t (which resolveDeep has already reduced to only unsolved ones).
func freeUniVars(t types.Type) []types.UniVarID {
	var order []types.UniVarID
	seen := map[types.UniVarID]bool{}
	var walk func(types.Type)
	walk = func(t types.Type) {
		switch t := t.(type) {
		case types.UniVar:
			if !seen[t.ID] {
				seen[t.ID] = true
				order = append(order, t.ID)
			}
		case types.Function:
			walk(t.Arg)
			walk(t.Result)
		case types.Application:
			walk(t.Fn)
			walk(t.Arg)
		case types.Forall:
			walk(t.Body)
		case types.Exists:
			walk(t.Body)
		case types.Record:
			walkRowUniVars(t.Row, walk)
		case types.Variant:
			walkRowUniVars(t.Row, walk)
		}
	}
	walk(t)
	return order
}

func walkRowUniVars(r types.Row, walk func(types.Type)) {
	for _, l := range r.Labels() {
		f, _ := r.Lookup(l)
		walk(f)
	}
	if r.Extension != nil {
		walk(r.Extension)
	}
}

// freeSkolems lists, in first-occurrence order, every distinct Skolem
// reachable from t.
func freeSkolems(t types.Type) []types.Skolem {
	var order []types.Skolem
	seen := map[names.Id]bool{}
	var walk func(types.Type)
	walk = func(t types.Type) {
		switch t := t.(type) {
		case types.Skolem:
			if !seen[t.Name.Id] {
				seen[t.Name.Id] = true
				order = append(order, t)
			}
		case types.Function:
			walk(t.Arg)
			walk(t.Result)
		case types.Application:
			walk(t.Fn)
			walk(t.Arg)
		case types.Forall:
			walk(t.Body)
		case types.Exists:
			walk(t.Body)
		case types.Record:
			walkRowSkolems(t.Row, walk)
		case types.Variant:
			walkRowSkolems(t.Row, walk)
		}
	}
	walk(t)
	return order
}

func walkRowSkolems(r types.Row, walk func(types.Type)) {
	for _, l := range r.Labels() {
		f, _ := r.Lookup(l)
		walk(f)
	}
	if r.Extension != nil {
		walk(r.Extension)
	}
}

// substituteSkolem structurally replaces every occurrence of sk in t with
// repl; Skolems have no binder of their own so, like UniVar substitution,
// there is no shadowing to account for.
func substituteSkolem(t types.Type, sk types.Skolem, repl types.Type) types.Type {
	switch t := t.(type) {
	case types.Skolem:
		if t.Name.Id == sk.Name.Id {
			return repl
		}
		return t
	case types.Function:
		return types.Function{Arg: substituteSkolem(t.Arg, sk, repl), Result: substituteSkolem(t.Result, sk, repl)}
	case types.Application:
		return types.Application{Fn: substituteSkolem(t.Fn, sk, repl), Arg: substituteSkolem(t.Arg, sk, repl)}
	case types.Forall:
		return types.Forall{V: t.V, Body: substituteSkolem(t.Body, sk, repl)}
	case types.Exists:
		return types.Exists{V: t.V, Body: substituteSkolem(t.Body, sk, repl)}
	case types.Record:
		return types.Record{Row: substituteSkolemRow(t.Row, sk, repl)}
	case types.Variant:
		return types.Variant{Row: substituteSkolemRow(t.Row, sk, repl)}
	default:
		return t
	}
}

func substituteSkolemRow(r types.Row, sk types.Skolem, repl types.Type) types.Row {
	fields := make(map[types.Label]types.Type, len(r.Fields))
	for l, f := range r.Fields {
		fields[l] = substituteSkolem(f, sk, repl)
	}
	var ext types.Type
	if r.Extension != nil {
		ext = substituteSkolem(r.Extension, sk, repl)
	}
	return types.Row{Fields: fields, Extension: ext}
}

// rejectDangling reports an internal error for any UniVar or Skolem still
// reachable from t after both generalization passes have run - they should
// have consumed every one between them.
func rejectDangling(c *Checker, loc names.Loc, t types.Type) error {
	if ids := freeUniVars(t); len(ids) > 0 {
		return c.sink.Fatal(diag.DanglingUniVar, loc, "internal error: dangling univar ?%d survived normalisation", ids[0])
	}
	if sks := freeSkolems(t); len(sks) > 0 {
		return c.sink.Fatal(diag.SkolemEscape, loc, "internal error: skolem %s escaped normalisation", sks[0].Name.Text)
	}
	return nil
}
