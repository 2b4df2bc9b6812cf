package checker

import (
	"github.com/mna/typelang/lang/names"
	"github.com/mna/typelang/lang/types"
)

// substitute replaces every occurrence of the bound variable v with repl in
// t. It stops descending under a Forall/Exists that rebinds the same v,
// since that inner binder shadows the outer one - ordinary lexical
// substitution, safe here because every bound variable's Name carries a
// process-unique Id, so no alpha-renaming is ever needed to avoid capture.
func substitute(t types.Type, v names.Name, repl types.Type) types.Type {
	switch t := t.(type) {
	case types.Var:
		if t.Name.Equal(v) {
			return repl
		}
		return t
	case types.Forall:
		if t.V.Equal(v) {
			return t
		}
		return types.Forall{V: t.V, Body: substitute(t.Body, v, repl)}
	case types.Exists:
		if t.V.Equal(v) {
			return t
		}
		return types.Exists{V: t.V, Body: substitute(t.Body, v, repl)}
	case types.Function:
		return types.Function{Arg: substitute(t.Arg, v, repl), Result: substitute(t.Result, v, repl)}
	case types.Application:
		return types.Application{Fn: substitute(t.Fn, v, repl), Arg: substitute(t.Arg, v, repl)}
	case types.Record:
		return types.Record{Row: substituteRow(t.Row, v, repl)}
	case types.Variant:
		return types.Variant{Row: substituteRow(t.Row, v, repl)}
	default:
		// Skolem, UniVar, Name: no bound variable to replace.
		return t
	}
}

func substituteRow(r types.Row, v names.Name, repl types.Type) types.Row {
	fields := make(map[types.Label]types.Type, len(r.Fields))
	for l, f := range r.Fields {
		fields[l] = substitute(f, v, repl)
	}
	var ext types.Type
	if r.Extension != nil {
		ext = substitute(r.Extension, v, repl)
	}
	return types.Row{Fields: fields, Extension: ext}
}
