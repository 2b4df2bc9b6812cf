package checker

import (
	"github.com/mna/typelang/lang/types"
	"github.com/mna/typelang/lang/unify"
)

// compress resolves a row's extension chain through solved UniVars and
// folds any Record/Variant rows hiding behind it into a single flat Row,
// so Lookup and Labels see every field reachable through the chain. A
// field already present at an outer level shadows the same label reached
// through the extension, matching ordinary row-polymorphic semantics.
func compress(st *unify.State, row types.Row) types.Row {
	fields := make(map[types.Label]types.Type, len(row.Fields))
	for l, t := range row.Fields {
		fields[l] = t
	}

	ext := row.Extension
	for ext != nil {
		resolved := resolveShallow(st, ext)
		var next types.Row
		switch r := resolved.(type) {
		case types.Record:
			next = r.Row
		case types.Variant:
			next = r.Row
		default:
			return types.Row{Fields: fields, Extension: resolved}
		}
		for l, t := range next.Fields {
			if _, ok := fields[l]; !ok {
				fields[l] = t
			}
		}
		ext = next.Extension
	}
	return types.Row{Fields: fields}
}

// deepLookup looks up label in row, following the extension chain through
// compress, so a field inherited from an as-yet-unsolved row variable that
// later turned out to carry it is still found.
func deepLookup(st *unify.State, row types.Row, label types.Label) (types.Type, bool) {
	t, ok := compress(st, row).Lookup(label)
	return t, ok
}

// diff reports the labels present in a (after compress) that are absent
// from b; used to build a precise diagnostic when a row subtype check
// fails on a missing or unexpected field.
func diff(st *unify.State, a, b types.Row) []types.Label {
	ca, cb := compress(st, a), compress(st, b)
	var out []types.Label
	for _, l := range ca.Labels() {
		if _, ok := cb.Fields[l]; !ok {
			out = append(out, l)
		}
	}
	return out
}
