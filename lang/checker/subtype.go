package checker

import (
	"github.com/mna/typelang/lang/diag"
	"github.com/mna/typelang/lang/names"
	"github.com/mna/typelang/lang/types"
)

// subtype reports whether sub can be used wherever super is expected,
// solving any unsolved UniVar it finds on either side along the way. A
// leading Forall/Exists on either side is peeled with mono using the
// variance appropriate to its position (see Variance); after that, a
// UniVar on either side is solved to the other side outright, and anything
// else recurses structurally, with Function contravariant in its argument,
// Record width-subtyping in the usual direction and Variant in the
// opposite one.
func subtype(c *Checker, loc names.Loc, sub, super types.Type) error {
	st := c.state

	sub = resolveShallow(st, sub)
	if _, ok := sub.(types.Forall); ok {
		return subtype(c, loc, mono(st, sub, Covariant), super)
	}
	if _, ok := sub.(types.Exists); ok {
		return subtype(c, loc, mono(st, sub, Covariant), super)
	}

	super = resolveShallow(st, super)
	if _, ok := super.(types.Forall); ok {
		return subtype(c, loc, sub, mono(st, super, Contravariant))
	}
	if _, ok := super.(types.Exists); ok {
		return subtype(c, loc, sub, mono(st, super, Contravariant))
	}

	if u, ok := sub.(types.UniVar); ok {
		if _, solved := st.Lookup(u); !solved {
			return solveUniVarTo(c, loc, u, super)
		}
	}
	if u, ok := super.(types.UniVar); ok {
		if _, solved := st.Lookup(u); !solved {
			return solveUniVarTo(c, loc, u, sub)
		}
	}

	switch subT := sub.(type) {
	case types.Function:
		superT, ok := super.(types.Function)
		if !ok {
			return notASubtype(c, loc, sub, super)
		}
		if err := subtype(c, loc, superT.Arg, subT.Arg); err != nil {
			return err
		}
		return subtype(c, loc, subT.Result, superT.Result)

	case types.Application:
		// Application is invariant in both positions: with no kind variance
		// analysis in scope, List Nat and List Int are unrelated even though
		// Nat <= Int, so both Fn and Arg are equated outright rather than
		// checked as subtypes.
		superT, ok := super.(types.Application)
		if !ok {
			return notASubtype(c, loc, sub, super)
		}
		if err := unifyType(c, loc, subT.Fn, superT.Fn); err != nil {
			return err
		}
		return unifyType(c, loc, subT.Arg, superT.Arg)

	case types.Name:
		superT, ok := super.(types.Name)
		if !ok || !reachableSubtype(c.builtins, subT.Ref, superT.Ref) {
			return notASubtype(c, loc, sub, super)
		}
		return nil

	case types.Skolem:
		superT, ok := super.(types.Skolem)
		if !ok || !subT.Name.Equal(superT.Name) {
			return notASubtype(c, loc, sub, super)
		}
		return nil

	case types.Var:
		superT, ok := super.(types.Var)
		if !ok || !subT.Name.Equal(superT.Name) {
			return notASubtype(c, loc, sub, super)
		}
		return nil

	case types.Record:
		superT, ok := super.(types.Record)
		if !ok {
			return notASubtype(c, loc, sub, super)
		}
		return subtypeRecordRow(c, loc, subT.Row, superT.Row)

	case types.Variant:
		superT, ok := super.(types.Variant)
		if !ok {
			return notASubtype(c, loc, sub, super)
		}
		return subtypeVariantRow(c, loc, subT.Row, superT.Row)

	default:
		return notASubtype(c, loc, sub, super)
	}
}

// trySubtype runs subtype against a throwaway sink so a speculative check
// (as supertype uses to pick a join) does not pollute the real diagnostic
// list with an attempt that was expected to possibly fail.
func trySubtype(c *Checker, loc names.Loc, sub, super types.Type) error {
	trial := &Checker{state: c.state, builtins: c.builtins, sink: diag.NewSink(), gen: c.gen, file: c.file}
	return subtype(trial, loc, sub, super)
}

// unifyType equates a and b outright: if either is an unsolved UniVar it is
// solved to the other side, otherwise the two are required to be mutual
// subtypes. This is what folds a record/variant's open extension in once
// the other side has pinned down the rest of its shape.
func unifyType(c *Checker, loc names.Loc, a, b types.Type) error {
	st := c.state
	a = resolveShallow(st, a)
	b = resolveShallow(st, b)

	if au, ok := a.(types.UniVar); ok {
		if _, solved := st.Lookup(au); !solved {
			return solveUniVarTo(c, loc, au, b)
		}
	}
	if bu, ok := b.(types.UniVar); ok {
		if _, solved := st.Lookup(bu); !solved {
			return solveUniVarTo(c, loc, bu, a)
		}
	}
	if err := subtype(c, loc, a, b); err != nil {
		return err
	}
	return subtype(c, loc, b, a)
}

// subtypeRecordRow implements record width/depth subtyping: every field
// super requires, sub must have (and be a subtype at), and any extra
// fields sub has beyond that are threaded into super's extension if it has
// one, or rejected if super is closed.
func subtypeRecordRow(c *Checker, loc names.Loc, sub, super types.Row) error {
	st := c.state
	csub, csuper := compress(st, sub), compress(st, super)

	for _, l := range csuper.Labels() {
		ft, ok := csub.Fields[l]
		if !ok {
			missing := diff(st, super, sub)
			return c.sink.Fatal(diag.NotASubtype, loc, "record missing field(s): %v", missing)
		}
		if err := subtype(c, loc, ft, csuper.Fields[l]); err != nil {
			return err
		}
	}
	return closeRowExtension(c, loc, csub, csuper, super.Extension, func(r types.Row) types.Type {
		return types.Record{Row: r}
	})
}

// subtypeVariantRow implements variant width/depth subtyping, dual to
// records: every tag sub can produce, super must accept. A closed sub is
// then accepted as is, and for an open sub any extra tags super accepts but
// sub never produces are threaded into sub's extension.
func subtypeVariantRow(c *Checker, loc names.Loc, sub, super types.Row) error {
	st := c.state
	csub, csuper := compress(st, sub), compress(st, super)

	for _, l := range csub.Labels() {
		ft, ok := csuper.Fields[l]
		if !ok {
			unhandled := diff(st, sub, super)
			return c.sink.Fatal(diag.NotASubtype, loc, "variant has unhandled tag(s): %v", unhandled)
		}
		if err := subtype(c, loc, csub.Fields[l], ft); err != nil {
			return err
		}
	}
	if csub.Extension == nil {
		return nil
	}
	return closeRowExtension(c, loc, csuper, csub, sub.Extension, func(r types.Row) types.Type {
		return types.Variant{Row: r}
	})
}

// closeRowExtension folds whatever fields are present in "from" but not in
// "into" through ext (the open side's extension, if any): if ext is nil the
// extra fields must be empty, otherwise ext is solved to a row carrying
// exactly those extra fields.
func closeRowExtension(c *Checker, loc names.Loc, from, into types.Row, ext types.Type, wrap func(types.Row) types.Type) error {
	extra := make(map[types.Label]types.Type)
	for _, l := range from.Labels() {
		if _, ok := into.Fields[l]; !ok {
			extra[l] = from.Fields[l]
		}
	}
	if ext == nil {
		if len(extra) > 0 {
			labels := make([]types.Label, 0, len(extra))
			for l := range extra {
				labels = append(labels, l)
			}
			return c.sink.Fatal(diag.NotASubtype, loc, "unexpected field/tag(s): %v", labels)
		}
		return nil
	}
	return unifyType(c, loc, ext, wrap(types.Row{Fields: extra, Extension: from.Extension}))
}

// supertype computes a type that both a and b can be used as, the join
// used for if/match branches: it tries each direction of subtype in turn
// and falls back to a fatal NotASubtype if neither side accepts the other.
func supertype(c *Checker, loc names.Loc, a, b types.Type) (types.Type, error) {
	if err := trySubtype(c, loc, a, b); err == nil {
		if err := subtype(c, loc, a, b); err != nil {
			return nil, err
		}
		return b, nil
	}
	if err := trySubtype(c, loc, b, a); err == nil {
		if err := subtype(c, loc, b, a); err != nil {
			return nil, err
		}
		return a, nil
	}
	return nil, c.sink.Fatal(diag.NotASubtype, loc, "branches have incompatible types %s and %s", a, b)
}
