package checker

import (
	"fmt"

	"github.com/mna/typelang/lang/ast"
	"github.com/mna/typelang/lang/diag"
	"github.com/mna/typelang/lang/types"
)

// inferPattern synthesizes a pattern's type and returns the environment
// extended with whatever names it binds. A VarPattern and a WildcardPattern
// both get a fresh UniVar, so an unannotated lambda parameter stays
// flexible until something at the call site pins it down.
func inferPattern(c *Checker, env *Env, p ast.Pattern) (types.Type, *Env, error) {
	switch p := p.(type) {
	case *ast.VarPattern:
		t := types.Type(c.state.FreshUniVar())
		child := env.Child()
		child.Bind(p.Name.Id, t)
		return t, child, nil

	case *ast.WildcardPattern:
		return types.Type(c.state.FreshUniVar()), env.Child(), nil

	case *ast.LiteralPattern:
		return literalType(c, p.Literal), env.Child(), nil

	case *ast.ConstructorPattern:
		return inferConstructorPattern(c, env, p)

	case *ast.VariantPattern:
		argT, child, err := inferPattern(c, env, p.Arg)
		if err != nil {
			return nil, child, err
		}
		row := types.Row{
			Fields:    map[types.Label]types.Type{p.Tag: argT},
			Extension: c.state.FreshUniVar(),
		}
		return types.Variant{Row: row}, child, nil

	case *ast.RecordPattern:
		child := env
		fields := make(map[types.Label]types.Type, len(p.Fields))
		for _, f := range p.Fields {
			var ft types.Type
			var err error
			ft, child, err = inferPattern(c, child, f.Pattern)
			if err != nil {
				return nil, child, err
			}
			fields[f.Label] = ft
		}
		row := types.Row{Fields: fields, Extension: c.state.FreshUniVar()}
		return types.Record{Row: row}, child, nil

	default:
		panic(fmt.Sprintf("checker: unhandled pattern %T", p))
	}
}

// expectedVariantRow resolves expected to a Variant's Row, solving an
// unsolved UniVar to a fresh open variant shape so a pattern can still be
// checked against a not-yet-pinned-down expected type.
func expectedVariantRow(c *Checker, expected types.Type) (types.Row, bool) {
	expected = resolveShallow(c.state, expected)
	if v, ok := expected.(types.Variant); ok {
		return v.Row, true
	}
	if u, ok := expected.(types.UniVar); ok {
		if _, solved := c.state.Lookup(u); !solved {
			row := types.Row{Fields: map[types.Label]types.Type{}, Extension: c.state.FreshUniVar()}
			if err := c.state.SolveUniVar(u, types.Variant{Row: row}); err == nil {
				return row, true
			}
		}
	}
	return types.Row{}, false
}

// expectedRecordRow is expectedVariantRow's Record counterpart.
func expectedRecordRow(c *Checker, expected types.Type) (types.Row, bool) {
	expected = resolveShallow(c.state, expected)
	if r, ok := expected.(types.Record); ok {
		return r.Row, true
	}
	if u, ok := expected.(types.UniVar); ok {
		if _, solved := c.state.Lookup(u); !solved {
			row := types.Row{Fields: map[types.Label]types.Type{}, Extension: c.state.FreshUniVar()}
			if err := c.state.SolveUniVar(u, types.Record{Row: row}); err == nil {
				return row, true
			}
		}
	}
	return types.Row{}, false
}

func inferConstructorPattern(c *Checker, env *Env, p *ast.ConstructorPattern) (types.Type, *Env, error) {
	ctorT, ok := env.Lookup(p.Ctor.Id)
	if !ok {
		err := c.sink.Fatal(diag.UnboundTypeVar, p.Ctor.Loc, "unbound constructor %s", p.Ctor.Text)
		return c.state.FreshUniVar(), env.Child(), err
	}

	t := mono(c.state, ctorT, Contravariant)
	child := env.Child()
	for _, arg := range p.Args {
		fn, ok := resolveShallow(c.state, t).(types.Function)
		if !ok {
			err := c.sink.Fatal(diag.ArityMismatch, p.Ctor.Loc, "constructor %s applied to too many arguments", p.Ctor.Text)
			return t, child, err
		}
		var err error
		child, err = checkPattern(c, child, arg, fn.Arg)
		if err != nil {
			return t, child, err
		}
		t = fn.Result
	}
	return t, child, nil
}

// checkPattern checks p against an already-known expected type, returning
// the environment extended with whatever names it binds. A non-nil error
// means a fatal diagnostic was raised while checking p (already recorded in
// c.sink); the returned *Env is still usable for best-effort recovery by
// callers that want to keep going, but callers checking HasFatal up front
// should simply propagate.
func checkPattern(c *Checker, env *Env, p ast.Pattern, expected types.Type) (*Env, error) {
	switch p := p.(type) {
	case *ast.VarPattern:
		child := env.Child()
		child.Bind(p.Name.Id, expected)
		return child, nil

	case *ast.WildcardPattern:
		return env.Child(), nil

	case *ast.LiteralPattern:
		lt := literalType(c, p.Literal)
		start, _ := p.Span()
		if err := subtype(c, c.loc(start), lt, expected); err != nil {
			return env.Child(), err
		}
		return env.Child(), nil

	case *ast.ConstructorPattern:
		inferred, child, err := inferConstructorPattern(c, env, p)
		if err != nil {
			return child, err
		}
		start, _ := p.Span()
		if err := subtype(c, c.loc(start), inferred, expected); err != nil {
			return child, err
		}
		return child, nil

	case *ast.VariantPattern:
		start, _ := p.Span()
		loc := c.loc(start)
		row, ok := expectedVariantRow(c, expected)
		if !ok {
			err := c.sink.Fatal(diag.NotAFunction, loc, "%s is not a variant type", expected)
			_, child, _ := inferPattern(c, env, p)
			return child, err
		}
		argExpected, ok := deepLookup(c.state, row, p.Tag)
		if !ok {
			err := c.sink.Fatal(diag.NotASubtype, loc, "variant has no tag %s", p.Tag)
			_, child, _ := inferPattern(c, env, p)
			return child, err
		}
		return checkPattern(c, env, p.Arg, argExpected)

	case *ast.RecordPattern:
		child := env
		start, _ := p.Span()
		loc := c.loc(start)
		row, ok := expectedRecordRow(c, expected)
		if !ok {
			err := c.sink.Fatal(diag.NotAFunction, loc, "%s is not a record type", expected)
			_, child, _ = inferPattern(c, child, p)
			return child, err
		}
		for _, f := range p.Fields {
			ft, ok := deepLookup(c.state, row, f.Label)
			if !ok {
				err := c.sink.Fatal(diag.NotASubtype, loc, "record has no field %s", f.Label)
				var inferred types.Type
				inferred, child, _ = inferPattern(c, child, f.Pattern)
				_ = inferred
				return child, err
			}
			var err error
			child, err = checkPattern(c, child, f.Pattern, ft)
			if err != nil {
				return child, err
			}
		}
		return child, nil

	default:
		panic(fmt.Sprintf("checker: unhandled pattern %T", p))
	}
}
