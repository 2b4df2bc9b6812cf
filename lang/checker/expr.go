package checker

import (
	"fmt"

	"github.com/mna/typelang/lang/ast"
	"github.com/mna/typelang/lang/diag"
	"github.com/mna/typelang/lang/types"
)

// Infer synthesizes a type for e without any expected type to guide it.
// Constructs whose shape is ambiguous without one (a bare lambda, an
// empty list) fall back to minting fresh UniVars that later unification
// pins down.
func Infer(c *Checker, env *Env, e ast.Expr) (types.Type, error) {
	switch e := e.(type) {
	case *ast.IdentExpr:
		t, ok := env.Lookup(e.Name.Id)
		if !ok {
			return nil, c.sink.Fatal(diag.UnboundTypeVar, e.Name.Loc, "unbound name %s", e.Name.Text)
		}
		return mono(c.state, t, Covariant), nil

	case *ast.LiteralExpr:
		return literalType(c, e.Literal), nil

	case *ast.LambdaExpr:
		argT, child, err := inferPattern(c, env, e.Param)
		if err != nil {
			return nil, err
		}
		bodyT, err := Infer(c, child, e.Body)
		if err != nil {
			return nil, err
		}
		return types.Function{Arg: argT, Result: bodyT}, nil

	case *ast.AppExpr:
		return inferApp(c, env, e)

	case *ast.LetExpr:
		return inferLet(c, env, e)

	case *ast.AnnotationExpr:
		t, err := ElaborateType(c, e.Type)
		if err != nil {
			return nil, err
		}
		if err := Check(c, env, e.Expr, t); err != nil {
			return nil, err
		}
		return t, nil

	case *ast.IfExpr:
		return inferIf(c, env, e)

	case *ast.MatchExpr:
		return inferMatch(c, env, e)

	case *ast.CaseExpr:
		return inferMatch(c, env, e.AsMatch())

	case *ast.ListExpr:
		return inferList(c, env, e)

	case *ast.RecordExpr:
		return inferRecord(c, env, e)

	case *ast.VariantExpr:
		return inferVariant(c, env, e)

	case *ast.RecordLensExpr:
		return inferLens(c, e)

	default:
		panic(fmt.Sprintf("checker: unhandled expr %T", e))
	}
}

// Check verifies that e can be used at type expected, falling back to
// Infer plus a subtype check for constructs with no dedicated checking
// rule (the common, always-sound fallback in a bidirectional algorithm).
func Check(c *Checker, env *Env, e ast.Expr, expected types.Type) error {
	switch e := e.(type) {
	case *ast.LambdaExpr:
		fn, ok := resolveShallow(c.state, expected).(types.Function)
		if !ok {
			if u, uok := resolveShallow(c.state, expected).(types.UniVar); uok {
				argT, resT := c.state.FreshUniVar(), c.state.FreshUniVar()
				fn = types.Function{Arg: argT, Result: resT}
				if err := solveUniVarTo(c, c.locOf(e), u, fn); err != nil {
					return err
				}
			} else {
				return c.sink.Fatal(diag.NotAFunction, c.locOf(e), "%s is not a function type", expected)
			}
		}
		child, err := checkPattern(c, env, e.Param, fn.Arg)
		if err != nil {
			return err
		}
		return Check(c, child, e.Body, fn.Result)

	case *ast.IfExpr:
		if err := Check(c, env, e.Cond, types.Name{Ref: c.builtins.Bool}); err != nil {
			return err
		}
		if err := Check(c, env, e.True, expected); err != nil {
			return err
		}
		return Check(c, env, e.False, expected)

	case *ast.MatchExpr:
		return checkMatch(c, env, e, expected)

	case *ast.CaseExpr:
		return checkMatch(c, env, e.AsMatch(), expected)

	case *ast.ListExpr:
		return checkList(c, env, e, expected)

	case *ast.RecordExpr:
		return checkRecord(c, env, e, expected)

	case *ast.VariantExpr:
		return checkVariant(c, env, e, expected)

	case *ast.LetExpr:
		return checkLet(c, env, e, expected)

	default:
		t, err := Infer(c, env, e)
		if err != nil {
			return err
		}
		return subtype(c, c.locOf(e), t, expected)
	}
}

func inferApp(c *Checker, env *Env, e *ast.AppExpr) (types.Type, error) {
	fnT, err := Infer(c, env, e.Fn)
	if err != nil {
		return nil, err
	}
	loc := c.locOf(e)
	fn, ok := resolveShallow(c.state, fnT).(types.Function)
	if !ok {
		if u, uok := resolveShallow(c.state, fnT).(types.UniVar); uok {
			argT, resT := c.state.FreshUniVar(), c.state.FreshUniVar()
			fn = types.Function{Arg: argT, Result: resT}
			if err := solveUniVarTo(c, loc, u, fn); err != nil {
				return nil, err
			}
		} else {
			return nil, c.sink.Fatal(diag.NotAFunction, loc, "%s is not a function type", fnT)
		}
	}
	if err := Check(c, env, e.Arg, fn.Arg); err != nil {
		return nil, err
	}
	return fn.Result, nil
}

func inferIf(c *Checker, env *Env, e *ast.IfExpr) (types.Type, error) {
	if err := Check(c, env, e.Cond, types.Name{Ref: c.builtins.Bool}); err != nil {
		return nil, err
	}
	trueT, err := Infer(c, env, e.True)
	if err != nil {
		return nil, err
	}
	falseT, err := Infer(c, env, e.False)
	if err != nil {
		return nil, err
	}
	return supertype(c, c.locOf(e), trueT, falseT)
}

func inferMatch(c *Checker, env *Env, e *ast.MatchExpr) (types.Type, error) {
	loc := c.locOf(e)
	scrutT := make([]types.Type, len(e.Scrutinees))
	for i, s := range e.Scrutinees {
		t, err := Infer(c, env, s)
		if err != nil {
			return nil, err
		}
		scrutT[i] = t
	}

	var result types.Type
	for _, arm := range e.Arms {
		if len(arm.Patterns) != len(scrutT) {
			return nil, c.sink.Fatal(diag.ArityMismatch, loc,
				"match arm has %d pattern(s), expected %d", len(arm.Patterns), len(scrutT))
		}
		child := env
		for i, p := range arm.Patterns {
			var err error
			child, err = checkPattern(c, child, p, scrutT[i])
			if err != nil {
				return nil, err
			}
		}
		bodyT, err := Infer(c, child, arm.Body)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = bodyT
			continue
		}
		result, err = supertype(c, loc, result, bodyT)
		if err != nil {
			return nil, err
		}
	}
	if result == nil {
		return nil, c.sink.Fatal(diag.ArityMismatch, loc, "match has no arms")
	}
	return result, nil
}

func checkMatch(c *Checker, env *Env, e *ast.MatchExpr, expected types.Type) error {
	loc := c.locOf(e)
	scrutT := make([]types.Type, len(e.Scrutinees))
	for i, s := range e.Scrutinees {
		t, err := Infer(c, env, s)
		if err != nil {
			return err
		}
		scrutT[i] = t
	}

	for _, arm := range e.Arms {
		if len(arm.Patterns) != len(scrutT) {
			return c.sink.Fatal(diag.ArityMismatch, loc,
				"match arm has %d pattern(s), expected %d", len(arm.Patterns), len(scrutT))
		}
		child := env
		for i, p := range arm.Patterns {
			var err error
			child, err = checkPattern(c, child, p, scrutT[i])
			if err != nil {
				return err
			}
		}
		if err := Check(c, child, arm.Body, expected); err != nil {
			return err
		}
	}
	return nil
}

func inferList(c *Checker, env *Env, e *ast.ListExpr) (types.Type, error) {
	elemT := types.Type(c.state.FreshUniVar())
	for _, item := range e.Items {
		if err := Check(c, env, item, elemT); err != nil {
			return nil, err
		}
	}
	return types.Application{Fn: types.Name{Ref: c.builtins.List}, Arg: elemT}, nil
}

func checkList(c *Checker, env *Env, e *ast.ListExpr, expected types.Type) error {
	app, ok := resolveShallow(c.state, expected).(types.Application)
	if !ok {
		t, err := Infer(c, env, e)
		if err != nil {
			return err
		}
		return subtype(c, c.locOf(e), t, expected)
	}
	for _, item := range e.Items {
		if err := Check(c, env, item, app.Arg); err != nil {
			return err
		}
	}
	return nil
}

func inferRecord(c *Checker, env *Env, e *ast.RecordExpr) (types.Type, error) {
	fields := make(map[types.Label]types.Type, len(e.Fields))
	for _, f := range e.Fields {
		t, err := Infer(c, env, f.Value)
		if err != nil {
			return nil, err
		}
		fields[f.Label] = t
	}
	return types.Record{Row: types.NewRow(fields)}, nil
}

func checkRecord(c *Checker, env *Env, e *ast.RecordExpr, expected types.Type) error {
	row, ok := expectedRecordRow(c, expected)
	if !ok {
		t, err := Infer(c, env, e)
		if err != nil {
			return err
		}
		return subtype(c, c.locOf(e), t, expected)
	}
	fields := make(map[types.Label]types.Type, len(e.Fields))
	for _, f := range e.Fields {
		var want types.Type
		if ft, ok := deepLookup(c.state, row, f.Label); ok {
			want = ft
		} else {
			want = c.state.FreshUniVar()
		}
		if err := Check(c, env, f.Value, want); err != nil {
			return err
		}
		fields[f.Label] = want
	}
	return subtype(c, c.locOf(e), types.Record{Row: types.NewRow(fields)}, expected)
}

func inferVariant(c *Checker, env *Env, e *ast.VariantExpr) (types.Type, error) {
	t, err := Infer(c, env, e.Value)
	if err != nil {
		return nil, err
	}
	row := types.Row{Fields: map[types.Label]types.Type{e.Tag: t}, Extension: c.state.FreshUniVar()}
	return types.Variant{Row: row}, nil
}

func checkVariant(c *Checker, env *Env, e *ast.VariantExpr, expected types.Type) error {
	row, ok := expectedVariantRow(c, expected)
	if !ok {
		t, err := Infer(c, env, e)
		if err != nil {
			return err
		}
		return subtype(c, c.locOf(e), t, expected)
	}
	want, ok := deepLookup(c.state, row, e.Tag)
	if !ok {
		want = c.state.FreshUniVar()
	}
	return Check(c, env, e.Value, want)
}

// inferLens builds the Lens (R1[..a]) (R2[..b]) a b type for a field-access
// path `f1.f2. ... .fn`, using independent fresh vars a (get) and b (set) so
// a lens that later composes with a type-changing update can have its two
// ends unified separately rather than being forced equal up front.
func inferLens(c *Checker, e *ast.RecordLensExpr) (types.Type, error) {
	a := types.Type(c.state.FreshUniVar())
	b := types.Type(c.state.FreshUniVar())
	innerA, innerB := a, b
	for i := len(e.Path) - 1; i >= 0; i-- {
		rowA := types.Row{
			Fields:    map[types.Label]types.Type{e.Path[i]: innerA},
			Extension: c.state.FreshUniVar(),
		}
		rowB := types.Row{
			Fields:    map[types.Label]types.Type{e.Path[i]: innerB},
			Extension: c.state.FreshUniVar(),
		}
		innerA = types.Record{Row: rowA}
		innerB = types.Record{Row: rowB}
	}
	lens := types.Name{Ref: c.builtins.Lens}
	return types.Application{
		Fn: types.Application{
			Fn:  types.Application{Fn: types.Application{Fn: lens, Arg: innerA}, Arg: innerB},
			Arg: a,
		},
		Arg: b,
	}, nil
}

func inferLet(c *Checker, env *Env, e *ast.LetExpr) (types.Type, error) {
	child, err := InferDecls(c, env, e.Decls)
	if err != nil {
		return nil, err
	}
	return Infer(c, child, e.Body)
}

func checkLet(c *Checker, env *Env, e *ast.LetExpr, expected types.Type) error {
	child, err := InferDecls(c, env, e.Decls)
	if err != nil {
		return err
	}
	return Check(c, child, e.Body, expected)
}
