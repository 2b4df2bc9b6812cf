package checker

import (
	"fmt"

	"github.com/mna/typelang/lang/ast"
	"github.com/mna/typelang/lang/types"
)

// ElaborateType turns the surface syntax of a user-written type annotation
// into the types.Type the rest of the checker operates on. It performs no
// validation beyond the shape translation itself - an out-of-scope
// TypeVarExpr is simply turned into a types.Var. No later pass reports it
// as unbound: normalise's dangling check looks only at UniVars and Skolems.
func ElaborateType(c *Checker, t ast.TypeExpr) (types.Type, error) {
	switch t := t.(type) {
	case *ast.TypeNameExpr:
		return types.Name{Ref: t.Name}, nil

	case *ast.TypeVarExpr:
		return types.Var{Name: t.Name}, nil

	case *ast.TypeAppExpr:
		fn, err := ElaborateType(c, t.Fn)
		if err != nil {
			return nil, err
		}
		arg, err := ElaborateType(c, t.Arg)
		if err != nil {
			return nil, err
		}
		return types.Application{Fn: fn, Arg: arg}, nil

	case *ast.TypeFuncExpr:
		arg, err := ElaborateType(c, t.Arg)
		if err != nil {
			return nil, err
		}
		res, err := ElaborateType(c, t.Result)
		if err != nil {
			return nil, err
		}
		return types.Function{Arg: arg, Result: res}, nil

	case *ast.TypeRecordExpr:
		row, err := elaborateRecordRow(c, t.Fields, t.Extension)
		if err != nil {
			return nil, err
		}
		return types.Record{Row: row}, nil

	case *ast.TypeVariantExpr:
		row, err := elaborateVariantRow(c, t.Fields, t.Extension)
		if err != nil {
			return nil, err
		}
		return types.Variant{Row: row}, nil

	case *ast.TypeForallExpr:
		body, err := ElaborateType(c, t.Body)
		if err != nil {
			return nil, err
		}
		return types.Forall{V: t.Var, Body: body}, nil

	case *ast.TypeExistsExpr:
		body, err := ElaborateType(c, t.Body)
		if err != nil {
			return nil, err
		}
		return types.Exists{V: t.Var, Body: body}, nil

	default:
		panic(fmt.Sprintf("checker: unhandled type expr %T", t))
	}
}

func elaborateRecordRow(c *Checker, fields []ast.TypeRecordField, extension ast.TypeExpr) (types.Row, error) {
	m := make(map[types.Label]types.Type, len(fields))
	for _, f := range fields {
		t, err := ElaborateType(c, f.Type)
		if err != nil {
			return types.Row{}, err
		}
		m[f.Label] = t
	}
	var ext types.Type
	if extension != nil {
		t, err := ElaborateType(c, extension)
		if err != nil {
			return types.Row{}, err
		}
		ext = t
	}
	return types.Row{Fields: m, Extension: ext}, nil
}

func elaborateVariantRow(c *Checker, fields []ast.TypeVariantField, extension ast.TypeExpr) (types.Row, error) {
	m := make(map[types.Label]types.Type, len(fields))
	for _, f := range fields {
		t, err := ElaborateType(c, f.Type)
		if err != nil {
			return types.Row{}, err
		}
		m[f.Tag] = t
	}
	var ext types.Type
	if extension != nil {
		t, err := ElaborateType(c, extension)
		if err != nil {
			return types.Row{}, err
		}
		ext = t
	}
	return types.Row{Fields: m, Extension: ext}, nil
}
