package checker

import (
	"fmt"

	"github.com/mna/typelang/lang/ast"
	"github.com/mna/typelang/lang/depres"
	"github.com/mna/typelang/lang/names"
	"github.com/mna/typelang/lang/types"
)

// InferDecls resolves decls' dependency order via package depres and
// infers each resulting group in turn, returning an environment extended
// with every name the group list defines. A group of size greater than one
// is mutually recursive and is generalized together, sharing whatever type
// variables recursion forces between its members; a singleton group is
// generalized on its own, exactly recovering ordinary let-polymorphism for
// the non-recursive case.
func InferDecls(c *Checker, env *Env, decls []ast.Decl) (*Env, error) {
	return inferDecls(c, env, decls, false)
}

// CheckProgram is the module-level entry point: it infers every top-level
// declaration exactly like a let's body would, then runs normalise on
// each defined name's final type before returning the environment. Per the
// source's own open question on skolem scoping, normalise's skolem
// generalization step is sound only here, at the true top level - nested
// let groups stop at inferDecls's raw, ungeneralized-skolem result.
func CheckProgram(c *Checker, decls []ast.Decl) (*Env, error) {
	env, err := inferDecls(c, NewEnv(), decls, true)
	if err != nil {
		return env, err
	}
	return env, nil
}

func inferDecls(c *Checker, env *Env, decls []ast.Decl, topLevel bool) (*Env, error) {
	out := depres.Resolve(decls, c.sink)
	child := env.Child()

	var firstErr error
	for _, group := range out.OrderedGroups {
		groupNames := groupDefinedNames(out, group)

		bundle, err := c.state.ForallScope(func() (types.Type, error) {
			return processGroup(c, child, out, group, groupNames)
		})
		if err != nil {
			// abandon this group only; later groups are still checked
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		vars, rec := peelForalls(bundle)
		row, ok := rec.(types.Record)
		if !ok {
			continue
		}
		for _, n := range groupNames {
			field := wrapForalls(vars, row.Row.Fields[bundleLabel(n.Id)])
			if topLevel {
				field, err = normalise(c, n.Loc, field)
				if err != nil {
					return child, err
				}
			}
			child.Bind(n.Id, field)
		}
	}
	return child, firstErr
}

// groupDefinedNames lists, in declaration order, every name a group's
// ValueDecls bind and every constructor its TypeDecls declare (not the
// type names themselves) - the set processGroup bundles into a
// single synthetic Record so one ForallScope call can generalize the whole
// mutually recursive group at once.
func groupDefinedNames(out depres.Output, group []depres.DeclId) []names.Name {
	var ns []names.Name
	for _, id := range group {
		switch d := out.Declarations[id].(type) {
		case *ast.ValueDecl:
			ns = append(ns, ast.DefinedNames(d.Pattern)...)
		case *ast.TypeDecl:
			for _, ctor := range d.Constructors {
				ns = append(ns, ctor.Name)
			}
		}
	}
	return ns
}

func bundleLabel(id names.Id) types.Label { return types.Label(fmt.Sprintf("n%d", id)) }

func peelForalls(t types.Type) ([]names.Name, types.Type) {
	var vars []names.Name
	for {
		f, ok := t.(types.Forall)
		if !ok {
			return vars, t
		}
		vars = append(vars, f.V)
		t = f.Body
	}
}

func wrapForalls(vars []names.Name, t types.Type) types.Type {
	for i := len(vars) - 1; i >= 0; i-- {
		t = types.Forall{V: vars[i], Body: t}
	}
	return t
}

// processGroup binds a fresh placeholder type for every name the group
// defines (letting mutually recursive bodies refer to each other), checks
// or infers each declaration's body against its placeholder, and returns a
// synthetic Record bundling every placeholder so the enclosing ForallScope
// call can discover and generalize whichever UniVars survive.
func processGroup(c *Checker, env *Env, out depres.Output, group []depres.DeclId, groupNames []names.Name) (types.Type, error) {
	placeholders := make(map[names.Id]types.Type, len(groupNames))

	for _, n := range groupNames {
		var t types.Type
		if sig, ok := out.Signatures[n.Id]; ok {
			if elaborated, err := ElaborateType(c, sig.Type); err == nil {
				t = elaborated
			}
		}
		if t == nil {
			t = c.state.FreshUniVar()
		}
		placeholders[n.Id] = t
		env.Bind(n.Id, t)
	}

	for _, id := range group {
		switch d := out.Declarations[id].(type) {
		case *ast.ValueDecl:
			if vp, ok := d.Pattern.(*ast.VarPattern); ok {
				if err := Check(c, env, d.Value, placeholders[vp.Name.Id]); err != nil {
					return nil, err
				}
				continue
			}
			valT, err := Infer(c, env, d.Value)
			if err != nil {
				return nil, err
			}
			if _, err := checkPattern(c, env, d.Pattern, valT); err != nil {
				return nil, err
			}

		case *ast.TypeDecl:
			registerTypeDecl(c, env, d, placeholders)
		}
	}

	fields := make(map[types.Label]types.Type, len(placeholders))
	for id, t := range placeholders {
		fields[bundleLabel(id)] = t
	}
	return types.Record{Row: types.NewRow(fields)}, nil
}

// registerTypeDecl binds every data constructor of d to its fully
// polymorphic function type, e.g. `Cons : forall a. a -> List a -> List a`
// for a TypeDecl `List a` with constructor `Cons a (List a)`. Constructor
// types are built directly as closed polytypes (no UniVar involved), so
// the enclosing ForallScope's generalization pass leaves them untouched.
func registerTypeDecl(c *Checker, env *Env, d *ast.TypeDecl, placeholders map[names.Id]types.Type) {
	var resultT types.Type = types.Name{Ref: d.Name}
	for _, p := range d.Params {
		resultT = types.Application{Fn: resultT, Arg: types.Var{Name: p}}
	}

	for _, ctor := range d.Constructors {
		t := resultT
		for i := len(ctor.Args) - 1; i >= 0; i-- {
			argT, err := ElaborateType(c, ctor.Args[i])
			if err != nil {
				continue
			}
			t = types.Function{Arg: argT, Result: t}
		}
		for i := len(d.Params) - 1; i >= 0; i-- {
			t = types.Forall{V: d.Params[i], Body: t}
		}
		placeholders[ctor.Name.Id] = t
		env.Bind(ctor.Name.Id, t)
	}
}
