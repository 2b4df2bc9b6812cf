package checker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/typelang/lang/builtins"
	"github.com/mna/typelang/lang/checker"
	"github.com/mna/typelang/lang/diag"
	"github.com/mna/typelang/lang/names"
	"github.com/mna/typelang/lang/scenarios"
	"github.com/mna/typelang/lang/types"
)

// runScenario type-checks s as a whole program and returns the resulting
// sink and, when s names a Principal, its inferred type.
func runScenario(t *testing.T, s scenarios.Scenario) (*diag.Sink, types.Type) {
	t.Helper()
	sink := diag.NewSink()
	c := checker.New(s.Gen, builtins.Default(), sink, nil)
	env, err := checker.CheckProgram(c, s.Decls)
	if s.Principal.Text == "" {
		return sink, nil
	}
	if err != nil || sink.HasFatal() {
		return sink, nil
	}
	typ, ok := env.Lookup(s.Principal.Id)
	require.True(t, ok, "scenario %s: principal name not bound", s.Name)
	return sink, typ
}

func byName(t *testing.T, name string) scenarios.Scenario {
	t.Helper()
	for _, s := range scenarios.All() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no such scenario %q", name)
	return scenarios.Scenario{}
}

// identity: id = \x -> x should end up as exactly one Forall wrapping a
// Function whose Arg and Result are the same bound Var.
func TestIdentity(t *testing.T) {
	sink, typ := runScenario(t, byName(t, "identity"))
	require.False(t, sink.HasFatal(), "%v", sink.Reports())

	forall, ok := typ.(types.Forall)
	require.True(t, ok, "expected a Forall, got %T (%s)", typ, typ)

	fn, ok := forall.Body.(types.Function)
	require.True(t, ok, "expected Forall to wrap a Function, got %T (%s)", forall.Body, forall.Body)

	argVar, ok := fn.Arg.(types.Var)
	require.True(t, ok, "expected Arg to be a Var, got %T", fn.Arg)
	resVar, ok := fn.Result.(types.Var)
	require.True(t, ok, "expected Result to be a Var, got %T", fn.Result)

	assert.Equal(t, forall.V.Id, argVar.Name.Id)
	assert.Equal(t, forall.V.Id, resVar.Name.Id)
	assertNoDangling(t, typ)
}

// constFn: const = \x y -> x generalizes two independent variables, so it
// should print as two nested Foralls, and the outer (x's) bound variable
// must match the result while y's must not.
func TestConstFn(t *testing.T) {
	sink, typ := runScenario(t, byName(t, "const"))
	require.False(t, sink.HasFatal(), "%v", sink.Reports())

	outer, ok := typ.(types.Forall)
	require.True(t, ok, "expected outer Forall, got %T", typ)
	inner, ok := outer.Body.(types.Forall)
	require.True(t, ok, "expected inner Forall, got %T", outer.Body)

	fn, ok := inner.Body.(types.Function)
	require.True(t, ok, "expected innermost body to be a Function, got %T", inner.Body)
	fn2, ok := fn.Result.(types.Function)
	require.True(t, ok, "expected const's result to itself be a Function, got %T", fn.Result)

	xArg, ok := fn.Arg.(types.Var)
	require.True(t, ok)
	yArg, ok := fn2.Arg.(types.Var)
	require.True(t, ok)
	result, ok := fn2.Result.(types.Var)
	require.True(t, ok)

	assert.Equal(t, xArg.Name.Id, result.Name.Id, "const's result must be its first argument's variable")
	assert.NotEqual(t, xArg.Name.Id, yArg.Name.Id, "const's two parameters must generalize distinct variables")
	assertNoDangling(t, typ)
}

// applyFn: apply = \f x -> f x should generalize two variables, a for f's
// argument/result pairing and the function itself taking (a -> b) -> a -> b.
func TestApplyFn(t *testing.T) {
	sink, typ := runScenario(t, byName(t, "apply"))
	require.False(t, sink.HasFatal(), "%v", sink.Reports())

	outer, ok := typ.(types.Forall)
	require.True(t, ok, "expected outer Forall, got %T", typ)
	inner, ok := outer.Body.(types.Forall)
	require.True(t, ok, "expected inner Forall, got %T", outer.Body)

	fn, ok := inner.Body.(types.Function)
	require.True(t, ok, "expected apply's body to be a Function, got %T", inner.Body)
	fArg, ok := fn.Arg.(types.Function)
	require.True(t, ok, "expected apply's first parameter to be a function type, got %T", fn.Arg)

	fn2, ok := fn.Result.(types.Function)
	require.True(t, ok, "expected apply's result to be a Function, got %T", fn.Result)

	xArg, ok := fn2.Arg.(types.Var)
	require.True(t, ok)
	fResult, ok := fn2.Result.(types.Var)
	require.True(t, ok)

	assert.Equal(t, fArg.Arg.(types.Var).Name.Id, xArg.Name.Id, "f's argument type must match apply's second parameter")
	assert.Equal(t, fArg.Result.(types.Var).Name.Id, fResult.Name.Id, "f's result type must match apply's overall result")
	assertNoDangling(t, typ)
}

// recordDup: applying \x -> {name=x, self=x} to "hi" must unify both uses of
// x to Text, leaving a monomorphic record with no leftover quantifier.
func TestRecordDup(t *testing.T) {
	sink, typ := runScenario(t, byName(t, "record-duplicate-use"))
	require.False(t, sink.HasFatal(), "%v", sink.Reports())

	rec, ok := typ.(types.Record)
	require.True(t, ok, "expected a Record, got %T (%s)", typ, typ)

	name, ok := rec.Row.Lookup("name")
	require.True(t, ok, "expected field name")
	self, ok := rec.Row.Lookup("self")
	require.True(t, ok, "expected field self")

	assert.IsType(t, types.Name{}, name)
	assert.Equal(t, "Text", name.(types.Name).Ref.Text)
	assert.Equal(t, name, self)
	assertNoDangling(t, typ)
}

// caseOfVariant exercises the open-row case branch: f's result must be Nat
// and its argument a Variant with an open extension (a still-generalized
// row variable), per the open-by-default rule for case.
func TestCaseOfVariant(t *testing.T) {
	sink, typ := runScenario(t, byName(t, "case-of-variant"))
	require.False(t, sink.HasFatal(), "%v", sink.Reports())

	forall, ok := typ.(types.Forall)
	require.True(t, ok, "expected a Forall wrapping the open row variable, got %T", typ)

	fn, ok := forall.Body.(types.Function)
	require.True(t, ok, "expected Forall to wrap a Function, got %T", forall.Body)

	variant, ok := fn.Arg.(types.Variant)
	require.True(t, ok, "expected f's argument to be a Variant, got %T", fn.Arg)
	require.NotNil(t, variant.Row.Extension, "case-of-variant's scrutinee row must stay open")

	result, ok := fn.Result.(types.Name)
	require.True(t, ok, "expected f's result to be a Name, got %T", fn.Result)
	assert.Equal(t, "Nat", result.Ref.Text)
	assertNoDangling(t, typ)
}

// recordLens: lens = .a must generalize four independent variables - the
// get-side field type, the set-side field type, and each side's own open
// row extension - never collapsing get and set to the same variable.
func TestRecordLens(t *testing.T) {
	sink, typ := runScenario(t, byName(t, "record-lens"))
	require.False(t, sink.HasFatal(), "%v", sink.Reports())

	var vars []names.Name
	body := typ
	for {
		f, ok := body.(types.Forall)
		if !ok {
			break
		}
		vars = append(vars, f.V)
		body = f.Body
	}
	require.Len(t, vars, 4, "expected four generalized variables, got %d in %s", len(vars), typ)
	bound := map[names.Id]bool{}
	for _, n := range vars {
		bound[n.Id] = true
	}

	app, ok := body.(types.Application)
	require.True(t, ok, "expected outer Application, got %T", body)
	setVar, ok := app.Arg.(types.Var)
	require.True(t, ok, "expected set-side var as final argument, got %T", app.Arg)
	require.True(t, bound[setVar.Name.Id])

	app2, ok := app.Fn.(types.Application)
	require.True(t, ok)
	getVar, ok := app2.Arg.(types.Var)
	require.True(t, ok, "expected get-side var as third argument, got %T", app2.Arg)
	require.True(t, bound[getVar.Name.Id])
	assert.NotEqual(t, getVar.Name.Id, setVar.Name.Id, "get and set variables must be distinct")

	app3, ok := app2.Fn.(types.Application)
	require.True(t, ok)
	setRecord, ok := app3.Arg.(types.Record)
	require.True(t, ok, "expected set-side record, got %T", app3.Arg)
	setField, ok := setRecord.Row.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, setVar.Name.Id, setField.(types.Var).Name.Id, "set-side record field must reuse the set variable")
	require.NotNil(t, setRecord.Row.Extension, "set-side row must stay open")
	ext, ok := setRecord.Row.Extension.(types.Var)
	require.True(t, ok, "expected set-side row extension to be a Var, got %T", setRecord.Row.Extension)
	assert.True(t, bound[ext.Name.Id])
	assert.NotEqual(t, ext.Name.Id, setVar.Name.Id)

	app4, ok := app3.Fn.(types.Application)
	require.True(t, ok)
	getRecord, ok := app4.Arg.(types.Record)
	require.True(t, ok, "expected get-side record, got %T", app4.Arg)
	getField, ok := getRecord.Row.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, getVar.Name.Id, getField.(types.Var).Name.Id, "get-side record field must reuse the get variable")
	require.NotNil(t, getRecord.Row.Extension, "get-side row must stay open")
	ext2, ok := getRecord.Row.Extension.(types.Var)
	require.True(t, ok, "expected get-side row extension to be a Var, got %T", getRecord.Row.Extension)
	assert.True(t, bound[ext2.Name.Id])

	lensName, ok := app4.Fn.(types.Name)
	require.True(t, ok)
	assert.Equal(t, "Lens", lensName.Ref.Text)
	assertNoDangling(t, typ)
}

// selfApplication, recordMissingField and selfFixity are all expected to be
// rejected with a fatal diagnostic, not silently accepted.
func TestRejectionScenariosAreFatal(t *testing.T) {
	for _, name := range []string{"self-application", "record-missing-field", "self-fixity"} {
		name := name
		t.Run(name, func(t *testing.T) {
			s := byName(t, name)
			sink, _ := runScenario(t, s)
			assert.True(t, sink.HasFatal(), "expected %s to be rejected, got %v", name, sink.Reports())
		})
	}
}

// danglingSignature must warn, but must not abort inference of the group.
func TestDanglingSignatureIsNonFatalWarning(t *testing.T) {
	s := byName(t, "dangling-signature")
	sink := diag.NewSink()
	c := checker.New(s.Gen, builtins.Default(), sink, nil)
	_, err := checker.CheckProgram(c, s.Decls)
	require.NoError(t, err)
	require.False(t, sink.HasFatal())

	reports := sink.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, diag.DanglingSignature, reports[0].Kind)
}

// assertNoDangling walks typ structurally via its String form only to the
// extent of checking no UniVar or Skolem marker characters appear in it -
// normalise's own rejectDangling already guarantees this for anything
// CheckProgram returns successfully, so this is a second, independent check
// from the test's side of the boundary.
func assertNoDangling(t *testing.T, typ types.Type) {
	t.Helper()
	s := typ.String()
	assert.NotContains(t, s, "?", "printed type must not contain a dangling univar marker: %s", s)
	assert.NotContains(t, s, "$", "printed type must not contain a dangling skolem marker: %s", s)
}
