package depres_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/typelang/lang/ast"
	"github.com/mna/typelang/lang/depres"
	"github.com/mna/typelang/lang/diag"
	"github.com/mna/typelang/lang/names"
)

func ident(n names.Name) *ast.IdentExpr { return &ast.IdentExpr{Name: n} }

func varPat(n names.Name) *ast.VarPattern { return &ast.VarPattern{Name: n} }

// TestResolveOrdersLeavesFirst builds `b = a ; a = 1` (b's body is just a
// reference to `a`, which is all the dependency edge needs since no
// parser/fixity sugar exists at this layer) and checks that the declaration
// defining `a` is ordered
// before the one defining `b`, matching the property that for any
// edge u -> v in the reference graph, declId(u) is no later than declId(v).
func TestResolveOrdersLeavesFirst(t *testing.T) {
	gen := &names.Generator{}
	a := gen.Fresh("a", names.NoLoc)
	b := gen.Fresh("b", names.NoLoc)

	declA := &ast.ValueDecl{Pattern: varPat(a), Value: &ast.LiteralExpr{Literal: ast.Literal{Kind: ast.IntLit, IntValue: 1}}}
	declB := &ast.ValueDecl{Pattern: varPat(b), Value: ident(a)}

	sink := diag.NewSink()
	out := depres.Resolve([]ast.Decl{declB, declA}, sink)

	require.Len(t, out.OrderedGroups, 2)
	assert.Len(t, out.OrderedGroups[0], 1)
	assert.Len(t, out.OrderedGroups[1], 1)

	firstDecl := out.Declarations[out.OrderedGroups[0][0]]
	secondDecl := out.Declarations[out.OrderedGroups[1][0]]
	assert.Same(t, declA, firstDecl)
	assert.Same(t, declB, secondDecl)
}

// TestResolveGroupsMutualRecursion checks that two declarations referencing
// each other land in the same SCC group.
func TestResolveGroupsMutualRecursion(t *testing.T) {
	gen := &names.Generator{}
	isEven := gen.Fresh("isEven", names.NoLoc)
	isOdd := gen.Fresh("isOdd", names.NoLoc)

	declEven := &ast.ValueDecl{Pattern: varPat(isEven), Value: ident(isOdd)}
	declOdd := &ast.ValueDecl{Pattern: varPat(isOdd), Value: ident(isEven)}

	sink := diag.NewSink()
	out := depres.Resolve([]ast.Decl{declEven, declOdd}, sink)

	require.Len(t, out.OrderedGroups, 1)
	assert.Len(t, out.OrderedGroups[0], 2)
}

// TestResolveDanglingSignatureIsNonFatal checks that a signature with no
// matching binding produces a non-fatal warning, not an error.
func TestResolveDanglingSignatureIsNonFatal(t *testing.T) {
	gen := &names.Generator{}
	f := gen.Fresh("f", names.NoLoc)

	sink := diag.NewSink()
	_ = depres.Resolve([]ast.Decl{
		&ast.SignatureDecl{Name: f, Type: &ast.TypeNameExpr{Name: names.BuiltinName(names.BuiltinInt)}},
	}, sink)

	require.False(t, sink.HasFatal())
	reports := sink.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, diag.DanglingSignature, reports[0].Kind)
}

// TestResolveImplicitApplicationPrecedence checks that declaring `* above +`
// leaves both operators ordered below the implicit function-application
// member, even though neither relation mentions it.
func TestResolveImplicitApplicationPrecedence(t *testing.T) {
	gen := &names.Generator{}
	plus := gen.Fresh("+", names.NoLoc)
	star := gen.Fresh("*", names.NoLoc)

	sink := diag.NewSink()
	out := depres.Resolve([]ast.Decl{
		&ast.FixityDecl{Relations: []ast.FixityRelation{
			{Left: ast.Op{Name: plus}, Right: ast.Op{Name: star}, Assoc: ast.LeftAssoc},
		}},
	}, sink)

	require.False(t, sink.HasFatal())
	assert.True(t, out.Fixities.Related(plus.Id, depres.ApplicationId),
		"+ must be implicitly ordered against application")
	assert.True(t, out.Fixities.Related(star.Id, depres.ApplicationId),
		"* must be implicitly ordered against application")
}

// TestResolveSelfFixityIsFatal checks that relating a fixity operator to
// itself is reported as a fatal error.
func TestResolveSelfFixityIsFatal(t *testing.T) {
	gen := &names.Generator{}
	plus := gen.Fresh("+", names.NoLoc)

	sink := diag.NewSink()
	_ = depres.Resolve([]ast.Decl{
		&ast.FixityDecl{Relations: []ast.FixityRelation{
			{Left: ast.Op{Name: plus}, Right: ast.Op{Name: plus}, Assoc: ast.LeftAssoc},
		}},
	}, sink)

	require.True(t, sink.HasFatal())
	reports := sink.Reports()
	require.Len(t, reports, 1)
	assert.Equal(t, diag.SelfReferentialFixity, reports[0].Kind)
}
