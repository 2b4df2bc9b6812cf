// Package depres resolves a flat list of top-level (or let-local)
// declarations into the dependency-ordered groups the checker's inferDecls
// processes one at a time: it allocates a DeclId per declaration, collects
// the free name references each declaration's body makes, decomposes the
// resulting graph into strongly connected components (a component of size
// greater than one is a mutually recursive group), and orders the
// components so that every declaration is inferred only after everything
// it depends on. It also builds the operator precedence poset out of the
// group's FixityDecls, exactly as the checker needs it before it can make
// sense of infix applications.
//
// The shape - accumulate into maps keyed by a small integer id, then walk a
// graph over those ids - mirrors the block/binding bookkeeping of the
// sibling (Lua-oriented) resolver package, adapted here to a much simpler
// job: our AST already carries resolved names.Name identities, so there is
// no scope stack to maintain, only a graph over already-resolved ids.
package depres

import (
	"sort"

	"github.com/mna/typelang/lang/ast"
	"github.com/mna/typelang/lang/diag"
	"github.com/mna/typelang/lang/names"
	"github.com/mna/typelang/lang/poset"
)

// DeclId identifies one declaration in the list passed to Resolve, assigned
// in input order.
type DeclId uint32

// ApplicationId is the poset.Poset[names.Id] member standing in for
// function application itself - the None case of ast.Op's Option<Name>
// shape (ast.Op{IsApplication: true}). No names.Generator ever mints Id 0
// (Generator.Fresh starts counting at 1), so it is safe to reserve as this
// sentinel.
const ApplicationId names.Id = 0

func opPosetId(o ast.Op) names.Id {
	if o.IsApplication {
		return ApplicationId
	}
	return o.Name.Id
}

// Output is everything the checker needs to process a list of declarations:
// the dependency-ordered groups, lookup tables from name to origin, and the
// resolved fixity poset.
type Output struct {
	// OrderedGroups lists, in dependency order, the DeclIds that must be
	// inferred together: a group of size 1 is an ordinary (possibly
	// self-recursive) declaration, a group of size > 1 is mutually
	// recursive.
	OrderedGroups [][]DeclId

	// Declarations maps every allocated DeclId back to its ast.Decl.
	Declarations map[DeclId]ast.Decl

	// ValueOrigins maps a value-level name's Id (bound by a ValueDecl
	// pattern or a TypeDecl's constructor) to the DeclId that introduces it.
	ValueOrigins map[names.Id]DeclId

	// TypeOrigins maps a type name's Id to the TypeDecl's DeclId.
	TypeOrigins map[names.Id]DeclId

	// Signatures maps a value name's Id to the standalone SignatureDecl
	// that annotates it, if any.
	Signatures map[names.Id]*ast.SignatureDecl

	// Fixities is the resolved operator precedence poset built from every
	// FixityDecl among the input declarations.
	Fixities *poset.Poset[names.Id]

	// Associativity records the declared associativity of an operator's
	// equal-precedence class, keyed by the representative (Fixities.EqClass)
	// the class had when the relation was recorded.
	Associativity map[names.Id]ast.Associativity
}

// Resolve computes dependency order and fixity for decls, reporting
// non-fatal diagnostics (dangling signatures, precedence cycles) to sink.
func Resolve(decls []ast.Decl, sink *diag.Sink) Output {
	out := Output{
		Declarations:  make(map[DeclId]ast.Decl, len(decls)),
		ValueOrigins:  make(map[names.Id]DeclId),
		TypeOrigins:   make(map[names.Id]DeclId),
		Signatures:    make(map[names.Id]*ast.SignatureDecl),
		Fixities:      poset.New[names.Id](),
		Associativity: make(map[names.Id]ast.Associativity),
	}

	var graphIds []DeclId
	var declaredOps []names.Id
	for i, d := range decls {
		id := DeclId(i)
		out.Declarations[id] = d

		switch d := d.(type) {
		case *ast.ValueDecl:
			for _, n := range ast.DefinedNames(d.Pattern) {
				out.ValueOrigins[n.Id] = id
			}
			graphIds = append(graphIds, id)
		case *ast.TypeDecl:
			out.TypeOrigins[d.Name.Id] = id
			for _, c := range d.Constructors {
				out.ValueOrigins[c.Name.Id] = id
			}
			graphIds = append(graphIds, id)
		case *ast.SignatureDecl:
			out.Signatures[d.Name.Id] = d
		case *ast.FixityDecl:
			resolveFixity(out.Fixities, out.Associativity, d, sink)
			for _, rel := range d.Relations {
				declaredOps = append(declaredOps, opPosetId(rel.Left), opPosetId(rel.Right))
			}
		}
	}
	seedApplicationPrecedence(out.Fixities, declaredOps)

	for nameID, sig := range out.Signatures {
		if _, ok := out.ValueOrigins[nameID]; !ok {
			sink.NonFatal(diag.DanglingSignature, sig.Name.Loc,
				"signature for %s has no matching declaration in this group", sig.Name.Text)
		}
	}

	edges := make(map[DeclId][]DeclId, len(graphIds))
	for _, id := range graphIds {
		refs := freeNameIds(out.Declarations[id])
		var deps []DeclId
		for ref := range refs {
			if dep, ok := out.ValueOrigins[ref]; ok && dep != id {
				deps = append(deps, dep)
			}
			if dep, ok := out.TypeOrigins[ref]; ok && dep != id {
				deps = append(deps, dep)
			}
		}
		edges[id] = deps
	}

	out.OrderedGroups = tarjanSCC(graphIds, edges)
	return out
}

func resolveFixity(p *poset.Poset[names.Id], assoc map[names.Id]ast.Associativity, d *ast.FixityDecl, sink *diag.Sink) {
	for _, rel := range d.Relations {
		ord := poset.LT
		if rel.Equal {
			ord = poset.EQ
		}
		left, right := opPosetId(rel.Left), opPosetId(rel.Right)
		cyc, err := p.AddRelation(left, right, ord)
		if err != nil {
			sink.Fatal(diag.SelfReferentialFixity, rel.Left.Name.Loc, "%s", err)
			continue
		}
		if cyc != nil {
			sink.NonFatal(diag.PrecedenceCycle, rel.Left.Name.Loc, "%s", cyc)
			continue
		}
		if rel.Equal {
			assoc[p.EqClass(left)] = rel.Assoc
		}
	}
}

// seedApplicationPrecedence gives every operator declared in some FixityDecl
// an implicit "lower precedence than application" edge, unless the user's
// own relations already order it against application: function application
// binds tighter than any infix operator by default.
func seedApplicationPrecedence(p *poset.Poset[names.Id], ops []names.Id) {
	p.EqClass(ApplicationId)
	seen := map[names.Id]bool{ApplicationId: true}
	for _, id := range ops {
		if seen[id] {
			continue
		}
		seen[id] = true
		if p.Related(id, ApplicationId) {
			continue
		}
		p.AddRelation(id, ApplicationId, poset.LT)
	}
}

// freeNameIds collects every names.Id a declaration's body refers to:
// value identifiers, constructor patterns and type names. Because every
// binding occurrence in the AST already carries a globally unique Id
// (assigned by whatever resolution pass produced this tree), a locally
// bound name's uses never collide with a same-named top-level
// declaration's Id, so no scope tracking is needed here - a name refers to
// another top-level declaration exactly when its Id is a key of the
// output's ValueOrigins or TypeOrigins.
func freeNameIds(d ast.Decl) map[names.Id]struct{} {
	refs := make(map[names.Id]struct{})
	var collector ast.VisitorFunc
	collector = ast.VisitorFunc(func(n ast.Node, dir ast.VisitDirection) ast.Visitor {
		if dir != ast.VisitEnter {
			return collector
		}
		switch n := n.(type) {
		case *ast.IdentExpr:
			refs[n.Name.Id] = struct{}{}
		case *ast.ConstructorPattern:
			refs[n.Ctor.Id] = struct{}{}
		case *ast.TypeNameExpr:
			refs[n.Name.Id] = struct{}{}
		}
		return collector
	})
	ast.Walk(collector, d)
	return refs
}

// tarjanSCC decomposes the dependency graph (ids, edges) into strongly
// connected components and returns them in Tarjan's emission order, which
// is reverse topological order of the reference graph (dependencies before
// dependents), using the standard Tarjan algorithm.
func tarjanSCC(ids []DeclId, edges map[DeclId][]DeclId) [][]DeclId {
	type tstate struct {
		index, lowlink int
		onStack        bool
	}

	var (
		index   int
		stack   []DeclId
		states  = make(map[DeclId]*tstate, len(ids))
		groups  [][]DeclId
		strongconnect func(v DeclId)
	)

	strongconnect = func(v DeclId) {
		st := &tstate{index: index, lowlink: index, onStack: true}
		states[v] = st
		index++
		stack = append(stack, v)

		for _, w := range edges[v] {
			if states[w] == nil {
				strongconnect(w)
				if states[w].lowlink < st.lowlink {
					st.lowlink = states[w].lowlink
				}
			} else if states[w].onStack {
				if states[w].index < st.lowlink {
					st.lowlink = states[w].index
				}
			}
		}

		if st.lowlink == st.index {
			var comp []DeclId
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				states[w].onStack = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			groups = append(groups, comp)
		}
	}

	// visit in input order for determinism
	sorted := make([]DeclId, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for _, id := range sorted {
		if states[id] == nil {
			strongconnect(id)
		}
	}

	// Tarjan produces components in reverse topological order (a component
	// is only closed once everything it points to has been). inferDecls
	// wants dependencies processed first, so the emission order above is
	// already dependency-then-dependent; within a component, sort ids for
	// determinism without affecting semantics (they are inferred together).
	for _, g := range groups {
		sort.Slice(g, func(i, j int) bool { return g[i] < g[j] })
	}
	return groups
}
