// Package builtins defines the configuration the checker is initialized
// with: the Name of each of the language's built-in types, and the direct
// (non-transitive) subtype edges between named types that subtype/supertype
// consult when two Name constructors don't match structurally.
package builtins

import "github.com/mna/typelang/lang/names"

// Builtins configures a checker run with the Name of each built-in type.
// Built-in values the interpreter needs (true, cons, nil) are a concern of
// the downstream interpreter, not the checker.
type Builtins struct {
	Bool names.Name
	List names.Name
	Int  names.Name
	Nat  names.Name
	Text names.Name
	Char names.Name
	Lens names.Name

	// SubtypeRelations lists direct subtype edges (from, to): from is usable
	// where to is expected. The list need not be transitively closed: the
	// checker follows chains of edges, so Nat <= Int and Int <= Rat already
	// give Nat <= Rat.
	SubtypeRelations []SubtypeEdge
}

// SubtypeEdge is one direct (From, To) subtype relation between named types.
type SubtypeEdge struct {
	From, To names.Name
}

// Default builds the standard Builtins configuration, using the distinguished
// built-in Name variants from package names and declaring the conventional
// Nat <= Int edge.
func Default() Builtins {
	boolN := names.BuiltinName(names.BuiltinBool)
	listN := names.BuiltinName(names.BuiltinList)
	intN := names.BuiltinName(names.BuiltinInt)
	natN := names.BuiltinName(names.BuiltinNat)
	textN := names.BuiltinName(names.BuiltinText)
	charN := names.BuiltinName(names.BuiltinChar)
	lensN := names.BuiltinName(names.BuiltinLens)

	return Builtins{
		Bool: boolN,
		List: listN,
		Int:  intN,
		Nat:  natN,
		Text: textN,
		Char: charN,
		Lens: lensN,
		SubtypeRelations: []SubtypeEdge{
			{From: natN, To: intN},
		},
	}
}

// DirectSupertypes returns every To such that (from, To) is a configured
// subtype edge.
func (b Builtins) DirectSupertypes(from names.Name) []names.Name {
	var out []names.Name
	for _, e := range b.SubtypeRelations {
		if e.From.Equal(from) {
			out = append(out, e.To)
		}
	}
	return out
}

// IsDirectSubtype reports whether (from, to) is a configured subtype edge.
func (b Builtins) IsDirectSubtype(from, to names.Name) bool {
	for _, e := range b.SubtypeRelations {
		if e.From.Equal(from) && e.To.Equal(to) {
			return true
		}
	}
	return false
}
