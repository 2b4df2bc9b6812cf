// Package names defines the process-wide Name and Id data model shared by
// every later stage of the pipeline: a name-resolved program refers to its
// bindings exclusively through Name values, never through bare strings, so
// that two occurrences of the same source identifier in different scopes
// never collide.
package names

import (
	"fmt"
	"sync/atomic"

	"github.com/mna/typelang/lang/token"
)

// Id is a process-unique integer minted by a Generator. Two Names compare
// equal iff both their Text and Id match; Id alone is enough to disambiguate
// shadowing declarations that share a Text.
type Id uint64

// Loc is the source location a Name (or a Type built from it) originates
// from, kept only for diagnostics; it never participates in equality.
type Loc struct {
	File *token.File
	Pos  token.Pos
}

// NoLoc is the zero value of Loc, used for names synthesized by the checker
// itself (fresh unification variables, builtins) rather than parsed source.
var NoLoc = Loc{}

func (l Loc) String() string {
	if l.File == nil {
		return "-"
	}
	return l.File.Position(l.Pos).String()
}

// Kind distinguishes a plain user identifier from a wildcard or one of the
// built-in names that the checker and its collaborators must be able to
// refer to without risking an Id collision with user code.
type Kind uint8

const (
	// User is an ordinary source identifier.
	User Kind = iota
	// Wildcard is the `_` pattern; WildIndex disambiguates repeated wildcards
	// that would otherwise share the empty Text.
	Wildcard
	// BuiltinKind is one of the fixed set of names listed in the Builtin*
	// constants below; it is never minted by Generator.Fresh, only by
	// BuiltinName.
	BuiltinKind
)

// The built-in names the checker references by identity rather than by
// looking them up in sigs; see Builtin.
type Builtin uint8

const (
	BuiltinBool Builtin = iota
	BuiltinList
	BuiltinInt
	BuiltinNat
	BuiltinText
	BuiltinChar
	BuiltinLens
	BuiltinType
	BuiltinTrue
	BuiltinCons
	BuiltinNil
)

var builtinText = [...]string{
	BuiltinBool: "Bool",
	BuiltinList: "List",
	BuiltinInt:  "Int",
	BuiltinNat:  "Nat",
	BuiltinText: "Text",
	BuiltinChar: "Char",
	BuiltinLens: "Lens",
	BuiltinType: "Type",
	BuiltinTrue: "True",
	BuiltinCons: "Cons",
	BuiltinNil:  "Nil",
}

func (b Builtin) String() string {
	if int(b) >= len(builtinText) {
		return fmt.Sprintf("<invalid builtin %d>", b)
	}
	return builtinText[b]
}

// A Name is a pair (Text, Id). Two names denote the same binding iff they
// share both fields (see Equal); Loc is carried for diagnostics only. Go's
// built-in == compares every field, Loc included, so two occurrences of the
// same binding at different locations are not == to each other.
type Name struct {
	Text string
	Id   Id

	kind    Kind
	builtin Builtin // valid only when kind == BuiltinKind

	Loc Loc
}

// Equal reports whether n and o denote the same binding: same Text and same
// Id. Loc is deliberately excluded, and so is every other bookkeeping field,
// so this is the correct way to compare two Names - plain == compiles too,
// but it also compares Loc and the bookkeeping fields.
func (n Name) Equal(o Name) bool { return n.Text == o.Text && n.Id == o.Id }

// IsWildcard reports whether n is a `_` pattern name.
func (n Name) IsWildcard() bool { return n.kind == Wildcard }

// IsBuiltin reports whether n is one of the fixed built-in names, and if so
// which one.
func (n Name) IsBuiltin() (Builtin, bool) { return n.builtin, n.kind == BuiltinKind }

// WithLoc returns a copy of n with Loc replaced; Id and Text are untouched so
// equality is unaffected.
func (n Name) WithLoc(l Loc) Name {
	n.Loc = l
	return n
}

func (n Name) String() string {
	if n.kind == Wildcard {
		return "_"
	}
	return n.Text
}

// GoString prints both components, useful when debugging Id collisions.
func (n Name) GoString() string {
	return fmt.Sprintf("%s#%d", n.Text, n.Id)
}

// A Generator mints fresh, process-unique Ids. The zero value is ready to
// use. It is safe for concurrent use, though the checker itself is
// single-threaded (see DESIGN.md); the atomic counter costs nothing and
// removes any doubt if a future collaborator runs resolution concurrently
// across independent modules.
type Generator struct {
	next atomic.Uint64
}

// Fresh mints a new Name with the given source text and location.
func (g *Generator) Fresh(text string, loc Loc) Name {
	id := Id(g.next.Add(1))
	return Name{Text: text, Id: id, Loc: loc}
}

// FreshWildcard mints a new `_` binding; each call gets its own Id even
// though Text is always "_", so distinct wildcards never compare Equal.
func (g *Generator) FreshWildcard(loc Loc) Name {
	id := Id(g.next.Add(1))
	return Name{Text: "_", Id: id, kind: Wildcard, Loc: loc}
}

// BuiltinName returns the distinguished Name for b. Builtin names all carry
// Id 0: they are singletons handed out once by Builtins (see package
// builtins) and told apart by their Text, which differs for every Builtin,
// so repeated calls for the same b are intentionally equal.
func BuiltinName(b Builtin) Name {
	return Name{Text: b.String(), kind: BuiltinKind, builtin: b}
}
