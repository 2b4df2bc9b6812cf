package checker

import (
	"github.com/mna/typelang/lang/ast"
	"github.com/mna/typelang/lang/types"
)

// literalType returns the built-in named type a literal infers to: a
// non-negative IntLit is Nat (the more specific, more useful type for e.g.
// array indexing), a negative one is Int, matching the subtype relation
// builtins.Default declares between them.
func literalType(c *Checker, l ast.Literal) types.Type {
	switch l.Kind {
	case ast.IntLit:
		if l.IsNonNegativeInt() {
			return types.Name{Ref: c.builtins.Nat}
		}
		return types.Name{Ref: c.builtins.Int}
	case ast.TextLit:
		return types.Name{Ref: c.builtins.Text}
	case ast.CharLit:
		return types.Name{Ref: c.builtins.Char}
	default:
		panic("checker: unhandled literal kind")
	}
}
