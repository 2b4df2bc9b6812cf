package checker

import (
	"github.com/mna/typelang/lang/types"
	"github.com/mna/typelang/lang/unify"
)

// Variance records which side of a judgment a polytype is being
// instantiated on. A Forall and an Exists need opposite instantiation
// strategies depending on variance so that higher-rank signatures stay
// sound:
//
//   - Covariant is a type being produced (infer's result, the left side of
//     a subtype check): a leading Forall is instantiated with a fresh
//     UniVar the caller may go on to solve; a leading Exists is
//     instantiated with a fresh Skolem, since unpacking an existential
//     value requires treating its witness as abstract.
//   - Contravariant is a type being demanded (check's expected type, the
//     right side of a subtype check): a leading Forall is instantiated
//     with a fresh Skolem, since the value must work for every instance,
//     not just one the checker picks; a leading Exists is instantiated
//     with a fresh UniVar, since the consumer may supply any witness and
//     the checker is free to solve for it.
type Variance int

const (
	Covariant Variance = iota
	Contravariant
)

// mono peels every leading quantifier off t, instantiating each bound
// variable per variance, until a monotype - one unify can operate on
// directly - is reached.
func mono(st *unify.State, t types.Type, variance Variance) types.Type {
	for {
		switch tt := t.(type) {
		case types.Forall:
			if variance == Covariant {
				t = substitute(tt.Body, tt.V, st.FreshUniVar())
			} else {
				t = substitute(tt.Body, tt.V, st.FreshSkolem(tt.V.Text, tt.V.Loc))
			}
		case types.Exists:
			if variance == Contravariant {
				t = substitute(tt.Body, tt.V, st.FreshUniVar())
			} else {
				t = substitute(tt.Body, tt.V, st.FreshSkolem(tt.V.Text, tt.V.Loc))
			}
		default:
			return t
		}
	}
}
