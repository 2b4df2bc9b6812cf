package poset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/typelang/lang/poset"
)

func TestAddRelationSelfReference(t *testing.T) {
	p := poset.New[string]()
	_, err := p.AddRelation("+", "+", poset.LT)
	require.Error(t, err)
	var selfErr poset.ErrSelfRelation[string]
	require.ErrorAs(t, err, &selfErr)
	assert.Equal(t, "+", selfErr.Item)
}

func TestAddRelationCycleIsDroppedLeniently(t *testing.T) {
	p := poset.New[string]()
	cyc, err := p.AddRelation("+", "*", poset.LT)
	require.NoError(t, err)
	assert.Nil(t, cyc)

	// "*" below "+" directly contradicts "+" below "*" above: expect a cycle
	// warning, and the existing edge must survive untouched.
	cyc, err = p.AddRelation("*", "+", poset.LT)
	require.NoError(t, err)
	require.NotNil(t, cyc)

	ordered := p.Ordered()
	require.Len(t, ordered, 2)
	assert.ElementsMatch(t, []string{"+"}, ordered[0])
	assert.ElementsMatch(t, []string{"*"}, ordered[1])
}

func TestAddRelationEqualMergesClasses(t *testing.T) {
	p := poset.New[string]()
	cyc, err := p.AddRelation("==", "/=", poset.EQ)
	require.NoError(t, err)
	assert.Nil(t, cyc)

	assert.Equal(t, p.EqClass("=="), p.EqClass("/="))
	assert.ElementsMatch(t, []string{"==", "/="}, p.Items("=="))
}

func TestOrderedRespectsSurvivingEdges(t *testing.T) {
	p := poset.New[string]()
	_, err := p.AddRelation("+", "*", poset.LT)
	require.NoError(t, err)
	_, err = p.AddRelation("*", "^", poset.LT)
	require.NoError(t, err)

	ordered := p.Ordered()
	index := map[string]int{}
	for level, group := range ordered {
		for _, item := range group {
			index[item] = level
		}
	}
	assert.Less(t, index["+"], index["*"])
	assert.Less(t, index["*"], index["^"])
}
