package mef

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormula_DuplicateBasicEventIsRejected(t *testing.T) {
	b := NewBasicEvent("pump-fails", nil, true)
	require.NoError(t, b.SetExpression(NewConstant(0.1)))

	f := NewFormula(OperatorOr, 0)
	require.NoError(t, f.AddBasicEvent(b))

	err := f.AddBasicEvent(b)
	require.Error(t, err)
	require.True(t, IsKind(err, KindDuplicateArgumentError))
}

func TestFormula_ArityRules(t *testing.T) {
	single := NewBasicEvent("a", nil, true)
	require.NoError(t, single.SetExpression(NewConstant(0.1)))

	not := NewFormula(OperatorNot, 0)
	require.NoError(t, not.AddBasicEvent(single))
	require.NoError(t, not.Validate())

	and := NewFormula(OperatorAnd, 0)
	require.NoError(t, and.AddBasicEvent(single))
	require.Error(t, and.Validate(), "AND requires two or more arguments")

	atleast := NewFormula(OperatorAtleast, 1)
	b2 := NewBasicEvent("b", nil, true)
	require.NoError(t, b2.SetExpression(NewConstant(0.1)))
	require.NoError(t, atleast.AddBasicEvent(single))
	require.NoError(t, atleast.AddBasicEvent(b2))
	require.Error(t, atleast.Validate(), "atleast requires 2 <= k < n")
}

func TestFormula_MeanThroughCcfSubstitution(t *testing.T) {
	members := make([]*BasicEvent, 3)
	for i := range members {
		members[i] = NewBasicEvent(string(rune('x'+i)), nil, true)
	}
	group := NewCcfGroup("ccf", nil, CcfBetaFactor, members, NewConstant(0.01))
	group.Beta = []Expression{NewConstant(0.1)}
	require.NoError(t, group.ApplyModel())

	or := NewFormula(OperatorOr, 0)
	require.NoError(t, or.AddBasicEvent(members[0]))
	require.InDelta(t, members[0].CcfGate.Formula.Mean(), or.Mean(), 1e-12)
}
