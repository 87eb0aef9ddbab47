package mef_test

import (
	"testing"

	"github.com/scram-tools/scram-core/internal/evaluator"
	"github.com/scram-tools/scram-core/mef"
	"github.com/stretchr/testify/require"
)

func TestReferenceEvaluator_AndOfTwoIndependents(t *testing.T) {
	b1 := mef.NewBasicEvent("e1", nil, true)
	require.NoError(t, b1.SetExpression(mef.NewConstant(0.1)))
	b2 := mef.NewBasicEvent("e2", nil, true)
	require.NoError(t, b2.SetExpression(mef.NewConstant(0.2)))

	f := mef.NewFormula(mef.OperatorAnd, 0)
	require.NoError(t, f.AddBasicEvent(b1))
	require.NoError(t, f.AddBasicEvent(b2))
	top := mef.NewGate("top", nil, true)
	top.SetFormula(f)
	ft := mef.NewFaultTree("ft", []*mef.Gate{top})

	e := evaluator.New(evaluator.ApproxRareEvent)
	require.InDelta(t, 0.02, e.TopProbability(ft), 1e-12)

	m := evaluator.Importance(ft, b1)
	require.InDelta(t, 1.0, m.FV, 1e-12)
	require.InDelta(t, 0.2, m.Birnbaum, 1e-12)
}

func TestReferenceEvaluator_AtleastTwoOfThree(t *testing.T) {
	f := mef.NewFormula(mef.OperatorAtleast, 2)
	for i := 0; i < 3; i++ {
		b := mef.NewBasicEvent(string(rune('a'+i)), nil, true)
		require.NoError(t, b.SetExpression(mef.NewConstant(0.1)))
		require.NoError(t, f.AddBasicEvent(b))
	}
	top := mef.NewGate("top", nil, true)
	top.SetFormula(f)
	ft := mef.NewFaultTree("ft", []*mef.Gate{top})

	e := evaluator.New(evaluator.ApproxRareEvent)
	require.InDelta(t, 0.028, e.TopProbability(ft), 1e-9)
}

func TestReferenceEvaluator_BetaFactorCcfThroughTopEvent(t *testing.T) {
	members := make([]*mef.BasicEvent, 3)
	for i := range members {
		members[i] = mef.NewBasicEvent(string(rune('a'+i)), nil, true)
	}
	group := mef.NewCcfGroup("ccf", nil, mef.CcfBetaFactor, members, mef.NewConstant(0.01))
	group.Beta = []mef.Expression{mef.NewConstant(0.1)}
	require.NoError(t, group.ApplyModel())

	or := mef.NewFormula(mef.OperatorOr, 0)
	for _, member := range members {
		require.NoError(t, or.AddBasicEvent(member))
	}
	top := mef.NewGate("top", nil, true)
	top.SetFormula(or)
	ft := mef.NewFaultTree("ft", []*mef.Gate{top})

	e := evaluator.New(evaluator.ApproxExact)
	got := e.TopProbability(ft)
	require.Greater(t, got, 0.0)
	require.LessOrEqual(t, got, 1.0)
}
