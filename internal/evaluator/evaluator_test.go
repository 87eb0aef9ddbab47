package evaluator

import (
	"fmt"
	"testing"

	"github.com/scram-tools/scram-core/mef"
	"github.com/stretchr/testify/require"
)

func andTree(t *testing.T, p1, p2 float64) (*mef.FaultTree, *mef.BasicEvent, *mef.BasicEvent) {
	t.Helper()
	b1 := mef.NewBasicEvent("e1", nil, true)
	require.NoError(t, b1.SetExpression(mef.NewConstant(p1)))
	b2 := mef.NewBasicEvent("e2", nil, true)
	require.NoError(t, b2.SetExpression(mef.NewConstant(p2)))

	f := mef.NewFormula(mef.OperatorAnd, 0)
	require.NoError(t, f.AddBasicEvent(b1))
	require.NoError(t, f.AddBasicEvent(b2))

	top := mef.NewGate("top", nil, true)
	top.SetFormula(f)
	return mef.NewFaultTree("ft", []*mef.Gate{top}), b1, b2
}

func TestTopProbability_AndOfTwoIndependents(t *testing.T) {
	ft, b1, _ := andTree(t, 0.1, 0.2)

	e := New(ApproxRareEvent)
	require.InDelta(t, 0.02, e.TopProbability(ft), 1e-12)

	m := Importance(ft, b1)
	require.InDelta(t, 1.0, m.FV, 1e-12)
	require.InDelta(t, 0.2, m.Birnbaum, 1e-12)
}

func TestTopProbability_AtleastTwoOfThree(t *testing.T) {
	var basics []*mef.BasicEvent
	f := mef.NewFormula(mef.OperatorAtleast, 2)
	for i := 0; i < 3; i++ {
		b := mef.NewBasicEvent(fmt.Sprintf("e%d", i+1), nil, true)
		require.NoError(t, b.SetExpression(mef.NewConstant(0.1)))
		require.NoError(t, f.AddBasicEvent(b))
		basics = append(basics, b)
	}
	top := mef.NewGate("top", nil, true)
	top.SetFormula(f)
	ft := mef.NewFaultTree("ft", []*mef.Gate{top})

	e := New(ApproxRareEvent)
	require.InDelta(t, 0.028, e.TopProbability(ft), 1e-9)
	_ = basics
}

func TestProducts_AndOfTwoIndependents(t *testing.T) {
	ft, _, _ := andTree(t, 0.1, 0.2)
	e := New(ApproxRareEvent)
	products := e.Products(ft, 6)
	require.Len(t, products, 1)
	require.ElementsMatch(t, []string{"e1", "e2"}, products[0])
}

func TestSILBands(t *testing.T) {
	require.Equal(t, BandSIL4, DemandBand(1e-5))
	require.Equal(t, BandSIL1, DemandBand(5e-2))
	require.Equal(t, BandNone, DemandBand(0.5))
	require.Equal(t, BandSIL3, ContinuousBand(5e-9))
}
