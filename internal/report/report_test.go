package report

import (
	"encoding/xml"
	"math"
	"testing"

	"github.com/scram-tools/scram-core/internal/evaluator"
	"github.com/scram-tools/scram-core/mef"
	"github.com/stretchr/testify/require"
)

func andTree(t *testing.T) (*mef.Model, *mef.FaultTree) {
	t.Helper()
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

	m := mef.NewModel("model")
	require.NoError(t, m.AddBasicEvent(b1))
	require.NoError(t, m.AddBasicEvent(b2))
	require.NoError(t, m.AddGate(top))
	m.AddFaultTree(ft)
	return m, ft
}

func TestBuildResults_WithoutImportance_LeavesMeasuresNaN(t *testing.T) {
	_, ft := andTree(t)
	eval := evaluator.New(evaluator.ApproxRareEvent)

	res := BuildResults(ft, eval, Options{})
	require.InDelta(t, 0.02, res.TopProbability, 1e-12)
	require.Len(t, res.Measures, 2)
	for _, m := range res.Measures {
		require.True(t, math.IsNaN(m.FV))
		require.True(t, math.IsNaN(m.Birnbaum))
	}
	require.Nil(t, res.SIL)
}

func TestBuildResults_WithImportance_FillsMeasures(t *testing.T) {
	_, ft := andTree(t)
	eval := evaluator.New(evaluator.ApproxRareEvent)

	res := BuildResults(ft, eval, Options{Importance: true})
	byEvent := map[string]Measure{}
	for _, m := range res.Measures {
		byEvent[m.Event] = m
	}
	require.InDelta(t, 1.0, byEvent["e1"].FV, 1e-12)
	require.InDelta(t, 0.2, byEvent["e1"].Birnbaum, 1e-12)
}

func TestBuildResults_WithSIL_SetsBand(t *testing.T) {
	_, ft := andTree(t)
	eval := evaluator.New(evaluator.ApproxRareEvent)

	res := BuildResults(ft, eval, Options{
		SIL:           true,
		PFDAvgSamples: []float64{1e-5, 2e-5, 1.5e-5},
	})
	require.NotNil(t, res.SIL)
	require.Equal(t, "SIL4", res.SIL.DemandBand)
}

func TestBuildDocument_OneResultPerFaultTree(t *testing.T) {
	m, _ := andTree(t)
	eval := evaluator.New(evaluator.ApproxRareEvent)

	doc := BuildDocument(m, eval, Options{})
	require.Len(t, doc.Results, 1)
	require.Equal(t, "ft", doc.Results[0].Name)
}

func TestMarshal_ProducesWellFormedXML(t *testing.T) {
	_, ft := andTree(t)
	eval := evaluator.New(evaluator.ApproxRareEvent)
	doc := &Document{Results: []Results{BuildResults(ft, eval, Options{Importance: true})}}

	data, err := Marshal(doc)
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, xml.Unmarshal(data, &decoded))
	require.Len(t, decoded.Results, 1)
	require.Len(t, decoded.Results[0].Measures, 2)
}
