package mef

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildValidModel(t *testing.T) *Model {
	t.Helper()
	m := NewModel("plant")

	b := NewBasicEvent("pump-fails", nil, true)
	require.NoError(t, b.SetExpression(NewConstant(0.1)))
	require.NoError(t, m.AddBasicEvent(b))

	f := NewFormula(OperatorNull, 0)
	require.NoError(t, f.AddBasicEvent(b))
	top := NewGate("top", nil, true)
	top.SetFormula(f)
	require.NoError(t, m.AddGate(top))

	m.AddFaultTree(NewFaultTree("ft", []*Gate{top}))
	return m
}

func TestModel_ValidateAcceptsWellFormedModel(t *testing.T) {
	m := buildValidModel(t)
	require.NoError(t, m.Validate())
}

func TestModel_ValidateIsIdempotent(t *testing.T) {
	m := buildValidModel(t)
	require.NoError(t, m.Validate())
	require.NoError(t, m.Validate())
}

func TestModel_ValidateRejectsOutOfRangeProbability(t *testing.T) {
	m := NewModel("plant")
	b := NewBasicEvent("broken", nil, true)
	require.NoError(t, b.SetExpression(NewConstant(1.5)))
	require.NoError(t, m.AddBasicEvent(b))

	err := m.Validate()
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}

func TestModel_ValidateRejectsGateCycle(t *testing.T) {
	m := NewModel("plant")
	a := NewGate("a", nil, true)
	b := NewGate("b", nil, true)

	fa := NewFormula(OperatorNull, 0)
	require.NoError(t, fa.AddGate(b))
	a.SetFormula(fa)

	fb := NewFormula(OperatorNull, 0)
	require.NoError(t, fb.AddGate(a))
	b.SetFormula(fb)

	require.NoError(t, m.AddGate(a))
	require.NoError(t, m.AddGate(b))
	m.AddFaultTree(NewFaultTree("ft", []*Gate{a}))

	err := m.Validate()
	require.Error(t, err)
	require.True(t, IsKind(err, KindCycleError))
}

func TestModel_ValidateRejectsUnitMismatchAssembledOutsideConstructors(t *testing.T) {
	m := NewModel("plant")
	hours := NewParameter("downtime", nil, true, UnitHours)
	require.NoError(t, hours.SetExpression(NewConstant(0.3), nil))
	demands := NewParameter("start-count", nil, true, UnitDemands)
	require.NoError(t, demands.SetExpression(NewConstant(0.4), nil))

	// AddExpr{} bypasses NewAdd's unit check entirely, the only way to reach
	// this model-wide pass's defense-in-depth branch. Values are chosen so
	// the sum stays within [0,1] and validateProbabilityRanges doesn't
	// reject it first, isolating the failure to validateUnits.
	b := NewBasicEvent("bad-probability", nil, true)
	mismatch := &AddExpr{Args: []Expression{NewParameterExpr(hours), NewParameterExpr(demands)}}
	require.NoError(t, b.SetExpression(mismatch))
	require.NoError(t, m.AddBasicEvent(b))

	err := m.Validate()
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}

func TestModel_ValidateRejectsBadFormulaArity(t *testing.T) {
	m := NewModel("plant")
	b1 := NewBasicEvent("b1", nil, true)
	require.NoError(t, b1.SetExpression(NewConstant(0.1)))
	require.NoError(t, m.AddBasicEvent(b1))

	f := NewFormula(OperatorAnd, 0)
	require.NoError(t, f.AddBasicEvent(b1))
	top := NewGate("top", nil, true)
	top.SetFormula(f)
	require.NoError(t, m.AddGate(top))
	m.AddFaultTree(NewFaultTree("ft", []*Gate{top}))

	err := m.Validate()
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}
