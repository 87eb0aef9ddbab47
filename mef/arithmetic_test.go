package mef

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// unitParam builds a Parameter tagged with unit and a constant-valued
// expression, wrapped ready to pass as a ParameterExpr Expression argument.
func unitParam(t *testing.T, name string, unit Unit, value float64) *ParameterExpr {
	t.Helper()
	p := NewParameter(name, nil, true, unit)
	require.NoError(t, p.SetExpression(NewConstant(value), nil))
	return NewParameterExpr(p)
}

func TestNewAdd_RejectsIncompatibleUnits(t *testing.T) {
	hours := unitParam(t, "downtime", UnitHours, 4)
	demands := unitParam(t, "start-count", UnitDemands, 3)
	_, err := NewAdd(hours, demands)
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}

func TestNewAdd_AcceptsMatchingUnits(t *testing.T) {
	a := unitParam(t, "downtime-a", UnitHours, 4)
	b := unitParam(t, "downtime-b", UnitHours, 2)
	_, err := NewAdd(a, b)
	require.NoError(t, err)
}

func TestNewAdd_AcceptsUnitlessOperand(t *testing.T) {
	hours := unitParam(t, "downtime", UnitHours, 4)
	_, err := NewAdd(hours, NewConstant(1))
	require.NoError(t, err)
}

func TestNewSub_RejectsIncompatibleUnits(t *testing.T) {
	years := unitParam(t, "life", UnitYears, 10)
	fit := unitParam(t, "rate", UnitFIT, 5)
	_, err := NewSub(years, fit)
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}

func TestNewMul_RejectsSquaringKnownUnit(t *testing.T) {
	a := unitParam(t, "downtime-a", UnitHours, 4)
	b := unitParam(t, "downtime-b", UnitHours, 2)
	_, err := NewMul(a, b)
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}

func TestNewMul_AcceptsRateTimeCancellation(t *testing.T) {
	rate := unitParam(t, "rate", UnitInverseHours, 1e-3)
	time := unitParam(t, "mission-time", UnitHours, 100)
	_, err := NewMul(rate, time)
	require.NoError(t, err)
}
