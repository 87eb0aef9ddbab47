package mef

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParameter_SampleCoherentWithinCycle(t *testing.T) {
	p := NewParameter("lambda", nil, true, UnitInverseHours)
	deviate, err := NewUniformDeviate(NewConstant(0), NewConstant(1))
	require.NoError(t, err)
	require.NoError(t, p.SetExpression(deviate, nil))

	rng := rand.New(rand.NewSource(1))
	first := p.Sample(rng)
	second := p.Sample(rng)
	require.Equal(t, first, second)

	p.Reset()
	third := p.Sample(rng)
	_ = third // may or may not differ; Reset only guarantees a fresh draw is taken, not a different value.
}

func TestParameter_MeanCachedUntilInvalidated(t *testing.T) {
	m := NewMissionTime()
	p := NewParameter("age", nil, true, UnitHours)
	require.NoError(t, p.SetExpression(NewMissionTimeExpr(m), nil))

	require.Equal(t, 0.0, p.Mean())
	m.Set(42)
	require.Equal(t, 0.0, p.Mean(), "mean stays cached until InvalidateMissionTime runs")

	InvalidateMissionTime([]*Parameter{p})
	require.Equal(t, 42.0, p.Mean())
}

func TestParameter_CyclicDependencyRaisesCycleError(t *testing.T) {
	a := NewParameter("A", nil, true, UnitUnitless)
	b := NewParameter("B", nil, true, UnitUnitless)

	require.NoError(t, a.SetExpression(NewParameterExpr(b), []*Parameter{b}))

	err := b.SetExpression(NewParameterExpr(a), []*Parameter{a})
	require.Error(t, err)
	require.True(t, IsKind(err, KindCycleError))

	var merr *Error
	require.ErrorAs(t, err, &merr)
	require.Contains(t, merr.Path, "A")
	require.Contains(t, merr.Path, "B")
}
