package mef

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPeriodicTest4_ElapsedSinceLastTestBoundary(t *testing.T) {
	pt, err := NewPeriodicTest4(NewConstant(1e-3), NewConstant(720), NewConstant(360), NewConstant(1000))
	require.NoError(t, err)
	require.InDelta(t, 0.4727, pt.Mean(), 1e-4)
}

func TestPeriodicTest4_RestoredAtEachBoundary(t *testing.T) {
	pt, err := NewPeriodicTest4(NewConstant(0.01), NewConstant(50), NewConstant(0), NewConstant(100))
	require.NoError(t, err)
	require.Equal(t, 0.0, pt.Mean(), "elapsed since the most recent test boundary is zero")
}

func TestPeriodicTest5_RejectsOutOfRangeTestDuration(t *testing.T) {
	_, err := NewPeriodicTest5(NewConstant(0.01), NewConstant(50), NewConstant(0), NewConstant(60), NewConstant(10))
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}

func TestPeriodicTest5_UnavailableDuringTestWindow(t *testing.T) {
	pt, err := NewPeriodicTest5(NewConstant(0.01), NewConstant(50), NewConstant(0), NewConstant(5), NewConstant(2))
	require.NoError(t, err)
	require.Equal(t, 1.0, pt.Mean())
}

func TestPeriodicTest11_RejectsOutOfRangeDetectionProb(t *testing.T) {
	_, err := NewPeriodicTest11(
		NewConstant(0.01), NewConstant(0.02), NewConstant(50), NewConstant(0), NewConstant(5),
		NewConstant(0.5), NewConstant(1.5), NewConstant(2), NewConstant(1), NewConstant(0),
		NewConstant(10),
	)
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}

func TestPeriodicTest11_PerfectDetectionAndFullRepairClearsFailure(t *testing.T) {
	pt, err := NewPeriodicTest11(
		NewConstant(0.01), NewConstant(0.02), NewConstant(50), NewConstant(0), NewConstant(5),
		NewConstant(0), NewConstant(1), NewConstant(0), NewConstant(1), NewConstant(0),
		NewConstant(10),
	)
	require.NoError(t, err)
	require.Equal(t, 0.0, pt.Mean(), "perfect detection and full repair clears the between-test accumulation")
}

func TestPeriodicTest11_AvailableAtTestBlendsTestWindowValue(t *testing.T) {
	pt, err := NewPeriodicTest11(
		NewConstant(0.01), NewConstant(0.02), NewConstant(50), NewConstant(0), NewConstant(5),
		NewConstant(1), NewConstant(1), NewConstant(0), NewConstant(1), NewConstant(0),
		NewConstant(2),
	)
	require.NoError(t, err)
	require.Less(t, pt.Mean(), 1.0, "full availability during the test window departs from the forced-unavailable 1.0")
}

func TestExponentialExpr_RejectsNegativeLambda(t *testing.T) {
	_, err := NewExponentialExpr(NewConstant(-0.1), NewConstant(10))
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}

func TestExponentialExpr_RejectsNonRateLambdaUnit(t *testing.T) {
	lambda := unitParam(t, "demand-prob", UnitDemands, 0.1)
	_, err := NewExponentialExpr(lambda, NewConstant(10))
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}

func TestExponentialExpr_RejectsNonTimeTimeUnit(t *testing.T) {
	lambda := unitParam(t, "rate", UnitInverseHours, 1e-3)
	mission := unitParam(t, "demand-count", UnitDemands, 5)
	_, err := NewExponentialExpr(lambda, mission)
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}

func TestExponentialExpr_AcceptsMatchingUnits(t *testing.T) {
	lambda := unitParam(t, "rate", UnitInverseHours, 1e-3)
	mission := unitParam(t, "mission-time", UnitHours, 100)
	_, err := NewExponentialExpr(lambda, mission)
	require.NoError(t, err)
}

func TestGlmExpr_RejectsNonRateMuUnit(t *testing.T) {
	mu := unitParam(t, "bad-mu", UnitDemands, 0.1)
	_, err := NewGlmExpr(NewConstant(0.5), NewConstant(1e-3), mu, NewConstant(100))
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}

func TestWeibullExpr_RejectsNonTimeAlphaUnit(t *testing.T) {
	alpha := unitParam(t, "bad-alpha", UnitFIT, 10)
	_, err := NewWeibullExpr(alpha, NewConstant(1.5), NewConstant(0), NewConstant(100))
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}

func TestPeriodicTest4_RejectsNonTimeTauUnit(t *testing.T) {
	tau := unitParam(t, "bad-tau", UnitDemands, 50)
	_, err := NewPeriodicTest4(NewConstant(1e-3), tau, NewConstant(0), NewConstant(100))
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}

func TestPeriodicTest11_RejectsNonRateActiveLambdaUnit(t *testing.T) {
	activeLambda := unitParam(t, "bad-active-lambda", UnitDemands, 0.1)
	_, err := NewPeriodicTest11(
		NewConstant(0.01), activeLambda, NewConstant(50), NewConstant(0), NewConstant(5),
		NewConstant(0.5), NewConstant(0.9), NewConstant(2), NewConstant(1), NewConstant(0),
		NewConstant(10),
	)
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}
