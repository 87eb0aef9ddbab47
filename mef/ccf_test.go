package mef

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func threeMemberBetaGroup(t *testing.T) (*CcfGroup, []*BasicEvent) {
	t.Helper()
	members := make([]*BasicEvent, 3)
	for i := range members {
		members[i] = NewBasicEvent(string(rune('a'+i)), nil, true)
	}
	group := NewCcfGroup("ccf-pumps", nil, CcfBetaFactor, members, NewConstant(0.01))
	group.Beta = []Expression{NewConstant(0.1)}
	require.NoError(t, group.ApplyModel())
	return group, members
}

func TestCcfGroup_BetaFactorSubsetProbabilities(t *testing.T) {
	group, _ := threeMemberBetaGroup(t)

	var single, triple int
	for _, e := range group.Events {
		switch len(e.Members) {
		case 1:
			require.InDelta(t, 0.009, e.P(), 1e-12)
			single++
		case 3:
			require.InDelta(t, 0.001, e.P(), 1e-12)
			triple++
		case 2:
			require.InDelta(t, 0.0, e.P(), 1e-12)
		}
	}
	require.Equal(t, 3, single, "one single-failure CcfEvent per member")
	require.Equal(t, 1, triple, "exactly one triple-failure CcfEvent")
}

func TestCcfGroup_SubsetProbabilitySumsToQ(t *testing.T) {
	group, members := threeMemberBetaGroup(t)
	for _, m := range members {
		require.InDelta(t, 0.01, group.SubsetProbabilitySum(m), 1e-9)
	}
}

func fourMemberMGLGroup(t *testing.T) (*CcfGroup, []*BasicEvent) {
	t.Helper()
	members := make([]*BasicEvent, 4)
	for i := range members {
		members[i] = NewBasicEvent(string(rune('a'+i)), nil, true)
	}
	group := NewCcfGroup("ccf-valves", nil, CcfMGL, members, NewConstant(0.01))
	group.Beta = []Expression{NewConstant(0.2), NewConstant(0.15), NewConstant(0.1)}
	require.NoError(t, group.ApplyModel())
	return group, members
}

func TestCcfGroup_MGLSubsetProbabilitySumsToQ(t *testing.T) {
	group, members := fourMemberMGLGroup(t)
	for _, m := range members {
		require.InDelta(t, 0.01, group.SubsetProbabilitySum(m), 1e-9)
	}
}

func fourMemberAlphaFactorGroup(t *testing.T) (*CcfGroup, []*BasicEvent) {
	t.Helper()
	members := make([]*BasicEvent, 4)
	for i := range members {
		members[i] = NewBasicEvent(string(rune('a'+i)), nil, true)
	}
	group := NewCcfGroup("ccf-sensors", nil, CcfAlphaFactor, members, NewConstant(0.01))
	group.Alpha = []Expression{NewConstant(0.7), NewConstant(0.15), NewConstant(0.1), NewConstant(0.05)}
	require.NoError(t, group.ApplyModel())
	return group, members
}

func TestCcfGroup_AlphaFactorSubsetProbabilitySumsToQ(t *testing.T) {
	group, members := fourMemberAlphaFactorGroup(t)
	for _, m := range members {
		require.InDelta(t, 0.01, group.SubsetProbabilitySum(m), 1e-9)
	}
}

func TestCcfGroup_MemberGateIsOrOverItsSubsets(t *testing.T) {
	group, members := threeMemberBetaGroup(t)
	for _, m := range members {
		require.NotNil(t, m.CcfGate)
		require.Equal(t, OperatorOr, m.CcfGate.Formula.Op)
	}
	_ = group
}

func TestCcfGroup_RejectsWrongBetaCount(t *testing.T) {
	members := make([]*BasicEvent, 3)
	for i := range members {
		members[i] = NewBasicEvent(string(rune('a'+i)), nil, true)
	}
	group := NewCcfGroup("bad", nil, CcfBetaFactor, members, NewConstant(0.01))
	group.Beta = []Expression{NewConstant(0.1), NewConstant(0.2)}
	err := group.Validate()
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}

func TestCcfGroup_PhiFactorMustSumToOne(t *testing.T) {
	members := make([]*BasicEvent, 3)
	for i := range members {
		members[i] = NewBasicEvent(string(rune('a'+i)), nil, true)
	}
	group := NewCcfGroup("phi", nil, CcfPhiFactor, members, NewConstant(0.01))
	group.Phi = []Expression{NewConstant(0.5), NewConstant(0.3), NewConstant(0.1)}
	err := group.Validate()
	require.Error(t, err)
	require.True(t, IsKind(err, KindValidationError))
}
