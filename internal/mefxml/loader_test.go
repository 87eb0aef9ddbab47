package mefxml

import (
	"math"
	"testing"

	"github.com/scram-tools/scram-core/mef"
	"github.com/stretchr/testify/require"
)

const simpleDocument = `<scram-model>
  <define-fault-tree name="pump-system">
    <define-gate name="top">
      <formula>
        <or>
          <gate name="sub"/>
          <basic-event name="valve-fails"/>
        </or>
      </formula>
    </define-gate>
    <define-gate name="sub">
      <formula>
        <and>
          <basic-event name="pump-fails"/>
          <basic-event name="backup-fails"/>
        </and>
      </formula>
    </define-gate>
  </define-fault-tree>
  <model-data>
    <define-parameter name="pump-rate" unit="hours-1">
      <float value="1e-4"/>
    </define-parameter>
    <define-basic-event name="pump-fails">
      <exponential>
        <parameter name="pump-rate"/>
        <mission-time/>
      </exponential>
    </define-basic-event>
    <define-basic-event name="backup-fails">
      <float value="0.05"/>
    </define-basic-event>
    <define-basic-event name="valve-fails">
      <float value="0.02"/>
    </define-basic-event>
  </model-data>
</scram-model>`

func TestFromXML_ParsesGatesParametersAndBasicEvents(t *testing.T) {
	m, err := FromXML([]byte(simpleDocument), "pump-system.xml")
	require.NoError(t, err)
	require.Len(t, m.FaultTrees, 1)
	require.Equal(t, "pump-system", m.FaultTrees[0].Name)
	require.Len(t, m.FaultTrees[0].TopGates, 1)
	require.Equal(t, "top", m.FaultTrees[0].TopGates[0].Name)

	sub, ok := m.Gates.Lookup(topScope, "sub")
	require.True(t, ok)
	require.Equal(t, mef.OperatorAnd, sub.Formula.Op)

	m.SetMissionTime(100)
	pumpFails, ok := m.Basics.Lookup(topScope, "pump-fails")
	require.True(t, ok)
	require.InDelta(t, 1-math.Exp(-1e-4*100), pumpFails.P(), 1e-9)
}

func TestFromXML_ForwardGateReferenceResolves(t *testing.T) {
	doc := `<root>
  <define-fault-tree name="ft">
    <define-gate name="top">
      <formula><null><gate name="later"/></null></formula>
    </define-gate>
    <define-gate name="later">
      <formula><null><basic-event name="b"/></null></formula>
    </define-gate>
  </define-fault-tree>
  <define-basic-event name="b"><float value="0.1"/></define-basic-event>
</root>`
	m, err := FromXML([]byte(doc), "forward.xml")
	require.NoError(t, err)
	require.InDelta(t, 0.1, m.FaultTrees[0].TopGates[0].Formula.Mean(), 1e-12)
}

func TestFromXML_UndefinedReferenceFails(t *testing.T) {
	doc := `<root>
  <define-fault-tree name="ft">
    <define-gate name="top">
      <formula><null><basic-event name="missing"/></null></formula>
    </define-gate>
  </define-fault-tree>
</root>`
	_, err := FromXML([]byte(doc), "broken.xml")
	require.Error(t, err)
	require.True(t, mef.IsKind(err, mef.KindUndefinedElement))
}

func TestFromXML_CcfGroupSubstitutesMemberProbability(t *testing.T) {
	doc := `<root>
  <define-fault-tree name="ft">
    <define-gate name="top">
      <formula>
        <or>
          <basic-event name="a"/>
          <basic-event name="b"/>
        </or>
      </formula>
    </define-gate>
  </define-fault-tree>
  <define-basic-event name="a"><float value="0.01"/></define-basic-event>
  <define-basic-event name="b"><float value="0.01"/></define-basic-event>
  <define-CCF-group name="pumps" model="beta-factor">
    <members>
      <basic-event name="a"/>
      <basic-event name="b"/>
    </members>
    <distribution><float value="0.01"/></distribution>
    <factor><float value="0.1"/></factor>
  </define-CCF-group>
</root>`
	m, err := FromXML([]byte(doc), "ccf.xml")
	require.NoError(t, err)
	a, ok := m.Basics.Lookup(topScope, "a")
	require.True(t, ok)
	require.NotNil(t, a.CcfGate)

	group, ok := m.CcfGroups.Lookup(topScope, "pumps")
	require.True(t, ok)
	require.InDelta(t, 0.01, group.SubsetProbabilitySum(a), 1e-9)
}

func TestFromXML_ArityViolationFailsValidation(t *testing.T) {
	doc := `<root>
  <define-fault-tree name="ft">
    <define-gate name="top">
      <formula><and><basic-event name="only"/></and></formula>
    </define-gate>
  </define-fault-tree>
  <define-basic-event name="only"><float value="0.1"/></define-basic-event>
</root>`
	_, err := FromXML([]byte(doc), "bad-arity.xml")
	require.Error(t, err)
	require.True(t, mef.IsKind(err, mef.KindValidationError))
}
