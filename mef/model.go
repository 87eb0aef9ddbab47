package mef

// Model owns every element of a SCRAM-style analysis input: primary events,
// gates, parameters, CCF groups, fault trees, and the mission-time singleton
// (§3's Ownership section).
type Model struct {
	Name string

	Houses     *Registry[*HouseEvent]
	Basics     *Registry[*BasicEvent]
	Gates      *Registry[*Gate]
	Params     *Registry[*Parameter]
	CcfGroups  *Registry[*CcfGroup]
	FaultTrees []*FaultTree

	MissionTime *MissionTime
}

// NewModel builds an empty model with a zero-valued mission time.
func NewModel(name string) *Model {
	return &Model{
		Name:        name,
		Houses:      NewRegistry[*HouseEvent](),
		Basics:      NewRegistry[*BasicEvent](),
		Gates:       NewRegistry[*Gate](),
		Params:      NewRegistry[*Parameter](),
		CcfGroups:   NewRegistry[*CcfGroup](),
		MissionTime: NewMissionTime(),
	}
}

// AddHouseEvent registers a house event, failing on a duplicate (scope, id).
func (m *Model) AddHouseEvent(h *HouseEvent) error { return m.Houses.Register(h) }

// AddBasicEvent registers a basic event, failing on a duplicate (scope, id).
func (m *Model) AddBasicEvent(b *BasicEvent) error { return m.Basics.Register(b) }

// AddGate registers a gate, failing on a duplicate (scope, id).
func (m *Model) AddGate(g *Gate) error { return m.Gates.Register(g) }

// AddParameter registers a parameter, failing on a duplicate (scope, id).
func (m *Model) AddParameter(p *Parameter) error { return m.Params.Register(p) }

// AddCcfGroup registers a CCF group, failing on a duplicate (scope, id).
func (m *Model) AddCcfGroup(g *CcfGroup) error { return m.CcfGroups.Register(g) }

// AddFaultTree registers a fault tree under the model.
func (m *Model) AddFaultTree(ft *FaultTree) { m.FaultTrees = append(m.FaultTrees, ft) }

// SetMissionTime updates the mission-time singleton and invalidates every
// parameter's mean cache, since any parameter transitively wrapping a
// MissionTimeExpr now reads a stale value otherwise (§5's mission-time
// singleton rule).
func (m *Model) SetMissionTime(t float64) {
	m.MissionTime.Set(t)
	InvalidateMissionTime(m.Params.All())
}

// Reset tears down the current sampling cycle across every fault tree.
func (m *Model) Reset() {
	for _, ft := range m.FaultTrees {
		ft.Reset()
	}
}

// ApplyCcfGroups runs ApplyModel on every registered CCF group. It must run
// after every member basic event has its nominal expression assigned and
// before analysis, since it rewrites b.CcfGate on each member.
func (m *Model) ApplyCcfGroups() error {
	for _, g := range m.CcfGroups.All() {
		if err := g.ApplyModel(); err != nil {
			return err
		}
		for _, event := range g.Events {
			if err := m.Basics.Register(&event.BasicEvent); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate runs the fixed-order validator (§4.H) over the model.
func (m *Model) Validate() error { return validateModel(m) }
