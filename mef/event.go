package mef

// Event is the common base of every node a Formula can reference: house
// events, basic events, CCF events, and gates (component D). Orphan status is
// not stored on any event type; FaultTree.IsOrphan and IsOrphanHouse compute
// it by traversal.
type Event struct {
	Element
}

// NewEvent builds an Event with a derived identity.
func NewEvent(name string, basePath []string, public bool) Event {
	return Event{Element: NewElement(name, basePath, public)}
}

// PrimaryEvent is the base for leaf events (house and basic); HasExpression
// tracks whether a probability-bearing expression has been assigned yet.
type PrimaryEvent struct {
	Event
	HasExpression bool
}

// HouseEvent is a boolean-state primary event: on/off stands for probability
// 1/0. Per §4.D, setting the state also marks HasExpression true.
type HouseEvent struct {
	PrimaryEvent
	state bool
}

// NewHouseEvent builds a HouseEvent initialized to the off (false) state.
func NewHouseEvent(name string, basePath []string, public bool) *HouseEvent {
	return &HouseEvent{PrimaryEvent: PrimaryEvent{Event: NewEvent(name, basePath, public)}}
}

// State reports the current boolean state.
func (h *HouseEvent) State() bool { return h.state }

// SetState assigns the boolean state and marks the event as having an
// expression (the implicit Constant(0) or Constant(1)).
func (h *HouseEvent) SetState(state bool) {
	h.state = state
	h.HasExpression = true
}

// Mean implements the implicit Expression view of a house event: 1 when on,
// 0 when off. Formula evaluation treats HouseEvent references this way
// without needing a wrapper Expression type.
func (h *HouseEvent) Mean() float64 {
	if h.state {
		return 1
	}
	return 0
}

// BasicEvent is a primary event backed by at most one Expression. CcfGate is
// non-nil when this event's native probability has been superseded by a
// CCF-group substitution gate (§4.G); analysis walks through it transparently.
type BasicEvent struct {
	PrimaryEvent
	expr    Expression
	CcfGate *Gate
}

// NewBasicEvent builds a BasicEvent with no expression assigned yet.
func NewBasicEvent(name string, basePath []string, public bool) *BasicEvent {
	return &BasicEvent{PrimaryEvent: PrimaryEvent{Event: NewEvent(name, basePath, public)}}
}

// SetExpression assigns the event's expression. Per §4.D this may happen at
// most once; a second call is a LogicError.
func (b *BasicEvent) SetExpression(e Expression) error {
	if b.HasExpression {
		return NewLogicError("expression already assigned to basic event %q", b.Name)
	}
	b.expr = e
	b.HasExpression = true
	return nil
}

// Expression returns the assigned expression, or nil if none has been set.
func (b *BasicEvent) Expression() Expression { return b.expr }

// P returns the event's mean probability. Undefined (panics via a nil
// dereference) if HasExpression is false; callers must check HasExpression
// first, per §4.D.
func (b *BasicEvent) P() float64 { return b.expr.Mean() }

// CcfEvent is a BasicEvent synthesised by a CCF group for one non-empty
// subset of its members.
type CcfEvent struct {
	BasicEvent
	Group   *CcfGroup
	Members []string // member names this event represents, in group order.
}

// NewCcfEvent builds a CcfEvent under the group's scope, named canonically
// (e.g. "[m1 m2]") by the caller (mef/ccf.go).
func NewCcfEvent(name string, basePath []string, group *CcfGroup, members []string) *CcfEvent {
	return &CcfEvent{
		BasicEvent: *NewBasicEvent(name, basePath, false),
		Group:      group,
		Members:    members,
	}
}

// gateMark is the three-state DFS marking used by the fault-tree and
// parameter-graph cycle detectors (§4.H). Kept in a side table (the marks
// maps dfsGate and dfsParam take in validate.go) rather than mutated on the
// Gate itself — Design Notes §9
// treats traversal state as transient, not part of the gate's identity.
type gateMark int

const (
	markUnvisited gateMark = iota
	markVisiting
	markDone
)

// Gate is an Event that owns exactly one Formula.
type Gate struct {
	Event
	Formula *Formula
}

// NewGate builds a Gate with no formula yet assigned.
func NewGate(name string, basePath []string, public bool) *Gate {
	return &Gate{Event: NewEvent(name, basePath, public)}
}

// SetFormula assigns the gate's formula.
func (g *Gate) SetFormula(f *Formula) { g.Formula = f }
