package mef

// FaultTree is a root set of top-level gates plus the primary events
// reachable through their formulae (§3). Orphan status is computed by
// traversal on demand rather than cached, since it only changes when the
// top-gate set or a formula's arguments change.
type FaultTree struct {
	Name     string
	TopGates []*Gate
}

// NewFaultTree builds a FaultTree over the given top gates.
func NewFaultTree(name string, topGates []*Gate) *FaultTree {
	return &FaultTree{Name: name, TopGates: topGates}
}

// ReachableGates returns every gate reachable from the top gates, including
// the top gates themselves, visiting each gate at most once.
func (ft *FaultTree) ReachableGates() []*Gate {
	seen := make(map[*Gate]bool)
	var order []*Gate
	var visit func(g *Gate)
	visit = func(g *Gate) {
		if g == nil || seen[g] {
			return
		}
		seen[g] = true
		order = append(order, g)
		if g.Formula == nil {
			return
		}
		for _, child := range g.Formula.Gates() {
			visit(child)
		}
		for _, nested := range allNested(g.Formula) {
			for _, child := range nested.Gates() {
				visit(child)
			}
		}
	}
	for _, g := range ft.TopGates {
		visit(g)
	}
	return order
}

// allNested flattens a formula's nested-formula subtree (the connectors of
// the §4.E traversal contract) into one slice, including f itself.
func allNested(f *Formula) []*Formula {
	out := []*Formula{f}
	for _, n := range f.NestedFormulae() {
		out = append(out, allNested(n)...)
	}
	return out
}

// ReachablePrimaryEvents returns every house and basic event reachable from
// the top gates, visiting each event at most once. Basic events substituted
// by a CCF gate are still returned — the substitution is an analysis-time
// concern, not a structural one.
func (ft *FaultTree) ReachablePrimaryEvents() []Arg {
	seenHouse := make(map[*HouseEvent]bool)
	seenBasic := make(map[*BasicEvent]bool)
	var out []Arg
	collect := func(f *Formula) {
		for _, a := range f.Args() {
			switch a.Kind {
			case ArgHouseEvent:
				if !seenHouse[a.House] {
					seenHouse[a.House] = true
					out = append(out, a)
				}
			case ArgBasicEvent:
				if !seenBasic[a.Basic] {
					seenBasic[a.Basic] = true
					out = append(out, a)
				}
			}
		}
	}
	for _, g := range ft.ReachableGates() {
		if g.Formula == nil {
			continue
		}
		for _, f := range allNested(g.Formula) {
			collect(f)
		}
	}
	return out
}

// IsOrphan reports whether a basic event is unreferenced by any formula in
// ft's reachable set — Invariant 7 in §8. It is only meaningful for events
// belonging to this fault tree's model; a model-wide orphan sweep should
// check every fault tree and treat an event as orphan only if it is orphan
// in all of them.
func (ft *FaultTree) IsOrphan(b *BasicEvent) bool {
	for _, a := range ft.ReachablePrimaryEvents() {
		if a.Kind == ArgBasicEvent && a.Basic == b {
			return false
		}
	}
	return true
}

// IsOrphanHouse reports the same as IsOrphan but for a house event.
func (ft *FaultTree) IsOrphanHouse(h *HouseEvent) bool {
	for _, a := range ft.ReachablePrimaryEvents() {
		if a.Kind == ArgHouseEvent && a.House == h {
			return false
		}
	}
	return true
}

// Reset tears down the sampling cycle across every top gate's formula tree.
func (ft *FaultTree) Reset() {
	for _, g := range ft.TopGates {
		if g.Formula != nil {
			g.Formula.Reset()
		}
	}
}
