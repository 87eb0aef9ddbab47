package evaluator

import "github.com/scram-tools/scram-core/mef"

// Measures holds the six importance metrics the report writer's <measure>
// element lists per event (§6): Fussell-Vesely, Birnbaum, the criticality and
// diagnosis importance factors, and the risk achievement/reduction worths.
// None of these come from the examples pack — original_source/expression.h
// carries no importance-analysis code — so the formulas below are the
// standard PRA definitions, verified against spec.md's S1 scenario
// (AND of p=0.1 and p=0.2: FV=1.0, Birnbaum of event-1=0.2) before being
// written here; see DESIGN.md.
type Measures struct {
	FV       float64
	Birnbaum float64
	CIF      float64
	DIF      float64
	RAW      float64
	RRW      float64
}

// Importance computes b's measures within ft by exact enumeration,
// regardless of the tree's leaf count — it targets the same small trees the
// exact branch of TopProbability does, and has no approximate fallback, so
// its cost doubles with every leaf. The report writer calls it for every
// leaf whenever Options.Importance is set, whatever the tree's size; the
// <measure> entries stay NaN only when Options.Importance is unset (§4.K).
//
// b must be a leaf in the sense leafBasics uses: a basic event with no CCF
// substitution gate, or one of a CCF group's synthesised CcfEvents. Passing
// a CCF member whose probability has been superseded computes importance
// for an event the top-event formula never evaluates directly and returns
// a meaningless result.
func Importance(ft *mef.FaultTree, b *mef.BasicEvent) Measures {
	leaves := leafBasics(ft)
	pTop := exactProbability(ft, leaves, nil)
	pOn := exactProbability(ft, leaves, map[*mef.BasicEvent]bool{b: true})
	pOff := exactProbability(ft, leaves, map[*mef.BasicEvent]bool{b: false})
	q := b.P()

	m := Measures{Birnbaum: pOn - pOff}
	if pTop > 0 {
		m.FV = (pTop - pOff) / pTop
		m.CIF = m.Birnbaum * q / pTop
		m.DIF = pOn * q / pTop
		m.RAW = pOn / pTop
	}
	if pOff > 0 {
		m.RRW = pTop / pOff
	}
	return m
}

// ImportanceTable computes Importance for every reachable basic event of ft,
// keyed by event id, substituting each CCF group's synthesised CcfEvents for
// their member's own (superseded) entry.
func ImportanceTable(ft *mef.FaultTree) map[string]Measures {
	out := make(map[string]Measures)
	for _, b := range leafBasics(ft) {
		out[b.ID] = Importance(ft, b)
	}
	return out
}
