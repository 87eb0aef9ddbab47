// Package evaluator implements the reference, explicitly non-BDD top-event
// probability engine (component O, SPEC_FULL.md §4.O): the pluggable seam
// behind mef.Evaluator where a real BDD/ZBDD implementation would attach.
package evaluator

import (
	"sort"
	"strings"

	"github.com/scram-tools/scram-core/mef"
)

// Approximation selects the method TopProbability falls back to once a fault
// tree exceeds the exact-enumeration threshold.
type Approximation int

const (
	ApproxExact Approximation = iota
	ApproxRareEvent
	ApproxMCUB
)

func (a Approximation) String() string {
	switch a {
	case ApproxExact:
		return "exact"
	case ApproxRareEvent:
		return "rare-event"
	case ApproxMCUB:
		return "mcub"
	default:
		return "unknown"
	}
}

// ParseApproximation parses a config string into an Approximation; unknown
// values fall back to rare-event, matching Settings.Approximation's default.
func ParseApproximation(s string) Approximation {
	switch strings.ToLower(s) {
	case "exact":
		return ApproxExact
	case "mcub":
		return ApproxMCUB
	default:
		return ApproxRareEvent
	}
}

// exactThreshold is the basic-event count above which TopProbability stops
// enumerating 2^n assignments and falls back to Approximation.
const exactThreshold = 20

// maxProductOrder bounds the order a generated cut set may reach before the
// greedy search drops it.
const maxProductOrder = 6

// maxProducts caps how many candidate products a single gate's search keeps
// before truncating — the other half of the "greedy, single-level" bound
// that keeps the non-exact path from exploding on deeply nested trees.
const maxProducts = 4096

// Evaluator implements mef.Evaluator over direct Boolean enumeration for
// small trees and a bounded product search otherwise.
type Evaluator struct {
	Approximation Approximation
}

// New builds a reference evaluator using approx as its above-threshold
// fallback.
func New(approx Approximation) *Evaluator {
	return &Evaluator{Approximation: approx}
}

// TopProbability implements mef.Evaluator.
func (e *Evaluator) TopProbability(ft *mef.FaultTree) float64 {
	leaves := leafBasics(ft)
	if len(leaves) <= exactThreshold {
		return exactProbability(ft, leaves, nil)
	}
	products := minimalCutSets(ft, maxProductOrder)
	if e.Approximation == ApproxMCUB {
		return mcub(products)
	}
	return rareEvent(products)
}

// Products implements mef.Evaluator: minimal cut sets up to maxOrder, each
// returned as a sorted slice of basic-event ids, the whole list ordered by
// order then lexicographically.
func (e *Evaluator) Products(ft *mef.FaultTree, maxOrder int) [][]string {
	sets := minimalCutSets(ft, maxOrder)
	out := make([][]string, 0, len(sets))
	for _, s := range sets {
		ids := make([]string, 0, len(s))
		for _, b := range s {
			ids = append(ids, b.ID)
		}
		sort.Strings(ids)
		out = append(out, ids)
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) < len(out[j])
		}
		return strings.Join(out[i], ",") < strings.Join(out[j], ",")
	})
	return out
}

// LeafBasics returns the basic events Importance and TopProbability treat as
// ft's leaves, substituting a CCF member for its group's synthesised
// CcfEvents — the set a report's per-event measure rows should list even
// before an importance pass has run.
func LeafBasics(ft *mef.FaultTree) []*mef.BasicEvent {
	return leafBasics(ft)
}

// leafBasics returns every basic event a fault tree's top gates can reach,
// deduplicated, walking through a CCF member's substitution gate to its
// synthesised CcfEvents rather than treating the member itself as a leaf —
// the same rule Formula.Mean's argMean applies.
func leafBasics(ft *mef.FaultTree) []*mef.BasicEvent {
	seen := make(map[*mef.BasicEvent]bool)
	var out []*mef.BasicEvent

	var visitFormula func(f *mef.Formula)
	var visitBasic func(b *mef.BasicEvent)

	visitBasic = func(b *mef.BasicEvent) {
		if b.CcfGate != nil {
			visitFormula(b.CcfGate.Formula)
			return
		}
		if seen[b] {
			return
		}
		seen[b] = true
		out = append(out, b)
	}
	visitFormula = func(f *mef.Formula) {
		if f == nil {
			return
		}
		for _, a := range f.Args() {
			switch a.Kind {
			case mef.ArgBasicEvent:
				visitBasic(a.Basic)
			case mef.ArgGate:
				visitFormula(a.Gate.Formula)
			case mef.ArgFormula:
				visitFormula(a.Nested)
			}
		}
	}
	for _, g := range ft.TopGates {
		visitFormula(g.Formula)
	}
	return out
}

// exactProbability sums the weight of every assignment of leaves (excluding
// any forced to a fixed value) for which the fault tree's top event is true.
// With forced nil this is the unconditional top-event probability; with one
// entry it is the conditional probability importance analysis needs.
func exactProbability(ft *mef.FaultTree, leaves []*mef.BasicEvent, forced map[*mef.BasicEvent]bool) float64 {
	var unforced []*mef.BasicEvent
	for _, b := range leaves {
		if _, ok := forced[b]; !ok {
			unforced = append(unforced, b)
		}
	}
	m := len(unforced)
	total := 0.0
	assign := make(map[*mef.BasicEvent]bool, len(leaves))
	for mask := 0; mask < (1 << m); mask++ {
		for b, v := range forced {
			assign[b] = v
		}
		weight := 1.0
		for i, b := range unforced {
			p := b.P()
			if mask&(1<<i) != 0 {
				assign[b] = true
				weight *= p
			} else {
				assign[b] = false
				weight *= 1 - p
			}
		}
		if topTrue(ft, assign) {
			total += weight
		}
	}
	return total
}

func topTrue(ft *mef.FaultTree, assign map[*mef.BasicEvent]bool) bool {
	for _, g := range ft.TopGates {
		if g.Formula != nil && evalFormula(g.Formula, assign) {
			return true
		}
	}
	return false
}

func evalArg(a mef.Arg, assign map[*mef.BasicEvent]bool) bool {
	switch a.Kind {
	case mef.ArgHouseEvent:
		return a.House.State()
	case mef.ArgBasicEvent:
		if a.Basic.CcfGate != nil {
			return evalFormula(a.Basic.CcfGate.Formula, assign)
		}
		return assign[a.Basic]
	case mef.ArgGate:
		return evalFormula(a.Gate.Formula, assign)
	case mef.ArgFormula:
		return evalFormula(a.Nested, assign)
	default:
		return false
	}
}

func evalFormula(f *mef.Formula, assign map[*mef.BasicEvent]bool) bool {
	switch f.Op {
	case mef.OperatorNull:
		return evalArg(f.Args()[0], assign)
	case mef.OperatorNot:
		return !evalArg(f.Args()[0], assign)
	case mef.OperatorAnd:
		return andAll(f.Args(), assign)
	case mef.OperatorNand:
		return !andAll(f.Args(), assign)
	case mef.OperatorOr:
		return orAny(f.Args(), assign)
	case mef.OperatorNor:
		return !orAny(f.Args(), assign)
	case mef.OperatorXor:
		count := 0
		for _, a := range f.Args() {
			if evalArg(a, assign) {
				count++
			}
		}
		return count%2 == 1
	case mef.OperatorAtleast:
		count := 0
		for _, a := range f.Args() {
			if evalArg(a, assign) {
				count++
			}
		}
		return count >= f.K
	default:
		return false
	}
}

func andAll(args []mef.Arg, assign map[*mef.BasicEvent]bool) bool {
	for _, a := range args {
		if !evalArg(a, assign) {
			return false
		}
	}
	return true
}

func orAny(args []mef.Arg, assign map[*mef.BasicEvent]bool) bool {
	for _, a := range args {
		if evalArg(a, assign) {
			return true
		}
	}
	return false
}
