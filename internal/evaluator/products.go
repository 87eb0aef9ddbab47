package evaluator

import (
	"sort"
	"strings"

	"github.com/scram-tools/scram-core/mef"
)

// product is a candidate cut set in progress: the set of basic events this
// branch of the search assumes true.
type product map[*mef.BasicEvent]bool

// minimalCutSets runs the greedy, single-level product search described in
// SPEC_FULL.md §4.O over every top gate and reduces the result to minimal
// sets (no kept set is a superset of another). It is not a substitute for
// proper BDD-based mincut extraction: AND/OR/ATLEAST expand faithfully, but
// NOT/NAND/NOR/XOR collapse to one coarse product over their direct
// arguments rather than the full complement-set expansion those operators
// would require — see DESIGN.md.
func minimalCutSets(ft *mef.FaultTree, maxOrder int) [][]*mef.BasicEvent {
	var all []product
	for _, g := range ft.TopGates {
		if g.Formula == nil {
			continue
		}
		all = append(all, gateProducts(g.Formula, maxOrder)...)
	}
	all = dedupeProducts(all)
	minimal := absorb(all)

	out := make([][]*mef.BasicEvent, 0, len(minimal))
	for _, p := range minimal {
		s := make([]*mef.BasicEvent, 0, len(p))
		for b := range p {
			s = append(s, b)
		}
		sort.Slice(s, func(i, j int) bool { return s[i].ID < s[j].ID })
		out = append(out, s)
	}
	return out
}

func gateProducts(f *mef.Formula, maxOrder int) []product {
	switch f.Op {
	case mef.OperatorNull:
		return argProducts(f.Args()[0], maxOrder)
	case mef.OperatorAnd:
		return crossProduct(childProductLists(f.Args(), maxOrder), maxOrder)
	case mef.OperatorOr:
		return unionProducts(childProductLists(f.Args(), maxOrder))
	case mef.OperatorAtleast:
		return atleastProducts(f.Args(), f.K, maxOrder)
	default: // Not, Nand, Nor, Xor
		return []product{collapseArgs(f.Args())}
	}
}

func argProducts(a mef.Arg, maxOrder int) []product {
	switch a.Kind {
	case mef.ArgHouseEvent:
		if a.House.State() {
			return []product{{}}
		}
		return nil
	case mef.ArgBasicEvent:
		if a.Basic.CcfGate != nil {
			return gateProducts(a.Basic.CcfGate.Formula, maxOrder)
		}
		return []product{{a.Basic: true}}
	case mef.ArgGate:
		if a.Gate.Formula == nil {
			return nil
		}
		return gateProducts(a.Gate.Formula, maxOrder)
	case mef.ArgFormula:
		return gateProducts(a.Nested, maxOrder)
	default:
		return nil
	}
}

func childProductLists(args []mef.Arg, maxOrder int) [][]product {
	out := make([][]product, len(args))
	for i, a := range args {
		out[i] = argProducts(a, maxOrder)
	}
	return out
}

// crossProduct implements AND: every combination of one product from each
// child list, merged and pruned to maxOrder. An empty child list means that
// branch is never true, which makes the whole conjunction unsatisfiable.
func crossProduct(lists [][]product, maxOrder int) []product {
	result := []product{{}}
	for _, list := range lists {
		if len(list) == 0 {
			return nil
		}
		var next []product
	outer:
		for _, acc := range result {
			for _, item := range list {
				merged := mergeProduct(acc, item)
				if len(merged) > maxOrder {
					continue
				}
				next = append(next, merged)
				if len(next) >= maxProducts {
					break outer
				}
			}
		}
		result = next
		if len(result) == 0 {
			return nil
		}
	}
	return result
}

// unionProducts implements OR: the concatenation of every child's products.
func unionProducts(lists [][]product) []product {
	var out []product
	for _, list := range lists {
		out = append(out, list...)
		if len(out) >= maxProducts {
			break
		}
	}
	return out
}

// atleastProducts implements ATLEAST k of n: the union over every k-subset
// of arguments of that subset's conjunction.
func atleastProducts(args []mef.Arg, k, maxOrder int) []product {
	n := len(args)
	lists := make([][]product, n)
	for i, a := range args {
		lists[i] = argProducts(a, maxOrder)
	}
	var out []product
	idx := make([]int, k)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if len(out) >= maxProducts {
			return
		}
		if depth == k {
			sub := make([][]product, k)
			for i, ix := range idx {
				sub[i] = lists[ix]
			}
			out = append(out, crossProduct(sub, maxOrder)...)
			return
		}
		for i := start; i <= n-(k-depth); i++ {
			idx[depth] = i
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
	return out
}

// collapseArgs folds every basic-event reference reachable from a
// non-monotonic gate's arguments, through gates, CCF substitution gates and
// nested formulae at any depth, into a single coarse product.
func collapseArgs(args []mef.Arg) product {
	m := product{}
	for _, a := range args {
		switch a.Kind {
		case mef.ArgBasicEvent:
			if a.Basic.CcfGate != nil {
				for b := range collapseArgs(a.Basic.CcfGate.Formula.Args()) {
					m[b] = true
				}
			} else {
				m[a.Basic] = true
			}
		case mef.ArgGate:
			if a.Gate.Formula != nil {
				for b := range collapseArgs(a.Gate.Formula.Args()) {
					m[b] = true
				}
			}
		case mef.ArgFormula:
			for b := range collapseArgs(a.Nested.Args()) {
				m[b] = true
			}
		}
	}
	return m
}

func mergeProduct(a, b product) product {
	out := make(product, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

func productKey(p product) string {
	ids := make([]string, 0, len(p))
	for b := range p {
		ids = append(ids, b.ID)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

func dedupeProducts(list []product) []product {
	seen := make(map[string]bool, len(list))
	var out []product
	for _, p := range list {
		key := productKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// absorb drops every product that is a strict superset of another kept
// product, leaving only the minimal cut sets.
func absorb(list []product) []product {
	sort.Slice(list, func(i, j int) bool { return len(list[i]) < len(list[j]) })
	var kept []product
	for _, p := range list {
		dominated := false
		for _, k := range kept {
			if isSubset(k, p) {
				dominated = true
				break
			}
		}
		if !dominated {
			kept = append(kept, p)
		}
	}
	return kept
}

func isSubset(small, big product) bool {
	if len(small) > len(big) {
		return false
	}
	for b := range small {
		if !big[b] {
			return false
		}
	}
	return true
}

// rareEvent sums the probability of every minimal cut set, the classic
// rare-event approximation (ignores set overlap, so the sum can exceed 1 —
// clamping is the analysis façade's job, per the v0.12 behaviour preserved
// in DESIGN.md's Open Question decision).
func rareEvent(products [][]*mef.BasicEvent) float64 {
	sum := 0.0
	for _, p := range products {
		sum += productProbability(p)
	}
	return sum
}

// mcub is the min-cut-upper-bound approximation: 1 minus the probability
// that every minimal cut set survives, treating cut sets as independent.
func mcub(products [][]*mef.BasicEvent) float64 {
	survive := 1.0
	for _, p := range products {
		survive *= 1 - productProbability(p)
	}
	return 1 - survive
}

func productProbability(p []*mef.BasicEvent) float64 {
	prod := 1.0
	for _, b := range p {
		prod *= b.P()
	}
	return prod
}
