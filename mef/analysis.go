package mef

import (
	"math/rand"

	"github.com/google/uuid"
)

// Evaluator computes top-event probability and minimal cut sets for a fault
// tree. It is the seam between this package's model and a downstream
// BDD/ZBDD engine (explicitly out of scope for this package — see
// internal/evaluator for the reference implementation).
type Evaluator interface {
	TopProbability(ft *FaultTree) float64
	Products(ft *FaultTree, maxOrder int) [][]string
}

// Analysis is the read-only façade (component I) that BDD/ZBDD, importance,
// and uncertainty layers consume. It never mutates the model beyond the
// mission-time singleton and expression sample caches, both of which it is
// the sole owner of across an analysis run.
type Analysis struct {
	Model     *Model
	Evaluator Evaluator
	rng       *rand.Rand
	// CycleID identifies the currently open sampling cycle for log
	// correlation; it carries no semantic weight and is not part of the
	// analysis result.
	CycleID uuid.UUID
}

// NewAnalysis builds a façade over m using eval for top-event probability
// and minimal cut set computation.
func NewAnalysis(m *Model, eval Evaluator) *Analysis {
	return &Analysis{Model: m, Evaluator: eval}
}

// TopGates returns every top gate across every fault tree in the model.
func (a *Analysis) TopGates() []*Gate {
	var out []*Gate
	for _, ft := range a.Model.FaultTrees {
		out = append(out, ft.TopGates...)
	}
	return out
}

// PrimaryEvents returns every house and basic event reachable from any
// fault tree in the model.
func (a *Analysis) PrimaryEvents() []Arg {
	var out []Arg
	for _, ft := range a.Model.FaultTrees {
		out = append(out, ft.ReachablePrimaryEvents()...)
	}
	return out
}

// CcfSubstitutions returns every basic event currently substituted by a CCF
// group's gate, paired with that gate.
func (a *Analysis) CcfSubstitutions() map[*BasicEvent]*Gate {
	out := make(map[*BasicEvent]*Gate)
	for _, b := range a.Model.Basics.All() {
		if b.CcfGate != nil {
			out[b] = b.CcfGate
		}
	}
	return out
}

// Reset tears down the sampling cycle across every fault tree.
func (a *Analysis) Reset() { a.Model.Reset() }

// BeginSamplingCycle seeds the façade's RNG and resets every expression,
// opening one coherent Monte-Carlo draw (§4.I, §5).
func (a *Analysis) BeginSamplingCycle(seed int64) {
	a.rng = rand.New(rand.NewSource(seed))
	a.CycleID = uuid.New()
	a.Reset()
}

// EndSamplingCycle tears the cycle down, freeing memoized draws.
func (a *Analysis) EndSamplingCycle() { a.Reset() }

// Rand returns the façade's current sampling-cycle RNG; callers must only
// use it between BeginSamplingCycle and EndSamplingCycle.
func (a *Analysis) Rand() *rand.Rand { return a.rng }

// ProbabilityAt sets the mission-time singleton to t, invalidates dependent
// parameter caches, and returns the top-event probability of ft as computed
// by the façade's Evaluator, clamped to [0,1] — the one place in the core
// where clamping applies (§4.B, §9's rare-event-correction open question).
func (a *Analysis) ProbabilityAt(ft *FaultTree, t float64) float64 {
	a.Model.SetMissionTime(t)
	p := a.Evaluator.TopProbability(ft)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
