package mef

import (
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// CcfModel enumerates the common-cause-failure decomposition models (§3).
type CcfModel int

const (
	CcfBetaFactor CcfModel = iota
	CcfMGL
	CcfAlphaFactor
	CcfPhiFactor
)

func (m CcfModel) String() string {
	switch m {
	case CcfBetaFactor:
		return "beta-factor"
	case CcfMGL:
		return "MGL"
	case CcfAlphaFactor:
		return "alpha-factor"
	case CcfPhiFactor:
		return "phi-factor"
	default:
		return "unknown"
	}
}

// CcfGroup is a named set of member basic events sharing one CCF model
// (§3, §4.G). Members are assumed statistically identical: Q is their common
// nominal failure probability, and the model's factor parameters describe how
// that probability splits across common-cause combinations of every size.
type CcfGroup struct {
	Element
	Model   CcfModel
	Members []*BasicEvent
	Q       Expression

	// Beta holds beta_2..beta_n for the MGL model (len == len(Members)-1), or
	// the single group factor for the beta-factor model (len == 1).
	Beta []Expression
	// Alpha holds alpha_1..alpha_n for the alpha-factor model.
	Alpha []Expression
	// Phi holds phi_1..phi_n for the phi-factor model.
	Phi []Expression

	Events []*CcfEvent // populated by ApplyModel, one per non-empty member subset.
}

// NewCcfGroup builds a CCF group; factor parameters are attached afterward
// via the Beta/Alpha/Phi fields matching Model.
func NewCcfGroup(name string, basePath []string, model CcfModel, members []*BasicEvent, q Expression) *CcfGroup {
	return &CcfGroup{
		Element: NewElement(name, basePath, true),
		Model:   model,
		Members: members,
		Q:       q,
	}
}

// Validate checks the factor-array lengths for the group's model and, for
// the phi-factor model, that the phi vector sums to 1 within 1e-4 (§4.G).
func (g *CcfGroup) Validate() error {
	n := len(g.Members)
	if n < 2 {
		return NewValidationError("CCF group %q requires at least two members, got %d", g.Name, n)
	}
	switch g.Model {
	case CcfBetaFactor:
		if len(g.Beta) != 1 {
			return NewValidationError("CCF group %q (beta-factor) requires exactly one beta, got %d", g.Name, len(g.Beta))
		}
	case CcfMGL:
		if len(g.Beta) != n-1 {
			return NewValidationError("CCF group %q (MGL) requires %d betas, got %d", g.Name, n-1, len(g.Beta))
		}
	case CcfAlphaFactor:
		if len(g.Alpha) != n {
			return NewValidationError("CCF group %q (alpha-factor) requires %d alphas, got %d", g.Name, n, len(g.Alpha))
		}
	case CcfPhiFactor:
		if len(g.Phi) != n {
			return NewValidationError("CCF group %q (phi-factor) requires %d phis, got %d", g.Name, n, len(g.Phi))
		}
		sum := 0.0
		for _, p := range g.Phi {
			sum += p.Mean()
		}
		if diff := sum - 1; diff > 1e-4 || diff < -1e-4 {
			return NewValidationError("CCF group %q phi vector must sum to 1 within 1e-4, got %g", g.Name, sum)
		}
	default:
		return NewValidationError("CCF group %q has unknown model %d", g.Name, int(g.Model))
	}
	return nil
}

// binomial returns C(n, k) as a float64, accurate for the small n this model
// operates on (member counts in a CCF group rarely exceed a few dozen).
func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	result := 1.0
	for i := 0; i < k; i++ {
		result *= float64(n-i) / float64(i+1)
	}
	return result
}

// sizeProbabilities returns, for k = 1..n, the probability assigned to every
// specific k-member subset under g's model. The value depends only on the
// subset's size, not its membership, so it is computed once per size.
func (g *CcfGroup) sizeProbabilities() []float64 {
	n := len(g.Members)
	q := g.Q.Mean()
	p := make([]float64, n+1) // p[k] for k in 1..n; p[0] unused.

	switch g.Model {
	case CcfBetaFactor:
		beta := g.Beta[0].Mean()
		p[1] = (1 - beta) * q
		p[n] = beta * q
	case CcfMGL:
		// beta[i] holds beta_(i+2); product accumulates beta_2*...*beta_k.
		product := 1.0
		for k := 1; k <= n; k++ {
			next := 0.0 // beta_(k+1), taken as 0 once k == n so the tail is consumed.
			if k < n {
				next = g.Beta[k-1].Mean() // beta_(k+1)
			}
			mass := product * (1 - next)
			p[k] = q * mass / binomial(n-1, k-1)
			product *= next
		}
	case CcfAlphaFactor:
		sum := 0.0
		for k := 1; k <= n; k++ {
			sum += float64(k) * g.Alpha[k-1].Mean()
		}
		for k := 1; k <= n; k++ {
			p[k] = q * float64(k) * g.Alpha[k-1].Mean() / (binomial(n-1, k-1) * sum)
		}
	case CcfPhiFactor:
		for k := 1; k <= n; k++ {
			p[k] = g.Phi[k-1].Mean() * q / binomial(n-1, k-1)
		}
	}
	return p
}

// ApplyModel synthesises one CcfEvent per non-empty member subset and, for
// each member, a substitution gate OR-ing every CcfEvent whose subset
// contains it (§4.G). It is idempotent-unsafe: call it once per group.
func (g *CcfGroup) ApplyModel() error {
	if err := g.Validate(); err != nil {
		return err
	}
	n := len(g.Members)
	p := g.sizeProbabilities()

	memberOf := make([][]*CcfEvent, n) // memberOf[i] = events whose subset contains member i.
	for mask := 1; mask < (1 << n); mask++ {
		bs := bitset.New(uint(n))
		var names []string
		for i := 0; i < n; i++ {
			if mask&(1<<i) != 0 {
				bs.Set(uint(i))
				names = append(names, g.Members[i].Name)
			}
		}
		k := int(bs.Count())
		prob := p[k]
		name := fmt.Sprintf("[%s]", strings.Join(names, " "))
		event := NewCcfEvent(name, g.BasePath, g, names)
		if err := event.SetExpression(NewConstant(prob)); err != nil {
			return err
		}
		g.Events = append(g.Events, event)
		for i := 0; i < n; i++ {
			if bs.Test(uint(i)) {
				memberOf[i] = append(memberOf[i], event)
			}
		}
	}

	for i, member := range g.Members {
		formula := NewFormula(OperatorOr, 0)
		for _, event := range memberOf[i] {
			if err := formula.AddBasicEvent(&event.BasicEvent); err != nil {
				return err
			}
		}
		gate := NewGate(fmt.Sprintf("%s.ccf.%s", g.Name, member.Name), g.BasePath, false)
		gate.SetFormula(formula)
		member.CcfGate = gate
	}
	return nil
}

// SubsetProbabilitySum returns the sum of every synthesised CcfEvent
// probability whose subset contains the given member — Invariant 5 in §8.
// It should equal the member's nominal Q within 1e-9 once ApplyModel has run.
func (g *CcfGroup) SubsetProbabilitySum(member *BasicEvent) float64 {
	sum := 0.0
	for _, e := range g.Events {
		for _, name := range e.Members {
			if name == member.Name {
				sum += e.P()
				break
			}
		}
	}
	return sum
}
