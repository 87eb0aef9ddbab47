package mef

import "math/rand"

// Parameter is a named, reusable Expression with a Unit tag (component C). It
// caches its Mean for O(1) repeated reads and participates in a parameter
// dependency graph that SetExpression keeps acyclic.
type Parameter struct {
	Element
	unit  Unit
	expr  Expression
	deps  []*Parameter
	dependents map[*Parameter]bool

	meanHas bool
	meanVal float64
	sample  sampleCache
}

// NewParameter creates a Parameter with no expression yet assigned. Callers
// must call SetExpression before using it as an Expression.
func NewParameter(name string, basePath []string, public bool, unit Unit) *Parameter {
	return &Parameter{Element: NewElement(name, basePath, public), unit: unit}
}

// Unit returns the parameter's unit tag.
func (p *Parameter) Unit() Unit { return p.unit }

// Expr returns the expression currently wrapped by this parameter.
func (p *Parameter) Expr() Expression { return p.expr }

// SetExpression assigns the parameter's expression and its direct parameter
// dependencies (the Parameters referenced via ParameterExpr nodes within
// expr). It checks acyclicity before committing and invalidates the mean
// cache of the reverse-reachable set on success.
func (p *Parameter) SetExpression(expr Expression, deps []*Parameter) error {
	for _, d := range deps {
		if path, ok := findPath(d, p); ok {
			// path already runs d -> ... -> p, since p is findPath's target.
			names := make([]string, len(path))
			for i, n := range path {
				names[i] = n.Name
			}
			return NewCycleError(names)
		}
	}
	for _, old := range p.deps {
		delete(old.dependents, p)
	}
	p.deps = deps
	for _, d := range deps {
		if d.dependents == nil {
			d.dependents = make(map[*Parameter]bool)
		}
		d.dependents[p] = true
	}
	p.expr = expr
	p.invalidate()
	return nil
}

// findPath performs a DFS from start along forward dependency edges looking
// for target, returning the path start->...->target if found.
func findPath(start, target *Parameter) ([]*Parameter, bool) {
	return findPathVisit(start, target, make(map[*Parameter]bool))
}

func findPathVisit(start, target *Parameter, visited map[*Parameter]bool) ([]*Parameter, bool) {
	if start == target {
		return []*Parameter{start}, true
	}
	if visited[start] {
		return nil, false
	}
	visited[start] = true
	for _, d := range start.deps {
		if path, ok := findPathVisit(d, target, visited); ok {
			return append([]*Parameter{start}, path...), true
		}
	}
	return nil, false
}

// invalidate clears this parameter's mean cache and recurses into every
// parameter that transitively depends on it. It is a no-op once the cache is
// already clear, which both bounds recursion and avoids redundant work when
// several dependencies invalidate a shared descendant.
func (p *Parameter) invalidate() {
	if !p.meanHas {
		return
	}
	p.meanHas = false
	for d := range p.dependents {
		d.invalidate()
	}
}

func (p *Parameter) Mean() float64 {
	if p.meanHas {
		return p.meanVal
	}
	p.meanVal = p.expr.Mean()
	p.meanHas = true
	return p.meanVal
}

func (p *Parameter) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&p.sample, func() float64 { return p.expr.Sample(rng) })
}

func (p *Parameter) Reset() {
	p.sample.reset()
	p.expr.Reset()
}

func (p *Parameter) Min() float64     { return p.expr.Min() }
func (p *Parameter) Max() float64     { return p.expr.Max() }
func (p *Parameter) IsConstant() bool { return p.expr.IsConstant() }

// ParameterExpr is the Expression view used when a Parameter is referenced as
// an argument inside another expression's tree.
type ParameterExpr struct {
	Param *Parameter
}

// NewParameterExpr wraps a Parameter as an Expression.
func NewParameterExpr(p *Parameter) *ParameterExpr { return &ParameterExpr{Param: p} }

func (e *ParameterExpr) Mean() float64              { return e.Param.Mean() }
func (e *ParameterExpr) Sample(rng *rand.Rand) float64 { return e.Param.Sample(rng) }
func (e *ParameterExpr) Reset()                      { e.Param.Reset() }
func (e *ParameterExpr) Min() float64                { return e.Param.Min() }
func (e *ParameterExpr) Max() float64                { return e.Param.Max() }
func (e *ParameterExpr) IsConstant() bool            { return e.Param.IsConstant() }

// InvalidateMissionTime is called by the Model whenever the mission time
// changes, since MissionTimeExpr reads are not reflected in a Parameter's
// cached mean until invalidated. It clears every parameter in params whose
// mean cache is currently populated; callers pass every root parameter (those
// with no dependents already covered by the sweep are invalidated anyway, so
// passing the full parameter set is always correct, just occasionally
// redundant).
func InvalidateMissionTime(params []*Parameter) {
	for _, p := range params {
		p.invalidate()
	}
}
