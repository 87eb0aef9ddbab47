package mef

// validateModel runs the fixed-order validator (§4.H): referential
// integrity, fault-tree acyclicity, parameter-graph acyclicity, formula
// arity, basic-event probability range, CCF-group consistency, then unit
// consistency. It stops at the first failing stage.
func validateModel(m *Model) error {
	if err := validateReferentialIntegrity(m); err != nil {
		return err
	}
	if err := validateFaultTreeAcyclicity(m); err != nil {
		return err
	}
	if err := validateParameterAcyclicity(m); err != nil {
		return err
	}
	if err := validateFormulaArity(m); err != nil {
		return err
	}
	if err := validateProbabilityRanges(m); err != nil {
		return err
	}
	if err := validateCcfGroups(m); err != nil {
		return err
	}
	if err := validateUnits(m); err != nil {
		return err
	}
	return nil
}

// validateUnits re-walks every basic event's and parameter's expression tree
// checking the same unit-compatibility rules the Add/Sub/Mul/Exponential/GLM/
// Weibull/periodic-test constructors already enforce at construction time.
// Since a Parameter's Unit is fixed when the parameter is created and every
// constructor above already rejects a mismatch as soon as the offending
// Parameter is wired in, this pass cannot find anything a normal build
// didn't already catch — it exists as defense-in-depth against a tree
// assembled by setting struct fields directly instead of going through the
// constructors, and so that unit consistency has a model-wide check the way
// §4.H's other invariants do.
func validateUnits(m *Model) error {
	for _, b := range m.Basics.All() {
		if !b.HasExpression {
			continue
		}
		if err := walkUnits(b.expr); err != nil {
			return err
		}
	}
	for _, p := range m.Params.All() {
		if err := walkUnits(p.expr); err != nil {
			return err
		}
	}
	return nil
}

// walkUnits recurses through an expression tree, re-running the
// compatibility check for every Add/Sub/Mul/rate-time node it finds.
func walkUnits(e Expression) error {
	if e == nil {
		return nil
	}
	switch n := e.(type) {
	case *AddExpr:
		if err := checkAdditiveUnits("Add", n.Args); err != nil {
			return err
		}
		return walkUnitsAll(n.Args)
	case *SubExpr:
		if err := checkAdditiveUnits("Sub", []Expression{n.A, n.B}); err != nil {
			return err
		}
		return walkUnitsAll([]Expression{n.A, n.B})
	case *MulExpr:
		if err := checkMultiplicativeUnits("Mul", n.Args); err != nil {
			return err
		}
		return walkUnitsAll(n.Args)
	case *ExponentialExpr:
		if err := checkRateUnit("exponential", n.Lambda); err != nil {
			return err
		}
		if err := checkTimeUnit("exponential", n.Time); err != nil {
			return err
		}
		return walkUnitsAll([]Expression{n.Lambda, n.Time})
	case *GlmExpr:
		if err := checkRateUnit("GLM", n.Lambda); err != nil {
			return err
		}
		if err := checkRateUnit("GLM", n.Mu); err != nil {
			return err
		}
		if err := checkTimeUnit("GLM", n.Time); err != nil {
			return err
		}
		return walkUnitsAll([]Expression{n.Gamma, n.Lambda, n.Mu, n.Time})
	case *WeibullExpr:
		if err := checkTimeUnit("Weibull", n.Alpha); err != nil {
			return err
		}
		if err := checkTimeUnit("Weibull", n.T0); err != nil {
			return err
		}
		if err := checkTimeUnit("Weibull", n.Time); err != nil {
			return err
		}
		return walkUnitsAll([]Expression{n.Alpha, n.Beta, n.T0, n.Time})
	case *PeriodicTestExpr:
		if err := checkRateUnit("periodic-test", n.Lambda); err != nil {
			return err
		}
		for _, c := range []Expression{n.Tau, n.Theta, n.TestDur, n.RepairTime} {
			if err := checkTimeUnit("periodic-test", c); err != nil {
				return err
			}
		}
		if n.ActiveLambda != nil {
			if err := checkRateUnit("periodic-test", n.ActiveLambda); err != nil {
				return err
			}
		}
		return walkUnitsAll([]Expression{
			n.Lambda, n.Tau, n.Theta, n.TestDur, n.Time,
			n.ActiveLambda, n.AvailableAtTest, n.DetectionProb, n.RepairTime, n.FullRepair, n.PartialResidual,
		})
	case *NegExpr:
		return walkUnits(n.Arg)
	case *DivExpr:
		return walkUnitsAll([]Expression{n.A, n.B})
	case *AbsExpr:
		return walkUnits(n.Arg)
	case *MinExpr:
		return walkUnitsAll(n.Args)
	case *MaxExpr:
		return walkUnitsAll(n.Args)
	case *MeanOpExpr:
		return walkUnitsAll(n.Args)
	case *PowExpr:
		return walkUnitsAll([]Expression{n.Base, n.Exponent})
	case *ExpExpr:
		return walkUnits(n.Arg)
	case *LogExpr:
		return walkUnits(n.Arg)
	case *Log10Expr:
		return walkUnits(n.Arg)
	case *ModExpr:
		return walkUnitsAll([]Expression{n.A, n.B})
	default:
		// Constant, deviates, MissionTimeExpr, ParameterExpr, and the boolean
		// nodes carry no sub-expressions a unit check applies to.
		return nil
	}
}

func walkUnitsAll(args []Expression) error {
	for _, a := range args {
		if err := walkUnits(a); err != nil {
			return err
		}
	}
	return nil
}

// everyFormula walks every gate's formula tree (top-level and nested) and
// calls visit on each one.
func everyFormula(m *Model, visit func(*Formula) error) error {
	for _, g := range m.Gates.All() {
		if g.Formula == nil {
			continue
		}
		for _, f := range allNested(g.Formula) {
			if err := visit(f); err != nil {
				return err
			}
		}
	}
	return nil
}

// validateReferentialIntegrity checks that every event a formula references
// resolves to a registered element (§4.H step 1). Since Arg already carries
// resolved pointers rather than string ids by the time a Formula is built,
// this instead verifies every gate reachable from a fault tree's top gates
// is itself registered, catching gates assembled outside the model.
func validateReferentialIntegrity(m *Model) error {
	for _, ft := range m.FaultTrees {
		for _, g := range ft.ReachableGates() {
			if _, ok := m.Gates.Lookup(g.Scope, g.ID); !ok {
				return NewUndefinedElement(g.Name)
			}
		}
	}
	return nil
}

// validateFaultTreeAcyclicity runs a three-colour DFS over the gate graph
// for every fault tree, raising CycleError naming the full cycle path.
func validateFaultTreeAcyclicity(m *Model) error {
	for _, ft := range m.FaultTrees {
		marks := make(map[*Gate]gateMark)
		for _, top := range ft.TopGates {
			if err := dfsGate(top, marks, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func dfsGate(g *Gate, marks map[*Gate]gateMark, path []*Gate) error {
	switch marks[g] {
	case markDone:
		return nil
	case markVisiting:
		cyclePath := append(path, g)
		names := make([]string, len(cyclePath))
		for i, n := range cyclePath {
			names[i] = n.Name
		}
		return NewCycleError(names)
	}
	marks[g] = markVisiting
	path = append(path, g)
	if g.Formula != nil {
		for _, f := range allNested(g.Formula) {
			for _, child := range f.Gates() {
				if err := dfsGate(child, marks, path); err != nil {
					return err
				}
			}
		}
	}
	marks[g] = markDone
	return nil
}

// validateParameterAcyclicity re-checks the parameter graph using the same
// three-colour algorithm, as a whole-model consistency pass independent of
// the incremental check SetExpression already performs.
func validateParameterAcyclicity(m *Model) error {
	marks := make(map[*Parameter]gateMark)
	for _, p := range m.Params.All() {
		if err := dfsParam(p, marks, nil); err != nil {
			return err
		}
	}
	return nil
}

func dfsParam(p *Parameter, marks map[*Parameter]gateMark, path []*Parameter) error {
	switch marks[p] {
	case markDone:
		return nil
	case markVisiting:
		cyclePath := append(path, p)
		names := make([]string, len(cyclePath))
		for i, n := range cyclePath {
			names[i] = n.Name
		}
		return NewCycleError(names)
	}
	marks[p] = markVisiting
	path = append(path, p)
	for _, d := range p.deps {
		if err := dfsParam(d, marks, path); err != nil {
			return err
		}
	}
	marks[p] = markDone
	return nil
}

// validateFormulaArity checks every formula in the model against §3/§4.E's
// arity rules.
func validateFormulaArity(m *Model) error {
	return everyFormula(m, func(f *Formula) error { return f.Validate() })
}

// validateProbabilityRanges checks that every basic event with an assigned
// expression has support within [0,1] (§4.H step 5), including synthesised
// CcfEvents, which are registered as plain basic events once a group applies.
func validateProbabilityRanges(m *Model) error {
	for _, b := range m.Basics.All() {
		if !b.HasExpression {
			continue
		}
		if b.expr.Min() < 0 || b.expr.Max() > 1 {
			return NewValidationError("basic event %q probability support [%g, %g] is outside [0,1]", b.Name, b.expr.Min(), b.expr.Max())
		}
	}
	return nil
}

// validateCcfGroups re-checks every CCF group's consistency rules (§4.G).
func validateCcfGroups(m *Model) error {
	for _, g := range m.CcfGroups.All() {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	return nil
}
