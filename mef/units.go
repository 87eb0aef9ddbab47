package mef

// Unit tags the quantity an Expression (typically a Parameter) represents.
type Unit int

const (
	UnitUnitless Unit = iota
	UnitBool
	UnitInt
	UnitFloat
	UnitHours
	UnitInverseHours
	UnitYears
	UnitInverseYears
	UnitFIT
	UnitDemands
)

func (u Unit) String() string {
	switch u {
	case UnitUnitless:
		return "unitless"
	case UnitBool:
		return "bool"
	case UnitInt:
		return "int"
	case UnitFloat:
		return "float"
	case UnitHours:
		return "hours"
	case UnitInverseHours:
		return "hours^-1"
	case UnitYears:
		return "years"
	case UnitInverseYears:
		return "years^-1"
	case UnitFIT:
		return "fit"
	case UnitDemands:
		return "demands"
	default:
		return "unknown"
	}
}

// isRate reports whether u represents a failure rate (time^-1); the
// constructors that take a rate argument (exponential, GLM, periodic-test)
// reject anything outside this set at construction time when the argument
// is a Parameter carrying a known unit.
func (u Unit) isRate() bool {
	switch u {
	case UnitInverseHours, UnitInverseYears, UnitFIT:
		return true
	default:
		return false
	}
}

// isTime reports whether u represents a duration.
func (u Unit) isTime() bool {
	switch u {
	case UnitHours, UnitYears:
		return true
	default:
		return false
	}
}

// unitCategory groups units that stand for the same physical quantity.
// UnitBool/UnitInt/UnitFloat/UnitUnitless all collapse to catUnitless: a
// Parameter tagged with one of those carries no dimensional information the
// compatibility check can use, so it is treated as compatible with anything.
type unitCategory int

const (
	catUnitless unitCategory = iota
	catTime
	catRate
	catDemands
)

func (u Unit) category() unitCategory {
	switch {
	case u.isTime():
		return catTime
	case u.isRate():
		return catRate
	case u == UnitDemands:
		return catDemands
	default:
		return catUnitless
	}
}

// unitOf returns the unit e was declared with and whether that unit is
// dimensionally known, i.e. e is a Parameter reference tagged with something
// other than Bool/Int/Float/Unitless. Only Parameters carry units; every
// other Expression (Constant, a deviate, an arithmetic node) is unit-less as
// far as this static check is concerned.
func unitOf(e Expression) (Unit, bool) {
	pe, ok := e.(*ParameterExpr)
	if !ok {
		return UnitUnitless, false
	}
	u := pe.Param.Unit()
	return u, u.category() != catUnitless
}

// checkAdditiveUnits rejects an Add/Sub argument list whose Parameters carry
// two different known unit categories — §3's example is Add of an hours
// parameter and a demands parameter.
func checkAdditiveUnits(op string, args []Expression) error {
	var ref Unit
	haveRef := false
	for _, a := range args {
		u, known := unitOf(a)
		if !known {
			continue
		}
		if !haveRef {
			ref, haveRef = u, true
			continue
		}
		if u.category() != ref.category() {
			return NewValidationError("%s operands have incompatible units: %s and %s", op, ref, u)
		}
	}
	return nil
}

// checkMultiplicativeUnits rejects a Mul argument list in which the same
// known, dimensional unit category appears twice — this Unit enum has no
// unit to represent hours², demands², or FIT², so squaring one of them is
// always a construction mistake. A rate times a time (the legitimate λ·t
// case) is a different category pair and is left alone; it cancels to a
// dimensionless result.
func checkMultiplicativeUnits(op string, args []Expression) error {
	seen := make(map[unitCategory]Unit)
	for _, a := range args {
		u, known := unitOf(a)
		if !known {
			continue
		}
		if prior, ok := seen[u.category()]; ok {
			return NewValidationError("%s operands square an unrepresentable unit: %s and %s", op, prior, u)
		}
		seen[u.category()] = u
	}
	return nil
}

// checkRateUnit rejects a rate-like argument (a constructor's lambda/mu)
// whose Parameter carries a known unit that isn't a rate.
func checkRateUnit(op string, e Expression) error {
	u, known := unitOf(e)
	if known && !u.isRate() {
		return NewValidationError("%s rate argument has non-rate unit %s", op, u)
	}
	return nil
}

// checkTimeUnit rejects a duration-like argument whose Parameter carries a
// known unit that isn't a time unit.
func checkTimeUnit(op string, e Expression) error {
	u, known := unitOf(e)
	if known && !u.isTime() {
		return NewValidationError("%s time argument has non-time unit %s", op, u)
	}
	return nil
}
