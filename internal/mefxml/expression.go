package mefxml

import (
	"strconv"

	"github.com/scram-tools/scram-core/mef"
)

// parseExpressionList parses each element in order, short-circuiting on the
// first error.
func (l *loader) parseExpressionList(elems []rawElement) ([]mef.Expression, error) {
	out := make([]mef.Expression, 0, len(elems))
	for _, e := range elems {
		expr, err := l.parseExpression(e)
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

// parseExpression recursively decodes one node of the numeric/boolean
// expression grammar. It covers every Expression constructor mef exposes:
// constants, parameter references, the mission-time singleton, the six
// random deviates, the four reliability built-ins, and the arithmetic and
// boolean operator nodes.
func (l *loader) parseExpression(e rawElement) (mef.Expression, error) {
	switch e.XMLName.Local {
	case "float", "int":
		v, err := strconv.ParseFloat(e.Value, 64)
		if err != nil {
			return nil, mef.NewValidationError("malformed numeric value %q", e.Value)
		}
		return mef.NewConstant(v), nil
	case "parameter":
		p, ok := l.model.Params.Lookup(topScope, e.Name)
		if !ok {
			return nil, mef.NewUndefinedElement(e.Name)
		}
		l.paramDeps = append(l.paramDeps, p)
		return mef.NewParameterExpr(p), nil
	case "mission-time":
		return mef.NewMissionTimeExpr(l.model.MissionTime), nil
	}

	children, err := childElements(e.InnerXML)
	if err != nil {
		return nil, mef.NewIOError("parse <%s>: %v", e.XMLName.Local, err)
	}

	switch e.XMLName.Local {
	case "uniform-deviate":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewUniformDeviate(args[0], args[1])
	case "normal-deviate":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewNormalDeviate(args[0], args[1])
	case "lognormal-deviate":
		args, err := l.parseExpressionList(children)
		if err != nil {
			return nil, err
		}
		switch len(args) {
		case 3:
			return mef.NewLogNormalDeviateEF(args[0], args[1], args[2])
		case 2:
			return mef.NewLogNormalDeviate(args[0], args[1])
		default:
			return nil, mef.NewValidationError("lognormal-deviate takes 2 (mu,sigma) or 3 (mean,ef,level) arguments, got %d", len(args))
		}
	case "gamma-deviate":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewGammaDeviate(args[0], args[1])
	case "beta-deviate":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewBetaDeviate(args[0], args[1])
	case "histogram-deviate":
		return l.parseHistogram(children)

	case "exponential":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewExponentialExpr(args[0], args[1])
	case "GLM":
		args, err := l.requireArgs(children, 4)
		if err != nil {
			return nil, err
		}
		return mef.NewGlmExpr(args[0], args[1], args[2], args[3])
	case "weibull":
		args, err := l.requireArgs(children, 4)
		if err != nil {
			return nil, err
		}
		return mef.NewWeibullExpr(args[0], args[1], args[2], args[3])
	case "periodic-test":
		args, err := l.parseExpressionList(children)
		if err != nil {
			return nil, err
		}
		switch len(args) {
		case 4:
			return mef.NewPeriodicTest4(args[0], args[1], args[2], args[3])
		case 5:
			return mef.NewPeriodicTest5(args[0], args[1], args[2], args[3], args[4])
		case 11:
			return mef.NewPeriodicTest11(
				args[0], args[1], args[2], args[3], args[4],
				args[5], args[6], args[7], args[8], args[9],
				args[10],
			)
		default:
			return nil, mef.NewValidationError("periodic-test takes 4, 5, or 11 arguments, got %d", len(args))
		}

	case "neg":
		args, err := l.requireArgs(children, 1)
		if err != nil {
			return nil, err
		}
		return mef.NewNeg(args[0]), nil
	case "add":
		args, err := l.parseExpressionList(children)
		if err != nil {
			return nil, err
		}
		return mef.NewAdd(args...)
	case "sub":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewSub(args[0], args[1])
	case "mul":
		args, err := l.parseExpressionList(children)
		if err != nil {
			return nil, err
		}
		return mef.NewMul(args...)
	case "div":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewDiv(args[0], args[1])
	case "abs":
		args, err := l.requireArgs(children, 1)
		if err != nil {
			return nil, err
		}
		return mef.NewAbs(args[0]), nil
	case "min":
		args, err := l.parseExpressionList(children)
		if err != nil {
			return nil, err
		}
		return mef.NewMinOp(args...)
	case "max":
		args, err := l.parseExpressionList(children)
		if err != nil {
			return nil, err
		}
		return mef.NewMaxOp(args...)
	case "mean":
		args, err := l.parseExpressionList(children)
		if err != nil {
			return nil, err
		}
		return mef.NewMeanOp(args...)
	case "pow":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewPow(args[0], args[1]), nil
	case "exp":
		args, err := l.requireArgs(children, 1)
		if err != nil {
			return nil, err
		}
		return mef.NewExp(args[0]), nil
	case "log":
		args, err := l.requireArgs(children, 1)
		if err != nil {
			return nil, err
		}
		return mef.NewLog(args[0])
	case "log10":
		args, err := l.requireArgs(children, 1)
		if err != nil {
			return nil, err
		}
		return mef.NewLog10(args[0])
	case "mod":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewMod(args[0], args[1])

	case "not":
		args, err := l.requireArgs(children, 1)
		if err != nil {
			return nil, err
		}
		return mef.NewNot(args[0]), nil
	case "and":
		args, err := l.parseExpressionList(children)
		if err != nil {
			return nil, err
		}
		return mef.NewAnd(args...)
	case "or":
		args, err := l.parseExpressionList(children)
		if err != nil {
			return nil, err
		}
		return mef.NewOr(args...)
	case "eq":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewEq(args[0], args[1]), nil
	case "ne":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewNe(args[0], args[1]), nil
	case "lt":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewLt(args[0], args[1]), nil
	case "le":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewLe(args[0], args[1]), nil
	case "gt":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewGt(args[0], args[1]), nil
	case "ge":
		args, err := l.requireArgs(children, 2)
		if err != nil {
			return nil, err
		}
		return mef.NewGe(args[0], args[1]), nil
	case "ite":
		args, err := l.requireArgs(children, 3)
		if err != nil {
			return nil, err
		}
		return mef.NewIfThenElse(args[0], args[1], args[2]), nil
	default:
		return nil, mef.NewValidationError("unrecognized expression element <%s>", e.XMLName.Local)
	}
}

func (l *loader) requireArgs(elems []rawElement, n int) ([]mef.Expression, error) {
	args, err := l.parseExpressionList(elems)
	if err != nil {
		return nil, err
	}
	if len(args) != n {
		return nil, mef.NewValidationError("expected %d argument(s), got %d", n, len(args))
	}
	return args, nil
}

// parseHistogram reads the bin-pair grammar:
//
//	<histogram-deviate><bin><boundary>EXPR</boundary><weight>EXPR</weight></bin>...</histogram-deviate>
func (l *loader) parseHistogram(children []rawElement) (mef.Expression, error) {
	var boundaries, weights []mef.Expression
	for _, c := range children {
		if c.XMLName.Local != "bin" {
			continue
		}
		binChildren, err := childElements(c.InnerXML)
		if err != nil {
			return nil, mef.NewIOError("parse histogram bin: %v", err)
		}
		if len(binChildren) != 2 {
			return nil, mef.NewValidationError("histogram bin requires exactly a boundary and a weight, got %d children", len(binChildren))
		}
		boundaryChildren, err := childElements(binChildren[0].InnerXML)
		if err != nil || len(boundaryChildren) != 1 {
			return nil, mef.NewValidationError("histogram bin boundary must wrap exactly one expression")
		}
		weightChildren, err := childElements(binChildren[1].InnerXML)
		if err != nil || len(weightChildren) != 1 {
			return nil, mef.NewValidationError("histogram bin weight must wrap exactly one expression")
		}
		b, err := l.parseExpression(boundaryChildren[0])
		if err != nil {
			return nil, err
		}
		w, err := l.parseExpression(weightChildren[0])
		if err != nil {
			return nil, err
		}
		boundaries = append(boundaries, b)
		weights = append(weights, w)
	}
	return mef.NewHistogramDeviate(boundaries, weights)
}

// operatorFor maps a formula element's tag to the Boolean connective it
// selects, reading the vote count from the min attribute for atleast.
func operatorFor(e rawElement) (mef.Operator, int, error) {
	switch e.XMLName.Local {
	case "and":
		return mef.OperatorAnd, 0, nil
	case "or":
		return mef.OperatorOr, 0, nil
	case "not":
		return mef.OperatorNot, 0, nil
	case "nor":
		return mef.OperatorNor, 0, nil
	case "nand":
		return mef.OperatorNand, 0, nil
	case "xor":
		return mef.OperatorXor, 0, nil
	case "null":
		return mef.OperatorNull, 0, nil
	case "atleast":
		k, err := strconv.Atoi(e.Min)
		if err != nil {
			return 0, 0, mef.NewValidationError("atleast requires an integer min attribute, got %q", e.Min)
		}
		return mef.OperatorAtleast, k, nil
	default:
		return 0, 0, mef.NewValidationError("unrecognized formula operator <%s>", e.XMLName.Local)
	}
}

// parseFormulaNode decodes one Boolean connective element and its
// arguments, recursing into nested operator elements and resolving event
// references against the model's registries.
func (l *loader) parseFormulaNode(e rawElement) (*mef.Formula, error) {
	op, k, err := operatorFor(e)
	if err != nil {
		return nil, err
	}
	f := mef.NewFormula(op, k)

	children, err := childElements(e.InnerXML)
	if err != nil {
		return nil, mef.NewIOError("parse formula <%s>: %v", e.XMLName.Local, err)
	}
	for _, c := range children {
		switch c.XMLName.Local {
		case "gate":
			g, ok := l.model.Gates.Lookup(topScope, c.Name)
			if !ok {
				return nil, mef.NewUndefinedElement(c.Name)
			}
			if err := f.AddGate(g); err != nil {
				return nil, err
			}
		case "basic-event":
			b, ok := l.model.Basics.Lookup(topScope, c.Name)
			if !ok {
				return nil, mef.NewUndefinedElement(c.Name)
			}
			if err := f.AddBasicEvent(b); err != nil {
				return nil, err
			}
		case "house-event":
			h, ok := l.model.Houses.Lookup(topScope, c.Name)
			if !ok {
				return nil, mef.NewUndefinedElement(c.Name)
			}
			if err := f.AddHouseEvent(h); err != nil {
				return nil, err
			}
		case "and", "or", "not", "nor", "nand", "xor", "null", "atleast":
			nested, err := l.parseFormulaNode(c)
			if err != nil {
				return nil, err
			}
			f.AddFormula(nested)
		default:
			// Unrecognized argument tag: skip.
		}
	}
	return f, nil
}
