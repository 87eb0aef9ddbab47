package mef

import (
	"math"
	"math/rand"
)

// NegExpr negates its single argument.
type NegExpr struct {
	Arg   Expression
	cache sampleCache
}

func NewNeg(arg Expression) *NegExpr { return &NegExpr{Arg: arg} }

func (e *NegExpr) Mean() float64 { return -e.Arg.Mean() }
func (e *NegExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 { return -e.Arg.Sample(rng) })
}
func (e *NegExpr) Reset()          { e.cache.reset(); e.Arg.Reset() }
func (e *NegExpr) Min() float64    { return -e.Arg.Max() }
func (e *NegExpr) Max() float64    { return -e.Arg.Min() }
func (e *NegExpr) IsConstant() bool { return e.Arg.IsConstant() }

// AddExpr sums one or more arguments.
type AddExpr struct {
	Args  []Expression
	cache sampleCache
}

// NewAdd requires at least one argument and rejects Parameter operands whose
// units fall in different categories (§3, §4.B).
func NewAdd(args ...Expression) (*AddExpr, error) {
	if len(args) < 1 {
		return nil, NewInvalidArgument("Add requires at least one argument")
	}
	if err := checkAdditiveUnits("Add", args); err != nil {
		return nil, err
	}
	return &AddExpr{Args: args}, nil
}

func (e *AddExpr) Mean() float64 {
	sum := 0.0
	for _, a := range e.Args {
		sum += a.Mean()
	}
	return sum
}
func (e *AddExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 {
		sum := 0.0
		for _, a := range e.Args {
			sum += a.Sample(rng)
		}
		return sum
	})
}
func (e *AddExpr) Reset() { e.cache.reset(); resetAll(e.Args...) }
func (e *AddExpr) Min() float64 {
	sum := 0.0
	for _, a := range e.Args {
		sum += a.Min()
	}
	return sum
}
func (e *AddExpr) Max() float64 {
	sum := 0.0
	for _, a := range e.Args {
		sum += a.Max()
	}
	return sum
}
func (e *AddExpr) IsConstant() bool { return allConstant(e.Args...) }

// SubExpr subtracts B from A.
type SubExpr struct {
	A, B  Expression
	cache sampleCache
}

// NewSub rejects A and B operands whose units fall in different categories.
func NewSub(a, b Expression) (*SubExpr, error) {
	if err := checkAdditiveUnits("Sub", []Expression{a, b}); err != nil {
		return nil, err
	}
	return &SubExpr{A: a, B: b}, nil
}

func (e *SubExpr) Mean() float64 { return e.A.Mean() - e.B.Mean() }
func (e *SubExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 { return e.A.Sample(rng) - e.B.Sample(rng) })
}
func (e *SubExpr) Reset()          { e.cache.reset(); resetAll(e.A, e.B) }
func (e *SubExpr) Min() float64    { return e.A.Min() - e.B.Max() }
func (e *SubExpr) Max() float64    { return e.A.Max() - e.B.Min() }
func (e *SubExpr) IsConstant() bool { return allConstant(e.A, e.B) }

// MulExpr multiplies one or more arguments.
type MulExpr struct {
	Args  []Expression
	cache sampleCache
}

// NewMul requires at least one argument and rejects squaring a known unit
// this engine has no representation for (two Parameters sharing a category,
// e.g. hours*hours); a rate times a time is left alone since it cancels to a
// dimensionless result.
func NewMul(args ...Expression) (*MulExpr, error) {
	if len(args) < 1 {
		return nil, NewInvalidArgument("Mul requires at least one argument")
	}
	if err := checkMultiplicativeUnits("Mul", args); err != nil {
		return nil, err
	}
	return &MulExpr{Args: args}, nil
}

func (e *MulExpr) Mean() float64 {
	prod := 1.0
	for _, a := range e.Args {
		prod *= a.Mean()
	}
	return prod
}
func (e *MulExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 {
		prod := 1.0
		for _, a := range e.Args {
			prod *= a.Sample(rng)
		}
		return prod
	})
}
func (e *MulExpr) Reset() { e.cache.reset(); resetAll(e.Args...) }

// corners evaluates f at every combination of each arg's {Min, Max} and
// returns the resulting [min, max]. This is the general (non-monotonic-safe)
// interval composition the spec allows for multiplication and division.
func corners(args []Expression, f func(vals []float64) float64) (float64, float64) {
	n := len(args)
	vals := make([]float64, n)
	first := true
	var bestLo, bestHi float64
	var rec func(i int)
	rec = func(i int) {
		if i == n {
			v := f(vals)
			if first {
				bestLo, bestHi = v, v
				first = false
				return
			}
			if v < bestLo {
				bestLo = v
			}
			if v > bestHi {
				bestHi = v
			}
			return
		}
		vals[i] = args[i].Min()
		rec(i + 1)
		vals[i] = args[i].Max()
		rec(i + 1)
	}
	rec(0)
	return bestLo, bestHi
}

func (e *MulExpr) Min() float64 { lo, _ := corners(e.Args, func(v []float64) float64 {
	p := 1.0
	for _, x := range v {
		p *= x
	}
	return p
}); return lo }
func (e *MulExpr) Max() float64 { _, hi := corners(e.Args, func(v []float64) float64 {
	p := 1.0
	for _, x := range v {
		p *= x
	}
	return p
}); return hi }
func (e *MulExpr) IsConstant() bool { return allConstant(e.Args...) }

// DivExpr divides A by B. The denominator's support must not straddle zero;
// this is checked once at construction per §4.B.
type DivExpr struct {
	A, B  Expression
	cache sampleCache
}

// NewDiv validates that B's support excludes zero before returning the node.
func NewDiv(a, b Expression) (*DivExpr, error) {
	if b.Min() <= 0 && b.Max() >= 0 {
		return nil, NewValidationError("Div denominator support [%g, %g] straddles zero", b.Min(), b.Max())
	}
	return &DivExpr{A: a, B: b}, nil
}

func (e *DivExpr) Mean() float64 { return e.A.Mean() / e.B.Mean() }
func (e *DivExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 { return e.A.Sample(rng) / e.B.Sample(rng) })
}
func (e *DivExpr) Reset() { e.cache.reset(); resetAll(e.A, e.B) }
func (e *DivExpr) Min() float64 {
	lo, _ := corners([]Expression{e.A, e.B}, func(v []float64) float64 { return v[0] / v[1] })
	return lo
}
func (e *DivExpr) Max() float64 {
	_, hi := corners([]Expression{e.A, e.B}, func(v []float64) float64 { return v[0] / v[1] })
	return hi
}
func (e *DivExpr) IsConstant() bool { return allConstant(e.A, e.B) }

// AbsExpr is the absolute value of its argument.
type AbsExpr struct {
	Arg   Expression
	cache sampleCache
}

func NewAbs(arg Expression) *AbsExpr { return &AbsExpr{Arg: arg} }

func (e *AbsExpr) Mean() float64 { return absf(e.Arg.Mean()) }
func (e *AbsExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 { return absf(e.Arg.Sample(rng)) })
}
func (e *AbsExpr) Reset() { e.cache.reset(); e.Arg.Reset() }
func (e *AbsExpr) Min() float64 {
	lo, hi := e.Arg.Min(), e.Arg.Max()
	if lo <= 0 && hi >= 0 {
		return 0
	}
	return min2(absf(lo), absf(hi))
}
func (e *AbsExpr) Max() float64 {
	lo, hi := e.Arg.Min(), e.Arg.Max()
	return max2(absf(lo), absf(hi))
}
func (e *AbsExpr) IsConstant() bool { return e.Arg.IsConstant() }

// MinExpr returns the minimum of its arguments' values (element-wise min,
// not to be confused with the Expression.Min bound which every node has).
type MinExpr struct {
	Args  []Expression
	cache sampleCache
}

func NewMinOp(args ...Expression) (*MinExpr, error) {
	if len(args) < 1 {
		return nil, NewInvalidArgument("Min requires at least one argument")
	}
	return &MinExpr{Args: args}, nil
}

func (e *MinExpr) Mean() float64 {
	v := e.Args[0].Mean()
	for _, a := range e.Args[1:] {
		v = min2(v, a.Mean())
	}
	return v
}
func (e *MinExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 {
		v := e.Args[0].Sample(rng)
		for _, a := range e.Args[1:] {
			v = min2(v, a.Sample(rng))
		}
		return v
	})
}
func (e *MinExpr) Reset() { e.cache.reset(); resetAll(e.Args...) }
func (e *MinExpr) Min() float64 {
	v := e.Args[0].Min()
	for _, a := range e.Args[1:] {
		v = min2(v, a.Min())
	}
	return v
}
func (e *MinExpr) Max() float64 {
	v := e.Args[0].Max()
	for _, a := range e.Args[1:] {
		v = min2(v, a.Max())
	}
	return v
}
func (e *MinExpr) IsConstant() bool { return allConstant(e.Args...) }

// MaxExpr returns the maximum of its arguments' values.
type MaxExpr struct {
	Args  []Expression
	cache sampleCache
}

func NewMaxOp(args ...Expression) (*MaxExpr, error) {
	if len(args) < 1 {
		return nil, NewInvalidArgument("Max requires at least one argument")
	}
	return &MaxExpr{Args: args}, nil
}

func (e *MaxExpr) Mean() float64 {
	v := e.Args[0].Mean()
	for _, a := range e.Args[1:] {
		v = max2(v, a.Mean())
	}
	return v
}
func (e *MaxExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 {
		v := e.Args[0].Sample(rng)
		for _, a := range e.Args[1:] {
			v = max2(v, a.Sample(rng))
		}
		return v
	})
}
func (e *MaxExpr) Reset() { e.cache.reset(); resetAll(e.Args...) }
func (e *MaxExpr) Min() float64 {
	v := e.Args[0].Min()
	for _, a := range e.Args[1:] {
		v = max2(v, a.Min())
	}
	return v
}
func (e *MaxExpr) Max() float64 {
	v := e.Args[0].Max()
	for _, a := range e.Args[1:] {
		v = max2(v, a.Max())
	}
	return v
}
func (e *MaxExpr) IsConstant() bool { return allConstant(e.Args...) }

// MeanOpExpr is the arithmetic-mean built-in operator (distinct from the
// Expression.Mean method every node implements).
type MeanOpExpr struct {
	Args  []Expression
	cache sampleCache
}

func NewMeanOp(args ...Expression) (*MeanOpExpr, error) {
	if len(args) < 1 {
		return nil, NewInvalidArgument("Mean requires at least one argument")
	}
	return &MeanOpExpr{Args: args}, nil
}

func (e *MeanOpExpr) Mean() float64 {
	sum := 0.0
	for _, a := range e.Args {
		sum += a.Mean()
	}
	return sum / float64(len(e.Args))
}
func (e *MeanOpExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 {
		sum := 0.0
		for _, a := range e.Args {
			sum += a.Sample(rng)
		}
		return sum / float64(len(e.Args))
	})
}
func (e *MeanOpExpr) Reset() { e.cache.reset(); resetAll(e.Args...) }
func (e *MeanOpExpr) Min() float64 {
	sum := 0.0
	for _, a := range e.Args {
		sum += a.Min()
	}
	return sum / float64(len(e.Args))
}
func (e *MeanOpExpr) Max() float64 {
	sum := 0.0
	for _, a := range e.Args {
		sum += a.Max()
	}
	return sum / float64(len(e.Args))
}
func (e *MeanOpExpr) IsConstant() bool { return allConstant(e.Args...) }

// PowExpr raises Base to Exponent. When the exponent is constant and the
// base's support is non-negative, the bound is exact (monotonic); otherwise
// it conservatively widens to the full real line per §4.B's "conservatively
// widens" allowance.
type PowExpr struct {
	Base, Exponent Expression
	cache          sampleCache
}

func NewPow(base, exponent Expression) *PowExpr { return &PowExpr{Base: base, Exponent: exponent} }

func (e *PowExpr) Mean() float64 { return math.Pow(e.Base.Mean(), e.Exponent.Mean()) }
func (e *PowExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 { return math.Pow(e.Base.Sample(rng), e.Exponent.Sample(rng)) })
}
func (e *PowExpr) Reset() { e.cache.reset(); resetAll(e.Base, e.Exponent) }
func (e *PowExpr) Min() float64 {
	if e.Exponent.IsConstant() && e.Base.Min() >= 0 {
		lo, _ := corners([]Expression{e.Base, e.Exponent}, func(v []float64) float64 { return math.Pow(v[0], v[1]) })
		return lo
	}
	return math.Inf(-1)
}
func (e *PowExpr) Max() float64 {
	if e.Exponent.IsConstant() && e.Base.Min() >= 0 {
		_, hi := corners([]Expression{e.Base, e.Exponent}, func(v []float64) float64 { return math.Pow(v[0], v[1]) })
		return hi
	}
	return math.Inf(1)
}
func (e *PowExpr) IsConstant() bool { return allConstant(e.Base, e.Exponent) }

// ExpExpr is e^Arg, monotonic increasing.
type ExpExpr struct {
	Arg   Expression
	cache sampleCache
}

func NewExp(arg Expression) *ExpExpr { return &ExpExpr{Arg: arg} }

func (e *ExpExpr) Mean() float64 { return math.Exp(e.Arg.Mean()) }
func (e *ExpExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 { return math.Exp(e.Arg.Sample(rng)) })
}
func (e *ExpExpr) Reset()          { e.cache.reset(); e.Arg.Reset() }
func (e *ExpExpr) Min() float64    { return math.Exp(e.Arg.Min()) }
func (e *ExpExpr) Max() float64    { return math.Exp(e.Arg.Max()) }
func (e *ExpExpr) IsConstant() bool { return e.Arg.IsConstant() }

// LogExpr is the natural logarithm; Arg's support must be strictly positive.
type LogExpr struct {
	Arg   Expression
	cache sampleCache
}

func NewLog(arg Expression) (*LogExpr, error) {
	if arg.Min() <= 0 {
		return nil, NewValidationError("Log argument support must be strictly positive, got min %g", arg.Min())
	}
	return &LogExpr{Arg: arg}, nil
}

func (e *LogExpr) Mean() float64 { return math.Log(e.Arg.Mean()) }
func (e *LogExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 { return math.Log(e.Arg.Sample(rng)) })
}
func (e *LogExpr) Reset()          { e.cache.reset(); e.Arg.Reset() }
func (e *LogExpr) Min() float64    { return math.Log(e.Arg.Min()) }
func (e *LogExpr) Max() float64    { return math.Log(e.Arg.Max()) }
func (e *LogExpr) IsConstant() bool { return e.Arg.IsConstant() }

// Log10Expr is the base-10 logarithm; Arg's support must be strictly positive.
type Log10Expr struct {
	Arg   Expression
	cache sampleCache
}

func NewLog10(arg Expression) (*Log10Expr, error) {
	if arg.Min() <= 0 {
		return nil, NewValidationError("Log10 argument support must be strictly positive, got min %g", arg.Min())
	}
	return &Log10Expr{Arg: arg}, nil
}

func (e *Log10Expr) Mean() float64 { return math.Log10(e.Arg.Mean()) }
func (e *Log10Expr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 { return math.Log10(e.Arg.Sample(rng)) })
}
func (e *Log10Expr) Reset()          { e.cache.reset(); e.Arg.Reset() }
func (e *Log10Expr) Min() float64    { return math.Log10(e.Arg.Min()) }
func (e *Log10Expr) Max() float64    { return math.Log10(e.Arg.Max()) }
func (e *Log10Expr) IsConstant() bool { return e.Arg.IsConstant() }

// ModExpr is A modulo B. Bounds assume the non-negative-rate domain this
// engine operates in (B's support strictly positive) and conservatively
// report [0, B.Max()).
type ModExpr struct {
	A, B  Expression
	cache sampleCache
}

func NewMod(a, b Expression) (*ModExpr, error) {
	if b.Min() <= 0 {
		return nil, NewValidationError("Mod divisor support must be strictly positive, got min %g", b.Min())
	}
	return &ModExpr{A: a, B: b}, nil
}

func (e *ModExpr) Mean() float64 { return math.Mod(e.A.Mean(), e.B.Mean()) }
func (e *ModExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 { return math.Mod(e.A.Sample(rng), e.B.Sample(rng)) })
}
func (e *ModExpr) Reset()          { e.cache.reset(); resetAll(e.A, e.B) }
func (e *ModExpr) Min() float64    { return 0 }
func (e *ModExpr) Max() float64    { return e.B.Max() }
func (e *ModExpr) IsConstant() bool { return allConstant(e.A, e.B) }

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
func min2(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
func max2(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
