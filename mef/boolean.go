package mef

import "math/rand"

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
func floatToBool(v float64) bool { return v != 0 }

// NotExpr negates a boolean-valued argument.
type NotExpr struct {
	Arg   Expression
	cache sampleCache
}

func NewNot(arg Expression) *NotExpr { return &NotExpr{Arg: arg} }

func (e *NotExpr) Mean() float64 { return boolToFloat(!floatToBool(e.Arg.Mean())) }
func (e *NotExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 { return boolToFloat(!floatToBool(e.Arg.Sample(rng))) })
}
func (e *NotExpr) Reset()          { e.cache.reset(); e.Arg.Reset() }
func (e *NotExpr) Min() float64    { return 0 }
func (e *NotExpr) Max() float64    { return 1 }
func (e *NotExpr) IsConstant() bool { return e.Arg.IsConstant() }

// AndExpr is true iff every argument is truthy (non-zero).
type AndExpr struct {
	Args  []Expression
	cache sampleCache
}

func NewAnd(args ...Expression) (*AndExpr, error) {
	if len(args) < 1 {
		return nil, NewInvalidArgument("And requires at least one argument")
	}
	return &AndExpr{Args: args}, nil
}

func (e *AndExpr) Mean() float64 {
	for _, a := range e.Args {
		if !floatToBool(a.Mean()) {
			return 0
		}
	}
	return 1
}
func (e *AndExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 {
		for _, a := range e.Args {
			if !floatToBool(a.Sample(rng)) {
				return 0
			}
		}
		return 1
	})
}
func (e *AndExpr) Reset()          { e.cache.reset(); resetAll(e.Args...) }
func (e *AndExpr) Min() float64    { return 0 }
func (e *AndExpr) Max() float64    { return 1 }
func (e *AndExpr) IsConstant() bool { return allConstant(e.Args...) }

// OrExpr is true iff at least one argument is truthy (non-zero).
type OrExpr struct {
	Args  []Expression
	cache sampleCache
}

func NewOr(args ...Expression) (*OrExpr, error) {
	if len(args) < 1 {
		return nil, NewInvalidArgument("Or requires at least one argument")
	}
	return &OrExpr{Args: args}, nil
}

func (e *OrExpr) Mean() float64 {
	for _, a := range e.Args {
		if floatToBool(a.Mean()) {
			return 1
		}
	}
	return 0
}
func (e *OrExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 {
		for _, a := range e.Args {
			if floatToBool(a.Sample(rng)) {
				return 1
			}
		}
		return 0
	})
}
func (e *OrExpr) Reset()          { e.cache.reset(); resetAll(e.Args...) }
func (e *OrExpr) Min() float64    { return 0 }
func (e *OrExpr) Max() float64    { return 1 }
func (e *OrExpr) IsConstant() bool { return allConstant(e.Args...) }

// comparison is shared plumbing for Eq/Ne/Lt/Le/Gt/Ge.
type comparison struct {
	A, B  Expression
	cmp   func(a, b float64) bool
	cache sampleCache
}

func (e *comparison) Mean() float64 { return boolToFloat(e.cmp(e.A.Mean(), e.B.Mean())) }
func (e *comparison) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 { return boolToFloat(e.cmp(e.A.Sample(rng), e.B.Sample(rng))) })
}
func (e *comparison) Reset()          { e.cache.reset(); resetAll(e.A, e.B) }
func (e *comparison) Min() float64    { return 0 }
func (e *comparison) Max() float64    { return 1 }
func (e *comparison) IsConstant() bool { return allConstant(e.A, e.B) }

// EqExpr is A == B.
type EqExpr struct{ comparison }

func NewEq(a, b Expression) *EqExpr {
	return &EqExpr{comparison{A: a, B: b, cmp: func(x, y float64) bool { return x == y }}}
}

// NeExpr is A != B.
type NeExpr struct{ comparison }

func NewNe(a, b Expression) *NeExpr {
	return &NeExpr{comparison{A: a, B: b, cmp: func(x, y float64) bool { return x != y }}}
}

// LtExpr is A < B.
type LtExpr struct{ comparison }

func NewLt(a, b Expression) *LtExpr {
	return &LtExpr{comparison{A: a, B: b, cmp: func(x, y float64) bool { return x < y }}}
}

// LeExpr is A <= B.
type LeExpr struct{ comparison }

func NewLe(a, b Expression) *LeExpr {
	return &LeExpr{comparison{A: a, B: b, cmp: func(x, y float64) bool { return x <= y }}}
}

// GtExpr is A > B.
type GtExpr struct{ comparison }

func NewGt(a, b Expression) *GtExpr {
	return &GtExpr{comparison{A: a, B: b, cmp: func(x, y float64) bool { return x > y }}}
}

// GeExpr is A >= B.
type GeExpr struct{ comparison }

func NewGe(a, b Expression) *GeExpr {
	return &GeExpr{comparison{A: a, B: b, cmp: func(x, y float64) bool { return x >= y }}}
}

// IfThenElseExpr selects Then or Else based on Cond's truthiness. Unlike the
// other boolean nodes its bound is not restricted to [0,1]: the selected
// branch is arbitrary, so Min/Max conservatively cover both branches.
type IfThenElseExpr struct {
	Cond, Then, Else Expression
	cache            sampleCache
}

func NewIfThenElse(cond, then, els Expression) *IfThenElseExpr {
	return &IfThenElseExpr{Cond: cond, Then: then, Else: els}
}

func (e *IfThenElseExpr) Mean() float64 {
	if floatToBool(e.Cond.Mean()) {
		return e.Then.Mean()
	}
	return e.Else.Mean()
}
func (e *IfThenElseExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 {
		if floatToBool(e.Cond.Sample(rng)) {
			return e.Then.Sample(rng)
		}
		return e.Else.Sample(rng)
	})
}
func (e *IfThenElseExpr) Reset() { e.cache.reset(); resetAll(e.Cond, e.Then, e.Else) }
func (e *IfThenElseExpr) Min() float64 {
	return min2(e.Then.Min(), e.Else.Min())
}
func (e *IfThenElseExpr) Max() float64 {
	return max2(e.Then.Max(), e.Else.Max())
}
func (e *IfThenElseExpr) IsConstant() bool {
	return allConstant(e.Cond, e.Then, e.Else)
}
