package mef

import (
	"math"
	"math/rand"
)

// ExponentialExpr computes 1 - exp(-Lambda*Time), the constant-failure-rate
// unavailability model.
type ExponentialExpr struct {
	Lambda, Time Expression
	cache        sampleCache
}

// NewExponentialExpr validates Lambda >= 0 and, when Lambda/Time reference
// Parameters with known units, that Lambda is a rate and Time is a duration.
func NewExponentialExpr(lambda, time Expression) (*ExponentialExpr, error) {
	if lambda.Min() < 0 {
		return nil, NewValidationError("exponential Lambda must be non-negative, support min is %g", lambda.Min())
	}
	if err := checkRateUnit("exponential", lambda); err != nil {
		return nil, err
	}
	if err := checkTimeUnit("exponential", time); err != nil {
		return nil, err
	}
	return &ExponentialExpr{Lambda: lambda, Time: time}, nil
}

func exponentialCompute(lambda, t float64) float64 { return 1 - math.Exp(-lambda*t) }

func (e *ExponentialExpr) Mean() float64 { return exponentialCompute(e.Lambda.Mean(), e.Time.Mean()) }
func (e *ExponentialExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 {
		return exponentialCompute(e.Lambda.Sample(rng), e.Time.Sample(rng))
	})
}
func (e *ExponentialExpr) Reset()          { e.cache.reset(); resetAll(e.Lambda, e.Time) }
func (e *ExponentialExpr) Min() float64    { return 0 }
func (e *ExponentialExpr) Max() float64    { return 1 }
func (e *ExponentialExpr) IsConstant() bool { return allConstant(e.Lambda, e.Time) }

// GlmExpr computes the generalized-life model unavailability combining a
// failure rate, a repair rate, and a staged-failure probability:
//
//	p = (lambda + mu*gamma)/(lambda+mu) - mu*(1-gamma)/(lambda+mu)*exp(-(lambda+mu)*t)
type GlmExpr struct {
	Gamma, Lambda, Mu, Time Expression
	cache                   sampleCache
}

// NewGlmExpr validates Gamma in [0,1], Lambda+Mu > 0, and (when known) that
// Lambda/Mu are rates and Time is a duration.
func NewGlmExpr(gamma, lambda, mu, time Expression) (*GlmExpr, error) {
	if gamma.Min() < 0 || gamma.Max() > 1 {
		return nil, NewValidationError("GLM Gamma must be in [0,1], support is [%g, %g]", gamma.Min(), gamma.Max())
	}
	if lambda.Mean()+mu.Mean() <= 0 {
		return nil, NewValidationError("GLM requires Lambda+Mu > 0")
	}
	if err := checkRateUnit("GLM", lambda); err != nil {
		return nil, err
	}
	if err := checkRateUnit("GLM", mu); err != nil {
		return nil, err
	}
	if err := checkTimeUnit("GLM", time); err != nil {
		return nil, err
	}
	return &GlmExpr{Gamma: gamma, Lambda: lambda, Mu: mu, Time: time}, nil
}

func glmCompute(gamma, lambda, mu, t float64) float64 {
	sum := lambda + mu
	return (lambda+mu*gamma)/sum - mu*(1-gamma)/sum*math.Exp(-sum*t)
}

func (e *GlmExpr) Mean() float64 {
	return glmCompute(e.Gamma.Mean(), e.Lambda.Mean(), e.Mu.Mean(), e.Time.Mean())
}
func (e *GlmExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 {
		return glmCompute(e.Gamma.Sample(rng), e.Lambda.Sample(rng), e.Mu.Sample(rng), e.Time.Sample(rng))
	})
}
func (e *GlmExpr) Reset()          { e.cache.reset(); resetAll(e.Gamma, e.Lambda, e.Mu, e.Time) }
func (e *GlmExpr) Min() float64    { return 0 }
func (e *GlmExpr) Max() float64    { return 1 }
func (e *GlmExpr) IsConstant() bool { return allConstant(e.Gamma, e.Lambda, e.Mu, e.Time) }

// WeibullExpr computes the two-parameter Weibull unavailability with a start
// offset: 1 - exp(-((t-t0)/alpha)^beta) for t >= t0, else 0.
type WeibullExpr struct {
	Alpha, Beta, T0, Time Expression
	cache                 sampleCache
}

// NewWeibullExpr validates Alpha > 0 and Beta > 0 at construction, and that
// Alpha (a scale, measured in the same units as Time) and T0 are durations.
func NewWeibullExpr(alpha, beta, t0, time Expression) (*WeibullExpr, error) {
	if alpha.Mean() <= 0 {
		return nil, NewValidationError("Weibull Alpha must be positive, got %g", alpha.Mean())
	}
	if beta.Mean() <= 0 {
		return nil, NewValidationError("Weibull Beta must be positive, got %g", beta.Mean())
	}
	if err := checkTimeUnit("Weibull", alpha); err != nil {
		return nil, err
	}
	if err := checkTimeUnit("Weibull", t0); err != nil {
		return nil, err
	}
	if err := checkTimeUnit("Weibull", time); err != nil {
		return nil, err
	}
	return &WeibullExpr{Alpha: alpha, Beta: beta, T0: t0, Time: time}, nil
}

func weibullCompute(alpha, beta, t0, t float64) float64 {
	if t <= t0 {
		return 0
	}
	return 1 - math.Exp(-math.Pow((t-t0)/alpha, beta))
}

func (e *WeibullExpr) Mean() float64 {
	return weibullCompute(e.Alpha.Mean(), e.Beta.Mean(), e.T0.Mean(), e.Time.Mean())
}
func (e *WeibullExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 {
		return weibullCompute(e.Alpha.Sample(rng), e.Beta.Sample(rng), e.T0.Sample(rng), e.Time.Sample(rng))
	})
}
func (e *WeibullExpr) Reset()          { e.cache.reset(); resetAll(e.Alpha, e.Beta, e.T0, e.Time) }
func (e *WeibullExpr) Min() float64    { return 0 }
func (e *WeibullExpr) Max() float64    { return 1 }
func (e *WeibullExpr) IsConstant() bool { return allConstant(e.Alpha, e.Beta, e.T0, e.Time) }

// PeriodicTestExpr models a component whose unavailability resets to zero at
// every test, then climbs exponentially with a constant failure rate until
// the next test, with the first test offset by Theta. The optional TestDur
// models a window immediately following each test boundary during which the
// component is known unavailable (being tested). The eleven-argument form
// additionally splits the accumulation rate into a standby rate (before the
// component has ever been placed in active service) and an active rate
// (between tests once it has), and folds in imperfect test detection
// (DetectionProb), a mean repair duration (RepairTime), partial availability
// during the test itself (AvailableAtTest), and a repair that may not fully
// clear the accumulated unavailability (FullRepair/PartialResidual).
//
// This built-in is constructed via NewPeriodicTest4, NewPeriodicTest5, or
// NewPeriodicTest11 depending on argument count, matching the MEF's three
// periodic-test call signatures.
type PeriodicTestExpr struct {
	Lambda  Expression
	Tau     Expression
	Theta   Expression
	TestDur Expression // nil for the 4-arg form
	Time    Expression

	// Eleven-argument fields; ActiveLambda is nil for the 4- and 5-arg forms.
	ActiveLambda    Expression
	AvailableAtTest Expression
	DetectionProb   Expression
	RepairTime      Expression
	FullRepair      Expression
	PartialResidual Expression

	cache sampleCache
}

// NewPeriodicTest4 builds the basic (lambda, tau, theta, time) form.
func NewPeriodicTest4(lambda, tau, theta, time Expression) (*PeriodicTestExpr, error) {
	if tau.Mean() <= 0 {
		return nil, NewValidationError("periodic-test Tau must be positive, got %g", tau.Mean())
	}
	if err := checkRateUnit("periodic-test", lambda); err != nil {
		return nil, err
	}
	for _, e := range []Expression{tau, theta, time} {
		if err := checkTimeUnit("periodic-test", e); err != nil {
			return nil, err
		}
	}
	return &PeriodicTestExpr{Lambda: lambda, Tau: tau, Theta: theta, Time: time}, nil
}

// NewPeriodicTest5 adds a test-duration window during which the component is
// treated as unavailable (undergoing the test itself).
func NewPeriodicTest5(lambda, tau, theta, testDuration, time Expression) (*PeriodicTestExpr, error) {
	e, err := NewPeriodicTest4(lambda, tau, theta, time)
	if err != nil {
		return nil, err
	}
	if testDuration.Mean() < 0 || testDuration.Mean() >= tau.Mean() {
		return nil, NewValidationError("periodic-test TestDuration must be in [0, Tau), got %g", testDuration.Mean())
	}
	if err := checkTimeUnit("periodic-test", testDuration); err != nil {
		return nil, err
	}
	e.TestDur = testDuration
	return e, nil
}

// NewPeriodicTest11 builds the full eleven-argument MEF form: standby rate,
// active rate, tau, theta, test duration, availability during the test,
// test-detection probability, repair duration, full-repair probability, and
// the residual fraction a partial repair leaves behind, followed by time.
// standbyLambda governs accumulation before Theta; activeLambda governs it
// between tests thereafter.
func NewPeriodicTest11(
	standbyLambda, activeLambda, tau, theta, testDuration,
	availableAtTest, detectionProb, repairTime, fullRepair, partialResidual,
	time Expression,
) (*PeriodicTestExpr, error) {
	e, err := NewPeriodicTest5(standbyLambda, tau, theta, testDuration, time)
	if err != nil {
		return nil, err
	}
	for _, prob := range []struct {
		name string
		expr Expression
	}{
		{"AvailableAtTest", availableAtTest},
		{"DetectionProb", detectionProb},
		{"FullRepair", fullRepair},
		{"PartialResidual", partialResidual},
	} {
		if prob.expr.Min() < 0 || prob.expr.Max() > 1 {
			return nil, NewValidationError("periodic-test %s must be in [0,1], support is [%g, %g]", prob.name, prob.expr.Min(), prob.expr.Max())
		}
	}
	if repairTime.Mean() < 0 {
		return nil, NewValidationError("periodic-test RepairTime must be non-negative, got %g", repairTime.Mean())
	}
	if err := checkRateUnit("periodic-test", activeLambda); err != nil {
		return nil, err
	}
	if err := checkTimeUnit("periodic-test", repairTime); err != nil {
		return nil, err
	}
	e.ActiveLambda = activeLambda
	e.AvailableAtTest = availableAtTest
	e.DetectionProb = detectionProb
	e.RepairTime = repairTime
	e.FullRepair = fullRepair
	e.PartialResidual = partialResidual
	return e, nil
}

// periodicTestCompute returns the unavailability at time t. At the instant a
// test boundary coincides with t, the test window takes precedence: the
// component reads as under test, not as freshly restored. has11 selects the
// extended model; activeLambda/etc. are ignored (zero) otherwise, in which
// case the active phase simply reuses lambda as the between-tests rate.
func periodicTestCompute(lambda, activeLambda, tau, theta, testDur, availableAtTest, detectionProb, repairTime, fullRepair, partialResidual float64, hasTestDur, has11 bool, t float64) float64 {
	if t < theta {
		return 1 - math.Exp(-lambda*t)
	}
	active := lambda
	if has11 {
		active = activeLambda
	}
	elapsed := math.Mod(t-theta, tau)
	if hasTestDur && elapsed < testDur {
		underlying := 1 - math.Exp(-active*elapsed)
		if !has11 {
			return 1
		}
		// A fraction availableAtTest of the time the component stays in
		// service through the test instead of being forced off-line.
		return (1-availableAtTest)*1 + availableAtTest*underlying
	}
	sinceRestored := elapsed
	if hasTestDur {
		sinceRestored = elapsed - testDur
	}
	p := 1 - math.Exp(-active*sinceRestored)
	if !has11 {
		return p
	}
	nonDetect := 1 - detectionProb
	repaired := 1 - math.Exp(-active*(sinceRestored+repairTime))
	blended := p*(1-nonDetect) + nonDetect*repaired
	// A detected failure clears a repairEff fraction of the blended mass;
	// fullRepair=1 clears it completely, partialResidual is what a
	// non-full repair leaves behind when fullRepair is 0.
	repairEff := fullRepair + (1-fullRepair)*(1-partialResidual)
	return blended * (1 - detectionProb*repairEff)
}

func (e *PeriodicTestExpr) values() (lambda, activeLambda, tau, theta, testDur, availableAtTest, detectionProb, repairTime, fullRepair, partialResidual float64, hasTestDur, has11 bool) {
	lambda, tau, theta = e.Lambda.Mean(), e.Tau.Mean(), e.Theta.Mean()
	if e.TestDur != nil {
		hasTestDur = true
		testDur = e.TestDur.Mean()
	}
	if e.ActiveLambda != nil {
		has11 = true
		activeLambda = e.ActiveLambda.Mean()
		availableAtTest = e.AvailableAtTest.Mean()
		detectionProb = e.DetectionProb.Mean()
		repairTime = e.RepairTime.Mean()
		fullRepair = e.FullRepair.Mean()
		partialResidual = e.PartialResidual.Mean()
	}
	return
}

func (e *PeriodicTestExpr) Mean() float64 {
	lambda, activeLambda, tau, theta, testDur, availableAtTest, detectionProb, repairTime, fullRepair, partialResidual, hasTestDur, has11 := e.values()
	return periodicTestCompute(lambda, activeLambda, tau, theta, testDur, availableAtTest, detectionProb, repairTime, fullRepair, partialResidual, hasTestDur, has11, e.Time.Mean())
}

func (e *PeriodicTestExpr) Sample(rng *rand.Rand) float64 {
	return sampleMemo(&e.cache, func() float64 {
		lambda := e.Lambda.Sample(rng)
		tau := e.Tau.Sample(rng)
		theta := e.Theta.Sample(rng)
		var testDur float64
		hasTestDur := e.TestDur != nil
		if hasTestDur {
			testDur = e.TestDur.Sample(rng)
		}
		var activeLambda, availableAtTest, detectionProb, repairTime, fullRepair, partialResidual float64
		has11 := e.ActiveLambda != nil
		if has11 {
			activeLambda = e.ActiveLambda.Sample(rng)
			availableAtTest = e.AvailableAtTest.Sample(rng)
			detectionProb = e.DetectionProb.Sample(rng)
			repairTime = e.RepairTime.Sample(rng)
			fullRepair = e.FullRepair.Sample(rng)
			partialResidual = e.PartialResidual.Sample(rng)
		}
		t := e.Time.Sample(rng)
		return periodicTestCompute(lambda, activeLambda, tau, theta, testDur, availableAtTest, detectionProb, repairTime, fullRepair, partialResidual, hasTestDur, has11, t)
	})
}

func (e *PeriodicTestExpr) Reset() {
	e.cache.reset()
	resetAll(e.Lambda, e.Tau, e.Theta, e.Time)
	if e.TestDur != nil {
		e.TestDur.Reset()
	}
	if e.ActiveLambda != nil {
		resetAll(e.ActiveLambda, e.AvailableAtTest, e.DetectionProb, e.RepairTime, e.FullRepair, e.PartialResidual)
	}
}
func (e *PeriodicTestExpr) Min() float64 { return 0 }
func (e *PeriodicTestExpr) Max() float64 { return 1 }
func (e *PeriodicTestExpr) IsConstant() bool {
	args := []Expression{e.Lambda, e.Tau, e.Theta, e.Time}
	if e.TestDur != nil {
		args = append(args, e.TestDur)
	}
	if e.ActiveLambda != nil {
		args = append(args, e.ActiveLambda, e.AvailableAtTest, e.DetectionProb, e.RepairTime, e.FullRepair, e.PartialResidual)
	}
	return allConstant(args...)
}
