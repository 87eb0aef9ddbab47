package evaluator

// Band enumerates the IEC 61508 Safety Integrity Levels the report writer's
// <sil> element names (§6). The threshold tables below are the standard's
// published low-demand and high-demand/continuous bands, not grounded in any
// example repo — see DESIGN.md.
type Band int

const (
	BandNone Band = iota
	BandSIL1
	BandSIL2
	BandSIL3
	BandSIL4
)

func (b Band) String() string {
	switch b {
	case BandSIL1:
		return "SIL1"
	case BandSIL2:
		return "SIL2"
	case BandSIL3:
		return "SIL3"
	case BandSIL4:
		return "SIL4"
	default:
		return "none"
	}
}

// DemandBand maps an average probability of failure on demand to its SIL
// band under IEC 61508's low-demand-mode thresholds.
func DemandBand(pfdAvg float64) Band {
	switch {
	case pfdAvg < 1e-4:
		return BandSIL4
	case pfdAvg < 1e-3:
		return BandSIL3
	case pfdAvg < 1e-2:
		return BandSIL2
	case pfdAvg < 1e-1:
		return BandSIL1
	default:
		return BandNone
	}
}

// ContinuousBand maps a per-hour failure frequency to its SIL band under
// IEC 61508's continuous/high-demand-mode thresholds.
func ContinuousBand(pfh float64) Band {
	switch {
	case pfh < 1e-9:
		return BandSIL4
	case pfh < 1e-8:
		return BandSIL3
	case pfh < 1e-7:
		return BandSIL2
	case pfh < 1e-6:
		return BandSIL1
	default:
		return BandNone
	}
}

// PFDAvg averages top-event probability samples taken over a mission-time
// interval, the demand-mode reading of the façade's time-integrated SIL
// evaluation (§4.I).
func PFDAvg(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s
	}
	return sum / float64(len(samples))
}

// PFH differentiates consecutive samples spaced dt apart and averages the
// result, the continuous-mode reading of the same evaluation. Negative
// averages (a net-decreasing probability curve) clamp to zero: a failure
// frequency cannot be negative.
func PFH(samples []float64, dt float64) float64 {
	if len(samples) < 2 || dt <= 0 {
		return 0
	}
	sum := 0.0
	for i := 1; i < len(samples); i++ {
		sum += (samples[i] - samples[i-1]) / dt
	}
	avg := sum / float64(len(samples)-1)
	if avg < 0 {
		return 0
	}
	return avg
}
