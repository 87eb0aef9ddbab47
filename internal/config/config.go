// Package config loads the <scram> settings document (component L,
// SPEC_FULL.md §4.L) plus environment and CLI-flag overrides into a typed
// Settings struct.
package config

// Settings mirrors the <scram> configuration root (renamed from <config> in
// the MEF's v0.12 dialect): analysis toggles, the mission-time horizon, the
// Monte-Carlo trial count, the SIL-table toggle, and the reference
// evaluator's approximation mode.
type Settings struct {
	ProbabilityAnalysis bool    `koanf:"probability_analysis"`
	ImportanceAnalysis  bool    `koanf:"importance_analysis"`
	UncertaintyAnalysis bool    `koanf:"uncertainty_analysis"`
	MissionTime         float64 `koanf:"mission_time"`
	NumTrials           int     `koanf:"num_trials"`
	SILFlags            bool    `koanf:"sil"`
	Approximation       string  `koanf:"approximation"`
	LogLevel            string  `koanf:"log_level"`
}

// Defaults returns the compiled-in baseline every other layer overrides.
func Defaults() Settings {
	return Settings{
		ProbabilityAnalysis: true,
		ImportanceAnalysis:  false,
		UncertaintyAnalysis: false,
		MissionTime:         8760, // one year, in hours.
		NumTrials:           1000,
		SILFlags:            false,
		Approximation:       "rare-event",
		LogLevel:            "info",
	}
}

func (s Settings) asMap() map[string]interface{} {
	return map[string]interface{}{
		"probability_analysis": s.ProbabilityAnalysis,
		"importance_analysis":  s.ImportanceAnalysis,
		"uncertainty_analysis": s.UncertaintyAnalysis,
		"mission_time":         s.MissionTime,
		"num_trials":           s.NumTrials,
		"sil":                  s.SILFlags,
		"approximation":        s.Approximation,
		"log_level":            s.LogLevel,
	}
}
