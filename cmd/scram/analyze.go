package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scram-tools/scram-core/internal/evaluator"
	"github.com/scram-tools/scram-core/internal/report"
	"github.com/scram-tools/scram-core/mef"
)

// sweepSamples is how many points of [0, MissionTime] ProbabilityAt is
// evaluated at when building a --sil report's PFDavg/PFH integration. It is
// deliberately independent of Settings.NumTrials, which this CLI reserves
// for a future Monte-Carlo uncertainty pass rather than this point sweep.
const sweepSamples = 25

func newAnalyzeCmd() *cobra.Command {
	var reportPath string
	cmd := &cobra.Command{
		Use:   "analyze <file...>",
		Short: "Load, validate, and compute top-event probability and products",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings := settingsFrom(ctx)
			logger := loggerFrom(ctx)
			eval := evaluator.New(evaluator.ParseApproximation(settings.Approximation))

			doc := &report.Document{}
			for _, filename := range args {
				m, err := loadModel(ctx, filename)
				if err != nil {
					return err
				}
				if settings.MissionTime > 0 {
					m.SetMissionTime(settings.MissionTime)
				}
				analysis := mef.NewAnalysis(m, eval)

				for _, ft := range m.FaultTrees {
					opts := report.Options{Importance: settings.ImportanceAnalysis}
					if settings.SILFlags {
						opts.SIL = true
						opts.PFDAvgSamples, opts.PFHSamples, opts.PFHInterval = sweep(analysis, ft, m.MissionTime.Get())
					}
					res := report.BuildResults(ft, eval, opts)
					doc.Results = append(doc.Results, res)
					logger.Info().Str("fault_tree", ft.Name).Float64("top_probability", res.TopProbability).Msg("analyzed")
				}
			}

			if reportPath != "" {
				if err := report.WriteFile(doc, reportPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", reportPath)
				return nil
			}

			data, err := report.Marshal(doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&reportPath, "report", "", "write the XML report to this path instead of stdout")
	return cmd
}

// sweep samples ft's top-event probability at sweepSamples evenly spaced
// points across [0, missionTime]; the last point lands exactly on
// missionTime, so the model's mission-time singleton ends up there too.
func sweep(analysis *mef.Analysis, ft *mef.FaultTree, missionTime float64) (samples []float64, pfhSamples []float64, dt float64) {
	if missionTime <= 0 {
		return nil, nil, 0
	}
	dt = missionTime / float64(sweepSamples-1)
	for i := 0; i < sweepSamples; i++ {
		t := float64(i) * dt
		samples = append(samples, analysis.ProbabilityAt(ft, t))
	}
	return samples, samples, dt
}
