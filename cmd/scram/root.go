package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/scram-tools/scram-core/internal/config"
	"github.com/scram-tools/scram-core/internal/logging"
	"github.com/scram-tools/scram-core/internal/mefxml"
	"github.com/scram-tools/scram-core/mef"
)

// settingsKey and loggerKey address the two values PersistentPreRunE stores
// on the command's context, mirroring the teacher's configKey/rendererKey
// pair in internal/cli/root.go.
type settingsKey struct{}
type loggerKey struct{}

var cfgFile string

// newRootCmd builds the scram command tree: a cobra.Command carrying the
// layered configuration (defaults, file, environment, flags) and the
// process logger in its context, per §4.L/§4.M.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scram",
		Short:         "Analyze probabilistic fault trees in the MEF XML dialect",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return mef.NewSettingsError("%v", err)
			}
			logger := logging.New(os.Stderr, logging.ParseLevel(settings.LogLevel))

			ctx := context.WithValue(cmd.Context(), settingsKey{}, settings)
			ctx = context.WithValue(ctx, loggerKey{}, logger)
			cmd.SetContext(ctx)
			return nil
		},
	}

	// Flag names match Settings' koanf tags exactly (internal/config's
	// posflag provider merges by flag name, with no renaming callback), so
	// a hyphenated flag here would silently fail to override its setting.
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a scram settings YAML file")
	root.PersistentFlags().Float64("mission_time", 0, "mission time horizon in hours (overrides the settings file)")
	root.PersistentFlags().Int("num_trials", 0, "Monte Carlo trial count (overrides the settings file)")
	root.PersistentFlags().String("approximation", "", "reference evaluator fallback: exact|rare-event|mcub")
	root.PersistentFlags().Bool("importance_analysis", false, "compute Fussell-Vesely/Birnbaum/CIF/DIF/RAW/RRW per event")
	root.PersistentFlags().Bool("sil", false, "derive an IEC 61508 SIL verdict from a mission-time sweep")
	root.PersistentFlags().String("log_level", "", "zerolog level: trace|debug|info|warn|error")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newAnalyzeCmd())
	return root
}

func settingsFrom(ctx context.Context) config.Settings {
	s, _ := ctx.Value(settingsKey{}).(config.Settings)
	return s
}

func loggerFrom(ctx context.Context) zerolog.Logger {
	l, ok := ctx.Value(loggerKey{}).(zerolog.Logger)
	if !ok {
		return logging.New(os.Stderr, zerolog.InfoLevel)
	}
	return l
}

// loadModel reads and parses a single MEF XML document, logging a warning
// for each orphan primary event the model's fault trees never reference
// rather than failing the load over it.
func loadModel(ctx context.Context, filename string) (*mef.Model, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, mef.NewIOError("read %s: %v", filename, err)
	}
	m, err := mefxml.FromXML(data, filename)
	if err != nil {
		return nil, err
	}

	logger := loggerFrom(ctx)
	for _, ft := range m.FaultTrees {
		for _, b := range m.Basics.All() {
			if ft.IsOrphan(b) {
				logger.Warn().Str("fault_tree", ft.Name).Str("event", b.ID).Msg("orphan basic event")
			}
		}
	}
	return m, nil
}

// exitCode maps the error taxonomy in §7 to the four exit codes §6 defines:
// 0 success, 1 validation-shaped error, 2 I/O error, 3 internal/logic error.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var merr *mef.Error
	if errors.As(err, &merr) {
		switch merr.Kind {
		case mef.KindIOError:
			fmt.Fprintln(os.Stderr, "scram:", err)
			return 2
		case mef.KindLogicError, mef.KindIllegalOperation, mef.KindInvalidArgument:
			fmt.Fprintln(os.Stderr, "scram:", err)
			return 3
		default:
			fmt.Fprintln(os.Stderr, "scram:", err)
			return 1
		}
	}
	fmt.Fprintln(os.Stderr, "scram:", err)
	return 3
}
