// Package cli implements the registrar command-line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/registrar/internal/logging"
	"github.com/mesh-intelligence/registrar/internal/paths"
	"github.com/mesh-intelligence/registrar/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errUsage marks errors caused by bad arguments or flags.
var errUsage = errors.New("invalid usage")

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir   string
	dataDir     string
	jsonMode    bool
	logLevel    string
	metricsFile string
}

// app is the state shared by the commands of one root command.
type app struct {
	flags     rootFlags
	configDir string
	config    *viper.Viper
	logs      *logging.Registry
	metrics   *prometheus.Registry
}

// NewRootCmd creates the top-level "registrar" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{metrics: prometheus.NewRegistry()}

	root := &cobra.Command{
		Use:   "registrar",
		Short: "Manage students and courses",
		Long: "Registrar records students and courses in a SQL store and announces\n" +
			"enrollments over the sms and email channels.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/"+paths.DefaultDataDirName+")")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level (default: config log_level or info)")
	root.PersistentFlags().StringVar(&a.flags.metricsFile, "metrics-file", "", "write unit-of-work metrics in Prometheus text format to this file")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", errUsage, err)
	})

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newStudentCmd(a))
	root.AddCommand(newCourseCmd(a))
	root.AddCommand(newLanguageCmd(a))

	return root
}

// Execute runs the root command, reports any error on stderr and returns
// the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "registrar:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// exitCode maps an error to exitUserError for bad input and missing
// records, and to exitSysError for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, errUsage),
		errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidKind),
		errors.Is(err, types.ErrBackendEmpty),
		errors.Is(err, types.ErrBackendUnknown),
		errors.Is(err, types.ErrDSNEmpty):
		return exitUserError
	default:
		return exitSysError
	}
}

// setup resolves the config directory, loads config.yaml and builds the
// logger registry. It runs before every subcommand.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	a.configDir = configDir
	a.config = cfg

	levelName := a.flags.logLevel
	if levelName == "" {
		levelName = cfg.GetString(cfgKeyLogLevel)
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}
	opts := []logging.Option{logging.WithLevel(level)}
	if a.flags.jsonMode {
		opts = append(opts, logging.WithJSON())
	}
	a.logs = logging.NewRegistry(cmd.ErrOrStderr(), opts...)
	return nil
}

// resolveDataDir returns the data directory path following the precedence
// --data-dir flag > config.yaml data_dir > REGISTRAR_DATA_DIR > $(CWD)/.registrar-db.
func (a *app) resolveDataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.config.GetString(cfgKeyDataDir))
}

// metricsPath returns the metrics textfile path from --metrics-file or the
// metrics_file config key. Empty means metrics are not written.
func (a *app) metricsPath() string {
	if a.flags.metricsFile != "" {
		return a.flags.metricsFile
	}
	return a.config.GetString(cfgKeyMetricsFile)
}

// writeMetrics writes the gathered metrics to the configured textfile, if
// any, for a node-exporter style textfile collector.
func (a *app) writeMetrics() error {
	path := a.metricsPath()
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, a.metrics); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// usageArgs wraps a positional-argument validator so its errors count as
// usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", errUsage, err)
		}
		return nil
	}
}
