// Package commands implements CLI command handlers for solt.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/solt/pkg/config"
	"github.com/Sumatoshi-tech/solt/pkg/observability"
	"github.com/Sumatoshi-tech/solt/pkg/version"
)

const (
	envOTLPEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOTLPHeaders  = "OTEL_EXPORTER_OTLP_HEADERS"
)

type observabilityInit func(cfg observability.Config) (observability.Providers, error)

// app holds state shared by all subcommands once the root pre-run has
// loaded configuration.
type app struct {
	configPath  string
	verbose     bool
	logJSON     bool
	metricsFile string

	cfg       *config.Config
	providers observability.Providers
	metrics   *observability.RunMetrics
	initObs   observabilityInit
}

// NewRootCommand creates the solt root command with all subcommands attached.
func NewRootCommand() *cobra.Command {
	return newRootCommandWithDeps(observability.Init)
}

func newRootCommandWithDeps(initObs observabilityInit) *cobra.Command {
	a := &app{initObs: initObs}

	rootCmd := &cobra.Command{
		Use:   "solt",
		Short: "Solidity Standard JSON Input builder",
		Long: `solt collects a Solidity contract and every file it imports into a single
Standard JSON Input document for solc and block explorers.

Commands:
  write     Resolve imports from a file or folder and write the document
  collect   Bundle every source below a folder without following imports
  deps      Print the resolved import graph
  verify    Submit a document to Etherscan for source verification
  schema    Print the JSON Schema written documents follow`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: .solt.yaml in CWD or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "emit logs as JSON")
	rootCmd.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "",
		"write run metrics in Prometheus text format to this file")

	rootCmd.AddCommand(newWriteCommand(a))
	rootCmd.AddCommand(newCollectCommand(a))
	rootCmd.AddCommand(newDepsCommand(a))
	rootCmd.AddCommand(newVerifyCommand(a))
	rootCmd.AddCommand(newSchemaCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-json") {
		cfg.Logging.JSON = a.logJSON
	}

	if a.verbose {
		cfg.Logging.Level = "debug"
	}

	if cmd.Flags().Changed("metrics-file") {
		cfg.Telemetry.MetricsFile = a.metricsFile
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Command = cmd.Name()
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(os.Getenv(envOTLPHeaders))
	obsCfg.LogLevel = observability.ParseLevel(cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.LogWriter = cmd.ErrOrStderr()

	if obsCfg.OTLPEndpoint == "" {
		obsCfg.OTLPEndpoint = os.Getenv(envOTLPEndpoint)
	}

	providers, err := a.initObs(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	metrics, err := observability.NewRunMetrics(providers.Meter)
	if err != nil {
		return errors.Join(err, providers.Shutdown(cmd.Context()))
	}

	a.cfg = cfg
	a.providers = providers
	a.metrics = metrics

	return nil
}

func (a *app) logger() *slog.Logger {
	if a.providers.Logger == nil {
		return slog.Default()
	}

	return a.providers.Logger
}

func (a *app) tracer() trace.Tracer {
	if a.providers.Tracer == nil {
		return nooptrace.NewTracerProvider().Tracer("solt")
	}

	return a.providers.Tracer
}

// finish records run metrics, writes the metrics file when configured and
// flushes telemetry. The returned error joins runErr with any failure here.
func (a *app) finish(ctx context.Context, stats observability.RunStats, start time.Time, runErr error) error {
	stats.Duration = time.Since(start)
	stats.Failed = runErr != nil

	a.metrics.RecordRun(ctx, stats)

	errs := []error{runErr}

	if a.cfg != nil && a.cfg.Telemetry.MetricsFile != "" && a.providers.Registry != nil {
		errs = append(errs, observability.WriteTextfile(a.cfg.Telemetry.MetricsFile, a.providers.Registry))
	}

	if a.providers.Shutdown != nil {
		errs = append(errs, a.providers.Shutdown(context.WithoutCancel(ctx)))
	}

	return errors.Join(errs...)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		// No config or telemetry for version.
		PersistentPreRun: func(_ *cobra.Command, _ []string) {},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "solt %s\n", version.String())
		},
	}
}
