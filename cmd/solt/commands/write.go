package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/solt/pkg/observability"
	"github.com/Sumatoshi-tech/solt/pkg/report"
)

// WriteCommand resolves the import closure of a file or folder and writes
// it as one Standard JSON Input document.
type WriteCommand struct {
	app *app

	sources  sourceFlags
	manifest manifestFlags
}

func newWriteCommand(a *app) *cobra.Command {
	wc := &WriteCommand{app: a}

	cmd := &cobra.Command{
		Use:   "write <file|dir>",
		Short: "Write a Standard JSON Input document for a contract and its imports",
		Long: `Write collects the given file, or every source file below the given folder,
follows relative imports (and package imports with --npm) and writes one
Standard JSON Input document.`,
		Args: cobra.ExactArgs(1),
		RunE: wc.run,
	}

	wc.sources.register(cmd, true)
	wc.manifest.register(cmd, "solc-input-<name>.json")

	return cmd
}

func (wc *WriteCommand) run(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := observability.WithTarget(cmd.Context(), args[0])
	stats := observability.RunStats{Command: "write"}

	err := wc.execute(ctx, cmd, args[0], &stats)

	return wc.app.finish(ctx, stats, start, err)
}

func (wc *WriteCommand) execute(ctx context.Context, cmd *cobra.Command, target string, stats *observability.RunStats) error {
	cfg := wc.app.cfg.Write
	wc.sources.apply(cmd, &cfg)
	wc.manifest.apply(cmd, &cfg)

	result, err := wc.app.resolve(ctx, target, cfg)
	if err != nil {
		return err
	}

	stats.Unknown = len(result.Unknown)
	report.UnknownImports(cmd.ErrOrStderr(), result.Unknown)

	doc, err := wc.app.build(ctx, result.Files, cfg)
	if err != nil {
		return err
	}

	output := wc.manifest.output
	if output == "" {
		output = defaultOutputName(target)
	}

	size, err := wc.app.emit(ctx, cmd, doc, output, cfg, wc.manifest.check)
	if err != nil {
		return err
	}

	stats.Sources = len(result.Files)
	stats.Bytes = int64(size)

	if wc.manifest.check {
		return nil
	}

	return report.Sources(cmd.OutOrStdout(), result.Files)
}
