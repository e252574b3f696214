package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/solt/pkg/observability"
	"github.com/Sumatoshi-tech/solt/pkg/report"
)

const defaultCollectOutput = "solc-input.json"

// CollectCommand bundles every source file below a folder without
// following imports.
type CollectCommand struct {
	app *app

	sources  sourceFlags
	manifest manifestFlags
}

func newCollectCommand(a *app) *cobra.Command {
	cc := &CollectCommand{app: a}

	cmd := &cobra.Command{
		Use:   "collect <dir>",
		Short: "Bundle every source file below a folder",
		Args:  cobra.ExactArgs(1),
		RunE:  cc.run,
	}

	cc.sources.register(cmd, false)
	cc.manifest.register(cmd, defaultCollectOutput)

	return cmd
}

func (cc *CollectCommand) run(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := observability.WithTarget(cmd.Context(), args[0])
	stats := observability.RunStats{Command: "collect"}

	err := cc.execute(ctx, cmd, args[0], &stats)

	return cc.app.finish(ctx, stats, start, err)
}

func (cc *CollectCommand) execute(ctx context.Context, cmd *cobra.Command, dir string, stats *observability.RunStats) error {
	cfg := cc.app.cfg.Write
	cc.sources.apply(cmd, &cfg)
	cc.manifest.apply(cmd, &cfg)

	files, err := cc.app.seeds(ctx, dir, cfg)
	if err != nil {
		return err
	}

	doc, err := cc.app.build(ctx, files, cfg)
	if err != nil {
		return err
	}

	output := cc.manifest.output
	if output == "" {
		output = defaultCollectOutput
	}

	size, err := cc.app.emit(ctx, cmd, doc, output, cfg, cc.manifest.check)
	if err != nil {
		return err
	}

	stats.Sources = len(files)
	stats.Bytes = int64(size)

	if cc.manifest.check {
		return nil
	}

	return report.Sources(cmd.OutOrStdout(), files)
}
