package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/solt/pkg/importgraph"
	"github.com/Sumatoshi-tech/solt/pkg/observability"
	"github.com/Sumatoshi-tech/solt/pkg/persist"
	"github.com/Sumatoshi-tech/solt/pkg/report"
	"github.com/Sumatoshi-tech/solt/pkg/resolver"
)

// Output formats of the deps command.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatDot  = "dot"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown format")

// DepsDocument is the json and yaml rendering of a resolved import graph.
type DepsDocument struct {
	Files   []string                 `json:"files"             yaml:"files"`
	Edges   []importgraph.Edge       `json:"edges"             yaml:"edges"`
	Order   []string                 `json:"order"             yaml:"order"`
	Cycles  [][]string               `json:"cycles,omitempty"  yaml:"cycles,omitempty"`
	Unknown []resolver.UnknownImport `json:"unknown,omitempty" yaml:"unknown,omitempty"`
}

// DepsCommand prints the import graph of a file or folder.
type DepsCommand struct {
	app *app

	sources sourceFlags
	format  string
	output  string
}

func newDepsCommand(a *app) *cobra.Command {
	dc := &DepsCommand{app: a}

	cmd := &cobra.Command{
		Use:   "deps <file|dir>",
		Short: "Print the resolved import graph",
		Args:  cobra.ExactArgs(1),
		RunE:  dc.run,
	}

	dc.sources.register(cmd, true)
	cmd.Flags().StringVar(&dc.format, "format", FormatText, "Output format: text, json, yaml, dot")
	cmd.Flags().StringVarP(&dc.output, flagOutput, "o", "",
		"write the graph to this file; json and yaml get their extension when it has none")

	return cmd
}

func (dc *DepsCommand) run(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := observability.WithTarget(cmd.Context(), args[0])
	stats := observability.RunStats{Command: "deps"}

	err := dc.execute(ctx, cmd, args[0], &stats)

	return dc.app.finish(ctx, stats, start, err)
}

func (dc *DepsCommand) execute(ctx context.Context, cmd *cobra.Command, target string, stats *observability.RunStats) error {
	cfg := dc.app.cfg.Write
	dc.sources.apply(cmd, &cfg)

	result, err := dc.app.resolve(ctx, target, cfg)
	if err != nil {
		return err
	}

	stats.Sources = len(result.Files)
	stats.Unknown = len(result.Unknown)

	if dc.output == "" {
		return renderDeps(cmd.OutOrStdout(), cmd.ErrOrStderr(), dc.format, result)
	}

	path, size, err := writeDeps(dc.output, cmd.ErrOrStderr(), dc.format, result)
	if err != nil {
		return err
	}

	stats.Bytes = int64(size)
	report.Written(cmd.OutOrStdout(), path, size, len(result.Files))

	return nil
}

// depsCodec returns the document codec for the structured formats.
func depsCodec(format string) (persist.Codec, bool) {
	switch format {
	case FormatJSON:
		return persist.NewPrettyJSONCodec(), true
	case FormatYAML:
		return persist.NewYAMLCodec(), true
	default:
		return nil, false
	}
}

// writeDeps writes the graph to output and returns the final path and size.
func writeDeps(output string, errOut io.Writer, format string, result *resolver.Result) (string, int, error) {
	codec, structured := depsCodec(format)
	if structured {
		if filepath.Ext(output) == "" {
			output += codec.Extension()
		}

		data, err := persist.WriteFile(output, codec, newDepsDocument(result))
		if err != nil {
			return "", 0, err
		}

		return output, len(data), nil
	}

	var buf bytes.Buffer

	err := renderDeps(&buf, errOut, format, result)
	if err != nil {
		return "", 0, err
	}

	err = persist.WriteBytes(output, buf.Bytes())
	if err != nil {
		return "", 0, err
	}

	return output, buf.Len(), nil
}

func renderDeps(out, errOut io.Writer, format string, result *resolver.Result) error {
	switch format {
	case FormatText:
		report.UnknownImports(errOut, result.Unknown)

		return report.Dependencies(out, result.Graph)
	case FormatDot:
		_, err := io.WriteString(out, result.Graph.Dot("solt"))
		if err != nil {
			return fmt.Errorf("write dot: %w", err)
		}

		return nil
	case FormatJSON, FormatYAML:
		codec, _ := depsCodec(format)

		return codec.Encode(out, newDepsDocument(result))
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func newDepsDocument(result *resolver.Result) DepsDocument {
	order, _ := result.Graph.DependencyOrder()

	return DepsDocument{
		Files:   result.Keys(),
		Edges:   result.Graph.Edges(),
		Order:   order,
		Cycles:  result.Graph.Cycles(),
		Unknown: result.Unknown,
	}
}
