package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Sumatoshi-tech/solt/pkg/config"
	"github.com/Sumatoshi-tech/solt/pkg/manifest"
	"github.com/Sumatoshi-tech/solt/pkg/persist"
	"github.com/Sumatoshi-tech/solt/pkg/report"
	"github.com/Sumatoshi-tech/solt/pkg/resolver"
	"github.com/Sumatoshi-tech/solt/pkg/walker"
)

var (
	// ErrNoSources is returned when the target yields no source files.
	ErrNoSources = errors.New("no source files found")
	// ErrDrift is returned by --check when the output file is missing or stale.
	ErrDrift = errors.New("output is out of date")
)

const (
	flagNoOptimization = "no-optimization"
	flagNoOpt          = "no-opt"
	flagRuns           = "runs"
	flagNPM            = "npm"
	flagBase           = "base"
	flagIgnoreExt      = "ignore-ext"
	flagPretty         = "pretty"
	flagOutput         = "output"
	flagCheck          = "check"
)

// sourceFlags selects the files a command starts from.
type sourceFlags struct {
	base      string
	npm       bool
	ignoreExt string
}

func (sf *sourceFlags) register(cmd *cobra.Command, withNPM bool) {
	cmd.Flags().StringVar(&sf.base, flagBase, config.DefaultWriteBaseDir, "project base folder all keys are relative to")
	cmd.Flags().StringVarP(&sf.ignoreExt, flagIgnoreExt, "i", config.DefaultWriteIgnoreExt,
		"skip files with this suffix when collecting a folder")

	if withNPM {
		cmd.Flags().BoolVar(&sf.npm, flagNPM, false, "resolve package imports under <base>/node_modules")
	}
}

// apply overrides cfg with the flags set on cmd.
func (sf *sourceFlags) apply(cmd *cobra.Command, cfg *config.WriteConfig) {
	if cmd.Flags().Changed(flagBase) {
		cfg.BaseDir = sf.base
	}

	if cmd.Flags().Changed(flagIgnoreExt) {
		cfg.IgnoreExt = sf.ignoreExt
	}

	if cmd.Flags().Changed(flagNPM) {
		cfg.NPM = sf.npm
	}
}

// manifestFlags control the emitted document.
type manifestFlags struct {
	noOptimization bool
	runs           int
	pretty         bool
	output         string
	check          bool
}

func (mf *manifestFlags) register(cmd *cobra.Command, defaultOutput string) {
	cmd.Flags().BoolVar(&mf.noOptimization, flagNoOptimization, false, "omit the optimizer settings")
	cmd.Flags().IntVarP(&mf.runs, flagRuns, "r", config.DefaultWriteRuns, "optimizer runs")
	cmd.Flags().BoolVar(&mf.pretty, flagPretty, false, "indent the JSON output")
	cmd.Flags().StringVarP(&mf.output, flagOutput, "o", "", "output file (default "+defaultOutput+")")
	cmd.Flags().BoolVar(&mf.check, flagCheck, false, "compare with the existing output instead of writing it")

	cmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if name == flagNoOpt {
			name = flagNoOptimization
		}

		return pflag.NormalizedName(name)
	})
}

func (mf *manifestFlags) apply(cmd *cobra.Command, cfg *config.WriteConfig) {
	if cmd.Flags().Changed(flagNoOptimization) {
		cfg.Optimize = !mf.noOptimization
	}

	if cmd.Flags().Changed(flagRuns) {
		cfg.Runs = mf.runs
	}

	if cmd.Flags().Changed(flagPretty) {
		cfg.Pretty = mf.pretty
	}
}

func (a *app) walkOptions(cfg config.WriteConfig) walker.Options {
	opts := walker.DefaultOptions()
	opts.SourceSuffix = cfg.SourceSuffix
	opts.ExcludeSuffix = cfg.IgnoreExt
	opts.Logger = a.logger()

	return opts
}

// seeds walks target and keys every match relative to the base folder.
func (a *app) seeds(ctx context.Context, target string, cfg config.WriteConfig) ([]*resolver.SourceFile, error) {
	_, span := a.tracer().Start(ctx, "solt.walk")
	defer span.End()

	paths, err := walker.Walk(target, a.walkOptions(cfg))
	if err != nil {
		span.RecordError(err)

		return nil, err
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSources, target)
	}

	return resolver.SeedsFromPaths(cfg.BaseDir, paths)
}

// resolve expands target into its import closure.
func (a *app) resolve(ctx context.Context, target string, cfg config.WriteConfig) (*resolver.Result, error) {
	seeds, err := a.seeds(ctx, target, cfg)
	if err != nil {
		return nil, err
	}

	_, span := a.tracer().Start(ctx, "solt.resolve")
	defer span.End()

	result := resolver.New(resolver.Options{
		BaseDir:     cfg.BaseDir,
		PackageMode: cfg.NPM,
		Logger:      a.logger(),
	}).Resolve(seeds)

	a.logger().DebugContext(ctx, "resolved", "files", len(result.Files), "unknown", len(result.Unknown))

	return result, nil
}

// build assembles the manifest for files.
func (a *app) build(ctx context.Context, files []*resolver.SourceFile, cfg config.WriteConfig) (*manifest.Manifest, error) {
	_, span := a.tracer().Start(ctx, "solt.manifest.build")
	defer span.End()

	doc, err := manifest.Build(files, manifest.Options{
		Optimize: cfg.Optimize,
		Runs:     cfg.Runs,
		Logger:   a.logger(),
	})
	if err != nil {
		span.RecordError(err)

		return nil, err
	}

	return doc, nil
}

// emit serializes doc and writes it to output, or in check mode compares it
// with the file already there. It returns the serialized size.
func (a *app) emit(
	ctx context.Context, cmd *cobra.Command, doc *manifest.Manifest, output string, cfg config.WriteConfig, check bool,
) (int, error) {
	codec := persist.NewJSONCodec()
	if cfg.Pretty {
		codec = persist.NewPrettyJSONCodec()
	}

	data, err := persist.Marshal(codec, doc)
	if err != nil {
		return 0, err
	}

	if cfg.Validate {
		validateErr := manifest.Validate(data)
		if validateErr != nil {
			return 0, validateErr
		}
	}

	if check {
		return len(data), checkDrift(cmd, output, data)
	}

	_, span := a.tracer().Start(ctx, "solt.write")
	defer span.End()

	writeErr := persist.WriteBytes(output, data)
	if writeErr != nil {
		span.RecordError(writeErr)

		return 0, writeErr
	}

	report.Written(cmd.OutOrStdout(), output, len(data), len(doc.Sources))

	return len(data), nil
}

func checkDrift(cmd *cobra.Command, output string, data []byte) error {
	existing, err := os.ReadFile(output)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s does not exist", ErrDrift, output)
	}

	if err != nil {
		return fmt.Errorf("read %s: %w", output, err)
	}

	if string(existing) == string(data) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", output)

		return nil
	}

	report.Drift(cmd.OutOrStdout(), persist.Diff(string(existing), string(data)))

	return fmt.Errorf("%w: %s", ErrDrift, output)
}

// defaultOutputName derives solc-input-<name>.json from the target's base
// name without extension, lowercased.
func defaultOutputName(target string) string {
	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}

	name := filepath.Base(abs)
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}

	return "solc-input-" + strings.ToLower(name) + ".json"
}
