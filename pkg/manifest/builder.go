package manifest

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/solt/pkg/resolver"
)

// ErrRead is returned when a resolved file cannot be read.
var ErrRead = errors.New("read source")

// Options controls the compiler settings of a built manifest.
type Options struct {
	// Optimize adds the optimizer block when true.
	Optimize bool

	// Runs is copied verbatim into optimizer.runs; it is not range-checked.
	Runs int

	// Logger receives one debug record per collected source.
	Logger *slog.Logger
}

// DefaultOptions returns optimizer on with DefaultRuns.
func DefaultOptions() Options {
	return Options{Optimize: true, Runs: DefaultRuns}
}

// Build reads every file and assembles the manifest. The first unreadable
// file aborts the build and no manifest is returned.
func Build(files []*resolver.SourceFile, opts Options) (*Manifest, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sources := make(map[string]Source, len(files))

	for _, file := range files {
		content, err := file.Content()
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrRead, file.Key, err)
		}

		logger.Debug("collecting", "key", file.Key, "bytes", len(content))

		sources[file.Key] = Source{Content: content}
	}

	return New(sources, opts), nil
}

// New wraps an already collected sources map.
func New(sources map[string]Source, opts Options) *Manifest {
	settings := Settings{
		Metadata:        Metadata{UseLiteralContent: true},
		OutputSelection: DefaultOutputSelection(),
	}

	if opts.Optimize {
		settings.Optimizer = &Optimizer{Enabled: true, Runs: opts.Runs}
	}

	return &Manifest{
		Language: Language,
		Sources:  sources,
		Settings: settings,
	}
}
