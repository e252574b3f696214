// Package walker enumerates Solidity source files below a root path.
package walker

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Default filter values.
const (
	DefaultSourceSuffix  = ".sol"
	DefaultExcludeSuffix = ".t.sol"
)

// ErrCollect is returned when the directory tree cannot be enumerated.
var ErrCollect = errors.New("collect sources")

// DefaultSkipDirs lists directory names that are never descended into.
var DefaultSkipDirs = []string{"node_modules", ".git"}

// Options controls which files the walker yields.
type Options struct {
	// SourceSuffix is the required file name suffix. Empty means DefaultSourceSuffix.
	SourceSuffix string

	// ExcludeSuffix drops test files. Empty disables the exclusion.
	ExcludeSuffix string

	// SkipDirs are directory base names to prune. Nil means DefaultSkipDirs.
	SkipDirs []string

	// Logger receives one debug record per collected file.
	Logger *slog.Logger
}

// DefaultOptions returns the options used by the CLI when nothing is configured.
func DefaultOptions() Options {
	return Options{
		SourceSuffix:  DefaultSourceSuffix,
		ExcludeSuffix: DefaultExcludeSuffix,
	}
}

// Match reports whether name passes the suffix filters.
func (o Options) Match(name string) bool {
	if !strings.HasSuffix(name, o.sourceSuffix()) {
		return false
	}

	return o.ExcludeSuffix == "" || !strings.HasSuffix(name, o.ExcludeSuffix)
}

func (o Options) sourceSuffix() string {
	if o.SourceSuffix == "" {
		return DefaultSourceSuffix
	}

	return o.SourceSuffix
}

func (o Options) skipDirs() []string {
	if o.SkipDirs == nil {
		return DefaultSkipDirs
	}

	return o.SkipDirs
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}

	return o.Logger
}

// Walk returns every matching file below root in lexical order.
// A root that is itself a regular file is returned when it matches.
// Symlinked directories are not followed.
func Walk(root string, opts Options) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCollect, err)
	}

	if !info.IsDir() {
		if opts.Match(info.Name()) {
			return []string{root}, nil
		}

		return nil, nil
	}

	logger := opts.logger()
	skip := opts.skipDirs()

	var files []string

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if path != root && slices.Contains(skip, entry.Name()) {
				return filepath.SkipDir
			}

			return nil
		}

		if !opts.Match(entry.Name()) {
			return nil
		}

		logger.Debug("collecting", "path", path)

		files = append(files, path)

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("%w: walk %s: %w", ErrCollect, root, walkErr)
	}

	return files, nil
}
