package resolver

import (
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/Sumatoshi-tech/solt/pkg/importgraph"
	"github.com/Sumatoshi-tech/solt/pkg/importscan"
)

// PackageDir is the directory below the base folder that bare specifiers
// resolve into when package mode is on.
const PackageDir = "node_modules"

// Options configures a Resolver.
type Options struct {
	// BaseDir is the project base folder. Empty means the working directory.
	BaseDir string

	// PackageMode resolves bare specifiers under BaseDir/PackageDir.
	// When off they are reported in Result.Unknown.
	PackageMode bool

	// Logger receives debug and warning records. Nil means slog.Default().
	Logger *slog.Logger
}

// UnknownImport is a bare specifier that could not be resolved because
// package mode was off.
type UnknownImport struct {
	Specifier  string   `json:"specifier"   yaml:"specifier"`
	ImportedBy []string `json:"imported_by" yaml:"imported_by"`
}

// Result is the outcome of one resolution run.
type Result struct {
	// Files is the closure, ordered by key.
	Files []*SourceFile

	// Unknown lists unresolved bare specifiers, ordered by specifier.
	Unknown []UnknownImport

	// Graph holds every import edge between members of Files.
	Graph *importgraph.Graph
}

// Keys returns the keys of Files.
func (r *Result) Keys() []string {
	keys := make([]string, len(r.Files))
	for i, f := range r.Files {
		keys[i] = f.Key
	}

	return keys
}

// Resolver expands a seed set into its import closure.
type Resolver struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Resolver.
func New(opts Options) *Resolver {
	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Resolver{opts: opts, logger: logger}
}

// PackageRoot returns the directory bare specifiers resolve into.
func (r *Resolver) PackageRoot() string {
	return filepath.Join(r.opts.BaseDir, PackageDir)
}

// Resolve returns seeds plus every file reachable from them through imports.
//
// Files enter the set when first discovered and are expanded afterwards, so
// cycles terminate on set membership. Existence is not checked here: a file
// whose content cannot be read stays in the result unexpanded and its cached
// read error surfaces when the manifest is built.
func (r *Resolver) Resolve(seeds []*SourceFile) *Result {
	set := NewSet()
	graph := importgraph.New()
	unknown := make(map[string]map[string]struct{})
	shadowed := make(map[string]bool)

	queue := make([]*SourceFile, 0, len(seeds))

	for _, seed := range seeds {
		graph.AddNode(seed.Key)

		if set.Add(seed) {
			queue = append(queue, seed)
		}
	}

	for len(queue) > 0 {
		file := queue[0]
		queue = queue[1:]

		content, err := file.Content()
		if err != nil {
			r.logger.Debug("deferring unreadable file", "key", file.Key, "error", err)

			continue
		}

		for ref := range importscan.Scan(content) {
			target, ok := r.locate(file, ref)
			if !ok {
				importers, seen := unknown[ref.Specifier]
				if !seen {
					importers = make(map[string]struct{})
					unknown[ref.Specifier] = importers
				}

				importers[file.Key] = struct{}{}

				continue
			}

			graph.AddEdge(file.Key, target.Key)

			if set.Add(target) {
				r.logger.Debug("discovered", "key", target.Key, "from", file.Key)

				queue = append(queue, target)

				continue
			}

			kept := set.Get(target.Key)
			if kept.Path != target.Path && !shadowed[target.Path] {
				shadowed[target.Path] = true

				r.logger.Warn("two files share a key, keeping the first",
					"key", target.Key, "kept", kept.Path, "dropped", target.Path, "from", file.Key)
			}
		}
	}

	r.logger.Debug("closure complete", "files", set.Len(), "unknown", len(unknown))

	return &Result{
		Files:   set.Sorted(),
		Unknown: collectUnknown(unknown),
		Graph:   graph,
	}
}

func (r *Resolver) locate(from *SourceFile, ref importscan.Reference) (*SourceFile, bool) {
	switch ref.Kind {
	case importscan.Relative:
		key, clamped := Fold(from.Key, ref.Specifier)
		if clamped {
			r.logger.Warn("import climbs above its root, clamped",
				"file", from.Key, "import", ref.Specifier, "resolved", key)
		}

		return NewSourceFile(from.Root(), key, from.Package), true
	case importscan.Package:
		if !r.opts.PackageMode {
			return nil, false
		}

		key, _ := Join("", ref.Specifier)

		return NewSourceFile(r.PackageRoot(), key, true), true
	default:
		return nil, false
	}
}

func collectUnknown(unknown map[string]map[string]struct{}) []UnknownImport {
	out := make([]UnknownImport, 0, len(unknown))

	for specifier, importers := range unknown {
		keys := make([]string, 0, len(importers))
		for k := range importers {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		out = append(out, UnknownImport{Specifier: specifier, ImportedBy: keys})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Specifier < out[j].Specifier })

	return out
}
