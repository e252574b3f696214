// Package resolver computes the closure of Solidity source files reachable
// through import statements from a seed set.
package resolver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrOutsideBase is returned when a seed path does not live below the base folder.
var ErrOutsideBase = errors.New("path is outside the base folder")

// SourceFile is a source identified by its canonical key. The key is
// slash-separated and relative to the file's root: the project base folder
// for project files, the package root for package files.
type SourceFile struct {
	// Key is the canonical path and the identity of the file.
	Key string

	// Path is the on-disk location.
	Path string

	// Package is true for files rooted under the package directory.
	Package bool

	root    string
	content string
	readErr error
	read    bool
}

// NewSourceFile returns the file at key below root. Nothing is read yet.
func NewSourceFile(root, key string, isPackage bool) *SourceFile {
	return &SourceFile{
		Key:     key,
		Path:    filepath.Join(root, filepath.FromSlash(key)),
		Package: isPackage,
		root:    root,
	}
}

// Root returns the directory Key is relative to.
func (f *SourceFile) Root() string {
	return f.root
}

// Content reads the file on first call and returns the cached text, or the
// cached read error, afterwards.
func (f *SourceFile) Content() (string, error) {
	if !f.read {
		f.read = true
		f.content, f.readErr = readText(f.Path)
	}

	return f.content, f.readErr
}

// Size returns the content length in bytes, zero when unread or unreadable.
func (f *SourceFile) Size() int {
	return len(f.content)
}

func readText(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	return string(data), nil
}

// SeedsFromPaths keys every path relative to base.
func SeedsFromPaths(base string, paths []string) ([]*SourceFile, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolve base %s: %w", base, err)
	}

	seeds := make([]*SourceFile, 0, len(paths))

	for _, p := range paths {
		absPath, absErr := filepath.Abs(p)
		if absErr != nil {
			return nil, fmt.Errorf("resolve %s: %w", p, absErr)
		}

		rel, relErr := filepath.Rel(absBase, absPath)
		if relErr != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrOutsideBase, p, relErr)
		}

		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("%w: %s not below %s", ErrOutsideBase, p, base)
		}

		seeds = append(seeds, NewSourceFile(base, filepath.ToSlash(rel), false))
	}

	return seeds, nil
}

// Set accumulates source files, unique by key.
type Set struct {
	files map[string]*SourceFile
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{files: make(map[string]*SourceFile)}
}

// Add inserts file unless its key is already present and reports whether it did.
func (s *Set) Add(file *SourceFile) bool {
	if _, exists := s.files[file.Key]; exists {
		return false
	}

	s.files[file.Key] = file

	return true
}

// Get returns the member with key, or nil.
func (s *Set) Get(key string) *SourceFile {
	return s.files[key]
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.files)
}

// Sorted returns the members ordered by key.
func (s *Set) Sorted() []*SourceFile {
	out := make([]*SourceFile, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, f)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })

	return out
}
