// Package report renders human-facing summaries of a solt run.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/solt/pkg/importgraph"
	"github.com/Sumatoshi-tech/solt/pkg/resolver"
)

const (
	originProject = "project"
	originPackage = "package"
)

// Sources writes a table of collected files with their origin and size.
func Sources(w io.Writer, files []*resolver.SourceFile) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.DrawBorder = false

	tbl.AppendHeader(table.Row{"Source", "Origin", "Size"})

	var total uint64

	for _, file := range files {
		origin := originProject
		if file.Package {
			origin = originPackage
		}

		size := uint64(file.Size())
		total += size

		tbl.AppendRow(table.Row{file.Key, origin, humanize.Bytes(size)})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d files", len(files)), "", humanize.Bytes(total)})

	_, err := fmt.Fprintln(w, tbl.Render())
	if err != nil {
		return fmt.Errorf("write sources table: %w", err)
	}

	return nil
}

// UnknownImports prints one warning per unresolved bare import. Nothing is
// written for an empty list.
func UnknownImports(w io.Writer, unknown []resolver.UnknownImport) {
	if len(unknown) == 0 {
		return
	}

	warn := color.New(color.FgYellow)

	for _, imp := range unknown {
		warn.Fprintf(w, "warning: unknown import %q (imported by %s)\n",
			imp.Specifier, strings.Join(imp.ImportedBy, ", "))
	}

	color.New(color.FgCyan).Fprintf(w,
		"  hint: %d package import(s) skipped, rerun with --npm to resolve them under %s/\n",
		len(unknown), resolver.PackageDir)
}

// Written reports a successfully written output file.
func Written(w io.Writer, path string, size int, sources int) {
	color.New(color.FgGreen).Fprintf(w, "wrote %s (%s, %d sources)\n",
		path, humanize.Bytes(uint64(size)), sources)
}

// Drift prints a line diff, removals in red and additions in green.
func Drift(w io.Writer, diff string) {
	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	for line := range strings.Lines(diff) {
		switch {
		case strings.HasPrefix(line, "-"):
			removed.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			added.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}

// Dependencies writes one block per file listing the files it imports.
// Groups of mutually importing files, if any, are listed at the end.
func Dependencies(w io.Writer, graph *importgraph.Graph) error {
	var sb strings.Builder

	for _, key := range graph.Nodes() {
		sb.WriteString(key)
		sb.WriteByte('\n')

		for _, dep := range graph.Imports(key) {
			sb.WriteString("  -> ")
			sb.WriteString(dep)
			sb.WriteByte('\n')
		}
	}

	for _, cycle := range graph.Cycles() {
		sb.WriteString("cycle: ")
		sb.WriteString(strings.Join(cycle, ", "))
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	if err != nil {
		return fmt.Errorf("write dependencies: %w", err)
	}

	return nil
}
