// Package importgraph records which source file imports which, keyed by
// canonical path, and answers ordering and cycle queries over it.
package importgraph

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
)

// Graph is a directed graph whose edges point from importer to imported file.
type Graph struct {
	symbols  *symbolTable
	children [][]int
	inDegree []int
}

// Edge is one import relation.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to"   yaml:"to"`
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{symbols: newSymbolTable()}
}

// AddNode inserts key and reports whether it was new.
func (g *Graph) AddNode(key string) bool {
	_, added := g.intern(key)

	return added
}

// AddEdge records that from imports to. Duplicate edges are ignored and
// reported as false.
func (g *Graph) AddEdge(from, to string) bool {
	u, _ := g.intern(from)
	v, _ := g.intern(to)

	if slices.Contains(g.children[u], v) {
		return false
	}

	g.children[u] = append(g.children[u], v)
	g.inDegree[v]++

	return true
}

func (g *Graph) intern(key string) (int, bool) {
	id, added := g.symbols.intern(key)
	if added {
		g.children = append(g.children, nil)
		g.inDegree = append(g.inDegree, 0)
	}

	return id, added
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return g.symbols.len()
}

// Nodes returns all keys in lexical order.
func (g *Graph) Nodes() []string {
	nodes := slices.Clone(g.symbols.idToKey)
	sort.Strings(nodes)

	return nodes
}

// Edges returns every edge ordered by importer, then imported key.
func (g *Graph) Edges() []Edge {
	var edges []Edge

	for _, from := range g.Nodes() {
		for _, to := range g.Imports(from) {
			edges = append(edges, Edge{From: from, To: to})
		}
	}

	return edges
}

// Imports returns the keys imported by key, sorted.
func (g *Graph) Imports(key string) []string {
	u, exists := g.symbols.lookup(key)
	if !exists {
		return []string{}
	}

	return g.names(g.children[u])
}

func (g *Graph) names(ids []int) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = g.symbols.resolve(id)
	}

	sort.Strings(out)

	return out
}

// Toposort orders nodes so that every importer precedes what it imports,
// breaking ties lexically. The boolean is false when a cycle prevents a
// complete order; the returned slice then holds only the ordered prefix.
func (g *Graph) Toposort() ([]string, bool) {
	n := g.Len()
	inDegree := slices.Clone(g.inDegree)

	var ready []string

	for id := range n {
		if inDegree[id] == 0 {
			ready = append(ready, g.symbols.resolve(id))
		}
	}

	sort.Strings(ready)

	result := make([]string, 0, n)

	for len(ready) > 0 {
		key := ready[0]
		ready = ready[1:]
		result = append(result, key)

		u, _ := g.symbols.lookup(key)
		for _, v := range g.children[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				insertSorted(&ready, g.symbols.resolve(v))
			}
		}
	}

	return result, len(result) == n
}

// DependencyOrder is Toposort reversed: imported files come before their importers.
func (g *Graph) DependencyOrder() ([]string, bool) {
	order, ok := g.Toposort()
	slices.Reverse(order)

	return order, ok
}

// Cycles returns every group of files that import each other, directly or
// transitively: the strongly connected components with more than one member,
// plus files that import themselves. Members are sorted and groups are
// ordered by their first member.
func (g *Graph) Cycles() [][]string {
	var cycles [][]string

	for _, component := range g.components() {
		if len(component) == 1 && !slices.Contains(g.children[component[0]], component[0]) {
			continue
		}

		cycles = append(cycles, g.names(component))
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })

	return cycles
}

// components runs Tarjan's algorithm over the graph.
func (g *Graph) components() [][]int {
	n := g.Len()
	index := make([]int, n)
	lowLink := make([]int, n)
	onStack := make([]bool, n)

	for id := range index {
		index[id] = -1
	}

	var (
		stack      []int
		components [][]int
		next       int
		visit      func(u int)
	)

	visit = func(u int) {
		index[u] = next
		lowLink[u] = next
		next++

		stack = append(stack, u)
		onStack[u] = true

		for _, v := range g.children[u] {
			switch {
			case index[v] == -1:
				visit(v)
				lowLink[u] = min(lowLink[u], lowLink[v])
			case onStack[v]:
				lowLink[u] = min(lowLink[u], index[v])
			}
		}

		if lowLink[u] != index[u] {
			return
		}

		var component []int

		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false

			component = append(component, top)

			if top == u {
				break
			}
		}

		components = append(components, component)
	}

	for id := range n {
		if index[id] == -1 {
			visit(id)
		}
	}

	return components
}

// Dot renders the graph in Graphviz format.
func (g *Graph) Dot(name string) string {
	var buffer bytes.Buffer

	fmt.Fprintf(&buffer, "digraph %q {\n", name)

	for _, key := range g.Nodes() {
		fmt.Fprintf(&buffer, "  %q;\n", key)
	}

	for _, edge := range g.Edges() {
		fmt.Fprintf(&buffer, "  %q -> %q;\n", edge.From, edge.To)
	}

	buffer.WriteString("}\n")

	return buffer.String()
}

func insertSorted(s *[]string, v string) {
	i, _ := slices.BinarySearch(*s, v)
	*s = slices.Insert(*s, i, v)
}
