package importgraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/solt/pkg/importgraph"
)

func index(list []string, val string) int {
	for idx, str := range list {
		if str == val {
			return idx
		}
	}

	return -1
}

func TestGraph_AddNodeDuplicate(t *testing.T) {
	t.Parallel()

	g := importgraph.New()

	assert.True(t, g.AddNode("A.sol"))
	assert.False(t, g.AddNode("A.sol"))
	assert.Equal(t, 1, g.Len())
}

func TestGraph_AddEdgeDuplicate(t *testing.T) {
	t.Parallel()

	g := importgraph.New()

	assert.True(t, g.AddEdge("A.sol", "B.sol"))
	assert.False(t, g.AddEdge("A.sol", "B.sol"))
	assert.Equal(t, []string{"B.sol"}, g.Imports("A.sol"))
	assert.Empty(t, g.Imports("missing.sol"))
}

func TestGraph_Toposort(t *testing.T) {
	t.Parallel()

	g := importgraph.New()
	edges := []importgraph.Edge{
		{From: "Vault.sol", To: "Token.sol"},
		{From: "Vault.sol", To: "lib/Math.sol"},
		{From: "Token.sol", To: "lib/Math.sol"},
		{From: "Token.sol", To: "IERC20.sol"},
	}

	for _, e := range edges {
		g.AddEdge(e.From, e.To)
	}

	order, ok := g.Toposort()
	require.True(t, ok)
	require.Len(t, order, 4)

	for _, e := range edges {
		assert.Less(t, index(order, e.From), index(order, e.To), "%s before %s", e.From, e.To)
	}

	deps, ok := g.DependencyOrder()
	require.True(t, ok)

	for _, e := range edges {
		assert.Greater(t, index(deps, e.From), index(deps, e.To))
	}

	assert.Equal(t, edges[0].From, order[0])
}

func TestGraph_ToposortDeterministic(t *testing.T) {
	t.Parallel()

	build := func() *importgraph.Graph {
		g := importgraph.New()
		g.AddNode("c.sol")
		g.AddNode("a.sol")
		g.AddNode("b.sol")

		return g
	}

	first, ok := build().Toposort()
	require.True(t, ok)

	assert.Equal(t, []string{"a.sol", "b.sol", "c.sol"}, first)
}

func TestGraph_Cycle(t *testing.T) {
	t.Parallel()

	g := importgraph.New()
	g.AddEdge("A.sol", "B.sol")
	g.AddEdge("B.sol", "C.sol")
	g.AddEdge("C.sol", "A.sol")
	g.AddEdge("C.sol", "D.sol")

	order, ok := g.Toposort()
	assert.False(t, ok)
	assert.Empty(t, order)

	assert.Equal(t, [][]string{{"A.sol", "B.sol", "C.sol"}}, g.Cycles())
}

func TestGraph_CyclesSharingAFile(t *testing.T) {
	t.Parallel()

	g := importgraph.New()
	g.AddEdge("A.sol", "B.sol")
	g.AddEdge("B.sol", "A.sol")
	g.AddEdge("B.sol", "C.sol")
	g.AddEdge("C.sol", "B.sol")
	g.AddEdge("D.sol", "E.sol")
	g.AddEdge("E.sol", "D.sol")
	g.AddEdge("E.sol", "F.sol")

	assert.Equal(t, [][]string{
		{"A.sol", "B.sol", "C.sol"},
		{"D.sol", "E.sol"},
	}, g.Cycles())
}

func TestGraph_CyclesAcyclic(t *testing.T) {
	t.Parallel()

	g := importgraph.New()
	g.AddEdge("A.sol", "B.sol")
	g.AddEdge("A.sol", "C.sol")
	g.AddEdge("B.sol", "C.sol")

	assert.Empty(t, g.Cycles())
}

func TestGraph_SelfImport(t *testing.T) {
	t.Parallel()

	g := importgraph.New()
	g.AddEdge("A.sol", "A.sol")

	assert.Equal(t, [][]string{{"A.sol"}}, g.Cycles())
}

func TestGraph_Dot(t *testing.T) {
	t.Parallel()

	g := importgraph.New()
	g.AddEdge("A.sol", "lib/C.sol")

	dot := g.Dot("solt")

	assert.Contains(t, dot, `digraph "solt" {`)
	assert.Contains(t, dot, `"A.sol" -> "lib/C.sol";`)
	assert.Equal(t, []importgraph.Edge{{From: "A.sol", To: "lib/C.sol"}}, g.Edges())
}
