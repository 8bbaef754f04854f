package engine

import (
	"sort"
	"testing"

	"github.com/alexanderritik/dbiso/internal/graph"
	"github.com/alexanderritik/dbiso/internal/pattern"
	"github.com/stretchr/testify/require"
)

func buildStarSchema() *graph.Graph {
	g := graph.NewGraph()
	g.AddNode("public", "accounts", graph.Table, "", 0)
	g.AddNode("public", "orders", graph.Table, "", 0)
	g.AddNode("public", "invoices", graph.Table, "", 0)
	g.AddEdge("public", "orders", "public", "accounts", graph.ForeignKey, "fk_orders_accounts", "NO ACTION")
	g.AddEdge("public", "invoices", "public", "accounts", graph.ForeignKey, "fk_invoices_accounts", "NO ACTION")
	return g
}

func starPattern() *pattern.Pattern {
	return &pattern.Pattern{
		Name: "star-fk",
		Nodes: []pattern.NodeSpec{
			{ID: "hub"}, {ID: "spoke_a"}, {ID: "spoke_b"},
		},
		Edges: []pattern.EdgeSpec{
			{From: "spoke_a", To: "hub", Type: graph.ForeignKey},
			{From: "spoke_b", To: "hub", Type: graph.ForeignKey},
		},
	}
}

func TestEngineMatchSubgraph(t *testing.T) {
	e := NewEngine(buildStarSchema(), nil)

	matches, err := e.Match(starPattern(), MatchOptions{Kind: MatchSubgraph})
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	for _, m := range matches {
		require.Equal(t, "public.accounts", m["hub"])
	}

	var spokes []string
	for _, m := range matches {
		spokes = append(spokes, m["spoke_a"])
	}
	sort.Strings(spokes)
	require.Equal(t, []string{"public.invoices", "public.orders"}, spokes)
}

func TestEngineMatchRespectsLimit(t *testing.T) {
	e := NewEngine(buildStarSchema(), nil)

	matches, err := e.Match(starPattern(), MatchOptions{Kind: MatchSubgraph, Limit: 1})
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

func TestEngineMatchNoNodesErrors(t *testing.T) {
	e := NewEngine(buildStarSchema(), nil)

	_, err := e.Match(&pattern.Pattern{Name: "empty"}, MatchOptions{})
	require.Error(t, err)
}

func TestEngineMatchPatternLargerThanSchema(t *testing.T) {
	g := graph.NewGraph()
	g.AddNode("public", "solo", graph.Table, "", 0)
	e := NewEngine(g, nil)

	matches, err := e.Match(starPattern(), MatchOptions{Kind: MatchSubgraph})
	require.NoError(t, err)
	require.Empty(t, matches)
}
