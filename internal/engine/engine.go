package engine

import (
	"fmt"

	"github.com/alexanderritik/dbiso/internal/adapters"
	"github.com/alexanderritik/dbiso/internal/graph"
	"github.com/alexanderritik/dbiso/internal/pattern"
	"github.com/alexanderritik/dbiso/vf2"
)

// Engine orchestrates the application logic
type Engine struct {
	Graph   *graph.Graph
	Adapter adapters.Adapter
}

// NewEngine creates a new engine instance
func NewEngine(g *graph.Graph, a adapters.Adapter) *Engine {
	return &Engine{
		Graph:   g,
		Adapter: a,
	}
}

// Connect connects to the database
func (e *Engine) Connect(connString string) error {
	return e.Adapter.Connect(connString)
}

// BuildGraph fetches the schema and builds the graph
func (e *Engine) BuildGraph() error {
	return e.Adapter.FetchSchema(e.Graph)
}

// GetGraphStats returns simple stats about the graph
func (e *Engine) GetGraphStats() string {
	nodeCount := len(e.Graph.Nodes)
	edgeCount := 0
	for _, edges := range e.Graph.Edges {
		edgeCount += len(edges)
	}
	return fmt.Sprintf("Graph built successfully.\nNodes: %d\nEdges: %d", nodeCount, edgeCount)
}

// Run (Legacy/Serve)
func (e *Engine) Run() {
	fmt.Println("Engine is running... (Use 'analyze' or 'impact' commands)")
}

// MatchKind selects which of the three VF2 problem variants Match solves.
type MatchKind int

const (
	// MatchSubgraph finds every way the pattern's nodes and edges embed
	// into the schema graph; the schema graph may have extra edges among
	// the matched nodes that the pattern does not.
	MatchSubgraph MatchKind = iota
	// MatchInduced additionally requires that the matched schema nodes
	// have no dependency the pattern does not also have.
	MatchInduced
)

// MatchOptions configures a single Match call.
type MatchOptions struct {
	Kind MatchKind
	// MatchLabels requires matched nodes and edges to carry the same
	// NodeType/DependencyType. Without it any pattern node may match any
	// schema node regardless of type.
	MatchLabels bool
	// Limit caps the number of matches returned. Zero means unlimited.
	Limit int
}

// Match is one occurrence of a pattern within the schema graph: pattern
// node id -> schema node id.
type Match map[string]string

// Match searches the engine's current graph for every occurrence of p,
// per opts. The schema graph must already be built (see BuildGraph).
func (e *Engine) Match(p *pattern.Pattern, opts MatchOptions) ([]Match, error) {
	queryView := graph.NewIndexedView(p.Graph())
	dataView := graph.NewIndexedView(e.Graph)

	if queryView.NodeCount() == 0 {
		return nil, fmt.Errorf("pattern %q has no nodes to match", p.Name)
	}
	if queryView.NodeCount() > dataView.NodeCount() {
		return nil, nil
	}

	var builder *vf2.Builder[graph.NodeType, graph.DependencyType]
	switch opts.Kind {
	case MatchInduced:
		builder = vf2.InducedSubgraphIsomorphisms[graph.NodeType, graph.DependencyType](queryView, dataView)
	default:
		builder = vf2.SubgraphIsomorphisms[graph.NodeType, graph.DependencyType](queryView, dataView)
	}
	if opts.MatchLabels {
		builder = vf2.DefaultEq(builder)
	}

	it := builder.Iter()
	var matches []Match
	for {
		if opts.Limit > 0 && len(matches) >= opts.Limit {
			break
		}
		mapping, ok := it.Next()
		if !ok {
			break
		}
		m := make(Match, len(mapping))
		for queryIdx, dataIdx := range mapping {
			m[queryView.NodeAt(queryIdx)] = dataView.NodeAt(dataIdx)
		}
		matches = append(matches, m)
	}
	return matches, nil
}
