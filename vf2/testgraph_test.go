package vf2

import "iter"

// edgeSpec describes one edge in a testGraph literal, with an optional
// label (the zero value of EdgeLabel when unlabeled).
type edgeSpec[EdgeLabel any] struct {
	source, target NodeIndex
	label          EdgeLabel
}

// testGraph is a minimal adjacency-list Graph used only by this package's
// own tests. Node count is the number of labels supplied; every edge
// endpoint must be in range.
type testGraph[NodeLabel, EdgeLabel any] struct {
	directed   bool
	nodeLabels []NodeLabel
	out        [][]NodeIndex
	in         [][]NodeIndex
	edgeLabel  map[[2]NodeIndex]EdgeLabel
}

func newTestGraph[NodeLabel, EdgeLabel any](directed bool, nodeLabels []NodeLabel, edges []edgeSpec[EdgeLabel]) *testGraph[NodeLabel, EdgeLabel] {
	n := len(nodeLabels)
	g := &testGraph[NodeLabel, EdgeLabel]{
		directed:   directed,
		nodeLabels: nodeLabels,
		out:        make([][]NodeIndex, n),
		in:         make([][]NodeIndex, n),
		edgeLabel:  make(map[[2]NodeIndex]EdgeLabel),
	}
	for _, e := range edges {
		g.out[e.source] = append(g.out[e.source], e.target)
		g.in[e.target] = append(g.in[e.target], e.source)
		g.edgeLabel[[2]NodeIndex{e.source, e.target}] = e.label
		if !directed {
			g.out[e.target] = append(g.out[e.target], e.source)
			g.in[e.source] = append(g.in[e.source], e.target)
			g.edgeLabel[[2]NodeIndex{e.target, e.source}] = e.label
		}
	}
	return g
}

// fromEdges builds an unlabeled graph from a bare edge list, sized to the
// greatest node index referenced.
func fromEdges(directed bool, edges [][2]int) *testGraph[struct{}, struct{}] {
	max := -1
	for _, e := range edges {
		if e[0] > max {
			max = e[0]
		}
		if e[1] > max {
			max = e[1]
		}
	}
	specs := make([]edgeSpec[struct{}], len(edges))
	for i, e := range edges {
		specs[i] = edgeSpec[struct{}]{source: e[0], target: e[1]}
	}
	return newTestGraph(directed, make([]struct{}, max+1), specs)
}

func (g *testGraph[NodeLabel, EdgeLabel]) IsDirected() bool { return g.directed }

func (g *testGraph[NodeLabel, EdgeLabel]) NodeCount() int { return len(g.nodeLabels) }

func (g *testGraph[NodeLabel, EdgeLabel]) NodeLabel(n NodeIndex) (NodeLabel, bool) {
	if n < 0 || n >= len(g.nodeLabels) {
		var zero NodeLabel
		return zero, false
	}
	return g.nodeLabels[n], true
}

func (g *testGraph[NodeLabel, EdgeLabel]) Neighbors(n NodeIndex, dir Direction) iter.Seq[NodeIndex] {
	adj := g.out
	if dir == Incoming {
		adj = g.in
	}
	return func(yield func(NodeIndex) bool) {
		for _, m := range adj[n] {
			if !yield(m) {
				return
			}
		}
	}
}

func (g *testGraph[NodeLabel, EdgeLabel]) ContainsEdge(source, target NodeIndex) bool {
	_, ok := g.edgeLabel[[2]NodeIndex{source, target}]
	return ok
}

func (g *testGraph[NodeLabel, EdgeLabel]) EdgeLabel(source, target NodeIndex) (EdgeLabel, bool) {
	label, ok := g.edgeLabel[[2]NodeIndex{source, target}]
	return label, ok
}

// color is a small node/edge label type used by the label-predicate tests.
type color int

const (
	white color = iota
	black
)

func smallGraphs(directed bool) (query, data *testGraph[struct{}, struct{}]) {
	query = fromEdges(directed, [][2]int{{0, 2}, {1, 2}, {2, 3}, {3, 4}})
	data = fromEdges(directed, [][2]int{
		{0, 3}, {1, 3}, {2, 3}, {1, 2}, {3, 4}, {4, 5}, {3, 6}, {7, 6},
	})
	return query, data
}

func smallLabeledGraphs(directed bool) (query, data *testGraph[color, color]) {
	query = newTestGraph(directed,
		[]color{black, white, white, black, white},
		[]edgeSpec[color]{
			{0, 2, white},
			{1, 2, black},
			{2, 3, white},
			{3, 4, black},
		})
	data = newTestGraph(directed,
		[]color{black, white, white, white, black, white, black, white},
		[]edgeSpec[color]{
			{0, 3, white},
			{1, 3, white},
			{2, 3, black},
			{1, 2, white},
			{3, 4, white},
			{4, 5, black},
			{3, 6, white},
			{7, 6, black},
		})
	return query, data
}
