package vf2

// problem distinguishes the three matching flavors this package supports.
// They differ only in whether the search additionally requires
// data-to-query structural consistency (induced) and whether query and
// data must have equal node counts (isomorphism proper).
type problem int

const (
	problemIsomorphism problem = iota
	problemSubgraphIsomorphism
	problemInducedSubgraphIsomorphism
)

func (p problem) induced() bool {
	return p == problemIsomorphism || p == problemInducedSubgraphIsomorphism
}

// Builder configures and runs a match between a query graph and a data
// graph. Construct one with Isomorphisms, SubgraphIsomorphisms, or
// InducedSubgraphIsomorphisms, optionally refine it with NodeEq/EdgeEq,
// then consume it with First, Vec, or Iter.
type Builder[NodeLabel, EdgeLabel any] struct {
	query, data Graph[NodeLabel, EdgeLabel]
	problem     problem
	nodeEq      func(NodeLabel, NodeLabel) bool
	edgeEq      func(EdgeLabel, EdgeLabel) bool
}

// Isomorphisms configures a search for full graph isomorphisms: every
// query node and edge must correspond to exactly one data node and edge,
// and vice versa. query and data must have equal node counts; Iter panics
// otherwise.
func Isomorphisms[NodeLabel, EdgeLabel any](query, data Graph[NodeLabel, EdgeLabel]) *Builder[NodeLabel, EdgeLabel] {
	return &Builder[NodeLabel, EdgeLabel]{query: query, data: data, problem: problemIsomorphism}
}

// SubgraphIsomorphisms configures a search for subgraph isomorphisms:
// every query node and edge must correspond to a data node and edge, but
// the data graph may have additional nodes and edges the mapping ignores.
func SubgraphIsomorphisms[NodeLabel, EdgeLabel any](query, data Graph[NodeLabel, EdgeLabel]) *Builder[NodeLabel, EdgeLabel] {
	return &Builder[NodeLabel, EdgeLabel]{query: query, data: data, problem: problemSubgraphIsomorphism}
}

// InducedSubgraphIsomorphisms configures a search for induced subgraph
// isomorphisms: like SubgraphIsomorphisms, but the matched data nodes may
// not have any edge between them that the query does not also have.
func InducedSubgraphIsomorphisms[NodeLabel, EdgeLabel any](query, data Graph[NodeLabel, EdgeLabel]) *Builder[NodeLabel, EdgeLabel] {
	return &Builder[NodeLabel, EdgeLabel]{query: query, data: data, problem: problemInducedSubgraphIsomorphism}
}

// NodeEq supplies a node-label equality predicate. Without one, node
// labels are never compared and any query node may map to any data node.
func (b *Builder[NodeLabel, EdgeLabel]) NodeEq(eq func(NodeLabel, NodeLabel) bool) *Builder[NodeLabel, EdgeLabel] {
	b.nodeEq = eq
	return b
}

// EdgeEq supplies an edge-label equality predicate. Without one, edge
// labels are never compared.
func (b *Builder[NodeLabel, EdgeLabel]) EdgeEq(eq func(EdgeLabel, EdgeLabel) bool) *Builder[NodeLabel, EdgeLabel] {
	b.edgeEq = eq
	return b
}

// DefaultEq is a convenience for the common case of comparable node and
// edge labels: it sets both NodeEq and EdgeEq to ordinary `==`.
//
// This is a package-level function rather than a Builder method because
// Go does not allow narrowing a generic type's method to a stricter type
// constraint than the type itself declared; Builder's NodeLabel/EdgeLabel
// are only `any`, so comparable-only logic has to live outside the
// method set.
func DefaultEq[NodeLabel, EdgeLabel comparable](b *Builder[NodeLabel, EdgeLabel]) *Builder[NodeLabel, EdgeLabel] {
	return b.NodeEq(func(a, c NodeLabel) bool { return a == c }).
		EdgeEq(func(a, c EdgeLabel) bool { return a == c })
}

// Iter builds the Iter that drives the configured search, validating the
// query/data pair against this problem's constraints. Panics if the query
// graph is empty, if the query has more nodes than the data graph, if
// the data graph is too large to index (see the package's sentinel
// reservation), or — for Isomorphisms specifically — if the two graphs
// do not have equal node counts.
func (b *Builder[NodeLabel, EdgeLabel]) Iter() *Iter[NodeLabel, EdgeLabel] {
	if b.problem == problemIsomorphism && b.query.NodeCount() != b.data.NodeCount() {
		panic("vf2: isomorphism requires query and data to have equal node counts")
	}
	s := newSearchState(b.query, b.data, b.nodeEq, b.edgeEq, b.problem.induced())
	return newIter(s)
}

// First runs the search to its first match, or returns false if none
// exists.
func (b *Builder[NodeLabel, EdgeLabel]) First() (Isomorphism, bool) {
	return b.Iter().Next()
}

// Vec runs the search to completion and returns every match, each an
// owned copy.
func (b *Builder[NodeLabel, EdgeLabel]) Vec() []Isomorphism {
	it := b.Iter()
	var out []Isomorphism
	for {
		m, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, m)
	}
}
