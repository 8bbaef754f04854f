// Package vf2 enumerates isomorphisms, subgraph isomorphisms, and induced
// subgraph isomorphisms from a query graph into a data graph using the VF2
// family of backtracking search algorithms.
//
// The search itself never touches concrete graph storage: it reads both
// graphs exclusively through the Graph capability, so any host type that can
// answer a handful of structural questions about itself can be matched
// against.
package vf2

import (
	"iter"
	"math"
)

// NodeIndex identifies a node within a single graph. Valid indices for a
// graph with n nodes are the dense range [0, n).
type NodeIndex = int

// notInMap marks a graphState map slot as unmapped. Using the maximum
// NodeIndex rather than -1 keeps node 0 (a perfectly ordinary node) from
// ever colliding with the sentinel.
const notInMap NodeIndex = math.MaxInt

// notInSet marks a terminal-set slot as absent. Depths recorded in terminal
// sets start at 1, so 0 is unambiguous as "never added".
const notInSet = 0

// Direction selects which side of a directed edge to query. Undirected
// graphs ignore it and return every neighbor regardless of which value is
// passed.
type Direction int

const (
	// Outgoing selects edges leaving a node.
	Outgoing Direction = iota
	// Incoming selects edges entering a node.
	Incoming
)

// Graph is the read-only capability the matcher requires of both the query
// and the data graph. Implementations must expose dense node indices in
// [0, NodeCount()).
//
// Undirected graphs must return all neighbors for either Direction, and must
// treat ContainsEdge and EdgeLabel symmetrically.
type Graph[NodeLabel, EdgeLabel any] interface {
	// IsDirected reports whether the graph is directed. This is assumed
	// constant over the graph's lifetime.
	IsDirected() bool

	// NodeCount returns the number of nodes in the graph.
	NodeCount() int

	// NodeLabel returns the label of node n, or false if n is out of range.
	NodeLabel(n NodeIndex) (NodeLabel, bool)

	// Neighbors returns the neighbors of node n in the given direction. For
	// an undirected graph this returns all neighbors regardless of dir. A
	// node index may repeat if the graph has parallel edges; the matcher
	// tolerates but does not require this.
	Neighbors(n NodeIndex, dir Direction) iter.Seq[NodeIndex]

	// ContainsEdge reports whether an edge from source to target exists. If
	// the graph is directed, the edge must run source -> target; if
	// undirected, an edge must simply exist between the two.
	ContainsEdge(source, target NodeIndex) bool

	// EdgeLabel returns the label of the edge from source to target, or
	// false if no such edge exists. Follows the same direction contract as
	// ContainsEdge.
	EdgeLabel(source, target NodeIndex) (EdgeLabel, bool)
}

// Isomorphism maps query node indices to data node indices: Isomorphism[i]
// is the data-node image of query node i.
type Isomorphism = []NodeIndex
