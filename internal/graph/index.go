package graph

import (
	"iter"
	"sort"

	"github.com/alexanderritik/dbiso/vf2"
)

// IndexedView gives a Graph dense, VF2-compatible node indices. Schema
// graphs are keyed by string node id and have no inherent order, but the
// matcher needs a stable [0, n) numbering; IndexedView sorts node ids
// once at construction and holds that numbering fixed for its lifetime.
//
// IndexedView always reports itself as directed: every dependency edge in
// a schema graph already has a direction (the dependent points at its
// dependency), so induced matching and forward/reverse adjacency both
// need to distinguish Outgoing from Incoming.
type IndexedView struct {
	g *Graph

	ids   []string // index -> node id, sorted
	index map[string]int

	out [][]vf2.NodeIndex
	in  [][]vf2.NodeIndex

	edges map[[2]int]*Edge
}

// NewIndexedView builds an IndexedView over g's current contents. Later
// mutation of g is not reflected; build a new view instead.
func NewIndexedView(g *Graph) *IndexedView {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	index := make(map[string]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	out := make([][]vf2.NodeIndex, len(ids))
	in := make([][]vf2.NodeIndex, len(ids))
	edges := make(map[[2]int]*Edge)

	for sourceID, edgeList := range g.Edges {
		sourceIdx, ok := index[sourceID]
		if !ok {
			continue
		}
		for _, e := range edgeList {
			targetIdx, ok := index[e.TargetID]
			if !ok {
				continue
			}
			out[sourceIdx] = append(out[sourceIdx], targetIdx)
			in[targetIdx] = append(in[targetIdx], sourceIdx)
			edges[[2]int{sourceIdx, targetIdx}] = e
		}
	}

	return &IndexedView{g: g, ids: ids, index: index, out: out, in: in, edges: edges}
}

// NodeAt returns the node id at index i.
func (v *IndexedView) NodeAt(i vf2.NodeIndex) string { return v.ids[i] }

// IndexOf returns the index assigned to node id, or false if id was not
// part of the underlying graph at construction time.
func (v *IndexedView) IndexOf(id string) (vf2.NodeIndex, bool) {
	i, ok := v.index[id]
	return i, ok
}

// EdgeAt returns the schema Edge mapped between the two indices, or false
// if no such edge exists.
func (v *IndexedView) EdgeAt(source, target vf2.NodeIndex) (*Edge, bool) {
	e, ok := v.edges[[2]int{source, target}]
	return e, ok
}

func (v *IndexedView) IsDirected() bool { return true }

func (v *IndexedView) NodeCount() int { return len(v.ids) }

func (v *IndexedView) NodeLabel(n vf2.NodeIndex) (NodeType, bool) {
	if n < 0 || n >= len(v.ids) {
		return "", false
	}
	return v.g.Nodes[v.ids[n]].Type, true
}

func (v *IndexedView) Neighbors(n vf2.NodeIndex, dir vf2.Direction) iter.Seq[vf2.NodeIndex] {
	adj := v.out
	if dir == vf2.Incoming {
		adj = v.in
	}
	return func(yield func(vf2.NodeIndex) bool) {
		for _, m := range adj[n] {
			if !yield(m) {
				return
			}
		}
	}
}

func (v *IndexedView) ContainsEdge(source, target vf2.NodeIndex) bool {
	_, ok := v.edges[[2]int{source, target}]
	return ok
}

func (v *IndexedView) EdgeLabel(source, target vf2.NodeIndex) (DependencyType, bool) {
	e, ok := v.edges[[2]int{source, target}]
	if !ok {
		return "", false
	}
	return e.Type, true
}
