package graph

import (
	"reflect"
	"sort"
	"testing"

	"github.com/alexanderritik/dbiso/vf2"
)

func TestIndexedViewNumbering(t *testing.T) {
	g := NewGraph()
	g.AddNode("public", "B", Table, "", 0)
	g.AddNode("public", "A", Table, "", 0)
	g.AddEdge("public", "A", "public", "B", ForeignKey, "fk_a_b", "NO ACTION")

	view := NewIndexedView(g)

	if view.NodeCount() != 2 {
		t.Fatalf("expected 2 nodes, got %d", view.NodeCount())
	}

	// Node ids are sorted, so "public.A" < "public.B".
	aIdx, ok := view.IndexOf("public.A")
	if !ok {
		t.Fatal("expected public.A to be indexed")
	}
	bIdx, ok := view.IndexOf("public.B")
	if !ok {
		t.Fatal("expected public.B to be indexed")
	}
	if aIdx != 0 || bIdx != 1 {
		t.Errorf("expected public.A=0, public.B=1, got public.A=%d, public.B=%d", aIdx, bIdx)
	}

	if view.NodeAt(aIdx) != "public.A" {
		t.Errorf("NodeAt(%d) = %q, want public.A", aIdx, view.NodeAt(aIdx))
	}

	if !view.ContainsEdge(aIdx, bIdx) {
		t.Error("expected an edge from public.A to public.B")
	}
	if view.ContainsEdge(bIdx, aIdx) {
		t.Error("did not expect a reverse edge")
	}

	var outNeighbors []int
	for n := range view.Neighbors(aIdx, vf2.Outgoing) {
		outNeighbors = append(outNeighbors, n)
	}
	sort.Ints(outNeighbors)
	if !reflect.DeepEqual(outNeighbors, []int{bIdx}) {
		t.Errorf("expected outgoing neighbors of A to be [%d], got %v", bIdx, outNeighbors)
	}

	label, ok := view.NodeLabel(aIdx)
	if !ok || label != Table {
		t.Errorf("expected public.A to be labeled Table, got %v, %v", label, ok)
	}

	edgeLabel, ok := view.EdgeLabel(aIdx, bIdx)
	if !ok || edgeLabel != ForeignKey {
		t.Errorf("expected A->B edge label ForeignKey, got %v, %v", edgeLabel, ok)
	}
}
