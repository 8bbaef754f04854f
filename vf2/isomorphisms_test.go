package vf2

import (
	"reflect"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// sortIsomorphisms orders mappings lexicographically so that enumeration
// results can be compared regardless of the order the search discovers
// them in (the set of isomorphisms between two graphs is determined by
// the graphs alone; only the discovery order is an implementation detail).
func sortIsomorphisms(ms []Isomorphism) {
	sort.Slice(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return a[k] < b[k]
			}
		}
		return len(a) < len(b)
	})
}

func assertIsomorphisms(t *testing.T, got []Isomorphism, want []Isomorphism) {
	t.Helper()
	sortIsomorphisms(got)
	sortIsomorphisms(want)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("isomorphism set mismatch (-want +got):\n%s", diff)
	}
}

// assertIsomorphismsExact is used only where discovery order is itself
// part of the contract under test (e.g. "first" picks the lexicographically
// smallest-indexed candidates first).
func assertIsomorphismsExact(t *testing.T, got []Isomorphism, want []Isomorphism) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestIsomorphismsDirected(t *testing.T) {
	query := fromEdges(true, [][2]int{{0, 2}, {1, 2}, {2, 3}})
	data := fromEdges(true, [][2]int{{0, 2}, {1, 2}, {2, 3}})

	got := Isomorphisms[struct{}, struct{}](query, data).Vec()
	assertIsomorphisms(t, got, []Isomorphism{{0, 1, 2, 3}, {1, 0, 2, 3}})
}

func TestIsomorphismsUndirected(t *testing.T) {
	query := fromEdges(false, [][2]int{{0, 2}, {1, 2}, {2, 3}})
	data := fromEdges(false, [][2]int{{0, 2}, {1, 2}, {2, 3}})

	got := Isomorphisms[struct{}, struct{}](query, data).Vec()
	assertIsomorphisms(t, got, []Isomorphism{
		{0, 1, 2, 3}, {0, 3, 2, 1},
		{1, 0, 2, 3}, {1, 3, 2, 0},
		{3, 0, 2, 1}, {3, 1, 2, 0},
	})
}

func TestSubgraphIsomorphismsDirected(t *testing.T) {
	query, data := smallGraphs(true)

	got := SubgraphIsomorphisms[struct{}, struct{}](query, data).Vec()
	assertIsomorphisms(t, got, []Isomorphism{
		{0, 1, 3, 4, 5}, {0, 2, 3, 4, 5},
		{1, 0, 3, 4, 5}, {1, 2, 3, 4, 5},
		{2, 0, 3, 4, 5}, {2, 1, 3, 4, 5},
	})
}

func TestSubgraphIsomorphismsUndirected(t *testing.T) {
	query, data := smallGraphs(false)

	got := SubgraphIsomorphisms[struct{}, struct{}](query, data).Vec()
	assertIsomorphisms(t, got, []Isomorphism{
		{0, 1, 3, 4, 5}, {0, 1, 3, 6, 7},
		{0, 2, 3, 4, 5}, {0, 2, 3, 6, 7},
		{0, 4, 3, 1, 2}, {0, 4, 3, 2, 1}, {0, 4, 3, 6, 7},
		{0, 6, 3, 1, 2}, {0, 6, 3, 2, 1}, {0, 6, 3, 4, 5},
		{1, 0, 3, 4, 5}, {1, 0, 3, 6, 7},
		{1, 2, 3, 4, 5}, {1, 2, 3, 6, 7},
		{1, 4, 3, 6, 7}, {1, 6, 3, 4, 5},
		{2, 0, 3, 4, 5}, {2, 0, 3, 6, 7},
		{2, 1, 3, 4, 5}, {2, 1, 3, 6, 7},
		{2, 4, 3, 6, 7}, {2, 6, 3, 4, 5},
		{4, 0, 3, 1, 2}, {4, 0, 3, 2, 1}, {4, 0, 3, 6, 7},
		{4, 1, 3, 6, 7}, {4, 2, 3, 6, 7},
		{4, 6, 3, 1, 2}, {4, 6, 3, 2, 1},
		{6, 0, 3, 1, 2}, {6, 0, 3, 2, 1}, {6, 0, 3, 4, 5},
		{6, 1, 3, 4, 5}, {6, 2, 3, 4, 5},
		{6, 4, 3, 1, 2}, {6, 4, 3, 2, 1},
	})
}

func TestInducedSubgraphIsomorphismsDirected(t *testing.T) {
	query, data := smallGraphs(true)

	got := InducedSubgraphIsomorphisms[struct{}, struct{}](query, data).Vec()
	assertIsomorphisms(t, got, []Isomorphism{
		{0, 1, 3, 4, 5}, {0, 2, 3, 4, 5},
		{1, 0, 3, 4, 5}, {2, 0, 3, 4, 5},
	})
}

func TestInducedSubgraphIsomorphismsUndirected(t *testing.T) {
	query, data := smallGraphs(false)

	got := InducedSubgraphIsomorphisms[struct{}, struct{}](query, data).Vec()
	assertIsomorphisms(t, got, []Isomorphism{
		{0, 1, 3, 4, 5}, {0, 1, 3, 6, 7},
		{0, 2, 3, 4, 5}, {0, 2, 3, 6, 7},
		{0, 4, 3, 6, 7}, {0, 6, 3, 4, 5},
		{1, 0, 3, 4, 5}, {1, 0, 3, 6, 7},
		{1, 4, 3, 6, 7}, {1, 6, 3, 4, 5},
		{2, 0, 3, 4, 5}, {2, 0, 3, 6, 7},
		{2, 4, 3, 6, 7}, {2, 6, 3, 4, 5},
		{4, 0, 3, 6, 7}, {4, 1, 3, 6, 7}, {4, 2, 3, 6, 7},
		{6, 0, 3, 4, 5}, {6, 1, 3, 4, 5}, {6, 2, 3, 4, 5},
	})
}

func TestNoEqByDefault(t *testing.T) {
	query, data := smallLabeledGraphs(true)

	got := InducedSubgraphIsomorphisms[color, color](query, data).Vec()
	assertIsomorphisms(t, got, []Isomorphism{
		{0, 1, 3, 4, 5}, {0, 2, 3, 4, 5},
		{1, 0, 3, 4, 5}, {2, 0, 3, 4, 5},
	})
}

func TestDefaultEqDirected(t *testing.T) {
	query, data := smallLabeledGraphs(true)

	builder := InducedSubgraphIsomorphisms[color, color](query, data)
	got := DefaultEq(builder).Vec()
	assertIsomorphisms(t, got, []Isomorphism{{0, 2, 3, 4, 5}})
}

func TestDefaultEqUndirected(t *testing.T) {
	query, data := smallLabeledGraphs(false)

	builder := InducedSubgraphIsomorphisms[color, color](query, data)
	got := DefaultEq(builder).Vec()
	assertIsomorphisms(t, got, []Isomorphism{
		{0, 2, 3, 4, 5}, {0, 2, 3, 6, 7},
		{4, 2, 3, 6, 7}, {6, 2, 3, 4, 5},
	})
}

func TestCustomEq(t *testing.T) {
	query, data := smallLabeledGraphs(true)

	got := InducedSubgraphIsomorphisms[color, color](query, data).
		NodeEq(func(a, b color) bool { return a == b }).
		EdgeEq(func(a, b color) bool { return a == b }).
		Vec()
	assertIsomorphisms(t, got, []Isomorphism{{0, 2, 3, 4, 5}})
}

func TestDisconnected(t *testing.T) {
	query := fromEdges(true, [][2]int{{0, 1}, {2, 3}})
	data := fromEdges(true, [][2]int{{0, 1}, {1, 2}, {3, 4}})

	got := SubgraphIsomorphisms[struct{}, struct{}](query, data).Vec()
	assertIsomorphisms(t, got, []Isomorphism{
		{0, 1, 3, 4}, {1, 2, 3, 4},
		{3, 4, 0, 1}, {3, 4, 1, 2},
	})
}

func TestEmptyQueryPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic for an empty query graph")
		}
	}()
	query := fromEdges(true, nil)
	data := fromEdges(true, [][2]int{{0, 1}, {1, 2}})

	InducedSubgraphIsomorphisms[struct{}, struct{}](query, data).Vec()
}

func TestIsomorphismsSameSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic when query and data sizes differ")
		}
	}()
	query := fromEdges(true, [][2]int{{0, 1}})
	data := fromEdges(true, [][2]int{{0, 1}, {1, 2}})

	Isomorphisms[struct{}, struct{}](query, data).Vec()
}

func TestFirst(t *testing.T) {
	query, data := smallGraphs(true)

	first, ok := SubgraphIsomorphisms[struct{}, struct{}](query, data).First()
	if !ok {
		t.Fatal("expected at least one match")
	}
	if len(first) != query.NodeCount() {
		t.Errorf("got mapping of length %d, want %d", len(first), query.NodeCount())
	}
}

func TestVecNotEmpty(t *testing.T) {
	query, data := smallGraphs(true)

	got := SubgraphIsomorphisms[struct{}, struct{}](query, data).Vec()
	if len(got) == 0 {
		t.Error("expected at least one isomorphism")
	}
}

func TestIterNext(t *testing.T) {
	query, data := smallGraphs(true)

	it := SubgraphIsomorphisms[struct{}, struct{}](query, data).Iter()
	if _, ok := it.Next(); !ok {
		t.Error("expected iterator to produce at least one mapping")
	}
}

func TestIterNextRef(t *testing.T) {
	query, data := smallGraphs(true)

	it := SubgraphIsomorphisms[struct{}, struct{}](query, data).Iter()
	m, ok := it.NextRef()
	if !ok {
		t.Fatal("expected iterator to produce at least one mapping")
	}
	if len(m) != query.NodeCount() {
		t.Errorf("got mapping of length %d, want %d", len(m), query.NodeCount())
	}
}

func TestIterIntoNext(t *testing.T) {
	query, data := smallGraphs(true)

	it := SubgraphIsomorphisms[struct{}, struct{}](query, data).Iter()
	next, ok := it.IntoNext()
	if !ok {
		t.Fatal("expected a mapping")
	}
	want := Isomorphism{0, 1, 3, 4, 5}
	if !reflect.DeepEqual(next, want) {
		t.Errorf("got %v, want %v", next, want)
	}
}

func TestIterExhaustion(t *testing.T) {
	query := fromEdges(true, [][2]int{{0, 1}})
	data := fromEdges(true, [][2]int{{0, 1}})

	it := Isomorphisms[struct{}, struct{}](query, data).Iter()
	if _, ok := it.Next(); !ok {
		t.Fatal("expected one mapping")
	}
	if _, ok := it.Next(); ok {
		t.Error("expected the iterator to be exhausted")
	}
}
