package vf2

// Iter lazily drives the search, yielding one Isomorphism per call to
// NextRef or Next. Its zero value is not usable; construct via a Builder's
// Iter method.
type Iter[NodeLabel, EdgeLabel any] struct {
	state *searchState[NodeLabel, EdgeLabel]
	done  bool
}

func newIter[NodeLabel, EdgeLabel any](s *searchState[NodeLabel, EdgeLabel]) *Iter[NodeLabel, EdgeLabel] {
	return &Iter[NodeLabel, EdgeLabel]{state: s}
}

// advance steps the underlying search until it either completes a mapping
// or exhausts the search space, returning which of the two happened.
func (it *Iter[NodeLabel, EdgeLabel]) advance() bool {
	if it.done {
		return false
	}
	for {
		found := it.state.step()
		if !found {
			continue
		}
		if it.state.allCovered() {
			return true
		}
		it.done = true
		return false
	}
}

// NextRef advances the iterator and returns a reference to the next
// mapping's backing slice. The slice is owned by it and is invalidated by
// the following call to NextRef or Next; callers that need to retain a
// mapping must copy it.
func (it *Iter[NodeLabel, EdgeLabel]) NextRef() (Isomorphism, bool) {
	if !it.advance() {
		return nil, false
	}
	return it.state.queryMap(), true
}

// Next advances the iterator and returns an owned copy of the next
// mapping, safe to retain indefinitely.
func (it *Iter[NodeLabel, EdgeLabel]) Next() (Isomorphism, bool) {
	m, ok := it.NextRef()
	if !ok {
		return nil, false
	}
	owned := make(Isomorphism, len(m))
	copy(owned, m)
	return owned, true
}

// IntoNext is an alias for Next, named to mirror the consuming-iterator
// idiom: once a mapping is returned, the Iter has moved past it and
// cannot be rewound.
func (it *Iter[NodeLabel, EdgeLabel]) IntoNext() (Isomorphism, bool) {
	return it.Next()
}

// All is a range-over-func sequence over every remaining mapping, each
// one an owned copy. Suitable for `for m := range it.All`.
func (it *Iter[NodeLabel, EdgeLabel]) All(yield func(Isomorphism) bool) {
	for {
		m, ok := it.Next()
		if !ok {
			return
		}
		if !yield(m) {
			return
		}
	}
}
