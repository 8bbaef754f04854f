package vf2

// graphState is the per-side bookkeeping VF2 needs: the partial map to the
// other graph, the two terminal sets, and the stack of nodes mapped at each
// depth (so push/pop can undo in order).
//
// The terminal-set slices store the depth at which a node was added rather
// than a plain boolean. That is what makes pop cheap: only the push that
// added a neighbor at depth d may retract it, so pop only has to look at
// neighbors whose stored depth equals the depth being undone, instead of
// recomputing the sets from scratch.
type graphState[NodeLabel, EdgeLabel any] struct {
	graph Graph[NodeLabel, EdgeLabel]

	mapping []NodeIndex // node -> counterpart node, or notInMap

	outgoing     []int // node -> depth added to the outgoing terminal set, or notInSet
	outgoingSize int    // count of uncovered members of outgoing

	incoming     []int // unused (stays zero) for undirected graphs
	incomingSize int

	nodeStack []NodeIndex // nodeStack[d-1] is the node mapped at depth d
}

func newGraphState[NodeLabel, EdgeLabel any](g Graph[NodeLabel, EdgeLabel]) *graphState[NodeLabel, EdgeLabel] {
	n := g.NodeCount()
	mapping := make([]NodeIndex, n)
	for i := range mapping {
		mapping[i] = notInMap
	}
	return &graphState[NodeLabel, EdgeLabel]{
		graph:     g,
		mapping:   mapping,
		outgoing:  make([]int, n),
		incoming:  make([]int, n),
		nodeStack: make([]NodeIndex, n),
	}
}

// isCovered reports whether node is currently in the partial map.
func (s *graphState[NodeLabel, EdgeLabel]) isCovered(node NodeIndex) bool {
	return s.mapping[node] != notInMap
}

// firstNode returns the least node index satisfying source's predicate.
func (s *graphState[NodeLabel, EdgeLabel]) firstNode(src source) (NodeIndex, bool) {
	return s.nextNode(src, 0)
}

// nextNode returns the least node index >= skip satisfying source's
// predicate.
func (s *graphState[NodeLabel, EdgeLabel]) nextNode(src source, skip int) (NodeIndex, bool) {
	switch src {
	case sourceOutgoing:
		return s.nextInSet(s.outgoing, skip)
	case sourceIncoming:
		return s.nextInSet(s.incoming, skip)
	default: // sourceUncovered
		for i := skip; i < len(s.mapping); i++ {
			if !s.isCovered(i) {
				return i, true
			}
		}
		return 0, false
	}
}

func (s *graphState[NodeLabel, EdgeLabel]) nextInSet(set []int, skip int) (NodeIndex, bool) {
	for i := skip; i < len(set); i++ {
		if set[i] != notInSet && !s.isCovered(i) {
			return i, true
		}
	}
	return 0, false
}

// setFor returns the terminal set and its uncovered-member count for dir.
func (s *graphState[NodeLabel, EdgeLabel]) setFor(dir Direction) ([]int, *int) {
	if dir == Outgoing {
		return s.outgoing, &s.outgoingSize
	}
	return s.incoming, &s.incomingSize
}

// push maps node to toNode at depth, extending both terminal sets with
// node's neighbors.
func (s *graphState[NodeLabel, EdgeLabel]) push(node, toNode NodeIndex, depth int) {
	s.nodeStack[depth-1] = node
	s.mapping[node] = toNode
	if s.outgoing[node] != notInSet {
		s.outgoingSize--
	}
	s.pushNeighbors(node, Outgoing, depth)
	if s.graph.IsDirected() {
		if s.incoming[node] != notInSet {
			s.incomingSize--
		}
		s.pushNeighbors(node, Incoming, depth)
	}
}

func (s *graphState[NodeLabel, EdgeLabel]) pushNeighbors(node NodeIndex, dir Direction, depth int) {
	set, size := s.setFor(dir)
	for neighbor := range s.graph.Neighbors(node, dir) {
		if set[neighbor] == notInSet {
			set[neighbor] = depth
			if s.mapping[neighbor] == notInMap {
				*size++
			}
		}
	}
}

// pop undoes the push made at depth and returns the node that was mapped
// there.
func (s *graphState[NodeLabel, EdgeLabel]) pop(depth int) NodeIndex {
	node := s.nodeStack[depth-1]
	s.mapping[node] = notInMap
	if s.outgoing[node] != notInSet {
		s.outgoingSize++
	}
	s.popNeighbors(node, Outgoing, depth)
	if s.graph.IsDirected() {
		if s.incoming[node] != notInSet {
			s.incomingSize++
		}
		s.popNeighbors(node, Incoming, depth)
	}
	return node
}

func (s *graphState[NodeLabel, EdgeLabel]) popNeighbors(node NodeIndex, dir Direction, depth int) {
	set, size := s.setFor(dir)
	for neighbor := range s.graph.Neighbors(node, dir) {
		if set[neighbor] == depth {
			set[neighbor] = notInSet
			if s.mapping[neighbor] == notInMap {
				*size--
			}
		}
	}
}

// nodeLabel returns the label of node. Covered nodes exist by construction,
// so a missing label means the host Graph implementation is broken.
func (s *graphState[NodeLabel, EdgeLabel]) nodeLabel(node NodeIndex) NodeLabel {
	label, ok := s.graph.NodeLabel(node)
	if !ok {
		panic("vf2: node label missing for covered node")
	}
	return label
}

// edgeLabel returns the label of the edge from source to target. Covered
// edges exist by construction, so a missing label means the host Graph
// implementation is broken.
func (s *graphState[NodeLabel, EdgeLabel]) edgeLabel(source, target NodeIndex) EdgeLabel {
	label, ok := s.graph.EdgeLabel(source, target)
	if !ok {
		panic("vf2: edge label missing for covered edge")
	}
	return label
}
