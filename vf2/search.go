package vf2

// source tags which candidate pool the next pair is drawn from.
type source int

const (
	// sourceOutgoing draws from uncovered neighbors reachable by an
	// outgoing edge from a covered node (T_out in the VF2 paper).
	sourceOutgoing source = iota
	// sourceIncoming draws from uncovered neighbors reachable by an
	// incoming edge from a covered node (T_in in the VF2 paper).
	sourceIncoming
	// sourceUncovered draws from any uncovered node (P^d in the VF2 paper).
	sourceUncovered
)

// pair is a candidate extension of the partial map at the current depth.
type pair struct {
	queryNode NodeIndex
	dataNode  NodeIndex
}

// searchState pairs a query and data graphState, the depth counter, the
// frozen per-depth source stack, and the optional label predicates. A
// single call to step performs one unit of work in the SSR-tree search:
// try the next candidate pair, or backtrack.
type searchState[NodeLabel, EdgeLabel any] struct {
	induced bool
	depth   int

	query *graphState[NodeLabel, EdgeLabel]
	data  *graphState[NodeLabel, EdgeLabel]

	// sourceStack[d] is the source chosen at depth d+1, frozen across
	// sibling exploration at that depth.
	sourceStack []source

	// previous is the last candidate pair tried at the current depth. nil
	// means "choose the first pair".
	previous *pair

	nodeEq func(NodeLabel, NodeLabel) bool
	edgeEq func(EdgeLabel, EdgeLabel) bool
}

func newSearchState[NodeLabel, EdgeLabel any](
	query, data Graph[NodeLabel, EdgeLabel],
	nodeEq func(NodeLabel, NodeLabel) bool,
	edgeEq func(EdgeLabel, EdgeLabel) bool,
	induced bool,
) *searchState[NodeLabel, EdgeLabel] {
	if query.NodeCount() == 0 {
		panic("vf2: query graph cannot be empty")
	}
	if query.NodeCount() > data.NodeCount() {
		panic("vf2: query cannot exceed data")
	}
	if data.NodeCount() >= notInMap {
		panic("vf2: graph too large (reserved sentinel)")
	}
	return &searchState[NodeLabel, EdgeLabel]{
		induced:     induced,
		query:       newGraphState[NodeLabel, EdgeLabel](query),
		data:        newGraphState[NodeLabel, EdgeLabel](data),
		sourceStack: make([]source, query.NodeCount()),
		nodeEq:      nodeEq,
		edgeEq:      edgeEq,
	}
}

// step advances the search by exactly one of: trying the next candidate
// pair (pushing it if feasible), backtracking one depth, or declaring the
// search exhausted at depth 0.
//
// Returns true whenever the caller should inspect state — either a
// complete mapping is ready (allCovered() == true) or the search is
// over (allCovered() == false at depth 0). Returns false when the search
// merely backtracked and should be stepped again.
func (s *searchState[NodeLabel, EdgeLabel]) step() bool {
	if p, ok := s.nextPair(); ok {
		s.previous = &p
		if s.feasible(p) {
			s.push(p)
		}
		return s.allCovered()
	}
	if s.depth > 0 {
		s.pop()
		return false
	}
	return true
}

// push commits pair to the partial map and advances to the next depth.
func (s *searchState[NodeLabel, EdgeLabel]) push(p pair) {
	s.depth++
	s.previous = nil
	s.query.push(p.queryNode, p.dataNode, s.depth)
	s.data.push(p.dataNode, p.queryNode, s.depth)
}

// pop undoes the pair mapped at the current depth and retreats one depth.
// The popped pair becomes previous, so sibling search resumes at its
// successor under the still-frozen source for the shallower depth.
func (s *searchState[NodeLabel, EdgeLabel]) pop() {
	queryNode := s.query.pop(s.depth)
	dataNode := s.data.pop(s.depth)
	s.previous = &pair{queryNode: queryNode, dataNode: dataNode}
	s.depth--
}

// nextPair returns the next candidate pair at the current depth, or false
// if none remain.
func (s *searchState[NodeLabel, EdgeLabel]) nextPair() (pair, bool) {
	if s.allCovered() {
		return pair{}, false
	}
	if s.previous != nil {
		return s.followingPair(s.sourceStack[s.depth], *s.previous)
	}
	p, src, ok := s.firstPair()
	if !ok {
		return pair{}, false
	}
	s.sourceStack[s.depth] = src
	return p, true
}

// firstPair chooses the source for a fresh depth and returns its first
// pair, following the priority outgoing > incoming > uncovered.
func (s *searchState[NodeLabel, EdgeLabel]) firstPair() (pair, source, bool) {
	var src source
	switch {
	case s.query.outgoingSize > 0 && s.data.outgoingSize > 0:
		src = sourceOutgoing
	case s.query.incomingSize > 0 && s.data.incomingSize > 0:
		src = sourceIncoming
	default:
		src = sourceUncovered
	}
	p, ok := s.firstPairIn(src)
	return p, src, ok
}

func (s *searchState[NodeLabel, EdgeLabel]) firstPairIn(src source) (pair, bool) {
	queryNode, ok := s.query.firstNode(src)
	if !ok {
		return pair{}, false
	}
	dataNode, ok := s.data.firstNode(src)
	if !ok {
		return pair{}, false
	}
	return pair{queryNode: queryNode, dataNode: dataNode}, true
}

// followingPair returns the pair from src that follows prev, keeping the
// query node frozen and advancing only the data node.
func (s *searchState[NodeLabel, EdgeLabel]) followingPair(src source, prev pair) (pair, bool) {
	dataNode, ok := s.data.nextNode(src, prev.dataNode+1)
	if !ok {
		return pair{}, false
	}
	return pair{queryNode: prev.queryNode, dataNode: dataNode}, true
}

// feasible is F(s, n, m) in the VF2 paper: the conjunction of the
// syntactic and semantic feasibility tests.
func (s *searchState[NodeLabel, EdgeLabel]) feasible(p pair) bool {
	return s.feasibleSyntactic(p) && s.feasibleSemantic(p)
}

// feasibleSyntactic is F_syn: does the candidate pair preserve graph
// structure against everything already mapped.
func (s *searchState[NodeLabel, EdgeLabel]) feasibleSyntactic(p pair) bool {
	consistent := s.ruleNeighbors(p, Incoming)
	if s.isDirected() {
		consistent = consistent && s.ruleNeighbors(p, Outgoing)
	}
	return consistent && s.ruleIn(p) && s.ruleOut(p) && s.ruleNew(p)
}

// ruleNeighbors is R_pred/R_succ: every covered query neighbor of the
// query node must have a corresponding data edge, and, when induced, every
// covered data neighbor of the data node must have a corresponding query
// edge.
func (s *searchState[NodeLabel, EdgeLabel]) ruleNeighbors(p pair, dir Direction) bool {
	sourceTarget := func(node, neighbor NodeIndex) (NodeIndex, NodeIndex) {
		if dir == Outgoing {
			return node, neighbor
		}
		return neighbor, node
	}
	for neighbor := range s.query.graph.Neighbors(p.queryNode, dir) {
		if !s.query.isCovered(neighbor) {
			continue
		}
		mapped := s.query.mapping[neighbor]
		src, tgt := sourceTarget(p.dataNode, mapped)
		if !s.data.graph.ContainsEdge(src, tgt) {
			return false
		}
	}
	if !s.induced {
		return true
	}
	for neighbor := range s.data.graph.Neighbors(p.dataNode, dir) {
		if !s.data.isCovered(neighbor) {
			continue
		}
		mapped := s.data.mapping[neighbor]
		src, tgt := sourceTarget(p.queryNode, mapped)
		if !s.query.graph.ContainsEdge(src, tgt) {
			return false
		}
	}
	return true
}

// ruleIn is R_in from the VF2 paper. Always true here: the search stays
// correct without it, only slower on graphs large enough for the pruning
// to matter. A future implementer may add it without changing any
// contract or test output (see spec's Non-goals).
func (s *searchState[NodeLabel, EdgeLabel]) ruleIn(pair) bool { return true }

// ruleOut is R_out from the VF2 paper. See ruleIn.
func (s *searchState[NodeLabel, EdgeLabel]) ruleOut(pair) bool { return true }

// ruleNew is R_new from the VF2 paper. See ruleIn.
func (s *searchState[NodeLabel, EdgeLabel]) ruleNew(pair) bool { return true }

// feasibleSemantic is F_sem: node and edge label equality, when predicates
// are configured.
func (s *searchState[NodeLabel, EdgeLabel]) feasibleSemantic(p pair) bool {
	if !s.nodesEq(p) {
		return false
	}
	if s.isDirected() {
		return s.edgesEq(p, Incoming) && s.edgesEq(p, Outgoing)
	}
	return s.edgesEq(p, Incoming)
}

func (s *searchState[NodeLabel, EdgeLabel]) nodesEq(p pair) bool {
	if s.nodeEq == nil {
		return true
	}
	return s.nodeEq(s.query.nodeLabel(p.queryNode), s.data.nodeLabel(p.dataNode))
}

func (s *searchState[NodeLabel, EdgeLabel]) edgesEq(p pair, dir Direction) bool {
	if s.edgeEq == nil {
		return true
	}
	sourceTarget := func(node, neighbor NodeIndex) (NodeIndex, NodeIndex) {
		if dir == Outgoing {
			return node, neighbor
		}
		return neighbor, node
	}
	for neighbor := range s.query.graph.Neighbors(p.queryNode, dir) {
		if !s.query.isCovered(neighbor) {
			continue
		}
		querySrc, queryTgt := sourceTarget(p.queryNode, neighbor)
		mapped := s.query.mapping[neighbor]
		dataSrc, dataTgt := sourceTarget(p.dataNode, mapped)
		if !s.edgeEq(s.query.edgeLabel(querySrc, queryTgt), s.data.edgeLabel(dataSrc, dataTgt)) {
			return false
		}
	}
	return true
}

// queryMap returns the current query-side partial (or, once allCovered,
// complete) map. The returned slice is owned by s and must not be retained
// past the next push or pop.
func (s *searchState[NodeLabel, EdgeLabel]) queryMap() Isomorphism {
	return s.query.mapping
}

// allCovered reports whether every query node is mapped.
func (s *searchState[NodeLabel, EdgeLabel]) allCovered() bool {
	return s.depth == len(s.query.mapping)
}

func (s *searchState[NodeLabel, EdgeLabel]) isDirected() bool {
	return s.query.graph.IsDirected()
}
