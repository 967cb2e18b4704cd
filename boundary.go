package sumohelper

// BoundaryPoint Traffic source or sink of the network, derived from the
// dangling endpoint of an edge. The coordinate is the dangling node's one;
// when the node can not be resolved the point is still emitted at the
// origin, since downstream selection works on edge identifiers.
type BoundaryPoint struct {
	ID EdgeID  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// EntryPoints returns edges usable as vehicle insertion points: an edge is
// an entry point when its source node has no incoming edges at all.
func (net *Network) EntryPoints() []BoundaryPoint {
	inDegree := make(map[NodeID]int, len(net.Nodes))
	for _, edge := range net.Edges {
		inDegree[edge.To]++
	}
	points := make([]BoundaryPoint, 0)
	for _, edge := range net.Edges {
		if inDegree[edge.From] != 0 {
			continue
		}
		point := BoundaryPoint{ID: edge.ID}
		if node, ok := net.Node(edge.From); ok {
			point.X = node.X
			point.Y = node.Y
		}
		points = append(points, point)
	}
	return points
}

// ExitPoints returns edges usable as vehicle removal points: an edge is an
// exit point when its target node has no outgoing edges at all.
func (net *Network) ExitPoints() []BoundaryPoint {
	outDegree := make(map[NodeID]int, len(net.Nodes))
	for _, edge := range net.Edges {
		outDegree[edge.From]++
	}
	points := make([]BoundaryPoint, 0)
	for _, edge := range net.Edges {
		if outDegree[edge.To] != 0 {
			continue
		}
		point := BoundaryPoint{ID: edge.ID}
		if node, ok := net.Node(edge.To); ok {
			point.X = node.X
			point.Y = node.Y
		}
		points = append(points, point)
	}
	return points
}
