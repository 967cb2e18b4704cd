package sumohelper

import (
	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// NodeID Identifier of a junction in the road network
type NodeID string

// EdgeID Identifier of a directed road segment
type EdgeID string

// ControlType Type of traffic control at a junction
type ControlType uint16

const (
	CONTROL_PRIORITY = ControlType(iota + 1)
	CONTROL_SIGNAL
)

// String returns text representation of control type. The zero value reads
// as priority control, same as the parse fallback.
func (iotaIdx ControlType) String() string {
	if iotaIdx == CONTROL_SIGNAL {
		return "traffic_light"
	}
	return "priority"
}

// ControlTypeFromString returns control type for its text representation.
// Unknown values fall back to priority control.
func ControlTypeFromString(s string) ControlType {
	if s == "traffic_light" {
		return CONTROL_SIGNAL
	}
	return CONTROL_PRIORITY
}

// Node Junction of the road network
/*
	X/Y are projected planar coordinates (meters, or viewport units after
	normalization). Lat/Lon are optional geographic coordinates kept around
	for re-projection and bounding-box filtering; HasGeo tells whether they
	were present in the source description.
*/
type Node struct {
	ID          NodeID
	X           float64
	Y           float64
	Lat         float64
	Lon         float64
	HasGeo      bool
	ControlType ControlType
}

// Edge Directed road segment between two junctions
/*
	Single direction only: a two-way street arrives as two edges. Shape is a
	two-point polyline derived from the endpoint coordinates, geographic when
	both endpoints carry them and planar otherwise.
*/
type Edge struct {
	ID     EdgeID
	From   NodeID
	To     NodeID
	Lanes  int
	Speed  float64
	Length float64
	Shape  orb.LineString
}

// Network Routable road graph extracted from a network description
/*
	Nodes and edges keep their source order so every derived document is
	reproducible byte for byte. Edges reference nodes by identifier; the
	index maps resolve lookups. A network is built once and must not be
	mutated after it has been published to concurrent callers.
*/
type Network struct {
	ID    string
	Nodes []*Node
	Edges []*Edge

	nodesIndex map[NodeID]*Node
	edgesIndex map[EdgeID]*Edge
}

// NewNetwork returns an empty network with the given identifier
func NewNetwork(id string) *Network {
	return &Network{
		ID:         id,
		nodesIndex: make(map[NodeID]*Node),
		edgesIndex: make(map[EdgeID]*Edge),
	}
}

// AddNode appends the node to the network, replacing a previous node carrying the same identifier
func (net *Network) AddNode(node *Node) {
	if _, ok := net.nodesIndex[node.ID]; ok {
		for i := range net.Nodes {
			if net.Nodes[i].ID == node.ID {
				net.Nodes[i] = node
				break
			}
		}
		net.nodesIndex[node.ID] = node
		return
	}
	net.Nodes = append(net.Nodes, node)
	net.nodesIndex[node.ID] = node
}

// AddEdge appends the edge to the network. Both endpoints must have been added already.
func (net *Network) AddEdge(edge *Edge) error {
	if _, ok := net.nodesIndex[edge.From]; !ok {
		return errors.Wrapf(ErrUnresolvedReference, "edge '%s' source node '%s'", edge.ID, edge.From)
	}
	if _, ok := net.nodesIndex[edge.To]; !ok {
		return errors.Wrapf(ErrUnresolvedReference, "edge '%s' target node '%s'", edge.ID, edge.To)
	}
	if _, ok := net.edgesIndex[edge.ID]; !ok {
		net.Edges = append(net.Edges, edge)
	}
	net.edgesIndex[edge.ID] = edge
	return nil
}

// Node returns the node carrying the given identifier
func (net *Network) Node(id NodeID) (*Node, bool) {
	node, ok := net.nodesIndex[id]
	return node, ok
}

// Edge returns the edge carrying the given identifier
func (net *Network) Edge(id EdgeID) (*Edge, bool) {
	edge, ok := net.edgesIndex[id]
	return edge, ok
}

// arc Outgoing connection used by the path search
type arc struct {
	to   NodeID
	edge EdgeID
}

// adjacency builds node -> outgoing arcs in edge insertion order.
// Neighbor order is what keeps equal-length path tie-breaks reproducible.
func (net *Network) adjacency() map[NodeID][]arc {
	adj := make(map[NodeID][]arc, len(net.Nodes))
	for _, edge := range net.Edges {
		adj[edge.From] = append(adj[edge.From], arc{to: edge.To, edge: edge.ID})
	}
	return adj
}

// NetworkStatistics Aggregate figures over a road network
type NetworkStatistics struct {
	NodesNum     int     `json:"node_count"`
	EdgesNum     int     `json:"edge_count"`
	TotalLength  float64 `json:"total_length"`
	AverageSpeed float64 `json:"average_speed"`
	Density      float64 `json:"density"`
}

// Statistics evaluates aggregate figures for the network
func (net *Network) Statistics() NetworkStatistics {
	stats := NetworkStatistics{
		NodesNum: len(net.Nodes),
		EdgesNum: len(net.Edges),
	}
	for _, edge := range net.Edges {
		stats.TotalLength += edge.Length
		stats.AverageSpeed += edge.Speed
	}
	if stats.EdgesNum > 0 {
		stats.AverageSpeed /= float64(stats.EdgesNum)
	}
	if stats.NodesNum > 0 {
		stats.Density = float64(stats.EdgesNum) / float64(stats.NodesNum)
	} else {
		stats.Density = float64(stats.EdgesNum)
	}
	return stats
}
