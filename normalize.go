package sumohelper

import (
	"regexp"
	"strconv"

	"github.com/paulmach/orb"
)

// viewportHalfWidth Half-width of the square viewport the planar
// coordinates are rescaled into for display
const viewportHalfWidth = 100.0

// Bounds Planar bounding box of a network in display coordinates
type Bounds struct {
	Xmin float64 `json:"xmin"`
	Ymin float64 `json:"ymin"`
	Xmax float64 `json:"xmax"`
	Ymax float64 `json:"ymax"`
}

// BoundingBox Geographic bounding box (degrees)
type BoundingBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Contains reports whether the geographic point lies inside the box
func (box BoundingBox) Contains(lon, lat float64) bool {
	return box.West <= lon && lon <= box.East && box.South <= lat && lat <= box.North
}

var networkIDBounds = regexp.MustCompile(`map_(-?\d+)_(-?\d+)_(-?\d+)_(-?\d+)`)

// BoundsFromNetworkID reconstructs the geographic bounding box encoded in a
// network identifier of the form map_<north>_<south>_<east>_<west>, each
// value being degrees multiplied by 1000. Values are re-ordered so that
// north >= south and east >= west.
func BoundsFromNetworkID(networkID string) (BoundingBox, bool) {
	m := networkIDBounds.FindStringSubmatch(networkID)
	if m == nil {
		return BoundingBox{}, false
	}
	parts := make([]float64, 4)
	for i := 0; i < 4; i++ {
		v, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return BoundingBox{}, false
		}
		parts[i] = float64(v) / 1000.0
	}
	north, south, east, west := parts[0], parts[1], parts[2], parts[3]
	if south > north {
		north, south = south, north
	}
	if west > east {
		east, west = west, east
	}
	return BoundingBox{North: north, South: south, East: east, West: west}, true
}

// FilterByBounds drops nodes whose geographic coordinates fall outside the
// box (nodes without geographic coordinates are dropped too), then drops
// edges with either endpoint gone. Meant to run at build time, before the
// network is published.
func (net *Network) FilterByBounds(box BoundingBox) {
	keptNodes := make([]*Node, 0, len(net.Nodes))
	nodesIndex := make(map[NodeID]*Node, len(net.Nodes))
	for _, node := range net.Nodes {
		if !node.HasGeo || !box.Contains(node.Lon, node.Lat) {
			continue
		}
		keptNodes = append(keptNodes, node)
		nodesIndex[node.ID] = node
	}
	keptEdges := make([]*Edge, 0, len(net.Edges))
	edgesIndex := make(map[EdgeID]*Edge, len(net.Edges))
	for _, edge := range net.Edges {
		if _, ok := nodesIndex[edge.From]; !ok {
			continue
		}
		if _, ok := nodesIndex[edge.To]; !ok {
			continue
		}
		keptEdges = append(keptEdges, edge)
		edgesIndex[edge.ID] = edge
	}
	net.Nodes = keptNodes
	net.Edges = keptEdges
	net.nodesIndex = nodesIndex
	net.edgesIndex = edgesIndex
}

// NormalizeCoordinates rescales planar node coordinates onto the square
// viewport [-100, 100] x [-100, 100], centered at the bounding box midpoint
// with a single uniform scale factor, and returns the declared bounds.
/*
	A degenerate bounding box (zero extent on either axis, e.g. a single
	node or a perfectly straight line of nodes) leaves coordinates untouched
	and declares the raw min/max. Coordinates are mutated in place, so any
	cache sharing networks across callers must hand out copies before
	normalizing.
*/
func (net *Network) NormalizeCoordinates() Bounds {
	if len(net.Nodes) == 0 {
		return Bounds{}
	}
	box := orb.Bound{
		Min: orb.Point{net.Nodes[0].X, net.Nodes[0].Y},
		Max: orb.Point{net.Nodes[0].X, net.Nodes[0].Y},
	}
	for _, node := range net.Nodes[1:] {
		box = box.Extend(orb.Point{node.X, node.Y})
	}

	width := box.Max.X() - box.Min.X()
	height := box.Max.Y() - box.Min.Y()
	if width <= 0 || height <= 0 {
		return Bounds{Xmin: box.Min.X(), Ymin: box.Min.Y(), Xmax: box.Max.X(), Ymax: box.Max.Y()}
	}

	scale := 2 * viewportHalfWidth / width
	if s := 2 * viewportHalfWidth / height; s < scale {
		scale = s
	}
	for _, node := range net.Nodes {
		node.X = (node.X - box.Min.X() - width/2) * scale
		node.Y = (node.Y - box.Min.Y() - height/2) * scale
	}
	return Bounds{
		Xmin: -viewportHalfWidth,
		Ymin: -viewportHalfWidth,
		Xmax: viewportHalfWidth,
		Ymax: viewportHalfWidth,
	}
}
