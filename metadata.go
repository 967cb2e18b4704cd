package sumohelper

import (
	"encoding/json"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// SimulationMetadata Self-contained snapshot of a scenario. A consumer
// holding only this document can rebuild the network, the selected entry
// and exit points, the distribution and every route assignment without
// re-running the route generator.
type SimulationMetadata struct {
	SimulationInfo   SimulationInfo    `json:"simulation_info"`
	NetworkData      NetworkData       `json:"network_data"`
	Nodes            []MetadataNode    `json:"nodes"`
	Edges            []MetadataEdge    `json:"edges"`
	SimulationConfig SimulationConfig  `json:"simulation_config"`
	SelectedPoints   SelectedPoints    `json:"selected_points"`
	Routes           []RouteAssignment `json:"routes"`
}

// SimulationInfo General information about the exported scenario
type SimulationInfo struct {
	Name         string   `json:"name"`
	CreatedAt    string   `json:"created_at"`
	Generator    string   `json:"generator"`
	Instructions []string `json:"reconstruction_instructions"`
}

// NetworkData Identification and extent of the exported network
type NetworkData struct {
	ID        string `json:"id"`
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
	Bounds    Bounds `json:"bounds"`
}

// MetadataNode Snapshot of one network node
type MetadataNode struct {
	ID   string   `json:"id"`
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	Lat  *float64 `json:"lat"`
	Lon  *float64 `json:"lon"`
	Type string   `json:"type"`
}

// MetadataEdge Snapshot of one network edge, flagged with the boundary role
// it played in the caller's selection
type MetadataEdge struct {
	ID           string      `json:"id"`
	From         string      `json:"from"`
	To           string      `json:"to"`
	Lanes        int         `json:"lanes"`
	Speed        float64     `json:"speed"`
	Length       float64     `json:"length"`
	Shape        [][]float64 `json:"shape"`
	IsEntryPoint bool        `json:"is_entry_point"`
	IsExitPoint  bool        `json:"is_exit_point"`
}

// SimulationConfig Run parameters the scenario was generated with
type SimulationConfig struct {
	SimulationTime float64               `json:"simulation_time"`
	TotalVehicles  int                   `json:"total_vehicles"`
	RandomSeed     *int64                `json:"random_seed"`
	Distribution   []VehicleDistribution `json:"vehicle_distribution"`
}

// SelectedPoints Entry and exit edge identifiers the caller selected
type SelectedPoints struct {
	EntryPoints []string `json:"entry_points"`
	ExitPoints  []string `json:"exit_points"`
}

var reconstructionInstructions = []string{
	"Compile " + FILE_NODES + " and " + FILE_EDGES + " into " + compiledNetworkFile + " with netconvert --node-files " + FILE_NODES + " --edge-files " + FILE_EDGES + " --output-file " + compiledNetworkFile + " --no-turnarounds",
	"Run the simulation with sumo-gui -c " + FILE_CONFIG,
	"Alternatively rebuild every document from this file alone: nodes, edges, routes and run parameters are all embedded here",
}

// BuildMetadata assembles the metadata document for the scenario, stamped
// with the given creation time
func BuildMetadata(scenario *Scenario, now time.Time) *SimulationMetadata {
	entrySet := make(map[EdgeID]bool, len(scenario.EntryEdges))
	for _, id := range scenario.EntryEdges {
		entrySet[id] = true
	}
	exitSet := make(map[EdgeID]bool, len(scenario.ExitEdges))
	for _, id := range scenario.ExitEdges {
		exitSet[id] = true
	}

	meta := &SimulationMetadata{
		SimulationInfo: SimulationInfo{
			Name:         scenario.Name,
			CreatedAt:    now.UTC().Format(time.RFC3339),
			Generator:    "sumo-helper",
			Instructions: reconstructionInstructions,
		},
		NetworkData: NetworkData{
			ID:        scenario.Network.ID,
			NodeCount: len(scenario.Network.Nodes),
			EdgeCount: len(scenario.Network.Edges),
			Bounds:    scenario.Bounds,
		},
		SimulationConfig: SimulationConfig{
			SimulationTime: scenario.Horizon,
			TotalVehicles:  scenario.TotalVehicles,
			RandomSeed:     scenario.RandomSeed,
			Distribution:   scenario.Distribution,
		},
		SelectedPoints: SelectedPoints{
			EntryPoints: edgeIDStrings(scenario.EntryEdges),
			ExitPoints:  edgeIDStrings(scenario.ExitEdges),
		},
		Routes: scenario.Routes,
	}

	for _, node := range scenario.Network.Nodes {
		record := MetadataNode{
			ID:   string(node.ID),
			X:    node.X,
			Y:    node.Y,
			Type: node.ControlType.String(),
		}
		if node.HasGeo {
			lat, lon := node.Lat, node.Lon
			record.Lat = &lat
			record.Lon = &lon
		}
		meta.Nodes = append(meta.Nodes, record)
	}
	for _, edge := range scenario.Network.Edges {
		shape := make([][]float64, len(edge.Shape))
		for i, pt := range edge.Shape {
			shape[i] = []float64{pt.X(), pt.Y()}
		}
		meta.Edges = append(meta.Edges, MetadataEdge{
			ID:           string(edge.ID),
			From:         string(edge.From),
			To:           string(edge.To),
			Lanes:        edge.Lanes,
			Speed:        edge.Speed,
			Length:       edge.Length,
			Shape:        shape,
			IsEntryPoint: entrySet[edge.ID],
			IsExitPoint:  exitSet[edge.ID],
		})
	}
	return meta
}

func edgeIDStrings(ids []EdgeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func renderMetadataDocument(scenario *Scenario, now time.Time) ([]byte, error) {
	body, err := json.MarshalIndent(BuildMetadata(scenario, now), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(body, '\n'), nil
}

// ParseMetadata reads a metadata document back
func ParseMetadata(data []byte) (*SimulationMetadata, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrMalformedInput, "empty metadata document")
	}
	var meta SimulationMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(ErrMalformedInput, "broken metadata document: %v", err)
	}
	if meta.NetworkData.ID == "" && len(meta.Nodes) == 0 && len(meta.Edges) == 0 {
		return nil, errors.Wrap(ErrMalformedInput, "metadata document carries no network snapshot")
	}
	return &meta, nil
}

// Scenario rebuilds a full scenario from the metadata document alone
func (meta *SimulationMetadata) Scenario() (*Scenario, error) {
	net := NewNetwork(meta.NetworkData.ID)
	for _, record := range meta.Nodes {
		node := &Node{
			ID:          NodeID(record.ID),
			X:           record.X,
			Y:           record.Y,
			ControlType: ControlTypeFromString(record.Type),
		}
		if record.Lat != nil && record.Lon != nil {
			node.Lat = *record.Lat
			node.Lon = *record.Lon
			node.HasGeo = true
		}
		net.AddNode(node)
	}
	var entryEdges, exitEdges []EdgeID
	for _, record := range meta.Edges {
		shape := make(orb.LineString, len(record.Shape))
		for i, pt := range record.Shape {
			if len(pt) != 2 {
				return nil, errors.Wrapf(ErrMalformedInput, "edge '%s' carries a broken shape point", record.ID)
			}
			shape[i] = orb.Point{pt[0], pt[1]}
		}
		edge := &Edge{
			ID:     EdgeID(record.ID),
			From:   NodeID(record.From),
			To:     NodeID(record.To),
			Lanes:  record.Lanes,
			Speed:  record.Speed,
			Length: record.Length,
			Shape:  shape,
		}
		if err := net.AddEdge(edge); err != nil {
			return nil, err
		}
		if record.IsEntryPoint {
			entryEdges = append(entryEdges, edge.ID)
		}
		if record.IsExitPoint {
			exitEdges = append(exitEdges, edge.ID)
		}
	}

	// Selected points are authoritative when present; the per-edge flags
	// cover documents trimmed by hand.
	if len(meta.SelectedPoints.EntryPoints) > 0 {
		entryEdges = make([]EdgeID, 0, len(meta.SelectedPoints.EntryPoints))
		for _, id := range meta.SelectedPoints.EntryPoints {
			entryEdges = append(entryEdges, EdgeID(id))
		}
	}
	if len(meta.SelectedPoints.ExitPoints) > 0 {
		exitEdges = make([]EdgeID, 0, len(meta.SelectedPoints.ExitPoints))
		for _, id := range meta.SelectedPoints.ExitPoints {
			exitEdges = append(exitEdges, EdgeID(id))
		}
	}

	return &Scenario{
		Name:          meta.SimulationInfo.Name,
		Network:       net,
		Bounds:        meta.NetworkData.Bounds,
		Routes:        meta.Routes,
		Horizon:       meta.SimulationConfig.SimulationTime,
		TotalVehicles: meta.SimulationConfig.TotalVehicles,
		Distribution:  meta.SimulationConfig.Distribution,
		EntryEdges:    entryEdges,
		ExitEdges:     exitEdges,
		RandomSeed:    meta.SimulationConfig.RandomSeed,
	}, nil
}
