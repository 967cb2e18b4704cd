package sumohelper

// VehicleDistribution Share of the vehicle population assigned to one
// vehicle type. Percentages across one request must sum up to 100.
type VehicleDistribution struct {
	VehicleType string  `json:"vehicle_type"`
	Percentage  float64 `json:"percentage"`
	Color       string  `json:"color"`
	Period      float64 `json:"period"`
	Attributes  string  `json:"attributes,omitempty"`
}

// RouteAssignment Single vehicle with its shortest edge path and departure
// time. Always one vehicle, never a repeated flow. Edges are contiguous:
// each edge's target node is the next edge's source node.
type RouteAssignment struct {
	ID          string   `json:"id"`
	Edges       []EdgeID `json:"edges"`
	VehicleType string   `json:"vehicle_type"`
	DepartTime  float64  `json:"depart_time"`
	Color       string   `json:"color"`
}

// Scenario Full bundle of inputs for one export request: the network, the
// generated vehicle population, the simulation horizon and the selection
// which produced it. Built per request, serialized immediately, discarded.
type Scenario struct {
	Name          string
	Network       *Network
	Bounds        Bounds
	Routes        []RouteAssignment
	Horizon       float64
	TotalVehicles int
	Distribution  []VehicleDistribution
	EntryEdges    []EdgeID
	ExitEdges     []EdgeID
	RandomSeed    *int64
}
