package sumohelper

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
	"github.com/pkg/errors"
)

// OSMScanner Wrapper around XML and PBF scanners
type OSMScanner interface {
	Scan() bool
	Close() error
	Err() error
	Object() osm.Object
}

// OSMImportConfig Filter applied to ways while reading an OSM extract.
// Only ways whose `highway` tag appears in HighwayTags become edges.
type OSMImportConfig struct {
	HighwayTags map[string]struct{}
	Verbose     bool
}

// NewOSMImportConfig returns a config accepting the given highway tag
// values. With no tags every drivable default is accepted.
func NewOSMImportConfig(tags ...string) OSMImportConfig {
	conf := OSMImportConfig{HighwayTags: make(map[string]struct{})}
	if len(tags) == 0 {
		tags = []string{"motorway", "trunk", "primary", "secondary", "tertiary", "residential", "unclassified", "motorway_link", "trunk_link", "primary_link", "secondary_link", "tertiary_link", "living_street"}
	}
	for _, tag := range tags {
		conf.HighwayTags[strings.TrimSpace(tag)] = struct{}{}
	}
	return conf
}

func (conf OSMImportConfig) checkHighwayTag(value string) bool {
	_, ok := conf.HighwayTags[value]
	return ok
}

type osmWayData struct {
	id       osm.WayID
	nodes    []osm.NodeID
	oneway   bool
	lanes    int
	maxSpeed float64
}

type osmNodeData struct {
	lat      float64
	lon      float64
	isSignal bool
}

// ImportFromOSMFile reads an OSM extract (XML or PBF, guessed from the
// file extension) and builds a planar network from its road graph
func ImportFromOSMFile(filename string, networkID string, conf OSMImportConfig) (*Network, error) {
	if conf.Verbose {
		fmt.Printf("Opening file: '%s'...\n", filename)
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var scanner OSMScanner
	// Guess file extension and prepare correct scanner
	ext := filepath.Ext(filename)
	switch ext {
	case ".osm", ".xml":
		scanner = osmxml.New(context.Background(), file)
	case ".pbf", ".osm.pbf":
		scanner = osmpbf.New(context.Background(), file, 4)
	default:
		return nil, fmt.Errorf("File extension '%s' for file '%s' is not handled yet", ext, filename)
	}
	defer scanner.Close()
	return importFromScanner(scanner, networkID, conf)
}

// ImportFromOSMReader reads an OSM XML stream and builds a planar network
func ImportFromOSMReader(reader io.Reader, networkID string, conf OSMImportConfig) (*Network, error) {
	scanner := osmxml.New(context.Background(), reader)
	defer scanner.Close()
	return importFromScanner(scanner, networkID, conf)
}

func importFromScanner(scanner OSMScanner, networkID string, conf OSMImportConfig) (*Network, error) {
	if conf.Verbose {
		fmt.Printf("\tProcessing nodes and ways... ")
	}
	st := time.Now()

	nodes := make(map[osm.NodeID]osmNodeData)
	ways := []osmWayData{}
	for scanner.Scan() {
		obj := scanner.Object()
		switch obj.ObjectID().Type() {
		case "node":
			node := obj.(*osm.Node)
			nodes[node.ID] = osmNodeData{
				lat:      node.Lat,
				lon:      node.Lon,
				isSignal: node.Tags.Find("highway") == "traffic_signals",
			}
		case "way":
			way := obj.(*osm.Way)
			if !conf.checkHighwayTag(way.Tags.Find("highway")) {
				continue
			}
			if len(way.Nodes) < 2 {
				continue
			}
			prepared := osmWayData{
				id:       way.ID,
				nodes:    make([]osm.NodeID, 0, len(way.Nodes)),
				oneway:   isOnewayWay(way),
				lanes:    DEFAULT_LANES_NUM,
				maxSpeed: DEFAULT_SPEED_LIMIT,
			}
			for _, wayNode := range way.Nodes {
				prepared.nodes = append(prepared.nodes, wayNode.ID)
			}
			if lanes, ok := coerceFloat(way.Tags.Find("lanes")); ok && lanes >= 1 {
				prepared.lanes = int(lanes)
			}
			if maxSpeed, ok := coerceFloat(way.Tags.Find("maxspeed")); ok && maxSpeed > 0 {
				// OSM carries km/h, edges carry m/s
				prepared.maxSpeed = maxSpeed / 3.6
			}
			ways = append(ways, prepared)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "Scanner error")
	}
	if conf.Verbose {
		fmt.Printf("Done in %v\n\tWays: %d\n", time.Since(st), len(ways))
	}
	if len(ways) == 0 {
		return nil, errors.Wrap(ErrMalformedInput, "no drivable ways found")
	}
	return buildNetworkFromWays(networkID, nodes, ways)
}

func isOnewayWay(way *osm.Way) bool {
	switch way.Tags.Find("oneway") {
	case "yes", "1", "-1":
		return true
	}
	switch way.Tags.Find("junction") {
	case "roundabout", "circular":
		return true
	}
	return false
}

func buildNetworkFromWays(networkID string, nodes map[osm.NodeID]osmNodeData, ways []osmWayData) (*Network, error) {
	net := NewNetwork(networkID)

	// Projection origin is the centroid of the used nodes
	used := make(map[osm.NodeID]struct{})
	originLat, originLon := 0.0, 0.0
	for _, way := range ways {
		for _, nodeID := range way.nodes {
			if _, ok := used[nodeID]; ok {
				continue
			}
			node, found := nodes[nodeID]
			if !found {
				continue
			}
			used[nodeID] = struct{}{}
			originLat += node.lat
			originLon += node.lon
		}
	}
	if len(used) == 0 {
		return nil, errors.Wrap(ErrMalformedInput, "ways reference no known nodes")
	}
	originLat /= float64(len(used))
	originLon /= float64(len(used))
	projection := newLocalProjection(originLon, originLat)

	for _, way := range ways {
		for segment := 0; segment < len(way.nodes)-1; segment++ {
			fromOSM, toOSM := way.nodes[segment], way.nodes[segment+1]
			from, fromFound := nodes[fromOSM]
			to, toFound := nodes[toOSM]
			if !fromFound || !toFound {
				fmt.Printf("[WARNING]: Way '%d' references a missing node, skipping segment\n", way.id)
				continue
			}
			fromID := ensureOSMNode(net, projection, fromOSM, from)
			toID := ensureOSMNode(net, projection, toOSM, to)
			length := greatCircleDistance(orb.Point{from.lon, from.lat}, orb.Point{to.lon, to.lat}) * 1000.0
			length = math.Round(length*100.0) / 100.0
			if length <= 0 {
				length = DEFAULT_EDGE_LENGTH
			}
			forward := &Edge{
				ID:     EdgeID(fmt.Sprintf("edge_%d_%s_%s", way.id, fromID, toID)),
				From:   fromID,
				To:     toID,
				Lanes:  way.lanes,
				Speed:  way.maxSpeed,
				Length: length,
				Shape:  orb.LineString{{from.lon, from.lat}, {to.lon, to.lat}},
			}
			if err := net.AddEdge(forward); err != nil {
				return nil, err
			}
			if !way.oneway {
				backward := &Edge{
					ID:     EdgeID(fmt.Sprintf("edge_%d_%s_%s", way.id, toID, fromID)),
					From:   toID,
					To:     fromID,
					Lanes:  way.lanes,
					Speed:  way.maxSpeed,
					Length: length,
					Shape:  orb.LineString{{to.lon, to.lat}, {from.lon, from.lat}},
				}
				if err := net.AddEdge(backward); err != nil {
					return nil, err
				}
			}
		}
	}
	return net, nil
}

func ensureOSMNode(net *Network, projection localProjection, osmID osm.NodeID, data osmNodeData) NodeID {
	id := NodeID(fmt.Sprintf("%d", osmID))
	if _, found := net.Node(id); found {
		return id
	}
	x, y := projection.project(data.lon, data.lat)
	controlType := CONTROL_PRIORITY
	if data.isSignal {
		controlType = CONTROL_SIGNAL
	}
	net.AddNode(&Node{
		ID:          id,
		X:           x,
		Y:           y,
		Lat:         data.lat,
		Lon:         data.lon,
		HasGeo:      true,
		ControlType: controlType,
	})
	return id
}
