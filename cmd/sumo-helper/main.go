package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gsmkev/sumo-helper"
	"github.com/joho/godotenv"
)

var (
	netFileName = flag.String("file", "network.net.xml", "Filename of network description. *.net.xml files are parsed as plain networks, *.osm / *.xml / *.pbf files are imported as OpenStreetMap extracts")
	networkID   = flag.String("id", "", "Identifier of the network. Defaults to the file name. Identifiers of form 'map_<north>_<south>_<east>_<west>' (millidegrees) carry a geographic filter")
	tagStr      = flag.String("tags", "", "Set of needed highway tags for OSM import (separated by commas). Empty means drivable defaults")
	vehiclesNum = flag.Int("vehicles", 10, "Total number of vehicles to generate")
	horizon     = flag.Float64("horizon", 3600.0, "Simulation time in seconds")
	seed        = flag.Int64("seed", -1, "Random seed for route generation. Negative means time-based")
	distStr     = flag.String("dist", "car:100:yellow", "Vehicle distribution as 'type:percentage:color' entries (separated by commas). Percentages must sum up to 100")
	entriesStr  = flag.String("entries", "", "Entry edge identifiers (separated by commas). Empty means every detected entry point")
	exitsStr    = flag.String("exits", "", "Exit edge identifiers (separated by commas). Empty means every detected exit point")
	name        = flag.String("name", "simulation", "Name of the scenario")
	out         = flag.String("out", "scenario", "Output directory for the generated file bundle")
	geojsonOut  = flag.String("geojson", "", "Optional filename for a GeoJSON dump of the normalized network")
	verbose     = flag.Bool("verbose", false, "Print progress")
)

func main() {
	godotenv.Load()
	applyEnvDefaults()
	flag.Parse()

	net, err := loadNetwork()
	if err != nil {
		fmt.Println(err)
		return
	}

	if box, ok := sumohelper.BoundsFromNetworkID(net.ID); ok {
		before := len(net.Edges)
		net.FilterByBounds(box)
		if *verbose {
			fmt.Printf("Filtered network by bounds: %d -> %d edges\n", before, len(net.Edges))
		}
	}
	bounds := net.NormalizeCoordinates()
	if *verbose {
		stats := net.Statistics()
		fmt.Printf("Network '%s': %d nodes, %d edges, %d entry points, %d exit points\n", net.ID, stats.NodesNum, stats.EdgesNum, len(net.EntryPoints()), len(net.ExitPoints()))
	}

	if *geojsonOut != "" {
		body, err := net.MarshalGeoJSON()
		if err != nil {
			fmt.Println(err)
			return
		}
		if err := os.WriteFile(*geojsonOut, body, 0o644); err != nil {
			fmt.Println(err)
			return
		}
	}

	entryEdges := splitEdgeIDs(*entriesStr)
	if len(entryEdges) == 0 {
		for _, point := range net.EntryPoints() {
			entryEdges = append(entryEdges, point.ID)
		}
	}
	exitEdges := splitEdgeIDs(*exitsStr)
	if len(exitEdges) == 0 {
		for _, point := range net.ExitPoints() {
			exitEdges = append(exitEdges, point.ID)
		}
	}

	distribution, err := parseDistribution(*distStr)
	if err != nil {
		fmt.Println(err)
		return
	}

	options := []func(*sumohelper.RouteGenerator){
		sumohelper.WithTotalVehicles(*vehiclesNum),
		sumohelper.WithHorizon(*horizon),
		sumohelper.WithDistribution(distribution),
		sumohelper.WithEntryEdges(entryEdges),
		sumohelper.WithExitEdges(exitEdges),
		sumohelper.WithGenerationVerbose(*verbose),
	}
	if *seed >= 0 {
		options = append(options, sumohelper.WithRandomSeed(*seed))
	}
	generator := sumohelper.NewRouteGenerator(options...)

	st := time.Now()
	routes, err := generator.Generate(net)
	if err != nil {
		fmt.Println(err)
		return
	}
	if *verbose {
		fmt.Printf("Generated %d routes in %v\n", len(routes), time.Since(st))
	}

	scenario := &sumohelper.Scenario{
		Name:          *name,
		Network:       net,
		Bounds:        bounds,
		Routes:        routes,
		Horizon:       *horizon,
		TotalVehicles: *vehiclesNum,
		Distribution:  distribution,
		EntryEdges:    entryEdges,
		ExitEdges:     exitEdges,
		RandomSeed:    generator.Seed(),
	}

	bundle, err := sumohelper.Serialize(scenario)
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := bundle.WriteToDir(*out); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Written %d files to '%s'\n", len(bundle.Files), *out)
}

func loadNetwork() (*sumohelper.Network, error) {
	fname := *netFileName
	switch {
	case strings.HasSuffix(fname, ".net.xml"):
		parserOptions := []func(*sumohelper.Parser){sumohelper.WithVerbose(*verbose)}
		if *networkID != "" {
			parserOptions = append(parserOptions, sumohelper.WithNetworkID(*networkID))
		}
		parser := sumohelper.NewParser(parserOptions...)
		return parser.ParseNetworkFile(fname)
	default:
		id := *networkID
		if id == "" {
			id = strings.TrimSuffix(fname, ".osm.pbf")
			id = strings.TrimSuffix(id, ".pbf")
			id = strings.TrimSuffix(id, ".osm")
			id = strings.TrimSuffix(id, ".xml")
		}
		var tags []string
		if *tagStr != "" {
			tags = strings.Split(*tagStr, ",")
		}
		conf := sumohelper.NewOSMImportConfig(tags...)
		conf.Verbose = *verbose
		return sumohelper.ImportFromOSMFile(fname, id, conf)
	}
}

// parseDistribution reads 'type:percentage:color' entries
func parseDistribution(raw string) ([]sumohelper.VehicleDistribution, error) {
	distribution := []sumohelper.VehicleDistribution{}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 2 {
			return nil, fmt.Errorf("Distribution entry '%s' must be of form 'type:percentage:color'", entry)
		}
		percentage, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("Distribution entry '%s' has a broken percentage: %s", entry, err.Error())
		}
		color := "yellow"
		if len(parts) > 2 && parts[2] != "" {
			color = parts[2]
		}
		distribution = append(distribution, sumohelper.VehicleDistribution{
			VehicleType: parts[0],
			Percentage:  percentage,
			Color:       color,
		})
	}
	return distribution, nil
}

func splitEdgeIDs(raw string) []sumohelper.EdgeID {
	ids := []sumohelper.EdgeID{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			ids = append(ids, sumohelper.EdgeID(part))
		}
	}
	return ids
}

func applyEnvDefaults() {
	if v := os.Getenv("SUMO_HELPER_FILE"); v != "" {
		flag.Set("file", v)
	}
	if v := os.Getenv("SUMO_HELPER_OUT"); v != "" {
		flag.Set("out", v)
	}
	if v := os.Getenv("SUMO_HELPER_VEHICLES"); v != "" {
		flag.Set("vehicles", v)
	}
	if v := os.Getenv("SUMO_HELPER_HORIZON"); v != "" {
		flag.Set("horizon", v)
	}
	if v := os.Getenv("SUMO_HELPER_SEED"); v != "" {
		flag.Set("seed", v)
	}
}
