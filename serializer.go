package sumohelper

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Names of the documents a serialized scenario bundle consists of. The
// external compilation and simulation tools expect exactly this set, and
// the run configuration cross-references the other documents by these
// names, so the set must stay stable.
const (
	FILE_NODES    = "nodes.nod.xml"
	FILE_EDGES    = "edges.edg.xml"
	FILE_ROUTES   = "routes.rou.xml"
	FILE_CONFIG   = "simulation.sumocfg"
	FILE_METADATA = "simulation_metadata.json"

	// compiledNetworkFile Name of the compiled network the run configuration
	// points at; producing it is the external network compiler's job
	compiledNetworkFile = "network.net.xml"
)

// BundleFile Single named document of a serialized scenario
type BundleFile struct {
	Name    string
	Content []byte
}

// Bundle Ordered set of documents produced for one scenario. Either every
// document rendered or the bundle does not exist; there is no partial state.
type Bundle struct {
	Files []BundleFile
}

// File returns the content of the named document
func (b *Bundle) File(name string) ([]byte, bool) {
	for i := range b.Files {
		if b.Files[i].Name == name {
			return b.Files[i].Content, true
		}
	}
	return nil, false
}

// WriteToDir writes every document of the bundle into the given directory
func (b *Bundle) WriteToDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "Can't create output directory")
	}
	for _, file := range b.Files {
		if err := os.WriteFile(filepath.Join(dir, file.Name), file.Content, 0o644); err != nil {
			return errors.Wrapf(err, "Can't write file '%s'", file.Name)
		}
	}
	return nil
}

// Serialize renders the scenario into the full document bundle, stamping the
// metadata document with the current time
func Serialize(scenario *Scenario) (*Bundle, error) {
	return SerializeAt(scenario, time.Now())
}

// SerializeAt renders the scenario into the full document bundle. Apart from
// the embedded creation timestamp the output is a pure function of the
// scenario, byte for byte.
func SerializeAt(scenario *Scenario, now time.Time) (*Bundle, error) {
	nodesDoc, err := renderNodesDocument(scenario.Network)
	if err != nil {
		return nil, errors.Wrap(err, "Can't render nodes document")
	}
	edgesDoc, err := renderEdgesDocument(scenario.Network)
	if err != nil {
		return nil, errors.Wrap(err, "Can't render edges document")
	}
	routesDoc, err := renderRoutesDocument(scenario.Routes)
	if err != nil {
		return nil, errors.Wrap(err, "Can't render routes document")
	}
	configDoc, err := renderConfigDocument(scenario.Horizon)
	if err != nil {
		return nil, errors.Wrap(err, "Can't render run configuration")
	}
	metadataDoc, err := renderMetadataDocument(scenario, now)
	if err != nil {
		return nil, errors.Wrap(err, "Can't render metadata document")
	}
	return &Bundle{Files: []BundleFile{
		{Name: FILE_NODES, Content: nodesDoc},
		{Name: FILE_EDGES, Content: edgesDoc},
		{Name: FILE_ROUTES, Content: routesDoc},
		{Name: FILE_CONFIG, Content: configDoc},
		{Name: FILE_METADATA, Content: metadataDoc},
	}}, nil
}

type xmlNodeRecord struct {
	ID   string `xml:"id,attr"`
	X    string `xml:"x,attr"`
	Y    string `xml:"y,attr"`
	Type string `xml:"type,attr"`
}

type xmlNodesDocument struct {
	XMLName xml.Name        `xml:"nodes"`
	Nodes   []xmlNodeRecord `xml:"node"`
}

func renderNodesDocument(net *Network) ([]byte, error) {
	doc := xmlNodesDocument{Nodes: make([]xmlNodeRecord, 0, len(net.Nodes))}
	for _, node := range net.Nodes {
		doc.Nodes = append(doc.Nodes, xmlNodeRecord{
			ID:   string(node.ID),
			X:    formatFloat(node.X),
			Y:    formatFloat(node.Y),
			Type: node.ControlType.String(),
		})
	}
	return marshalXMLDocument(doc)
}

type xmlEdgeRecord struct {
	ID    string `xml:"id,attr"`
	From  string `xml:"from,attr"`
	To    string `xml:"to,attr"`
	Lanes int    `xml:"numLanes,attr"`
	Speed string `xml:"speed,attr"`
}

type xmlEdgesDocument struct {
	XMLName xml.Name        `xml:"edges"`
	Edges   []xmlEdgeRecord `xml:"edge"`
}

// renderEdgesDocument skips, with a warning, any edge whose endpoints are
// missing from the network; a dangling reference spoils that edge only.
func renderEdgesDocument(net *Network) ([]byte, error) {
	doc := xmlEdgesDocument{Edges: make([]xmlEdgeRecord, 0, len(net.Edges))}
	for _, edge := range net.Edges {
		if _, ok := net.Node(edge.From); !ok {
			fmt.Printf("[WARNING]: Edge '%s' references missing node '%s', skipping\n", edge.ID, edge.From)
			continue
		}
		if _, ok := net.Node(edge.To); !ok {
			fmt.Printf("[WARNING]: Edge '%s' references missing node '%s', skipping\n", edge.ID, edge.To)
			continue
		}
		doc.Edges = append(doc.Edges, xmlEdgeRecord{
			ID:    string(edge.ID),
			From:  string(edge.From),
			To:    string(edge.To),
			Lanes: edge.Lanes,
			Speed: formatFloat(edge.Speed),
		})
	}
	return marshalXMLDocument(doc)
}

type xmlVehicleTypeRecord struct {
	ID       string `xml:"id,attr"`
	Accel    string `xml:"accel,attr"`
	Decel    string `xml:"decel,attr"`
	Sigma    string `xml:"sigma,attr"`
	Length   string `xml:"length,attr"`
	MinGap   string `xml:"minGap,attr"`
	MaxSpeed string `xml:"maxSpeed,attr"`
	GUIShape string `xml:"guiShape,attr"`
}

type xmlRouteRecord struct {
	ID    string `xml:"id,attr"`
	Edges string `xml:"edges,attr"`
}

type xmlVehicleRecord struct {
	ID     string `xml:"id,attr"`
	Type   string `xml:"type,attr"`
	Route  string `xml:"route,attr"`
	Depart string `xml:"depart,attr"`
	Color  string `xml:"color,attr,omitempty"`
}

type xmlRoutesDocument struct {
	XMLName  xml.Name               `xml:"routes"`
	Types    []xmlVehicleTypeRecord `xml:"vType"`
	Routes   []xmlRouteRecord       `xml:"route"`
	Vehicles []xmlVehicleRecord     `xml:"vehicle"`
}

// renderRoutesDocument emits the standard vehicle type preamble plus one
// route and one vehicle definition per assignment, ordered by ascending
// departure time. A vehicle definition carries only its type, route,
// departure time and color, whatever else an assignment may know.
func renderRoutesDocument(routes []RouteAssignment) ([]byte, error) {
	sorted := make([]RouteAssignment, len(routes))
	copy(sorted, routes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DepartTime < sorted[j].DepartTime
	})

	doc := xmlRoutesDocument{}
	for _, vt := range StandardVehicleTypes() {
		doc.Types = append(doc.Types, xmlVehicleTypeRecord{
			ID:       vt.ID,
			Accel:    formatFloat(vt.Accel),
			Decel:    formatFloat(vt.Decel),
			Sigma:    formatFloat(vt.Sigma),
			Length:   formatFloat(vt.Length),
			MinGap:   formatFloat(vt.MinGap),
			MaxSpeed: formatFloat(vt.MaxSpeed),
			GUIShape: vt.GUIShape,
		})
	}
	for _, assignment := range sorted {
		routeID := fmt.Sprintf("route_%s", assignment.ID)
		edgeIDs := make([]string, len(assignment.Edges))
		for i, edgeID := range assignment.Edges {
			edgeIDs[i] = string(edgeID)
		}
		doc.Routes = append(doc.Routes, xmlRouteRecord{
			ID:    routeID,
			Edges: strings.Join(edgeIDs, " "),
		})
		doc.Vehicles = append(doc.Vehicles, xmlVehicleRecord{
			ID:     assignment.ID,
			Type:   assignment.VehicleType,
			Route:  routeID,
			Depart: formatFloat(assignment.DepartTime),
			Color:  assignment.Color,
		})
	}
	return marshalXMLDocument(doc)
}

type xmlValueRecord struct {
	Value string `xml:"value,attr"`
}

type xmlConfigDocument struct {
	XMLName xml.Name `xml:"configuration"`
	Input   struct {
		NetFile    xmlValueRecord `xml:"net-file"`
		RouteFiles xmlValueRecord `xml:"route-files"`
	} `xml:"input"`
	Time struct {
		Begin xmlValueRecord `xml:"begin"`
		End   xmlValueRecord `xml:"end"`
	} `xml:"time"`
	Processing struct {
		IgnoreRouteErrors xmlValueRecord `xml:"ignore-route-errors"`
	} `xml:"processing"`
	Report struct {
		Verbose   xmlValueRecord `xml:"verbose"`
		NoStepLog xmlValueRecord `xml:"no-step-log"`
	} `xml:"report"`
}

// renderConfigDocument ties the compiled network and the routes document
// together. Route errors are downgraded to warnings so a routing
// inconsistency reports instead of aborting the run.
func renderConfigDocument(horizon float64) ([]byte, error) {
	doc := xmlConfigDocument{}
	doc.Input.NetFile.Value = compiledNetworkFile
	doc.Input.RouteFiles.Value = FILE_ROUTES
	doc.Time.Begin.Value = "0"
	doc.Time.End.Value = formatFloat(horizon)
	doc.Processing.IgnoreRouteErrors.Value = "true"
	doc.Report.Verbose.Value = "true"
	doc.Report.NoStepLog.Value = "true"
	return marshalXMLDocument(doc)
}

func marshalXMLDocument(doc interface{}) ([]byte, error) {
	body, err := xml.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, []byte(xml.Header)...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

