package sumohelper

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// flexFloat Attribute value which may arrive as a scalar or as a
// single-element list rendered by upstream tooling (e.g. "[13.89]" or
// "['2']"). Resolved to a plain scalar right here at the parse boundary so
// the rest of the engine never sees the list form.
type flexFloat struct {
	value float64
	valid bool
}

func (f *flexFloat) UnmarshalXMLAttr(attr xml.Attr) error {
	f.value, f.valid = coerceFloat(attr.Value)
	return nil
}

// coerceFloat resolves a scalar-or-list attribute text to a float64
func coerceFloat(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") && len(s) >= 2 {
		s = strings.TrimSpace(s[1 : len(s)-1])
		if idx := strings.IndexAny(s, ",;"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.Trim(s, "'\" ")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0.0, false
	}
	return v, true
}

type xmlNodeElement struct {
	ID   string    `xml:"id,attr"`
	X    flexFloat `xml:"x,attr"`
	Y    flexFloat `xml:"y,attr"`
	Lat  flexFloat `xml:"lat,attr"`
	Lon  flexFloat `xml:"lon,attr"`
	Kind string    `xml:"type,attr"`
}

type xmlEdgeElement struct {
	ID     string    `xml:"id,attr"`
	From   string    `xml:"from,attr"`
	To     string    `xml:"to,attr"`
	Lanes  flexFloat `xml:"numLanes,attr"`
	Speed  flexFloat `xml:"speed,attr"`
	Length flexFloat `xml:"length,attr"`
}

// ParseNetworkFile reads a network description from the given file
func (parser *Parser) ParseNetworkFile(fileName string) (*Network, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Can't open network description")
	}
	defer file.Close()
	if parser.networkID == "" {
		parser.networkID = networkIDFromFileName(fileName)
	}
	return parser.ParseNetwork(file)
}

func networkIDFromFileName(fileName string) string {
	base := fileName
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	base = strings.TrimSuffix(base, ".net.xml")
	base = strings.TrimSuffix(base, ".xml")
	return base
}

// ParseNetwork reads a network description and produces a routable network.
// Individual malformed elements are skipped with a warning; a description
// with no node or edge payload at all fails with ErrMalformedInput.
func (parser *Parser) ParseNetwork(r io.Reader) (*Network, error) {
	if parser.verbose {
		fmt.Printf("Reading network description... ")
	}
	st := time.Now()

	nodeElements, edgeElements, err := collectNetworkElements(r)
	if err != nil {
		return nil, err
	}
	if len(nodeElements) == 0 && len(edgeElements) == 0 {
		return nil, errors.Wrap(ErrMalformedInput, "no node or edge elements found")
	}

	net := NewNetwork(parser.networkID)

	for _, el := range nodeElements {
		node, reason := parser.prepareNode(el)
		if node == nil {
			if parser.strictMode {
				return nil, errors.Wrapf(ErrMalformedInput, "node '%s': %s", el.ID, reason)
			}
			fmt.Printf("[WARNING]: Node '%s' %s, skipping\n", el.ID, reason)
			continue
		}
		net.AddNode(node)
	}

	for _, el := range edgeElements {
		edge, reason := parser.prepareEdge(el, net)
		if edge == nil {
			if parser.strictMode {
				return nil, errors.Wrapf(ErrMalformedInput, "edge '%s': %s", el.ID, reason)
			}
			fmt.Printf("[WARNING]: Edge '%s' %s, skipping\n", el.ID, reason)
			continue
		}
		if err := net.AddEdge(edge); err != nil {
			if parser.strictMode {
				return nil, err
			}
			fmt.Printf("[WARNING]: %s, skipping\n", err.Error())
		}
	}

	if parser.verbose {
		fmt.Printf("Done in %v: %d nodes, %d edges\n", time.Since(st), len(net.Nodes), len(net.Edges))
	}
	return net, nil
}

// collectNetworkElements scans the XML stream and collects node and edge
// elements wherever they are nested
func collectNetworkElements(r io.Reader) ([]xmlNodeElement, []xmlEdgeElement, error) {
	decoder := xml.NewDecoder(r)
	var nodeElements []xmlNodeElement
	var edgeElements []xmlEdgeElement
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(ErrMalformedInput, "broken XML stream: %v", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "node":
			var el xmlNodeElement
			if err := decoder.DecodeElement(&el, &se); err != nil {
				return nil, nil, errors.Wrapf(ErrMalformedInput, "broken node element: %v", err)
			}
			nodeElements = append(nodeElements, el)
		case "edge":
			var el xmlEdgeElement
			if err := decoder.DecodeElement(&el, &se); err != nil {
				return nil, nil, errors.Wrapf(ErrMalformedInput, "broken edge element: %v", err)
			}
			edgeElements = append(edgeElements, el)
		}
	}
	return nodeElements, edgeElements, nil
}

// prepareNode resolves a node element. Returns nil and the skip reason when
// a required attribute is absent.
func (parser *Parser) prepareNode(el xmlNodeElement) (*Node, string) {
	if el.ID == "" {
		return nil, "has no identifier"
	}
	if !el.X.valid || !el.Y.valid {
		return nil, "has missing coordinates"
	}
	node := &Node{
		ID:          NodeID(el.ID),
		X:           el.X.value,
		Y:           el.Y.value,
		ControlType: ControlTypeFromString(el.Kind),
	}
	if el.Lat.valid && el.Lon.valid {
		node.Lat = el.Lat.value
		node.Lon = el.Lon.value
		node.HasGeo = true
	}
	return node, ""
}

// prepareEdge resolves an edge element against already collected nodes.
// Optional attributes fall back to parser defaults; a missing endpoint node
// means the edge can not carry a shape and is dropped.
func (parser *Parser) prepareEdge(el xmlEdgeElement, net *Network) (*Edge, string) {
	if el.ID == "" || el.From == "" || el.To == "" {
		return nil, "has missing attributes"
	}
	fromNode, okFrom := net.Node(NodeID(el.From))
	toNode, okTo := net.Node(NodeID(el.To))
	if !okFrom || !okTo {
		return nil, "has missing node coordinates"
	}

	lanes := parser.defaultLanes
	if el.Lanes.valid {
		lanes = int(el.Lanes.value)
	}
	if lanes < 1 {
		lanes = 1
	}
	speed := parser.defaultSpeed
	if el.Speed.valid && el.Speed.value > 0 {
		speed = el.Speed.value
	}
	length := parser.defaultLength
	if el.Length.valid && el.Length.value > 0 {
		length = el.Length.value
	}

	return &Edge{
		ID:     EdgeID(el.ID),
		From:   NodeID(el.From),
		To:     NodeID(el.To),
		Lanes:  lanes,
		Speed:  speed,
		Length: length,
		Shape:  edgeShape(fromNode, toNode),
	}, ""
}

// edgeShape derives the two-point polyline for an edge, preferring the
// geographic coordinates of both endpoints over the planar ones
func edgeShape(fromNode, toNode *Node) orb.LineString {
	if fromNode.HasGeo && toNode.HasGeo {
		return orb.LineString{
			orb.Point{fromNode.Lon, fromNode.Lat},
			orb.Point{toNode.Lon, toNode.Lat},
		}
	}
	return orb.LineString{
		orb.Point{fromNode.X, fromNode.Y},
		orb.Point{toNode.X, toNode.Y},
	}
}
