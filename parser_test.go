package sumohelper

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
)

const sampleNetworkXML = `<?xml version="1.0" encoding="UTF-8"?>
<net version="1.9">
    <node id="A" x="0.0" y="0.0" lat="55.75" lon="37.60" type="traffic_light"/>
    <node id="B" x="[100.0]" y="0.0"/>
    <node id="C" x="200.0" y="['50.0']"/>
    <edge id="e1" from="A" to="B" numLanes="3" speed="[13.89]" length="100.5"/>
    <edge id="e2" from="B" to="C"/>
</net>`

func TestParseNetwork(t *testing.T) {
	parser := NewParser(WithNetworkID("sample"))
	net, err := parser.ParseNetwork(strings.NewReader(sampleNetworkXML))
	if err != nil {
		t.Fatalf("Parse should succeed, but got %v", err)
	}
	if net.ID != "sample" {
		t.Errorf("Network ID should be 'sample', but got '%s'", net.ID)
	}
	if len(net.Nodes) != 3 {
		t.Errorf("Number of nodes should be 3, but got %d", len(net.Nodes))
	}
	if len(net.Edges) != 2 {
		t.Errorf("Number of edges should be 2, but got %d", len(net.Edges))
	}

	nodeA, ok := net.Node("A")
	if !ok {
		t.Fatal("Node 'A' should be present")
	}
	if nodeA.ControlType != CONTROL_SIGNAL {
		t.Errorf("Node 'A' control type should be %v, but got %v", CONTROL_SIGNAL, nodeA.ControlType)
	}
	if !nodeA.HasGeo || nodeA.Lat != 55.75 || nodeA.Lon != 37.60 {
		t.Errorf("Node 'A' should carry geographic coordinates (55.75, 37.60), but got (%f, %f)", nodeA.Lat, nodeA.Lon)
	}
	nodeB, _ := net.Node("B")
	if nodeB.X != 100.0 {
		t.Errorf("Node 'B' X should be 100.0 after list coercion, but got %f", nodeB.X)
	}
	nodeC, _ := net.Node("C")
	if nodeC.Y != 50.0 {
		t.Errorf("Node 'C' Y should be 50.0 after quoted list coercion, but got %f", nodeC.Y)
	}

	e1, _ := net.Edge("e1")
	if e1.Lanes != 3 {
		t.Errorf("Edge 'e1' lanes should be 3, but got %d", e1.Lanes)
	}
	if e1.Speed != 13.89 {
		t.Errorf("Edge 'e1' speed should be 13.89, but got %f", e1.Speed)
	}
	if e1.Length != 100.5 {
		t.Errorf("Edge 'e1' length should be 100.5, but got %f", e1.Length)
	}
	e2, _ := net.Edge("e2")
	if e2.Lanes != DEFAULT_LANES_NUM {
		t.Errorf("Edge 'e2' lanes should default to %d, but got %d", DEFAULT_LANES_NUM, e2.Lanes)
	}
	if e2.Speed != DEFAULT_SPEED_LIMIT {
		t.Errorf("Edge 'e2' speed should default to %f, but got %f", DEFAULT_SPEED_LIMIT, e2.Speed)
	}
	if e2.Length != DEFAULT_EDGE_LENGTH {
		t.Errorf("Edge 'e2' length should default to %f, but got %f", DEFAULT_EDGE_LENGTH, e2.Length)
	}
}

func TestParseNetworkSkipsMalformed(t *testing.T) {
	data := `<net>
	<node id="A" x="0" y="0"/>
	<node id="" x="1" y="1"/>
	<node id="broken" x="nope" y="2"/>
	<node id="B" x="10" y="0"/>
	<edge id="e1" from="A" to="B"/>
	<edge id="e2" from="A" to="ghost"/>
	<edge id="" from="A" to="B"/>
</net>`
	net, err := NewParser().ParseNetwork(strings.NewReader(data))
	if err != nil {
		t.Fatalf("Liberal parse should succeed, but got %v", err)
	}
	if len(net.Nodes) != 2 {
		t.Errorf("Number of nodes should be 2, but got %d", len(net.Nodes))
	}
	if len(net.Edges) != 1 {
		t.Errorf("Number of edges should be 1, but got %d", len(net.Edges))
	}
	if _, ok := net.Edge("e2"); ok {
		t.Error("Edge 'e2' references a missing node and should have been dropped")
	}
}

func TestParseNetworkStrictMode(t *testing.T) {
	data := `<net>
	<node id="A" x="0" y="0"/>
	<node id="broken" x="nope" y="2"/>
</net>`
	_, err := NewParser(WithStrictMode(true)).ParseNetwork(strings.NewReader(data))
	if err == nil {
		t.Fatal("Strict parse should fail on a malformed node")
	}
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("Error should wrap ErrMalformedInput, but got %v", err)
	}
}

func TestParseNetworkEmpty(t *testing.T) {
	_, err := NewParser().ParseNetwork(strings.NewReader(`<net version="1.9"></net>`))
	if err == nil {
		t.Fatal("Parse of an empty description should fail")
	}
	if !errors.Is(err, ErrMalformedInput) {
		t.Errorf("Error should wrap ErrMalformedInput, but got %v", err)
	}
}

func TestCoerceFloat(t *testing.T) {
	cases := []struct {
		raw   string
		value float64
		valid bool
	}{
		{"13.89", 13.89, true},
		{"[13.89]", 13.89, true},
		{"['2']", 2.0, true},
		{"[2, 3]", 2.0, true},
		{"[\"4.5\"; 7]", 4.5, true},
		{" 42 ", 42.0, true},
		{"[]", 0.0, false},
		{"abc", 0.0, false},
		{"", 0.0, false},
	}
	for _, c := range cases {
		value, valid := coerceFloat(c.raw)
		if valid != c.valid || value != c.value {
			t.Errorf("coerceFloat(%q) should be (%f, %t), but got (%f, %t)", c.raw, c.value, c.valid, value, valid)
		}
	}
}

func TestNetworkIDFromFileName(t *testing.T) {
	cases := map[string]string{
		"map_40416_40406_-3697_-3707.net.xml": "map_40416_40406_-3697_-3707",
		"/data/networks/downtown.net.xml":     "downtown",
		"plain.xml":                           "plain",
		"noextension":                         "noextension",
	}
	for fileName, expected := range cases {
		if got := networkIDFromFileName(fileName); got != expected {
			t.Errorf("Network ID for '%s' should be '%s', but got '%s'", fileName, expected, got)
		}
	}
}
