package sumohelper

import (
	"math"
	"strings"
	"testing"
)

const sampleOSMXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
    <node id="1" lat="55.7500" lon="37.6000"/>
    <node id="2" lat="55.7510" lon="37.6000">
        <tag k="highway" v="traffic_signals"/>
    </node>
    <node id="3" lat="55.7520" lon="37.6000"/>
    <way id="100">
        <nd ref="1"/>
        <nd ref="2"/>
        <tag k="highway" v="residential"/>
        <tag k="oneway" v="yes"/>
        <tag k="maxspeed" v="36"/>
        <tag k="lanes" v="3"/>
    </way>
    <way id="101">
        <nd ref="2"/>
        <nd ref="3"/>
        <tag k="highway" v="residential"/>
    </way>
    <way id="102">
        <nd ref="1"/>
        <nd ref="3"/>
        <tag k="highway" v="footway"/>
    </way>
</osm>`

func TestImportFromOSMReader(t *testing.T) {
	conf := NewOSMImportConfig("residential")
	net, err := ImportFromOSMReader(strings.NewReader(sampleOSMXML), "osm_test", conf)
	if err != nil {
		t.Fatalf("Import should succeed, but got %v", err)
	}
	if net.ID != "osm_test" {
		t.Errorf("Network ID should be 'osm_test', but got '%s'", net.ID)
	}
	if len(net.Nodes) != 3 {
		t.Errorf("Number of nodes should be 3, but got %d", len(net.Nodes))
	}
	// One directed edge for the oneway way, a twin pair for the other;
	// the footway is filtered out
	if len(net.Edges) != 3 {
		t.Fatalf("Number of edges should be 3, but got %d", len(net.Edges))
	}

	forward, ok := net.Edge("edge_100_1_2")
	if !ok {
		t.Fatal("Edge 'edge_100_1_2' should be present")
	}
	if _, ok := net.Edge("edge_100_2_1"); ok {
		t.Error("Oneway way should not produce a reverse edge")
	}
	if forward.Lanes != 3 {
		t.Errorf("Lanes should be taken from the way tag as 3, but got %d", forward.Lanes)
	}
	// 36 km/h is 10 m/s
	if math.Abs(forward.Speed-10.0) > 1e-9 {
		t.Errorf("Speed should be 10.0 m/s, but got %f", forward.Speed)
	}
	if forward.Length < 100.0 || forward.Length > 125.0 {
		t.Errorf("A millidegree of latitude should span roughly 111 meters, but got %f", forward.Length)
	}

	if _, ok := net.Edge("edge_101_2_3"); !ok {
		t.Error("Edge 'edge_101_2_3' should be present")
	}
	backward, ok := net.Edge("edge_101_3_2")
	if !ok {
		t.Fatal("Two-way way should produce a reverse edge")
	}
	if backward.Lanes != DEFAULT_LANES_NUM {
		t.Errorf("Lanes should default to %d, but got %d", DEFAULT_LANES_NUM, backward.Lanes)
	}
	if backward.Speed != DEFAULT_SPEED_LIMIT {
		t.Errorf("Speed should default to %f, but got %f", DEFAULT_SPEED_LIMIT, backward.Speed)
	}

	signal, ok := net.Node("2")
	if !ok {
		t.Fatal("Node '2' should be present")
	}
	if signal.ControlType != CONTROL_SIGNAL {
		t.Errorf("Node '2' control type should be %v, but got %v", CONTROL_SIGNAL, signal.ControlType)
	}
	plain, _ := net.Node("1")
	if plain.ControlType != CONTROL_PRIORITY {
		t.Errorf("Node '1' control type should be %v, but got %v", CONTROL_PRIORITY, plain.ControlType)
	}
	if !plain.HasGeo {
		t.Error("Imported nodes should keep geographic coordinates")
	}
}

func TestImportFromOSMReaderNoWays(t *testing.T) {
	data := `<osm version="0.6"><node id="1" lat="55.75" lon="37.6"/></osm>`
	_, err := ImportFromOSMReader(strings.NewReader(data), "empty", NewOSMImportConfig())
	if err == nil {
		t.Fatal("Import without drivable ways should fail")
	}
}

func TestOSMImportConfigTags(t *testing.T) {
	conf := NewOSMImportConfig("residential", " primary ")
	if !conf.checkHighwayTag("residential") {
		t.Error("Tag 'residential' should be accepted")
	}
	if !conf.checkHighwayTag("primary") {
		t.Error("Tag 'primary' should be accepted after trimming")
	}
	if conf.checkHighwayTag("footway") {
		t.Error("Tag 'footway' should not be accepted")
	}
	defaults := NewOSMImportConfig()
	if !defaults.checkHighwayTag("motorway") || !defaults.checkHighwayTag("residential") {
		t.Error("Default tag set should accept common drivable classes")
	}
}
