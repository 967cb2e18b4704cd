package sumohelper

import (
	"testing"
)

func TestBoundsFromNetworkID(t *testing.T) {
	box, ok := BoundsFromNetworkID("map_40416_40406_-3697_-3707")
	if !ok {
		t.Fatal("Bounds should be recognized in the identifier")
	}
	expected := BoundingBox{North: 40.416, South: 40.406, East: -3.697, West: -3.707}
	if box != expected {
		t.Errorf("Bounding box should be %v, but got %v", expected, box)
	}
}

func TestBoundsFromNetworkIDSwapped(t *testing.T) {
	// Values arriving in the wrong order must be re-ordered
	box, ok := BoundsFromNetworkID("map_40406_40416_-3707_-3697")
	if !ok {
		t.Fatal("Bounds should be recognized in the identifier")
	}
	expected := BoundingBox{North: 40.416, South: 40.406, East: -3.697, West: -3.707}
	if box != expected {
		t.Errorf("Bounding box should be %v, but got %v", expected, box)
	}
}

func TestBoundsFromNetworkIDNoMatch(t *testing.T) {
	if _, ok := BoundsFromNetworkID("downtown"); ok {
		t.Error("Identifier without encoded bounds should not produce a bounding box")
	}
}

func TestNormalizeCoordinates(t *testing.T) {
	net := NewNetwork("test")
	net.AddNode(&Node{ID: "A", X: 0.0, Y: 0.0})
	net.AddNode(&Node{ID: "B", X: 10.0, Y: 5.0})
	net.AddNode(&Node{ID: "C", X: 20.0, Y: 10.0})

	bounds := net.NormalizeCoordinates()
	expected := Bounds{Xmin: -100.0, Ymin: -100.0, Xmax: 100.0, Ymax: 100.0}
	if bounds != expected {
		t.Errorf("Declared bounds should be %v, but got %v", expected, bounds)
	}

	// Width 20, height 10; the uniform scale is 200/20 = 10
	nodeA, _ := net.Node("A")
	if nodeA.X != -100.0 || nodeA.Y != -50.0 {
		t.Errorf("Node 'A' should land on (-100, -50), but got (%f, %f)", nodeA.X, nodeA.Y)
	}
	nodeB, _ := net.Node("B")
	if nodeB.X != 0.0 || nodeB.Y != 0.0 {
		t.Errorf("Node 'B' should land on (0, 0), but got (%f, %f)", nodeB.X, nodeB.Y)
	}
	nodeC, _ := net.Node("C")
	if nodeC.X != 100.0 || nodeC.Y != 50.0 {
		t.Errorf("Node 'C' should land on (100, 50), but got (%f, %f)", nodeC.X, nodeC.Y)
	}
}

func TestNormalizeCoordinatesDegenerate(t *testing.T) {
	net := NewNetwork("line")
	net.AddNode(&Node{ID: "A", X: 5.0, Y: 7.0})
	net.AddNode(&Node{ID: "B", X: 15.0, Y: 7.0})

	bounds := net.NormalizeCoordinates()
	expected := Bounds{Xmin: 5.0, Ymin: 7.0, Xmax: 15.0, Ymax: 7.0}
	if bounds != expected {
		t.Errorf("Degenerate bounds should be raw %v, but got %v", expected, bounds)
	}
	nodeA, _ := net.Node("A")
	if nodeA.X != 5.0 || nodeA.Y != 7.0 {
		t.Errorf("Degenerate extent should leave node 'A' at (5, 7), but got (%f, %f)", nodeA.X, nodeA.Y)
	}
}

func TestNormalizeCoordinatesEmpty(t *testing.T) {
	net := NewNetwork("empty")
	bounds := net.NormalizeCoordinates()
	if bounds != (Bounds{}) {
		t.Errorf("Bounds of an empty network should be zero, but got %v", bounds)
	}
}

func TestFilterByBounds(t *testing.T) {
	net := NewNetwork("test")
	net.AddNode(&Node{ID: "in1", X: 0, Y: 0, Lat: 40.410, Lon: -3.700, HasGeo: true})
	net.AddNode(&Node{ID: "in2", X: 1, Y: 1, Lat: 40.412, Lon: -3.701, HasGeo: true})
	net.AddNode(&Node{ID: "out", X: 2, Y: 2, Lat: 41.000, Lon: -3.700, HasGeo: true})
	net.AddNode(&Node{ID: "planar", X: 3, Y: 3})
	if err := net.AddEdge(&Edge{ID: "kept", From: "in1", To: "in2"}); err != nil {
		t.Fatal(err)
	}
	if err := net.AddEdge(&Edge{ID: "dropped", From: "in2", To: "out"}); err != nil {
		t.Fatal(err)
	}

	net.FilterByBounds(BoundingBox{North: 40.416, South: 40.406, East: -3.697, West: -3.707})

	if len(net.Nodes) != 2 {
		t.Errorf("Number of nodes after filtering should be 2, but got %d", len(net.Nodes))
	}
	if _, ok := net.Node("out"); ok {
		t.Error("Node 'out' lies outside the bounds and should have been dropped")
	}
	if _, ok := net.Node("planar"); ok {
		t.Error("Node 'planar' has no geographic coordinates and should have been dropped")
	}
	if len(net.Edges) != 1 {
		t.Errorf("Number of edges after filtering should be 1, but got %d", len(net.Edges))
	}
	if _, ok := net.Edge("dropped"); ok {
		t.Error("Edge 'dropped' lost an endpoint and should have been dropped")
	}
}
