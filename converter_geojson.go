package sumohelper

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// ToGeoJSON returns the network as a GeoJSON feature collection. Edges
// become LineString features with their road attributes, nodes become
// Point features. Nodes without geographic coordinates fall back to the
// planar pair.
func (net *Network) ToGeoJSON() *geojson.FeatureCollection {
	collection := geojson.NewFeatureCollection()
	for _, node := range net.Nodes {
		coords := []float64{node.X, node.Y}
		if node.HasGeo {
			coords = []float64{node.Lon, node.Lat}
		}
		feature := geojson.NewPointFeature(coords)
		feature.SetProperty("id", string(node.ID))
		feature.SetProperty("type", node.ControlType.String())
		collection.AddFeature(feature)
	}
	for _, edge := range net.Edges {
		pts := make([][]float64, len(edge.Shape))
		for i, pt := range edge.Shape {
			pts[i] = []float64{pt.X(), pt.Y()}
		}
		feature := geojson.NewLineStringFeature(pts)
		feature.SetProperty("id", string(edge.ID))
		feature.SetProperty("from", string(edge.From))
		feature.SetProperty("to", string(edge.To))
		feature.SetProperty("lanes", edge.Lanes)
		feature.SetProperty("speed", edge.Speed)
		feature.SetProperty("length", edge.Length)
		collection.AddFeature(feature)
	}
	return collection
}

// MarshalGeoJSON renders the network as a GeoJSON document
func (net *Network) MarshalGeoJSON() ([]byte, error) {
	body, err := net.ToGeoJSON().MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can not convert network to geojson format")
	}
	return body, nil
}
