package sumohelper

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	earthRadius     = 6370.986884258304
	pi180           = math.Pi / 180.0
	pi180Rev        = 180.0 / math.Pi
	metersPerDegree = 111000.0
)

// degreesToRadians deg = r * pi / 180
func degreesToRadians(d float64) float64 {
	return d * pi180
}

// radiansToDegrees r = deg * 180 / pi
func radiansToDegrees(d float64) float64 {
	return d * pi180Rev
}

// greatCircleDistance returns distance between two geographic points (kilometers).
// Points are (lon, lat) pairs.
func greatCircleDistance(p, q orb.Point) float64 {
	lat1 := degreesToRadians(p.Lat())
	lon1 := degreesToRadians(p.Lon())
	lat2 := degreesToRadians(q.Lat())
	lon2 := degreesToRadians(q.Lon())
	diffLat := lat2 - lat1
	diffLon := lon2 - lon1
	a := math.Pow(math.Sin(diffLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(diffLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return c * earthRadius
}

// planarDistance returns Euclidean distance between two planar points
func planarDistance(p, q orb.Point) float64 {
	xdistance := p.X() - q.X()
	ydistance := p.Y() - q.Y()
	return math.Sqrt(xdistance*xdistance + ydistance*ydistance)
}

// localProjection Equirectangular projection of geographic coordinates onto
// local planar meters around a fixed origin
/*
	One degree of latitude spans roughly 111 000 meters; one degree of
	longitude shrinks with the cosine of the latitude. Good enough at the
	scale of a city district, which is the working range of this tool.
*/
type localProjection struct {
	originLat float64
	originLon float64
	lonScale  float64
}

// newLocalProjection prepares projection centered at the given geographic origin
func newLocalProjection(originLon, originLat float64) localProjection {
	return localProjection{
		originLat: originLat,
		originLon: originLon,
		lonScale:  metersPerDegree * math.Abs(math.Cos(degreesToRadians(originLat))),
	}
}

// project maps (lon, lat) onto planar meters, rounded to centimeters to keep
// coordinate text stable across platforms
func (proj localProjection) project(lon, lat float64) (float64, float64) {
	x := (lon - proj.originLon) * proj.lonScale
	y := (lat - proj.originLat) * metersPerDegree
	return roundCoord(x), roundCoord(y)
}

func roundCoord(v float64) float64 {
	return math.Round(v*100.0) / 100.0
}
