// Package core provides the frame-agnostic value types shared by the
// region shapes, coordinate transforms and serialization layers.
package core

import "math"

// Frame names a celestial reference frame.
type Frame string

const (
	FrameICRS     Frame = "icrs"
	FrameFK5      Frame = "fk5"
	FrameGalactic Frame = "galactic"

	// FrameGeodetic marks Earth lon/lat coordinates, used when regions
	// annotate geographically mapped imagery rather than the sky.
	FrameGeodetic Frame = "geodetic"
)

// PixCoord is a 2D point in image pixel coordinates.
type PixCoord struct {
	X float64 `json:"x"` // column
	Y float64 `json:"y"` // row
}

// Distance returns the Euclidean distance to another pixel coordinate.
func (p PixCoord) Distance(other PixCoord) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// SkyCoord is a point on the celestial sphere in a named reference frame.
// Lon and Lat are in degrees.
type SkyCoord struct {
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
	Frame Frame   `json:"frame"`
}

// Separation returns the on-sky angular separation to another coordinate,
// in degrees. Uses the haversine form, which is stable for small angles.
// The other coordinate is assumed to be in the same frame; no frame
// conversion is attempted here.
func (c SkyCoord) Separation(other SkyCoord) Angle {
	lat1 := c.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (other.Lon - c.Lon) * math.Pi / 180

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	if h > 1 {
		h = 1
	}
	rad := 2 * math.Asin(math.Sqrt(h))
	return Angle{Value: rad * 180 / math.Pi, Unit: UnitDegree}
}
