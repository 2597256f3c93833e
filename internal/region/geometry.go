package region

import (
	"fmt"
	"math"

	geom "github.com/peterstace/simplefeatures/geom"
)

// ToGeometry approximates the circle as a closed polygon with the given
// number of segments, for interoperability with planar geometry
// tooling (set operations, WKB/WKT export). segments must be at least 3.
func (c *PixelCircle) ToGeometry(segments int) (geom.Geometry, error) {
	if segments < 3 {
		return geom.Geometry{}, fmt.Errorf("polygon approximation needs at least 3 segments, got %d", segments)
	}

	coords := make([]float64, 0, 2*(segments+1))
	for i := 0; i <= segments; i++ {
		// i%segments closes the ring on the exact first vertex
		theta := 2 * math.Pi * float64(i%segments) / float64(segments)
		coords = append(coords,
			c.Center.X+c.Radius*math.Cos(theta),
			c.Center.Y+c.Radius*math.Sin(theta),
		)
	}

	ring, err := geom.NewLineString(geom.NewSequence(coords, geom.DimXY))
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("circle outline ring: %w", err)
	}
	poly, err := geom.NewPolygon([]geom.LineString{ring})
	if err != nil {
		return geom.Geometry{}, fmt.Errorf("invalid polygon approximation: %w", err)
	}
	return poly.AsGeometry(), nil
}
