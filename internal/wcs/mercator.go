package wcs

import (
	"fmt"
	"math"

	"github.com/wroge/wgs84"

	"github.com/astrokit/regions/pkg/core"
)

// webMercatorMetersPerDegree is the EPSG:3857 easting span of one degree
// of longitude.
const webMercatorMetersPerDegree = 20037508.342789244 / 180

// Mercator maps geodetic lon/lat to pixels on Web-Mercator-projected
// imagery. The projection mathematics are delegated to the wgs84 EPSG
// pipeline (4326 -> 3857); this type only scales and offsets the
// resulting planar meters into pixel space.
type Mercator struct {
	originPixel    core.PixCoord // pixel position of the reference coordinate
	refWorld       core.SkyCoord
	metersPerPixel float64

	forward func(a, b, c float64) (x, y, z float64)
	inverse func(x, y, z float64) (a, b, c float64)

	// 3857 easting/northing of the reference coordinate
	refX, refY float64
}

// NewMercator builds a Mercator mapping anchored so that refWorld falls
// on originPixel. metersPerPixel is the image resolution in projected
// meters.
func NewMercator(originPixel core.PixCoord, refWorld core.SkyCoord, metersPerPixel float64) (*Mercator, error) {
	if metersPerPixel <= 0 {
		return nil, fmt.Errorf("meters per pixel must be positive")
	}
	if refWorld.Frame != core.FrameGeodetic {
		return nil, fmt.Errorf("%w: mercator mapping requires %s coordinates",
			ErrUnsupportedFrame, core.FrameGeodetic)
	}
	epsg := wgs84.EPSG()
	forward := epsg.Transform(4326, 3857)
	inverse := epsg.Transform(3857, 4326)
	refX, refY, _ := forward(refWorld.Lon, refWorld.Lat, 0)
	return &Mercator{
		originPixel:    originPixel,
		refWorld:       refWorld,
		metersPerPixel: metersPerPixel,
		forward:        forward,
		inverse:        inverse,
		refX:           refX,
		refY:           refY,
	}, nil
}

func (m *Mercator) CelestialFrame() core.Frame {
	return core.FrameGeodetic
}

func (m *Mercator) ReferenceWorld() core.SkyCoord {
	return m.refWorld
}

func (m *Mercator) WorldToPixel(c core.SkyCoord) (core.PixCoord, error) {
	if c.Frame != core.FrameGeodetic {
		return core.PixCoord{}, fmt.Errorf("%w: coordinate in %s, mapping in %s",
			ErrUnsupportedFrame, c.Frame, core.FrameGeodetic)
	}
	x, y, _ := m.forward(c.Lon, c.Lat, 0)
	return core.PixCoord{
		X: m.originPixel.X + (x-m.refX)/m.metersPerPixel,
		Y: m.originPixel.Y + (y-m.refY)/m.metersPerPixel,
	}, nil
}

func (m *Mercator) PixelToWorld(p core.PixCoord) (core.SkyCoord, error) {
	x := m.refX + (p.X-m.originPixel.X)*m.metersPerPixel
	y := m.refY + (p.Y-m.originPixel.Y)*m.metersPerPixel
	lon, lat, _ := m.inverse(x, y, 0)
	return core.SkyCoord{Lon: lon, Lat: lat, Frame: core.FrameGeodetic}, nil
}

// PixelScaleAt reports the meridional pixel scale at the given
// coordinate. Web Mercator stretches with latitude, so unlike the
// affine mapping the result genuinely depends on the query point.
func (m *Mercator) PixelScaleAt(c core.SkyCoord) (scale, rotation float64, err error) {
	if c.Lat >= 90 || c.Lat <= -90 {
		return 0, 0, fmt.Errorf("pixel scale undefined at latitude %g", c.Lat)
	}
	cosLat := math.Cos(c.Lat * math.Pi / 180)
	scale = webMercatorMetersPerDegree / (cosLat * m.metersPerPixel)
	return scale, 0, nil
}

var _ Transform = (*Mercator)(nil)
