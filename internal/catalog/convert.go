// Package catalog persists circular regions to a relational database.
package catalog

import (
	"encoding/json"
	"fmt"

	geom "github.com/peterstace/simplefeatures/geom"
	"gorm.io/datatypes"

	"github.com/astrokit/regions/internal/region"
	"github.com/astrokit/regions/pkg/core"
)

// mapToJSON converts a properties map to datatypes.JSON for DB storage.
func mapToJSON(m map[string]any) datatypes.JSON {
	if len(m) == 0 {
		return datatypes.JSON("{}")
	}
	data, _ := json.Marshal(m)
	return datatypes.JSON(data)
}

// jsonToMap converts stored JSON back to a properties map.
func jsonToMap(data datatypes.JSON) map[string]any {
	m := map[string]any{}
	if len(data) > 0 {
		_ = json.Unmarshal(data, &m)
	}
	return m
}

func centerPoint(x, y float64) (geom.Point, error) {
	return geom.NewPoint(geom.Coordinates{XY: geom.XY{X: x, Y: y}})
}

// EntryFromSky converts a sky circle to its stored form. A non-finite
// center coordinate is rejected by the point constructor.
func EntryFromSky(name string, s *region.SkyCircle) (*Entry, error) {
	center, err := centerPoint(s.Center.Lon, s.Center.Lat)
	if err != nil {
		return nil, fmt.Errorf("center of entry %q: %w", name, err)
	}
	return &Entry{
		Name:        name,
		Frame:       string(s.Center.Frame),
		Center:      center,
		RadiusValue: s.Radius.Value,
		RadiusUnit:  string(s.Radius.Unit),
		Meta:        mapToJSON(s.Meta),
		Visual:      mapToJSON(s.Visual),
	}, nil
}

// EntryFromPixel converts a pixel circle to its stored form.
func EntryFromPixel(name string, c *region.PixelCircle) (*Entry, error) {
	center, err := centerPoint(c.Center.X, c.Center.Y)
	if err != nil {
		return nil, fmt.Errorf("center of entry %q: %w", name, err)
	}
	return &Entry{
		Name:        name,
		Frame:       FramePixel,
		Center:      center,
		RadiusValue: c.Radius,
		RadiusUnit:  string(core.UnitPixel),
		Meta:        mapToJSON(c.Meta),
		Visual:      mapToJSON(c.Visual),
	}, nil
}

// SkyCircle rebuilds the sky circle stored in the entry.
func (e *Entry) SkyCircle() (*region.SkyCircle, error) {
	if e.Frame == FramePixel {
		return nil, fmt.Errorf("entry %q holds a pixel region", e.Name)
	}
	coord, ok := e.Center.Coordinates()
	if !ok {
		return nil, fmt.Errorf("entry %q has an empty center point", e.Name)
	}
	s := region.NewSkyCircle(
		core.SkyCoord{Lon: coord.X, Lat: coord.Y, Frame: core.Frame(e.Frame)},
		core.Angle{Value: e.RadiusValue, Unit: core.AngleUnit(e.RadiusUnit)},
	)
	s.Meta = jsonToMap(e.Meta)
	s.Visual = jsonToMap(e.Visual)
	return s, nil
}

// PixelCircle rebuilds the pixel circle stored in the entry.
func (e *Entry) PixelCircle() (*region.PixelCircle, error) {
	if e.Frame != FramePixel {
		return nil, fmt.Errorf("entry %q holds a sky region in frame %s", e.Name, e.Frame)
	}
	coord, ok := e.Center.Coordinates()
	if !ok {
		return nil, fmt.Errorf("entry %q has an empty center point", e.Name)
	}
	c := region.NewPixelCircle(core.PixCoord{X: coord.X, Y: coord.Y}, e.RadiusValue)
	c.Meta = jsonToMap(e.Meta)
	c.Visual = jsonToMap(e.Visual)
	return c, nil
}
