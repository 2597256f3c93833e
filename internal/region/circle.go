package region

import (
	"fmt"
	"math"

	"github.com/astrokit/regions/internal/render"
	"github.com/astrokit/regions/internal/wcs"
	"github.com/astrokit/regions/pkg/core"
)

// PixelCircle is a circle in pixel coordinates. Center and Radius are
// fixed at construction; Meta and Visual are ordinary mutable maps and
// the caller owns any concurrent-access discipline around them.
type PixelCircle struct {
	Center core.PixCoord
	Radius float64 // pixels

	Meta   map[string]any
	Visual map[string]any
}

// NewPixelCircle creates a pixel-frame circle. The radius is not
// validated; a negative radius is a programmer error, matching the
// shape's construction contract.
func NewPixelCircle(center core.PixCoord, radius float64) *PixelCircle {
	return &PixelCircle{
		Center: center,
		Radius: radius,
		Meta:   map[string]any{},
		Visual: map[string]any{},
	}
}

// Area returns pi * r^2 in square pixels.
func (c *PixelCircle) Area() float64 {
	return math.Pi * c.Radius * c.Radius
}

// Contains reports whether p lies strictly inside the circle. A point
// exactly on the boundary is outside (open disk).
func (c *PixelCircle) Contains(p core.PixCoord) bool {
	return c.Center.Distance(p) < c.Radius
}

// ToSky is not implemented in this version; pixel-to-sky conversion is
// an explicit non-goal and always fails rather than approximating.
func (c *PixelCircle) ToSky(t wcs.Transform, mode Mode, tolerance float64) (SkyRegion, error) {
	return nil, fmt.Errorf("pixel-to-sky conversion: %w", ErrNotImplemented)
}

// ToMask rasterizes the circle into a pixel mask. Not implemented.
func (c *PixelCircle) ToMask(mode string) ([][]float64, error) {
	return nil, fmt.Errorf("mask rasterization: %w", ErrNotImplemented)
}

// AsPatch builds a drawable patch at the circle's center and radius,
// forwarding the given style options unchanged. Nothing is drawn here.
func (c *PixelCircle) AsPatch(style render.Style) *render.Patch {
	return render.NewCirclePatch(c.Center, c.Radius, style)
}

// SkyCircle is a circle on the sky: a celestial center and an angular
// radius. Meta and Visual follow the same mutable-map contract as
// PixelCircle.
type SkyCircle struct {
	Center core.SkyCoord
	Radius core.Angle

	Meta   map[string]any
	Visual map[string]any
}

// NewSkyCircle creates a sky-frame circle. The radius should be an
// angular quantity; this is not enforced here, but a non-angular radius
// makes the pixel conversion meaningless.
func NewSkyCircle(center core.SkyCoord, radius core.Angle) *SkyCircle {
	return &SkyCircle{
		Center: center,
		Radius: radius,
		Meta:   map[string]any{},
		Visual: map[string]any{},
	}
}

// Area returns pi * r^2 on the radius value, in the square of the
// radius unit. Dimensional consistency is the caller's responsibility.
func (s *SkyCircle) Area() float64 {
	return math.Pi * s.Radius.Value * s.Radius.Value
}

// Contains returns the angular separation between the circle's center
// and the given coordinate. Note that this reports a distance, not a
// boolean; callers wanting a containment test compare the result
// against Radius themselves.
func (s *SkyCircle) Contains(c core.SkyCoord) core.Angle {
	return s.Center.Separation(c)
}

// ToPixel converts the circle to a best-approximation pixel circle
// through the given world-coordinate transform.
//
// Only ModeLocal with zero tolerance is handled: the angular radius is
// multiplied by the local pixel scale at the transform's reference
// point, a locally-flat approximation that degrades for large radii or
// near projection singularities. The result starts with empty Meta and
// Visual maps.
func (s *SkyCircle) ToPixel(t wcs.Transform, mode Mode, tolerance float64) (PixelRegion, error) {
	if mode != ModeLocal {
		return nil, fmt.Errorf("conversion mode %q: %w", mode, ErrNotSupported)
	}
	if tolerance != 0 {
		return nil, fmt.Errorf("conversion tolerance %g: %w", tolerance, ErrNotSupported)
	}

	center, err := wcs.ToFrame(s.Center, t.CelestialFrame())
	if err != nil {
		return nil, err
	}
	pixCenter, err := t.WorldToPixel(center)
	if err != nil {
		return nil, err
	}

	radiusPix := s.Radius.Value
	if s.Radius.PhysicalType() == core.PhysicalAngle {
		scale, _, err := t.PixelScaleAt(t.ReferenceWorld())
		if err != nil {
			return nil, err
		}
		radiusPix = s.Radius.Degrees() * scale
	}
	// else: a pixel-unit radius on a sky shape should not be possible;
	// it passes through numerically unchanged.

	return NewPixelCircle(pixCenter, radiusPix), nil
}

// AsPatch builds a drawable patch positioned via the axes' coordinate
// transform. The circle's Visual entries are merged underneath the
// caller's style, so explicit style options always win per key.
func (s *SkyCircle) AsPatch(ax *render.Axes, style render.Style) (*render.Patch, error) {
	if ax == nil {
		return nil, fmt.Errorf("nil axes")
	}
	center, err := ax.Project(s.Center)
	if err != nil {
		return nil, err
	}
	scale, _, err := ax.Transform.PixelScaleAt(ax.Transform.ReferenceWorld())
	if err != nil {
		return nil, err
	}
	merged := render.Merged(style, s.Visual)
	return render.NewCirclePatch(center, s.Radius.Degrees()*scale, merged), nil
}

var (
	_ PixelRegion = (*PixelCircle)(nil)
	_ SkyRegion   = (*SkyCircle)(nil)
)
