// Package wcs defines the world-coordinate-system capability consumed by
// the region shapes: resolving the celestial frame an image is mapped
// in, projecting sky coordinates to pixels and back, and reporting the
// local pixel scale used by the locally-flat conversion approximation.
package wcs

import (
	"errors"
	"fmt"

	"github.com/astrokit/regions/pkg/core"
)

// ErrUnsupportedFrame is returned when a frame conversion is requested
// that the toolkit does not perform (spherical frame rotations are
// delegated to external ephemeris tooling, not computed here).
var ErrUnsupportedFrame = errors.New("unsupported frame conversion")

// Transform maps between a celestial frame and image pixel coordinates.
type Transform interface {
	// CelestialFrame is the reference frame the mapping is defined in.
	CelestialFrame() core.Frame

	// ReferenceWorld is the sky coordinate of the mapping's reference
	// point (the analogue of a FITS CRVAL).
	ReferenceWorld() core.SkyCoord

	// WorldToPixel projects a sky coordinate to pixel coordinates.
	// The input must already be in CelestialFrame.
	WorldToPixel(c core.SkyCoord) (core.PixCoord, error)

	// PixelToWorld maps a pixel coordinate back to the sky.
	PixelToWorld(p core.PixCoord) (core.SkyCoord, error)

	// PixelScaleAt reports the local pixel scale (pixels per degree)
	// and rotation (degrees, east of north) at a sky coordinate.
	// Valid only as a locally-flat approximation near that point.
	PixelScaleAt(c core.SkyCoord) (scale, rotation float64, err error)
}

// ToFrame converts a sky coordinate into the target frame.
// Only the identity conversion and the ICRS/FK5 alias are handled;
// everything else fails with ErrUnsupportedFrame.
func ToFrame(c core.SkyCoord, target core.Frame) (core.SkyCoord, error) {
	if c.Frame == target {
		return c, nil
	}
	// FK5 at J2000 is within ~0.1" of ICRS, below the locally-flat
	// approximation error of the conversions built on this.
	if aliased(c.Frame, target) {
		c.Frame = target
		return c, nil
	}
	return core.SkyCoord{}, fmt.Errorf("%w: %s -> %s", ErrUnsupportedFrame, c.Frame, target)
}

func aliased(a, b core.Frame) bool {
	return (a == core.FrameICRS && b == core.FrameFK5) ||
		(a == core.FrameFK5 && b == core.FrameICRS)
}
