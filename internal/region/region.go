// Package region models regions of interest on astronomical images as
// value objects in either the pixel frame or a celestial frame. Shapes
// are siblings behind the PixelRegion/SkyRegion interfaces so that
// later variants (ellipse, polygon, box) slot in via interface
// dispatch. Coordinate transforms and rendering are injected
// capabilities, never computed here.
package region

import (
	"errors"

	"github.com/astrokit/regions/internal/render"
	"github.com/astrokit/regions/internal/wcs"
	"github.com/astrokit/regions/pkg/core"
)

// ErrNotImplemented marks an operation deliberately left unimplemented
// in this version. It is surfaced immediately and never retried.
var ErrNotImplemented = errors.New("operation not implemented")

// ErrNotSupported marks a syntactically valid option the current
// conversion algorithm does not handle.
var ErrNotSupported = errors.New("option not supported")

// Mode selects the frame-conversion algorithm.
type Mode string

const (
	// ModeLocal uses the locally-flat pixel-scale approximation. It is
	// the only mode the conversion currently implements.
	ModeLocal Mode = "local"

	ModeGlobal Mode = "global"
)

// PixelRegion is a shape defined in image pixel coordinates.
type PixelRegion interface {
	// Area returns the shape's area in square pixels.
	Area() float64

	// Contains reports whether the point lies strictly inside the
	// shape (boundary excluded).
	Contains(p core.PixCoord) bool

	// ToSky converts the shape to the celestial frame of the given
	// transform.
	ToSky(t wcs.Transform, mode Mode, tolerance float64) (SkyRegion, error)

	// AsPatch builds a drawable patch for the shape.
	AsPatch(style render.Style) *render.Patch
}

// SkyRegion is a shape defined in a celestial coordinate frame.
type SkyRegion interface {
	// Area returns the shape's area in the square of its radius unit.
	Area() float64

	// ToPixel converts the shape to an approximate pixel-frame shape
	// through the given world-coordinate transform.
	ToPixel(t wcs.Transform, mode Mode, tolerance float64) (PixelRegion, error)

	// AsPatch builds a drawable patch positioned through the axes'
	// bound transform.
	AsPatch(ax *render.Axes, style render.Style) (*render.Patch, error)
}
