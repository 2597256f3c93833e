// Package render is the drawing side of the toolkit: drawable patch
// descriptions built from region shapes, style handling, and a
// gg-backed canvas that rasterizes patches to an image.
package render

import (
	"fmt"

	"github.com/astrokit/regions/internal/wcs"
	"github.com/astrokit/regions/pkg/core"
)

// Style holds rendering attributes for a patch. Recognized keys are
// "color" (hex string), "linewidth" (float64), "fill" (bool) and
// "alpha" (float64); unknown keys are carried but ignored by the
// canvas.
type Style map[string]any

// Merged returns the caller style with default entries filled in for
// keys the caller did not set. Caller-supplied values always win.
func Merged(caller Style, defaults map[string]any) Style {
	out := make(Style, len(caller)+len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range caller {
		out[k] = v
	}
	return out
}

// Patch is a drawable circle positioned in canvas pixel coordinates.
// Constructing a patch has no side effects; nothing is drawn until a
// canvas consumes it.
type Patch struct {
	Center core.PixCoord
	Radius float64
	Style  Style
}

// NewCirclePatch builds a circular patch at center with the given
// radius, forwarding arbitrary style options.
func NewCirclePatch(center core.PixCoord, radius float64, style Style) *Patch {
	if style == nil {
		style = Style{}
	}
	return &Patch{Center: center, Radius: radius, Style: style}
}

// Axes is a plotting surface bound to a coordinate transform, so that
// sky-frame shapes can position their patches through it.
type Axes struct {
	Transform wcs.Transform
}

// NewAxes binds axes to a world-coordinate transform.
func NewAxes(t wcs.Transform) *Axes {
	return &Axes{Transform: t}
}

// Project maps a sky coordinate onto the axes' pixel plane, converting
// into the transform's frame first.
func (a *Axes) Project(c core.SkyCoord) (core.PixCoord, error) {
	if a.Transform == nil {
		return core.PixCoord{}, fmt.Errorf("axes have no transform bound")
	}
	cc, err := wcs.ToFrame(c, a.Transform.CelestialFrame())
	if err != nil {
		return core.PixCoord{}, err
	}
	return a.Transform.WorldToPixel(cc)
}
