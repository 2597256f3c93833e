package wcs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/astrokit/regions/pkg/core"
)

// Affine is a locally-flat world-coordinate mapping: sky offsets from a
// reference coordinate relate to pixel offsets from a reference pixel
// through a 2x2 matrix of degrees per pixel (the FITS CD convention).
// It deliberately performs no spherical projection; it is only valid
// for small fields away from the poles, which is exactly the regime the
// local-scale region conversion is defined for.
type Affine struct {
	refPixel core.PixCoord
	refWorld core.SkyCoord

	cd    *mat.Dense // degrees per pixel
	cdInv *mat.Dense // pixels per degree
}

// NewAffine builds an Affine mapping from a reference pixel/world pair
// and a CD matrix [ [cd11 cd12] [cd21 cd22] ] in degrees per pixel.
func NewAffine(refPixel core.PixCoord, refWorld core.SkyCoord, cd [2][2]float64) (*Affine, error) {
	m := mat.NewDense(2, 2, []float64{cd[0][0], cd[0][1], cd[1][0], cd[1][1]})
	inv := mat.NewDense(2, 2, nil)
	if err := inv.Inverse(m); err != nil {
		return nil, fmt.Errorf("singular CD matrix: %w", err)
	}
	return &Affine{
		refPixel: refPixel,
		refWorld: refWorld,
		cd:       m,
		cdInv:    inv,
	}, nil
}

// NewAffineScale builds an Affine mapping with a uniform pixel scale
// (pixels per degree) and no rotation.
func NewAffineScale(refPixel core.PixCoord, refWorld core.SkyCoord, pixPerDeg float64) (*Affine, error) {
	if pixPerDeg == 0 {
		return nil, fmt.Errorf("pixel scale must be non-zero")
	}
	d := 1 / pixPerDeg
	return NewAffine(refPixel, refWorld, [2][2]float64{{d, 0}, {0, d}})
}

func (a *Affine) CelestialFrame() core.Frame {
	return a.refWorld.Frame
}

func (a *Affine) ReferenceWorld() core.SkyCoord {
	return a.refWorld
}

// WorldToPixel maps a sky coordinate to pixels. Longitude offsets are
// scaled by cos(refLat) so that the offset is a true angular distance.
func (a *Affine) WorldToPixel(c core.SkyCoord) (core.PixCoord, error) {
	if c.Frame != a.refWorld.Frame {
		return core.PixCoord{}, fmt.Errorf("%w: coordinate in %s, mapping in %s",
			ErrUnsupportedFrame, c.Frame, a.refWorld.Frame)
	}
	cosLat := math.Cos(a.refWorld.Lat * math.Pi / 180)
	dw := mat.NewVecDense(2, []float64{
		(c.Lon - a.refWorld.Lon) * cosLat,
		c.Lat - a.refWorld.Lat,
	})
	dp := mat.NewVecDense(2, nil)
	dp.MulVec(a.cdInv, dw)
	return core.PixCoord{
		X: a.refPixel.X + dp.AtVec(0),
		Y: a.refPixel.Y + dp.AtVec(1),
	}, nil
}

func (a *Affine) PixelToWorld(p core.PixCoord) (core.SkyCoord, error) {
	dp := mat.NewVecDense(2, []float64{p.X - a.refPixel.X, p.Y - a.refPixel.Y})
	dw := mat.NewVecDense(2, nil)
	dw.MulVec(a.cd, dp)
	cosLat := math.Cos(a.refWorld.Lat * math.Pi / 180)
	return core.SkyCoord{
		Lon:   a.refWorld.Lon + dw.AtVec(0)/cosLat,
		Lat:   a.refWorld.Lat + dw.AtVec(1),
		Frame: a.refWorld.Frame,
	}, nil
}

// PixelScaleAt returns the mapping's pixel scale and rotation. An
// affine mapping has the same scale everywhere; the coordinate argument
// exists to satisfy the capability contract.
func (a *Affine) PixelScaleAt(core.SkyCoord) (scale, rotation float64, err error) {
	det := mat.Det(a.cd)
	if det == 0 {
		return 0, 0, fmt.Errorf("singular CD matrix")
	}
	scale = 1 / math.Sqrt(math.Abs(det))
	rotation = math.Atan2(a.cd.At(1, 0), a.cd.At(0, 0)) * 180 / math.Pi
	return scale, rotation, nil
}

var _ Transform = (*Affine)(nil)
