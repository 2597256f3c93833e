package core

import "math"

// AngleUnit identifies the unit of an Angle quantity.
type AngleUnit string

const (
	UnitDegree AngleUnit = "deg"
	UnitArcmin AngleUnit = "arcmin"
	UnitArcsec AngleUnit = "arcsec"
	UnitRadian AngleUnit = "rad"

	// UnitPixel marks a dimensionless pixel-count quantity. A pixel-unit
	// radius on a sky-frame shape is an invalid input state that the
	// conversion path passes through numerically rather than rejecting.
	UnitPixel AngleUnit = "pixel"
)

// PhysicalType classifies the dimension of a quantity's unit.
type PhysicalType string

const (
	PhysicalAngle         PhysicalType = "angle"
	PhysicalDimensionless PhysicalType = "dimensionless"
)

// Angle is a scalar quantity with an angular (or pixel) unit.
type Angle struct {
	Value float64   `json:"value"`
	Unit  AngleUnit `json:"unit"`
}

// Deg constructs an Angle in degrees.
func Deg(v float64) Angle {
	return Angle{Value: v, Unit: UnitDegree}
}

// degreesPerUnit maps each angular unit to its size in degrees.
var degreesPerUnit = map[AngleUnit]float64{
	UnitDegree: 1,
	UnitArcmin: 1.0 / 60,
	UnitArcsec: 1.0 / 3600,
	UnitRadian: 180 / math.Pi,
}

// PhysicalType returns the dimension of the angle's unit.
func (a Angle) PhysicalType() PhysicalType {
	if _, ok := degreesPerUnit[a.Unit]; ok {
		return PhysicalAngle
	}
	return PhysicalDimensionless
}

// Degrees returns the value converted to degrees. Pixel-unit quantities
// are returned unchanged; dimensional correctness is the caller's
// responsibility.
func (a Angle) Degrees() float64 {
	if f, ok := degreesPerUnit[a.Unit]; ok {
		return a.Value * f
	}
	return a.Value
}

// To converts the angle to the given angular unit. Converting a
// pixel-unit quantity returns it unchanged.
func (a Angle) To(unit AngleUnit) Angle {
	from, okFrom := degreesPerUnit[a.Unit]
	to, okTo := degreesPerUnit[unit]
	if !okFrom || !okTo {
		return a
	}
	return Angle{Value: a.Value * from / to, Unit: unit}
}
