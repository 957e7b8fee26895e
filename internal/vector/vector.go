// Package vector provides the polar 2D vector used by the boid simulation.
//
// A [Vector] stores a direction in radians and a magnitude. Arithmetic is done
// in Cartesian space and converted back, so every result re-enters through
// [FromCartesian] and keeps its direction inside [0, 2π). Magnitudes may be
// negative after [Vector.Scale] with a negative factor.
package vector

import (
	"fmt"
	"math"
)

const twoPi = 2 * math.Pi

// Vector is a polar 2D vector. Methods return new values and never
// modify the receiver.
type Vector struct {
	Direction float64
	Magnitude float64
}

// Point is a Cartesian coordinate pair.
type Point struct {
	X, Y float64
}

// New builds a vector, bringing direction back into [0, 2π).
func New(direction, magnitude float64) Vector {
	return Vector{Direction: normalize(direction), Magnitude: magnitude}
}

// FromCartesian converts x, y into polar form. The origin maps to (0, 0).
func FromCartesian(x, y float64) Vector {
	mag := math.Sqrt(x*x + y*y)
	if mag == 0 {
		return Vector{}
	}
	return Vector{Direction: normalize(math.Atan2(y, x)), Magnitude: mag}
}

// FromPoint converts a Cartesian point into polar form.
func FromPoint(p Point) Vector {
	return FromCartesian(p.X, p.Y)
}

// AsCartesian returns the x and y components.
func (v Vector) AsCartesian() (x, y float64) {
	return math.Cos(v.Direction) * v.Magnitude, math.Sin(v.Direction) * v.Magnitude
}

func (v Vector) Point() Point {
	x, y := v.AsCartesian()
	return Point{X: x, Y: y}
}

// Copy returns an identical vector.
func (v Vector) Copy() Vector {
	return Vector{Direction: v.Direction, Magnitude: v.Magnitude}
}

// Add returns v + other, summed in Cartesian space.
func (v Vector) Add(other Vector) Vector {
	x1, y1 := v.AsCartesian()
	x2, y2 := other.AsCartesian()
	return FromCartesian(x1+x2, y1+y2)
}

// Subtract returns v - other.
func (v Vector) Subtract(other Vector) Vector {
	x1, y1 := v.AsCartesian()
	x2, y2 := other.AsCartesian()
	return FromCartesian(x1-x2, y1-y2)
}

// Scale multiplies the magnitude only; a negative factor yields a negative
// magnitude pointing the opposite way.
func (v Vector) Scale(k float64) Vector {
	return Vector{Direction: v.Direction, Magnitude: v.Magnitude * k}
}

// WithMagnitude returns v with its magnitude replaced.
func (v Vector) WithMagnitude(m float64) Vector {
	return Vector{Direction: v.Direction, Magnitude: m}
}

// VectorTo returns the vector from v to other (other - v).
func (v Vector) VectorTo(other Vector) Vector {
	return other.Subtract(v)
}

// VectorToPoint is VectorTo for a Cartesian target.
func (v Vector) VectorToPoint(p Point) Vector {
	return v.VectorTo(FromPoint(p))
}

// DirectionTo is the angle of the vector from v to other.
func (v Vector) DirectionTo(other Vector) float64 {
	return v.VectorTo(other).Direction
}

// DistanceTo is the distance between the points v and other.
func (v Vector) DistanceTo(other Vector) float64 {
	return v.VectorTo(other).Magnitude
}

func (v Vector) Valid() bool {
	return v.Check() == nil
}

// Check reports a non-finite component or a direction outside [0, 2π).
func (v Vector) Check() error {
	if math.IsNaN(v.Direction) || math.IsInf(v.Direction, 0) ||
		math.IsNaN(v.Magnitude) || math.IsInf(v.Magnitude, 0) {
		return fmt.Errorf("%w: %s", ErrNotFinite, v)
	}
	if v.Direction < 0 || v.Direction >= twoPi {
		return fmt.Errorf("%w: %v", ErrDirectionRange, v.Direction)
	}
	return nil
}

func (v Vector) String() string {
	return fmt.Sprintf("(%.4f rad, %.4f)", v.Direction, v.Magnitude)
}

func normalize(d float64) float64 {
	d = math.Mod(d, twoPi)
	if d < 0 {
		d += twoPi
	}
	// -tiny + 2π rounds to 2π
	if d >= twoPi {
		d = 0
	}
	return d
}
