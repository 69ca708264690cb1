// Package vec holds the 3-component value vector used for particle
// positions, cursor offsets and forces.
package vec

import (
	"fmt"
	"math"
)

// Vector3 is an immutable value; every operation returns a new vector.
type Vector3 struct {
	X, Y, Z float64
}

// Zero is the null vector.
var Zero = Vector3{}

func New(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (a Vector3) Add(b Vector3) Vector3 {
	a.X += b.X
	a.Y += b.Y
	a.Z += b.Z
	return a
}

func (a Vector3) Sub(b Vector3) Vector3 {
	a.X -= b.X
	a.Y -= b.Y
	a.Z -= b.Z
	return a
}

func (a Vector3) Scale(f float64) Vector3 {
	a.X *= f
	a.Y *= f
	a.Z *= f
	return a
}

// Div divides every component by f. Division by zero follows IEEE rules.
func (a Vector3) Div(f float64) Vector3 {
	a.X /= f
	a.Y /= f
	a.Z /= f
	return a
}

func (a Vector3) Mag() float64 {
	return math.Sqrt(a.MagSq())
}

func (a Vector3) MagSq() float64 {
	return a.X*a.X + a.Y*a.Y + a.Z*a.Z
}

// Normalize returns the unit vector in the direction of a. The null
// vector is returned unchanged.
func (a Vector3) Normalize() Vector3 {
	mag := a.Mag()
	if mag > 0 {
		return a.Div(mag)
	}
	return a
}

// Limit caps the magnitude of a at max.
func (a Vector3) Limit(max float64) Vector3 {
	if a.MagSq() > max*max {
		return a.Normalize().Scale(max)
	}
	return a
}

func (a Vector3) Dot(b Vector3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Wrap maps every component of a displacement in the periodic unit
// domain onto its shortest image, in [-0.5, 0.5).
func (a Vector3) Wrap() Vector3 {
	a.X -= math.Floor(a.X + 0.5)
	a.Y -= math.Floor(a.Y + 0.5)
	a.Z -= math.Floor(a.Z + 0.5)
	return a
}

// Mod maps a position back into [0, 1) on every axis.
func (a Vector3) Mod() Vector3 {
	a.X = unit(a.X)
	a.Y = unit(a.Y)
	a.Z = unit(a.Z)
	return a
}

// unit folds f into [0, 1). Tiny negative inputs round up to exactly 1
// after subtracting the floor, so that case folds to 0.
func unit(f float64) float64 {
	f -= math.Floor(f)
	if f >= 1 {
		return 0
	}
	return f
}

// IsFinite reports whether no component is NaN or infinite.
func (a Vector3) IsFinite() bool {
	return isFinite(a.X) && isFinite(a.Y) && isFinite(a.Z)
}

func (a Vector3) String() string {
	return fmt.Sprintf("<Vector3(%.5f, %.5f, %.5f)>", a.X, a.Y, a.Z)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
