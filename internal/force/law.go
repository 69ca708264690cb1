// Package force implements the particle-life interaction law, its mood
// modulation and the per-type coefficient matrix.
package force

import (
	"errors"
	"math"

	"github.com/olivierh59500/particle-life-field/internal/vec"
)

// DefaultBeta is the inner repulsion radius.
const DefaultBeta = 0.3

// ErrZeroDistance is returned for coincident particles, where the force
// direction is undefined.
var ErrZeroDistance = errors.New("force undefined at zero distance")

// Law is the piecewise particle-life force. Distances are in units of
// the interaction radius.
type Law struct {
	Beta float64
}

// NewLaw returns the law with DefaultBeta.
func NewLaw() Law {
	return Law{Beta: DefaultBeta}
}

// Magnitude is the signed scalar force at dist for coefficient a. Inside
// Beta it rises linearly from -1 to 0 regardless of a; outside it is a
// tent peaking at a when dist = (1+Beta)/2 and returning to zero at 1.
func (l Law) Magnitude(a, dist float64) float64 {
	if dist < l.Beta {
		return dist/l.Beta - 1
	}
	return a * (1 - math.Abs(1+l.Beta-2*dist)/(1-l.Beta))
}

// Force returns the force along pos. pos must not be the null vector.
func (l Law) Force(a float64, pos vec.Vector3) (vec.Vector3, error) {
	dist := pos.Mag()
	if dist == 0 {
		return vec.Zero, ErrZeroDistance
	}
	return pos.Scale(l.Magnitude(a, dist) / dist), nil
}
