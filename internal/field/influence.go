// Package field implements the radial wave-modulated falloff used by
// cursors and shapes to soften their selection boundaries.
package field

import (
	"math"

	"github.com/olivierh59500/particle-life-field/internal/phi"
)

// Wave numbers used by the different callers.
const (
	KCursor   = 10.0
	KCircle   = 10.0
	KSquare   = 8.0
	KGeometry = 15.0
)

// Influence returns strength * (1-d/r)^phi * (1 + 0.3 sin(phase + d*k)).
// It is zero outside the radius and for a non-positive radius.
func Influence(distance, radius, strength, wavePhase, k float64) float64 {
	if radius <= 0 || distance > radius {
		return 0
	}
	decay := math.Pow(1-distance/radius, phi.Phi)
	wave := 1 + 0.3*math.Sin(wavePhase+distance*k)
	return strength * decay * wave
}

// Harmonic is the unbounded variant used by the infinity shape:
// an inverse-square falloff scaled by two interfering waves.
func Harmonic(distance, radius, strength, wavePhase float64) float64 {
	if radius <= 0 {
		return 0
	}
	falloff := 1 / (1 + distance*distance/(radius*radius))
	wave := 1 + 0.5*math.Sin(wavePhase+distance*2)
	golden := 1 + 0.3*math.Sin(distance*phi.Phi)
	return strength * falloff * wave * golden
}
