// Package particle defines the simulated entity shared by physics,
// selection and persistence.
package particle

import "github.com/olivierh59500/particle-life-field/internal/vec"

// Particle is a point in the periodic unit domain.
type Particle struct {
	Position vec.Vector3
	Velocity vec.Vector3
	Type     int
}
