// Package phi exposes golden-ratio constants shared by the field and
// shape code.
package phi

const (
	// Phi is the golden ratio, (1 + sqrt 5) / 2.
	Phi = 1.618033988749895
	// Inverse is 1/Phi, equal to Phi - 1.
	Inverse = Phi - 1
	// Squared is Phi*Phi, equal to Phi + 1.
	Squared = Phi + 1
)
