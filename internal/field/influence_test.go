package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfluenceEndpoints(t *testing.T) {
	const s, phase = 0.8, 1.1

	assert.InDelta(t, s*(1+0.3*math.Sin(phase)), Influence(0, 0.2, s, phase, KCursor), 1e-12)
	assert.InDelta(t, 0.0, Influence(0.2, 0.2, s, phase, KCursor), 1e-12)
	assert.Zero(t, Influence(0.25, 0.2, s, phase, KCursor))
	assert.Zero(t, Influence(0, 0, s, phase, KCursor))
	assert.Zero(t, Influence(0, -1, s, phase, KCursor))
}

func TestInfluenceDecaysMonotonicallyWithoutWave(t *testing.T) {
	// With k = 0 and phase = 0 the wave term is constant.
	prev := math.Inf(1)
	for d := 0.0; d <= 1.0; d += 0.05 {
		v := Influence(d, 1, 1, 0, 0)
		assert.LessOrEqual(t, v, prev)
		prev = v
	}
}

func TestInfluenceIsNonNegativeForPositiveStrength(t *testing.T) {
	for d := 0.0; d <= 0.7; d += 0.01 {
		for phase := 0.0; phase < 2*math.Pi; phase += 0.3 {
			assert.GreaterOrEqual(t, Influence(d, 0.7, 0.5, phase, KSquare), 0.0)
		}
	}
}

func TestHarmonic(t *testing.T) {
	assert.InDelta(t, 1.0, Harmonic(0, 2, 1, 0), 1e-12)
	assert.Zero(t, Harmonic(1, 0, 1, 0))

	d, r := 1.0, 2.0
	want := 1 / (1 + 0.25) * (1 + 0.5*math.Sin(2)) * (1 + 0.3*math.Sin(1.618033988749895))
	assert.InDelta(t, want, Harmonic(d, r, 1, 0), 1e-12)
}
