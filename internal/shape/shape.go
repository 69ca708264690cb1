// Package shape implements the cursor selection shapes. A Shape is a
// tagged variant: Kind selects the geometry, the remaining fields carry
// the payload. All coordinates are shape-local, with the nominal shape
// spanning [-0.5, 0.5] on each axis.
package shape

import (
	"fmt"
	"math"
	"strings"

	"github.com/olivierh59500/particle-life-field/internal/field"
	"github.com/olivierh59500/particle-life-field/internal/phi"
	"github.com/olivierh59500/particle-life-field/internal/vec"
)

// Kind enumerates the supported geometries.
type Kind int

const (
	Circle Kind = iota
	Square
	Infinity
)

// Kinds lists every geometry in cycling order.
var Kinds = []Kind{Circle, Square, Infinity}

func (k Kind) String() string {
	switch k {
	case Circle:
		return "circle"
	case Square:
		return "square"
	case Infinity:
		return "infinity"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a configuration name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "circle":
		return Circle, nil
	case "square":
		return Square, nil
	case "infinity", "lemniscate":
		return Infinity, nil
	}
	return 0, fmt.Errorf("unknown shape %q", name)
}

// Rand is the random source used by the stochastic branches. *rand.Rand
// satisfies it.
type Rand interface {
	Float64() float64
	NormFloat64() float64
}

const (
	// UniformShare and PatternShare split SampleRandomPoint between its
	// three modes: uniform, geometric pattern, field-biased.
	UniformShare = 0.4
	PatternShare = 0.3

	circleRadius      = 0.5
	circleFieldRadius = 0.7
	squareHalf        = 0.5
	assistThreshold   = 0.3

	lemniscateWidth  = 0.6
	lemniscateHeight = 0.3
	infinityRadius   = 2.0
	infinityCutoff   = 0.1
	infinityTailOdds = 0.1
)

// Field is the per-shape assist that softens the hard boundary.
type Field struct {
	Enabled   bool
	Strength  float64
	WavePhase float64
}

// Shape is a selection geometry plus its field assist state.
type Shape struct {
	Kind      Kind
	Intensity float64
	Field     Field

	// Infinity payload.
	Radius       float64
	Transcendent bool
}

// Params are the user-tunable shape settings. Strength is the assist
// strength of the circle and square; the infinity shape keeps its own.
// Radius is the practical radius of a bounded infinity shape.
type Params struct {
	Intensity float64
	Strength  float64
	Radius    float64
	Bounded   bool
}

// DefaultParams matches the shapes returned by New.
func DefaultParams() Params {
	return Params{Intensity: 1.0, Strength: 0.5, Radius: infinityRadius}
}

// New returns a shape of the given kind with its default parameters.
func New(kind Kind) Shape {
	s := Shape{
		Kind:      kind,
		Intensity: 1.0,
		Field:     Field{Enabled: true, Strength: 0.5},
	}
	if kind == Infinity {
		s.Field.Strength = 1.0
		s.Radius = infinityRadius
		s.Transcendent = true
	}
	return s
}

// IsInside tests a shape-local point. rng is only consulted by the
// infinity tail beyond its practical radius.
func (s Shape) IsInside(p vec.Vector3, rng Rand) bool {
	switch s.Kind {
	case Circle:
		d := p.Mag()
		if d <= circleRadius {
			return true
		}
		if s.Field.Enabled && d <= circleFieldRadius {
			return field.Influence(d, circleFieldRadius, s.Field.Strength, s.Field.WavePhase, field.KCircle) > assistThreshold
		}
		return false
	case Square:
		m := math.Max(math.Abs(p.X), math.Abs(p.Y))
		if m <= squareHalf {
			return true
		}
		extent := squareHalf * phi.Phi
		if s.Field.Enabled && m <= extent {
			return field.Influence(m, extent, s.Field.Strength, s.Field.WavePhase, field.KSquare) > assistThreshold
		}
		return false
	case Infinity:
		// A transcendent shape selects everything.
		if s.Transcendent {
			return true
		}
		d := p.Mag()
		if d <= s.Radius {
			return field.Harmonic(d, s.Radius, s.Field.Strength, s.Field.WavePhase) > infinityCutoff
		}
		return rng.Float64() < infinityTailOdds
	}
	return false
}

// Advance moves the assist wave forward by one frame.
func (s *Shape) Advance() {
	step := 0.02
	if s.Kind == Infinity {
		step = 0.03
	}
	s.Field.WavePhase += step
	if s.Field.WavePhase > 2*math.Pi {
		s.Field.WavePhase -= 2 * math.Pi
	}
}

// SetParameters clamps and applies intensity and assist strength. The
// infinity shape accepts a wider range and derives its radius from the
// strength.
func (s *Shape) SetParameters(intensity, strength float64) {
	if s.Kind == Infinity {
		s.Intensity = clamp(intensity, 0, 3)
		s.Field.Strength = clamp(strength, 0, 2)
		s.Radius = 1 + s.Field.Strength*2
		return
	}
	s.Intensity = clamp(intensity, 0, 2)
	s.Field.Strength = clamp(strength, 0, 1)
}

// Apply sets p on s for its kind, leaving the assist wave and its enabled
// flag alone. A non-positive Radius keeps the current one.
func (s *Shape) Apply(p Params) {
	if s.Kind != Infinity {
		s.SetParameters(p.Intensity, p.Strength)
		return
	}
	s.Intensity = clamp(p.Intensity, 0, 3)
	s.Transcendent = !p.Bounded
	if p.Radius > 0 {
		s.Radius = p.Radius
	}
}

// LineWidth is the outline stroke width in pixels.
func (s Shape) LineWidth() float64 { return 1 + s.Intensity }

// FieldLineWidth is the stroke width of the assist outline.
func (s Shape) FieldLineWidth() float64 { return 1 + s.Intensity*0.5 }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
