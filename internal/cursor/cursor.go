// Package cursor implements the draggable selection cursor. A cursor
// combines a shape test in cursor-local coordinates with a radial field
// whose radius and strength follow the motion of the cursor.
package cursor

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/olivierh59500/particle-life-field/internal/field"
	"github.com/olivierh59500/particle-life-field/internal/phi"
	"github.com/olivierh59500/particle-life-field/internal/shape"
	"github.com/olivierh59500/particle-life-field/internal/vec"
)

// Selection modes gate particles that already passed the shape test.
const (
	ModeAesthetic     = "aesthetic"
	ModeAnalytical    = "analytical"
	ModeCreative      = "creative"
	ModePhilosophical = "philosophical"
	ModeTranscendent  = "transcendent"
	ModeExploratory   = "exploratory"
)

// Modes lists the known modes in cycling order.
var Modes = []string{ModeAesthetic, ModeAnalytical, ModeCreative, ModePhilosophical, ModeTranscendent, ModeExploratory}

const (
	DefaultSize          = 0.1
	DefaultIntensity     = 1.0
	DefaultFieldStrength = 0.5
	DefaultResonance     = 0.7
	DefaultFieldRadius   = 0.2

	MinFieldRadius   = 0.05
	MaxFieldRadius   = 1.0
	MaxFieldStrength = 2.0

	historySize      = 10
	enhanceThreshold = 0.4
	minSegment       = 0.001
)

// ErrInvalidSize is returned when a cursor size is not strictly positive.
var ErrInvalidSize = errors.New("cursor size must be positive")

// Cursor is not safe for concurrent use; it is owned by the simulation
// loop.
type Cursor struct {
	Position vec.Vector3
	Size     float64
	Shape    shape.Shape

	intensity     float64
	fieldStrength float64
	fieldRadius   float64
	resonance     float64
	mode          string
	shapeParams   shape.Params
	wavePhase     float64
	active        bool

	frame      int64
	start      time.Time
	lastMove   time.Time
	previous   vec.Vector3
	history    []vec.Vector3
	velocity   float64
	smoothness float64

	rng shape.Rand
}

// New returns a cursor at the origin with the default parameters. rng
// drives every stochastic branch of the cursor and its shape.
func New(kind shape.Kind, rng shape.Rand) *Cursor {
	p := shape.DefaultParams()
	sh := shape.New(kind)
	sh.Apply(p)
	return &Cursor{
		Size:          DefaultSize,
		Shape:         sh,
		shapeParams:   p,
		intensity:     DefaultIntensity,
		fieldStrength: DefaultFieldStrength,
		fieldRadius:   DefaultFieldRadius,
		resonance:     DefaultResonance,
		mode:          ModeAesthetic,
		active:        true,
		smoothness:    1,
		history:       make([]vec.Vector3, 0, historySize+1),
		rng:           rng,
	}
}

// Delta returns the displacement from the cursor to pos, folded onto the
// shortest periodic image when wrap is set.
func (c *Cursor) Delta(pos vec.Vector3, wrap bool) vec.Vector3 {
	d := pos.Sub(c.Position)
	if wrap {
		d = d.Wrap()
	}
	return d
}

// IsInside reports whether a particle at pos is selected. A zero size
// selects nothing.
func (c *Cursor) IsInside(pos vec.Vector3, wrap bool) bool {
	if c.Size == 0 {
		return false
	}
	delta := c.Delta(pos, wrap)
	inside := c.Shape.IsInside(delta.Div(c.Size), c.rng)
	if c.active && inside {
		return c.gate(delta.Mag())
	}
	return inside
}

func (c *Cursor) gate(dist float64) bool {
	switch c.mode {
	case ModeAesthetic:
		return c.FieldInfluence(dist) > 0.3
	case ModeAnalytical:
		return dist < c.Size*0.8
	case ModeCreative:
		return c.rng.Float64() < c.FieldInfluence(dist)
	case ModePhilosophical:
		return c.FieldInfluence(dist) > 0.5
	case ModeTranscendent:
		return c.FieldInfluence(dist) > 0.7
	case ModeExploratory:
		return c.FieldInfluence(dist) > 0.2
	}
	return true
}

// FieldInfluence evaluates the cursor field at a world-space distance.
func (c *Cursor) FieldInfluence(dist float64) float64 {
	return field.Influence(dist, c.fieldRadius, c.fieldStrength, c.wavePhase, field.KCursor)
}

// Advance runs the once-per-frame update: the wave phase follows the
// clock and frame count, the shape wave steps, and the field follows the
// cursor motion since the previous frame.
func (c *Cursor) Advance(now time.Time) {
	c.frame++
	if c.start.IsZero() {
		c.start = now
	}
	t := now.Sub(c.start).Seconds()
	c.wavePhase = t*phi.Phi + float64(c.frame)*0.01/phi.Squared
	c.Shape.Advance()
	c.UpdateFromMovement(now)
}

// UpdateFromMovement derives field radius and strength from the cursor
// velocity and path smoothness.
func (c *Cursor) UpdateFromMovement(now time.Time) {
	if !c.lastMove.IsZero() {
		if dt := now.Sub(c.lastMove).Seconds(); dt > 0 {
			c.velocity = c.Position.Sub(c.previous).Mag() / dt
			c.history = append(c.history, c.Position)
			if len(c.history) > historySize {
				c.history = c.history[1:]
			}
			c.smoothness = smoothness(c.history)
		}
	}

	c.fieldRadius = clamp(0.1+math.Min(0.3, c.velocity*2), MinFieldRadius, MaxFieldRadius)
	c.fieldStrength = clamp(0.3+c.smoothness*0.7+c.intensity*0.5, 0, MaxFieldStrength)
	c.previous = c.Position
	c.lastMove = now
}

// smoothness is 1 minus the summed turning angle of the path over pi,
// floored at 0.1. Segments shorter than minSegment do not count.
func smoothness(path []vec.Vector3) float64 {
	if len(path) < 3 {
		return 1
	}
	total := 0.0
	for i := 2; i < len(path); i++ {
		a := path[i-1].Sub(path[i-2])
		b := path[i].Sub(path[i-1])
		if a.Mag() > minSegment && b.Mag() > minSegment {
			total += angle(a, b)
		}
	}
	return math.Max(0.1, 1-total/math.Pi)
}

func angle(a, b vec.Vector3) float64 {
	cos := a.Dot(b) / (a.Mag() * b.Mag())
	return math.Acos(clamp(cos, -1, 1))
}

// SampleRandomPoint returns a world-space point drawn from the shape,
// breathing with the wave phase while the field is active.
func (c *Cursor) SampleRandomPoint() vec.Vector3 {
	p := c.Shape.SampleRandomPoint(c.rng)
	if c.active {
		p = p.Scale(1 + 0.2*math.Sin(c.wavePhase))
	}
	return p.Scale(c.Size).Add(c.Position)
}

// SampleFieldPoint returns a world-space point on a golden spiral inside
// the field radius.
func (c *Cursor) SampleFieldPoint() vec.Vector3 {
	r := math.Sqrt(c.rng.Float64()) * c.fieldRadius
	theta := c.wavePhase + r*2*math.Pi/phi.Phi
	return vec.New(c.Position.X+r*math.Cos(theta), c.Position.Y+r*math.Sin(theta), c.Position.Z)
}

// SetSize rejects non-positive sizes.
func (c *Cursor) SetSize(size float64) error {
	if size <= 0 || math.IsNaN(size) {
		return fmt.Errorf("%w: %v", ErrInvalidSize, size)
	}
	c.Size = size
	return nil
}

// ApplyGoldenSizing shrinks the cursor by a factor of phi.
func (c *Cursor) ApplyGoldenSizing() {
	c.Size = c.Size * phi.Phi / phi.Squared
}

// SetParameters applies the externally chosen intensity, field strength,
// resonance and mode. Strength is clamped to [0, MaxFieldStrength] and
// resonance to [0, 1].
func (c *Cursor) SetParameters(intensity, strength, resonance float64, mode string) {
	c.intensity = intensity
	c.fieldStrength = clamp(strength, 0, MaxFieldStrength)
	c.resonance = clamp(resonance, 0, 1)
	c.mode = mode
}

// SetShapeParameters applies p to the current shape and to every shape
// taken later through SetShape.
func (c *Cursor) SetShapeParameters(p shape.Params) {
	c.shapeParams = p
	c.Shape.Apply(p)
}

func (c *Cursor) ShapeParameters() shape.Params { return c.shapeParams }

// SetMode changes the selection gate. Unknown modes accept everything the
// shape accepts.
func (c *Cursor) SetMode(mode string) { c.mode = mode }

// SetFieldRadius clamps the radius to [MinFieldRadius, MaxFieldRadius].
func (c *Cursor) SetFieldRadius(r float64) {
	c.fieldRadius = clamp(r, MinFieldRadius, MaxFieldRadius)
}

// SetFieldActive toggles both the cursor gate and the shape assist.
func (c *Cursor) SetFieldActive(active bool) {
	c.active = active
	c.Shape.Field.Enabled = active
}

// SetShape swaps the geometry, keeping the current assist state.
func (c *Cursor) SetShape(kind shape.Kind) {
	enabled := c.Shape.Field.Enabled
	c.Shape = shape.New(kind)
	c.Shape.Apply(c.shapeParams)
	c.Shape.Field.Enabled = enabled
}

func (c *Cursor) Mode() string           { return c.mode }
func (c *Cursor) Intensity() float64     { return c.intensity }
func (c *Cursor) Resonance() float64     { return c.resonance }
func (c *Cursor) FieldRadius() float64   { return c.fieldRadius }
func (c *Cursor) FieldStrength() float64 { return c.fieldStrength }
func (c *Cursor) WavePhase() float64     { return c.wavePhase }
func (c *Cursor) FieldActive() bool      { return c.active }
func (c *Cursor) Velocity() float64      { return c.velocity }
func (c *Cursor) Smoothness() float64    { return c.smoothness }

// Copy returns an independent cursor with the same position, size, shape
// and field parameters. Motion history is not carried over.
func (c *Cursor) Copy() *Cursor {
	d := New(c.Shape.Kind, c.rng)
	d.Position = c.Position
	d.Size = c.Size
	d.Shape = c.Shape
	d.intensity = c.intensity
	d.fieldStrength = c.fieldStrength
	d.resonance = c.resonance
	d.mode = c.mode
	d.shapeParams = c.shapeParams
	d.fieldRadius = c.fieldRadius
	d.active = c.active
	return d
}

var modeGlow = map[string]float64{
	ModeAesthetic:     0.1,
	ModeCreative:      0.15,
	ModePhilosophical: 0.12,
	ModeTranscendent:  0.2,
	ModeExploratory:   0.08,
}

// Glow is the render brightness of the cursor in [0, 1]: a base level
// raised by the mode, scaled by intensity, lifted by resonance and
// rippling slowly with the wave phase.
func (c *Cursor) Glow() float64 {
	g := (0.5 + modeGlow[c.mode]) * (0.5 + 0.5*c.intensity)
	g += c.resonance * 0.1
	g += math.Sin(c.wavePhase*phi.Inverse) * 0.05
	return clamp(g, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
