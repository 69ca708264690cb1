package force

import (
	"math"

	"github.com/olivierh59500/particle-life-field/internal/field"
	"github.com/olivierh59500/particle-life-field/internal/mood"
	"github.com/olivierh59500/particle-life-field/internal/vec"
)

const (
	// Tick is the fixed time step added to the modulator clock per call.
	Tick = 0.016
	// DefaultMaxForce caps the magnitude of a modulated force.
	DefaultMaxForce = 4.0
)

var centers = [...]vec.Vector3{
	{X: 0.5, Y: 0.5},
	{X: 0.3, Y: 0.7},
	{X: 0.7, Y: 0.3},
	{X: 0.2, Y: 0.2},
	{X: 0.8, Y: 0.8},
}

// Modulator layers mood-driven terms over a Law: the base force is scaled
// by the bond factor, then mood, complexity, geometry, flow, protection,
// love and breathing terms are added. The result is capped at MaxForce,
// and a non-finite sum collapses to zero.
//
// A Modulator owns its clock and must only be used from one goroutine.
type Modulator struct {
	Law      Law
	MaxForce float64

	t         float64
	saturated int64
}

func NewModulator(law Law, maxForce float64) *Modulator {
	if maxForce <= 0 {
		maxForce = DefaultMaxForce
	}
	return &Modulator{Law: law, MaxForce: maxForce}
}

// Time is the modulator clock in seconds of simulated ticks.
func (m *Modulator) Time() float64 { return m.t }

// Saturated counts the calls whose result hit MaxForce or was not finite.
func (m *Modulator) Saturated() int64 { return m.saturated }

// Apply evaluates the modulated force for the relative position pos. pos
// is also read as a point of the unit domain by the positional terms.
// Every call advances the clock by Tick.
func (m *Modulator) Apply(a float64, pos vec.Vector3, st mood.State) (vec.Vector3, error) {
	m.t += Tick
	base, err := m.Law.Force(a, pos)
	if err != nil {
		return vec.Zero, err
	}
	st = st.Sanitize()

	f := base.Scale(0.3 + st.BondFactor()*2)
	f = f.Add(m.emotional(pos, st))
	f = f.Add(m.complexity(pos, st))
	if st.Transcendence > 6.5 {
		f = f.Add(m.geometry(pos, st))
	}
	if st.CreativeFlow > 6 {
		f = f.Add(m.flow(pos, st))
	}
	if st.ProtectiveInstinct > 8 {
		f = f.Add(protection(pos, st))
	}
	f = f.Add(m.love(pos, st))
	f = f.Add(m.breathing(pos, st))

	switch {
	case !f.IsFinite():
		m.saturated++
		return vec.Zero, nil
	case f.MagSq() > m.MaxForce*m.MaxForce:
		m.saturated++
		f = f.Limit(m.MaxForce)
	}
	return f, nil
}

func (m *Modulator) emotional(pos vec.Vector3, st mood.State) vec.Vector3 {
	k := st.EmotionalIntensity * 0.1
	t := m.t
	switch st.Mood {
	case mood.TranscendentJoy, mood.Euphoric:
		from := pos.Sub(centers[0])
		spiral := math.Sin(from.Mag()*8+t*2)*0.5 + 0.5
		return from.Normalize().Scale(k * spiral)
	case mood.DeepLove, mood.Passionate:
		out := vec.Zero
		for _, c := range centers[:2] {
			to := c.Sub(pos)
			pulse := math.Sin(t*3+to.Mag()*10) * 0.3
			out = out.Add(to.Normalize().Scale(k * pulse))
		}
		return out
	case mood.Contemplative, mood.Meditative:
		return vec.New(
			math.Sin(pos.Y*math.Pi*5+t)*k*0.5,
			math.Sin(pos.X*math.Pi*3+t*0.618)*k*0.3,
			0,
		)
	case mood.Excited, mood.Anticipation:
		return vec.New(
			math.Sin(pos.X*20+t*5)*k*0.4,
			math.Cos(pos.Y*15+t*3.7)*k*0.4,
			0,
		)
	case mood.Protective, mood.Nurturing:
		to := centers[0].Sub(pos)
		if to.Mag() > 0.3 {
			return to.Normalize().Scale(k * 0.8)
		}
	case mood.CreativeFlow:
		dx, dy := pos.X-0.5, pos.Y-0.5
		angle := math.Atan2(dy, dx)
		r := math.Hypot(dx, dy)
		s := k * math.Sin(r*10+t)
		return vec.New(-math.Sin(angle+r)*s, math.Cos(angle+r)*s, 0)
	}
	return vec.Zero
}

func (m *Modulator) complexity(pos vec.Vector3, st mood.State) vec.Vector3 {
	if st.Complexity <= 7 {
		return vec.Zero
	}
	c := (st.Complexity - 7) * 0.1
	t := m.t
	w := (math.Sin(pos.X*math.Pi*8+t*2) +
		math.Cos(pos.Y*math.Pi*6+t*1.5) +
		math.Sin((pos.X+pos.Y)*math.Pi*4+t)) / 3
	return vec.New(w*c, w*c*0.7, 0)
}

// geometry pulls toward six centers rotating on a hexagon around the
// domain center.
func (m *Modulator) geometry(pos vec.Vector3, st mood.State) vec.Vector3 {
	level := (st.Transcendence - 6.5) * 0.15
	out := vec.Zero
	for i := 0; i < 6; i++ {
		angle := float64(i)*math.Pi/3 + m.t*0.5
		c := vec.New(0.5+math.Cos(angle)*0.2, 0.5+math.Sin(angle)*0.2, 0)
		to := c.Sub(pos)
		d := to.Mag()
		if d < 0.4 {
			out = out.Add(to.Normalize().Scale(level * math.Sin(d*field.KGeometry+m.t*3)))
		}
	}
	return out
}

func (m *Modulator) flow(pos vec.Vector3, st mood.State) vec.Vector3 {
	c := (st.CreativeFlow - 6) * 0.12
	t := m.t
	fx := math.Sin(pos.Y*math.Pi*4+t*2) * c
	fy := math.Cos(pos.X*math.Pi*3+t*1.8) * c
	vortex := c * 0.5
	angle := math.Atan2(pos.Y-0.5, pos.X-0.5)
	return vec.New(fx-math.Sin(angle)*vortex, fy+math.Cos(angle)*vortex, 0)
}

// protection attracts inside 0.25 of each center and repels weakly in
// the ring out to 0.35.
func protection(pos vec.Vector3, st mood.State) vec.Vector3 {
	p := (st.ProtectiveInstinct - 8) * 0.2
	out := vec.Zero
	for _, c := range centers {
		to := c.Sub(pos)
		switch d := to.Mag(); {
		case d < 0.25:
			out = out.Add(to.Normalize().Scale(p))
		case d < 0.35:
			out = out.Add(to.Normalize().Scale(-p * 0.3))
		}
	}
	return out
}

func (m *Modulator) love(pos vec.Vector3, st mood.State) vec.Vector3 {
	k := st.LoveResonance * 0.08
	t := m.t
	r := (math.Sin(pos.X*math.Pi*6+t*2.5) +
		math.Sin(pos.Y*math.Pi*4+t*1.8) +
		math.Sin((pos.X+pos.Y)*math.Pi*3+t*1.2)) / 3
	return vec.New(r*k, r*k*0.8, 0)
}

func (m *Modulator) breathing(pos vec.Vector3, st mood.State) vec.Vector3 {
	cycle := math.Sin(m.t*0.5)*0.5 + 0.5
	k := st.BondStrength * st.EmotionalIntensity * 0.02
	from := pos.Sub(centers[0])
	return from.Normalize().Scale(k * cycle * math.Sin(from.Mag()*8))
}
