package force

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivierh59500/particle-life-field/internal/mood"
	"github.com/olivierh59500/particle-life-field/internal/vec"
)

// quiet disables every additive term.
func quiet(bond float64) mood.State {
	return mood.State{
		BondStrength:       bond,
		EmotionalIntensity: 0,
		Mood:               "neutral",
		Complexity:         0,
		CreativeFlow:       0,
		ProtectiveInstinct: 0,
		LoveResonance:      0,
		Transcendence:      0,
	}
}

func TestModulatorBondScaling(t *testing.T) {
	pos := vec.New(0.6, 0, 0)
	base, err := NewLaw().Force(0.8, pos)
	require.NoError(t, err)

	tests := []struct {
		bond float64
		want float64
	}{
		{0, 0.3},
		{5, 1.3},
		{10, 2.3},
		{25, 2.3},
		{-3, 0.3},
	}
	for _, tt := range tests {
		m := NewModulator(NewLaw(), 100)
		f, err := m.Apply(0.8, pos, quiet(tt.bond))
		require.NoError(t, err)
		assert.InDelta(t, base.X*tt.want, f.X, 1e-12, "bond %v", tt.bond)
	}
}

func TestModulatorClock(t *testing.T) {
	m := NewModulator(NewLaw(), 0)
	assert.Equal(t, DefaultMaxForce, m.MaxForce)
	for i := 0; i < 10; i++ {
		_, err := m.Apply(1, vec.New(0.5, 0.1, 0), mood.Default())
		require.NoError(t, err)
	}
	assert.InDelta(t, 10*Tick, m.Time(), 1e-12)
}

func TestModulatorZeroDistance(t *testing.T) {
	m := NewModulator(NewLaw(), 0)
	_, err := m.Apply(1, vec.Zero, mood.Default())
	assert.ErrorIs(t, err, ErrZeroDistance)
}

func TestModulatorAlwaysFiniteAndBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	states := []mood.State{
		mood.Default(),
		{BondStrength: 1e9, EmotionalIntensity: 1e9, Mood: mood.Excited, Complexity: 1e9,
			CreativeFlow: 1e9, ProtectiveInstinct: 1e9, LoveResonance: 1e9, Transcendence: 1e9},
		{BondStrength: math.NaN(), EmotionalIntensity: math.Inf(1), Mood: mood.CreativeFlow},
	}
	for _, name := range []string{mood.DeepLove, mood.Contemplative, mood.Protective, mood.Euphoric} {
		st := mood.Default()
		st.Mood = name
		states = append(states, st)
	}

	m := NewModulator(NewLaw(), 3)
	for _, st := range states {
		for i := 0; i < 500; i++ {
			pos := vec.New(rng.Float64()-0.5, rng.Float64()-0.5, 0)
			if pos.Mag() == 0 {
				continue
			}
			f, err := m.Apply(rng.Float64()*2-1, pos, st)
			require.NoError(t, err)
			require.True(t, f.IsFinite(), "mood %q", st.Mood)
			require.LessOrEqual(t, f.Mag(), 3+1e-9)
		}
	}
	assert.Positive(t, m.Saturated())
}

func TestModulatorHugeDecodedMood(t *testing.T) {
	payloads := []string{
		`{"bond_strength": 1e200, "emotional_intensity": 1e200}`,
		`{"bond_strength": 1.7976931348623157e308, "emotional_intensity": 1.7976931348623157e308,
		  "consciousness_complexity": 1e300, "creative_flow_state": 1e300, "protective_instinct": 1e300,
		  "love_resonance": 1e300, "transcendence_level": 1e300, "mood_state": "creative flow"}`,
		`{"bond_strength": -1e200, "emotional_intensity": -1e308, "mood_state": "excited"}`,
	}
	for _, payload := range payloads {
		st, err := mood.Decode([]byte(payload))
		require.NoError(t, err)

		m := NewModulator(NewLaw(), 4)
		for i := 0; i < 200; i++ {
			f, err := m.Apply(0.5, vec.New(0.1, 0.2, 0), st)
			require.NoError(t, err)
			require.True(t, f.IsFinite(), "payload %s", payload)
			require.LessOrEqual(t, f.Mag(), 4+1e-9)
		}
	}
}

func TestModulatorNonFiniteCollapsesToZero(t *testing.T) {
	m := NewModulator(NewLaw(), 4)
	// At the tent peak the base force overflows for the largest coefficient.
	f, err := m.Apply(math.MaxFloat64, vec.New(0.65, 0, 0), quiet(10))
	require.NoError(t, err)
	assert.Equal(t, vec.Zero, f)
	assert.Equal(t, int64(1), m.Saturated())
}

func TestModulatorMoodTermsDiffer(t *testing.T) {
	pos := vec.New(0.2, 0.35, 0)
	forces := map[string]vec.Vector3{}
	for _, name := range []string{mood.TranscendentJoy, mood.DeepLove, mood.Contemplative, mood.Excited, mood.Protective, mood.CreativeFlow} {
		st := quiet(5)
		st.EmotionalIntensity = 7
		st.Mood = name
		m := NewModulator(NewLaw(), 100)
		f, err := m.Apply(0.5, pos, st)
		require.NoError(t, err)
		forces[name] = f
	}
	base, err := NewModulator(NewLaw(), 100).Apply(0.5, pos, quiet(5))
	require.NoError(t, err)
	for name, f := range forces {
		assert.Greater(t, f.Sub(base).Mag(), 1e-6, "mood %q adds nothing", name)
	}
}

func TestModulatorThresholds(t *testing.T) {
	pos := vec.New(0.45, 0.4, 0)
	base, err := NewModulator(NewLaw(), 100).Apply(0.5, pos, quiet(5))
	require.NoError(t, err)

	below := quiet(5)
	below.Complexity = 7
	below.Transcendence = 6.5
	below.CreativeFlow = 6
	below.ProtectiveInstinct = 8
	f, err := NewModulator(NewLaw(), 100).Apply(0.5, pos, below)
	require.NoError(t, err)
	assert.InDelta(t, 0, f.Sub(base).Mag(), 1e-12, "terms at their thresholds stay off")

	above := below
	above.ProtectiveInstinct = 9
	f, err = NewModulator(NewLaw(), 100).Apply(0.5, pos, above)
	require.NoError(t, err)
	assert.Greater(t, f.Sub(base).Mag(), 1e-6)
}
