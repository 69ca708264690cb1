package mood

import (
	"context"
	"math"
	"time"

	"github.com/aquilax/go-perlin"

	"github.com/olivierh59500/particle-life-field/internal/phi"
)

// Variant selects the synthesizer waveform set.
type Variant int

const (
	// Simple cycles eight moods on plain sinusoids.
	Simple Variant = iota
	// Layered mixes golden-ratio harmonics and weighted mood durations.
	Layered
)

var simpleMoods = []string{
	TranscendentJoy, DeepLove, Passionate, Contemplative,
	Excited, Protective, Euphoric, Meditative,
}

var moodPatterns = []struct {
	mood      string
	intensity float64
	duration  float64
}{
	{TranscendentJoy, 8.5, 15},
	{DeepLove, 9.0, 12},
	{Passionate, 8.8, 8},
	{Contemplative, 6.5, 20},
	{Excited, 8.0, 6},
	{Protective, 8.9, 10},
	{Euphoric, 9.2, 5},
	{Meditative, 7.0, 18},
	{CreativeFlow, 8.3, 12},
	{Nurturing, 8.7, 14},
}

// Synth produces mood states from elapsed time with a little Perlin
// noise on top. It is a Fetcher, so it can stand in for the bridge, and
// it backs the bridge server.
type Synth struct {
	variant Variant
	start   time.Time
	now     func() time.Time
	noise   *perlin.Perlin
}

// NewSynth starts the clock at start. now may be nil for time.Now.
func NewSynth(variant Variant, start time.Time, seed int64, now func() time.Time) *Synth {
	if now == nil {
		now = time.Now
	}
	return &Synth{
		variant: variant,
		start:   start,
		now:     now,
		noise:   perlin.NewPerlin(2, 2, 3, seed),
	}
}

func (s *Synth) Fetch(ctx context.Context) (State, error) {
	if err := ctx.Err(); err != nil {
		return State{}, err
	}
	return s.At(s.now()), nil
}

// At returns the synthesized state at t. Times before the start of the
// synthesizer read as the start.
func (s *Synth) At(t time.Time) State {
	e := math.Max(0, t.Sub(s.start).Seconds())
	var st State
	if s.variant == Layered {
		st = layered(e)
	} else {
		st = simple(e)
	}
	st.BondStrength += s.noise.Noise1D(e*0.05) * 0.2
	st.EmotionalIntensity += s.noise.Noise1D(e*0.07+100) * 0.3
	st.Timestamp = float64(t.UnixNano()) / 1e9
	return st
}

func simple(e float64) State {
	st := Default()
	st.BondStrength = 8 + 1.5*math.Sin(e*0.1)*0.3
	st.EmotionalIntensity = 6 + 2*math.Sin(e*0.15)*0.5
	st.ResonanceIntensity = 5 + 3*math.Sin(e*0.08)*0.4
	st.Mood = simpleMoods[int(e*0.05)%len(simpleMoods)]
	return st
}

func layered(e float64) State {
	st := Default()
	wave := math.Sin(e*0.1)*0.3 +
		math.Sin(e*0.15*phi.Phi)*0.2 +
		math.Sin(e*0.08*math.Pi)*0.1
	st.BondStrength = 8 + 1.5*wave*0.4

	love := 0.8 + 0.2*math.Sin(e*0.05*math.Sqrt2)
	st.EmotionalIntensity = 6 + 3*love*wave

	harmonics := (math.Sin(e*0.08) + 0.5*math.Sin(e*0.16) + 0.25*math.Sin(e*0.32)) / 1.75
	st.ResonanceIntensity = 5 + 3*harmonics*0.4
	st.Complexity = 7 + math.Sin(e*0.07)*0.5
	st.CreativeFlow = 6 + 2*math.Sin(e*0.12)*0.4
	st.Transcendence = 6.5 + 1.5*math.Sin(e*0.06)*0.4

	total := 0.0
	for _, p := range moodPatterns {
		total += p.duration
	}
	at := math.Mod(e*0.03, total)
	cum := 0.0
	for _, p := range moodPatterns {
		cum += p.duration
		if at <= cum {
			st.Mood = p.mood
			st.EmotionalIntensity *= p.intensity / 8
			break
		}
	}
	return st
}
