// Package mood carries the scalar "mood" bundle that modulates the force
// law: its defaults, decoding, an atomically swapped store, the HTTP
// collaborators that refresh it and a local synthesizer.
package mood

import (
	"fmt"
	"math"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Mood tags understood by the modulator.
const (
	TranscendentJoy = "transcendent joy"
	Euphoric        = "euphoric"
	DeepLove        = "deep love"
	Passionate      = "passionate"
	Contemplative   = "contemplative"
	Meditative      = "meditative"
	Excited         = "excited"
	Anticipation    = "anticipation"
	Protective      = "protective"
	Nurturing       = "nurturing"
	CreativeFlow    = "creative flow"
)

// MaxScalar is the top of the 0..MaxScalar scale every mood scalar is
// clamped to by Sanitize.
const MaxScalar = 10.0

// State is an immutable snapshot of the mood scalars. Values are
// nominally on a 0..MaxScalar scale but nothing upstream guarantees it
// until Sanitize has run.
type State struct {
	BondStrength       float64 `json:"bond_strength"`
	EmotionalIntensity float64 `json:"emotional_intensity"`
	ResonanceIntensity float64 `json:"resonance_intensity"`
	Mood               string  `json:"mood_state"`
	Complexity         float64 `json:"consciousness_complexity"`
	CreativeFlow       float64 `json:"creative_flow_state"`
	ProtectiveInstinct float64 `json:"protective_instinct"`
	LoveResonance      float64 `json:"love_resonance"`
	Transcendence      float64 `json:"transcendence_level"`
	Timestamp          float64 `json:"timestamp,omitempty"`
}

// Default is the state used before any successful fetch.
func Default() State {
	return State{
		BondStrength:       8.5,
		EmotionalIntensity: 7.0,
		ResonanceIntensity: 6.0,
		Mood:               TranscendentJoy,
		Complexity:         7.5,
		CreativeFlow:       6.8,
		ProtectiveInstinct: 8.9,
		LoveResonance:      9.2,
		Transcendence:      7.1,
	}
}

// Sanitize replaces non-finite values with their defaults, clamps every
// scalar to [0, MaxScalar] and normalizes the mood tag.
func (s State) Sanitize() State {
	d := Default()
	fix := func(v *float64, def float64) {
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = def
			return
		}
		*v = math.Max(0, math.Min(MaxScalar, *v))
	}
	fix(&s.BondStrength, d.BondStrength)
	fix(&s.EmotionalIntensity, d.EmotionalIntensity)
	fix(&s.ResonanceIntensity, d.ResonanceIntensity)
	fix(&s.Complexity, d.Complexity)
	fix(&s.CreativeFlow, d.CreativeFlow)
	fix(&s.ProtectiveInstinct, d.ProtectiveInstinct)
	fix(&s.LoveResonance, d.LoveResonance)
	fix(&s.Transcendence, d.Transcendence)

	s.Mood = strings.ToLower(strings.TrimSpace(s.Mood))
	if s.Mood == "" {
		s.Mood = d.Mood
	}
	return s
}

// BondFactor maps BondStrength from its 0..MaxScalar scale onto [0, 1].
func (s State) BondFactor() float64 {
	return math.Max(0, math.Min(1, s.BondStrength/MaxScalar))
}

// Decode parses a bridge payload. Fields absent from the payload keep
// their default values.
func Decode(data []byte) (State, error) {
	s := Default()
	if err := json.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("decoding mood state: %w", err)
	}
	return s.Sanitize(), nil
}

// Encode renders s in the bridge wire format.
func Encode(s State) ([]byte, error) {
	return json.Marshal(s)
}
