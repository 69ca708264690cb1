// Package config loads particlefield settings from TOML, environment and
// flags through viper.
package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/viper"

	"github.com/olivierh59500/particle-life-field/internal/cursor"
	"github.com/olivierh59500/particle-life-field/internal/mood"
	"github.com/olivierh59500/particle-life-field/internal/physics"
	"github.com/olivierh59500/particle-life-field/internal/shape"
)

// Mood sources.
const (
	SourceBridge  = "bridge"
	SourceSynth   = "synth"
	SourceDefault = "default"
)

// Config is the full application configuration.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Cursor     CursorConfig     `mapstructure:"cursor"`
	Mood       MoodConfig       `mapstructure:"mood"`
	Bridge     BridgeConfig     `mapstructure:"bridge"`
	Store      StoreConfig      `mapstructure:"store"`
}

type LoggerConfig struct {
	Level       string      `mapstructure:"level"`
	Format      string      `mapstructure:"format"`
	AddSource   bool        `mapstructure:"add_source"`
	ServiceName string      `mapstructure:"service_name"`
	LogFile     string      `mapstructure:"log_file"`
	MaxSize     int         `mapstructure:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups"`
	MaxAge      int         `mapstructure:"max_age"`
	Compress    bool        `mapstructure:"compress"`
	Colors      ColorConfig `mapstructure:"colors"`
}

// ColorConfig names the console color for each level.
type ColorConfig struct {
	Debug string `mapstructure:"debug"`
	Info  string `mapstructure:"info"`
	Warn  string `mapstructure:"warn"`
	Error string `mapstructure:"error"`
	Fatal string `mapstructure:"fatal"`
}

// SimulationConfig covers the world and the window.
type SimulationConfig struct {
	Particles      int     `mapstructure:"particles"`
	NumTypes       int     `mapstructure:"num_types"`
	RMax           float64 `mapstructure:"rmax"`
	Friction       float64 `mapstructure:"friction"`
	ForceFactor    float64 `mapstructure:"force_factor"`
	DT             float64 `mapstructure:"dt"`
	Wrap           bool    `mapstructure:"wrap"`
	MaxForce       float64 `mapstructure:"max_force"`
	EvolutionEvery int     `mapstructure:"evolution_every"`
	MutationSigma  float64 `mapstructure:"mutation_sigma"`
	Seed           int64   `mapstructure:"seed"`
	Width          int     `mapstructure:"width"`
	Height         int     `mapstructure:"height"`
	TPS            int     `mapstructure:"tps"`
}

// Physics converts the section into the integrator's config.
func (s SimulationConfig) Physics() physics.Config {
	return physics.Config{
		NumTypes:       s.NumTypes,
		RMax:           s.RMax,
		Friction:       s.Friction,
		ForceFactor:    s.ForceFactor,
		DT:             s.DT,
		Wrap:           s.Wrap,
		MaxForce:       s.MaxForce,
		EvolutionEvery: s.EvolutionEvery,
		MutationSigma:  s.MutationSigma,
	}
}

type CursorConfig struct {
	Shape         string  `mapstructure:"shape"`
	Size          float64 `mapstructure:"size"`
	Mode          string  `mapstructure:"mode"`
	Intensity     float64 `mapstructure:"intensity"`
	FieldStrength float64 `mapstructure:"field_strength"`
	FieldRadius   float64 `mapstructure:"field_radius"`
	Resonance     float64 `mapstructure:"resonance"`
	FieldActive   bool    `mapstructure:"field_active"`

	ShapeIntensity  float64 `mapstructure:"shape_intensity"`
	ShapeStrength   float64 `mapstructure:"shape_strength"`
	InfinityRadius  float64 `mapstructure:"infinity_radius"`
	InfinityBounded bool    `mapstructure:"infinity_bounded"`
}

// ShapeParams collects the shape settings applied to every cursor shape.
func (c CursorConfig) ShapeParams() shape.Params {
	return shape.Params{
		Intensity: c.ShapeIntensity,
		Strength:  c.ShapeStrength,
		Radius:    c.InfinityRadius,
		Bounded:   c.InfinityBounded,
	}
}

// MoodConfig selects where the mood state comes from.
type MoodConfig struct {
	Source         string        `mapstructure:"source"`
	BridgeURL      string        `mapstructure:"bridge_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Interval       time.Duration `mapstructure:"interval"`
	ModelsURL      string        `mapstructure:"models_url"`
	ModelsTimeout  time.Duration `mapstructure:"models_timeout"`
	ModelsInterval time.Duration `mapstructure:"models_interval"`
	SynthVariant   string        `mapstructure:"synth_variant"`
}

// Variant parses SynthVariant.
func (m MoodConfig) Variant() (mood.Variant, error) {
	switch m.SynthVariant {
	case "simple":
		return mood.Simple, nil
	case "layered", "":
		return mood.Layered, nil
	}
	return 0, fmt.Errorf("unknown synth variant %q", m.SynthVariant)
}

type BridgeConfig struct {
	Listen          string        `mapstructure:"listen"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StoreConfig struct {
	ParticlesPath string `mapstructure:"particles_path"`
	MatrixPath    string `mapstructure:"matrix_path"`
}

// NewDefaultConfig returns the configuration built from defaults alone.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults registers every default with v.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "particlefield")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 20)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Simulation --
	def := physics.DefaultConfig()
	v.SetDefault("simulation.particles", 3000)
	v.SetDefault("simulation.num_types", def.NumTypes)
	v.SetDefault("simulation.rmax", def.RMax)
	v.SetDefault("simulation.friction", def.Friction)
	v.SetDefault("simulation.force_factor", def.ForceFactor)
	v.SetDefault("simulation.dt", def.DT)
	v.SetDefault("simulation.wrap", def.Wrap)
	v.SetDefault("simulation.max_force", def.MaxForce)
	v.SetDefault("simulation.evolution_every", def.EvolutionEvery)
	v.SetDefault("simulation.mutation_sigma", def.MutationSigma)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.width", 900)
	v.SetDefault("simulation.height", 900)
	v.SetDefault("simulation.tps", 60)

	// -- Cursor --
	v.SetDefault("cursor.shape", shape.Circle.String())
	v.SetDefault("cursor.size", cursor.DefaultSize)
	v.SetDefault("cursor.mode", cursor.ModeAesthetic)
	v.SetDefault("cursor.intensity", cursor.DefaultIntensity)
	v.SetDefault("cursor.field_strength", cursor.DefaultFieldStrength)
	v.SetDefault("cursor.field_radius", cursor.DefaultFieldRadius)
	v.SetDefault("cursor.resonance", cursor.DefaultResonance)
	v.SetDefault("cursor.field_active", true)
	shapeDef := shape.DefaultParams()
	v.SetDefault("cursor.shape_intensity", shapeDef.Intensity)
	v.SetDefault("cursor.shape_strength", shapeDef.Strength)
	v.SetDefault("cursor.infinity_radius", shapeDef.Radius)
	v.SetDefault("cursor.infinity_bounded", shapeDef.Bounded)

	// -- Mood --
	v.SetDefault("mood.source", SourceBridge)
	v.SetDefault("mood.bridge_url", mood.DefaultBridgeURL)
	v.SetDefault("mood.timeout", mood.DefaultBridgeTimeout)
	v.SetDefault("mood.interval", mood.DefaultInterval)
	v.SetDefault("mood.models_url", mood.DefaultModelsURL)
	v.SetDefault("mood.models_timeout", mood.DefaultModelsTimeout)
	v.SetDefault("mood.models_interval", mood.DefaultModelInterval)
	v.SetDefault("mood.synth_variant", "layered")

	// -- Bridge --
	v.SetDefault("bridge.listen", "127.0.0.1:8765")
	v.SetDefault("bridge.shutdown_timeout", "5s")

	// -- Store --
	v.SetDefault("store.particles_path", "particles.tsv")
	v.SetDefault("store.matrix_path", "matrix.tsv")
}

// NewConfigFromViper unmarshals and validates.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if err := c.Simulation.Physics().Validate(); err != nil {
		return fmt.Errorf("simulation: %w", err)
	}
	if c.Simulation.Particles < 0 {
		return fmt.Errorf("simulation.particles must not be negative")
	}
	if c.Simulation.Width <= 0 || c.Simulation.Height <= 0 {
		return fmt.Errorf("simulation window must have a positive size")
	}
	if _, err := shape.ParseKind(c.Cursor.Shape); err != nil {
		return fmt.Errorf("cursor.shape: %w", err)
	}
	if c.Cursor.Size <= 0 {
		return fmt.Errorf("cursor.size must be positive")
	}
	if !slices.Contains(cursor.Modes, c.Cursor.Mode) {
		return fmt.Errorf("cursor.mode %q is not one of %v", c.Cursor.Mode, cursor.Modes)
	}
	if c.Cursor.ShapeStrength < 0 || c.Cursor.ShapeStrength > 1 {
		return fmt.Errorf("cursor.shape_strength must be within [0, 1]")
	}
	if c.Cursor.ShapeIntensity < 0 {
		return fmt.Errorf("cursor.shape_intensity must not be negative")
	}
	if c.Cursor.InfinityRadius <= 0 {
		return fmt.Errorf("cursor.infinity_radius must be positive")
	}
	switch c.Mood.Source {
	case SourceBridge, SourceSynth, SourceDefault:
	default:
		return fmt.Errorf("mood.source must be bridge, synth or default, got %q", c.Mood.Source)
	}
	if c.Mood.Interval <= 0 {
		return fmt.Errorf("mood.interval must be positive")
	}
	if _, err := c.Mood.Variant(); err != nil {
		return fmt.Errorf("mood.synth_variant: %w", err)
	}
	return nil
}
