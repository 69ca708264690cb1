// Package sim ties the world, the cursor and the mood store into one
// interactive session. It holds no rendering code; internal/ui drives it
// once per frame.
package sim

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/olivierh59500/particle-life-field/internal/config"
	"github.com/olivierh59500/particle-life-field/internal/cursor"
	"github.com/olivierh59500/particle-life-field/internal/mood"
	"github.com/olivierh59500/particle-life-field/internal/physics"
	"github.com/olivierh59500/particle-life-field/internal/shape"
	"github.com/olivierh59500/particle-life-field/internal/vec"
)

const (
	statsEvery    = 15
	spawnPerFrame = 8
	sizeStep      = 1.1
	minCursorSize = 0.005
	maxCursorSize = 0.5
)

// Session is owned by the render loop and is not safe for concurrent use.
// The mood store is the only shared piece and is read lock-free.
type Session struct {
	World  *physics.World
	Cursor *cursor.Cursor

	cfg    *config.Config
	moods  *mood.Store
	logger *zap.Logger
	now    func() time.Time

	paused    bool
	brush     int
	frame     int64
	selection []int
	selStats  cursor.SelectionStats
	stats     physics.StepStats
	status    string
}

// NewSession seeds a world and a cursor from cfg. A zero seed uses the
// clock.
func NewSession(cfg *config.Config, moods *mood.Store, logger *zap.Logger) (*Session, error) {
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	world, err := physics.New(cfg.Simulation.Physics(), cfg.Simulation.Particles, rng)
	if err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}
	kind, err := shape.ParseKind(cfg.Cursor.Shape)
	if err != nil {
		return nil, err
	}
	c := cursor.New(kind, rng)
	c.SetShapeParameters(cfg.Cursor.ShapeParams())
	if err := c.SetSize(cfg.Cursor.Size); err != nil {
		return nil, err
	}
	c.SetParameters(cfg.Cursor.Intensity, cfg.Cursor.FieldStrength, cfg.Cursor.Resonance, cfg.Cursor.Mode)
	c.SetFieldRadius(cfg.Cursor.FieldRadius)
	c.SetFieldActive(cfg.Cursor.FieldActive)
	c.Position = vec.New(0.5, 0.5, 0)

	logger = logger.Named("sim")
	logger.Info("Session created",
		zap.Int("particles", len(world.Particles)),
		zap.Int("types", cfg.Simulation.NumTypes),
		zap.Int64("seed", seed),
		zap.Stringer("shape", kind))

	return &Session{
		World:  world,
		Cursor: c,
		cfg:    cfg,
		moods:  moods,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Tick runs one frame: the cursor field follows the clock, the world
// steps under the current mood unless paused, and the selection is
// recomputed.
func (s *Session) Tick() {
	s.frame++
	s.Cursor.Advance(s.now())
	if !s.paused {
		s.stats = s.World.Step(s.moods.Load())
	}
	wrap := s.Wrap()
	s.selection = s.Cursor.Selection(s.World.Particles, wrap)
	if s.frame%statsEvery == 1 {
		s.selStats = s.Cursor.Stats(s.World.Particles, wrap)
	}
}

// MoveCursor places the cursor, folding into the domain when wrapping.
func (s *Session) MoveCursor(p vec.Vector3) {
	if s.Wrap() {
		p = p.Mod()
	}
	s.Cursor.Position = p
}

func (s *Session) Wrap() bool { return s.World.Config().Wrap }

func (s *Session) Paused() bool { return s.paused }

// Brush is the type given to spawned and retyped particles.
func (s *Session) Brush() int { return s.brush }

// Selection is the index set computed by the last Tick.
func (s *Session) Selection() []int { return s.selection }

func (s *Session) SelectionStats() cursor.SelectionStats { return s.selStats }

func (s *Session) StepStats() physics.StepStats { return s.stats }

// Status is the outcome of the last command, shown in the HUD.
func (s *Session) Status() string { return s.status }

func (s *Session) Mood() mood.Snapshot { return s.moods.Snapshot() }

func (s *Session) Models() mood.ModelStatus { return s.moods.Models() }
