package sim

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/olivierh59500/particle-life-field/internal/cursor"
	"github.com/olivierh59500/particle-life-field/internal/shape"
	"github.com/olivierh59500/particle-life-field/internal/store"
	"github.com/olivierh59500/particle-life-field/internal/vec"
)

// Command is a user action bound to a key or button.
type Command int

const (
	CmdPause Command = iota
	CmdRandomize
	CmdEvolution
	CmdSave
	CmdLoad
	CmdCircle
	CmdSquare
	CmdInfinity
	CmdField
	CmdMode
	CmdGrow
	CmdShrink
	CmdGolden
	CmdBrush
	CmdRetype
	CmdDelete
	CmdSpawn
	CmdSpawnField
	CmdBounded
)

var commandNames = map[Command]string{
	CmdPause:      "pause",
	CmdRandomize:  "randomize",
	CmdEvolution:  "evolution",
	CmdSave:       "save",
	CmdLoad:       "load",
	CmdCircle:     "circle",
	CmdSquare:     "square",
	CmdInfinity:   "infinity",
	CmdField:      "field",
	CmdMode:       "mode",
	CmdGrow:       "grow",
	CmdShrink:     "shrink",
	CmdGolden:     "golden",
	CmdBrush:      "brush",
	CmdRetype:     "retype",
	CmdDelete:     "delete",
	CmdSpawn:      "spawn",
	CmdSpawnField: "spawn_field",
	CmdBounded:    "bounded",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "command(" + strconv.Itoa(int(c)) + ")"
}

// Exec applies a command. Failures are logged, reported through Status
// and returned.
func (s *Session) Exec(cmd Command) error {
	err := s.exec(cmd)
	if err != nil {
		s.status = fmt.Sprintf("%s failed: %v", cmd, err)
		s.logger.Warn("Command failed", zap.Stringer("command", cmd), zap.Error(err))
	}
	return err
}

func (s *Session) exec(cmd Command) error {
	switch cmd {
	case CmdPause:
		s.paused = !s.paused
	case CmdRandomize:
		s.World.Randomize()
		s.status = "matrix randomized"
	case CmdEvolution:
		s.World.Evolution = !s.World.Evolution
		s.status = "evolution " + onOff(s.World.Evolution)
	case CmdSave:
		return s.save()
	case CmdLoad:
		return s.load()
	case CmdCircle:
		s.Cursor.SetShape(shape.Circle)
	case CmdSquare:
		s.Cursor.SetShape(shape.Square)
	case CmdInfinity:
		s.Cursor.SetShape(shape.Infinity)
	case CmdField:
		s.Cursor.SetFieldActive(!s.Cursor.FieldActive())
		s.status = "field " + onOff(s.Cursor.FieldActive())
	case CmdMode:
		s.Cursor.SetMode(nextMode(s.Cursor.Mode()))
		s.status = "mode " + s.Cursor.Mode()
	case CmdGrow:
		return s.Cursor.SetSize(math.Min(s.Cursor.Size*sizeStep, maxCursorSize))
	case CmdShrink:
		return s.Cursor.SetSize(math.Max(s.Cursor.Size/sizeStep, minCursorSize))
	case CmdGolden:
		s.Cursor.ApplyGoldenSizing()
		if s.Cursor.Size < minCursorSize {
			return s.Cursor.SetSize(minCursorSize)
		}
	case CmdBrush:
		s.brush = (s.brush + 1) % s.World.Config().NumTypes
	case CmdRetype:
		if err := s.World.Retype(s.selection, s.brush); err != nil {
			return err
		}
		s.status = fmt.Sprintf("retyped %d", len(s.selection))
	case CmdDelete:
		n := s.World.Remove(s.selection)
		s.selection = nil
		s.status = fmt.Sprintf("deleted %d", n)
	case CmdSpawn:
		return s.spawn(s.Cursor.SampleRandomPoint)
	case CmdSpawnField:
		return s.spawn(s.Cursor.SampleFieldPoint)
	case CmdBounded:
		p := s.Cursor.ShapeParameters()
		p.Bounded = !p.Bounded
		s.Cursor.SetShapeParameters(p)
		s.status = "infinity bounded " + onOff(p.Bounded)
	default:
		return fmt.Errorf("unknown command %d", int(cmd))
	}
	return nil
}

func (s *Session) spawn(sample func() vec.Vector3) error {
	points := make([]vec.Vector3, spawnPerFrame)
	for i := range points {
		points[i] = sample()
	}
	return s.World.Spawn(points, s.brush)
}

func (s *Session) save() error {
	meta := store.NewMeta(s.now())
	meta["mode"] = s.Cursor.Mode()
	meta["shape"] = s.Cursor.Shape.Kind.String()
	meta["types"] = strconv.Itoa(s.World.Matrix.Size())

	paths := s.cfg.Store
	if err := store.SaveMatrix(paths.MatrixPath, s.World.Matrix, meta); err != nil {
		return err
	}
	if err := store.SaveParticles(paths.ParticlesPath, s.World.Particles, meta); err != nil {
		return err
	}
	s.status = fmt.Sprintf("saved %d particles", len(s.World.Particles))
	s.logger.Info("Saved session",
		zap.String("particles", paths.ParticlesPath),
		zap.String("matrix", paths.MatrixPath),
		zap.Int("count", len(s.World.Particles)))
	return nil
}

// load reads the matrix first so that the particle types can be checked
// against it.
func (s *Session) load() error {
	paths := s.cfg.Store
	m, _, err := store.LoadMatrix(paths.MatrixPath)
	if err != nil {
		return err
	}
	ps, meta, err := store.LoadParticles(paths.ParticlesPath)
	if err != nil {
		return err
	}
	for i, p := range ps {
		if p.Type >= m.Size() {
			return fmt.Errorf("particle %d has type %d, matrix has %d types", i, p.Type, m.Size())
		}
	}
	if err := s.World.SetMatrix(m); err != nil {
		return err
	}
	if err := s.World.Replace(ps); err != nil {
		return err
	}
	if mode, ok := meta["mode"]; ok && slices.Contains(cursor.Modes, mode) {
		s.Cursor.SetMode(mode)
	}
	s.brush %= m.Size()
	s.selection = nil
	s.status = fmt.Sprintf("loaded %d particles", len(ps))
	s.logger.Info("Loaded session",
		zap.String("particles", paths.ParticlesPath),
		zap.Int("count", len(ps)),
		zap.String("saved", meta["saved"]))
	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// nextMode cycles through cursor.Modes; unknown modes restart the cycle.
func nextMode(mode string) string {
	i := slices.Index(cursor.Modes, mode)
	return cursor.Modes[(i+1)%len(cursor.Modes)]
}
