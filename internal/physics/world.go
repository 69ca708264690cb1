// Package physics advances particles in the periodic unit domain under
// the modulated force law.
package physics

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/olivierh59500/particle-life-field/internal/force"
	"github.com/olivierh59500/particle-life-field/internal/mood"
	"github.com/olivierh59500/particle-life-field/internal/particle"
	"github.com/olivierh59500/particle-life-field/internal/vec"
)

// Config holds the integration parameters.
type Config struct {
	NumTypes       int
	RMax           float64 // interaction radius in domain units
	Friction       float64 // velocity loss per unit time
	ForceFactor    float64
	DT             float64
	Wrap           bool
	MaxForce       float64
	EvolutionEvery int
	MutationSigma  float64
}

// DefaultConfig mirrors the settings shipped in the default config file.
func DefaultConfig() Config {
	return Config{
		NumTypes:       6,
		RMax:           0.1,
		Friction:       2.0,
		ForceFactor:    1.0,
		DT:             0.02,
		Wrap:           true,
		MaxForce:       force.DefaultMaxForce,
		EvolutionEvery: 1000,
		MutationSigma:  0.1,
	}
}

func (c Config) Validate() error {
	switch {
	case c.NumTypes < 1:
		return fmt.Errorf("num types must be at least 1, got %d", c.NumTypes)
	case c.RMax <= 0 || c.RMax > 0.5:
		return fmt.Errorf("rmax must be in (0, 0.5], got %v", c.RMax)
	case c.DT <= 0:
		return fmt.Errorf("dt must be positive, got %v", c.DT)
	case c.Friction < 0 || c.Friction*c.DT >= 1:
		return fmt.Errorf("friction %v too strong for dt %v", c.Friction, c.DT)
	}
	return nil
}

// StepStats reports what happened during one Step.
type StepStats struct {
	Pairs      int
	Coincident int
	Saturated  int64
}

// World owns the particles, the coefficient matrix and the modulator.
// It is driven from a single goroutine.
type World struct {
	Particles []particle.Particle
	Matrix    force.Matrix
	Evolution bool

	cfg   Config
	mod   *force.Modulator
	grid  int
	bins  map[int][]int
	accel []vec.Vector3
	tick  int
	rng   *rand.Rand
}

// New seeds n particles uniformly with random types and a random matrix.
func New(cfg Config, n int, rng *rand.Rand) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		Matrix: force.NewRandomMatrix(cfg.NumTypes, rng),
		cfg:    cfg,
		mod:    force.NewModulator(force.NewLaw(), cfg.MaxForce),
		grid:   int(math.Floor(1 / cfg.RMax)),
		bins:   make(map[int][]int),
		rng:    rng,
	}
	w.Particles = make([]particle.Particle, n)
	for i := range w.Particles {
		w.Particles[i] = particle.Particle{
			Position: vec.New(rng.Float64(), rng.Float64(), 0),
			Type:     rng.Intn(cfg.NumTypes),
		}
	}
	return w, nil
}

func (w *World) Config() Config { return w.cfg }

func (w *World) Tick() int { return w.tick }

// Modulator exposes the force modulator for inspection.
func (w *World) Modulator() *force.Modulator { return w.mod }

// Step advances the world by one DT using the given mood snapshot.
func (w *World) Step(st mood.State) StepStats {
	var stats StepStats
	saturatedBefore := w.mod.Saturated()

	w.buildBins()
	if cap(w.accel) < len(w.Particles) {
		w.accel = make([]vec.Vector3, len(w.Particles))
	}
	w.accel = w.accel[:len(w.Particles)]
	for i := range w.accel {
		w.accel[i] = vec.Zero
	}

	for i := range w.Particles {
		p := &w.Particles[i]
		w.forEachNeighbor(i, func(j int) {
			q := &w.Particles[j]
			delta := q.Position.Sub(p.Position)
			if w.cfg.Wrap {
				delta = delta.Wrap()
			}
			r := delta.Mag()
			if r >= w.cfg.RMax {
				return
			}
			if r == 0 {
				stats.Coincident++
				return
			}
			f, err := w.mod.Apply(w.Matrix[p.Type][q.Type], delta.Div(w.cfg.RMax), st)
			if err != nil {
				stats.Coincident++
				return
			}
			stats.Pairs++
			w.accel[i] = w.accel[i].Add(f)
		})
	}

	damp := 1 - w.cfg.Friction*w.cfg.DT
	for i := range w.Particles {
		p := &w.Particles[i]
		p.Velocity = p.Velocity.Scale(damp).Add(w.accel[i].Scale(w.cfg.RMax * w.cfg.ForceFactor * w.cfg.DT))
		p.Position = p.Position.Add(p.Velocity.Scale(w.cfg.DT))
		w.confine(p)
	}

	w.tick++
	if w.Evolution && w.cfg.EvolutionEvery > 0 && w.tick%w.cfg.EvolutionEvery == 0 {
		w.Matrix.Mutate(w.rng, w.cfg.MutationSigma)
	}
	stats.Saturated = w.mod.Saturated() - saturatedBefore
	return stats
}

// confine keeps p in the unit domain: periodic when wrapping, otherwise
// reflecting at the walls.
func (w *World) confine(p *particle.Particle) {
	if w.cfg.Wrap {
		p.Position = p.Position.Mod()
		return
	}
	if p.Position.X < 0 || p.Position.X > 1 {
		p.Position.X = math.Max(0, math.Min(1, p.Position.X))
		p.Velocity.X = -p.Velocity.X
	}
	if p.Position.Y < 0 || p.Position.Y > 1 {
		p.Position.Y = math.Max(0, math.Min(1, p.Position.Y))
		p.Velocity.Y = -p.Velocity.Y
	}
}

func (w *World) binOf(pos vec.Vector3) (int, int) {
	bx := int(pos.X * float64(w.grid))
	by := int(pos.Y * float64(w.grid))
	return clampBin(bx, w.grid), clampBin(by, w.grid)
}

func clampBin(b, n int) int {
	if b < 0 {
		return 0
	}
	if b >= n {
		return n - 1
	}
	return b
}

func binKey(bx, by int) int { return bx*10000 + by }

// buildBins assigns particles to grid bins of side at least RMax.
func (w *World) buildBins() {
	for k := range w.bins {
		w.bins[k] = w.bins[k][:0]
	}
	for i := range w.Particles {
		bx, by := w.binOf(w.Particles[i].Position)
		k := binKey(bx, by)
		w.bins[k] = append(w.bins[k], i)
	}
}

// forEachNeighbor visits every particle other than i in the 3x3 block of
// bins around i. With fewer than three bins per axis the blocks would
// overlap, so every particle is visited instead.
func (w *World) forEachNeighbor(i int, visit func(j int)) {
	if w.grid < 3 {
		for j := range w.Particles {
			if j != i {
				visit(j)
			}
		}
		return
	}
	bx, by := w.binOf(w.Particles[i].Position)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			nx, ny := bx+dx, by+dy
			if w.cfg.Wrap {
				nx = (nx + w.grid) % w.grid
				ny = (ny + w.grid) % w.grid
			} else if nx < 0 || ny < 0 || nx >= w.grid || ny >= w.grid {
				continue
			}
			for _, j := range w.bins[binKey(nx, ny)] {
				if j != i {
					visit(j)
				}
			}
		}
	}
}
